package payment

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/phpdave11/gofpdf"
)

// BuildReceiptPDF renders a downloadable booking receipt for a paid attempt.
func BuildReceiptPDF(s Summary, issuedAt time.Time) ([]byte, string, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Booking Receipt", false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "BOOKING RECEIPT")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 12)
	lines := []string{
		fmt.Sprintf("Reference    : %s", safe(s.ReferenceNumber)),
		fmt.Sprintf("Issued       : %s", issuedAt.Format("2006-01-02 15:04")),
		fmt.Sprintf("Trip         : %s", safe(s.TripName)),
		fmt.Sprintf("Date         : %s", safe(s.Date)),
		fmt.Sprintf("Participants : %d", s.Participants),
		fmt.Sprintf("Total        : Rp %d", s.TotalPrice),
	}
	if s.GuideName != "" {
		lines = append(lines, fmt.Sprintf("Guide        : %s (%s)", s.GuideName, safe(s.GuideContact)))
	}
	if s.PorterName != "" {
		lines = append(lines, fmt.Sprintf("Porter       : %s (%s)", s.PorterName, safe(s.PorterContact)))
	}
	for _, line := range lines {
		pdf.Cell(0, 7, line)
		pdf.Ln(7)
	}

	pdf.Ln(6)
	pdf.SetFont("Helvetica", "I", 10)
	pdf.MultiCell(0, 6, "Keep this receipt and your reference number; the guide or porter will ask for it at the meeting point.", "", "", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("RECEIPT_%s.pdf", safeFilenamePart(s.ReferenceNumber))
	return buf.Bytes(), filename, nil
}

func safe(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}

func safeFilenamePart(s string) string {
	replacer := strings.NewReplacer("/", "-", "\\", "-", " ", "_", ":", "-")
	out := replacer.Replace(strings.TrimSpace(s))
	if out == "" {
		return "booking"
	}
	return out
}
