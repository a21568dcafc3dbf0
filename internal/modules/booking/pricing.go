package booking

import (
	"regexp"
	"strconv"
	"strings"

	"summittrek/internal/pkg/validator"
)

// Fixed rates, in rupiah. Insurance is charged per participant; the admin fee
// once per booking.
const (
	InsurancePerParticipant int64 = 25000
	AdminFee                int64 = 15000
	DocumentationPrice      int64 = 150000
	EquipmentPrice          int64 = 75000
)

// AddOn is one optional service line.
type AddOn struct {
	Name  string `json:"name"`
	Price int64  `json:"price"`
}

// ItemDetail is one line of the audit breakdown sent to the payment backend.
type ItemDetail struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
	Price    int64  `json:"price"`
	Category string `json:"category"`
}

// PriceSummary is derived from the draft on every evaluation; it is never
// stored or mutated independently.
type PriceSummary struct {
	ServiceLabel  string  `json:"service"`
	BasePrice     int64   `json:"base_price"`
	Participants  int     `json:"participants"`
	DurationDays  int     `json:"duration_days"`
	AddOns        []AddOn `json:"additional_services"`
	InsuranceRate int64   `json:"insurance"`
	AdminFee      int64   `json:"admin_fee"`
}

// Validate checks the submission preconditions. The three failure groups
// mirror the form's inline messages; the first failing group wins.
func (d Draft) Validate() error {
	if d.FullName == "" || d.Phone == "" || d.EmergencyContact == "" {
		return ErrContactIncomplete
	}
	if d.ServiceType == "" || d.Destination == "" || d.StartDate == "" || d.Duration == "" || d.Participants < 1 {
		return ErrTripIncomplete
	}
	if !validator.IsEmail(d.Email) {
		return ErrEmailRequired
	}
	return nil
}

var leadingDays = regexp.MustCompile(`(\d+)d`)

// ParseDurationDays extracts the day count from a duration code: "3d2n" is 3
// days, a bare "4" is 4 days. When the code is unparseable the second return
// is false and the count defaults to 1 day. Callers must log this, since it
// silently prices a malformed trip as a day trip instead of rejecting it.
func ParseDurationDays(code string) (int, bool) {
	code = strings.TrimSpace(code)
	if m := leadingDays.FindStringSubmatch(code); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil && n > 0 {
			return n, true
		}
	}
	if n, err := strconv.Atoi(code); err == nil && n > 0 {
		return n, true
	}
	return 1, false
}

// Summarize derives the price summary from the current draft and the resolved
// preselection. Pure: same inputs, same summary.
func Summarize(d Draft, p Prefill) PriceSummary {
	days, _ := ParseDurationDays(d.Duration)

	s := PriceSummary{
		ServiceLabel:  serviceLabel(p),
		BasePrice:     basePrice(p),
		Participants:  d.Participants,
		DurationDays:  days,
		InsuranceRate: InsurancePerParticipant,
		AdminFee:      AdminFee,
	}

	if p.AdditionalPorter != nil {
		s.AddOns = append(s.AddOns, AddOn{
			Name:  "Additional Porter: " + p.AdditionalPorter.Name,
			Price: p.AdditionalPorter.PricePerDay * int64(days) * int64(d.Participants),
		})
	}
	if d.Documentation {
		s.AddOns = append(s.AddOns, AddOn{Name: "Photo Documentation", Price: DocumentationPrice})
	}
	if d.Equipment {
		s.AddOns = append(s.AddOns, AddOn{Name: "Equipment Rental", Price: EquipmentPrice})
	}
	return s
}

// AdditionalTotal is the sum of the selected add-on lines.
func (s PriceSummary) AdditionalTotal() int64 {
	var total int64
	for _, a := range s.AddOns {
		total += a.Price
	}
	return total
}

func (s PriceSummary) InsuranceTotal() int64 {
	return s.InsuranceRate * int64(s.Participants)
}

// Total is base×participants + add-ons + insurance×participants + admin fee.
func (s PriceSummary) Total() int64 {
	subtotal := s.BasePrice*int64(s.Participants) + s.AdditionalTotal()
	return subtotal + s.InsuranceTotal() + s.AdminFee
}

// ItemDetails builds the line-item breakdown the payment backend records:
// the base package, one line per add-on, the insurance line and the admin fee.
func (s PriceSummary) ItemDetails() []ItemDetail {
	items := []ItemDetail{{
		ID:       "tour-package",
		Name:     s.ServiceLabel,
		Quantity: s.Participants,
		Price:    s.BasePrice,
		Category: "Tour Package",
	}}
	for i, a := range s.AddOns {
		items = append(items, ItemDetail{
			ID:       "add-service-" + strconv.Itoa(i),
			Name:     a.Name,
			Quantity: 1,
			Price:    a.Price,
			Category: "Additional Service",
		})
	}
	items = append(items,
		ItemDetail{
			ID:       "insurance",
			Name:     "Travel Insurance",
			Quantity: s.Participants,
			Price:    s.InsuranceRate,
			Category: "Insurance",
		},
		ItemDetail{
			ID:       "admin-fee",
			Name:     "Admin Fee",
			Quantity: 1,
			Price:    s.AdminFee,
			Category: "Admin Fee",
		},
	)
	return items
}

func serviceLabel(p Prefill) string {
	switch {
	case p.Guide != nil:
		return "Guide: " + p.Guide.Name
	case p.Porter != nil:
		return "Porter: " + p.Porter.Name
	case p.Trip != nil:
		return "Open Trip: " + p.Trip.Title
	}
	return "Custom Package"
}

// basePrice is the per-participant rate of the selected service. The original
// page only priced guides and porters; open trips carry their own rate here.
func basePrice(p Prefill) int64 {
	switch {
	case p.Guide != nil:
		return p.Guide.PricePerDay
	case p.Porter != nil:
		return p.Porter.PricePerDay
	case p.Trip != nil:
		return p.Trip.Price
	}
	return 0
}
