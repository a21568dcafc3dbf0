package booking

import (
	"errors"
	"testing"

	"summittrek/internal/modules/catalog"
)

func validDraft() Draft {
	return Draft{
		FullName:         "Siti Rahma",
		Phone:            "081234567890",
		Email:            "siti@example.com",
		EmergencyContact: "081298765432",
		ServiceType:      "guide",
		Destination:      "Mount Rinjani",
		StartDate:        "2026-09-14",
		Duration:         "3d2n",
		Participants:     2,
	}
}

func TestParseDurationDays(t *testing.T) {
	cases := []struct {
		code string
		days int
		ok   bool
	}{
		{"3d2n", 3, true},
		{"2d1n", 2, true},
		{"4", 4, true},
		{" 3d2n ", 3, true},
		{"10d9n", 10, true},
		{"weekend", 1, false},
		{"", 1, false},
		{"0", 1, false},
		{"-2", 1, false},
	}
	for _, tc := range cases {
		days, ok := ParseDurationDays(tc.code)
		if days != tc.days || ok != tc.ok {
			t.Fatalf("ParseDurationDays(%q) = (%d, %v), want (%d, %v)", tc.code, days, ok, tc.days, tc.ok)
		}
	}
}

func TestTotalGuideNoAddOns(t *testing.T) {
	// 500,000 x 2 + 25,000 x 2 insurance + 15,000 admin = 1,065,000.
	d := validDraft()
	p := Prefill{Guide: &catalog.Guide{ID: "g1", Name: "Pak Budi", PricePerDay: 500000}}

	s := Summarize(d, p)
	if got := s.Total(); got != 1065000 {
		t.Fatalf("total = %d, want 1065000", got)
	}
	if s.ServiceLabel != "Guide: Pak Budi" {
		t.Fatalf("service label = %q", s.ServiceLabel)
	}
	if len(s.AddOns) != 0 {
		t.Fatalf("expected no add-ons, got %d", len(s.AddOns))
	}
}

func TestTotalWithDocumentation(t *testing.T) {
	// Same trip plus photo documentation: 1,065,000 + 150,000 = 1,215,000.
	d := validDraft()
	d.Documentation = true
	p := Prefill{Guide: &catalog.Guide{ID: "g1", Name: "Pak Budi", PricePerDay: 500000}}

	s := Summarize(d, p)
	if got := s.Total(); got != 1215000 {
		t.Fatalf("total = %d, want 1215000", got)
	}
}

func TestTotalAdditionalPorterScalesByDaysAndParticipants(t *testing.T) {
	d := validDraft()
	d.Duration = "3d2n"
	p := Prefill{
		Guide:            &catalog.Guide{ID: "g1", Name: "Pak Budi", PricePerDay: 500000},
		AdditionalPorter: &catalog.Porter{ID: "p7", Name: "Mas Joko", PricePerDay: 100000},
	}

	s := Summarize(d, p)
	// 100,000 x 3 days x 2 participants.
	if got := s.AdditionalTotal(); got != 600000 {
		t.Fatalf("additional total = %d, want 600000", got)
	}
	if got := s.Total(); got != 1665000 {
		t.Fatalf("total = %d, want 1665000", got)
	}
}

// Adding one participant raises the total by exactly the base rate plus the
// insurance rate when no per-participant add-on is selected.
func TestParticipantDelta(t *testing.T) {
	d := validDraft()
	d.Documentation = true
	d.Equipment = true
	p := Prefill{Guide: &catalog.Guide{ID: "g1", Name: "Pak Budi", PricePerDay: 350000}}

	before := Summarize(d, p).Total()
	d.Participants++
	after := Summarize(d, p).Total()

	if delta := after - before; delta != 350000+InsurancePerParticipant {
		t.Fatalf("participant delta = %d, want %d", delta, 350000+InsurancePerParticipant)
	}
}

func TestSummarizeIsPure(t *testing.T) {
	d := validDraft()
	p := Prefill{Porter: &catalog.Porter{ID: "p1", Name: "Mas Joko", PricePerDay: 150000}}
	a := Summarize(d, p)
	b := Summarize(d, p)
	if a.Total() != b.Total() || a.ServiceLabel != b.ServiceLabel {
		t.Fatalf("same inputs produced different summaries: %+v vs %+v", a, b)
	}
}

func TestUnparseableDurationPricesOneDay(t *testing.T) {
	d := validDraft()
	d.Duration = "weekend"
	p := Prefill{
		Guide:            &catalog.Guide{ID: "g1", Name: "Pak Budi", PricePerDay: 500000},
		AdditionalPorter: &catalog.Porter{ID: "p7", Name: "Mas Joko", PricePerDay: 100000},
	}

	s := Summarize(d, p)
	if s.DurationDays != 1 {
		t.Fatalf("duration days = %d, want 1", s.DurationDays)
	}
	// Porter line collapses to one day: 100,000 x 1 x 2.
	if got := s.AdditionalTotal(); got != 200000 {
		t.Fatalf("additional total = %d, want 200000", got)
	}
}

func TestItemDetailsBreakdown(t *testing.T) {
	d := validDraft()
	d.Documentation = true
	p := Prefill{Guide: &catalog.Guide{ID: "g1", Name: "Pak Budi", PricePerDay: 500000}}

	items := Summarize(d, p).ItemDetails()
	if len(items) != 4 {
		t.Fatalf("expected 4 line items, got %d", len(items))
	}
	if items[0].ID != "tour-package" || items[0].Quantity != 2 {
		t.Fatalf("unexpected base line: %+v", items[0])
	}
	if items[1].Category != "Additional Service" {
		t.Fatalf("unexpected add-on line: %+v", items[1])
	}
	if items[2].ID != "insurance" || items[2].Price != InsurancePerParticipant {
		t.Fatalf("unexpected insurance line: %+v", items[2])
	}
	if items[3].ID != "admin-fee" || items[3].Price != AdminFee {
		t.Fatalf("unexpected admin fee line: %+v", items[3])
	}

	var sum int64
	for _, it := range items {
		sum += it.Price * int64(it.Quantity)
	}
	if total := Summarize(d, p).Total(); sum != total {
		t.Fatalf("line items sum to %d, total is %d", sum, total)
	}
}

func TestValidateGroups(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Draft)
		want   error
	}{
		{"valid", func(*Draft) {}, nil},
		{"missing name", func(d *Draft) { d.FullName = "" }, ErrContactIncomplete},
		{"missing phone", func(d *Draft) { d.Phone = "" }, ErrContactIncomplete},
		{"missing emergency contact", func(d *Draft) { d.EmergencyContact = "" }, ErrContactIncomplete},
		{"missing destination", func(d *Draft) { d.Destination = "" }, ErrTripIncomplete},
		{"missing start date", func(d *Draft) { d.StartDate = "" }, ErrTripIncomplete},
		{"zero participants", func(d *Draft) { d.Participants = 0 }, ErrTripIncomplete},
		{"bad email", func(d *Draft) { d.Email = "not-an-email" }, ErrEmailRequired},
		{"empty email", func(d *Draft) { d.Email = "" }, ErrEmailRequired},
		// Contact group is reported first even when several groups fail.
		{"contact wins over email", func(d *Draft) { d.FullName = ""; d.Email = "" }, ErrContactIncomplete},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			d := validDraft()
			tc.mutate(&d)
			err := d.Validate()
			if !errors.Is(err, tc.want) {
				t.Fatalf("Validate() = %v, want %v", err, tc.want)
			}
		})
	}
}
