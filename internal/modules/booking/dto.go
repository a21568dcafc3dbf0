package booking

import "summittrek/internal/modules/catalog"

// Draft is the in-progress form state for one booking attempt. It is owned by
// the booking page; the payment orchestrator only ever reads it.
type Draft struct {
	FullName         string `json:"full_name"`
	Phone            string `json:"phone"`
	Email            string `json:"email"`
	EmergencyContact string `json:"emergency_contact"`
	Address          string `json:"address"`

	ServiceType  string `json:"service_type"`
	Destination  string `json:"destination"`
	StartDate    string `json:"start_date"`
	Duration     string `json:"duration"`
	Participants int    `json:"participants"`

	Documentation bool `json:"documentation"`
	Equipment     bool `json:"equipment"`
	Transport     bool `json:"transport"`

	Dietary         string `json:"dietary"`
	Medical         string `json:"medical"`
	SpecialRequests string `json:"special_requests"`
}

// PrefillRef carries the query-parameter preselection from the booking page:
// a guide, a porter, an open trip, and optionally an additional porter picked
// in the form.
type PrefillRef struct {
	GuideID            string `json:"guide_id" form:"guideId"`
	PorterID           string `json:"porter_id" form:"porterId"`
	AdditionalPorterID string `json:"additional_porter_id" form:"additionalPorterId"`
	TripID             string `json:"trip_id" form:"trip"`
}

// Prefill is the resolved preselection.
type Prefill struct {
	Guide            *catalog.Guide
	Porter           *catalog.Porter
	AdditionalPorter *catalog.Porter
	Trip             *catalog.OpenTrip
}
