package payment

import (
	"encoding/json"

	"summittrek/internal/modules/booking"
)

// SubmitRequest is the booking page's submission: the full draft plus the
// preselection references from the page URL.
type SubmitRequest struct {
	Draft   booking.Draft      `json:"draft"`
	Prefill booking.PrefillRef `json:"prefill"`
}

// SubmitResult hands the widget token back to the browser, which invokes the
// external payment widget with it. Ref identifies the attempt for the outcome
// endpoints.
type SubmitResult struct {
	Token string `json:"token"`
	Ref   string `json:"ref"`
}

// Outcome is the orchestrator's verdict for one widget callback: where to
// navigate (empty means stay on the booking page) and what to tell the user.
type Outcome struct {
	NavigateTo string `json:"navigate_to,omitempty"`
	Message    string `json:"message"`
}

// createBookingRequest is the backend's booking-creation payload: draft
// fields, the computed price breakdown, and the provisional order id.
type createBookingRequest struct {
	BookingID                string `json:"booking_id"`
	CustomerName             string `json:"customer_name"`
	CustomerEmail            string `json:"customer_email"`
	CustomerPhone            string `json:"customer_phone"`
	CustomerEmergencyContact string `json:"customer_emergency_contact"`
	ServiceType              string `json:"service_type"`
	StartDate                string `json:"start_date"`
	TotalParticipants        int    `json:"total_participants"`
	TotalPrice               int64  `json:"total_price"`
	SpecialRequests          string `json:"special_requests"`
	DietaryRequirements      string `json:"dietary_requirements"`
	MedicalConditions        string `json:"medical_conditions"`
	NeedPorter               bool   `json:"need_porter"`
	NeedDocumentation        bool   `json:"need_documentation"`
	NeedEquipment            bool   `json:"need_equipment"`
	NeedTransport            bool   `json:"need_transport"`
	BasePrice                int64  `json:"base_price"`
	AdditionalServicesPrice  int64  `json:"additional_services_price"`
	InsurancePrice           int64  `json:"insurance_price"`
	AdminFee                 int64  `json:"admin_fee"`
	OpenTripID               string `json:"open_trip_id,omitempty"`
}

type createTransactionRequest struct {
	BookingID     string               `json:"booking_id"`
	Amount        int64                `json:"amount"`
	CustomerEmail string               `json:"customer_email"`
	CustomerName  string               `json:"customer_name"`
	ItemDetails   []booking.ItemDetail `json:"item_details"`
}

type updateStatusRequest struct {
	BookingID   string          `json:"booking_id"`
	Status      string          `json:"status"`
	PaymentData json.RawMessage `json:"payment_data,omitempty"`
}
