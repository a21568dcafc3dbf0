package payment

import "sync"

type Status string

const (
	StatusCreated        Status = "created"
	StatusAwaitingWidget Status = "awaiting-widget"
	StatusPaid           Status = "paid"
	StatusPending        Status = "pending"
	StatusFailed         Status = "failed"
	StatusCancelled      Status = "cancelled"
)

// Summary is what the outcome views render: enough to confirm the trip
// without another backend round trip.
type Summary struct {
	TripName        string `json:"trip_name"`
	Date            string `json:"date"`
	Participants    int    `json:"participants"`
	TotalPrice      int64  `json:"total_price"`
	ReferenceNumber string `json:"reference_number"`
	GuideName       string `json:"guide_name,omitempty"`
	GuideContact    string `json:"guide_contact,omitempty"`
	PorterName      string `json:"porter_name,omitempty"`
	PorterContact   string `json:"porter_contact,omitempty"`
	BookingID       string `json:"booking_id"`
}

// Attempt tracks one orchestration run as an explicit state machine. The
// widget fires exactly one of its four callbacks, but that guarantee lives in
// third-party code; settle() enforces locally that only the first outcome is
// ever acted on.
type Attempt struct {
	mu sync.Mutex

	orderID   string
	bookingID string
	sessionID string
	status    Status
	summary   Summary

	customerName  string
	customerEmail string
}

// settle moves the attempt from awaiting-widget to a terminal status. A second
// settlement returns ErrAttemptSettled and changes nothing.
func (a *Attempt) settle(to Status) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.status != StatusAwaitingWidget {
		return ErrAttemptSettled
	}
	a.status = to
	return nil
}

func (a *Attempt) Status() Status {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.status
}

func (a *Attempt) Summary() Summary {
	return a.summary
}

func (a *Attempt) settled() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.status != StatusCreated && a.status != StatusAwaitingWidget
}
