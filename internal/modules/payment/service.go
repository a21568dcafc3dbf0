// Package payment drives a booking submission through booking creation,
// payment-transaction creation, the external widget hand-off, and outcome
// reconciliation. The widget itself runs in the customer's browser; its four
// callbacks (success, pending, error, close) come back to this service, which
// treats them as transitions on an explicit Attempt state machine.
package payment

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"summittrek/internal/modules/booking"
	"summittrek/internal/session"
)

type Service struct {
	api      backendClient
	bookings prefillResolver
	loggerf  func(format string, args ...interface{})
	now      func() time.Time

	mu       sync.Mutex
	attempts map[string]*Attempt // by attempt ref
	inFlight map[string]string   // session id -> ref of the unsettled attempt
}

func NewService(api backendClient, bookings prefillResolver, loggerf func(format string, args ...interface{})) *Service {
	if loggerf == nil {
		loggerf = func(string, ...interface{}) {}
	}
	return &Service{
		api:      api,
		bookings: bookings,
		loggerf:  loggerf,
		now:      time.Now,
		attempts: make(map[string]*Attempt),
		inFlight: make(map[string]string),
	}
}

// Submit runs steps 1-5 of the orchestration: validate, generate the
// provisional order id, create the booking, resolve the server-assigned
// booking id, create the payment transaction. On success the widget token is
// returned and the attempt waits for exactly one outcome callback.
//
// Failures abort at the failing step; nothing later runs, the draft stays
// with the caller, and the session may submit again, which starts a brand-new
// attempt with a new order id. Half-completed attempts are never resumed.
func (s *Service) Submit(ctx context.Context, sess *session.Session, req SubmitRequest) (*SubmitResult, error) {
	// Validation failures must abort before any network call.
	if err := req.Draft.Validate(); err != nil {
		return nil, err
	}

	if err := s.beginSubmission(sess.ID); err != nil {
		return nil, err
	}
	ok := false
	defer func() {
		if !ok {
			s.endSubmission(sess.ID)
		}
	}()

	prefill, err := s.bookings.ResolvePrefill(ctx, sess, req.Prefill)
	if err != nil {
		return nil, err
	}
	summary := booking.Summarize(req.Draft, prefill)

	// Provisional, human-readable label; superseded by the server-assigned
	// booking id as soon as creation succeeds.
	orderID := "ORDER-" + strconv.FormatInt(s.now().UnixMilli(), 10)

	createReq := buildCreateBookingRequest(req.Draft, req.Prefill, summary, orderID)
	env, err := s.api.Do(ctx, sess, http.MethodPost, "/api/bookings/payment", createReq)
	if err != nil {
		return nil, fmt.Errorf("create booking: %w", err)
	}
	if !env.Success {
		return nil, &RefusedError{Step: "booking", Message: env.Message}
	}

	bookingID := s.resolveBookingID(env.Data, orderID)

	txReq := createTransactionRequest{
		BookingID:     bookingID,
		Amount:        summary.Total(),
		CustomerEmail: req.Draft.Email,
		CustomerName:  req.Draft.FullName,
		ItemDetails:   summary.ItemDetails(),
	}
	env, err = s.api.Do(ctx, sess, http.MethodPost, "/api/payment/create-transaction", txReq)
	if err != nil {
		return nil, fmt.Errorf("create transaction: %w", err)
	}
	if !env.Success || env.Token == "" {
		return nil, &RefusedError{Step: "transaction", Message: env.Message}
	}

	attempt := &Attempt{
		orderID:       orderID,
		bookingID:     bookingID,
		sessionID:     sess.ID,
		status:        StatusAwaitingWidget,
		customerName:  req.Draft.FullName,
		customerEmail: req.Draft.Email,
		summary: Summary{
			TripName:        summary.ServiceLabel,
			Date:            req.Draft.StartDate,
			Participants:    summary.Participants,
			TotalPrice:      summary.Total(),
			ReferenceNumber: bookingID,
			BookingID:       bookingID,
		},
	}
	if prefill.Guide != nil {
		attempt.summary.GuideName = prefill.Guide.Name
		attempt.summary.GuideContact = prefill.Guide.BestContact()
	}
	if prefill.Porter != nil {
		attempt.summary.PorterName = prefill.Porter.Name
		attempt.summary.PorterContact = prefill.Porter.BestContact()
	}

	s.mu.Lock()
	s.attempts[bookingID] = attempt
	s.inFlight[sess.ID] = bookingID
	s.mu.Unlock()

	ok = true
	s.loggerf("level=info msg=payment transaction created order_id=%s booking_id=%s amount=%d", orderID, bookingID, summary.Total())
	return &SubmitResult{Token: env.Token, Ref: bookingID}, nil
}

// resolveBookingID extracts the server-assigned identifier from the
// booking-creation response. Priority: explicit booking_code, then the
// generic id field, then the provisional order id. The last fallback means
// the backend broke its contract, so it is logged loudly: every later call
// would reference a record the server may not resolve.
func (s *Service) resolveBookingID(data json.RawMessage, orderID string) string {
	var fields struct {
		BookingCode string          `json:"booking_code"`
		ID          json.RawMessage `json:"id"`
	}
	if len(data) > 0 {
		_ = json.Unmarshal(data, &fields)
	}
	if fields.BookingCode != "" {
		return fields.BookingCode
	}
	if id := rawToString(fields.ID); id != "" {
		return id
	}
	s.loggerf("level=warn msg=booking response carried neither booking_code nor id, falling back to provisional order id order_id=%s", orderID)
	return orderID
}

func rawToString(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var asString string
	if err := json.Unmarshal(raw, &asString); err == nil {
		return asString
	}
	var asNumber json.Number
	if err := json.Unmarshal(raw, &asNumber); err == nil {
		return asNumber.String()
	}
	return ""
}

// HandleSuccess is the widget's success callback. The widget has already
// confirmed payment, so the status write to the backend is best effort: its
// failure is logged but never blocks the customer's navigation forward.
func (s *Service) HandleSuccess(ctx context.Context, sess *session.Session, ref string, payload json.RawMessage) (*Outcome, error) {
	attempt, err := s.ownAttempt(sess, ref)
	if err != nil {
		return nil, err
	}
	if err := attempt.settle(StatusPaid); err != nil {
		return nil, err
	}
	s.updateStatus(ctx, sess, attempt.bookingID, "paid", payload)
	s.endSubmission(attempt.sessionID)
	return &Outcome{
		NavigateTo: "/booking-success?ref=" + ref,
		Message:    "Payment received. Thank you!",
	}, nil
}

// HandlePending navigates once the status write settles, whether or not it
// succeeded.
func (s *Service) HandlePending(ctx context.Context, sess *session.Session, ref string, payload json.RawMessage) (*Outcome, error) {
	attempt, err := s.ownAttempt(sess, ref)
	if err != nil {
		return nil, err
	}
	if err := attempt.settle(StatusPending); err != nil {
		return nil, err
	}
	s.updateStatus(ctx, sess, attempt.bookingID, "pending", payload)
	s.endSubmission(attempt.sessionID)
	return &Outcome{
		NavigateTo: "/booking-pending?ref=" + ref,
		Message:    "Payment is pending confirmation.",
	}, nil
}

// HandleError marks the attempt failed, records the widget's error payload
// best-effort, and keeps the customer on the booking page so they can retry.
func (s *Service) HandleError(ctx context.Context, sess *session.Session, ref string, payload json.RawMessage) (*Outcome, error) {
	attempt, err := s.ownAttempt(sess, ref)
	if err != nil {
		return nil, err
	}
	if err := attempt.settle(StatusFailed); err != nil {
		return nil, err
	}
	s.updateStatus(ctx, sess, attempt.bookingID, "failed", payload)
	s.endSubmission(attempt.sessionID)

	msg := widgetMessage(payload)
	if msg == "" {
		msg = "Payment failed. Please try again."
	}
	return &Outcome{Message: msg}, nil
}

// HandleClose is the customer dismissing the widget without paying. The
// attempt simply lapses: no status endpoint is called, no navigation happens.
func (s *Service) HandleClose(ctx context.Context, sess *session.Session, ref string) (*Outcome, error) {
	attempt, err := s.ownAttempt(sess, ref)
	if err != nil {
		return nil, err
	}
	if err := attempt.settle(StatusCancelled); err != nil {
		return nil, err
	}
	s.endSubmission(attempt.sessionID)
	return &Outcome{Message: "Payment cancelled."}, nil
}

// OutcomeSummary serves the success/pending views. An unknown ref (direct URL
// visit, restarted service) yields ErrAttemptNotFound, which the views render
// as "booking not found" rather than crashing.
func (s *Service) OutcomeSummary(ref string) (Summary, Status, error) {
	s.mu.Lock()
	attempt := s.attempts[ref]
	s.mu.Unlock()
	if attempt == nil {
		return Summary{}, "", ErrAttemptNotFound
	}
	return attempt.Summary(), attempt.Status(), nil
}

// TransactionStatus proxies the backend's authoritative transaction status,
// which the pending view polls instead of trusting navigation state.
func (s *Service) TransactionStatus(ctx context.Context, sess *session.Session, id string) (json.RawMessage, error) {
	env, err := s.api.Do(ctx, sess, http.MethodGet, "/api/payment/transaction-status/"+id, nil)
	if err != nil {
		return nil, err
	}
	if !env.Success {
		return nil, &RefusedError{Step: "transaction-status", Message: env.Message}
	}
	return env.Data, nil
}

func (s *Service) ownAttempt(sess *session.Session, ref string) (*Attempt, error) {
	s.mu.Lock()
	attempt := s.attempts[ref]
	s.mu.Unlock()
	if attempt == nil || attempt.sessionID != sess.ID {
		return nil, ErrAttemptNotFound
	}
	return attempt, nil
}

// updateStatus performs the best-effort status write. Failures are logged and
// swallowed so a flaky write never produces a second error message on top of
// the widget's own outcome.
func (s *Service) updateStatus(ctx context.Context, sess *session.Session, bookingID, status string, payload json.RawMessage) {
	env, err := s.api.Do(ctx, sess, http.MethodPost, "/api/payment/update-status", updateStatusRequest{
		BookingID:   bookingID,
		Status:      status,
		PaymentData: payload,
	})
	if err != nil {
		s.loggerf("level=error msg=failed to update booking status booking_id=%s status=%s err=%v", bookingID, status, err)
		return
	}
	if !env.Success {
		s.loggerf("level=error msg=backend rejected status update booking_id=%s status=%s message=%q", bookingID, status, env.Message)
	}
}

func (s *Service) beginSubmission(sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if ref, busy := s.inFlight[sessionID]; busy {
		// An empty ref marks a submission that has not registered its
		// attempt yet.
		if ref == "" {
			return ErrSubmissionInFlight
		}
		if attempt := s.attempts[ref]; attempt != nil && !attempt.settled() {
			return ErrSubmissionInFlight
		}
	}
	s.inFlight[sessionID] = ""
	return nil
}

func (s *Service) endSubmission(sessionID string) {
	s.mu.Lock()
	delete(s.inFlight, sessionID)
	s.mu.Unlock()
}

func buildCreateBookingRequest(d booking.Draft, ref booking.PrefillRef, summary booking.PriceSummary, orderID string) createBookingRequest {
	return createBookingRequest{
		BookingID:                orderID,
		CustomerName:             d.FullName,
		CustomerEmail:            d.Email,
		CustomerPhone:            d.Phone,
		CustomerEmergencyContact: d.EmergencyContact,
		ServiceType:              d.ServiceType,
		StartDate:                d.StartDate,
		TotalParticipants:        d.Participants,
		TotalPrice:               summary.Total(),
		SpecialRequests:          d.SpecialRequests,
		DietaryRequirements:      d.Dietary,
		MedicalConditions:        d.Medical,
		NeedPorter:               ref.AdditionalPorterID != "",
		NeedDocumentation:        d.Documentation,
		NeedEquipment:            d.Equipment,
		NeedTransport:            d.Transport,
		BasePrice:                summary.BasePrice,
		AdditionalServicesPrice:  summary.AdditionalTotal(),
		InsurancePrice:           summary.InsuranceTotal(),
		AdminFee:                 summary.AdminFee,
		OpenTripID:               ref.TripID,
	}
}

func widgetMessage(payload json.RawMessage) string {
	if len(payload) == 0 {
		return ""
	}
	var fields struct {
		StatusMessage string `json:"status_message"`
	}
	if err := json.Unmarshal(payload, &fields); err != nil {
		return ""
	}
	return fields.StatusMessage
}
