package payment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"summittrek/internal/modules/booking"
	"summittrek/internal/modules/catalog"
	"summittrek/internal/restclient"
	"summittrek/internal/session"
)

type recordedCall struct {
	method string
	path   string
	body   json.RawMessage
}

type mockBackend struct {
	calls     []recordedCall
	responses map[string]*restclient.Envelope
	errs      map[string]error
}

func newMockBackend() *mockBackend {
	return &mockBackend{
		responses: make(map[string]*restclient.Envelope),
		errs:      make(map[string]error),
	}
}

func (m *mockBackend) Do(ctx context.Context, sess *session.Session, method, path string, body any) (*restclient.Envelope, error) {
	var raw json.RawMessage
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		raw = b
	}
	m.calls = append(m.calls, recordedCall{method: method, path: path, body: raw})
	if err := m.errs[path]; err != nil {
		return nil, err
	}
	if env := m.responses[path]; env != nil {
		return env, nil
	}
	return &restclient.Envelope{Success: true}, nil
}

func (m *mockBackend) callsTo(path string) []recordedCall {
	var out []recordedCall
	for _, c := range m.calls {
		if c.path == path {
			out = append(out, c)
		}
	}
	return out
}

type mockResolver struct {
	prefill booking.Prefill
	err     error
}

func (m *mockResolver) ResolvePrefill(ctx context.Context, sess *session.Session, ref booking.PrefillRef) (booking.Prefill, error) {
	return m.prefill, m.err
}

func validDraft() booking.Draft {
	return booking.Draft{
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

func guidePrefill() booking.Prefill {
	return booking.Prefill{Guide: &catalog.Guide{ID: "g1", Name: "Pak Budi", Contact: "wa:62811", PricePerDay: 500000}}
}

func testSession() *session.Session {
	return &session.Session{ID: "sess-1", Token: "tok", Role: session.RoleUser}
}

func newTestService(api *mockBackend, resolver *mockResolver) *Service {
	svc := NewService(api, resolver, nil)
	svc.now = func() time.Time { return time.UnixMilli(1757000000000) }
	return svc
}

func scriptHappyPath(api *mockBackend) {
	api.responses["/api/bookings/payment"] = &restclient.Envelope{
		Success: true,
		Data:    json.RawMessage(`{"booking_code":"TRK-2026-0042"}`),
	}
	api.responses["/api/payment/create-transaction"] = &restclient.Envelope{
		Success: true,
		Token:   "widget-token-abc",
	}
}

func TestSubmitHappyPath(t *testing.T) {
	api := newMockBackend()
	scriptHappyPath(api)
	svc := newTestService(api, &mockResolver{prefill: guidePrefill()})

	res, err := svc.Submit(context.Background(), testSession(), SubmitRequest{Draft: validDraft(), Prefill: booking.PrefillRef{GuideID: "g1"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Token != "widget-token-abc" {
		t.Fatalf("token = %q, want widget-token-abc", res.Token)
	}
	if res.Ref != "TRK-2026-0042" {
		t.Fatalf("ref = %q, want the server-assigned booking code", res.Ref)
	}
	if len(api.calls) != 2 {
		t.Fatalf("expected booking + transaction calls, got %d", len(api.calls))
	}

	var created struct {
		BookingID  string `json:"booking_id"`
		TotalPrice int64  `json:"total_price"`
		BasePrice  int64  `json:"base_price"`
	}
	if err := json.Unmarshal(api.calls[0].body, &created); err != nil {
		t.Fatalf("decode booking payload: %v", err)
	}
	if created.BookingID != "ORDER-1757000000000" {
		t.Fatalf("booking payload carried %q, want the provisional order id", created.BookingID)
	}
	// 500,000 x 2 + 25,000 x 2 + 15,000.
	if created.TotalPrice != 1065000 || created.BasePrice != 500000 {
		t.Fatalf("unexpected price fields: %+v", created)
	}

	var tx struct {
		BookingID string `json:"booking_id"`
		Amount    int64  `json:"amount"`
	}
	if err := json.Unmarshal(api.calls[1].body, &tx); err != nil {
		t.Fatalf("decode transaction payload: %v", err)
	}
	// The transaction must reference the server-assigned id, not the
	// provisional one.
	if tx.BookingID != "TRK-2026-0042" {
		t.Fatalf("transaction referenced %q, want TRK-2026-0042", tx.BookingID)
	}
	if tx.Amount != 1065000 {
		t.Fatalf("transaction amount = %d, want 1065000", tx.Amount)
	}
}

func TestSubmitInvalidDraftMakesNoNetworkCalls(t *testing.T) {
	api := newMockBackend()
	svc := newTestService(api, &mockResolver{prefill: guidePrefill()})

	d := validDraft()
	d.Email = "not-an-email"
	_, err := svc.Submit(context.Background(), testSession(), SubmitRequest{Draft: d})
	if !errors.Is(err, booking.ErrEmailRequired) {
		t.Fatalf("expected ErrEmailRequired, got %v", err)
	}
	if len(api.calls) != 0 {
		t.Fatalf("validation failure must not reach the network, saw %d calls", len(api.calls))
	}
}

func TestSubmitBookingRefusedAbortsSequence(t *testing.T) {
	api := newMockBackend()
	api.responses["/api/bookings/payment"] = &restclient.Envelope{Success: false, Message: "mountain closed for eruption"}
	svc := newTestService(api, &mockResolver{prefill: guidePrefill()})
	sess := testSession()

	_, err := svc.Submit(context.Background(), sess, SubmitRequest{Draft: validDraft()})
	var refused *RefusedError
	if !errors.As(err, &refused) || refused.Step != "booking" {
		t.Fatalf("expected booking RefusedError, got %v", err)
	}
	if calls := api.callsTo("/api/payment/create-transaction"); len(calls) != 0 {
		t.Fatalf("transaction step must not run after the booking step aborts")
	}

	// The failed attempt releases the session; a fresh submission starts over.
	scriptHappyPath(api)
	if _, err := svc.Submit(context.Background(), sess, SubmitRequest{Draft: validDraft()}); err != nil {
		t.Fatalf("resubmission after an aborted attempt should succeed: %v", err)
	}
}

func TestSubmitTransactionWithoutTokenAborts(t *testing.T) {
	api := newMockBackend()
	api.responses["/api/bookings/payment"] = &restclient.Envelope{Success: true, Data: json.RawMessage(`{"booking_code":"TRK-1"}`)}
	api.responses["/api/payment/create-transaction"] = &restclient.Envelope{Success: true}
	svc := newTestService(api, &mockResolver{prefill: guidePrefill()})

	_, err := svc.Submit(context.Background(), testSession(), SubmitRequest{Draft: validDraft()})
	var refused *RefusedError
	if !errors.As(err, &refused) || refused.Step != "transaction" {
		t.Fatalf("a transaction response without a token must abort, got %v", err)
	}
}

func TestSubmitWhileAttemptAwaitsWidget(t *testing.T) {
	api := newMockBackend()
	scriptHappyPath(api)
	svc := newTestService(api, &mockResolver{prefill: guidePrefill()})
	sess := testSession()

	if _, err := svc.Submit(context.Background(), sess, SubmitRequest{Draft: validDraft()}); err != nil {
		t.Fatalf("first submission failed: %v", err)
	}
	_, err := svc.Submit(context.Background(), sess, SubmitRequest{Draft: validDraft()})
	if !errors.Is(err, ErrSubmissionInFlight) {
		t.Fatalf("expected ErrSubmissionInFlight while the widget is open, got %v", err)
	}
}

func TestResolveBookingIDFallbacks(t *testing.T) {
	cases := []struct {
		name     string
		data     string
		want     string
		wantWarn bool
	}{
		{"booking code wins", `{"booking_code":"TRK-9","id":42}`, "TRK-9", false},
		{"numeric id", `{"id":42}`, "42", false},
		{"string id", `{"id":"abc-7"}`, "abc-7", false},
		{"empty object", `{}`, "ORDER-1757000000000", true},
		{"no data", ``, "ORDER-1757000000000", true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			api := newMockBackend()
			api.responses["/api/bookings/payment"] = &restclient.Envelope{Success: true, Data: json.RawMessage(tc.data)}
			api.responses["/api/payment/create-transaction"] = &restclient.Envelope{Success: true, Token: "tkn"}

			var logged []string
			svc := NewService(api, &mockResolver{prefill: guidePrefill()}, func(format string, args ...interface{}) {
				logged = append(logged, fmt.Sprintf(format, args...))
			})
			svc.now = func() time.Time { return time.UnixMilli(1757000000000) }

			res, err := svc.Submit(context.Background(), testSession(), SubmitRequest{Draft: validDraft()})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if res.Ref != tc.want {
				t.Fatalf("ref = %q, want %q", res.Ref, tc.want)
			}
			warned := false
			for _, l := range logged {
				if strings.Contains(l, "level=warn") {
					warned = true
				}
			}
			if warned != tc.wantWarn {
				t.Fatalf("warn logged = %v, want %v (logs: %v)", warned, tc.wantWarn, logged)
			}
		})
	}
}

func submitOne(t *testing.T, svc *Service, api *mockBackend, sess *session.Session) string {
	t.Helper()
	scriptHappyPath(api)
	res, err := svc.Submit(context.Background(), sess, SubmitRequest{Draft: validDraft(), Prefill: booking.PrefillRef{GuideID: "g1"}})
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	return res.Ref
}

func TestHandleSuccessNavigatesAndWritesStatus(t *testing.T) {
	api := newMockBackend()
	svc := newTestService(api, &mockResolver{prefill: guidePrefill()})
	sess := testSession()
	ref := submitOne(t, svc, api, sess)

	out, err := svc.HandleSuccess(context.Background(), sess, ref, json.RawMessage(`{"transaction_status":"settlement"}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.NavigateTo != "/booking-success?ref="+ref {
		t.Fatalf("navigate = %q", out.NavigateTo)
	}

	updates := api.callsTo("/api/payment/update-status")
	if len(updates) != 1 {
		t.Fatalf("expected exactly one status write, got %d", len(updates))
	}
	var upd struct {
		BookingID string `json:"booking_id"`
		Status    string `json:"status"`
	}
	if err := json.Unmarshal(updates[0].body, &upd); err != nil {
		t.Fatalf("decode status payload: %v", err)
	}
	if upd.BookingID != ref || upd.Status != "paid" {
		t.Fatalf("unexpected status write: %+v", upd)
	}
}

func TestSecondOutcomeIsRejected(t *testing.T) {
	api := newMockBackend()
	svc := newTestService(api, &mockResolver{prefill: guidePrefill()})
	sess := testSession()
	ref := submitOne(t, svc, api, sess)

	if _, err := svc.HandleSuccess(context.Background(), sess, ref, nil); err != nil {
		t.Fatalf("first outcome failed: %v", err)
	}
	if _, err := svc.HandlePending(context.Background(), sess, ref, nil); !errors.Is(err, ErrAttemptSettled) {
		t.Fatalf("expected ErrAttemptSettled for the second outcome, got %v", err)
	}
	if updates := api.callsTo("/api/payment/update-status"); len(updates) != 1 {
		t.Fatalf("a rejected outcome must not write status again, saw %d writes", len(updates))
	}
	if _, status, err := svc.OutcomeSummary(ref); err != nil || status != StatusPaid {
		t.Fatalf("first outcome must stand, got status=%v err=%v", status, err)
	}
}

func TestHandleSuccessNavigatesDespiteStatusWriteFailure(t *testing.T) {
	api := newMockBackend()
	svc := newTestService(api, &mockResolver{prefill: guidePrefill()})
	sess := testSession()
	ref := submitOne(t, svc, api, sess)

	api.errs["/api/payment/update-status"] = errors.New("backend timeout")
	out, err := svc.HandleSuccess(context.Background(), sess, ref, nil)
	if err != nil {
		t.Fatalf("a failed status write must not block navigation: %v", err)
	}
	if out.NavigateTo == "" {
		t.Fatal("expected forward navigation despite the failed write")
	}
}

func TestHandlePendingNavigates(t *testing.T) {
	api := newMockBackend()
	svc := newTestService(api, &mockResolver{prefill: guidePrefill()})
	sess := testSession()
	ref := submitOne(t, svc, api, sess)

	out, err := svc.HandlePending(context.Background(), sess, ref, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.NavigateTo != "/booking-pending?ref="+ref {
		t.Fatalf("navigate = %q", out.NavigateTo)
	}
}

func TestHandleErrorStaysOnPage(t *testing.T) {
	api := newMockBackend()
	svc := newTestService(api, &mockResolver{prefill: guidePrefill()})
	sess := testSession()
	ref := submitOne(t, svc, api, sess)

	out, err := svc.HandleError(context.Background(), sess, ref, json.RawMessage(`{"status_message":"card declined"}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.NavigateTo != "" {
		t.Fatalf("error outcome must not navigate, got %q", out.NavigateTo)
	}
	if out.Message != "card declined" {
		t.Fatalf("expected the widget's own message, got %q", out.Message)
	}
	var upd struct {
		Status string `json:"status"`
	}
	updates := api.callsTo("/api/payment/update-status")
	if len(updates) != 1 {
		t.Fatalf("expected one failed-status write, got %d", len(updates))
	}
	if err := json.Unmarshal(updates[0].body, &upd); err != nil || upd.Status != "failed" {
		t.Fatalf("unexpected status write: %+v err=%v", upd, err)
	}
}

func TestHandleCloseWritesNothing(t *testing.T) {
	api := newMockBackend()
	svc := newTestService(api, &mockResolver{prefill: guidePrefill()})
	sess := testSession()
	ref := submitOne(t, svc, api, sess)

	out, err := svc.HandleClose(context.Background(), sess, ref)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.NavigateTo != "" {
		t.Fatalf("close must not navigate, got %q", out.NavigateTo)
	}
	if updates := api.callsTo("/api/payment/update-status"); len(updates) != 0 {
		t.Fatalf("dismissing the widget must not call the status endpoint, saw %d writes", len(updates))
	}

	// The lapsed attempt frees the session for a fresh submission.
	if _, err := svc.Submit(context.Background(), sess, SubmitRequest{Draft: validDraft(), Prefill: booking.PrefillRef{GuideID: "g1"}}); err != nil {
		t.Fatalf("resubmission after close should start a new attempt: %v", err)
	}
}

func TestOutcomeRequiresOwningSession(t *testing.T) {
	api := newMockBackend()
	svc := newTestService(api, &mockResolver{prefill: guidePrefill()})
	ref := submitOne(t, svc, api, testSession())

	other := &session.Session{ID: "sess-2", Token: "tok2", Role: session.RoleUser}
	if _, err := svc.HandleSuccess(context.Background(), other, ref, nil); !errors.Is(err, ErrAttemptNotFound) {
		t.Fatalf("another session must not settle the attempt, got %v", err)
	}
}

func TestOutcomeSummaryUnknownRef(t *testing.T) {
	svc := newTestService(newMockBackend(), &mockResolver{})
	if _, _, err := svc.OutcomeSummary("nope"); !errors.Is(err, ErrAttemptNotFound) {
		t.Fatalf("expected ErrAttemptNotFound, got %v", err)
	}
}

func TestOutcomeSummaryCarriesContacts(t *testing.T) {
	api := newMockBackend()
	svc := newTestService(api, &mockResolver{prefill: guidePrefill()})
	sess := testSession()
	ref := submitOne(t, svc, api, sess)

	summary, status, err := svc.OutcomeSummary(ref)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if status != StatusAwaitingWidget {
		t.Fatalf("status = %v, want awaiting-widget", status)
	}
	if summary.GuideName != "Pak Budi" || summary.GuideContact != "wa:62811" {
		t.Fatalf("guide contact missing from summary: %+v", summary)
	}
	if summary.TotalPrice != 1065000 || summary.ReferenceNumber != ref {
		t.Fatalf("unexpected summary: %+v", summary)
	}
}

func TestTransactionStatusProxiesBackend(t *testing.T) {
	api := newMockBackend()
	api.responses["/api/payment/transaction-status/TRK-1"] = &restclient.Envelope{
		Success: true,
		Data:    json.RawMessage(`{"transaction_status":"settlement"}`),
	}
	svc := newTestService(api, &mockResolver{})

	data, err := svc.TransactionStatus(context.Background(), testSession(), "TRK-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(string(data), "settlement") {
		t.Fatalf("unexpected payload: %s", data)
	}
	if api.calls[0].method != "GET" {
		t.Fatalf("expected GET, got %s", api.calls[0].method)
	}
}
