// Package restclient is the thin boundary to the marketplace REST backend.
// Everything the service knows about bookings, payments and catalog data goes
// through here; the backend is a collaborator, never reimplemented.
package restclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"summittrek/internal/session"
)

// ErrAuthExpired signals that the backend rejected the bearer token. The
// session has already been cleared by the time callers see this; they must
// surface a login redirect and abort whatever sequence was in flight.
var ErrAuthExpired = errors.New("authentication expired")

// APIError is a completed HTTP exchange the backend answered with a non-2xx
// status. Message carries the backend's own message when one was present.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("backend returned %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("backend returned %d", e.Status)
}

// Envelope is the backend's uniform response shape. Token is only set by the
// payment-transaction endpoint.
type Envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message,omitempty"`
	Token   string          `json:"token,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

type sessionClearer interface {
	Clear(ctx context.Context, id string) error
}

type Client struct {
	http     *http.Client
	baseURL  string
	sessions sessionClearer
	loggerf  func(format string, args ...interface{})
}

// New builds a client. The timeout bounds every request; a timed-out call is
// indistinguishable from any other network failure to callers.
func New(baseURL string, timeout time.Duration, sessions sessionClearer, loggerf func(format string, args ...interface{})) *Client {
	if loggerf == nil {
		loggerf = func(string, ...interface{}) {}
	}
	return &Client{
		http:     &http.Client{Timeout: timeout},
		baseURL:  baseURL,
		sessions: sessions,
		loggerf:  loggerf,
	}
}

// Do performs one backend request. When sess carries a token it is attached as
// a bearer credential. A 401 clears the session as a side effect and returns
// ErrAuthExpired. A 2xx JSON body is returned as the decoded envelope even
// when envelope.success is false; that distinction belongs to the caller.
func (c *Client) Do(ctx context.Context, sess *session.Session, method, path string, body any) (*Envelope, error) {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if sess != nil && sess.Token != "" {
		req.Header.Set("Authorization", "Bearer "+sess.Token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response %s %s: %w", method, path, err)
	}

	if resp.StatusCode == http.StatusUnauthorized {
		if sess != nil && sess.ID != "" {
			if cerr := c.sessions.Clear(ctx, sess.ID); cerr != nil {
				c.loggerf("level=error msg=failed to clear session after 401 session_id=%s err=%v", sess.ID, cerr)
			}
		}
		return nil, ErrAuthExpired
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Status: resp.StatusCode}
		var env Envelope
		if jerr := json.Unmarshal(raw, &env); jerr == nil && env.Message != "" {
			apiErr.Message = env.Message
		} else {
			apiErr.Message = truncate(string(raw), 512)
		}
		return nil, apiErr
	}

	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("decode response %s %s: %w", method, path, err)
	}
	return &env, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
