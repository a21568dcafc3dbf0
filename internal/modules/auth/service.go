package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"summittrek/internal/session"
)

// Service proxies credentials to the marketplace backend and turns its answer
// into a local session. Passwords are never stored or verified here.
type Service struct {
	api      backendClient
	sessions sessionIssuer
	loggerf  func(format string, args ...interface{})
}

func NewService(api backendClient, sessions sessionIssuer, loggerf func(format string, args ...interface{})) *Service {
	if loggerf == nil {
		loggerf = func(string, ...interface{}) {}
	}
	return &Service{api: api, sessions: sessions, loggerf: loggerf}
}

// Login authenticates against the customer or admin endpoint and issues a
// session on success.
func (s *Service) Login(ctx context.Context, req LoginRequest, admin bool) (*session.Session, error) {
	path := "/api/auth/login"
	if admin {
		path = "/api/auth/admin/login"
	}

	env, err := s.api.Do(ctx, nil, http.MethodPost, path, req)
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	if !env.Success {
		return nil, &RejectedError{Message: env.Message}
	}

	var data loginData
	if err := json.Unmarshal(env.Data, &data); err != nil {
		return nil, fmt.Errorf("decode login payload: %w", err)
	}
	if data.Token == "" {
		return nil, &RejectedError{Message: "backend returned no token"}
	}

	sess, err := s.sessions.Issue(ctx, session.User{
		ID:          data.User.ID,
		DisplayName: data.User.Username,
		Email:       data.User.Email,
		Role:        data.User.Role,
	}, data.Token)
	if err != nil {
		return nil, fmt.Errorf("issue session: %w", err)
	}
	s.loggerf("level=info msg=login user_id=%s role=%s", data.User.ID, data.User.Role)
	return sess, nil
}

// Register creates an account. It does not auto-login; the customer signs in
// afterwards.
func (s *Service) Register(ctx context.Context, req RegisterRequest) error {
	env, err := s.api.Do(ctx, nil, http.MethodPost, "/api/auth/register", req)
	if err != nil {
		return fmt.Errorf("register: %w", err)
	}
	if !env.Success {
		return &RejectedError{Message: env.Message}
	}
	return nil
}

// Logout destroys the session. The bearer token is simply forgotten; the
// backend expires it on its own schedule.
func (s *Service) Logout(ctx context.Context, sessionID string) error {
	return s.sessions.Clear(ctx, sessionID)
}
