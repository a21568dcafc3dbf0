package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"summittrek/internal/session"
)

var ErrNotFound = errors.New("catalog item not found")

type Service struct {
	api backendClient
}

func NewService(api backendClient) *Service {
	return &Service{api: api}
}

func (s *Service) Guides(ctx context.Context, sess *session.Session) ([]Guide, error) {
	var out []Guide
	if err := s.list(ctx, sess, "/api/guides", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Service) Porters(ctx context.Context, sess *session.Session) ([]Porter, error) {
	var out []Porter
	if err := s.list(ctx, sess, "/api/porters", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Service) Mountains(ctx context.Context, sess *session.Session) ([]Mountain, error) {
	var out []Mountain
	if err := s.list(ctx, sess, "/api/mountains", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Service) OpenTrips(ctx context.Context, sess *session.Session) ([]OpenTrip, error) {
	var out []OpenTrip
	if err := s.list(ctx, sess, "/api/open-trips", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Service) GuideByID(ctx context.Context, sess *session.Session, id string) (*Guide, error) {
	var out Guide
	if err := s.list(ctx, sess, "/api/guides/"+id, &out); err != nil {
		return nil, err
	}
	if out.ID == "" {
		return nil, ErrNotFound
	}
	return &out, nil
}

// PorterByID fetches the porter list and filters locally; the backend has no
// per-porter endpoint.
func (s *Service) PorterByID(ctx context.Context, sess *session.Session, id string) (*Porter, error) {
	porters, err := s.Porters(ctx, sess)
	if err != nil {
		return nil, err
	}
	for i := range porters {
		if porters[i].ID == id {
			return &porters[i], nil
		}
	}
	return nil, ErrNotFound
}

func (s *Service) OpenTripByID(ctx context.Context, sess *session.Session, id string) (*OpenTrip, error) {
	var out OpenTrip
	if err := s.list(ctx, sess, "/api/open-trips/"+id, &out); err != nil {
		return nil, err
	}
	if out.ID == "" {
		return nil, ErrNotFound
	}
	return &out, nil
}

func (s *Service) list(ctx context.Context, sess *session.Session, path string, out any) error {
	env, err := s.api.Do(ctx, sess, http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	if !env.Success {
		return fmt.Errorf("backend refused %s: %s", path, env.Message)
	}
	if len(env.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("decode %s payload: %w", path, err)
	}
	return nil
}
