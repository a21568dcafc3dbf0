package booking

import (
	"context"
	"errors"
	"fmt"

	"summittrek/internal/modules/catalog"
	"summittrek/internal/session"
)

type Service struct {
	catalog catalogReader
	loggerf func(format string, args ...interface{})
}

func NewService(catalog catalogReader, loggerf func(format string, args ...interface{})) *Service {
	if loggerf == nil {
		loggerf = func(string, ...interface{}) {}
	}
	return &Service{catalog: catalog, loggerf: loggerf}
}

// ResolvePrefill fetches the preselected guide, porter, additional porter and
// open trip from the backend. A reference that cannot be resolved is dropped
// rather than failing the whole page; the form then simply starts without
// that preselection.
func (s *Service) ResolvePrefill(ctx context.Context, sess *session.Session, ref PrefillRef) (Prefill, error) {
	var p Prefill

	if ref.GuideID != "" {
		g, err := s.catalog.GuideByID(ctx, sess, ref.GuideID)
		if err != nil && !errors.Is(err, catalog.ErrNotFound) {
			return p, fmt.Errorf("resolve guide %s: %w", ref.GuideID, err)
		}
		p.Guide = g
	}
	if ref.PorterID != "" {
		po, err := s.catalog.PorterByID(ctx, sess, ref.PorterID)
		if err != nil && !errors.Is(err, catalog.ErrNotFound) {
			return p, fmt.Errorf("resolve porter %s: %w", ref.PorterID, err)
		}
		p.Porter = po
	}
	if ref.AdditionalPorterID != "" {
		po, err := s.catalog.PorterByID(ctx, sess, ref.AdditionalPorterID)
		if err != nil && !errors.Is(err, catalog.ErrNotFound) {
			return p, fmt.Errorf("resolve additional porter %s: %w", ref.AdditionalPorterID, err)
		}
		p.AdditionalPorter = po
	}
	if ref.TripID != "" {
		tr, err := s.catalog.OpenTripByID(ctx, sess, ref.TripID)
		if err != nil && !errors.Is(err, catalog.ErrNotFound) {
			return p, fmt.Errorf("resolve open trip %s: %w", ref.TripID, err)
		}
		p.Trip = tr
	}
	return p, nil
}

// Quote recomputes the price summary from the current draft. The duration
// fallback is logged here because it silently prices malformed input as a
// one-day trip.
func (s *Service) Quote(ctx context.Context, sess *session.Session, d Draft, ref PrefillRef) (PriceSummary, error) {
	p, err := s.ResolvePrefill(ctx, sess, ref)
	if err != nil {
		return PriceSummary{}, err
	}
	if _, ok := ParseDurationDays(d.Duration); !ok && d.Duration != "" {
		s.loggerf("level=warn msg=unparseable trip duration, defaulting to 1 day duration=%q", d.Duration)
	}
	return Summarize(d, p), nil
}

// AvailablePorters lists porters for the additional-porter selector.
func (s *Service) AvailablePorters(ctx context.Context, sess *session.Session) ([]catalog.Porter, error) {
	return s.catalog.Porters(ctx, sess)
}
