package booking

import (
	"context"

	"summittrek/internal/modules/catalog"
	"summittrek/internal/session"
)

type catalogReader interface {
	GuideByID(ctx context.Context, sess *session.Session, id string) (*catalog.Guide, error)
	PorterByID(ctx context.Context, sess *session.Session, id string) (*catalog.Porter, error)
	OpenTripByID(ctx context.Context, sess *session.Session, id string) (*catalog.OpenTrip, error)
	Porters(ctx context.Context, sess *session.Session) ([]catalog.Porter, error)
}
