package catalog

import (
	"context"

	"summittrek/internal/restclient"
	"summittrek/internal/session"
)

type backendClient interface {
	Do(ctx context.Context, sess *session.Session, method, path string, body any) (*restclient.Envelope, error)
}
