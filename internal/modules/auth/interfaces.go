package auth

import (
	"context"

	"summittrek/internal/restclient"
	"summittrek/internal/session"
)

type backendClient interface {
	Do(ctx context.Context, sess *session.Session, method, path string, body any) (*restclient.Envelope, error)
}

type sessionIssuer interface {
	Issue(ctx context.Context, u session.User, token string) (*session.Session, error)
	Clear(ctx context.Context, id string) error
}
