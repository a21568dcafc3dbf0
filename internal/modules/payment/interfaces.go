package payment

import (
	"context"

	"summittrek/internal/modules/booking"
	"summittrek/internal/restclient"
	"summittrek/internal/session"
)

type backendClient interface {
	Do(ctx context.Context, sess *session.Session, method, path string, body any) (*restclient.Envelope, error)
}

type prefillResolver interface {
	ResolvePrefill(ctx context.Context, sess *session.Session, ref booking.PrefillRef) (booking.Prefill, error)
}
