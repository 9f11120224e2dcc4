package httpx

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

type ctxKey int

const (
	ctxKeyRequestID ctxKey = iota
)

const RequestIDHeader = "X-Request-Id"

func RequestIDFromContext(ctx context.Context) string {
	v, _ := ctx.Value(ctxKeyRequestID).(string)
	return v
}

// ContextWithRequestID pins the id that outgoing calls made with ctx will carry.
func ContextWithRequestID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, ctxKeyRequestID, id)
}

func WithRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if id == "" {
			id = NewRequestID()
		}
		w.Header().Set(RequestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(ContextWithRequestID(r.Context(), id)))
	})
}

// RequestIDTransport stamps X-Request-Id on outgoing requests, reusing the id
// from the request context when there is one.
type RequestIDTransport struct {
	Base http.RoundTripper
}

func (t RequestIDTransport) RoundTrip(r *http.Request) (*http.Response, error) {
	base := t.Base
	if base == nil {
		base = http.DefaultTransport
	}
	if r.Header.Get(RequestIDHeader) != "" {
		return base.RoundTrip(r)
	}
	id := RequestIDFromContext(r.Context())
	if id == "" {
		id = NewRequestID()
	}
	clone := r.Clone(r.Context())
	clone.Header.Set(RequestIDHeader, id)
	return base.RoundTrip(clone)
}

func NewRequestID() string {
	return uuid.NewString()
}
