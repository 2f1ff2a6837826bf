package domain

import (
	"context"
	"crypto/rand"
	"sync"

	"github.com/oklog/ulid/v2"
)

type requestIDKey struct{}

// ContextWithRequestID stores a request correlation id in the context.
func ContextWithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestIDFromContext returns the correlation id stored in the context,
// or "" if none is present.
func RequestIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey{}).(string); ok {
		return id
	}
	return ""
}

var (
	ridMu      sync.Mutex
	ridEntropy = ulid.Monotonic(rand.Reader, 0)
)

// NewRequestID returns a fresh ULID. ULIDs are timestamp-derived and
// monotonic within the process, so ids double as a coarse request
// timeline when grepping logs.
func NewRequestID() string {
	ridMu.Lock()
	defer ridMu.Unlock()
	return ulid.MustNew(ulid.Now(), ridEntropy).String()
}
