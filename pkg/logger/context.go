package logger

import "context"

type entryContextKey struct{}

// NewContext returns a copy of ctx carrying entry, so request-scoped log
// context travels with the request.
func NewContext(ctx context.Context, entry *Entry) context.Context {
	return context.WithValue(ctx, entryContextKey{}, entry)
}

// FromContext returns the entry bound to ctx. When none is bound it falls
// back to the process-wide default logger.
func FromContext(ctx context.Context) *Entry {
	if entry, ok := ctx.Value(entryContextKey{}).(*Entry); ok {
		return entry
	}
	return Default().WithFields(Fields{})
}
