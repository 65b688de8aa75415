package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContext_RoundTrip(t *testing.T) {
	l, console, _ := newBufferLogger(t, "debug", 0)
	entry := l.WithFields(Fields{"request_id": "abc123"})

	ctx := NewContext(context.Background(), entry)
	FromContext(ctx).Info("handling request")

	assert.Contains(t, console.String(), "handling request")
	assert.Contains(t, console.String(), "request_id=abc123")
}

func TestContext_FallsBackToDefault(t *testing.T) {
	l, console, _ := newBufferLogger(t, "debug", 0)
	SetDefault(l)

	FromContext(context.Background()).Info("no binding")

	assert.Contains(t, console.String(), "no binding")
}

func TestContext_NestedDerivation(t *testing.T) {
	l, _, file := newBufferLogger(t, "debug", 0)

	ctx := NewContext(context.Background(), l.WithFields(Fields{"request_id": "abc123"}))
	FromContext(ctx).WithField("step", "validate").Debug("checking input")

	assert.Contains(t, file.String(), `"request_id":"abc123"`)
	assert.Contains(t, file.String(), `"step":"validate"`)
}
