package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExpandEnv(t *testing.T) {
	t.Setenv("LOGKIT_TEST_ROOT", "/var/data")
	t.Setenv("LOGKIT_TEST_NAME", "svc")

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "simple expansion",
			input:    "${LOGKIT_TEST_ROOT}",
			expected: "/var/data",
		},
		{
			name:     "reference inside a path",
			input:    "${LOGKIT_TEST_ROOT}/logs",
			expected: "/var/data/logs",
		},
		{
			name:     "multiple references",
			input:    "${LOGKIT_TEST_ROOT}/${LOGKIT_TEST_NAME}",
			expected: "/var/data/svc",
		},
		{
			name:     "unset variable remains unchanged",
			input:    "${LOGKIT_TEST_NONEXISTENT}",
			expected: "${LOGKIT_TEST_NONEXISTENT}",
		},
		{
			name:     "plain text",
			input:    "plain text",
			expected: "plain text",
		},
		{
			name:     "dollar without braces is not a reference",
			input:    "$LOGKIT_TEST_ROOT",
			expected: "$LOGKIT_TEST_ROOT",
		},
		{
			name:     "malformed name remains unchanged",
			input:    "${9BAD}",
			expected: "${9BAD}",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ExpandEnv(tt.input))
		})
	}
}
