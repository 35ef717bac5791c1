package errors

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestErrorMessage(t *testing.T) {
	err := NewFetch("https://x.yupoo.com/albums/1", "all fetch strategies failed", errors.New("timeout"))
	assert.Contains(t, err.Error(), "fetch")
	assert.Contains(t, err.Error(), "all fetch strategies failed")
	assert.Contains(t, err.Error(), "timeout")

	noCause := NewValidation("url", "host is not allowed")
	assert.NotContains(t, noCause.Error(), "<nil>")
}

func TestUnwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := NewPublisher("redis", "publish failed", cause)
	assert.ErrorIs(t, err, cause)
}

func TestTypePredicates(t *testing.T) {
	tests := []struct {
		name  string
		err   error
		check func(error) bool
		want  bool
	}{
		{"fetch error", NewFetch("u", "m", nil), IsFetch, true},
		{"wrapped fetch error", fmt.Errorf("import: %w", NewFetch("u", "m", nil)), IsFetch, true},
		{"validation error", NewValidation("u", "m"), IsValidation, true},
		{"rate limit error", NewRateLimit("host", 30*time.Second), IsRateLimit, true},
		{"wrong type", NewParsing("u", "m", nil), IsFetch, false},
		{"plain error", errors.New("nope"), IsRateLimit, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.check(tt.err))
		})
	}
}

func TestIsRetryable(t *testing.T) {
	assert.True(t, NewFetch("u", "m", nil).IsRetryable())
	assert.True(t, NewEnrichment("u", "m", nil).IsRetryable())
	assert.False(t, NewRateLimit("host", 0).IsRetryable())
	assert.False(t, NewValidation("u", "m").IsRetryable())
}
