package llmerrors

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify_Nil(t *testing.T) {
	assert.Nil(t, Classify(nil))
}

func TestClassify_ProviderError(t *testing.T) {
	err := fmt.Errorf("invoking model: %w", &ProviderError{
		Provider:   "anthropic",
		StatusCode: 429,
		Message:    "rate limited",
		Type:       ErrorTypeRateLimit,
	})

	wfErr := Classify(err)

	require.NotNil(t, wfErr)
	assert.Equal(t, ErrorTypeRateLimit, wfErr.Type)
	assert.True(t, wfErr.ShouldRetry())
	assert.Equal(t, "anthropic", wfErr.Details["provider"])
}

func TestClassify_Sentinels(t *testing.T) {
	cases := []struct {
		name      string
		err       error
		wantType  ErrorType
		retryable bool
	}{
		{"deadline", context.DeadlineExceeded, ErrorTypeTimeout, true},
		{"unknown provider", ErrUnknownProvider, ErrorTypeValidation, false},
		{"document unsupported", ErrDocumentUnsupported, ErrorTypeValidation, false},
		{"invalid response", ErrInvalidResponse, ErrorTypeProvider, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			wfErr := Classify(fmt.Errorf("wrapped: %w", tc.err))
			require.NotNil(t, wfErr)
			assert.Equal(t, tc.wantType, wfErr.Type)
			assert.Equal(t, tc.retryable, wfErr.ShouldRetry())
		})
	}
}

func TestClassify_StringPatterns(t *testing.T) {
	cases := []struct {
		msg       string
		wantType  ErrorType
		retryable bool
	}{
		{"dial tcp: connection refused", ErrorTypeNetwork, true},
		{"request timeout after 60s", ErrorTypeTimeout, true},
		{"too many requests", ErrorTypeRateLimit, true},
		{"something inexplicable", ErrorTypeUnknown, false},
	}
	for _, tc := range cases {
		t.Run(tc.msg, func(t *testing.T) {
			wfErr := Classify(errors.New(tc.msg))
			require.NotNil(t, wfErr)
			assert.Equal(t, tc.wantType, wfErr.Type)
			assert.Equal(t, tc.retryable, wfErr.ShouldRetry())
		})
	}
}

func TestProviderError_IsRetryable(t *testing.T) {
	assert.True(t, (&ProviderError{Type: ErrorTypeProvider}).IsRetryable())
	assert.False(t, (&ProviderError{Type: ErrorTypeAuth}).IsRetryable())
	assert.False(t, (&ProviderError{Type: ErrorTypeContent}).IsRetryable())
}
