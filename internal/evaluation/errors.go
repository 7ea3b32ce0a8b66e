package evaluation

import (
	"go.temporal.io/sdk/temporal"

	"github.com/clausehq/go-clauserisk/internal/llm/llmerrors"
)

// Error helpers - wrap errors as Temporal application errors.

func nonRetryable(tag string, cause error, msg string) error {
	return temporal.NewNonRetryableApplicationError(msg, tag, cause)
}

func retryable(tag string, cause error, msg string) error {
	return temporal.NewApplicationError(msg, tag, cause)
}

// wrapModelError classifies a model invocation failure and wraps it
// with the matching retry behavior.
func wrapModelError(tag string, err error) error {
	if wfErr := llmerrors.Classify(err); wfErr != nil && wfErr.ShouldRetry() {
		return retryable(tag, err, wfErr.Message)
	}
	return nonRetryable(tag, err, "model invocation failed")
}
