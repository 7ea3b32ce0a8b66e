package llmerrors

import (
	"context"
	"errors"
	"strings"
)

// Classify transforms a model operation error into a WorkflowError with
// retry guidance. It examines typed errors first, then sentinel errors,
// and finally falls back to message pattern matching for untyped errors.
func Classify(err error) *WorkflowError {
	if err == nil {
		return nil
	}

	var providerErr *ProviderError
	if errors.As(err, &providerErr) {
		return &WorkflowError{
			Type:      providerErr.Type,
			Message:   providerErr.Message,
			Code:      providerErr.Code,
			Retryable: providerErr.IsRetryable(),
			Details: map[string]any{
				"provider":    providerErr.Provider,
				"status_code": providerErr.StatusCode,
			},
			Cause: err,
		}
	}

	if wfErr := classifySentinelErrors(err); wfErr != nil {
		return wfErr
	}

	return classifyStringPatternErrors(err)
}

// classifySentinelErrors handles well-known sentinel errors.
func classifySentinelErrors(err error) *WorkflowError {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return &WorkflowError{
			Type:      ErrorTypeTimeout,
			Message:   "request deadline exceeded",
			Retryable: true,
			Cause:     err,
		}
	case errors.Is(err, ErrUnknownProvider), errors.Is(err, ErrDocumentUnsupported):
		return &WorkflowError{
			Type:      ErrorTypeValidation,
			Message:   err.Error(),
			Retryable: false,
			Cause:     err,
		}
	case errors.Is(err, ErrInvalidResponse):
		return &WorkflowError{
			Type:      ErrorTypeProvider,
			Message:   err.Error(),
			Retryable: true,
			Cause:     err,
		}
	default:
		return nil
	}
}

// classifyStringPatternErrors is the last-resort classifier for untyped
// errors bubbled up from the HTTP stack.
func classifyStringPatternErrors(err error) *WorkflowError {
	msg := strings.ToLower(err.Error())

	wfErr := &WorkflowError{
		Message: err.Error(),
		Cause:   err,
	}

	switch {
	case strings.Contains(msg, "timeout"), strings.Contains(msg, "deadline"):
		wfErr.Type, wfErr.Retryable = ErrorTypeTimeout, true
	case strings.Contains(msg, "connection"), strings.Contains(msg, "network"),
		strings.Contains(msg, "no such host"):
		wfErr.Type, wfErr.Retryable = ErrorTypeNetwork, true
	case strings.Contains(msg, "rate limit"), strings.Contains(msg, "too many requests"):
		wfErr.Type, wfErr.Retryable = ErrorTypeRateLimit, true
	default:
		wfErr.Type, wfErr.Retryable = ErrorTypeUnknown, false
	}

	return wfErr
}
