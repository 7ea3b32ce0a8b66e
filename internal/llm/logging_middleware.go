package llm

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/clausehq/go-clauserisk/internal/llm/configuration"
	"github.com/clausehq/go-clauserisk/internal/llm/llmerrors"
	"github.com/clausehq/go-clauserisk/internal/llm/transport"
)

// LoggingMiddleware provides structured logging for the model request
// lifecycle. Prompt text is redacted unless explicitly enabled, since
// prompts embed customer contract text.
type LoggingMiddleware struct {
	logger     *slog.Logger
	logPrompts bool
}

// NewLoggingMiddleware creates observability middleware with structured
// logging of request start, completion, latency, usage, and classified
// errors.
func NewLoggingMiddleware(cfg configuration.ObservabilityConfig, logger *slog.Logger) transport.Middleware {
	if logger == nil {
		logger = slog.Default()
	}
	lm := &LoggingMiddleware{logger: logger, logPrompts: cfg.LogPrompts}
	return lm.middleware
}

func (m *LoggingMiddleware) middleware(next transport.Handler) transport.Handler {
	return transport.HandlerFunc(func(ctx context.Context, req *transport.Request) (*transport.Response, error) {
		requestID := req.IdempotencyKey
		if requestID == "" {
			requestID = uuid.New().String()
		}

		attrs := []any{
			"request_id", requestID,
			"model", req.Model,
			"max_tokens", req.MaxTokens,
			"has_document", req.Document != nil,
		}
		if m.logPrompts {
			attrs = append(attrs, "prompt", req.Prompt)
		}
		m.logger.DebugContext(ctx, "model request started", attrs...)

		start := time.Now()
		resp, err := next.Handle(ctx, req)
		elapsed := time.Since(start)

		if err != nil {
			wfErr := llmerrors.Classify(err)
			m.logger.ErrorContext(ctx, "model request failed",
				"request_id", requestID,
				"model", req.Model,
				"elapsed_ms", elapsed.Milliseconds(),
				"error_type", wfErr.Type,
				"retryable", wfErr.Retryable,
				"error", err)
			return nil, err
		}

		m.logger.DebugContext(ctx, "model request completed",
			"request_id", requestID,
			"model", req.Model,
			"elapsed_ms", elapsed.Milliseconds(),
			"stop_reason", resp.StopReason,
			"input_tokens", resp.Usage.InputTokens,
			"output_tokens", resp.Usage.OutputTokens)

		return resp, nil
	})
}
