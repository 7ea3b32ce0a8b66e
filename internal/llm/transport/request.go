// Package transport defines the normalized request/response surface for
// model invocation and the composable middleware pipeline the client is
// assembled from. Provider-specific HTTP shaping lives in the providers
// package; everything above it works only with these normalized types.
package transport

import (
	"net/http"
	"time"

	"github.com/clausehq/go-clauserisk/internal/domain"
)

// StopReason is the normalized reason a model stopped producing output.
type StopReason string

const (
	// StopEndTurn indicates the model finished its answer cleanly.
	StopEndTurn StopReason = "end_turn"

	// StopMaxTokens indicates output was cut off at the token limit.
	// Truncation is an expected signal, not an error: the segmenter
	// resumes from it and the classifier repartitions on it.
	StopMaxTokens StopReason = "max_tokens"

	// StopSequence indicates a configured stop sequence was produced.
	StopSequence StopReason = "stop_sequence"

	// StopToolUse indicates the model halted to request a tool call.
	StopToolUse StopReason = "tool_use"
)

// Truncated reports whether the response was cut off by the token limit.
func (s StopReason) Truncated() bool { return s == StopMaxTokens }

// Document is the optional blob attached to document-aware invocations.
type Document struct {
	// Data is the raw document content, passed through to providers
	// that accept inline documents.
	Data []byte `json:"data"`

	// Format identifies the document encoding.
	Format domain.DocumentFormat `json:"format"`
}

// Request is a normalized model invocation across all provider families.
type Request struct {
	// Model is the provider-qualified model identifier. The provider
	// family is derived from it by pure string matching.
	Model string `json:"model"`

	// Prompt is the user-turn content.
	Prompt string `json:"prompt"`

	// SystemPrompt carries instructions delivered through the
	// provider's system channel when it has one.
	SystemPrompt string `json:"system_prompt,omitempty"`

	// Sampling parameters. TopP and TopK are optional and omitted from
	// provider payloads when nil.
	MaxTokens   int64    `json:"max_tokens"`
	Temperature float64  `json:"temperature"`
	TopP        *float64 `json:"top_p,omitempty"`
	TopK        *int64   `json:"top_k,omitempty"`

	// Document, when set, selects the document-aware request shape.
	Document *Document `json:"document,omitempty"`

	// Timeout bounds this single invocation. Zero means the caller's
	// context governs. Enforcement is external orchestration; this
	// layer only plumbs it to the HTTP call.
	Timeout time.Duration `json:"timeout"`

	// IdempotencyKey deduplicates provider-side retries where supported.
	IdempotencyKey string `json:"idempotency_key,omitempty"`

	// Metadata is free-form correlation context for logging.
	Metadata map[string]string `json:"metadata,omitempty"`
}

// Usage is normalized token accounting across providers.
type Usage struct {
	InputTokens  int64 `json:"input_tokens"`
	OutputTokens int64 `json:"output_tokens"`
	LatencyMs    int64 `json:"latency_ms"`
}

// Response is the normalized model output.
type Response struct {
	// Content is the model's answer text.
	Content string `json:"content"`

	// ReasoningContent carries extra reasoning text some document-aware
	// model families return alongside the answer. May be empty.
	ReasoningContent string `json:"reasoning_content,omitempty"`

	// StopReason tells callers whether the output is complete.
	StopReason StopReason `json:"stop_reason"`

	// Usage tracks resource consumption.
	Usage Usage `json:"usage"`

	// ProviderRequestIDs enables cross-system correlation.
	ProviderRequestIDs []string `json:"provider_request_ids,omitempty"`

	// Headers preserves raw response headers for debugging.
	Headers http.Header `json:"-"`

	// RawBody preserves the original response for audit.
	RawBody []byte `json:"-"`
}
