// Package events provides the generic event infrastructure for domain
// event emission. It defines the Envelope type wrapping stage events
// with consistent metadata and the EventSink interface for event
// storage or transmission.
package events

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strings"
	"time"
)

// Envelope wraps domain events with consistent metadata for reliable
// event processing: schema versioning, idempotency-based deduplication,
// and workflow execution tracking.
type Envelope struct {
	// ID uniquely identifies this event instance.
	ID string `json:"id"`

	// Type identifies the event for routing and processing.
	// Examples: "segmentation.clauses_extracted",
	// "classification.clause_classified", "evaluation.clause_evaluated",
	// "aggregation.risk_aggregated".
	Type string `json:"type"`

	// Source identifies the component that emitted this event.
	// Examples: "segmentation-activity", "aggregation-activity".
	Source string `json:"source"`

	// Version enables schema evolution, following semantic versioning.
	Version string `json:"version"`

	// Timestamp records when the event was emitted.
	Timestamp time.Time `json:"timestamp"`

	// IdempotencyKey ensures exactly-once processing during activity
	// retries. Derived deterministically from workflow context and
	// event content.
	IdempotencyKey string `json:"idempotency_key"`

	// WorkflowID identifies the workflow execution that triggered this
	// event; RunID distinguishes retries of the same workflow.
	WorkflowID string `json:"workflow_id"`
	RunID      string `json:"run_id"`

	// Payload contains the stage-specific event data as JSON.
	Payload json.RawMessage `json:"payload"`
}

// DeterministicKey derives a stable idempotency key from its parts.
// The same workflow context and event content always produce the same
// key, so retried activities emit deduplicatable events.
func DeterministicKey(parts ...string) string {
	sum := sha256.Sum256([]byte(strings.Join(parts, "|")))
	return hex.EncodeToString(sum[:])
}

// EventSink is the interface for emitting events to downstream
// consumers: outbox tables, message queues, or plain logs.
//
// Implementations should handle idempotency (duplicate events are
// no-ops) and return quickly. Events matter for observability but not
// for correctness, so callers never fail their primary operation on a
// sink error.
type EventSink interface {
	// Append adds an event to the sink with best-effort delivery.
	Append(ctx context.Context, envelope Envelope) error
}

// NoOpEventSink is a null EventSink for testing or when events are
// disabled. All Append calls succeed immediately without side effects.
type NoOpEventSink struct{}

// Append implements EventSink.Append with no-op behavior.
func (n *NoOpEventSink) Append(_ context.Context, _ Envelope) error { return nil }

// NewNoOpEventSink creates a new no-op event sink.
func NewNoOpEventSink() EventSink { return &NoOpEventSink{} }
