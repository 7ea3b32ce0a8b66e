package aggregation

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/clausehq/go-clauserisk/internal/domain"
	"github.com/clausehq/go-clauserisk/pkg/activity"
	"github.com/clausehq/go-clauserisk/pkg/events"
)

// EventEmitter handles domain event emission for aggregation.
// Emission is best-effort and never fails the activity.
type EventEmitter struct{ base activity.BaseActivities }

// NewEventEmitter creates an EventEmitter on the base activity
// infrastructure.
func NewEventEmitter(base activity.BaseActivities) *EventEmitter {
	return &EventEmitter{base: base}
}

// riskAggregatedPayload is the event payload for a finalized job.
type riskAggregatedPayload struct {
	JobID     string             `json:"job_id"`
	Status    domain.JobStatus   `json:"status"`
	Compliant bool               `json:"compliant"`
	Summary   domain.RiskSummary `json:"summary"`
}

// EmitRiskAggregated emits the terminal risk aggregation event.
func (e *EventEmitter) EmitRiskAggregated(
	ctx context.Context,
	input domain.AggregateRiskInput,
	output *domain.AggregateRiskOutput,
	status domain.JobStatus,
	wfCtx activity.WorkflowContext,
) {
	payload, err := json.Marshal(riskAggregatedPayload{
		JobID:     input.JobID,
		Status:    status,
		Compliant: output.Summary.Compliant,
		Summary:   output.Summary,
	})
	if err != nil {
		activity.SafeLogError(ctx, "Failed to encode RiskAggregated payload",
			"job_id", input.JobID, "error", err)
		return
	}

	e.base.EmitEventSafe(ctx, events.Envelope{
		ID:        uuid.New().String(),
		Type:      "aggregation.risk_aggregated",
		Source:    "aggregation-activity",
		Version:   "1.0.0",
		Timestamp: time.Now(),
		IdempotencyKey: events.DeterministicKey(
			wfCtx.WorkflowID, wfCtx.RunID, "risk_aggregated", input.JobID),
		WorkflowID: wfCtx.WorkflowID,
		RunID:      wfCtx.RunID,
		Payload:    payload,
	}, "RiskAggregated")
}
