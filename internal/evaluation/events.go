package evaluation

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/clausehq/go-clauserisk/internal/domain"
	"github.com/clausehq/go-clauserisk/pkg/activity"
	"github.com/clausehq/go-clauserisk/pkg/events"
)

// EventEmitter handles domain event emission for evaluation.
// Emission is best-effort and never fails the activity.
type EventEmitter struct{ base activity.BaseActivities }

// NewEventEmitter creates an EventEmitter on the base activity
// infrastructure.
func NewEventEmitter(base activity.BaseActivities) *EventEmitter {
	return &EventEmitter{base: base}
}

// clauseEvaluatedPayload is the event payload for one evaluated clause.
type clauseEvaluatedPayload struct {
	JobID        string `json:"job_id"`
	ClauseNumber int    `json:"clause_number"`
	Evaluated    int    `json:"evaluated"`
	Skipped      int    `json:"skipped"`
}

// EmitClauseEvaluated emits the per-clause evaluation event.
func (e *EventEmitter) EmitClauseEvaluated(
	ctx context.Context,
	input domain.EvaluateClauseInput,
	output *domain.EvaluateClauseOutput,
	wfCtx activity.WorkflowContext,
) {
	payload, err := json.Marshal(clauseEvaluatedPayload{
		JobID:        input.JobID,
		ClauseNumber: input.ClauseNumber,
		Evaluated:    output.Evaluated,
		Skipped:      output.Skipped,
	})
	if err != nil {
		activity.SafeLogError(ctx, "Failed to encode ClauseEvaluated payload",
			"job_id", input.JobID, "error", err)
		return
	}

	e.base.EmitEventSafe(ctx, events.Envelope{
		ID:        uuid.New().String(),
		Type:      "evaluation.clause_evaluated",
		Source:    "evaluation-activity",
		Version:   "1.0.0",
		Timestamp: time.Now(),
		IdempotencyKey: events.DeterministicKey(
			wfCtx.WorkflowID, wfCtx.RunID, "clause_evaluated",
			input.JobID, strconv.Itoa(input.ClauseNumber)),
		WorkflowID: wfCtx.WorkflowID,
		RunID:      wfCtx.RunID,
		Payload:    payload,
	}, "ClauseEvaluated")
}
