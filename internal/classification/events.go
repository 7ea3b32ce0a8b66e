package classification

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

// EventEmitter handles domain event emission for classification.
// Emission is best-effort and never fails the activity.
type EventEmitter struct{ base activity.BaseActivities }

// NewEventEmitter creates an EventEmitter on the base activity
// infrastructure.
func NewEventEmitter(base activity.BaseActivities) *EventEmitter {
	return &EventEmitter{base: base}
}

// clauseClassifiedPayload is the event payload for one classified clause.
type clauseClassifiedPayload struct {
	JobID        string   `json:"job_id"`
	ClauseNumber int      `json:"clause_number"`
	CategoryIDs  []string `json:"category_ids"`
	Partitions   int      `json:"partitions"`
}

// EmitClauseClassified emits the per-clause classification event.
func (e *EventEmitter) EmitClauseClassified(
	ctx context.Context,
	input domain.ClassifyClauseInput,
	output *domain.ClassifyClauseOutput,
	wfCtx activity.WorkflowContext,
) {
	categoryIDs := make([]string, 0, len(output.Assignments))
	for _, assignment := range output.Assignments {
		categoryIDs = append(categoryIDs, assignment.CategoryID)
	}

	payload, err := json.Marshal(clauseClassifiedPayload{
		JobID:        input.JobID,
		ClauseNumber: input.ClauseNumber,
		CategoryIDs:  categoryIDs,
		Partitions:   output.Partitions,
	})
	if err != nil {
		activity.SafeLogError(ctx, "Failed to encode ClauseClassified payload",
			"job_id", input.JobID, "error", err)
		return
	}

	e.base.EmitEventSafe(ctx, events.Envelope{
		ID:        uuid.New().String(),
		Type:      "classification.clause_classified",
		Source:    "classification-activity",
		Version:   "1.0.0",
		Timestamp: time.Now(),
		IdempotencyKey: events.DeterministicKey(
			wfCtx.WorkflowID, wfCtx.RunID, "clause_classified",
			input.JobID, strconv.Itoa(input.ClauseNumber)),
		WorkflowID: wfCtx.WorkflowID,
		RunID:      wfCtx.RunID,
		Payload:    payload,
	}, "ClauseClassified")
}
