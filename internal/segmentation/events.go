package segmentation

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

// EventEmitter handles domain event emission for segmentation. All
// emission is best-effort: failures are logged and never fail the
// extraction itself.
type EventEmitter struct{ base activity.BaseActivities }

// NewEventEmitter creates an EventEmitter on the base activity
// infrastructure.
func NewEventEmitter(base activity.BaseActivities) *EventEmitter {
	return &EventEmitter{base: base}
}

// clausesExtractedPayload is the event payload for one segmenter run.
type clausesExtractedPayload struct {
	JobID            string `json:"job_id"`
	ClausesExtracted int    `json:"clauses_extracted"`
	TotalClauses     int    `json:"total_clauses"`
	Passes           int    `json:"passes"`
	Complete         bool   `json:"complete"`
}

// EmitClausesExtracted emits the segmentation completion event.
func (e *EventEmitter) EmitClausesExtracted(
	ctx context.Context,
	jobID string,
	output *domain.SegmentDocumentOutput,
	wfCtx activity.WorkflowContext,
) {
	payload, err := json.Marshal(clausesExtractedPayload{
		JobID:            jobID,
		ClausesExtracted: output.ClausesExtracted,
		TotalClauses:     output.TotalClauses,
		Passes:           output.Passes,
		Complete:         output.Complete,
	})
	if err != nil {
		activity.SafeLogError(ctx, "Failed to encode ClausesExtracted payload",
			"job_id", jobID, "error", err)
		return
	}

	e.base.EmitEventSafe(ctx, events.Envelope{
		ID:        uuid.New().String(),
		Type:      "segmentation.clauses_extracted",
		Source:    "segmentation-activity",
		Version:   "1.0.0",
		Timestamp: time.Now(),
		IdempotencyKey: events.DeterministicKey(
			wfCtx.WorkflowID, wfCtx.RunID, "clauses_extracted",
			jobID, strconv.Itoa(output.TotalClauses)),
		WorkflowID: wfCtx.WorkflowID,
		RunID:      wfCtx.RunID,
		Payload:    payload,
	}, "ClausesExtracted")
}
