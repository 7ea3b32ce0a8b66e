// Package segmentation implements the clause segmenter: the Temporal
// activity that turns a raw contract document into the complete,
// ordered, gap-free clause sequence for a job.
//
// Extraction runs as a bounded pass loop. Each pass asks the
// document-aware model for clauses after a continuation anchor (the
// text of the last clause already captured); a truncated response is
// the signal to run another pass, not an error. Because both the anchor
// and the next clause number are re-derived from already-persisted
// state, re-invoking the activity resumes instead of duplicating.
package segmentation

import (
	"context"
	"fmt"

	"github.com/clausehq/go-clauserisk/internal/domain"
	"github.com/clausehq/go-clauserisk/internal/llm"
	"github.com/clausehq/go-clauserisk/internal/store"
	pkgactivity "github.com/clausehq/go-clauserisk/pkg/activity"
)

// Config holds the segmenter's tunables.
type Config struct {
	// Model is the extraction model identifier.
	Model string

	// MaxPasses bounds the extraction loop. Hitting the bound is a
	// logged warning, not a failure: downstream stages operate on
	// whatever was captured.
	MaxPasses int

	// MaxTokens is the per-pass output budget. Larger values mean
	// fewer passes on long documents.
	MaxTokens int64

	// Temperature is kept at zero: extraction must copy, not compose.
	Temperature float64
}

// DefaultConfig returns the production segmenter configuration.
func DefaultConfig() Config {
	return Config{
		Model:       "claude-3-5-sonnet-20241022",
		MaxPasses:   10,
		MaxTokens:   8192,
		Temperature: 0,
	}
}

// Activities handles segmentation Temporal activities.
type Activities struct {
	pkgactivity.BaseActivities
	llmClient llm.Client
	clauses   store.ClauseStore
	documents store.DocumentStore
	events    *EventEmitter
	cfg       Config
}

// NewActivities creates segmentation activities with injected
// collaborators: the model client, the clause store the sequence is
// persisted to, and the external document store blobs are fetched from.
func NewActivities(
	base pkgactivity.BaseActivities,
	client llm.Client,
	clauses store.ClauseStore,
	documents store.DocumentStore,
	cfg Config,
) *Activities {
	return &Activities{
		BaseActivities: base,
		llmClient:      client,
		clauses:        clauses,
		documents:      documents,
		events:         NewEventEmitter(base),
		cfg:            cfg,
	}
}

// SegmentDocument extracts the clause sequence for a job, resuming from
// persisted state when invoked on a partially segmented job.
//
// Fatal (non-retryable): unsupported document format, which returns
// immediately with no partial output. Transient document fetch and
// model errors are surfaced retryably so the workflow's retry policy
// drives them.
func (a *Activities) SegmentDocument(
	ctx context.Context,
	input domain.SegmentDocumentInput,
) (*domain.SegmentDocumentOutput, error) {
	if err := input.Validate(); err != nil {
		return nil, nonRetryable("SegmentDocument", err, "invalid input")
	}
	if !input.DocumentFormat.IsSupported() {
		return nil, nonRetryable("SegmentDocument",
			fmt.Errorf("%w: %s", domain.ErrUnsupportedDocumentFormat, input.DocumentFormat),
			fmt.Sprintf("unsupported document format %q", input.DocumentFormat))
	}

	wfCtx := a.GetWorkflowContext(ctx)
	pkgactivity.SafeLog(ctx, "Starting SegmentDocument activity",
		"workflow_id", wfCtx.WorkflowID,
		"job_id", input.JobID,
		"document_format", input.DocumentFormat)

	docData, err := a.documents.Fetch(ctx, input.DocumentRef)
	if err != nil {
		return nil, retryable("SegmentDocument", err, "failed to fetch document")
	}

	// Re-derive the resume point from persisted state: the next unused
	// clause number and the last captured clause's text as anchor.
	nextNumber, err := a.clauses.Count(ctx, input.JobID)
	if err != nil {
		return nil, retryable("SegmentDocument", err, "failed to read clause count")
	}
	anchor := ""
	if nextNumber > 0 {
		last, err := a.clauses.LastN(ctx, input.JobID, -1, 1)
		if err != nil {
			return nil, retryable("SegmentDocument", err, "failed to read last clause")
		}
		if len(last) > 0 {
			anchor = last[0].Text
		}
	}

	output := &domain.SegmentDocumentOutput{TotalClauses: nextNumber}

	for pass := 0; pass < a.cfg.MaxPasses; pass++ {
		output.Passes = pass + 1
		a.RecordHeartbeat(ctx, fmt.Sprintf("extraction pass %d, %d clauses", pass, nextNumber))

		resp, err := a.llmClient.Invoke(ctx, &llm.Request{
			Model:        a.cfg.Model,
			SystemPrompt: segmentationSystemPrompt,
			Prompt:       buildSegmentationPrompt(anchor),
			MaxTokens:    a.cfg.MaxTokens,
			Temperature:  a.cfg.Temperature,
			Document: &llm.Document{
				Data:   docData,
				Format: input.DocumentFormat,
			},
		})
		if err != nil {
			return nil, wrapModelError("SegmentDocument", err)
		}

		truncated := resp.StopReason.Truncated()
		texts := parseClauseTexts(resp.Content, truncated)

		if len(texts) > 0 {
			batch := make([]domain.Clause, 0, len(texts))
			for i, text := range texts {
				batch = append(batch, domain.Clause{
					JobID:        input.JobID,
					ClauseNumber: nextNumber + i,
					Text:         text,
				})
			}
			if err := a.clauses.UpsertBatch(ctx, batch); err != nil {
				return nil, retryable("SegmentDocument", err, "failed to persist clause batch")
			}

			nextNumber += len(texts)
			anchor = texts[len(texts)-1]
			output.ClausesExtracted += len(texts)
			output.TotalClauses = nextNumber
		}

		if !truncated {
			output.Complete = true
			break
		}
		if len(texts) == 0 {
			// Truncated without a single complete clause: another pass
			// with the same anchor cannot make progress.
			pkgactivity.SafeLogWarn(ctx, "Extraction pass truncated with no parsable clause",
				"job_id", input.JobID,
				"pass", pass)
			break
		}
	}

	if !output.Complete {
		pkgactivity.SafeLogWarn(ctx, "Extraction stopped before document end",
			"job_id", input.JobID,
			"passes", output.Passes,
			"total_clauses", output.TotalClauses)
	}

	if err := output.Validate(); err != nil {
		return nil, nonRetryable("SegmentDocument", err, "invalid output")
	}

	a.events.EmitClausesExtracted(ctx, input.JobID, output, wfCtx)

	pkgactivity.SafeLog(ctx, "SegmentDocument completed",
		"job_id", input.JobID,
		"clauses_extracted", output.ClausesExtracted,
		"total_clauses", output.TotalClauses,
		"passes", output.Passes,
		"complete", output.Complete)

	return output, nil
}
