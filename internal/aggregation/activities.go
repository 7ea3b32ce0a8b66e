// Package aggregation implements the risk aggregator: the final,
// deterministic Temporal activity that reduces every stored clause
// evaluation of a job into the per-tier risk summary and the overall
// compliance verdict, then finalizes the job.
//
// The activity makes no model calls. Given the same stored clauses,
// taxonomy, and thresholds it always produces the same summary, so the
// workflow can retry it freely.
package aggregation

import (
	"context"
	"errors"
	"fmt"

	"github.com/clausehq/go-clauserisk/internal/domain"
	"github.com/clausehq/go-clauserisk/internal/store"
	pkgactivity "github.com/clausehq/go-clauserisk/pkg/activity"
)

// Activities handles aggregation Temporal activities.
type Activities struct {
	pkgactivity.BaseActivities
	clauses    store.ClauseStore
	guidelines store.GuidelineStore
	jobs       store.JobStore
	events     *EventEmitter
}

// NewActivities creates aggregation activities with injected collaborators.
func NewActivities(
	base pkgactivity.BaseActivities,
	clauses store.ClauseStore,
	guidelines store.GuidelineStore,
	jobs store.JobStore,
) *Activities {
	return &Activities{
		BaseActivities: base,
		clauses:        clauses,
		guidelines:     guidelines,
		jobs:           jobs,
		events:         NewEventEmitter(base),
	}
}

// UpdateJobStatus moves the job to a new pipeline state. The workflow
// calls it at stage boundaries and to mark failed jobs.
func (a *Activities) UpdateJobStatus(
	ctx context.Context,
	input domain.UpdateJobStatusInput,
) error {
	if err := input.Validate(); err != nil {
		return nonRetryable("UpdateJobStatus", err, "invalid input")
	}
	if err := a.jobs.UpdateJobStatus(ctx, input.JobID, input.Status); err != nil {
		return retryable("UpdateJobStatus", err, "failed to update job status")
	}
	pkgactivity.SafeLog(ctx, "Job status updated",
		"job_id", input.JobID, "status", input.Status)
	return nil
}

// AggregateRisk reduces a job's clause evaluations into the risk
// summary and writes the terminal job status.
//
// A missing or inactive contract type is fatal: retrying cannot make a
// decommissioned taxonomy valid again. The caller guarantees every
// clause has been evaluated before this runs.
func (a *Activities) AggregateRisk(
	ctx context.Context,
	input domain.AggregateRiskInput,
) (*domain.AggregateRiskOutput, error) {
	if err := input.Validate(); err != nil {
		return nil, nonRetryable("AggregateRisk", err, "invalid input")
	}

	wfCtx := a.GetWorkflowContext(ctx)
	pkgactivity.SafeLog(ctx, "Starting AggregateRisk activity",
		"workflow_id", wfCtx.WorkflowID,
		"job_id", input.JobID,
		"contract_type_id", input.ContractTypeID)

	cfg, err := a.jobs.GetContractTypeConfig(ctx, input.ContractTypeID)
	if err != nil {
		if errors.Is(err, domain.ErrContractTypeNotFound) {
			return nil, nonRetryable("AggregateRisk", err, "contract type configuration not found")
		}
		return nil, retryable("AggregateRisk", err, "failed to load contract type configuration")
	}
	if !cfg.IsActive {
		return nil, nonRetryable("AggregateRisk",
			fmt.Errorf("%w: %s", domain.ErrContractTypeInactive, input.ContractTypeID),
			"contract type is inactive")
	}

	defs, err := a.guidelines.ListByContractType(ctx, input.ContractTypeID)
	if err != nil {
		return nil, retryable("AggregateRisk", err, "failed to load taxonomy")
	}
	if len(defs) == 0 {
		return nil, nonRetryable("AggregateRisk",
			fmt.Errorf("%w: %s", domain.ErrEmptyTaxonomy, input.ContractTypeID),
			"no categories found for contract type")
	}

	clauses, err := a.clauses.ListAll(ctx, input.JobID)
	if err != nil {
		return nil, retryable("AggregateRisk", err, "failed to read clauses")
	}

	a.RecordHeartbeat(ctx, fmt.Sprintf("aggregating %d clauses", len(clauses)))

	summary := domain.ComputeRiskSummary(defs, clauses, *cfg)

	status := domain.JobStatusNonCompliant
	if summary.Compliant {
		status = domain.JobStatusCompliant
	}
	if err := a.jobs.FinalizeJobRisk(ctx, input.JobID, summary, status); err != nil {
		return nil, retryable("AggregateRisk", err, "failed to finalize job")
	}

	output := &domain.AggregateRiskOutput{Summary: summary}
	a.events.EmitRiskAggregated(ctx, input, output, status, wfCtx)

	pkgactivity.SafeLog(ctx, "AggregateRisk completed",
		"job_id", input.JobID,
		"status", status,
		"compliant", summary.Compliant,
		"unknown_observations", summary.UnknownObservations)

	return output, nil
}
