// Package workflow orchestrates contract analysis using Temporal
// workflows. It defines deterministic control flow with clean
// separation of concerns: Segment → Classify → Evaluate → Aggregate.
package workflow

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	"github.com/clausehq/go-clauserisk/internal/domain"
)

// TaskQueue is the Temporal task queue contract analysis workers poll.
const TaskQueue = "contract-analysis"

// Activity names as registered by the worker. The workflow invokes by
// name so it never imports activity packages.
const (
	activitySegmentDocument = "SegmentDocument"
	activityClassifyClause  = "ClassifyClause"
	activityEvaluateClause  = "EvaluateClause"
	activityAggregateRisk   = "AggregateRisk"
	activityUpdateJobStatus = "UpdateJobStatus"
)

// maxConcurrentClauseActivities bounds the per-workflow fan-out of
// classification and evaluation activities. Worker-level limits still
// apply on top.
const maxConcurrentClauseActivities = 8

// ContractAnalysisWorkflow orchestrates one full contract analysis:
// clause segmentation, per-clause classification and evaluation, and
// the final risk aggregation. All workflow code must use workflow-safe
// APIs only.
//
// Evaluation starts only after every clause is classified, and
// aggregation only after every clause is evaluated. Any stage failure
// marks the job failed before the workflow itself fails.
func ContractAnalysisWorkflow(
	ctx workflow.Context,
	req domain.AnalyzeContractRequest,
) (*domain.AggregateRiskOutput, error) {
	// Version gate enables safe evolution and backward compatibility.
	const currentVersion = 1
	_ = workflow.GetVersion(ctx, "contract_analysis.v", workflow.DefaultVersion, currentVersion)

	// Validate request early to fail fast on invalid input.
	if err := req.Validate(); err != nil {
		return nil, temporal.NewNonRetryableApplicationError(
			"invalid analysis request",
			"Validation",
			err,
		)
	}

	// Configure standard timeouts and retry policy for all activities.
	ao := workflow.ActivityOptions{
		StartToCloseTimeout: 10 * time.Minute,
		HeartbeatTimeout:    time.Minute,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    time.Second,
			BackoffCoefficient: 2.0,
			MaximumInterval:    time.Minute,
			MaximumAttempts:    3,
		},
	}
	ctx = workflow.WithActivityOptions(ctx, ao)

	output, err := runPipeline(ctx, req)
	if err != nil {
		markJobFailed(ctx, req.JobID)
		return nil, err
	}
	return output, nil
}

// runPipeline executes the four stages in order with stage-boundary
// status transitions.
func runPipeline(
	ctx workflow.Context,
	req domain.AnalyzeContractRequest,
) (*domain.AggregateRiskOutput, error) {
	logger := workflow.GetLogger(ctx)

	if err := updateStatus(ctx, req.JobID, domain.JobStatusSegmenting); err != nil {
		return nil, err
	}

	var segmented domain.SegmentDocumentOutput
	err := workflow.ExecuteActivity(ctx, activitySegmentDocument, domain.SegmentDocumentInput{
		JobID:          req.JobID,
		DocumentRef:    req.DocumentRef,
		DocumentFormat: req.DocumentFormat,
	}).Get(ctx, &segmented)
	if err != nil {
		return nil, err
	}
	if !segmented.Complete {
		logger.Warn("Segmentation stopped at pass limit; proceeding with captured clauses",
			"job_id", req.JobID,
			"total_clauses", segmented.TotalClauses,
			"passes", segmented.Passes)
	}

	if err := updateStatus(ctx, req.JobID, domain.JobStatusClassifying); err != nil {
		return nil, err
	}
	err = forEachClause(ctx, segmented.TotalClauses, func(gctx workflow.Context, n int) error {
		return workflow.ExecuteActivity(gctx, activityClassifyClause, domain.ClassifyClauseInput{
			JobID:          req.JobID,
			ClauseNumber:   n,
			ContractTypeID: req.ContractTypeID,
		}).Get(gctx, nil)
	})
	if err != nil {
		return nil, err
	}

	if err := updateStatus(ctx, req.JobID, domain.JobStatusEvaluating); err != nil {
		return nil, err
	}
	err = forEachClause(ctx, segmented.TotalClauses, func(gctx workflow.Context, n int) error {
		return workflow.ExecuteActivity(gctx, activityEvaluateClause, domain.EvaluateClauseInput{
			JobID:          req.JobID,
			ClauseNumber:   n,
			ContractTypeID: req.ContractTypeID,
			OutputLanguage: req.OutputLanguage,
		}).Get(gctx, nil)
	})
	if err != nil {
		return nil, err
	}

	var output domain.AggregateRiskOutput
	err = workflow.ExecuteActivity(ctx, activityAggregateRisk, domain.AggregateRiskInput{
		JobID:          req.JobID,
		ContractTypeID: req.ContractTypeID,
	}).Get(ctx, &output)
	if err != nil {
		return nil, err
	}

	return &output, nil
}

// forEachClause runs one activity per clause number with bounded
// concurrency. It launches no further work after the first failure and
// waits for in-flight activities before returning that error.
func forEachClause(
	ctx workflow.Context,
	total int,
	run func(ctx workflow.Context, clauseNumber int) error,
) error {
	sem := workflow.NewSemaphore(ctx, maxConcurrentClauseActivities)
	wg := workflow.NewWaitGroup(ctx)

	var firstErr error
	for n := 0; n < total && firstErr == nil; n++ {
		if err := sem.Acquire(ctx, 1); err != nil {
			firstErr = err
			break
		}

		clauseNumber := n
		wg.Add(1)
		workflow.Go(ctx, func(gctx workflow.Context) {
			defer wg.Done()
			defer sem.Release(1)
			if err := run(gctx, clauseNumber); err != nil && firstErr == nil {
				firstErr = err
			}
		})
	}

	wg.Wait(ctx)
	return firstErr
}

// updateStatus runs the job status transition activity.
func updateStatus(ctx workflow.Context, jobID string, status domain.JobStatus) error {
	return workflow.ExecuteActivity(ctx, activityUpdateJobStatus, domain.UpdateJobStatusInput{
		JobID:  jobID,
		Status: status,
	}).Get(ctx, nil)
}

// markJobFailed records the failed terminal state on a disconnected
// context so it still runs when the workflow context is cancelled.
func markJobFailed(ctx workflow.Context, jobID string) {
	dctx, cancel := workflow.NewDisconnectedContext(ctx)
	defer cancel()
	if err := updateStatus(dctx, jobID, domain.JobStatusFailed); err != nil {
		workflow.GetLogger(ctx).Error("Failed to mark job as failed",
			"job_id", jobID, "error", err)
	}
}
