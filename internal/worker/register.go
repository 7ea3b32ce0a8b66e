// Package worker exposes helpers to register workflows/activities with a Temporal worker.
package worker

import (
	sdkworker "go.temporal.io/sdk/worker"

	"github.com/clausehq/go-clauserisk/internal/aggregation"
	"github.com/clausehq/go-clauserisk/internal/classification"
	"github.com/clausehq/go-clauserisk/internal/evaluation"
	"github.com/clausehq/go-clauserisk/internal/llm"
	"github.com/clausehq/go-clauserisk/internal/segmentation"
	"github.com/clausehq/go-clauserisk/internal/store"
	"github.com/clausehq/go-clauserisk/internal/workflow"
	"github.com/clausehq/go-clauserisk/pkg/activity"
	"github.com/clausehq/go-clauserisk/pkg/events"
)

// Stores bundles the persistence collaborators the pipeline activities
// share. Callers provide either the Redis-backed implementations or the
// in-memory ones.
type Stores struct {
	Clauses    store.ClauseStore
	Guidelines store.GuidelineStore
	Documents  store.DocumentStore
	Jobs       store.JobStore
}

// RegisterAll registers all workflows and activities with the Temporal worker.
// This function must be called during worker initialization before starting
// the worker. The registration is not thread-safe and should only be called once
// during application startup.
//
// The function creates stage-specific activity instances with shared base
// infrastructure for common concerns like event emission and logging.
func RegisterAll(w sdkworker.Worker, llmClient llm.Client, stores Stores) {
	eventSink := events.NewNoOpEventSink()

	base := activity.NewBaseActivities(eventSink)

	segmentationActivities := segmentation.NewActivities(
		base, llmClient, stores.Clauses, stores.Documents, segmentation.DefaultConfig())
	classificationActivities := classification.NewActivities(
		base, llmClient, stores.Clauses, stores.Guidelines, classification.DefaultConfig())
	evaluationActivities := evaluation.NewActivities(
		base, llmClient, stores.Clauses, stores.Guidelines, evaluation.DefaultConfig())
	aggregationActivities := aggregation.NewActivities(
		base, stores.Clauses, stores.Guidelines, stores.Jobs)

	w.RegisterWorkflow(workflow.ContractAnalysisWorkflow)

	// Register activities from each pipeline stage.
	w.RegisterActivity(segmentationActivities.SegmentDocument)
	w.RegisterActivity(classificationActivities.ClassifyClause)
	w.RegisterActivity(evaluationActivities.EvaluateClause)
	w.RegisterActivity(aggregationActivities.AggregateRisk)
	w.RegisterActivity(aggregationActivities.UpdateJobStatus)
}
