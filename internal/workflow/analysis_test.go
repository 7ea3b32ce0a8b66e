package workflow

import (
	"context"
	"sort"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/testsuite"

	"github.com/clausehq/go-clauserisk/internal/domain"
)

// pipelineRecorder registers fake pipeline activities that record their
// invocations, so tests can assert on orchestration order and fan-out
// without real stores or model calls.
type pipelineRecorder struct {
	mu sync.Mutex

	segmentCalls    int
	classifyClauses []int
	evaluateClauses []int
	aggregateCalls  int
	statuses        []domain.JobStatus

	segmentOutput domain.SegmentDocumentOutput
	classifyErr   error
}

func (r *pipelineRecorder) register(env *testsuite.TestWorkflowEnvironment) {
	env.RegisterActivityWithOptions(
		func(_ context.Context, _ domain.SegmentDocumentInput) (*domain.SegmentDocumentOutput, error) {
			r.mu.Lock()
			defer r.mu.Unlock()
			r.segmentCalls++
			out := r.segmentOutput
			return &out, nil
		},
		activity.RegisterOptions{Name: activitySegmentDocument},
	)
	env.RegisterActivityWithOptions(
		func(_ context.Context, in domain.ClassifyClauseInput) (*domain.ClassifyClauseOutput, error) {
			r.mu.Lock()
			defer r.mu.Unlock()
			if r.classifyErr != nil {
				return nil, r.classifyErr
			}
			r.classifyClauses = append(r.classifyClauses, in.ClauseNumber)
			return &domain.ClassifyClauseOutput{
				Assignments: []domain.CategoryAssignment{domain.UnknownAssignment()},
				Partitions:  1,
			}, nil
		},
		activity.RegisterOptions{Name: activityClassifyClause},
	)
	env.RegisterActivityWithOptions(
		func(_ context.Context, in domain.EvaluateClauseInput) (*domain.EvaluateClauseOutput, error) {
			r.mu.Lock()
			defer r.mu.Unlock()
			r.evaluateClauses = append(r.evaluateClauses, in.ClauseNumber)
			return &domain.EvaluateClauseOutput{}, nil
		},
		activity.RegisterOptions{Name: activityEvaluateClause},
	)
	env.RegisterActivityWithOptions(
		func(_ context.Context, _ domain.AggregateRiskInput) (*domain.AggregateRiskOutput, error) {
			r.mu.Lock()
			defer r.mu.Unlock()
			r.aggregateCalls++
			return &domain.AggregateRiskOutput{
				Summary: domain.RiskSummary{Compliant: true},
			}, nil
		},
		activity.RegisterOptions{Name: activityAggregateRisk},
	)
	env.RegisterActivityWithOptions(
		func(_ context.Context, in domain.UpdateJobStatusInput) error {
			r.mu.Lock()
			defer r.mu.Unlock()
			r.statuses = append(r.statuses, in.Status)
			return nil
		},
		activity.RegisterOptions{Name: activityUpdateJobStatus},
	)
}

func validRequest() domain.AnalyzeContractRequest {
	return domain.AnalyzeContractRequest{
		JobID:          "job-1",
		ContractTypeID: "saas-msa",
		DocumentRef:    "doc-1",
		DocumentFormat: domain.DocumentFormatPDF,
		OutputLanguage: "English",
	}
}

func TestContractAnalysisWorkflow_HappyPath(t *testing.T) {
	testSuite := &testsuite.WorkflowTestSuite{}
	env := testSuite.NewTestWorkflowEnvironment()

	recorder := &pipelineRecorder{
		segmentOutput: domain.SegmentDocumentOutput{
			TotalClauses:     3,
			ClausesExtracted: 3,
			Passes:           1,
			Complete:         true,
		},
	}
	recorder.register(env)

	env.ExecuteWorkflow(ContractAnalysisWorkflow, validRequest())

	require.True(t, env.IsWorkflowCompleted())
	require.NoError(t, env.GetWorkflowError())

	var output domain.AggregateRiskOutput
	require.NoError(t, env.GetWorkflowResult(&output))
	assert.True(t, output.Summary.Compliant)

	assert.Equal(t, 1, recorder.segmentCalls)
	assert.Equal(t, 1, recorder.aggregateCalls)

	sort.Ints(recorder.classifyClauses)
	sort.Ints(recorder.evaluateClauses)
	assert.Equal(t, []int{0, 1, 2}, recorder.classifyClauses,
		"one classification per extracted clause")
	assert.Equal(t, []int{0, 1, 2}, recorder.evaluateClauses,
		"one evaluation per extracted clause")

	assert.Equal(t, []domain.JobStatus{
		domain.JobStatusSegmenting,
		domain.JobStatusClassifying,
		domain.JobStatusEvaluating,
	}, recorder.statuses, "stage transitions in pipeline order")
}

func TestContractAnalysisWorkflow_InvalidRequest(t *testing.T) {
	testSuite := &testsuite.WorkflowTestSuite{}
	env := testSuite.NewTestWorkflowEnvironment()
	(&pipelineRecorder{}).register(env)

	env.ExecuteWorkflow(ContractAnalysisWorkflow, domain.AnalyzeContractRequest{})

	require.True(t, env.IsWorkflowCompleted())
	err := env.GetWorkflowError()
	require.Error(t, err)

	var appErr *temporal.ApplicationError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "Validation", appErr.Type())
	assert.True(t, appErr.NonRetryable())
}

func TestContractAnalysisWorkflow_StageFailureMarksJobFailed(t *testing.T) {
	testSuite := &testsuite.WorkflowTestSuite{}
	env := testSuite.NewTestWorkflowEnvironment()

	recorder := &pipelineRecorder{
		segmentOutput: domain.SegmentDocumentOutput{TotalClauses: 2, Complete: true},
		classifyErr: temporal.NewNonRetryableApplicationError(
			"no categories found for contract type saas-msa", "ClassifyClause", nil),
	}
	recorder.register(env)

	env.ExecuteWorkflow(ContractAnalysisWorkflow, validRequest())

	require.True(t, env.IsWorkflowCompleted())
	require.Error(t, env.GetWorkflowError())

	require.NotEmpty(t, recorder.statuses)
	assert.Equal(t, domain.JobStatusFailed, recorder.statuses[len(recorder.statuses)-1],
		"failure path records the failed terminal state")
	assert.Zero(t, recorder.aggregateCalls)
	assert.Empty(t, recorder.evaluateClauses)
}

func TestContractAnalysisWorkflow_ZeroClauses(t *testing.T) {
	testSuite := &testsuite.WorkflowTestSuite{}
	env := testSuite.NewTestWorkflowEnvironment()

	recorder := &pipelineRecorder{
		segmentOutput: domain.SegmentDocumentOutput{Complete: true, Passes: 1},
	}
	recorder.register(env)

	env.ExecuteWorkflow(ContractAnalysisWorkflow, validRequest())

	require.True(t, env.IsWorkflowCompleted())
	require.NoError(t, env.GetWorkflowError())

	assert.Empty(t, recorder.classifyClauses)
	assert.Empty(t, recorder.evaluateClauses)
	assert.Equal(t, 1, recorder.aggregateCalls,
		"aggregation still finalizes a job with no clauses")
}
