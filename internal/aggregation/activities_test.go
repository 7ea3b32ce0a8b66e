package aggregation

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.temporal.io/sdk/temporal"

	"github.com/clausehq/go-clauserisk/internal/domain"
	"github.com/clausehq/go-clauserisk/internal/store"
	pkgactivity "github.com/clausehq/go-clauserisk/pkg/activity"
	"github.com/clausehq/go-clauserisk/pkg/events"
)

func boolPtr(b bool) *bool { return &b }

func newTestActivities(cfg domain.ContractTypeConfig, defs ...domain.CategoryDefinition) (*Activities, *store.MemoryClauseStore, *store.MemoryJobStore) {
	clauses := store.NewMemoryClauseStore()
	guidelines := store.NewMemoryGuidelineStore(defs...)
	jobs := store.NewMemoryJobStore(cfg)
	base := pkgactivity.NewBaseActivities(events.NewNoOpEventSink())
	return NewActivities(base, clauses, guidelines, jobs), clauses, jobs
}

func aggDef(id string, impact domain.ImpactLevel) domain.CategoryDefinition {
	return domain.CategoryDefinition{
		ContractTypeID: "saas-msa",
		CategoryID:     id,
		Name:           id,
		ImpactLevel:    impact,
	}
}

func aggInput() domain.AggregateRiskInput {
	return domain.AggregateRiskInput{JobID: "job-1", ContractTypeID: "saas-msa"}
}

func evaluatedClause(n int, categoryID string, compliant bool) domain.Clause {
	return domain.Clause{
		JobID:        "job-1",
		ClauseNumber: n,
		Text:         "clause text",
		Categories: []domain.CategoryAssignment{{
			CategoryID:   categoryID,
			CategoryName: categoryID,
			Compliant:    boolPtr(compliant),
		}},
	}
}

func TestAggregateRisk_CompliantJob(t *testing.T) {
	cfg := domain.ContractTypeConfig{
		ContractTypeID: "saas-msa",
		IsActive:       true,
	}
	activities, clauses, jobs := newTestActivities(cfg,
		aggDef("liability-cap", domain.ImpactHigh),
		aggDef("termination", domain.ImpactHigh),
	)
	require.NoError(t, clauses.UpsertBatch(context.Background(), []domain.Clause{
		evaluatedClause(0, "liability-cap", true),
		evaluatedClause(1, "termination", true),
	}))

	output, err := activities.AggregateRisk(context.Background(), aggInput())

	require.NoError(t, err)
	assert.True(t, output.Summary.Compliant)
	assert.Equal(t, 2, output.Summary.Tiers[domain.RiskTierNone].Quantity)

	job, err := jobs.GetJob(context.Background(), "job-1")
	require.NoError(t, err)
	assert.Equal(t, domain.JobStatusCompliant, job.Status)
	require.NotNil(t, job.RiskSummary)
	assert.Equal(t, output.Summary, *job.RiskSummary)
}

func TestAggregateRisk_NonCompliantJob(t *testing.T) {
	cfg := domain.ContractTypeConfig{
		ContractTypeID:    "saas-msa",
		IsActive:          true,
		HighRiskThreshold: 0,
	}
	activities, clauses, jobs := newTestActivities(cfg,
		aggDef("liability-cap", domain.ImpactHigh),
	)
	require.NoError(t, clauses.Upsert(context.Background(),
		evaluatedClause(0, "liability-cap", false)))

	output, err := activities.AggregateRisk(context.Background(), aggInput())

	require.NoError(t, err)
	assert.False(t, output.Summary.Compliant)

	job, err := jobs.GetJob(context.Background(), "job-1")
	require.NoError(t, err)
	assert.Equal(t, domain.JobStatusNonCompliant, job.Status)
}

func TestAggregateRisk_UnknownContractTypeIsFatal(t *testing.T) {
	activities, _, _ := newTestActivities(domain.ContractTypeConfig{
		ContractTypeID: "other-type",
		IsActive:       true,
	})

	_, err := activities.AggregateRisk(context.Background(), aggInput())

	require.Error(t, err)
	var appErr *temporal.ApplicationError
	require.ErrorAs(t, err, &appErr)
	assert.True(t, appErr.NonRetryable())
	assert.Contains(t, appErr.Error(), "contract type configuration not found")
}

func TestAggregateRisk_InactiveContractTypeIsFatal(t *testing.T) {
	cfg := domain.ContractTypeConfig{ContractTypeID: "saas-msa", IsActive: false}
	activities, _, _ := newTestActivities(cfg, aggDef("pay", domain.ImpactLow))

	_, err := activities.AggregateRisk(context.Background(), aggInput())

	require.Error(t, err)
	var appErr *temporal.ApplicationError
	require.ErrorAs(t, err, &appErr)
	assert.True(t, appErr.NonRetryable())
	assert.Contains(t, appErr.Error(), "contract type is inactive")
}

func TestAggregateRisk_EmptyTaxonomyIsFatal(t *testing.T) {
	cfg := domain.ContractTypeConfig{ContractTypeID: "saas-msa", IsActive: true}
	activities, _, _ := newTestActivities(cfg)

	_, err := activities.AggregateRisk(context.Background(), aggInput())

	require.Error(t, err)
	var appErr *temporal.ApplicationError
	require.ErrorAs(t, err, &appErr)
	assert.True(t, appErr.NonRetryable())
}

func TestAggregateRisk_DeterministicAcrossRuns(t *testing.T) {
	cfg := domain.ContractTypeConfig{
		ContractTypeID:      "saas-msa",
		IsActive:            true,
		MediumRiskThreshold: 1,
		LowRiskThreshold:    1,
	}
	activities, clauses, _ := newTestActivities(cfg,
		aggDef("pay", domain.ImpactLow),
		aggDef("term", domain.ImpactMedium),
	)
	require.NoError(t, clauses.Upsert(context.Background(),
		evaluatedClause(0, "pay", false)))

	first, err := activities.AggregateRisk(context.Background(), aggInput())
	require.NoError(t, err)
	second, err := activities.AggregateRisk(context.Background(), aggInput())
	require.NoError(t, err)

	assert.Equal(t, first.Summary, second.Summary)
}

func TestUpdateJobStatus(t *testing.T) {
	cfg := domain.ContractTypeConfig{ContractTypeID: "saas-msa", IsActive: true}
	activities, _, jobs := newTestActivities(cfg)

	err := activities.UpdateJobStatus(context.Background(), domain.UpdateJobStatusInput{
		JobID:  "job-1",
		Status: domain.JobStatusClassifying,
	})

	require.NoError(t, err)
	job, err := jobs.GetJob(context.Background(), "job-1")
	require.NoError(t, err)
	assert.Equal(t, domain.JobStatusClassifying, job.Status)
}
