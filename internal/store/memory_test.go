package store

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clausehq/go-clauserisk/internal/domain"
)

func seedClauses(t *testing.T, s *MemoryClauseStore, jobID string, n int) {
	t.Helper()
	clauses := make([]domain.Clause, n)
	for i := range clauses {
		clauses[i] = domain.Clause{
			JobID:        jobID,
			ClauseNumber: i,
			Text:         fmt.Sprintf("clause %d", i),
		}
	}
	require.NoError(t, s.UpsertBatch(context.Background(), clauses))
}

func TestMemoryClauseStore_GetAndCount(t *testing.T) {
	s := NewMemoryClauseStore()
	seedClauses(t, s, "job-1", 3)

	count, err := s.Count(context.Background(), "job-1")
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	clause, err := s.Get(context.Background(), "job-1", 1)
	require.NoError(t, err)
	assert.Equal(t, "clause 1", clause.Text)

	_, err = s.Get(context.Background(), "job-1", 99)
	assert.ErrorIs(t, err, domain.ErrClauseNotFound)
}

func TestMemoryClauseStore_LastN(t *testing.T) {
	s := NewMemoryClauseStore()
	seedClauses(t, s, "job-1", 5)

	t.Run("window before a clause", func(t *testing.T) {
		got, err := s.LastN(context.Background(), "job-1", 3, 2)
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, 1, got[0].ClauseNumber)
		assert.Equal(t, 2, got[1].ClauseNumber, "ascending order")
	})

	t.Run("window from the end", func(t *testing.T) {
		got, err := s.LastN(context.Background(), "job-1", -1, 2)
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, 3, got[0].ClauseNumber)
		assert.Equal(t, 4, got[1].ClauseNumber)
	})

	t.Run("window larger than history", func(t *testing.T) {
		got, err := s.LastN(context.Background(), "job-1", 2, 20)
		require.NoError(t, err)
		assert.Len(t, got, 2)
	})

	t.Run("first clause has no context", func(t *testing.T) {
		got, err := s.LastN(context.Background(), "job-1", 0, 20)
		require.NoError(t, err)
		assert.Empty(t, got)
	})
}

func TestMemoryClauseStore_UpsertIsIdempotent(t *testing.T) {
	s := NewMemoryClauseStore()
	clause := domain.Clause{JobID: "job-1", ClauseNumber: 0, Text: "original"}
	require.NoError(t, s.Upsert(context.Background(), clause))

	clause.Text = "rewritten"
	require.NoError(t, s.Upsert(context.Background(), clause))

	count, err := s.Count(context.Background(), "job-1")
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	got, err := s.Get(context.Background(), "job-1", 0)
	require.NoError(t, err)
	assert.Equal(t, "rewritten", got.Text)
}

func TestMemoryClauseStore_ListAllIsolatesJobs(t *testing.T) {
	s := NewMemoryClauseStore()
	seedClauses(t, s, "job-1", 2)
	seedClauses(t, s, "job-2", 4)

	got, err := s.ListAll(context.Background(), "job-1")
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestMemoryGuidelineStore(t *testing.T) {
	def := domain.CategoryDefinition{
		ContractTypeID: "saas-msa",
		CategoryID:     "pay",
		Name:           "Payment Terms",
		ImpactLevel:    domain.ImpactLow,
	}
	s := NewMemoryGuidelineStore(def)

	defs, err := s.ListByContractType(context.Background(), "saas-msa")
	require.NoError(t, err)
	assert.Len(t, defs, 1)

	defs, err = s.ListByContractType(context.Background(), "other")
	require.NoError(t, err)
	assert.Empty(t, defs)

	got, err := s.Get(context.Background(), "saas-msa", "pay")
	require.NoError(t, err)
	assert.Equal(t, "Payment Terms", got.Name)

	s.Delete("saas-msa", "pay")
	_, err = s.Get(context.Background(), "saas-msa", "pay")
	assert.ErrorIs(t, err, domain.ErrGuidelineNotFound)
}

func TestMemoryJobStore(t *testing.T) {
	cfg := domain.ContractTypeConfig{ContractTypeID: "saas-msa", IsActive: true}
	s := NewMemoryJobStore(cfg)

	got, err := s.GetContractTypeConfig(context.Background(), "saas-msa")
	require.NoError(t, err)
	assert.True(t, got.IsActive)

	_, err = s.GetContractTypeConfig(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrContractTypeNotFound)

	require.NoError(t, s.UpdateJobStatus(context.Background(), "job-1", domain.JobStatusSegmenting))
	job, err := s.GetJob(context.Background(), "job-1")
	require.NoError(t, err)
	assert.Equal(t, domain.JobStatusSegmenting, job.Status)

	summary := domain.RiskSummary{Compliant: true}
	require.NoError(t, s.FinalizeJobRisk(context.Background(), "job-1", summary, domain.JobStatusCompliant))
	job, err = s.GetJob(context.Background(), "job-1")
	require.NoError(t, err)
	assert.Equal(t, domain.JobStatusCompliant, job.Status)
	require.NotNil(t, job.RiskSummary)
	assert.True(t, job.RiskSummary.Compliant)
}

func TestMemoryDocumentStore(t *testing.T) {
	s := NewMemoryDocumentStore()
	s.Put("doc-1", []byte("blob"))

	data, err := s.Fetch(context.Background(), "doc-1")
	require.NoError(t, err)
	assert.Equal(t, []byte("blob"), data)

	_, err = s.Fetch(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrDocumentNotFound)
}

func TestRedisKeyLayout(t *testing.T) {
	assert.Equal(t, "clause:job-1:7", clauseKey("job-1", 7))
	assert.Equal(t, "clauses:job-1", clauseIndexKey("job-1"))
	assert.Equal(t, "guideline:saas-msa:pay", guidelineKey("saas-msa", "pay"))
	assert.Equal(t, "guidelines:saas-msa", guidelineIndexKey("saas-msa"))
	assert.Equal(t, "contract_type:saas-msa", contractTypeKey("saas-msa"))
	assert.Equal(t, "job:job-1", jobKey("job-1"))
	assert.Equal(t, "document:doc-1", documentKey("doc-1"))
}
