// Package store defines the externally-owned persistence collaborators
// the pipeline reads and writes: the clause store, the taxonomy and
// guideline store, and the job store. Two implementations are provided:
// an in-memory one for tests and development and a Redis-backed one for
// deployment.
//
// The stores are eventually consistent and lock-free by contract; the
// pipeline never relies on cross-key transactions, only on per-clause
// upserts being atomic.
package store

import (
	"context"

	"github.com/clausehq/go-clauserisk/internal/domain"
)

// ClauseStore persists clauses keyed by (job id, clause number).
type ClauseStore interface {
	// Get returns one clause, or domain.ErrClauseNotFound.
	Get(ctx context.Context, jobID string, clauseNumber int) (*domain.Clause, error)

	// LastN returns up to n clauses with numbers strictly below
	// endBefore, in ascending clause-number order. Pass endBefore < 0
	// for "the last n clauses of the job". Fewer than n clauses is not
	// an error.
	LastN(ctx context.Context, jobID string, endBefore, n int) ([]domain.Clause, error)

	// Count returns the number of clauses persisted for the job.
	// Because numbering is contiguous from 0, this is also the next
	// unused clause number.
	Count(ctx context.Context, jobID string) (int, error)

	// Upsert writes one clause, replacing any previous value at its
	// (job id, clause number) key.
	Upsert(ctx context.Context, clause domain.Clause) error

	// UpsertBatch writes a batch of clauses.
	UpsertBatch(ctx context.Context, clauses []domain.Clause) error

	// ListAll returns every clause of a job in ascending order.
	ListAll(ctx context.Context, jobID string) ([]domain.Clause, error)
}

// GuidelineStore serves the read-only taxonomy per contract type.
type GuidelineStore interface {
	// ListByContractType returns every category definition for the
	// contract type. An empty result is not an error here; the
	// classifier decides that it is fatal.
	ListByContractType(ctx context.Context, contractTypeID string) ([]domain.CategoryDefinition, error)

	// Get returns one definition, or domain.ErrGuidelineNotFound.
	Get(ctx context.Context, contractTypeID, categoryID string) (*domain.CategoryDefinition, error)
}

// DocumentStore retrieves raw source documents by reference. Document
// storage itself is externally owned; the pipeline only reads blobs to
// hand them to the document-aware model invocation.
type DocumentStore interface {
	// Fetch returns the raw document bytes for a reference.
	Fetch(ctx context.Context, ref string) ([]byte, error)
}

// JobStore holds jobs and per-contract-type configuration.
type JobStore interface {
	// GetContractTypeConfig returns the thresholds and active flag for
	// a contract type, or domain.ErrContractTypeNotFound.
	GetContractTypeConfig(ctx context.Context, contractTypeID string) (*domain.ContractTypeConfig, error)

	// GetJob returns the job record.
	GetJob(ctx context.Context, jobID string) (*domain.Job, error)

	// UpdateJobStatus moves the job to a new pipeline state.
	UpdateJobStatus(ctx context.Context, jobID string, status domain.JobStatus) error

	// FinalizeJobRisk writes the aggregated risk summary and the
	// terminal compliance status in one update. Called exactly once per
	// job, by the aggregator.
	FinalizeJobRisk(ctx context.Context, jobID string, summary domain.RiskSummary, status domain.JobStatus) error
}
