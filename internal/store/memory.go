package store

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/clausehq/go-clauserisk/internal/domain"
)

// MemoryClauseStore is an in-memory ClauseStore for tests and development.
type MemoryClauseStore struct {
	mu      sync.RWMutex
	clauses map[string]map[int]domain.Clause // jobID → clauseNumber → clause
}

// NewMemoryClauseStore creates an empty in-memory clause store.
func NewMemoryClauseStore() *MemoryClauseStore {
	return &MemoryClauseStore{clauses: make(map[string]map[int]domain.Clause)}
}

// Get implements ClauseStore.
func (s *MemoryClauseStore) Get(_ context.Context, jobID string, clauseNumber int) (*domain.Clause, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	clause, ok := s.clauses[jobID][clauseNumber]
	if !ok {
		return nil, fmt.Errorf("%w: job %s clause %d", domain.ErrClauseNotFound, jobID, clauseNumber)
	}
	return &clause, nil
}

// LastN implements ClauseStore.
func (s *MemoryClauseStore) LastN(_ context.Context, jobID string, endBefore, n int) ([]domain.Clause, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var numbers []int
	for num := range s.clauses[jobID] {
		if endBefore >= 0 && num >= endBefore {
			continue
		}
		numbers = append(numbers, num)
	}
	sort.Ints(numbers)
	if len(numbers) > n {
		numbers = numbers[len(numbers)-n:]
	}

	result := make([]domain.Clause, 0, len(numbers))
	for _, num := range numbers {
		result = append(result, s.clauses[jobID][num])
	}
	return result, nil
}

// Count implements ClauseStore.
func (s *MemoryClauseStore) Count(_ context.Context, jobID string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.clauses[jobID]), nil
}

// Upsert implements ClauseStore.
func (s *MemoryClauseStore) Upsert(_ context.Context, clause domain.Clause) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.upsertLocked(clause)
	return nil
}

// UpsertBatch implements ClauseStore.
func (s *MemoryClauseStore) UpsertBatch(_ context.Context, clauses []domain.Clause) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, clause := range clauses {
		s.upsertLocked(clause)
	}
	return nil
}

func (s *MemoryClauseStore) upsertLocked(clause domain.Clause) {
	if s.clauses[clause.JobID] == nil {
		s.clauses[clause.JobID] = make(map[int]domain.Clause)
	}
	s.clauses[clause.JobID][clause.ClauseNumber] = clause
}

// ListAll implements ClauseStore.
func (s *MemoryClauseStore) ListAll(ctx context.Context, jobID string) ([]domain.Clause, error) {
	s.mu.RLock()
	count := len(s.clauses[jobID])
	s.mu.RUnlock()
	return s.LastN(ctx, jobID, -1, count)
}

// MemoryGuidelineStore is an in-memory GuidelineStore for tests and
// development. Definitions are seeded up front and read-only afterwards.
type MemoryGuidelineStore struct {
	mu          sync.RWMutex
	definitions map[string][]domain.CategoryDefinition // contractTypeID → definitions
}

// NewMemoryGuidelineStore creates a guideline store seeded with the
// given definitions.
func NewMemoryGuidelineStore(defs ...domain.CategoryDefinition) *MemoryGuidelineStore {
	s := &MemoryGuidelineStore{definitions: make(map[string][]domain.CategoryDefinition)}
	for _, def := range defs {
		s.definitions[def.ContractTypeID] = append(s.definitions[def.ContractTypeID], def)
	}
	return s
}

// ListByContractType implements GuidelineStore.
func (s *MemoryGuidelineStore) ListByContractType(_ context.Context, contractTypeID string) ([]domain.CategoryDefinition, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	defs := s.definitions[contractTypeID]
	out := make([]domain.CategoryDefinition, len(defs))
	copy(out, defs)
	return out, nil
}

// Get implements GuidelineStore.
func (s *MemoryGuidelineStore) Get(_ context.Context, contractTypeID, categoryID string) (*domain.CategoryDefinition, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, def := range s.definitions[contractTypeID] {
		if def.CategoryID == categoryID {
			d := def
			return &d, nil
		}
	}
	return nil, fmt.Errorf("%w: %s/%s", domain.ErrGuidelineNotFound, contractTypeID, categoryID)
}

// Delete removes one definition. Tests use it to simulate a guideline
// going stale between classification and evaluation.
func (s *MemoryGuidelineStore) Delete(contractTypeID, categoryID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	defs := s.definitions[contractTypeID]
	for i, def := range defs {
		if def.CategoryID == categoryID {
			s.definitions[contractTypeID] = append(defs[:i:i], defs[i+1:]...)
			return
		}
	}
}

// MemoryJobStore is an in-memory JobStore for tests and development.
type MemoryJobStore struct {
	mu      sync.RWMutex
	jobs    map[string]domain.Job
	configs map[string]domain.ContractTypeConfig
}

// NewMemoryJobStore creates a job store seeded with the given
// contract-type configurations.
func NewMemoryJobStore(configs ...domain.ContractTypeConfig) *MemoryJobStore {
	s := &MemoryJobStore{
		jobs:    make(map[string]domain.Job),
		configs: make(map[string]domain.ContractTypeConfig),
	}
	for _, cfg := range configs {
		s.configs[cfg.ContractTypeID] = cfg
	}
	return s
}

// PutJob seeds a job record.
func (s *MemoryJobStore) PutJob(job domain.Job) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[job.ID] = job
}

// GetContractTypeConfig implements JobStore.
func (s *MemoryJobStore) GetContractTypeConfig(_ context.Context, contractTypeID string) (*domain.ContractTypeConfig, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cfg, ok := s.configs[contractTypeID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrContractTypeNotFound, contractTypeID)
	}
	return &cfg, nil
}

// GetJob implements JobStore.
func (s *MemoryJobStore) GetJob(_ context.Context, jobID string) (*domain.Job, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	job, ok := s.jobs[jobID]
	if !ok {
		return nil, fmt.Errorf("job %s not found", jobID)
	}
	return &job, nil
}

// UpdateJobStatus implements JobStore.
func (s *MemoryJobStore) UpdateJobStatus(_ context.Context, jobID string, status domain.JobStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	job := s.jobs[jobID]
	job.ID = jobID
	job.Status = status
	s.jobs[jobID] = job
	return nil
}

// FinalizeJobRisk implements JobStore.
func (s *MemoryJobStore) FinalizeJobRisk(_ context.Context, jobID string, summary domain.RiskSummary, status domain.JobStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	job := s.jobs[jobID]
	job.ID = jobID
	job.Status = status
	job.RiskSummary = &summary
	s.jobs[jobID] = job
	return nil
}

// MemoryDocumentStore is an in-memory DocumentStore for tests and
// local development.
type MemoryDocumentStore struct {
	mu   sync.RWMutex
	docs map[string][]byte
}

// NewMemoryDocumentStore creates an empty in-memory document store.
func NewMemoryDocumentStore() *MemoryDocumentStore {
	return &MemoryDocumentStore{docs: make(map[string][]byte)}
}

// Put stores document bytes under a reference.
func (s *MemoryDocumentStore) Put(ref string, data []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[ref] = data
}

// Fetch implements DocumentStore.
func (s *MemoryDocumentStore) Fetch(_ context.Context, ref string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, ok := s.docs[ref]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrDocumentNotFound, ref)
	}
	return data, nil
}
