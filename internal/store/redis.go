package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"

	"github.com/clausehq/go-clauserisk/internal/domain"
)

// Key builders for the Redis layout. Clauses live in per-key JSON
// values with a sorted-set index per job so ordered range queries stay
// cheap; guidelines mirror that with a set index per contract type.
func clauseKey(jobID string, n int) string { return fmt.Sprintf("clause:%s:%d", jobID, n) }
func clauseIndexKey(jobID string) string   { return "clauses:" + jobID }
func guidelineKey(ct, cat string) string   { return fmt.Sprintf("guideline:%s:%s", ct, cat) }
func guidelineIndexKey(ct string) string   { return "guidelines:" + ct }
func contractTypeKey(ct string) string     { return "contract_type:" + ct }
func jobKey(id string) string              { return "job:" + id }
func documentKey(ref string) string        { return "document:" + ref }

// RedisClauseStore is a Redis-backed ClauseStore.
type RedisClauseStore struct {
	client redis.UniversalClient
}

// NewRedisClauseStore creates a clause store on the given Redis client.
func NewRedisClauseStore(client redis.UniversalClient) *RedisClauseStore {
	return &RedisClauseStore{client: client}
}

// Get implements ClauseStore.
func (s *RedisClauseStore) Get(ctx context.Context, jobID string, clauseNumber int) (*domain.Clause, error) {
	data, err := s.client.Get(ctx, clauseKey(jobID, clauseNumber)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("%w: job %s clause %d", domain.ErrClauseNotFound, jobID, clauseNumber)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read clause: %w", err)
	}

	var clause domain.Clause
	if err := json.Unmarshal(data, &clause); err != nil {
		return nil, fmt.Errorf("failed to decode clause: %w", err)
	}
	return &clause, nil
}

// LastN implements ClauseStore using a reverse range over the
// clause-number index, re-sorted ascending for callers.
func (s *RedisClauseStore) LastN(ctx context.Context, jobID string, endBefore, n int) ([]domain.Clause, error) {
	maxScore := "+inf"
	if endBefore >= 0 {
		maxScore = "(" + strconv.Itoa(endBefore)
	}

	members, err := s.client.ZRevRangeByScore(ctx, clauseIndexKey(jobID), &redis.ZRangeBy{
		Min:   "0",
		Max:   maxScore,
		Count: int64(n),
	}).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to query clause index: %w", err)
	}
	if len(members) == 0 {
		return nil, nil
	}

	// Members arrive in descending order; fetch and reverse.
	clauses := make([]domain.Clause, 0, len(members))
	for i := len(members) - 1; i >= 0; i-- {
		num, err := strconv.Atoi(members[i])
		if err != nil {
			continue // Foreign member in the index; skip it.
		}
		clause, err := s.Get(ctx, jobID, num)
		if err != nil {
			if errors.Is(err, domain.ErrClauseNotFound) {
				continue // Index ahead of value write; eventual consistency.
			}
			return nil, err
		}
		clauses = append(clauses, *clause)
	}
	return clauses, nil
}

// Count implements ClauseStore.
func (s *RedisClauseStore) Count(ctx context.Context, jobID string) (int, error) {
	count, err := s.client.ZCard(ctx, clauseIndexKey(jobID)).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to count clauses: %w", err)
	}
	return int(count), nil
}

// Upsert implements ClauseStore.
func (s *RedisClauseStore) Upsert(ctx context.Context, clause domain.Clause) error {
	return s.UpsertBatch(ctx, []domain.Clause{clause})
}

// UpsertBatch implements ClauseStore with a single pipeline round trip.
func (s *RedisClauseStore) UpsertBatch(ctx context.Context, clauses []domain.Clause) error {
	if len(clauses) == 0 {
		return nil
	}

	pipe := s.client.Pipeline()
	for _, clause := range clauses {
		data, err := json.Marshal(clause)
		if err != nil {
			return fmt.Errorf("failed to encode clause %d: %w", clause.ClauseNumber, err)
		}
		pipe.Set(ctx, clauseKey(clause.JobID, clause.ClauseNumber), data, 0)
		pipe.ZAdd(ctx, clauseIndexKey(clause.JobID), redis.Z{
			Score:  float64(clause.ClauseNumber),
			Member: strconv.Itoa(clause.ClauseNumber),
		})
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to persist clause batch: %w", err)
	}
	return nil
}

// ListAll implements ClauseStore.
func (s *RedisClauseStore) ListAll(ctx context.Context, jobID string) ([]domain.Clause, error) {
	count, err := s.Count(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, nil
	}
	return s.LastN(ctx, jobID, -1, count)
}

// RedisGuidelineStore is a Redis-backed GuidelineStore.
type RedisGuidelineStore struct {
	client redis.UniversalClient
}

// NewRedisGuidelineStore creates a guideline store on the given Redis client.
func NewRedisGuidelineStore(client redis.UniversalClient) *RedisGuidelineStore {
	return &RedisGuidelineStore{client: client}
}

// ListByContractType implements GuidelineStore.
func (s *RedisGuidelineStore) ListByContractType(ctx context.Context, contractTypeID string) ([]domain.CategoryDefinition, error) {
	categoryIDs, err := s.client.SMembers(ctx, guidelineIndexKey(contractTypeID)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read guideline index: %w", err)
	}

	defs := make([]domain.CategoryDefinition, 0, len(categoryIDs))
	for _, categoryID := range categoryIDs {
		def, err := s.Get(ctx, contractTypeID, categoryID)
		if err != nil {
			if errors.Is(err, domain.ErrGuidelineNotFound) {
				continue
			}
			return nil, err
		}
		defs = append(defs, *def)
	}
	return defs, nil
}

// Get implements GuidelineStore.
func (s *RedisGuidelineStore) Get(ctx context.Context, contractTypeID, categoryID string) (*domain.CategoryDefinition, error) {
	data, err := s.client.Get(ctx, guidelineKey(contractTypeID, categoryID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("%w: %s/%s", domain.ErrGuidelineNotFound, contractTypeID, categoryID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read guideline: %w", err)
	}

	var def domain.CategoryDefinition
	if err := json.Unmarshal(data, &def); err != nil {
		return nil, fmt.Errorf("failed to decode guideline: %w", err)
	}
	return &def, nil
}

// RedisJobStore is a Redis-backed JobStore.
type RedisJobStore struct {
	client redis.UniversalClient
}

// NewRedisJobStore creates a job store on the given Redis client.
func NewRedisJobStore(client redis.UniversalClient) *RedisJobStore {
	return &RedisJobStore{client: client}
}

// GetContractTypeConfig implements JobStore.
func (s *RedisJobStore) GetContractTypeConfig(ctx context.Context, contractTypeID string) (*domain.ContractTypeConfig, error) {
	data, err := s.client.Get(ctx, contractTypeKey(contractTypeID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("%w: %s", domain.ErrContractTypeNotFound, contractTypeID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read contract type config: %w", err)
	}

	var cfg domain.ContractTypeConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to decode contract type config: %w", err)
	}
	return &cfg, nil
}

// GetJob implements JobStore.
func (s *RedisJobStore) GetJob(ctx context.Context, jobID string) (*domain.Job, error) {
	data, err := s.client.Get(ctx, jobKey(jobID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("job %s not found", jobID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read job: %w", err)
	}

	var job domain.Job
	if err := json.Unmarshal(data, &job); err != nil {
		return nil, fmt.Errorf("failed to decode job: %w", err)
	}
	return &job, nil
}

// UpdateJobStatus implements JobStore.
func (s *RedisJobStore) UpdateJobStatus(ctx context.Context, jobID string, status domain.JobStatus) error {
	return s.mutateJob(ctx, jobID, func(job *domain.Job) {
		job.Status = status
	})
}

// FinalizeJobRisk implements JobStore.
func (s *RedisJobStore) FinalizeJobRisk(ctx context.Context, jobID string, summary domain.RiskSummary, status domain.JobStatus) error {
	return s.mutateJob(ctx, jobID, func(job *domain.Job) {
		job.Status = status
		job.RiskSummary = &summary
	})
}

// mutateJob applies a read-modify-write on the job record. A missing
// record is created with just the id, matching the eventually
// consistent store contract.
func (s *RedisJobStore) mutateJob(ctx context.Context, jobID string, mutate func(*domain.Job)) error {
	job, err := s.GetJob(ctx, jobID)
	if err != nil {
		job = &domain.Job{ID: jobID}
	}
	mutate(job)

	data, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("failed to encode job: %w", err)
	}
	if err := s.client.Set(ctx, jobKey(jobID), data, 0).Err(); err != nil {
		return fmt.Errorf("failed to write job: %w", err)
	}
	return nil
}

// RedisDocumentStore is a Redis-backed DocumentStore holding raw
// document blobs uploaded by the ingestion side.
type RedisDocumentStore struct {
	client redis.UniversalClient
}

// NewRedisDocumentStore creates a document store on the given Redis client.
func NewRedisDocumentStore(client redis.UniversalClient) *RedisDocumentStore {
	return &RedisDocumentStore{client: client}
}

// Fetch implements DocumentStore.
func (s *RedisDocumentStore) Fetch(ctx context.Context, ref string) ([]byte, error) {
	data, err := s.client.Get(ctx, documentKey(ref)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("%w: %s", domain.ErrDocumentNotFound, ref)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read document: %w", err)
	}
	return data, nil
}
