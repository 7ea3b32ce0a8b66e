// Package classification implements the clause classifier: the Temporal
// activity that assigns zero or more taxonomy categories to a clause.
//
// One invocation classifies one clause. The contract type's taxonomy is
// partitioned into k near-equal groups and all k group prompts are
// submitted concurrently through a bounded worker pool. Truncation of
// any group response discards the whole attempt and retries with a
// finer partition, so the categories the model sees per request shrink
// until the answers fit. Category mentions in the responses are
// fuzzy-matched against canonical taxonomy names to absorb paraphrase
// and typo drift.
package classification

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/clausehq/go-clauserisk/internal/domain"
	"github.com/clausehq/go-clauserisk/internal/llm"
	"github.com/clausehq/go-clauserisk/internal/markup"
	"github.com/clausehq/go-clauserisk/internal/store"
	pkgactivity "github.com/clausehq/go-clauserisk/pkg/activity"
)

// Config holds the classifier's tunables.
type Config struct {
	// Model is the classification model identifier.
	Model string

	// MaxTokens is the per-group output budget.
	MaxTokens int64

	// Temperature stays low for stable tag output.
	Temperature float64

	// PoolSize bounds concurrent group requests within one clause.
	PoolSize int
}

// DefaultConfig returns the production classifier configuration.
func DefaultConfig() Config {
	return Config{
		Model:       "claude-3-5-sonnet-20241022",
		MaxTokens:   2048,
		Temperature: 0.1,
		PoolSize:    10,
	}
}

// Activities handles classification Temporal activities. The component
// holds no mutable state across invocations: the taxonomy snapshot it
// loads per call is read-only, so arbitrary concurrent invocations for
// different clauses are safe.
type Activities struct {
	pkgactivity.BaseActivities
	llmClient  llm.Client
	clauses    store.ClauseStore
	guidelines store.GuidelineStore
	events     *EventEmitter
	cfg        Config
}

// NewActivities creates classification activities with injected
// collaborators.
func NewActivities(
	base pkgactivity.BaseActivities,
	client llm.Client,
	clauses store.ClauseStore,
	guidelines store.GuidelineStore,
	cfg Config,
) *Activities {
	if cfg.PoolSize <= 0 {
		cfg.PoolSize = DefaultConfig().PoolSize
	}
	return &Activities{
		BaseActivities: base,
		llmClient:      client,
		clauses:        clauses,
		guidelines:     guidelines,
		events:         NewEventEmitter(base),
		cfg:            cfg,
	}
}

// ClassifyClause assigns taxonomy categories to one persisted clause
// and writes the deduplicated assignments back onto it.
//
// Fatal (non-retryable): empty taxonomy for the contract type. A clause
// with no applicable category is not a failure; it receives the UNKNOWN
// sentinel assignment.
func (a *Activities) ClassifyClause(
	ctx context.Context,
	input domain.ClassifyClauseInput,
) (*domain.ClassifyClauseOutput, error) {
	if err := input.Validate(); err != nil {
		return nil, nonRetryable("ClassifyClause", err, "invalid input")
	}

	wfCtx := a.GetWorkflowContext(ctx)
	pkgactivity.SafeLog(ctx, "Starting ClassifyClause activity",
		"workflow_id", wfCtx.WorkflowID,
		"job_id", input.JobID,
		"clause_number", input.ClauseNumber)

	clause, err := a.clauses.Get(ctx, input.JobID, input.ClauseNumber)
	if err != nil {
		return nil, retryable("ClassifyClause", err, "failed to read clause")
	}

	taxonomy, err := a.guidelines.ListByContractType(ctx, input.ContractTypeID)
	if err != nil {
		return nil, retryable("ClassifyClause", err, "failed to load taxonomy")
	}
	if len(taxonomy) == 0 {
		return nil, nonRetryable("ClassifyClause",
			fmt.Errorf("%w %s", domain.ErrEmptyTaxonomy, input.ContractTypeID),
			fmt.Sprintf("no categories found for contract type %s", input.ContractTypeID))
	}

	mentions, partitions, err := a.classifyAdaptive(ctx, clause.Text, taxonomy)
	if err != nil {
		return nil, err
	}

	assignments := resolveAssignments(mentions, taxonomy)
	if len(assignments) == 0 {
		assignments = []domain.CategoryAssignment{domain.UnknownAssignment()}
	}

	clause.Categories = assignments
	if err := a.clauses.Upsert(ctx, *clause); err != nil {
		return nil, retryable("ClassifyClause", err, "failed to persist assignments")
	}

	output := &domain.ClassifyClauseOutput{Assignments: assignments, Partitions: partitions}
	if err := output.Validate(); err != nil {
		return nil, nonRetryable("ClassifyClause", err, "invalid output")
	}

	a.events.EmitClauseClassified(ctx, input, output, wfCtx)

	pkgactivity.SafeLog(ctx, "ClassifyClause completed",
		"job_id", input.JobID,
		"clause_number", input.ClauseNumber,
		"assignments", len(assignments),
		"partitions", partitions)

	return output, nil
}

// classifyAdaptive runs the bounded repartition loop: k grows from 1
// toward the taxonomy size until an attempt completes with no truncated
// group response. The loop is explicit with an accumulator rather than
// recursive, so its depth is bounded by construction.
//
// When even the finest partition truncates, the final attempt's
// recoverable mentions are used and a warning is logged; classification
// degrades to fewer assignments rather than failing the clause.
func (a *Activities) classifyAdaptive(
	ctx context.Context,
	clauseText string,
	taxonomy []domain.CategoryDefinition,
) ([]mention, int, error) {
	var lastMentions []mention

	for k := 1; k <= len(taxonomy); k++ {
		groups := partitionDefinitions(taxonomy, k)
		a.RecordHeartbeat(ctx, fmt.Sprintf("classification attempt with %d partitions", k))

		responses, err := a.invokeGroups(ctx, clauseText, groups)
		if err != nil {
			return nil, 0, err
		}

		truncated := false
		var mentions []mention
		for _, resp := range responses {
			content := resp.Content
			if resp.StopReason.Truncated() {
				truncated = true
				content = markup.EnsureClosed(content, categoryTag)
			}
			mentions = append(mentions, parseMentions(content)...)
		}

		if !truncated {
			return mentions, k, nil
		}
		lastMentions = mentions
	}

	pkgactivity.SafeLogWarn(ctx, "Classification truncated at finest partition; using recoverable mentions",
		"taxonomy_size", len(taxonomy))
	return lastMentions, len(taxonomy), nil
}

// invokeGroups submits one classification prompt per taxonomy group
// through the bounded worker pool and returns responses in group order.
// Any hard invocation error aborts the attempt.
func (a *Activities) invokeGroups(
	ctx context.Context,
	clauseText string,
	groups [][]domain.CategoryDefinition,
) ([]*llm.Response, error) {
	responses := make([]*llm.Response, len(groups))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.cfg.PoolSize)

	for i, group := range groups {
		g.Go(func() error {
			resp, err := a.llmClient.Invoke(gctx, &llm.Request{
				Model:        a.cfg.Model,
				SystemPrompt: classificationSystemPrompt,
				Prompt:       buildClassificationPrompt(clauseText, group),
				MaxTokens:    a.cfg.MaxTokens,
				Temperature:  a.cfg.Temperature,
			})
			if err != nil {
				return err
			}
			responses[i] = resp
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, wrapModelError("ClassifyClause", err)
	}
	return responses, nil
}

// resolveAssignments fuzzy-matches raw mentions to canonical taxonomy
// entries and deduplicates by category id, preferring the mention with
// non-empty reasoning when duplicates occur. Unmatched mentions are
// dropped.
func resolveAssignments(mentions []mention, taxonomy []domain.CategoryDefinition) []domain.CategoryAssignment {
	byID := make(map[string]int)
	var assignments []domain.CategoryAssignment

	for _, m := range mentions {
		def, ok := matchCategory(m.Name, taxonomy)
		if !ok {
			continue
		}

		assignment := domain.CategoryAssignment{
			CategoryID:           def.CategoryID,
			CategoryName:         def.Name,
			ClassificationReason: m.Reason,
		}

		if idx, seen := byID[def.CategoryID]; seen {
			if assignments[idx].ClassificationReason == "" && m.Reason != "" {
				assignments[idx] = assignment
			}
			continue
		}

		byID[def.CategoryID] = len(assignments)
		assignments = append(assignments, assignment)
	}

	return assignments
}
