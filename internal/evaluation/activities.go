// Package evaluation implements the clause evaluator: the Temporal
// activity that answers each assigned category's fixed compliance
// questions for one clause and derives the per-category verdict.
//
// A category is compliant for a clause only when every question's
// normalized answer starts with "yes"; "no", "unsure", and anything
// unparsable all make it non-compliant. Sampling temperature is kept
// low to bias toward stable yes/no output, but full determinism across
// model calls is an accepted boundary, not something this package
// promises.
package evaluation

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/clausehq/go-clauserisk/internal/domain"
	"github.com/clausehq/go-clauserisk/internal/llm"
	"github.com/clausehq/go-clauserisk/internal/store"
	pkgactivity "github.com/clausehq/go-clauserisk/pkg/activity"
)

// Config holds the evaluator's tunables.
type Config struct {
	// Model is the evaluation model identifier.
	Model string

	// MaxTokens is the per-category output budget.
	MaxTokens int64

	// Temperature stays low for stable yes/no answers.
	Temperature float64

	// ContextWindow is the number of preceding clauses embedded in each
	// evaluation prompt for hierarchical grounding.
	ContextWindow int
}

// DefaultConfig returns the production evaluator configuration.
func DefaultConfig() Config {
	return Config{
		Model:         "claude-3-5-sonnet-20241022",
		MaxTokens:     4096,
		Temperature:   0.1,
		ContextWindow: 20,
	}
}

// Activities handles evaluation Temporal activities.
type Activities struct {
	pkgactivity.BaseActivities
	llmClient  llm.Client
	clauses    store.ClauseStore
	guidelines store.GuidelineStore
	events     *EventEmitter
	cfg        Config
}

// NewActivities creates evaluation activities with injected collaborators.
func NewActivities(
	base pkgactivity.BaseActivities,
	client llm.Client,
	clauses store.ClauseStore,
	guidelines store.GuidelineStore,
	cfg Config,
) *Activities {
	if cfg.ContextWindow <= 0 {
		cfg.ContextWindow = DefaultConfig().ContextWindow
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

// EvaluateClause answers the compliance questions for every non-UNKNOWN
// category assigned to one clause and writes the verdicts back onto the
// clause's category entries.
//
// A category whose guideline no longer exists is skipped with a
// warning: the classification is stale, not the job. Model calls run
// sequentially, one per category.
func (a *Activities) EvaluateClause(
	ctx context.Context,
	input domain.EvaluateClauseInput,
) (*domain.EvaluateClauseOutput, error) {
	if err := input.Validate(); err != nil {
		return nil, nonRetryable("EvaluateClause", err, "invalid input")
	}

	wfCtx := a.GetWorkflowContext(ctx)
	pkgactivity.SafeLog(ctx, "Starting EvaluateClause activity",
		"workflow_id", wfCtx.WorkflowID,
		"job_id", input.JobID,
		"clause_number", input.ClauseNumber)

	clause, err := a.clauses.Get(ctx, input.JobID, input.ClauseNumber)
	if err != nil {
		return nil, retryable("EvaluateClause", err, "failed to read clause")
	}

	contextClauses, err := a.clauses.LastN(ctx, input.JobID, input.ClauseNumber, a.cfg.ContextWindow)
	if err != nil {
		return nil, retryable("EvaluateClause", err, "failed to read context window")
	}

	output := &domain.EvaluateClauseOutput{}
	for i := range clause.Categories {
		assignment := &clause.Categories[i]
		if assignment.IsUnknown() {
			continue
		}

		a.RecordHeartbeat(ctx, fmt.Sprintf("evaluating category %s", assignment.CategoryID))

		def, err := a.guidelines.Get(ctx, input.ContractTypeID, assignment.CategoryID)
		if err != nil {
			if errors.Is(err, domain.ErrGuidelineNotFound) {
				pkgactivity.SafeLogWarn(ctx, "Guideline missing for assigned category; skipping",
					"job_id", input.JobID,
					"clause_number", input.ClauseNumber,
					"category_id", assignment.CategoryID)
				output.Skipped++
				continue
			}
			return nil, retryable("EvaluateClause", err, "failed to load guideline")
		}

		compliant, analysis, err := a.evaluateCategory(ctx, clause, contextClauses, def, input.OutputLanguage)
		if err != nil {
			return nil, err
		}

		assignment.Compliant = &compliant
		assignment.Analysis = analysis
		output.Evaluated++
	}

	if err := a.clauses.Upsert(ctx, *clause); err != nil {
		return nil, retryable("EvaluateClause", err, "failed to persist evaluations")
	}

	if err := output.Validate(); err != nil {
		return nil, nonRetryable("EvaluateClause", err, "invalid output")
	}

	a.events.EmitClauseEvaluated(ctx, input, output, wfCtx)

	pkgactivity.SafeLog(ctx, "EvaluateClause completed",
		"job_id", input.JobID,
		"clause_number", input.ClauseNumber,
		"evaluated", output.Evaluated,
		"skipped", output.Skipped)

	return output, nil
}

// evaluateCategory runs the single model call for one category and
// reduces the per-question answers to the verdict and analysis text.
func (a *Activities) evaluateCategory(
	ctx context.Context,
	clause *domain.Clause,
	contextClauses []domain.Clause,
	def *domain.CategoryDefinition,
	outputLanguage string,
) (bool, string, error) {
	resp, err := a.llmClient.Invoke(ctx, &llm.Request{
		Model:        a.cfg.Model,
		SystemPrompt: evaluationSystemPrompt,
		Prompt:       buildEvaluationPrompt(clause.Text, contextClauses, def, outputLanguage),
		MaxTokens:    a.cfg.MaxTokens,
		Temperature:  a.cfg.Temperature,
	})
	if err != nil {
		return false, "", wrapModelError("EvaluateClause", err)
	}

	answers := parseQuestionAnswers(resp.Content, resp.StopReason.Truncated())
	compliant, analysis := reduceVerdict(answers, len(def.EvaluationQuestions))
	return compliant, analysis, nil
}

// reduceVerdict derives the category verdict: compliant iff every
// expected question got an answer and all answers start with "yes".
// Missing answers (truncation, malformed markup) count as non-compliant
// rather than failing the clause.
func reduceVerdict(answers []questionAnswer, expected int) (bool, string) {
	compliant := len(answers) >= expected && expected > 0

	var analysis []string
	for _, ans := range answers {
		if !strings.HasPrefix(strings.ToLower(strings.TrimSpace(ans.Verdict)), "yes") {
			compliant = false
		}
		if ans.Explanation != "" {
			analysis = append(analysis, ans.Explanation)
		}
	}

	return compliant, strings.Join(analysis, "\n")
}
