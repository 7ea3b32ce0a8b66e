package evaluation

import (
	"fmt"
	"strings"

	"github.com/clausehq/go-clauserisk/internal/domain"
	"github.com/clausehq/go-clauserisk/internal/markup"
)

// Tag names of the evaluation response markup.
const (
	questionTag    = "question"
	verdictTag     = "verdict"
	explanationTag = "explanation"
)

// evaluationSystemPrompt fixes the per-question tagged output contract.
// Verdicts are reduced by prefix, so the model is told to lead with the
// literal word.
const evaluationSystemPrompt = `You evaluate one contract clause against a compliance guideline by answering a fixed list of yes/no questions.
Answer every question, in order, using exactly this structure:
<question index="N">
<verdict>yes or no, starting with that word</verdict>
<explanation>a short justification for the verdict</explanation>
</question>
Base every verdict only on the clause, its surrounding context, and the standard wording provided.`

// buildEvaluationPrompt assembles the category's standard wording, the
// preceding clauses for context, the clause under evaluation, and the
// numbered question list. contextClauses arrive in ascending clause
// order from the store.
func buildEvaluationPrompt(
	clauseText string,
	contextClauses []domain.Clause,
	def *domain.CategoryDefinition,
	outputLanguage string,
) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Category: %s\n\n", def.Name)
	b.WriteString("Standard wording:\n<standard_wording>\n")
	b.WriteString(def.StandardWording)
	b.WriteString("\n</standard_wording>\n")

	if len(contextClauses) > 0 {
		b.WriteString("\nPreceding clauses, earliest first:\n<context>\n")
		for _, c := range contextClauses {
			fmt.Fprintf(&b, "[%d] %s\n", c.ClauseNumber, c.Text)
		}
		b.WriteString("</context>\n")
	}

	b.WriteString("\nClause under evaluation:\n<clause_text>\n")
	b.WriteString(clauseText)
	b.WriteString("\n</clause_text>\n")

	b.WriteString("\nQuestions:\n")
	for i, q := range def.EvaluationQuestions {
		fmt.Fprintf(&b, "%d. %s\n", i+1, q)
	}

	fmt.Fprintf(&b, "\nWrite every explanation in %s. Verdicts stay in English.", outputLanguage)

	return b.String()
}

// questionAnswer is one parsed per-question answer block.
type questionAnswer struct {
	Verdict     string
	Explanation string
}

// parseQuestionAnswers extracts the per-question answers from a model
// response. A truncated response is closed before scanning so answers
// completed before the cutoff still count; blocks without a verdict are
// dropped.
func parseQuestionAnswers(content string, truncated bool) []questionAnswer {
	if truncated {
		content = markup.EnsureClosed(content, questionTag)
	}

	var answers []questionAnswer
	for _, block := range markup.Blocks(content, questionTag) {
		verdict, ok := markup.First(block.Content, verdictTag)
		if !ok {
			continue
		}
		var explanation string
		if expl, ok := markup.First(block.Content, explanationTag); ok {
			explanation = strings.TrimSpace(expl.Content)
		}
		answers = append(answers, questionAnswer{
			Verdict:     strings.TrimSpace(verdict.Content),
			Explanation: explanation,
		})
	}
	return answers
}
