package segmentation

import (
	"fmt"

	"github.com/clausehq/go-clauserisk/internal/markup"
)

// Tag names of the extraction response markup.
const (
	answerTag = "answer"
	clauseTag = "clause"
)

// segmentationSystemPrompt instructs the model to copy clauses verbatim
// into the tagged markup the scanner understands. The model must never
// translate or paraphrase: clause text is evidence.
const segmentationSystemPrompt = `You segment contracts into clauses.
Copy each clause exactly as written in the document, preserving its original language.
Wrap your entire output in a single <answer> block.
Inside it, wrap every clause in its own <clause> block, in document order.
Do not summarize, translate, merge, or renumber clauses.
If you run out of space, stop mid-list; never close the list early to fit.`

// buildSegmentationPrompt embeds the continuation anchor so the model
// resumes after the last clause already captured.
func buildSegmentationPrompt(anchor string) string {
	if anchor == "" {
		return "Extract every clause of the attached contract, starting from the beginning of the document."
	}
	return fmt.Sprintf(`Continue extracting clauses from the attached contract.
The last clause already extracted is quoted below. Resume with the clause that immediately follows it; do not repeat it.

<last_clause>
%s
</last_clause>`, anchor)
}

// parseClauseTexts extracts clause texts from one extraction pass.
// When the response was truncated the closing answer marker is usually
// missing; it is appended synthetically so everything before the cut is
// recovered. A truncated final clause entry is dropped only when it is
// empty. Malformed responses yield no clauses, never an error.
func parseClauseTexts(content string, truncated bool) []string {
	if truncated {
		content = markup.EnsureClosed(content, clauseTag)
		content = markup.EnsureClosed(content, answerTag)
	}

	answer, ok := markup.First(content, answerTag)
	if !ok {
		return nil
	}

	var texts []string
	for _, block := range markup.Blocks(answer.Content, clauseTag) {
		if block.Content == "" {
			continue
		}
		texts = append(texts, block.Content)
	}
	return texts
}
