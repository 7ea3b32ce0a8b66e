package classification

import (
	"fmt"
	"strings"

	"github.com/clausehq/go-clauserisk/internal/domain"
	"github.com/clausehq/go-clauserisk/internal/markup"
)

// Tag names of the classification response markup.
const (
	categoryTag = "category"
	noneTag     = "none_applicable"
)

// classificationSystemPrompt fixes the tagged output contract. The
// model may only pick from the names it was shown; everything else is
// dropped during resolution anyway.
const classificationSystemPrompt = `You classify contract clauses against a fixed list of category names.
For every category from the list that applies to the clause, output:
<category name="CATEGORY NAME">one or two sentences explaining why it applies</category>
Use only names from the provided list, copied exactly.
If no category from the list applies, output exactly: <none_applicable/>`

// buildClassificationPrompt lists one taxonomy group's category names
// with their worked examples, followed by the clause under test.
func buildClassificationPrompt(clauseText string, group []domain.CategoryDefinition) string {
	var b strings.Builder

	b.WriteString("Category list:\n")
	for _, def := range group {
		fmt.Fprintf(&b, "- %s\n", def.Name)
		for _, example := range def.Examples {
			fmt.Fprintf(&b, "  Example: %s\n", example)
		}
	}

	b.WriteString("\nClause to classify:\n<clause_text>\n")
	b.WriteString(clauseText)
	b.WriteString("\n</clause_text>")

	return b.String()
}

// mention is one raw category reference parsed from a model response,
// before fuzzy resolution against the canonical taxonomy.
type mention struct {
	Name   string
	Reason string
}

// parseMentions extracts category mentions from one group response.
// The explicit none-applicable marker and tags without a name attribute
// yield nothing; malformed markup yields fewer mentions, never an error.
func parseMentions(content string) []mention {
	if markup.Contains(content, noneTag) {
		return nil
	}

	var mentions []mention
	for _, block := range markup.Blocks(content, categoryTag) {
		name := block.Attr("name")
		if name == "" {
			continue
		}
		mentions = append(mentions, mention{
			Name:   name,
			Reason: block.Content,
		})
	}
	return mentions
}
