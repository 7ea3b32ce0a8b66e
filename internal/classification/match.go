package classification

import (
	"strings"

	"github.com/clausehq/go-clauserisk/internal/domain"
)

// matchCategory resolves a raw category mention to its canonical
// taxonomy entry. Exact matches (after normalization) win immediately;
// otherwise the single closest name by edit distance is taken, provided
// the distance stays within a quarter of the canonical name's length.
// Ties break toward the lexicographically smaller canonical name so the
// result is deterministic.
func matchCategory(mention string, taxonomy []domain.CategoryDefinition) (domain.CategoryDefinition, bool) {
	needle := normalizeName(mention)
	if needle == "" {
		return domain.CategoryDefinition{}, false
	}

	var best domain.CategoryDefinition
	bestDistance := -1

	for _, def := range taxonomy {
		candidate := normalizeName(def.Name)
		if candidate == needle {
			return def, true
		}

		dist := levenshtein(needle, candidate)
		if dist > maxEditDistance(candidate) {
			continue
		}
		if bestDistance < 0 || dist < bestDistance ||
			(dist == bestDistance && def.Name < best.Name) {
			best = def
			bestDistance = dist
		}
	}

	return best, bestDistance >= 0
}

// maxEditDistance is the tolerance budget for a canonical name: at
// least one edit, growing with name length so longer names absorb
// proportionally more drift.
func maxEditDistance(name string) int {
	d := len(name) / 4
	if d < 1 {
		d = 1
	}
	return d
}

// normalizeName lowercases and collapses internal whitespace so casing
// and spacing differences never count as edits.
func normalizeName(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// levenshtein computes the edit distance between two strings using the
// two-row dynamic programming formulation.
func levenshtein(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}

	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[j] = min3(
				prev[j]+1,      // deletion
				curr[j-1]+1,    // insertion
				prev[j-1]+cost, // substitution
			)
		}
		prev, curr = curr, prev
	}

	return prev[len(rb)]
}

func min3(a, b, c int) int {
	m := a
	if b < m {
		m = b
	}
	if c < m {
		m = c
	}
	return m
}
