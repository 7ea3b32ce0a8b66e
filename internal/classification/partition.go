package classification

import "github.com/clausehq/go-clauserisk/internal/domain"

// partitionDefinitions splits the taxonomy into k near-equal contiguous
// groups. The union of all groups is always the full taxonomy, sizes
// differ by at most one, and no group is ever empty (k is clamped to
// the taxonomy size).
func partitionDefinitions(defs []domain.CategoryDefinition, k int) [][]domain.CategoryDefinition {
	if len(defs) == 0 {
		return nil
	}
	if k < 1 {
		k = 1
	}
	if k > len(defs) {
		k = len(defs)
	}

	groups := make([][]domain.CategoryDefinition, 0, k)
	base := len(defs) / k
	extra := len(defs) % k

	start := 0
	for i := 0; i < k; i++ {
		size := base
		if i < extra {
			size++
		}
		groups = append(groups, defs[start:start+size])
		start += size
	}
	return groups
}
