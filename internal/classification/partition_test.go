package classification

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clausehq/go-clauserisk/internal/domain"
)

func makeTaxonomy(n int) []domain.CategoryDefinition {
	defs := make([]domain.CategoryDefinition, n)
	for i := range defs {
		defs[i] = namedDef(fmt.Sprintf("cat-%02d", i), fmt.Sprintf("Category %02d", i))
	}
	return defs
}

func TestPartitionDefinitions_UnionAndBalance(t *testing.T) {
	for _, n := range []int{1, 3, 7, 10} {
		for k := 1; k <= n+2; k++ {
			groups := partitionDefinitions(makeTaxonomy(n), k)

			var flattened []domain.CategoryDefinition
			minSize, maxSize := n, 0
			for _, g := range groups {
				require.NotEmpty(t, g, "n=%d k=%d: no group may be empty", n, k)
				if len(g) < minSize {
					minSize = len(g)
				}
				if len(g) > maxSize {
					maxSize = len(g)
				}
				flattened = append(flattened, g...)
			}

			assert.Equal(t, makeTaxonomy(n), flattened,
				"n=%d k=%d: union must be the full taxonomy in order", n, k)
			assert.LessOrEqual(t, maxSize-minSize, 1,
				"n=%d k=%d: group sizes differ by at most one", n, k)
		}
	}
}

func TestPartitionDefinitions_ClampsK(t *testing.T) {
	defs := makeTaxonomy(3)

	assert.Len(t, partitionDefinitions(defs, 0), 1)
	assert.Len(t, partitionDefinitions(defs, 10), 3)
	assert.Nil(t, partitionDefinitions(nil, 2))
}
