package recipes

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"tastytrail/models"
)

func noShuffle(int, func(i, j int)) {}

func ids(rs []models.Recipe) []int64 {
	out := make([]int64, 0, len(rs))
	for _, r := range rs {
		out = append(out, r.ID)
	}
	return out
}

func TestPickRelated(t *testing.T) {
	h := &Handler{shuffle: noShuffle}
	all := []models.Recipe{{ID: 1}, {ID: 2}, {ID: 3}, {ID: 4}, {ID: 5}, {ID: 6}}

	assert.Equal(t, []int64{1, 2, 4, 5}, ids(h.pickRelated(all, 3)))
	assert.Equal(t, []int64{2}, ids(h.pickRelated([]models.Recipe{{ID: 1}, {ID: 2}}, 1)))
	assert.Empty(t, h.pickRelated([]models.Recipe{{ID: 1}}, 1))
}

func TestPickRelatedShuffles(t *testing.T) {
	reverse := func(n int, swap func(i, j int)) {
		for i := 0; i < n/2; i++ {
			swap(i, n-1-i)
		}
	}
	h := &Handler{shuffle: reverse}
	all := []models.Recipe{{ID: 1}, {ID: 2}, {ID: 3}, {ID: 4}, {ID: 5}, {ID: 6}}

	assert.Equal(t, []int64{6, 5, 4, 2}, ids(h.pickRelated(all, 3)))
}
