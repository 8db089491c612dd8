package collection_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/shashiranjanraj/vitrine/pkg/collection"
)

func TestMap(t *testing.T) {
	got := collection.Map([]int{1, 2, 3}, func(n int) int { return n * 2 })
	assert.Equal(t, []int{2, 4, 6}, got)

	assert.Empty(t, collection.Map(nil, func(n int) int { return n }))
}

func TestFilter(t *testing.T) {
	got := collection.Filter([]int{1, 2, 3, 4}, func(n int) bool { return n%2 == 0 })
	assert.Equal(t, []int{2, 4}, got)
}

func TestReduce(t *testing.T) {
	sum := collection.Reduce([]int{1, 2, 3}, 10, func(acc, n int) int { return acc + n })
	assert.Equal(t, 16, sum)
}

func TestSortBy(t *testing.T) {
	in := []string{"ccc", "a", "bb"}
	got := collection.SortBy(in, func(s string) int { return len(s) })

	assert.Equal(t, []string{"a", "bb", "ccc"}, got)
	assert.Equal(t, []string{"ccc", "a", "bb"}, in, "input must not be mutated")
}
