package collectionutils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type pair struct {
	key   int64
	value string
}

func TestGroupByKeepsOrderWithinGroups(t *testing.T) {
	groups := GroupBy([]pair{{1, "a"}, {2, "b"}, {1, "c"}}, func(p pair) int64 { return p.key })
	assert.Equal(t, []pair{{1, "a"}, {1, "c"}}, groups[1])
	assert.Equal(t, []pair{{2, "b"}}, groups[2])
}

func TestGetOrDefault(t *testing.T) {
	m := map[string]int{"a": 1}
	assert.Equal(t, 1, GetOrDefault(m, "a", 7))
	assert.Equal(t, 7, GetOrDefault(m, "b", 7))
}

func TestDistinct(t *testing.T) {
	assert.Equal(t, []string{"test", "foo", "bar"}, Distinct([]string{"test", "foo", "test", "bar", "foo"}))
	assert.Empty(t, Distinct[string](nil))
}
