package internal

import (
	"maps"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIterSeq2Concat(t *testing.T) {
	assert := assert.New(t)

	first := map[string]int{"a": 1, "b": 2}
	second := map[string]int{"c": 3}

	all := maps.Collect(IterSeq2Concat(maps.All(first), maps.All(second)))
	assert.Equal(map[string]int{"a": 1, "b": 2, "c": 3}, all)

	// Early return stops every sequence.
	count := 0
	for range IterSeq2Concat(maps.All(first), maps.All(second)) {
		count++
		break
	}
	assert.Equal(1, count)

	assert.Empty(maps.Collect(IterSeq2Concat[string, int]()))
}
