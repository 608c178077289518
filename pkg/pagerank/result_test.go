package pagerank

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTop(t *testing.T) {
	res := &Result{Scores: map[int64]float32{
		1: 0.1, 2: 0.4, 3: 0.2, 4: 0.4, 5: 0.05,
	}}

	top := res.Top(3)
	assert.Equal(t, []RankedNode{{2, 0.4}, {4, 0.4}, {3, 0.2}}, top)

	assert.Len(t, res.Top(10), 5)
	assert.Nil(t, res.Top(0))
	assert.Equal(t, []RankedNode{{2, 0.4}}, res.Top(1))
}

func TestTopNilResult(t *testing.T) {
	var res *Result
	assert.Nil(t, res.Top(3))
}

func TestSum(t *testing.T) {
	res := &Result{Scores: map[int64]float32{1: 0.25, 2: 0.5}}
	assert.InDelta(t, 0.75, res.Sum(), 1e-9)
}
