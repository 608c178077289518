package pagerank

import (
	"container/heap"

	"github.com/dd0wney/cluso-pagerank/pkg/graphnode"
)

// Result holds the outcome of a run.
type Result struct {
	RunID      string
	Scores     map[int64]float32
	Iterations int
	// DanglingMass is the mass held by vertices without out-links, one
	// entry per pass. It is not redistributed.
	DanglingMass []float64
	// Nodes are the final Complete records ordered by id.
	Nodes []*graphnode.Node
}

// RankedNode is a vertex with its final score.
type RankedNode struct {
	ID    int64
	Score float32
}

// rankedNodeHeap is a min-heap by score; among equal scores the larger id
// sorts first so that it is evicted first.
type rankedNodeHeap []RankedNode

func (h rankedNodeHeap) Len() int { return len(h) }
func (h rankedNodeHeap) Less(i, j int) bool {
	if h[i].Score != h[j].Score {
		return h[i].Score < h[j].Score
	}
	return h[i].ID > h[j].ID
}
func (h rankedNodeHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *rankedNodeHeap) Push(x any) {
	*h = append(*h, x.(RankedNode))
}

func (h *rankedNodeHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[0 : n-1]
	return x
}

// Top returns the n highest scoring vertices, best first. Ties go to the
// smaller id.
func (r *Result) Top(n int) []RankedNode {
	if n <= 0 || r == nil {
		return nil
	}

	h := make(rankedNodeHeap, 0, min(n, len(r.Scores)))
	for id, score := range r.Scores {
		rn := RankedNode{ID: id, Score: score}
		if h.Len() < n {
			heap.Push(&h, rn)
			continue
		}
		probe := rankedNodeHeap{h[0], rn}
		if probe.Less(0, 1) {
			h[0] = rn
			heap.Fix(&h, 0)
		}
	}

	result := make([]RankedNode, h.Len())
	for i := h.Len() - 1; i >= 0; i-- {
		result[i] = heap.Pop(&h).(RankedNode)
	}
	return result
}

// Sum returns the total of the final scores.
func (r *Result) Sum() float64 {
	var sum float64
	for _, s := range r.Scores {
		sum += float64(s)
	}
	return sum
}
