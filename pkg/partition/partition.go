// Package partition assigns vertices to the partitions of a pass and
// measures how well an assignment balances them.
package partition

import (
	"encoding/binary"
	"fmt"
	"hash/fnv"

	"github.com/dd0wney/cluso-pagerank/pkg/graphnode"
)

// Strategy maps a vertex id onto a partition in [0, Count()).
type Strategy interface {
	Partition(id int64) int
	Count() int
}

// New returns the strategy called name. maxID is the largest vertex id in
// the graph and is only used by "range".
func New(name string, count int, maxID int64) (Strategy, error) {
	if count < 1 {
		return nil, fmt.Errorf("partition count must be positive, got %d", count)
	}
	switch name {
	case "", "mod":
		return NewModPartition(count), nil
	case "hash":
		return NewHashPartition(count), nil
	case "range":
		return NewRangePartition(count, maxID), nil
	default:
		return nil, fmt.Errorf("unknown partitioner %q", name)
	}
}

// ModPartition assigns id mod count. Dense ids spread evenly.
type ModPartition struct {
	count int
}

// NewModPartition creates a modulo strategy.
func NewModPartition(count int) *ModPartition {
	return &ModPartition{count: count}
}

// Partition returns the non-negative remainder of id by the count.
func (mp *ModPartition) Partition(id int64) int {
	m := id % int64(mp.count)
	if m < 0 {
		m += int64(mp.count)
	}
	return int(m)
}

// Count returns the number of partitions.
func (mp *ModPartition) Count() int { return mp.count }

// HashPartition partitions ids by FNV-1a hash (good balance for sparse ids)
type HashPartition struct {
	count int
}

// NewHashPartition creates a hash-based partitioning strategy
func NewHashPartition(count int) *HashPartition {
	return &HashPartition{count: count}
}

// Partition returns which partition an id belongs to
func (hp *HashPartition) Partition(id int64) int {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], uint64(id))
	h := fnv.New64a()
	h.Write(b[:])
	return int(h.Sum64() % uint64(hp.count))
}

// Count returns the number of partitions.
func (hp *HashPartition) Count() int { return hp.count }

// RangePartition partitions by contiguous id ranges so that each partition
// owns one block of docnos.
type RangePartition struct {
	count     int
	rangeSize int64
}

// NewRangePartition creates range-based partitioning over ids 0..maxID.
func NewRangePartition(count int, maxID int64) *RangePartition {
	size := (maxID + 1 + int64(count) - 1) / int64(count)
	if size < 1 {
		size = 1
	}
	return &RangePartition{count: count, rangeSize: size}
}

// Partition returns the partition owning id. Ids outside 0..maxID clip to
// the first or last partition.
func (rp *RangePartition) Partition(id int64) int {
	if id < 0 {
		return 0
	}
	p := id / rp.rangeSize
	if p >= int64(rp.count) {
		return rp.count - 1
	}
	return int(p)
}

// Count returns the number of partitions.
func (rp *RangePartition) Count() int { return rp.count }

// Metrics describes the quality of an assignment.
type Metrics struct {
	Sizes       []int   // vertices per partition
	EdgeCuts    []int   // out-links leaving each partition
	LoadBalance float64 // 0-1 (1 = perfect balance)
	CutRatio    float64 // fraction of edges that cross partitions
}

// ComputeMetrics analyzes how strategy splits nodes. Nodes without an
// adjacency list count toward sizes only.
func ComputeMetrics(nodes []*graphnode.Node, strategy Strategy) *Metrics {
	count := strategy.Count()
	m := &Metrics{
		Sizes:    make([]int, count),
		EdgeCuts: make([]int, count),
	}

	totalEdges, totalCuts := 0, 0
	for _, n := range nodes {
		p := strategy.Partition(n.ID())
		m.Sizes[p]++

		adj, ok := n.Adjacency()
		if !ok {
			continue
		}
		for i := 0; i < adj.Len(); i++ {
			target, _ := adj.Get(i)
			totalEdges++
			if strategy.Partition(target) != p {
				m.EdgeCuts[p]++
				totalCuts++
			}
		}
	}

	m.LoadBalance = 1
	if len(nodes) > 0 {
		avg := float64(len(nodes)) / float64(count)
		variance := 0.0
		for _, size := range m.Sizes {
			diff := float64(size) - avg
			variance += diff * diff
		}
		variance /= float64(count)
		m.LoadBalance = 1 / (1 + variance/avg)
	}

	if totalEdges > 0 {
		m.CutRatio = float64(totalCuts) / float64(totalEdges)
	}
	return m
}
