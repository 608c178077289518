// Package graphnode defines the per-vertex record exchanged between PageRank
// passes and its binary encoding.
//
// A record comes in one of three variants. Structure records carry the
// vertex id and its adjacency list and are the only records that persist
// from one pass to the next. Mass records carry an id and a score and are
// the messages a vertex sends its neighbors. Complete records carry all
// three fields and exist only between aggregating a vertex's incoming mass
// and distributing it again.
package graphnode

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/dd0wney/cluso-pagerank/pkg/longlist"
)

// Node is one vertex record. Fields that the variant does not carry are
// absent, which the accessors report through their ok result.
//
// A Node exclusively owns its adjacency list. It is not safe for concurrent
// mutation, nor may it be mutated while it is being encoded.
type Node struct {
	id        int64
	variant   Variant
	score     float32
	adjacency *longlist.List
}

// NewStructure returns a Structure node. The adjacency list is copied; nil
// means no neighbors.
func NewStructure(id int64, adjacency *longlist.List) *Node {
	return &Node{id: id, variant: Structure, adjacency: longlist.Copy(adjacency)}
}

// NewMass returns a Mass node carrying score for vertex id.
func NewMass(id int64, score float32) *Node {
	return &Node{id: id, variant: Mass, score: score}
}

// NewComplete returns a Complete node. The adjacency list is copied; nil
// means no neighbors.
func NewComplete(id int64, score float32, adjacency *longlist.List) *Node {
	return &Node{id: id, variant: Complete, score: score, adjacency: longlist.Copy(adjacency)}
}

// ID returns the vertex id.
func (n *Node) ID() int64 { return n.id }

// SetID sets the vertex id.
func (n *Node) SetID(id int64) { n.id = id }

// Variant returns the record variant.
func (n *Node) Variant() Variant { return n.variant }

// Score returns the score and whether the variant carries one.
func (n *Node) Score() (float32, bool) {
	if !n.variant.HasScore() {
		return 0, false
	}
	return n.score, true
}

// Adjacency returns the node's own adjacency list and whether the variant
// carries one. The list must not be retained past the node's next mutation.
func (n *Node) Adjacency() (*longlist.List, bool) {
	if !n.variant.HasAdjacency() {
		return nil, false
	}
	return n.adjacency, true
}

// OutDegree returns the adjacency length, 0 when the variant has none.
func (n *Node) OutDegree() int {
	if !n.variant.HasAdjacency() {
		return 0
	}
	return n.adjacency.Len()
}

// SetScore sets the score of a Mass or Complete node.
func (n *Node) SetScore(score float32) error {
	if !n.variant.HasScore() {
		return fmt.Errorf("set score on %s node %d: %w", n.variant, n.id, ErrFieldNotCarried)
	}
	n.score = score
	return nil
}

// SetAdjacency replaces the adjacency of a Structure or Complete node with a
// copy of adjacency.
func (n *Node) SetAdjacency(adjacency *longlist.List) error {
	if !n.variant.HasAdjacency() {
		return fmt.Errorf("set adjacency on %s node %d: %w", n.variant, n.id, ErrFieldNotCarried)
	}
	n.adjacency = longlist.Copy(adjacency)
	return nil
}

// SetVariant changes the record variant. Fields the new variant does not
// carry are dropped; fields it newly carries start as a zero score or an
// empty adjacency list. An unrecognized variant is rejected and the node is
// left untouched.
func (n *Node) SetVariant(v Variant) error {
	if !v.Valid() {
		return fmt.Errorf("set variant %d on node %d: %w", uint8(v), n.id, ErrInvalidVariant)
	}

	if !v.HasScore() || !n.variant.HasScore() {
		n.score = 0
	}

	if !v.HasAdjacency() {
		n.adjacency = nil
	} else if n.adjacency == nil {
		n.adjacency = longlist.New()
	}

	n.variant = v
	return nil
}

// Complete combines a Structure node with aggregated mass into a new
// Complete node. The receiver is not modified.
func (n *Node) Complete(score float32) (*Node, error) {
	if n.variant != Structure {
		return nil, fmt.Errorf("complete %s node %d: %w", n.variant, n.id, ErrInvalidVariant)
	}
	return NewComplete(n.id, score, n.adjacency), nil
}

// Split separates a Complete node into its Structure record and a Mass
// record holding its score. The receiver is not modified.
func (n *Node) Split() (structure, mass *Node, err error) {
	if n.variant != Complete {
		return nil, nil, fmt.Errorf("split %s node %d: %w", n.variant, n.id, ErrInvalidVariant)
	}
	return NewStructure(n.id, n.adjacency), NewMass(n.id, n.score), nil
}

// Clone returns a deep copy of n.
func (n *Node) Clone() *Node {
	c := *n
	if n.adjacency != nil {
		c.adjacency = longlist.Copy(n.adjacency)
	}
	return &c
}

// Equal reports whether a and b hold the same variant, id and carried
// fields. Scores compare by bit pattern so NaN equals NaN.
func Equal(a, b *Node) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.id != b.id || a.variant != b.variant {
		return false
	}
	if a.variant.HasScore() && math.Float32bits(a.score) != math.Float32bits(b.score) {
		return false
	}
	if a.variant.HasAdjacency() && !a.adjacency.Equal(b.adjacency) {
		return false
	}
	return true
}

// String renders the node as {id score {n1, n2, ...}}. An absent score
// renders as "-" and an absent adjacency list as {}.
func (n *Node) String() string {
	var sb strings.Builder
	sb.WriteByte('{')
	sb.WriteString(strconv.FormatInt(n.id, 10))
	sb.WriteByte(' ')

	if score, ok := n.Score(); ok {
		sb.WriteString(strconv.FormatFloat(float64(score), 'g', -1, 32))
	} else {
		sb.WriteByte('-')
	}

	sb.WriteString(" {")
	if adj, ok := n.Adjacency(); ok {
		for i, v := range adj.Values() {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(strconv.FormatInt(v, 10))
		}
	}
	sb.WriteString("}}")
	return sb.String()
}
