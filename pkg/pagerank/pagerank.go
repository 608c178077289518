// Package pagerank runs PageRank as a sequence of passes over partitioned
// GraphNode records. Each pass distributes every vertex's score along its
// out-links as Mass records, routes the records through pass streams to the
// partition owning the target, and aggregates them back into Complete
// vertices.
package pagerank

import (
	"errors"
	"fmt"

	"github.com/dd0wney/cluso-pagerank/pkg/graphnode"
)

var (
	// ErrMissingStructure is returned when mass arrives for a vertex whose
	// Structure record never did.
	ErrMissingStructure = errors.New("pagerank: mass for vertex without structure")

	// ErrUnexpectedVariant is returned when a record of the wrong variant
	// reaches a phase.
	ErrUnexpectedVariant = errors.New("pagerank: unexpected record variant")

	// ErrDuplicateVertex is returned when two input records share an id.
	ErrDuplicateVertex = errors.New("pagerank: duplicate vertex")
)

// Distribute splits a Complete vertex into the records the next pass needs:
// its Structure record, then one Mass record per out-link carrying an equal
// share of its score. A vertex without out-links emits only its Structure
// and its whole score is returned as dangling mass.
func Distribute(n *graphnode.Node, emit func(*graphnode.Node) error) (dangling float64, err error) {
	structure, mass, err := n.Split()
	if err != nil {
		return 0, fmt.Errorf("distribute: %w: %w", ErrUnexpectedVariant, err)
	}
	if err := emit(structure); err != nil {
		return 0, err
	}

	score, _ := mass.Score()
	adjacency, _ := structure.Adjacency()
	degree := adjacency.Len()
	if degree == 0 {
		return float64(score), nil
	}

	share := score / float32(degree)
	for i := 0; i < degree; i++ {
		target, _ := adjacency.Get(i)
		if err := emit(graphnode.NewMass(target, share)); err != nil {
			return 0, err
		}
	}
	return 0, nil
}

// Aggregate combines a vertex's Structure record with the Mass records
// addressed to it into a Complete vertex scored jump + damping*sum(mass).
// A vertex that received no mass scores jump.
func Aggregate(id int64, structure *graphnode.Node, masses []*graphnode.Node, jump, damping float64) (*graphnode.Node, error) {
	var sum float64
	for _, m := range masses {
		if m.Variant() != graphnode.Mass {
			return nil, fmt.Errorf("aggregate vertex %d: %w: %s", id, ErrUnexpectedVariant, m.Variant())
		}
		score, _ := m.Score()
		sum += float64(score)
	}
	return complete(id, structure, sum, jump, damping)
}

func complete(id int64, structure *graphnode.Node, sum, jump, damping float64) (*graphnode.Node, error) {
	if structure == nil {
		return nil, fmt.Errorf("aggregate vertex %d: %w", id, ErrMissingStructure)
	}
	n, err := structure.Complete(float32(jump + damping*sum))
	if err != nil {
		return nil, fmt.Errorf("aggregate vertex %d: %w: %w", id, ErrUnexpectedVariant, err)
	}
	return n, nil
}
