package graphnode

import (
	"fmt"
)

// Variant selects which fields a node record carries.
type Variant uint8

// Wire tags. Zero is deliberately unused so an unset Variant is invalid.
const (
	Structure Variant = 1 // id + adjacency
	Mass      Variant = 2 // id + score
	Complete  Variant = 3 // id + score + adjacency
)

// Valid reports whether v is one of the recognized variants.
func (v Variant) Valid() bool {
	switch v {
	case Structure, Mass, Complete:
		return true
	default:
		return false
	}
}

// HasScore reports whether records of this variant carry a score.
func (v Variant) HasScore() bool {
	return v == Mass || v == Complete
}

// HasAdjacency reports whether records of this variant carry an adjacency list.
func (v Variant) HasAdjacency() bool {
	return v == Structure || v == Complete
}

func (v Variant) String() string {
	switch v {
	case Structure:
		return "structure"
	case Mass:
		return "mass"
	case Complete:
		return "complete"
	default:
		return fmt.Sprintf("variant(%d)", uint8(v))
	}
}

// ParseVariant converts a variant name back to its tag.
func ParseVariant(s string) (Variant, error) {
	switch s {
	case "structure", "STRUCTURE":
		return Structure, nil
	case "mass", "MASS":
		return Mass, nil
	case "complete", "COMPLETE":
		return Complete, nil
	default:
		return 0, fmt.Errorf("parse variant %q: %w", s, ErrInvalidVariant)
	}
}
