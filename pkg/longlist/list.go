// Package longlist implements an ordered, growable list of int64 identifiers
// with a fixed binary encoding and a linear-time intersection for sorted
// lists. It backs adjacency lists in graph nodes and posting-style id sets.
package longlist

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// dedupScanLimit bounds (len(list)+len(values))*len(values) for which AddAllDeduped uses a
// linear membership scan. Above it a hash set is built once.
const dedupScanLimit = 4096

// List is an ordered sequence of int64 values. Order is whatever the caller
// appended; nothing sorts implicitly.
//
// The zero value is an empty list ready for use. A List is not safe for
// concurrent mutation.
type List struct {
	values []int64
}

// New returns an empty list.
func New() *List {
	return &List{}
}

// WithCapacity returns an empty list with room for n values.
func WithCapacity(n int) *List {
	if n < 0 {
		n = 0
	}
	return &List{values: make([]int64, 0, n)}
}

// Range returns the ascending values first, first+1, ..., last-1.
// The result is empty when last <= first.
func Range(first, last int64) *List {
	if last <= first {
		return New()
	}
	l := WithCapacity(int(last - first))
	for v := first; v < last; v++ {
		l.values = append(l.values, v)
	}
	return l
}

// Copy returns a deep copy of other. A nil other yields an empty list.
func Copy(other *List) *List {
	if other == nil {
		return New()
	}
	return &List{values: slices.Clone(other.values)}
}

// FromSlice returns a list holding a copy of values in the given order.
func FromSlice(values []int64) *List {
	return &List{values: slices.Clone(values)}
}

// Append adds v at the end without checking order or duplicates.
func (l *List) Append(v int64) {
	l.values = append(l.values, v)
}

// Get returns the value at position i.
func (l *List) Get(i int) (int64, error) {
	if i < 0 || i >= len(l.values) {
		return 0, indexError("get", i, len(l.values))
	}
	return l.values[i], nil
}

// Len returns the number of values.
func (l *List) Len() int {
	if l == nil {
		return 0
	}
	return len(l.values)
}

// IsEmpty reports whether the list holds no values.
func (l *List) IsEmpty() bool {
	return l.Len() == 0
}

// Values returns a copy of the values in order.
func (l *List) Values() []int64 {
	if l == nil {
		return nil
	}
	return slices.Clone(l.values)
}

// Reset removes all values, keeping the allocated capacity.
func (l *List) Reset() {
	l.values = l.values[:0]
}

// Contains reports whether v is present. It scans linearly.
func (l *List) Contains(v int64) bool {
	return slices.Contains(l.values, v)
}

// IsSorted reports whether the values are in non-decreasing order.
func (l *List) IsSorted() bool {
	return slices.IsSorted(l.values)
}

// Equal reports whether both lists hold the same values in the same order.
func (l *List) Equal(other *List) bool {
	return slices.Equal(l.valuesOrNil(), other.valuesOrNil())
}

func (l *List) valuesOrNil() []int64 {
	if l == nil {
		return nil
	}
	return l.values
}

// Slice returns a new list with the values at positions start through end,
// both inclusive, so the result has end-start+1 values.
func (l *List) Slice(start, end int) (*List, error) {
	if end < start {
		return nil, fmt.Errorf("slice [%d, %d]: end before start: %w", start, end, ErrRange)
	}
	if start < 0 {
		return nil, indexError("slice", start, len(l.values))
	}
	if end >= len(l.values) {
		return nil, indexError("slice", end, len(l.values))
	}
	return FromSlice(l.values[start : end+1]), nil
}

// AddAllDeduped appends each value in values that is not already present.
// Values repeated within the input are appended once.
//
// Small inputs use a linear scan per candidate; larger ones build a hash
// set of the current contents once.
func (l *List) AddAllDeduped(values []int64) {
	if len(values) == 0 {
		return
	}

	if (len(l.values)+len(values))*len(values) <= dedupScanLimit {
		for _, v := range values {
			if !slices.Contains(l.values, v) {
				l.values = append(l.values, v)
			}
		}
		return
	}

	seen := make(map[int64]struct{}, len(l.values)+len(values))
	for _, v := range l.values {
		seen[v] = struct{}{}
	}
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		l.values = append(l.values, v)
	}
}

// Intersection returns the values present in both l and other. Both lists
// must be sorted ascending; otherwise the result is unspecified.
//
// The merge walks each input once, O(len(l)+len(other)), and stops as soon
// as either side is exhausted. The result is never nil: no overlap yields an
// empty list.
func (l *List) Intersection(other *List) *List {
	a, b := l.valuesOrNil(), other.valuesOrNil()
	out := WithCapacity(min(len(a), len(b)))

	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i] < b[j]:
			i++
		case a[i] > b[j]:
			j++
		default:
			out.values = append(out.values, a[i])
			i++
			j++
		}
	}
	return out
}

// String renders the list as [v0,v1,...]; an empty list renders as [].
func (l *List) String() string {
	var sb strings.Builder
	sb.Grow(2 + len(l.valuesOrNil())*4)
	sb.WriteByte('[')
	for i, v := range l.valuesOrNil() {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(strconv.FormatInt(v, 10))
	}
	sb.WriteByte(']')
	return sb.String()
}
