// Package docno assigns dense sequential numbers (docnos) to external
// document identifiers (docids).
//
// Numbering is count-then-number: every docid seen is recorded once, the
// distinct docids are sorted, and the i-th smallest receives docno i (1-based).
// Docno 0 is never assigned.
package docno

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"slices"

	"github.com/dd0wney/cluso-pagerank/pkg/pools"
)

// Errors
var (
	ErrCorruptMapping = errors.New("corrupt docno mapping")
	ErrTooManyDocs    = errors.New("too many documents for int32 docnos")
)

// Numberer translates between docids and docnos.
type Numberer interface {
	Docno(docid int32) (int32, bool)
	Docid(docno int32) (int32, bool)
	Len() int
}

// Mapping is an immutable docid/docno table.
type Mapping struct {
	docids []int32 // ascending; docids[docno-1]
}

var _ Numberer = (*Mapping)(nil)

// Docno returns the number assigned to docid.
func (m *Mapping) Docno(docid int32) (int32, bool) {
	i, found := slices.BinarySearch(m.docids, docid)
	if !found {
		return 0, false
	}
	return int32(i + 1), true
}

// Docid returns the docid numbered docno.
func (m *Mapping) Docid(docno int32) (int32, bool) {
	if docno < 1 || int(docno) > len(m.docids) {
		return 0, false
	}
	return m.docids[docno-1], true
}

// Len returns the number of numbered documents.
func (m *Mapping) Len() int { return len(m.docids) }

// WriteTo writes the mapping as a big-endian int32 count followed by the
// docids in docno order.
func (m *Mapping) WriteTo(w io.Writer) (int64, error) {
	b := pools.NewBufferBuilder(4 + 4*len(m.docids))
	defer b.Release()

	b.WriteUint32BE(uint32(len(m.docids)))
	for _, id := range m.docids {
		b.WriteUint32BE(uint32(id))
	}
	n, err := w.Write(b.Bytes())
	return int64(n), err
}

// ReadMapping reads a mapping written by WriteTo. Docids must be strictly
// ascending.
func ReadMapping(r io.Reader) (*Mapping, error) {
	var hdr [4]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		return nil, fmt.Errorf("read docno count: %w", err)
	}
	count := int32(binary.BigEndian.Uint32(hdr[:]))
	if count < 0 {
		return nil, fmt.Errorf("%w: negative count %d", ErrCorruptMapping, count)
	}

	docids := make([]int32, 0, min(int(count), 1<<16))
	var word [4]byte
	for i := int32(0); i < count; i++ {
		if _, err := io.ReadFull(r, word[:]); err != nil {
			return nil, fmt.Errorf("read docid %d of %d: %w", i, count, err)
		}
		id := int32(binary.BigEndian.Uint32(word[:]))
		if n := len(docids); n > 0 && docids[n-1] >= id {
			return nil, fmt.Errorf("%w: docid %d at docno %d not above %d", ErrCorruptMapping, id, i+1, docids[n-1])
		}
		docids = append(docids, id)
	}
	return &Mapping{docids: docids}, nil
}

// Builder collects docids for numbering. It is not safe for concurrent use.
type Builder struct {
	seen  map[int32]struct{}
	stats Stats
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder {
	return &Builder{seen: make(map[int32]struct{})}
}

// Add records docid. Repeated docids are numbered once.
func (b *Builder) Add(docid int32) {
	b.seen[docid] = struct{}{}
}

// AddPage records docid along with the kind of page it is. Classification
// is the caller's; the builder only counts.
func (b *Builder) AddPage(docid int32, kind PageKind) {
	b.Add(docid)
	b.stats.add(kind)
}

// Stats returns the page counts recorded by AddPage.
func (b *Builder) Stats() Stats { return b.stats }

// Len returns the number of distinct docids recorded.
func (b *Builder) Len() int { return len(b.seen) }

// Build numbers the recorded docids.
func (b *Builder) Build() (*Mapping, error) {
	if len(b.seen) > math.MaxInt32 {
		return nil, ErrTooManyDocs
	}
	docids := make([]int32, 0, len(b.seen))
	for id := range b.seen {
		docids = append(docids, id)
	}
	slices.Sort(docids)
	return &Mapping{docids: docids}, nil
}
