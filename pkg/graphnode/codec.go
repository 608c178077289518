package graphnode

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/dd0wney/cluso-pagerank/pkg/longlist"
	"github.com/dd0wney/cluso-pagerank/pkg/pools"
)

// Record layout, all integers big-endian:
//
//	tag        1 byte   always
//	id         8 bytes  always
//	score      4 bytes  Mass, Complete (IEEE-754 single)
//	adjacency  4+8n     Structure, Complete (longlist encoding)
const (
	tagSize   = 1
	idSize    = 8
	scoreSize = 4

	// MassRecordSize is the encoded size of every Mass record.
	MassRecordSize = tagSize + idSize + scoreSize
)

// EncodedLen returns the number of bytes Encode writes for n.
func (n *Node) EncodedLen() int {
	size := tagSize + idSize
	if n.variant.HasScore() {
		size += scoreSize
	}
	if n.variant.HasAdjacency() {
		size += n.adjacency.EncodedLen()
	}
	return size
}

// AppendBinary appends the encoding of n to dst.
func (n *Node) AppendBinary(dst []byte) ([]byte, error) {
	if !n.variant.Valid() {
		return dst, fmt.Errorf("encode node %d: tag %d: %w", n.id, uint8(n.variant), ErrInvalidVariant)
	}

	dst = append(dst, byte(n.variant))
	dst = binary.BigEndian.AppendUint64(dst, uint64(n.id))
	if n.variant.HasScore() {
		dst = binary.BigEndian.AppendUint32(dst, math.Float32bits(n.score))
	}
	if n.variant.HasAdjacency() {
		var err error
		if dst, err = n.adjacency.AppendBinary(dst); err != nil {
			return dst, fmt.Errorf("encode node %d: %w", n.id, err)
		}
	}
	return dst, nil
}

// MarshalBinary implements encoding.BinaryMarshaler.
func (n *Node) MarshalBinary() ([]byte, error) {
	return n.AppendBinary(make([]byte, 0, n.EncodedLen()))
}

// Encode writes the record to w in a single Write call.
func (n *Node) Encode(w io.Writer) error {
	size := n.EncodedLen()
	buf := pools.GetBytes(size)
	defer func() { pools.PutBytes(buf) }()

	var err error
	if buf, err = n.AppendBinary(buf); err != nil {
		return err
	}
	_, err = w.Write(buf)
	return err
}

// Decode reads one record from r into n. The tag byte is read and checked
// first; an unrecognized tag fails after consuming exactly that byte. n is
// only assigned once the whole record has been read.
//
// Decode returns io.EOF, unwrapped, when r is exhausted before the tag byte,
// so callers reading a sequence of records can stop cleanly. Every other
// failure is a *DecodeError.
func (n *Node) Decode(r io.Reader) error {
	var tag [tagSize]byte
	if _, err := io.ReadFull(r, tag[:]); err != nil {
		if errors.Is(err, io.EOF) {
			return io.EOF
		}
		return &DecodeError{Cause: err}
	}

	v := Variant(tag[0])
	if !v.Valid() {
		return &DecodeError{Tag: tag[0], Field: "tag", Cause: ErrInvalidVariant}
	}

	var fixed [idSize + scoreSize]byte
	head := fixed[:idSize]
	if v.HasScore() {
		head = fixed[:idSize+scoreSize]
	}
	if _, err := io.ReadFull(r, head); err != nil {
		field := "id"
		if v.HasScore() {
			field = "id+score"
		}
		return &DecodeError{Tag: tag[0], Field: field, Cause: truncated(err)}
	}

	decoded := Node{
		id:      int64(binary.BigEndian.Uint64(head[:idSize])),
		variant: v,
	}
	if v.HasScore() {
		decoded.score = math.Float32frombits(binary.BigEndian.Uint32(head[idSize:]))
	}
	if v.HasAdjacency() {
		adj, err := longlist.Read(r)
		if err != nil {
			return &DecodeError{Tag: tag[0], Field: "adjacency", Cause: err}
		}
		decoded.adjacency = adj
	}

	*n = decoded
	return nil
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler. data must hold
// exactly one record.
func (n *Node) UnmarshalBinary(data []byte) error {
	r := bytes.NewReader(data)
	var decoded Node
	if err := decoded.Decode(r); err != nil {
		if errors.Is(err, io.EOF) {
			return &DecodeError{Cause: io.ErrUnexpectedEOF}
		}
		return err
	}
	if r.Len() != 0 {
		return &DecodeError{Tag: byte(decoded.variant), Field: "trailer",
			Cause: fmt.Errorf("%d trailing bytes", r.Len())}
	}
	*n = decoded
	return nil
}

// Read decodes a new node from r. See Decode for the error contract.
func Read(r io.Reader) (*Node, error) {
	n := &Node{}
	if err := n.Decode(r); err != nil {
		return nil, err
	}
	return n, nil
}

func truncated(err error) error {
	if errors.Is(err, io.EOF) {
		return io.ErrUnexpectedEOF
	}
	return err
}
