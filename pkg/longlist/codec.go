package longlist

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
)

// Wire layout: a 4-byte big-endian element count followed by that many
// 8-byte big-endian values, in list order.
const (
	countSize   = 4
	elementSize = 8

	// readChunk caps how many values are read per call so a corrupt count
	// cannot force a huge up-front allocation.
	readChunk = 512
)

// ErrTooLarge is returned when a list cannot be represented by a 4-byte count.
var ErrTooLarge = errors.New("list too large to encode")

// EncodedLen returns the number of bytes Encode writes.
func (l *List) EncodedLen() int {
	return countSize + elementSize*l.Len()
}

// AppendBinary appends the encoding of l to dst and returns the extended slice.
func (l *List) AppendBinary(dst []byte) ([]byte, error) {
	n := l.Len()
	if n > math.MaxInt32 {
		return dst, fmt.Errorf("encode long list of %d values: %w", n, ErrTooLarge)
	}
	dst = binary.BigEndian.AppendUint32(dst, uint32(n))
	for _, v := range l.valuesOrNil() {
		dst = binary.BigEndian.AppendUint64(dst, uint64(v))
	}
	return dst, nil
}

// MarshalBinary implements encoding.BinaryMarshaler.
func (l *List) MarshalBinary() ([]byte, error) {
	return l.AppendBinary(make([]byte, 0, l.EncodedLen()))
}

// Encode writes the binary encoding of l to w.
func (l *List) Encode(w io.Writer) error {
	buf, err := l.MarshalBinary()
	if err != nil {
		return err
	}
	_, err = w.Write(buf)
	return err
}

// Decode replaces the contents of l with a list read from r. On error l is
// left unchanged and the error is a *DecodeError; a stream that ends early
// wraps io.ErrUnexpectedEOF.
func (l *List) Decode(r io.Reader) error {
	values, err := decodeValues(r)
	if err != nil {
		return err
	}
	l.values = values
	return nil
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler. data must hold
// exactly one encoded list.
func (l *List) UnmarshalBinary(data []byte) error {
	r := bytes.NewReader(data)
	values, err := decodeValues(r)
	if err != nil {
		return err
	}
	if r.Len() != 0 {
		return &DecodeError{Declared: len(values), Read: len(values),
			Cause: fmt.Errorf("%d trailing bytes", r.Len())}
	}
	l.values = values
	return nil
}

// Read decodes a new list from r.
func Read(r io.Reader) (*List, error) {
	values, err := decodeValues(r)
	if err != nil {
		return nil, err
	}
	return &List{values: values}, nil
}

func decodeValues(r io.Reader) ([]int64, error) {
	var hdr [countSize]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		return nil, &DecodeError{Declared: -1, Cause: eofToUnexpected(err)}
	}

	count := int32(binary.BigEndian.Uint32(hdr[:]))
	if count < 0 {
		return nil, &DecodeError{Declared: int(count), Cause: fmt.Errorf("negative count %d", count)}
	}

	values := make([]int64, 0, min(int(count), readChunk))
	var chunk [readChunk * elementSize]byte
	for remaining := int(count); remaining > 0; {
		n := min(remaining, readChunk)
		buf := chunk[:n*elementSize]
		if _, err := io.ReadFull(r, buf); err != nil {
			return nil, &DecodeError{Declared: int(count), Read: len(values), Cause: eofToUnexpected(err)}
		}
		for off := 0; off < len(buf); off += elementSize {
			values = append(values, int64(binary.BigEndian.Uint64(buf[off:])))
		}
		remaining -= n
	}
	return values, nil
}

// eofToUnexpected maps a clean EOF to io.ErrUnexpectedEOF: once decoding has
// begun, running out of input is always truncation.
func eofToUnexpected(err error) error {
	if errors.Is(err, io.EOF) {
		return io.ErrUnexpectedEOF
	}
	return err
}
