package passfile

import (
	"bufio"
	"errors"
	"fmt"
	"io"

	"github.com/golang/snappy"
	"golang.org/x/exp/mmap"

	"github.com/dd0wney/cluso-pagerank/pkg/graphnode"
)

// Reader iterates over the records of a pass stream.
type Reader struct {
	body        io.Reader
	compression Compression
	records     int
}

// NewReader reads and checks the header from r.
func NewReader(r io.Reader) (*Reader, error) {
	var hdr [headerSize]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		return nil, fmt.Errorf("read pass header: %w", err)
	}
	if [4]byte(hdr[:4]) != magic {
		return nil, ErrBadMagic
	}
	if hdr[4] != version {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, hdr[4])
	}

	c := Compression(hdr[5])
	var body io.Reader
	switch c {
	case None:
		body = bufio.NewReader(r)
	case Snappy:
		body = snappy.NewReader(r)
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownCompression, hdr[5])
	}
	return &Reader{body: body, compression: c}, nil
}

// Compression returns the body compression named in the header.
func (r *Reader) Compression() Compression { return r.compression }

// Next returns the next record, or io.EOF after the last one. A stream that
// ends inside a record yields a *graphnode.DecodeError.
func (r *Reader) Next() (*graphnode.Node, error) {
	n, err := graphnode.Read(r.body)
	if err != nil {
		if err == io.EOF {
			return nil, io.EOF
		}
		return nil, fmt.Errorf("record %d: %w", r.records, err)
	}
	r.records++
	return n, nil
}

// Count returns the number of records read so far.
func (r *Reader) Count() int { return r.records }

// ReadAll reads the remaining records.
func (r *Reader) ReadAll() ([]*graphnode.Node, error) {
	var nodes []*graphnode.Node
	for {
		n, err := r.Next()
		if errors.Is(err, io.EOF) {
			return nodes, nil
		}
		if err != nil {
			return nodes, err
		}
		nodes = append(nodes, n)
	}
}

// FileReader is a Reader over a memory-mapped pass file.
type FileReader struct {
	*Reader
	m *mmap.ReaderAt
}

// OpenFile maps path read-only and returns a reader for its records.
func OpenFile(path string) (*FileReader, error) {
	m, err := mmap.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open pass file: %w", err)
	}
	r, err := NewReader(io.NewSectionReader(m, 0, int64(m.Len())))
	if err != nil {
		_ = m.Close()
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &FileReader{Reader: r, m: m}, nil
}

// Close unmaps the file.
func (fr *FileReader) Close() error {
	return fr.m.Close()
}
