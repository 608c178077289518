package passfile

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/golang/snappy"

	"github.com/dd0wney/cluso-pagerank/pkg/graphnode"
)

// flusher is the buffered body writer for either compression mode.
type flusher interface {
	io.Writer
	Flush() error
}

// Writer appends node records to a pass stream.
type Writer struct {
	body    flusher
	closed  bool
	records int
	bytes   int64
}

// NewWriter writes the header to w and returns a Writer for the body.
// Close must be called to flush buffered records; it does not close w.
func NewWriter(w io.Writer, c Compression) (*Writer, error) {
	var body flusher
	switch c {
	case None:
		body = bufio.NewWriter(w)
	case Snappy:
		body = snappy.NewBufferedWriter(w)
	default:
		return nil, fmt.Errorf("new pass writer: %w: %d", ErrUnknownCompression, uint8(c))
	}

	hdr := [headerSize]byte{magic[0], magic[1], magic[2], magic[3], version, byte(c)}
	if _, err := w.Write(hdr[:]); err != nil {
		return nil, fmt.Errorf("write pass header: %w", err)
	}
	return &Writer{body: body}, nil
}

// Write appends one record.
func (w *Writer) Write(n *graphnode.Node) error {
	if w.closed {
		return ErrClosed
	}
	if err := n.Encode(w.body); err != nil {
		return fmt.Errorf("write record %d: %w", w.records, err)
	}
	w.records++
	w.bytes += int64(n.EncodedLen())
	return nil
}

// Count returns the number of records written.
func (w *Writer) Count() int { return w.records }

// Bytes returns the uncompressed size of the records written.
func (w *Writer) Bytes() int64 { return w.bytes }

// Close flushes buffered records. It is safe to call more than once.
func (w *Writer) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true
	if sw, ok := w.body.(*snappy.Writer); ok {
		return sw.Close()
	}
	return w.body.Flush()
}

// FileWriter is a Writer that owns its file.
type FileWriter struct {
	*Writer
	f *os.File
}

// CreateFile creates (or truncates) path and returns a writer for it.
func CreateFile(path string, c Compression) (*FileWriter, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create pass file: %w", err)
	}
	w, err := NewWriter(f, c)
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	return &FileWriter{Writer: w, f: f}, nil
}

// Close flushes the records and closes the file.
func (fw *FileWriter) Close() error {
	if err := fw.Writer.Close(); err != nil {
		_ = fw.f.Close()
		return err
	}
	return fw.f.Close()
}
