package pagerank

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dd0wney/cluso-pagerank/pkg/graphnode"
	"github.com/dd0wney/cluso-pagerank/pkg/passfile"
)

type recordWriter interface {
	Write(n *graphnode.Node) error
	Count() int
	Bytes() int64
	Close() error
}

type recordReader interface {
	Next() (*graphnode.Node, error)
	Close() error
}

// outboxStore holds the stream from every sending partition to every
// receiving partition for one pass. Each (from, to) slot is written by
// exactly one goroutine and read after all writers have closed.
type outboxStore interface {
	create(from, to int) (recordWriter, error)
	open(from, to int) (recordReader, error)
	cleanup() error
}

type memoryStore struct {
	compression passfile.Compression
	partitions  int
	buffers     []*bytes.Buffer
}

func newMemoryStore(partitions int, c passfile.Compression) *memoryStore {
	return &memoryStore{
		compression: c,
		partitions:  partitions,
		buffers:     make([]*bytes.Buffer, partitions*partitions),
	}
}

func (s *memoryStore) create(from, to int) (recordWriter, error) {
	buf := &bytes.Buffer{}
	s.buffers[from*s.partitions+to] = buf
	w, err := passfile.NewWriter(buf, s.compression)
	if err != nil {
		return nil, err
	}
	return w, nil
}

func (s *memoryStore) open(from, to int) (recordReader, error) {
	buf := s.buffers[from*s.partitions+to]
	if buf == nil {
		return nil, fmt.Errorf("open outbox %d->%d: %w", from, to, os.ErrNotExist)
	}
	r, err := passfile.NewReader(bytes.NewReader(buf.Bytes()))
	if err != nil {
		return nil, fmt.Errorf("open outbox %d->%d: %w", from, to, err)
	}
	return memoryReader{r}, nil
}

func (s *memoryStore) cleanup() error {
	clear(s.buffers)
	return nil
}

type memoryReader struct {
	*passfile.Reader
}

func (memoryReader) Close() error { return nil }

type fileStore struct {
	compression passfile.Compression
	dir         string
}

func newFileStore(dir string, c passfile.Compression) (*fileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create pass directory: %w", err)
	}
	return &fileStore{compression: c, dir: dir}, nil
}

func (s *fileStore) path(from, to int) string {
	return filepath.Join(s.dir, fmt.Sprintf("part-%04d-to-%04d.prnf", from, to))
}

func (s *fileStore) create(from, to int) (recordWriter, error) {
	w, err := passfile.CreateFile(s.path(from, to), s.compression)
	if err != nil {
		return nil, err
	}
	return w, nil
}

func (s *fileStore) open(from, to int) (recordReader, error) {
	r, err := passfile.OpenFile(s.path(from, to))
	if err != nil {
		return nil, err
	}
	return r, nil
}

func (s *fileStore) cleanup() error {
	return os.RemoveAll(s.dir)
}
