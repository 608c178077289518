package pools

import (
	"sync"
)

// Buffer size classes. A Mass record is 13 bytes, a Structure record with a
// handful of neighbors fits in 64, long adjacency lists spill into the
// larger classes.
const (
	TinySize   = 16
	SmallSize  = 64
	MediumSize = 256
	LargeSize  = 1024
	HugeSize   = 4096
	MaxPool    = 65536 // Don't pool buffers larger than this
)

var byteClasses = [...]int{TinySize, SmallSize, MediumSize, LargeSize, HugeSize}

// BytePool provides size-class based pooling for byte slices.
type BytePool struct {
	classes [len(byteClasses)]sync.Pool
}

// NewBytePool creates a new byte pool.
func NewBytePool() *BytePool {
	p := &BytePool{}
	for i, size := range byteClasses {
		size := size
		p.classes[i].New = func() any {
			b := make([]byte, 0, size)
			return &b
		}
	}
	return p
}

// classFor returns the index of the smallest class holding size bytes, or -1.
func classFor(size int) int {
	for i, c := range byteClasses {
		if size <= c {
			return i
		}
	}
	return -1
}

// Get returns a byte slice with length 0 and at least the requested capacity.
func (p *BytePool) Get(size int) []byte {
	idx := classFor(size)
	if idx < 0 {
		return make([]byte, 0, size)
	}

	bp, ok := p.classes[idx].Get().(*[]byte)
	if !ok || cap(*bp) < size {
		return make([]byte, 0, size)
	}
	return (*bp)[:0]
}

// GetSized returns a byte slice with exactly the requested length.
func (p *BytePool) GetSized(size int) []byte {
	b := p.Get(size)
	return b[:size]
}

// Put returns a byte slice to the pool. A slice goes back to the largest
// class it can fully serve; oversized slices are dropped.
func (p *BytePool) Put(b []byte) {
	c := cap(b)
	if c > MaxPool || c < TinySize {
		return
	}

	idx := -1
	for i, size := range byteClasses {
		if c >= size {
			idx = i
		}
	}
	if idx < 0 {
		return
	}

	b = b[:0]
	p.classes[idx].Put(&b)
}

var defaultBytePool = NewBytePool()

// GetBytes returns a byte slice from the default pool.
func GetBytes(size int) []byte {
	return defaultBytePool.Get(size)
}

// GetBytesSized returns a byte slice with exact length from the default pool.
func GetBytesSized(size int) []byte {
	return defaultBytePool.GetSized(size)
}

// PutBytes returns a byte slice to the default pool.
func PutBytes(b []byte) {
	defaultBytePool.Put(b)
}
