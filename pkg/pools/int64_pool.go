package pools

import (
	"sync"
)

// Int64Pool pools int64 slices used as adjacency and message scratch space.
type Int64Pool struct {
	small  sync.Pool // <= 16 elements
	medium sync.Pool // <= 128 elements
	large  sync.Pool // <= 1024 elements
}

// NewInt64Pool creates a new int64 slice pool.
func NewInt64Pool() *Int64Pool {
	mk := func(n int) func() any {
		return func() any {
			s := make([]int64, 0, n)
			return &s
		}
	}
	return &Int64Pool{
		small:  sync.Pool{New: mk(16)},
		medium: sync.Pool{New: mk(128)},
		large:  sync.Pool{New: mk(1024)},
	}
}

func (p *Int64Pool) pick(n int) *sync.Pool {
	switch {
	case n <= 16:
		return &p.small
	case n <= 128:
		return &p.medium
	case n <= 1024:
		return &p.large
	default:
		return nil
	}
}

// Get returns an empty int64 slice with at least the requested capacity.
func (p *Int64Pool) Get(size int) []int64 {
	pool := p.pick(size)
	if pool == nil {
		return make([]int64, 0, size)
	}

	sp, ok := pool.Get().(*[]int64)
	if !ok || cap(*sp) < size {
		return make([]int64, 0, size)
	}
	return (*sp)[:0]
}

// Put returns an int64 slice to the pool.
func (p *Int64Pool) Put(s []int64) {
	c := cap(s)
	var pool *sync.Pool
	switch {
	case c >= 1024 && c <= 16384:
		pool = &p.large
	case c >= 128 && c < 1024:
		pool = &p.medium
	case c >= 16 && c < 128:
		pool = &p.small
	default:
		return
	}

	s = s[:0]
	pool.Put(&s)
}

var defaultInt64Pool = NewInt64Pool()

// GetInt64s returns an int64 slice from the default pool.
func GetInt64s(size int) []int64 {
	return defaultInt64Pool.Get(size)
}

// PutInt64s returns an int64 slice to the default pool.
func PutInt64s(s []int64) {
	defaultInt64Pool.Put(s)
}
