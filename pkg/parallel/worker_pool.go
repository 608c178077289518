// Package parallel runs partition-level work on a fixed pool of goroutines.
package parallel

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// ErrPoolClosed is returned when work is submitted to a closed pool.
var ErrPoolClosed = errors.New("worker pool is closed")

// MaxWorkers is the maximum number of workers allowed in a pool.
const MaxWorkers = 1 << 16

// PanicError is a task panic converted to an error.
type PanicError struct {
	Value any
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("task panicked: %v", e.Value)
}

// WorkerPool manages a pool of worker goroutines
type WorkerPool struct {
	workers   int
	taskQueue chan func()
	wg        sync.WaitGroup
	once      sync.Once
	mu        sync.RWMutex // Protects taskQueue from concurrent close during send
	closed    bool         // Protected by mu
}

// NewWorkerPool starts a pool with the given number of workers, clamped to
// [1, MaxWorkers].
func NewWorkerPool(workers int) *WorkerPool {
	workers = max(1, min(workers, MaxWorkers))

	pool := &WorkerPool{
		workers:   workers,
		taskQueue: make(chan func(), workers*2),
	}
	for i := 0; i < workers; i++ {
		pool.wg.Add(1)
		go pool.worker()
	}
	return pool
}

// Workers returns the number of worker goroutines.
func (wp *WorkerPool) Workers() int { return wp.workers }

func (wp *WorkerPool) worker() {
	defer wp.wg.Done()
	for task := range wp.taskQueue {
		task()
	}
}

// Submit queues task. It reports false if the pool is closed. A panic in
// task is recovered so the worker survives; use Batch to observe it.
func (wp *WorkerPool) Submit(task func()) bool {
	wp.mu.RLock()
	defer wp.mu.RUnlock()

	if wp.closed {
		return false
	}
	wp.taskQueue <- func() {
		defer func() { _ = recover() }()
		task()
	}
	return true
}

// Close stops accepting work and waits for queued tasks to finish.
func (wp *WorkerPool) Close() {
	wp.once.Do(func() {
		wp.mu.Lock()
		wp.closed = true
		close(wp.taskQueue)
		wp.mu.Unlock()
	})
	wp.wg.Wait()
}

// Batch tracks a group of error-returning tasks on a pool.
type Batch struct {
	pool *WorkerPool
	ctx  context.Context
	wg   sync.WaitGroup
	mu   sync.Mutex
	errs []error
}

// NewBatch returns a Batch that runs its tasks on pool. Tasks queued after
// ctx is done are skipped and report ctx.Err().
func (wp *WorkerPool) NewBatch(ctx context.Context) *Batch {
	return &Batch{pool: wp, ctx: ctx}
}

// Go queues fn. A panic in fn is reported as a *PanicError.
func (b *Batch) Go(fn func(ctx context.Context) error) {
	b.wg.Add(1)
	ok := b.pool.Submit(func() {
		defer b.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				b.record(&PanicError{Value: r})
			}
		}()
		if err := b.ctx.Err(); err != nil {
			b.record(err)
			return
		}
		if err := fn(b.ctx); err != nil {
			b.record(err)
		}
	})
	if !ok {
		b.record(ErrPoolClosed)
		b.wg.Done()
	}
}

func (b *Batch) record(err error) {
	b.mu.Lock()
	b.errs = append(b.errs, err)
	b.mu.Unlock()
}

// Wait blocks until every queued task has finished and returns their
// errors joined, or nil.
func (b *Batch) Wait() error {
	b.wg.Wait()
	b.mu.Lock()
	defer b.mu.Unlock()
	return errors.Join(b.errs...)
}
