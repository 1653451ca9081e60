// Package task holds the two lifecycle primitives of the workflow: a
// runner that ties async operations to a view's lifetime so a late
// response can never touch a view that is gone, and the boolean
// in-flight gate that protects submit/save/delete against double
// invocation.
package task

import (
	"context"
	"errors"
	"sync"
)

// ErrInFlight is returned when an operation is refused because another
// one is still outstanding.
var ErrInFlight = errors.New("another operation is already in flight")

// Gate is the single mutual-exclusion primitive of the subsystem. It
// guards against a duplicate submission from the same view, not against
// independent users editing the same record.
type Gate struct {
	mu   sync.Mutex
	busy bool
}

// TryAcquire marks the gate busy. It reports false when an operation is
// already outstanding.
func (g *Gate) TryAcquire() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.busy {
		return false
	}
	g.busy = true
	return true
}

func (g *Gate) Release() {
	g.mu.Lock()
	g.busy = false
	g.mu.Unlock()
}

func (g *Gate) Busy() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.busy
}

// Runner executes operations under a context bound to the owning view's
// lifetime. Close cancels everything outstanding and suppresses any
// completion callback that has not fired yet.
type Runner struct {
	ctx    context.Context
	cancel context.CancelFunc

	mu     sync.Mutex
	closed bool
	wg     sync.WaitGroup
}

func NewRunner(parent context.Context) *Runner {
	ctx, cancel := context.WithCancel(parent)
	return &Runner{ctx: ctx, cancel: cancel}
}

// Go runs op on a new goroutine with the runner's context and delivers
// its result to done, unless the runner was closed in the meantime.
func (r *Runner) Go(op func(ctx context.Context) error, done func(error)) {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return
	}
	r.wg.Add(1)
	r.mu.Unlock()

	go func() {
		defer r.wg.Done()
		err := op(r.ctx)

		r.mu.Lock()
		closed := r.closed
		r.mu.Unlock()
		if closed || done == nil {
			return
		}
		done(err)
	}()
}

// Close cancels the runner's context and drops all pending callbacks.
// It waits for in-flight operations to observe the cancellation.
func (r *Runner) Close() {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return
	}
	r.closed = true
	r.mu.Unlock()

	r.cancel()
	r.wg.Wait()
}

func (r *Runner) Closed() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.closed
}
