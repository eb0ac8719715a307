// Package workerpool bounds the number of goroutines doing background work
// such as pagination and page rendering.
package workerpool

import (
	"context"
	"sync"
)

const DefaultSize = 4

// Pool limits concurrent background work.
type Pool struct {
	sem chan struct{}
	wg  sync.WaitGroup
}

// New creates a pool with the given number of slots.
func New(size int) *Pool {
	if size <= 0 {
		size = DefaultSize
	}
	return &Pool{sem: make(chan struct{}, size)}
}

// Size returns the number of slots.
func (p *Pool) Size() int {
	return cap(p.sem)
}

// Run executes fn on the calling goroutine with a slot held.
// Returns ctx.Err() if the context is cancelled while waiting for a slot.
func (p *Pool) Run(ctx context.Context, fn func()) error {
	select {
	case p.sem <- struct{}{}:
		defer func() { <-p.sem }()
		fn()
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Go runs fn on a new goroutine once a slot is free. It never blocks the caller.
// fn is skipped when ctx is cancelled before a slot frees up.
func (p *Pool) Go(ctx context.Context, fn func()) {
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		_ = p.Run(ctx, fn)
	}()
}

// Wait blocks until every function started with Go has returned.
func (p *Pool) Wait() {
	p.wg.Wait()
}
