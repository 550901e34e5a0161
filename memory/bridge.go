package memory

import (
	"context"
	"time"

	"golang.org/x/sync/semaphore"
)

// BridgeOptions configures a Bridge.
type BridgeOptions struct {
	// Workers bounds how many memory operations may run concurrently
	// through the bridge.
	Workers int64

	// Timeout is the per-operation deadline.
	Timeout time.Duration
}

// Bridge is the single crossing point for legacy call sites that cannot
// supply a context of their own. Every operation acquires a slot from a
// bounded pool and runs under a fixed deadline, so a burst of legacy calls
// cannot exhaust the storage backend.
type Bridge struct {
	mgr     ContextManager
	sem     *semaphore.Weighted
	timeout time.Duration
}

// NewBridge wraps a ContextManager behind the bounded synchronous boundary.
func NewBridge(mgr ContextManager, optFns ...func(o *BridgeOptions)) *Bridge {
	opts := BridgeOptions{
		Workers: 4,
		Timeout: 30 * time.Second,
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	return &Bridge{
		mgr:     mgr,
		sem:     semaphore.NewWeighted(opts.Workers),
		timeout: opts.Timeout,
	}
}

func (b *Bridge) acquire() (context.Context, context.CancelFunc, bool) {
	ctx, cancel := context.WithTimeout(context.Background(), b.timeout)
	if err := b.sem.Acquire(ctx, 1); err != nil {
		cancel()
		return nil, nil, false
	}
	return ctx, cancel, true
}

// Read reads the thread context, returning fallback when the pool or the
// storage backend is unavailable.
func (b *Bridge) Read(threadID, fallback string) string {
	ctx, cancel, ok := b.acquire()
	if !ok {
		return fallback
	}
	defer cancel()
	defer b.sem.Release(1)
	return b.mgr.Read(ctx, threadID, fallback)
}

// Write replaces the thread context.
func (b *Bridge) Write(threadID, text string) bool {
	ctx, cancel, ok := b.acquire()
	if !ok {
		return false
	}
	defer cancel()
	defer b.sem.Release(1)
	return b.mgr.Write(ctx, threadID, text)
}

// Maintain appends text to the thread context under the word ceiling. The
// non-idempotence of Manager.Maintain applies unchanged.
func (b *Bridge) Maintain(threadID, text string, maxWords int) bool {
	ctx, cancel, ok := b.acquire()
	if !ok {
		return false
	}
	defer cancel()
	defer b.sem.Release(1)
	return b.mgr.Maintain(ctx, threadID, text, maxWords)
}

// Delete removes the thread context.
func (b *Bridge) Delete(threadID string) bool {
	ctx, cancel, ok := b.acquire()
	if !ok {
		return false
	}
	defer cancel()
	defer b.sem.Release(1)
	return b.mgr.Delete(ctx, threadID)
}
