package repositories

import (
	"context"
	"sync"
)

// UnitOfWork defines the interface for atomic operations
type UnitOfWork interface {
	// Do executes the given function within a transaction scope
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

type afterCommitKey struct{}

type afterCommitHooks struct {
	mu  sync.Mutex
	fns []func(context.Context)
}

// WithAfterCommit returns a context that collects AfterCommit callbacks and
// a function that runs them in registration order. Unit of work
// implementations call run once the transaction has committed and simply
// drop it on rollback.
func WithAfterCommit(ctx context.Context) (context.Context, func(context.Context)) {
	h := &afterCommitHooks{}
	run := func(ctx context.Context) {
		h.mu.Lock()
		fns := h.fns
		h.fns = nil
		h.mu.Unlock()
		for _, fn := range fns {
			fn(ctx)
		}
	}
	return context.WithValue(ctx, afterCommitKey{}, h), run
}

// AfterCommit defers fn until the unit of work bound to ctx commits.
// Outside a unit of work fn runs immediately.
func AfterCommit(ctx context.Context, fn func(context.Context)) {
	h, ok := ctx.Value(afterCommitKey{}).(*afterCommitHooks)
	if !ok {
		fn(ctx)
		return
	}
	h.mu.Lock()
	h.fns = append(h.fns, fn)
	h.mu.Unlock()
}
