package memory

import (
	"context"
	"sync"

	domainRepos "agrichain.backend/internal/domain/repositories"
)

// UnitOfWork makes a group of store writes all-or-nothing. Units run one at a
// time; writes outside a unit are not blocked.
type UnitOfWork struct {
	store *Store
	mu    sync.Mutex
}

// NewUnitOfWork creates a new UnitOfWork
func NewUnitOfWork(store *Store) domainRepos.UnitOfWork {
	return &UnitOfWork{store: store}
}

// Do runs fn and reverts every write fn made through the store if it fails.
func (u *UnitOfWork) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, nested := ctx.Value(journalKey{}).(*journal); nested {
		return fn(ctx)
	}

	u.mu.Lock()
	defer u.mu.Unlock()

	j := &journal{}
	hookCtx, runHooks := domainRepos.WithAfterCommit(ctx)
	if err := fn(context.WithValue(hookCtx, journalKey{}, j)); err != nil {
		u.store.mu.Lock()
		for i := len(j.undo) - 1; i >= 0; i-- {
			j.undo[i]()
		}
		u.store.mu.Unlock()
		return err
	}
	runHooks(ctx)
	return nil
}
