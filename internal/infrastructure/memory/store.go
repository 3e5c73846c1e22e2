// Package memory is a process-local storage backend. Every entity type lives
// in its own map keyed by a monotonically increasing integer id.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"agrichain.backend/internal/domain/entities"
)

// Store holds all in-memory collections behind a single lock.
type Store struct {
	mu sync.RWMutex

	users         map[int64]*entities.User
	farmers       map[int64]*entities.Farmer
	products      map[int64]*entities.Product
	verifications map[int64]*entities.Verification
	resetTokens   map[int64]*entities.PasswordResetToken

	nextUserID         int64
	nextFarmerID       int64
	nextProductID      int64
	nextVerificationID int64
	nextResetTokenID   int64

	now func() time.Time
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		users:         make(map[int64]*entities.User),
		farmers:       make(map[int64]*entities.Farmer),
		products:      make(map[int64]*entities.Product),
		verifications: make(map[int64]*entities.Verification),
		resetTokens:   make(map[int64]*entities.PasswordResetToken),
		now:           time.Now,
	}
}

type journalKey struct{}

// journal collects undo steps for writes made inside a unit of work.
type journal struct {
	undo []func()
}

// record registers an undo step if ctx belongs to a unit of work. Callers
// must hold s.mu; the step runs later with s.mu held as well.
func record(ctx context.Context, undo func()) {
	if j, ok := ctx.Value(journalKey{}).(*journal); ok {
		j.undo = append(j.undo, undo)
	}
}

func sortedKeys[V any](m map[int64]V) []int64 {
	keys := make([]int64, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}
