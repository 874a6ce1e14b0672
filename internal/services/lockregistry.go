package services

import (
	"sync"

	"github.com/google/uuid"
)

// LockRegistry hands out one mutex per id. The workflow keeps two of these:
// one keyed by product id, so every ledger read-check-write runs as a
// single-writer critical section for that product, and one keyed by order id,
// so status transitions on the same order never interleave. An order lock may
// wrap product locks but never the other way around, which rules out
// lock-ordering deadlocks.
type LockRegistry struct {
	mu    sync.Mutex
	locks map[uuid.UUID]*sync.Mutex
}

func NewLockRegistry() *LockRegistry {
	return &LockRegistry{locks: make(map[uuid.UUID]*sync.Mutex)}
}

// Lock acquires the mutex for id and returns its unlock func.
func (lr *LockRegistry) Lock(id uuid.UUID) func() {
	lr.mu.Lock()
	m, ok := lr.locks[id]
	if !ok {
		m = &sync.Mutex{}
		lr.locks[id] = m
	}
	lr.mu.Unlock()

	m.Lock()
	return m.Unlock
}
