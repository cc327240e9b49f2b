// Package lock provides the locking primitives used across jamulsoe:
// an error-checking exclusive mutex, a reader/writer lock with scoped-only
// access, and a striped keyed lock for per-key serialization.
//
// Misusing a primitive (recursive locking, unlocking without holding) is a
// bug in the calling code, not a runtime condition, so it panics with a
// diagnostic instead of returning an error. There are no timeouts, no
// cancellation, and no fairness guarantees beyond what the sync package
// provides.
package lock

import (
	"fmt"
	"sync"
	"sync/atomic"
)

// Mutex is a mutual-exclusion lock with error checking: recursive Lock by the
// holding goroutine and Unlock by a goroutine that does not hold the lock are
// detected and reported as panics rather than deadlocking silently or
// corrupting state.
//
// A Mutex must not be copied after first use, and must not be held or
// contended when it becomes unreachable.
type Mutex struct {
	mu    sync.Mutex
	owner atomic.Int64 // goroutine ID of the holder, 0 when unheld
}

// NewMutex creates a new Mutex.
func NewMutex() *Mutex {
	return &Mutex{}
}

// Lock blocks until the calling goroutine is the sole holder.
// It panics if the calling goroutine already holds the lock.
func (m *Mutex) Lock() {
	gid := goid()
	if m.owner.Load() == gid {
		panic(fmt.Sprintf("lock: recursive Lock on Mutex by goroutine %d", gid))
	}
	m.mu.Lock()
	m.owner.Store(gid)
}

// Unlock releases the lock. It panics if the lock is not held, or is held by
// a different goroutine.
func (m *Mutex) Unlock() {
	gid := goid()
	switch owner := m.owner.Load(); owner {
	case gid:
		// ok
	case 0:
		panic("lock: Unlock of unlocked Mutex")
	default:
		panic(fmt.Sprintf("lock: Unlock of Mutex held by goroutine %d, called from goroutine %d", owner, gid))
	}
	m.owner.Store(0)
	m.mu.Unlock()
}

// With runs body while holding the lock. The lock is released on every exit
// path, including a panic inside body, before the panic propagates.
func (m *Mutex) With(body func()) {
	m.Lock()
	defer m.Unlock()
	body()
}

// WithError runs body while holding the lock and returns its error.
// The lock is released before the error (or a panic) reaches the caller.
func (m *Mutex) WithError(body func() error) error {
	m.Lock()
	defer m.Unlock()
	return body()
}

// Locked runs body while holding m and returns its result.
func Locked[T any](m *Mutex, body func() T) T {
	m.Lock()
	defer m.Unlock()
	return body()
}
