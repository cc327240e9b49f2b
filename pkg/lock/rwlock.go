package lock

import "sync"

// RWLock is a reader/writer lock: any number of concurrent readers, or
// exactly one writer, never both. Only scoped forms are exported, so calling
// code cannot forget to release. There is no upgrade or downgrade; a caller
// that needs to switch modes must leave one scope and enter another.
//
// Writer starvation behavior and ordering among waiters follow sync.RWMutex;
// callers must not assume FIFO fairness.
type RWLock struct {
	mu sync.RWMutex
}

// NewRWLock creates a new RWLock.
func NewRWLock() *RWLock {
	return &RWLock{}
}

// WithRLock runs body while holding a shared (reader) lock.
// The lock is released on every exit path, including a panic inside body.
func (l *RWLock) WithRLock(body func()) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	body()
}

// WithLock runs body while holding the exclusive (writer) lock.
// The lock is released on every exit path, including a panic inside body.
func (l *RWLock) WithLock(body func()) {
	l.mu.Lock()
	defer l.mu.Unlock()
	body()
}

// WithRLockError runs body under a reader lock and returns its error.
func (l *RWLock) WithRLockError(body func() error) error {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return body()
}

// WithLockError runs body under the writer lock and returns its error.
func (l *RWLock) WithLockError(body func() error) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return body()
}

// ReadLocked runs body under a reader lock on l and returns its result.
func ReadLocked[T any](l *RWLock, body func() T) T {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return body()
}

// WriteLocked runs body under the writer lock on l and returns its result.
func WriteLocked[T any](l *RWLock, body func() T) T {
	l.mu.Lock()
	defer l.mu.Unlock()
	return body()
}
