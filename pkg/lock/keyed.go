package lock

import (
	"sync"

	"github.com/zeebo/xxh3"
)

// KeyedLocker serializes access per string key. Implementations may map
// multiple keys onto the same underlying lock.
type KeyedLocker interface {
	Lock(key string)
	Unlock(key string)
	RLock(key string)
	RUnlock(key string)
}

// KeyedLock provides per-key locking using a fixed number of reader/writer
// mutexes (striped locking) to avoid global contention. Two keys that hash to
// the same slot share a lock, so holders must never acquire a second key from
// the same KeyedLock while holding one.
type KeyedLock struct {
	locks []sync.RWMutex
	slots uint64
}

var _ KeyedLocker = (*KeyedLock)(nil)

// NewKeyedLock creates a KeyedLock with the given number of lock slots.
// If slots is 0 or less, it defaults to 2048 slots.
func NewKeyedLock(slots int) *KeyedLock {
	if slots <= 0 {
		slots = 2048
	}
	return &KeyedLock{
		locks: make([]sync.RWMutex, slots),
		slots: uint64(slots),
	}
}

// slot determines which mutex to use for a given key.
func (kl *KeyedLock) slot(key string) uint64 {
	return xxh3.HashString(key) % kl.slots
}

// Lock locks the slot for key for writing.
func (kl *KeyedLock) Lock(key string) {
	kl.locks[kl.slot(key)].Lock()
}

// Unlock unlocks the slot for key for writing.
func (kl *KeyedLock) Unlock(key string) {
	kl.locks[kl.slot(key)].Unlock()
}

// RLock locks the slot for key for reading.
func (kl *KeyedLock) RLock(key string) {
	kl.locks[kl.slot(key)].RLock()
}

// RUnlock unlocks the slot for key for reading.
func (kl *KeyedLock) RUnlock(key string) {
	kl.locks[kl.slot(key)].RUnlock()
}

// WithKey runs body while holding the writer lock for key.
// The lock is released on every exit path.
func (kl *KeyedLock) WithKey(key string, body func()) {
	kl.Lock(key)
	defer kl.Unlock(key)
	body()
}

// WithKeyRead runs body while holding a reader lock for key.
func (kl *KeyedLock) WithKeyRead(key string, body func()) {
	kl.RLock(key)
	defer kl.RUnlock(key)
	body()
}

// WithKeyError runs body under the writer lock for key and returns its error.
func (kl *KeyedLock) WithKeyError(key string, body func() error) error {
	kl.Lock(key)
	defer kl.Unlock(key)
	return body()
}
