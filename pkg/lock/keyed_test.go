package lock

import (
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyedLock_DefaultSlots(t *testing.T) {
	kl := NewKeyedLock(0)
	assert.Len(t, kl.locks, 2048)

	kl = NewKeyedLock(-5)
	assert.Len(t, kl.locks, 2048)

	kl = NewKeyedLock(16)
	assert.Len(t, kl.locks, 16)
}

// TestKeyedLock_SameKeyExclusion verifies mutual exclusion among writers of
// the same key.
func TestKeyedLock_SameKeyExclusion(t *testing.T) {
	kl := NewKeyedLock(256)

	const numGoroutines = 10
	const iterations = 200

	var inside int32
	var violations int32
	var wg sync.WaitGroup
	wg.Add(numGoroutines)

	for i := 0; i < numGoroutines; i++ {
		go func() {
			defer wg.Done()
			for j := 0; j < iterations; j++ {
				kl.WithKey("shared-key", func() {
					if atomic.AddInt32(&inside, 1) > 1 {
						atomic.AddInt32(&violations, 1)
					}
					atomic.AddInt32(&inside, -1)
				})
			}
		}()
	}
	wg.Wait()

	assert.Zero(t, atomic.LoadInt32(&violations))
}

// TestKeyedLock_ReadersShareKey verifies that readers of the same key are not
// serialized.
func TestKeyedLock_ReadersShareKey(t *testing.T) {
	kl := NewKeyedLock(256)

	const numReaders = 6
	var active int32
	allIn := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(numReaders)

	for i := 0; i < numReaders; i++ {
		go func() {
			defer wg.Done()
			kl.WithKeyRead("shared-key", func() {
				if atomic.AddInt32(&active, 1) == numReaders {
					close(allIn)
				}
				<-allIn
			})
		}()
	}

	select {
	case <-allIn:
	case <-time.After(2 * time.Second):
		t.Fatal("readers of the same key were serialized")
	}
	wg.Wait()
}

func TestKeyedLock_WithKeyErrorPropagates(t *testing.T) {
	kl := NewKeyedLock(16)

	wantErr := errors.New("boom")
	require.ErrorIs(t, kl.WithKeyError("k", func() error { return wantErr }), wantErr)

	// Key must be reusable after a failed body.
	assert.NoError(t, kl.WithKeyError("k", func() error { return nil }))
}

// TestKeyedLock_Chaos exercises mixed keyed reads and writes under contention.
// Its purpose is race detection, not state verification.
func TestKeyedLock_Chaos(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping chaos test in short mode")
	}

	kl := NewKeyedLock(64)
	counters := make(map[string]*int, 50)
	var keys []string
	for i := 0; i < 50; i++ {
		key := fmt.Sprintf("chaos-key-%d", i)
		keys = append(keys, key)
		counters[key] = new(int)
	}

	const numGoroutines = 16
	var wg sync.WaitGroup
	wg.Add(numGoroutines)

	for i := 0; i < numGoroutines; i++ {
		go func(goroutineID int) {
			defer wg.Done()
			r := rand.New(rand.NewSource(time.Now().UnixNano() + int64(goroutineID)))
			for j := 0; j < 500; j++ {
				key := keys[r.Intn(len(keys))]
				if r.Intn(4) == 0 {
					kl.WithKey(key, func() { *counters[key]++ })
				} else {
					kl.WithKeyRead(key, func() { _ = *counters[key] })
				}
			}
		}(i)
	}
	wg.Wait()
}
