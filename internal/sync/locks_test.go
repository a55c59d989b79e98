package sync

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestKeyedMutexSerializesSameKey(t *testing.T) {
	km := newKeyedMutex()
	km.Lock("tenant:1")

	acquired := make(chan struct{})
	go func() {
		km.Lock("tenant:1")
		close(acquired)
	}()

	select {
	case <-acquired:
		t.Fatal("second Lock acquired while first still held")
	case <-time.After(50 * time.Millisecond):
	}

	km.Unlock("tenant:1")

	select {
	case <-acquired:
	case <-time.After(time.Second):
		t.Fatal("second Lock never acquired after Unlock")
	}
	km.Unlock("tenant:1")
}

func TestKeyedMutexIndependentKeys(t *testing.T) {
	km := newKeyedMutex()
	km.Lock("tenant:1")
	defer km.Unlock("tenant:1")

	acquired := make(chan struct{})
	go func() {
		km.Lock("tenant:2")
		km.Unlock("tenant:2")
		close(acquired)
	}()

	select {
	case <-acquired:
	case <-time.After(time.Second):
		t.Fatal("different key blocked behind unrelated holder")
	}
}

func TestKeyedMutexDropsUnusedEntries(t *testing.T) {
	km := newKeyedMutex()
	km.Lock("tenant:1")
	km.Unlock("tenant:1")

	km.mu.Lock()
	defer km.mu.Unlock()
	assert.Empty(t, km.locks)
}
