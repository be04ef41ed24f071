package keymutex

import (
	"sync"
	"testing"
)

func TestLockSerializesSameKey(t *testing.T) {
	km := New()

	const workers = 16
	counter := 0

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			km.Lock("channel-a")
			defer km.Unlock("channel-a")
			counter++
		}()
	}
	wg.Wait()

	if counter != workers {
		t.Errorf("counter = %d, want %d", counter, workers)
	}
}

func TestDifferentKeysDoNotBlock(t *testing.T) {
	km := New()

	km.Lock("channel-a")
	defer km.Unlock("channel-a")

	done := make(chan struct{})
	go func() {
		km.Lock("channel-b")
		km.Unlock("channel-b")
		close(done)
	}()

	<-done
}

func TestEntriesReleasedAfterUnlock(t *testing.T) {
	km := New()

	km.Lock("channel-a")
	km.Unlock("channel-a")

	km.mu.Lock()
	defer km.mu.Unlock()
	if len(km.entries) != 0 {
		t.Errorf("entries not cleaned up, %d remaining", len(km.entries))
	}
}
