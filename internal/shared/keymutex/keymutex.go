// Package keymutex provides per-key mutual exclusion. Session transitions
// for a channel must be serialized while channels stay independent, so a
// single process-wide lock is too coarse and a plain map of mutexes would
// grow without bound. Entries are reference counted and removed once the
// last holder releases them.
package keymutex

import "sync"

type entry struct {
	mu   sync.Mutex
	refs int
}

// KeyMutex serializes critical sections per string key.
type KeyMutex struct {
	mu      sync.Mutex
	entries map[string]*entry
}

// New creates an empty KeyMutex.
func New() *KeyMutex {
	return &KeyMutex{
		entries: make(map[string]*entry),
	}
}

// Lock acquires the mutex for key, blocking until it is available.
func (k *KeyMutex) Lock(key string) {
	k.mu.Lock()
	e, ok := k.entries[key]
	if !ok {
		e = &entry{}
		k.entries[key] = e
	}
	e.refs++
	k.mu.Unlock()

	e.mu.Lock()
}

// Unlock releases the mutex for key. It must only be called by a holder
// that previously called Lock with the same key.
func (k *KeyMutex) Unlock(key string) {
	k.mu.Lock()
	e, ok := k.entries[key]
	if !ok {
		k.mu.Unlock()
		panic("keymutex: unlock of unheld key " + key)
	}
	e.refs--
	if e.refs == 0 {
		delete(k.entries, key)
	}
	k.mu.Unlock()

	e.mu.Unlock()
}
