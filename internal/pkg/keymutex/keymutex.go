// Package keymutex provides mutual exclusion keyed by an arbitrary string,
// used to serialize operations on a single aggregate without locking the world.
package keymutex

import "sync"

// KeyMutex hands out one mutex per key. Locks for distinct keys are
// independent; two holders of the same key are strictly ordered.
//
// Entries are reference-counted and removed once the last holder unlocks,
// so the map does not grow with the number of keys ever seen.
type KeyMutex struct {
	mu      sync.Mutex
	entries map[string]*entry
}

type entry struct {
	mu   sync.Mutex
	refs int
}

// New creates an empty KeyMutex.
func New() *KeyMutex {
	return &KeyMutex{entries: make(map[string]*entry)}
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

// Unlock releases the mutex for key. It must only be called by the
// current holder.
func (k *KeyMutex) Unlock(key string) {
	k.mu.Lock()
	e, ok := k.entries[key]
	if ok {
		e.refs--
		if e.refs == 0 {
			delete(k.entries, key)
		}
	}
	k.mu.Unlock()

	if ok {
		e.mu.Unlock()
	}
}
