package locks

import "sync"

// Keyed serializes callers contending on the same string key. The withdrawal
// state machine uses it to serialize toggles per (event, organisation) pair
// within a process; cross-process serialization is handled by row ordering in
// the surrounding transaction.
type Keyed struct {
	mu    sync.Mutex
	locks map[string]*entry
}

type entry struct {
	mu   sync.Mutex
	refs int
}

// NewKeyed returns an empty keyed mutex set.
func NewKeyed() *Keyed {
	return &Keyed{locks: map[string]*entry{}}
}

// Lock blocks until the key is held and returns the unlock function. Entries
// are reference counted so the map does not grow with dead keys.
func (k *Keyed) Lock(key string) func() {
	k.mu.Lock()
	e, ok := k.locks[key]
	if !ok {
		e = &entry{}
		k.locks[key] = e
	}
	e.refs++
	k.mu.Unlock()

	e.mu.Lock()

	return func() {
		e.mu.Unlock()

		k.mu.Lock()
		e.refs--
		if e.refs == 0 {
			delete(k.locks, key)
		}
		k.mu.Unlock()
	}
}
