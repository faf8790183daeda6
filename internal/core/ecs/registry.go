package ecs

import "fmt"

// Key names a registered manager. Keys are chosen by the caller and stay
// stable across builds, unlike compiler-assigned type identities.
type Key string

type slot struct {
	key     Key
	store   Store
	readers int
	writer  bool
}

// Registry tracks all component managers in registration order and brokers
// borrows of them: any number of readers or exactly one writer per manager.
type Registry struct {
	slots []*slot
	byKey map[Key]*slot
}

func NewRegistry() *Registry {
	return &Registry{
		slots: make([]*slot, 0, 16),
		byKey: make(map[Key]*slot, 16),
	}
}

// Register adds a manager under key. Registering the same key twice is a
// configuration error and panics.
func (r *Registry) Register(key Key, store Store) {
	if _, ok := r.byKey[key]; ok {
		panic(fmt.Errorf("%w: %q", ErrManagerExists, key))
	}
	s := &slot{key: key, store: store}
	r.slots = append(r.slots, s)
	r.byKey[key] = s
}

func (r *Registry) Has(key Key) bool {
	_, ok := r.byKey[key]
	return ok
}

// Keys lists registered keys in registration order.
func (r *Registry) Keys() []Key {
	keys := make([]Key, len(r.slots))
	for i, s := range r.slots {
		keys[i] = s.key
	}
	return keys
}

func (r *Registry) lookup(key Key) *slot {
	s, ok := r.byKey[key]
	if !ok {
		panic(fmt.Errorf("%w: %q", ErrManagerNotRegistered, key))
	}
	return s
}

// MarkDestroyed flags id in every registered manager.
func (r *Registry) MarkDestroyed(id EntityID) {
	for _, s := range r.slots {
		s.store.MarkDestroyed(id)
	}
}

// DestroyMarked runs every manager's deferred removal pass. Every manager
// must be unborrowed: clearing rows under an outstanding handle is a usage
// error.
func (r *Registry) DestroyMarked() int {
	for _, s := range r.slots {
		if s.readers > 0 || s.writer {
			panic(fmt.Errorf("%w: %q still borrowed at destruction barrier", ErrBorrowConflict, s.key))
		}
	}
	n := 0
	for _, s := range r.slots {
		n += s.store.DestroyMarked()
	}
	return n
}
