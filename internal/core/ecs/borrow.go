package ecs

import (
	"fmt"
	"iter"
)

// Ref is a shared borrow of a component manager. Any number of Refs to the
// same manager may be outstanding, but none while a RefMut exists. Release
// must be called before a conflicting borrow is requested.
type Ref[C any] struct {
	m *ComponentManager[C]
	s *slot
}

// RefMut is the exclusive borrow of a component manager. It exposes the full
// manager API until Release.
type RefMut[C any] struct {
	*ComponentManager[C]
	s *slot
}

// Read borrows the manager registered under key for reading. It panics with
// ErrBorrowConflict if the manager is currently borrowed for writing.
func Read[C any](s *Scene, key Key) *Ref[C] {
	sl := s.managers.lookup(key)
	m := managerOf[C](sl)
	if sl.writer {
		panic(fmt.Errorf("%w: read %q while borrowed for writing", ErrBorrowConflict, key))
	}
	sl.readers++
	return &Ref[C]{m: m, s: sl}
}

// Write borrows the manager registered under key exclusively. It panics with
// ErrBorrowConflict if any other borrow of the manager is outstanding.
func Write[C any](s *Scene, key Key) *RefMut[C] {
	sl := s.managers.lookup(key)
	m := managerOf[C](sl)
	if sl.writer {
		panic(fmt.Errorf("%w: write %q while borrowed for writing", ErrBorrowConflict, key))
	}
	if sl.readers > 0 {
		panic(fmt.Errorf("%w: write %q while %d readers outstanding", ErrBorrowConflict, key, sl.readers))
	}
	sl.writer = true
	return &RefMut[C]{ComponentManager: m, s: sl}
}

func managerOf[C any](sl *slot) *ComponentManager[C] {
	m, ok := sl.store.(*ComponentManager[C])
	if !ok {
		var zero C
		panic(fmt.Errorf("%w: %q holds %T, not a manager of %T", ErrManagerType, sl.key, sl.store, zero))
	}
	return m
}

func (r *Ref[C]) Get(id EntityID) (C, bool) { return r.m.Get(id) }

func (r *Ref[C]) Has(id EntityID) bool { return r.m.Has(id) }

func (r *Ref[C]) Len() int { return r.m.Len() }

func (r *Ref[C]) Iter() iter.Seq2[EntityID, C] { return r.m.Iter() }

// Release ends the borrow. Releasing twice panics.
func (r *Ref[C]) Release() {
	if r.s == nil {
		panic(fmt.Errorf("%w: ref released twice", ErrBorrowConflict))
	}
	r.s.readers--
	r.s = nil
	r.m = nil
}

// Release ends the borrow. The embedded manager is cleared so later use
// through this handle fails loudly.
func (w *RefMut[C]) Release() {
	if w.s == nil {
		panic(fmt.Errorf("%w: write ref released twice", ErrBorrowConflict))
	}
	w.s.writer = false
	w.s = nil
	w.ComponentManager = nil
}
