package ecs

import (
	"fmt"
	"iter"
)

// Validator is implemented by components that can reject bad data. Assign
// calls it and panics on failure, so invalid configuration is caught where it
// is written rather than in the frame that reads it.
type Validator interface {
	Validate() error
}

// Store is implemented by every component manager so the Scene can cascade
// entity destruction to all registered managers at the frame barrier.
type Store interface {
	MarkDestroyed(id EntityID)
	DestroyMarked() int
	Len() int
}

// ComponentManager owns every instance of one component type. Components live
// in a dense slice with a parallel owners slice; index maps an entity to its
// row, and index[owners[i]] == i holds for every row.
//
// Pointers returned by Assign and GetMut are valid only until the next
// mutating call on the manager: appends may reallocate and swap-remove moves
// the last row into the freed slot.
type ComponentManager[C any] struct {
	components []C
	owners     []EntityID
	index      map[EntityID]int
	marked     []EntityID
}

func NewComponentManager[C any]() *ComponentManager[C] {
	return &ComponentManager[C]{
		components: make([]C, 0, 256),
		owners:     make([]EntityID, 0, 256),
		index:      make(map[EntityID]int, 256),
	}
}

// Assign attaches c to id and returns a pointer to the stored copy. Assigning
// to an entity that already has the component panics with
// ErrDuplicateComponent; a component whose Validate fails panics with
// ErrInvalidComponent.
func (m *ComponentManager[C]) Assign(id EntityID, c C) *C {
	if _, ok := m.index[id]; ok {
		panic(fmt.Errorf("%w: %T on entity %d", ErrDuplicateComponent, c, id))
	}
	if err := validate(&c); err != nil {
		panic(fmt.Errorf("%w: %T on entity %d: %w", ErrInvalidComponent, c, id, err))
	}
	m.index[id] = len(m.components)
	m.components = append(m.components, c)
	m.owners = append(m.owners, id)
	return &m.components[len(m.components)-1]
}

func validate[C any](c *C) error {
	if v, ok := any(*c).(Validator); ok {
		return v.Validate()
	}
	if v, ok := any(c).(Validator); ok {
		return v.Validate()
	}
	return nil
}

func (m *ComponentManager[C]) Get(id EntityID) (C, bool) {
	i, ok := m.index[id]
	if !ok {
		var zero C
		return zero, false
	}
	return m.components[i], true
}

// GetMut returns a pointer into dense storage, or nil if id has no component.
func (m *ComponentManager[C]) GetMut(id EntityID) *C {
	i, ok := m.index[id]
	if !ok {
		return nil
	}
	return &m.components[i]
}

func (m *ComponentManager[C]) Has(id EntityID) bool {
	_, ok := m.index[id]
	return ok
}

func (m *ComponentManager[C]) Len() int { return len(m.components) }

// DestroyImmediate removes id's row by swapping the last row into its slot.
// It reports whether a row was removed.
func (m *ComponentManager[C]) DestroyImmediate(id EntityID) bool {
	i, ok := m.index[id]
	if !ok {
		return false
	}
	last := len(m.components) - 1
	if i != last {
		m.components[i] = m.components[last]
		m.owners[i] = m.owners[last]
		m.index[m.owners[i]] = i
	}
	var zero C
	m.components[last] = zero
	m.components = m.components[:last]
	m.owners = m.owners[:last]
	delete(m.index, id)
	return true
}

// MarkDestroyed flags id for removal at the next DestroyMarked. The flag is
// kept even when id has no row yet, so a row assigned to an already destroyed
// entity before the barrier is still removed.
func (m *ComponentManager[C]) MarkDestroyed(id EntityID) {
	m.marked = append(m.marked, id)
}

// DestroyMarked removes every flagged row and reports how many were removed.
func (m *ComponentManager[C]) DestroyMarked() int {
	n := 0
	for _, id := range m.marked {
		if m.DestroyImmediate(id) {
			n++
		}
	}
	m.marked = m.marked[:0]
	return n
}

// Iter yields (entity, component) in dense storage order. Swap-remove
// reorders rows, so this is not creation order. Mutating the manager during
// iteration is not supported.
func (m *ComponentManager[C]) Iter() iter.Seq2[EntityID, C] {
	return func(yield func(EntityID, C) bool) {
		for i := range m.components {
			if !yield(m.owners[i], m.components[i]) {
				return
			}
		}
	}
}

// IterMut is Iter with pointers into dense storage.
func (m *ComponentManager[C]) IterMut() iter.Seq2[EntityID, *C] {
	return func(yield func(EntityID, *C) bool) {
		for i := range m.components {
			if !yield(m.owners[i], &m.components[i]) {
				return
			}
		}
	}
}
