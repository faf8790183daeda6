package ecs

import "iter"

// Reader is the read-only view shared by ComponentManager and Ref.
type Reader[C any] interface {
	Len() int
	Get(id EntityID) (C, bool)
	Iter() iter.Seq2[EntityID, C]
}

// Each2 calls fn for every entity that has both an A and a B component.
// It walks the smaller manager in dense order and looks each id up in the larger one.
func Each2[A, B any](sa Reader[A], sb Reader[B], fn func(EntityID, A, B)) {
	if sa.Len() <= sb.Len() {
		for id, a := range sa.Iter() {
			if b, ok := sb.Get(id); ok {
				fn(id, a, b)
			}
		}
		return
	}
	for id, b := range sb.Iter() {
		if a, ok := sa.Get(id); ok {
			fn(id, a, b)
		}
	}
}
