package ecs

import (
	"fmt"
	"math"
)

// EntityID is an opaque handle for a game object. Zero is never allocated.
type EntityID uint32

func (id EntityID) IsZero() bool { return id == 0 }

// DefaultMinRecycled is how many retired ids the registry holds back before
// it starts handing them out again.
const DefaultMinRecycled = 1000

// EntityRegistry allocates entity ids from a monotonic counter and recycles
// destroyed ones.
//
// Destruction is two-phase. Destroy retires an id at once (IsAlive reports
// false) and parks it as pending. Flush is the barrier that moves pending ids
// into the FIFO recycle queue. Create only reuses an id once the queue holds
// more than minRecycled entries, so a stale handle kept across a few frames
// does not silently alias a new entity.
//
// Accessed only from the frame goroutine, no locks.
type EntityRegistry struct {
	live        []bool // indexed by id
	liveCount   int
	pending     []EntityID
	recycled    []EntityID
	head        int // front of the recycle queue
	lastID      EntityID
	minRecycled int
}

func NewEntityRegistry(minRecycled int) *EntityRegistry {
	if minRecycled < 0 {
		minRecycled = 0
	}
	return &EntityRegistry{
		live:        make([]bool, 1, 1024),
		pending:     make([]EntityID, 0, 64),
		recycled:    make([]EntityID, 0, 256),
		minRecycled: minRecycled,
	}
}

// Create returns an id that is not held by any live entity.
func (r *EntityRegistry) Create() EntityID {
	var id EntityID
	if r.Recycled() > r.minRecycled {
		id = r.recycled[r.head]
		r.head++
		r.compact()
	} else {
		if r.lastID == math.MaxUint32 {
			panic(ErrIDSpaceExhausted)
		}
		r.lastID++
		id = r.lastID
		r.live = append(r.live, false)
	}
	r.live[id] = true
	r.liveCount++
	return id
}

// Destroy retires a live id. Destroying an id that is not alive (twice, or
// never created) is a usage error and panics.
func (r *EntityRegistry) Destroy(id EntityID) {
	if !r.IsAlive(id) {
		panic(fmt.Errorf("%w: destroy entity %d", ErrNotAlive, id))
	}
	r.live[id] = false
	r.liveCount--
	r.pending = append(r.pending, id)
}

func (r *EntityRegistry) IsAlive(id EntityID) bool {
	return int(id) < len(r.live) && r.live[id]
}

// Flush releases every id destroyed since the previous flush into the
// recycle queue and reports how many were released.
func (r *EntityRegistry) Flush() int {
	n := len(r.pending)
	r.recycled = append(r.recycled, r.pending...)
	r.pending = r.pending[:0]
	return n
}

// Len is the number of live entities.
func (r *EntityRegistry) Len() int { return r.liveCount }

// Pending is the number of ids destroyed but not yet flushed.
func (r *EntityRegistry) Pending() int { return len(r.pending) }

// Recycled is the number of ids waiting in the recycle queue.
func (r *EntityRegistry) Recycled() int { return len(r.recycled) - r.head }

// compact drops the consumed front of the queue once it dominates the slice.
func (r *EntityRegistry) compact() {
	if r.head < 256 || r.head*2 < len(r.recycled) {
		return
	}
	n := copy(r.recycled, r.recycled[r.head:])
	r.recycled = r.recycled[:n]
	r.head = 0
}
