package grid

import (
	"iter"

	"github.com/gunship/engine/internal/core/ecs"
)

// CollisionGrid maps cells to the entities whose collider center currently
// lies in them. Lookups go through a caller-supplied HashFunc; buckets chain
// cells that share a hash. Cells are retained once created, even when they
// empty out, so oscillating occupancy doesn't churn allocations. Get on a
// retained empty cell returns an empty list, same as on an unknown one.
//
// Accessed only from the frame goroutine, no locks. Concurrent readers are
// fine while nothing mutates.
type CollisionGrid struct {
	hash     HashFunc
	buckets  map[uint64][]*occupancy
	cells    []*occupancy // creation order, keeps iteration deterministic
	entities int
}

type occupancy struct {
	cell     Cell
	entities []ecs.EntityID
}

// New creates a grid. A nil hash selects HashFNV.
func New(hash HashFunc) *CollisionGrid {
	if hash == nil {
		hash = HashFNV
	}
	return &CollisionGrid{
		hash:    hash,
		buckets: make(map[uint64][]*occupancy, 1024),
		cells:   make([]*occupancy, 0, 1024),
	}
}

func (g *CollisionGrid) find(c Cell) *occupancy {
	for _, o := range g.buckets[g.hash(c)] {
		if o.cell == c {
			return o
		}
	}
	return nil
}

func (g *CollisionGrid) findOrCreate(c Cell) *occupancy {
	h := g.hash(c)
	for _, o := range g.buckets[h] {
		if o.cell == c {
			return o
		}
	}
	o := &occupancy{cell: c}
	g.buckets[h] = append(g.buckets[h], o)
	g.cells = append(g.cells, o)
	return o
}

// Reserve creates c with no occupants if it does not exist yet.
func (g *CollisionGrid) Reserve(c Cell) {
	g.findOrCreate(c)
}

// Insert appends id to c's occupant list, creating the cell if needed.
func (g *CollisionGrid) Insert(c Cell, id ecs.EntityID) {
	o := g.findOrCreate(c)
	o.entities = append(o.entities, id)
	g.entities++
}

// Remove takes id out of c and reports whether it was there. The cell is
// retained.
func (g *CollisionGrid) Remove(c Cell, id ecs.EntityID) bool {
	o := g.find(c)
	if o == nil {
		return false
	}
	for i, e := range o.entities {
		if e == id {
			last := len(o.entities) - 1
			o.entities[i] = o.entities[last]
			o.entities = o.entities[:last]
			g.entities--
			return true
		}
	}
	return false
}

// Update moves id from one cell to another. It is a no-op when the cells
// are equal.
func (g *CollisionGrid) Update(id ecs.EntityID, from, to Cell) {
	if from == to {
		return
	}
	g.Remove(from, id)
	g.Insert(to, id)
}

// Get returns c's occupants in no particular order. The slice aliases grid
// storage and is valid only until the next mutation.
func (g *CollisionGrid) Get(c Cell) []ecs.EntityID {
	if o := g.find(c); o != nil {
		return o.entities
	}
	return nil
}

// Contains reports whether c has id among its occupants.
func (g *CollisionGrid) Contains(c Cell, id ecs.EntityID) bool {
	for _, e := range g.Get(c) {
		if e == id {
			return true
		}
	}
	return false
}

// Occupied yields every non-empty cell with its occupants, in cell creation
// order.
func (g *CollisionGrid) Occupied() iter.Seq2[Cell, []ecs.EntityID] {
	return func(yield func(Cell, []ecs.EntityID) bool) {
		for _, o := range g.cells {
			if len(o.entities) == 0 {
				continue
			}
			if !yield(o.cell, o.entities) {
				return
			}
		}
	}
}

// Cells is the number of retained cells, empty ones included.
func (g *CollisionGrid) Cells() int { return len(g.cells) }

// Entities is the number of recorded occupants across all cells.
func (g *CollisionGrid) Entities() int { return g.entities }

// Prune drops every empty cell.
func (g *CollisionGrid) Prune() int {
	kept := g.cells[:0]
	dropped := 0
	for _, o := range g.cells {
		if len(o.entities) > 0 {
			kept = append(kept, o)
			continue
		}
		dropped++
		h := g.hash(o.cell)
		chain := g.buckets[h]
		for i, other := range chain {
			if other == o {
				chain = append(chain[:i], chain[i+1:]...)
				break
			}
		}
		if len(chain) == 0 {
			delete(g.buckets, h)
		} else {
			g.buckets[h] = chain
		}
	}
	for i := len(kept); i < len(g.cells); i++ {
		g.cells[i] = nil
	}
	g.cells = kept
	return dropped
}
