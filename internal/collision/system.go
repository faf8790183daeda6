package collision

import (
	"cmp"
	"fmt"
	"math"
	"slices"
	"time"

	"github.com/gunship/engine/internal/component"
	"github.com/gunship/engine/internal/core/ecs"
	"github.com/gunship/engine/internal/core/event"
	coresys "github.com/gunship/engine/internal/core/system"
	"github.com/gunship/engine/internal/grid"
	"github.com/gunship/engine/internal/mathx"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Config tunes the broad phase.
type Config struct {
	CellSize float32
	Workers  int           // goroutines for pair generation; <= 1 runs inline
	Hash     grid.HashFunc // nil selects FNV-1a
	Events   *event.Bus    // when set, one event.Collision is emitted per pair
}

// Pair is an overlapping pair with A < B.
type Pair struct {
	A, B ecs.EntityID
}

// Stats describes the last Update.
type Stats struct {
	Bodies     int
	Cells      int
	Reach      int32
	Candidates int
	Pairs      int
	Elapsed    time.Duration
}

type body struct {
	cell   grid.Cell
	center mathx.Vec3
	radius float32
	seen   uint64
}

// System is the grid broad phase combined with a sphere-sphere distance
// check. Each frame it records every sphere collider's center cell in the
// grid, finds overlapping pairs among neighbouring cells and invokes the
// per-entity callbacks.
//
// Colliders are inserted into their center cell only. To stay complete when
// a sphere straddles cell borders, the neighbour search reaches
// ceil(2*maxRadius/cellSize) cells out, so any two spheres that touch are
// always within reach of each other.
//
// For a pair (a, b) with a < b the callbacks run as cb[a](scene, a, b) then
// cb[b](scene, b, a): once per entity and direction each frame. Pairs are
// dispatched in ascending (a, b) order whatever the worker count.
type System struct {
	cfg    Config
	grid   *grid.CollisionGrid
	bodies map[ecs.EntityID]*body
	named  map[string]Callback
	frame  uint64
	radius float32 // largest radius seen by the last Update

	cells   []grid.Cell
	buckets [][]Pair
	pairs   []Pair
	calls   []invocation
	stats   Stats
	log     *zap.Logger
}

// New creates the collision system and registers the callback table in
// scene.
func New(scene *ecs.Scene, cfg Config, log *zap.Logger) *System {
	if !(cfg.CellSize > 0) {
		panic(fmt.Errorf("collision: cell size must be positive, got %v", cfg.CellSize))
	}
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	if log == nil {
		log = zap.NewNop()
	}
	ecs.Register[Callback](scene, CallbackKey)
	return &System{
		cfg:    cfg,
		grid:   grid.New(cfg.Hash),
		bodies: make(map[ecs.EntityID]*body, 1024),
		named:  make(map[string]Callback),
		log:    log,
	}
}

func (s *System) Phase() coresys.Phase { return coresys.PhasePostUpdate }

// Grid exposes the spatial index for queries and tooling.
func (s *System) Grid() *grid.CollisionGrid { return s.grid }

// Pairs returns the overlapping pairs found by the last Update. The slice is
// reused by the next Update.
func (s *System) Pairs() []Pair { return s.pairs }

func (s *System) Stats() Stats { return s.stats }

// CellOf reports the cell an entity was recorded in by the last Update.
func (s *System) CellOf(id ecs.EntityID) (grid.Cell, bool) {
	b, ok := s.bodies[id]
	if !ok {
		return grid.Cell{}, false
	}
	return b.cell, true
}

func (s *System) Update(scene *ecs.Scene, _ float32) {
	start := time.Now()
	s.frame++

	maxRadius := s.gather(scene)
	s.evictStale()
	s.radius = maxRadius

	reach := int32(1)
	if maxRadius > 0 {
		reach = max(1, int32(math.Ceil(float64(2*maxRadius/s.cfg.CellSize))))
	}
	candidates := s.findPairs(reach)
	s.dispatch(scene)

	s.stats = Stats{
		Bodies:     len(s.bodies),
		Cells:      len(s.cells),
		Reach:      reach,
		Candidates: candidates,
		Pairs:      len(s.pairs),
		Elapsed:    time.Since(start),
	}
	if ce := s.log.Check(zap.DebugLevel, "collision update"); ce != nil {
		ce.Write(
			zap.Int("bodies", s.stats.Bodies),
			zap.Int("cells", s.stats.Cells),
			zap.Int32("reach", reach),
			zap.Int("candidates", candidates),
			zap.Int("pairs", s.stats.Pairs),
			zap.Duration("elapsed", s.stats.Elapsed),
		)
	}
}

// gather refreshes every live sphere collider's center and grid cell and
// returns the largest radius seen.
func (s *System) gather(scene *ecs.Scene) float32 {
	transforms := ecs.Read[component.Transform](scene, component.TransformKey)
	colliders := ecs.Read[component.Collider](scene, component.ColliderKey)
	defer transforms.Release()
	defer colliders.Release()

	var maxRadius float32
	ecs.Each2[component.Transform, component.Collider](transforms, colliders,
		func(id ecs.EntityID, t component.Transform, c component.Collider) {
			if c.Kind != component.ColliderSphere || !scene.IsAlive(id) {
				return
			}
			center := c.Center(t)
			cell := grid.CellOf(center, s.cfg.CellSize)
			b, ok := s.bodies[id]
			if !ok {
				b = &body{cell: cell}
				s.bodies[id] = b
				s.grid.Insert(cell, id)
			} else {
				s.grid.Update(id, b.cell, cell)
				b.cell = cell
			}
			b.center = center
			b.radius = c.Radius
			b.seen = s.frame
			maxRadius = max(maxRadius, c.Radius)
		})
	return maxRadius
}

// evictStale drops entities that were not seen this frame: destroyed, no
// longer sphere colliders, or stripped of a component.
func (s *System) evictStale() {
	for id, b := range s.bodies {
		if b.seen != s.frame {
			s.grid.Remove(b.cell, id)
			delete(s.bodies, id)
		}
	}
}

// findPairs fills s.pairs with every overlapping pair and returns the number
// of candidates distance-tested. Occupied cells are split into contiguous
// chunks, one per worker; the grid and bodies are read-only meanwhile.
func (s *System) findPairs(reach int32) int {
	s.cells = s.cells[:0]
	for c := range s.grid.Occupied() {
		s.cells = append(s.cells, c)
	}

	workers := min(s.cfg.Workers, max(1, len(s.cells)))
	if cap(s.buckets) < workers {
		s.buckets = make([][]Pair, workers)
	}
	s.buckets = s.buckets[:workers]
	counts := make([]int, workers)

	chunk := (len(s.cells) + workers - 1) / workers
	if workers == 1 {
		s.buckets[0], counts[0] = s.scan(s.cells, reach, s.buckets[0][:0])
	} else {
		var g errgroup.Group
		g.SetLimit(workers)
		for w := 0; w < workers; w++ {
			lo := min(w*chunk, len(s.cells))
			hi := min(lo+chunk, len(s.cells))
			g.Go(func() error {
				s.buckets[w], counts[w] = s.scan(s.cells[lo:hi], reach, s.buckets[w][:0])
				return nil
			})
		}
		_ = g.Wait()
	}

	s.pairs = s.pairs[:0]
	candidates := 0
	for w := range s.buckets {
		s.pairs = append(s.pairs, s.buckets[w]...)
		candidates += counts[w]
	}
	slices.SortFunc(s.pairs, func(x, y Pair) int {
		if c := cmp.Compare(x.A, y.A); c != 0 {
			return c
		}
		return cmp.Compare(x.B, y.B)
	})
	return candidates
}

// scan tests every occupant of cells against the occupants of its
// neighbourhood. Only a < b is tested, so each unordered pair is seen once:
// the neighbour relation is symmetric and exactly one of (a, b), (b, a)
// passes the ordering check.
func (s *System) scan(cells []grid.Cell, reach int32, out []Pair) ([]Pair, int) {
	candidates := 0
	for _, c := range cells {
		for _, a := range s.grid.Get(c) {
			ba := s.bodies[a]
			for nc := range c.Neighborhood(reach) {
				for _, b := range s.grid.Get(nc) {
					if a >= b {
						continue
					}
					candidates++
					bb := s.bodies[b]
					r := ba.radius + bb.radius
					if ba.center.Sub(bb.center).LengthSquared() <= r*r {
						out = append(out, Pair{A: a, B: b})
					}
				}
			}
		}
	}
	return out, candidates
}

type invocation struct {
	cb            Callback
	entity, other ecs.EntityID
}

// dispatch invokes callbacks for s.pairs. The callback table is snapshotted
// and released first so callbacks are free to borrow any manager. An
// invocation is skipped if either entity was destroyed by an earlier
// callback in the same dispatch.
func (s *System) dispatch(scene *ecs.Scene) {
	if s.cfg.Events != nil {
		for _, p := range s.pairs {
			event.Emit(s.cfg.Events, event.Collision{Entity: p.A, Other: p.B})
		}
	}

	callbacks := ecs.Read[Callback](scene, CallbackKey)
	calls := s.calls[:0]
	for _, p := range s.pairs {
		if cb, ok := callbacks.Get(p.A); ok && cb != nil {
			calls = append(calls, invocation{cb, p.A, p.B})
		}
		if cb, ok := callbacks.Get(p.B); ok && cb != nil {
			calls = append(calls, invocation{cb, p.B, p.A})
		}
	}
	callbacks.Release()
	s.calls = calls

	for _, call := range calls {
		if !scene.IsAlive(call.entity) || !scene.IsAlive(call.other) {
			continue
		}
		call.cb(scene, call.entity, call.other)
	}
}
