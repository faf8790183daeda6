package collision

import (
	"math"
	"slices"

	"github.com/gunship/engine/internal/core/ecs"
	"github.com/gunship/engine/internal/grid"
	"github.com/gunship/engine/internal/mathx"
)

// Nearby returns, in ascending order, the entities whose sphere touches the
// sphere of the given radius around center, as of the last Update. The grid
// neighbourhood gives the candidates and the distance test filters them.
func (s *System) Nearby(center mathx.Vec3, radius float32) []ecs.EntityID {
	if radius < 0 || len(s.bodies) == 0 {
		return nil
	}
	reach := int32(math.Ceil(float64((radius + s.radius) / s.cfg.CellSize)))
	origin := grid.CellOf(center, s.cfg.CellSize)

	var out []ecs.EntityID
	for c := range origin.Neighborhood(reach) {
		for _, id := range s.grid.Get(c) {
			b := s.bodies[id]
			r := b.radius + radius
			if b.center.Sub(center).LengthSquared() <= r*r {
				out = append(out, id)
			}
		}
	}
	slices.Sort(out)
	return out
}
