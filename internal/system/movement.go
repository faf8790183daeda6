package system

import (
	"math"

	"github.com/gunship/engine/internal/component"
	"github.com/gunship/engine/internal/core/ecs"
	coresys "github.com/gunship/engine/internal/core/system"
	"github.com/gunship/engine/internal/mathx"
)

// MovementSystem moves every entity with an Orbit around its orbit center.
// Phase 2 (Update).
type MovementSystem struct {
	elapsed float64
}

func NewMovementSystem() *MovementSystem { return &MovementSystem{} }

func (s *MovementSystem) Phase() coresys.Phase { return coresys.PhaseUpdate }

func (s *MovementSystem) Update(scene *ecs.Scene, dt float32) {
	s.elapsed += float64(dt)

	orbits := ecs.Read[component.Orbit](scene, component.OrbitKey)
	defer orbits.Release()
	transforms := ecs.Write[component.Transform](scene, component.TransformKey)
	defer transforms.Release()

	for id, o := range orbits.Iter() {
		t := transforms.GetMut(id)
		if t == nil {
			continue
		}
		t.Position = OrbitPosition(o, s.elapsed)
	}
}

// OrbitPosition is the position on o after elapsed seconds.
func OrbitPosition(o component.Orbit, elapsed float64) mathx.Vec3 {
	theta := float64(o.Phase)
	if o.Period != 0 {
		theta += 2 * math.Pi * elapsed / float64(o.Period)
	}
	sin, cos := math.Sincos(theta)
	return o.Center.Add(mathx.V3(
		float32(cos)*o.Radius,
		float32(sin)*o.Radius,
		0,
	))
}
