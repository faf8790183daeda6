package component

import "github.com/gunship/engine/internal/mathx"

// Transform places an entity in world space. Hierarchies are not modelled;
// Position is already the derived world position.
type Transform struct {
	Position mathx.Vec3
	Scale    mathx.Vec3
}

// NewTransform returns a unit-scale transform at p.
func NewTransform(p mathx.Vec3) Transform {
	return Transform{Position: p, Scale: mathx.V3(1, 1, 1)}
}
