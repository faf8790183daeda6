package component

import "github.com/gunship/engine/internal/mathx"

type LightKind uint8

const (
	LightPoint LightKind = iota
	LightDirectional
)

// Light is a point light at Position (relative to the transform) or a
// directional light along Direction.
type Light struct {
	Kind      LightKind
	Position  mathx.Vec3
	Direction mathx.Vec3
	Intensity float32
}
