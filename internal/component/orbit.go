package component

import "github.com/gunship/engine/internal/mathx"

// Orbit moves an entity around Center in the XY plane, completing one circle
// every Period seconds.
type Orbit struct {
	Center mathx.Vec3
	Radius float32
	Period float32
	Phase  float32 // radians
}
