package component

import (
	"errors"
	"fmt"

	"github.com/gunship/engine/internal/mathx"
)

// ColliderKind enumerates collision volume shapes. Only spheres take part in
// the grid broad phase; the rest are narrow-phase shapes.
type ColliderKind uint8

const (
	ColliderSphere ColliderKind = iota
	ColliderAABB
	ColliderOBB
	ColliderConvexHull
	ColliderMesh
)

func (k ColliderKind) String() string {
	switch k {
	case ColliderSphere:
		return "sphere"
	case ColliderAABB:
		return "aabb"
	case ColliderOBB:
		return "obb"
	case ColliderConvexHull:
		return "convex_hull"
	case ColliderMesh:
		return "mesh"
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

var (
	ErrNonPositiveRadius = errors.New("sphere collider radius must be positive")
	ErrBadWidths         = errors.New("box collider widths must be positive")
)

// Collider is a collision volume anchored at the entity's transform position
// plus Offset. Radius applies to spheres and is not affected by scale;
// Widths applies to boxes.
type Collider struct {
	Kind   ColliderKind
	Offset mathx.Vec3
	Radius float32
	Widths mathx.Vec3
}

// Sphere returns a sphere collider.
func Sphere(offset mathx.Vec3, radius float32) Collider {
	return Collider{Kind: ColliderSphere, Offset: offset, Radius: radius}
}

// Validate rejects volumes that would give wrong results rather than none.
func (c Collider) Validate() error {
	switch c.Kind {
	case ColliderSphere:
		if !(c.Radius > 0) {
			return fmt.Errorf("%w: got %v", ErrNonPositiveRadius, c.Radius)
		}
	case ColliderAABB, ColliderOBB:
		if !(c.Widths.X > 0 && c.Widths.Y > 0 && c.Widths.Z > 0) {
			return fmt.Errorf("%w: got %v", ErrBadWidths, c.Widths)
		}
	case ColliderConvexHull, ColliderMesh:
	default:
		return fmt.Errorf("unknown collider kind %d", c.Kind)
	}
	return nil
}

// Center is the collider's world-space anchor for transform t.
func (c Collider) Center(t Transform) mathx.Vec3 {
	return t.Position.Add(c.Offset)
}
