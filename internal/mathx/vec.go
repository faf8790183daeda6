package mathx

import "math"

// Vec3 is a plain 3-component vector. The engine treats it as an opaque
// value type; only the handful of operations the core needs live here.
type Vec3 struct{ X, Y, Z float32 }

func V3(x, y, z float32) Vec3 { return Vec3{X: x, Y: y, Z: z} }

func (v Vec3) Add(o Vec3) Vec3 { return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z} }
func (v Vec3) Sub(o Vec3) Vec3 { return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z} }

func (v Vec3) Scale(s float32) Vec3 { return Vec3{v.X * s, v.Y * s, v.Z * s} }

func (v Vec3) Dot(o Vec3) float32 { return v.X*o.X + v.Y*o.Y + v.Z*o.Z }

func (v Vec3) LengthSquared() float32 { return v.Dot(v) }

// Distance returns the Euclidean distance between two points.
func Distance(a, b Vec3) float32 {
	return float32(math.Sqrt(float64(a.Sub(b).LengthSquared())))
}
