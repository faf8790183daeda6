package component

import "github.com/gunship/engine/internal/core/ecs"

// Stable manager keys for the built-in components.
const (
	TransformKey ecs.Key = "transform"
	ColliderKey  ecs.Key = "collider"
	CameraKey    ecs.Key = "camera"
	LightKey     ecs.Key = "light"
	MeshKey      ecs.Key = "mesh"
	OrbitKey     ecs.Key = "orbit"
	AlarmKey     ecs.Key = "alarm"
)

// RegisterAll registers a manager for every built-in component.
func RegisterAll(s *ecs.Scene) {
	ecs.Register[Transform](s, TransformKey)
	ecs.Register[Collider](s, ColliderKey)
	ecs.Register[Camera](s, CameraKey)
	ecs.Register[Light](s, LightKey)
	ecs.Register[Mesh](s, MeshKey)
	ecs.Register[Orbit](s, OrbitKey)
	ecs.Register[Alarms](s, AlarmKey)
}
