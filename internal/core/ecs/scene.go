package ecs

// Scene is the top-level ECS container. It owns the entity registry and the
// manager registry and is passed explicitly to every system and callback.
type Scene struct {
	entities *EntityRegistry
	managers *Registry
}

func NewScene(minRecycled int) *Scene {
	return &Scene{
		entities: NewEntityRegistry(minRecycled),
		managers: NewRegistry(),
	}
}

// Register creates a manager for C and registers it under key. Intended for
// startup; a duplicate key panics.
func Register[C any](s *Scene, key Key) *ComponentManager[C] {
	m := NewComponentManager[C]()
	s.managers.Register(key, m)
	return m
}

func (s *Scene) Entities() *EntityRegistry { return s.entities }
func (s *Scene) Managers() *Registry       { return s.managers }

func (s *Scene) CreateEntity() EntityID { return s.entities.Create() }

func (s *Scene) IsAlive(id EntityID) bool { return s.entities.IsAlive(id) }

// DestroyEntity retires id immediately and flags its components in every
// manager. The rows themselves are removed at the next Flush, so all managers
// observe the same destruction boundary.
func (s *Scene) DestroyEntity(id EntityID) {
	s.entities.Destroy(id)
	s.managers.MarkDestroyed(id)
}

// Flush is the end-of-frame destruction barrier: flagged component rows are
// removed from every manager, then the destroyed ids become recyclable.
// It returns the number of entities released.
func (s *Scene) Flush() int {
	s.managers.DestroyMarked()
	return s.entities.Flush()
}
