package collision

import (
	"errors"
	"fmt"

	"github.com/gunship/engine/internal/core/ecs"
)

// Callback is invoked as cb(scene, entity, other) when entity's collider
// overlaps other's this frame.
type Callback func(scene *ecs.Scene, entity, other ecs.EntityID)

// CallbackKey is the manager key of the per-entity callback table. Bindings
// live in an ordinary component manager so the destruction barrier purges
// them with every other component.
const CallbackKey ecs.Key = "collision_callback"

var ErrUnknownCallback = errors.New("collision: unknown callback")

// RegisterCallback stores cb under a caller-chosen key for later use by
// AssignNamedCallback. Re-registering a key replaces it.
func (s *System) RegisterCallback(key string, cb Callback) {
	s.named[key] = cb
}

// AssignCallback binds cb to entity. An entity has at most one callback and
// the last assignment wins.
func (s *System) AssignCallback(scene *ecs.Scene, entity ecs.EntityID, cb Callback) {
	callbacks := ecs.Write[Callback](scene, CallbackKey)
	defer callbacks.Release()
	if p := callbacks.GetMut(entity); p != nil {
		*p = cb
		return
	}
	callbacks.Assign(entity, cb)
}

// AssignNamedCallback binds the callback registered under key. An unknown
// key is a configuration error and panics.
func (s *System) AssignNamedCallback(scene *ecs.Scene, entity ecs.EntityID, key string) {
	cb, ok := s.named[key]
	if !ok {
		panic(fmt.Errorf("%w: %q", ErrUnknownCallback, key))
	}
	s.AssignCallback(scene, entity, cb)
}

// RemoveCallback unbinds entity's callback, if any.
func (s *System) RemoveCallback(scene *ecs.Scene, entity ecs.EntityID) {
	callbacks := ecs.Write[Callback](scene, CallbackKey)
	defer callbacks.Release()
	callbacks.DestroyImmediate(entity)
}
