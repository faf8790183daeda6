package event

import "github.com/gunship/engine/internal/core/ecs"

// Collision is emitted once per overlapping pair, with Entity < Other.
type Collision struct {
	Entity ecs.EntityID
	Other  ecs.EntityID
}

// ResourceLoaded is emitted when an async load resolves against a live entity.
type ResourceLoaded struct {
	Entity ecs.EntityID
	Path   string
}

// ResourceFailed is emitted when an async load returns an error.
type ResourceFailed struct {
	Entity ecs.EntityID
	Path   string
	Err    error
}
