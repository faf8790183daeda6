package system

import (
	"github.com/gunship/engine/internal/core/ecs"
	"github.com/gunship/engine/internal/core/event"
	coresys "github.com/gunship/engine/internal/core/system"
)

// EventDispatchSystem swaps the bus and delivers last frame's events. Runs
// first in PreUpdate, so it should be registered before other PreUpdate
// systems.
type EventDispatchSystem struct {
	bus *event.Bus
}

func NewEventDispatchSystem(bus *event.Bus) *EventDispatchSystem {
	return &EventDispatchSystem{bus: bus}
}

func (s *EventDispatchSystem) Phase() coresys.Phase { return coresys.PhasePreUpdate }

func (s *EventDispatchSystem) Update(_ *ecs.Scene, _ float32) {
	s.bus.SwapBuffers()
	s.bus.DispatchAll()
}
