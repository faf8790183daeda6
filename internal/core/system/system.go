package system

import "github.com/gunship/engine/internal/core/ecs"

// Phase defines execution ordering within a single frame.
type Phase int

const (
	PhasePreUpdate  Phase = iota // 0: deliver last frame's events, resolve resource loads
	PhaseUpdate                  // 1: game logic, movement
	PhasePostUpdate              // 2: collision
	PhaseLate                    // 3: anything that must observe collision results
)

func (p Phase) String() string {
	switch p {
	case PhasePreUpdate:
		return "pre-update"
	case PhaseUpdate:
		return "update"
	case PhasePostUpdate:
		return "post-update"
	case PhaseLate:
		return "late"
	}
	return "unknown"
}

// System is the interface every frame system implements. Update receives the
// scene explicitly and the frame delta in seconds.
type System interface {
	Phase() Phase
	Update(scene *ecs.Scene, dt float32)
}

// Func adapts a plain function to a System in PhaseUpdate.
type Func func(scene *ecs.Scene, dt float32)

func (f Func) Phase() Phase                         { return PhaseUpdate }
func (f Func) Update(scene *ecs.Scene, dt float32) { f(scene, dt) }
