package system

import (
	"sort"
	"time"

	"github.com/gunship/engine/internal/core/ecs"
	"go.uber.org/zap"
)

// Runner executes systems in phase order each frame. Systems sharing a phase
// run in registration order. Everything runs synchronously on the calling
// goroutine; a panic inside a system propagates and aborts the frame.
type Runner struct {
	systems []System
	sorted  bool
	frames  uint64
	log     *zap.Logger
}

func NewRunner(log *zap.Logger) *Runner {
	if log == nil {
		log = zap.NewNop()
	}
	return &Runner{
		systems: make([]System, 0, 16),
		log:     log,
	}
}

func (r *Runner) Register(s System) {
	r.systems = append(r.systems, s)
	r.sorted = false
}

// RunFrame runs every system once, then the scene's destruction barrier.
func (r *Runner) RunFrame(scene *ecs.Scene, dt float32) {
	r.ensureSorted()
	start := time.Now()
	for _, s := range r.systems {
		s.Update(scene, dt)
	}
	released := scene.Flush()
	r.frames++

	if ce := r.log.Check(zap.DebugLevel, "frame"); ce != nil {
		ce.Write(
			zap.Uint64("frame", r.frames),
			zap.Duration("elapsed", time.Since(start)),
			zap.Int("entities", scene.Entities().Len()),
			zap.Int("released", released),
		)
	}
}

// Frames reports how many frames have completed.
func (r *Runner) Frames() uint64 { return r.frames }

// Systems returns the systems in execution order.
func (r *Runner) Systems() []System {
	r.ensureSorted()
	return append([]System(nil), r.systems...)
}

func (r *Runner) ensureSorted() {
	if !r.sorted {
		sort.SliceStable(r.systems, func(i, j int) bool {
			return r.systems[i].Phase() < r.systems[j].Phase()
		})
		r.sorted = true
	}
}
