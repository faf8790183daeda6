package system

import (
	"github.com/gunship/engine/internal/collision"
	"github.com/gunship/engine/internal/core/ecs"
	coresys "github.com/gunship/engine/internal/core/system"
	"go.uber.org/zap"
)

// ReportSystem logs scene and broad phase statistics every Interval frames.
// Phase 4 (Late), after collision and before the frame's destruction barrier.
type ReportSystem struct {
	interval  uint64
	frame     uint64
	collision *collision.System
	log       *zap.Logger
}

func NewReportSystem(interval uint64, cs *collision.System, log *zap.Logger) *ReportSystem {
	if interval == 0 {
		interval = 1
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &ReportSystem{interval: interval, collision: cs, log: log}
}

func (s *ReportSystem) Phase() coresys.Phase { return coresys.PhaseLate }

func (s *ReportSystem) Update(scene *ecs.Scene, _ float32) {
	s.frame++
	if s.frame%s.interval != 0 {
		return
	}
	entities := scene.Entities()
	fields := []zap.Field{
		zap.Uint64("frame", s.frame),
		zap.Int("entities", entities.Len()),
		zap.Int("pending", entities.Pending()),
		zap.Int("recycled", entities.Recycled()),
	}
	if s.collision != nil {
		st := s.collision.Stats()
		fields = append(fields,
			zap.Int("bodies", st.Bodies),
			zap.Int("cells", st.Cells),
			zap.Int32("reach", st.Reach),
			zap.Int("candidates", st.Candidates),
			zap.Int("pairs", st.Pairs),
			zap.Duration("broadphase", st.Elapsed),
		)
	}
	s.log.Info("scene stats", fields...)
}
