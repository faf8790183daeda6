package system

import (
	"math/rand"

	"github.com/gunship/engine/internal/component"
	"github.com/gunship/engine/internal/core/ecs"
	coresys "github.com/gunship/engine/internal/core/system"
	"github.com/gunship/engine/internal/mathx"
)

// SpawnerConfig sets the churn rate. Every frame PerFrame spheres are created
// and each lives for Lifetime frames.
type SpawnerConfig struct {
	PerFrame int
	Lifetime int
	Extent   float32
	Radius   float32
	Seed     int64
}

type spawned struct {
	id     ecs.EntityID
	expire uint64
}

// SpawnerSystem continuously creates and destroys short-lived spheres,
// driving the id recycling path. Phase 2 (Update).
type SpawnerSystem struct {
	cfg   SpawnerConfig
	rng   *rand.Rand
	frame uint64
	live  []spawned // ordered by expire

	created   uint64
	destroyed uint64
}

func NewSpawnerSystem(cfg SpawnerConfig) *SpawnerSystem {
	if cfg.Lifetime < 1 {
		cfg.Lifetime = 1
	}
	if !(cfg.Radius > 0) {
		cfg.Radius = 0.5
	}
	return &SpawnerSystem{cfg: cfg, rng: rand.New(rand.NewSource(cfg.Seed))}
}

func (s *SpawnerSystem) Phase() coresys.Phase { return coresys.PhaseUpdate }

func (s *SpawnerSystem) Update(scene *ecs.Scene, _ float32) {
	s.frame++

	n := 0
	for _, sp := range s.live {
		if sp.expire > s.frame {
			break
		}
		// something else may already have destroyed it
		if scene.IsAlive(sp.id) {
			scene.DestroyEntity(sp.id)
			s.destroyed++
		}
		n++
	}
	s.live = append(s.live[:0], s.live[n:]...)

	if s.cfg.PerFrame == 0 {
		return
	}
	transforms := ecs.Write[component.Transform](scene, component.TransformKey)
	defer transforms.Release()
	colliders := ecs.Write[component.Collider](scene, component.ColliderKey)
	defer colliders.Release()

	expire := s.frame + uint64(s.cfg.Lifetime)
	for range s.cfg.PerFrame {
		id := scene.CreateEntity()
		transforms.Assign(id, component.NewTransform(mathx.V3(
			(s.rng.Float32()*2-1)*s.cfg.Extent,
			(s.rng.Float32()*2-1)*s.cfg.Extent,
			0,
		)))
		colliders.Assign(id, component.Sphere(mathx.Vec3{}, s.cfg.Radius))
		s.live = append(s.live, spawned{id: id, expire: expire})
		s.created++
	}
}

// Live is the number of spawned entities not yet expired.
func (s *SpawnerSystem) Live() int { return len(s.live) }

func (s *SpawnerSystem) Counts() (created, destroyed uint64) { return s.created, s.destroyed }
