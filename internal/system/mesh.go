package system

import (
	"github.com/gunship/engine/internal/component"
	"github.com/gunship/engine/internal/core/ecs"
	"github.com/gunship/engine/internal/core/event"
	coresys "github.com/gunship/engine/internal/core/system"
	"github.com/gunship/engine/internal/resource"
	"go.uber.org/zap"
)

// MeshSystem resolves Mesh components through an async loader. Completed
// loads are applied on the frame goroutine, in PreUpdate, and only when the
// entity is alive and its Mesh still carries the request number the load was
// started with. A late load for a destroyed entity is therefore never applied
// to a new entity that reuses the id, even for the same path.
type MeshSystem struct {
	loader  *resource.Loader[any]
	bus     *event.Bus // optional
	log     *zap.Logger
	seq     uint64
	pending map[*resource.Future[any]]uint64

	applied uint64
	dropped uint64
}

func NewMeshSystem(loader *resource.Loader[any], bus *event.Bus, log *zap.Logger) *MeshSystem {
	if log == nil {
		log = zap.NewNop()
	}
	return &MeshSystem{
		loader:  loader,
		bus:     bus,
		log:     log,
		pending: make(map[*resource.Future[any]]uint64),
	}
}

func (s *MeshSystem) Phase() coresys.Phase { return coresys.PhasePreUpdate }

// Request assigns an unresolved Mesh for path to entity and starts the load.
// A previous mesh on entity is replaced.
func (s *MeshSystem) Request(scene *ecs.Scene, entity ecs.EntityID, path string) {
	s.seq++
	mesh := component.Mesh{Path: path, Request: s.seq}
	meshes := ecs.Write[component.Mesh](scene, component.MeshKey)
	if m := meshes.GetMut(entity); m != nil {
		*m = mesh
	} else {
		meshes.Assign(entity, mesh)
	}
	meshes.Release()
	s.pending[s.loader.Request(entity, path)] = mesh.Request
}

func (s *MeshSystem) Update(scene *ecs.Scene, _ float32) {
	var meshes *ecs.RefMut[component.Mesh]
	s.loader.Poll(func(f *resource.Future[any]) {
		req := s.pending[f]
		delete(s.pending, f)
		if !scene.IsAlive(f.Entity) {
			s.dropped++
			s.log.Debug("mesh load for dead entity dropped",
				zap.Uint32("entity", uint32(f.Entity)), zap.String("path", f.Path))
			return
		}
		if meshes == nil {
			meshes = ecs.Write[component.Mesh](scene, component.MeshKey)
		}
		m := meshes.GetMut(f.Entity)
		if m == nil || m.Request != req {
			s.dropped++
			return
		}
		asset, err := f.Result()
		if err != nil {
			m.Err = err
			s.log.Warn("mesh load failed", zap.String("path", f.Path), zap.Error(err))
			if s.bus != nil {
				event.Emit(s.bus, event.ResourceFailed{Entity: f.Entity, Path: f.Path, Err: err})
			}
			return
		}
		m.Asset, m.Err = asset, nil
		s.applied++
		if s.bus != nil {
			event.Emit(s.bus, event.ResourceLoaded{Entity: f.Entity, Path: f.Path})
		}
	})
	if meshes != nil {
		meshes.Release()
	}
}

// Counts reports loads applied to a mesh and loads discarded.
func (s *MeshSystem) Counts() (applied, dropped uint64) { return s.applied, s.dropped }
