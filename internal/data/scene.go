package data

import (
	"fmt"
	"math/rand"
	"os"

	"github.com/gunship/engine/internal/component"
	"github.com/gunship/engine/internal/core/ecs"
	"github.com/gunship/engine/internal/mathx"
	"gopkg.in/yaml.v3"
)

// Spawn describes one entity of a scene fixture, loaded from YAML.
type Spawn struct {
	Position [3]float32  `yaml:"position"`
	Offset   [3]float32  `yaml:"offset"`
	Radius   float32     `yaml:"radius"`
	Callback string      `yaml:"callback"`
	Mesh     string      `yaml:"mesh"`
	Orbit    *OrbitSpawn `yaml:"orbit"`
	Lifetime float32     `yaml:"lifetime"` // seconds until the entity expires, 0 lives forever
}

type OrbitSpawn struct {
	Center [3]float32 `yaml:"center"`
	Radius float32    `yaml:"radius"`
	Period float32    `yaml:"period"` // seconds per revolution
	Phase  float32    `yaml:"phase"`
}

type sceneFile struct {
	Entities []Spawn `yaml:"entities"`
}

func vec(v [3]float32) mathx.Vec3 { return mathx.V3(v[0], v[1], v[2]) }

// LoadSceneFile reads a YAML scene fixture.
func LoadSceneFile(path string) ([]Spawn, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scene %s: %w", path, err)
	}
	var file sceneFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("parse scene %s: %w", path, err)
	}
	for i, sp := range file.Entities {
		if sp.Radius <= 0 {
			return nil, fmt.Errorf("scene %s: entity %d: radius must be positive, got %g", path, i, sp.Radius)
		}
		if sp.Lifetime < 0 {
			return nil, fmt.Errorf("scene %s: entity %d: lifetime must not be negative, got %g", path, i, sp.Lifetime)
		}
		if sp.Orbit != nil && sp.Orbit.Period == 0 {
			return nil, fmt.Errorf("scene %s: entity %d: orbit period must be non-zero", path, i)
		}
	}
	return file.Entities, nil
}

// CallbackBinder binds a named collision callback to an entity.
type CallbackBinder interface {
	AssignNamedCallback(scene *ecs.Scene, entity ecs.EntityID, key string)
}

// MeshRequester starts loading a mesh for an entity.
type MeshRequester interface {
	Request(scene *ecs.Scene, entity ecs.EntityID, path string)
}

// Populate creates one entity per spawn and returns the ids in spawn order.
// The scene must have the built-in component managers registered. callbacks
// and meshes may be nil, in which case spawns naming a callback or mesh
// keep only their other components.
func Populate(scene *ecs.Scene, spawns []Spawn, callbacks CallbackBinder, meshes MeshRequester) []ecs.EntityID {
	ids := make([]ecs.EntityID, 0, len(spawns))

	transforms := ecs.Write[component.Transform](scene, component.TransformKey)
	colliders := ecs.Write[component.Collider](scene, component.ColliderKey)
	orbits := ecs.Write[component.Orbit](scene, component.OrbitKey)
	for _, sp := range spawns {
		id := scene.CreateEntity()
		transforms.Assign(id, component.NewTransform(vec(sp.Position)))
		colliders.Assign(id, component.Sphere(vec(sp.Offset), sp.Radius))
		if o := sp.Orbit; o != nil {
			orbits.Assign(id, component.Orbit{
				Center: vec(o.Center),
				Radius: o.Radius,
				Period: o.Period,
				Phase:  o.Phase,
			})
		}
		ids = append(ids, id)
	}
	transforms.Release()
	colliders.Release()
	orbits.Release()

	for i, sp := range spawns {
		if sp.Callback != "" && callbacks != nil {
			callbacks.AssignNamedCallback(scene, ids[i], sp.Callback)
		}
		if sp.Mesh != "" && meshes != nil {
			meshes.Request(scene, ids[i], sp.Mesh)
		}
	}
	return ids
}

// RandomSpawns lays out n spheres of the given radius at random positions in
// [-extent, extent] on the XY plane. The same seed gives the same layout.
func RandomSpawns(n int, extent, radius float32, seed int64) []Spawn {
	rng := rand.New(rand.NewSource(seed))
	out := make([]Spawn, n)
	for i := range out {
		out[i] = Spawn{
			Position: [3]float32{
				(rng.Float32()*2 - 1) * extent,
				(rng.Float32()*2 - 1) * extent,
				0,
			},
			Radius: radius,
		}
	}
	return out
}
