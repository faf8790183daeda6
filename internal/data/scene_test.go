package data

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/gunship/engine/internal/component"
	"github.com/gunship/engine/internal/core/ecs"
	"github.com/gunship/engine/internal/mathx"
	"github.com/stretchr/testify/require"
)

const fixture = `
entities:
  - position: [0, 0, 0]
    radius: 0.5
    callback: bump
  - position: [0.75, 0, 0]
    offset: [0, 0.25, 0]
    radius: 0.5
    mesh: cube.obj
  - position: [10, 0, 0]
    radius: 1
    lifetime: 2.5
    orbit:
      center: [10, 0, 0]
      radius: 2
      period: 4
`

type recorder struct {
	callbacks map[ecs.EntityID]string
	meshes    map[ecs.EntityID]string
}

func (r *recorder) AssignNamedCallback(_ *ecs.Scene, id ecs.EntityID, key string) {
	r.callbacks[id] = key
}

func (r *recorder) Request(_ *ecs.Scene, id ecs.EntityID, path string) {
	r.meshes[id] = path
}

func writeScene(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scene.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadSceneFile(t *testing.T) {
	spawns, err := LoadSceneFile(writeScene(t, fixture))
	require.NoError(t, err)
	require.Len(t, spawns, 3)
	require.Equal(t, "bump", spawns[0].Callback)
	require.Equal(t, [3]float32{0, 0.25, 0}, spawns[1].Offset)
	require.Equal(t, "cube.obj", spawns[1].Mesh)
	require.NotNil(t, spawns[2].Orbit)
	require.Equal(t, float32(4), spawns[2].Orbit.Period)
	require.Equal(t, float32(2.5), spawns[2].Lifetime)
	require.Zero(t, spawns[0].Lifetime)
}

func TestLoadSceneFileErrors(t *testing.T) {
	_, err := LoadSceneFile(filepath.Join(t.TempDir(), "missing.yaml"))
	require.ErrorIs(t, err, os.ErrNotExist)

	_, err = LoadSceneFile(writeScene(t, "entities: [oops"))
	require.ErrorContains(t, err, "parse scene")

	_, err = LoadSceneFile(writeScene(t, "entities:\n  - position: [0, 0, 0]\n    radius: 0\n"))
	require.ErrorContains(t, err, "entity 0: radius must be positive")

	_, err = LoadSceneFile(writeScene(t, "entities:\n  - radius: 1\n    lifetime: -1\n"))
	require.ErrorContains(t, err, "entity 0: lifetime must not be negative")
}

func TestPopulate(t *testing.T) {
	spawns, err := LoadSceneFile(writeScene(t, fixture))
	require.NoError(t, err)

	scene := ecs.NewScene(ecs.DefaultMinRecycled)
	component.RegisterAll(scene)
	rec := &recorder{callbacks: map[ecs.EntityID]string{}, meshes: map[ecs.EntityID]string{}}

	ids := Populate(scene, spawns, rec, rec)
	require.Len(t, ids, 3)
	for _, id := range ids {
		require.True(t, scene.IsAlive(id))
	}

	transforms := ecs.Read[component.Transform](scene, component.TransformKey)
	colliders := ecs.Read[component.Collider](scene, component.ColliderKey)
	orbits := ecs.Read[component.Orbit](scene, component.OrbitKey)
	defer transforms.Release()
	defer colliders.Release()
	defer orbits.Release()

	tr, ok := transforms.Get(ids[1])
	require.True(t, ok)
	require.Equal(t, mathx.V3(0.75, 0, 0), tr.Position)
	c, ok := colliders.Get(ids[1])
	require.True(t, ok)
	require.Equal(t, component.Sphere(mathx.V3(0, 0.25, 0), 0.5), c)

	require.Equal(t, 1, orbits.Len())
	require.True(t, orbits.Has(ids[2]))

	require.Equal(t, map[ecs.EntityID]string{ids[0]: "bump"}, rec.callbacks)
	require.Equal(t, map[ecs.EntityID]string{ids[1]: "cube.obj"}, rec.meshes)
}

func TestPopulateWithoutBinders(t *testing.T) {
	scene := ecs.NewScene(ecs.DefaultMinRecycled)
	component.RegisterAll(scene)
	ids := Populate(scene, []Spawn{{Radius: 1, Callback: "x", Mesh: "y"}}, nil, nil)
	require.Len(t, ids, 1)
}

func TestRandomSpawns(t *testing.T) {
	a := RandomSpawns(500, 10, 0.5, 42)
	b := RandomSpawns(500, 10, 0.5, 42)
	require.Equal(t, a, b)
	require.NotEqual(t, a, RandomSpawns(500, 10, 0.5, 43))

	for _, sp := range a {
		require.InDelta(t, 0, sp.Position[0], 10)
		require.InDelta(t, 0, sp.Position[1], 10)
		require.Zero(t, sp.Position[2])
		require.Equal(t, float32(0.5), sp.Radius)
	}
}
