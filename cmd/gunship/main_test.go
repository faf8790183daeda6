package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestRunFixedFrames(t *testing.T) {
	dir := t.TempDir()
	scripts := filepath.Join(dir, "scripts")
	require.NoError(t, os.Mkdir(scripts, 0o755))
	writeFile(t, scripts, "collide.lua", `
function pop(entity, other)
  if is_alive(other) then destroy_entity(other) end
end
`)
	scene := writeFile(t, dir, "scene.yaml", `
entities:
  - position: [0, 0, 0]
    radius: 1
    callback: pop
  - position: [0.5, 0, 0]
    radius: 1
    mesh: missing.obj
  - position: [20, 20, 0]
    radius: 1
    lifetime: 0.002
`)
	cfg := writeFile(t, dir, "engine.toml", `
[engine]
tick_rate = "1ms"
report_interval = 2

[collision]
workers = 2
hash = "xxhash"
emit_events = true

[resources]
root = "`+filepath.ToSlash(dir)+`"

[scripting]
dir = "`+filepath.ToSlash(scripts)+`"

[scene]
file = "`+filepath.ToSlash(scene)+`"
random_entities = 50
extent = 5.0
churn_per_frame = 2
churn_lifetime = 3

[logging]
level = "error"
`)
	require.NoError(t, run([]string{"-config", cfg, "-frames", "5"}))
}

func TestRunErrors(t *testing.T) {
	dir := t.TempDir()

	err := run([]string{"-config", filepath.Join(dir, "absent.toml"), "-frames", "1"})
	require.ErrorContains(t, err, "load config")

	bad := writeFile(t, dir, "bad.toml", "[collision]\nhash = \"crc\"\n")
	err = run([]string{"-config", bad, "-frames", "1"})
	require.ErrorContains(t, err, "collision")

	scene := writeFile(t, dir, "scene.yaml", "entities:\n  - position: [0, 0, 0]\n    radius: 1\n    callback: pop\n")
	noScripts := writeFile(t, dir, "noscripts.toml", "[scene]\nfile = \""+filepath.ToSlash(scene)+"\"\n[logging]\nlevel = \"error\"\n")
	err = run([]string{"-config", noScripts, "-frames", "1"})
	require.ErrorContains(t, err, `callback "pop" needs scripting.dir`)

	require.Error(t, run([]string{"-nope"}))
}
