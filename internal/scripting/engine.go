package scripting

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gunship/engine/internal/collision"
	"github.com/gunship/engine/internal/core/ecs"
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

// Engine wraps a single gopher-lua VM. Single-goroutine access only (frame
// goroutine).
type Engine struct {
	vm  *lua.LState
	log *zap.Logger

	// scene is only set while a callback runs.
	scene *ecs.Scene
	calls uint64
	fails uint64
}

// NewEngine creates a Lua engine and loads every .lua file in dir, in name
// order. A missing dir yields an engine with no scripts.
func NewEngine(dir string, log *zap.Logger) (*Engine, error) {
	if log == nil {
		log = zap.NewNop()
	}
	vm := lua.NewState(lua.Options{
		SkipOpenLibs: false,
	})
	vm.SetGlobal("API_VERSION", lua.LNumber(1))

	e := &Engine{vm: vm, log: log}
	e.bind()

	if err := e.loadDir(dir); err != nil {
		vm.Close()
		return nil, fmt.Errorf("load scripts: %w", err)
	}
	return e, nil
}

func (e *Engine) bind() {
	e.vm.SetGlobal("destroy_entity", e.vm.NewFunction(e.luaDestroyEntity))
	e.vm.SetGlobal("is_alive", e.vm.NewFunction(e.luaIsAlive))
	e.vm.SetGlobal("log_info", e.vm.NewFunction(func(L *lua.LState) int {
		e.log.Info("lua", zap.String("msg", L.CheckString(1)))
		return 0
	}))
}

// loadDir loads all .lua files in a directory.
func (e *Engine) loadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".lua" {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if err := e.vm.DoFile(path); err != nil {
			return fmt.Errorf("load %s: %w", path, err)
		}
		e.log.Debug("loaded lua script", zap.String("file", path))
	}
	return nil
}

// HasFunction reports whether a global Lua function named name exists.
func (e *Engine) HasFunction(name string) bool {
	_, ok := e.vm.GetGlobal(name).(*lua.LFunction)
	return ok
}

// Callback returns a collision callback that calls the Lua global
// fnName(entity, other). Script errors are logged and swallowed.
func (e *Engine) Callback(fnName string) (collision.Callback, error) {
	fn, ok := e.vm.GetGlobal(fnName).(*lua.LFunction)
	if !ok {
		return nil, fmt.Errorf("lua function %s not found", fnName)
	}
	return func(scene *ecs.Scene, entity, other ecs.EntityID) {
		e.call(scene, fnName, fn, entity, other)
	}, nil
}

func (e *Engine) call(scene *ecs.Scene, name string, fn *lua.LFunction, entity, other ecs.EntityID) {
	prev := e.scene
	e.scene = scene
	defer func() { e.scene = prev }()

	e.calls++
	if err := e.vm.CallByParam(lua.P{
		Fn:      fn,
		NRet:    0,
		Protect: true,
	}, lua.LNumber(entity), lua.LNumber(other)); err != nil {
		e.fails++
		e.log.Error("lua callback error",
			zap.String("fn", name),
			zap.Uint32("entity", uint32(entity)),
			zap.Uint32("other", uint32(other)),
			zap.Error(err))
	}
}

func (e *Engine) checkEntity(L *lua.LState) ecs.EntityID {
	n := L.CheckNumber(1)
	if n < 0 || n != lua.LNumber(uint32(n)) {
		L.ArgError(1, "entity id must be a non-negative integer")
	}
	return ecs.EntityID(uint32(n))
}

// destroy_entity(id) -> bool. False when id is already dead.
func (e *Engine) luaDestroyEntity(L *lua.LState) int {
	id := e.checkEntity(L)
	if e.scene == nil {
		L.RaiseError("destroy_entity called outside a callback")
		return 0
	}
	if !e.scene.IsAlive(id) {
		L.Push(lua.LFalse)
		return 1
	}
	e.scene.DestroyEntity(id)
	L.Push(lua.LTrue)
	return 1
}

// is_alive(id) -> bool
func (e *Engine) luaIsAlive(L *lua.LState) int {
	id := e.checkEntity(L)
	if e.scene == nil {
		L.RaiseError("is_alive called outside a callback")
		return 0
	}
	L.Push(lua.LBool(e.scene.IsAlive(id)))
	return 1
}

// Stats returns how many callbacks ran and how many of them failed.
func (e *Engine) Stats() (calls, fails uint64) { return e.calls, e.fails }

// Close shuts down the Lua VM.
func (e *Engine) Close() {
	e.vm.Close()
}
