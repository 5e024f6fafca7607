// Package scripting exposes companion behavior events to user Lua scripts.
// Scripts customize Kuro's personality (extra cues, reactions) without
// touching the transition logic; a broken script is logged and skipped,
// never allowed to break a tick.
package scripting

import (
	"fmt"
	"os"
	"path/filepath"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/kurolab/kuro/internal/behavior"
	"github.com/kurolab/kuro/internal/cue"
)

// Engine wraps a single gopher-lua VM. Single-goroutine access only (tick
// loop). It implements behavior.Hooks: scripts may define any of
//
//	on_state_change(from, to)
//	on_petted()
//	on_fetch_delivered()
//
// and call back into Go through the `kuro` table (kuro.log, kuro.cue,
// kuro.play).
type Engine struct {
	vm    *lua.LState
	anim  cue.AnimationSink
	audio cue.AudioSink
	log   *zap.Logger
}

// NewEngine creates a Lua engine and loads all .lua files in scriptsDir.
// A missing directory is not an error; the engine just has no hooks.
func NewEngine(scriptsDir string, anim cue.AnimationSink, audio cue.AudioSink, log *zap.Logger) (*Engine, error) {
	vm := lua.NewState(lua.Options{
		SkipOpenLibs: false,
	})
	vm.SetGlobal("API_VERSION", lua.LNumber(1))

	e := &Engine{vm: vm, anim: anim, audio: audio, log: log}
	e.registerAPI()

	if err := e.loadDir(scriptsDir); err != nil {
		vm.Close()
		return nil, fmt.Errorf("load behavior scripts: %w", err)
	}
	return e, nil
}

func (e *Engine) Close() {
	e.vm.Close()
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
		e.log.Debug("loaded behavior script", zap.String("file", path))
	}
	return nil
}

// registerAPI installs the `kuro` table.
func (e *Engine) registerAPI() {
	t := e.vm.NewTable()
	e.vm.SetGlobal("kuro", t)

	e.vm.SetField(t, "log", e.vm.NewFunction(func(L *lua.LState) int {
		e.log.Info("script", zap.String("msg", L.CheckString(1)))
		return 0
	}))
	e.vm.SetField(t, "cue", e.vm.NewFunction(func(L *lua.LState) int {
		e.anim.Play(cue.Cue(L.CheckString(1)))
		return 0
	}))
	e.vm.SetField(t, "play", e.vm.NewFunction(func(L *lua.LState) int {
		e.audio.PlayOneShot(cue.Clip(L.CheckString(1)))
		return 0
	}))
}

// ── behavior.Hooks ────────────────────────────────────────────────

func (e *Engine) StateChanged(from, to behavior.State) {
	e.callHook("on_state_change", lua.LString(from.String()), lua.LString(to.String()))
}

func (e *Engine) Petted() {
	e.callHook("on_petted")
}

func (e *Engine) FetchDelivered() {
	e.callHook("on_fetch_delivered")
}

// callHook invokes a global script function if it is defined. Script errors
// never propagate to the tick.
func (e *Engine) callHook(name string, args ...lua.LValue) {
	fn := e.vm.GetGlobal(name)
	if fn.Type() != lua.LTFunction {
		return
	}
	err := e.vm.CallByParam(lua.P{
		Fn:      fn,
		NRet:    0,
		Protect: true,
	}, args...)
	if err != nil {
		e.log.Warn("behavior script error", zap.String("hook", name), zap.Error(err))
	}
}
