package scripting

import (
	"fmt"
	"sync"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

// HookEnv is the snapshot a debuff hook sees as Lua globals.
type HookEnv struct {
	// DebuffID is the definition ID ("frozen", "burning", ...).
	DebuffID string
	// TargetID is the entity the debuff is attached to.
	TargetID string
	// SourceID is the entity that applied the debuff; may be empty.
	SourceID string
	// DurationSec is the debuff duration in seconds.
	DurationSec float64
}

// Runner executes debuff hook snippets in fresh sandboxed VMs.
//
// Hooks run on the simulation goroutine; the mutex only guards against
// accidental cross-goroutine use of the injected callbacks.
type Runner struct {
	mu        sync.Mutex
	instLimit int
	logger    *zap.Logger

	// QueueDamage, when non-nil, is exposed to hooks as effect.damage(amount).
	// The target is the hook's TargetID.
	QueueDamage func(targetID string, amount float64, cause string)
}

// NewRunner creates a Runner with the given per-hook instruction limit.
//
// Precondition: logger must be non-nil. instLimit <= 0 uses the default.
func NewRunner(instLimit int, logger *zap.Logger) *Runner {
	return &Runner{instLimit: instLimit, logger: logger}
}

// Run executes snippet in a fresh sandboxed VM with env exposed as globals
// and a small effect.* module registered. A failing or over-budget hook is an
// error for the caller to log; hooks never abort gameplay.
//
// Precondition: snippet must be non-empty.
func (r *Runner) Run(snippet string, env HookEnv) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	L := newSandboxedState(r.instLimit)
	defer L.Close()

	L.SetGlobal("debuff_id", lua.LString(env.DebuffID))
	L.SetGlobal("target_id", lua.LString(env.TargetID))
	L.SetGlobal("source_id", lua.LString(env.SourceID))
	L.SetGlobal("duration", lua.LNumber(env.DurationSec))

	effect := L.NewTable()
	L.SetField(effect, "damage", L.NewFunction(func(ls *lua.LState) int {
		amount := float64(ls.CheckNumber(1))
		if r.QueueDamage != nil && amount > 0 {
			r.QueueDamage(env.TargetID, amount, env.DebuffID)
		}
		return 0
	}))
	L.SetField(effect, "log", L.NewFunction(func(ls *lua.LState) int {
		msg := ls.CheckString(1)
		r.logger.Debug("debuff hook log",
			zap.String("debuff", env.DebuffID),
			zap.String("target", env.TargetID),
			zap.String("msg", msg))
		return 0
	}))
	L.SetGlobal("effect", effect)

	if err := L.DoString(snippet); err != nil {
		return fmt.Errorf("debuff hook %q: %w", env.DebuffID, err)
	}
	return nil
}
