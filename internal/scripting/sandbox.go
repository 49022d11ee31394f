// Package scripting provides a sandboxed GopherLua environment for content
// hooks attached to debuff definitions. It has no dependency on game domain
// packages; game interactions are injected as callbacks.
package scripting

import (
	"context"
	"sync/atomic"

	lua "github.com/yuin/gopher-lua"
)

// DefaultInstructionLimit caps the number of Lua opcodes a single hook may
// execute when no override is configured.
const DefaultInstructionLimit = 50_000

// countingContext is a context.Context that cancels itself after Done() has
// been called limit times. GopherLua calls Done() once per opcode, making
// this an exact, deterministic instruction budget.
type countingContext struct {
	context.Context
	cancel    context.CancelFunc
	remaining *atomic.Int64
}

// Done returns the underlying cancellation channel. Each call decrements the
// remaining budget; at zero the cancel fires and the VM stops on the next
// opcode boundary.
func (c *countingContext) Done() <-chan struct{} {
	if c.remaining.Add(-1) <= 0 {
		c.cancel()
	}
	return c.Context.Done()
}

func newCountingContext(limit int) context.Context {
	base, cancel := context.WithCancel(context.Background())
	rem := &atomic.Int64{}
	rem.Store(int64(limit))
	return &countingContext{Context: base, cancel: cancel, remaining: rem}
}

// newSandboxedState creates a GopherLua LState with only the safe standard
// libraries loaded (base, table, string, math), dangerous globals stripped,
// and execution limited to instLimit opcodes.
//
// Precondition: instLimit >= 0; 0 uses DefaultInstructionLimit.
// Postcondition: the caller owns the LState and must Close() it.
func newSandboxedState(instLimit int) *lua.LState {
	limit := instLimit
	if limit <= 0 {
		limit = DefaultInstructionLimit
	}

	L := lua.NewState(lua.Options{SkipOpenLibs: true})

	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)

	for _, name := range []string{"dofile", "loadfile", "load", "collectgarbage", "require"} {
		L.SetGlobal(name, lua.LNil)
	}

	L.SetContext(newCountingContext(limit))

	return L
}
