package scripting_test

import (
	"testing"

	"github.com/riftforge/arena/internal/scripting"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestRunner_ExposesEnvGlobals(t *testing.T) {
	r := scripting.NewRunner(0, zap.NewNop())
	err := r.Run(`
		assert(debuff_id == "burning")
		assert(target_id == "e1")
		assert(duration == 3.5)
	`, scripting.HookEnv{DebuffID: "burning", TargetID: "e1", DurationSec: 3.5})
	assert.NoError(t, err)
}

func TestRunner_EffectDamageCallback(t *testing.T) {
	r := scripting.NewRunner(0, zap.NewNop())
	var gotTarget, gotCause string
	var gotAmount float64
	r.QueueDamage = func(targetID string, amount float64, cause string) {
		gotTarget, gotAmount, gotCause = targetID, amount, cause
	}

	require.NoError(t, r.Run(`effect.damage(7)`, scripting.HookEnv{
		DebuffID: "burning", TargetID: "e9",
	}))
	assert.Equal(t, "e9", gotTarget)
	assert.Equal(t, 7.0, gotAmount)
	assert.Equal(t, "burning", gotCause)
}

func TestRunner_NegativeDamageIgnored(t *testing.T) {
	r := scripting.NewRunner(0, zap.NewNop())
	called := false
	r.QueueDamage = func(string, float64, string) { called = true }
	require.NoError(t, r.Run(`effect.damage(-5)`, scripting.HookEnv{DebuffID: "x", TargetID: "y"}))
	assert.False(t, called)
}

func TestRunner_InstructionBudget(t *testing.T) {
	r := scripting.NewRunner(1000, zap.NewNop())
	err := r.Run(`while true do end`, scripting.HookEnv{DebuffID: "spin", TargetID: "e1"})
	assert.Error(t, err, "runaway hooks must hit the opcode budget")
}

func TestRunner_SandboxStripsDangerousGlobals(t *testing.T) {
	r := scripting.NewRunner(0, zap.NewNop())
	err := r.Run(`assert(dofile == nil and loadfile == nil and require == nil)`,
		scripting.HookEnv{DebuffID: "x", TargetID: "y"})
	assert.NoError(t, err)
}

func TestRunner_SyntaxErrorSurfaces(t *testing.T) {
	r := scripting.NewRunner(0, zap.NewNop())
	err := r.Run(`this is not lua`, scripting.HookEnv{DebuffID: "bad", TargetID: "e1"})
	assert.Error(t, err)
}
