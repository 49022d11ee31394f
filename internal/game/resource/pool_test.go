package resource_test

import (
	"testing"
	"time"

	"github.com/riftforge/arena/internal/game/resource"
	"github.com/riftforge/arena/internal/game/weapon"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func newPools(t *testing.T) *resource.Pools {
	t.Helper()
	return resource.NewPools(weapon.DefaultRegistry())
}

func TestConsume_Atomic(t *testing.T) {
	p := newPools(t)

	// Drain scythe mana down to 10 of 150, then attempt an unaffordable spend.
	require.True(t, p.Consume(weapon.KindScythe, 140))
	v, ok := p.ViewOf(weapon.KindScythe)
	require.True(t, ok)
	require.Equal(t, 10.0, v.Current)
	require.Equal(t, 150.0, v.Max)

	assert.False(t, p.Consume(weapon.KindScythe, 40))
	v, _ = p.ViewOf(weapon.KindScythe)
	assert.Equal(t, 10.0, v.Current, "failed consume must not partially spend")
}

func TestConsume_Property_FailureLeavesPoolUnchanged(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		p := resource.NewPools(weapon.DefaultRegistry())
		spend := rapid.Float64Range(0, 100).Draw(rt, "spend")
		require.True(rt, p.Consume(weapon.KindBow, spend))
		before, _ := p.ViewOf(weapon.KindBow)

		over := before.Current + rapid.Float64Range(0.001, 50).Draw(rt, "over")
		assert.False(rt, p.Consume(weapon.KindBow, over))
		after, _ := p.ViewOf(weapon.KindBow)
		assert.Equal(rt, before.Current, after.Current)
	})
}

func TestAdd_ClampsToMax(t *testing.T) {
	p := newPools(t)
	p.Add(weapon.KindBow, 500)
	v, _ := p.ViewOf(weapon.KindBow)
	assert.Equal(t, v.Max, v.Current)
}

func TestRegenerate_EnergyAndMana(t *testing.T) {
	p := newPools(t)
	require.True(t, p.Consume(weapon.KindBow, 50))
	require.True(t, p.Consume(weapon.KindScythe, 50))

	// Regen runs for every weapon, drawn or not.
	p.Regenerate(2 * time.Second)

	bow, _ := p.ViewOf(weapon.KindBow)
	assert.InDelta(t, 80.0, bow.Current, 1e-9) // 50 + 15/s * 2
	scythe, _ := p.ViewOf(weapon.KindScythe)
	assert.InDelta(t, 120.0, scythe.Current, 1e-9) // 100 + 10/s * 2
}

func TestRegenerate_RageDecaysTowardZero(t *testing.T) {
	p := newPools(t)
	p.Add(weapon.KindWarhammer, 10)
	p.Regenerate(2 * time.Second) // decay 4/s
	v, _ := p.ViewOf(weapon.KindWarhammer)
	assert.InDelta(t, 2.0, v.Current, 1e-9)

	p.Regenerate(5 * time.Second)
	v, _ = p.ViewOf(weapon.KindWarhammer)
	assert.Equal(t, 0.0, v.Current, "decay floors at zero")
}

func TestOnHitDealt_BuildsRage(t *testing.T) {
	p := newPools(t)
	p.OnHitDealt(weapon.KindWarhammer)
	p.OnHitDealt(weapon.KindWarhammer)
	v, _ := p.ViewOf(weapon.KindWarhammer)
	assert.Equal(t, 16.0, v.Current)

	// Energy weapons have no per-hit gain.
	before, _ := p.ViewOf(weapon.KindBow)
	p.OnHitDealt(weapon.KindBow)
	after, _ := p.ViewOf(weapon.KindBow)
	assert.Equal(t, before.Current, after.Current)
}

func TestOnLevelUp_RaisesManaCapsAndTopsUp(t *testing.T) {
	p := newPools(t)
	require.True(t, p.Consume(weapon.KindRuneblade, 100))

	p.OnLevelUp()

	rb, _ := p.ViewOf(weapon.KindRuneblade)
	assert.Equal(t, 130.0, rb.Max)
	assert.Equal(t, 130.0, rb.Current, "level-up tops current up to the new max")

	// Energy pools are untouched by level-ups.
	bow, _ := p.ViewOf(weapon.KindBow)
	assert.Equal(t, 100.0, bow.Max)
}

func TestRegenerate_Property_BoundsHold(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		p := resource.NewPools(weapon.DefaultRegistry())
		steps := rapid.IntRange(1, 50).Draw(rt, "steps")
		for i := 0; i < steps; i++ {
			switch rapid.IntRange(0, 3).Draw(rt, "op") {
			case 0:
				p.Consume(weapon.KindWarhammer, rapid.Float64Range(0, 120).Draw(rt, "spend"))
			case 1:
				p.Add(weapon.KindWarhammer, rapid.Float64Range(0, 120).Draw(rt, "add"))
			case 2:
				p.OnHitDealt(weapon.KindWarhammer)
			default:
				p.Regenerate(time.Duration(rapid.IntRange(1, 2000).Draw(rt, "ms")) * time.Millisecond)
			}
			v, ok := p.ViewOf(weapon.KindWarhammer)
			require.True(rt, ok)
			assert.GreaterOrEqual(rt, v.Current, 0.0)
			assert.LessOrEqual(rt, v.Current, v.Max)
		}
	})
}
