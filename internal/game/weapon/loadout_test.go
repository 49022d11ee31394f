package weapon_test

import (
	"testing"

	"github.com/riftforge/arena/internal/game/weapon"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestNewLoadout_RejectsDuplicates(t *testing.T) {
	_, err := weapon.NewLoadout(weapon.KindBow, weapon.KindBow)
	assert.Error(t, err)
}

func TestNewLoadout_RejectsUnknownKind(t *testing.T) {
	_, err := weapon.NewLoadout(weapon.Kind("flail"), weapon.KindBow)
	assert.Error(t, err)
}

func TestLoadout_At(t *testing.T) {
	l, err := weapon.NewLoadout(weapon.KindBow, weapon.KindScythe)
	require.NoError(t, err)

	k, ok := l.At(weapon.PositionPrimary)
	assert.True(t, ok)
	assert.Equal(t, weapon.KindBow, k)

	k, ok = l.At(weapon.PositionSecondary)
	assert.True(t, ok)
	assert.Equal(t, weapon.KindScythe, k)

	_, ok = l.At(weapon.PositionTertiary)
	assert.False(t, ok, "tertiary starts locked")
}

func TestLoadout_UnlockTertiary(t *testing.T) {
	l, err := weapon.NewLoadout(weapon.KindBow, weapon.KindScythe)
	require.NoError(t, err)

	require.NoError(t, l.UnlockTertiary(weapon.KindSabres))
	k, ok := l.Tertiary()
	assert.True(t, ok)
	assert.Equal(t, weapon.KindSabres, k)

	// One-time transition: second unlock fails.
	assert.Error(t, l.UnlockTertiary(weapon.KindWarhammer))
	// Duplicate of an equipped weapon fails.
	l2, _ := weapon.NewLoadout(weapon.KindBow, weapon.KindScythe)
	assert.Error(t, l2.UnlockTertiary(weapon.KindBow))
}

func TestLoadout_DrawTertiary_ExcludesEquipped(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		kinds := weapon.AllKinds()
		pi := rapid.IntRange(0, len(kinds)-1).Draw(rt, "primary")
		si := rapid.IntRange(0, len(kinds)-1).Draw(rt, "secondary")
		if si == pi {
			si = (si + 1) % len(kinds)
		}
		l, err := weapon.NewLoadout(kinds[pi], kinds[si])
		require.NoError(rt, err)

		seed := rapid.IntRange(0, 1<<20).Draw(rt, "seed")
		picked, err := l.DrawTertiary(func(n int) int { return seed % n })
		require.NoError(rt, err)
		assert.NotEqual(rt, kinds[pi], picked)
		assert.NotEqual(rt, kinds[si], picked)
		assert.True(rt, picked.Valid())
	})
}

func TestUnlocks_QAlwaysOpen(t *testing.T) {
	u := weapon.NewUnlocks()
	assert.True(t, u.IsUnlocked(weapon.Slot{Weapon: weapon.KindBow, Key: weapon.SlotQ}))
	assert.False(t, u.IsUnlocked(weapon.Slot{Weapon: weapon.KindBow, Key: weapon.SlotE}))

	u.Unlock(weapon.Slot{Weapon: weapon.KindBow, Key: weapon.SlotE})
	assert.True(t, u.IsUnlocked(weapon.Slot{Weapon: weapon.KindBow, Key: weapon.SlotE}))
	// Unlocking one weapon's E does not open another's.
	assert.False(t, u.IsUnlocked(weapon.Slot{Weapon: weapon.KindScythe, Key: weapon.SlotE}))
}
