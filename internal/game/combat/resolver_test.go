package combat_test

import (
	"testing"
	"time"

	"github.com/riftforge/arena/internal/game/combat"
	"github.com/riftforge/arena/internal/game/geom"
	"github.com/riftforge/arena/internal/game/world"
	"github.com/riftforge/arena/internal/netsync"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type captureEmitter struct {
	events []netsync.Event
}

func (c *captureEmitter) Emit(ev netsync.Event) { c.events = append(c.events, ev) }

func newWorld(t *testing.T) *world.Store {
	t.Helper()
	return world.NewStore(world.Bounds{MinX: -50, MaxX: 50, MinZ: -50, MaxZ: 50})
}

func addEnemy(t *testing.T, s *world.Store, id string, hp float64) *world.Entity {
	t.Helper()
	e := &world.Entity{
		ID: id, Category: world.CategoryEnemy, Local: true,
		Position: geom.Vec3{}, Health: hp, MaxHealth: hp,
	}
	require.NoError(t, s.Add(e))
	return e
}

func TestResolver_AppliesLocalDamage(t *testing.T) {
	s := newWorld(t)
	enemy := addEnemy(t, s, "npc-1", 50)
	em := &captureEmitter{}
	r := combat.NewResolver(s, em, "me", zap.NewNop())

	r.Queue(combat.Request{TargetID: "npc-1", Amount: 12, SourceID: "me", Cause: "melee"})
	applied := r.Flush(time.Now())

	require.Len(t, applied, 1)
	assert.Equal(t, 12.0, applied[0].Mitigated)
	assert.False(t, applied[0].Remote)
	assert.Equal(t, 38.0, enemy.Health)
	assert.Empty(t, em.events, "local damage never crosses the sync layer")
}

func TestResolver_SameTickDuplicateDropped(t *testing.T) {
	s := newWorld(t)
	enemy := addEnemy(t, s, "npc-1", 50)
	r := combat.NewResolver(s, &captureEmitter{}, "me", zap.NewNop())

	req := combat.Request{TargetID: "npc-1", Amount: 10, SourceID: "me", Cause: "melee"}
	r.Queue(req)
	r.Queue(req)
	assert.Equal(t, 1, r.Pending())

	r.Flush(time.Now())
	assert.Equal(t, 40.0, enemy.Health)

	// A new tick accepts the same request again.
	r.Queue(req)
	assert.Equal(t, 1, r.Pending())
}

func TestResolver_DistinctRequestsSameTickBothApply(t *testing.T) {
	s := newWorld(t)
	enemy := addEnemy(t, s, "npc-1", 50)
	r := combat.NewResolver(s, &captureEmitter{}, "me", zap.NewNop())

	r.Queue(combat.Request{TargetID: "npc-1", Amount: 10, SourceID: "me", Cause: "melee"})
	r.Queue(combat.Request{TargetID: "npc-1", Amount: 10, SourceID: "me", Cause: "burning"})
	r.Flush(time.Now())
	assert.Equal(t, 30.0, enemy.Health)
}

func TestResolver_EqualValuedHitsWithDistinctIdentityBothApply(t *testing.T) {
	s := newWorld(t)
	enemy := addEnemy(t, s, "npc-1", 50)
	r := combat.NewResolver(s, &captureEmitter{}, "me", zap.NewNop())

	// Two fanned arrows striking one body in the same tick carry the same
	// value tuple but separate hit identities.
	r.Queue(combat.Request{TargetID: "npc-1", Amount: 10, SourceID: "me", Cause: "barrage", HitID: "arrow-1"})
	r.Queue(combat.Request{TargetID: "npc-1", Amount: 10, SourceID: "me", Cause: "barrage", HitID: "arrow-2"})
	assert.Equal(t, 2, r.Pending())

	r.Flush(time.Now())
	assert.Equal(t, 30.0, enemy.Health)
}

func TestResolver_RemotePlayerRoutedThroughSync(t *testing.T) {
	s := newWorld(t)
	remote := &world.Entity{
		ID: "peer-2", Category: world.CategoryPlayer, Local: false,
		Health: 100, MaxHealth: 100,
	}
	require.NoError(t, s.Add(remote))
	em := &captureEmitter{}
	r := combat.NewResolver(s, em, "me", zap.NewNop())

	r.Queue(combat.Request{TargetID: "peer-2", Amount: 20, SourceID: "me", Cause: "arrow"})
	applied := r.Flush(time.Now())

	require.Len(t, applied, 1)
	assert.True(t, applied[0].Remote)
	assert.Equal(t, 100.0, remote.Health, "remote health is never mutated locally")

	require.Len(t, em.events, 1)
	assert.Equal(t, netsync.TypeDamage, em.events[0].Type)
	dmg := em.events[0].Payload.(*netsync.Damage)
	assert.Equal(t, "peer-2", dmg.TargetID)
	assert.Equal(t, 20.0, dmg.Amount)
}

func TestResolver_UnknownTargetDropped(t *testing.T) {
	s := newWorld(t)
	r := combat.NewResolver(s, &captureEmitter{}, "me", zap.NewNop())
	r.Queue(combat.Request{TargetID: "ghost", Amount: 10, SourceID: "me", Cause: "melee"})
	applied := r.Flush(time.Now())
	assert.Empty(t, applied)
	assert.Equal(t, 0, r.Pending())
}

func TestResolver_ArmorMitigation(t *testing.T) {
	s := newWorld(t)
	enemy := addEnemy(t, s, "npc-1", 50)
	enemy.Armor = 5
	r := combat.NewResolver(s, &captureEmitter{}, "me", zap.NewNop())

	r.Queue(combat.Request{TargetID: "npc-1", Amount: 12, SourceID: "me", Cause: "melee"})
	applied := r.Flush(time.Now())
	require.Len(t, applied, 1)
	assert.Equal(t, 7.0, applied[0].Mitigated)
	assert.Equal(t, 43.0, enemy.Health)

	// Armor above the hit floors at zero, never heals.
	r.Queue(combat.Request{TargetID: "npc-1", Amount: 3, SourceID: "me", Cause: "melee"})
	applied = r.Flush(time.Now())
	require.Len(t, applied, 1)
	assert.Equal(t, 0.0, applied[0].Mitigated)
	assert.Equal(t, 43.0, enemy.Health)
}

func TestResolver_KillFlagAndOverkill(t *testing.T) {
	s := newWorld(t)
	enemy := addEnemy(t, s, "npc-1", 10)
	r := combat.NewResolver(s, &captureEmitter{}, "me", zap.NewNop())

	r.Queue(combat.Request{TargetID: "npc-1", Amount: 99, SourceID: "me", Cause: "slam"})
	applied := r.Flush(time.Now())
	require.Len(t, applied, 1)
	assert.True(t, applied[0].Killed)
	assert.Equal(t, 0.0, enemy.Health, "overkill clamps at zero")

	// Dead targets absorb nothing further.
	r.Queue(combat.Request{TargetID: "npc-1", Amount: 10, SourceID: "me", Cause: "slam"})
	assert.Empty(t, r.Flush(time.Now()))
}

func TestResolver_ZeroAmountIgnored(t *testing.T) {
	s := newWorld(t)
	addEnemy(t, s, "npc-1", 50)
	r := combat.NewResolver(s, &captureEmitter{}, "me", zap.NewNop())
	r.Queue(combat.Request{TargetID: "npc-1", Amount: 0, SourceID: "me", Cause: "melee"})
	assert.Equal(t, 0, r.Pending())
}
