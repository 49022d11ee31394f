package projectile_test

import (
	"testing"
	"time"

	"github.com/riftforge/arena/internal/game/combat"
	"github.com/riftforge/arena/internal/game/geom"
	"github.com/riftforge/arena/internal/game/projectile"
	"github.com/riftforge/arena/internal/game/world"
	"github.com/riftforge/arena/internal/netsync"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fixture struct {
	store    *world.Store
	resolver *combat.Resolver
	sys      *projectile.System
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := world.NewStore(world.Bounds{MinX: -50, MaxX: 50, MinZ: -50, MaxZ: 50})
	resolver := combat.NewResolver(store, netsync.NopEmitter{}, "me", zap.NewNop())
	return &fixture{
		store:    store,
		resolver: resolver,
		sys:      projectile.NewSystem(store, resolver, zap.NewNop()),
	}
}

func (f *fixture) addEnemy(t *testing.T, id string, pos geom.Vec3) *world.Entity {
	t.Helper()
	e := &world.Entity{
		ID: id, Category: world.CategoryEnemy, Local: true,
		Position: pos, Health: 50, MaxHealth: 50, Radius: 0.5,
	}
	require.NoError(t, f.store.Add(e))
	return e
}

func arrow(damage float64, piercing bool) projectile.Config {
	return projectile.Config{
		Speed: 10, Damage: damage, Lifetime: 5 * time.Second,
		Piercing: piercing, Cause: "arrow",
	}
}

func TestSpawn_SkippedWithoutTargetsOrPeers(t *testing.T) {
	f := newFixture(t)
	p := f.sys.Spawn(geom.Vec3{}, geom.Vec3{Z: 1}, "me", arrow(10, false), false)
	assert.Nil(t, p, "no targets, no peers: spawn skipped")
	assert.Equal(t, 0, f.sys.Count())

	// Sync required: never skipped, even with nothing to hit.
	p = f.sys.Spawn(geom.Vec3{}, geom.Vec3{Z: 1}, "me", arrow(10, false), true)
	assert.NotNil(t, p)
	assert.Equal(t, 1, f.sys.Count())
}

func TestAdvance_HitsAndDestroysNonPiercing(t *testing.T) {
	f := newFixture(t)
	enemy := f.addEnemy(t, "npc-1", geom.Vec3{Z: 5})

	f.sys.Spawn(geom.Vec3{}, geom.Vec3{Z: 1}, "me", arrow(10, false), false)
	now := time.Now()
	for i := 0; i < 10; i++ {
		now = now.Add(100 * time.Millisecond)
		f.sys.Advance(now, 100*time.Millisecond)
	}
	f.resolver.Flush(now)

	assert.Equal(t, 40.0, enemy.Health)
	assert.Equal(t, 0, f.sys.Count(), "non-piercing projectile destroyed on first hit")
}

func TestAdvance_PiercingHitsEachTargetOnce(t *testing.T) {
	f := newFixture(t)
	first := f.addEnemy(t, "a", geom.Vec3{Z: 3})
	second := f.addEnemy(t, "b", geom.Vec3{Z: 6})

	f.sys.Spawn(geom.Vec3{}, geom.Vec3{Z: 1}, "me", projectile.Config{
		Speed: 10, Damage: 10, Lifetime: 5 * time.Second,
		MaxDistance: 12, Piercing: true, Cause: "rune_wave",
	}, false)

	now := time.Now()
	for i := 0; i < 20; i++ {
		now = now.Add(100 * time.Millisecond)
		f.sys.Advance(now, 100*time.Millisecond)
	}
	f.resolver.Flush(now)

	assert.Equal(t, 40.0, first.Health, "pierced once, not per tick")
	assert.Equal(t, 40.0, second.Health)
	assert.Equal(t, 0, f.sys.Count(), "destroyed at max travel distance")
}

func TestAdvance_LifetimeExpiry(t *testing.T) {
	f := newFixture(t)
	f.addEnemy(t, "far", geom.Vec3{Z: 40})

	f.sys.Spawn(geom.Vec3{}, geom.Vec3{Z: 1}, "me", projectile.Config{
		Speed: 1, Damage: 10, Lifetime: 500 * time.Millisecond, Cause: "arrow",
	}, false)

	now := time.Now().Add(time.Second)
	f.sys.Advance(now, 100*time.Millisecond)
	assert.Equal(t, 0, f.sys.Count())
}

func TestAdvance_ExplosionDamagesArea(t *testing.T) {
	f := newFixture(t)
	// Two enemies near the impact point, one outside the blast.
	inBlastA := f.addEnemy(t, "a", geom.Vec3{Z: 5, X: 1})
	inBlastB := f.addEnemy(t, "b", geom.Vec3{Z: 5, X: -1})
	outside := f.addEnemy(t, "c", geom.Vec3{Z: 5, X: 10})

	f.sys.Spawn(geom.Vec3{}, geom.Vec3{Z: 1}, "me", projectile.Config{
		Speed: 10, Damage: 10, Lifetime: 5 * time.Second,
		MaxDistance: 5, ExplosionRadius: 3, Cause: "rain_of_arrows",
	}, false)

	now := time.Now()
	for i := 0; i < 10; i++ {
		now = now.Add(100 * time.Millisecond)
		f.sys.Advance(now, 100*time.Millisecond)
	}
	f.resolver.Flush(now)

	assert.Equal(t, 40.0, inBlastA.Health)
	assert.Equal(t, 40.0, inBlastB.Health)
	assert.Equal(t, 50.0, outside.Health)
}

func TestAdvance_ObstacleStopsProjectile(t *testing.T) {
	f := newFixture(t)
	f.store.AddObstacle(world.Obstacle{Center: geom.Vec3{Z: 3}, Radius: 1})
	behindWall := f.addEnemy(t, "hidden", geom.Vec3{Z: 8})

	f.sys.Spawn(geom.Vec3{}, geom.Vec3{Z: 1}, "me", arrow(10, false), false)
	now := time.Now()
	for i := 0; i < 15; i++ {
		now = now.Add(100 * time.Millisecond)
		f.sys.Advance(now, 100*time.Millisecond)
	}
	f.resolver.Flush(now)

	assert.Equal(t, 50.0, behindWall.Health)
	assert.Equal(t, 0, f.sys.Count())
}

func TestAdvance_DebuffPayloadCallback(t *testing.T) {
	f := newFixture(t)
	f.addEnemy(t, "npc-1", geom.Vec3{Z: 2})

	var gotTarget, gotDebuff string
	var gotAt time.Time
	f.sys.ApplyDebuff = func(targetID, debuffID string, duration time.Duration, sourceID string, now time.Time) {
		gotTarget, gotDebuff, gotAt = targetID, debuffID, now
	}

	f.sys.Spawn(geom.Vec3{}, geom.Vec3{Z: 1}, "me", projectile.Config{
		Speed: 10, Damage: 30, Lifetime: 5 * time.Second,
		DebuffID: "corrupted", DebuffDuration: 4 * time.Second, Cause: "viper_sting",
	}, false)

	now := time.Now()
	var last time.Time
	for i := 0; i < 5; i++ {
		now = now.Add(100 * time.Millisecond)
		f.sys.Advance(now, 100*time.Millisecond)
		if !gotAt.IsZero() && last.IsZero() {
			last = gotAt
		}
	}

	assert.Equal(t, "npc-1", gotTarget)
	assert.Equal(t, "corrupted", gotDebuff)
	assert.False(t, gotAt.IsZero(), "callback carries the tick time of the hit")
	assert.Equal(t, last, gotAt)
}

func TestAdvance_FastProjectileSweepsBetweenSamples(t *testing.T) {
	f := newFixture(t)
	enemy := f.addEnemy(t, "npc-1", geom.Vec3{Z: 5.5})

	// 3.6 units per 100 ms tick: the body sits between two sampled endpoints,
	// so only a swept collision test can land the hit.
	f.sys.Spawn(geom.Vec3{}, geom.Vec3{Z: 1}, "me", projectile.Config{
		Speed: 36, Damage: 30, Lifetime: 2 * time.Second, Cause: "viper_sting",
	}, false)

	now := time.Now()
	for i := 0; i < 5; i++ {
		now = now.Add(100 * time.Millisecond)
		f.sys.Advance(now, 100*time.Millisecond)
	}
	f.resolver.Flush(now)

	assert.Equal(t, 20.0, enemy.Health)
	assert.Equal(t, 0, f.sys.Count(), "destroyed on the swept hit")
}

func TestAdvance_NearestBodyInOneStepHitFirst(t *testing.T) {
	f := newFixture(t)
	near := f.addEnemy(t, "near", geom.Vec3{Z: 2})
	far := f.addEnemy(t, "far", geom.Vec3{Z: 3})

	// One step covers both bodies; the non-piercing shot stops at the front.
	f.sys.Spawn(geom.Vec3{}, geom.Vec3{Z: 1}, "me", projectile.Config{
		Speed: 36, Damage: 10, Lifetime: 2 * time.Second, Cause: "arrow",
	}, false)

	now := time.Now().Add(100 * time.Millisecond)
	f.sys.Advance(now, 100*time.Millisecond)
	f.resolver.Flush(now)

	assert.Equal(t, 40.0, near.Health)
	assert.Equal(t, 50.0, far.Health, "projectile never reaches the rear body")
}

func TestAdvance_TwoArrowsSameTargetSameTickBothLand(t *testing.T) {
	f := newFixture(t)
	enemy := f.addEnemy(t, "npc-1", geom.Vec3{Z: 2})

	f.sys.Spawn(geom.Vec3{}, geom.Vec3{Z: 1}, "me", arrow(10, false), false)
	f.sys.Spawn(geom.Vec3{X: 0.2}, geom.Vec3{Z: 1}, "me", arrow(10, false), false)

	now := time.Now()
	for i := 0; i < 3; i++ {
		now = now.Add(100 * time.Millisecond)
		f.sys.Advance(now, 100*time.Millisecond)
	}
	f.resolver.Flush(now)

	assert.Equal(t, 30.0, enemy.Health, "equal-valued hits from separate arrows both apply")
}
