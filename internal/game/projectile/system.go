// Package projectile advances spawned projectiles each tick and resolves
// their collisions into combat-resolver damage requests.
package projectile

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/riftforge/arena/internal/game/combat"
	"github.com/riftforge/arena/internal/game/geom"
	"github.com/riftforge/arena/internal/game/world"
)

// hitRadius is the projectile's own collision radius, added to the target's.
const hitRadius = 0.3

// maxTargetRadius bounds the body radius the sweep query has to account for.
// Candidates are gathered generously around the step's endpoint; the exact
// test is the segment distance against the real combined radii.
const maxTargetRadius = 1.0

// Config is the kinematic and payload profile of one spawned projectile.
type Config struct {
	Speed    float64
	Damage   float64
	Lifetime time.Duration
	// MaxDistance destroys the projectile after it travels this far.
	// 0 = unbounded (lifetime still applies).
	MaxDistance float64
	// Piercing projectiles continue after a hit; non-piercing are destroyed
	// on the first hit.
	Piercing bool
	// ExplosionRadius, when > 0, applies Damage to every damageable entity
	// within the radius of the impact/expiry point.
	ExplosionRadius float64
	// DebuffID, when set, is applied to each target hit via the system's
	// ApplyDebuff callback.
	DebuffID       string
	DebuffDuration time.Duration
	// Cause labels the damage requests this projectile queues.
	Cause string
}

// Projectile is one in-flight entity.
type Projectile struct {
	ID        string
	OwnerID   string
	Position  geom.Vec3
	Direction geom.Vec3 // unit length
	SpawnedAt time.Time

	cfg      Config
	traveled float64
	// hit tracks targets already damaged by this projectile so a piercing
	// shot cannot hit the same target twice.
	hit map[string]struct{}
}

// System owns all live projectiles for one simulation.
// Not safe for concurrent use; the simulation goroutine owns it.
type System struct {
	store    *world.Store
	resolver *combat.Resolver
	logger   *zap.Logger

	// ApplyDebuff, when non-nil, is invoked for each target hit by a
	// projectile carrying a debuff payload. The control layer supplies it so
	// the local-apply vs remote-delegate asymmetry stays in one place. The
	// hit's tick time rides along so debuff clocks stay on simulation time.
	ApplyDebuff func(targetID, debuffID string, duration time.Duration, sourceID string, now time.Time)

	live map[string]*Projectile
}

// NewSystem creates an empty projectile System.
//
// Precondition: store, resolver, and logger must be non-nil.
func NewSystem(store *world.Store, resolver *combat.Resolver, logger *zap.Logger) *System {
	return &System{
		store:    store,
		resolver: resolver,
		logger:   logger,
		live:     make(map[string]*Projectile),
	}
}

// Spawn creates a projectile at origin travelling along direction.
//
// When no damageable target other than the owner exists AND no remote peer
// needs to observe the projectile (syncRequired == false), the spawn is
// skipped entirely as a pure optimization and nil is returned. The spawn is
// never skipped when synchronization is required.
//
// Precondition: direction must be non-zero; cfg.Speed > 0.
func (s *System) Spawn(origin, direction geom.Vec3, ownerID string, cfg Config, syncRequired bool) *Projectile {
	if !syncRequired && !s.store.HasDamageableOther(ownerID) {
		return nil
	}
	p := &Projectile{
		ID:        uuid.NewString(),
		OwnerID:   ownerID,
		Position:  origin,
		Direction: direction.Normalized(),
		SpawnedAt: time.Now(),
		cfg:       cfg,
		hit:       make(map[string]struct{}),
	}
	s.live[p.ID] = p
	s.logger.Debug("projectile spawned",
		zap.String("id", p.ID),
		zap.String("owner", ownerID),
		zap.String("cause", cfg.Cause))
	return p
}

// Count returns the number of live projectiles.
func (s *System) Count() int {
	return len(s.live)
}

// Advance moves every projectile by dt, resolving collisions, explosions,
// lifetime, travel-distance, and world-geometry expiry.
func (s *System) Advance(now time.Time, dt time.Duration) {
	for id, p := range s.live {
		if s.step(p, now, dt) {
			delete(s.live, id)
		}
	}
}

// step advances one projectile and reports whether it should be destroyed.
func (s *System) step(p *Projectile, now time.Time, dt time.Duration) bool {
	if p.cfg.Lifetime > 0 && now.Sub(p.SpawnedAt) >= p.cfg.Lifetime {
		s.explode(p)
		return true
	}

	dist := p.cfg.Speed * dt.Seconds()
	if p.cfg.MaxDistance > 0 && p.traveled+dist > p.cfg.MaxDistance {
		dist = p.cfg.MaxDistance - p.traveled
	}
	prev := p.Position
	p.Position = p.Position.Add(p.Direction.Scale(dist))
	p.traveled += dist

	if s.store.Blocked(p.Position) {
		s.explode(p)
		return true
	}

	// Sweep the whole step: a fast projectile covers several body widths per
	// tick, so collision tests the travelled segment, not the endpoint.
	type candidate struct {
		target *world.Entity
		along  float64
	}
	var hits []candidate
	for _, target := range s.store.DamageableWithin(p.Position, dist+hitRadius+maxTargetRadius, p.OwnerID) {
		if _, seen := p.hit[target.ID]; seen {
			continue
		}
		if target.Position.Flat().DistanceToSegment(prev.Flat(), p.Position.Flat()) > hitRadius+target.Radius {
			continue
		}
		hits = append(hits, candidate{target, target.Position.Sub(prev).Dot(p.Direction)})
	}
	// Nearest body along the path takes the hit first, so a non-piercing
	// projectile stops at the front target.
	sort.Slice(hits, func(i, j int) bool { return hits[i].along < hits[j].along })
	for _, h := range hits {
		target := h.target
		p.hit[target.ID] = struct{}{}
		s.resolver.Queue(combat.Request{
			TargetID: target.ID,
			Amount:   p.cfg.Damage,
			SourceID: p.OwnerID,
			Cause:    p.cfg.Cause,
			HitID:    p.ID,
		})
		if p.cfg.DebuffID != "" && s.ApplyDebuff != nil {
			s.ApplyDebuff(target.ID, p.cfg.DebuffID, p.cfg.DebuffDuration, p.OwnerID, now)
		}
		if !p.cfg.Piercing {
			s.explode(p)
			return true
		}
	}

	if p.cfg.MaxDistance > 0 && p.traveled >= p.cfg.MaxDistance {
		s.explode(p)
		return true
	}
	return false
}

// explode applies the explosion payload, if any, at the projectile's final
// position. Targets already hit directly are excluded.
func (s *System) explode(p *Projectile) {
	if p.cfg.ExplosionRadius <= 0 {
		return
	}
	for _, target := range s.store.DamageableWithin(p.Position, p.cfg.ExplosionRadius, p.OwnerID) {
		if _, seen := p.hit[target.ID]; seen {
			continue
		}
		s.resolver.Queue(combat.Request{
			TargetID: target.ID,
			Amount:   p.cfg.Damage,
			SourceID: p.OwnerID,
			Cause:    p.cfg.Cause,
			HitID:    p.ID,
		})
	}
}
