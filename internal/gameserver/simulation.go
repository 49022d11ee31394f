// Package gameserver assembles one client's match simulation: the tick loop,
// the relay connection, inbound event dispatch, and remote avatar mirroring.
package gameserver

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/riftforge/arena/internal/game/combat"
	"github.com/riftforge/arena/internal/game/control"
	"github.com/riftforge/arena/internal/game/debuff"
	"github.com/riftforge/arena/internal/game/geom"
	"github.com/riftforge/arena/internal/game/projectile"
	"github.com/riftforge/arena/internal/game/resource"
	"github.com/riftforge/arena/internal/game/world"
	"github.com/riftforge/arena/internal/netsync"
	"github.com/riftforge/arena/internal/scripting"
)

// inboundBuffer sizes the channel between the relay reader goroutine and the
// simulation. Overflow drops the oldest-pending event rather than blocking
// the reader.
const inboundBuffer = 256

// Simulation owns one match from the local player's point of view. All game
// state is mutated on the Step goroutine only; the relay reader hands events
// over through a buffered channel.
type Simulation struct {
	localID    string
	store      *world.Store
	controller *control.Controller
	resolver   *combat.Resolver
	spawner    *projectile.System
	pools      *resource.Pools
	debuffs    *debuff.Registry
	emitter    netsync.Emitter
	logger     *zap.Logger

	inbound chan netsync.Event
	lastTick time.Time
}

// SimDeps bundles the pieces a Simulation coordinates. Construction is
// explicit: callers build every subsystem and hand it over.
type SimDeps struct {
	LocalID    string
	Store      *world.Store
	Controller *control.Controller
	Resolver   *combat.Resolver
	Spawner    *projectile.System
	Pools      *resource.Pools
	Debuffs    *debuff.Registry
	Emitter    netsync.Emitter
	Logger     *zap.Logger
}

// NewSimulation wires a Simulation.
//
// Precondition: every SimDeps field must be non-nil.
func NewSimulation(d SimDeps) *Simulation {
	return &Simulation{
		localID:    d.LocalID,
		store:      d.Store,
		controller: d.Controller,
		resolver:   d.Resolver,
		spawner:    d.Spawner,
		pools:      d.Pools,
		debuffs:    d.Debuffs,
		emitter:    d.Emitter,
		logger:     d.Logger,
		inbound:    make(chan netsync.Event, inboundBuffer),
	}
}

// Deliver hands an inbound sync event to the simulation. Safe to call from
// the relay reader goroutine. A full buffer drops the event with a warning:
// losing an advisory event is cosmetic, and authoritative events are
// re-derivable from subsequent state.
func (s *Simulation) Deliver(ev netsync.Event) {
	select {
	case s.inbound <- ev:
	default:
		s.logger.Warn("inbound event buffer full, dropping",
			zap.String("type", string(ev.Type)),
			zap.String("sender", ev.Sender))
	}
}

// Step advances the whole simulation by one tick. Order matters: inbound
// events apply first so remote authority lands before local systems read
// state, then debuffs, stacking cleanup, controller input and movement,
// projectiles, the damage flush, and finally resource regeneration.
func (s *Simulation) Step(now time.Time) {
	dt := s.dt(now)

	s.drainInbound(now)
	s.tickDebuffs(now)
	s.controller.PruneStacks(now)
	s.controller.Update(now, dt)
	s.spawner.Advance(now, dt)
	s.resolver.Flush(now)
	s.pools.Regenerate(dt)
}

// dt returns the wall-clock delta since the previous step, clamped so a
// stalled process does not produce one giant catch-up tick.
func (s *Simulation) dt(now time.Time) time.Duration {
	const maxStep = 250 * time.Millisecond
	if s.lastTick.IsZero() {
		s.lastTick = now
		return 0
	}
	dt := now.Sub(s.lastTick)
	s.lastTick = now
	if dt > maxStep {
		dt = maxStep
	}
	if dt < 0 {
		dt = 0
	}
	return dt
}

// drainInbound applies every buffered inbound event.
func (s *Simulation) drainInbound(now time.Time) {
	for {
		select {
		case ev := <-s.inbound:
			s.dispatch(ev, now)
		default:
			return
		}
	}
}

// dispatch routes one inbound event. Damage, debuffs, and knockbacks
// targeting the local player are authoritative; everything else drives the
// sender's mirrored avatar. Events from unknown senders (join races) are
// dropped for this tick.
func (s *Simulation) dispatch(ev netsync.Event, now time.Time) {
	if ev.Sender == s.localID {
		return
	}
	switch ev.Type {
	case netsync.TypeDamage, netsync.TypeDebuff, netsync.TypeKnockback:
		s.controller.ApplyAuthoritative(ev, now)
	case netsync.TypeAttack, netsync.TypeAbility, netsync.TypeEffect,
		netsync.TypeAnimState, netsync.TypeStealth, netsync.TypeHealing:
		s.mirror(ev, now)
	default:
		s.logger.Debug("dropping unknown inbound event type",
			zap.String("type", string(ev.Type)))
	}
}

// mirror updates the sender's remote avatar from an advisory event. Position
// and facing ride on attack/ability events; they refresh the staleness clock
// used by rear-arc detection.
func (s *Simulation) mirror(ev netsync.Event, now time.Time) {
	avatar, ok := s.store.Get(ev.Sender)
	if !ok {
		s.logger.Debug("advisory event for unknown peer",
			zap.String("sender", ev.Sender),
			zap.String("type", string(ev.Type)))
		return
	}

	switch p := ev.Payload.(type) {
	case *netsync.Attack:
		avatar.Position = vecFromWire(p.Position)
		avatar.Facing = vecFromWire(p.Direction)
		avatar.FacingSyncedAt = now
	case *netsync.Ability:
		avatar.Position = vecFromWire(p.Position)
		if p.Direction != nil {
			avatar.Facing = vecFromWire(*p.Direction)
			avatar.FacingSyncedAt = now
		}
	case *netsync.Healing:
		avatar.Heal(p.Amount)
	case *netsync.Stealth:
		// Mirrored avatars keep simulating while shrouded; visibility is a
		// presentation concern tracked on the entity.
		avatar.Shrouded = p.IsInvisible
	case *netsync.AnimState, *netsync.Effect:
		// Pure presentation payloads; nothing for the simulation to track.
	}
}

// SpawnEnemy adds a locally-owned AI combatant to the match.
func (s *Simulation) SpawnEnemy(e *world.Entity) error {
	e.Local = true
	e.Category = world.CategoryEnemy
	if e.Debuffs == nil {
		e.Debuffs = debuff.NewSet(e.ID, nil)
	}
	return s.store.Add(e)
}

// AddPeer registers a remote player's mirrored avatar.
func (s *Simulation) AddPeer(id string, hooks debuff.HookRunner) error {
	return s.store.Add(&world.Entity{
		ID:        id,
		Category:  world.CategoryPlayer,
		Local:     false,
		Health:    200,
		MaxHealth: 200,
		Radius:    0.5,
		Debuffs:   debuff.NewSet(id, hooks),
	})
}

// RemovePeer drops a departed player's avatar.
func (s *Simulation) RemovePeer(id string) {
	s.store.Remove(id)
}

// tickDebuffs advances every locally-owned entity's debuff set, queueing
// periodic damage into the resolver. Remote avatars are skipped: their
// debuffs are resolved by their owning simulation.
func (s *Simulation) tickDebuffs(now time.Time) {
	for _, e := range s.store.All() {
		if !e.Local || e.Debuffs == nil {
			continue
		}
		expired, damage := e.Debuffs.Tick(now)
		for _, id := range expired {
			s.logger.Debug("debuff expired",
				zap.String("entity", e.ID),
				zap.String("debuff", id))
		}
		for _, d := range damage {
			s.resolver.Queue(combat.Request{
				TargetID: e.ID,
				Amount:   d.Amount,
				SourceID: d.SourceID,
				Cause:    d.DebuffID,
				HitID:    fmt.Sprintf("%s/%s/%d", e.ID, d.DebuffID, now.UnixNano()),
			})
		}
	}
}

func vecFromWire(v netsync.Vec) geom.Vec3 {
	return geom.Vec3{X: v.X, Y: v.Y, Z: v.Z}
}

// NewHookRunner builds the Lua hook bridge between debuff sets and the
// scripting sandbox, with hook-queued damage routed into the resolver.
func NewHookRunner(resolver *combat.Resolver, instLimit int, logger *zap.Logger) debuff.HookRunner {
	r := scripting.NewRunner(instLimit, logger)
	r.QueueDamage = func(targetID string, amount float64, cause string) {
		resolver.Queue(combat.Request{
			TargetID: targetID,
			Amount:   amount,
			SourceID: targetID,
			Cause:    cause,
			HitID:    uuid.NewString(),
		})
	}
	return &hookAdapter{runner: r}
}

// hookAdapter adapts scripting.Runner to the debuff.HookRunner interface.
type hookAdapter struct {
	runner *scripting.Runner
}

func (h *hookAdapter) RunHook(snippet, debuffID, targetID, sourceID string, duration time.Duration) error {
	return h.runner.Run(snippet, scripting.HookEnv{
		DebuffID:    debuffID,
		TargetID:    targetID,
		SourceID:    sourceID,
		DurationSec: duration.Seconds(),
	})
}
