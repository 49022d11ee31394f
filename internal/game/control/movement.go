package control

import (
	"time"

	"go.uber.org/zap"

	"github.com/riftforge/arena/internal/game/combat"
	"github.com/riftforge/arena/internal/game/geom"
	"github.com/riftforge/arena/internal/game/weapon"
	"github.com/riftforge/arena/internal/game/world"
	"github.com/riftforge/arena/internal/netsync"
)

// dashHitReach is the extra reach a dashing body sweeps beyond the two
// collision radii.
const dashHitReach = 0.4

// dashState is the live dash movement override.
type dashState struct {
	def       *weapon.AbilityDef
	slot      weapon.Slot
	direction geom.Vec3
	speed     float64
	remaining float64
	// hit tracks targets already damaged so a pass-through dash hits each
	// body once.
	hit map[string]struct{}
}

// arcPhase sequences the vertical-arc movement override.
type arcPhase int

const (
	arcAscending arcPhase = iota
	arcDescending
)

// arcState is the live vertical-arc override.
type arcState struct {
	def       *weapon.AbilityDef
	slot      weapon.Slot
	phase     arcPhase
	velocityY float64
	startedAt time.Time
	deadline  time.Time
}

// beginDash opens the dash channel along the current aim vector.
func (c *Controller) beginDash(slot weapon.Slot, def *weapon.AbilityDef, caster *world.Entity, now time.Time) {
	dir := c.orient.Forward().Flat().Normalized()
	if dir == (geom.Vec3{}) {
		dir = caster.Facing.Flat().Normalized()
	}
	c.dash = &dashState{
		def:       def,
		slot:      slot,
		direction: dir,
		speed:     def.Dash.Distance / def.Dash.DurationSec,
		remaining: def.Dash.Distance,
		hit:       make(map[string]struct{}),
	}
	c.channel = channelState{Kind: ChannelDashing, Slot: slot, Ability: def, StartedAt: now}
	c.cooldowns.SetActive(slot, true)
	c.emitter.Emit(netsync.Event{
		Type:   netsync.TypeAbility,
		Sender: c.localID,
		Payload: &netsync.Ability{
			AbilityType: string(def.ID),
			Position:    vecToWire(caster.Position),
			Direction:   wirePtr(dir),
		},
	})
}

// updateDash advances the dash by dt: moves the caster, damages swept
// targets, and ends on obstacle contact, stop-on-hit, or distance exhausted.
func (c *Controller) updateDash(caster *world.Entity, now time.Time, dt time.Duration) {
	d := c.dash
	step := d.speed * dt.Seconds()
	if step > d.remaining {
		step = d.remaining
	}
	next := caster.Position.Add(d.direction.Scale(step))
	if c.store.Blocked(next) {
		c.endDash(now)
		return
	}
	caster.Position = next
	d.remaining -= step

	// Query a generous sweep, then test against the exact body radii.
	const sweepRadius = 2.0
	for _, target := range c.store.DamageableWithin(caster.Position, sweepRadius, c.localID) {
		if _, seen := d.hit[target.ID]; seen {
			continue
		}
		if caster.Position.Flat().DistanceTo(target.Position.Flat()) > caster.Radius+target.Radius+dashHitReach {
			continue
		}
		d.hit[target.ID] = struct{}{}
		c.resolver.Queue(combat.Request{
			TargetID: target.ID,
			Amount:   d.def.Damage,
			SourceID: c.localID,
			Cause:    string(d.def.ID),
			HitID:    c.nextHitID(),
		})
		if d.def.Dash.Knockback {
			c.knockback(target, d.direction, now)
		}
		c.breakStealth()
		if d.def.Dash.StopOnHit {
			c.endDash(now)
			return
		}
	}

	if d.remaining <= 0 {
		c.endDash(now)
	}
}

// endDash closes the dash channel.
func (c *Controller) endDash(now time.Time) {
	c.dash = nil
	c.closeChannel()
}

// knockback displaces an AI target locally; a remote player receives a
// knockback sync event and displaces itself.
func (c *Controller) knockback(target *world.Entity, dir geom.Vec3, now time.Time) {
	const distance = 2.5
	const durationMs = 200
	if target.Local {
		next := target.Position.Add(dir.Scale(distance))
		if !c.store.Blocked(next) {
			target.Position = next
		}
		return
	}
	c.emitter.Emit(netsync.Event{
		Type:   netsync.TypeKnockback,
		Sender: c.localID,
		Payload: &netsync.Knockback{
			TargetID:   target.ID,
			Direction:  vecToWire(dir),
			Distance:   distance,
			DurationMs: durationMs,
		},
	})
}

// beginArc launches the vertical-arc phase machine.
func (c *Controller) beginArc(slot weapon.Slot, def *weapon.AbilityDef, caster *world.Entity, now time.Time) {
	c.arc = &arcState{
		def:       def,
		slot:      slot,
		phase:     arcAscending,
		velocityY: def.Arc.AscendVelocity,
		startedAt: now,
		deadline:  now.Add(time.Duration(def.Arc.TimeoutSec * float64(time.Second))),
	}
	c.channel = channelState{Kind: ChannelArcing, Slot: slot, Ability: def, StartedAt: now}
	c.cooldowns.SetActive(slot, true)
	c.emitter.Emit(netsync.Event{
		Type:   netsync.TypeAbility,
		Sender: c.localID,
		Payload: &netsync.Ability{
			AbilityType: string(def.ID),
			Position:    vecToWire(caster.Position),
		},
	})
}

// updateArc advances the ascend/descend phases and resolves the landing
// impact. The deadline is a stuck-state guard: if the arc has not landed by
// then it is forced down at the current position.
func (c *Controller) updateArc(caster *world.Entity, now time.Time, dt time.Duration) {
	a := c.arc
	if now.After(a.deadline) {
		c.logger.Warn("vertical arc timed out, forcing landing",
			zap.String("ability", string(a.def.ID)))
		caster.Position.Y = 0
		c.landArc(caster, now)
		return
	}

	const gravity = 9.8
	secs := dt.Seconds()
	switch a.phase {
	case arcAscending:
		caster.Position.Y += a.velocityY * secs
		if caster.Position.Y >= a.def.Arc.ApexHeight {
			caster.Position.Y = a.def.Arc.ApexHeight
			a.phase = arcDescending
			a.velocityY = 0
		}
	case arcDescending:
		a.velocityY += gravity * a.def.Arc.GravityScale * secs
		caster.Position.Y -= a.velocityY * secs
		if caster.Position.Y <= 0 {
			caster.Position.Y = 0
			c.landArc(caster, now)
		}
	}
}

// landArc resolves the impact damage and closes the arc channel.
func (c *Controller) landArc(caster *world.Entity, now time.Time) {
	def := c.arc.def
	c.arc = nil
	c.closeChannel()

	hitID := c.nextHitID()
	for _, target := range c.store.DamageableWithin(caster.Position, def.Arc.Radius, c.localID) {
		c.resolver.Queue(combat.Request{
			TargetID: target.ID,
			Amount:   def.Damage,
			SourceID: c.localID,
			Cause:    string(def.ID),
			HitID:    hitID,
		})
	}
	c.breakStealth()
	c.visuals.Notify(VisualEvent{Kind: "arc_impact", Position: caster.Position, AbilityID: def.ID})
	c.emitter.Emit(netsync.Event{
		Type:   netsync.TypeEffect,
		Sender: c.localID,
		Payload: &netsync.Effect{
			EffectType: string(def.ID) + "_impact",
			Position:   vecToWire(caster.Position),
		},
	})
}

// moveRegular applies input-driven movement scaled by active debuffs. Frozen
// and stunned entities have a zero movement scale and stay in place.
func (c *Controller) moveRegular(caster *world.Entity, dt time.Duration) {
	dir := c.input.MoveDirection().Flat()
	if dir == (geom.Vec3{}) {
		c.faceForward(caster)
		return
	}
	scale := 1.0
	if caster.Debuffs != nil {
		scale = caster.Debuffs.MovementScale()
	}
	if scale <= 0 {
		return
	}
	next := caster.Position.Add(dir.Normalized().Scale(baseMoveSpeed * scale * dt.Seconds()))
	if !c.store.Blocked(next) {
		caster.Position = next
	}
	c.faceForward(caster)
}

// faceForward keeps the entity's facing aligned with the aim vector.
func (c *Controller) faceForward(caster *world.Entity) {
	f := c.orient.Forward().Flat()
	if f != (geom.Vec3{}) {
		caster.Facing = f.Normalized()
	}
}
