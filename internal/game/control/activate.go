package control

import (
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/riftforge/arena/internal/game/combat"
	"github.com/riftforge/arena/internal/game/geom"
	"github.com/riftforge/arena/internal/game/projectile"
	"github.com/riftforge/arena/internal/game/weapon"
	"github.com/riftforge/arena/internal/game/world"
	"github.com/riftforge/arena/internal/netsync"
)

// Activation failure reasons. Callers treat every failure the same way
// (nothing happened); the reasons exist for logging and tests.
var (
	ErrSlotLocked      = fmt.Errorf("slot is locked")
	ErrOnCooldown      = fmt.Errorf("ability on cooldown")
	ErrInsufficient    = fmt.Errorf("insufficient resource")
	ErrChannelBusy     = fmt.Errorf("another activation is in progress")
	ErrActionsBlocked  = fmt.Errorf("actions blocked by debuff")
	ErrUnknownSlot     = fmt.Errorf("no ability bound to slot")
	ErrCasterMissing   = fmt.Errorf("local entity not in world")
	ErrAlreadyDead     = fmt.Errorf("caster is dead")
	ErrTertiaryPending = fmt.Errorf("tertiary weapon not yet unlocked")
)

// Activate attempts to trigger the equipped weapon's ability on key.
//
// The gate order is fixed: slot unlock, caster liveness, action-blocking
// debuffs, cooldown, affordability, channel exclusivity. Only after every
// gate passes are the resource spend and cooldown record committed together,
// so a failed activation never costs anything.
//
// Postcondition: on error, no resource was spent and no cooldown started.
func (c *Controller) Activate(key weapon.SlotKey, now time.Time) error {
	slot := weapon.Slot{Weapon: c.Equipped(), Key: key}
	def, ok := c.reg.ForSlot(slot)
	if !ok {
		return ErrUnknownSlot
	}
	if !c.unlocks.IsUnlocked(slot) {
		return ErrSlotLocked
	}
	caster, ok := c.localEntity()
	if !ok {
		return ErrCasterMissing
	}
	if !caster.Alive() {
		return ErrAlreadyDead
	}
	if caster.Debuffs != nil && caster.Debuffs.BlocksActions() {
		return ErrActionsBlocked
	}
	if !c.cooldowns.Ready(slot, now) {
		return ErrOnCooldown
	}
	view, ok := c.pools.ViewOf(slot.Weapon)
	if !ok || view.Current < def.Cost {
		return ErrInsufficient
	}
	if c.channel.Kind != ChannelNone {
		return ErrChannelBusy
	}

	// Commit point: spend and cooldown start together. The cooldown runs
	// from activation even when the effect (charge, dash, arc) lands later.
	if !c.pools.Consume(slot.Weapon, def.Cost) {
		return ErrInsufficient
	}
	c.cooldowns.Record(slot, now, def.Cooldown())

	c.logger.Debug("ability activated",
		zap.String("slot", slot.String()),
		zap.String("ability", string(def.ID)))

	switch def.Mechanic {
	case weapon.MechanicChargeAuto:
		c.beginAutoCharge(slot, def, now)
	case weapon.MechanicProjectile:
		c.fireProjectiles(def, caster.Position, now)
	case weapon.MechanicMelee:
		c.strikeMelee(def, caster, now)
	case weapon.MechanicStealth:
		c.toggleStealth(def, now)
	case weapon.MechanicDrain:
		c.strikeDrain(def, caster, now)
	case weapon.MechanicArea:
		c.burstArea(def, caster, now)
	case weapon.MechanicDash:
		c.beginDash(slot, def, caster, now)
	case weapon.MechanicVerticalArc:
		c.beginArc(slot, def, caster, now)
	}
	return nil
}

// beginAutoCharge opens the fixed-duration charge channel. The shot fires
// from Update when the ramp completes; releasing input early has no effect.
func (c *Controller) beginAutoCharge(slot weapon.Slot, def *weapon.AbilityDef, now time.Time) {
	c.channel = channelState{Kind: ChannelCharging, Slot: slot, Ability: def, StartedAt: now}
	c.cooldowns.SetActive(slot, true)
	c.emitter.Emit(netsync.Event{
		Type:   netsync.TypeAnimState,
		Sender: c.localID,
		Payload: &netsync.AnimState{
			Weapon:   string(slot.Weapon),
			Charging: true,
			Channel:  "charging",
		},
	})
}

// finishAutoCharge fires the charged shot and closes the channel.
func (c *Controller) finishAutoCharge(now time.Time) {
	def := c.channel.Ability
	c.closeChannel()

	caster, ok := c.localEntity()
	if !ok {
		return
	}
	forward := c.orient.Forward().Flat().Normalized()
	cfg := projectileConfig(def, def.Damage)
	c.spawner.Spawn(caster.Position, forward, c.localID, cfg, c.peersPresent())
	c.breakStealth()
	c.emitter.Emit(netsync.Event{
		Type:   netsync.TypeAbility,
		Sender: c.localID,
		Payload: &netsync.Ability{
			AbilityType: string(def.ID),
			Position:    vecToWire(caster.Position),
			Direction:   wirePtr(forward),
		},
	})
	c.visuals.Notify(VisualEvent{Kind: "charge_release", Position: caster.Position, AbilityID: def.ID})
}

// fireProjectiles spawns the ability's projectile fan around the aim vector.
func (c *Controller) fireProjectiles(def *weapon.AbilityDef, origin geom.Vec3, now time.Time) {
	forward := c.orient.Forward().Flat().Normalized()
	count := def.Projectile.Count
	if count < 1 {
		count = 1
	}
	cfg := projectileConfig(def, def.Damage)
	sync := c.peersPresent()
	for i := 0; i < count; i++ {
		// Fan the shots symmetrically around the aim vector.
		offset := (float64(i) - float64(count-1)/2) * def.Projectile.SpreadDeg
		c.spawner.Spawn(origin, rotateY(forward, offset), c.localID, cfg, sync)
	}
	c.breakStealth()
	c.emitter.Emit(netsync.Event{
		Type:   netsync.TypeAbility,
		Sender: c.localID,
		Payload: &netsync.Ability{
			AbilityType: string(def.ID),
			Position:    vecToWire(origin),
			Direction:   wirePtr(forward),
		},
	})
}

// strikeMelee resolves an instant cone strike, including the backstab and
// stacking variants.
func (c *Controller) strikeMelee(def *weapon.AbilityDef, caster *world.Entity, now time.Time) {
	forward := c.orient.Forward().Flat().Normalized()
	targets := c.store.DamageableInCone(caster.Position, forward, def.ConeDeg/2, def.Range, c.localID)
	hitID := c.nextHitID()
	for _, target := range targets {
		amount := def.Damage
		if def.Stacks != nil {
			amount = c.sunderHit(def, target.ID, now)
		} else if def.RearArcBonus > 0 &&
			target.FreshFacing(now, facingStaleTolerance) &&
			geom.BehindTarget(caster.Position, target.Position, target.Facing, def.RearArcDot) {
			amount *= def.RearArcBonus
		}
		c.resolver.Queue(combat.Request{
			TargetID: target.ID,
			Amount:   amount,
			SourceID: c.localID,
			Cause:    string(def.ID),
			HitID:    hitID,
		})
		c.pools.OnHitDealt(c.Equipped())
	}
	c.breakStealth()
	c.emitter.Emit(netsync.Event{
		Type:   netsync.TypeAbility,
		Sender: c.localID,
		Payload: &netsync.Ability{
			AbilityType: string(def.ID),
			Position:    vecToWire(caster.Position),
			Direction:   wirePtr(forward),
		},
	})
}

// sunderHit resolves one stacking strike against target: damage is read from
// the table at the target's pre-hit stack count, then the count advances.
// Records older than the stacking window count as zero stacks. A hit at full
// stacks detonates: it deals the top-table damage, stuns the target, and
// resets the count.
func (c *Controller) sunderHit(def *weapon.AbilityDef, targetID string, now time.Time) float64 {
	spec := def.Stacks
	rec, ok := c.sunder[targetID]
	if !ok {
		rec = &sunderRecord{}
		c.sunder[targetID] = rec
	}
	if now.Sub(rec.lastApplied).Seconds() > spec.WindowSec {
		rec.stacks = 0
	}
	pre := rec.stacks
	amount := spec.DamageByStacks[pre]
	if pre == len(spec.DamageByStacks)-1 {
		c.applyDebuff(targetID, weapon.DebuffStunned, c.localID,
			time.Duration(spec.StunSec*float64(time.Second)), now)
		rec.stacks = 0
	} else {
		rec.stacks = pre + 1
	}
	rec.lastApplied = now
	return amount
}

// toggleStealth flips invisibility and mirrors it to peers.
func (c *Controller) toggleStealth(def *weapon.AbilityDef, now time.Time) {
	c.stealth = !c.stealth
	c.emitter.Emit(netsync.Event{
		Type:    netsync.TypeStealth,
		Sender:  c.localID,
		Payload: &netsync.Stealth{IsInvisible: c.stealth},
	})
}

// breakStealth drops invisibility on any offensive action.
func (c *Controller) breakStealth() {
	if !c.stealth {
		return
	}
	c.stealth = false
	c.emitter.Emit(netsync.Event{
		Type:    netsync.TypeStealth,
		Sender:  c.localID,
		Payload: &netsync.Stealth{IsInvisible: false},
	})
}

// strikeDrain resolves a cone strike that heals the caster for a share of the
// damage dealt, capped at MaxTargets.
func (c *Controller) strikeDrain(def *weapon.AbilityDef, caster *world.Entity, now time.Time) {
	forward := c.orient.Forward().Flat().Normalized()
	targets := c.store.DamageableInCone(caster.Position, forward, def.ConeDeg/2, def.Range, c.localID)
	if def.MaxTargets > 0 && len(targets) > def.MaxTargets {
		targets = targets[:def.MaxTargets]
	}
	hitID := c.nextHitID()
	var total float64
	for _, target := range targets {
		c.resolver.Queue(combat.Request{
			TargetID: target.ID,
			Amount:   def.Damage,
			SourceID: c.localID,
			Cause:    string(def.ID),
			HitID:    hitID,
		})
		total += def.Damage
	}
	if total > 0 {
		heal := total * def.HealRatio
		caster.Heal(heal)
		c.emitter.Emit(netsync.Event{
			Type:   netsync.TypeHealing,
			Sender: c.localID,
			Payload: &netsync.Healing{
				Amount:      heal,
				HealingType: string(def.ID),
				Position:    vecToWire(caster.Position),
			},
		})
	}
	c.breakStealth()
	c.emitter.Emit(netsync.Event{
		Type:   netsync.TypeAbility,
		Sender: c.localID,
		Payload: &netsync.Ability{
			AbilityType: string(def.ID),
			Position:    vecToWire(caster.Position),
			Direction:   wirePtr(forward),
		},
	})
}

// burstArea resolves a self-centered radius ability: damage and/or a debuff
// on every damageable entity in range. The caster is never a target of their
// own burst.
func (c *Controller) burstArea(def *weapon.AbilityDef, caster *world.Entity, now time.Time) {
	targets := c.store.DamageableWithin(caster.Position, def.Area.Radius, c.localID)
	hitID := c.nextHitID()
	for _, target := range targets {
		if def.Damage > 0 {
			c.resolver.Queue(combat.Request{
				TargetID: target.ID,
				Amount:   def.Damage,
				SourceID: c.localID,
				Cause:    string(def.ID),
				HitID:    hitID,
			})
		}
		if def.Area.DebuffID != "" {
			c.applyDebuff(target.ID, def.Area.DebuffID, c.localID,
				time.Duration(def.Area.DebuffDuration*float64(time.Second)), now)
		}
	}
	c.breakStealth()
	c.emitter.Emit(netsync.Event{
		Type:   netsync.TypeAbility,
		Sender: c.localID,
		Payload: &netsync.Ability{
			AbilityType: string(def.ID),
			Position:    vecToWire(caster.Position),
		},
	})
	c.visuals.Notify(VisualEvent{Kind: "area_burst", Position: caster.Position, AbilityID: def.ID})
}

// peersPresent reports whether any remote player is in the match, which
// forces projectile spawns even with nothing damageable in range.
func (c *Controller) peersPresent() bool {
	for _, e := range c.store.All() {
		if e.Category == world.CategoryPlayer && !e.Local {
			return true
		}
	}
	return false
}

// projectileConfig translates an ability's projectile spec into the spawner's
// runtime config. Area payloads on a projectile ability ride along as
// per-hit debuffs.
func projectileConfig(def *weapon.AbilityDef, damage float64) projectile.Config {
	spec := def.Projectile
	cfg := projectile.Config{
		Speed:           spec.Speed,
		Damage:          damage,
		Lifetime:        time.Duration(spec.LifetimeSec * float64(time.Second)),
		MaxDistance:     spec.MaxDistance,
		Piercing:        spec.Piercing,
		ExplosionRadius: spec.ExplosionRadius,
		Cause:           string(def.ID),
	}
	if def.Area != nil && def.Area.DebuffID != "" {
		cfg.DebuffID = def.Area.DebuffID
		cfg.DebuffDuration = time.Duration(def.Area.DebuffDuration * float64(time.Second))
	}
	return cfg
}

// chargeShotConfig translates the bow's primary projectile spec with the
// tier-resolved damage.
func chargeShotConfig(shot *weapon.ChargeShotSpec, damage float64) projectile.Config {
	spec := shot.Projectile
	return projectile.Config{
		Speed:           spec.Speed,
		Damage:          damage,
		Lifetime:        time.Duration(spec.LifetimeSec * float64(time.Second)),
		MaxDistance:     spec.MaxDistance,
		Piercing:        spec.Piercing,
		ExplosionRadius: spec.ExplosionRadius,
		Cause:           "charge_shot",
	}
}

// rotateY rotates v around the vertical axis by deg degrees.
func rotateY(v geom.Vec3, deg float64) geom.Vec3 {
	rad := deg * math.Pi / 180
	sin, cos := math.Sin(rad), math.Cos(rad)
	return geom.Vec3{
		X: v.X*cos + v.Z*sin,
		Y: v.Y,
		Z: -v.X*sin + v.Z*cos,
	}
}

// closeChannel clears the channel and its slot's active flag.
func (c *Controller) closeChannel() {
	if c.channel.Kind == ChannelNone {
		return
	}
	if c.channel.Ability != nil {
		c.cooldowns.SetActive(c.channel.Slot, false)
	}
	c.channel = channelState{}
}

func wirePtr(v geom.Vec3) *netsync.Vec {
	w := vecToWire(v)
	return &w
}
