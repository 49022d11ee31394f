package control

import (
	"time"

	"github.com/riftforge/arena/internal/game/combat"
	"github.com/riftforge/arena/internal/game/weapon"
	"github.com/riftforge/arena/internal/game/world"
	"github.com/riftforge/arena/internal/netsync"
)

// handlePrimary processes one tick of primary-attack input. Melee weapons
// attack on the pressed edge; the bow draws while held and fires on release.
// pressed is the raw input level; the controller tracks the edge itself.
func (c *Controller) handlePrimary(pressed bool, now time.Time) {
	def, ok := c.reg.WeaponDef(c.Equipped())
	if !ok {
		return
	}
	caster, ok := c.localEntity()
	if !ok || !caster.Alive() {
		c.prevPrimary = pressed
		return
	}
	if caster.Debuffs != nil && caster.Debuffs.BlocksActions() {
		c.prevPrimary = pressed
		return
	}

	switch {
	case def.Melee != nil:
		if pressed && !c.prevPrimary {
			c.meleeClick(def, caster, now)
		}
	case def.ChargeShot != nil:
		c.updateDraw(def, caster, pressed, now)
	}
	c.prevPrimary = pressed
}

// meleeClick resolves one primary swing. Clicks are gated only by the attack
// rate, never by the channel: a melee swing is instant and does not occupy
// the channel, so the combo keeps working while cooldowns elapse elsewhere.
// The combo step advances on swing-complete signals only, so mashing the
// button repeats the current step.
func (c *Controller) meleeClick(def *weapon.Def, caster *world.Entity, now time.Time) {
	kind := c.Equipped()
	melee := def.Melee
	if last, ok := c.lastPrimary[kind]; ok && now.Sub(last) < melee.Rate() {
		return
	}
	c.lastPrimary[kind] = now

	combo := c.comboFor(kind)
	if !combo.LastAttackAt.IsZero() && now.Sub(combo.LastAttackAt) > c.cfg.ComboResetWindow {
		combo.Step = 1
	}
	combo.LastAttackAt = now

	forward := c.orient.Forward().Flat().Normalized()
	amount := melee.StepDamage(combo.Step)
	hitID := c.nextHitID()
	for _, target := range c.store.DamageableInCone(caster.Position, forward, melee.ConeDeg/2, melee.Range, c.localID) {
		c.resolver.Queue(combat.Request{
			TargetID: target.ID,
			Amount:   amount,
			SourceID: c.localID,
			Cause:    "primary_melee",
			HitID:    hitID,
		})
		c.pools.OnHitDealt(kind)
	}
	c.breakStealth()
	c.emitter.Emit(netsync.Event{
		Type:   netsync.TypeAttack,
		Sender: c.localID,
		Payload: &netsync.Attack{
			AttackType: "melee",
			Position:   vecToWire(caster.Position),
			Direction:  vecToWire(forward),
			Animation: &netsync.AnimationData{
				ComboStep: combo.Step,
				Damage:    amount,
			},
		},
	})
}

// OnSwingComplete is the external signal that a swing animation finished.
// It is the only input that advances the combo: the step cycles through the
// weapon's multiplier table.
func (c *Controller) OnSwingComplete() {
	kind := c.Equipped()
	def, ok := c.reg.WeaponDef(kind)
	if !ok || def.Melee == nil {
		return
	}
	steps := len(def.Melee.StepMultipliers)
	if steps == 0 {
		steps = 1
	}
	combo := c.comboFor(kind)
	combo.Step = combo.Step%steps + 1
}

// updateDraw advances the bow's hold-and-release state machine for one tick.
func (c *Controller) updateDraw(def *weapon.Def, caster *world.Entity, pressed bool, now time.Time) {
	shot := def.ChargeShot
	drawing := c.channel.Kind == ChannelDrawing

	switch {
	case pressed && !drawing && c.channel.Kind == ChannelNone:
		c.channel = channelState{Kind: ChannelDrawing, StartedAt: now}
		c.emitter.Emit(netsync.Event{
			Type:   netsync.TypeAnimState,
			Sender: c.localID,
			Payload: &netsync.AnimState{
				Weapon:   string(c.Equipped()),
				Charging: true,
				Channel:  "drawing",
			},
		})

	case !pressed && drawing:
		progress := clamp01(now.Sub(c.channel.StartedAt).Seconds() / shot.ChargeDurationSec)
		c.channel = channelState{}
		tier := shot.TierFor(progress)
		damage := shot.TierDamage(tier)

		forward := c.orient.Forward().Flat().Normalized()
		cfg := chargeShotConfig(shot, damage)
		c.spawner.Spawn(caster.Position, forward, c.localID, cfg, c.peersPresent())
		c.breakStealth()
		c.emitter.Emit(netsync.Event{
			Type:   netsync.TypeAttack,
			Sender: c.localID,
			Payload: &netsync.Attack{
				AttackType: "charge_shot",
				Position:   vecToWire(caster.Position),
				Direction:  vecToWire(forward),
				Animation: &netsync.AnimationData{
					ChargeProgress: progress,
					Tier:           tier.String(),
					Damage:         damage,
				},
			},
		})
	}
}
