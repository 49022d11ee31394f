package control

import (
	"time"

	"go.uber.org/zap"

	"github.com/riftforge/arena/internal/game/weapon"
)

// slotActions maps input actions to ability slot keys.
var slotActions = []struct {
	action Action
	key    weapon.SlotKey
}{
	{ActionSlotQ, weapon.SlotQ},
	{ActionSlotE, weapon.SlotE},
	{ActionSlotR, weapon.SlotR},
	{ActionSlotF, weapon.SlotF},
	{ActionSlotP, weapon.SlotP},
}

// Update runs one controller tick: weapon switching, movement (override or
// regular), primary-attack input, ability-slot input, and channel
// progression. Damage produced here lands in the resolver queue and is
// applied by the simulation's flush phase.
func (c *Controller) Update(now time.Time, dt time.Duration) {
	caster, ok := c.localEntity()
	if !ok || !caster.Alive() {
		return
	}

	if c.input.IsActionActive(ActionSwitch) && !c.prevSwitch {
		c.RequestSwitch(now)
	}
	c.prevSwitch = c.input.IsActionActive(ActionSwitch)

	// Movement: a dash or arc overrides input-driven movement entirely.
	switch c.channel.Kind {
	case ChannelDashing:
		c.updateDash(caster, now, dt)
	case ChannelArcing:
		c.updateArc(caster, now, dt)
	default:
		c.moveRegular(caster, dt)
	}

	c.handlePrimary(c.input.IsActionActive(ActionPrimary), now)
	c.progressChannel(now)

	for _, sa := range slotActions {
		pressed := c.input.IsActionActive(sa.action)
		if pressed && !c.prevSlots[sa.action] {
			if err := c.Activate(sa.key, now); err != nil {
				c.logger.Debug("activation rejected",
					zap.String("slot", weapon.Slot{Weapon: c.Equipped(), Key: sa.key}.String()),
					zap.Error(err))
			}
		}
		c.prevSlots[sa.action] = pressed
	}
}

// progressChannel advances a running auto-charge and fires it at full ramp.
func (c *Controller) progressChannel(now time.Time) {
	if c.channel.Kind != ChannelCharging {
		return
	}
	progress := clamp01(now.Sub(c.channel.StartedAt).Seconds() / c.channel.Ability.ChargeDurationSec)
	c.cooldowns.SetProgress(c.channel.Slot, progress)
	if progress >= 1 {
		c.finishAutoCharge(now)
	}
}
