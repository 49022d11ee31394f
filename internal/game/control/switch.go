package control

import (
	"time"

	"go.uber.org/zap"

	"github.com/riftforge/arena/internal/game/weapon"
	"github.com/riftforge/arena/internal/netsync"
)

// RequestSwitch cycles to the next loadout position. Switches are rate
// limited; a request inside the interval is dropped, not queued.
//
// Switching cancels any in-progress channel without refunding its resource
// cost, clears the outgoing weapon's charge/active flags and combo, and
// drops all stacking-debuff bookkeeping. Cooldowns and resource pools are
// untouched: both keep running in the background for every weapon.
func (c *Controller) RequestSwitch(now time.Time) bool {
	if !c.lastSwitch.IsZero() && now.Sub(c.lastSwitch) < c.cfg.SwitchInterval {
		return false
	}
	next := c.nextPosition()
	if next == c.equippedPos {
		return false
	}
	c.switchTo(next, now)
	return true
}

// nextPosition returns the position after the current one, skipping an
// unset tertiary.
func (c *Controller) nextPosition() weapon.Position {
	order := []weapon.Position{weapon.PositionPrimary, weapon.PositionSecondary}
	if _, ok := c.loadout.Tertiary(); ok {
		order = append(order, weapon.PositionTertiary)
	}
	for i, pos := range order {
		if pos == c.equippedPos {
			return order[(i+1)%len(order)]
		}
	}
	return weapon.PositionPrimary
}

// switchTo performs the switch bookkeeping.
func (c *Controller) switchTo(next weapon.Position, now time.Time) {
	outgoing := c.Equipped()

	// Cancel whatever the old weapon was doing. Spent resource stays spent.
	if c.channel.Kind != ChannelNone {
		c.dash = nil
		c.arc = nil
		c.closeChannel()
	}
	c.cooldowns.ResetActivity(outgoing)
	delete(c.combos, outgoing)
	// Stacking state is per-weapon; a switch forfeits all accumulated stacks.
	c.sunder = make(map[string]*sunderRecord)

	c.equippedPos = next
	c.lastSwitch = now

	incoming := c.Equipped()
	c.logger.Info("weapon switched",
		zap.String("from", string(outgoing)),
		zap.String("to", string(incoming)))
	c.emitter.Emit(netsync.Event{
		Type:   netsync.TypeAnimState,
		Sender: c.localID,
		Payload: &netsync.AnimState{
			Weapon:  string(incoming),
			Channel: "none",
		},
	})
}

// PruneStacks drops stacking-debuff records whose window has lapsed. The
// simulation calls this once per tick so a re-engaged target always starts
// from zero instead of inheriting a stale count.
func (c *Controller) PruneStacks(now time.Time) {
	def := c.stackDef()
	if def == nil {
		if len(c.sunder) > 0 {
			c.sunder = make(map[string]*sunderRecord)
		}
		return
	}
	for id, rec := range c.sunder {
		if now.Sub(rec.lastApplied).Seconds() > def.WindowSec {
			delete(c.sunder, id)
		}
	}
}

// OnLevelUp advances the player level: pool maxima grow and, at the unlock
// level, the tertiary weapon is drawn uniformly from the kinds not already
// equipped.
func (c *Controller) OnLevelUp() {
	c.level++
	c.pools.OnLevelUp()
	if c.level != weapon.TertiaryUnlockLevel {
		return
	}
	if _, ok := c.loadout.Tertiary(); ok {
		return
	}
	kind, err := c.loadout.DrawTertiary(c.intn)
	if err != nil {
		c.logger.Error("tertiary draw failed", zap.Error(err))
		return
	}
	c.logger.Info("tertiary weapon unlocked", zap.String("weapon", string(kind)))
}

// Level returns the current player level.
func (c *Controller) Level() int {
	return c.level
}

// UnlockSlot spends a skill point to open an ability slot on the equipped
// weapon. Q is always open; unlocks are permanent for the match.
func (c *Controller) UnlockSlot(key weapon.SlotKey) {
	c.unlocks.Unlock(weapon.Slot{Weapon: c.Equipped(), Key: key})
}
