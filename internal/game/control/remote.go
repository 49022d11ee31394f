package control

import (
	"time"

	"go.uber.org/zap"

	"github.com/riftforge/arena/internal/netsync"
)

// ApplyAuthoritative consumes an inbound sync event that carries authority
// over the local player: cross-player damage, debuffs, and knockbacks.
// Events for entities this simulation does not know are dropped per the
// desync policy; they never fail the tick.
func (c *Controller) ApplyAuthoritative(ev netsync.Event, now time.Time) {
	switch p := ev.Payload.(type) {
	case *netsync.Damage:
		c.applyRemoteDamage(p, ev.Sender)
	case *netsync.Debuff:
		c.applyRemoteDebuff(p, ev.Sender, now)
	case *netsync.Knockback:
		c.applyRemoteKnockback(p)
	default:
		c.logger.Debug("ignoring non-authoritative event",
			zap.String("type", string(ev.Type)))
	}
}

// applyRemoteDamage applies cross-player damage to the local player. The
// attacker already resolved the amount; no further mitigation applies.
func (c *Controller) applyRemoteDamage(p *netsync.Damage, sender string) {
	if p.TargetID != c.localID {
		return
	}
	local, ok := c.localEntity()
	if !ok {
		return
	}
	local.ApplyDamage(p.Amount)
	c.logger.Debug("remote damage applied",
		zap.String("from", sender),
		zap.Float64("amount", p.Amount),
		zap.Float64("health", local.Health))
}

// applyRemoteDebuff applies a debuff the sender's simulation resolved against
// the local player.
func (c *Controller) applyRemoteDebuff(p *netsync.Debuff, sender string, now time.Time) {
	if p.TargetID != c.localID {
		return
	}
	local, ok := c.localEntity()
	if !ok || local.Debuffs == nil {
		return
	}
	def, ok := c.debuffs.Get(p.DebuffType)
	if !ok {
		c.logger.Warn("remote debuff with unknown id",
			zap.String("debuff", p.DebuffType),
			zap.String("from", sender))
		return
	}
	if err := local.Debuffs.Apply(def, sender, p.Duration(), now); err != nil {
		c.logger.Error("remote debuff hook failed",
			zap.String("debuff", p.DebuffType),
			zap.Error(err))
	}
	// A hard crowd-control hit interrupts whatever the player was doing.
	if def.BlocksActions && c.channel.Kind != ChannelNone {
		c.dash = nil
		c.arc = nil
		c.closeChannel()
	}
}

// applyRemoteKnockback displaces the local player. The displacement respects
// world geometry: a blocked destination leaves the player in place.
func (c *Controller) applyRemoteKnockback(p *netsync.Knockback) {
	if p.TargetID != c.localID {
		return
	}
	local, ok := c.localEntity()
	if !ok {
		return
	}
	next := local.Position.Add(wireToVec(p.Direction).Flat().Normalized().Scale(p.Distance))
	if !c.store.Blocked(next) {
		local.Position = next
	}
}
