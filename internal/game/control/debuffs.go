package control

import (
	"time"

	"go.uber.org/zap"

	"github.com/riftforge/arena/internal/netsync"
)

// applyDebuff routes a debuff by target ownership: locally-owned entities
// (AI, structures) get the debuff applied directly; a remote player gets a
// debuff sync event and applies it to itself on its own simulation. The
// local player never debuffs itself through this path.
//
// Unknown targets and unknown debuff IDs are dropped, never fatal.
func (c *Controller) applyDebuff(targetID, debuffID, sourceID string, duration time.Duration, now time.Time) {
	if targetID == c.localID {
		return
	}
	target, ok := c.store.Get(targetID)
	if !ok {
		c.logger.Debug("debuff target not found", zap.String("target", targetID))
		return
	}
	if !target.Local {
		c.emitter.Emit(netsync.Event{
			Type:   netsync.TypeDebuff,
			Sender: c.localID,
			Payload: &netsync.Debuff{
				TargetID:   targetID,
				DebuffType: debuffID,
				DurationMs: duration.Milliseconds(),
				Timestamp:  now.UnixMilli(),
			},
		})
		return
	}
	def, ok := c.debuffs.Get(debuffID)
	if !ok {
		c.logger.Warn("unknown debuff id", zap.String("debuff", debuffID))
		return
	}
	if target.Debuffs == nil {
		return
	}
	if err := target.Debuffs.Apply(def, sourceID, duration, now); err != nil {
		c.logger.Error("debuff hook failed",
			zap.String("debuff", debuffID),
			zap.String("target", targetID),
			zap.Error(err))
	}
}
