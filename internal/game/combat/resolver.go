// Package combat implements the damage-resolution pipeline: a queue of
// damage requests flushed once per tick, with same-tick deduplication,
// mitigation, and routing of non-owned targets through the sync layer.
package combat

import (
	"time"

	"go.uber.org/zap"

	"github.com/riftforge/arena/internal/game/world"
	"github.com/riftforge/arena/internal/netsync"
)

// Request is one transient damage tuple. It enters the queue and is consumed
// by the same or next tick's flush; it is never persisted.
type Request struct {
	TargetID string
	Amount   float64
	SourceID string
	Cause    string
	// HitID distinguishes separate hits that carry identical values, such as
	// two fanned arrows striking one body in the same tick. Producers assign
	// one ID per activation, swing, or projectile; re-queues of the same hit
	// share it and dedup.
	HitID string
}

// Applied describes one damage application performed by Flush.
type Applied struct {
	Request
	// Mitigated is the post-mitigation amount actually applied or forwarded.
	Mitigated float64
	// Remote is true when the damage was routed to the sync layer instead of
	// mutating local state.
	Remote bool
	// Killed is true when the application reduced a locally-owned target to
	// zero health.
	Killed bool
}

// Resolver is the combat pipeline. The state machine only ever queues
// requests; health mutation happens inside Flush, and only for entities this
// simulation owns. Damage for remote players leaves as a Damage sync event
// and is applied authoritatively by the target's own client.
//
// Not safe for concurrent use; the simulation goroutine owns it.
type Resolver struct {
	store   *world.Store
	emitter netsync.Emitter
	localID string
	logger  *zap.Logger

	queue []Request
	seen  map[Request]struct{}
}

// NewResolver creates a Resolver.
//
// Precondition: store, emitter, and logger must be non-nil; localID is the
// local player's entity ID used as the sync sender.
func NewResolver(store *world.Store, emitter netsync.Emitter, localID string, logger *zap.Logger) *Resolver {
	return &Resolver{
		store:   store,
		emitter: emitter,
		localID: localID,
		logger:  logger,
		seen:    make(map[Request]struct{}),
	}
}

// Queue enqueues req for the next flush. Queueing the identical request
// twice within one tick is idempotent: the duplicate is dropped. Distinct
// hits with equal values must carry distinct HitIDs to both land.
//
// Precondition: req.Amount >= 0.
func (r *Resolver) Queue(req Request) {
	if req.Amount <= 0 || req.TargetID == "" {
		return
	}
	if _, dup := r.seen[req]; dup {
		return
	}
	r.seen[req] = struct{}{}
	r.queue = append(r.queue, req)
}

// Pending returns the number of queued requests awaiting the next flush.
func (r *Resolver) Pending() int {
	return len(r.queue)
}

// Flush drains the queue, applying each request. Targets the local world has
// not created are dropped silently (join-race desync policy). Requests
// against entities this simulation does not own are forwarded as Damage sync
// events; locally-owned targets take mitigated damage immediately.
//
// Postcondition: Pending() == 0; the same-tick dedup window is reset.
func (r *Resolver) Flush(now time.Time) []Applied {
	var out []Applied
	for _, req := range r.queue {
		target, ok := r.store.Get(req.TargetID)
		if !ok {
			r.logger.Debug("dropping damage for unknown target",
				zap.String("target", req.TargetID),
				zap.String("cause", req.Cause))
			continue
		}
		if !target.Alive() {
			continue
		}

		mitigated := mitigate(req.Amount, target)

		if !target.Local {
			r.emitter.Emit(netsync.Event{
				Type:   netsync.TypeDamage,
				Sender: r.localID,
				Payload: &netsync.Damage{
					TargetID:   req.TargetID,
					Amount:     mitigated,
					DamageType: req.Cause,
				},
			})
			out = append(out, Applied{Request: req, Mitigated: mitigated, Remote: true})
			continue
		}

		target.ApplyDamage(mitigated)
		killed := !target.Alive()
		if killed {
			r.logger.Info("entity killed",
				zap.String("target", req.TargetID),
				zap.String("source", req.SourceID),
				zap.String("cause", req.Cause))
		}
		out = append(out, Applied{Request: req, Mitigated: mitigated, Killed: killed})
	}
	r.queue = r.queue[:0]
	r.seen = make(map[Request]struct{})
	return out
}

// mitigate applies the target's flat armor, flooring at zero. Overkill past
// the target's remaining health is clamped by Entity.ApplyDamage.
func mitigate(amount float64, target *world.Entity) float64 {
	m := amount - target.Armor
	if m < 0 {
		return 0
	}
	return m
}
