package debuff

import (
	"fmt"
	"time"
)

// Active tracks one applied debuff on an entity.
type Active struct {
	Def       *Def
	SourceID  string
	AppliedAt time.Time
	ExpiresAt time.Time
	// lastTick is the last time periodic damage was charged.
	lastTick time.Time
}

// HookRunner executes a definition's Lua hook snippet. Implemented by
// scripting.Runner; nil disables hooks.
type HookRunner interface {
	RunHook(snippet, debuffID, targetID, sourceID string, duration time.Duration) error
}

// Set tracks all debuffs currently applied to one entity.
// It is not safe for concurrent use; the simulation goroutine owns it.
type Set struct {
	ownerID string
	active  map[string]*Active
	hooks   HookRunner
}

// NewSet creates an empty Set for the entity ownerID. hooks may be nil.
func NewSet(ownerID string, hooks HookRunner) *Set {
	return &Set{ownerID: ownerID, active: make(map[string]*Active), hooks: hooks}
}

// Apply adds or refreshes a debuff. Re-applying extends the expiry to
// whichever is later; it never shortens an existing debuff.
//
// Precondition: def must not be nil; duration > 0.
// Postcondition: Has(def.ID) is true.
func (s *Set) Apply(def *Def, sourceID string, duration time.Duration, now time.Time) error {
	if def == nil {
		return fmt.Errorf("debuff: Apply: def must not be nil")
	}
	expires := now.Add(duration)
	if existing, ok := s.active[def.ID]; ok {
		if expires.After(existing.ExpiresAt) {
			existing.ExpiresAt = expires
		}
		existing.SourceID = sourceID
		return nil
	}

	s.active[def.ID] = &Active{
		Def:       def,
		SourceID:  sourceID,
		AppliedAt: now,
		ExpiresAt: expires,
		lastTick:  now,
	}
	if s.hooks != nil && def.LuaOnApply != "" {
		// Hook failures are reported but never block the application.
		if err := s.hooks.RunHook(def.LuaOnApply, def.ID, s.ownerID, sourceID, duration); err != nil {
			return err
		}
	}
	return nil
}

// TickDamage is one periodic-damage charge produced by Tick.
type TickDamage struct {
	DebuffID string
	SourceID string
	Amount   float64
}

// Tick expires debuffs whose window has passed and accrues periodic damage
// for the rest. Expired IDs are returned after their on-expire hooks run.
//
// Postcondition: Has(id) is false for every returned expired ID.
func (s *Set) Tick(now time.Time) (expired []string, damage []TickDamage) {
	for id, a := range s.active {
		if !now.Before(a.ExpiresAt) {
			delete(s.active, id)
			expired = append(expired, id)
			if s.hooks != nil && a.Def.LuaOnExpire != "" {
				_ = s.hooks.RunHook(a.Def.LuaOnExpire, id, s.ownerID, a.SourceID, 0)
			}
			continue
		}
		if a.Def.TickDamagePerSec > 0 {
			elapsed := now.Sub(a.lastTick)
			if elapsed > 0 {
				damage = append(damage, TickDamage{
					DebuffID: id,
					SourceID: a.SourceID,
					Amount:   a.Def.TickDamagePerSec * elapsed.Seconds(),
				})
				a.lastTick = now
			}
		}
	}
	return expired, damage
}

// Has reports whether the debuff with id is currently active.
func (s *Set) Has(id string) bool {
	_, ok := s.active[id]
	return ok
}

// Remove deletes the debuff with id without running expire hooks.
// Not present is a no-op.
func (s *Set) Remove(id string) {
	delete(s.active, id)
}

// Clear removes every active debuff without running expire hooks.
func (s *Set) Clear() {
	s.active = make(map[string]*Active)
}

// MovementScale returns the product of all active movement scales: 1 when
// unaffected, 0 when rooted by any debuff.
func (s *Set) MovementScale() float64 {
	scale := 1.0
	for _, a := range s.active {
		scale *= a.Def.MovementScale
	}
	return scale
}

// BlocksActions reports whether any active debuff prevents ability
// activation.
func (s *Set) BlocksActions() bool {
	for _, a := range s.active {
		if a.Def.BlocksActions {
			return true
		}
	}
	return false
}

// All returns a snapshot slice of the active debuffs. The Active values are
// shared; callers must not modify them.
func (s *Set) All() []*Active {
	out := make([]*Active, 0, len(s.active))
	for _, a := range s.active {
		out = append(out, a)
	}
	return out
}
