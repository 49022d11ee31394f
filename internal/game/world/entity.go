// Package world tracks the live entities of one arena match: positions,
// facing, health, debuffs, and the static geometry movement must respect.
package world

import (
	"time"

	"github.com/riftforge/arena/internal/game/debuff"
	"github.com/riftforge/arena/internal/game/geom"
)

// Category classifies an entity for targeting rules.
type Category string

const (
	// CategoryPlayer is a player-controlled combatant (local or remote).
	CategoryPlayer Category = "player"
	// CategoryEnemy is an AI-controlled combatant.
	CategoryEnemy Category = "enemy"
	// CategorySummon is a player-owned summoned unit.
	CategorySummon Category = "summon"
	// CategoryStructure is a damageable static object.
	CategoryStructure Category = "structure"
)

// Entity is one live object in the match.
type Entity struct {
	ID       string
	Category Category
	// Local is true when this simulation owns the entity's authoritative
	// state. Remote players are mirrored: their health only changes through
	// inbound sync events.
	Local    bool
	Position geom.Vec3
	Facing   geom.Vec3
	// FacingSyncedAt is when Facing was last updated from a sync event.
	// Only meaningful for remote entities; local facing is always fresh.
	FacingSyncedAt time.Time
	Health    float64
	MaxHealth float64
	// Armor is a flat per-hit damage reduction applied by the combat
	// resolver before health mutation.
	Armor float64
	// Radius is the collision radius used by projectiles and dashes.
	Radius float64
	// Shrouded mirrors a remote player's stealth state. Presentation only;
	// shrouded entities still collide and take damage.
	Shrouded bool

	Debuffs *debuff.Set
}

// FreshFacing reports whether the entity's facing data is recent enough to
// drive rear-arc checks. Local entities are always fresh; remote entities are
// fresh while their last facing sync is within tolerance.
func (e *Entity) FreshFacing(now time.Time, tolerance time.Duration) bool {
	if e.Local {
		return true
	}
	if e.FacingSyncedAt.IsZero() {
		return false
	}
	return now.Sub(e.FacingSyncedAt) <= tolerance
}

// Alive reports whether the entity still participates in combat.
func (e *Entity) Alive() bool {
	return e.Health > 0
}

// Damageable reports whether the entity is a valid damage target.
func (e *Entity) Damageable() bool {
	return e.Alive()
}

// ApplyDamage reduces health by amount, flooring at zero. Overkill beyond
// the remaining health is discarded.
//
// Precondition: amount >= 0. Callers must own the entity (Local == true) or
// be applying an authoritative inbound sync event.
// Postcondition: Health >= 0.
func (e *Entity) ApplyDamage(amount float64) {
	e.Health -= amount
	if e.Health < 0 {
		e.Health = 0
	}
}

// Heal restores health up to MaxHealth.
//
// Precondition: amount >= 0.
// Postcondition: Health <= MaxHealth.
func (e *Entity) Heal(amount float64) {
	e.Health += amount
	if e.Health > e.MaxHealth {
		e.Health = e.MaxHealth
	}
}
