// Package resource tracks the per-weapon consumable pools (energy, mana,
// rage) that gate ability activation.
package resource

import (
	"time"

	"github.com/riftforge/arena/internal/game/weapon"
)

// View is the read-only snapshot exposed to external consumers (HUD pollers,
// sync mirrors).
type View struct {
	Current float64
	Max     float64
}

// pool is one weapon's consumable state.
type pool struct {
	current float64
	max     float64
	regen   float64 // per second
	decay   float64 // per second, toward zero
	perHit  float64 // gained per melee hit dealt
	perLvl  float64 // max raised per level-up
}

// Pools owns every weapon's resource pool. Pools persist across weapon
// switches: switching never resets another weapon's pool. Regeneration and
// decay run continuously for every weapon regardless of which one is drawn.
//
// Not safe for concurrent use; the simulation goroutine owns it.
type Pools struct {
	pools map[weapon.Kind]*pool
}

// NewPools builds pools for every kind defined in reg, each starting full.
//
// Precondition: reg must not be nil.
func NewPools(reg *weapon.Registry) *Pools {
	p := &Pools{pools: make(map[weapon.Kind]*pool)}
	for _, k := range weapon.AllKinds() {
		def, ok := reg.WeaponDef(k)
		if !ok {
			continue
		}
		start := def.ResourceMax
		if k.Resource() == weapon.ResourceRage {
			// Rage starts empty and is built by dealing damage.
			start = 0
		}
		p.pools[k] = &pool{
			current: start,
			max:     def.ResourceMax,
			regen:   def.RegenPerSec,
			decay:   def.DecayPerSec,
			perHit:  def.GainPerHit,
			perLvl:  def.MaxPerLevel,
		}
	}
	return p
}

// Consume atomically spends amount from kind's pool. It either succeeds fully
// or leaves the pool untouched: insufficient resource fails closed with no
// partial spend.
//
// Precondition: amount >= 0.
// Postcondition: Returns true iff current was >= amount; on false, current is
// unchanged.
func (p *Pools) Consume(kind weapon.Kind, amount float64) bool {
	pl, ok := p.pools[kind]
	if !ok {
		return false
	}
	if pl.current < amount {
		return false
	}
	pl.current -= amount
	return true
}

// Add credits amount to kind's pool, clamped to max.
//
// Precondition: amount >= 0.
// Postcondition: current <= max.
func (p *Pools) Add(kind weapon.Kind, amount float64) {
	pl, ok := p.pools[kind]
	if !ok {
		return
	}
	pl.current += amount
	if pl.current > pl.max {
		pl.current = pl.max
	}
}

// OnHitDealt credits the per-hit gain (rage weapons) for a melee hit landed
// with kind.
func (p *Pools) OnHitDealt(kind weapon.Kind) {
	pl, ok := p.pools[kind]
	if !ok || pl.perHit == 0 {
		return
	}
	p.Add(kind, pl.perHit)
}

// Regenerate advances every pool by dt: regen credits up to max, decay drains
// toward zero. Regeneration is not gated by which weapon is drawn.
//
// Postcondition: 0 <= current <= max for every pool.
func (p *Pools) Regenerate(dt time.Duration) {
	secs := dt.Seconds()
	for _, pl := range p.pools {
		if pl.regen > 0 {
			pl.current += pl.regen * secs
			if pl.current > pl.max {
				pl.current = pl.max
			}
		}
		if pl.decay > 0 {
			pl.current -= pl.decay * secs
			if pl.current < 0 {
				pl.current = 0
			}
		}
	}
}

// OnLevelUp raises the max of pools that scale with level and tops the
// current value up to the new max. Current is never reduced.
func (p *Pools) OnLevelUp() {
	for _, pl := range p.pools {
		if pl.perLvl == 0 {
			continue
		}
		pl.max += pl.perLvl
		if pl.current < pl.max {
			pl.current = pl.max
		}
	}
}

// ViewOf returns the read-only snapshot for kind.
//
// Postcondition: ok is false only for kinds without a pool.
func (p *Pools) ViewOf(kind weapon.Kind) (View, bool) {
	pl, ok := p.pools[kind]
	if !ok {
		return View{}, false
	}
	return View{Current: pl.current, Max: pl.max}, true
}
