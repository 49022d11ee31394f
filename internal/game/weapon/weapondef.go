package weapon

import (
	"fmt"
	"time"
)

// MeleeSpec parameterizes a weapon's primary melee attack. Damage resolves as
// a cone query; the combo step advances on swing-complete signals only.
type MeleeSpec struct {
	ConeDeg float64 `yaml:"cone_deg"`
	Range   float64 `yaml:"range"`
	RateSec float64 `yaml:"rate_sec"`
	Damage  float64 `yaml:"damage"`
	// StepMultipliers scales Damage per combo step (1-indexed step - 1).
	// Nil means every step deals base damage.
	StepMultipliers []float64 `yaml:"step_multipliers"`
}

// Rate returns the minimum interval between primary attacks.
func (m *MeleeSpec) Rate() time.Duration {
	return time.Duration(m.RateSec * float64(time.Second))
}

// StepDamage returns the damage for a 1-based combo step.
func (m *MeleeSpec) StepDamage(step int) float64 {
	if len(m.StepMultipliers) == 0 {
		return m.Damage
	}
	idx := step - 1
	if idx < 0 || idx >= len(m.StepMultipliers) {
		return m.Damage
	}
	return m.Damage * m.StepMultipliers[idx]
}

// ChargeTier classifies a hold-and-release shot by where in the ramp it was
// released.
type ChargeTier int

const (
	// TierDefault is any release outside the perfect window and below the
	// full threshold, including immediate taps.
	TierDefault ChargeTier = iota
	// TierPerfect is a release inside the perfect window.
	TierPerfect
	// TierFull is a release at or above the full-charge threshold.
	TierFull
)

// String returns the tier label used in sync event payloads.
func (t ChargeTier) String() string {
	switch t {
	case TierPerfect:
		return "perfect"
	case TierFull:
		return "full"
	default:
		return "default"
	}
}

// ChargeShotSpec parameterizes a hold-and-release primary attack (bow).
type ChargeShotSpec struct {
	ChargeDurationSec float64        `yaml:"charge_duration_sec"`
	PerfectWindowLo   float64        `yaml:"perfect_window_lo"` // inclusive
	PerfectWindowHi   float64        `yaml:"perfect_window_hi"` // exclusive
	FullThreshold     float64        `yaml:"full_threshold"`
	PerfectMultiplier float64        `yaml:"perfect_multiplier"`
	FullMultiplier    float64        `yaml:"full_multiplier"`
	Damage            float64        `yaml:"damage"`
	Projectile        ProjectileSpec `yaml:"projectile"`
}

// ChargeDuration returns the full ramp length.
func (c *ChargeShotSpec) ChargeDuration() time.Duration {
	return time.Duration(c.ChargeDurationSec * float64(time.Second))
}

// TierFor classifies a release at the given progress.
//
// Precondition: progress in [0, 1].
// Postcondition: progress >= FullThreshold yields TierFull; otherwise a
// progress inside [PerfectWindowLo, PerfectWindowHi) yields TierPerfect;
// everything else is TierDefault.
func (c *ChargeShotSpec) TierFor(progress float64) ChargeTier {
	if progress >= c.FullThreshold {
		return TierFull
	}
	if progress >= c.PerfectWindowLo && progress < c.PerfectWindowHi {
		return TierPerfect
	}
	return TierDefault
}

// TierDamage returns the resolved damage for a release tier.
func (c *ChargeShotSpec) TierDamage(t ChargeTier) float64 {
	switch t {
	case TierPerfect:
		return c.Damage * c.PerfectMultiplier
	case TierFull:
		return c.Damage * c.FullMultiplier
	default:
		return c.Damage
	}
}

// Def is the static per-kind weapon definition: resource pool shape and the
// primary attack. Exactly one of Melee or ChargeShot is set.
type Def struct {
	Kind        Kind    `yaml:"kind"`
	ResourceMax float64 `yaml:"resource_max"`
	RegenPerSec float64 `yaml:"regen_per_sec"`
	// DecayPerSec drains the pool toward zero (rage weapons).
	DecayPerSec float64 `yaml:"decay_per_sec"`
	// GainPerHit is added to the pool on each melee hit dealt (rage weapons).
	GainPerHit float64 `yaml:"gain_per_hit"`
	// MaxPerLevel raises ResourceMax on each level-up (mana weapons).
	MaxPerLevel float64 `yaml:"max_per_level"`

	Melee      *MeleeSpec      `yaml:"melee,omitempty"`
	ChargeShot *ChargeShotSpec `yaml:"charge_shot,omitempty"`
}

// Validate checks the definition's structural invariants.
func (d *Def) Validate() error {
	if !d.Kind.Valid() {
		return fmt.Errorf("weapon def: unknown kind %q", d.Kind)
	}
	if d.ResourceMax <= 0 {
		return fmt.Errorf("weapon def %q: resource_max must be > 0", d.Kind)
	}
	if (d.Melee == nil) == (d.ChargeShot == nil) {
		return fmt.Errorf("weapon def %q: exactly one of melee or charge_shot must be set", d.Kind)
	}
	return nil
}

// RegisterWeapon adds a weapon definition to the registry.
//
// Precondition: def must not be nil and must pass Validate.
func (r *Registry) RegisterWeapon(def *Def) error {
	if def == nil {
		return fmt.Errorf("weapon: RegisterWeapon: def must not be nil")
	}
	if err := def.Validate(); err != nil {
		return err
	}
	if r.weapons == nil {
		r.weapons = make(map[Kind]*Def)
	}
	r.weapons[def.Kind] = def
	return nil
}

// WeaponDef returns the definition for kind, or (nil, false).
func (r *Registry) WeaponDef(kind Kind) (*Def, bool) {
	d, ok := r.weapons[kind]
	return d, ok
}
