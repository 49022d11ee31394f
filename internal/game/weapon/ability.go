package weapon

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// AbilityID names one ability across the whole game.
type AbilityID string

// Mechanic selects which state-machine path an ability runs through.
type Mechanic string

const (
	// MechanicChargeAuto is a fixed-duration charge that fires automatically
	// at full progress (Viper Sting pattern).
	MechanicChargeAuto Mechanic = "charge_auto"
	// MechanicProjectile spawns one or more projectiles instantly.
	MechanicProjectile Mechanic = "projectile"
	// MechanicMelee is an instant cone strike (backstab and sunder variants
	// are melee abilities with extra fields set).
	MechanicMelee Mechanic = "melee"
	// MechanicStealth toggles invisibility.
	MechanicStealth Mechanic = "stealth"
	// MechanicDash is a tick-advanced straight-line movement override.
	MechanicDash Mechanic = "dash"
	// MechanicArea is a self-centered radius query applying damage and/or a
	// debuff (Frost Nova pattern).
	MechanicArea Mechanic = "area"
	// MechanicVerticalArc is the ascend/descend/land phase machine
	// (Skyfall pattern).
	MechanicVerticalArc Mechanic = "vertical_arc"
	// MechanicDrain is a cone strike that heals the caster for a share of the
	// damage dealt.
	MechanicDrain Mechanic = "drain"
)

// ProjectileSpec is the kinematic profile an ability hands to the projectile
// spawner.
type ProjectileSpec struct {
	Speed           float64 `yaml:"speed"`
	LifetimeSec     float64 `yaml:"lifetime_sec"`
	MaxDistance     float64 `yaml:"max_distance"` // 0 = unbounded
	Piercing        bool    `yaml:"piercing"`
	ExplosionRadius float64 `yaml:"explosion_radius"` // 0 = none
	Count           int     `yaml:"count"`            // 0 treated as 1
	SpreadDeg       float64 `yaml:"spread_deg"`       // fan half-step between shots
}

// DashSpec parameterizes a dash/charge movement override.
type DashSpec struct {
	Distance    float64 `yaml:"distance"`
	DurationSec float64 `yaml:"duration_sec"`
	// StopOnHit stops the movement at the first damageable target hit.
	// When false the dash passes through, damaging each target once.
	StopOnHit bool `yaml:"stop_on_hit"`
	// Knockback emits a knockback sync event for each target hit.
	Knockback bool `yaml:"knockback"`
}

// AreaSpec parameterizes a self-centered radius ability.
type AreaSpec struct {
	Radius         float64 `yaml:"radius"`
	DebuffID       string  `yaml:"debuff_id"` // empty = damage only
	DebuffDuration float64 `yaml:"debuff_duration_sec"`
}

// StackSpec parameterizes a per-target stacking debuff strike (Sunder).
// DamageByStacks is indexed by the target's pre-hit stack count; a hit at
// the table's last index detonates, stunning the target and resetting its
// count to zero.
type StackSpec struct {
	DamageByStacks []float64 `yaml:"damage_by_stacks"`
	WindowSec      float64   `yaml:"window_sec"`
	StunSec        float64   `yaml:"stun_sec"`
}

// ArcSpec parameterizes the vertical-arc phase machine.
type ArcSpec struct {
	AscendVelocity float64 `yaml:"ascend_velocity"`
	ApexHeight     float64 `yaml:"apex_height"`
	GravityScale   float64 `yaml:"gravity_scale"`
	Radius         float64 `yaml:"radius"`
	TimeoutSec     float64 `yaml:"timeout_sec"`
}

// AbilityDef is the static definition of one ability slot.
type AbilityDef struct {
	ID       AbilityID `yaml:"id"`
	Name     string    `yaml:"name"`
	Weapon   Kind      `yaml:"weapon"`
	Key      SlotKey   `yaml:"key"`
	Mechanic Mechanic  `yaml:"mechanic"`

	Cost        float64 `yaml:"cost"`
	CooldownSec float64 `yaml:"cooldown_sec"`
	Damage      float64 `yaml:"damage"`

	// ChargeDurationSec applies to charge_auto abilities.
	ChargeDurationSec float64 `yaml:"charge_duration_sec"`

	// Melee/drain fields.
	ConeDeg      float64 `yaml:"cone_deg"`
	Range        float64 `yaml:"range"`
	RearArcBonus float64 `yaml:"rear_arc_bonus"` // damage multiplier when behind target; 0 = none
	RearArcDot   float64 `yaml:"rear_arc_dot"`   // dot threshold, negative
	MaxTargets   int     `yaml:"max_targets"`    // 0 = unlimited
	HealRatio    float64 `yaml:"heal_ratio"`     // drain: fraction of damage returned as healing

	Projectile *ProjectileSpec `yaml:"projectile,omitempty"`
	Dash       *DashSpec       `yaml:"dash,omitempty"`
	Area       *AreaSpec       `yaml:"area,omitempty"`
	Stacks     *StackSpec      `yaml:"stacks,omitempty"`
	Arc        *ArcSpec        `yaml:"arc,omitempty"`
}

// Cooldown returns the cooldown as a duration.
func (d *AbilityDef) Cooldown() time.Duration {
	return time.Duration(d.CooldownSec * float64(time.Second))
}

// ChargeDuration returns the auto-charge ramp length as a duration.
func (d *AbilityDef) ChargeDuration() time.Duration {
	return time.Duration(d.ChargeDurationSec * float64(time.Second))
}

// Validate checks the definition's structural invariants.
//
// Postcondition: Returns nil iff the definition is internally consistent.
func (d *AbilityDef) Validate() error {
	var errs []string
	if d.ID == "" {
		errs = append(errs, "id must not be empty")
	}
	if !d.Weapon.Valid() {
		errs = append(errs, fmt.Sprintf("unknown weapon %q", d.Weapon))
	}
	if d.Cost < 0 {
		errs = append(errs, "cost must be >= 0")
	}
	if d.CooldownSec < 0 {
		errs = append(errs, "cooldown_sec must be >= 0")
	}
	switch d.Mechanic {
	case MechanicChargeAuto:
		if d.ChargeDurationSec <= 0 {
			errs = append(errs, "charge_auto requires charge_duration_sec > 0")
		}
		if d.Projectile == nil {
			errs = append(errs, "charge_auto requires a projectile spec")
		}
	case MechanicProjectile:
		if d.Projectile == nil {
			errs = append(errs, "projectile mechanic requires a projectile spec")
		}
	case MechanicDash:
		if d.Dash == nil || d.Dash.Distance <= 0 || d.Dash.DurationSec <= 0 {
			errs = append(errs, "dash requires distance > 0 and duration_sec > 0")
		}
	case MechanicArea:
		if d.Area == nil || d.Area.Radius <= 0 {
			errs = append(errs, "area requires radius > 0")
		}
	case MechanicVerticalArc:
		if d.Arc == nil || d.Arc.ApexHeight <= 0 || d.Arc.TimeoutSec <= 0 {
			errs = append(errs, "vertical_arc requires apex_height > 0 and timeout_sec > 0")
		}
	case MechanicMelee:
		if d.Stacks != nil && len(d.Stacks.DamageByStacks) < 2 {
			errs = append(errs, "stacking melee requires at least two damage_by_stacks entries")
		}
	case MechanicDrain:
		if d.HealRatio <= 0 {
			errs = append(errs, "drain requires heal_ratio > 0")
		}
	case MechanicStealth:
		// no extra fields required
	default:
		errs = append(errs, fmt.Sprintf("unknown mechanic %q", d.Mechanic))
	}
	if len(errs) > 0 {
		return fmt.Errorf("ability %q: %s", d.ID, strings.Join(errs, "; "))
	}
	return nil
}

// Registry holds ability definitions keyed by slot and by ID.
type Registry struct {
	bySlot  map[Slot]*AbilityDef
	byID    map[AbilityID]*AbilityDef
	weapons map[Kind]*Def
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		bySlot:  make(map[Slot]*AbilityDef),
		byID:    make(map[AbilityID]*AbilityDef),
		weapons: make(map[Kind]*Def),
	}
}

// Register adds def, overwriting any existing entry for the same slot or ID.
//
// Precondition: def must not be nil and must pass Validate.
func (r *Registry) Register(def *AbilityDef) error {
	if def == nil {
		return fmt.Errorf("weapon: Register: def must not be nil")
	}
	if err := def.Validate(); err != nil {
		return err
	}
	r.bySlot[Slot{Weapon: def.Weapon, Key: def.Key}] = def
	r.byID[def.ID] = def
	return nil
}

// ForSlot returns the ability bound to slot, or (nil, false).
func (r *Registry) ForSlot(s Slot) (*AbilityDef, bool) {
	d, ok := r.bySlot[s]
	return d, ok
}

// ByID returns the ability with the given ID, or (nil, false).
func (r *Registry) ByID(id AbilityID) (*AbilityDef, bool) {
	d, ok := r.byID[id]
	return d, ok
}

// SlotsFor returns the slot keys with abilities defined for kind, in Q,E,R,F,P
// order.
func (r *Registry) SlotsFor(kind Kind) []SlotKey {
	var out []SlotKey
	for _, key := range []SlotKey{SlotQ, SlotE, SlotR, SlotF, SlotP} {
		if _, ok := r.bySlot[Slot{Weapon: kind, Key: key}]; ok {
			out = append(out, key)
		}
	}
	return out
}

// LoadDirectory reads every *.yaml file in dir, parses each document as an
// AbilityDef, and registers it on top of the receiver (overriding baseline
// entries with the same slot).
//
// Precondition: dir must be a readable directory.
// Postcondition: Returns an error if any file fails to parse or validate;
// entries registered before the failure remain.
func (r *Registry) LoadDirectory(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("reading ability dir %q: %w", dir, err)
	}
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".yaml") {
			continue
		}
		path := filepath.Join(dir, e.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %q: %w", path, err)
		}
		dec := yaml.NewDecoder(bytes.NewReader(data))
		for {
			var def AbilityDef
			if err := dec.Decode(&def); err != nil {
				if errors.Is(err, io.EOF) {
					break
				}
				return fmt.Errorf("parsing %q: %w", path, err)
			}
			if err := r.Register(&def); err != nil {
				return fmt.Errorf("%q: %w", path, err)
			}
		}
	}
	return nil
}
