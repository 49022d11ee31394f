// Package control implements the per-weapon ability state machine: input
// interpretation, combo/charge/channel state, cooldown and resource gating,
// and dispatch into the projectile spawner, combat resolver, and sync layer.
package control

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/riftforge/arena/internal/game/combat"
	"github.com/riftforge/arena/internal/game/cooldown"
	"github.com/riftforge/arena/internal/game/debuff"
	"github.com/riftforge/arena/internal/game/geom"
	"github.com/riftforge/arena/internal/game/projectile"
	"github.com/riftforge/arena/internal/game/resource"
	"github.com/riftforge/arena/internal/game/weapon"
	"github.com/riftforge/arena/internal/game/world"
	"github.com/riftforge/arena/internal/netsync"
)

// Action is a logical input the controller polls each tick.
type Action string

const (
	ActionPrimary Action = "primary"
	ActionSlotQ   Action = "slot_q"
	ActionSlotE   Action = "slot_e"
	ActionSlotR   Action = "slot_r"
	ActionSlotF   Action = "slot_f"
	ActionSlotP   Action = "slot_p"
	ActionSwitch  Action = "switch_weapon"
)

// InputProvider is the input capability consumed by the controller. The
// polling implementation (keyboard, gamepad, replay) is out of scope.
type InputProvider interface {
	// IsActionActive reports whether the logical action is currently held.
	IsActionActive(a Action) bool
	// MoveDirection returns the normalized movement intent on the
	// horizontal plane, or the zero vector when idle.
	MoveDirection() geom.Vec3
}

// OrientationProvider supplies the camera/aim forward vector.
type OrientationProvider interface {
	Forward() geom.Vec3
}

// VisualEvent asks the presentation layer to play an effect. The controller
// never waits on it.
type VisualEvent struct {
	Kind     string
	Position geom.Vec3
	// AbilityID is set for ability-triggered effects.
	AbilityID weapon.AbilityID
}

// VisualSink receives visual-effect notifications. Implementations must not
// block.
type VisualSink interface {
	Notify(ev VisualEvent)
}

// NopVisuals discards all visual events.
type NopVisuals struct{}

// Notify discards ev.
func (NopVisuals) Notify(VisualEvent) {}

// ChannelKind tags the controller's single current channel. Mutual exclusion
// between charges, draws, dashes, and arcs is one comparison against
// ChannelNone.
type ChannelKind int

const (
	// ChannelNone means no time-extended activation is in progress.
	ChannelNone ChannelKind = iota
	// ChannelDrawing is the primary hold-and-release charge (bow draw).
	ChannelDrawing
	// ChannelCharging is a fixed-duration ability charge that auto-fires.
	ChannelCharging
	// ChannelDashing is a dash/charge movement override.
	ChannelDashing
	// ChannelArcing is the vertical-arc phase machine.
	ChannelArcing
)

// channelState is the tagged current-channel variant.
type channelState struct {
	Kind      ChannelKind
	Slot      weapon.Slot
	Ability   *weapon.AbilityDef
	StartedAt time.Time
}

// ComboState is the melee combo counter for one weapon. The step advances
// only on swing-complete signals, never on clicks.
type ComboState struct {
	Step         int
	LastAttackAt time.Time
}

// sunderRecord is one target's stacking-debuff bookkeeping.
type sunderRecord struct {
	stacks      int
	lastApplied time.Time
}

// facingStaleTolerance bounds how old a remote player's synced rotation may
// be before rear-arc detection refuses to grant the backstab bonus.
const facingStaleTolerance = 750 * time.Millisecond

// baseMoveSpeed is the local player's unmodified movement speed in units/s.
const baseMoveSpeed = 5.0

// Config carries the controller's tunable timings.
type Config struct {
	// SwitchInterval is the minimum time between weapon switches.
	SwitchInterval time.Duration
	// ComboResetWindow resets the combo to step 1 when the time since the
	// last attack exceeds it.
	ComboResetWindow time.Duration
}

// DefaultConfig returns the baseline timings.
func DefaultConfig() Config {
	return Config{
		SwitchInterval:   800 * time.Millisecond,
		ComboResetWindow: 2 * time.Second,
	}
}

// Controller is the weapon ability state machine for the local player.
// All dependencies are injected at construction; the controller never reaches
// through ambient globals.
//
// Not safe for concurrent use; the simulation goroutine owns it.
type Controller struct {
	localID   string
	cfg       Config
	reg       *weapon.Registry
	debuffs   *debuff.Registry
	loadout   *weapon.Loadout
	unlocks   *weapon.Unlocks
	pools     *resource.Pools
	cooldowns *cooldown.Tracker
	resolver  *combat.Resolver
	spawner   *projectile.System
	store     *world.Store
	input     InputProvider
	orient    OrientationProvider
	emitter   netsync.Emitter
	visuals   VisualSink
	intn      func(n int) int
	logger    *zap.Logger

	equippedPos weapon.Position
	lastSwitch  time.Time

	channel channelState
	// prevPrimary, prevSwitch, and prevSlots hold last tick's raw input
	// levels for edge detection.
	prevPrimary bool
	prevSwitch  bool
	prevSlots   map[Action]bool
	combos      map[weapon.Kind]*ComboState
	// lastPrimary gates the primary attack rate per weapon.
	lastPrimary map[weapon.Kind]time.Time
	// sunder is per-target stacking state for the equipped weapon's
	// stacking ability. Cleared when switching away from its weapon.
	sunder map[string]*sunderRecord
	// hitSeq numbers the controller's damage hits so equal-valued requests
	// from separate swings keep their identity through the resolver.
	hitSeq uint64

	dash    *dashState
	arc     *arcState
	stealth bool
	level   int
}

// Deps bundles the controller's constructor dependencies.
type Deps struct {
	LocalID   string
	Registry  *weapon.Registry
	Debuffs   *debuff.Registry
	Loadout   *weapon.Loadout
	Unlocks   *weapon.Unlocks
	Pools     *resource.Pools
	Cooldowns *cooldown.Tracker
	Resolver  *combat.Resolver
	Spawner   *projectile.System
	Store     *world.Store
	Input     InputProvider
	Orient    OrientationProvider
	Emitter   netsync.Emitter
	Visuals   VisualSink
	// Intn is the randomness source for the tertiary draw.
	Intn   func(n int) int
	Logger *zap.Logger
}

// NewController wires a Controller.
//
// Precondition: every Deps field must be non-nil except Visuals (defaults to
// NopVisuals) and Intn (required only before the tertiary unlock fires).
func NewController(cfg Config, d Deps) *Controller {
	if d.Visuals == nil {
		d.Visuals = NopVisuals{}
	}
	c := &Controller{
		localID:     d.LocalID,
		cfg:         cfg,
		reg:         d.Registry,
		debuffs:     d.Debuffs,
		loadout:     d.Loadout,
		unlocks:     d.Unlocks,
		pools:       d.Pools,
		cooldowns:   d.Cooldowns,
		resolver:    d.Resolver,
		spawner:     d.Spawner,
		store:       d.Store,
		input:       d.Input,
		orient:      d.Orient,
		emitter:     d.Emitter,
		visuals:     d.Visuals,
		intn:        d.Intn,
		logger:      d.Logger,
		equippedPos: weapon.PositionPrimary,
		prevSlots:   make(map[Action]bool),
		combos:      make(map[weapon.Kind]*ComboState),
		lastPrimary: make(map[weapon.Kind]time.Time),
		sunder:      make(map[string]*sunderRecord),
		level:       1,
	}
	// Projectile debuff payloads route through the same local/remote
	// asymmetry as direct ability debuffs, on the tick clock of the hit.
	c.spawner.ApplyDebuff = func(targetID, debuffID string, duration time.Duration, sourceID string, now time.Time) {
		c.applyDebuff(targetID, debuffID, sourceID, duration, now)
	}
	return c
}

// nextHitID returns a fresh hit identity for a damage request batch.
func (c *Controller) nextHitID() string {
	c.hitSeq++
	return fmt.Sprintf("%s/%d", c.localID, c.hitSeq)
}

// Equipped returns the currently drawn weapon kind.
func (c *Controller) Equipped() weapon.Kind {
	k, _ := c.loadout.At(c.equippedPos)
	return k
}

// EquippedPosition returns the loadout position currently drawn.
func (c *Controller) EquippedPosition() weapon.Position {
	return c.equippedPos
}

// ChannelKind returns the current channel tag for external pollers.
func (c *Controller) ChannelKind() ChannelKind {
	return c.channel.Kind
}

// ChargeProgress returns the active channel's ramp position in [0, 1], or 0
// when nothing is charging.
func (c *Controller) ChargeProgress(now time.Time) float64 {
	switch c.channel.Kind {
	case ChannelDrawing:
		def, _ := c.reg.WeaponDef(c.Equipped())
		if def == nil || def.ChargeShot == nil {
			return 0
		}
		return clamp01(now.Sub(c.channel.StartedAt).Seconds() / def.ChargeShot.ChargeDurationSec)
	case ChannelCharging:
		return clamp01(now.Sub(c.channel.StartedAt).Seconds() / c.channel.Ability.ChargeDurationSec)
	default:
		return 0
	}
}

// Stealthed reports whether the local player is currently invisible.
func (c *Controller) Stealthed() bool {
	return c.stealth
}

// ComboStep returns the current combo step for kind (1 when unstarted).
func (c *Controller) ComboStep(kind weapon.Kind) int {
	if cs, ok := c.combos[kind]; ok {
		return cs.Step
	}
	return 1
}

// SunderStacks returns the live stack count for a target, treating stale
// records as zero.
func (c *Controller) SunderStacks(targetID string, now time.Time) int {
	rec, ok := c.sunder[targetID]
	if !ok {
		return 0
	}
	def := c.stackDef()
	if def == nil || now.Sub(rec.lastApplied).Seconds() > def.WindowSec {
		return 0
	}
	return rec.stacks
}

// CooldownView exposes the read-only per-slot snapshot for external pollers.
func (c *Controller) CooldownView(s weapon.Slot, now time.Time) cooldown.View {
	return c.cooldowns.ViewOf(s, now)
}

// ResourceView exposes the read-only pool snapshot for kind.
func (c *Controller) ResourceView(kind weapon.Kind) (resource.View, bool) {
	return c.pools.ViewOf(kind)
}

// localEntity returns the local player's world entity.
func (c *Controller) localEntity() (*world.Entity, bool) {
	return c.store.Get(c.localID)
}

// comboFor returns (creating if needed) the combo state for kind.
func (c *Controller) comboFor(kind weapon.Kind) *ComboState {
	cs, ok := c.combos[kind]
	if !ok {
		cs = &ComboState{Step: 1}
		c.combos[kind] = cs
	}
	return cs
}

// stackDef returns the equipped weapon's stacking spec, if its Q ability has
// one.
func (c *Controller) stackDef() *weapon.StackSpec {
	for _, key := range c.reg.SlotsFor(c.Equipped()) {
		if def, ok := c.reg.ForSlot(weapon.Slot{Weapon: c.Equipped(), Key: key}); ok && def.Stacks != nil {
			return def.Stacks
		}
	}
	return nil
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// vecToWire converts a geom vector to its wire form.
func vecToWire(v geom.Vec3) netsync.Vec {
	return netsync.Vec{X: v.X, Y: v.Y, Z: v.Z}
}

// wireToVec converts a wire vector to geometry.
func wireToVec(v netsync.Vec) geom.Vec3 {
	return geom.Vec3{X: v.X, Y: v.Y, Z: v.Z}
}
