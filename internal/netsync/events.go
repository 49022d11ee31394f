// Package netsync defines the synchronization contract between peer
// simulations: the tagged event union emitted on local activations and
// consumed on remote receipt, plus its JSON wire envelope.
//
// Ownership rule: events are produced by the authoritative local simulation.
// Damage and Debuff events targeting the local player are authoritative on
// receipt; Attack, Ability, and AnimationState events are advisory and drive
// remote-avatar mirroring only.
package netsync

import (
	"encoding/json"
	"fmt"
	"time"
)

// EventType tags the payload variant inside an Envelope.
type EventType string

const (
	TypeAttack    EventType = "attack"
	TypeAbility   EventType = "ability"
	TypeEffect    EventType = "effect"
	TypeDamage    EventType = "damage"
	TypeHealing   EventType = "healing"
	TypeAnimState EventType = "anim_state"
	TypeDebuff    EventType = "debuff"
	TypeStealth   EventType = "stealth"
	TypeKnockback EventType = "knockback"
)

// Vec is a wire-format position or direction.
type Vec struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// AnimationData carries the attack-specific visual state a remote avatar
// needs to mirror a swing or shot faithfully.
type AnimationData struct {
	ComboStep      int     `json:"combo_step,omitempty"`
	ChargeProgress float64 `json:"charge_progress,omitempty"`
	// Tier is the resolved charge tier label ("default", "perfect", "full").
	Tier string `json:"tier,omitempty"`
	// Damage is the numeric damage already resolved by the attacker.
	Damage float64 `json:"damage,omitempty"`
	// TargetID and HitPosition are set for movement-based attacks that
	// already resolved a collision locally.
	TargetID    string `json:"target_id,omitempty"`
	HitPosition *Vec   `json:"hit_position,omitempty"`
}

// Attack mirrors a primary-attack activation.
type Attack struct {
	AttackType string         `json:"attack_type"`
	Position   Vec            `json:"position"`
	Direction  Vec            `json:"direction"`
	Animation  *AnimationData `json:"animation,omitempty"`
}

// Ability mirrors a non-attack ability activation.
type Ability struct {
	AbilityType string          `json:"ability_type"`
	Position    Vec             `json:"position"`
	Direction   *Vec            `json:"direction,omitempty"`
	TargetID    string          `json:"target_id,omitempty"`
	Extra       json.RawMessage `json:"extra,omitempty"`
}

// Effect mirrors a standalone visual effect playback.
type Effect struct {
	EffectType string `json:"effect_type"`
	Position   Vec    `json:"position"`
}

// Damage is cross-player damage that must be authoritatively applied on the
// target's own client.
type Damage struct {
	TargetID   string  `json:"target_id"`
	Amount     float64 `json:"amount"`
	DamageType string  `json:"damage_type,omitempty"`
}

// Healing mirrors a heal on the sender.
type Healing struct {
	Amount      float64 `json:"amount"`
	HealingType string  `json:"healing_type"`
	Position    Vec     `json:"position"`
}

// AnimState is a free-form per-weapon snapshot for pure visual mirroring.
// No gameplay authority is implied.
type AnimState struct {
	Weapon    string  `json:"weapon"`
	Charging  bool    `json:"charging"`
	Progress  float64 `json:"progress,omitempty"`
	ComboStep int     `json:"combo_step,omitempty"`
	Channel   string  `json:"channel,omitempty"`
}

// Debuff instructs the target's owning client to apply a debuff to itself.
type Debuff struct {
	TargetID   string          `json:"target_id"`
	DebuffType string          `json:"debuff_type"`
	DurationMs int64           `json:"duration_ms"`
	Effect     json.RawMessage `json:"effect,omitempty"`
	Timestamp  int64           `json:"timestamp"`
}

// Duration returns the debuff duration.
func (d Debuff) Duration() time.Duration {
	return time.Duration(d.DurationMs) * time.Millisecond
}

// Stealth mirrors an invisibility toggle.
type Stealth struct {
	IsInvisible bool `json:"is_invisible"`
}

// Knockback instructs the target's owning client to displace itself.
type Knockback struct {
	TargetID   string  `json:"target_id"`
	Direction  Vec     `json:"direction"`
	Distance   float64 `json:"distance"`
	DurationMs int64   `json:"duration_ms"`
}

// Event is one sync event with its sender identity.
type Event struct {
	Type    EventType
	Sender  string
	Payload any
}

// Envelope is the JSON wire form of an Event.
type Envelope struct {
	Type    EventType       `json:"type"`
	Sender  string          `json:"sender"`
	Payload json.RawMessage `json:"payload"`
}

// Emitter is the single outbound sink the state machine publishes through.
type Emitter interface {
	Emit(ev Event)
}

// EmitterFunc adapts a function to the Emitter interface.
type EmitterFunc func(ev Event)

// Emit calls f.
func (f EmitterFunc) Emit(ev Event) { f(ev) }

// NopEmitter discards every event. Useful for offline simulations and tests.
type NopEmitter struct{}

// Emit discards ev.
func (NopEmitter) Emit(Event) {}

// Encode marshals ev into its wire envelope.
//
// Precondition: ev.Payload must be JSON-marshallable.
func Encode(ev Event) ([]byte, error) {
	payload, err := json.Marshal(ev.Payload)
	if err != nil {
		return nil, fmt.Errorf("netsync: marshalling %s payload: %w", ev.Type, err)
	}
	data, err := json.Marshal(Envelope{Type: ev.Type, Sender: ev.Sender, Payload: payload})
	if err != nil {
		return nil, fmt.Errorf("netsync: marshalling envelope: %w", err)
	}
	return data, nil
}

// Decode unmarshals a wire envelope into a typed Event. Unknown event types
// are an error; per the desync policy the caller drops such events rather
// than failing the tick.
func Decode(data []byte) (Event, error) {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return Event{}, fmt.Errorf("netsync: unmarshalling envelope: %w", err)
	}

	var payload any
	switch env.Type {
	case TypeAttack:
		payload = &Attack{}
	case TypeAbility:
		payload = &Ability{}
	case TypeEffect:
		payload = &Effect{}
	case TypeDamage:
		payload = &Damage{}
	case TypeHealing:
		payload = &Healing{}
	case TypeAnimState:
		payload = &AnimState{}
	case TypeDebuff:
		payload = &Debuff{}
	case TypeStealth:
		payload = &Stealth{}
	case TypeKnockback:
		payload = &Knockback{}
	default:
		return Event{}, fmt.Errorf("netsync: unknown event type %q", env.Type)
	}
	if err := json.Unmarshal(env.Payload, payload); err != nil {
		return Event{}, fmt.Errorf("netsync: unmarshalling %s payload: %w", env.Type, err)
	}
	return Event{Type: env.Type, Sender: env.Sender, Payload: payload}, nil
}
