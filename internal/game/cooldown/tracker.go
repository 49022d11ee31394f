// Package cooldown tracks per-ability activation timestamps and
// active/charging flags, keyed by weapon and slot.
package cooldown

import (
	"time"

	"github.com/riftforge/arena/internal/game/weapon"
)

// State is the runtime record for one ability slot.
type State struct {
	// LastActivation is the wall-clock time of the most recent successful
	// activation. Zero means never activated.
	LastActivation time.Time
	// Duration is the cooldown window started by LastActivation.
	Duration time.Duration
	// Active is true while the ability is charging or channelling.
	Active bool
	// Progress is the charge ramp position in [0, 1] while Active.
	Progress float64
}

// View is the read-only per-slot snapshot exposed to external pollers.
// Current counts down from Max to 0.
type View struct {
	Current  time.Duration
	Max      time.Duration
	IsActive bool
	Progress float64
}

// Tracker owns the runtime state for every ability slot. Cooldowns are
// wall-clock and weapon-scoped: they keep counting down in the background
// while a different weapon is drawn.
//
// Not safe for concurrent use; the simulation goroutine owns it.
type Tracker struct {
	states map[weapon.Slot]*State
}

// NewTracker returns an empty Tracker.
func NewTracker() *Tracker {
	return &Tracker{states: make(map[weapon.Slot]*State)}
}

func (t *Tracker) state(s weapon.Slot) *State {
	st, ok := t.states[s]
	if !ok {
		st = &State{}
		t.states[s] = st
	}
	return st
}

// Ready reports whether the cooldown window for s has elapsed at now.
// A slot that has never been activated is ready.
func (t *Tracker) Ready(s weapon.Slot, now time.Time) bool {
	st, ok := t.states[s]
	if !ok || st.LastActivation.IsZero() {
		return true
	}
	return now.Sub(st.LastActivation) >= st.Duration
}

// Record marks a successful activation at now, starting a cooldown of
// duration. The cooldown starts at activation even when the effect resolves
// later.
//
// Postcondition: Ready(s, now) is false for duration > 0.
func (t *Tracker) Record(s weapon.Slot, now time.Time, duration time.Duration) {
	st := t.state(s)
	st.LastActivation = now
	st.Duration = duration
}

// SetActive flags s as charging/channelling. Progress is reset when the flag
// is cleared.
func (t *Tracker) SetActive(s weapon.Slot, active bool) {
	st := t.state(s)
	st.Active = active
	if !active {
		st.Progress = 0
	}
}

// SetProgress records the charge ramp position for s, clamped to [0, 1].
func (t *Tracker) SetProgress(s weapon.Slot, p float64) {
	if p < 0 {
		p = 0
	} else if p > 1 {
		p = 1
	}
	t.state(s).Progress = p
}

// IsActive reports whether s is currently charging or channelling.
func (t *Tracker) IsActive(s weapon.Slot) bool {
	st, ok := t.states[s]
	return ok && st.Active
}

// Progress returns the charge ramp position for s, or 0 when inactive.
func (t *Tracker) Progress(s weapon.Slot) float64 {
	st, ok := t.states[s]
	if !ok || !st.Active {
		return 0
	}
	return st.Progress
}

// Remaining returns the cooldown time left for s at now, floored at zero.
func (t *Tracker) Remaining(s weapon.Slot, now time.Time) time.Duration {
	st, ok := t.states[s]
	if !ok || st.LastActivation.IsZero() {
		return 0
	}
	left := st.Duration - now.Sub(st.LastActivation)
	if left < 0 {
		return 0
	}
	return left
}

// ViewOf returns the read-only snapshot for s at now.
func (t *Tracker) ViewOf(s weapon.Slot, now time.Time) View {
	st, ok := t.states[s]
	if !ok {
		return View{}
	}
	return View{
		Current:  t.Remaining(s, now),
		Max:      st.Duration,
		IsActive: st.Active,
		Progress: st.Progress,
	}
}

// ResetActivity clears the active flags and charge progress of every slot
// belonging to kind. Cooldown timestamps are deliberately preserved:
// switching away does not refund or restart cooldowns.
//
// Postcondition: no slot of kind is Active; Remaining values are unchanged.
func (t *Tracker) ResetActivity(kind weapon.Kind) {
	for s, st := range t.states {
		if s.Weapon != kind {
			continue
		}
		st.Active = false
		st.Progress = 0
	}
}
