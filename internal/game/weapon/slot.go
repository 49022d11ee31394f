package weapon

import "fmt"

// SlotKey is a keyed ability action bound to a weapon.
type SlotKey string

const (
	SlotQ SlotKey = "Q"
	SlotE SlotKey = "E"
	SlotR SlotKey = "R"
	SlotF SlotKey = "F"
	SlotP SlotKey = "P"
)

// Position identifies where a weapon sits in the loadout.
type Position string

const (
	PositionPrimary   Position = "primary"
	PositionSecondary Position = "secondary"
	PositionTertiary  Position = "tertiary"
)

// Slot addresses one ability: a weapon kind plus a key binding.
type Slot struct {
	Weapon Kind
	Key    SlotKey
}

// String returns "kind/key" for logging and map diagnostics.
func (s Slot) String() string {
	return fmt.Sprintf("%s/%s", s.Weapon, s.Key)
}

// Unlocks tracks which ability slots skill points have opened.
// Q is always unlocked. Unlock state is monotonic within a match:
// slots never re-lock.
//
// Not safe for concurrent use; the simulation goroutine owns it.
type Unlocks struct {
	unlocked map[Slot]bool
}

// NewUnlocks returns an Unlocks with only the default Q slots open.
func NewUnlocks() *Unlocks {
	return &Unlocks{unlocked: make(map[Slot]bool)}
}

// Unlock opens the given slot. Repeated unlocks are no-ops.
//
// Postcondition: IsUnlocked(s) is true.
func (u *Unlocks) Unlock(s Slot) {
	u.unlocked[s] = true
}

// IsUnlocked reports whether s is usable. Q slots are always usable.
func (u *Unlocks) IsUnlocked(s Slot) bool {
	if s.Key == SlotQ {
		return true
	}
	return u.unlocked[s]
}
