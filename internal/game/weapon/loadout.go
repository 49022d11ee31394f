package weapon

import "fmt"

// TertiaryUnlockLevel is the player level at which a third weapon is drawn.
const TertiaryUnlockLevel = 3

// Loadout is a player's equipped weapon set for one match.
// Invariant: primary, secondary, and tertiary (once set) are all distinct.
// The set is immutable after match start except for the one-time tertiary
// unlock.
type Loadout struct {
	primary   Kind
	secondary Kind
	tertiary  Kind // empty until unlocked
}

// NewLoadout builds a two-weapon loadout.
//
// Precondition: primary and secondary must be valid and distinct.
// Postcondition: Tertiary() returns ("", false).
func NewLoadout(primary, secondary Kind) (*Loadout, error) {
	if !primary.Valid() || !secondary.Valid() {
		return nil, fmt.Errorf("weapon: invalid loadout kinds %q/%q", primary, secondary)
	}
	if primary == secondary {
		return nil, fmt.Errorf("weapon: loadout weapons must be distinct, got %q twice", primary)
	}
	return &Loadout{primary: primary, secondary: secondary}, nil
}

// Primary returns the primary weapon kind.
func (l *Loadout) Primary() Kind { return l.primary }

// Secondary returns the secondary weapon kind.
func (l *Loadout) Secondary() Kind { return l.secondary }

// Tertiary returns the tertiary weapon kind and whether it has been unlocked.
func (l *Loadout) Tertiary() (Kind, bool) {
	return l.tertiary, l.tertiary != ""
}

// At returns the weapon occupying the given position.
//
// Postcondition: ok is false only for an unset tertiary.
func (l *Loadout) At(pos Position) (Kind, bool) {
	switch pos {
	case PositionPrimary:
		return l.primary, true
	case PositionSecondary:
		return l.secondary, true
	case PositionTertiary:
		return l.Tertiary()
	}
	return "", false
}

// Contains reports whether k is anywhere in the loadout.
func (l *Loadout) Contains(k Kind) bool {
	return k == l.primary || k == l.secondary || k == l.tertiary
}

// Kinds returns the equipped kinds in position order, omitting an unset
// tertiary.
func (l *Loadout) Kinds() []Kind {
	out := []Kind{l.primary, l.secondary}
	if l.tertiary != "" {
		out = append(out, l.tertiary)
	}
	return out
}

// UnlockTertiary assigns the third weapon. The draw itself happens at the
// caller (uniform over AllKinds minus the two equipped); this method enforces
// the invariants.
//
// Precondition: k must be valid and not already equipped.
// Postcondition: on success Tertiary() returns (k, true); a second call fails.
func (l *Loadout) UnlockTertiary(k Kind) error {
	if l.tertiary != "" {
		return fmt.Errorf("weapon: tertiary already unlocked as %q", l.tertiary)
	}
	if !k.Valid() {
		return fmt.Errorf("weapon: invalid tertiary kind %q", k)
	}
	if l.Contains(k) {
		return fmt.Errorf("weapon: tertiary %q duplicates an equipped weapon", k)
	}
	l.tertiary = k
	return nil
}

// DrawTertiary picks the tertiary uniformly from the kinds not already
// equipped, using intn as the randomness source (intn(n) returns [0, n)).
//
// Precondition: intn must not be nil.
// Postcondition: on success the loadout has a distinct tertiary.
func (l *Loadout) DrawTertiary(intn func(n int) int) (Kind, error) {
	if l.tertiary != "" {
		return "", fmt.Errorf("weapon: tertiary already unlocked as %q", l.tertiary)
	}
	var pool []Kind
	for _, k := range AllKinds() {
		if !l.Contains(k) {
			pool = append(pool, k)
		}
	}
	if len(pool) == 0 {
		return "", fmt.Errorf("weapon: no kinds left to draw")
	}
	pick := pool[intn(len(pool))]
	if err := l.UnlockTertiary(pick); err != nil {
		return "", err
	}
	return pick, nil
}
