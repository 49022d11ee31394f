// Package weapon defines the equippable weapon archetypes, their ability
// tables, loadout rules, and slot unlocking.
package weapon

// Kind identifies one equippable weapon archetype.
type Kind string

const (
	KindBow       Kind = "bow"
	KindSabres    Kind = "sabres"
	KindScythe    Kind = "scythe"
	KindRuneblade Kind = "runeblade"
	KindWarhammer Kind = "warhammer"
)

// AllKinds lists every weapon archetype in a stable order.
// The tertiary-unlock draw samples from this set.
func AllKinds() []Kind {
	return []Kind{KindBow, KindSabres, KindScythe, KindRuneblade, KindWarhammer}
}

// Valid reports whether k names a known weapon archetype.
func (k Kind) Valid() bool {
	switch k {
	case KindBow, KindSabres, KindScythe, KindRuneblade, KindWarhammer:
		return true
	}
	return false
}

// ResourceClass is the consumable resource a weapon's abilities spend.
type ResourceClass string

const (
	// ResourceEnergy regenerates continuously (bow, sabres).
	ResourceEnergy ResourceClass = "energy"
	// ResourceMana regenerates continuously and its cap scales with level
	// (scythe, runeblade).
	ResourceMana ResourceClass = "mana"
	// ResourceRage decays toward zero and is gained by dealing melee damage
	// (warhammer).
	ResourceRage ResourceClass = "rage"
)

// Resource returns the resource class spent by abilities of kind k.
//
// Postcondition: Returns one of ResourceEnergy, ResourceMana, ResourceRage.
func (k Kind) Resource() ResourceClass {
	switch k {
	case KindBow, KindSabres:
		return ResourceEnergy
	case KindScythe, KindRuneblade:
		return ResourceMana
	default:
		return ResourceRage
	}
}
