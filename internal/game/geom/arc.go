package geom

import "math"

// InCone reports whether target lies inside the horizontal cone anchored at
// origin, pointing along facing, with the given half-angle (degrees) and
// maximum range.
//
// Precondition: halfAngleDeg in (0, 180]; maxRange > 0.
// Postcondition: Returns true iff target is within maxRange of origin and the
// horizontal angle between facing and origin→target is at most halfAngleDeg.
func InCone(origin, facing, target Vec3, halfAngleDeg, maxRange float64) bool {
	to := target.Sub(origin).Flat()
	dist := to.Length()
	if dist > maxRange {
		return false
	}
	if dist == 0 {
		// Standing inside the attacker counts as hit regardless of angle.
		return true
	}
	f := facing.Flat().Normalized()
	if f == (Vec3{}) {
		return false
	}
	cos := f.Dot(to.Normalized())
	limit := math.Cos(halfAngleDeg * math.Pi / 180)
	return cos >= limit
}

// BehindTarget reports whether the attacker stands inside the target's rear
// arc. The test is dot(targetFacing, normalize(attackerPos - targetPos)):
// values below threshold (a negative number) put the attacker behind the
// target.
//
// Precondition: threshold < 0.
// Postcondition: Returns false when attacker and target coincide.
func BehindTarget(attackerPos, targetPos, targetFacing Vec3, threshold float64) bool {
	rel := attackerPos.Sub(targetPos).Flat()
	if rel.Length() == 0 {
		return false
	}
	f := targetFacing.Flat().Normalized()
	if f == (Vec3{}) {
		return false
	}
	return f.Dot(rel.Normalized()) < threshold
}
