package geom_test

import (
	"testing"

	"github.com/riftforge/arena/internal/game/geom"
	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func TestInCone(t *testing.T) {
	origin := geom.Vec3{}
	facing := geom.Vec3{X: 0, Z: 1}

	tests := []struct {
		name     string
		target   geom.Vec3
		halfAng  float64
		maxRange float64
		want     bool
	}{
		{"dead ahead", geom.Vec3{Z: 2}, 35, 2.5, true},
		{"out of range", geom.Vec3{Z: 3}, 35, 2.5, false},
		{"wide of the cone", geom.Vec3{X: 2, Z: 0.5}, 35, 2.5, false},
		{"inside half angle", geom.Vec3{X: 0.5, Z: 2}, 35, 2.5, true},
		{"behind attacker", geom.Vec3{Z: -1}, 35, 2.5, false},
		{"coincident positions", geom.Vec3{}, 35, 2.5, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := geom.InCone(origin, facing, tc.target, tc.halfAng, tc.maxRange)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestInCone_VerticalOffsetIgnored(t *testing.T) {
	// Cone tests are horizontal-plane only; altitude must not matter.
	origin := geom.Vec3{}
	facing := geom.Vec3{Z: 1}
	assert.True(t, geom.InCone(origin, facing, geom.Vec3{Y: 5, Z: 2}, 35, 2.5))
}

func TestBehindTarget(t *testing.T) {
	targetPos := geom.Vec3{}
	targetFacing := geom.Vec3{Z: 1}

	// Attacker directly behind.
	assert.True(t, geom.BehindTarget(geom.Vec3{Z: -2}, targetPos, targetFacing, -0.45))
	// Attacker in front.
	assert.False(t, geom.BehindTarget(geom.Vec3{Z: 2}, targetPos, targetFacing, -0.45))
	// Attacker off to the side: dot is 0, not below -0.45.
	assert.False(t, geom.BehindTarget(geom.Vec3{X: 2}, targetPos, targetFacing, -0.45))
	// Coincident never counts as behind.
	assert.False(t, geom.BehindTarget(targetPos, targetPos, targetFacing, -0.45))
}

func TestDistanceToSegment(t *testing.T) {
	a, b := geom.Vec3{}, geom.Vec3{Z: 4}

	tests := []struct {
		name  string
		point geom.Vec3
		want  float64
	}{
		{"beside the middle", geom.Vec3{X: 1, Z: 2}, 1},
		{"on the segment", geom.Vec3{Z: 3}, 0},
		{"past the far end", geom.Vec3{Z: 6}, 2},
		{"before the near end", geom.Vec3{Z: -3}, 3},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.InDelta(t, tc.want, tc.point.DistanceToSegment(a, b), 1e-9)
		})
	}

	// Degenerate segment measures to the point.
	assert.InDelta(t, 5.0, geom.Vec3{X: 3, Z: 4}.DistanceToSegment(geom.Vec3{}, geom.Vec3{}), 1e-9)
}

func TestDistanceToSegment_Property_NeverExceedsEndpointDistance(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		coord := rapid.Float64Range(-50, 50)
		vec := func(label string) geom.Vec3 {
			return geom.Vec3{
				X: coord.Draw(rt, label+"x"),
				Y: coord.Draw(rt, label+"y"),
				Z: coord.Draw(rt, label+"z"),
			}
		}
		p, a, b := vec("p"), vec("a"), vec("b")
		d := p.DistanceToSegment(a, b)
		assert.LessOrEqual(rt, d, p.DistanceTo(a)+1e-9)
		assert.LessOrEqual(rt, d, p.DistanceTo(b)+1e-9)
	})
}

func TestNormalized_Property_UnitLengthOrZero(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		v := geom.Vec3{
			X: rapid.Float64Range(-100, 100).Draw(rt, "x"),
			Y: rapid.Float64Range(-100, 100).Draw(rt, "y"),
			Z: rapid.Float64Range(-100, 100).Draw(rt, "z"),
		}
		n := v.Normalized()
		if v.Length() == 0 {
			assert.Equal(rt, geom.Vec3{}, n)
			return
		}
		assert.InDelta(rt, 1.0, n.Length(), 1e-9)
	})
}
