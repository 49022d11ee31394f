package rng_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"pgregory.net/rapid"

	"github.com/riftforge/arena/internal/game/rng"
)

func TestCryptoSource_InRange(t *testing.T) {
	src := rng.NewCryptoSource()
	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(1, 1000).Draw(t, "n")
		v := src.Intn(n)
		if v < 0 || v >= n {
			t.Fatalf("Intn(%d) = %d, out of range", n, v)
		}
	})
}

func TestCryptoSource_PanicsOnNonPositive(t *testing.T) {
	src := rng.NewCryptoSource()
	assert.Panics(t, func() { src.Intn(0) })
	assert.Panics(t, func() { src.Intn(-5) })
}

func TestCryptoSource_CoversAllValues(t *testing.T) {
	src := rng.NewCryptoSource()
	seen := make(map[int]bool)
	for i := 0; i < 200; i++ {
		seen[src.Intn(3)] = true
	}
	assert.Len(t, seen, 3, "all outcomes reachable")
}

func TestLoggedSource_DelegatesToWrapped(t *testing.T) {
	src := rng.NewLoggedSource(rng.NewCryptoSource(), zap.NewNop())
	for i := 0; i < 50; i++ {
		v := src.Intn(2)
		assert.True(t, v == 0 || v == 1)
	}
}
