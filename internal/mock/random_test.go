package mock

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRandom_NumberWithinBounds(t *testing.T) {
	r := NewRandom(1)
	for i := 0; i < 1000; i++ {
		v := r.Number(0, 100)
		assert.GreaterOrEqual(t, v, 0.0)
		assert.LessOrEqual(t, v, 100.0)
	}
	// swapped bounds are tolerated
	v := r.Number(10, 5)
	assert.GreaterOrEqual(t, v, 5.0)
	assert.LessOrEqual(t, v, 10.0)
}

func TestRandom_BooleanExtremes(t *testing.T) {
	r := NewRandom(2)
	for i := 0; i < 100; i++ {
		assert.True(t, r.Boolean(1))
		assert.False(t, r.Boolean(0))
	}
}

func TestRandom_BooleanRate(t *testing.T) {
	r := NewRandom(3)
	hits := 0
	const n = 20000
	for i := 0; i < n; i++ {
		if r.Boolean(0.8) {
			hits++
		}
	}
	assert.InDelta(t, 0.8, float64(hits)/n, 0.02)
}

func TestRandom_Variation(t *testing.T) {
	r := NewRandom(4)
	for i := 0; i < 1000; i++ {
		v := r.Variation(50, 10)
		assert.GreaterOrEqual(t, v, 40.0)
		assert.LessOrEqual(t, v, 60.0)
	}
}

func TestRandom_SeedIsDeterministic(t *testing.T) {
	a, b := NewRandom(99), NewRandom(99)
	for i := 0; i < 10; i++ {
		assert.Equal(t, a.Float64(), b.Float64())
	}
}
