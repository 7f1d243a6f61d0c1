package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type fixedRand struct{ n int }

func (f fixedRand) Intn(int) int { return f.n }

func TestRandInt_Range(t *testing.T) {
	r := NewRand(42)
	for i := 0; i < 500; i++ {
		v := RandInt(r, 1, 6)
		assert.GreaterOrEqual(t, v, 1)
		assert.LessOrEqual(t, v, 6)
	}
}

func TestRandInt_UsesOffset(t *testing.T) {
	assert.Equal(t, 1, RandInt(fixedRand{0}, 1, 50))
	assert.Equal(t, 4, RandInt(fixedRand{3}, 1, 10))
	// Перепутанные границы не ломают диапазон
	assert.Equal(t, 2, RandInt(fixedRand{0}, 5, 2))
}

func TestNewRand_ZeroSeed(t *testing.T) {
	a := NewRand(0)
	b := NewRand(1)
	assert.Equal(t, a.Intn(1000), b.Intn(1000), "сид 0 должен совпадать с сидом 1")
}

func TestNoise_Range(t *testing.T) {
	n := NewNoise(7)
	for x := 0; x < 15; x++ {
		v := n.At(float64(x)/4, 0.5)
		assert.GreaterOrEqual(t, v, 0.0)
		assert.LessOrEqual(t, v, 1.0)
	}
}
