package vec

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVec2_StepAndAdd(t *testing.T) {
	v := Vec2{X: 3, Y: 4}

	assert.Equal(t, Vec2{X: 4, Y: 4}, v.Step(1, 0))
	assert.Equal(t, Vec2{X: 3, Y: 3}, v.Step(0, -1))
	assert.Equal(t, Vec2{X: 5, Y: 9}, v.Add(Vec2{X: 2, Y: 5}))
}

func TestVec2_InBounds(t *testing.T) {
	assert.True(t, Vec2{X: 0, Y: 0}.InBounds(15, 15))
	assert.True(t, Vec2{X: 14, Y: 14}.InBounds(15, 15))
	assert.False(t, Vec2{X: 15, Y: 0}.InBounds(15, 15), "x=15 за пределами поля")
	assert.False(t, Vec2{X: 0, Y: -1}.InBounds(15, 15), "отрицательный y за пределами поля")
}

func TestVec2_ChebyshevTo(t *testing.T) {
	center := Vec2{X: 7, Y: 7}

	assert.Equal(t, 0, center.ChebyshevTo(center))
	assert.Equal(t, 3, center.ChebyshevTo(Vec2{X: 10, Y: 5}))
	assert.Equal(t, 4, center.ChebyshevTo(Vec2{X: 6, Y: 3}))
}
