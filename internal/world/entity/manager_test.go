package entity

import (
	"testing"

	"github.com/annel0/robomaze/internal/vec"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArena_StableIDs(t *testing.T) {
	a := NewArena()
	wall := NewWall(vec.Vec2{X: 0, Y: 0})
	marble := NewMarble(vec.Vec2{X: 1, Y: 1})
	player := NewPlayer(vec.Vec2{X: 2, Y: 2})

	wallID := a.Add(wall)
	playerID := a.Reserve(player)
	marbleID := a.Add(marble)

	assert.NotEqual(t, NoEntity, wallID)
	assert.Same(t, wall, a.Get(wallID))
	assert.Same(t, player, a.Get(playerID))
	assert.Equal(t, 2, a.Len(), "игрок не в очереди обновления")
	assert.Nil(t, a.Get(NoEntity))
	assert.Nil(t, a.Get(ID(100)))

	wall.SetDead()
	assert.Equal(t, 1, a.Prune())
	assert.Nil(t, a.Get(wallID))
	assert.Same(t, marble, a.Get(marbleID), "ID остальных не меняется")
	assert.Same(t, marble, a.At(0))
}

func TestArena_PruneKillsOrphanedGoodie(t *testing.T) {
	a := NewArena()
	thief := NewThiefBot(KindRegularThiefBot, vec.Vec2{X: 3, Y: 3}, 0)
	goodie := NewPickup(KindAmmoGoodie, vec.Vec2{X: 3, Y: 3})
	a.Add(thief)
	a.Add(goodie)
	goodie.CarriedBy = thief.ID
	thief.StolenGoodie = goodie.ID

	thief.SetDead()
	removed := a.Prune()

	assert.Equal(t, 2, removed)
	assert.Equal(t, 0, a.Len())
}

func TestArena_EntitiesAtSkipsDeadAndCarried(t *testing.T) {
	a := NewArena()
	pos := vec.Vec2{X: 4, Y: 4}
	dead := NewMarble(pos)
	carried := NewPickup(KindExtraLifeGoodie, pos)
	live := NewPit(pos)
	a.Add(dead)
	a.Add(carried)
	a.Add(live)
	dead.SetDead()
	carried.CarriedBy = ID(42)

	got := a.EntitiesAt(pos)
	require.Len(t, got, 1)
	assert.Same(t, live, got[0])
}

func TestArena_StatsAndClear(t *testing.T) {
	a := NewArena()
	a.Add(NewWall(vec.Vec2{X: 0, Y: 0}))
	a.Add(NewWall(vec.Vec2{X: 0, Y: 1}))
	a.Add(NewPea(vec.Vec2{X: 1, Y: 1}, DirUp))

	stats := a.Stats()
	assert.Equal(t, 2, stats[KindWall])
	assert.Equal(t, 1, stats[KindPea])

	a.Clear()
	assert.Equal(t, 0, a.Len())
	assert.Equal(t, ID(1), a.Add(NewWall(vec.Vec2{})), "после очистки ID начинаются заново")
}
