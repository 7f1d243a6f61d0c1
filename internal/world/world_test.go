package world

import (
	"io"
	"math/rand"
	"strings"
	"testing"

	"github.com/annel0/robomaze/internal/host"
	"github.com/annel0/robomaze/internal/logging"
	"github.com/annel0/robomaze/internal/util"
	"github.com/annel0/robomaze/internal/vec"
	"github.com/annel0/robomaze/internal/world/entity"
	"github.com/annel0/robomaze/internal/world/level"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Уровень 20: роботы действуют раз в три тика
const testLevel = 20

// seqRand отдаёт заданные значения Intn по порядку, затем n-1 (ни одна случайная проверка "1 из N" не срабатывает)
type seqRand struct {
	vals []int
}

func (r *seqRand) Intn(n int) int {
	if len(r.vals) == 0 {
		return n - 1
	}
	v := r.vals[0]
	r.vals = r.vals[1:]
	if v >= n {
		v = n - 1
	}
	return v
}

// zeroRand всегда отдаёт 0: все проверки "1 из N" срабатывают
type zeroRand struct{}

func (zeroRand) Intn(int) int { return 0 }

type cell struct {
	x, y int
	c    byte
}

// buildLevel собирает текст уровня: стены по краю, пустое поле и указанные клетки
func buildLevel(cells ...cell) string {
	var grid [level.Height][level.Width]byte
	for y := 0; y < level.Height; y++ {
		for x := 0; x < level.Width; x++ {
			if x == 0 || y == 0 || x == level.Width-1 || y == level.Height-1 {
				grid[y][x] = '#'
			} else {
				grid[y][x] = '.'
			}
		}
	}
	for _, c := range cells {
		grid[c.y][c.x] = c.c
	}

	var sb strings.Builder
	for y := level.Height - 1; y >= 0; y-- {
		sb.Write(grid[y][:])
		sb.WriteByte('\n')
	}
	return sb.String()
}

func newTestWorldWithRand(t *testing.T, text string, rng util.Rand, keys ...host.Key) (*World, *host.Scripted, *Scoreboard) {
	t.Helper()
	h := host.NewScripted(keys...)
	sb := NewScoreboard(3)
	w := New(Options{
		Level:  testLevel,
		Loader: level.MapLoader{level.Name(testLevel): text},
		Host:   h,
		Rand:   rng,
		Ledger: sb,
		Logger: logging.NewWriterLogger("test", io.Discard, logging.ERROR),
	})
	require.Equal(t, StatusContinue, w.Init())
	return w, h, sb
}

func newTestWorld(t *testing.T, text string, keys ...host.Key) (*World, *host.Scripted, *Scoreboard) {
	return newTestWorldWithRand(t, text, &seqRand{}, keys...)
}

func findKind(w *World, kind entity.Kind) *entity.Entity {
	var found *entity.Entity
	w.arena.Each(func(e *entity.Entity) bool {
		if e.Kind == kind && e.Alive {
			found = e
			return false
		}
		return true
	})
	return found
}

func countKind(w *World, kind entity.Kind) int {
	return w.arena.Stats()[kind]
}

func ticks(w *World, n int) Status {
	status := StatusContinue
	for i := 0; i < n && status == StatusContinue; i++ {
		status = w.Move()
	}
	return status
}

func TestInit_PopulatesLevel(t *testing.T) {
	w, _, _ := newTestWorld(t, buildLevel(
		cell{1, 1, '@'},
		cell{3, 3, '*'}, cell{4, 3, '*'},
		cell{5, 5, 'x'},
		cell{6, 6, '-'}, cell{7, 7, '|'},
		cell{8, 8, '1'}, cell{9, 9, '2'},
	))

	require.NotNil(t, w.Player())
	assert.Equal(t, vec.Vec2{X: 1, Y: 1}, w.Player().Pos)
	assert.Equal(t, entity.DirRight, w.Player().Dir)
	assert.Equal(t, 2, w.Crystals())
	assert.Equal(t, StartBonus, w.Bonus())
	assert.Equal(t, 56, countKind(w, entity.KindWall))
	assert.Equal(t, 1, countKind(w, entity.KindExit))
	assert.Equal(t, 2, countKind(w, entity.KindRageBot))

	horiz := w.EntitiesAt(vec.Vec2{X: 6, Y: 6})
	require.Len(t, horiz, 1)
	assert.Equal(t, entity.DirRight, horiz[0].Dir)
	vert := w.EntitiesAt(vec.Vec2{X: 7, Y: 7})
	require.Len(t, vert, 1)
	assert.Equal(t, entity.DirDown, vert[0].Dir)
	assert.Equal(t, entity.RestTicksForLevel(testLevel), vert[0].RestTicks)

	assert.Equal(t, entity.KindMeanThiefBot, w.EntitiesAt(vec.Vec2{X: 9, Y: 9})[0].Product)
}

func TestInit_EndsGameAsWin(t *testing.T) {
	logger := logging.NewWriterLogger("test", io.Discard, logging.ERROR)

	missing := New(Options{Level: 0, Loader: level.MapLoader{}, Host: host.NewScripted(), Logger: logger})
	assert.Equal(t, StatusPlayerWon, missing.Init())
	assert.Equal(t, StatusPlayerWon, missing.Move(), "без уровня тик не выполняется")

	broken := New(Options{Level: 0, Loader: level.MapLoader{level.Name(0): "###"}, Host: host.NewScripted(), Logger: logger})
	assert.Equal(t, StatusPlayerWon, broken.Init())

	beyond := New(Options{Level: MaxLevel + 1, Loader: level.MapLoader{level.Name(MaxLevel + 1): buildLevel(cell{1, 1, '@'})}, Host: host.NewScripted(), Logger: logger})
	assert.Equal(t, StatusPlayerWon, beyond.Init())
}

func TestExit_AlreadyRevealedFinishesLevel(t *testing.T) {
	w, h, sb := newTestWorld(t, buildLevel(cell{5, 5, '@'}, cell{6, 5, 'x'}))
	exit := findKind(w, entity.KindExit)
	exit.Pos = w.Player().Pos
	exit.Revealed = true
	exit.Visible = true

	status := w.Move()

	assert.Equal(t, StatusFinishedLevel, status)
	assert.Equal(t, entity.LevelFinishedScore+StartBonus, sb.Score())
	assert.Equal(t, 1, h.CountSound(host.SoundFinishedLevel))
}

func TestExit_RevealUnderPlayerFinishesSameTick(t *testing.T) {
	w, h, sb := newTestWorld(t, buildLevel(cell{5, 5, '@'}, cell{6, 5, 'x'}))
	exit := findKind(w, entity.KindExit)
	exit.Pos = w.Player().Pos
	require.False(t, exit.Revealed)

	status := w.Move()

	assert.Equal(t, StatusFinishedLevel, status)
	assert.Equal(t, entity.LevelFinishedScore+StartBonus, sb.Score())
	assert.Equal(t, 1, h.CountSound(host.SoundRevealExit))
	assert.Equal(t, 1, h.CountSound(host.SoundFinishedLevel))
}

func TestExit_RevealThenFinish(t *testing.T) {
	w, h, sb := newTestWorld(t, buildLevel(cell{5, 5, '@'}, cell{6, 5, 'x'}), host.KeyRight)

	assert.Equal(t, StatusContinue, w.Move())
	assert.Equal(t, 1, h.CountSound(host.SoundRevealExit))
	assert.Equal(t, vec.Vec2{X: 6, Y: 5}, w.Player().Pos, "на выход можно встать")
	assert.Equal(t, StartBonus-1, w.Bonus())

	assert.Equal(t, StatusFinishedLevel, w.Move())
	assert.Equal(t, entity.LevelFinishedScore+StartBonus-1, sb.Score())
	assert.Equal(t, 1, h.CountSound(host.SoundRevealExit))
}

func TestExit_RevealIsIdempotent(t *testing.T) {
	w, h, _ := newTestWorld(t, buildLevel(cell{1, 1, '@'}, cell{7, 7, 'x'}))

	ticks(w, 5)

	assert.Equal(t, 1, h.CountSound(host.SoundRevealExit))
	assert.True(t, findKind(w, entity.KindExit).Visible)
}

func TestExit_HiddenWhileCrystalsRemain(t *testing.T) {
	w, h, _ := newTestWorld(t, buildLevel(cell{1, 1, '@'}, cell{7, 7, 'x'}, cell{3, 3, '*'}))

	ticks(w, 3)

	assert.Zero(t, h.CountSound(host.SoundRevealExit))
	for _, e := range w.Snapshot().Entities {
		assert.NotEqual(t, "exit", e.Kind, "скрытый выход не попадает в снимок")
	}
}

func TestCrystalPickupRevealsExit(t *testing.T) {
	w, h, sb := newTestWorld(t, buildLevel(cell{2, 2, '@'}, cell{3, 2, '*'}, cell{9, 9, 'x'}), host.KeyRight)

	ticks(w, 3)

	assert.Equal(t, 0, w.Crystals())
	assert.Equal(t, entity.CrystalScore, sb.Score())
	assert.Equal(t, 1, h.CountSound(host.SoundGotGoodie))
	assert.Equal(t, 1, h.CountSound(host.SoundRevealExit))
	assert.Zero(t, countKind(w, entity.KindCrystal))
}

func TestPlayer_OneKeyPerTick(t *testing.T) {
	w, h, _ := newTestWorld(t, buildLevel(cell{3, 3, '@'}), host.KeyUp, host.KeyUp)

	w.Move()

	assert.Equal(t, vec.Vec2{X: 3, Y: 4}, w.Player().Pos)
	assert.Equal(t, 1, h.Remaining())
	assert.True(t, strings.HasPrefix(h.Status(), "Score: 0000000  Level: 20  Lives:  3"))
}

func TestPlayer_BlockedByWall(t *testing.T) {
	w, _, _ := newTestWorld(t, buildLevel(cell{1, 1, '@'}), host.KeyLeft)

	w.Move()

	assert.Equal(t, vec.Vec2{X: 1, Y: 1}, w.Player().Pos)
	assert.Equal(t, entity.DirLeft, w.Player().Dir)
}

func TestPush_Marble(t *testing.T) {
	w, _, _ := newTestWorld(t, buildLevel(cell{3, 7, '@'}, cell{4, 7, 'b'}), host.KeyRight)

	w.Move()

	assert.Equal(t, vec.Vec2{X: 4, Y: 7}, w.Player().Pos)
	assert.Equal(t, vec.Vec2{X: 5, Y: 7}, findKind(w, entity.KindMarble).Pos)
}

func TestPush_BlockedMarbleStaysPut(t *testing.T) {
	for name, blocker := range map[string]byte{"стена": '#', "мрамор": 'b', "кристалл": '*'} {
		t.Run(name, func(t *testing.T) {
			w, _, _ := newTestWorld(t, buildLevel(cell{3, 7, '@'}, cell{4, 7, 'b'}, cell{5, 7, blocker}), host.KeyRight)

			w.Move()

			assert.Equal(t, vec.Vec2{X: 3, Y: 7}, w.Player().Pos)
			assert.Len(t, w.EntitiesAt(vec.Vec2{X: 4, Y: 7}), 1, "мрамор на месте")
		})
	}
}

func TestPush_MarbleIntoPit(t *testing.T) {
	w, _, _ := newTestWorld(t, buildLevel(cell{3, 7, '@'}, cell{4, 7, 'b'}, cell{5, 7, 'o'}), host.KeyRight, host.KeyRight)

	w.Move()
	assert.Equal(t, vec.Vec2{X: 4, Y: 7}, w.Player().Pos)
	assert.Equal(t, vec.Vec2{X: 5, Y: 7}, findKind(w, entity.KindMarble).Pos)

	w.Move()
	assert.Equal(t, vec.Vec2{X: 5, Y: 7}, w.Player().Pos, "яма засыпана, клетка свободна")
	assert.Zero(t, countKind(w, entity.KindMarble))
	assert.Zero(t, countKind(w, entity.KindPit))
}

func TestPlayer_CannotEnterPit(t *testing.T) {
	w, _, _ := newTestWorld(t, buildLevel(cell{3, 7, '@'}, cell{4, 7, 'o'}), host.KeyRight)

	w.Move()

	assert.Equal(t, vec.Vec2{X: 3, Y: 7}, w.Player().Pos)
}

func TestRageBot_CannotPushMarble(t *testing.T) {
	w, _, _ := newTestWorld(t, buildLevel(cell{10, 10, '@'}, cell{2, 7, '-'}, cell{3, 7, 'b'}))
	bot := findKind(w, entity.KindRageBot)

	ticks(w, entity.RestTicksForLevel(testLevel))

	assert.Equal(t, vec.Vec2{X: 2, Y: 7}, bot.Pos)
	assert.Equal(t, entity.DirLeft, bot.Dir, "упёрся и развернулся")
	assert.Equal(t, vec.Vec2{X: 3, Y: 7}, findKind(w, entity.KindMarble).Pos)
}

func TestPea_HitsOnSpawnTile(t *testing.T) {
	w, h, _ := newTestWorld(t, buildLevel(cell{3, 7, '@'}, cell{4, 7, '|'}), host.KeySpace, host.KeyNone)
	bot := findKind(w, entity.KindRageBot)

	w.Move()
	assert.Equal(t, 1, countKind(w, entity.KindPea))
	assert.Equal(t, entity.PlayerStartAmmo-1, w.Player().Ammo)

	w.Move()
	assert.Zero(t, countKind(w, entity.KindPea))
	assert.Equal(t, entity.RageBotHP-entity.PeaDamage, bot.HP)
	assert.Equal(t, 1, h.CountSound(host.SoundRobotImpact))
}

func TestPea_StoppedByWall(t *testing.T) {
	w, _, _ := newTestWorld(t, buildLevel(cell{1, 7, '@'}), host.KeyLeft, host.KeySpace)

	ticks(w, 3)

	assert.Zero(t, countKind(w, entity.KindPea))
	assert.Equal(t, 56, countKind(w, entity.KindWall))
}

func TestPlayerDeath_ShortCircuitsTick(t *testing.T) {
	keys := []host.Key{host.KeyNone, host.KeyNone, host.KeyNone, host.KeyNone, host.KeyLeft}
	w, h, sb := newTestWorld(t, buildLevel(cell{6, 7, '@'}, cell{2, 7, '-'}, cell{10, 10, '*'}), keys...)
	w.Player().HP = entity.PeaDamage

	status := ticks(w, 20)

	assert.Equal(t, StatusPlayerDied, status)
	assert.Equal(t, 5, w.Ticks())
	assert.Equal(t, 2, sb.Lives())
	assert.Equal(t, 0, w.Crystals(), "кристаллы обнуляются")
	assert.Equal(t, 1, h.Remaining(), "после гибели игрок не обновляется")
	assert.Equal(t, 1, h.CountSound(host.SoundEnemyFire))
	assert.Equal(t, 1, h.CountSound(host.SoundPlayerDie))
}

func TestPlayerEscapeLosesLife(t *testing.T) {
	w, _, sb := newTestWorld(t, buildLevel(cell{6, 7, '@'}), host.KeyEscape)

	assert.Equal(t, StatusPlayerDied, w.Move())
	assert.Equal(t, 2, sb.Lives())
}

func TestClearShot(t *testing.T) {
	w, _, _ := newTestWorld(t, buildLevel(cell{10, 7, '@'}, cell{4, 7, 'a'}))
	from := vec.Vec2{X: 2, Y: 7}

	assert.True(t, w.ExistsClearShotToPlayer(from, 1, 0), "бонус не закрывает линию")
	assert.False(t, w.ExistsClearShotToPlayer(from, -1, 0))
	assert.False(t, w.ExistsClearShotToPlayer(from, 0, 0))
	assert.False(t, w.ExistsClearShotToPlayer(vec.Vec2{X: 0, Y: 7}, -1, 0), "за пределами поля")

	marble := entity.NewMarble(vec.Vec2{X: 6, Y: 7})
	w.Spawn(marble)
	assert.False(t, w.ExistsClearShotToPlayer(from, 1, 0))

	marble.SetDead()
	assert.True(t, w.ExistsClearShotToPlayer(from, 1, 0), "мёртвые сущности не учитываются")
}

func TestFactoryCensus(t *testing.T) {
	w, _, _ := newTestWorld(t, buildLevel(cell{1, 1, '@'}, cell{7, 7, '1'}, cell{8, 8, '-'}))
	at := vec.Vec2{X: 7, Y: 7}

	w.Spawn(entity.NewThiefBot(entity.KindRegularThiefBot, vec.Vec2{X: 9, Y: 10}, testLevel))
	w.Spawn(entity.NewThiefBot(entity.KindMeanThiefBot, vec.Vec2{X: 11, Y: 7}, testLevel))

	count, ok := w.FactoryCensus(at, entity.FactoryCensusRadius)
	assert.True(t, ok)
	assert.Equal(t, 1, count, "буяны и воры дальше радиуса не считаются")

	onTile := entity.NewThiefBot(entity.KindRegularThiefBot, at, testLevel)
	w.Spawn(onTile)
	_, ok = w.FactoryCensus(at, entity.FactoryCensusRadius)
	assert.False(t, ok)

	onTile.SetDead()
	_, ok = w.FactoryCensus(at, entity.FactoryCensusRadius)
	assert.False(t, ok, "убитый в этом тике вор учитывается до конца тика")

	w.arena.Prune()
	_, ok = w.FactoryCensus(at, entity.FactoryCensusRadius)
	assert.True(t, ok)
}

func TestFactory_NoSpawnWhileThiefOnTile(t *testing.T) {
	w, h, _ := newTestWorldWithRand(t, buildLevel(cell{1, 1, '@'}, cell{7, 7, '1'}), zeroRand{})
	thief := entity.NewThiefBot(entity.KindRegularThiefBot, vec.Vec2{X: 7, Y: 7}, testLevel)
	w.Spawn(thief)

	w.Move()
	assert.Equal(t, 1, countKind(w, entity.KindRegularThiefBot))
	assert.Zero(t, h.CountSound(host.SoundRobotBorn))

	thief.Pos = vec.Vec2{X: 7, Y: 9}
	w.Move()
	assert.Equal(t, 2, countKind(w, entity.KindRegularThiefBot))
	assert.Equal(t, 1, h.CountSound(host.SoundRobotBorn))
}

func TestThiefBot_StealAndDrop(t *testing.T) {
	w, h, sb := newTestWorldWithRand(t, buildLevel(cell{1, 1, '@'}, cell{7, 7, 'a'}), zeroRand{})
	goodie := findKind(w, entity.KindAmmoGoodie)
	thief := entity.NewThiefBot(entity.KindRegularThiefBot, vec.Vec2{X: 7, Y: 7}, testLevel)
	w.Spawn(thief)

	ticks(w, entity.RestTicksForLevel(testLevel))

	assert.Equal(t, 1, h.CountSound(host.SoundRobotMunch))
	assert.Equal(t, thief.ID, goodie.CarriedBy)
	assert.Nil(t, w.ColocatedStealable(vec.Vec2{X: 7, Y: 7}), "унесённый бонус не виден запросам")
	for _, e := range w.Snapshot().Entities {
		assert.NotEqual(t, "ammo", e.Kind)
	}

	thief.Pos = vec.Vec2{X: 8, Y: 7}
	entity.Damage(w, thief, entity.RegularThiefBotHP)
	w.Move()

	assert.Zero(t, countKind(w, entity.KindRegularThiefBot))
	assert.Equal(t, entity.RegularThiefBotScore, sb.Score())
	assert.True(t, goodie.InPlay())
	assert.Equal(t, vec.Vec2{X: 8, Y: 7}, goodie.Pos)
}

func TestBonusFloorsAtZero(t *testing.T) {
	w, _, _ := newTestWorld(t, buildLevel(cell{1, 1, '@'}))
	w.bonus = 1

	ticks(w, 3)

	assert.Equal(t, 0, w.Bonus())
}

func TestAgentsNeverShareBlockedTiles(t *testing.T) {
	moves := []host.Key{host.KeyUp, host.KeyDown, host.KeyLeft, host.KeyRight, host.KeySpace, host.KeyNone}

	for seed := int64(1); seed <= 10; seed++ {
		gen := level.NewGenerator(seed, level.DefaultGenOptions())
		r := rand.New(rand.NewSource(seed))
		keys := make([]host.Key, 300)
		for i := range keys {
			keys[i] = moves[r.Intn(len(moves))]
		}

		w, _, _ := newTestWorldWithRand(t, level.Format(gen.Generate()), util.NewRand(seed), keys...)

		for tick := 0; tick < len(keys); tick++ {
			if w.Move() != StatusContinue {
				break
			}
			agents := []*entity.Entity{w.Player()}
			w.arena.Each(func(e *entity.Entity) bool {
				if e.InPlay() && e.Kind.IsRobot() {
					agents = append(agents, e)
				}
				return true
			})
			for _, a := range agents {
				for _, other := range w.EntitiesAt(a.Pos) {
					if other == a {
						continue
					}
					traits := entity.TraitsOf(other.Kind)
					// вор появляется на клетке своей фабрики
					spawnTile := a.Kind.IsThiefBot() &&
						(other.Kind == entity.KindRegularThiefBotFactory || other.Kind == entity.KindMeanThiefBotFactory)
					assert.True(t, traits.AllowsAgentColocation || spawnTile,
						"seed %d tick %d: %s на одной клетке с %s", seed, tick, a.Kind, other.Kind)
				}
			}
		}
	}
}

func TestFormatStatus(t *testing.T) {
	assert.Equal(t,
		"Score: 0001234  Level: 03  Lives:  2  Health:  90%  Ammo:  15  Bonus:  987",
		FormatStatus(1234, 3, 2, 90, 15, 987))
}

func TestScoreboard(t *testing.T) {
	sb := NewScoreboard(1)
	sb.IncreaseScore(50)
	sb.IncLives()
	sb.DecLives()
	sb.DecLives()
	sb.DecLives()

	assert.Equal(t, 50, sb.Score())
	assert.Equal(t, 0, sb.Lives(), "жизни не уходят в минус")
}
