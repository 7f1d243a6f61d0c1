package level

import (
	"github.com/annel0/robomaze/internal/util"
)

// GenOptions задаёт содержимое генерируемого уровня
type GenOptions struct {
	WallThreshold float64 // Значение шума, выше которого клетка становится стеной
	NoiseScale    float64 // Масштаб шума (меньше - крупнее стены)
	Crystals      int
	Goodies       int
	Marbles       int
	RageBots      int
	Factories     int
}

// DefaultGenOptions возвращает параметры генерации по умолчанию
func DefaultGenOptions() GenOptions {
	return GenOptions{
		WallThreshold: 0.62,
		NoiseScale:    0.35,
		Crystals:      5,
		Goodies:       2,
		Marbles:       1,
		RageBots:      2,
		Factories:     1,
	}
}

// Generator строит уровни из шума Перлина. Один сид - один и тот же уровень.
type Generator struct {
	Seed    int64
	Options GenOptions
}

// NewGenerator создаёт генератор уровней
func NewGenerator(seed int64, opts GenOptions) *Generator {
	return &Generator{Seed: seed, Options: opts}
}

// Generate строит уровень: стены по границе и по шуму, затем игрок и объекты
// на клетках, достижимых от игрока.
func (g *Generator) Generate() *Level {
	noise := util.NewNoise(g.Seed)
	rng := util.NewRand(g.Seed)
	l := New()

	for y := 0; y < Height; y++ {
		for x := 0; x < Width; x++ {
			if x == 0 || y == 0 || x == Width-1 || y == Height-1 {
				l.Set(x, y, Wall)
				continue
			}
			if noise.At(float64(x)*g.Options.NoiseScale, float64(y)*g.Options.NoiseScale) > g.Options.WallThreshold {
				l.Set(x, y, Wall)
			}
		}
	}

	free := l.freeCells()
	if len(free) == 0 {
		// Шум закрыл всё поле: освобождаем центр
		l.Set(Width/2, Height/2, Empty)
		free = l.freeCells()
	}

	start := free[util.RandInt(rng, 0, len(free)-1)]
	l.Set(start[0], start[1], PlayerStart)

	cells := l.reachableFrom(start)
	place := func(e MazeEntry, n int) {
		for i := 0; i < n && len(cells) > 0; i++ {
			j := util.RandInt(rng, 0, len(cells)-1)
			c := cells[j]
			cells[j] = cells[len(cells)-1]
			cells = cells[:len(cells)-1]
			l.Set(c[0], c[1], e)
		}
	}

	place(Exit, 1)
	place(Crystal, g.Options.Crystals)
	goodies := []MazeEntry{ExtraLife, RestoreHealth, Ammo}
	for i := 0; i < g.Options.Goodies; i++ {
		place(goodies[util.RandInt(rng, 0, len(goodies)-1)], 1)
	}
	place(Marble, g.Options.Marbles)
	for i := 0; i < g.Options.RageBots; i++ {
		if util.RandInt(rng, 0, 1) == 0 {
			place(HorizRageBot, 1)
		} else {
			place(VertRageBot, 1)
		}
	}
	for i := 0; i < g.Options.Factories; i++ {
		if util.RandInt(rng, 0, 1) == 0 {
			place(ThiefBotFactory, 1)
		} else {
			place(MeanThiefBotFactory, 1)
		}
	}

	return l
}

func (l *Level) freeCells() [][2]int {
	var cells [][2]int
	for y := 1; y < Height-1; y++ {
		for x := 1; x < Width-1; x++ {
			if l.grid[y][x] == Empty {
				cells = append(cells, [2]int{x, y})
			}
		}
	}
	return cells
}

// reachableFrom возвращает пустые клетки, связанные с start по четырём направлениям
func (l *Level) reachableFrom(start [2]int) [][2]int {
	var seen [Height][Width]bool
	seen[start[1]][start[0]] = true
	queue := [][2]int{start}
	var result [][2]int

	for len(queue) > 0 {
		c := queue[0]
		queue = queue[1:]
		for _, d := range [4][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}} {
			x, y := c[0]+d[0], c[1]+d[1]
			if x < 0 || x >= Width || y < 0 || y >= Height || seen[y][x] {
				continue
			}
			seen[y][x] = true
			if l.grid[y][x] != Empty {
				continue
			}
			result = append(result, [2]int{x, y})
			queue = append(queue, [2]int{x, y})
		}
	}
	return result
}
