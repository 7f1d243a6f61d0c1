package entity

import (
	"github.com/annel0/robomaze/internal/vec"
)

// Размеры игрового поля в клетках
const (
	GridWidth  = 15
	GridHeight = 15
)

// Игровые константы
const (
	PlayerMaxHP     = 20
	PlayerStartAmmo = 20
	AmmoPerGoodie   = 20
	PeaDamage       = 2

	RageBotHP         = 10
	RegularThiefBotHP = 5
	MeanThiefBotHP    = 8
	MarbleHP          = 10

	RageBotScore         = 100
	RegularThiefBotScore = 10
	MeanThiefBotScore    = 20

	CrystalScore        = 50
	ExtraLifeScore      = 1000
	RestoreHealthScore  = 500
	AmmoGoodieScore     = 100
	LevelFinishedScore  = 2000
	FactoryCensusRadius = 3
	FactoryCensusLimit  = 3
)

// ID - стабильный индекс сущности в арене. Нулевой ID означает "нет сущности".
type ID uint64

// NoEntity - пустая ссылка
const NoEntity ID = 0

// Kind представляет тип сущности. Набор закрыт: поведение каждого типа
// регистрируется в таблице поведений (см. behavior.go).
type Kind uint8

const (
	KindUnknown Kind = iota
	KindPlayer
	KindRageBot
	KindRegularThiefBot
	KindMeanThiefBot
	KindWall
	KindMarble
	KindPit
	KindPea
	KindRegularThiefBotFactory
	KindMeanThiefBotFactory
	KindExit
	KindCrystal
	KindExtraLifeGoodie
	KindRestoreHealthGoodie
	KindAmmoGoodie
)

// String возвращает имя типа из таблицы поведений
func (k Kind) String() string {
	if b, ok := BehaviorOf(k); ok {
		return b.Name()
	}
	return "unknown"
}

// IsRobot сообщает, является ли тип роботом
func (k Kind) IsRobot() bool {
	return k == KindRageBot || k == KindRegularThiefBot || k == KindMeanThiefBot
}

// IsThiefBot сообщает, является ли тип вором
func (k Kind) IsThiefBot() bool {
	return k == KindRegularThiefBot || k == KindMeanThiefBot
}

// Direction - направление взгляда в градусах. Ось Y направлена вверх.
type Direction int

const (
	DirRight Direction = 0
	DirUp    Direction = 90
	DirLeft  Direction = 180
	DirDown  Direction = 270
)

// Directions перечисляет направления по часовой стрелке начиная с правого
var Directions = [4]Direction{DirRight, DirDown, DirLeft, DirUp}

// Delta возвращает смещение на одну клетку в этом направлении
func (d Direction) Delta() (dx, dy int) {
	switch d {
	case DirRight:
		return 1, 0
	case DirUp:
		return 0, 1
	case DirLeft:
		return -1, 0
	case DirDown:
		return 0, -1
	}
	return 0, 0
}

// Reverse возвращает противоположное направление
func (d Direction) Reverse() Direction {
	return Direction((int(d) + 180) % 360)
}

// Clockwise возвращает следующее направление по часовой стрелке (вверх -> вправо -> вниз -> влево)
func (d Direction) Clockwise() Direction {
	return Direction((int(d) + 270) % 360)
}

func (d Direction) String() string {
	switch d {
	case DirRight:
		return "right"
	case DirUp:
		return "up"
	case DirLeft:
		return "left"
	case DirDown:
		return "down"
	}
	return "none"
}

// Entity - плоская запись об объекте на поле. Поля, не относящиеся к типу, остаются нулевыми;
// поведение определяется через Kind.
type Entity struct {
	ID      ID
	Kind    Kind
	Pos     vec.Vec2
	Dir     Direction
	HP      int
	Alive   bool
	Visible bool

	// CarriedBy - вор, который несёт этот бонус. Пока ссылка не пуста, объект вне игры.
	CarriedBy ID

	Ammo int // игрок

	// Роботы
	Score       int // очки за уничтожение
	RestTicks   int // сколько тиков робот ждёт между действиями
	CurrentTick int

	// Воры
	DistanceBeforeTurning int
	StolenGoodie          ID

	Revealed bool // выход
	Product  Kind // фабрика
}

func newEntity(kind Kind, pos vec.Vec2) *Entity {
	return &Entity{
		Kind:    kind,
		Pos:     pos,
		Dir:     DirRight,
		Alive:   true,
		Visible: true,
	}
}

// NewPlayer создаёт игрока: полное здоровье, 20 горошин, смотрит вправо
func NewPlayer(pos vec.Vec2) *Entity {
	e := newEntity(KindPlayer, pos)
	e.HP = PlayerMaxHP
	e.Ammo = PlayerStartAmmo
	return e
}

// NewRageBot создаёт робота-буяна, патрулирующего в направлении dir
func NewRageBot(pos vec.Vec2, dir Direction, level int) *Entity {
	e := newEntity(KindRageBot, pos)
	e.Dir = dir
	e.HP = RageBotHP
	e.Score = RageBotScore
	e.RestTicks = RestTicksForLevel(level)
	return e
}

// NewThiefBot создаёт вора указанного типа (обычного или злого)
func NewThiefBot(kind Kind, pos vec.Vec2, level int) *Entity {
	e := newEntity(kind, pos)
	switch kind {
	case KindMeanThiefBot:
		e.HP = MeanThiefBotHP
		e.Score = MeanThiefBotScore
	default:
		e.Kind = KindRegularThiefBot
		e.HP = RegularThiefBotHP
		e.Score = RegularThiefBotScore
	}
	e.RestTicks = RestTicksForLevel(level)
	return e
}

// NewWall создаёт стену
func NewWall(pos vec.Vec2) *Entity {
	return newEntity(KindWall, pos)
}

// NewMarble создаёт мрамор
func NewMarble(pos vec.Vec2) *Entity {
	e := newEntity(KindMarble, pos)
	e.HP = MarbleHP
	return e
}

// NewPit создаёт яму
func NewPit(pos vec.Vec2) *Entity {
	return newEntity(KindPit, pos)
}

// NewPea создаёт горошину, летящую в направлении dir
func NewPea(pos vec.Vec2, dir Direction) *Entity {
	e := newEntity(KindPea, pos)
	e.Dir = dir
	return e
}

// NewFactory создаёт фабрику воров. product - KindRegularThiefBot или KindMeanThiefBot.
func NewFactory(pos vec.Vec2, product Kind) *Entity {
	kind := KindRegularThiefBotFactory
	if product == KindMeanThiefBot {
		kind = KindMeanThiefBotFactory
	} else {
		product = KindRegularThiefBot
	}
	e := newEntity(kind, pos)
	e.Product = product
	return e
}

// NewExit создаёт скрытый выход
func NewExit(pos vec.Vec2) *Entity {
	e := newEntity(KindExit, pos)
	e.Visible = false
	return e
}

// NewPickup создаёт кристалл или бонус указанного типа
func NewPickup(kind Kind, pos vec.Vec2) *Entity {
	return newEntity(kind, pos)
}

// RestTicksForLevel возвращает число тиков между действиями робота: max(3, (28-level)/4)
func RestTicksForLevel(level int) int {
	ticks := (28 - level) / 4
	if ticks < 3 {
		ticks = 3
	}
	return ticks
}

// SetDead помечает сущность мёртвой; из арены она удаляется в конце тика
func (e *Entity) SetDead() {
	e.Alive = false
}

// InPlay - сущность жива и не лежит в кармане у вора
func (e *Entity) InPlay() bool {
	return e.Alive && e.CarriedBy == NoEntity
}

// TryToBeKilled уменьшает здоровье и убивает сущность, если оно кончилось.
// Возвращает true, если сущность погибла от этого удара.
func (e *Entity) TryToBeKilled(damage int) bool {
	e.HP -= damage
	if e.HP <= 0 {
		e.SetDead()
		return true
	}
	return false
}

// HealthPercent возвращает здоровье игрока в процентах
func (e *Entity) HealthPercent() int {
	if e.HP <= 0 {
		return 0
	}
	return e.HP * 100 / PlayerMaxHP
}

// Ahead возвращает клетку перед сущностью
func (e *Entity) Ahead() vec.Vec2 {
	dx, dy := e.Dir.Delta()
	return e.Pos.Step(dx, dy)
}
