package world

import (
	"github.com/annel0/robomaze/internal/host"
	"github.com/annel0/robomaze/internal/logging"
	"github.com/annel0/robomaze/internal/util"
	"github.com/annel0/robomaze/internal/vec"
	"github.com/annel0/robomaze/internal/world/entity"
	"github.com/annel0/robomaze/internal/world/level"
)

// Status - результат инициализации уровня или тика
type Status int

const (
	StatusContinue Status = iota
	StatusPlayerDied
	StatusFinishedLevel
	StatusPlayerWon
)

func (s Status) String() string {
	switch s {
	case StatusContinue:
		return "continue"
	case StatusPlayerDied:
		return "player_died"
	case StatusFinishedLevel:
		return "finished_level"
	case StatusPlayerWon:
		return "player_won"
	}
	return "unknown"
}

// Начальное значение бонуса за скорость прохождения уровня
const StartBonus = 1000

// Номер последнего уровня; всё, что дальше, считается победой
const MaxLevel = 99

// Ledger хранит счёт и жизни игры. Принадлежит сессии и переживает уровни.
type Ledger interface {
	Score() int
	IncreaseScore(points int)
	Lives() int
	IncLives()
	DecLives()
}

// Options задаёт зависимости мира
type Options struct {
	Level  int
	Loader level.Loader
	Host   host.Host
	Rand   util.Rand
	Ledger Ledger
	Logger *logging.Logger
}

// World - состояние одного уровня и его тиковый цикл
type World struct {
	level  int
	loader level.Loader
	host   host.Host
	rng    util.Rand
	ledger Ledger
	logger *logging.Logger

	arena    *entity.Arena
	player   *entity.Entity
	crystals int
	bonus    int
	status   Status
	ticks    int
}

// New создаёт мир. Уровень загружается в Init.
func New(opts Options) *World {
	if opts.Rand == nil {
		opts.Rand = util.NewRand(1)
	}
	if opts.Ledger == nil {
		opts.Ledger = NewScoreboard(3)
	}
	if opts.Logger == nil {
		opts.Logger = logging.GetGameLogger()
	}
	return &World{
		level:  opts.Level,
		loader: opts.Loader,
		host:   opts.Host,
		rng:    opts.Rand,
		ledger: opts.Ledger,
		logger: opts.Logger,
		arena:  entity.NewArena(),
	}
}

// Init загружает уровень и создаёт по сущности на каждую непустую клетку.
// Отсутствующий или испорченный файл уровня завершает игру победой.
func (w *World) Init() Status {
	w.CleanUp()

	if w.level > MaxLevel {
		w.logger.Info("Уровень %d за пределами последнего, игра пройдена", w.level)
		return StatusPlayerWon
	}

	name := level.Name(w.level)
	lvl, res := w.loader.Load(name)
	switch res {
	case level.LoadNotFound:
		w.logger.Info("Файл уровня %s не найден, игра пройдена", name)
		return StatusPlayerWon
	case level.LoadBadFormat:
		w.logger.Warn("Файл уровня %s испорчен, игра завершается", name)
		return StatusPlayerWon
	}

	w.populate(lvl)
	w.bonus = StartBonus
	w.status = StatusContinue
	w.ticks = 0

	w.logger.Info("Уровень %s загружен: %d сущностей, %d кристаллов", name, w.arena.Len(), w.crystals)
	return StatusContinue
}

func (w *World) populate(lvl *level.Level) {
	for y := 0; y < level.Height; y++ {
		for x := 0; x < level.Width; x++ {
			pos := vec.Vec2{X: x, Y: y}
			switch lvl.At(x, y) {
			case level.PlayerStart:
				w.player = entity.NewPlayer(pos)
				w.arena.Reserve(w.player)
			case level.Wall:
				w.arena.Add(entity.NewWall(pos))
			case level.Exit:
				w.arena.Add(entity.NewExit(pos))
			case level.Marble:
				w.arena.Add(entity.NewMarble(pos))
			case level.Pit:
				w.arena.Add(entity.NewPit(pos))
			case level.Crystal:
				w.crystals++
				w.arena.Add(entity.NewPickup(entity.KindCrystal, pos))
			case level.ExtraLife:
				w.arena.Add(entity.NewPickup(entity.KindExtraLifeGoodie, pos))
			case level.RestoreHealth:
				w.arena.Add(entity.NewPickup(entity.KindRestoreHealthGoodie, pos))
			case level.Ammo:
				w.arena.Add(entity.NewPickup(entity.KindAmmoGoodie, pos))
			case level.HorizRageBot:
				w.arena.Add(entity.NewRageBot(pos, entity.DirRight, w.level))
			case level.VertRageBot:
				w.arena.Add(entity.NewRageBot(pos, entity.DirDown, w.level))
			case level.ThiefBotFactory:
				w.arena.Add(entity.NewFactory(pos, entity.KindRegularThiefBot))
			case level.MeanThiefBotFactory:
				w.arena.Add(entity.NewFactory(pos, entity.KindMeanThiefBot))
			}
		}
	}
}

// Move выполняет один тик уровня. Без загруженного уровня возвращает StatusPlayerWon.
func (w *World) Move() Status {
	if w.player == nil {
		return StatusPlayerWon
	}
	w.ticks++
	w.host.SetStatusText(w.StatusText())

	// Сущности, созданные во время обхода, добавляются в конец и обновляются в этом же тике
	for i := 0; i < w.arena.Len(); i++ {
		e := w.arena.At(i)
		if e.InPlay() {
			entity.Update(w, e)
		}
		if !w.player.Alive {
			return w.playerDied()
		}
	}

	from := w.player.Pos
	entity.Update(w, w.player)
	if w.player.Pos != from {
		logging.LogEntityMove(w.logger, uint64(w.player.ID), w.player.Kind.String(), from.X, from.Y, w.player.Pos.X, w.player.Pos.Y)
	}
	if !w.player.Alive {
		return w.playerDied()
	}

	if removed := w.arena.Prune(); removed > 0 {
		w.logger.Debug("Тик %d: удалено %d сущностей", w.ticks, removed)
	}

	if w.bonus > 0 {
		w.bonus--
	}

	return w.status
}

func (w *World) playerDied() Status {
	w.ledger.DecLives()
	for w.DecCrystals() {
	}
	w.status = StatusPlayerDied
	w.logger.Info("Игрок погиб на уровне %d (тик %d), осталось жизней: %d", w.level, w.ticks, w.ledger.Lives())
	return StatusPlayerDied
}

// CleanUp удаляет все сущности уровня
func (w *World) CleanUp() {
	w.arena.Clear()
	w.player = nil
	w.crystals = 0
}

// StatusText возвращает строку статуса для текущего состояния
func (w *World) StatusText() string {
	health, ammo := 0, 0
	if w.player != nil {
		health = w.player.HealthPercent()
		ammo = w.player.Ammo
	}
	return FormatStatus(w.ledger.Score(), w.level, w.ledger.Lives(), health, ammo, w.bonus)
}

// Bonus возвращает текущий бонус уровня
func (w *World) Bonus() int {
	return w.bonus
}

// Ticks возвращает число тиков с начала уровня
func (w *World) Ticks() int {
	return w.ticks
}

// Crystals возвращает число оставшихся кристаллов
func (w *World) Crystals() int {
	return w.crystals
}

// Arena возвращает хранилище сущностей уровня
func (w *World) Arena() *entity.Arena {
	return w.arena
}

// WorldAPI

func (w *World) Level() int {
	return w.level
}

func (w *World) PlaySound(s host.Sound) {
	w.host.PlaySound(s)
}

func (w *World) PollKey() (host.Key, bool) {
	return w.host.PollKey()
}

func (w *World) RandInt(min, max int) int {
	return util.RandInt(w.rng, min, max)
}

func (w *World) IncreaseScore(points int) {
	w.ledger.IncreaseScore(points)
}

func (w *World) IncLives() {
	w.ledger.IncLives()
}

func (w *World) Player() *entity.Entity {
	return w.player
}

func (w *World) Entity(id entity.ID) *entity.Entity {
	return w.arena.Get(id)
}

func (w *World) Spawn(e *entity.Entity) entity.ID {
	id := w.arena.Add(e)
	w.logger.Trace("Создана сущность %d (%s) в (%d,%d)", id, e.Kind, e.Pos.X, e.Pos.Y)
	return id
}

func (w *World) RestorePlayerHealth() {
	entity.RestoreHealth(w.player)
}

func (w *World) IncreaseAmmo() {
	entity.AddAmmo(w.player)
}

func (w *World) AnyCrystals() bool {
	return w.crystals > 0
}

func (w *World) DecCrystals() bool {
	if w.crystals == 0 {
		return false
	}
	w.crystals--
	return true
}

func (w *World) SetLevelFinished() {
	w.host.PlaySound(host.SoundFinishedLevel)
	w.ledger.IncreaseScore(entity.LevelFinishedScore + w.bonus)
	w.status = StatusFinishedLevel
	w.logger.Info("Уровень %d пройден за %d тиков, бонус %d", w.level, w.ticks, w.bonus)
}
