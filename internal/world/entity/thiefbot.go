package entity

import "github.com/annel0/robomaze/internal/host"

// Вероятность кражи - 1 к stealChance
const stealChance = 10

// Максимальная длина прямого участка пути вора
const maxDistanceBeforeTurning = 6

// ThiefBotBehavior - вор: бродит по лабиринту и уносит бонусы.
// Злой вор (mean) дополнительно стреляет по игроку.
type ThiefBotBehavior struct {
	baseBehavior
	shoots bool
}

// NewThiefBotBehavior создаёт поведение обычного (shoots=false) или злого вора
func NewThiefBotBehavior(kind Kind, name string, shoots bool) *ThiefBotBehavior {
	return &ThiefBotBehavior{
		baseBehavior: baseBehavior{
			kind: kind,
			name: name,
			traits: Traits{
				Damageable:            true,
				CountsInFactoryCensus: true,
				NeedsClearShot:        true,
			},
		},
		shoots: shoots,
	}
}

func init() {
	Register(NewThiefBotBehavior(KindRegularThiefBot, "regular_thiefbot", false))
	Register(NewThiefBotBehavior(KindMeanThiefBot, "mean_thiefbot", true))
}

// Update: кража, затем (для злого) выстрел, затем движение
func (tb *ThiefBotBehavior) Update(api WorldAPI, e *Entity) {
	if !e.Alive || isResting(e) {
		return
	}

	if tryToSteal(api, e) {
		return
	}

	if tb.shoots && shootIfClearShot(api, e) {
		return
	}

	tb.walk(api, e)
}

func (tb *ThiefBotBehavior) Damage(api WorldAPI, e *Entity, amount int) {
	damageRobot(api, e, amount)
}

// walk двигает вора. Когда прямой участок пройден, вор выбирает случайное
// направление и, если путь закрыт, перебирает остальные по часовой стрелке.
func (tb *ThiefBotBehavior) walk(api WorldAPI, e *Entity) {
	if !reachedDistance(api, e) {
		moveIfPossible(api, e)
		return
	}

	start := Directions[api.RandInt(0, len(Directions)-1)]
	dir := start
	for range Directions {
		e.Dir = dir
		if moveIfPossible(api, e) {
			return
		}
		dir = dir.Clockwise()
	}
	// Заперт со всех сторон: остаётся смотреть в случайно выбранную сторону
	e.Dir = start
}

// reachedDistance уменьшает остаток прямого участка. Когда он исчерпан,
// назначает новую длину 1..6 и возвращает true.
func reachedDistance(api WorldAPI, e *Entity) bool {
	e.DistanceBeforeTurning--
	if e.DistanceBeforeTurning < 1 {
		e.DistanceBeforeTurning = api.RandInt(1, maxDistanceBeforeTurning)
		return true
	}
	return false
}

// tryToSteal пытается забрать бонус с клетки вора (шанс 1 к 10).
// Вор несёт не больше одного бонуса.
func tryToSteal(api WorldAPI, e *Entity) bool {
	if e.StolenGoodie != NoEntity {
		return false
	}

	goodie := api.ColocatedStealable(e.Pos)
	if goodie == nil {
		return false
	}

	if api.RandInt(1, stealChance) != 1 {
		return false
	}

	api.PlaySound(host.SoundRobotMunch)
	e.StolenGoodie = goodie.ID
	goodie.CarriedBy = e.ID
	goodie.Visible = false
	return true
}
