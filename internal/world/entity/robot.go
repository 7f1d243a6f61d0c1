package entity

import "github.com/annel0/robomaze/internal/host"

// isResting отсчитывает тики отдыха робота. Возвращает true, пока робот отдыхает;
// на тике действия счётчик обнуляется.
func isResting(e *Entity) bool {
	e.CurrentTick++
	if e.CurrentTick >= e.RestTicks {
		e.CurrentTick = 0
		return false
	}
	return true
}

// damageRobot - общий урон роботов: при гибели звук, очки и выброс украденного бонуса
func damageRobot(api WorldAPI, e *Entity, amount int) {
	if !e.TryToBeKilled(amount) {
		api.PlaySound(host.SoundRobotImpact)
		return
	}

	api.PlaySound(host.SoundRobotDie)
	api.IncreaseScore(e.Score)
	dropGoodie(api, e)
}

// dropGoodie кладёт украденный бонус на клетку вора и делает его видимым
func dropGoodie(api WorldAPI, e *Entity) {
	if e.StolenGoodie == NoEntity {
		return
	}
	if goodie := api.Entity(e.StolenGoodie); goodie != nil {
		goodie.Pos = e.Pos
		goodie.CarriedBy = NoEntity
		goodie.Visible = true
	}
	e.StolenGoodie = NoEntity
}

// shootIfClearShot стреляет, если перед роботом чистая линия огня до игрока
func shootIfClearShot(api WorldAPI, e *Entity) bool {
	dx, dy := e.Dir.Delta()
	if !api.ExistsClearShotToPlayer(e.Pos, dx, dy) {
		return false
	}
	firePea(api, e, host.SoundEnemyFire)
	return true
}
