package entity

import "github.com/annel0/robomaze/internal/host"

// PlayerBehavior определяет поведение игрока: управление с клавиатуры, стрельба, толкание мрамора
type PlayerBehavior struct {
	baseBehavior
}

// NewPlayerBehavior создает поведение игрока
func NewPlayerBehavior() *PlayerBehavior {
	return &PlayerBehavior{baseBehavior{
		kind: KindPlayer,
		name: "player",
		traits: Traits{
			Damageable:    true,
			PushesMarbles: true,
		},
	}}
}

func init() {
	Register(NewPlayerBehavior())
}

// Update обрабатывает одну клавишу за тик
func (pb *PlayerBehavior) Update(api WorldAPI, e *Entity) {
	if !e.Alive {
		return
	}

	key, ok := api.PollKey()
	if !ok {
		return
	}

	switch key {
	case host.KeyEscape:
		e.SetDead()
		api.PlaySound(host.SoundPlayerDie)
	case host.KeySpace:
		if e.Ammo > 0 {
			firePea(api, e, host.SoundPlayerFire)
			e.Ammo--
		}
	case host.KeyLeft:
		pb.step(api, e, DirLeft)
	case host.KeyRight:
		pb.step(api, e, DirRight)
	case host.KeyUp:
		pb.step(api, e, DirUp)
	case host.KeyDown:
		pb.step(api, e, DirDown)
	}
}

// step поворачивает игрока и пытается сделать шаг. Поворот остаётся, даже если путь закрыт.
func (pb *PlayerBehavior) step(api WorldAPI, e *Entity, dir Direction) {
	e.Dir = dir
	moveIfPossible(api, e)
}

// Damage наносит урон игроку со звуком попадания или гибели
func (pb *PlayerBehavior) Damage(api WorldAPI, e *Entity, amount int) {
	if e.TryToBeKilled(amount) {
		api.PlaySound(host.SoundPlayerDie)
		return
	}
	api.PlaySound(host.SoundPlayerImpact)
}

// RestoreHealth восстанавливает здоровье игрока до максимума
func RestoreHealth(e *Entity) {
	e.HP = PlayerMaxHP
}

// AddAmmo выдаёт игроку горошины из бонуса
func AddAmmo(e *Entity) {
	e.Ammo += AmmoPerGoodie
}
