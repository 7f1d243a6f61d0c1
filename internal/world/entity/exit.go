package entity

import "github.com/annel0/robomaze/internal/host"

// ExitBehavior - выход с уровня. Скрыт, пока на уровне есть кристаллы.
type ExitBehavior struct {
	baseBehavior
}

func init() {
	Register(&ExitBehavior{baseBehavior{
		kind:   KindExit,
		name:   "exit",
		traits: Traits{AllowsAgentColocation: true},
	}})
}

func (xb *ExitBehavior) Update(api WorldAPI, e *Entity) {
	if !e.Alive {
		return
	}

	if !e.Revealed {
		if !api.AnyCrystals() {
			e.Revealed = true
			e.Visible = true
			api.PlaySound(host.SoundRevealExit)
		}
	}

	// Игрок, уже стоящий на выходе, завершает уровень в тик раскрытия
	if e.Revealed && api.IsPlayerColocatedWith(e) {
		api.SetLevelFinished()
	}
}
