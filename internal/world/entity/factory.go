package entity

import "github.com/annel0/robomaze/internal/host"

// Шанс выпуска вора за тик - 1 к productionChance
const productionChance = 50

// FactoryBehavior - фабрика воров. Если поблизости меньше трёх воров,
// с небольшой вероятностью выпускает нового на своей клетке.
type FactoryBehavior struct {
	baseBehavior
}

func init() {
	Register(&FactoryBehavior{baseBehavior{
		kind:   KindRegularThiefBotFactory,
		name:   "regular_thiefbot_factory",
		traits: Traits{StopsPea: true},
	}})
	Register(&FactoryBehavior{baseBehavior{
		kind:   KindMeanThiefBotFactory,
		name:   "mean_thiefbot_factory",
		traits: Traits{StopsPea: true},
	}})
}

func (fb *FactoryBehavior) Update(api WorldAPI, e *Entity) {
	if !e.Alive {
		return
	}

	count, ok := api.FactoryCensus(e.Pos, FactoryCensusRadius)
	if !ok || count >= FactoryCensusLimit {
		return
	}

	if api.RandInt(1, productionChance) != 1 {
		return
	}

	api.PlaySound(host.SoundRobotBorn)
	api.Spawn(NewThiefBot(e.Product, e.Pos, api.Level()))
}
