package entity

import "github.com/annel0/robomaze/internal/host"

// PickupBehavior - кристалл или бонус: когда игрок встаёт на клетку,
// даёт очки, применяет эффект и исчезает.
type PickupBehavior struct {
	baseBehavior
	points int
	effect func(api WorldAPI)
}

func newPickupBehavior(kind Kind, name string, stealable bool, points int, effect func(api WorldAPI)) *PickupBehavior {
	return &PickupBehavior{
		baseBehavior: baseBehavior{
			kind: kind,
			name: name,
			traits: Traits{
				AllowsAgentColocation: true,
				Stealable:             stealable,
			},
		},
		points: points,
		effect: effect,
	}
}

func init() {
	Register(newPickupBehavior(KindCrystal, "crystal", false, CrystalScore, func(api WorldAPI) {
		api.DecCrystals()
	}))
	Register(newPickupBehavior(KindExtraLifeGoodie, "extra_life", true, ExtraLifeScore, func(api WorldAPI) {
		api.IncLives()
	}))
	Register(newPickupBehavior(KindRestoreHealthGoodie, "restore_health", true, RestoreHealthScore, func(api WorldAPI) {
		api.RestorePlayerHealth()
	}))
	Register(newPickupBehavior(KindAmmoGoodie, "ammo", true, AmmoGoodieScore, func(api WorldAPI) {
		api.IncreaseAmmo()
	}))
}

// Points возвращает очки за подбор
func (pb *PickupBehavior) Points() int {
	return pb.points
}

func (pb *PickupBehavior) Update(api WorldAPI, e *Entity) {
	if !e.InPlay() || !api.IsPlayerColocatedWith(e) {
		return
	}

	api.PlaySound(host.SoundGotGoodie)
	api.IncreaseScore(pb.points)
	pb.effect(api)
	e.SetDead()
}
