package entity

// Неподвижные элементы лабиринта: стена, мрамор и яма

func init() {
	Register(baseBehavior{
		kind:   KindWall,
		name:   "wall",
		traits: Traits{StopsPea: true},
	})
	Register(baseBehavior{
		kind: KindMarble,
		name: "marble",
		traits: Traits{
			Damageable:  true,
			Swallowable: true,
			Pushable:    true,
		},
	})
	Register(&PitBehavior{baseBehavior{
		kind:   KindPit,
		name:   "pit",
		traits: Traits{AllowsMarble: true},
	}})
}

// PitBehavior - яма: проглатывает мрамор, вкатившийся на её клетку, и исчезает вместе с ним
type PitBehavior struct {
	baseBehavior
}

func (pb *PitBehavior) Update(api WorldAPI, e *Entity) {
	if !e.Alive {
		return
	}
	api.SwallowSwallowable(e)
}
