package entity

// PeaBehavior - горошина. За тик проверяет попадание на текущей клетке,
// затем сдвигается на клетку и проверяет ещё раз.
type PeaBehavior struct {
	baseBehavior
}

func init() {
	Register(&PeaBehavior{baseBehavior{
		kind:   KindPea,
		name:   "pea",
		traits: Traits{AllowsAgentColocation: true},
	}})
}

func (pb *PeaBehavior) Update(api WorldAPI, e *Entity) {
	if !e.Alive {
		return
	}

	if api.DamageSomething(e, PeaDamage) {
		return
	}

	next := e.Ahead()
	if !next.InBounds(GridWidth, GridHeight) {
		e.SetDead()
		return
	}
	e.Pos = next

	api.DamageSomething(e, PeaDamage)
}
