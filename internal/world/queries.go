package world

import (
	"github.com/annel0/robomaze/internal/vec"
	"github.com/annel0/robomaze/internal/world/entity"
)

// Пространственные запросы. Поле маленькое (15x15, несколько десятков сущностей),
// поэтому все запросы - линейный обход арены.

func inGrid(p vec.Vec2) bool {
	return p.InBounds(entity.GridWidth, entity.GridHeight)
}

// EntitiesAt возвращает сущности в игре на клетке, включая игрока (он идёт последним)
func (w *World) EntitiesAt(p vec.Vec2) []*entity.Entity {
	result := w.arena.EntitiesAt(p)
	if w.player != nil && w.player.Alive && w.player.Pos == p {
		result = append(result, w.player)
	}
	return result
}

// CanAgentMoveTo проверяет шаг агента на (dx, dy). Мрамор на целевой клетке
// сдвигается, если агент умеет толкать и за мрамором есть место.
func (w *World) CanAgentMoveTo(agent *entity.Entity, dx, dy int) bool {
	dest := agent.Pos.Step(dx, dy)
	if !inGrid(dest) {
		return false
	}

	pushes := entity.TraitsOf(agent.Kind).PushesMarbles
	var marbles []*entity.Entity

	for _, other := range w.EntitiesAt(dest) {
		if other == agent {
			continue
		}
		traits := entity.TraitsOf(other.Kind)
		if traits.AllowsAgentColocation {
			continue
		}
		if traits.Pushable && pushes {
			marbles = append(marbles, other)
			continue
		}
		return false
	}

	if len(marbles) == 0 {
		return true
	}

	// Сначала проверяем, затем двигаем: частичного сдвига не бывает
	beyond := dest.Step(dx, dy)
	if !w.CanMarbleMoveTo(beyond) {
		return false
	}
	for _, m := range marbles {
		m.Pos = beyond
	}
	return true
}

// CanMarbleMoveTo проверяет, может ли мрамор въехать на клетку: всё на ней должно пропускать мрамор
func (w *World) CanMarbleMoveTo(p vec.Vec2) bool {
	if !inGrid(p) {
		return false
	}
	for _, other := range w.EntitiesAt(p) {
		if !entity.TraitsOf(other.Kind).AllowsMarble {
			return false
		}
	}
	return true
}

// DamageSomething: если на клетке горошины игрок, урон получает только он.
// Иначе урон получает каждое повреждаемое; стена или фабрика просто гасят горошину.
func (w *World) DamageSomething(pea *entity.Entity, damage int) bool {
	if w.IsPlayerColocatedWith(pea) {
		entity.Damage(w, w.player, damage)
		pea.SetDead()
		return true
	}

	hit := false
	for _, other := range w.arena.EntitiesAt(pea.Pos) {
		if other == pea {
			continue
		}
		traits := entity.TraitsOf(other.Kind)
		if traits.Damageable {
			entity.Damage(w, other, damage)
			hit = true
		}
		if traits.StopsPea {
			hit = true
		}
	}
	if hit {
		pea.SetDead()
	}
	return hit
}

// SwallowSwallowable: яма с мрамором на клетке уничтожает всё на этой клетке, включая себя
func (w *World) SwallowSwallowable(pit *entity.Entity) bool {
	found := false
	for _, other := range w.arena.EntitiesAt(pit.Pos) {
		if entity.TraitsOf(other.Kind).Swallowable {
			found = true
			break
		}
	}
	if !found {
		return false
	}

	for _, other := range w.arena.EntitiesAt(pit.Pos) {
		other.SetDead()
	}
	pit.SetDead()
	return true
}

// ExistsClearShotToPlayer идёт от from по (dx, dy) до игрока. Линию закрывает всё,
// что останавливает горошину или получает от неё урон. Обход ограничен полем.
func (w *World) ExistsClearShotToPlayer(from vec.Vec2, dx, dy int) bool {
	if (dx == 0 && dy == 0) || w.player == nil || !w.player.Alive {
		return false
	}

	for p := from.Step(dx, dy); inGrid(p); p = p.Step(dx, dy) {
		if w.player.Pos == p {
			return true
		}
		for _, other := range w.arena.EntitiesAt(p) {
			traits := entity.TraitsOf(other.Kind)
			if traits.StopsPea || traits.Damageable {
				return false
			}
		}
	}
	return false
}

// FactoryCensus считает воров в квадрате радиуса distance вокруг фабрики
func (w *World) FactoryCensus(at vec.Vec2, distance int) (int, bool) {
	count := 0
	ok := true
	w.arena.Each(func(e *entity.Entity) bool {
		// Убитые в этом тике воры считаются до конца тика
		if e.CarriedBy != entity.NoEntity || !entity.TraitsOf(e.Kind).CountsInFactoryCensus {
			return true
		}
		if e.Pos == at {
			ok = false
			return false
		}
		if e.Pos.ChebyshevTo(at) <= distance {
			count++
		}
		return true
	})
	if !ok {
		return 0, false
	}
	return count, true
}

// ColocatedStealable возвращает первый бонус на клетке, который можно украсть
func (w *World) ColocatedStealable(at vec.Vec2) *entity.Entity {
	for _, other := range w.arena.EntitiesAt(at) {
		if entity.TraitsOf(other.Kind).Stealable {
			return other
		}
	}
	return nil
}

// IsPlayerColocatedWith проверяет, стоит ли игрок на клетке e
func (w *World) IsPlayerColocatedWith(e *entity.Entity) bool {
	return w.player != nil && w.player.Alive && w.player.Pos == e.Pos
}
