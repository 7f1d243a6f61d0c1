package entity

import (
	"github.com/annel0/robomaze/internal/vec"
)

// Arena хранит сущности уровня. ID - индекс слота, он не меняется всё время
// жизни сущности; указатели на сущности стабильны, пока их не удалит Prune.
type Arena struct {
	slots []*Entity // slots[0] зарезервирован под NoEntity
	live  []ID      // порядок обновления
}

// NewArena создаёт пустую арену
func NewArena() *Arena {
	return &Arena{
		slots: make([]*Entity, 1, 256),
		live:  make([]ID, 0, 256),
	}
}

// Add регистрирует сущность, назначает ей ID и ставит в конец очереди обновления
func (a *Arena) Add(e *Entity) ID {
	id := a.Reserve(e)
	a.live = append(a.live, id)
	return id
}

// Reserve назначает сущности ID, не добавляя её в очередь обновления.
// Используется для игрока, которого мир обновляет отдельно.
func (a *Arena) Reserve(e *Entity) ID {
	e.ID = ID(len(a.slots))
	a.slots = append(a.slots, e)
	return e.ID
}

// Get возвращает сущность по ID или nil
func (a *Arena) Get(id ID) *Entity {
	if id == NoEntity || int(id) >= len(a.slots) {
		return nil
	}
	return a.slots[id]
}

// Len возвращает длину очереди обновления. Может расти во время обхода,
// если поведения порождают новые сущности.
func (a *Arena) Len() int {
	return len(a.live)
}

// At возвращает i-ю сущность в очереди обновления
func (a *Arena) At(i int) *Entity {
	return a.slots[a.live[i]]
}

// Each обходит сущности очереди обновления, пока fn возвращает true
func (a *Arena) Each(fn func(e *Entity) bool) {
	for _, id := range a.live {
		if !fn(a.slots[id]) {
			return
		}
	}
}

// EntitiesAt возвращает сущности в игре на клетке pos (мёртвые и унесённые пропускаются)
func (a *Arena) EntitiesAt(pos vec.Vec2) []*Entity {
	var result []*Entity
	for _, id := range a.live {
		e := a.slots[id]
		if e.InPlay() && e.Pos == pos {
			result = append(result, e)
		}
	}
	return result
}

// Prune удаляет мёртвые сущности. Бонус, чей вор погиб не выронив его, погибает вместе с вором.
// Возвращает число удалённых сущностей.
func (a *Arena) Prune() int {
	for _, id := range a.live {
		e := a.slots[id]
		if !e.Alive || e.CarriedBy == NoEntity {
			continue
		}
		if carrier := a.slots[e.CarriedBy]; carrier == nil || !carrier.Alive {
			e.SetDead()
		}
	}

	kept := a.live[:0]
	removed := 0
	for _, id := range a.live {
		if a.slots[id].Alive {
			kept = append(kept, id)
			continue
		}
		a.slots[id] = nil
		removed++
	}
	a.live = kept
	return removed
}

// Clear удаляет все сущности
func (a *Arena) Clear() {
	a.slots = a.slots[:1]
	a.slots[0] = nil
	a.live = a.live[:0]
}

// Stats возвращает число сущностей в очереди обновления по типам
func (a *Arena) Stats() map[Kind]int {
	stats := make(map[Kind]int)
	for _, id := range a.live {
		stats[a.slots[id].Kind]++
	}
	return stats
}
