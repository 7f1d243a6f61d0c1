package world

import "github.com/annel0/robomaze/internal/world/entity"

// EntityView - видимая сущность в снимке
type EntityView struct {
	ID   uint64 `json:"id"`
	Kind string `json:"kind"`
	X    int    `json:"x"`
	Y    int    `json:"y"`
	Dir  string `json:"dir"`
	HP   int    `json:"hp,omitempty"`
}

// PlayerView - состояние игрока в снимке
type PlayerView struct {
	X       int    `json:"x"`
	Y       int    `json:"y"`
	Dir     string `json:"dir"`
	Health  int    `json:"health"`
	Ammo    int    `json:"ammo"`
	IsAlive bool   `json:"alive"`
}

// Snapshot - состояние уровня для зрителей и REST API
type Snapshot struct {
	Level    int          `json:"level"`
	Tick     int          `json:"tick"`
	Score    int          `json:"score"`
	Lives    int          `json:"lives"`
	Bonus    int          `json:"bonus"`
	Crystals int          `json:"crystals"`
	Status   string       `json:"status"`
	Player   *PlayerView  `json:"player,omitempty"`
	Entities []EntityView `json:"entities"`
}

// Snapshot возвращает снимок уровня. Скрытые, мёртвые и унесённые ворами сущности не попадают в снимок.
func (w *World) Snapshot() Snapshot {
	s := Snapshot{
		Level:    w.level,
		Tick:     w.ticks,
		Score:    w.ledger.Score(),
		Lives:    w.ledger.Lives(),
		Bonus:    w.bonus,
		Crystals: w.crystals,
		Status:   w.StatusText(),
		Entities: make([]EntityView, 0, w.arena.Len()),
	}

	if w.player != nil {
		s.Player = &PlayerView{
			X:       w.player.Pos.X,
			Y:       w.player.Pos.Y,
			Dir:     w.player.Dir.String(),
			Health:  w.player.HealthPercent(),
			Ammo:    w.player.Ammo,
			IsAlive: w.player.Alive,
		}
	}

	w.arena.Each(func(e *entity.Entity) bool {
		if !e.InPlay() || !e.Visible {
			return true
		}
		s.Entities = append(s.Entities, EntityView{
			ID:   uint64(e.ID),
			Kind: e.Kind.String(),
			X:    e.Pos.X,
			Y:    e.Pos.Y,
			Dir:  e.Dir.String(),
			HP:   e.HP,
		})
		return true
	})

	return s
}
