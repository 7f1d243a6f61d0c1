package world

import (
	"fmt"
	"sync"
)

// FormatStatus собирает строку статуса фиксированной ширины
func FormatStatus(score, level, lives, health, ammo, bonus int) string {
	return fmt.Sprintf("Score: %07d  Level: %02d  Lives: %2d  Health: %3d%%  Ammo: %3d  Bonus: %4d",
		score, level, lives, health, ammo, bonus)
}

// Scoreboard - потокобезопасная реализация Ledger
type Scoreboard struct {
	mu    sync.RWMutex
	score int
	lives int
}

// NewScoreboard создаёт счёт с указанным числом жизней
func NewScoreboard(lives int) *Scoreboard {
	return &Scoreboard{lives: lives}
}

func (s *Scoreboard) Score() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.score
}

func (s *Scoreboard) IncreaseScore(points int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.score += points
}

func (s *Scoreboard) Lives() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lives
}

func (s *Scoreboard) IncLives() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lives++
}

func (s *Scoreboard) DecLives() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lives > 0 {
		s.lives--
	}
}
