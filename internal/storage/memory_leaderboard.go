package storage

import (
	"context"
	"sync"
)

// MemoryLeaderboard реализует Leaderboard в памяти.
// Используется по умолчанию и в тестах.
// ВНИМАНИЕ: Данные теряются при перезапуске сервера!
type MemoryLeaderboard struct {
	mu   sync.RWMutex
	data map[string]Result // sessionID -> результат
}

// NewMemoryLeaderboard создает таблицу рекордов в памяти.
func NewMemoryLeaderboard() *MemoryLeaderboard {
	return &MemoryLeaderboard{
		data: make(map[string]Result),
	}
}

// Save сохраняет результат в памяти.
func (m *MemoryLeaderboard) Save(ctx context.Context, r Result) error {
	if err := validate(r); err != nil {
		return err
	}

	// Проверяем контекст на отмену
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.data[r.SessionID] = r
	return nil
}

// Top возвращает лучшие результаты.
func (m *MemoryLeaderboard) Top(ctx context.Context, n int) ([]Result, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	m.mu.RLock()
	results := make([]Result, 0, len(m.data))
	for _, r := range m.data {
		results = append(results, r)
	}
	m.mu.RUnlock()

	return rank(results, n), nil
}

// Count возвращает количество сохранённых результатов
func (m *MemoryLeaderboard) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.data)
}

// Close ничего не делает для хранилища в памяти.
func (m *MemoryLeaderboard) Close() error {
	return nil
}
