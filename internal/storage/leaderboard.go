package storage

import (
	"context"
	"errors"
	"sort"
	"time"
)

// ErrNotFound возвращается, когда запись отсутствует в хранилище
var ErrNotFound = errors.New("storage: not found")

// ErrInvalidResult возвращается при попытке сохранить результат без SessionID
var ErrInvalidResult = errors.New("storage: result without session id")

// Result - итог завершённой игровой сессии.
// Хранилище только накапливает итоги, состояние игры не сохраняется.
type Result struct {
	SessionID  string    `json:"session_id" bson:"session_id"`
	Player     string    `json:"player" bson:"player"`
	Score      int       `json:"score" bson:"score"`
	Level      int       `json:"level" bson:"level"` // Последний достигнутый уровень
	Won        bool      `json:"won" bson:"won"`
	Ticks      int       `json:"ticks" bson:"ticks"`
	FinishedAt time.Time `json:"finished_at" bson:"finished_at"`
}

// Leaderboard определяет интерфейс таблицы рекордов.
// Повторное сохранение того же SessionID заменяет запись.
type Leaderboard interface {
	// Save сохраняет итог сессии.
	Save(ctx context.Context, r Result) error

	// Top возвращает не более n лучших результатов:
	// по убыванию очков, при равенстве раньше завершённые выше.
	Top(ctx context.Context, n int) ([]Result, error)

	// Close освобождает соединения хранилища.
	Close() error
}

func validate(r Result) error {
	if r.SessionID == "" {
		return ErrInvalidResult
	}
	return nil
}

// less задаёт порядок таблицы рекордов
func less(a, b Result) bool {
	if a.Score != b.Score {
		return a.Score > b.Score
	}
	if !a.FinishedAt.Equal(b.FinishedAt) {
		return a.FinishedAt.Before(b.FinishedAt)
	}
	return a.SessionID < b.SessionID
}

// rank сортирует результаты и обрезает до n
func rank(results []Result, n int) []Result {
	sort.Slice(results, func(i, j int) bool { return less(results[i], results[j]) })
	if n >= 0 && len(results) > n {
		results = results[:n]
	}
	return results
}
