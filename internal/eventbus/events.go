package eventbus

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Типы событий игровой сессии
const (
	TypeSessionStarted = "SessionStarted"
	TypeLevelStarted   = "LevelStarted"
	TypeLevelFinished  = "LevelFinished"
	TypePlayerDied     = "PlayerDied"
	TypeGameOver       = "GameOver"
	TypeGameWon        = "GameWon"
)

// Версия схемы GameEvent
const GameEventVersion = 1

// GameEvent - полезная нагрузка событий сессии
type GameEvent struct {
	SessionID string `json:"session_id"`
	Player    string `json:"player"`
	Level     int    `json:"level"`
	Score     int    `json:"score"`
	Lives     int    `json:"lives"`
	Ticks     int    `json:"ticks"`
	Bonus     int    `json:"bonus,omitempty"`
}

// NewGameEnvelope упаковывает событие сессии в Envelope с новым UUID
func NewGameEnvelope(source, eventType string, ev GameEvent) (*Envelope, error) {
	payload, err := json.Marshal(ev)
	if err != nil {
		return nil, fmt.Errorf("marshal %s: %w", eventType, err)
	}

	priority := 3
	switch eventType {
	case TypeGameOver, TypeGameWon:
		priority = 7
	}

	return &Envelope{
		ID:            uuid.NewString(),
		Timestamp:     time.Now().UTC(),
		Source:        source,
		EventType:     eventType,
		Version:       GameEventVersion,
		CorrelationID: ev.SessionID,
		Priority:      priority,
		Payload:       payload,
	}, nil
}

// DecodeGameEvent разбирает полезную нагрузку события сессии
func DecodeGameEvent(ev *Envelope) (GameEvent, error) {
	var ge GameEvent
	if err := json.Unmarshal(ev.Payload, &ge); err != nil {
		return ge, fmt.Errorf("decode %s: %w", ev.EventType, err)
	}
	return ge, nil
}
