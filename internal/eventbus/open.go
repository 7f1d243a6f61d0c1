package eventbus

import (
	"github.com/annel0/robomaze/internal/config"
	"github.com/annel0/robomaze/internal/logging"
)

// Open выбирает реализацию шины по конфигурации: NATS JetStream, если задан URL,
// иначе in-memory шина.
func Open(cfg config.EventBusConfig) (EventBus, error) {
	url := cfg.GetURL()
	if url == "" {
		logging.GetEventBusLogger().Info("NATS не настроен, используется in-memory шина")
		return NewMemoryBus(256), nil
	}

	bus, err := NewJetStreamBus(url, cfg.Stream, cfg.RetentionDuration())
	if err != nil {
		return nil, err
	}
	logging.GetEventBusLogger().Info("Подключена шина JetStream %s (стрим %s)", url, cfg.Stream)
	return bus, nil
}
