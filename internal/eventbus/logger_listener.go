package eventbus

import (
	"context"

	"github.com/annel0/robomaze/internal/logging"
)

// StartLoggingListener подписывается на все события и пишет их в лог шины.
// Функция неблокирующая.
func StartLoggingListener(ctx context.Context, bus EventBus) (Subscription, error) {
	logger := logging.GetEventBusLogger()
	sub, err := bus.Subscribe(ctx, Filter{}, func(ctx context.Context, ev *Envelope) {
		ge, err := DecodeGameEvent(ev)
		if err != nil {
			logger.Debug("%s %s src=%s prio=%d size=%dB", ev.ID, ev.EventType, ev.Source, ev.Priority, len(ev.Payload))
			return
		}
		logger.Info("%s: уровень %d, счёт %d, жизней %d (сессия %s)", ev.EventType, ge.Level, ge.Score, ge.Lives, ge.SessionID)
	})
	if err != nil {
		return nil, err
	}
	logger.Debug("LoggingListener: подписка на все события активирована")
	return sub, nil
}
