package eventbus

import (
	"context"

	"github.com/annel0/grid-puzzle/internal/logging"
)

// StartLoggingListener подписывается на все события и пишет их в стандартный лог.
// Функция неблокирующая.
func StartLoggingListener(bus EventBus) error {
	log := logging.GetEventLogger()
	_, err := bus.Subscribe(context.Background(), Filter{}, func(ctx context.Context, ev *Envelope) {
		log.Debug("[EventBus] %s %s src=%s session=%s size=%dB", ev.ID, ev.EventType, ev.Source, ev.Session, len(ev.Payload))
	})
	if err != nil {
		return err
	}
	log.Info("🪵 LoggingListener: подписка на все события активирована")
	return nil
}
