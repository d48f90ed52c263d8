package eventbus

import (
	"context"
	"time"

	"github.com/oksasatya/go-ddd-worktime/internal/domain/event"
)

// JSONPublisher is satisfied by helpers.RabbitPublisher.
type JSONPublisher interface {
	PublishJSON(ctx context.Context, body any) error
}

// RabbitRelay forwards events to a durable queue instead of handling them in-process.
// The audit worker consumes that queue.
type RabbitRelay struct {
	Publisher JSONPublisher
	Timeout   time.Duration
}

func NewRabbitRelay(p JSONPublisher) *RabbitRelay {
	return &RabbitRelay{Publisher: p, Timeout: 5 * time.Second}
}

func (r *RabbitRelay) Handle(ctx context.Context, e event.Event) error {
	env, err := Wrap(e)
	if err != nil {
		return err
	}
	if r.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}
	return r.Publisher.PublishJSON(ctx, env)
}
