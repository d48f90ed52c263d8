package eventbus

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ddd-worktime/internal/domain/event"
)

// Handler reacts to one dispatched event.
type Handler interface {
	Handle(ctx context.Context, e event.Event) error
}

type HandlerFunc func(ctx context.Context, e event.Event) error

func (f HandlerFunc) Handle(ctx context.Context, e event.Event) error { return f(ctx, e) }

// Bus is an in-process bus. Dispatch runs every handler inline, in
// subscription order, and returns the joined handler errors.
type Bus struct {
	mu       sync.RWMutex
	handlers map[string][]Handler
	logger   *logrus.Logger
}

func New(logger *logrus.Logger) *Bus {
	return &Bus{handlers: make(map[string][]Handler), logger: logger}
}

func (b *Bus) Subscribe(name string, h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[name] = append(b.handlers[name], h)
}

func (b *Bus) Dispatch(ctx context.Context, events ...event.Event) error {
	var errs []error
	for _, e := range events {
		b.mu.RLock()
		hs := append([]Handler(nil), b.handlers[e.Name()]...)
		b.mu.RUnlock()

		if len(hs) == 0 && b.logger != nil {
			b.logger.WithField("event", e.Name()).Debug("no handler subscribed")
		}
		for _, h := range hs {
			if err := h.Handle(ctx, e); err != nil {
				errs = append(errs, fmt.Errorf("eventbus: %s: %w", e.Name(), err))
			}
		}
	}
	return errors.Join(errs...)
}
