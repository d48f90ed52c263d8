package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ddd-worktime/config"
	"github.com/oksasatya/go-ddd-worktime/internal/container"
	"github.com/oksasatya/go-ddd-worktime/internal/domain"
	"github.com/oksasatya/go-ddd-worktime/internal/infrastructure/eventbus"
	pginfra "github.com/oksasatya/go-ddd-worktime/internal/infrastructure/postgres"
	"github.com/oksasatya/go-ddd-worktime/internal/router"
	"github.com/oksasatya/go-ddd-worktime/pkg/helpers"
)

// audit_worker consumes work entry events relayed by the API when
// EVENT_TRANSPORT=rabbitmq and writes the audit logs.
func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+"-audit-worker", cfg.Env, cfg.LogLevel)

	if cfg.RabbitMQURL == "" || cfg.RabbitMQEventsQueue == "" {
		log.Fatal("RabbitMQ not configured")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	defer stop()

	pool, err := pginfra.NewPool(ctx, cfg.PostgresDSN(), pginfra.PoolOptions{
		AppName:     cfg.AppName + "-audit-worker",
		MaxConns:    cfg.DBMaxConns,
		MinConns:    1,
		MaxConnLife: cfg.DBMaxConnLife,
	})
	if err != nil {
		log.Fatalf("failed to connect to postgres: %v", err)
	}
	defer pool.Close()

	container.SetConfig(cfg)
	container.SetLogger(logger)
	container.SetPGPool(pool)
	if addrs := cfg.ESAddrs(); len(addrs) > 0 {
		if es, err := helpers.NewESClient(addrs, cfg.ElasticsearchUser, cfg.ElasticsearchPass); err == nil {
			container.SetES(es)
		} else {
			logger.WithError(err).Warn("elasticsearch disabled")
		}
	}
	// container has no RabbitMQ publisher here, so the listener is wired directly.
	handler := router.BuildDeps().Listener

	conn, err := amqp.Dial(cfg.RabbitMQURL)
	if err != nil {
		log.Fatalf("amqp dial: %v", err)
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		log.Fatalf("amqp channel: %v", err)
	}
	defer func() { _ = ch.Close() }()

	// Prefetch for fair dispatch
	if err := ch.Qos(16, 0, false); err != nil {
		log.Fatalf("qos: %v", err)
	}
	if err := helpers.DeclareDurableQueue(ch, cfg.RabbitMQEventsQueue); err != nil {
		log.Fatalf("queue declare: %v", err)
	}

	tag := consumerTag(cfg.AppName)
	msgs, err := ch.Consume(cfg.RabbitMQEventsQueue, tag, false, false, false, false, nil)
	if err != nil {
		log.Fatalf("consume: %v", err)
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		for msg := range msgs {
			consume(ctx, logger, handler, msg)
		}
	}()

	logger.WithField("queue", cfg.RabbitMQEventsQueue).Info("audit worker listening")
	<-ctx.Done()
	logger.Info("shutting down...")
	_ = ch.Cancel(tag, false)
	select {
	case <-done:
	case <-time.After(5 * time.Second):
	}
}

// consumerTag is fixed so shutdown can cancel the subscription by name.
func consumerTag(appName string) string {
	return appName + "-audit-worker"
}

func consume(ctx context.Context, logger *logrus.Logger, h eventbus.Handler, msg amqp.Delivery) {
	evt, err := eventbus.Decode(msg.Body)
	if err != nil {
		logger.WithError(err).Warn("bad message")
		_ = msg.Nack(false, false)
		return
	}

	c, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()
	err = h.Handle(c, evt)
	switch kind := domain.KindOf(err); {
	case err == nil:
		_ = msg.Ack(false)
	case kind == domain.KindNotFound || kind == domain.KindUnauthorized:
		// The user or entry is gone or no longer owned; retrying will not help.
		logger.WithError(err).WithField("event", evt.Name()).Warn("event dropped")
		_ = msg.Ack(false)
	default:
		logger.WithError(err).WithField("event", evt.Name()).Error("event handling failed, requeueing")
		_ = msg.Nack(false, true)
	}
}
