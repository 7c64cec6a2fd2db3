package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/GregMSThompson/ledger-engine/internal/config"
	"github.com/GregMSThompson/ledger-engine/internal/notify"
	"github.com/GregMSThompson/ledger-engine/pkg/logger"
)

func exitOnError(message string, err error, log *slog.Logger) {
	if err != nil {
		log.Error(message, "error", err)
		os.Exit(1)
	}
}

// deliver is the sink for user messages. It logs each one; swapping in a
// push or mail client only needs a different handler.
func deliver(ctx context.Context, env *notify.Envelope) error {
	logger.FromContext(ctx).Info("user message delivered",
		"message_id", env.Message.ID,
		"type", env.Message.Type,
		"message", env.Message.Message,
		"published_at", env.PublishedAt)
	return nil
}

func main() {
	cfg := config.New()
	log := logger.New(cfg.LogLevel, logger.NewJSONHandler)
	slog.SetDefault(log)
	exitOnError("invalid configuration", cfg.Validate(), log)
	if cfg.AMQPURL == "" {
		log.Error("AMQPURL is required for the notifier")
		os.Exit(1)
	}

	client, err := notify.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	exitOnError("amqp connect failed", err, log)
	defer client.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx = logger.ToContext(ctx, log)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return client.Consume(gctx, deliver)
	})

	if err := g.Wait(); err != nil && ctx.Err() == nil {
		log.Error("notifier stopped with error", "error", err)
		return
	}
	log.Info("notifier stopped")
}
