package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/nschwinning/sleuth-2/internal/infrastructure/kafka"
	"github.com/nschwinning/sleuth-2/internal/infrastructure/tracing"
	"github.com/nschwinning/sleuth-2/internal/pkg/logger"
	"github.com/nschwinning/sleuth-2/internal/usecase/receiver"
)

// RunConsumer читает топик и логирует конверты с trace id из заголовков (блокирующий вызов).
func (a *App) RunConsumer() error {
	log := logger.New(a.cfg.LogLevel)
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	tr, err := tracing.New(ctx, &a.cfg.Tracing, log)
	if err != nil {
		return fmt.Errorf("tracing: %w", err)
	}
	defer func() {
		if err := tr.Shutdown(context.Background()); err != nil {
			log.Warn("tracing shutdown failed", "error", err)
		}
	}()

	c := kafka.NewConsumer(&a.cfg.Kafka, receiver.New(log), log)
	defer c.Close()

	log.Info("consumer started", "brokers", a.cfg.Kafka.Brokers, "topic", a.cfg.Kafka.Topic, "group", a.cfg.Kafka.GroupID)

	if err := c.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	log.Info("consumer stopped")
	return nil
}
