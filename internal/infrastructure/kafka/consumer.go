package kafka

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/segmentio/kafka-go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/nschwinning/sleuth-2/internal/ports"
)

const tracerName = "github.com/nschwinning/sleuth-2/internal/infrastructure/kafka"

// messageReader покрывает то, что консьюмеру нужно от *kafka.Reader.
type messageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Consumer оборачивает kafka.Reader: декодирует конверты, восстанавливает trace context из заголовков и вызывает обработчик.
type Consumer struct {
	r   messageReader
	h   ports.IEnvelopeHandler
	log *slog.Logger
}

// NewConsumer создаёт консьюмера по конфигу, обработчику и логгеру. После использования вызови Close().
func NewConsumer(cfg *Config, h ports.IEnvelopeHandler, log *slog.Logger) *Consumer {
	c := New(cfg).Consumer()
	c.h = h
	c.log = log
	return c
}

// Run в цикле читает сообщения и коммитит каждое после обработки.
// Битые конверты логируются и коммитятся. Ошибка обработчика останавливает цикл без коммита:
// после перезапуска consumer group начнёт с этого же сообщения.
// Выход также по отмене ctx и при ошибке чтения или коммита.
func (c *Consumer) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		msg, err := c.r.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			c.log.Error("kafka fetch failed, consumer stopped", "error", err)
			return fmt.Errorf("kafka fetch: %w", err)
		}

		if err := c.handle(ctx, msg); err != nil {
			return fmt.Errorf("handle %s/%d@%d: %w", msg.Topic, msg.Partition, msg.Offset, err)
		}

		if err := c.r.CommitMessages(ctx, msg); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			c.log.Error("kafka commit failed, consumer stopped", "error", err, "offset", msg.Offset)
			return fmt.Errorf("kafka commit: %w", err)
		}
	}
}

func (c *Consumer) handle(ctx context.Context, msg kafka.Message) error {
	ctx = otel.GetTextMapPropagator().Extract(ctx, propagation.MapCarrier(HeadersMap(msg.Headers)))
	ctx, span := otel.Tracer(tracerName).Start(ctx, "receive "+msg.Topic,
		trace.WithSpanKind(trace.SpanKindConsumer),
		trace.WithAttributes(
			attribute.String("messaging.destination.name", msg.Topic),
			attribute.Int("messaging.kafka.partition", msg.Partition),
			attribute.Int64("messaging.kafka.offset", msg.Offset),
		),
	)
	defer span.End()

	env, err := DecodeEnvelope(msg.Value)
	if err != nil {
		c.log.WarnContext(ctx, "kafka unmarshal error, skip", "error", err, "topic", msg.Topic, "partition", msg.Partition, "offset", msg.Offset)
		return nil
	}

	if err := c.h.HandleEnvelope(ctx, env); err != nil {
		span.RecordError(err)
		c.log.WarnContext(ctx, "kafka handle error, consumer stopped before commit", "error", err, "topic", msg.Topic, "partition", msg.Partition, "offset", msg.Offset)
		return err
	}
	return nil
}

// Close покидает consumer group и закрывает соединения.
func (c *Consumer) Close() error {
	return c.r.Close()
}
