package kafka

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/oklog/ulid/v2"
	"github.com/segmentio/kafka-go"

	"github.com/nschwinning/sleuth-2/internal/domain"
	"github.com/nschwinning/sleuth-2/internal/ports"
)

var _ ports.IPublisher = (*Producer)(nil)

type pendingRecord struct {
	topic string
	done  func(domain.PublishOutcome)
}

// Producer оборачивает асинхронный kafka.Writer. Writer пачкует записи и сообщает о результате
// через Completion; колбэк каждой записи находится по заголовку x-dispatch-id.
type Producer struct {
	w       *kafka.Writer
	brokers []string
	log     *slog.Logger

	mu      sync.Mutex
	closed  bool
	pending map[string]pendingRecord
}

// NewProducer создаёт продюсера по конфигу. После использования вызови Close().
func NewProducer(cfg *Config, log *slog.Logger) *Producer {
	return New(cfg).Producer(log)
}

// PublishAsync ставит запись в очередь writer'а и сразу возвращается. done вызывается ровно один раз.
func (p *Producer) PublishAsync(ctx context.Context, rec domain.Record, done func(domain.PublishOutcome)) {
	value, err := EncodeEnvelope(rec.Value)
	if err != nil {
		done(domain.Undelivered(rec.Topic, err))
		return
	}

	id := rec.ID
	if id == "" {
		id = ulid.Make().String()
	}
	msg := kafka.Message{
		Topic:   rec.Topic,
		Value:   value,
		Headers: toKafkaHeaders(rec.Headers, id),
	}
	if rec.Key != nil {
		msg.Key = []byte(*rec.Key)
	}

	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		done(domain.Undelivered(rec.Topic, domain.ErrProducerClosed))
		return
	}
	p.pending[id] = pendingRecord{topic: rec.Topic, done: done}
	p.mu.Unlock()

	// В async-режиме ошибка здесь означает, что запись даже не попала в очередь.
	if err := p.w.WriteMessages(ctx, msg); err != nil {
		if pr, ok := p.take(id); ok {
			pr.done(domain.Undelivered(rec.Topic, fmt.Errorf("kafka write: %w", err)))
		}
	}
}

// complete вызывается writer'ом для каждой отправленной пачки. Partition и Offset заполнены kafka-go.
func (p *Producer) complete(msgs []kafka.Message, err error) {
	for _, m := range msgs {
		id := dispatchID(m.Headers)
		pr, ok := p.take(id)
		if !ok {
			p.log.Warn("kafka completion without pending callback", "dispatch_id", id, "topic", m.Topic)
			continue
		}
		if err != nil {
			pr.done(domain.Undelivered(pr.topic, err))
			continue
		}
		pr.done(domain.Delivered(pr.topic, m.Partition, m.Offset))
	}
}

func (p *Producer) take(id string) (pendingRecord, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	pr, ok := p.pending[id]
	if ok {
		delete(p.pending, id)
	}
	return pr, ok
}

// Ping проверяет, что первый брокер принимает TCP-соединение (для readiness).
func (p *Producer) Ping(ctx context.Context) error {
	conn, err := kafka.DialContext(ctx, "tcp", p.brokers[0])
	if err != nil {
		return fmt.Errorf("kafka dial %s: %w", p.brokers[0], err)
	}
	return conn.Close()
}

// Close досылает накопленные пачки и закрывает writer. Колбэки, оставшиеся без ответа, получают ErrProducerClosed.
func (p *Producer) Close() error {
	p.mu.Lock()
	p.closed = true
	p.mu.Unlock()

	err := p.w.Close()

	p.mu.Lock()
	left := p.pending
	p.pending = make(map[string]pendingRecord)
	p.mu.Unlock()
	for _, pr := range left {
		pr.done(domain.Undelivered(pr.topic, domain.ErrProducerClosed))
	}
	return err
}
