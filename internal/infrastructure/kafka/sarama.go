package kafka

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/IBM/sarama"

	"github.com/nschwinning/sleuth-2/internal/domain"
	"github.com/nschwinning/sleuth-2/internal/ports"
)

var _ ports.IPublisher = (*SaramaProducer)(nil)

// SaramaProducer публикует через sarama.AsyncProducer. Колбэк записи едет в ProducerMessage.Metadata
// и вызывается горутиной, вычитывающей Successes() и Errors().
type SaramaProducer struct {
	client   sarama.Client
	producer sarama.AsyncProducer
	log      *slog.Logger

	mu      sync.RWMutex
	closed  bool
	drained chan struct{}
}

// metadataTimeout ограничивает RefreshMetadata вместе с ретраями. Ping не может прервать запрос к брокеру,
// поэтому горутина проверки живёт не дольше этого срока.
const metadataTimeout = 3 * time.Second

func newSaramaConfig(cfg *Config) *sarama.Config {
	sc := sarama.NewConfig()
	sc.Producer.Return.Successes = true
	sc.Producer.Return.Errors = true
	sc.Producer.RequiredAcks = sarama.WaitForAll
	sc.Producer.Flush.Frequency = cfg.BatchTimeout
	sc.Producer.Timeout = cfg.WriteTimeout
	sc.Metadata.Timeout = metadataTimeout
	return sc
}

// NewSaramaProducer подключается к брокерам и запускает асинхронного продюсера.
func NewSaramaProducer(cfg *Config, log *slog.Logger) (*SaramaProducer, error) {
	sc := newSaramaConfig(cfg)

	client, err := sarama.NewClient(cfg.brokersSlice(), sc)
	if err != nil {
		return nil, fmt.Errorf("sarama client: %w", err)
	}
	producer, err := sarama.NewAsyncProducerFromClient(client)
	if err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("sarama producer: %w", err)
	}
	return newSaramaProducer(producer, client, log), nil
}

func newSaramaProducer(producer sarama.AsyncProducer, client sarama.Client, log *slog.Logger) *SaramaProducer {
	p := &SaramaProducer{
		client:   client,
		producer: producer,
		log:      log,
		drained:  make(chan struct{}),
	}
	go p.drain()
	return p
}

// PublishAsync отправляет запись во входной канал продюсера. done вызывается ровно один раз.
func (p *SaramaProducer) PublishAsync(_ context.Context, rec domain.Record, done func(domain.PublishOutcome)) {
	value, err := EncodeEnvelope(rec.Value)
	if err != nil {
		done(domain.Undelivered(rec.Topic, err))
		return
	}

	msg := &sarama.ProducerMessage{
		Topic:    rec.Topic,
		Value:    sarama.ByteEncoder(value),
		Headers:  toSaramaHeaders(rec.Headers),
		Metadata: pendingRecord{topic: rec.Topic, done: done},
	}
	if rec.Key != nil {
		msg.Key = sarama.StringEncoder(*rec.Key)
	}

	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		done(domain.Undelivered(rec.Topic, domain.ErrProducerClosed))
		return
	}
	p.producer.Input() <- msg
}

func (p *SaramaProducer) drain() {
	defer close(p.drained)
	successes, errs := p.producer.Successes(), p.producer.Errors()
	for successes != nil || errs != nil {
		select {
		case msg, ok := <-successes:
			if !ok {
				successes = nil
				continue
			}
			p.resolve(msg, nil)
		case perr, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			p.resolve(perr.Msg, perr.Err)
		}
	}
}

func (p *SaramaProducer) resolve(msg *sarama.ProducerMessage, err error) {
	pr, ok := msg.Metadata.(pendingRecord)
	if !ok {
		p.log.Warn("sarama result without pending callback", "topic", msg.Topic)
		return
	}
	if err != nil {
		pr.done(domain.Undelivered(pr.topic, err))
		return
	}
	pr.done(domain.Delivered(pr.topic, int(msg.Partition), msg.Offset))
}

// Ping обновляет метаданные кластера (для readiness). Отмена ctx возвращает управление сразу,
// сам запрос завершается не позже metadataTimeout.
func (p *SaramaProducer) Ping(ctx context.Context) error {
	if p.client == nil {
		return fmt.Errorf("sarama: no client")
	}
	errCh := make(chan error, 1)
	go func() { errCh <- p.client.RefreshMetadata() }()
	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("sarama refresh metadata: %w", err)
		}
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close досылает буфер, дожидается всех результатов и закрывает клиента.
func (p *SaramaProducer) Close() error {
	p.mu.Lock()
	p.closed = true
	p.mu.Unlock()

	p.producer.AsyncClose()
	<-p.drained

	if p.client != nil {
		return p.client.Close()
	}
	return nil
}
