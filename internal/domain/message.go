package domain

import (
	"errors"
	"log/slog"
)

var (
	// ErrTraceContextMissing возвращается, когда в контексте запроса нет активного спана.
	ErrTraceContextMissing = errors.New("no active trace context")

	// ErrProducerClosed возвращается продюсером после Close.
	ErrProducerClosed = errors.New("producer closed")

	// ErrMissingParameter возвращается, когда в запросе нет параметра message.
	ErrMissingParameter = errors.New("required request parameter 'message' is not present")
)

// DefaultTopic задаёт топик, в который уходят конверты по умолчанию.
const DefaultTopic = "simple"

// Envelope оборачивает сообщение из HTTP-запроса перед отправкой в брокер. После создания не меняется.
type Envelope struct {
	Message string `json:"message"`
}

// NewEnvelope создаёт конверт для сообщения.
func NewEnvelope(message string) Envelope {
	return Envelope{Message: message}
}

func (e Envelope) String() string {
	return "Envelope(message=" + e.Message + ")"
}

// LogValue реализует slog.LogValuer, чтобы конверт писался в лог группой полей.
func (e Envelope) LogValue() slog.Value {
	return slog.GroupValue(slog.String("message", e.Message))
}

// Record описывает одну публикацию: топик, необязательный ключ, конверт и заголовки (trace propagation).
type Record struct {
	ID      string
	Topic   string
	Key     *string
	Value   Envelope
	Headers map[string]string
}

// PublishOutcome содержит результат асинхронной публикации. Err == nil означает успешную доставку.
type PublishOutcome struct {
	Topic     string
	Partition int
	Offset    int64
	Err       error
}

// Failed сообщает, закончилась ли публикация ошибкой.
func (o PublishOutcome) Failed() bool {
	return o.Err != nil
}

// Delivered строит успешный результат.
func Delivered(topic string, partition int, offset int64) PublishOutcome {
	return PublishOutcome{Topic: topic, Partition: partition, Offset: offset}
}

// Undelivered строит результат с ошибкой.
func Undelivered(topic string, err error) PublishOutcome {
	return PublishOutcome{Topic: topic, Partition: -1, Offset: -1, Err: err}
}
