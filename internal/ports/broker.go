package ports

//go:generate mockgen -source=broker.go -destination=../mocks/broker_mock.go -package=mocks

import (
	"context"

	"github.com/nschwinning/sleuth-2/internal/domain"
)

// IPublisher описывает асинхронную отправку в брокер (Kafka). PublishAsync не ждёт доставки:
// результат приходит ровно один раз в done, обычно из горутины клиента брокера.
// Реализация должна быть безопасна для конкурентного вызова.
type IPublisher interface {
	PublishAsync(ctx context.Context, rec domain.Record, done func(domain.PublishOutcome))
}
