package ports

//go:generate mockgen -source=tracing.go -destination=../mocks/tracing_mock.go -package=mocks

import "context"

// ITraceProvider отдаёт trace id активного запроса. Без активного спана возвращает domain.ErrTraceContextMissing.
type ITraceProvider interface {
	CurrentTraceID(ctx context.Context) (string, error)
}
