package ports

//go:generate mockgen -source=usecase.go -destination=../mocks/usecase_mock.go -package=mocks

import (
	"context"

	"github.com/nschwinning/sleuth-2/internal/domain"
)

// IDispatcher принимает сообщение из HTTP и публикует его в фоне. Dispatch возвращается сразу.
type IDispatcher interface {
	Dispatch(ctx context.Context, message string)
}

// IEnvelopeHandler обрабатывает конверт, прочитанный консьюмером из топика.
type IEnvelopeHandler interface {
	HandleEnvelope(ctx context.Context, env domain.Envelope) error
}
