package kafka

import (
	"io"
	"log/slog"
	"sync"

	"github.com/nschwinning/sleuth-2/internal/domain"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// outcomes собирает результаты публикаций из колбэков (их могут вызывать из чужих горутин).
type outcomes struct {
	mu   sync.Mutex
	list []domain.PublishOutcome
	ch   chan domain.PublishOutcome
}

func newOutcomes() *outcomes {
	return &outcomes{ch: make(chan domain.PublishOutcome, 16)}
}

func (o *outcomes) done(out domain.PublishOutcome) {
	o.mu.Lock()
	o.list = append(o.list, out)
	o.mu.Unlock()
	o.ch <- out
}

func (o *outcomes) all() []domain.PublishOutcome {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]domain.PublishOutcome(nil), o.list...)
}
