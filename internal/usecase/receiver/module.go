package receiver

import (
	"context"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/nschwinning/sleuth-2/internal/domain"
	"github.com/nschwinning/sleuth-2/internal/ports"
)

var _ ports.IEnvelopeHandler = (*UseCase)(nil)

var envelopesReceivedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Name: "envelopes_received_total",
		Help: "Total number of envelopes read back from the topic",
	},
)

// UseCase обрабатывает конверты, прочитанные из топика: пишет их в лог вместе с trace id отправителя.
type UseCase struct {
	log *slog.Logger
}

// New создаёт юзкейс приёма.
func New(log *slog.Logger) *UseCase {
	return &UseCase{log: log}
}

// HandleEnvelope вызывается консьюмером для каждого сообщения (часть ports.IEnvelopeHandler).
func (u *UseCase) HandleEnvelope(ctx context.Context, env domain.Envelope) error {
	envelopesReceivedTotal.Inc()
	u.log.InfoContext(ctx, "envelope received", "envelope", env)
	return nil
}
