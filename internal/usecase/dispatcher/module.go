package dispatcher

import (
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/semaphore"

	"github.com/nschwinning/sleuth-2/internal/domain"
	"github.com/nschwinning/sleuth-2/internal/ports"
)

const tracerName = "github.com/nschwinning/sleuth-2/internal/usecase/dispatcher"

var _ ports.IDispatcher = (*UseCase)(nil)

// Config задаёт настройки диспетчера. Переменные: SLEUTH_DISPATCH_DELAY, SLEUTH_DISPATCH_MAX_IN_FLIGHT.
// Topic берётся из конфига Kafka.
type Config struct {
	Topic       string        `ignored:"true"`
	Delay       time.Duration `envconfig:"DELAY" default:"3s"`        // искусственная задержка перед публикацией, 0 = без задержки
	MaxInFlight int64         `envconfig:"MAX_IN_FLIGHT" default:"0"` // сколько публикаций одновременно ждут брокер, 0 = без ограничения
}

// UseCase публикует сообщения из HTTP в брокер в фоне и логирует результат доставки.
type UseCase struct {
	pub    ports.IPublisher
	cfg    Config
	log    *slog.Logger
	tracer trace.Tracer
	sem    *semaphore.Weighted

	mu       sync.Mutex
	closed   bool
	wg       sync.WaitGroup
	inFlight atomic.Int64
}

// New создаёт диспетчер. Пустой Topic заменяется на domain.DefaultTopic.
func New(pub ports.IPublisher, cfg Config, log *slog.Logger) *UseCase {
	if cfg.Topic == "" {
		cfg.Topic = domain.DefaultTopic
	}
	u := &UseCase{
		pub:    pub,
		cfg:    cfg,
		log:    log,
		tracer: otel.Tracer(tracerName),
	}
	if cfg.MaxInFlight > 0 {
		u.sem = semaphore.NewWeighted(cfg.MaxInFlight)
	}
	return u
}

// InFlight возвращает число диспетчеризаций, ещё не получивших результат.
func (u *UseCase) InFlight() int64 {
	return u.inFlight.Load()
}
