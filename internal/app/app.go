package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	apihttp "github.com/nschwinning/sleuth-2/internal/api/http"
	"github.com/nschwinning/sleuth-2/internal/api/http/controllers/message"
	"github.com/nschwinning/sleuth-2/internal/api/http/controllers/system"
	"github.com/nschwinning/sleuth-2/internal/api/http/middlewares"
	"github.com/nschwinning/sleuth-2/internal/infrastructure/kafka"
	"github.com/nschwinning/sleuth-2/internal/infrastructure/tracing"
	"github.com/nschwinning/sleuth-2/internal/pkg/logger"
	"github.com/nschwinning/sleuth-2/internal/ports"
	"github.com/nschwinning/sleuth-2/internal/usecase/dispatcher"
)

// broker публикует записи, отвечает на проверку готовности и закрывается при остановке.
type broker interface {
	ports.IPublisher
	ports.IHealthChecker
	Close() error
}

// App хранит только конфиг.
type App struct {
	cfg Config
}

// New создаёт приложение с конфигом (брокер и трассировка поднимаются в Run).
func New(cfg Config) *App {
	return &App{cfg: cfg}
}

// newBroker выбирает клиента Kafka по SLEUTH_KAFKA_DRIVER.
func newBroker(cfg *kafka.Config, log *slog.Logger) (broker, error) {
	switch cfg.Driver {
	case "", kafka.DriverKafkaGo:
		return kafka.NewProducer(cfg, log), nil
	case kafka.DriverSarama:
		p, err := kafka.NewSaramaProducer(cfg, log)
		if err != nil {
			return nil, fmt.Errorf("sarama: %w", err)
		}
		return p, nil
	default:
		return nil, fmt.Errorf("unknown kafka driver %q", cfg.Driver)
	}
}

// newServer собирает HTTP-сервер: otelgin открывает серверный спан, Correlation отдаёт его trace id,
// дальше логирование и метрики запросов.
func newServer(cfg apihttp.ServerConfig, tr *tracing.Tracing, serviceName string, d ports.IDispatcher, health ports.IHealthChecker, log *slog.Logger) *apihttp.Server {
	srv := apihttp.NewServer(cfg, log)
	srv.Use(
		otelgin.Middleware(serviceName,
			otelgin.WithTracerProvider(tr.TracerProvider()),
			otelgin.WithPropagators(tracing.Propagator()),
		),
		middlewares.Correlation(tr),
		middlewares.PrometheusMetrics,
		middlewares.RequestLogger(log),
	)
	srv.AddController(
		system.New(health, log),
		message.New(d, log),
	)
	return srv
}

// Run поднимает трассировку и продюсера, запускает HTTP-сервер (блокирующий вызов).
// После сигнала останавливается по порядку: сервер, диспетчер, продюсер, трассировка.
func (a *App) Run() error {
	log := logger.New(a.cfg.LogLevel)
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	tr, err := tracing.New(ctx, &a.cfg.Tracing, log)
	if err != nil {
		return fmt.Errorf("tracing: %w", err)
	}

	pub, err := newBroker(&a.cfg.Kafka, log)
	if err != nil {
		_ = tr.Shutdown(context.Background())
		return err
	}

	uc := dispatcher.New(pub, a.cfg.Dispatch, log)
	srv := newServer(a.cfg.Server, tr, a.cfg.Tracing.ServiceName, uc, pub, log)

	log.Info("application started",
		"http", a.cfg.Server.Host+":"+a.cfg.Server.Port,
		"brokers", a.cfg.Kafka.Brokers,
		"topic", a.cfg.Kafka.Topic,
		"driver", a.cfg.Kafka.Driver,
		"delay", a.cfg.Dispatch.Delay,
	)

	runErr := srv.Start(ctx)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.shutdownTimeout())
	defer cancel()

	var errs []error
	if runErr != nil {
		errs = append(errs, fmt.Errorf("http: %w", runErr))
	}
	if err := uc.Close(shutdownCtx); err != nil {
		errs = append(errs, err)
	}
	if err := pub.Close(); err != nil {
		errs = append(errs, fmt.Errorf("producer close: %w", err))
	}
	if err := tr.Shutdown(shutdownCtx); err != nil {
		errs = append(errs, fmt.Errorf("tracing shutdown: %w", err))
	}

	log.Info("application stopped")
	return errors.Join(errs...)
}

// shutdownTimeout ограничивает ожидание фоновых публикаций: задержка диспетчера плюс таймаут записи.
func (a *App) shutdownTimeout() time.Duration {
	return a.cfg.Dispatch.Delay + a.cfg.Kafka.WriteTimeout + time.Second
}
