package tracing

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"

	"github.com/nschwinning/sleuth-2/internal/domain"
	"github.com/nschwinning/sleuth-2/internal/ports"
)

var _ ports.ITraceProvider = (*Tracing)(nil)

// Config задаёт настройки трассировки. Переменные: SLEUTH_TRACING_SERVICE_NAME, SLEUTH_TRACING_ENDPOINT, SLEUTH_TRACING_SAMPLE_RATIO.
type Config struct {
	ServiceName string  `envconfig:"SERVICE_NAME" default:"sleuth-2"`
	Endpoint    string  `envconfig:"ENDPOINT" default:""` // OTLP gRPC host:port, пусто = спаны не экспортируются
	SampleRatio float64 `envconfig:"SAMPLE_RATIO" default:"1"`
}

// Tracing держит TracerProvider приложения и отдаёт trace id текущего запроса.
type Tracing struct {
	tp *sdktrace.TracerProvider
}

// New создаёт TracerProvider, регистрирует его и W3C-пропагаторы глобально.
// Trace id выдаётся и без экспортёра: он нужен для X-Correlation-Id и логов.
func New(ctx context.Context, cfg *Config, log *slog.Logger) (*Tracing, error) {
	opts := []sdktrace.TracerProviderOption{
		sdktrace.WithResource(resource.NewSchemaless(attribute.String("service.name", cfg.ServiceName))),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(cfg.SampleRatio))),
	}

	if cfg.Endpoint != "" {
		exporter, err := otlptracegrpc.New(ctx,
			otlptracegrpc.WithInsecure(),
			otlptracegrpc.WithEndpoint(cfg.Endpoint),
		)
		if err != nil {
			return nil, fmt.Errorf("otlp exporter: %w", err)
		}
		opts = append(opts, sdktrace.WithBatcher(exporter))
		log.Info("tracing export enabled", "endpoint", cfg.Endpoint)
	}

	tp := sdktrace.NewTracerProvider(opts...)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(Propagator())

	return &Tracing{tp: tp}, nil
}

// NewWithProvider оборачивает готовый TracerProvider, ничего не регистрируя глобально (для тестов).
func NewWithProvider(tp *sdktrace.TracerProvider) *Tracing {
	return &Tracing{tp: tp}
}

// Propagator возвращает пропагатор W3C trace context + baggage.
func Propagator() propagation.TextMapPropagator {
	return propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	)
}

// TracerProvider отдаёт провайдер для HTTP-мидлвари и юзкейсов.
func (t *Tracing) TracerProvider() trace.TracerProvider {
	return t.tp
}

// CurrentTraceID возвращает trace id спана из ctx или domain.ErrTraceContextMissing.
func (t *Tracing) CurrentTraceID(ctx context.Context) (string, error) {
	sc := trace.SpanContextFromContext(ctx)
	if !sc.HasTraceID() {
		return "", domain.ErrTraceContextMissing
	}
	return sc.TraceID().String(), nil
}

// Shutdown досылает накопленные спаны и останавливает провайдер.
func (t *Tracing) Shutdown(ctx context.Context) error {
	return t.tp.Shutdown(ctx)
}
