package dispatcher

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/nschwinning/sleuth-2/internal/domain"
)

// Dispatch запускает публикацию message в отдельной горутине и сразу возвращается.
// Горутина наследует trace context запроса, но не его отмену.
func (u *UseCase) Dispatch(ctx context.Context, message string) {
	u.mu.Lock()
	if u.closed {
		u.mu.Unlock()
		dispatchDroppedTotal.Inc()
		u.log.WarnContext(ctx, "dispatcher closed, message dropped", "message", message)
		return
	}
	u.wg.Add(1)
	u.mu.Unlock()

	u.inFlight.Add(1)
	dispatchInFlight.Inc()
	go u.run(context.WithoutCancel(ctx), ulid.Make().String(), message)
}

func (u *UseCase) run(ctx context.Context, id, message string) {
	ctx, span := u.tracer.Start(ctx, "dispatch "+u.cfg.Topic,
		trace.WithSpanKind(trace.SpanKindProducer),
		trace.WithAttributes(
			attribute.String("messaging.destination.name", u.cfg.Topic),
			attribute.String("dispatch.id", id),
		),
	)
	log := u.log.With("dispatch_id", id)

	var (
		env      domain.Envelope
		acquired bool
		once     sync.Once
	)
	finish := func(out domain.PublishOutcome) {
		once.Do(func() {
			u.report(ctx, log, env, out)
			if out.Failed() {
				span.RecordError(out.Err)
				span.SetStatus(codes.Error, out.Err.Error())
			}
			span.End()
			if acquired {
				u.sem.Release(1)
			}
			u.inFlight.Add(-1)
			dispatchInFlight.Dec()
			u.wg.Done()
		})
	}

	defer func() {
		if r := recover(); r != nil {
			log.ErrorContext(ctx, "dispatch panicked", "panic", r)
			finish(domain.Undelivered(u.cfg.Topic, fmt.Errorf("dispatch panic: %v", r)))
		}
	}()

	if u.sem != nil {
		if err := u.sem.Acquire(ctx, 1); err != nil {
			finish(domain.Undelivered(u.cfg.Topic, err))
			return
		}
		acquired = true
	}

	if u.cfg.Delay > 0 {
		time.Sleep(u.cfg.Delay)
	}

	env = domain.NewEnvelope(message)
	headers := make(map[string]string)
	otel.GetTextMapPropagator().Inject(ctx, propagation.MapCarrier(headers))

	u.pub.PublishAsync(ctx, domain.Record{
		ID:      id,
		Topic:   u.cfg.Topic,
		Value:   env,
		Headers: headers,
	}, finish)
}

// report логирует результат публикации. Ошибки доставки только логируются: наружу они не уходят и не ретраятся.
func (u *UseCase) report(ctx context.Context, log *slog.Logger, env domain.Envelope, out domain.PublishOutcome) {
	if out.Failed() {
		dispatchOutcomesTotal.WithLabelValues(u.cfg.Topic, "failure").Inc()
		log.WarnContext(ctx, "unable to deliver message",
			"envelope", env,
			"topic", u.cfg.Topic,
			"error", out.Err,
		)
		return
	}
	dispatchOutcomesTotal.WithLabelValues(u.cfg.Topic, "success").Inc()
	log.InfoContext(ctx, "message delivered",
		"envelope", env,
		"topic", u.cfg.Topic,
		"partition", out.Partition,
		"offset", out.Offset,
	)
}

// Close перестаёт принимать новые сообщения и ждёт результатов уже запущенных публикаций (или отмены ctx).
func (u *UseCase) Close(ctx context.Context) error {
	u.mu.Lock()
	u.closed = true
	u.mu.Unlock()

	done := make(chan struct{})
	go func() {
		u.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("dispatcher close with %d in flight: %w", u.InFlight(), ctx.Err())
	}
}
