package dispatcher

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/mock/gomock"

	"github.com/nschwinning/sleuth-2/internal/domain"
	"github.com/nschwinning/sleuth-2/internal/mocks"
)

const (
	msgDelivered   = "message delivered"
	msgUndelivered = "unable to deliver message"
)

func newTestUseCase(pub *mocks.MockIPublisher, cfg Config) (*UseCase, *logRecorder) {
	rec := newLogRecorder()
	return New(pub, cfg, slog.New(rec)), rec
}

func closeWithin(t *testing.T, uc *UseCase, d time.Duration) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), d)
	defer cancel()
	require.NoError(t, uc.Close(ctx))
}

// Успешная публикация: ровно один лог доставки с топиком simple и конвертом "hello".
func TestDispatch_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	pub := mocks.NewMockIPublisher(ctrl)

	pub.EXPECT().
		PublishAsync(gomock.Any(), gomock.Any(), gomock.Any()).
		Do(func(_ context.Context, rec domain.Record, done func(domain.PublishOutcome)) {
			assert.Equal(t, "simple", rec.Topic)
			assert.Nil(t, rec.Key)
			assert.Equal(t, domain.NewEnvelope("hello"), rec.Value)
			assert.NotEmpty(t, rec.ID)
			done(domain.Delivered(rec.Topic, 0, 7))
		})

	uc, logs := newTestUseCase(pub, Config{Topic: "simple"})
	before := testutil.ToFloat64(dispatchOutcomesTotal.WithLabelValues("simple", "success"))

	uc.Dispatch(context.Background(), "hello")
	closeWithin(t, uc, 2*time.Second)

	delivered := logs.byMessage(msgDelivered)
	require.Len(t, delivered, 1)
	assert.Equal(t, slog.LevelInfo, delivered[0].level)
	assert.Equal(t, "simple", delivered[0].attrs["topic"].String())
	assert.Equal(t, "hello", delivered[0].envelopeMessage())
	assert.Equal(t, int64(7), delivered[0].attrs["offset"].Int64())
	assert.Empty(t, logs.byMessage(msgUndelivered))
	assert.Equal(t, before+1, testutil.ToFloat64(dispatchOutcomesTotal.WithLabelValues("simple", "success")))
	assert.Zero(t, uc.InFlight())
}

// Ошибка брокера только логируется: один WARN с причиной, без ретраев.
func TestDispatch_Failure(t *testing.T) {
	ctrl := gomock.NewController(t)
	pub := mocks.NewMockIPublisher(ctrl)

	pub.EXPECT().
		PublishAsync(gomock.Any(), gomock.Any(), gomock.Any()).
		Do(func(_ context.Context, rec domain.Record, done func(domain.PublishOutcome)) {
			done(domain.Undelivered(rec.Topic, errors.New("timeout")))
		}).
		Times(1)

	uc, logs := newTestUseCase(pub, Config{Topic: "simple"})
	before := testutil.ToFloat64(dispatchOutcomesTotal.WithLabelValues("simple", "failure"))

	uc.Dispatch(context.Background(), "any")
	closeWithin(t, uc, 2*time.Second)

	failed := logs.byMessage(msgUndelivered)
	require.Len(t, failed, 1)
	assert.Equal(t, slog.LevelWarn, failed[0].level)
	assert.Equal(t, "timeout", failed[0].attrs["error"].String())
	assert.Equal(t, "any", failed[0].envelopeMessage())
	assert.Empty(t, logs.byMessage(msgDelivered))
	assert.Equal(t, before+1, testutil.ToFloat64(dispatchOutcomesTotal.WithLabelValues("simple", "failure")))
}

// Колбэк, вызванный повторно, не даёт второго лога.
func TestDispatch_OutcomeConsumedOnce(t *testing.T) {
	ctrl := gomock.NewController(t)
	pub := mocks.NewMockIPublisher(ctrl)

	pub.EXPECT().
		PublishAsync(gomock.Any(), gomock.Any(), gomock.Any()).
		Do(func(_ context.Context, rec domain.Record, done func(domain.PublishOutcome)) {
			done(domain.Delivered(rec.Topic, 0, 1))
			done(domain.Undelivered(rec.Topic, errors.New("late")))
		})

	uc, logs := newTestUseCase(pub, Config{Topic: "simple"})

	uc.Dispatch(context.Background(), "hello")
	closeWithin(t, uc, 2*time.Second)

	assert.Len(t, logs.byMessage(msgDelivered), 1)
	assert.Empty(t, logs.byMessage(msgUndelivered))
}

// Dispatch не ждёт задержку и публикацию.
func TestDispatch_ReturnsImmediately(t *testing.T) {
	ctrl := gomock.NewController(t)
	pub := mocks.NewMockIPublisher(ctrl)

	var published atomic.Bool
	pub.EXPECT().
		PublishAsync(gomock.Any(), gomock.Any(), gomock.Any()).
		Do(func(_ context.Context, rec domain.Record, done func(domain.PublishOutcome)) {
			published.Store(true)
			done(domain.Delivered(rec.Topic, 0, 1))
		})

	uc, _ := newTestUseCase(pub, Config{Topic: "simple", Delay: 300 * time.Millisecond})

	start := time.Now()
	uc.Dispatch(context.Background(), "hello")
	assert.Less(t, time.Since(start), 100*time.Millisecond)
	assert.False(t, published.Load(), "публикация не должна начаться до истечения задержки")
	assert.EqualValues(t, 1, uc.InFlight())

	closeWithin(t, uc, 2*time.Second)
	assert.True(t, published.Load())
	assert.GreaterOrEqual(t, time.Since(start), 300*time.Millisecond)
}

// Отмена контекста запроса (ответ уже отправлен) не отменяет публикацию, trace context уходит в заголовки.
func TestDispatch_DetachedFromRequestButKeepsTrace(t *testing.T) {
	prev := otel.GetTextMapPropagator()
	otel.SetTextMapPropagator(propagation.TraceContext{})
	t.Cleanup(func() { otel.SetTextMapPropagator(prev) })

	tp := sdktrace.NewTracerProvider()
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })
	reqCtx, span := tp.Tracer("test").Start(context.Background(), "GET /api/test")
	defer span.End()
	reqCtx, cancel := context.WithCancel(reqCtx)

	ctrl := gomock.NewController(t)
	pub := mocks.NewMockIPublisher(ctrl)
	pub.EXPECT().
		PublishAsync(gomock.Any(), gomock.Any(), gomock.Any()).
		Do(func(ctx context.Context, rec domain.Record, done func(domain.PublishOutcome)) {
			assert.NoError(t, ctx.Err())
			assert.Contains(t, rec.Headers["traceparent"], span.SpanContext().TraceID().String())
			done(domain.Delivered(rec.Topic, 0, 1))
		})

	uc, _ := newTestUseCase(pub, Config{Topic: "simple", Delay: 20 * time.Millisecond})

	uc.Dispatch(reqCtx, "hello")
	cancel()
	closeWithin(t, uc, 2*time.Second)
}

// N конкурентных сообщений дают N логов, каждый со своим конвертом.
func TestDispatch_ConcurrentNoCrossTalk(t *testing.T) {
	const n = 50
	ctrl := gomock.NewController(t)
	pub := mocks.NewMockIPublisher(ctrl)

	messages := make([]string, n)
	offsets := make(map[string]int64, n)
	for i := range messages {
		messages[i] = "msg-" + strconv.Itoa(i)
		offsets[messages[i]] = int64(i)
	}

	pub.EXPECT().
		PublishAsync(gomock.Any(), gomock.Any(), gomock.Any()).
		Do(func(_ context.Context, rec domain.Record, done func(domain.PublishOutcome)) {
			// Результат приходит из "горутины брокера", как у настоящего клиента.
			go done(domain.Delivered(rec.Topic, 0, offsets[rec.Value.Message]))
		}).
		Times(n)

	uc, logs := newTestUseCase(pub, Config{Topic: "simple"})

	var wg sync.WaitGroup
	for _, m := range messages {
		wg.Add(1)
		go func(m string) {
			defer wg.Done()
			uc.Dispatch(context.Background(), m)
		}(m)
	}
	wg.Wait()
	closeWithin(t, uc, 5*time.Second)

	delivered := logs.byMessage(msgDelivered)
	require.Len(t, delivered, n)
	seen := make(map[string]bool, n)
	for _, e := range delivered {
		m := e.envelopeMessage()
		assert.Equal(t, offsets[m], e.attrs["offset"].Int64(), "offset другого сообщения в логе %q", m)
		seen[m] = true
	}
	assert.Len(t, seen, n)
}

// MaxInFlight ограничивает число публикаций, ожидающих брокер.
func TestDispatch_MaxInFlight(t *testing.T) {
	ctrl := gomock.NewController(t)
	pub := mocks.NewMockIPublisher(ctrl)

	first := make(chan func(domain.PublishOutcome), 1)
	var calls atomic.Int32
	pub.EXPECT().
		PublishAsync(gomock.Any(), gomock.Any(), gomock.Any()).
		Do(func(_ context.Context, rec domain.Record, done func(domain.PublishOutcome)) {
			if calls.Add(1) == 1 {
				first <- done
				return
			}
			done(domain.Delivered(rec.Topic, 0, 2))
		}).
		Times(2)

	uc, logs := newTestUseCase(pub, Config{Topic: "simple", MaxInFlight: 1})

	uc.Dispatch(context.Background(), "a")
	done := <-first
	uc.Dispatch(context.Background(), "b")

	time.Sleep(50 * time.Millisecond)
	assert.EqualValues(t, 1, calls.Load(), "вторая публикация ждёт освобождения слота")

	done(domain.Delivered("simple", 0, 1))
	closeWithin(t, uc, 2*time.Second)

	assert.EqualValues(t, 2, calls.Load())
	assert.Len(t, logs.byMessage(msgDelivered), 2)
}

// Паника в клиенте брокера не роняет процесс и превращается в лог ошибки доставки.
func TestDispatch_PanicIsRecovered(t *testing.T) {
	ctrl := gomock.NewController(t)
	pub := mocks.NewMockIPublisher(ctrl)

	pub.EXPECT().
		PublishAsync(gomock.Any(), gomock.Any(), gomock.Any()).
		Do(func(context.Context, domain.Record, func(domain.PublishOutcome)) {
			panic("broker exploded")
		})

	uc, logs := newTestUseCase(pub, Config{Topic: "simple"})

	uc.Dispatch(context.Background(), "hello")
	closeWithin(t, uc, 2*time.Second)

	require.Len(t, logs.byMessage("dispatch panicked"), 1)
	require.Len(t, logs.byMessage(msgUndelivered), 1)
	assert.Zero(t, uc.InFlight())
}

// После Close новые сообщения не публикуются.
func TestDispatch_AfterClose(t *testing.T) {
	ctrl := gomock.NewController(t)
	pub := mocks.NewMockIPublisher(ctrl)
	// PublishAsync не должен вызываться

	uc, logs := newTestUseCase(pub, Config{Topic: "simple"})
	closeWithin(t, uc, time.Second)

	uc.Dispatch(context.Background(), "late")

	assert.Len(t, logs.byMessage("dispatcher closed, message dropped"), 1)
	assert.Zero(t, uc.InFlight())
}

// Close с истёкшим контекстом сообщает, сколько публикаций ещё в полёте.
func TestClose_Timeout(t *testing.T) {
	ctrl := gomock.NewController(t)
	pub := mocks.NewMockIPublisher(ctrl)

	held := make(chan func(domain.PublishOutcome), 1)
	pub.EXPECT().
		PublishAsync(gomock.Any(), gomock.Any(), gomock.Any()).
		Do(func(_ context.Context, _ domain.Record, done func(domain.PublishOutcome)) {
			held <- done
		})

	uc, _ := newTestUseCase(pub, Config{Topic: "simple"})
	uc.Dispatch(context.Background(), "slow")
	done := <-held

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	err := uc.Close(ctx)
	require.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Contains(t, err.Error(), "1 in flight")

	done(domain.Delivered("simple", 0, 1))
	closeWithin(t, uc, time.Second)
}

func TestNew_DefaultTopic(t *testing.T) {
	uc := New(nil, Config{}, slog.Default())

	assert.Equal(t, domain.DefaultTopic, uc.cfg.Topic)
	assert.Nil(t, uc.sem)
}
