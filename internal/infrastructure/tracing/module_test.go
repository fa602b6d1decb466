package tracing

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/nschwinning/sleuth-2/internal/domain"
)

func TestCurrentTraceID_ActiveSpan(t *testing.T) {
	tp := sdktrace.NewTracerProvider()
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })
	tr := NewWithProvider(tp)

	ctx, span := tr.TracerProvider().Tracer("test").Start(context.Background(), "request")
	defer span.End()

	id, err := tr.CurrentTraceID(ctx)

	require.NoError(t, err)
	assert.Equal(t, span.SpanContext().TraceID().String(), id)
	assert.Len(t, id, 32)
}

func TestCurrentTraceID_NoSpan(t *testing.T) {
	tr := NewWithProvider(sdktrace.NewTracerProvider())

	id, err := tr.CurrentTraceID(context.Background())

	assert.Empty(t, id)
	assert.ErrorIs(t, err, domain.ErrTraceContextMissing)
}

func TestCurrentTraceID_NotSampled(t *testing.T) {
	// Несэмплированный спан всё равно несёт trace id, заголовок должен выставляться.
	tp := sdktrace.NewTracerProvider(sdktrace.WithSampler(sdktrace.NeverSample()))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })
	tr := NewWithProvider(tp)

	ctx, span := tp.Tracer("test").Start(context.Background(), "request")
	defer span.End()

	id, err := tr.CurrentTraceID(ctx)

	require.NoError(t, err)
	assert.False(t, span.IsRecording())
	assert.Equal(t, span.SpanContext().TraceID().String(), id)
}

func TestNew_WithoutExporter(t *testing.T) {
	tr, err := New(context.Background(), &Config{ServiceName: "test", SampleRatio: 1}, newTestLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = tr.Shutdown(context.Background()) })

	ctx, span := tr.TracerProvider().Tracer("test").Start(context.Background(), "request")
	defer span.End()

	id, err := tr.CurrentTraceID(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, id)
}
