package pubsub

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"
)

func TestSetupOTel(t *testing.T) {
	ctx := context.Background()

	t.Run("disabled tracing", func(t *testing.T) {
		tracer, shutdown, err := SetupOTel(ctx, TracingConfig{Enabled: false})
		require.NoError(t, err)
		require.NotNil(t, tracer)

		_, span := tracer.Start(ctx, "test")
		assert.False(t, span.SpanContext().IsValid())
		span.End()
		assert.NoError(t, shutdown(ctx))
	})

	t.Run("enabled tracing", func(t *testing.T) {
		tracer, shutdown, err := SetupOTel(ctx, TracingConfig{
			Enabled:        true,
			ServiceName:    "hostkit-test",
			ServiceVersion: "0.0.0",
			ZipkinURL:      "http://localhost:9411/api/v2/spans",
		})
		require.NoError(t, err)
		require.NotNil(t, tracer)
		assert.NoError(t, shutdown(ctx))
	})
}

func TestTracing_PublishAndProcessSpans(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	defer tp.Shutdown(context.Background())

	bus := NewWatermillBridgeWithTracer(tp.Tracer(tracerName))
	defer bus.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	delivered := make(chan Message, 1)
	var handlerSpan trace.SpanContext
	require.NoError(t, bus.Subscribe(ctx, "test.traced", func(ctx context.Context, msg Message) error {
		handlerSpan = trace.SpanContextFromContext(ctx)
		delivered <- msg
		return nil
	}))

	require.NoError(t, bus.Publish(ctx, Message{Topic: "test.traced", ActorID: "actor-1", Payload: []byte("ok")}))

	var msg Message
	select {
	case msg = <-delivered:
	case <-time.After(time.Second):
		t.Fatal("message not delivered")
	}
	assert.NotContains(t, msg.Metadata, "traceparent")

	require.Eventually(t, func() bool { return len(recorder.Ended()) == 2 }, time.Second, 10*time.Millisecond)

	byName := map[string]sdktrace.ReadOnlySpan{}
	for _, s := range recorder.Ended() {
		byName[s.Name()] = s
	}
	publish := byName["pubsub.publish.test.traced"]
	process := byName["pubsub.process.test.traced"]
	require.NotNil(t, publish)
	require.NotNil(t, process)

	assert.Equal(t, publish.SpanContext().TraceID(), process.SpanContext().TraceID())
	assert.Equal(t, publish.SpanContext().SpanID(), process.Parent().SpanID())
	assert.Equal(t, process.SpanContext().SpanID(), handlerSpan.SpanID())
	assert.Contains(t, publish.Attributes(), attribute.String("hostkit.actor_id", "actor-1"))
}

func TestTracing_HandlerErrorMarksSpan(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	defer tp.Shutdown(context.Background())

	bus := NewWatermillBridgeWithTracer(tp.Tracer(tracerName))
	defer bus.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	require.NoError(t, bus.Subscribe(ctx, "test.failing", func(context.Context, Message) error {
		return errors.New("handler failed")
	}))
	require.NoError(t, bus.Publish(ctx, Message{Topic: "test.failing", Payload: []byte("x")}))

	require.Eventually(t, func() bool { return len(recorder.Ended()) == 2 }, time.Second, 10*time.Millisecond)

	for _, s := range recorder.Ended() {
		if s.Name() == "pubsub.process.test.failing" {
			assert.Equal(t, "handler failed", s.Status().Description)
			return
		}
	}
	t.Fatal("process span not recorded")
}

func TestPayloadPreview(t *testing.T) {
	short := []byte(`{"line":"hi"}`)
	assert.Equal(t, string(short), payloadPreview(short))

	// The limit falls in the middle of the two-byte "é".
	payload := []byte(strings.Repeat("a", payloadPreviewLimit-1) + "é" + "tail")
	preview := payloadPreview(payload)
	assert.True(t, utf8.ValidString(preview))
	assert.Equal(t, strings.Repeat("a", payloadPreviewLimit-1)+"...", preview)
}
