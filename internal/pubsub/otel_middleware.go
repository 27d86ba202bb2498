package pubsub

import (
	"context"
	"fmt"
	"unicode/utf8"

	"github.com/ThreeDotsLabs/watermill/message"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

const payloadPreviewLimit = 100

// GoChannel hands each subscriber a copy of the message without its context,
// so the span context travels in the metadata.
var propagator = propagation.TraceContext{}

func isTraceField(key string) bool {
	for _, f := range propagator.Fields() {
		if f == key {
			return true
		}
	}
	return false
}

func messageAttributes(operation, topic string, msg *message.Message) []attribute.KeyValue {
	preview := payloadPreview(msg.Payload)
	return []attribute.KeyValue{
		attribute.String("messaging.system", "watermill"),
		attribute.String("messaging.operation", operation),
		attribute.String("messaging.destination", topic),
		attribute.String("messaging.message_id", msg.UUID),
		attribute.String("hostkit.actor_id", msg.Metadata.Get(metaKeyActorID)),
		attribute.Int("messaging.message_payload_size_bytes", len(msg.Payload)),
		attribute.String("messaging.message_payload_preview", preview),
	}
}

// payloadPreview cuts the payload at payloadPreviewLimit bytes, backing off to
// a rune boundary so the attribute stays valid UTF-8.
func payloadPreview(payload []byte) string {
	if len(payload) <= payloadPreviewLimit {
		return string(payload)
	}
	cut := payloadPreviewLimit
	for cut > 0 && !utf8.RuneStart(payload[cut]) {
		cut--
	}
	return string(payload[:cut]) + "..."
}

// tracingPublisher wraps a publisher with one span per published message.
type tracingPublisher struct {
	publisher message.Publisher
	tracer    trace.Tracer
}

func newTracingPublisher(publisher message.Publisher, tracer trace.Tracer) *tracingPublisher {
	return &tracingPublisher{
		publisher: publisher,
		tracer:    tracer,
	}
}

// Publish starts the spans, publishes, and ends them once every subscriber
// has acknowledged.
func (p *tracingPublisher) Publish(topic string, messages ...*message.Message) error {
	spans := make([]trace.Span, 0, len(messages))
	for _, msg := range messages {
		ctx, span := p.tracer.Start(msg.Context(), fmt.Sprintf("pubsub.publish.%s", topic),
			trace.WithSpanKind(trace.SpanKindProducer),
			trace.WithAttributes(messageAttributes("publish", topic, msg)...),
		)
		propagator.Inject(ctx, propagation.MapCarrier(msg.Metadata))
		msg.SetContext(ctx)
		spans = append(spans, span)
	}

	err := p.publisher.Publish(topic, messages...)
	for _, span := range spans {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}
	return err
}

func (p *tracingPublisher) Close() error {
	return p.publisher.Close()
}

// traceDelivery runs fn inside a process span parented on the publish span
// carried by msg.
func traceDelivery(ctx context.Context, tracer trace.Tracer, msg *message.Message, fn func(context.Context) error) error {
	topic := msg.Metadata.Get(metaKeyTopic)
	parent := propagator.Extract(ctx, propagation.MapCarrier(msg.Metadata))

	spanCtx, span := tracer.Start(parent, fmt.Sprintf("pubsub.process.%s", topic),
		trace.WithSpanKind(trace.SpanKindConsumer),
		trace.WithAttributes(messageAttributes("process", topic, msg)...),
	)
	defer span.End()

	if err := fn(spanCtx); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	return nil
}
