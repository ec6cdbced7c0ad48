package telemetry

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"github.com/shihabhasan/nextflow/internal/core/ports"
)

// OTelTracer is a concrete implementation of ports.Tracer using OpenTelemetry,
// bridged directly to a ports.Renderer so every span's log writes surface as
// TraceObserver events (§2) without an intermediate UI program loop.
type OTelTracer struct {
	tracer   trace.Tracer
	renderer ports.Renderer
}

// NewOTelTracer creates a new OTelTracer with the given instrumentation name.
func NewOTelTracer(name string) *OTelTracer {
	return &OTelTracer{tracer: otel.Tracer(name)}
}

// WithRenderer attaches the renderer that spans stream their lifecycle and
// log events to.
func (t *OTelTracer) WithRenderer(r ports.Renderer) *OTelTracer {
	t.renderer = r
	return t
}

// Shutdown is a no-op; span lifecycle is driven synchronously through the
// renderer, so there is no background loop to drain.
func (t *OTelTracer) Shutdown(_ context.Context) error {
	return nil
}

// Start creates a new span and its renderer-facing counterpart.
func (t *OTelTracer) Start(ctx context.Context, name string, opts ...ports.SpanOption) (context.Context, ports.Span) {
	cfg := &ports.SpanConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	var parentID string
	if parent := trace.SpanContextFromContext(ctx); parent.IsValid() {
		parentID = parent.SpanID().String()
	}

	ctx, span := t.tracer.Start(ctx, name)

	out := &OTelSpan{span: span, renderer: t.renderer}
	if t.renderer != nil {
		out.spanID = span.SpanContext().SpanID().String()
		t.renderer.OnTaskStart(out.spanID, parentID, name, time.Now())
	}
	return ctx, out
}

// EmitPlan signals that a set of processes is planned for execution, both as
// an OTel event on the current span and as a renderer plan notification.
func (t *OTelTracer) EmitPlan(ctx context.Context, processNames []string) {
	span := trace.SpanFromContext(ctx)
	if span.IsRecording() {
		span.AddEvent("plan_emitted", trace.WithAttributes(
			attribute.StringSlice("processes", processNames),
		))
	}
	if t.renderer != nil {
		t.renderer.OnPlanEmit(processNames, nil, processNames)
	}
}

// OTelSpan is a concrete implementation of ports.Span using OpenTelemetry,
// forwarding stdout/stderr writes and completion straight to the renderer.
type OTelSpan struct {
	span     trace.Span
	renderer ports.Renderer
	spanID   string
	lastErr  error
}

// End completes the span and notifies the renderer.
func (s *OTelSpan) End() {
	s.span.End()
	if s.renderer != nil {
		s.renderer.OnTaskComplete(s.spanID, time.Now(), s.lastErr)
	}
}

// RecordError records an error for the span so End() can report it to the renderer.
func (s *OTelSpan) RecordError(err error) {
	s.lastErr = err
	s.span.RecordError(err)
	s.span.SetStatus(codes.Error, err.Error())
}

// SetAttribute adds a key-value pair to the span.
func (s *OTelSpan) SetAttribute(key string, value any) {
	switch v := value.(type) {
	case string:
		s.span.SetAttributes(attribute.String(key, v))
	case int:
		s.span.SetAttributes(attribute.Int(key, v))
	case int64:
		s.span.SetAttributes(attribute.Int64(key, v))
	case float64:
		s.span.SetAttributes(attribute.Float64(key, v))
	case bool:
		s.span.SetAttributes(attribute.Bool(key, v))
	case []string:
		s.span.SetAttributes(attribute.StringSlice(key, v))
	default:
		s.span.SetAttributes(attribute.String(key, fmt.Sprintf("%v", v)))
	}
}

// Write satisfies io.Writer: task stdout/stderr is streamed as a span event
// and, when a renderer is attached, forwarded for live display.
func (s *OTelSpan) Write(p []byte) (n int, err error) {
	s.span.AddEvent("log", trace.WithAttributes(attribute.String("message", string(p))))
	if s.renderer != nil {
		s.renderer.OnTaskLog(s.spanID, p)
	}
	return len(p), nil
}
