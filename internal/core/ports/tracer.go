package ports

import (
	"context"
	"io"
)

// SpanConfig carries the options applied to a single Start call.
type SpanConfig struct{}

// SpanOption configures a SpanConfig.
type SpanOption func(*SpanConfig)

// Span is one lifecycle event stream for a TaskRun; it doubles as an io.Writer
// so task stdout/stderr can be streamed directly into the trace as log events.
type Span interface {
	io.Writer

	End()
	RecordError(err error)
	SetAttribute(key string, value any)
}

// Tracer starts Spans and is the adapter-facing half of the TraceObserver
// fan-out described in §2's system diagram.
//
//go:generate mockgen -source=tracer.go -destination=mocks/mock_tracer.go -package=mocks
type Tracer interface {
	Start(ctx context.Context, name string, opts ...SpanOption) (context.Context, Span)
	EmitPlan(ctx context.Context, processNames []string)
	Shutdown(ctx context.Context) error
}
