package output

import (
	"context"
	"strconv"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

// NewLocalTracerProvider builds a TracerProvider with no exporter
// attached, for embedders who want NewOtelTracer's span bookkeeping
// (parent/child timing, status codes) without shipping spans anywhere —
// useful in tests and local runs before an OTLP collector is wired up.
// otel.SetTracerProvider must be called with the result before
// NewOtelTracer so otel.Tracer resolves to it.
func NewLocalTracerProvider() *sdktrace.TracerProvider {
	return sdktrace.NewTracerProvider(sdktrace.WithSampler(sdktrace.AlwaysSample()))
}

// OtelTracer implements Tracer on top of go.opentelemetry.io/otel, giving
// callers a drop-in exporter path for the write path's lifecycle events.
// It opens one span per connection-write (ConnectionWrite) and ends it on
// the matching callback (ConnectionWriteCallback), the way a
// request/response pair is modeled elsewhere in this corpus.
type OtelTracer struct {
	tracer trace.Tracer

	mu    sync.Mutex
	spans map[uint64]trace.Span
}

// NewOtelTracer returns a Tracer backed by otel.Tracer(name).
func NewOtelTracer(name string) *OtelTracer {
	return &OtelTracer{
		tracer: otel.Tracer(name),
		spans:  make(map[uint64]trace.Span),
	}
}

var _ Tracer = (*OtelTracer)(nil)

func (t *OtelTracer) ConnectionWrite(id uint64, n int) {
	_, span := t.tracer.Start(context.Background(), "socket.write",
		trace.WithAttributes(
			attribute.String("conn.id", strconv.FormatUint(id, 10)),
			attribute.Int("write.bytes", n),
		),
	)
	t.mu.Lock()
	t.spans[id] = span
	t.mu.Unlock()
}

func (t *OtelTracer) ConnectionWriteCallback(id uint64, status Status) {
	t.mu.Lock()
	span, ok := t.spans[id]
	delete(t.spans, id)
	t.mu.Unlock()
	if !ok {
		return
	}
	if status == StatusErr {
		span.SetStatus(codes.Error, "write failed")
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}

func (t *OtelTracer) ConnectionWroteFin(id uint64, status Status) {
	_, span := t.tracer.Start(context.Background(), "socket.shutdown_send",
		trace.WithAttributes(attribute.String("conn.id", strconv.FormatUint(id, 10))),
	)
	if status == StatusErr {
		span.SetStatus(codes.Error, "shutdown failed")
	}
	span.End()
}

func (t *OtelTracer) ConnectionStop(id uint64) {
	_, span := t.tracer.Start(context.Background(), "socket.stop",
		trace.WithAttributes(attribute.String("conn.id", strconv.FormatUint(id, 10))),
	)
	span.End()
}
