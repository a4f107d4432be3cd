package observability

import (
	"context"
	"errors"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/attribute"
	otelcodes "go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/tbourn/go-fault-translator/internal/faults"
)

// FaultEventName is the span event recorded for each translated fault.
const FaultEventName = "fault.translated"

// FaultSink is a faults.Sink feeding Prometheus and the request span.
//
// Metrics:
//   - faults_translated_total{kind, code}: one increment per translation.
//
// Tracing: when ctx carries a recording span, an event named
// FaultEventName is added with the kind, rule, code and HTTP status, and
// the fault is recorded on the span. Responses with an HTTP status of 500
// or above also mark the span as failed.
type FaultSink struct {
	translated *prometheus.CounterVec
}

// NewFaultSink creates the collectors and registers them with reg. A
// collector already registered under the same name is reused, so building
// several sinks against one registry is safe.
func NewFaultSink(reg prometheus.Registerer) (*FaultSink, error) {
	cv := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "faults_translated_total",
			Help: "Total number of faults translated into responses.",
		},
		[]string{"kind", "code"},
	)
	if reg != nil {
		if err := reg.Register(cv); err != nil {
			var are prometheus.AlreadyRegisteredError
			if !errors.As(err, &are) {
				return nil, err
			}
			existing, ok := are.ExistingCollector.(*prometheus.CounterVec)
			if !ok {
				return nil, err
			}
			cv = existing
		}
	}
	return &FaultSink{translated: cv}, nil
}

// Report implements faults.Sink.
func (s *FaultSink) Report(ctx context.Context, d faults.Diagnostic) {
	kind := d.Kind.String()
	code := strconv.Itoa(d.Response.Status)
	s.translated.WithLabelValues(kind, code).Inc()

	if ctx == nil {
		return
	}
	span := trace.SpanFromContext(ctx)
	if !span.IsRecording() {
		return
	}
	span.AddEvent(FaultEventName, trace.WithAttributes(
		attribute.String("fault.kind", kind),
		attribute.String("fault.rule", d.Rule),
		attribute.Int("fault.code", d.Response.Status),
		attribute.Int("http.response.status_code", d.Response.StatusCode()),
	))
	if d.Err != nil {
		span.RecordError(d.Err)
	}
	if d.Response.StatusCode() >= 500 {
		span.SetStatus(otelcodes.Error, kind)
	}
}
