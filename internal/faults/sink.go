package faults

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// Diagnostic is what a Sink receives for every translated fault.
type Diagnostic struct {
	Kind     Kind
	Rule     string
	Err      error
	Response Response
	Stack    []byte
	Request  RequestInfo
	At       time.Time
}

// Sink receives diagnostics. Implementations must be safe for concurrent
// use and must not block the calling request.
type Sink interface {
	Report(ctx context.Context, d Diagnostic)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(ctx context.Context, d Diagnostic)

func (f SinkFunc) Report(ctx context.Context, d Diagnostic) { f(ctx, d) }

// Nop returns a Sink that discards everything.
func Nop() Sink { return SinkFunc(func(context.Context, Diagnostic) {}) }

// Multi fans each diagnostic out to every non-nil sink in order.
func Multi(sinks ...Sink) Sink {
	out := make([]Sink, 0, len(sinks))
	for _, s := range sinks {
		if s != nil {
			out = append(out, s)
		}
	}
	return SinkFunc(func(ctx context.Context, d Diagnostic) {
		for _, s := range out {
			s.Report(ctx, d)
		}
	})
}

// LogSink writes diagnostics through zerolog. The request-scoped logger in
// ctx (see zerolog.Ctx) is preferred over Logger.
type LogSink struct {
	Logger zerolog.Logger
	// Stacks includes the stack trace in the log event.
	Stacks bool
}

// NewLogSink returns a LogSink writing to l.
func NewLogSink(l zerolog.Logger, stacks bool) *LogSink {
	return &LogSink{Logger: l, Stacks: stacks}
}

func (s *LogSink) Report(ctx context.Context, d Diagnostic) {
	lg := &s.Logger
	if ctx != nil {
		if cl := zerolog.Ctx(ctx); cl.GetLevel() != zerolog.Disabled {
			lg = cl
		}
	}
	ev := lg.Error().
		Str("kind", d.Kind.String()).
		Str("rule", d.Rule).
		Int("code", d.Response.Status).
		Int("http_status", d.Response.StatusCode()).
		AnErr("fault", d.Err)
	if d.Request.ID != "" {
		ev = ev.Str("request_id", d.Request.ID)
	}
	if s.Stacks && len(d.Stack) > 0 {
		ev = ev.Bytes("stack", d.Stack)
	}
	ev.Msg("fault translated")
}

// RequestInfo identifies the request a fault was raised in.
type RequestInfo struct {
	ID       string
	Method   string
	Path     string
	ClientIP string
}

type requestKey struct{}

// WithRequest stores info in ctx for sinks to read.
func WithRequest(ctx context.Context, info RequestInfo) context.Context {
	return context.WithValue(ctx, requestKey{}, info)
}

// RequestFrom returns the RequestInfo stored by WithRequest.
func RequestFrom(ctx context.Context) RequestInfo {
	if ctx == nil {
		return RequestInfo{}
	}
	info, _ := ctx.Value(requestKey{}).(RequestInfo)
	return info
}
