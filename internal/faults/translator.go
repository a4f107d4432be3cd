package faults

import (
	"context"
	"net/http"
	"runtime/debug"
	"time"

	"golang.org/x/text/language"
)

// Response is the body returned to clients for a translated fault.
//
// Status is the application status code (see codes.go). HTTPStatus is for
// the dispatcher only: zero means the default 200.
type Response struct {
	Status     int    `json:"status" example:"1006"`
	Message    string `json:"message" example:"参数类型不匹配，参数page类型必须为integer"`
	HTTPStatus int    `json:"-"`
}

// StatusCode returns the HTTP status the dispatcher should write.
func (r Response) StatusCode() int {
	if r.HTTPStatus == 0 {
		return http.StatusOK
	}
	return r.HTTPStatus
}

// Translator turns faults into Responses and reports each one to a Sink.
// It has no mutable state.
type Translator struct {
	table  *Table
	sink   Sink
	locale language.Tag
	now    func() time.Time
}

// Option configures a Translator.
type Option func(*Translator)

// WithTable replaces DefaultTable.
func WithTable(t *Table) Option {
	return func(tr *Translator) {
		if t != nil {
			tr.table = t
		}
	}
}

// WithSink sets the diagnostic sink. The default discards reports.
func WithSink(s Sink) Option {
	return func(tr *Translator) {
		if s != nil {
			tr.sink = s
		}
	}
}

// WithDefaultLocale sets the locale used when the request context carries
// none.
func WithDefaultLocale(tag language.Tag) Option {
	return func(tr *Translator) { tr.locale = tag }
}

// NewTranslator builds a Translator over DefaultTable unless overridden.
func NewTranslator(opts ...Option) *Translator {
	tr := &Translator{
		table:  DefaultTable(),
		sink:   Nop(),
		locale: DefaultLocale,
		now:    time.Now,
	}
	for _, o := range opts {
		o(tr)
	}
	return tr
}

// Table exposes the rule table in effect.
func (t *Translator) Table() *Table { return t.table }

// Locale is the locale used when the request context carries none.
func (t *Translator) Locale() language.Tag { return t.locale }

// Translate resolves the rule for err, builds its Response and reports the
// fault with its stack trace. It never fails; errors no specific rule
// recognises get the catch-all translation.
func (t *Translator) Translate(ctx context.Context, err error) Response {
	rule := t.table.Resolve(err)
	resp := rule.response(printer(LocaleFrom(ctx, t.locale)), err)

	stack := StackOf(err)
	if stack == nil {
		stack = debug.Stack()
	}
	t.sink.Report(ctx, Diagnostic{
		Kind:     rule.Kind,
		Rule:     rule.Name,
		Err:      err,
		Response: resp,
		Stack:    stack,
		Request:  RequestFrom(ctx),
		At:       t.now().UTC(),
	})
	return resp
}
