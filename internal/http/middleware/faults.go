package middleware

import (
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-fault-translator/internal/faults"
)

// DispatchOptions configures Dispatch.
type DispatchOptions struct {
	// NegotiateLocale picks the message locale from Accept-Language. When
	// false every response uses the translator's default locale.
	NegotiateLocale bool
}

// Dispatch is the fault dispatcher. Before the handler runs it stores the
// request info (and, when negotiating, the locale) in the request context.
// After the handler it translates the last error recorded with c.Error
// into the {status, message} envelope, unless a response was already
// written.
//
// Handlers raise faults like this:
//
//	if err != nil {
//	    _ = c.Error(err)
//	    return
//	}
func Dispatch(tr *faults.Translator, opt DispatchOptions) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := faults.WithRequest(c.Request.Context(), faults.RequestInfo{
			ID:       RequestIDFrom(c),
			Method:   c.Request.Method,
			Path:     c.Request.URL.Path,
			ClientIP: c.ClientIP(),
		})
		if opt.NegotiateLocale {
			ctx = faults.WithLocale(ctx, faults.MatchLocale(c.GetHeader("Accept-Language"), tr.Locale()))
		}
		c.Request = c.Request.WithContext(ctx)

		c.Next()

		if c.Writer.Written() || len(c.Errors) == 0 {
			return
		}
		WriteFault(c, tr, c.Errors.Last().Err)
	}
}

// WriteFault translates err and aborts with the resulting envelope.
func WriteFault(c *gin.Context, tr *faults.Translator, err error) {
	resp := tr.Translate(c.Request.Context(), err)
	c.AbortWithStatusJSON(resp.StatusCode(), resp)
}

// Recovery turns panics into faults. Runtime panics (nil dereference,
// failed type assertion, index out of range) keep their specific kinds;
// other panic values become runtime faults. If the handler already started
// writing, the fault is still reported but nothing more is written.
//
// The fault is recorded with c.Error so outer middleware (access log,
// metrics) sees it. Mount Recovery inside them: a panic unwinds through
// every handler between the panic site and Recovery.
func Recovery(tr *faults.Translator) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			err := faults.FromPanic(rec, debug.Stack())
			_ = c.Error(err)
			if c.Writer.Written() {
				tr.Translate(c.Request.Context(), err)
				c.Abort()
				return
			}
			WriteFault(c, tr, err)
		}()
		c.Next()
	}
}
