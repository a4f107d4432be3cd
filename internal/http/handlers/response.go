// Package handlers provides the HTTP handlers of the fault translator.
//
// This file defines the response helpers shared by every endpoint. Failures
// that are not faults (unknown route, missing incident, rate limiting) use
// the same envelope as translated faults, with the HTTP status as the
// status value:
//
//	HTTP/1.1 404 Not Found
//	{"status": 404, "message": "incident not found"}
//
// Faults are not written here: handlers record them with c.Error and the
// dispatcher middleware translates them.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-fault-translator/internal/faults"
	"github.com/tbourn/go-fault-translator/internal/http/middleware"
)

// fail aborts with the envelope {status, message}. 5xx responses are
// logged with the request-scoped logger.
func fail(c *gin.Context, status int, msg string) {
	if status >= http.StatusInternalServerError {
		middleware.LoggerFrom(c).Error().
			Int("status", status).
			Str("message", msg).
			Msg("api error")
	}
	c.AbortWithStatusJSON(status, faults.Response{Status: status, Message: msg})
}

// Fail is the exported variant of fail for router-level fallbacks.
func Fail(c *gin.Context, status int, msg string) { fail(c, status, msg) }

// raise records err for the dispatcher and stops the handler chain.
func raise(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}

func ok(c *gin.Context, body any) {
	c.JSON(http.StatusOK, body)
}
