package handlers

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-fault-translator/internal/faults"
)

// MethodNotAllowed is the NoMethod handler. It raises an unsupported method
// fault listing the methods registered for the request path, in
// registration order, and keeps the Allow header in sync with that list.
//
// Gin normally fills Allow before NoMethod handlers run; routes is used to
// recompute the list when it did not.
func MethodNotAllowed(routes func() gin.RoutesInfo) gin.HandlerFunc {
	return func(c *gin.Context) {
		allowed := splitAllow(c.Writer.Header().Get("Allow"))
		if len(allowed) == 0 && routes != nil {
			allowed = methodsFor(routes(), c.Request.URL.Path)
		}
		if len(allowed) > 0 {
			c.Header("Allow", strings.Join(allowed, ", "))
		}
		raise(c, faults.MethodNotSupported(c.Request.Method, allowed...))
	}
}

func splitAllow(h string) []string {
	var out []string
	for _, m := range strings.Split(h, ",") {
		if m = strings.TrimSpace(m); m != "" {
			out = append(out, m)
		}
	}
	return out
}

// methodsFor returns the distinct methods whose route template matches path.
func methodsFor(routes gin.RoutesInfo, path string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, r := range routes {
		if seen[r.Method] || !matchTemplate(r.Path, path) {
			continue
		}
		seen[r.Method] = true
		out = append(out, r.Method)
	}
	return out
}

// matchTemplate reports whether path fits a gin route template, where
// ":name" matches one segment and "*name" the remainder.
func matchTemplate(tmpl, path string) bool {
	ts := strings.Split(strings.Trim(tmpl, "/"), "/")
	ps := strings.Split(strings.Trim(path, "/"), "/")
	for i, seg := range ts {
		if strings.HasPrefix(seg, "*") {
			return true
		}
		if i >= len(ps) {
			return false
		}
		if !strings.HasPrefix(seg, ":") && seg != ps[i] {
			return false
		}
	}
	return len(ts) == len(ps)
}
