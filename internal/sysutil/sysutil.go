// Package sysutil holds small process-level helpers shared by config and
// the server entrypoint.
package sysutil

import (
	"strings"

	"github.com/rs/zerolog"
)

// SetLogLevel sets the global zerolog level from a config string and
// returns the level applied. Unknown or empty values mean info.
func SetLogLevel(lvl string) zerolog.Level {
	level := zerolog.InfoLevel
	switch normalize(lvl) {
	case "debug":
		level = zerolog.DebugLevel
	case "warn", "warning":
		level = zerolog.WarnLevel
	case "error":
		level = zerolog.ErrorLevel
	case "fatal":
		level = zerolog.FatalLevel
	case "panic":
		level = zerolog.PanicLevel
	}
	zerolog.SetGlobalLevel(level)
	return level
}

// IsTruthy reports whether v spells true: "1", "true", "yes", "y" or "on".
func IsTruthy(v string) bool {
	switch normalize(v) {
	case "1", "true", "yes", "y", "on":
		return true
	}
	return false
}

// IsFalsy reports whether v spells false: "0", "false", "no", "n" or "off".
// Values that are neither truthy nor falsy leave the caller's default.
func IsFalsy(v string) bool {
	switch normalize(v) {
	case "0", "false", "no", "n", "off":
		return true
	}
	return false
}

// FirstNonEmpty returns the first value that is not blank, or "".
func FirstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

func normalize(s string) string { return strings.ToLower(strings.TrimSpace(s)) }
