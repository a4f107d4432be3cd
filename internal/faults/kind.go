// Package faults translates errors raised while serving a request into the
// uniform {status, message} response body returned to clients.
//
// The package is organised around three pieces:
//
//   - Kind: the fault taxonomy (unknown, runtime, null reference, invalid
//     cast, I/O, out of range, argument type mismatch, missing parameter,
//     unsupported method) arranged in a specificity hierarchy.
//   - Table: an immutable, ordered list of rules. Each rule pairs a
//     predicate over an error with a function that builds the Response.
//     Rules are evaluated deepest kind first so the most specific rule wins.
//   - Translator: looks up the rule for an error, builds the Response and
//     reports the fault (with its stack trace) to an injected Sink.
//
// A Translator holds no mutable state and is safe for concurrent use.
package faults

import "strconv"

// Kind discriminates the registered fault kinds.
type Kind uint8

const (
	KindUnknown Kind = iota
	KindRuntime
	KindNullReference
	KindInvalidCast
	KindIO
	KindOutOfRange
	KindArgumentTypeMismatch
	KindMissingParameter
	KindUnsupportedMethod
)

var kindNames = [...]string{
	KindUnknown:              "unknown",
	KindRuntime:              "runtime",
	KindNullReference:        "null_reference",
	KindInvalidCast:          "invalid_cast",
	KindIO:                   "io",
	KindOutOfRange:           "out_of_range",
	KindArgumentTypeMismatch: "argument_type_mismatch",
	KindMissingParameter:     "missing_parameter",
	KindUnsupportedMethod:    "unsupported_method",
}

// String returns the stable snake_case name used in logs, metrics and the
// incident journal.
func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "kind(" + strconv.Itoa(int(k)) + ")"
}

// ParseKind is the inverse of String.
func ParseKind(s string) (Kind, bool) {
	for i, n := range kindNames {
		if n == s {
			return Kind(i), true
		}
	}
	return KindUnknown, false
}

// Kinds returns every registered kind in declaration order.
func Kinds() []Kind {
	out := make([]Kind, len(kindNames))
	for i := range kindNames {
		out[i] = Kind(i)
	}
	return out
}

// Parent returns the next broader kind. KindUnknown is the root and is its
// own parent.
func (k Kind) Parent() Kind {
	switch k {
	case KindNullReference, KindInvalidCast, KindOutOfRange, KindArgumentTypeMismatch:
		return KindRuntime
	default:
		return KindUnknown
	}
}

// Depth is the distance from KindUnknown. Deeper kinds are more specific.
func (k Kind) Depth() int {
	d := 0
	for k != KindUnknown {
		k = k.Parent()
		d++
	}
	return d
}

// IsA reports whether k equals ancestor or descends from it.
func (k Kind) IsA(ancestor Kind) bool {
	for {
		if k == ancestor {
			return true
		}
		if k == KindUnknown {
			return false
		}
		k = k.Parent()
	}
}
