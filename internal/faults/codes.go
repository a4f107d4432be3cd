package faults

// Application status codes written to Response.Status. They are part of the
// public contract: clients branch on them, so values never change.
const (
	CodeUnknown              = 1000
	CodeRuntime              = 1001
	CodeNullReference        = 1002
	CodeInvalidCast          = 1003
	CodeIO                   = 1004
	CodeOutOfRange           = 1005
	CodeArgumentTypeMismatch = 1006
	CodeMissingParameter     = 1007
	CodeUnsupportedMethod    = 1008
)

// CodeOf returns the status code registered for kind.
func CodeOf(k Kind) int {
	switch k {
	case KindRuntime:
		return CodeRuntime
	case KindNullReference:
		return CodeNullReference
	case KindInvalidCast:
		return CodeInvalidCast
	case KindIO:
		return CodeIO
	case KindOutOfRange:
		return CodeOutOfRange
	case KindArgumentTypeMismatch:
		return CodeArgumentTypeMismatch
	case KindMissingParameter:
		return CodeMissingParameter
	case KindUnsupportedMethod:
		return CodeUnsupportedMethod
	default:
		return CodeUnknown
	}
}
