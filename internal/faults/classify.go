package faults

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"net"
	"net/http"
	"os"
	"runtime"
	"strings"
)

// Predicates used by the default rule table. Each one recognises both the
// fault types declared in this package and the equivalent errors produced
// by the Go runtime and standard library.

// IsRuntime reports whether err is a runtime fault of any flavour.
func IsRuntime(err error) bool {
	var re *RuntimeError
	if errors.As(err, &re) {
		return true
	}
	var rte runtime.Error
	return errors.As(err, &rte)
}

// IsNullReference reports whether err is a nil dereference.
func IsNullReference(err error) bool {
	var ne *NullReferenceError
	if errors.As(err, &ne) {
		return true
	}
	return runtimeErrorContains(err, "nil pointer dereference", "nil map")
}

// IsInvalidCast reports whether err is a failed conversion or type
// assertion.
func IsInvalidCast(err error) bool {
	var ce *InvalidCastError
	if errors.As(err, &ce) {
		return true
	}
	var tae *runtime.TypeAssertionError
	return errors.As(err, &tae)
}

// IsOutOfRange reports whether err is an index or slice bounds violation.
func IsOutOfRange(err error) bool {
	var oe *OutOfRangeError
	if errors.As(err, &oe) {
		return true
	}
	return runtimeErrorContains(err, "out of range")
}

// IsIO reports whether err originates from file, stream or network I/O.
func IsIO(err error) bool {
	var (
		ioe  *IOError
		pe   *fs.PathError
		le   *os.LinkError
		se   *os.SyscallError
		mbe  *http.MaxBytesError
		nerr net.Error
	)
	switch {
	case errors.As(err, &ioe),
		errors.As(err, &pe),
		errors.As(err, &le),
		errors.As(err, &se),
		errors.As(err, &mbe):
		return true
	case isContextErr(err):
		// context.DeadlineExceeded satisfies net.Error; expired or
		// cancelled contexts are not I/O faults.
		return false
	case errors.As(err, &nerr):
		return true
	}
	return errors.Is(err, io.EOF) ||
		errors.Is(err, io.ErrUnexpectedEOF) ||
		errors.Is(err, io.ErrClosedPipe) ||
		errors.Is(err, io.ErrShortWrite) ||
		errors.Is(err, fs.ErrClosed)
}

// IsTypeMismatch reports whether err is a parameter conversion failure.
func IsTypeMismatch(err error) bool {
	var te *TypeMismatchError
	return errors.As(err, &te)
}

// IsMissingParameter reports whether err is a missing required parameter.
func IsMissingParameter(err error) bool {
	var me *MissingParameterError
	return errors.As(err, &me)
}

// IsMethodNotSupported reports whether err is an unsupported HTTP method.
func IsMethodNotSupported(err error) bool {
	var me *MethodNotSupportedError
	return errors.As(err, &me)
}

func runtimeErrorContains(err error, needles ...string) bool {
	var rte runtime.Error
	if !errors.As(err, &rte) {
		return false
	}
	msg := rte.Error()
	for _, n := range needles {
		if strings.Contains(msg, n) {
			return true
		}
	}
	return false
}

func isContextErr(err error) bool {
	return errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled)
}
