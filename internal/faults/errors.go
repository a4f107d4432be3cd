package faults

import (
	"bytes"
	"errors"
	"fmt"
	"runtime"
	"strconv"
	"strings"
)

// StackTracer is implemented by errors that remember where they were raised.
type StackTracer interface {
	StackTrace() []byte
}

// trace is embedded in every fault type. Either pcs (captured at
// construction) or raw (captured by a panic handler) is set.
type trace struct {
	pcs []uintptr
	raw []byte
}

func capture(skip int) trace {
	var pcs [32]uintptr
	n := runtime.Callers(skip+2, pcs[:])
	return trace{pcs: pcs[:n]}
}

// StackTrace renders the captured frames in the same layout as
// runtime/debug.Stack.
func (t trace) StackTrace() []byte {
	if t.raw != nil {
		return t.raw
	}
	if len(t.pcs) == 0 {
		return nil
	}
	var b bytes.Buffer
	frames := runtime.CallersFrames(t.pcs)
	for {
		f, more := frames.Next()
		fmt.Fprintf(&b, "%s\n\t%s:%d\n", f.Function, f.File, f.Line)
		if !more {
			break
		}
	}
	return b.Bytes()
}

// StackOf returns the stack attached to err or anything it wraps, or nil.
func StackOf(err error) []byte {
	var st StackTracer
	if errors.As(err, &st) {
		return st.StackTrace()
	}
	return nil
}

// RuntimeError is a generic failure detected while executing handler code.
// Recovered panics whose value is not an error are reported as RuntimeError.
type RuntimeError struct {
	trace
	Detail string
	Value  any
	Err    error
}

// NewRuntime returns a RuntimeError with the given detail.
func NewRuntime(detail string) *RuntimeError {
	return &RuntimeError{trace: capture(1), Detail: detail}
}

func (e *RuntimeError) Error() string {
	switch {
	case e.Err != nil:
		return e.Err.Error()
	case e.Detail != "":
		return e.Detail
	case e.Value != nil:
		return fmt.Sprint(e.Value)
	}
	return "runtime error"
}

func (e *RuntimeError) Unwrap() error { return e.Err }

// NullReferenceError reports use of a nil value where one was required.
type NullReferenceError struct {
	trace
	Detail string
}

// NullReference returns a NullReferenceError. detail may be empty.
func NullReference(detail string) *NullReferenceError {
	return &NullReferenceError{trace: capture(1), Detail: detail}
}

func (e *NullReferenceError) Error() string {
	if e.Detail == "" {
		return "nil reference"
	}
	return "nil reference: " + e.Detail
}

// InvalidCastError reports a value that could not be converted to the
// requested type.
type InvalidCastError struct {
	trace
	From string
	To   string
}

// InvalidCast returns an InvalidCastError for a conversion from one type
// name to another.
func InvalidCast(from, to string) *InvalidCastError {
	return &InvalidCastError{trace: capture(1), From: from, To: to}
}

func (e *InvalidCastError) Error() string {
	return "invalid cast: " + e.From + " cannot be converted to " + e.To
}

// OutOfRangeError reports an index outside the bounds of a sequence.
type OutOfRangeError struct {
	trace
	Index  int
	Length int
}

// OutOfRange returns an OutOfRangeError for index against a sequence of the
// given length.
func OutOfRange(index, length int) *OutOfRangeError {
	return &OutOfRangeError{trace: capture(1), Index: index, Length: length}
}

func (e *OutOfRangeError) Error() string {
	return "index out of range [" + strconv.Itoa(e.Index) + "] with length " + strconv.Itoa(e.Length)
}

// IOError wraps a failed read, write or network operation.
type IOError struct {
	trace
	Op  string
	Err error
}

// WrapIO annotates err as an I/O failure of op. A nil err yields nil.
func WrapIO(op string, err error) error {
	if err == nil {
		return nil
	}
	return &IOError{trace: capture(1), Op: op, Err: err}
}

func (e *IOError) Error() string {
	if e.Op == "" {
		return e.Err.Error()
	}
	return e.Op + ": " + e.Err.Error()
}

func (e *IOError) Unwrap() error { return e.Err }

// TypeMismatchError reports a request parameter whose value could not be
// converted to the handler's expected type.
type TypeMismatchError struct {
	trace
	Name         string
	RequiredType string
	Value        string
	Err          error
}

// TypeMismatch returns a TypeMismatchError for parameter name.
func TypeMismatch(name, requiredType, value string, cause error) *TypeMismatchError {
	return &TypeMismatchError{trace: capture(1), Name: name, RequiredType: requiredType, Value: value, Err: cause}
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("failed to convert value %q of parameter %q to required type %s", e.Value, e.Name, e.RequiredType)
}

func (e *TypeMismatchError) Unwrap() error { return e.Err }

// MissingParameterError reports a required request parameter that was not
// supplied.
type MissingParameterError struct {
	trace
	Name string
	Type string
}

// MissingParameter returns a MissingParameterError for parameter name of
// the given type.
func MissingParameter(name, typ string) *MissingParameterError {
	return &MissingParameterError{trace: capture(1), Name: name, Type: typ}
}

func (e *MissingParameterError) Error() string {
	if e.Type == "" {
		return "required parameter '" + e.Name + "' is not present"
	}
	return "required " + e.Type + " parameter '" + e.Name + "' is not present"
}

// MethodNotSupportedError reports a request whose HTTP method is not
// registered for the target path. Supported keeps the order it was given in.
type MethodNotSupportedError struct {
	trace
	Method    string
	Supported []string
}

// MethodNotSupported returns a MethodNotSupportedError. The supported slice
// is copied.
func MethodNotSupported(method string, supported ...string) *MethodNotSupportedError {
	return &MethodNotSupportedError{
		trace:     capture(1),
		Method:    method,
		Supported: append([]string(nil), supported...),
	}
}

func (e *MethodNotSupportedError) Error() string {
	return "request method '" + e.Method + "' is not supported"
}

// withStack attaches a stack to an error that has none.
type withStack struct {
	trace
	err error
}

func (w *withStack) Error() string { return w.err.Error() }
func (w *withStack) Unwrap() error { return w.err }

// WithStack returns err annotated with the caller's stack. Errors that
// already carry a stack, and nil, are returned unchanged.
func WithStack(err error) error {
	if err == nil {
		return nil
	}
	if len(StackOf(err)) > 0 {
		return err
	}
	return &withStack{trace: capture(1), err: err}
}

// FromPanic converts a value recovered from a panic into an error carrying
// the stack captured by the recovering function. Error values keep their
// identity so the rule table can classify them (runtime.Error values for
// nil dereferences, failed type assertions and bad indexes included);
// anything else becomes a RuntimeError.
func FromPanic(rec any, stack []byte) error {
	if err, ok := rec.(error); ok {
		return &withStack{trace: trace{raw: stack}, err: err}
	}
	return &RuntimeError{trace: trace{raw: stack}, Value: rec}
}

func joinMethods(methods []string) string {
	return strings.Join(methods, ",")
}
