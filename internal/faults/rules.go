package faults

import (
	"errors"
	"net/http"
	"sort"

	"golang.org/x/text/message"
)

// Rule translates one fault kind.
//
// Match selects the errors the rule applies to; a nil Match accepts every
// error and is only meaningful for the KindUnknown catch-all. Message
// renders the client-visible text. HTTPStatus overrides the transport status
// chosen by the dispatcher; zero keeps the default (200).
type Rule struct {
	Name       string
	Kind       Kind
	Code       int
	HTTPStatus int
	Match      func(error) bool
	Message    func(p *message.Printer, err error) string
}

func (r Rule) matches(err error) bool {
	return r.Match == nil || r.Match(err)
}

func (r Rule) response(p *message.Printer, err error) Response {
	return Response{
		Status:     r.Code,
		Message:    r.Message(p, err),
		HTTPStatus: r.HTTPStatus,
	}
}

var (
	ErrNoFallback    = errors.New("faults: rule table needs a catch-all rule for kind unknown")
	ErrDuplicateKind = errors.New("faults: more than one rule registered for a kind")
	ErrInvalidRule   = errors.New("faults: rule is missing a name or message builder")
)

// Table is an immutable, ordered rule list. Rules for deeper (more specific)
// kinds are evaluated before rules for their ancestors; rules at the same
// depth keep registration order. Resolve always returns a rule.
type Table struct {
	rules    []Rule
	fallback Rule
}

// NewTable validates rules and orders them most specific first.
func NewTable(rules ...Rule) (*Table, error) {
	seen := make(map[Kind]bool, len(rules))
	var (
		fallback    Rule
		hasFallback bool
	)
	ordered := make([]Rule, 0, len(rules))
	for _, r := range rules {
		if r.Name == "" || r.Message == nil {
			return nil, ErrInvalidRule
		}
		if seen[r.Kind] {
			return nil, ErrDuplicateKind
		}
		seen[r.Kind] = true
		if r.Kind == KindUnknown {
			r.Match = nil
			fallback, hasFallback = r, true
			continue
		}
		ordered = append(ordered, r)
	}
	if !hasFallback {
		return nil, ErrNoFallback
	}
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Kind.Depth() > ordered[j].Kind.Depth()
	})
	return &Table{rules: ordered, fallback: fallback}, nil
}

// MustNewTable is NewTable that panics on a malformed rule set. Meant for
// package-level tables built at start-up.
func MustNewTable(rules ...Rule) *Table {
	t, err := NewTable(rules...)
	if err != nil {
		panic(err)
	}
	return t
}

// Resolve returns the most specific rule matching err, falling back to the
// catch-all.
func (t *Table) Resolve(err error) Rule {
	for _, r := range t.rules {
		if r.matches(err) {
			return r
		}
	}
	return t.fallback
}

// Rules returns a copy of the rules in evaluation order, catch-all last.
func (t *Table) Rules() []Rule {
	out := make([]Rule, 0, len(t.rules)+1)
	out = append(out, t.rules...)
	return append(out, t.fallback)
}

// DefaultRules returns the built-in rules, one per Kind.
func DefaultRules() []Rule {
	return []Rule{
		{
			Name: "unknown", Kind: KindUnknown, Code: CodeUnknown,
			Message: func(p *message.Printer, err error) string {
				return p.Sprintf(msgUnknown, describe(err))
			},
		},
		{
			Name: "runtime", Kind: KindRuntime, Code: CodeRuntime,
			Match: IsRuntime,
			Message: func(p *message.Printer, err error) string {
				return p.Sprintf(msgRuntime, describe(err))
			},
		},
		{
			Name: "null_reference", Kind: KindNullReference, Code: CodeNullReference,
			Match: IsNullReference, Message: stringForm,
		},
		{
			Name: "invalid_cast", Kind: KindInvalidCast, Code: CodeInvalidCast,
			Match: IsInvalidCast, Message: stringForm,
		},
		{
			Name: "io", Kind: KindIO, Code: CodeIO,
			Match: IsIO, Message: stringForm,
		},
		{
			Name: "out_of_range", Kind: KindOutOfRange, Code: CodeOutOfRange,
			HTTPStatus: http.StatusInternalServerError,
			Match:      IsOutOfRange, Message: stringForm,
		},
		{
			Name: "argument_type_mismatch", Kind: KindArgumentTypeMismatch, Code: CodeArgumentTypeMismatch,
			Match: IsTypeMismatch,
			Message: func(p *message.Printer, err error) string {
				var te *TypeMismatchError
				errors.As(err, &te)
				return p.Sprintf(msgTypeMismatch, te.Name, te.RequiredType)
			},
		},
		{
			Name: "missing_parameter", Kind: KindMissingParameter, Code: CodeMissingParameter,
			Match: IsMissingParameter,
			Message: func(p *message.Printer, err error) string {
				var me *MissingParameterError
				errors.As(err, &me)
				return p.Sprintf(msgMissingParam, me.Name)
			},
		},
		{
			Name: "unsupported_method", Kind: KindUnsupportedMethod, Code: CodeUnsupportedMethod,
			Match: IsMethodNotSupported,
			Message: func(p *message.Printer, err error) string {
				var me *MethodNotSupportedError
				errors.As(err, &me)
				return p.Sprintf(msgUnsupported, me.Method, joinMethods(me.Supported))
			},
		},
	}
}

var defaultTable = MustNewTable(DefaultRules()...)

// DefaultTable returns the shared table built from DefaultRules.
func DefaultTable() *Table { return defaultTable }

func stringForm(_ *message.Printer, err error) string { return describe(err) }

func describe(err error) string {
	if err == nil {
		return "<nil>"
	}
	return err.Error()
}
