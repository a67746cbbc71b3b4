// Package errors defines the structured errors raised while building and resolving a
// variables graph. Every error carries a stable Code so callers and tests can match on
// the kind of failure without parsing messages.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Code identifies the kind of a graph error.
type Code string

// Error codes. All of them are fatal to an export run.
const (
	// ErrMalformed is a structural integrity violation in the raw graph.
	ErrMalformed Code = "MALFORMED"
	// ErrCycle is an alias chain that revisits a (variable, mode) pair.
	ErrCycle Code = "CYCLE"
	// ErrDanglingReference is an alias whose target variable does not exist.
	ErrDanglingReference Code = "DANGLING_REFERENCE"
	// ErrMissingValue is a (variable, mode) pair with no value and no usable default-mode fallback.
	ErrMissingValue Code = "MISSING_VALUE"
)

// Error is a structured graph error.
type Error struct {
	Code    Code
	Message string
	// Details holds the ids involved, keyed by role ("collection", "variable", "mode", "target").
	Details map[string]string
	// Chain is the ordered alias chain for ErrCycle, formatted as "variable@mode".
	Chain []string
	// Cause is the broken token this error was inherited from, if any.
	Cause *Error
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Is reports whether target is an *Error with the same code, so that
// errors.Is(err, errors.New(errors.ErrCycle, "")) matches any cycle.
func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return e.Code == t.Code
	}
	return false
}

// Unwrap returns the inherited cause.
func (e *Error) Unwrap() error {
	if e.Cause == nil {
		return nil
	}
	return e.Cause
}

// Names reports whether the error identifies the (variable, mode) pair, either through its
// details or as an element of its cycle chain.
func (e *Error) Names(variableID, modeID string) bool {
	if e.Details["variable"] == variableID {
		if mode, ok := e.Details["mode"]; !ok || mode == modeID {
			return true
		}
	}
	pair := variableID + "@" + modeID
	for _, c := range e.Chain {
		if c == pair {
			return true
		}
	}
	return false
}

// New creates an Error with the given code and message.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message, Details: make(map[string]string)}
}

// Newf creates an Error with a formatted message.
func Newf(code Code, format string, args ...any) *Error {
	return New(code, fmt.Sprintf(format, args...))
}

// WithDetail records an id involved in the error.
func (e *Error) WithDetail(key, value string) *Error {
	if e.Details == nil {
		e.Details = make(map[string]string)
	}
	e.Details[key] = value
	return e
}

// Malformed reports a structural violation. The message should name the offending
// collection, variable or mode id.
func Malformed(format string, args ...any) *Error {
	return Newf(ErrMalformed, format, args...)
}

// Cycle reports an alias chain that revisits its last element.
func Cycle(chain []string) *Error {
	e := Newf(ErrCycle, "alias cycle: %s", strings.Join(chain, " -> "))
	e.Chain = append([]string(nil), chain...)
	return e
}

// DanglingReference reports an alias from source to a variable id that does not exist.
func DanglingReference(sourceID, targetID string) *Error {
	return Newf(ErrDanglingReference, "variable %q aliases unknown variable %q", sourceID, targetID).
		WithDetail("variable", sourceID).
		WithDetail("target", targetID)
}

// MissingValue reports a variable with no value for modeID and none for its default mode.
func MissingValue(variableID, modeID string) *Error {
	return Newf(ErrMissingValue, "variable %q has no value for mode %q nor for its collection's default mode", variableID, modeID).
		WithDetail("variable", variableID).
		WithDetail("mode", modeID)
}

// Via reports a (variable, mode) pair that is broken only because an alias it follows
// leads to the broken token cause. It carries the code of cause.
func Via(variableID, modeID string, cause *Error) *Error {
	e := Newf(cause.Code, "variable %q in mode %q aliases a broken token: %s", variableID, modeID, cause.Message).
		WithDetail("variable", variableID).
		WithDetail("mode", modeID)
	e.Cause = cause
	return e
}

// CodeOf returns the code of the first *Error in err's tree, or "" if there is none.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// List collects every error raised by one pass so a single run reports all broken tokens.
type List []*Error

// Error joins the messages one per line.
func (l List) Error() string {
	switch len(l) {
	case 0:
		return "no errors"
	case 1:
		return l[0].Error()
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%d errors:", len(l))
	for _, e := range l {
		sb.WriteString("\n  ")
		sb.WriteString(e.Error())
	}
	return sb.String()
}

// Unwrap exposes the collected errors to errors.Is and errors.As.
func (l List) Unwrap() []error {
	errs := make([]error, len(l))
	for i, e := range l {
		errs[i] = e
	}
	return errs
}

// Err returns nil for an empty list and the list otherwise.
func (l List) Err() error {
	if len(l) == 0 {
		return nil
	}
	return l
}

// Filter returns the errors carrying the given code.
func (l List) Filter(code Code) List {
	var out List
	for _, e := range l {
		if e.Code == code {
			out = append(out, e)
		}
	}
	return out
}

// AsList extracts the collected errors from err. A single *Error yields a one-element list.
func AsList(err error) List {
	var l List
	if errors.As(err, &l) {
		return l
	}
	var e *Error
	if errors.As(err, &e) {
		return List{e}
	}
	return nil
}
