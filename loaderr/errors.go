package loaderr

import (
	"errors"
	"fmt"
	"strings"

	"crownbind/crown"
)

// Kind tags the class of a structured error.
type Kind string

const (
	KindType          Kind = "type"
	KindExcludedType  Kind = "excluded_type"
	KindExtraFields   Kind = "extra_fields"
	KindExtraItems    Kind = "extra_items"
	KindNoFields      Kind = "no_required_fields"
	KindNoItems       Kind = "no_required_items"
	KindValue         Kind = "value"
	KindValidation    Kind = "validation"
	KindAggregate     Kind = "aggregate"
	KindUnexpected    Kind = "unexpected"
	KindDump          Kind = "dump"
	KindUnknownSource Kind = "unknown_source"
)

// Error is implemented by every error of this package.
type Error interface {
	error
	Kind() Kind
	Trail() crown.Path
}

// Base carries the trail shared by all errors.
type Base struct {
	Path crown.Path
}

// Trail returns the external path of the failure.
func (b Base) Trail() crown.Path { return b.Path }

func (b Base) format(msg string) string {
	if len(b.Path) == 0 {
		return msg
	}

	return "at " + b.Path.String() + ": " + msg
}

// TypeLoadError reports a value of the wrong kind, e.g. a list where a
// mapping is expected.
type TypeLoadError struct {
	Base
	Expected string
	Input    any
}

func (e *TypeLoadError) Kind() Kind { return KindType }

func (e *TypeLoadError) Error() string {
	return e.format(fmt.Sprintf("expected %s, got %s", e.Expected, Render(e.Input)))
}

// ExcludedTypeLoadError reports a value whose kind would be accepted but is
// ruled out explicitly, e.g. a string used as a sequence in strict mode.
type ExcludedTypeLoadError struct {
	Base
	Expected string
	Excluded string
	Input    any
}

func (e *ExcludedTypeLoadError) Kind() Kind { return KindExcludedType }

func (e *ExcludedTypeLoadError) Error() string {
	return e.format(fmt.Sprintf("expected %s, %s is not allowed, got %s", e.Expected, e.Excluded, Render(e.Input)))
}

// ExtraFieldsError lists mapping keys that no field claims under the
// Forbid policy.
type ExtraFieldsError struct {
	Base
	Fields []string
	Input  any
}

func (e *ExtraFieldsError) Kind() Kind { return KindExtraFields }

func (e *ExtraFieldsError) Error() string {
	return e.format("unexpected fields " + quoteAll(e.Fields))
}

// ExtraItemsError reports a sequence longer than MaxLen under the Forbid
// policy.
type ExtraItemsError struct {
	Base
	MaxLen int
	Input  any
}

func (e *ExtraItemsError) Kind() Kind { return KindExtraItems }

func (e *ExtraItemsError) Error() string {
	return e.format(fmt.Sprintf("expected at most %d items, got %s", e.MaxLen, Render(e.Input)))
}

// NoRequiredFieldsError lists every required key missing from one mapping.
type NoRequiredFieldsError struct {
	Base
	Fields []string
	Input  any
}

func (e *NoRequiredFieldsError) Kind() Kind { return KindNoFields }

func (e *NoRequiredFieldsError) Error() string {
	return e.format("missing required fields " + quoteAll(e.Fields))
}

// NoRequiredItemsError reports a sequence shorter than MinLen.
type NoRequiredItemsError struct {
	Base
	MinLen int
	Input  any
}

func (e *NoRequiredItemsError) Kind() Kind { return KindNoItems }

func (e *NoRequiredItemsError) Error() string {
	return e.format(fmt.Sprintf("expected at least %d items, got %s", e.MinLen, Render(e.Input)))
}

// ValueLoadError is returned by leaf converters for a value of the right
// kind but an unacceptable content.
type ValueLoadError struct {
	Base
	Msg   string
	Input any
}

func (e *ValueLoadError) Kind() Kind { return KindValue }

func (e *ValueLoadError) Error() string {
	return e.format(fmt.Sprintf("%s, got %s", e.Msg, Render(e.Input)))
}

// ValidationError is returned by user validators.
type ValidationError struct {
	Base
	Msg   string
	Input any
}

func (e *ValidationError) Kind() Kind { return KindValidation }

func (e *ValidationError) Error() string {
	return e.format(e.Msg)
}

// UnexpectedError wraps an error that is not one of this package, so it
// still carries a trail.
type UnexpectedError struct {
	Base
	Cause error
}

func (e *UnexpectedError) Kind() Kind { return KindUnexpected }

func (e *UnexpectedError) Error() string {
	return e.format("unexpected error: " + e.Cause.Error())
}

func (e *UnexpectedError) Unwrap() error { return e.Cause }

// DumpError wraps a failure of an accessor or a dumper.
type DumpError struct {
	Base
	Cause error
}

func (e *DumpError) Kind() Kind { return KindDump }

func (e *DumpError) Error() string {
	return e.format("dump failed: " + e.Cause.Error())
}

func (e *DumpError) Unwrap() error { return e.Cause }

// UnknownSourceError is a dump failure raised when an extra target holds
// something that can not be merged into a mapping.
type UnknownSourceError struct {
	Base
	Field string
	Input any
}

func (e *UnknownSourceError) Kind() Kind { return KindUnknownSource }

func (e *UnknownSourceError) Error() string {
	return e.format(fmt.Sprintf("extra field %q must hold a string keyed mapping, got %s", e.Field, Render(e.Input)))
}

// AggregateError holds every independent failure of one call made with the
// All detail level. Unexpected is set when at least one cause is not an
// expected load or dump error.
type AggregateError struct {
	Base
	Msg        string
	Causes     []error
	Unexpected bool
}

func (e *AggregateError) Kind() Kind { return KindAggregate }

func (e *AggregateError) Error() string {
	parts := make([]string, len(e.Causes))
	for i, c := range e.Causes {
		parts[i] = c.Error()
	}

	head := fmt.Sprintf("%s (%d sub-errors)", e.Msg, len(e.Causes))
	if e.Unexpected {
		head += " including unexpected errors"
	}

	return e.format(head + ": " + strings.Join(parts, "; "))
}

func (e *AggregateError) Unwrap() []error { return e.Causes }

// Is reports whether err is an expected error of this package, as opposed
// to an unexpected converter failure.
func Is(err error) bool {
	var e Error
	if !errors.As(err, &e) {
		return false
	}

	switch typed := e.(type) {
	case *UnexpectedError:
		return false
	case *AggregateError:
		return !typed.Unexpected
	default:
		return true
	}
}

func quoteAll(items []string) string {
	quoted := make([]string, len(items))
	for i, s := range items {
		quoted[i] = fmt.Sprintf("%q", s)
	}

	return "[" + strings.Join(quoted, ", ") + "]"
}
