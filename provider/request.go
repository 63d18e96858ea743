package provider

import (
	"fmt"
	"reflect"

	"crownbind/internal/common"
)

// Request describes a wanted capability. Requests must be comparable
// values: they are cache keys, so two requests built independently with
// the same fields resolve to the same cached result.
type Request any

// TypeHint identifies a record or value type. It is a reflect.Type for Go
// types or another comparable descriptor for dynamic shapes.
type TypeHint any

// Loc is where a converter is needed: a value type, optionally inside a
// field of an owner type.
type Loc struct {
	Type     TypeHint
	FieldID  string
	Owner    TypeHint
	Optional bool
}

// TypeLoc is a location without a field.
func TypeLoc(t TypeHint) Loc {
	return Loc{Type: t}
}

// ReflectType returns the Go type of the location, if it has one.
func (l Loc) ReflectType() (reflect.Type, bool) {
	t, ok := l.Type.(reflect.Type)

	return t, ok && t != nil
}

func (l Loc) String() string {
	s := HintName(l.Type)
	if l.FieldID != "" {
		s = fmt.Sprintf("%s.%s (%s)", HintName(l.Owner), l.FieldID, s)
	}

	if l.Optional {
		s += " optional"
	}

	return s
}

// Located is implemented by requests bound to a location. Request
// checkers only match located requests.
type Located interface {
	Location() Loc
}

// LoaderRequest asks for a routine converting external data into a value
// of Loc.Type.
type LoaderRequest struct {
	Loc Loc
}

func (r LoaderRequest) Location() Loc { return r.Loc }

func (r LoaderRequest) String() string { return "loader for " + r.Loc.String() }

// DumperRequest asks for a routine converting a value of Loc.Type into
// external data.
type DumperRequest struct {
	Loc Loc
}

func (r DumperRequest) Location() Loc { return r.Loc }

func (r DumperRequest) String() string { return "dumper for " + r.Loc.String() }

// Converter is the form of every loader and dumper.
type Converter = func(value any) (any, error)

// HintName renders a TypeHint.
func HintName(h TypeHint) string {
	switch t := h.(type) {
	case nil:
		return "<nil>"
	case reflect.Type:
		return common.TypeName(t)
	case fmt.Stringer:
		return t.String()
	default:
		return fmt.Sprintf("%v", t)
	}
}

// Describe renders a request for logs and error messages.
func Describe(req Request) string {
	if s, ok := req.(fmt.Stringer); ok {
		return s.String()
	}

	return fmt.Sprintf("%T%+v", req, req)
}
