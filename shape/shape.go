package shape

import (
	"fmt"
	"reflect"

	"crownbind/provider"
)

// Default is the value of an optional field missing from input. Factory,
// when set, is called for every record so mutable defaults are not shared.
type Default struct {
	Value   any
	Factory func() any
}

// Get returns the default for one record.
func (d *Default) Get() any {
	if d.Factory != nil {
		return d.Factory()
	}

	return d.Value
}

// Field is a record field.
type Field struct {
	ID       string
	Type     provider.TypeHint
	Required bool
	// Default is nil when an optional field has no default; such a field
	// is left out of the constructor arguments.
	Default *Default
	Tag     reflect.StructTag
}

// ParamKind tells how a constructor receives a field.
type ParamKind int

const (
	ParamKeyword ParamKind = iota
	ParamPositional
)

func (k ParamKind) String() string {
	if k == ParamPositional {
		return "positional"
	}

	return "keyword"
}

// Param binds a constructor parameter to a field.
type Param struct {
	FieldID string
	Kind    ParamKind
}

// Args are the constructor arguments of one record.
type Args struct {
	Positional []any
	Keyword    map[string]any
	// Extra holds collected unknown data for constructors accepting it.
	Extra map[string]any
}

// Constructor builds a record.
type Constructor func(args Args) (any, error)

// Input describes how to build a record.
type Input struct {
	Type        provider.TypeHint
	Fields      []Field
	Params      []Param
	Kwargs      bool
	Constructor Constructor
}

// Field returns the field with id.
func (s *Input) Field(id string) (Field, bool) {
	return lookup(s.Fields, id)
}

// FieldIDs returns the field ids in order.
func (s *Input) FieldIDs() []string {
	return ids(s.Fields)
}

// AccessorKind tells how a field value is read.
type AccessorKind int

const (
	AccessAttr AccessorKind = iota
	AccessItem
	AccessGetter
)

func (k AccessorKind) String() string {
	switch k {
	case AccessAttr:
		return "attr"
	case AccessItem:
		return "item"
	case AccessGetter:
		return "getter"
	default:
		return fmt.Sprintf("AccessorKind(%d)", int(k))
	}
}

// Accessor reads a field from a record. Get returns ok=false when the
// value is absent; only Optional accessors may do so.
type Accessor struct {
	Kind     AccessorKind
	Key      string
	Optional bool
	Get      func(record any) (value any, ok bool, err error)
}

// OutField is a field of an Output shape.
type OutField struct {
	Field
	Accessor Accessor
}

// Output describes how to read a record.
type Output struct {
	Type   provider.TypeHint
	Fields []OutField
}

// Field returns the field with id.
func (s *Output) Field(id string) (OutField, bool) {
	for _, f := range s.Fields {
		if f.ID == id {
			return f, true
		}
	}

	return OutField{}, false
}

// FieldIDs returns the field ids in order.
func (s *Output) FieldIDs() []string {
	out := make([]string, len(s.Fields))
	for i, f := range s.Fields {
		out[i] = f.ID
	}

	return out
}

// InputShapeRequest asks for the Input shape of Type.
type InputShapeRequest struct {
	Type provider.TypeHint
}

func (r InputShapeRequest) Location() provider.Loc { return provider.TypeLoc(r.Type) }

func (r InputShapeRequest) String() string { return "input shape of " + provider.HintName(r.Type) }

// OutputShapeRequest asks for the Output shape of Type.
type OutputShapeRequest struct {
	Type provider.TypeHint
}

func (r OutputShapeRequest) Location() provider.Loc { return provider.TypeLoc(r.Type) }

func (r OutputShapeRequest) String() string { return "output shape of " + provider.HintName(r.Type) }

func lookup(fields []Field, id string) (Field, bool) {
	for _, f := range fields {
		if f.ID == id {
			return f, true
		}
	}

	return Field{}, false
}

func ids(fields []Field) []string {
	out := make([]string, len(fields))
	for i, f := range fields {
		out[i] = f.ID
	}

	return out
}
