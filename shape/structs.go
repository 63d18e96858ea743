package shape

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"crownbind/internal/common"
	"crownbind/provider"
)

// TagKey is the struct tag read by struct introspection. Options are
// comma separated: "-" hides the field, "optional" and "required"
// override the default requiredness. Fields tagged json:"-" are hidden too.
const TagKey = "crown"

// Defaulter is implemented by struct pointers that fill the defaults of
// their optional fields.
type Defaulter interface {
	SetDefaults()
}

type tagOptions struct {
	hidden   bool
	optional bool
	required bool
}

func parseTag(tag reflect.StructTag) tagOptions {
	var opts tagOptions

	for opt := range strings.SplitSeq(tag.Get(TagKey), ",") {
		switch strings.TrimSpace(opt) {
		case "-":
			opts.hidden = true
		case "optional":
			opts.optional = true
		case "required":
			opts.required = true
		}
	}

	return opts
}

// nillable kinds make a field optional unless tagged required.
func nillable(k reflect.Kind) bool {
	switch k {
	case reflect.Pointer, reflect.Slice, reflect.Map, reflect.Interface:
		return true
	default:
		return false
	}
}

type structField struct {
	Field
	index []int
}

func structFields(t reflect.Type) ([]structField, error) {
	if t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("%s is not a struct", common.TypeName(t))
	}

	proto := reflect.New(t)
	if d, ok := proto.Interface().(Defaulter); ok {
		d.SetDefaults()
	}

	var out []structField

	for i := range t.NumField() {
		sf := t.Field(i)
		if !sf.IsExported() {
			continue
		}

		opts := parseTag(sf.Tag)
		if opts.hidden || sf.Tag.Get("json") == "-" {
			continue
		}

		required := !nillable(sf.Type.Kind()) && !opts.optional
		if opts.required {
			required = true
		}

		field := Field{ID: sf.Name, Type: sf.Type, Required: required, Tag: sf.Tag}
		if !required {
			field.Default = defaultOf(proto.Elem().Field(i))
		}

		out = append(out, structField{Field: field, index: sf.Index})
	}

	return out, nil
}

// defaultOf returns the default held by a prototype field. Slices and maps
// get a factory producing a fresh non-nil copy for every record.
func defaultOf(v reflect.Value) *Default {
	switch v.Kind() {
	case reflect.Slice:
		src := v

		return &Default{Factory: func() any {
			out := reflect.MakeSlice(src.Type(), src.Len(), src.Len())
			reflect.Copy(out, src)

			return out.Interface()
		}}
	case reflect.Map:
		src := v

		return &Default{Factory: func() any {
			out := reflect.MakeMapWithSize(src.Type(), src.Len())

			iter := src.MapRange()
			for iter.Next() {
				out.SetMapIndex(iter.Key(), iter.Value())
			}

			return out.Interface()
		}}
	default:
		return &Default{Value: v.Interface()}
	}
}

// StructInput introspects a struct type for loading. The constructor
// returns a T value.
func StructInput(t reflect.Type) (*Input, error) {
	fields, err := structFields(t)
	if err != nil {
		return nil, err
	}

	s := &Input{Type: t}

	index := make(map[string][]int, len(fields))
	for _, f := range fields {
		s.Fields = append(s.Fields, f.Field)
		s.Params = append(s.Params, Param{FieldID: f.ID, Kind: ParamKeyword})
		index[f.ID] = f.index
	}

	s.Constructor = func(args Args) (any, error) {
		rec := reflect.New(t).Elem()

		for id, value := range args.Keyword {
			if value == nil {
				continue
			}

			dst := rec.FieldByIndex(index[id])
			if err := assign(dst, value); err != nil {
				return nil, fmt.Errorf("field %s: %w", id, err)
			}
		}

		return rec.Interface(), nil
	}

	return s, nil
}

func assign(dst reflect.Value, value any) error {
	v := reflect.ValueOf(value)

	switch {
	case v.Type().AssignableTo(dst.Type()):
		dst.Set(v)
	case dst.Kind() == reflect.Pointer && v.Type().AssignableTo(dst.Type().Elem()):
		ptr := reflect.New(dst.Type().Elem())
		ptr.Elem().Set(v)
		dst.Set(ptr)
	case v.Type().ConvertibleTo(dst.Type()) && v.Kind() == dst.Kind():
		dst.Set(v.Convert(dst.Type()))
	default:
		return fmt.Errorf("can not assign %s to %s", v.Type(), dst.Type())
	}

	return nil
}

// StructOutput introspects a struct type for dumping. Records may be
// passed as T or *T.
func StructOutput(t reflect.Type) (*Output, error) {
	fields, err := structFields(t)
	if err != nil {
		return nil, err
	}

	s := &Output{Type: t}

	for _, f := range fields {
		index := f.index
		s.Fields = append(s.Fields, OutField{
			Field: f.Field,
			Accessor: Accessor{
				Kind: AccessAttr,
				Key:  f.ID,
				Get: func(record any) (any, bool, error) {
					v, err := structValue(t, record)
					if err != nil {
						return nil, false, err
					}

					return v.FieldByIndex(index).Interface(), true, nil
				},
			},
		})
	}

	return s, nil
}

func structValue(t reflect.Type, record any) (reflect.Value, error) {
	v := reflect.ValueOf(record)
	for v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return reflect.Value{}, fmt.Errorf("nil %s record", common.TypeName(t))
		}

		v = v.Elem()
	}

	if v.Type() != t {
		return reflect.Value{}, fmt.Errorf("expected %s record, got %T", common.TypeName(t), record)
	}

	return v, nil
}

func configError(format string, args ...any) error {
	return errbuilder.New().
		WithCode(errbuilder.CodeInvalidArgument).
		WithMsg(fmt.Sprintf(format, args...))
}

// structType returns the struct type behind a located request, declining
// everything else.
func structType(req provider.Request) (reflect.Type, *provider.CannotProvide) {
	l, ok := req.(provider.Located)
	if !ok {
		return nil, provider.Decline("request is not located")
	}

	t, ok := l.Location().ReflectType()
	if !ok || t.Kind() != reflect.Struct {
		return nil, provider.Decline("%s is not a struct", provider.HintName(l.Location().Type))
	}

	return t, nil
}

// StructProvider serves shape requests for Go structs.
func StructProvider() provider.Provider {
	return provider.Func(func(_ provider.Mediator, req provider.Request) (any, error) {
		switch req.(type) {
		case InputShapeRequest:
			t, cp := structType(req)
			if cp != nil {
				return nil, cp
			}

			if !hasExportedFields(t) {
				return nil, provider.Decline("%s has no exported fields", common.TypeName(t))
			}

			return StructInput(t)
		case OutputShapeRequest:
			t, cp := structType(req)
			if cp != nil {
				return nil, cp
			}

			if !hasExportedFields(t) {
				return nil, provider.Decline("%s has no exported fields", common.TypeName(t))
			}

			return StructOutput(t)
		default:
			return nil, provider.Decline("not a shape request")
		}
	})
}

func hasExportedFields(t reflect.Type) bool {
	for i := range t.NumField() {
		if t.Field(i).IsExported() {
			return true
		}
	}

	return false
}
