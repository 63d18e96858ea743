package caster

import (
	"errors"
	"path"
	"reflect"
	"runtime"
	"strings"

	"crownbind/internal/common"
	"crownbind/loaderr"
	"crownbind/primitive"
)

var (
	ErrIsNotACaster         = errors.New("provided function is not a recognizable caster")
	ErrCasterIsNotAFunction = errors.New("provided caster is not a function")
	ErrDoublePointer        = errors.New("caster function does not support double pointers")
)

// Caster describes a user converter function.
type Caster struct {
	Src, Dst     reflect.Type
	PackageAlias string
	Name         string
	HasBool      bool
	HasErr       bool

	fn reflect.Value
}

// ParseCaster inspects the provided function and returns a Caster struct if it is a valid caster function.
//
// Supports interfaces:
//   - func(src Type) (dst Type)
//   - func(src Type) (dst Type, bool)
//   - func(src Type) (dst Type, error)
//   - func(src Type) (dst Type, bool, error)
func ParseCaster(fn any) (Caster, error) {
	fnVal := reflect.ValueOf(fn)
	if fnVal.Kind() != reflect.Func || fnVal.IsNil() {
		return Caster{}, ErrCasterIsNotAFunction
	}

	fnType := fnVal.Type()
	if fnType.NumIn() != 1 || fnType.NumOut() == 0 {
		return Caster{}, ErrIsNotACaster
	}

	src := fnType.In(0)
	if src.Kind() == reflect.Ptr && src.Elem().Kind() == reflect.Ptr {
		return Caster{}, ErrDoublePointer
	}

	dst := fnType.Out(0)
	if dst.Kind() == reflect.Ptr && dst.Elem().Kind() == reflect.Ptr {
		return Caster{}, ErrDoublePointer
	}

	// "crownbind/pkg.Func" or "github.com/x/pkg.T.Method-fm"
	fnPC := runtime.FuncForPC(fnVal.Pointer())
	_, qualified := path.Split(fnPC.Name())
	alias, name, _ := strings.Cut(qualified, ".")

	caster := Caster{
		Src:          src,
		Dst:          dst,
		Name:         name,
		PackageAlias: alias,
		fn:           fnVal,
	}

	switch fnType.NumOut() {
	default:
		return Caster{}, ErrIsNotACaster

	case 1:
		return caster, nil

	case 2:
		last := fnType.Out(1)

		switch {
		default:
			return Caster{}, ErrIsNotACaster
		case last.Kind() == reflect.Bool:
			caster.HasBool = true
		case isError(last):
			caster.HasErr = true
		}

		return caster, nil

	case 3:
		tbool, terr := fnType.Out(1), fnType.Out(2)
		if tbool.Kind() != reflect.Bool || !isError(terr) {
			return Caster{}, ErrIsNotACaster
		}

		caster.HasBool = true
		caster.HasErr = true

		return caster, nil
	}
}

// String returns the qualified function name.
func (c Caster) String() string {
	return c.PackageAlias + "." + c.Name
}

// Converter wraps the function into an untyped converter. Arguments that do
// not already have the source type are coerced first: primitives through
// the allowed categories, other values only by assignment. A false bool
// result is a value error.
func (c Caster) Converter(allowed primitive.CategoryEnum) func(value any) (any, error) {
	coerce := c.coercion(allowed)
	name := c.String()

	return func(value any) (any, error) {
		arg, err := coerce(value)
		if err != nil {
			return nil, err
		}

		out := c.fn.Call([]reflect.Value{arg})

		if c.HasErr {
			if errVal := out[len(out)-1]; !errVal.IsNil() {
				return nil, errVal.Interface().(error)
			}
		}

		if c.HasBool && !out[1].Bool() {
			return nil, &loaderr.ValueLoadError{Msg: "rejected by " + name, Input: value}
		}

		return out[0].Interface(), nil
	}
}

func (c Caster) coercion(allowed primitive.CategoryEnum) func(value any) (reflect.Value, error) {
	expected := common.TypeName(c.Src)
	depth, srcBase := ptrDepthAndBase(c.Src)

	var load func(any) (any, error)
	if primitive.FromReflectType(srcBase) != 0 {
		load, _ = primitive.Loader(srcBase, allowed)
	}

	return func(value any) (reflect.Value, error) {
		if value == nil {
			if nillable(c.Src.Kind()) {
				return reflect.Zero(c.Src), nil
			}

			return reflect.Value{}, &loaderr.TypeLoadError{Expected: expected}
		}

		v := reflect.ValueOf(value)
		if v.Type().AssignableTo(c.Src) {
			return v, nil
		}

		_, inBase := ptrDepthAndBase(v.Type())
		if load == nil || Dispatch(inBase, srcBase) != DispatcherPrimitive {
			return reflect.Value{}, &loaderr.TypeLoadError{Expected: expected, Input: value}
		}

		for v.Kind() == reflect.Ptr {
			if v.IsNil() {
				return reflect.Value{}, &loaderr.TypeLoadError{Expected: expected, Input: value}
			}

			v = v.Elem()
		}

		loaded, err := load(v.Interface())
		if err != nil {
			return reflect.Value{}, err
		}

		arg := reflect.ValueOf(loaded)
		for range depth {
			ptr := reflect.New(arg.Type())
			ptr.Elem().Set(arg)
			arg = ptr
		}

		return arg, nil
	}
}

func nillable(k reflect.Kind) bool {
	switch k {
	case reflect.Ptr, reflect.Interface, reflect.Slice, reflect.Map, reflect.Func, reflect.Chan:
		return true
	default:
		return false
	}
}
