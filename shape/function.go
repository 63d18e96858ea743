package shape

import (
	"fmt"
	"reflect"

	"crownbind/internal/common"
	"crownbind/provider"
)

var errorType = reflect.TypeFor[error]()

// FromFunc builds an input shape for the result type of fn, a function
// taking one argument per name in params and returning T or (T, error).
// Every parameter becomes a required positional field.
func FromFunc(fn any, params ...string) (*Input, error) {
	v := reflect.ValueOf(fn)
	if v.Kind() != reflect.Func {
		return nil, configError("constructor must be a function, got %T", fn)
	}

	ft := v.Type()
	if ft.IsVariadic() || ft.NumIn() != len(params) {
		return nil, configError("constructor %s takes %d arguments, %d parameter names given", ft, ft.NumIn(), len(params))
	}

	returnsErr := ft.NumOut() == 2 && ft.Out(1) == errorType
	if ft.NumOut() != 1 && !returnsErr {
		return nil, configError("constructor %s must return T or (T, error)", ft)
	}

	s := &Input{Type: ft.Out(0)}

	for i, name := range params {
		s.Fields = append(s.Fields, Field{ID: name, Type: ft.In(i), Required: true})
		s.Params = append(s.Params, Param{FieldID: name, Kind: ParamPositional})
	}

	s.Constructor = func(args Args) (any, error) {
		in := make([]reflect.Value, ft.NumIn())

		for i := range in {
			if i >= len(args.Positional) || args.Positional[i] == nil {
				in[i] = reflect.Zero(ft.In(i))

				continue
			}

			arg := reflect.New(ft.In(i)).Elem()
			if err := assign(arg, args.Positional[i]); err != nil {
				return nil, fmt.Errorf("argument %s: %w", params[i], err)
			}

			in[i] = arg
		}

		out := v.Call(in)
		if returnsErr && !out[1].IsNil() {
			return nil, out[1].Interface().(error)
		}

		return out[0].Interface(), nil
	}

	return s, nil
}

// ConstructorProvider makes fn the way records of t are built for loading.
// fn must return t.
func ConstructorProvider(t reflect.Type, fn any, params ...string) (provider.Provider, error) {
	s, err := FromFunc(fn, params...)
	if err != nil {
		return nil, err
	}

	if s.Type != t {
		return nil, configError("constructor returns %s, not %s", provider.HintName(s.Type), common.TypeName(t))
	}

	return provider.Exact(InputShapeRequest{Type: t}, s), nil
}
