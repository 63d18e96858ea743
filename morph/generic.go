package morph

import (
	"reflect"
	"slices"
	"strconv"

	"crownbind/crown"
	"crownbind/loaderr"
	"crownbind/provider"
	"crownbind/shape"
)

var anyType = reflect.TypeFor[any]()

// elemRun collects element failures of one container call according to the
// debug trail.
type elemRun struct {
	trail DebugTrail
	errs  []error
}

// fail records err at key and reports whether the call must stop now.
func (r *elemRun) fail(key crown.Key, err error) (stop bool) {
	if r.trail == DebugTrailNone {
		r.errs = append(r.errs, err)

		return true
	}

	r.errs = append(r.errs, loaderr.At(crown.Path{key}, err))

	return r.trail == DebugTrailFirst
}

func (r *elemRun) err(msg string) error {
	switch {
	case len(r.errs) == 0:
		return nil
	case r.trail == DebugTrailAll:
		return loaderr.Aggregate(msg, r.errs)
	default:
		return r.errs[0]
	}
}

func elemLoc(t provider.TypeHint) provider.Loc {
	return provider.TypeLoc(t)
}

// sliceElem returns the element hint of a slice or array hint.
func sliceElem(h provider.TypeHint) (provider.TypeHint, reflect.Type, bool) {
	switch t := h.(type) {
	case shape.SliceOf:
		return t.Elem, nil, true
	case reflect.Type:
		if t.Kind() == reflect.Slice || t.Kind() == reflect.Array {
			return t.Elem(), t, true
		}
	}

	return nil, nil, false
}

// SliceProvider serves loaders and dumpers of slices, arrays and
// shape.SliceOf hints.
func SliceProvider() provider.Provider {
	return provider.Func(func(m provider.Mediator, req provider.Request) (any, error) {
		switch r := req.(type) {
		case provider.LoaderRequest:
			elem, t, ok := sliceElem(r.Loc.Type)
			if !ok {
				return nil, provider.Decline("%s is not a sequence", provider.HintName(r.Loc.Type))
			}

			load, err := provider.ProvideAs[Loader](m, provider.LoaderRequest{Loc: elemLoc(elem)})
			if err != nil {
				return nil, declineBecause(err, "no loader for elements of %s", provider.HintName(r.Loc.Type))
			}

			trail, err := DebugTrailFor(m, r.Loc.Type)
			if err != nil {
				return nil, err
			}

			strict, err := StrictCoercionFor(m, r.Loc.Type)
			if err != nil {
				return nil, err
			}

			return sliceLoader(t, load, trail, strict, "while loading "+provider.HintName(r.Loc.Type)), nil
		case provider.DumperRequest:
			elem, _, ok := sliceElem(r.Loc.Type)
			if !ok {
				return nil, provider.Decline("%s is not a sequence", provider.HintName(r.Loc.Type))
			}

			dump, err := provider.ProvideAs[Dumper](m, provider.DumperRequest{Loc: elemLoc(elem)})
			if err != nil {
				return nil, declineBecause(err, "no dumper for elements of %s", provider.HintName(r.Loc.Type))
			}

			trail, err := DebugTrailFor(m, r.Loc.Type)
			if err != nil {
				return nil, err
			}

			return sliceDumper(dump, trail, "while dumping "+provider.HintName(r.Loc.Type)), nil
		default:
			return nil, provider.Decline("not a converter request")
		}
	})
}

// sliceLoader builds []any when t is nil and a value of t otherwise.
func sliceLoader(t reflect.Type, load Loader, trail DebugTrail, strict bool, msg string) Loader {
	var here crown.Path
	if trail != DebugTrailNone {
		here = crown.Path{}
	}

	return func(data any) (any, error) {
		items, err := asSequence(data, strict, here)
		if err != nil {
			return nil, err
		}

		var out reflect.Value

		switch {
		case t == nil:
		case t.Kind() == reflect.Array:
			if len(items) != t.Len() {
				return nil, &loaderr.ValueLoadError{
					Base: loaderr.Base{Path: here}, Msg: "sequence length must be " + strconv.Itoa(t.Len()), Input: data,
				}
			}

			out = reflect.New(t).Elem()
		default:
			out = reflect.MakeSlice(t, len(items), len(items))
		}

		loaded := make([]any, len(items))
		run := &elemRun{trail: trail}

		for i, item := range items {
			v, err := load(item)
			if err != nil {
				if run.fail(crown.Index(i), err) {
					break
				}

				continue
			}

			if t == nil {
				loaded[i] = v

				continue
			}

			if err := setValue(out.Index(i), v); err != nil && run.fail(crown.Index(i), err) {
				break
			}
		}

		if err := run.err(msg); err != nil {
			return nil, err
		}

		if t == nil {
			return loaded, nil
		}

		return out.Interface(), nil
	}
}

func sliceDumper(dump Dumper, trail DebugTrail, msg string) Dumper {
	return func(value any) (any, error) {
		v := reflect.ValueOf(value)
		if v.Kind() != reflect.Slice && v.Kind() != reflect.Array {
			return nil, &loaderr.DumpError{Cause: &loaderr.TypeLoadError{Expected: "sequence", Input: value}}
		}

		if v.Kind() == reflect.Slice && v.IsNil() {
			return nil, nil
		}

		out := make([]any, v.Len())
		run := &elemRun{trail: trail}

		for i := range out {
			d, err := dump(v.Index(i).Interface())
			if err != nil {
				if run.fail(crown.Index(i), err) {
					break
				}

				continue
			}

			out[i] = d
		}

		if err := run.err(msg); err != nil {
			return nil, err
		}

		return out, nil
	}
}

// setValue stores a loaded value into dst, converting between types of the
// same kind.
func setValue(dst reflect.Value, value any) error {
	if value == nil {
		return nil
	}

	v := reflect.ValueOf(value)

	switch {
	case v.Type().AssignableTo(dst.Type()):
		dst.Set(v)
	case v.Kind() == dst.Kind() && v.Type().ConvertibleTo(dst.Type()):
		dst.Set(v.Convert(dst.Type()))
	default:
		return &loaderr.ValueLoadError{Msg: "loaded " + v.Type().String() + " does not fit " + dst.Type().String(), Input: value}
	}

	return nil
}

// MapProvider serves loaders and dumpers of maps keyed by strings.
func MapProvider() provider.Provider {
	return provider.Func(func(m provider.Mediator, req provider.Request) (any, error) {
		l, ok := req.(provider.Located)
		if !ok {
			return nil, provider.Decline("request is not located")
		}

		t, ok := l.Location().ReflectType()
		if !ok || t.Kind() != reflect.Map || t.Key().Kind() != reflect.String {
			return nil, provider.Decline("%s is not a string keyed map", provider.HintName(l.Location().Type))
		}

		switch req.(type) {
		case provider.LoaderRequest, provider.DumperRequest:
		default:
			return nil, provider.Decline("not a converter request")
		}

		trail, err := DebugTrailFor(m, t)
		if err != nil {
			return nil, err
		}

		if _, ok := req.(provider.LoaderRequest); ok {
			load, err := provider.ProvideAs[Loader](m, provider.LoaderRequest{Loc: elemLoc(t.Elem())})
			if err != nil {
				return nil, declineBecause(err, "no loader for values of %s", provider.HintName(t))
			}

			return mapLoader(t, load, trail), nil
		}

		dump, err := provider.ProvideAs[Dumper](m, provider.DumperRequest{Loc: elemLoc(t.Elem())})
		if err != nil {
			return nil, declineBecause(err, "no dumper for values of %s", provider.HintName(t))
		}

		return mapDumper(dump, trail, "while dumping "+provider.HintName(t)), nil
	})
}

func mapLoader(t reflect.Type, load Loader, trail DebugTrail) Loader {
	msg := "while loading " + provider.HintName(t)

	var here crown.Path
	if trail != DebugTrailNone {
		here = crown.Path{}
	}

	return func(data any) (any, error) {
		m, ok := asMapping(data)
		if !ok {
			return nil, &loaderr.TypeLoadError{Base: loaderr.Base{Path: here}, Expected: "mapping", Input: data}
		}

		out := reflect.MakeMapWithSize(t, len(m))
		run := &elemRun{trail: trail}

		for _, k := range sortedKeys(m) {
			v, err := load(m[k])
			if err != nil {
				if run.fail(crown.Name(k), err) {
					break
				}

				continue
			}

			elem := reflect.New(t.Elem()).Elem()
			if err := setValue(elem, v); err != nil {
				if run.fail(crown.Name(k), err) {
					break
				}

				continue
			}

			out.SetMapIndex(reflect.ValueOf(k).Convert(t.Key()), elem)
		}

		if err := run.err(msg); err != nil {
			return nil, err
		}

		return out.Interface(), nil
	}
}

func mapDumper(dump Dumper, trail DebugTrail, msg string) Dumper {
	return func(value any) (any, error) {
		m, ok := asMapping(value)
		if !ok {
			return nil, &loaderr.DumpError{Cause: &loaderr.TypeLoadError{Expected: "mapping", Input: value}}
		}

		if reflect.ValueOf(value).IsNil() {
			return nil, nil
		}

		out := make(map[string]any, len(m))
		run := &elemRun{trail: trail}

		for _, k := range sortedKeys(m) {
			d, err := dump(m[k])
			if err != nil {
				if run.fail(crown.Name(k), err) {
					break
				}

				continue
			}

			out[k] = d
		}

		if err := run.err(msg); err != nil {
			return nil, err
		}

		return out, nil
	}
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}

	slices.Sort(keys)

	return keys
}

// PointerProvider serves pointers by converting the pointee; nil maps to
// nil both ways.
func PointerProvider() provider.Provider {
	return provider.Func(func(m provider.Mediator, req provider.Request) (any, error) {
		l, ok := req.(provider.Located)
		if !ok {
			return nil, provider.Decline("request is not located")
		}

		t, ok := l.Location().ReflectType()
		if !ok || t.Kind() != reflect.Pointer {
			return nil, provider.Decline("%s is not a pointer", provider.HintName(l.Location().Type))
		}

		switch req.(type) {
		case provider.LoaderRequest:
			load, err := provider.ProvideAs[Loader](m, provider.LoaderRequest{Loc: elemLoc(t.Elem())})
			if err != nil {
				return nil, declineBecause(err, "no loader for %s", provider.HintName(t.Elem()))
			}

			return func(data any) (any, error) {
				if data == nil {
					return reflect.Zero(t).Interface(), nil
				}

				v, err := load(data)
				if err != nil {
					return nil, err
				}

				ptr := reflect.New(t.Elem())
				if err := setValue(ptr.Elem(), v); err != nil {
					return nil, err
				}

				return ptr.Interface(), nil
			}, nil
		case provider.DumperRequest:
			dump, err := provider.ProvideAs[Dumper](m, provider.DumperRequest{Loc: elemLoc(t.Elem())})
			if err != nil {
				return nil, declineBecause(err, "no dumper for %s", provider.HintName(t.Elem()))
			}

			return func(value any) (any, error) {
				v := reflect.ValueOf(value)
				if value == nil || (v.Kind() == reflect.Pointer && v.IsNil()) {
					return nil, nil
				}

				if v.Kind() == reflect.Pointer {
					return dump(v.Elem().Interface())
				}

				return dump(value)
			}, nil
		default:
			return nil, provider.Decline("not a converter request")
		}
	})
}

// AnyProvider passes untyped values through unchanged.
func AnyProvider() provider.Provider {
	return provider.Bound(provider.TypeIs(anyType), provider.Func(func(_ provider.Mediator, req provider.Request) (any, error) {
		switch req.(type) {
		case provider.LoaderRequest, provider.DumperRequest:
			return AsIs, nil
		default:
			return nil, provider.Decline("not a converter request")
		}
	}))
}

// AsIs is the identity converter.
func AsIs(value any) (any, error) { return value, nil }
