package retort

import (
	"fmt"
	"reflect"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"crownbind/caster"
	"crownbind/internal/mapping"
	"crownbind/layout"
	"crownbind/loaderr"
	"crownbind/morph"
	"crownbind/primitive"
	"crownbind/provider"
	"crownbind/shape"
)

func configError(err error) error {
	return errbuilder.New().
		WithCode(errbuilder.CodeInvalidArgument).
		WithMsg(err.Error()).
		WithCause(err)
}

// failing reports err as a fatal error for every request checker accepts.
func failing(checker provider.Checker, err error) provider.Provider {
	return provider.Bound(checker, provider.Func(func(provider.Mediator, provider.Request) (any, error) {
		return nil, err
	}))
}

func chained(p provider.Provider, chain []provider.ChainMode) provider.Provider {
	if len(chain) == 0 {
		return p
	}

	return provider.Chain(chain[0], p)
}

func categoriesFor(m provider.Mediator, req provider.Request) (primitive.CategoryEnum, error) {
	l, ok := req.(provider.Located)
	if !ok {
		return primitive.CategoryStrict, nil
	}

	strict, err := morph.StrictCoercionFor(m, l.Location().Type)
	if err != nil {
		return primitive.CategoryNone, err
	}

	if strict {
		return primitive.CategoryStrict, nil
	}

	return primitive.CategoryLax, nil
}

func converterFunc[R provider.Request](pred provider.Checker, fn any, chain []provider.ChainMode) provider.Provider {
	checker := provider.And(provider.RequestIs[R](), pred)

	c, err := caster.ParseCaster(fn)
	if err != nil {
		return failing(checker, configError(fmt.Errorf("%w: %T", err, fn)))
	}

	return chained(provider.Bound(checker, provider.Func(func(m provider.Mediator, req provider.Request) (any, error) {
		allowed, err := categoriesFor(m, req)
		if err != nil {
			return nil, err
		}

		return provider.Converter(c.Converter(allowed)), nil
	})), chain)
}

// LoaderFunc serves the loader requests accepted by pred with fn. fn is
// one of func(S) D, func(S) (D, error), func(S) (D, bool) or
// func(S) (D, bool, error); input data is coerced to S like any scalar.
// With a chain mode fn is composed with the loader the rest of the recipe
// yields instead of replacing it.
func LoaderFunc(pred provider.Checker, fn any, chain ...provider.ChainMode) provider.Provider {
	return converterFunc[provider.LoaderRequest](pred, fn, chain)
}

// DumperFunc is LoaderFunc for dumper requests.
func DumperFunc(pred provider.Checker, fn any, chain ...provider.ChainMode) provider.Provider {
	return converterFunc[provider.DumperRequest](pred, fn, chain)
}

// AsIsLoader serves the loader requests accepted by pred with the
// identity.
func AsIsLoader(pred provider.Checker) provider.Provider {
	return provider.Bound(provider.And(provider.RequestIs[provider.LoaderRequest](), pred),
		provider.Func(func(provider.Mediator, provider.Request) (any, error) {
			return morph.AsIs, nil
		}))
}

// AsIsDumper serves the dumper requests accepted by pred with the
// identity.
func AsIsDumper(pred provider.Checker) provider.Provider {
	return provider.Bound(provider.And(provider.RequestIs[provider.DumperRequest](), pred),
		provider.Func(func(provider.Mediator, provider.Request) (any, error) {
			return morph.AsIs, nil
		}))
}

// Constructor builds records of t with fn, whose parameters are named by
// params and loaded as required positional fields.
func Constructor(t reflect.Type, fn any, params ...string) provider.Provider {
	p, err := shape.ConstructorProvider(t, fn, params...)
	if err != nil {
		return failing(provider.And(provider.RequestIs[shape.InputShapeRequest](), provider.TypeIs(t)), err)
	}

	return p
}

// NameMapping configures the layout of t.
func NameMapping(t provider.TypeHint, cfg layout.NameMapping) provider.Provider {
	return layout.MappingFor(t, cfg)
}

// Validator checks every value loaded for the requests accepted by pred.
// A value rejected by fn fails with a ValidationError carrying msg.
func Validator[T any](pred provider.Checker, fn func(T) bool, msg string) provider.Provider {
	check := func(value any) (any, error) {
		typed, ok := value.(T)
		if !ok {
			return nil, &loaderr.TypeLoadError{Expected: reflect.TypeFor[T]().String(), Input: value}
		}

		if !fn(typed) {
			return nil, &loaderr.ValidationError{Msg: msg, Input: value}
		}

		return value, nil
	}

	return provider.Chain(provider.ChainLast, provider.Bound(
		provider.And(provider.RequestIs[provider.LoaderRequest](), pred),
		provider.Func(func(provider.Mediator, provider.Request) (any, error) {
			return provider.Converter(check), nil
		}),
	))
}

// MappingFile reads a YAML mapping file and returns its providers. types
// binds the type names used in the file.
func MappingFile(path string, types map[string]provider.TypeHint) ([]provider.Provider, error) {
	f, err := mapping.LoadFile(path)
	if err != nil {
		return nil, configError(err)
	}

	return f.Providers(types)
}
