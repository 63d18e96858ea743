package provider

import (
	"fmt"
	"reflect"
)

// Recipe is an ordered list of providers; earlier providers win.
type Recipe []Provider

// Extend returns a new recipe with providers placed before r, keeping their
// order. r is never modified.
func (r Recipe) Extend(providers ...Provider) Recipe {
	out := make(Recipe, 0, len(providers)+len(r))
	out = append(out, providers...)

	return append(out, r...)
}

// Func adapts a function to Provider.
type Func func(m Mediator, req Request) (any, error)

func (f Func) Provide(m Mediator, req Request) (any, error) {
	return f(m, req)
}

// Value serves every request of type R with v.
func Value[R Request](v any) Provider {
	want := reflect.TypeFor[R]()

	return Func(func(_ Mediator, req Request) (any, error) {
		if _, ok := req.(R); !ok {
			return nil, Decline("request %T is not %s", req, want)
		}

		return v, nil
	})
}

// Exact serves the single request equal to want with v.
func Exact(want Request, v any) Provider {
	return Func(func(_ Mediator, req Request) (any, error) {
		if !equalRequests(req, want) {
			return nil, Decline("request is not %s", Describe(want))
		}

		return v, nil
	})
}

func equalRequests(a, b Request) bool {
	if reflect.TypeOf(a) != reflect.TypeOf(b) {
		return false
	}

	return a == b
}

// Bound serves only the requests accepted by checker, delegating to p.
func Bound(checker Checker, p Provider) Provider {
	return Func(func(m Mediator, req Request) (any, error) {
		if !checker.Check(req) {
			return nil, Decline("%s does not match %s", Describe(req), checker)
		}

		return p.Provide(m, req)
	})
}

// ChainMode orders a chained converter relative to the converter the rest
// of the recipe yields.
type ChainMode int

const (
	// ChainFirst applies the chained converter before the next one.
	ChainFirst ChainMode = iota
	// ChainLast applies the chained converter after the next one.
	ChainLast
)

func (c ChainMode) String() string {
	switch c {
	case ChainFirst:
		return "first"
	case ChainLast:
		return "last"
	default:
		return fmt.Sprintf("ChainMode(%d)", int(c))
	}
}

// Chain composes the Converter produced by p with the Converter the rest of
// the recipe produces for the same request.
func Chain(mode ChainMode, p Provider) Provider {
	return Func(func(m Mediator, req Request) (any, error) {
		own, err := p.Provide(m, req)
		if err != nil {
			return nil, err
		}

		first, err := cast[Converter](req, own)
		if err != nil {
			return nil, err
		}

		next, err := ProvideFromNextAs[Converter](m, req)
		if err != nil {
			return nil, err
		}

		if mode == ChainLast {
			first, next = next, first
		}

		return Converter(func(value any) (any, error) {
			mid, err := first(value)
			if err != nil {
				return nil, err
			}

			return next(mid)
		}), nil
	})
}
