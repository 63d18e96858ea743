package primitive

import (
	"crownbind/morph"
	"crownbind/provider"
)

// CoercionsRequest asks for the coercion categories loaders of Type may
// apply. When nothing answers, the strict coercion setting picks
// CategoryStrict or CategoryLax.
type CoercionsRequest struct {
	Type provider.TypeHint
}

func (r CoercionsRequest) Location() provider.Loc { return provider.TypeLoc(r.Type) }

func (r CoercionsRequest) String() string { return "coercions of " + provider.HintName(r.Type) }

func allowedFor(m provider.Mediator, t provider.TypeHint) (CategoryEnum, error) {
	allowed, err := provider.ProvideAs[CategoryEnum](m, CoercionsRequest{Type: t})
	if err == nil {
		return allowed, nil
	}

	if _, ok := provider.AsCannotProvide(err); !ok {
		return CategoryNone, err
	}

	strict, err := morph.StrictCoercionFor(m, t)
	if err != nil {
		return CategoryNone, err
	}

	if strict {
		return CategoryStrict, nil
	}

	return CategoryLax, nil
}

// Provider serves loaders and dumpers of the types FromReflectType
// classifies.
func Provider() provider.Provider {
	return provider.Func(func(m provider.Mediator, req provider.Request) (any, error) {
		switch r := req.(type) {
		case provider.LoaderRequest:
			t, ok := r.Loc.ReflectType()
			if !ok || FromReflectType(t) == 0 {
				return nil, provider.Decline("%s is not a primitive type", provider.HintName(r.Loc.Type))
			}

			allowed, err := allowedFor(m, t)
			if err != nil {
				return nil, err
			}

			load, _ := Loader(t, allowed)

			return load, nil
		case provider.DumperRequest:
			t, ok := r.Loc.ReflectType()
			if !ok || FromReflectType(t) == 0 {
				return nil, provider.Decline("%s is not a primitive type", provider.HintName(r.Loc.Type))
			}

			dump, _ := Dumper(t)

			return dump, nil
		default:
			return nil, provider.Decline("not a converter request")
		}
	})
}
