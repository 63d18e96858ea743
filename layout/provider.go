package layout

import (
	"crownbind/crown"
	"crownbind/provider"
	"crownbind/shape"
)

// InputNameLayoutRequest asks for the InputLayout of Type.
type InputNameLayoutRequest struct {
	Type provider.TypeHint
}

func (r InputNameLayoutRequest) Location() provider.Loc { return provider.TypeLoc(r.Type) }

func (r InputNameLayoutRequest) String() string {
	return "input layout of " + provider.HintName(r.Type)
}

// OutputNameLayoutRequest asks for the OutputLayout of Type.
type OutputNameLayoutRequest struct {
	Type provider.TypeHint
}

func (r OutputNameLayoutRequest) Location() provider.Loc { return provider.TypeLoc(r.Type) }

func (r OutputNameLayoutRequest) String() string {
	return "output layout of " + provider.HintName(r.Type)
}

// Provider builds layouts from the shape and the name mapping of a type.
func Provider() provider.Provider {
	return provider.Func(func(m provider.Mediator, req provider.Request) (any, error) {
		switch r := req.(type) {
		case InputNameLayoutRequest:
			s, err := provider.ProvideAs[*shape.Input](m, shape.InputShapeRequest{Type: r.Type})
			if err != nil {
				return nil, declineBecause(err, "no input shape for %s", provider.HintName(r.Type))
			}

			cfg, err := resolveMapping(m, r.Type)
			if err != nil {
				return nil, err
			}

			l, err := BuildInput(s, cfg)
			if err != nil {
				return nil, err
			}

			provider.LoggerOf(m).Debug().
				Str("type", provider.HintName(r.Type)).
				Int("fields", len(crown.InpFieldPaths(l.Crown))).
				Msg("input layout built")

			return l, nil
		case OutputNameLayoutRequest:
			s, err := provider.ProvideAs[*shape.Output](m, shape.OutputShapeRequest{Type: r.Type})
			if err != nil {
				return nil, declineBecause(err, "no output shape for %s", provider.HintName(r.Type))
			}

			cfg, err := resolveMapping(m, r.Type)
			if err != nil {
				return nil, err
			}

			l, err := BuildOutput(s, cfg)
			if err != nil {
				return nil, err
			}

			provider.LoggerOf(m).Debug().
				Str("type", provider.HintName(r.Type)).
				Int("fields", len(crown.OutFieldPaths(l.Crown))).
				Msg("output layout built")

			return l, nil
		default:
			return nil, provider.Decline("not a layout request")
		}
	})
}

// declineBecause wraps a sub-request decline; fatal errors pass through.
func declineBecause(err error, format string, args ...any) error {
	cp, ok := provider.AsCannotProvide(err)
	if !ok {
		return err
	}

	return provider.Decline(format, args...).Because(cp)
}
