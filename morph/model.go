package morph

import (
	"crownbind/crown"
	"crownbind/layout"
	"crownbind/provider"
	"crownbind/shape"
)

func declineBecause(err error, format string, args ...any) error {
	cp, ok := provider.AsCannotProvide(err)
	if !ok {
		return err
	}

	return provider.Decline(format, args...).Because(cp)
}

func fieldLoc(owner provider.TypeHint, f shape.Field) provider.Loc {
	return provider.Loc{Type: f.Type, FieldID: f.ID, Owner: owner, Optional: !f.Required}
}

// ModelLoaderProvider serves LoaderRequests of types with an input shape.
// Every field loader is resolved through the mediator, so field level
// recipe entries apply.
func ModelLoaderProvider() provider.Provider {
	return provider.Func(func(m provider.Mediator, req provider.Request) (any, error) {
		r, ok := req.(provider.LoaderRequest)
		if !ok {
			return nil, provider.Decline("not a loader request")
		}

		t := r.Loc.Type

		s, err := provider.ProvideAs[*shape.Input](m, shape.InputShapeRequest{Type: t})
		if err != nil {
			return nil, declineBecause(err, "no input shape for %s", provider.HintName(t))
		}

		l, err := provider.ProvideAs[*layout.InputLayout](m, layout.InputNameLayoutRequest{Type: t})
		if err != nil {
			return nil, declineBecause(err, "no input layout for %s", provider.HintName(t))
		}

		plan := LoadPlan{Shape: s, Layout: l, Loaders: make(map[string]Loader)}

		var failed []*provider.CannotProvide

		for _, id := range plan.FieldIDs() {
			f, ok := s.Field(id)
			if !ok {
				continue
			}

			load, err := provider.ProvideAs[Loader](m, provider.LoaderRequest{Loc: fieldLoc(t, f)})
			if err != nil {
				cp, ok := provider.AsCannotProvide(err)
				if !ok {
					return nil, err
				}

				failed = append(failed, provider.Decline("field %s", id).Because(cp))

				continue
			}

			plan.Loaders[id] = load
		}

		if len(failed) > 0 {
			return nil, provider.Decline("can not create loaders for fields of %s", provider.HintName(t)).
				Because(failed...)
		}

		if plan.Trail, err = DebugTrailFor(m, t); err != nil {
			return nil, err
		}

		if plan.Strict, err = StrictCoercionFor(m, t); err != nil {
			return nil, err
		}

		load, err := CompileLoader(plan)
		if err != nil {
			return nil, err
		}

		provider.LoggerOf(m).Debug().
			Str("type", provider.HintName(t)).
			Int("fields", len(plan.Loaders)).
			Stringer("trail", plan.Trail).
			Msg("loader compiled")

		return load, nil
	})
}

// ModelDumperProvider serves DumperRequests of types with an output shape.
func ModelDumperProvider() provider.Provider {
	return provider.Func(func(m provider.Mediator, req provider.Request) (any, error) {
		r, ok := req.(provider.DumperRequest)
		if !ok {
			return nil, provider.Decline("not a dumper request")
		}

		t := r.Loc.Type

		s, err := provider.ProvideAs[*shape.Output](m, shape.OutputShapeRequest{Type: t})
		if err != nil {
			return nil, declineBecause(err, "no output shape for %s", provider.HintName(t))
		}

		l, err := provider.ProvideAs[*layout.OutputLayout](m, layout.OutputNameLayoutRequest{Type: t})
		if err != nil {
			return nil, declineBecause(err, "no output layout for %s", provider.HintName(t))
		}

		plan := DumpPlan{Shape: s, Layout: l, Dumpers: make(map[string]Dumper)}

		var failed []*provider.CannotProvide

		for _, e := range crownFieldIDs(l) {
			f, ok := s.Field(e)
			if !ok {
				continue
			}

			dump, err := provider.ProvideAs[Dumper](m, provider.DumperRequest{Loc: fieldLoc(t, f.Field)})
			if err != nil {
				cp, ok := provider.AsCannotProvide(err)
				if !ok {
					return nil, err
				}

				failed = append(failed, provider.Decline("field %s", e).Because(cp))

				continue
			}

			plan.Dumpers[e] = dump
		}

		if len(failed) > 0 {
			return nil, provider.Decline("can not create dumpers for fields of %s", provider.HintName(t)).
				Because(failed...)
		}

		if plan.Trail, err = DebugTrailFor(m, t); err != nil {
			return nil, err
		}

		if plan.OmitAbsent, err = OmitAbsentFor(m, t); err != nil {
			return nil, err
		}

		dump, err := CompileDumper(plan)
		if err != nil {
			return nil, err
		}

		provider.LoggerOf(m).Debug().
			Str("type", provider.HintName(t)).
			Int("fields", len(plan.Dumpers)).
			Stringer("trail", plan.Trail).
			Msg("dumper compiled")

		return dump, nil
	})
}

func crownFieldIDs(l *layout.OutputLayout) []string {
	paths := crown.OutFieldPaths(l.Crown)
	ids := make([]string, len(paths))

	for i, e := range paths {
		ids[i] = e.Value
	}

	return ids
}
