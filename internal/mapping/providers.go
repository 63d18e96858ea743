package mapping

import (
	"crownbind/crown"
	"crownbind/internal/naming"
	"crownbind/layout"
	"crownbind/morph"
	"crownbind/provider"
)

// NameMapping converts tm into the layout configuration it stands for.
func (tm *TypeMapping) NameMapping() (layout.NameMapping, error) {
	cfg := layout.NameMapping{
		Skip:                   tm.Skip,
		OnlyMapped:             tm.OnlyMapped,
		TrimTrailingUnderscore: tm.TrimTrailingUnderscore,
		OmitDefault:            tm.OmitDefault,
	}

	if tm.Only != nil {
		cfg.Only = tm.Only
	}

	if len(tm.Map) > 0 {
		cfg.Map = make(map[string]crown.Path, len(tm.Map))

		for id, raw := range tm.Map {
			path, err := ParsePath(raw)
			if err != nil {
				return layout.NameMapping{}, err
			}

			cfg.Map[id] = path
		}
	}

	if tm.NameStyle != "" {
		style, err := naming.ParseStyle(tm.NameStyle)
		if err != nil {
			return layout.NameMapping{}, err
		}

		cfg.NameStyle = &style
	}

	switch tm.ExtraIn.Policy {
	case PolicySkip:
		cfg.ExtraIn = layout.InSkip{}
	case PolicyForbid:
		cfg.ExtraIn = layout.InForbid{}
	case PolicyKwargs:
		cfg.ExtraIn = layout.InKwargs{}
	case PolicyTargets:
		cfg.ExtraIn = layout.InTargets{Fields: tm.ExtraIn.Targets}
	}

	switch tm.ExtraOut.Policy {
	case PolicySkip:
		cfg.ExtraOut = layout.OutSkip{}
	case PolicyTargets:
		cfg.ExtraOut = layout.OutTargets{Fields: tm.ExtraOut.Targets}
	}

	return cfg, nil
}

// Providers validates f and returns one name mapping provider per entry,
// plus the configuration values the entries set. types binds the names
// used in the file.
func (f *File) Providers(types map[string]provider.TypeHint) ([]provider.Provider, error) {
	if err := Validate(f, types).Err(); err != nil {
		return nil, err
	}

	var out []provider.Provider

	for i := range f.Mappings {
		tm := &f.Mappings[i]
		t := types[tm.Type]

		cfg, err := tm.NameMapping()
		if err != nil {
			return nil, err
		}

		out = append(out, layout.MappingFor(t, cfg))

		if tm.DebugTrail != "" {
			trail, err := morph.ParseDebugTrail(tm.DebugTrail)
			if err != nil {
				return nil, err
			}

			out = append(out, provider.Bound(provider.TypeIs(t), provider.Value[morph.DebugTrailRequest](trail)))
		}

		if tm.Strict != nil {
			out = append(out, provider.Bound(provider.TypeIs(t), provider.Value[morph.StrictCoercionRequest](*tm.Strict)))
		}

		if tm.OmitAbsent != nil {
			out = append(out, provider.Bound(provider.TypeIs(t), provider.Value[morph.OmitAbsentRequest](*tm.OmitAbsent)))
		}
	}

	return out, nil
}
