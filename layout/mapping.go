package layout

import (
	"maps"
	"slices"

	"crownbind/crown"
	"crownbind/internal/naming"
	"crownbind/provider"
)

// ExtraIn routes unknown input data: InSkip, InForbid, InTargets,
// InKwargs or InSaturate.
type ExtraIn interface {
	extraIn()
}

// InSkip drops unknown data.
type InSkip struct{}

// InForbid fails on unknown data.
type InForbid struct{}

// InTargets collects unknown data into the named fields.
type InTargets struct {
	Fields []string
}

// InKwargs passes unknown data to the constructor as extra arguments.
type InKwargs struct{}

// InSaturate passes unknown data to Func after the record is built.
type InSaturate struct {
	Func func(record any, extra map[string]any) (any, error)
}

func (InSkip) extraIn()     {}
func (InForbid) extraIn()   {}
func (InTargets) extraIn()  {}
func (InKwargs) extraIn()   {}
func (InSaturate) extraIn() {}

// ExtraOut says where unknown data comes from when dumping: OutSkip,
// OutTargets or OutExtract.
type ExtraOut interface {
	extraOut()
}

// OutSkip writes no unknown data.
type OutSkip struct{}

// OutTargets merges the mappings held by the named fields into the output.
type OutTargets struct {
	Fields []string
}

// OutExtract merges the mapping returned by Func into the output.
type OutExtract struct {
	Func func(record any) (map[string]any, error)
}

func (OutSkip) extraOut()    {}
func (OutTargets) extraOut() {}
func (OutExtract) extraOut() {}

// AllFields selects every field in OmitDefault.
const AllFields = "*"

// NameMapping configures the layout of one record type. Nil fields are
// unset and fall back to the mapping below in the recipe.
type NameMapping struct {
	// Skip excludes fields; it beats Only and Map.
	Skip []string
	// Only, when set, excludes every field it does not list.
	Only []string
	// OnlyMapped excludes every field missing from Map.
	OnlyMapped *bool
	// Map places fields at explicit paths.
	Map map[string]crown.Path
	// TrimTrailingUnderscore turns "type_" into "type"; on by default.
	TrimTrailingUnderscore *bool
	// NameStyle converts generated names.
	NameStyle *naming.Style
	// OmitDefault lists fields left out of the output when they hold
	// their default value; AllFields selects every field with a default.
	OmitDefault []string
	// Sieves are custom output filters per field.
	Sieves map[string]crown.Sieve
	ExtraIn  ExtraIn
	ExtraOut ExtraOut
}

// Overlay returns m with every field set in top replacing its own. Skip
// lists and Map entries are merged.
func (m NameMapping) Overlay(top NameMapping) NameMapping {
	out := m

	out.Skip = append(slices.Clone(m.Skip), top.Skip...)
	if top.Only != nil {
		out.Only = top.Only
	}

	if top.OnlyMapped != nil {
		out.OnlyMapped = top.OnlyMapped
	}

	if top.Map != nil {
		out.Map = maps.Clone(m.Map)
		if out.Map == nil {
			out.Map = make(map[string]crown.Path, len(top.Map))
		}

		maps.Copy(out.Map, top.Map)
	}

	if top.TrimTrailingUnderscore != nil {
		out.TrimTrailingUnderscore = top.TrimTrailingUnderscore
	}

	if top.NameStyle != nil {
		out.NameStyle = top.NameStyle
	}

	if top.OmitDefault != nil {
		out.OmitDefault = top.OmitDefault
	}

	if top.Sieves != nil {
		out.Sieves = maps.Clone(m.Sieves)
		if out.Sieves == nil {
			out.Sieves = make(map[string]crown.Sieve, len(top.Sieves))
		}

		maps.Copy(out.Sieves, top.Sieves)
	}

	if top.ExtraIn != nil {
		out.ExtraIn = top.ExtraIn
	}

	if top.ExtraOut != nil {
		out.ExtraOut = top.ExtraOut
	}

	return out
}

// Ptr returns a pointer to v, for the optional mapping fields.
func Ptr[T any](v T) *T {
	return &v
}

// NameMappingRequest asks for the merged NameMapping of Type.
type NameMappingRequest struct {
	Type provider.TypeHint
}

func (r NameMappingRequest) Location() provider.Loc { return provider.TypeLoc(r.Type) }

func (r NameMappingRequest) String() string {
	return "name mapping of " + provider.HintName(r.Type)
}

// Mapping serves cfg for the name mapping requests accepted by checker,
// overlaid on whatever the rest of the recipe yields.
func Mapping(checker provider.Checker, cfg NameMapping) provider.Provider {
	return provider.Bound(
		provider.And(provider.RequestIs[NameMappingRequest](), checker),
		provider.Func(func(m provider.Mediator, req provider.Request) (any, error) {
			below, err := provider.ProvideFromNextAs[*NameMapping](m, req)
			if err != nil {
				if _, ok := provider.AsCannotProvide(err); !ok {
					return nil, err
				}

				merged := cfg

				return &merged, nil
			}

			merged := below.Overlay(cfg)

			return &merged, nil
		}),
	)
}

// MappingFor serves cfg for the record type t.
func MappingFor(t provider.TypeHint, cfg NameMapping) provider.Provider {
	return Mapping(provider.TypeIs(t), cfg)
}

// resolveMapping returns the mapping of t, or an empty one when no
// provider has any.
func resolveMapping(m provider.Mediator, t provider.TypeHint) (NameMapping, error) {
	cfg, err := provider.ProvideAs[*NameMapping](m, NameMappingRequest{Type: t})
	if err != nil {
		if _, ok := provider.AsCannotProvide(err); ok {
			return NameMapping{}, nil
		}

		return NameMapping{}, err
	}

	return *cfg, nil
}
