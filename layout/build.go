package layout

import (
	"fmt"
	"maps"
	"reflect"
	"slices"
	"strings"

	"crownbind/crown"
	"crownbind/internal/diagnostic"
	"crownbind/internal/naming"
	"crownbind/provider"
	"crownbind/shape"
)

// InpExtraMove is where collected unknown input goes: nil, ExtraTargets,
// ExtraKwargs or ExtraSaturate.
type InpExtraMove interface {
	inpExtraMove()
}

// OutExtraMove is where unknown output data comes from: nil, ExtraTargets
// or ExtraExtract.
type OutExtraMove interface {
	outExtraMove()
}

// ExtraTargets names the fields holding unknown data.
type ExtraTargets struct {
	Fields []string
}

// ExtraKwargs hands unknown data to the constructor.
type ExtraKwargs struct{}

// ExtraSaturate hands unknown data to Func after construction.
type ExtraSaturate struct {
	Func func(record any, extra map[string]any) (any, error)
}

// ExtraExtract computes unknown output data from the whole record.
type ExtraExtract struct {
	Func func(record any) (map[string]any, error)
}

func (ExtraTargets) inpExtraMove()  {}
func (ExtraTargets) outExtraMove()  {}
func (ExtraKwargs) inpExtraMove()   {}
func (ExtraSaturate) inpExtraMove() {}
func (ExtraExtract) outExtraMove()  {}

// InputLayout is the input crown of a record and the routing of its
// unknown data.
type InputLayout struct {
	Crown crown.InpCrown
	Extra InpExtraMove
}

// OutputLayout is the output crown of a record and the source of its
// unknown data.
type OutputLayout struct {
	Crown crown.OutCrown
	Extra OutExtraMove
}

// namer applies one NameMapping to the fields of one shape.
type namer struct {
	cfg     NameMapping
	subject string
	known   []string
	skip    map[string]bool
	only    map[string]bool
	diags   *diagnostic.Diagnostics
}

func newNamer(cfg NameMapping, subject string, known []string, diags *diagnostic.Diagnostics) *namer {
	n := &namer{cfg: cfg, subject: subject, known: known, diags: diags, skip: map[string]bool{}}

	for _, id := range cfg.Skip {
		n.skip[id] = true
	}

	if cfg.Only != nil {
		n.only = map[string]bool{}
		for _, id := range cfg.Only {
			n.only[id] = true
		}
	}

	n.checkKnown("skip", cfg.Skip)
	n.checkKnown("only", cfg.Only)
	n.checkKnown("omit_default", slices.DeleteFunc(slices.Clone(cfg.OmitDefault), func(id string) bool {
		return id == AllFields
	}))

	for _, id := range slices.Sorted(maps.Keys(cfg.Map)) {
		n.checkKnown("map", []string{id})

		if len(cfg.Map[id]) == 0 {
			diags.AddError("empty_path", "field can not be mapped to the root", subject, id)
		}
	}

	for _, id := range slices.Sorted(maps.Keys(cfg.Sieves)) {
		n.checkKnown("sieves", []string{id})
	}

	return n
}

func (n *namer) checkKnown(option string, ids []string) {
	for _, id := range ids {
		if slices.Contains(n.known, id) {
			continue
		}

		n.diags.AddError("unknown_field",
			fmt.Sprintf("%s refers to unknown field %q", option, id),
			n.subject, "", naming.Suggest(id, n.known, 3).Names()...)
	}
}

func jsonName(tag reflect.StructTag) (name string, hidden bool) {
	v, ok := tag.Lookup("json")
	if !ok {
		return "", false
	}

	name, _, _ = strings.Cut(v, ",")

	return name, name == "-"
}

func (n *namer) excluded(f shape.Field) bool {
	if n.skip[f.ID] {
		return true
	}

	if _, hidden := jsonName(f.Tag); hidden {
		return true
	}

	if n.only != nil && !n.only[f.ID] {
		return true
	}

	if n.cfg.OnlyMapped != nil && *n.cfg.OnlyMapped {
		if _, ok := n.cfg.Map[f.ID]; !ok {
			return true
		}
	}

	return false
}

func (n *namer) path(f shape.Field) crown.Path {
	if p, ok := n.cfg.Map[f.ID]; ok {
		return p
	}

	if name, _ := jsonName(f.Tag); name != "" {
		return crown.Path{crown.Name(name)}
	}

	name := f.ID
	if n.cfg.TrimTrailingUnderscore == nil || *n.cfg.TrimTrailingUnderscore {
		name = naming.TrimTrailingUnderscore(name)
	}

	if n.cfg.NameStyle != nil {
		name = n.cfg.NameStyle.Convert(name)
	}

	return crown.Path{crown.Name(name)}
}

func (n *namer) targets(fields []string, option string) map[string]bool {
	n.checkKnown(option, fields)

	set := make(map[string]bool, len(fields))
	for _, id := range fields {
		set[id] = true

		if _, ok := n.cfg.Map[id]; ok {
			n.diags.AddError("double_mapping", "extra target can not be mapped to a path", n.subject, id)
		}
	}

	return set
}

func subjectOf(t provider.TypeHint) string {
	return provider.HintName(t)
}

// BuildInput computes the input layout of s under cfg.
func BuildInput(s *shape.Input, cfg NameMapping) (*InputLayout, error) {
	var diags diagnostic.Diagnostics

	subject := subjectOf(s.Type)
	n := newNamer(cfg, subject, s.FieldIDs(), &diags)

	policy := crown.PolicySkip

	var (
		move    InpExtraMove
		targets map[string]bool
	)

	switch extra := cfg.ExtraIn.(type) {
	case nil, InSkip:
	case InForbid:
		policy = crown.PolicyForbid
	case InTargets:
		if len(extra.Fields) == 0 {
			diags.AddError("no_targets", "extra targets list is empty", subject, "")
		}

		policy = crown.PolicyCollect
		targets = n.targets(extra.Fields, "extra_in")
		move = ExtraTargets{Fields: extra.Fields}
	case InKwargs:
		if !s.Kwargs {
			diags.AddError("no_kwargs", "constructor does not accept extra arguments", subject, "")
		}

		policy = crown.PolicyCollect
		move = ExtraKwargs{}
	case InSaturate:
		if extra.Func == nil {
			diags.AddError("no_saturate", "saturate function is nil", subject, "")
		}

		policy = crown.PolicyCollect
		move = ExtraSaturate{Func: extra.Func}
	}

	var leaves crown.PathsTo[crown.InpCrown]

	for _, f := range s.Fields {
		if targets[f.ID] {
			continue
		}

		if n.excluded(f) {
			if f.Required && f.Default == nil {
				diags.AddError("skipped_required", "required field can not be excluded from input", subject, f.ID)
			}

			continue
		}

		leaves = append(leaves, crown.Entry[crown.InpCrown]{Path: n.path(f), Value: &crown.InpField{ID: f.ID}})
	}

	if err := diags.Err(); err != nil {
		return nil, err
	}

	root, err := crown.InputBuilder{DefaultPolicy: policy}.Build(leaves)
	if err != nil {
		return nil, err
	}

	if _, isList := root.(*crown.InpList); isList {
		switch move.(type) {
		case ExtraKwargs, ExtraSaturate:
			diags.AddError("list_extra", "unknown data of a sequence can not be passed as keyword data", subject, "")

			return nil, diags.Err()
		}
	}

	return &InputLayout{Crown: root, Extra: move}, nil
}

// BuildOutput computes the output layout of s under cfg. Without ExtraOut,
// fields collecting unknown input data are dumped back as unknown data.
func BuildOutput(s *shape.Output, cfg NameMapping) (*OutputLayout, error) {
	var diags diagnostic.Diagnostics

	subject := subjectOf(s.Type)
	n := newNamer(cfg, subject, s.FieldIDs(), &diags)

	extraOut := cfg.ExtraOut
	if in, ok := cfg.ExtraIn.(InTargets); ok && extraOut == nil {
		extraOut = OutTargets(in)
	}

	var (
		move    OutExtraMove
		targets map[string]bool
	)

	switch extra := extraOut.(type) {
	case nil, OutSkip:
	case OutTargets:
		targets = n.targets(extra.Fields, "extra_out")
		move = ExtraTargets{Fields: extra.Fields}
	case OutExtract:
		if extra.Func == nil {
			diags.AddError("no_extract", "extract function is nil", subject, "")
		}

		move = ExtraExtract{Func: extra.Func}
	}

	omitAll := slices.Contains(cfg.OmitDefault, AllFields)

	var (
		leaves crown.PathsTo[crown.OutCrown]
		sieves crown.PathsTo[crown.Sieve]
	)

	for _, f := range s.Fields {
		if targets[f.ID] || n.excluded(f.Field) {
			continue
		}

		path := n.path(f.Field)
		leaves = append(leaves, crown.Entry[crown.OutCrown]{Path: path, Value: &crown.OutField{ID: f.ID}})

		var filters []crown.Sieve

		switch {
		case slices.Contains(cfg.OmitDefault, f.ID) && f.Default == nil:
			diags.AddError("no_default", "omit_default needs a field with a default", subject, f.ID)
		case (omitAll || slices.Contains(cfg.OmitDefault, f.ID)) && f.Default != nil:
			filters = append(filters, OmitDefault(f.Default))
		}

		if custom, ok := cfg.Sieves[f.ID]; ok && custom != nil {
			filters = append(filters, custom)
		}

		if len(filters) > 0 {
			sieves = append(sieves, crown.Entry[crown.Sieve]{Path: path, Value: allOf(filters)})
		}
	}

	if err := diags.Err(); err != nil {
		return nil, err
	}

	root, err := crown.OutputBuilder{Sieves: sieves}.Build(leaves)
	if err != nil {
		return nil, err
	}

	if _, isList := root.(*crown.OutList); isList && move != nil {
		diags.AddError("list_extra", "unknown data can not be merged into a sequence", subject, "")

		return nil, diags.Err()
	}

	return &OutputLayout{Crown: root, Extra: move}, nil
}

func allOf(sieves []crown.Sieve) crown.Sieve {
	if len(sieves) == 1 {
		return sieves[0]
	}

	return func(v any) bool {
		for _, s := range sieves {
			if !s(v) {
				return false
			}
		}

		return true
	}
}

// OmitDefault is a sieve dropping values equal to the default. Empty
// slices and maps match an empty default whether nil or not.
func OmitDefault(d *shape.Default) crown.Sieve {
	return func(v any) bool {
		return !sameAsDefault(v, d.Get())
	}
}

func sameAsDefault(v, def any) bool {
	rv, rd := reflect.ValueOf(v), reflect.ValueOf(def)
	if rv.IsValid() && rd.IsValid() && rv.Type() == rd.Type() {
		switch rv.Kind() {
		case reflect.Slice, reflect.Map:
			if rv.Len() == 0 && rd.Len() == 0 {
				return true
			}
		}
	}

	return reflect.DeepEqual(v, def)
}
