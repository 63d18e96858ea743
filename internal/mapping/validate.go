package mapping

import (
	"fmt"
	"maps"
	"slices"

	"crownbind/internal/diagnostic"
	"crownbind/internal/naming"
	"crownbind/morph"
	"crownbind/provider"
)

// Validate checks a mapping file. With types set, type names must be
// bound there; field names are checked later, against the shapes the
// layouts are built from.
func Validate(f *File, types map[string]provider.TypeHint) *diagnostic.Diagnostics {
	res := &diagnostic.Diagnostics{}
	if f == nil {
		res.AddError("mapping_is_nil", "mapping file is nil", "", "")
		return res
	}

	if f.Version != "1" {
		res.AddError("unsupported_version", fmt.Sprintf("unsupported version %q", f.Version), "", "")
	}

	known := slices.Sorted(maps.Keys(types))
	seen := map[string]bool{}

	for i := range f.Mappings {
		tm := &f.Mappings[i]

		if tm.Type == "" {
			res.AddError("missing_type", fmt.Sprintf("mapping #%d has no type", i+1), "", "")
			continue
		}

		if seen[tm.Type] {
			res.AddError("duplicate_type", "type is mapped twice", tm.Type, "")
		}

		seen[tm.Type] = true

		if types != nil {
			if _, ok := types[tm.Type]; !ok {
				res.AddError("unknown_type", "type is not known", tm.Type, "", naming.Suggest(tm.Type, known, 3).Names()...)
			}
		}

		validateTypeMapping(tm, res)
	}

	return res
}

func validateTypeMapping(tm *TypeMapping, res *diagnostic.Diagnostics) {
	for _, id := range slices.Sorted(maps.Keys(tm.Map)) {
		if _, err := ParsePath(tm.Map[id]); err != nil {
			res.AddError("bad_path", err.Error(), tm.Type, id)
		}
	}

	for _, id := range tm.Skip {
		if tm.Only.Contains(id) {
			res.AddWarning("skip_and_only", "field is both skipped and listed in only", tm.Type, id)
		}
	}

	if _, err := naming.ParseStyle(tm.NameStyle); err != nil {
		res.AddError("unknown_name_style", err.Error(), tm.Type, "")
	}

	if tm.DebugTrail != "" {
		if _, err := morph.ParseDebugTrail(tm.DebugTrail); err != nil {
			res.AddError("unknown_debug_trail", err.Error(), tm.Type, "")
		}
	}

	validateExtra(tm, "extra_in", tm.ExtraIn, []string{PolicySkip, PolicyForbid, PolicyKwargs, PolicyTargets}, res)
	validateExtra(tm, "extra_out", tm.ExtraOut, []string{PolicySkip, PolicyTargets}, res)
}

func validateExtra(tm *TypeMapping, option string, e Extra, allowed []string, res *diagnostic.Diagnostics) {
	if !e.IsSet() {
		return
	}

	if !slices.Contains(allowed, e.Policy) {
		res.AddError("unknown_extra_policy",
			fmt.Sprintf("%s policy %q is not one of %v", option, e.Policy, allowed),
			tm.Type, "", naming.Suggest(e.Policy, allowed, 1).Names()...)

		return
	}

	if e.Policy == PolicyTargets && len(e.Targets) == 0 {
		res.AddError("empty_targets", option+" targets list no field", tm.Type, "")
	}
}
