package morph

import (
	"reflect"

	"crownbind/crown"
	"crownbind/loaderr"
)

// asMapping accepts map[string]any and any other map keyed by strings.
func asMapping(data any) (map[string]any, bool) {
	if m, ok := data.(map[string]any); ok {
		return m, true
	}

	v := reflect.ValueOf(data)
	if v.Kind() != reflect.Map || v.Type().Key().Kind() != reflect.String {
		return nil, false
	}

	out := make(map[string]any, v.Len())

	iter := v.MapRange()
	for iter.Next() {
		out[iter.Key().String()] = iter.Value().Interface()
	}

	return out, true
}

// asSequence accepts slices and arrays. Text is not a sequence in strict
// mode; otherwise a string is read as a sequence of one-rune strings.
func asSequence(data any, strict bool, trail crown.Path) ([]any, error) {
	switch v := data.(type) {
	case []any:
		return v, nil
	case string:
		if strict {
			return nil, &loaderr.ExcludedTypeLoadError{
				Base: loaderr.Base{Path: trail}, Expected: "sequence", Excluded: "string", Input: data,
			}
		}

		out := make([]any, 0, len(v))
		for _, r := range v {
			out = append(out, string(r))
		}

		return out, nil
	case []byte:
		if strict {
			return nil, &loaderr.ExcludedTypeLoadError{
				Base: loaderr.Base{Path: trail}, Expected: "sequence", Excluded: "bytes", Input: data,
			}
		}
	}

	rv := reflect.ValueOf(data)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, &loaderr.TypeLoadError{Base: loaderr.Base{Path: trail}, Expected: "sequence", Input: data}
	}

	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}

	return out, nil
}

// joinErrs folds the errors of one branch; the root aggregate flattens the
// nesting.
func joinErrs(errs []error) error {
	if len(errs) == 1 {
		return errs[0]
	}

	return loaderr.Aggregate("", errs)
}
