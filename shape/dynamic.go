package shape

import (
	"fmt"

	"crownbind/provider"
)

// Record is a record type declared at run time. Its instances are
// map[string]any keyed by field id. A *Record is its own TypeHint.
type Record struct {
	Name   string
	Fields []Field
	// Open records keep collected unknown data among their keys.
	Open bool
}

func (r *Record) String() string { return r.Name }

// SliceOf is the TypeHint of a []any whose items have type Elem.
type SliceOf struct {
	Elem provider.TypeHint
}

func (s SliceOf) String() string { return "[]" + provider.HintName(s.Elem) }

// Input returns the input shape of r. Open records accept unknown data as
// constructor extra arguments.
func (r *Record) Input() *Input {
	s := &Input{Type: r, Fields: r.Fields, Kwargs: r.Open}

	for _, f := range r.Fields {
		s.Params = append(s.Params, Param{FieldID: f.ID, Kind: ParamKeyword})
	}

	s.Constructor = func(args Args) (any, error) {
		out := make(map[string]any, len(args.Keyword)+len(args.Extra))

		for k, v := range args.Extra {
			out[k] = v
		}

		for k, v := range args.Keyword {
			out[k] = v
		}

		return out, nil
	}

	return s
}

// Output returns the output shape of r. Optional fields missing from an
// instance are reported as absent.
func (r *Record) Output() *Output {
	s := &Output{Type: r}

	for _, f := range r.Fields {
		id := f.ID
		s.Fields = append(s.Fields, OutField{
			Field: f,
			Accessor: Accessor{
				Kind:     AccessItem,
				Key:      id,
				Optional: !f.Required,
				Get: func(record any) (any, bool, error) {
					m, ok := record.(map[string]any)
					if !ok {
						return nil, false, fmt.Errorf("expected map[string]any record, got %T", record)
					}

					v, ok := m[id]
					if !ok && f.Required {
						return nil, false, fmt.Errorf("required key %q is missing", id)
					}

					return v, ok, nil
				},
			},
		})
	}

	return s
}

// DynamicProvider serves shape requests for *Record type hints.
func DynamicProvider() provider.Provider {
	return provider.Func(func(_ provider.Mediator, req provider.Request) (any, error) {
		switch r := req.(type) {
		case InputShapeRequest:
			if rec, ok := r.Type.(*Record); ok {
				return rec.Input(), nil
			}
		case OutputShapeRequest:
			if rec, ok := r.Type.(*Record); ok {
				return rec.Output(), nil
			}
		default:
			return nil, provider.Decline("not a shape request")
		}

		return nil, provider.Decline("%s is not a dynamic record", provider.Describe(req))
	})
}
