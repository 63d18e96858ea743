package analyze

import (
	"fmt"
	"go/types"
	"reflect"
	"strings"

	"crownbind/internal/common"
	"crownbind/internal/diagnostic"
	"crownbind/internal/naming"
	"crownbind/internal/schema"
)

var basicNames = map[types.BasicKind]string{
	types.Bool:    "bool",
	types.Int:     "int",
	types.Int8:    "int8",
	types.Int16:   "int16",
	types.Int32:   "int32",
	types.Int64:   "int64",
	types.Uint:    "uint",
	types.Uint8:   "uint8",
	types.Uint16:  "uint16",
	types.Uint32:  "uint32",
	types.Uint64:  "uint64",
	types.Float32: "float32",
	types.Float64: "float64",
	types.String:  "string",
}

type scaffolder struct {
	dealer common.Dealer[*types.Named]
	diags  *diagnostic.Diagnostics
}

// Scaffold drafts a schema holding the records of the named struct types
// and of every struct they reach.
func (a *Analyzer) Scaffold(names ...string) (*schema.File, error) {
	s := &scaffolder{diags: &diagnostic.Diagnostics{}}

	for _, name := range names {
		named, ok := a.Lookup(name)
		if !ok {
			s.diags.AddError("unknown_type", "type is not in the loaded packages", name, "",
				naming.Suggest(name, a.names(), 3).Names()...)

			continue
		}

		if _, ok := named.Underlying().(*types.Struct); !ok {
			s.diags.AddError("not_a_struct", "only structs become records", name, "")

			continue
		}

		s.dealer.Needs(named)
	}

	f := &schema.File{}

	for named, ok := s.dealer.NextNeeds(); ok; named, ok = s.dealer.NextNeeds() {
		f.Records = append(f.Records, s.record(named))
	}

	if err := s.diags.Err(); err != nil {
		return nil, err
	}

	return f, nil
}

func (s *scaffolder) record(named *types.Named) schema.RecordDef {
	st := named.Underlying().(*types.Struct)
	def := schema.RecordDef{Name: named.Obj().Name(), Fields: []schema.FieldDef{}}

	for i := range st.NumFields() {
		field := st.Field(i)
		if !field.Exported() || field.Embedded() {
			continue
		}

		tag := reflect.StructTag(st.Tag(i))
		name, omitEmpty, hidden := jsonName(tag)

		if hidden || strings.Contains(tag.Get("crown"), "-") {
			continue
		}

		if name == "" {
			name = field.Name()
		}

		expr, nillable, err := s.typeExpr(field.Type())
		if err != nil {
			s.diags.AddError("unsupported_type", err.Error(), def.Name, field.Name())

			continue
		}

		optional := nillable || omitEmpty || strings.Contains(tag.Get("crown"), "optional")

		def.Fields = append(def.Fields, schema.FieldDef{Name: name, Type: expr, Optional: optional})
	}

	return def
}

func jsonName(tag reflect.StructTag) (name string, omitEmpty, hidden bool) {
	v, ok := tag.Lookup("json")
	if !ok {
		return "", false, false
	}

	name, opts, _ := strings.Cut(v, ",")

	return name, strings.Contains(opts, "omitempty"), name == "-"
}

// typeExpr renders t in schema type syntax. nillable is set for kinds
// whose zero value is absent data.
func (s *scaffolder) typeExpr(t types.Type) (expr string, nillable bool, err error) {
	switch tt := t.(type) {
	case *types.Basic:
		if name, ok := basicNames[tt.Kind()]; ok {
			return name, false, nil
		}
	case *types.Pointer:
		expr, _, err := s.typeExpr(tt.Elem())

		return expr, true, err
	case *types.Slice:
		elem, _, err := s.typeExpr(tt.Elem())

		return "[]" + elem, true, err
	case *types.Map:
		key, ok := tt.Key().Underlying().(*types.Basic)
		if !ok || key.Kind() != types.String {
			return "", false, fmt.Errorf("map key %s is not a string", tt.Key())
		}

		if isRecord(tt.Elem()) {
			return "", false, fmt.Errorf("map values of %s are records, only scalars are supported", tt)
		}

		elem, _, err := s.typeExpr(tt.Elem())

		return "map[string]" + elem, true, err
	case *types.Interface:
		if tt.Empty() {
			return "any", true, nil
		}
	case *types.Alias:
		return s.typeExpr(types.Unalias(tt))
	case *types.Named:
		return s.namedExpr(tt)
	}

	return "", false, fmt.Errorf("type %s has no schema equivalent", t)
}

func isTime(obj *types.TypeName) bool {
	return obj.Pkg() != nil && obj.Pkg().Path() == "time"
}

// isRecord reports whether t, behind any pointer, drafts as a record.
func isRecord(t types.Type) bool {
	if p, ok := t.(*types.Pointer); ok {
		t = p.Elem()
	}

	named, ok := types.Unalias(t).(*types.Named)
	if !ok || isTime(named.Obj()) {
		return false
	}

	_, ok = named.Underlying().(*types.Struct)

	return ok
}

func (s *scaffolder) namedExpr(named *types.Named) (string, bool, error) {
	obj := named.Obj()

	if isTime(obj) {
		switch obj.Name() {
		case "Time":
			return "time", false, nil
		case "Duration":
			return "duration", false, nil
		}
	}

	if _, ok := named.Underlying().(*types.Struct); ok {
		s.dealer.Needs(named)

		return obj.Name(), false, nil
	}

	return s.typeExpr(named.Underlying())
}
