package schema

import (
	"fmt"
	"os"
	"reflect"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"crownbind/caster"
	"crownbind/internal/diagnostic"
	"crownbind/internal/naming"
	"crownbind/provider"
	"crownbind/shape"
)

// File is a parsed schema file.
type File struct {
	Records []RecordDef `yaml:"records"`
}

// RecordDef declares one record.
type RecordDef struct {
	Name   string     `yaml:"name,omitempty"`
	Open   bool       `yaml:"open,omitempty"`
	Fields []FieldDef `yaml:"fields"`
}

// FieldDef declares one record field. Either Type or Record is set.
type FieldDef struct {
	Name     string     `yaml:"name"`
	Type     string     `yaml:"type,omitempty"`
	Record   *RecordDef `yaml:"record,omitempty"`
	Optional bool       `yaml:"optional,omitempty"`
	Default  any        `yaml:"default,omitempty"`
}

var scalars = map[string]reflect.Type{
	"any":      reflect.TypeFor[any](),
	"bool":     reflect.TypeFor[bool](),
	"int":      reflect.TypeFor[int](),
	"int8":     reflect.TypeFor[int8](),
	"int16":    reflect.TypeFor[int16](),
	"int32":    reflect.TypeFor[int32](),
	"int64":    reflect.TypeFor[int64](),
	"uint":     reflect.TypeFor[uint](),
	"uint8":    reflect.TypeFor[uint8](),
	"uint16":   reflect.TypeFor[uint16](),
	"uint32":   reflect.TypeFor[uint32](),
	"uint64":   reflect.TypeFor[uint64](),
	"float32":  reflect.TypeFor[float32](),
	"float64":  reflect.TypeFor[float64](),
	"string":   reflect.TypeFor[string](),
	"time":     reflect.TypeFor[time.Time](),
	"duration": reflect.TypeFor[time.Duration](),
}

// LoadFile loads and parses a YAML schema file from the given path.
func LoadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read schema file %s: %w", path, err)
	}

	return Parse(data)
}

// Parse parses YAML data into a File.
func Parse(data []byte) (*File, error) {
	var f File

	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse schema YAML: %w", err)
	}

	return &f, nil
}

// Schema is a built set of records.
type Schema struct {
	records map[string]*shape.Record
	names   []string
}

// Record returns the record declared or derived under name.
func (s *Schema) Record(name string) (*shape.Record, bool) {
	r, ok := s.records[name]

	return r, ok
}

// Names lists every record, declared ones first, in file order.
func (s *Schema) Names() []string {
	return append([]string(nil), s.names...)
}

// Types binds every record name to its type hint, for mapping files.
func (s *Schema) Types() map[string]provider.TypeHint {
	out := make(map[string]provider.TypeHint, len(s.records))
	for name, r := range s.records {
		out[name] = r
	}

	return out
}

type builder struct {
	schema *Schema
	ns     *caster.Namespace
	diags  *diagnostic.Diagnostics
}

// Build turns the declarations into records. Every problem is reported at
// once as a configuration error.
func (f *File) Build() (*Schema, error) {
	b := &builder{
		schema: &Schema{records: map[string]*shape.Record{}},
		ns:     caster.NewNamespace(),
		diags:  &diagnostic.Diagnostics{},
	}

	for i := range f.Records {
		def := &f.Records[i]

		switch {
		case def.Name == "":
			b.diags.AddError("missing_name", fmt.Sprintf("record #%d has no name", i+1), "", "")
		case scalars[def.Name] != nil:
			b.diags.AddError("reserved_name", "record name is a scalar type", def.Name, "")
		case !b.ns.Reserve(def.Name):
			b.diags.AddError("duplicate_record", "record is declared twice", def.Name, "")
		default:
			b.add(def.Name, def.Open)
		}
	}

	for i := range f.Records {
		def := &f.Records[i]
		if r, ok := b.schema.records[def.Name]; ok && r.Fields == nil {
			b.fill(r, def)
		}
	}

	if err := b.diags.Err(); err != nil {
		return nil, err
	}

	return b.schema, nil
}

func (b *builder) add(name string, open bool) *shape.Record {
	r := &shape.Record{Name: name, Open: open}
	b.schema.records[name] = r
	b.schema.names = append(b.schema.names, name)

	return r
}

func (b *builder) fill(r *shape.Record, def *RecordDef) {
	r.Fields = make([]shape.Field, 0, len(def.Fields))
	seen := map[string]bool{}

	for _, fd := range def.Fields {
		if fd.Name == "" {
			b.diags.AddError("missing_field_name", "field has no name", r.Name, "")
			continue
		}

		if seen[fd.Name] {
			b.diags.AddError("duplicate_field", "field is declared twice", r.Name, fd.Name)
			continue
		}

		seen[fd.Name] = true

		t, ok := b.fieldType(r, fd)
		if !ok {
			continue
		}

		field := shape.Field{ID: fd.Name, Type: t, Required: !fd.Optional}
		if fd.Default != nil {
			if !fd.Optional {
				b.diags.AddWarning("default_on_required", "default of a required field is never used", r.Name, fd.Name)
			}

			field.Default = &shape.Default{Value: fd.Default}
		}

		r.Fields = append(r.Fields, field)
	}
}

func (b *builder) fieldType(owner *shape.Record, fd FieldDef) (provider.TypeHint, bool) {
	switch {
	case fd.Record != nil && fd.Type != "":
		b.diags.AddError("type_and_record", "field sets both type and record", owner.Name, fd.Name)

		return nil, false
	case fd.Record != nil:
		return b.inline(owner, fd), true
	}

	t, err := b.parseType(fd.Type)
	if err != nil {
		b.diags.AddError("bad_type", err.Error(), owner.Name, fd.Name, naming.Suggest(fd.Type, b.known(), 3).Names()...)

		return nil, false
	}

	return t, true
}

// inline builds a nested record declared in place.
func (b *builder) inline(owner *shape.Record, fd FieldDef) *shape.Record {
	name := fd.Record.Name
	if name == "" {
		name = owner.Name + naming.StylePascal.Convert(fd.Name)
	}

	if !b.ns.Reserve(name) {
		name = caster.NewStem(name, b.ns).Next()
	}

	r := b.add(name, fd.Record.Open)
	b.fill(r, fd.Record)

	return r
}

func (b *builder) known() []string {
	names := append([]string(nil), b.schema.names...)
	for name := range scalars {
		names = append(names, name)
	}

	return names
}

// parseType reads a field type expression.
func (b *builder) parseType(expr string) (provider.TypeHint, error) {
	expr = strings.TrimSpace(expr)

	switch {
	case expr == "":
		return nil, fmt.Errorf("missing type")
	case strings.HasPrefix(expr, "[]"):
		elem, err := b.parseType(expr[2:])
		if err != nil {
			return nil, err
		}

		if t, ok := elem.(reflect.Type); ok {
			return reflect.SliceOf(t), nil
		}

		return shape.SliceOf{Elem: elem}, nil
	case strings.HasPrefix(expr, "map[string]"):
		elem, err := b.parseType(expr[len("map[string]"):])
		if err != nil {
			return nil, err
		}

		t, ok := elem.(reflect.Type)
		if !ok {
			return nil, fmt.Errorf("map values must be scalars, got %s", provider.HintName(elem))
		}

		return reflect.MapOf(reflect.TypeFor[string](), t), nil
	}

	if t, ok := scalars[expr]; ok {
		return t, nil
	}

	if r, ok := b.schema.records[expr]; ok {
		return r, nil
	}

	return nil, fmt.Errorf("unknown type %q", expr)
}
