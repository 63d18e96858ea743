package shape_test

import (
	"errors"
	"reflect"
	"testing"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crownbind/provider"
	"crownbind/shape"
)

type person struct {
	ID     int
	Name   string `json:"full_name"`
	Tags   []string
	Nick   *string
	Score  float64 `crown:"optional"`
	Secret string  `crown:"-"`
	hidden int
}

type withDefaults struct {
	Level int `crown:"optional"`
	Tags  []string
}

func (w *withDefaults) SetDefaults() {
	w.Level = 3
	w.Tags = []string{"base"}
}

func TestStructInputFields(t *testing.T) {
	s, err := shape.StructInput(reflect.TypeFor[person]())
	require.NoError(t, err)

	assert.Equal(t, []string{"ID", "Name", "Tags", "Nick", "Score"}, s.FieldIDs())

	id, _ := s.Field("ID")
	assert.True(t, id.Required)
	assert.Nil(t, id.Default)

	name, _ := s.Field("Name")
	assert.Equal(t, "full_name", name.Tag.Get("json"))

	tags, _ := s.Field("Tags")
	assert.False(t, tags.Required)
	require.NotNil(t, tags.Default)
	assert.Equal(t, []string{}, tags.Default.Get())

	score, _ := s.Field("Score")
	assert.False(t, score.Required)
	assert.Equal(t, 0.0, score.Default.Get())

	_, ok := s.Field("Secret")
	assert.False(t, ok)
}

func TestStructConstructor(t *testing.T) {
	s, err := shape.StructInput(reflect.TypeFor[person]())
	require.NoError(t, err)

	rec, err := s.Constructor(shape.Args{Keyword: map[string]any{
		"ID":   1,
		"Name": "Ann",
		"Tags": []string{},
		"Nick": "annie",
	}})
	require.NoError(t, err)

	p := rec.(person)
	assert.Equal(t, 1, p.ID)
	assert.Equal(t, "Ann", p.Name)
	assert.Equal(t, []string{}, p.Tags)
	require.NotNil(t, p.Nick)
	assert.Equal(t, "annie", *p.Nick)

	_, err = s.Constructor(shape.Args{Keyword: map[string]any{"ID": "one"}})
	assert.Error(t, err)
}

func TestStructDefaultsFromPrototype(t *testing.T) {
	s, err := shape.StructInput(reflect.TypeFor[withDefaults]())
	require.NoError(t, err)

	level, _ := s.Field("Level")
	assert.Equal(t, 3, level.Default.Get())

	tags, _ := s.Field("Tags")
	first := tags.Default.Get().([]string)
	first[0] = "changed"
	assert.Equal(t, []string{"base"}, tags.Default.Get())
}

func TestStructOutputAccessors(t *testing.T) {
	s, err := shape.StructOutput(reflect.TypeFor[person]())
	require.NoError(t, err)

	name, ok := s.Field("Name")
	require.True(t, ok)
	assert.Equal(t, shape.AccessAttr, name.Accessor.Kind)

	rec := person{ID: 7, Name: "Bob"}

	v, present, err := name.Accessor.Get(rec)
	require.NoError(t, err)
	assert.True(t, present)
	assert.Equal(t, "Bob", v)

	v, _, err = name.Accessor.Get(&rec)
	require.NoError(t, err)
	assert.Equal(t, "Bob", v)

	_, _, err = name.Accessor.Get("not a person")
	assert.Error(t, err)
}

func TestStructProvider(t *testing.T) {
	recipe := provider.Recipe{shape.StructProvider()}

	in, err := provider.ResolveAs[*shape.Input](recipe, shape.InputShapeRequest{Type: reflect.TypeFor[person]()})
	require.NoError(t, err)
	assert.Len(t, in.Fields, 5)

	_, err = provider.Resolve(recipe, shape.InputShapeRequest{Type: reflect.TypeFor[int]()})
	assert.Error(t, err)

	_, err = provider.Resolve(recipe, shape.OutputShapeRequest{Type: reflect.TypeFor[struct{ x int }]()})
	assert.Error(t, err)
}

func TestRecordShapes(t *testing.T) {
	rec := &shape.Record{
		Name: "Point",
		Open: true,
		Fields: []shape.Field{
			{ID: "x", Type: reflect.TypeFor[int](), Required: true},
			{ID: "label", Type: reflect.TypeFor[string](), Default: &shape.Default{Value: ""}},
		},
	}

	in, err := provider.ResolveAs[*shape.Input](provider.Recipe{shape.DynamicProvider()}, shape.InputShapeRequest{Type: rec})
	require.NoError(t, err)
	assert.True(t, in.Kwargs)

	built, err := in.Constructor(shape.Args{
		Keyword: map[string]any{"x": 1},
		Extra:   map[string]any{"color": "red"},
	})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"x": 1, "color": "red"}, built)

	out := rec.Output()
	label, _ := out.Field("label")
	_, present, err := label.Accessor.Get(map[string]any{"x": 1})
	require.NoError(t, err)
	assert.False(t, present)

	x, _ := out.Field("x")
	_, _, err = x.Accessor.Get(map[string]any{})
	assert.Error(t, err)

	assert.Equal(t, "[]Point", shape.SliceOf{Elem: rec}.String())
}

type point struct{ X, Y int }

func TestFromFunc(t *testing.T) {
	errNeg := errors.New("negative")
	mk := func(x, y int) (point, error) {
		if x < 0 {
			return point{}, errNeg
		}

		return point{X: x, Y: y}, nil
	}

	s, err := shape.FromFunc(mk, "x", "y")
	require.NoError(t, err)
	assert.Equal(t, reflect.TypeFor[point](), s.Type)
	assert.Equal(t, shape.ParamPositional, s.Params[1].Kind)

	got, err := s.Constructor(shape.Args{Positional: []any{1, 2}})
	require.NoError(t, err)
	assert.Equal(t, point{X: 1, Y: 2}, got)

	_, err = s.Constructor(shape.Args{Positional: []any{-1, 2}})
	assert.ErrorIs(t, err, errNeg)

	_, err = shape.FromFunc(mk, "x")
	require.Error(t, err)
	assert.Equal(t, errbuilder.CodeInvalidArgument, errbuilder.CodeOf(err))

	_, err = shape.ConstructorProvider(reflect.TypeFor[person](), mk, "x", "y")
	assert.Error(t, err)

	p, err := shape.ConstructorProvider(reflect.TypeFor[point](), mk, "x", "y")
	require.NoError(t, err)

	in, err := provider.ResolveAs[*shape.Input](provider.Recipe{p}, shape.InputShapeRequest{Type: reflect.TypeFor[point]()})
	require.NoError(t, err)
	assert.Equal(t, []string{"x", "y"}, in.FieldIDs())
}
