package morph_test

import (
	"reflect"
	"testing"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crownbind/crown"
	"crownbind/internal/common"
	"crownbind/layout"
	"crownbind/loaderr"
	"crownbind/morph"
	"crownbind/primitive"
	"crownbind/provider"
	"crownbind/shape"
)

type Book struct {
	ID       int      `json:"id"`
	FullName string   `json:"full_name"`
	Tags     []string `json:"tags"`
}

type Point struct {
	X float64
	Y float64
}

type Open struct {
	ID    int `json:"id"`
	Extra map[string]any
}

type Shelf struct {
	ID   int `json:"id"`
	Tags []string
}

type Span struct {
	From int
	To   *int
}

type Sections struct {
	A, B, C int
}

type CatchAll struct {
	ID   int      `json:"id"`
	Name string   `json:"full_name"`
	Tags []string `json:"tags"`
	Rest map[string]any
}

var bookType = reflect.TypeFor[Book]()

func recipe(extra ...provider.Provider) provider.Recipe {
	base := provider.Recipe{
		primitive.Provider(),
		morph.AnyProvider(),
		morph.PointerProvider(),
		morph.SliceProvider(),
		morph.MapProvider(),
		shape.StructProvider(),
		shape.DynamicProvider(),
		layout.Provider(),
		morph.ModelLoaderProvider(),
		morph.ModelDumperProvider(),
	}

	return base.Extend(extra...)
}

func loaderFor(t *testing.T, typ provider.TypeHint, extra ...provider.Provider) morph.Loader {
	t.Helper()

	load, err := provider.ResolveAs[morph.Loader](recipe(extra...), provider.LoaderRequest{Loc: provider.TypeLoc(typ)})
	require.NoError(t, err)

	return load
}

func dumperFor(t *testing.T, typ provider.TypeHint, extra ...provider.Provider) morph.Dumper {
	t.Helper()

	dump, err := provider.ResolveAs[morph.Dumper](recipe(extra...), provider.DumperRequest{Loc: provider.TypeLoc(typ)})
	require.NoError(t, err)

	return dump
}

func trails(t *testing.T, err error) []string {
	t.Helper()

	var agg *loaderr.AggregateError
	require.ErrorAs(t, err, &agg)

	out := make([]string, len(agg.Causes))
	for i, c := range agg.Causes {
		le, ok := c.(loaderr.Error)
		require.True(t, ok, "cause %d is %T", i, c)
		out[i] = le.Trail().String()
	}

	return out
}

func TestLoadBook(t *testing.T) {
	t.Parallel()

	load := loaderFor(t, bookType)

	got, err := load(map[string]any{"id": 1, "full_name": "Ann Lee", "tags": []any{"a", "b"}})
	require.NoError(t, err)
	assert.Equal(t, Book{ID: 1, FullName: "Ann Lee", Tags: []string{"a", "b"}}, got)

	got, err = load(map[string]any{"id": 2.0, "full_name": "Bo", "unknown": true})
	require.NoError(t, err)
	assert.Equal(t, Book{ID: 2, FullName: "Bo", Tags: []string{}}, got)
}

func TestLoadMissingRequired(t *testing.T) {
	t.Parallel()

	load := loaderFor(t, bookType, provider.Value[morph.DebugTrailRequest](morph.DebugTrailFirst))

	_, err := load(map[string]any{"tags": []any{}})

	var missing *loaderr.NoRequiredFieldsError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, []string{"id", "full_name"}, missing.Fields)
	assert.Empty(t, missing.Trail())
}

func TestLoadForbidExtra(t *testing.T) {
	t.Parallel()

	load := loaderFor(t, bookType,
		provider.Value[morph.DebugTrailRequest](morph.DebugTrailFirst),
		layout.MappingFor(bookType, layout.NameMapping{ExtraIn: layout.InForbid{}}),
	)

	_, err := load(map[string]any{"id": 1, "full_name": "Ann", "extra": true, "more": 1})

	var extra *loaderr.ExtraFieldsError
	require.ErrorAs(t, err, &extra)
	assert.Equal(t, []string{"extra", "more"}, extra.Fields)
	assert.Equal(t, "[]", extra.Trail().String())
}

func TestLoadCollectToTarget(t *testing.T) {
	t.Parallel()

	openType := reflect.TypeFor[Open]()
	mapping := layout.MappingFor(openType, layout.NameMapping{ExtraIn: layout.InTargets{Fields: []string{"Extra"}}})

	load := loaderFor(t, openType, mapping)

	got, err := load(map[string]any{"id": 1, "extra": true})
	require.NoError(t, err)
	assert.Equal(t, Open{ID: 1, Extra: map[string]any{"extra": true}}, got)

	dump := dumperFor(t, openType, mapping)

	out, err := dump(got)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"id": 1, "extra": true}, out)

	out, err = dump(Open{ID: 3, Extra: map[string]any{"id": 9, "note": "x"}})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"id": 3, "note": "x"}, out, "fields win over extra keys")
}

func TestLoadAggregate(t *testing.T) {
	t.Parallel()

	load := loaderFor(t, bookType)

	_, err := load(map[string]any{"id": "x", "full_name": 5, "tags": []any{"a", 2}})
	require.Error(t, err)
	assert.Equal(t, []string{`["id"]`, `["full_name"]`, `["tags", 1]`}, trails(t, err))

	var agg *loaderr.AggregateError
	require.ErrorAs(t, err, &agg)
	assert.Equal(t, "while loading morph_test.Book", agg.Msg)
	assert.False(t, agg.Unexpected)
}

func TestLoadRootTypeError(t *testing.T) {
	t.Parallel()

	_, err := loaderFor(t, bookType)("not a mapping")
	assert.Equal(t, []string{"[]"}, trails(t, err))

	_, err = loaderFor(t, bookType, provider.Value[morph.DebugTrailRequest](morph.DebugTrailNone))("not a mapping")

	var typeErr *loaderr.TypeLoadError
	require.ErrorAs(t, err, &typeErr)
	assert.Nil(t, typeErr.Trail())
}

func TestDumpSieve(t *testing.T) {
	t.Parallel()

	dump := dumperFor(t, bookType, layout.MappingFor(bookType, layout.NameMapping{OmitDefault: []string{"Tags"}}))

	out, err := dump(Book{ID: 1, FullName: "Ann"})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"id": 1, "full_name": "Ann"}, out)

	out, err = dump(&Book{ID: 1, FullName: "Ann", Tags: []string{"a"}})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"id": 1, "full_name": "Ann", "tags": []any{"a"}}, out)
}

func TestRoundTrip(t *testing.T) {
	t.Parallel()

	load := loaderFor(t, bookType)
	dump := dumperFor(t, bookType)

	books := []Book{
		{ID: 1, FullName: "Ann", Tags: []string{}},
		{ID: 2, FullName: "", Tags: []string{"x", "y"}},
	}

	for _, b := range books {
		data, err := dump(b)
		require.NoError(t, err)

		back, err := load(data)
		require.NoError(t, err)

		if diff := cmp.Diff(b, back); diff != "" {
			t.Errorf("round trip mismatch (-want +got):\n%s", diff)
		}

		again, err := dump(back)
		require.NoError(t, err)

		if diff := cmp.Diff(data, again); diff != "" {
			t.Errorf("dump is not stable (-first +second):\n%s", diff)
		}
	}
}

func TestNestedPaths(t *testing.T) {
	t.Parallel()

	pointType := reflect.TypeFor[Point]()
	mapping := layout.MappingFor(pointType, layout.NameMapping{
		Map: map[string]crown.Path{
			"X": crown.ParseKeys("pos", "x"),
			"Y": crown.ParseKeys("pos", "y"),
		},
	})

	load := loaderFor(t, pointType, mapping)

	got, err := load(map[string]any{"pos": map[string]any{"x": 1.5, "y": 2}})
	require.NoError(t, err)
	assert.Equal(t, Point{X: 1.5, Y: 2}, got)

	_, err = load(map[string]any{})
	assert.Equal(t, []string{"[]"}, trails(t, err))

	var missing *loaderr.NoRequiredFieldsError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, []string{"pos"}, missing.Fields)

	out, err := dumperFor(t, pointType, mapping)(Point{X: 1, Y: 2})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"pos": map[string]any{"x": 1.0, "y": 2.0}}, out)
}

func TestListCrown(t *testing.T) {
	t.Parallel()

	pointType := reflect.TypeFor[Point]()
	cfg := layout.NameMapping{
		Map: map[string]crown.Path{
			"X": crown.ParseKeys(0),
			"Y": crown.ParseKeys(1),
		},
	}

	load := loaderFor(t, pointType, layout.MappingFor(pointType, cfg),
		provider.Value[morph.DebugTrailRequest](morph.DebugTrailFirst))

	got, err := load([]any{1.0, 2.0, 3.0})
	require.NoError(t, err)
	assert.Equal(t, Point{X: 1, Y: 2}, got)

	_, err = load([]any{1.0})

	var short *loaderr.NoRequiredItemsError
	require.ErrorAs(t, err, &short)
	assert.Equal(t, 2, short.MinLen)

	_, err = load("12")

	var excluded *loaderr.ExcludedTypeLoadError
	require.ErrorAs(t, err, &excluded)

	cfg.ExtraIn = layout.InForbid{}
	strictLoad := loaderFor(t, pointType, layout.MappingFor(pointType, cfg),
		provider.Value[morph.DebugTrailRequest](morph.DebugTrailFirst))

	_, err = strictLoad([]any{1.0, 2.0, 3.0})

	var long *loaderr.ExtraItemsError
	require.ErrorAs(t, err, &long)
	assert.Equal(t, 2, long.MaxLen)

	out, err := dumperFor(t, pointType, layout.MappingFor(pointType, cfg))(Point{X: 1, Y: 2})
	require.NoError(t, err)
	assert.Equal(t, []any{1.0, 2.0}, out)
}

func TestLaxSequence(t *testing.T) {
	t.Parallel()

	load := loaderFor(t, bookType, provider.Value[morph.StrictCoercionRequest](false))

	got, err := load(map[string]any{"id": "7", "full_name": "Ann", "tags": "ab"})
	require.NoError(t, err)
	assert.Equal(t, Book{ID: 7, FullName: "Ann", Tags: []string{"a", "b"}}, got)
}

func TestDynamicRecord(t *testing.T) {
	t.Parallel()

	pet := &shape.Record{
		Name: "Pet",
		Fields: []shape.Field{
			{ID: "name", Type: reflect.TypeFor[string](), Required: true},
			{ID: "age", Type: reflect.TypeFor[int](), Default: &shape.Default{Value: 0}},
			{ID: "toys", Type: shape.SliceOf{Elem: reflect.TypeFor[string]()}},
		},
		Open: true,
	}
	mapping := layout.MappingFor(pet, layout.NameMapping{ExtraIn: layout.InKwargs{}})

	got, err := loaderFor(t, pet, mapping)(map[string]any{"name": "Rex", "color": "brown", "toys": []any{"ball"}})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"name": "Rex", "age": 0, "color": "brown", "toys": []any{"ball"}}, got)

	out, err := dumperFor(t, pet, mapping)(map[string]any{"name": "Rex"})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"name": "Rex"}, out)
}

func TestOmitAbsentDisabled(t *testing.T) {
	t.Parallel()

	pet := &shape.Record{
		Name:   "Pet",
		Fields: []shape.Field{{ID: "name", Type: reflect.TypeFor[string]()}},
	}

	out, err := dumperFor(t, pet, provider.Value[morph.OmitAbsentRequest](false))(map[string]any{})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"name": nil}, out)
}

func TestDumpAggregate(t *testing.T) {
	t.Parallel()

	pet := &shape.Record{
		Name: "Pet",
		Fields: []shape.Field{
			{ID: "name", Type: reflect.TypeFor[string](), Required: true},
			{ID: "age", Type: reflect.TypeFor[int](), Required: true},
		},
	}

	_, err := dumperFor(t, pet)(map[string]any{})
	require.Error(t, err)
	assert.Equal(t, []string{`["name"]`, `["age"]`}, trails(t, err))

	var agg *loaderr.AggregateError
	require.ErrorAs(t, err, &agg)
	assert.Equal(t, "while dumping Pet", agg.Msg)

	var dumpErr *loaderr.DumpError
	require.ErrorAs(t, agg.Causes[0], &dumpErr)
	assert.Contains(t, dumpErr.Cause.Error(), `required key "name" is missing`)
}

func TestNoLoaderForField(t *testing.T) {
	t.Parallel()

	type WithChan struct {
		C chan int `json:"c"`
	}

	_, err := provider.ResolveAs[morph.Loader](recipe(),
		provider.LoaderRequest{Loc: provider.TypeLoc(reflect.TypeFor[WithChan]())})
	require.Error(t, err)
	assert.Equal(t, errbuilder.CodeNotFound, errbuilder.CodeOf(err))
	assert.Contains(t, common.ErrMessage(err), "field C")
}

func TestBranchKeysAreRequired(t *testing.T) {
	t.Parallel()

	shelfType := reflect.TypeFor[Shelf]()
	load := loaderFor(t, shelfType,
		provider.Value[morph.DebugTrailRequest](morph.DebugTrailFirst),
		layout.MappingFor(shelfType, layout.NameMapping{
			Map: map[string]crown.Path{"Tags": crown.ParseKeys("meta", "tags")},
		}),
	)

	_, err := load(map[string]any{"id": 1})

	var missing *loaderr.NoRequiredFieldsError
	require.ErrorAs(t, err, &missing, "a branch holding only optional fields is still required")
	assert.Equal(t, []string{"meta"}, missing.Fields)
	assert.Equal(t, "[]", missing.Trail().String())

	got, err := load(map[string]any{"id": 1, "meta": map[string]any{}})
	require.NoError(t, err)
	assert.Equal(t, 1, got.(Shelf).ID)
	assert.Empty(t, got.(Shelf).Tags)

	_, err = load(map[string]any{"id": 1, "meta": nil})

	var typeErr *loaderr.TypeLoadError
	require.ErrorAs(t, err, &typeErr)
	assert.Equal(t, `["meta"]`, typeErr.Trail().String())
}

func TestListCrownNeedsEveryItem(t *testing.T) {
	t.Parallel()

	spanType := reflect.TypeFor[Span]()
	load := loaderFor(t, spanType,
		provider.Value[morph.DebugTrailRequest](morph.DebugTrailFirst),
		layout.MappingFor(spanType, layout.NameMapping{
			Map: map[string]crown.Path{"From": crown.ParseKeys(0), "To": crown.ParseKeys(1)},
		}),
	)

	_, err := load([]any{1})

	var short *loaderr.NoRequiredItemsError
	require.ErrorAs(t, err, &short, "the optional last item still has to be there")
	assert.Equal(t, 2, short.MinLen)

	got, err := load([]any{1, nil})
	require.NoError(t, err)
	assert.Equal(t, Span{From: 1}, got)
}

func TestNestedExtraRoundTrip(t *testing.T) {
	t.Parallel()

	openType := reflect.TypeFor[Open]()
	mapping := layout.MappingFor(openType, layout.NameMapping{
		Map:     map[string]crown.Path{"ID": crown.ParseKeys("a", "id")},
		ExtraIn: layout.InTargets{Fields: []string{"Extra"}},
	})

	input := map[string]any{"a": map[string]any{"id": 1, "x": 2}, "top": 3}

	got, err := loaderFor(t, openType, mapping)(input)
	require.NoError(t, err)
	assert.Equal(t, Open{ID: 1, Extra: map[string]any{"a": map[string]any{"x": 2}, "top": 3}}, got)

	dump := dumperFor(t, openType, mapping)

	out, err := dump(got)
	require.NoError(t, err)

	if diff := cmp.Diff(input, out); diff != "" {
		t.Errorf("nested extra lost on dump (-want +got):\n%s", diff)
	}

	out, err = dump(Open{ID: 1, Extra: map[string]any{"a": "flat"}})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"a": map[string]any{"id": 1}}, out, "a field branch wins over a scalar extra")
}

func TestAggregateSiblingBranches(t *testing.T) {
	t.Parallel()

	sectionsType := reflect.TypeFor[Sections]()
	load := loaderFor(t, sectionsType, layout.MappingFor(sectionsType, layout.NameMapping{
		Map: map[string]crown.Path{
			"A": crown.ParseKeys("a", "id"),
			"B": crown.ParseKeys("b", "id"),
			"C": crown.ParseKeys("c", "id"),
		},
	}))

	_, err := load(map[string]any{
		"a": map[string]any{},
		"b": map[string]any{"other": 1},
		"c": []any{1},
	})
	require.Error(t, err)
	assert.Equal(t, []string{`["a"]`, `["b"]`, `["c"]`}, trails(t, err))

	var agg *loaderr.AggregateError
	require.ErrorAs(t, err, &agg)
	require.Len(t, agg.Causes, 3)
	assert.IsType(t, &loaderr.NoRequiredFieldsError{}, agg.Causes[0])
	assert.IsType(t, &loaderr.NoRequiredFieldsError{}, agg.Causes[1])
	assert.IsType(t, &loaderr.TypeLoadError{}, agg.Causes[2])
	assert.False(t, agg.Unexpected)
}

func TestForbidAndCatchAll(t *testing.T) {
	t.Parallel()

	input := map[string]any{"id": 1, "full_name": "Ann", "extra": true}

	got, err := loaderFor(t, bookType)(map[string]any{"id": 1, "full_name": "Ann"})
	require.NoError(t, err)
	assert.Equal(t, Book{ID: 1, FullName: "Ann", Tags: []string{}}, got)

	_, err = loaderFor(t, bookType, layout.MappingFor(bookType, layout.NameMapping{ExtraIn: layout.InForbid{}}))(input)
	assert.Equal(t, []string{"[]"}, trails(t, err))

	var extra *loaderr.ExtraFieldsError
	require.ErrorAs(t, err, &extra)
	assert.Equal(t, []string{"extra"}, extra.Fields)

	catchAllType := reflect.TypeFor[CatchAll]()
	got, err = loaderFor(t, catchAllType, layout.MappingFor(catchAllType, layout.NameMapping{
		ExtraIn: layout.InTargets{Fields: []string{"Rest"}},
	}))(input)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"extra": true}, got.(CatchAll).Rest)
}
