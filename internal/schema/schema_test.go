package schema_test

import (
	"reflect"
	"testing"
	"time"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crownbind/internal/common"
	"crownbind/internal/schema"
	"crownbind/retort"
	"crownbind/shape"
)

const library = `
records:
  - name: Book
    open: true
    fields:
      - {name: id, type: int}
      - {name: title, type: string, optional: true, default: untitled}
      - {name: tags, type: "[]string", optional: true}
      - {name: author, type: Author}
      - {name: reviews, type: "[]Review", optional: true}
      - {name: scores, type: "map[string]float64", optional: true}
      - name: meta
        optional: true
        record:
          fields:
            - {name: pages, type: int}
            - {name: published, type: time, optional: true}
  - name: Author
    fields:
      - {name: name, type: string}
  - name: Review
    fields:
      - {name: stars, type: uint8}
      - {name: took, type: duration, optional: true}
  - name: BookMeta
    fields: []
`

func build(t *testing.T, src string) *schema.Schema {
	t.Helper()

	f, err := schema.Parse([]byte(src))
	require.NoError(t, err)

	s, err := f.Build()
	require.NoError(t, err)

	return s
}

func TestBuild(t *testing.T) {
	s := build(t, library)

	assert.Equal(t, []string{"Book", "Author", "Review", "BookMeta", "BookMeta1"}, s.Names())

	book, ok := s.Record("Book")
	require.True(t, ok)
	assert.True(t, book.Open)

	author, _ := s.Record("Author")
	review, _ := s.Record("Review")
	meta, _ := s.Record("BookMeta1")

	types := map[string]any{}
	for _, f := range book.Fields {
		types[f.ID] = f.Type
	}

	assert.Equal(t, map[string]any{
		"id":      reflect.TypeFor[int](),
		"title":   reflect.TypeFor[string](),
		"tags":    reflect.TypeFor[[]string](),
		"author":  author,
		"reviews": shape.SliceOf{Elem: review},
		"scores":  reflect.TypeFor[map[string]float64](),
		"meta":    meta,
	}, types)

	assert.True(t, book.Fields[0].Required)
	assert.False(t, book.Fields[1].Required)
	assert.Equal(t, "untitled", book.Fields[1].Default.Get())
	assert.Equal(t, reflect.TypeFor[time.Time](), meta.Fields[1].Type)

	assert.Len(t, s.Types(), 5)
}

func TestBuildErrors(t *testing.T) {
	f, err := schema.Parse([]byte(`
records:
  - name: Book
    fields:
      - {name: id, type: intt}
      - {name: id, type: int}
      - {type: int}
      - {name: x, type: int, record: {fields: []}}
      - {name: y, type: "map[string]Book"}
      - {name: z, type: string, default: a}
  - name: Book
    fields: []
  - name: int
    fields: []
  - fields: []
`))
	require.NoError(t, err)

	_, err = f.Build()
	require.Error(t, err)
	assert.Equal(t, errbuilder.CodeInvalidArgument, errbuilder.CodeOf(err))

	msg := common.ErrMessage(err)
	for _, code := range []string{
		"duplicate_record", "reserved_name", "missing_name", "bad_type",
		"duplicate_field", "missing_field_name", "type_and_record",
	} {
		assert.Contains(t, msg, code)
	}

	assert.Contains(t, msg, "did you mean int")
	assert.Contains(t, msg, "map values must be scalars")
}

func TestRecordsLoadAndDump(t *testing.T) {
	s := build(t, library)
	book, _ := s.Record("Book")

	r := retort.New(retort.WithStrictCoercion(false))

	load, err := r.Loader(book)
	require.NoError(t, err)

	got, err := load(map[string]any{
		"id":      "3",
		"author":  map[string]any{"name": "Le Guin"},
		"reviews": []any{map[string]any{"stars": 5, "took": "1h"}},
		"meta":    map[string]any{"pages": 300},
		"series":  "Earthsea",
	})
	require.NoError(t, err)

	assert.Equal(t, map[string]any{
		"id":      3,
		"title":   "untitled",
		"author":  map[string]any{"name": "Le Guin"},
		"reviews": []any{map[string]any{"stars": uint8(5), "took": time.Hour}},
		"meta":    map[string]any{"pages": 300},
	}, got, "unknown keys are skipped unless a mapping collects them")

	dump, err := r.Dumper(book)
	require.NoError(t, err)

	out, err := dump(got)
	require.NoError(t, err)

	record := out.(map[string]any)
	assert.Equal(t, "untitled", record["title"])
	assert.Equal(t, map[string]any{"pages": 300}, record["meta"])
	assert.NotContains(t, record, "tags")
}
