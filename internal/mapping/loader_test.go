package mapping

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crownbind/crown"
	"crownbind/internal/naming"
	"crownbind/layout"
	"crownbind/provider"
)

const bookYAML = `
mappings:
  - type: Book
    name_style: snake
    skip: Internal
    map:
      Title: meta.title
      Lat: coords[0]
    omit_default: "*"
    extra_in: forbid
    extra_out: {targets: [Extra]}
    debug_trail: first
    strict: false
  - type: Author
    only: [Name, Born]
    extra_in:
      targets: Rest
`

func TestParse(t *testing.T) {
	f, err := Parse([]byte(bookYAML))
	require.NoError(t, err)

	assert.Equal(t, "1", f.Version)
	require.Len(t, f.Mappings, 2)

	book := f.Mappings[0]
	assert.Equal(t, "Book", book.Type)
	assert.Equal(t, StringOrArray{"Internal"}, book.Skip)
	assert.Equal(t, "meta.title", book.Map["Title"])
	assert.Equal(t, StringOrArray{"*"}, book.OmitDefault)
	assert.Equal(t, Extra{Policy: PolicyForbid}, book.ExtraIn)
	assert.Equal(t, Extra{Policy: PolicyTargets, Targets: []string{"Extra"}}, book.ExtraOut)
	require.NotNil(t, book.Strict)
	assert.False(t, *book.Strict)

	author := f.Mappings[1]
	assert.Equal(t, StringOrArray{"Name", "Born"}, author.Only)
	assert.Equal(t, Extra{Policy: PolicyTargets, Targets: []string{"Rest"}}, author.ExtraIn)
	assert.False(t, author.ExtraOut.IsSet())
}

func TestParseErrors(t *testing.T) {
	_, err := Parse([]byte("mappings: [{type: A, skip: {a: b}}]"))
	require.Error(t, err)

	_, err = Parse([]byte("mappings: [{type: A, extra_in: [a]}]"))
	require.Error(t, err)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestWriteFileRoundTrip(t *testing.T) {
	f, err := Parse([]byte(bookYAML))
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "mapping.yaml")
	require.NoError(t, WriteFile(f, path))

	_, err = os.Stat(path)
	require.NoError(t, err)

	back, err := LoadFile(path)
	require.NoError(t, err)

	if diff := cmp.Diff(f, back); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestParsePath(t *testing.T) {
	tests := []struct {
		in   string
		want crown.Path
	}{
		{"title", crown.ParseKeys("title")},
		{"meta.title", crown.ParseKeys("meta", "title")},
		{"coords[1]", crown.ParseKeys("coords", 1)},
		{"[0]", crown.ParseKeys(0)},
		{"rows[0][2].cell", crown.ParseKeys("rows", 0, 2, "cell")},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParsePath(tt.in)
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "got %s", got)
			assert.Equal(t, tt.in, FormatPath(got))
		})
	}

	for _, bad := range []string{"", "a..b", "a[", "a[x]", "a[-1]", "a]", "a.[0]", "a[0]b"} {
		_, err := ParsePath(bad)
		assert.Error(t, err, bad)
	}
}

func TestValidate(t *testing.T) {
	f, err := Parse([]byte(`
version: "2"
mappings:
  - type: Bok
    name_style: shouting
    map: {Title: "a..b"}
    extra_in: forbidden
    extra_out: kwargs
    debug_trail: verbose
  - type: Bok
  - skip: [A]
  - type: Book
    skip: [A]
    only: [A]
    extra_in: {targets: []}
`))
	require.NoError(t, err)

	diags := Validate(f, map[string]provider.TypeHint{"Book": reflect.TypeFor[struct{}]()})

	codes := make([]string, 0, len(diags.Errors))
	for _, d := range diags.Errors {
		codes = append(codes, d.Code)
	}

	assert.Equal(t, []string{
		"unsupported_version",
		"unknown_type",
		"bad_path",
		"unknown_name_style",
		"unknown_debug_trail",
		"unknown_extra_policy",
		"unknown_extra_policy",
		"duplicate_type",
		"unknown_type",
		"missing_type",
		"empty_targets",
	}, codes)

	assert.Equal(t, []string{"Book"}, diags.Errors[1].Suggestions)
	assert.Equal(t, []string{"forbid"}, diags.Errors[5].Suggestions)

	require.Len(t, diags.Warnings, 1)
	assert.Equal(t, "skip_and_only", diags.Warnings[0].Code)

	require.Error(t, diags.Err())
	assert.False(t, Validate(&File{Version: "1"}, nil).HasErrors())
	assert.True(t, Validate(nil, nil).HasErrors())
}

func TestNameMapping(t *testing.T) {
	f, err := Parse([]byte(bookYAML))
	require.NoError(t, err)

	cfg, err := f.Mappings[0].NameMapping()
	require.NoError(t, err)

	require.NotNil(t, cfg.NameStyle)
	assert.Equal(t, naming.StyleSnake, *cfg.NameStyle)
	assert.Equal(t, []string{"Internal"}, cfg.Skip)
	assert.True(t, crown.ParseKeys("meta", "title").Equal(cfg.Map["Title"]))
	assert.True(t, crown.ParseKeys("coords", 0).Equal(cfg.Map["Lat"]))
	assert.Equal(t, layout.InForbid{}, cfg.ExtraIn)
	assert.Equal(t, layout.OutTargets{Fields: []string{"Extra"}}, cfg.ExtraOut)
	assert.Nil(t, cfg.Only)

	cfg, err = f.Mappings[1].NameMapping()
	require.NoError(t, err)
	assert.Equal(t, []string{"Name", "Born"}, cfg.Only)
	assert.Equal(t, layout.InTargets{Fields: []string{"Rest"}}, cfg.ExtraIn)
	assert.Nil(t, cfg.ExtraOut)
}

func TestProviders(t *testing.T) {
	f, err := Parse([]byte(bookYAML))
	require.NoError(t, err)

	_, err = f.Providers(map[string]provider.TypeHint{"Book": "book"})
	require.Error(t, err, "Author is not bound")

	ps, err := f.Providers(map[string]provider.TypeHint{"Book": "book", "Author": "author"})
	require.NoError(t, err)
	assert.Len(t, ps, 4)

	cfg, err := provider.ResolveAs[*layout.NameMapping](ps, layout.NameMappingRequest{Type: "book"})
	require.NoError(t, err)
	assert.Equal(t, layout.InForbid{}, cfg.ExtraIn)

	_, err = provider.ResolveAs[*layout.NameMapping](ps, layout.NameMappingRequest{Type: "other"})
	require.Error(t, err)
}
