package crown

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPathString(t *testing.T) {
	tests := []struct {
		path     Path
		expected string
	}{
		{Path{}, "[]"},
		{ParseKeys("id"), `["id"]`},
		{ParseKeys("items", 0, "id"), `["items", 0, "id"]`},
		{ParseKeys(3), "[3]"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.path.String())
		})
	}
}

func TestPathAppendDoesNotAlias(t *testing.T) {
	base := make(Path, 1, 4)
	base[0] = Name("a")

	left := base.Append(Name("b"))
	right := base.Append(Name("c"))

	assert.Equal(t, `["a", "b"]`, left.String())
	assert.Equal(t, `["a", "c"]`, right.String())
	assert.Len(t, base, 1)
}

func TestPathPrefixAndEqual(t *testing.T) {
	p := ParseKeys("a", 1, "b")

	assert.True(t, p.HasPrefix(ParseKeys("a", 1)))
	assert.True(t, p.HasPrefix(Path{}))
	assert.False(t, p.HasPrefix(ParseKeys("a", "1")))
	assert.True(t, p.Equal(ParseKeys("a", 1, "b")))
	assert.Equal(t, []any{"a", 1, "b"}, p.Values())
	assert.Equal(t, `["x", "a", 1, "b"]`, ParseKeys("x").Concat(p).String())
}

func TestParseKeysPanicsOnBadType(t *testing.T) {
	assert.Panics(t, func() { ParseKeys(1.5) })
}

func TestPathsToLookup(t *testing.T) {
	paths := PathsTo[Policy]{
		{Path: Path{}, Value: PolicyForbid},
		{Path: ParseKeys("nested"), Value: PolicyCollect},
	}

	p, ok := paths.Lookup(ParseKeys("nested"))
	assert.True(t, ok)
	assert.Equal(t, PolicyCollect, p)

	_, ok = paths.Lookup(ParseKeys("other"))
	assert.False(t, ok)
	assert.Equal(t, "Collect", PolicyCollect.String())
}
