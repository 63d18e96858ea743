package naming

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		{"", nil},
		{"id", []string{"id"}},
		{"ID", []string{"id"}},
		{"AuthorID", []string{"author", "id"}},
		{"author_id", []string{"author", "id"}},
		{"published-at", []string{"published", "at"}},
		{"meta.title", []string{"meta", "title"}},
		{"ISBNCode", []string{"isbn", "code"}},
		{"coverURL", []string{"cover", "url"}},
		{"Edition2", []string{"edition2"}},
		{"edition2Notes", []string{"edition2", "notes"}},
		{"__type__", []string{"type"}},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Tokenize(tt.input), "Tokenize(%q)", tt.input)
	}
}

func TestNormalizeIdent(t *testing.T) {
	for _, in := range []string{"AuthorID", "author_id", "author-id", "AUTHOR_ID", "authorId", "author.id"} {
		assert.Equal(t, "authorid", NormalizeIdent(in), in)
	}

	assert.Equal(t, "", NormalizeIdent("_"))
}
