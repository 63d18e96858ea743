package naming

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLevenshtein(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"", "title", 5},
		{"author", "", 6},
		{"title", "title", 0},
		{"title", "titel", 2},
		{"tags", "tag", 1},
		{"isbn", "isbm", 1},
		{"kitten", "sitting", 3},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Levenshtein(tt.a, tt.b), "%q -> %q", tt.a, tt.b)
		assert.Equal(t, tt.want, Levenshtein(tt.b, tt.a), "%q -> %q", tt.b, tt.a)
	}
}

func TestSimilarity(t *testing.T) {
	assert.InDelta(t, 1.0, Similarity("", ""), 1e-9)
	assert.InDelta(t, 1.0, Similarity("AuthorID", "author_id"), 1e-9)
	assert.InDelta(t, 1.0, Similarity("published-at", "PublishedAt"), 1e-9)
	assert.InDelta(t, 0.75, Similarity("Bok", "book"), 1e-9)
	assert.InDelta(t, 0.0, Similarity("id", "xy"), 1e-9)
	assert.Less(t, Similarity("title", "reviews"), DefaultMinScore)
}

func TestSuggest(t *testing.T) {
	known := []string{"title", "tags", "author", "published_at", "isbn"}

	assert.Equal(t, []string{"title"}, Suggest("titel", known, 3).Names())
	assert.Equal(t, []string{"published_at"}, Suggest("PublishedAt", known, 3).Names())
	assert.Equal(t, []string{"tags"}, Suggest("tag", known, 3).Names())
	assert.Empty(t, Suggest("zzz", known, 3).Names())

	ranked := Suggest("ab", []string{"abc", "abd", "abx", "a"}, 2)
	assert.Equal(t, []string{"abc", "abd"}, ranked.Names(), "ties break by name, limit applies")
}
