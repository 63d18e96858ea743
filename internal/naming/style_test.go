package naming

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStyleConvert(t *testing.T) {
	tests := []struct {
		style    Style
		input    string
		expected string
	}{
		{StyleAsIs, "OrderID", "OrderID"},
		{StyleSnake, "OrderID", "order_id"},
		{StyleSnake, "FullName", "full_name"},
		{StyleUpperSnake, "FullName", "FULL_NAME"},
		{StyleCamel, "FullName", "fullName"},
		{StyleCamel, "full_name", "fullName"},
		{StylePascal, "full_name", "FullName"},
		{StyleKebab, "XMLParser", "xml-parser"},
		{StyleUpperKebab, "XMLParser", "XML-PARSER"},
		{StyleLower, "FullName", "fullname"},
		{StyleUpper, "FullName", "FULLNAME"},
		{StyleDot, "FullName", "full.name"},
	}

	for _, tt := range tests {
		t.Run(tt.style.String()+"_"+tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.style.Convert(tt.input))
		})
	}
}

func TestParseStyle(t *testing.T) {
	for style, name := range styleNames {
		parsed, err := ParseStyle(name)
		require.NoError(t, err)
		assert.Equal(t, style, parsed)
	}

	parsed, err := ParseStyle("")
	require.NoError(t, err)
	assert.Equal(t, StyleAsIs, parsed)

	_, err = ParseStyle("screaming")
	assert.Error(t, err)
	assert.Equal(t, "unknown", Style(100).String())
}

func TestTrimTrailingUnderscore(t *testing.T) {
	assert.Equal(t, "type", TrimTrailingUnderscore("type_"))
	assert.Equal(t, "type", TrimTrailingUnderscore("type__"))
	assert.Equal(t, "_", TrimTrailingUnderscore("_"))
	assert.Equal(t, "name", TrimTrailingUnderscore("name"))
}

func TestSuggestFieldNames(t *testing.T) {
	known := []string{"Name", "Tags", "ID", "FullName"}

	got := Suggest("Nmae", known, 3)
	require.NotEmpty(t, got)
	assert.Equal(t, "Name", got[0].Name)

	got = Suggest("full_nam", known, 1)
	assert.Equal(t, []string{"FullName"}, got.Names())

	assert.Empty(t, Suggest("Password", known, 3))
}
