package naming

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"crownbind/internal/common"
)

// Style is an external naming convention applied to field identifiers.
type Style int

const (
	// StyleAsIs keeps the identifier unchanged.
	StyleAsIs Style = iota
	// StyleSnake - order_id.
	StyleSnake
	// StyleUpperSnake - ORDER_ID.
	StyleUpperSnake
	// StyleCamel - orderId.
	StyleCamel
	// StylePascal - OrderId.
	StylePascal
	// StyleKebab - order-id.
	StyleKebab
	// StyleUpperKebab - ORDER-ID.
	StyleUpperKebab
	// StyleLower - orderid.
	StyleLower
	// StyleUpper - ORDERID.
	StyleUpper
	// StyleDot - order.id.
	StyleDot
)

var styleNames = map[Style]string{
	StyleAsIs:       "as_is",
	StyleSnake:      "snake",
	StyleUpperSnake: "upper_snake",
	StyleCamel:      "camel",
	StylePascal:     "pascal",
	StyleKebab:      "kebab",
	StyleUpperKebab: "upper_kebab",
	StyleLower:      "lower",
	StyleUpper:      "upper",
	StyleDot:        "dot",
}

// String returns the configuration name of the style.
func (s Style) String() string {
	if name, ok := styleNames[s]; ok {
		return name
	}

	return common.UnknownStr
}

// ParseStyle parses a configuration name produced by Style.String.
func ParseStyle(name string) (Style, error) {
	normalized := strings.ToLower(strings.TrimSpace(name))
	if normalized == "" {
		return StyleAsIs, nil
	}

	for style, styleName := range styleNames {
		if styleName == normalized {
			return style, nil
		}
	}

	return StyleAsIs, fmt.Errorf("unknown name style %q", name)
}

// Convert renders an identifier in the style.
func (s Style) Convert(ident string) string {
	if s == StyleAsIs {
		return ident
	}

	tokens := Tokenize(ident)

	switch s {
	case StyleSnake:
		return strings.Join(tokens, "_")
	case StyleUpperSnake:
		return strings.ToUpper(strings.Join(tokens, "_"))
	case StyleKebab:
		return strings.Join(tokens, "-")
	case StyleUpperKebab:
		return strings.ToUpper(strings.Join(tokens, "-"))
	case StyleLower:
		return strings.Join(tokens, "")
	case StyleUpper:
		return strings.ToUpper(strings.Join(tokens, ""))
	case StyleDot:
		return strings.Join(tokens, ".")
	case StyleCamel:
		for i := 1; i < len(tokens); i++ {
			tokens[i] = capitalize(tokens[i])
		}

		return strings.Join(tokens, "")
	case StylePascal:
		for i := range tokens {
			tokens[i] = capitalize(tokens[i])
		}

		return strings.Join(tokens, "")
	default:
		return ident
	}
}

// TrimTrailingUnderscore strips trailing underscores used to dodge keywords
// ("type_" -> "type"). An identifier made only of underscores is kept.
func TrimTrailingUnderscore(ident string) string {
	trimmed := strings.TrimRight(ident, "_")
	if trimmed == "" {
		return ident
	}

	return trimmed
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}

	return string(unicode.ToUpper(r)) + s[size:]
}
