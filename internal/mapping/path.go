package mapping

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"crownbind/crown"
)

// ParsePath parses "meta.title", "coords[0]" or "[1]" into a crown path.
func ParsePath(path string) (crown.Path, error) {
	if path == "" {
		return nil, errors.New("empty path")
	}

	var out crown.Path

	for part := range strings.SplitSeq(path, ".") {
		name, rest, _ := strings.Cut(part, "[")
		if name == "" && (rest == "" || len(out) > 0) {
			return nil, fmt.Errorf("invalid path %q: empty segment", path)
		}

		if strings.ContainsAny(name, "]") {
			return nil, fmt.Errorf("invalid path %q: unexpected ']' in %q", path, part)
		}

		if name != "" {
			out = append(out, crown.Name(name))
		}

		if rest == "" && !strings.Contains(part, "[") {
			continue
		}

		indexes, err := parseIndexes("[" + rest)
		if err != nil {
			return nil, fmt.Errorf("invalid path %q: %w", path, err)
		}

		out = append(out, indexes...)
	}

	return out, nil
}

// parseIndexes parses a run of "[n]" groups.
func parseIndexes(s string) (crown.Path, error) {
	var out crown.Path

	for s != "" {
		if s[0] != '[' {
			return nil, fmt.Errorf("unexpected %q after index", s)
		}

		end := strings.IndexByte(s, ']')
		if end < 0 {
			return nil, errors.New("unclosed '['")
		}

		i, err := strconv.Atoi(s[1:end])
		if err != nil || i < 0 {
			return nil, fmt.Errorf("bad index %q", s[1:end])
		}

		out = append(out, crown.Index(i))
		s = s[end+1:]
	}

	return out, nil
}

// FormatPath renders a crown path in the syntax ParsePath reads.
func FormatPath(p crown.Path) string {
	var b strings.Builder

	for i, k := range p {
		if k.IsIndex() {
			fmt.Fprintf(&b, "[%d]", k.Index())

			continue
		}

		if i > 0 {
			b.WriteByte('.')
		}

		b.WriteString(k.Name())
	}

	return b.String()
}
