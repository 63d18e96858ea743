package crown

import (
	"strconv"
	"strings"
)

// Key is one step of a Path: a mapping key or a sequence index.
type Key struct {
	name    string
	index   int
	isIndex bool
}

// Name returns a mapping key.
func Name(name string) Key {
	return Key{name: name}
}

// Index returns a sequence index.
func Index(index int) Key {
	return Key{index: index, isIndex: true}
}

// IsIndex reports whether the key addresses a sequence position.
func (k Key) IsIndex() bool { return k.isIndex }

// Name returns the mapping key; empty for indices.
func (k Key) Name() string { return k.name }

// Index returns the sequence position; zero for mapping keys.
func (k Key) Index() int { return k.index }

// Value returns the key as a string or an int.
func (k Key) Value() any {
	if k.isIndex {
		return k.index
	}

	return k.name
}

// String renders the key as it appears in a rendered Path.
func (k Key) String() string {
	if k.isIndex {
		return strconv.Itoa(k.index)
	}

	return strconv.Quote(k.name)
}

// Path is the sequence of keys leading from the crown root to a node.
type Path []Key

// ParseKeys builds a Path from strings and ints, the way paths are written
// in configuration. It panics on any other key type.
func ParseKeys(keys ...any) Path {
	path := make(Path, 0, len(keys))

	for _, k := range keys {
		switch v := k.(type) {
		case string:
			path = append(path, Name(v))
		case int:
			path = append(path, Index(v))
		case Key:
			path = append(path, v)
		default:
			panic("crown: path keys must be strings or ints")
		}
	}

	return path
}

// Append returns a new path with key added; p is never modified.
func (p Path) Append(key Key) Path {
	out := make(Path, len(p), len(p)+1)
	copy(out, p)

	return append(out, key)
}

// Concat returns prefix followed by p.
func (p Path) Concat(suffix Path) Path {
	out := make(Path, 0, len(p)+len(suffix))
	out = append(out, p...)

	return append(out, suffix...)
}

// Equal reports whether both paths hold the same keys.
func (p Path) Equal(other Path) bool {
	if len(p) != len(other) {
		return false
	}

	for i := range p {
		if p[i] != other[i] {
			return false
		}
	}

	return true
}

// HasPrefix reports whether prefix is a leading part of p.
func (p Path) HasPrefix(prefix Path) bool {
	return len(prefix) <= len(p) && p[:len(prefix)].Equal(prefix)
}

// Values returns the keys as strings and ints.
func (p Path) Values() []any {
	out := make([]any, len(p))
	for i, k := range p {
		out[i] = k.Value()
	}

	return out
}

// String renders the path, e.g. `["items", 0, "id"]`; the root is `[]`.
func (p Path) String() string {
	var b strings.Builder

	b.WriteByte('[')

	for i, k := range p {
		if i > 0 {
			b.WriteString(", ")
		}

		b.WriteString(k.String())
	}

	b.WriteByte(']')

	return b.String()
}

// Entry binds a value to a path.
type Entry[T any] struct {
	Path  Path
	Value T
}

// PathsTo is an ordered path -> value mapping. Order is significant: dict
// branches keep the order in which their keys first appear.
type PathsTo[T any] []Entry[T]

// Lookup returns the value stored for path.
func (p PathsTo[T]) Lookup(path Path) (T, bool) {
	for _, e := range p {
		if e.Path.Equal(path) {
			return e.Value, true
		}
	}

	var zero T

	return zero, false
}

// Paths returns the stored paths in order.
func (p PathsTo[T]) Paths() []Path {
	out := make([]Path, len(p))
	for i, e := range p {
		out[i] = e.Path
	}

	return out
}
