package crown

// InpCrown is a node of an input crown: *InpDict, *InpList, *InpField or
// *InpNone.
type InpCrown interface {
	inpCrown()
}

// InpDict is a mapping branch.
type InpDict struct {
	Entries []InpEntry
	Extra   Policy
}

// InpEntry is one key of an InpDict.
type InpEntry struct {
	Key   string
	Crown InpCrown
}

// InpList is a sequence branch; position i is Items[i].
type InpList struct {
	Items []InpCrown
	Extra Policy
}

// InpField binds an external position to the record field ID.
type InpField struct {
	ID string
}

// InpNone marks an external position that is read past and discarded.
type InpNone struct{}

func (*InpDict) inpCrown()  {}
func (*InpList) inpCrown()  {}
func (*InpField) inpCrown() {}
func (*InpNone) inpCrown()  {}

// Keys returns the dict keys in order.
func (d *InpDict) Keys() []string {
	keys := make([]string, len(d.Entries))
	for i, e := range d.Entries {
		keys[i] = e.Key
	}

	return keys
}

// Sieve decides whether a field value is written during dumping. It gets
// the record field value before the field dumper is applied and returns
// false to omit the key.
type Sieve func(value any) bool

// OutCrown is a node of an output crown: *OutDict, *OutList, *OutField or
// *OutNone.
type OutCrown interface {
	outCrown()
}

// OutDict is a mapping branch.
type OutDict struct {
	Entries []OutEntry
}

// OutEntry is one key of an OutDict. Sieve is nil when the key is always
// written.
type OutEntry struct {
	Key   string
	Crown OutCrown
	Sieve Sieve
}

// OutList is a sequence branch.
type OutList struct {
	Items []OutCrown
}

// OutField writes the dumped value of the record field ID.
type OutField struct {
	ID string
}

// OutNone fills a sequence gap with Placeholder.
type OutNone struct {
	Placeholder any
}

func (*OutDict) outCrown()  {}
func (*OutList) outCrown()  {}
func (*OutField) outCrown() {}
func (*OutNone) outCrown()  {}

// IsInpBranch reports whether c is a dict or a list.
func IsInpBranch(c InpCrown) bool {
	switch c.(type) {
	case *InpDict, *InpList:
		return true
	default:
		return false
	}
}

// IsOutBranch reports whether c is a dict or a list.
func IsOutBranch(c OutCrown) bool {
	switch c.(type) {
	case *OutDict, *OutList:
		return true
	default:
		return false
	}
}

// InpFieldPaths returns the path of every field leaf. Paths are fixed for
// the crown lifetime, so callers compute them once.
func InpFieldPaths(root InpCrown) PathsTo[string] {
	var out PathsTo[string]

	var walk func(c InpCrown, path Path)

	walk = func(c InpCrown, path Path) {
		switch node := c.(type) {
		case *InpDict:
			for _, e := range node.Entries {
				walk(e.Crown, path.Append(Name(e.Key)))
			}
		case *InpList:
			for i, item := range node.Items {
				walk(item, path.Append(Index(i)))
			}
		case *InpField:
			out = append(out, Entry[string]{Path: path, Value: node.ID})
		}
	}

	walk(root, Path{})

	return out
}

// OutFieldPaths returns the path of every field leaf.
func OutFieldPaths(root OutCrown) PathsTo[string] {
	var out PathsTo[string]

	var walk func(c OutCrown, path Path)

	walk = func(c OutCrown, path Path) {
		switch node := c.(type) {
		case *OutDict:
			for _, e := range node.Entries {
				walk(e.Crown, path.Append(Name(e.Key)))
			}
		case *OutList:
			for i, item := range node.Items {
				walk(item, path.Append(Index(i)))
			}
		case *OutField:
			out = append(out, Entry[string]{Path: path, Value: node.ID})
		}
	}

	walk(root, Path{})

	return out
}
