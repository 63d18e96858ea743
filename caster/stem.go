package caster

import "strconv"

// Namespace is a set of taken names shared by several stems.
type Namespace struct {
	taken map[string]struct{}
}

// NewNamespace returns a namespace with names already taken.
func NewNamespace(names ...string) *Namespace {
	ns := &Namespace{taken: make(map[string]struct{}, len(names))}
	for _, name := range names {
		ns.taken[name] = struct{}{}
	}

	return ns
}

// Reserve takes name and reports false when it was already taken.
func (ns *Namespace) Reserve(name string) bool {
	if _, ok := ns.taken[name]; ok {
		return false
	}

	ns.taken[name] = struct{}{}

	return true
}

// NewStem creates a new Stem instance with the provided stem and namespace.
// The nil namespace is treated as a free namespace, meaning all names are available.
func NewStem(stem string, ns *Namespace) *Stem {
	if ns == nil {
		ns = NewNamespace()
	}

	return &Stem{ns: ns, stem: stem}
}

// Stem generates stem1, stem2, ... skipping names taken in its namespace.
type Stem struct {
	ns   *Namespace
	stem string
	last int
}

// Next returns the next free name and takes it.
func (s *Stem) Next() string {
	for {
		s.last++
		name := s.stem + strconv.Itoa(s.last)

		if s.ns.Reserve(name) {
			return name
		}
	}
}
