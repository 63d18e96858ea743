package morph

import (
	"fmt"
	"strings"

	"crownbind/provider"
)

//go:generate go tool stringer -type=DebugTrail -trimprefix=DebugTrail -output=debugtrail_string.go

// DebugTrail is how much context load and dump errors carry.
type DebugTrail int

const (
	// DebugTrailNone returns the first error as is.
	DebugTrailNone DebugTrail = iota
	// DebugTrailFirst returns the first error with its path.
	DebugTrailFirst
	// DebugTrailAll returns every independent error with its path.
	DebugTrailAll
)

// ParseDebugTrail parses "none", "first" or "all".
func ParseDebugTrail(s string) (DebugTrail, error) {
	for t := DebugTrailNone; t <= DebugTrailAll; t++ {
		if strings.EqualFold(t.String(), strings.TrimSpace(s)) {
			return t, nil
		}
	}

	return DebugTrailNone, fmt.Errorf("unknown debug trail %q", s)
}

// Loader converts external data into a value.
type Loader = func(data any) (any, error)

// Dumper converts a value into external data.
type Dumper = func(value any) (any, error)

// DebugTrailRequest asks for the DebugTrail used by routines of Type.
type DebugTrailRequest struct {
	Type provider.TypeHint
}

func (r DebugTrailRequest) Location() provider.Loc { return provider.TypeLoc(r.Type) }

// StrictCoercionRequest asks whether loaders of Type refuse lossy and
// textual coercions.
type StrictCoercionRequest struct {
	Type provider.TypeHint
}

func (r StrictCoercionRequest) Location() provider.Loc { return provider.TypeLoc(r.Type) }

// OmitAbsentRequest asks whether dumpers of Type leave out optional fields
// whose value is absent instead of writing null.
type OmitAbsentRequest struct {
	Type provider.TypeHint
}

func (r OmitAbsentRequest) Location() provider.Loc { return provider.TypeLoc(r.Type) }

const (
	defaultDebugTrail = DebugTrailAll
	defaultStrict     = true
	defaultOmitAbsent = true
)

func configValue[T any](m provider.Mediator, req provider.Request, def T) (T, error) {
	v, err := provider.ProvideAs[T](m, req)
	if err != nil {
		if _, ok := provider.AsCannotProvide(err); ok {
			return def, nil
		}

		return def, err
	}

	return v, nil
}

// DebugTrailFor resolves the DebugTrail of t, DebugTrailAll by default.
func DebugTrailFor(m provider.Mediator, t provider.TypeHint) (DebugTrail, error) {
	return configValue(m, DebugTrailRequest{Type: t}, defaultDebugTrail)
}

// StrictCoercionFor resolves the strictness of t, strict by default.
func StrictCoercionFor(m provider.Mediator, t provider.TypeHint) (bool, error) {
	return configValue(m, StrictCoercionRequest{Type: t}, defaultStrict)
}

// OmitAbsentFor resolves the absent value handling of t, omitted by
// default.
func OmitAbsentFor(m provider.Mediator, t provider.TypeHint) (bool, error) {
	return configValue(m, OmitAbsentRequest{Type: t}, defaultOmitAbsent)
}
