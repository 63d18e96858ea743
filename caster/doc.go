// Package caster turns typed user functions into untyped converters.
//
// ParseCaster recognizes func(S) D, func(S) (D, bool), func(S) (D, error)
// and func(S) (D, bool, error). The resulting Converter coerces its input
// into S through the primitive loaders when the value is of another
// primitive kind.
package caster
