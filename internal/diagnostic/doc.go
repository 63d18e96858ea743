// Package diagnostic collects configuration problems found while a name
// layout or a mapping file is being built, so that a single fatal error
// can report all of them at once.
//
// Key capabilities:
//   - Unknown field references with suggestions
//   - Conflicting paths and double mapped fields
//   - Warnings that do not stop compilation
package diagnostic
