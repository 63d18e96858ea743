// Package morph compiles record layouts into load and dump routines.
//
// CompileLoader and CompileDumper turn a crown and per-field converters
// into one routine each, walking the crown once per call. The model
// providers resolve everything a record needs through the recipe and
// compile it; the generic providers cover slices, maps, pointers and
// untyped values.
package morph
