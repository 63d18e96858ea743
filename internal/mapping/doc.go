// Package mapping reads name mapping files: YAML documents configuring the
// external layout of record types without Go code.
//
// # Schema Overview
//
//	version: "1"
//	mappings:
//	  - type: Book
//	    name_style: snake
//	    skip: [Internal]
//	    map:
//	      Title: meta.title
//	      Lat: coords[0]
//	      Lon: coords[1]
//	    omit_default: "*"
//	    extra_in: forbid
//	    extra_out: {targets: [Extra]}
//	    debug_trail: first
//	    strict: false
//
// Type names are bound by the caller, so one file can describe Go structs
// and dynamic records alike.
//
// # Path Syntax
//
// Paths in map are dot separated keys with bracketed list indexes:
//   - Keys: "title"
//   - Nested keys: "meta.title"
//   - List positions: "coords[0]", "[1]", "rows[0][2]"
//
// # Extra Policies
//
// extra_in is one of skip, forbid, kwargs or {targets: [...]}; extra_out
// is skip or {targets: [...]}.
package mapping
