// Package crown describes how the fields of a record are placed inside a
// nested external value.
//
// A crown is an immutable tree. Branches are dicts (string keys) or lists
// (integer positions); leaves reference exactly one record field or mark a
// position that exists in the external data but is discarded. Input crowns
// carry an unknown-data Policy on every branch; output crowns carry an
// optional Sieve on every dict entry.
//
// Crowns are built from a flat PathsTo mapping by InputBuilder and
// OutputBuilder, which merge shared prefixes and infer the branch kind from
// the keys observed:
//
//	["id"]          -> field id
//	["meta", "name"] -> field name        => {"id": id, "meta": {"name": name}}
//	["point", 0]    -> field x
//	["point", 1]    -> field y            => {"point": [x, y]}
package crown
