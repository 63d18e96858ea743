// Command crownbind checks name mapping files and loads JSON documents
// into records declared in YAML schemas. It can also draft such schemas
// from Go structs.
//
//	crownbind lint --mapping mapping.yaml [--schema schema.yaml]
//	crownbind load --schema schema.yaml --record Book [--mapping mapping.yaml] book.jsonc
//	crownbind explain --schema schema.yaml --record Book
//	crownbind scaffold --pkg ./store --type Order --out schema.yaml
//
// Flags fall back to a crownbind.yaml config file and CROWNBIND_* variables.
package main

import "crownbind/internal/cli"

func main() {
	cli.Execute()
}
