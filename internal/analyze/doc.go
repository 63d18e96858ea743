// Package analyze reads Go packages with go/packages and drafts schema
// files declaring records shaped like their structs.
//
// Field names follow json tags. Pointers, slices, maps and fields tagged
// crown:"optional" or json omitempty become optional fields; named structs
// become records of their own, drafted once each.
package analyze
