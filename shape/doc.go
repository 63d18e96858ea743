// Package shape describes how record types expose their fields.
//
// An Input shape lists the fields a record is built from and the
// constructor that builds it; an Output shape lists the fields a record is
// read from and how each one is accessed. Shapes are served through the
// recipe (InputShapeRequest, OutputShapeRequest) by providers for Go
// structs, for dynamic map-backed records and for constructor functions.
package shape
