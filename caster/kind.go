package caster

//go:generate go tool stringer -type=DispatcherEnum -trimprefix=Dispatcher -output=kind_string.go

// DispatcherEnum is the shape relation between a value and a wanted type.
type DispatcherEnum int

const (
	DispatcherUnknown DispatcherEnum = iota
	DispatcherPrimitive
	DispatcherInterface
	DispatcherSlice
	DispatcherMap
	DispatcherStruct

	// DispatcherTotal is a constant that represents the total number of kinds defined
	DispatcherTotal = int(iota)
)
