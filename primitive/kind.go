package primitive

import (
	"encoding"
	"reflect"
	"strconv"
	"time"
)

//go:generate go tool stringer -type=KindEnum -output=kind_string.go

// KindEnum classifies the Go types handled by elementary converters.
type KindEnum int

const (
	_ KindEnum = iota // zero value marks unsupported types

	KindInt
	KindInt8
	KindInt16
	KindInt32
	KindInt64
	KindUint
	KindUint8
	KindUint16
	KindUint32
	KindUint64
	KindFloat32
	KindFloat64
	KindBool
	KindString
	KindTime
	KindDuration
	KindPrimitiveEnum // named string, or named integer with IsValid, String or text methods

	// KindTotal is the number of kinds, the invalid zero kind included.
	KindTotal = int(iota)
)

func (k KindEnum) IsNumber() bool {
	return k.IsInteger() || k.IsFloat()
}

func (k KindEnum) IsInteger() bool {
	return k.IsSigned() || k.IsUnsigned()
}

func (k KindEnum) IsFloat() bool {
	return k == KindFloat32 || k == KindFloat64
}

func (k KindEnum) IsSigned() bool {
	switch k {
	case KindInt, KindInt8, KindInt16, KindInt32, KindInt64:
		return true
	default:
		return false
	}
}

func (k KindEnum) IsUnsigned() bool {
	switch k {
	case KindUint, KindUint8, KindUint16, KindUint32, KindUint64:
		return true
	default:
		return false
	}
}

// Bits returns the width of a number kind.
func (k KindEnum) Bits() int {
	switch k {
	case KindInt, KindUint:
		return strconv.IntSize
	case KindInt8, KindUint8:
		return 8
	case KindInt16, KindUint16:
		return 16
	case KindInt32, KindUint32, KindFloat32:
		return 32
	case KindInt64, KindUint64, KindFloat64:
		return 64
	default:
		panic("only number kinds have a meaningful bit width, requested for: " + k.String())
	}
}

var basicKinds = map[reflect.Type]KindEnum{
	reflect.TypeFor[int]():           KindInt,
	reflect.TypeFor[int8]():          KindInt8,
	reflect.TypeFor[int16]():         KindInt16,
	reflect.TypeFor[int32]():         KindInt32,
	reflect.TypeFor[int64]():         KindInt64,
	reflect.TypeFor[uint]():          KindUint,
	reflect.TypeFor[uint8]():         KindUint8,
	reflect.TypeFor[uint16]():        KindUint16,
	reflect.TypeFor[uint32]():        KindUint32,
	reflect.TypeFor[uint64]():        KindUint64,
	reflect.TypeFor[float32]():       KindFloat32,
	reflect.TypeFor[float64]():       KindFloat64,
	reflect.TypeFor[bool]():          KindBool,
	reflect.TypeFor[string]():        KindString,
	reflect.TypeFor[time.Time]():     KindTime,
	reflect.TypeFor[time.Duration](): KindDuration,
}

// basicTypes maps a reflect kind to its predeclared type; named types are
// dumped as their basic type.
var basicTypes = map[reflect.Kind]reflect.Type{}

func init() {
	for t := range basicKinds {
		if t.PkgPath() == "" {
			basicTypes[t.Kind()] = t
		}
	}
}

var (
	validatorType       = reflect.TypeFor[interface{ IsValid() bool }]()
	stringerType        = reflect.TypeFor[interface{ String() string }]()
	textMarshalerType   = reflect.TypeFor[encoding.TextMarshaler]()
	textUnmarshalerType = reflect.TypeFor[encoding.TextUnmarshaler]()
)

func isEnumLike(rtype reflect.Type) bool {
	return rtype.Implements(validatorType) ||
		rtype.Implements(stringerType) ||
		rtype.Implements(textMarshalerType) ||
		reflect.PointerTo(rtype).Implements(textUnmarshalerType)
}

// FromReflectType classifies rtype. Named numbers and booleans without enum
// methods take the kind of their basic type.
func FromReflectType(rtype reflect.Type) KindEnum {
	if rtype == nil {
		return 0
	}

	if k, ok := basicKinds[rtype]; ok {
		return k
	}

	switch rtype.Kind() {
	case reflect.String:
		return KindPrimitiveEnum
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		if isEnumLike(rtype) {
			return KindPrimitiveEnum
		}

		return basicKinds[basicTypes[rtype.Kind()]]
	case reflect.Float32, reflect.Float64, reflect.Bool:
		return basicKinds[basicTypes[rtype.Kind()]]
	default:
		return 0
	}
}
