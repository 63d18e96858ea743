package common

// Number is any integer or float kind, named types included.
type Number interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 |
		~float32 | ~float64
}

// InRange reports whether lo <= v <= hi.
func InRange[T Number](lo, v, hi T) bool {
	return lo <= v && v <= hi
}
