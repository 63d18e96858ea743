package primitive

import (
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
	"time"

	"crownbind/loaderr"
	"crownbind/internal/common"
)

// convertFunc turns src into a value of type dst.
type convertFunc func(src reflect.Value, srcKind KindEnum, dst reflect.Type, dstKind KindEnum) (any, error)

var converters map[CategoryEnum]convertFunc

func init() {
	converters = map[CategoryEnum]convertFunc{
		CategoryTextNumber:  parseNumber,
		CategoryNumericBool: numericBool,
		CategoryTextualBool: textualBool,
		CategoryDatetime: func(src reflect.Value, _ KindEnum, _ reflect.Type, _ KindEnum) (any, error) {
			t, err := time.Parse(time.RFC3339Nano, src.String())
			if err != nil {
				return nil, valueError(src, "invalid RFC3339 datetime")
			}

			return t, nil
		},
		CategoryTimestamp: func(src reflect.Value, srcKind KindEnum, _ reflect.Type, _ KindEnum) (any, error) {
			sec, err := convertNumber(src, srcKind, reflect.TypeFor[int64](), KindInt64, false)
			if err != nil {
				return nil, err
			}

			return time.Unix(sec.(int64), 0).UTC(), nil
		},
		CategoryDuration: func(src reflect.Value, _ KindEnum, _ reflect.Type, _ KindEnum) (any, error) {
			d, err := time.ParseDuration(src.String())
			if err != nil {
				return nil, valueError(src, "invalid duration")
			}

			return d, nil
		},
		CategoryNanoseconds: func(src reflect.Value, srcKind KindEnum, dst reflect.Type, _ KindEnum) (any, error) {
			return convertNumber(src, srcKind, dst, KindInt64, false)
		},
		CategorySeconds: func(src reflect.Value, _ KindEnum, _ reflect.Type, _ KindEnum) (any, error) {
			f := src.Float()
			if math.IsNaN(f) || math.Abs(f) >= math.MaxInt64/float64(time.Second) {
				return nil, valueError(src, "duration is out of range")
			}

			return time.Duration(f * float64(time.Second)), nil
		},
		CategoryEnumString: toEnum,
	}
}

func valueError(src reflect.Value, format string, args ...any) error {
	return &loaderr.ValueLoadError{Msg: fmt.Sprintf(format, args...), Input: src.Interface()}
}

func intBounds(bits int) (lo, hi int64) {
	return -1 << (bits - 1), 1<<(bits-1) - 1
}

func uintMax(bits int) uint64 {
	return math.MaxUint64 >> (64 - bits)
}

// convertNumber converts between number kinds. Out of range values always
// fail; fractions are truncated only when lossy is set.
func convertNumber(src reflect.Value, srcKind KindEnum, dst reflect.Type, dstKind KindEnum, lossy bool) (any, error) {
	out := reflect.New(dst).Elem()
	name := dst.String()

	switch {
	case dstKind.IsSigned():
		lo, hi := intBounds(dstKind.Bits())

		var i int64

		switch {
		case srcKind.IsSigned():
			i = src.Int()
			if !common.InRange(lo, i, hi) {
				return nil, valueError(src, "value is out of range for %s", name)
			}
		case srcKind.IsUnsigned():
			u := src.Uint()
			if u > uint64(hi) {
				return nil, valueError(src, "value is out of range for %s", name)
			}

			i = int64(u)
		default:
			f, err := integral(src, lossy)
			if err != nil {
				return nil, err
			}

			if f < float64(lo) || f >= -float64(lo) {
				return nil, valueError(src, "value is out of range for %s", name)
			}

			i = int64(f)
		}

		out.SetInt(i)
	case dstKind.IsUnsigned():
		limit := uintMax(dstKind.Bits())

		var u uint64

		switch {
		case srcKind.IsSigned():
			i := src.Int()
			if i < 0 || uint64(i) > limit {
				return nil, valueError(src, "value is out of range for %s", name)
			}

			u = uint64(i)
		case srcKind.IsUnsigned():
			u = src.Uint()
			if !common.InRange(0, u, limit) {
				return nil, valueError(src, "value is out of range for %s", name)
			}
		default:
			f, err := integral(src, lossy)
			if err != nil {
				return nil, err
			}

			if f < 0 || f >= math.Ldexp(1, dstKind.Bits()) {
				return nil, valueError(src, "value is out of range for %s", name)
			}

			u = uint64(f)
		}

		out.SetUint(u)
	default:
		var f float64

		switch {
		case srcKind.IsSigned():
			i := src.Int()
			f = float64(i)

			if !lossy && (f >= 0x1p63 || int64(f) != i) {
				return nil, valueError(src, "value can not be represented exactly by %s", name)
			}
		case srcKind.IsUnsigned():
			u := src.Uint()
			f = float64(u)

			if !lossy && (f >= 0x1p64 || uint64(f) != u) {
				return nil, valueError(src, "value can not be represented exactly by %s", name)
			}
		default:
			f = src.Float()
		}

		if dstKind == KindFloat32 {
			if !math.IsInf(f, 0) && math.Abs(f) > math.MaxFloat32 {
				return nil, valueError(src, "value is out of range for %s", name)
			}

			if !lossy && !math.IsNaN(f) && float64(float32(f)) != f {
				return nil, valueError(src, "value can not be represented exactly by %s", name)
			}
		}

		out.SetFloat(f)
	}

	return out.Interface(), nil
}

func integral(src reflect.Value, lossy bool) (float64, error) {
	f := src.Float()
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, valueError(src, "value is not a finite number")
	}

	if t := math.Trunc(f); t != f {
		if !lossy {
			return 0, valueError(src, "value is not an integer")
		}

		f = t
	}

	return f, nil
}

func parseNumber(src reflect.Value, _ KindEnum, dst reflect.Type, dstKind KindEnum) (any, error) {
	s := strings.TrimSpace(src.String())
	out := reflect.New(dst).Elem()

	switch {
	case dstKind.IsSigned():
		i, err := strconv.ParseInt(s, 10, dstKind.Bits())
		if err != nil {
			return nil, valueError(src, "invalid %s number", dst)
		}

		out.SetInt(i)
	case dstKind.IsUnsigned():
		u, err := strconv.ParseUint(s, 10, dstKind.Bits())
		if err != nil {
			return nil, valueError(src, "invalid %s number", dst)
		}

		out.SetUint(u)
	default:
		f, err := strconv.ParseFloat(s, dstKind.Bits())
		if err != nil {
			return nil, valueError(src, "invalid %s number", dst)
		}

		out.SetFloat(f)
	}

	return out.Interface(), nil
}

func numericBool(src reflect.Value, srcKind KindEnum, dst reflect.Type, _ KindEnum) (any, error) {
	var n int64

	if srcKind.IsSigned() {
		n = src.Int()
	} else {
		n = int64(min(src.Uint(), 2))
	}

	switch n {
	case 0:
		return reflect.ValueOf(false).Convert(dst).Interface(), nil
	case 1:
		return reflect.ValueOf(true).Convert(dst).Interface(), nil
	default:
		return nil, valueError(src, "only 0 and 1 are allowed for bool")
	}
}

func textualBool(src reflect.Value, _ KindEnum, dst reflect.Type, _ KindEnum) (any, error) {
	var b bool

	switch strings.ToLower(strings.TrimSpace(src.String())) {
	case "true", "yes", "on", "1":
		b = true
	case "false", "no", "off", "0":
		b = false
	default:
		return nil, valueError(src, "only true/false, yes/no, on/off are allowed for bool")
	}

	return reflect.ValueOf(b).Convert(dst).Interface(), nil
}

func toEnum(src reflect.Value, srcKind KindEnum, dst reflect.Type, _ KindEnum) (any, error) {
	out := reflect.New(dst)

	switch {
	case srcKind == KindString || srcKind == KindPrimitiveEnum && src.Kind() == reflect.String:
		if u, ok := out.Interface().(interface{ UnmarshalText(text []byte) error }); ok {
			if err := u.UnmarshalText([]byte(src.String())); err != nil {
				return nil, valueError(src, "invalid %s value", dst)
			}

			break
		}

		if dst.Kind() != reflect.String {
			return nil, valueError(src, "%s has no textual form", dst)
		}

		out.Elem().SetString(src.String())
	case srcKind.IsNumber():
		if dst.Kind() == reflect.String {
			return nil, valueError(src, "%s is a textual enum", dst)
		}

		basic := basicTypes[dst.Kind()]

		n, err := convertNumber(src, srcKind, basic, FromReflectType(basic), false)
		if err != nil {
			return nil, err
		}

		out.Elem().Set(reflect.ValueOf(n).Convert(dst))
	default:
		return nil, valueError(src, "can not load %s", dst)
	}

	if v, ok := out.Elem().Interface().(interface{ IsValid() bool }); ok && !v.IsValid() {
		return nil, valueError(src, "not a valid %s value", dst)
	}

	return out.Elem().Interface(), nil
}
