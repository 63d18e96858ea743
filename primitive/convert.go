package primitive

import (
	"encoding"
	"reflect"
	"time"

	"crownbind/internal/common"
	"crownbind/loaderr"
)

// Loader returns a converter from external values into dst, applying
// only the coercions in allowed. It reports false for unsupported types.
func Loader(dst reflect.Type, allowed CategoryEnum) (func(data any) (any, error), bool) {
	dstKind := FromReflectType(dst)
	if dstKind == 0 {
		return nil, false
	}

	expected := common.TypeName(dst)
	numbers := allowed & (CategorySafeNumber | CategoryUnsafeNumber)
	lossy := allowed&CategoryUnsafeNumber != 0

	return func(data any) (any, error) {
		if data == nil {
			return nil, &loaderr.TypeLoadError{Expected: expected}
		}

		src := reflect.ValueOf(data)
		if src.Type() == dst {
			return data, nil
		}

		srcKind := FromReflectType(src.Type())
		if srcKind == 0 {
			return nil, &loaderr.TypeLoadError{Expected: expected, Input: data}
		}

		if srcKind == dstKind && srcKind != KindPrimitiveEnum {
			return src.Convert(dst).Interface(), nil
		}

		if srcKind.IsNumber() && dstKind.IsNumber() {
			if numbers == 0 {
				return nil, &loaderr.TypeLoadError{Expected: expected, Input: data}
			}

			return convertNumber(src, srcKind, dst, dstKind, lossy)
		}

		category, ok := CategoryOf(ConversionPair{From: srcKind, To: dstKind})
		if !ok || allowed&category == 0 {
			return nil, &loaderr.TypeLoadError{Expected: expected, Input: data}
		}

		return converters[category](src, srcKind, dst, dstKind)
	}, true
}

// Dumper returns a converter from src values into their external form:
// times become RFC3339Nano strings, durations their textual form, enums
// their text or basic value and other named types their basic type.
func Dumper(src reflect.Type) (func(value any) (any, error), bool) {
	kind := FromReflectType(src)

	switch {
	case kind == 0:
		return nil, false
	case kind == KindTime:
		return func(value any) (any, error) {
			return value.(time.Time).Format(time.RFC3339Nano), nil
		}, true
	case kind == KindDuration:
		return func(value any) (any, error) {
			return value.(time.Duration).String(), nil
		}, true
	case kind == KindPrimitiveEnum && src.Implements(textMarshalerType):
		return func(value any) (any, error) {
			text, err := value.(encoding.TextMarshaler).MarshalText()
			if err != nil {
				return nil, err
			}

			return string(text), nil
		}, true
	}

	basic := basicTypes[src.Kind()]
	if basic == src {
		return func(value any) (any, error) { return value, nil }, true
	}

	return func(value any) (any, error) {
		return reflect.ValueOf(value).Convert(basic).Interface(), nil
	}, true
}
