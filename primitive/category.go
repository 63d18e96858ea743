package primitive

import "fmt"

// CategoryEnum is a set of coercion categories a loader may apply when the
// external value kind differs from the wanted kind.
type CategoryEnum int

// ConversionPair is a source and a destination kind.
type ConversionPair struct {
	From, To KindEnum
}

const (
	CategorySafeNumber   CategoryEnum = 1 << iota // number -> number when the value is represented exactly
	CategoryUnsafeNumber                          // number -> number with truncation of fractions
	CategoryTextNumber                            // "12", "1.5" -> number
	CategoryNumericBool                           // 0, 1 -> bool
	CategoryTextualBool                           // yes, no, on, off, true, false -> bool
	CategoryDatetime                              // RFC3339Nano string -> time.Time
	CategoryTimestamp                             // Unix seconds -> time.Time
	CategoryDuration                              // "2h45m" -> time.Duration
	CategoryNanoseconds                           // integer nanoseconds -> time.Duration
	CategorySeconds                               // float seconds -> time.Duration
	CategoryEnumString                            // string or integer -> enum type, checked with IsValid

	CategoryAll  CategoryEnum = (1 << iota) - 1 // all categories combined
	CategoryNone CategoryEnum = 0               // no categories selected

	// CategoryStrict keeps only conversions that can not reinterpret data.
	CategoryStrict = CategorySafeNumber | CategoryDatetime | CategoryDuration | CategoryEnumString
	// CategoryLax allows every conversion.
	CategoryLax = CategoryAll
)

var categoryNames = []struct {
	category CategoryEnum
	name     string
}{
	{CategorySafeNumber, "safe_number"},
	{CategoryUnsafeNumber, "unsafe_number"},
	{CategoryTextNumber, "text_number"},
	{CategoryNumericBool, "numeric_bool"},
	{CategoryTextualBool, "textual_bool"},
	{CategoryDatetime, "datetime"},
	{CategoryTimestamp, "timestamp"},
	{CategoryDuration, "duration"},
	{CategoryNanoseconds, "nanoseconds"},
	{CategorySeconds, "seconds"},
	{CategoryEnumString, "enum"},
}

// Names lists the categories of the set.
func (c CategoryEnum) Names() []string {
	var out []string

	for _, cn := range categoryNames {
		if c&cn.category != 0 {
			out = append(out, cn.name)
		}
	}

	return out
}

var conversionPairs map[ConversionPair]CategoryEnum

func addPair(from, to KindEnum, category CategoryEnum) {
	conversionPairs[ConversionPair{from, to}] = category
}

func init() {
	conversionPairs = make(map[ConversionPair]CategoryEnum)

	for kind := KindEnum(1); int(kind) < KindTotal; kind++ {
		if kind.IsNumber() {
			addPair(KindString, kind, CategoryTextNumber)
		}

		if kind.IsInteger() {
			addPair(kind, KindBool, CategoryNumericBool)
			addPair(kind, KindPrimitiveEnum, CategoryEnumString)

			if kind != KindUint64 {
				addPair(kind, KindTime, CategoryTimestamp)
				addPair(kind, KindDuration, CategoryNanoseconds)
			}
		}

		if kind.IsFloat() {
			addPair(kind, KindDuration, CategorySeconds)
			addPair(kind, KindPrimitiveEnum, CategoryEnumString)
		}
	}

	addPair(KindString, KindBool, CategoryTextualBool)
	addPair(KindString, KindTime, CategoryDatetime)
	addPair(KindString, KindDuration, CategoryDuration)
	addPair(KindString, KindPrimitiveEnum, CategoryEnumString)
	addPair(KindPrimitiveEnum, KindPrimitiveEnum, CategoryEnumString)
}

// CategoryOf returns the category needed to load a value of kind pair.From
// into kind pair.To. Number to number pairs report CategorySafeNumber; the
// loader decides at run time whether truncation is needed.
func CategoryOf(pair ConversionPair) (CategoryEnum, bool) {
	if pair.From.IsNumber() && pair.To.IsNumber() {
		return CategorySafeNumber, true
	}

	c, ok := conversionPairs[pair]

	return c, ok
}

// ParseCategories builds a set from category names as listed by Names;
// "strict", "lax", "all" and "none" name the predefined sets.
func ParseCategories(names ...string) (CategoryEnum, error) {
	var out CategoryEnum

names:
	for _, name := range names {
		switch name {
		case "strict":
			out |= CategoryStrict

			continue
		case "lax", "all":
			out |= CategoryLax

			continue
		case "none":
			continue
		}

		for _, cn := range categoryNames {
			if cn.name == name {
				out |= cn.category

				continue names
			}
		}

		return CategoryNone, fmt.Errorf("unknown coercion category %q", name)
	}

	return out, nil
}
