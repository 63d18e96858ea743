package loaderr

import (
	"crownbind/crown"
)

// At returns err relocated under prefix: errors of this package get a copy
// with the prefix prepended to their trail, aggregates relocate every
// cause, and foreign errors are wrapped in UnexpectedError.
func At(prefix crown.Path, err error) error {
	if err == nil {
		return nil
	}

	switch e := err.(type) {
	case *TypeLoadError:
		c := *e
		c.Path = prefix.Concat(e.Path)

		return &c
	case *ExcludedTypeLoadError:
		c := *e
		c.Path = prefix.Concat(e.Path)

		return &c
	case *ExtraFieldsError:
		c := *e
		c.Path = prefix.Concat(e.Path)

		return &c
	case *ExtraItemsError:
		c := *e
		c.Path = prefix.Concat(e.Path)

		return &c
	case *NoRequiredFieldsError:
		c := *e
		c.Path = prefix.Concat(e.Path)

		return &c
	case *NoRequiredItemsError:
		c := *e
		c.Path = prefix.Concat(e.Path)

		return &c
	case *ValueLoadError:
		c := *e
		c.Path = prefix.Concat(e.Path)

		return &c
	case *ValidationError:
		c := *e
		c.Path = prefix.Concat(e.Path)

		return &c
	case *UnexpectedError:
		c := *e
		c.Path = prefix.Concat(e.Path)

		return &c
	case *DumpError:
		c := *e
		c.Path = prefix.Concat(e.Path)

		return &c
	case *UnknownSourceError:
		c := *e
		c.Path = prefix.Concat(e.Path)

		return &c
	case *AggregateError:
		c := *e
		c.Causes = make([]error, len(e.Causes))

		for i, cause := range e.Causes {
			c.Causes[i] = At(prefix, cause)
		}

		return &c
	default:
		return &UnexpectedError{Base: Base{Path: prefix}, Cause: err}
	}
}

// Flatten expands nested aggregates into one cause list.
func Flatten(errs []error) []error {
	out := make([]error, 0, len(errs))

	for _, err := range errs {
		if agg, ok := err.(*AggregateError); ok {
			out = append(out, Flatten(agg.Causes)...)

			continue
		}

		out = append(out, err)
	}

	return out
}

// Aggregate builds the error returned by an All level routine. Nested
// aggregates are flattened and the Unexpected flag is derived from the
// causes.
func Aggregate(msg string, errs []error) *AggregateError {
	causes := Flatten(errs)
	agg := &AggregateError{Msg: msg, Causes: causes}

	for _, c := range causes {
		if !Is(c) {
			agg.Unexpected = true

			break
		}
	}

	return agg
}
