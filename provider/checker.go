package provider

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"
)

// Checker selects requests for Bound.
type Checker interface {
	Check(req Request) bool
	fmt.Stringer
}

type checker struct {
	desc string
	fn   func(req Request) bool
}

func (c checker) Check(req Request) bool { return c.fn(req) }
func (c checker) String() string         { return c.desc }

// NewChecker builds a Checker from a predicate and its description.
func NewChecker(desc string, fn func(req Request) bool) Checker {
	return checker{desc: desc, fn: fn}
}

func located(fn func(Loc) bool) func(Request) bool {
	return func(req Request) bool {
		l, ok := req.(Located)

		return ok && fn(l.Location())
	}
}

// AnyRequest accepts everything.
func AnyRequest() Checker {
	return NewChecker("any request", func(Request) bool { return true })
}

// RequestIs accepts requests of type R.
func RequestIs[R Request]() Checker {
	return NewChecker("request "+reflect.TypeFor[R]().String(), func(req Request) bool {
		_, ok := req.(R)

		return ok
	})
}

// TypeIs accepts located requests for type t.
func TypeIs(t TypeHint) Checker {
	return NewChecker("type "+HintName(t), located(func(l Loc) bool {
		return l.Type == t
	}))
}

// TypeOf accepts located requests for the Go type T.
func TypeOf[T any]() Checker {
	return TypeIs(reflect.TypeFor[T]())
}

// FieldIs accepts located requests for a field named id.
func FieldIs(id string) Checker {
	return NewChecker("field "+id, located(func(l Loc) bool {
		return l.FieldID == id
	}))
}

// FieldMatches accepts located requests whose whole field name matches
// pattern. It panics if pattern is invalid.
func FieldMatches(pattern string) Checker {
	re := regexp.MustCompile("^(?:" + pattern + ")$")

	return NewChecker("field ~ "+pattern, located(func(l Loc) bool {
		return l.FieldID != "" && re.MatchString(l.FieldID)
	}))
}

// OwnerIs accepts field requests inside type t.
func OwnerIs(t TypeHint) Checker {
	return NewChecker("owner "+HintName(t), located(func(l Loc) bool {
		return l.FieldID != "" && l.Owner == t
	}))
}

// And accepts requests accepted by all checkers.
func And(checkers ...Checker) Checker {
	return NewChecker(join(" and ", checkers), func(req Request) bool {
		for _, c := range checkers {
			if !c.Check(req) {
				return false
			}
		}

		return true
	})
}

// Or accepts requests accepted by any checker.
func Or(checkers ...Checker) Checker {
	return NewChecker(join(" or ", checkers), func(req Request) bool {
		for _, c := range checkers {
			if c.Check(req) {
				return true
			}
		}

		return false
	})
}

// Not inverts c.
func Not(c Checker) Checker {
	return NewChecker("not ("+c.String()+")", func(req Request) bool {
		return !c.Check(req)
	})
}

func join(sep string, checkers []Checker) string {
	parts := make([]string, len(checkers))
	for i, c := range checkers {
		parts[i] = "(" + c.String() + ")"
	}

	return strings.Join(parts, sep)
}
