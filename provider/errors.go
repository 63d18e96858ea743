package provider

import (
	"fmt"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
)

// CannotProvide is returned by a provider that can not serve a request.
// It only drives the search; it is never a fatal error.
type CannotProvide struct {
	Msg    string
	Causes []*CannotProvide
}

// Decline builds a CannotProvide with a formatted message.
func Decline(format string, args ...any) *CannotProvide {
	return &CannotProvide{Msg: fmt.Sprintf(format, args...)}
}

// Because attaches the sub-request failures that made a provider decline.
func (e *CannotProvide) Because(causes ...*CannotProvide) *CannotProvide {
	e.Causes = append(e.Causes, causes...)

	return e
}

func (e *CannotProvide) Error() string {
	var b strings.Builder

	e.write(&b, 0)

	return b.String()
}

func (e *CannotProvide) write(b *strings.Builder, depth int) {
	if depth > 0 {
		b.WriteByte('\n')
		b.WriteString(strings.Repeat("  ", depth))
		b.WriteString("- ")
	}

	b.WriteString(e.Msg)

	for _, c := range e.Causes {
		c.write(b, depth+1)
	}
}

// AsCannotProvide reports whether err is a search-local decline.
func AsCannotProvide(err error) (*CannotProvide, bool) {
	cp, ok := err.(*CannotProvide)

	return cp, ok
}

func noProviderError(req Request, cp *CannotProvide) error {
	return errbuilder.New().
		WithCode(errbuilder.CodeNotFound).
		WithMsg(fmt.Sprintf("no provider found for %s: %s", Describe(req), cp.Error()))
}

func cycleError(req Request, start int) error {
	return errbuilder.New().
		WithCode(errbuilder.CodeFailedPrecondition).
		WithMsg(fmt.Sprintf("cyclic resolution of %s from recipe position %d", Describe(req), start))
}

func incomparableError(req Request) error {
	return errbuilder.New().
		WithCode(errbuilder.CodeInvalidArgument).
		WithMsg(fmt.Sprintf("request %T is not comparable", req))
}

func wrongResultError(req Request, want string, got any) error {
	return errbuilder.New().
		WithCode(errbuilder.CodeInternal).
		WithMsg(fmt.Sprintf("provider for %s returned %T, want %s", Describe(req), got, want))
}
