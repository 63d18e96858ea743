package cli

import (
	"fmt"

	"github.com/ZanzyTHEbar/errbuilder-go"
)

func invalidArgument(err error) error {
	return errbuilder.New().
		WithCode(errbuilder.CodeInvalidArgument).
		WithMsg(err.Error()).
		WithCause(err)
}

func notFound(format string, args ...any) error {
	return errbuilder.New().
		WithCode(errbuilder.CodeNotFound).
		WithMsg(fmt.Sprintf(format, args...))
}
