package common

import (
	"errors"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
)

// ErrMessage returns the builder message of a fatal error, falling back to
// err.Error() for other errors.
func ErrMessage(err error) string {
	var builder *errbuilder.ErrBuilder
	if errors.As(err, &builder) && strings.TrimSpace(builder.Msg) != "" {
		return builder.Msg
	}

	return err.Error()
}
