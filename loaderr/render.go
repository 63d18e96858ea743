package loaderr

import (
	"strings"

	"github.com/davecgh/go-spew/spew"
)

var printer = spew.ConfigState{
	DisablePointerAddresses: true,
	DisableCapacities:       true,
	SortKeys:                true,
	MaxDepth:                3,
}

const maxRendered = 120

// Render formats an offending input value for error messages on a single
// line. Long values are cut.
func Render(v any) string {
	s := strings.ReplaceAll(strings.TrimSpace(printer.Sdump(v)), "\n", " ")
	if len(s) > maxRendered {
		return s[:maxRendered] + "..."
	}

	return s
}
