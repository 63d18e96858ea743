package common

import (
	"path"
	"reflect"
)

// UnknownStr is rendered for enum values outside their declared range.
const UnknownStr = "unknown"

// PkgAlias returns the package alias (last element of path) for a given package path.
// Returns empty string if pkgPath is empty.
func PkgAlias(pkgPath string) string {
	if pkgPath == "" {
		return ""
	}

	return path.Base(pkgPath)
}

// TypeName renders a reflect type the way it is written in source code of
// its own package's importers, e.g. "store.Order" or "[]*store.Item".
func TypeName(t reflect.Type) string {
	if t == nil {
		return "<nil>"
	}

	if t.Name() != "" && t.PkgPath() != "" {
		return PkgAlias(t.PkgPath()) + "." + t.Name()
	}

	return t.String()
}
