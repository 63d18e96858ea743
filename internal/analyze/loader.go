package analyze

import (
	"fmt"
	"go/types"
	"slices"

	"github.com/rs/zerolog/log"
	"golang.org/x/tools/go/packages"
)

// LoadMode specifies what information to load from packages.
const LoadMode = packages.NeedName |
	packages.NeedTypes |
	packages.NeedImports

// Analyzer holds the named types of loaded packages.
type Analyzer struct {
	named map[string]*types.Named
	order []string
}

// Load loads packages matching patterns, resolved from dir ("" for the
// working directory).
func Load(dir string, patterns ...string) (*Analyzer, error) {
	cfg := &packages.Config{Mode: LoadMode, Dir: dir}

	pkgs, err := packages.Load(cfg, patterns...)
	if err != nil {
		return nil, fmt.Errorf("failed to load packages: %w", err)
	}

	var errs []error

	for _, pkg := range pkgs {
		for _, e := range pkg.Errors {
			errs = append(errs, e)
		}
	}

	if len(errs) > 0 {
		return nil, fmt.Errorf("package errors: %v", errs)
	}

	a := &Analyzer{named: map[string]*types.Named{}}

	for _, pkg := range pkgs {
		a.processPackage(pkg)
	}

	log.Debug().Strs("patterns", patterns).Int("types", len(a.order)).Msg("packages analyzed")

	return a, nil
}

// processPackage records the exported named types of a package under
// their bare and qualified names.
func (a *Analyzer) processPackage(pkg *packages.Package) {
	scope := pkg.Types.Scope()

	for _, name := range scope.Names() {
		typeName, ok := scope.Lookup(name).(*types.TypeName)
		if !ok || !typeName.Exported() {
			continue
		}

		named, ok := typeName.Type().(*types.Named)
		if !ok {
			continue
		}

		qualified := pkg.Name + "." + name
		a.named[qualified] = named
		a.order = append(a.order, qualified)

		if _, taken := a.named[name]; !taken {
			a.named[name] = named
		}
	}
}

// TypeNames lists the qualified names of every loaded type.
func (a *Analyzer) TypeNames() []string {
	return append([]string(nil), a.order...)
}

func (a *Analyzer) names() []string {
	names := make([]string, 0, len(a.named))
	for name := range a.named {
		names = append(names, name)
	}

	slices.Sort(names)

	return names
}

// Lookup finds a type by bare or package qualified name.
func (a *Analyzer) Lookup(name string) (*types.Named, bool) {
	named, ok := a.named[name]

	return named, ok
}
