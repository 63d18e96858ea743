package morph

import (
	"maps"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"crownbind/crown"
	"crownbind/layout"
	"crownbind/loaderr"
	"crownbind/provider"
	"crownbind/shape"
)

// DumpPlan is everything CompileDumper needs for one record type.
type DumpPlan struct {
	Shape  *shape.Output
	Layout *layout.OutputLayout
	// Dumpers holds the dumper of every field named by the crown.
	Dumpers    map[string]Dumper
	Trail      DebugTrail
	OmitAbsent bool
}

type dumpRun struct {
	record any
}

// dumpNode produces the external data of one crown position. keep is false
// when the position is left out of its parent dict.
type dumpNode func(run *dumpRun) (out any, keep bool, err error)

type dumpCompiler struct {
	plan DumpPlan
	all  bool
}

// CompileDumper builds the dumper of a record.
func CompileDumper(p DumpPlan) (Dumper, error) {
	if p.Shape == nil || p.Layout == nil {
		return nil, compileError(errbuilder.CodeInvalidArgument, "dump plan needs a shape and a layout")
	}

	c := &dumpCompiler{plan: p, all: p.Trail == DebugTrailAll}

	root, err := c.node(p.Layout.Crown, crown.Path{}, nil)
	if err != nil {
		return nil, err
	}

	extra, err := c.extra()
	if err != nil {
		return nil, err
	}

	msg := "while dumping " + provider.HintName(p.Shape.Type)

	return func(value any) (any, error) {
		run := &dumpRun{record: value}

		out, _, err := root(run)
		if err != nil {
			return nil, c.finish(msg, err)
		}

		if extra == nil {
			return out, nil
		}

		fields, ok := out.(map[string]any)
		if !ok {
			return out, nil
		}

		more, err := extra(run)
		if err != nil {
			return nil, c.finish(msg, err)
		}

		if len(more) == 0 {
			return fields, nil
		}

		return mergeExtra(more, fields), nil
	}, nil
}

// mergeExtra lays dumped fields over extra data. Mappings present on both
// sides merge key by key; at any other key the field value wins.
func mergeExtra(extra, fields map[string]any) map[string]any {
	merged := maps.Clone(extra)

	for k, v := range fields {
		if fm, ok := v.(map[string]any); ok {
			if em, ok := merged[k].(map[string]any); ok {
				merged[k] = mergeExtra(em, fm)

				continue
			}
		}

		merged[k] = v
	}

	return merged
}

func (c *dumpCompiler) finish(msg string, err error) error {
	if c.all {
		return loaderr.Aggregate(msg, []error{err})
	}

	return err
}

// fail attaches the path to a dump failure. Nested routine errors are
// relocated; anything else becomes a DumpError.
func (c *dumpCompiler) fail(path crown.Path, err error) error {
	if c.plan.Trail == DebugTrailNone {
		return err
	}

	if _, ok := err.(loaderr.Error); ok {
		return loaderr.At(path, err)
	}

	return &loaderr.DumpError{Base: loaderr.Base{Path: path}, Cause: err}
}

func (c *dumpCompiler) node(node crown.OutCrown, path crown.Path, sieve crown.Sieve) (dumpNode, error) {
	switch n := node.(type) {
	case *crown.OutDict:
		return c.dict(n, path)
	case *crown.OutList:
		return c.list(n, path)
	case *crown.OutField:
		return c.field(n, path, sieve)
	case *crown.OutNone:
		placeholder := n.Placeholder

		return func(*dumpRun) (any, bool, error) { return placeholder, true, nil }, nil
	default:
		return nil, compileError(errbuilder.CodeInternal, "unknown output crown %T at %s", node, path)
	}
}

func (c *dumpCompiler) field(f *crown.OutField, path crown.Path, sieve crown.Sieve) (dumpNode, error) {
	sf, ok := c.plan.Shape.Field(f.ID)
	if !ok {
		return nil, compileError(errbuilder.CodeInvalidArgument,
			"crown field %q is not a field of %s", f.ID, provider.HintName(c.plan.Shape.Type))
	}

	dump := c.plan.Dumpers[f.ID]
	if dump == nil {
		return nil, compileError(errbuilder.CodeInvalidArgument, "no dumper for field %q", f.ID)
	}

	get := sf.Accessor.Get
	omitAbsent := c.plan.OmitAbsent

	return func(run *dumpRun) (any, bool, error) {
		v, ok, err := get(run.record)
		if err != nil {
			return nil, false, c.fail(path, err)
		}

		if !ok {
			return nil, !omitAbsent, nil
		}

		if sieve != nil && !sieve(v) {
			return nil, false, nil
		}

		out, err := dump(v)
		if err != nil {
			return nil, false, c.fail(path, err)
		}

		return out, true, nil
	}, nil
}

type dumpEntry struct {
	key  string
	node dumpNode
}

func (c *dumpCompiler) dict(d *crown.OutDict, path crown.Path) (dumpNode, error) {
	entries := make([]dumpEntry, len(d.Entries))

	for i, e := range d.Entries {
		node, err := c.node(e.Crown, path.Append(crown.Name(e.Key)), e.Sieve)
		if err != nil {
			return nil, err
		}

		entries[i] = dumpEntry{key: e.Key, node: node}
	}

	return func(run *dumpRun) (any, bool, error) {
		out := make(map[string]any, len(entries))

		var errs []error

		for _, e := range entries {
			v, keep, err := e.node(run)
			if err != nil {
				if !c.all {
					return nil, false, err
				}

				errs = append(errs, err)

				continue
			}

			if keep {
				out[e.key] = v
			}
		}

		if len(errs) > 0 {
			return nil, false, joinErrs(errs)
		}

		return out, true, nil
	}, nil
}

func (c *dumpCompiler) list(l *crown.OutList, path crown.Path) (dumpNode, error) {
	items := make([]dumpNode, len(l.Items))

	for i, item := range l.Items {
		node, err := c.node(item, path.Append(crown.Index(i)), nil)
		if err != nil {
			return nil, err
		}

		items[i] = node
	}

	return func(run *dumpRun) (any, bool, error) {
		out := make([]any, len(items))

		var errs []error

		for i, node := range items {
			v, _, err := node(run)
			if err != nil {
				if !c.all {
					return nil, false, err
				}

				errs = append(errs, err)

				continue
			}

			out[i] = v
		}

		if len(errs) > 0 {
			return nil, false, joinErrs(errs)
		}

		return out, true, nil
	}, nil
}

// extra compiles the source of additional output keys. It returns nil when
// the layout has none.
func (c *dumpCompiler) extra() (func(run *dumpRun) (map[string]any, error), error) {
	switch move := c.plan.Layout.Extra.(type) {
	case nil:
		return nil, nil
	case layout.ExtraExtract:
		if move.Func == nil {
			return nil, compileError(errbuilder.CodeInvalidArgument, "extract function is nil")
		}

		return func(run *dumpRun) (map[string]any, error) {
			m, err := move.Func(run.record)
			if err != nil {
				return nil, c.fail(crown.Path{}, err)
			}

			return m, nil
		}, nil
	case layout.ExtraTargets:
		return c.targets(move.Fields)
	default:
		return nil, compileError(errbuilder.CodeInternal, "unknown extra move %T", move)
	}
}

func (c *dumpCompiler) targets(ids []string) (func(run *dumpRun) (map[string]any, error), error) {
	accessors := make([]shape.OutField, len(ids))
	allRequired := true

	for i, id := range ids {
		f, ok := c.plan.Shape.Field(id)
		if !ok {
			return nil, compileError(errbuilder.CodeInvalidArgument,
				"extra target %q is not a field of %s", id, provider.HintName(c.plan.Shape.Type))
		}

		accessors[i] = f
		allRequired = allRequired && !f.Accessor.Optional
	}

	read := func(f shape.OutField, run *dumpRun) (map[string]any, error) {
		v, ok, err := f.Accessor.Get(run.record)
		if err != nil {
			return nil, c.fail(crown.Path{}, err)
		}

		if !ok || v == nil {
			return nil, nil
		}

		m, ok := asMapping(v)
		if !ok {
			return nil, &loaderr.UnknownSourceError{Field: f.ID, Input: v}
		}

		return m, nil
	}

	if len(accessors) == 1 {
		f := accessors[0]

		return func(run *dumpRun) (map[string]any, error) {
			m, err := read(f, run)
			if err != nil || m == nil {
				return map[string]any{}, err
			}

			return maps.Clone(m), nil
		}, nil
	}

	if allRequired {
		return func(run *dumpRun) (map[string]any, error) {
			out := make(map[string]any)

			for _, f := range accessors {
				m, err := read(f, run)
				if err != nil {
					return nil, err
				}

				maps.Copy(out, m)
			}

			return out, nil
		}, nil
	}

	return func(run *dumpRun) (map[string]any, error) {
		out := make(map[string]any)

		var errs []error

		for _, f := range accessors {
			m, err := read(f, run)
			if err != nil {
				if !c.all {
					return nil, err
				}

				errs = append(errs, err)

				continue
			}

			maps.Copy(out, m)
		}

		if len(errs) > 0 {
			return nil, joinErrs(errs)
		}

		return out, nil
	}, nil
}
