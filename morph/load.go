package morph

import (
	"fmt"
	"maps"
	"slices"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"crownbind/crown"
	"crownbind/layout"
	"crownbind/loaderr"
	"crownbind/provider"
	"crownbind/shape"
)

// LoadPlan is everything CompileLoader needs for one record type.
type LoadPlan struct {
	Shape  *shape.Input
	Layout *layout.InputLayout
	// Loaders holds the loader of every field named by the crown or by an
	// extra target.
	Loaders map[string]Loader
	Trail   DebugTrail
	Strict  bool
}

// loadRun is the state of one load call.
type loadRun struct {
	values []any
	set    []bool
}

// loadNode consumes the data at one crown position and returns the data no
// leaf claimed there, or nil.
type loadNode func(data any, run *loadRun) (extra any, err error)

type loadCompiler struct {
	plan    LoadPlan
	all     bool
	index   map[string]int
	fields  []shape.Field
	loaders []Loader
}

func compileError(code errbuilder.ErrCode, format string, args ...any) error {
	return errbuilder.New().
		WithCode(code).
		WithMsg(fmt.Sprintf(format, args...))
}

// CompileLoader builds the loader of a record. The crown is walked once
// here; the returned routine only follows the prepared nodes.
func CompileLoader(p LoadPlan) (Loader, error) {
	if p.Shape == nil || p.Layout == nil {
		return nil, compileError(errbuilder.CodeInvalidArgument, "load plan needs a shape and a layout")
	}

	c := &loadCompiler{
		plan:    p,
		all:     p.Trail == DebugTrailAll,
		index:   make(map[string]int, len(p.Shape.Fields)),
		fields:  p.Shape.Fields,
		loaders: make([]Loader, len(p.Shape.Fields)),
	}

	for i, f := range p.Shape.Fields {
		c.index[f.ID] = i
		c.loaders[i] = p.Loaders[f.ID]
	}

	root, err := c.node(p.Layout.Crown, crown.Path{})
	if err != nil {
		return nil, err
	}

	finish, err := c.extraMove()
	if err != nil {
		return nil, err
	}

	for _, param := range p.Shape.Params {
		if _, ok := c.index[param.FieldID]; !ok {
			return nil, compileError(errbuilder.CodeInvalidArgument,
				"constructor parameter %q is not a field of %s", param.FieldID, provider.HintName(p.Shape.Type))
		}
	}

	msg := "while loading " + provider.HintName(p.Shape.Type)
	emptyExtra := emptyExtraOf(p.Layout.Crown)

	return func(data any) (any, error) {
		run := &loadRun{
			values: make([]any, len(c.fields)),
			set:    make([]bool, len(c.fields)),
		}

		extra, err := root(data, run)
		if err != nil {
			return nil, c.finish(msg, err)
		}

		if extra == nil {
			extra = emptyExtra
		}

		rec, err := finish(extra, run)
		if err != nil {
			return nil, c.finish(msg, c.annotate(crown.Path{}, err))
		}

		return rec, nil
	}, nil
}

func emptyExtraOf(root crown.InpCrown) any {
	if _, ok := root.(*crown.InpList); ok {
		return []any{}
	}

	return map[string]any{}
}

// finish shapes the error leaving the root.
func (c *loadCompiler) finish(msg string, err error) error {
	if c.all {
		return loaderr.Aggregate(msg, []error{err})
	}

	return err
}

func (c *loadCompiler) trail(path crown.Path) crown.Path {
	if c.plan.Trail == DebugTrailNone {
		return nil
	}

	return path
}

func (c *loadCompiler) annotate(path crown.Path, err error) error {
	if c.plan.Trail == DebugTrailNone {
		return err
	}

	return loaderr.At(path, err)
}

func (c *loadCompiler) required(slot int) bool {
	f := c.fields[slot]

	return f.Required && f.Default == nil
}

// requires reports whether the key leading to node must be present.
// Branches always are; a field leaf only when the field is required.
func (c *loadCompiler) requires(node crown.InpCrown) bool {
	switch n := node.(type) {
	case *crown.InpField:
		slot, ok := c.index[n.ID]

		return ok && c.required(slot)
	case *crown.InpDict, *crown.InpList:
		return true
	default:
		return false
	}
}

func (c *loadCompiler) node(node crown.InpCrown, path crown.Path) (loadNode, error) {
	switch n := node.(type) {
	case *crown.InpDict:
		return c.dict(n, path)
	case *crown.InpList:
		return c.list(n, path)
	case *crown.InpField:
		return c.field(n, path)
	case *crown.InpNone:
		return func(any, *loadRun) (any, error) { return nil, nil }, nil
	default:
		return nil, compileError(errbuilder.CodeInternal, "unknown input crown %T at %s", node, path)
	}
}

func (c *loadCompiler) field(f *crown.InpField, path crown.Path) (loadNode, error) {
	slot, ok := c.index[f.ID]
	if !ok {
		return nil, compileError(errbuilder.CodeInvalidArgument,
			"crown field %q is not a field of %s", f.ID, provider.HintName(c.plan.Shape.Type))
	}

	load := c.loaders[slot]
	if load == nil {
		return nil, compileError(errbuilder.CodeInvalidArgument, "no loader for field %q", f.ID)
	}

	return func(data any, run *loadRun) (any, error) {
		v, err := load(data)
		if err != nil {
			return nil, c.annotate(path, err)
		}

		run.values[slot] = v
		run.set[slot] = true

		return nil, nil
	}, nil
}

type dictChild struct {
	key      string
	node     loadNode
	required bool
}

func (c *loadCompiler) dict(d *crown.InpDict, path crown.Path) (loadNode, error) {
	children := make([]dictChild, 0, len(d.Entries))
	known := make(map[string]struct{}, len(d.Entries))

	for _, e := range d.Entries {
		node, err := c.node(e.Crown, path.Append(crown.Name(e.Key)))
		if err != nil {
			return nil, err
		}

		children = append(children, dictChild{key: e.Key, node: node, required: c.requires(e.Crown)})
		known[e.Key] = struct{}{}
	}

	trail := c.trail(path)
	policy := d.Extra

	return func(data any, run *loadRun) (any, error) {
		m, ok := asMapping(data)
		if !ok {
			return nil, &loaderr.TypeLoadError{Base: loaderr.Base{Path: trail}, Expected: "mapping", Input: data}
		}

		var errs []error

		if policy == crown.PolicyForbid {
			if unknown := unknownKeys(m, known); len(unknown) > 0 {
				err := &loaderr.ExtraFieldsError{Base: loaderr.Base{Path: trail}, Fields: unknown, Input: data}
				if !c.all {
					return nil, err
				}

				errs = append(errs, err)
			}
		}

		var missing []string

		for _, ch := range children {
			if _, ok := m[ch.key]; !ok && ch.required {
				missing = append(missing, ch.key)
			}
		}

		if len(missing) > 0 {
			err := &loaderr.NoRequiredFieldsError{Base: loaderr.Base{Path: trail}, Fields: missing, Input: data}
			if !c.all {
				return nil, err
			}

			errs = append(errs, err)
		}

		var extra map[string]any

		for _, ch := range children {
			v, ok := m[ch.key]
			if !ok {
				continue
			}

			sub, err := ch.node(v, run)
			if err != nil {
				if !c.all {
					return nil, err
				}

				errs = append(errs, err)

				continue
			}

			if sub != nil {
				if extra == nil {
					extra = make(map[string]any)
				}

				extra[ch.key] = sub
			}
		}

		if len(errs) > 0 {
			return nil, joinErrs(errs)
		}

		if policy == crown.PolicyCollect {
			for k, v := range m {
				if _, ok := known[k]; ok {
					continue
				}

				if extra == nil {
					extra = make(map[string]any)
				}

				extra[k] = v
			}
		}

		if len(extra) == 0 {
			return nil, nil
		}

		return extra, nil
	}, nil
}

func unknownKeys(m map[string]any, known map[string]struct{}) []string {
	var out []string

	for k := range m {
		if _, ok := known[k]; !ok {
			out = append(out, k)
		}
	}

	slices.Sort(out)

	return out
}

func (c *loadCompiler) list(l *crown.InpList, path crown.Path) (loadNode, error) {
	children := make([]loadNode, len(l.Items))
	minLen := len(l.Items)

	for i, item := range l.Items {
		node, err := c.node(item, path.Append(crown.Index(i)))
		if err != nil {
			return nil, err
		}

		children[i] = node
	}

	trail := c.trail(path)
	policy := l.Extra
	strict := c.plan.Strict

	return func(data any, run *loadRun) (any, error) {
		items, err := asSequence(data, strict, trail)
		if err != nil {
			return nil, err
		}

		var errs []error

		if len(items) < minLen {
			err := &loaderr.NoRequiredItemsError{Base: loaderr.Base{Path: trail}, MinLen: minLen, Input: data}
			if !c.all {
				return nil, err
			}

			errs = append(errs, err)
		}

		if policy == crown.PolicyForbid && len(items) > len(children) {
			err := &loaderr.ExtraItemsError{Base: loaderr.Base{Path: trail}, MaxLen: len(children), Input: data}
			if !c.all {
				return nil, err
			}

			errs = append(errs, err)
		}

		var extra []any

		for i, node := range children {
			if i >= len(items) {
				break
			}

			sub, err := node(items[i], run)
			if err != nil {
				if !c.all {
					return nil, err
				}

				errs = append(errs, err)

				continue
			}

			if sub != nil {
				extra = growTo(extra, i+1)
				extra[i] = sub
			}
		}

		if len(errs) > 0 {
			return nil, joinErrs(errs)
		}

		if policy == crown.PolicyCollect && len(items) > len(children) {
			extra = growTo(extra, len(items))
			copy(extra[len(children):], items[len(children):])
		}

		if extra == nil {
			return nil, nil
		}

		return extra, nil
	}, nil
}

func growTo(s []any, n int) []any {
	if len(s) >= n {
		return s
	}

	return append(s, make([]any, n-len(s))...)
}

// extraMove compiles what happens after the crown walk: routing extra data
// and calling the constructor.
func (c *loadCompiler) extraMove() (func(extra any, run *loadRun) (any, error), error) {
	s := c.plan.Shape

	var (
		targets  []int
		kwargs   bool
		saturate func(record any, extra map[string]any) (any, error)
	)

	switch move := c.plan.Layout.Extra.(type) {
	case nil:
	case layout.ExtraTargets:
		for _, id := range move.Fields {
			slot, ok := c.index[id]
			if !ok {
				return nil, compileError(errbuilder.CodeInvalidArgument,
					"extra target %q is not a field of %s", id, provider.HintName(s.Type))
			}

			if c.loaders[slot] == nil {
				return nil, compileError(errbuilder.CodeInvalidArgument, "no loader for extra target %q", id)
			}

			targets = append(targets, slot)
		}
	case layout.ExtraKwargs:
		if !s.Kwargs {
			return nil, compileError(errbuilder.CodeInvalidArgument,
				"%s does not accept extra keyword arguments", provider.HintName(s.Type))
		}

		kwargs = true
	case layout.ExtraSaturate:
		if move.Func == nil {
			return nil, compileError(errbuilder.CodeInvalidArgument, "saturate function is nil")
		}

		saturate = move.Func
	default:
		return nil, compileError(errbuilder.CodeInternal, "unknown extra move %T", move)
	}

	return func(extra any, run *loadRun) (any, error) {
		for _, slot := range targets {
			if isEmptyExtra(extra) && !c.required(slot) {
				continue
			}

			v, err := c.loaders[slot](extra)
			if err != nil {
				return nil, err
			}

			run.values[slot] = v
			run.set[slot] = true
		}

		args := c.args(run)

		if kwargs {
			args.Extra, _ = extra.(map[string]any)
		}

		rec, err := s.Constructor(args)
		if err != nil {
			return nil, err
		}

		if saturate != nil {
			m, _ := extra.(map[string]any)
			if m == nil {
				m = map[string]any{}
			}

			return saturate(rec, m)
		}

		return rec, nil
	}, nil
}

func isEmptyExtra(extra any) bool {
	switch e := extra.(type) {
	case map[string]any:
		return len(e) == 0
	case []any:
		return len(e) == 0
	default:
		return extra == nil
	}
}

// args fills constructor parameters from loaded values, falling back to
// field defaults. Keyword parameters without either are left out.
func (c *loadCompiler) args(run *loadRun) shape.Args {
	var args shape.Args

	for _, p := range c.plan.Shape.Params {
		slot := c.index[p.FieldID]

		value, ok := run.values[slot], run.set[slot]
		if !ok && c.fields[slot].Default != nil {
			value, ok = c.fields[slot].Default.Get(), true
		}

		switch p.Kind {
		case shape.ParamPositional:
			args.Positional = append(args.Positional, value)
		default:
			if !ok {
				continue
			}

			if args.Keyword == nil {
				args.Keyword = make(map[string]any, len(c.plan.Shape.Params))
			}

			args.Keyword[p.FieldID] = value
		}
	}

	return args
}

// FieldIDs lists the fields a loader plan needs converters for, in shape
// order.
func (p LoadPlan) FieldIDs() []string {
	need := make(map[string]bool)

	for _, e := range crown.InpFieldPaths(p.Layout.Crown) {
		need[e.Value] = true
	}

	if move, ok := p.Layout.Extra.(layout.ExtraTargets); ok {
		for _, id := range move.Fields {
			need[id] = true
		}
	}

	var out []string

	for _, f := range p.Shape.Fields {
		if need[f.ID] {
			out = append(out, f.ID)
		}
	}

	for _, id := range slices.Sorted(maps.Keys(need)) {
		if !slices.Contains(out, id) {
			out = append(out, id)
		}
	}

	return out
}
