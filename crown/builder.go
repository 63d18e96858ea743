package crown

import (
	"fmt"

	"crownbind/internal/diagnostic"
)

// draft is the mutable node used while folding flat paths into a tree.
// Children are kept in insertion order through the order slice of keys.
type draft struct {
	path     Path
	leafIdx  int // index into the leaves slice, -1 for branches
	children map[Key]*draft
	order    []Key
}

func newDraft(path Path) *draft {
	return &draft{path: path, leafIdx: -1, children: map[Key]*draft{}}
}

func (d *draft) isLeaf() bool { return d.leafIdx >= 0 }

// fold inserts every path into a draft tree, reporting duplicate leaves and
// paths used both as a branch and as a leaf.
func fold(paths []Path, diags *diagnostic.Diagnostics) *draft {
	root := newDraft(Path{})

	for idx, path := range paths {
		if len(path) == 0 {
			diags.AddError("root_leaf", "a leaf can not be placed at the root, the root must be a dict or a list", "", path.String())

			continue
		}

		node := root
		broken := false

		for depth, key := range path {
			if node.isLeaf() {
				diags.AddError("branch_leaf_conflict",
					fmt.Sprintf("path %s goes through leaf %s", path, node.path),
					"", node.path.String())

				broken = true

				break
			}

			child, ok := node.children[key]
			if !ok {
				child = newDraft(path[:depth+1])
				node.children[key] = child
				node.order = append(node.order, key)
			}

			node = child
		}

		if broken {
			continue
		}

		switch {
		case node.isLeaf():
			diags.AddError("duplicate_path",
				fmt.Sprintf("path is claimed by two leaves (#%d and #%d)", node.leafIdx, idx),
				"", path.String())
		case len(node.children) > 0:
			diags.AddError("branch_leaf_conflict",
				"path is used both as a branch and as a leaf", "", path.String())
		default:
			node.leafIdx = idx
		}
	}

	return root
}

// branchShape classifies the keys of a draft branch.
func branchShape(d *draft, diags *diagnostic.Diagnostics) (isList bool, length int, ok bool) {
	names, indices := 0, 0
	maxIndex := -1

	for _, key := range d.order {
		if key.IsIndex() {
			indices++
			maxIndex = max(maxIndex, key.Index())

			if key.Index() < 0 {
				diags.AddError("negative_index", "sequence index must not be negative", "", d.path.Append(key).String())

				return false, 0, false
			}
		} else {
			names++
		}
	}

	if names > 0 && indices > 0 {
		diags.AddError("mixed_keys", "branch mixes mapping keys and sequence indices", "", d.path.String())

		return false, 0, false
	}

	if indices > 0 {
		return true, maxIndex + 1, true
	}

	return false, 0, true
}

// InputBuilder folds a flat leaf layout into an input crown.
type InputBuilder struct {
	// Policies assigns the unknown-data policy of branches by path.
	Policies PathsTo[Policy]
	// DefaultPolicy is used for branches missing from Policies.
	DefaultPolicy Policy
}

// Build returns the root branch of the crown. Leaves must be *InpField or
// *InpNone. Conflicts are configuration errors reported all at once.
func (b InputBuilder) Build(leaves PathsTo[InpCrown]) (InpCrown, error) {
	var diags diagnostic.Diagnostics

	for _, e := range leaves {
		if IsInpBranch(e.Value) || e.Value == nil {
			diags.AddError("bad_leaf", "only field and discard leaves can be placed by path", "", e.Path.String())
		}
	}

	root := fold(leaves.Paths(), &diags)
	crown := b.convert(root, leaves, &diags)

	if err := diags.Err(); err != nil {
		return nil, err
	}

	return crown, nil
}

func (b InputBuilder) policy(path Path) Policy {
	if p, ok := b.Policies.Lookup(path); ok {
		return p
	}

	return b.DefaultPolicy
}

func (b InputBuilder) convert(d *draft, leaves PathsTo[InpCrown], diags *diagnostic.Diagnostics) InpCrown {
	if d.isLeaf() {
		return leaves[d.leafIdx].Value
	}

	isList, length, ok := branchShape(d, diags)
	if !ok {
		return &InpNone{}
	}

	if isList {
		items := make([]InpCrown, length)
		for i := range items {
			items[i] = &InpNone{}
		}

		for _, key := range d.order {
			items[key.Index()] = b.convert(d.children[key], leaves, diags)
		}

		return &InpList{Items: items, Extra: b.policy(d.path)}
	}

	entries := make([]InpEntry, 0, len(d.order))
	for _, key := range d.order {
		entries = append(entries, InpEntry{Key: key.Name(), Crown: b.convert(d.children[key], leaves, diags)})
	}

	return &InpDict{Entries: entries, Extra: b.policy(d.path)}
}

// OutputBuilder folds a flat leaf layout into an output crown.
type OutputBuilder struct {
	// Sieves assigns sieves to dict entries by the entry path.
	Sieves PathsTo[Sieve]
	// Placeholder fills sequence gaps.
	Placeholder any
}

// Build returns the root branch of the crown. Leaves must be *OutField or
// *OutNone.
func (b OutputBuilder) Build(leaves PathsTo[OutCrown]) (OutCrown, error) {
	var diags diagnostic.Diagnostics

	for _, e := range leaves {
		if IsOutBranch(e.Value) || e.Value == nil {
			diags.AddError("bad_leaf", "only field and placeholder leaves can be placed by path", "", e.Path.String())
		}
	}

	for _, s := range b.Sieves {
		if len(s.Path) == 0 || s.Path[len(s.Path)-1].IsIndex() {
			diags.AddError("bad_sieve", "sieves can only be attached to dict keys", "", s.Path.String())
		}
	}

	root := fold(leaves.Paths(), &diags)
	crown := b.convert(root, leaves, &diags)

	if err := diags.Err(); err != nil {
		return nil, err
	}

	return crown, nil
}

func (b OutputBuilder) convert(d *draft, leaves PathsTo[OutCrown], diags *diagnostic.Diagnostics) OutCrown {
	if d.isLeaf() {
		return leaves[d.leafIdx].Value
	}

	isList, length, ok := branchShape(d, diags)
	if !ok {
		return &OutNone{}
	}

	if isList {
		items := make([]OutCrown, length)
		for i := range items {
			items[i] = &OutNone{Placeholder: b.Placeholder}
		}

		for _, key := range d.order {
			items[key.Index()] = b.convert(d.children[key], leaves, diags)
		}

		return &OutList{Items: items}
	}

	entries := make([]OutEntry, 0, len(d.order))
	for _, key := range d.order {
		path := d.path.Append(key)
		sieve, _ := b.Sieves.Lookup(path)
		entries = append(entries, OutEntry{
			Key:   key.Name(),
			Crown: b.convert(d.children[key], leaves, diags),
			Sieve: sieve,
		})
	}

	return &OutDict{Entries: entries}
}
