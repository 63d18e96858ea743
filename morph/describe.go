package morph

import (
	"fmt"
	"strings"

	"crownbind/crown"
	"crownbind/layout"
)

// DescribeInput renders an input layout one crown position per line.
func DescribeInput(l *layout.InputLayout) string {
	var b strings.Builder

	var walk func(c crown.InpCrown, path crown.Path)

	walk = func(c crown.InpCrown, path crown.Path) {
		switch n := c.(type) {
		case *crown.InpDict:
			fmt.Fprintf(&b, "%s dict extra=%s\n", path, n.Extra)

			for _, e := range n.Entries {
				walk(e.Crown, path.Append(crown.Name(e.Key)))
			}
		case *crown.InpList:
			fmt.Fprintf(&b, "%s list extra=%s\n", path, n.Extra)

			for i, item := range n.Items {
				walk(item, path.Append(crown.Index(i)))
			}
		case *crown.InpField:
			fmt.Fprintf(&b, "%s -> %s\n", path, n.ID)
		case *crown.InpNone:
			fmt.Fprintf(&b, "%s skipped\n", path)
		}
	}

	walk(l.Crown, crown.Path{})

	switch move := l.Extra.(type) {
	case layout.ExtraTargets:
		fmt.Fprintf(&b, "extra -> %s\n", strings.Join(move.Fields, ", "))
	case layout.ExtraKwargs:
		b.WriteString("extra -> constructor keywords\n")
	case layout.ExtraSaturate:
		b.WriteString("extra -> saturate\n")
	}

	return b.String()
}

// DescribeOutput renders an output layout one crown position per line.
func DescribeOutput(l *layout.OutputLayout) string {
	var b strings.Builder

	var walk func(c crown.OutCrown, path crown.Path, sieved bool)

	walk = func(c crown.OutCrown, path crown.Path, sieved bool) {
		switch n := c.(type) {
		case *crown.OutDict:
			fmt.Fprintf(&b, "%s dict\n", path)

			for _, e := range n.Entries {
				walk(e.Crown, path.Append(crown.Name(e.Key)), e.Sieve != nil)
			}
		case *crown.OutList:
			fmt.Fprintf(&b, "%s list\n", path)

			for i, item := range n.Items {
				walk(item, path.Append(crown.Index(i)), false)
			}
		case *crown.OutField:
			if sieved {
				fmt.Fprintf(&b, "%s <- %s (sieved)\n", path, n.ID)
			} else {
				fmt.Fprintf(&b, "%s <- %s\n", path, n.ID)
			}
		case *crown.OutNone:
			fmt.Fprintf(&b, "%s = %v\n", path, n.Placeholder)
		}
	}

	walk(l.Crown, crown.Path{}, false)

	switch move := l.Extra.(type) {
	case layout.ExtraTargets:
		fmt.Fprintf(&b, "extra <- %s\n", strings.Join(move.Fields, ", "))
	case layout.ExtraExtract:
		b.WriteString("extra <- extract\n")
	}

	return b.String()
}

// Describe renders both directions of a type's layouts.
func Describe(in *layout.InputLayout, out *layout.OutputLayout) string {
	var b strings.Builder

	if in != nil {
		b.WriteString("load:\n")
		b.WriteString(DescribeInput(in))
	}

	if out != nil {
		b.WriteString("dump:\n")
		b.WriteString(DescribeOutput(out))
	}

	return b.String()
}
