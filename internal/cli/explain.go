package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"crownbind/internal/common"
	"crownbind/layout"
	"crownbind/morph"
	"crownbind/shape"
)

func newExplainCommand() *cobra.Command {
	opts := recordOptions{}
	cmd := &cobra.Command{
		Use:   "explain",
		Short: "Print the layouts of a record and of the records it nests",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runExplain(cmd, opts)
		},
	}
	addRecordFlags(cmd, &opts)

	return cmd
}

func runExplain(cmd *cobra.Command, opts recordOptions) error {
	s, err := opts.open(cmd)
	if err != nil {
		return err
	}

	var dealer common.Dealer[*shape.Record]

	dealer.Needs(s.record)

	for rec, ok := dealer.NextNeeds(); ok; rec, ok = dealer.NextNeeds() {
		in, err := s.retort.Resolve(layout.InputNameLayoutRequest{Type: rec})
		if err != nil {
			return err
		}

		out, err := s.retort.Resolve(layout.OutputNameLayoutRequest{Type: rec})
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "record %s\n%s\n", rec.Name, morph.Describe(in.(*layout.InputLayout), out.(*layout.OutputLayout)))

		dealer.Needs(nested(rec)...)
	}

	return nil
}

// nested lists the records the fields of rec refer to, in field order.
func nested(rec *shape.Record) []*shape.Record {
	var out []*shape.Record

	for _, f := range rec.Fields {
		hint := f.Type
		for s, ok := hint.(shape.SliceOf); ok; s, ok = hint.(shape.SliceOf) {
			hint = s.Elem
		}

		if r, ok := hint.(*shape.Record); ok {
			out = append(out, r)
		}
	}

	return out
}
