package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/tidwall/jsonc"

	"crownbind/internal/common"
	"crownbind/loaderr"
)

type recordOptions struct {
	Schema  string
	Mapping string
	Record  string
}

func addRecordFlags(cmd *cobra.Command, opts *recordOptions) {
	cmd.Flags().StringVar(&opts.Schema, "schema", "", "Schema file path")
	cmd.Flags().StringVar(&opts.Mapping, "mapping", "", "Name mapping file path")
	cmd.Flags().StringVar(&opts.Record, "record", "", "Record name")
}

func (o recordOptions) open(cmd *cobra.Command) (*session, error) {
	schemaPath := resolveString(cmd, o.Schema, "schema", "schema")
	record := resolveString(cmd, o.Record, "record", "record")

	if schemaPath == "" || record == "" {
		return nil, invalidArgument(fmt.Errorf("--schema and --record are required"))
	}

	return openSession(schemaPath, resolveString(cmd, o.Mapping, "mapping", "mapping"), record)
}

func newLoadCommand() *cobra.Command {
	opts := recordOptions{}
	cmd := &cobra.Command{
		Use:   "load [input.jsonc|-]",
		Short: "Load a JSON document into a record and print it dumped back",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input, ok := common.First(args)
			if !ok {
				input = "-"
			}

			return runLoad(cmd, opts, input)
		},
	}
	addRecordFlags(cmd, &opts)

	return cmd
}

// readJSONC decodes a JSON document that may carry comments and trailing
// commas.
func readJSONC(cmd *cobra.Command, input string) (any, error) {
	var (
		data []byte
		err  error
	)

	if input == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(input)
	}

	if err != nil {
		return nil, invalidArgument(fmt.Errorf("reading %s: %w", input, err))
	}

	var doc any
	if err := json.Unmarshal(jsonc.ToJSON(data), &doc); err != nil {
		return nil, invalidArgument(fmt.Errorf("parsing %s: %w", input, err))
	}

	return doc, nil
}

func runLoad(cmd *cobra.Command, opts recordOptions, input string) error {
	s, err := opts.open(cmd)
	if err != nil {
		return err
	}

	doc, err := readJSONC(cmd, input)
	if err != nil {
		return err
	}

	load, err := s.retort.Loader(s.record)
	if err != nil {
		return err
	}

	dump, err := s.retort.Dumper(s.record)
	if err != nil {
		return err
	}

	value, err := load(doc)
	if err != nil {
		printLoadError(cmd.ErrOrStderr(), err)

		return err
	}

	out, err := dump(value)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")

	return enc.Encode(out)
}

// printLoadError writes one line per independent failure.
func printLoadError(w io.Writer, err error) {
	var agg *loaderr.AggregateError
	if !errors.As(err, &agg) {
		fmt.Fprintln(w, err)

		return
	}

	fmt.Fprintf(w, "%s:\n", agg.Msg)

	for _, cause := range agg.Causes {
		fmt.Fprintf(w, "  %s\n", cause)
	}
}
