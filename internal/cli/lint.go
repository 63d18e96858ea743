package cli

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"crownbind/internal/mapping"
	"crownbind/internal/schema"
	"crownbind/provider"
)

type lintOptions struct {
	Mapping string
	Schema  string
}

func newLintCommand() *cobra.Command {
	opts := lintOptions{}
	cmd := &cobra.Command{
		Use:   "lint",
		Short: "Validate a name mapping file",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runLint(cmd, opts)
		},
	}
	cmd.Flags().StringVar(&opts.Mapping, "mapping", "", "Name mapping file path")
	cmd.Flags().StringVar(&opts.Schema, "schema", "", "Schema file binding the mapped type names")

	return cmd
}

func runLint(cmd *cobra.Command, opts lintOptions) error {
	path := resolveString(cmd, opts.Mapping, "mapping", "mapping")
	if path == "" {
		return invalidArgument(fmt.Errorf("--mapping is required"))
	}

	mf, err := mapping.LoadFile(path)
	if err != nil {
		return invalidArgument(err)
	}

	var types map[string]provider.TypeHint

	if schemaPath := resolveString(cmd, opts.Schema, "schema", "schema"); schemaPath != "" {
		f, err := schema.LoadFile(schemaPath)
		if err != nil {
			return invalidArgument(err)
		}

		s, err := f.Build()
		if err != nil {
			return err
		}

		types = s.Types()
	}

	diags := mapping.Validate(mf, types)
	for _, w := range diags.Warnings {
		log.Warn().Str("code", w.Code).Msg(w.String())
	}

	if err := diags.Err(); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "ok: %d mappings\n", len(mf.Mappings))

	return nil
}
