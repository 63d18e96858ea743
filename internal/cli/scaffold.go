package cli

import (
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"crownbind/internal/analyze"
)

type scaffoldOptions struct {
	Packages []string
	Types    []string
	Dir      string
	Out      string
}

func newScaffoldCommand() *cobra.Command {
	opts := scaffoldOptions{}
	cmd := &cobra.Command{
		Use:   "scaffold",
		Short: "Draft a schema file from Go struct types",
		Long: `Draft a schema file from Go struct types.

Each named type and every struct it reaches becomes a record. Field names
follow json tags; pointers, slices, maps and omitempty fields are optional.`,
		Example: "  crownbind scaffold --pkg ./store --type Order --out schema.yaml",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runScaffold(cmd, opts)
		},
	}
	cmd.Flags().StringSliceVar(&opts.Packages, "pkg", []string{"."}, "Package patterns to load")
	cmd.Flags().StringSliceVar(&opts.Types, "type", nil, "Struct types to draft records for (required)")
	cmd.Flags().StringVar(&opts.Dir, "dir", "", "Directory to resolve package patterns from")
	cmd.Flags().StringVar(&opts.Out, "out", "", "Output file (default stdout)")
	_ = cmd.MarkFlagRequired("type")

	return cmd
}

func runScaffold(cmd *cobra.Command, opts scaffoldOptions) error {
	a, err := analyze.Load(opts.Dir, opts.Packages...)
	if err != nil {
		return notFound("%v", err)
	}

	f, err := a.Scaffold(opts.Types...)
	if err != nil {
		return err
	}

	data, err := yaml.Marshal(f)
	if err != nil {
		return fmt.Errorf("failed to encode schema: %w", err)
	}

	if opts.Out == "" {
		_, err = cmd.OutOrStdout().Write(data)

		return err
	}

	if err := os.WriteFile(opts.Out, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", opts.Out, err)
	}

	log.Info().Str("file", opts.Out).Int("records", len(f.Records)).Msg("schema drafted")

	return nil
}
