package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/CovidMutations/mutmap/internal/mapping"
	"github.com/CovidMutations/mutmap/internal/pipeline"
	"github.com/CovidMutations/mutmap/internal/store"
)

func newMapCmd() *cobra.Command {
	var (
		input     string
		output    string
		storePath string
	)

	cmd := &cobra.Command{
		Use:   "map",
		Short: "Build the nucleotide-to-protein mapping table",
		Long: `Parses a SnpEff-annotated VCF and writes the mapping table: a
"nucleotide;protein" header followed by one semicolon-separated row per
nucleotide change and normalized protein change.

The table file is opened in append mode; remove it first for an idempotent
run, or use "mutmap run". With --store the rows are additionally persisted
to a DuckDB database for "mutmap lookup".`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := commandLogger(cmd)
			if err != nil {
				return err
			}
			defer logger.Sync()

			var sink mapping.EntrySink
			var st *store.MappingStore
			if path := resolveStorePath(storePath); path != "" {
				st, err = store.Open(path)
				if err != nil {
					return err
				}
				if err := st.CreateSchema(); err != nil {
					st.Close()
					return err
				}
				sink = st
			}

			stats, err := pipeline.BuildMapping(input, output, sink, logger)
			if st != nil {
				if closeErr := st.Close(); closeErr != nil && err == nil {
					err = closeErr
				}
			}
			if err != nil {
				return err
			}

			logger.Info("mapping table written",
				zap.String("path", output),
				zap.Int64("entries", stats.Entries))
			return nil
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", "dummy_snpeff.vcf", "annotated VCF to parse")
	cmd.Flags().StringVarP(&output, "output", "o", "mutation_mapping.csv", "mapping table output path")
	cmd.Flags().StringVar(&storePath, "store", "", "also persist the mapping to this DuckDB database (default from config store.path)")

	return cmd
}
