package main

import (
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/CovidMutations/mutmap/internal/pipeline"
	"github.com/CovidMutations/mutmap/internal/snpeff"
	"github.com/CovidMutations/mutmap/internal/store"
)

func newRunCmd() *cobra.Command {
	var (
		workDir   string
		output    string
		jarPath   string
		storePath string
		timeout   time.Duration
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the full mutation-mapping pipeline",
		Long: `Generates the synthetic substitution catalog, annotates it with SnpEff,
and assembles the nucleotide-to-protein mapping table in one go. Stale
catalog and mapping files are removed first, so re-runs are idempotent.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := commandLogger(cmd)
			if err != nil {
				return err
			}
			defer logger.Sync()

			if jarPath == "" {
				jarPath = viper.GetString("snpeff.jar")
			}
			if timeout == 0 {
				timeout = viper.GetDuration("snpeff.timeout")
			}

			runner := snpeff.NewRunner(jarPath, filepath.Join(workDir, "dummy_snpeff.vcf"))
			runner.Timeout = timeout
			runner.SetLogger(logger)

			p := pipeline.New(pipeline.Config{
				GenomeRef:    viper.GetString("genome.reference"),
				GenomeLength: viper.GetInt64("genome.length"),
				CatalogPath:  filepath.Join(workDir, "dummy.vcf"),
				MappingPath:  output,
			}, runner)
			p.SetLogger(logger)

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
				p.SetSink(st)
			}

			stats, err := p.Run(cmd.Context())
			if st != nil {
				if closeErr := st.Close(); closeErr != nil && err == nil {
					err = closeErr
				}
			}
			if err != nil {
				return err
			}

			logger.Info("pipeline finished",
				zap.Int64("records", stats.Records),
				zap.Int64("records_skipped", stats.RecordsSkipped),
				zap.Int64("mutations_dropped", stats.MutationsDropped),
				zap.Int64("entries", stats.Entries))
			return nil
		},
	}

	cmd.Flags().StringVar(&workDir, "work-dir", ".", "directory for intermediate files")
	cmd.Flags().StringVarP(&output, "output", "o", "mutation_mapping.csv", "mapping table output path")
	cmd.Flags().StringVar(&jarPath, "snpeff-jar", "", "path to snpEff.jar (default from config)")
	cmd.Flags().StringVar(&storePath, "store", "", "also persist the mapping to this DuckDB database (default from config store.path)")
	cmd.Flags().DurationVar(&timeout, "timeout", 0, "SnpEff invocation timeout (default from config)")

	return cmd
}
