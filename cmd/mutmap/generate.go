package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/CovidMutations/mutmap/internal/pipeline"
)

func newGenerateCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate the synthetic substitution catalog VCF",
		Long: `Writes every possible single-nucleotide substitution across the reference
genome (12 ordered base pairs per position) as a minimal VCF file
consumable by SnpEff.

The catalog file is opened in append mode: a second invocation against the
same path accumulates records. Remove the file first for a fresh catalog,
or use "mutmap run", which does so itself.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := commandLogger(cmd)
			if err != nil {
				return err
			}
			defer logger.Sync()

			n, err := pipeline.Generate(output,
				viper.GetString("genome.reference"),
				viper.GetInt64("genome.length"))
			if err != nil {
				return err
			}

			logger.Info("synthetic catalog generated",
				zap.String("path", output),
				zap.Int64("records", n))
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "dummy.vcf", "catalog output path")

	return cmd
}
