package main

import (
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/CovidMutations/mutmap/internal/snpeff"
)

func newAnnotateCmd() *cobra.Command {
	var (
		input   string
		output  string
		jarPath string
		timeout time.Duration
	)

	cmd := &cobra.Command{
		Use:   "annotate",
		Short: "Annotate a catalog VCF with SnpEff",
		Long: `Runs the external SnpEff tool over a variant catalog and writes the
annotated VCF. A non-zero SnpEff exit or a timeout aborts the run and
removes the partial output file.`,
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

			runner := snpeff.NewRunner(jarPath, output)
			runner.Timeout = timeout
			runner.SetLogger(logger)

			path, err := runner.Annotate(cmd.Context(), input, viper.GetString("genome.reference"))
			if err != nil {
				return err
			}

			logger.Info("annotated catalog written", zap.String("path", path))
			return nil
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", "dummy.vcf", "catalog VCF to annotate")
	cmd.Flags().StringVarP(&output, "output", "o", "dummy_snpeff.vcf", "annotated VCF output path")
	cmd.Flags().StringVar(&jarPath, "snpeff-jar", "", "path to snpEff.jar (default from config)")
	cmd.Flags().DurationVar(&timeout, "timeout", 0, "SnpEff invocation timeout (default from config)")

	return cmd
}
