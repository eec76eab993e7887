package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/CovidMutations/mutmap/internal/snpeff"
)

// Version information (set at build time)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// Defaults matching the reference the SnpEff SARS-CoV-2 database is built
// against. The length is a configured constant: nothing validates it
// against the reference the annotation tool actually uses, and a mismatch
// produces silently wrong results downstream.
const (
	defaultGenomeRef    = "NC_045512.2"
	defaultGenomeLength = 29727
)

func newRootCmd() *cobra.Command {
	var cfgFile string

	cmd := &cobra.Command{
		Use:   "mutmap",
		Short: "SARS-CoV-2 nucleotide-to-protein mutation mapping pipeline",
		Long: `mutmap builds an exhaustive catalog of every possible single-nucleotide
substitution across the SARS-CoV-2 reference genome, annotates it with
SnpEff, and derives a lookup table mapping each nucleotide change to its
protein-level amino-acid change.`,
		Example: `  # Full pipeline: generate, annotate, map
  mutmap run --snpeff-jar /opt/snpeff/snpEff.jar

  # Individual stages
  mutmap generate -o dummy.vcf
  mutmap annotate -i dummy.vcf -o dummy_snpeff.vcf
  mutmap map -i dummy_snpeff.vcf -o mutation_mapping.csv

  # Load CORD-19 article metadata into the article database
  mutmap load metadata.csv`,
		Version:      fmt.Sprintf("%s (%s) built %s", version, commit, date),
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initConfig(cfgFile)
		},
	}

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ~/.mutmap.yaml)")
	cmd.PersistentFlags().BoolP("verbose", "v", false, "enable debug logging")

	cmd.AddCommand(
		newGenerateCmd(),
		newAnnotateCmd(),
		newMapCmd(),
		newRunCmd(),
		newLookupCmd(),
		newLoadCmd(),
		newConfigCmd(),
	)

	return cmd
}

// initConfig wires viper: defaults, optional config file, MUTMAP_* env.
func initConfig(cfgFile string) error {
	viper.SetDefault("genome.reference", defaultGenomeRef)
	viper.SetDefault("genome.length", defaultGenomeLength)
	viper.SetDefault("snpeff.jar", "snpEff.jar")
	viper.SetDefault("snpeff.timeout", snpeff.DefaultTimeout)
	viper.SetDefault("db.dsn", "postgres://localhost/covid?sslmode=disable")
	viper.SetDefault("store.path", "")

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else if home, err := os.UserHomeDir(); err == nil {
		viper.AddConfigPath(home)
		viper.SetConfigName(".mutmap")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("MUTMAP")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile == "" && errors.As(err, &notFound) {
			return nil // no config file is fine, defaults apply
		}
		if cfgFile == "" && os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}
	return nil
}

// resolveStorePath picks the DuckDB mapping store path: the --store flag
// wins, then the store.path config key. Empty means no store.
func resolveStorePath(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	return viper.GetString("store.path")
}

// commandLogger builds the logger for one command invocation.
func commandLogger(cmd *cobra.Command) (*zap.Logger, error) {
	verbose, _ := cmd.Flags().GetBool("verbose")
	cfg := zap.NewDevelopmentConfig()
	if !verbose {
		cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}
	return cfg.Build()
}
