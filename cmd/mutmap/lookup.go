package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/CovidMutations/mutmap/internal/store"
)

func newLookupCmd() *cobra.Command {
	var storePath string

	cmd := &cobra.Command{
		Use:   "lookup <nucleotide-change>",
		Short: "Look up protein changes for a nucleotide change",
		Long: `Queries a DuckDB mapping store produced by "mutmap map --store" or
"mutmap run --store" and prints the protein changes recorded for the given
nucleotide change, one per line.`,
		Example: `  mutmap lookup 23403A>G --store mutation_mapping.duckdb`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := resolveStorePath(storePath)
			if path == "" {
				return fmt.Errorf("no mapping store specified: use --store or set store.path")
			}
			st, err := store.Open(path)
			if err != nil {
				return err
			}
			defer st.Close()

			proteins, err := st.Lookup(args[0])
			if err != nil {
				return err
			}
			if len(proteins) == 0 {
				return fmt.Errorf("no protein changes recorded for %s", args[0])
			}
			for _, p := range proteins {
				fmt.Fprintln(cmd.OutOrStdout(), p)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&storePath, "store", "", "DuckDB mapping store to query (default from config store.path)")

	return cmd
}
