package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/CovidMutations/mutmap/internal/cord"
)

func newLoadCmd() *cobra.Command {
	var dsn string
	var stripTo string

	cmd := &cobra.Command{
		Use:   "load <metadata.csv>",
		Short: "Load relevant CORD-19 articles into the article database",
		Long: `Filters a CORD-19 metadata.csv down to the relevant rows (parsed PDF
available, non-PMC source, URL present, title or abstract mentioning covid
or sars-cov-2), reads each article body from its pdf_json file, and
bulk-inserts the articles into Postgres. Rows that already exist are left
untouched.

The pdf_json paths are resolved relative to the metadata file's directory,
matching the layout of an unpacked CORD-19 archive.

With --strip-to, no database is touched: the relevant rows and their
pdf_json files are copied into the given directory as a reduced dataset
that loads the same articles as the full dump.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := commandLogger(cmd)
			if err != nil {
				return err
			}
			defer logger.Sync()

			md, err := cord.ReadMetadata(args[0])
			if err != nil {
				return err
			}
			logger.Info("metadata parsed", zap.Int("rows", md.TotalRows()))

			if stripTo != "" {
				n, err := md.CreateStrippedArchive(stripTo)
				if err != nil {
					return err
				}
				logger.Info("stripped dataset written",
					zap.String("dir", stripTo), zap.Int("rows", n))
				return nil
			}

			articles, err := md.BuildArticles()
			if err != nil {
				return err
			}
			logger.Info("relevant articles prepared", zap.Int("articles", len(articles)))

			if dsn == "" {
				dsn = viper.GetString("db.dsn")
			}
			loader, err := cord.NewLoader(cmd.Context(), dsn)
			if err != nil {
				return err
			}
			defer loader.Close()
			loader.SetLogger(logger)

			n, err := loader.Load(cmd.Context(), articles)
			if err != nil {
				return err
			}
			logger.Info("articles loaded", zap.Int("inserted", n))
			return nil
		},
	}

	cmd.Flags().StringVar(&dsn, "dsn", "", "Postgres DSN (default from config db.dsn)")
	cmd.Flags().StringVar(&stripTo, "strip-to", "", "write a stripped dataset to this directory instead of loading")

	return cmd
}
