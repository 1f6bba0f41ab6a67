package cli

import (
	"errors"
	"fmt"
	"office-locator-service/internal/adapters/repositories"
	"office-locator-service/internal/app"
	"strings"

	"github.com/spf13/cobra"
)

func newDBCommand(deps Dependencies) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "db",
		Short: "Create and seed the office database.",
	}

	cmd.AddCommand(newDBInitCommand(deps))
	cmd.AddCommand(newDBSeedCommand(deps))
	return cmd
}

func newDBInitCommand(deps Dependencies) *cobra.Command {
	cfg := currentConfig(deps)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create the offices and geocode_cache tables.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			db, dialect, err := app.OpenDatabase(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer db.Close()

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "schema ready (%s)\n", dialect)
			return nil
		},
	}

	cmd.Flags().StringVar(&cfg.DatabaseURL, "database-url", cfg.DatabaseURL, "Postgres URL; SQLite is used when empty.")
	cmd.Flags().StringVar(&cfg.SqlitePath, "sqlite-path", cfg.SqlitePath, "SQLite database file.")
	return cmd
}

func newDBSeedCommand(deps Dependencies) *cobra.Command {
	cfg := currentConfig(deps)

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load a dataset and replace the stored office table with it.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			if strings.EqualFold(strings.TrimSpace(cfg.DatasetSource), "sql") {
				return errors.New("seed: --dataset must name a file, URL or bucket object, not sql")
			}

			load, err := app.DatasetLoader(cfg, nil)(ctx)
			if err != nil {
				return err
			}

			db, dialect, err := app.OpenDatabase(ctx, cfg)
			if err != nil {
				return err
			}
			defer db.Close()

			repo := repositories.NewSQLOfficeRepository(db, dialect)
			if err := repo.ReplaceOffices(ctx, load.Offices); err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "seeded %d offices (%d row diagnostics) into %s\n",
				len(load.Offices), len(load.Diagnostics), dialect)
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&cfg.DatasetSource, "dataset", cfg.DatasetSource, "Dataset location: CSV path, .xlsx, http(s) URL or s3://bucket/key.")
	flags.StringVar(&cfg.DatasetSheet, "sheet", cfg.DatasetSheet, "Worksheet name for .xlsx datasets.")
	flags.BoolVar(&cfg.DatasetStrict, "strict", cfg.DatasetStrict, "Exclude rows with unusable coordinates.")
	flags.StringVar(&cfg.DatabaseURL, "database-url", cfg.DatabaseURL, "Postgres URL; SQLite is used when empty.")
	flags.StringVar(&cfg.SqlitePath, "sqlite-path", cfg.SqlitePath, "SQLite database file.")
	return cmd
}
