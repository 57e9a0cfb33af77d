package app

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/erickhv92/go-api-template/internal/config"
	"github.com/erickhv92/go-api-template/internal/db/migrate"
	"github.com/erickhv92/go-api-template/internal/db/session"
	"github.com/erickhv92/go-api-template/internal/logger"
)

func init() { //nolint: gochecknoinits
	migrateCmd.Flags().BoolVar(&migrateSchema, "schema", true, "Run the schema scripts")
	migrateCmd.Flags().BoolVar(&migrateFunctions, "functions", true, "Run the function scripts")
	migrateCmd.Flags().StringVar(&migrationsDir, "dir", "", "Migrations directory (default MIGRATIONS_DIR)")

	rootCmd.AddCommand(migrateCmd)
}

var (
	migrateSchema    bool
	migrateFunctions bool
	migrationsDir    string

	migrateCmd = &cobra.Command{
		Use:   "migrate",
		Short: "Run the sql scripts below the migrations directory",
		Long: `Runs <dir>/schema/*.sql and then <dir>/functions/*.sql in lexicographic order.
Each directory runs in one transaction. Use --schema=false or --functions=false to skip one.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			settings, err := config.Load(envFile)
			if err != nil {
				return err //nolint:wrapcheck
			}

			if err = logger.Init(settings.Log()); err != nil {
				return err //nolint:wrapcheck
			}

			factory, err := session.New(settings)
			if err != nil {
				return err //nolint:wrapcheck
			}

			defer func() { _ = factory.Close() }()

			dir := settings.MigrationsDir
			if migrationsDir != "" {
				dir = migrationsDir
			}

			out := cmd.OutOrStdout()

			runner := migrate.New(factory.Engine(), dir)
			runner.Progress = func(d, file string) {
				_, _ = fmt.Fprintf(out, "Executed %s\n", filepath.Join(filepath.Base(d), file))
			}

			if _, err = runner.Run(cmd.Context(), migrate.Options{
				Schema:    migrateSchema,
				Functions: migrateFunctions,
			}); err != nil {
				return err //nolint:wrapcheck
			}

			_, _ = fmt.Fprintln(out, "Database setup complete!")

			return nil
		},
	}
)
