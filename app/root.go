// Package app implements the main application commands.
package app

import (
	"github.com/spf13/cobra"
)

var (
	envFile string // Path to the optional dotenv file

	rootCmd = &cobra.Command{
		Use:   "go-api-template",
		Short: "go-api-template is a template for database backed http apis",
		Long: `go-api-template serves a json api backed by a relational database.
SQL lives in plain files: queries below QUERIES_DIR and migrations below MIGRATIONS_DIR.`,
		Args:          cobra.OnlyValidArgs,
		SilenceUsage:  true,
		SilenceErrors: false,
	}
)

func init() { //nolint: gochecknoinits
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", "", "Path to a dotenv file (default \".env\")")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
