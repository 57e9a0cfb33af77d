package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/erickhv92/go-api-template/internal/config"
)

func init() { //nolint: gochecknoinits
	rootCmd.AddCommand(configCmd)
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective settings with secrets redacted",
	RunE: func(cmd *cobra.Command, _ []string) error {
		settings, err := config.Load(envFile)
		if err != nil {
			return err //nolint:wrapcheck
		}

		out, err := config.DumpJSON(settings)
		if err != nil {
			return err //nolint:wrapcheck
		}

		_, err = fmt.Fprint(cmd.OutOrStdout(), out)

		return err //nolint:wrapcheck
	},
}
