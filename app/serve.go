package app

import (
	"github.com/spf13/cobra"

	"github.com/erickhv92/go-api-template/internal/config"
	"github.com/erickhv92/go-api-template/internal/daemon"
)

func init() { //nolint: gochecknoinits
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the http api",
	RunE: func(_ *cobra.Command, _ []string) error {
		config.SetEnvFile(envFile)

		settings, err := config.Get()
		if err != nil {
			return err //nolint:wrapcheck
		}

		d, err := daemon.New(settings)
		if err != nil {
			return err //nolint:wrapcheck
		}

		return d.Start()
	},
}
