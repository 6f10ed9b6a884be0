package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"tarediiran-industries.com/fare-services/internal/ingest/fare_static"
)

func NewPublishCmd(app *FareCtlApp) *cobra.Command {
	var driver, dsn string

	cmd := &cobra.Command{
		Use:   "publish",
		Short: "Copy the fare database into SQL as a new export",
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := app.Settings()
			if err != nil {
				return err
			}
			if driver != "" {
				settings.Publish.Driver = driver
			}
			if dsn != "" {
				settings.Publish.DSN = dsn
			}
			if settings.Publish.Driver == "" {
				return fmt.Errorf("no publish driver configured (use --driver sqlite|pgx)")
			}
			if err := settings.Validate(); err != nil {
				return err
			}

			return fare_static.Publish(cmd.Context(), settings.Publish.Driver, settings.Publish.DSN,
				settings.Output.DatabasePath, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&driver, "driver", "", "SQL driver: sqlite or pgx")
	cmd.Flags().StringVar(&dsn, "dsn", "", "Connection string or SQLite file path")

	return cmd
}
