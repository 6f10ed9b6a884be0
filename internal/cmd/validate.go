package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"tarediiran-industries.com/fare-services/internal/fares"
	"tarediiran-industries.com/fare-services/internal/store"
)

func NewValidateCmd(app *FareCtlApp) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check the fare database for structural and data problems",
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := app.Settings()
			if err != nil {
				return err
			}

			lines, err := store.Load(settings.Output.DatabasePath)
			if err != nil {
				return err
			}

			report := fares.Validate(lines)
			out := cmd.OutOrStdout()
			for _, issue := range report.Issues {
				fmt.Fprintln(out, issue)
			}
			fmt.Fprintf(out, "Checked %d lines: %d errors, %d warnings\n",
				report.Lines, report.Errors(), report.Warnings())

			if report.Errors() > 0 {
				return fmt.Errorf("database %s has %d errors", settings.Output.DatabasePath, report.Errors())
			}
			return nil
		},
	}

	return cmd
}
