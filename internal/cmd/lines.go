package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"tarediiran-industries.com/fare-services/internal/store"
)

func NewLinesCmd(app *FareCtlApp) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lines",
		Short: "List the lines stored in the fare database",
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := app.Settings()
			if err != nil {
				return err
			}

			lines, err := store.Load(settings.Output.DatabasePath)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Lines in %s: %d\n", settings.Output.DatabasePath, len(lines))
			for i, line := range lines {
				first, last := "-", "-"
				if len(line.Stops) > 0 {
					first, last = line.Stops[0], line.Stops[len(line.Stops)-1]
				}
				fmt.Fprintf(out, "  %d. %s - %d stops (%s → %s)\n", i+1, line.Name, len(line.Stops), first, last)
			}
			return nil
		},
	}

	return cmd
}
