package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"tarediiran-industries.com/fare-services/internal/fares"
	"tarediiran-industries.com/fare-services/internal/store"
)

func NewPriceCmd(app *FareCtlApp) *cobra.Command {
	var lineName, from, to string

	cmd := &cobra.Command{
		Use:   "price",
		Short: "Look up the fare between two stops of a line",
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := app.Settings()
			if err != nil {
				return err
			}

			lines, err := store.Load(settings.Output.DatabasePath)
			if err != nil {
				return err
			}

			lineIdx, err := fares.FindLine(lines, lineName)
			if err != nil {
				return err
			}
			line := lines[lineIdx]

			fromIdx := line.StopIndex(from)
			if fromIdx < 0 {
				return fmt.Errorf("stop %q not on %s", from, line.Name)
			}
			toIdx := line.StopIndex(to)
			if toIdx < 0 {
				return fmt.Errorf("stop %q not on %s", to, line.Name)
			}

			quote := fares.QuoteFor(lines, lineIdx, fromIdx, toIdx)
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s: %s → %s\n", quote.Line, quote.From, quote.To)
			if quote.Code != "" {
				fmt.Fprintf(out, "Fare code: %s\n", quote.Code)
			}
			fmt.Fprintf(out, "Price: %s\n", fares.FormatQuote(quote))
			return nil
		},
	}

	cmd.Flags().StringVar(&lineName, "line", "", "Line name or unique prefix")
	cmd.Flags().StringVar(&from, "from", "", "Departure stop")
	cmd.Flags().StringVar(&to, "to", "", "Arrival stop")
	cmd.MarkFlagRequired("line")
	cmd.MarkFlagRequired("from")
	cmd.MarkFlagRequired("to")

	return cmd
}
