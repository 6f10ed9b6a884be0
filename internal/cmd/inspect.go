package cmd

import (
	"github.com/spf13/cobra"

	"tarediiran-industries.com/fare-services/internal/workbook"
)

func NewInspectCmd(app *FareCtlApp) *cobra.Command {
	var rows int

	cmd := &cobra.Command{
		Use:   "inspect FILE",
		Short: "Print the sheets of a spreadsheet and their first rows",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			book, err := workbook.Open(args[0])
			if err != nil {
				return err
			}
			workbook.Preview(cmd.OutOrStdout(), book, rows)
			return nil
		},
	}

	cmd.Flags().IntVar(&rows, "rows", 30, "Number of rows to print per sheet")

	return cmd
}
