package cmd

import (
	"fmt"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"tarediiran-industries.com/fare-services/internal/common"
	"tarediiran-industries.com/fare-services/internal/ingest/fare_static"
	"tarediiran-industries.com/fare-services/internal/store"
)

func NewExtractCmd(app *FareCtlApp) *cobra.Command {
	var outPath string

	cmd := &cobra.Command{
		Use:   "extract",
		Short: "Extract the configured line and print it as JSON without touching the database",
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := app.Settings()
			if err != nil {
				return err
			}

			metrics := common.NewMetrics(prometheus.NewRegistry())
			extraction, err := fare_static.ReadLine(cmd.Context(), settings, metrics, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			for _, code := range extraction.UnknownCodes {
				fmt.Fprintf(cmd.ErrOrStderr(), "WARNING: unknown fare code %q priced at 0\n", code)
			}

			data, err := store.EncodeLine(extraction.Line)
			if err != nil {
				return err
			}

			if outPath == "" {
				_, err := cmd.OutOrStdout().Write(data)
				return err
			}
			if err := os.WriteFile(outPath, data, 0o644); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Line %q written to %s\n", extraction.Line.Name, outPath)
			return nil
		},
	}

	cmd.Flags().StringVar(&outPath, "out", "", "Write the record to this file instead of stdout")

	return cmd
}
