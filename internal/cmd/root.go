package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"tarediiran-industries.com/fare-services/internal/common"
	"tarediiran-industries.com/fare-services/internal/config"
)

type FareCtlApp struct {
	ConfigPath string
}

func Execute() error {
	app := &FareCtlApp{}
	rootCmd := NewRootCmd(app)
	return rootCmd.Execute()
}

func NewRootCmd(app *FareCtlApp) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "fare-ctl",
		Short:         "CLI tool used to inspect fare spreadsheets and the fare database",
		Version:       fmt.Sprintf("%s (%s)", common.Version, common.GitCommit),
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	cmd.PersistentFlags().StringVar(
		&app.ConfigPath,
		"config",
		"",
		"Path to configuration file (.toml, .yml or .jsonc)",
	)

	cmd.AddCommand(NewInspectCmd(app))
	cmd.AddCommand(NewExtractCmd(app))
	cmd.AddCommand(NewLinesCmd(app))
	cmd.AddCommand(NewValidateCmd(app))
	cmd.AddCommand(NewPriceCmd(app))
	cmd.AddCommand(NewPublishCmd(app))

	return cmd
}

func (app *FareCtlApp) Settings() (config.Config, error) {
	settings, err := config.Load(app.ConfigPath)
	if err != nil {
		return config.Config{}, fmt.Errorf("config.Load: %w", err)
	}
	return settings, nil
}
