package fare_static

import (
	"errors"
	"flag"
	"fmt"
	"io"

	"tarediiran-industries.com/fare-services/internal/common"
	"tarediiran-industries.com/fare-services/internal/config"
)

type Config struct {
	Version bool

	// Config file path - toml, yaml or jsonc; flags below override its values
	ConfigPath string

	// Input args
	InputPath          string
	InputURL           string
	Sheet              string
	LineName           string
	FirstColumnIsLabel bool

	// Output args - either dry-run or merge into the database file
	DryRun       bool
	Replace      bool
	DatabasePath string

	Settings config.Config
}

func ParseArgs(programName string, args []string, errOut io.Writer) (Config, error) {
	var cfg Config

	fs := flag.NewFlagSet(programName, flag.ContinueOnError)
	fs.SetOutput(errOut)

	fs.Usage = func() {
		fmt.Fprintf(errOut, "Usage: %s [options]\n\n", programName)
		fmt.Fprintln(errOut, "Options")
		fs.PrintDefaults()
	}

	fs.BoolVar(&cfg.Version, "version", false, "Prints CLI version")

	fs.StringVar(&cfg.ConfigPath, "config", "", "Configuration file (.toml, .yml or .jsonc)")
	fs.StringVar(&cfg.InputPath, "input", "", "Spreadsheet to import (.xlsx or .csv)")
	fs.StringVar(&cfg.InputURL, "url", "", "Download the spreadsheet from this URL instead of reading -input")
	fs.StringVar(&cfg.Sheet, "sheet", "", "Worksheet to read instead of the active one")
	fs.StringVar(&cfg.LineName, "name", "", "Name of the line record")
	fs.BoolVar(&cfg.FirstColumnIsLabel, "first-column-labels", false, "Column A holds stop names rather than fare codes")

	fs.BoolVar(&cfg.DryRun, "dry-run", false, "Show what would be added without writing the database")
	fs.BoolVar(&cfg.Replace, "replace", false, "Replace a line with the same name instead of appending a new record")
	fs.StringVar(&cfg.DatabasePath, "database", "", "Path to the JSON database")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	if cfg.Version {
		fmt.Fprintf(errOut, "%s: version %s (%s)\n", programName, common.Version, common.GitCommit)
		return Config{}, flag.ErrHelp
	}

	setFlags := map[string]bool{}
	fs.Visit(func(f *flag.Flag) {
		setFlags[f.Name] = true
	})

	settings, err := config.Load(cfg.ConfigPath)
	if err != nil {
		return Config{}, fmt.Errorf("config.Load: %w", err)
	}
	cfg.Settings = applyFlags(settings, cfg, setFlags)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// applyFlags lays the command line over the loaded settings. An explicit
// -input or -url picks the input source even when the other one comes from
// the config file or the environment.
func applyFlags(settings config.Config, cfg Config, setFlags map[string]bool) config.Config {
	if cfg.InputPath != "" {
		settings.Input.Path = cfg.InputPath
		settings.Input.URL = ""
	}
	if cfg.InputURL != "" {
		settings.Input.URL = cfg.InputURL
	}
	if cfg.Sheet != "" {
		settings.Input.Sheet = cfg.Sheet
	}
	if cfg.LineName != "" {
		settings.Input.LineName = cfg.LineName
	}
	if setFlags["first-column-labels"] {
		settings.Input.FirstColumnIsLabel = cfg.FirstColumnIsLabel
	}
	if cfg.DatabasePath != "" {
		settings.Output.DatabasePath = cfg.DatabasePath
	}
	if cfg.Replace {
		settings.Output.MergeMode = "replace"
	}
	return settings
}

func (cfg Config) Validate() error {
	if cfg.InputPath != "" && cfg.InputURL != "" {
		return fmt.Errorf("use either -input or -url, not both")
	}
	if cfg.DryRun && cfg.Replace {
		return fmt.Errorf("-replace has no effect with -dry-run")
	}
	return cfg.Settings.Validate()
}

func Main(programName string, args []string, stdOut, errOut io.Writer) int {
	cfg, err := ParseArgs(programName, args, errOut)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		fmt.Fprintln(errOut, "Error:", err)
		return -1
	}

	if err := Run(cfg, stdOut); err != nil {
		fmt.Fprintln(errOut, "Error:", err)
		return 1
	}
	return 0
}
