package fare_web

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

	ConfigPath string

	ListenAddress    string
	TelemetryAddress string
	DatabasePath     string

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
	fs.StringVar(&cfg.ListenAddress, "listen", "", "Address the web server listens on")
	fs.StringVar(&cfg.TelemetryAddress, "telemetry", "", "Address for /metrics and pprof (disabled when empty)")
	fs.StringVar(&cfg.DatabasePath, "database", "", "Path to the JSON database")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	if cfg.Version {
		fmt.Fprintf(errOut, "%s: version %s (%s)\n", programName, common.Version, common.GitCommit)
		return Config{}, flag.ErrHelp
	}

	settings, err := config.Load(cfg.ConfigPath)
	if err != nil {
		return Config{}, fmt.Errorf("config.Load: %w", err)
	}
	if cfg.ListenAddress != "" {
		settings.Web.ListenAddress = cfg.ListenAddress
	}
	if cfg.TelemetryAddress != "" {
		settings.Web.TelemetryAddress = cfg.TelemetryAddress
	}
	if cfg.DatabasePath != "" {
		settings.Output.DatabasePath = cfg.DatabasePath
	}
	cfg.Settings = settings

	if err := cfg.Settings.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
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

	if err := Run(cfg); err != nil {
		fmt.Fprintln(errOut, "Error:", err)
		return 1
	}
	return 0
}
