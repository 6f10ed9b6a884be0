package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"
	"github.com/marcozac/go-jsonc"
	"gopkg.in/yaml.v3"

	"tarediiran-industries.com/fare-services/internal/fares"
)

// Default returns the settings the original import was hard-wired with.
func Default() Config {
	return Config{
		Input: InputConfig{
			Path:     "Udine San Daniele.xlsx",
			LineName: "Linea 401 Udine-San Daniele",
		},
		Output: OutputConfig{
			DatabasePath: "database.json",
			MergeMode:    "append",
		},
		Fares: fares.DefaultFares(),
		Web: WebConfig{
			ListenAddress: ":8080",
		},
	}
}

// Load builds the configuration from defaults, the optional config file and
// FARE_* environment variables, in that order, then validates it.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		fileCfg, err := LoadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("LoadFile: %w", err)
		}
		cfg = overlay(cfg, fileCfg)
	}

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadFile decodes a config file; the format follows the extension.
func LoadFile(path string) (Config, error) {
	var cfg Config

	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return Config{}, err
		}
	case ".yml", ".yaml":
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, err
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, err
		}
	case ".json", ".jsonc":
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, err
		}
		sanitized, err := jsonc.Sanitize(data)
		if err != nil {
			return Config{}, err
		}
		if err := json.Unmarshal(sanitized, &cfg); err != nil {
			return Config{}, err
		}
	default:
		return Config{}, fmt.Errorf("unsupported config format %q", filepath.Ext(path))
	}

	return cfg, nil
}

// Validate checks struct tags, then that every fare parses as a price.
func (cfg Config) Validate() error {
	if err := validator.New().Struct(cfg); err != nil {
		return err
	}
	if _, err := cfg.FareTable(); err != nil {
		return err
	}
	return nil
}

func (cfg Config) FareTable() (fares.Table, error) {
	return fares.ParseTable(cfg.Fares)
}

func (cfg Config) Layout() fares.Layout {
	return fares.Layout{FirstColumnIsLabel: cfg.Input.FirstColumnIsLabel}
}

// overlay copies every field set in file onto base. A fare table in the file
// replaces the default schedule as a whole.
func overlay(base, file Config) Config {
	setString(&base.Input.Path, file.Input.Path)
	setString(&base.Input.URL, file.Input.URL)
	setString(&base.Input.Sheet, file.Input.Sheet)
	setString(&base.Input.LineName, file.Input.LineName)
	if file.Input.FirstColumnIsLabel {
		base.Input.FirstColumnIsLabel = true
	}

	setString(&base.Output.DatabasePath, file.Output.DatabasePath)
	setString(&base.Output.MergeMode, file.Output.MergeMode)

	if len(file.Fares) > 0 {
		base.Fares = file.Fares
	}

	setString(&base.Metrics.TextfilePath, file.Metrics.TextfilePath)
	setString(&base.Publish.Driver, file.Publish.Driver)
	setString(&base.Publish.DSN, file.Publish.DSN)
	setString(&base.Web.ListenAddress, file.Web.ListenAddress)
	setString(&base.Web.TelemetryAddress, file.Web.TelemetryAddress)
	return base
}

func setString(dst *string, value string) {
	if value != "" {
		*dst = value
	}
}

func applyEnv(cfg *Config) error {
	setString(&cfg.Input.Path, os.Getenv("FARE_INPUT"))
	setString(&cfg.Input.URL, os.Getenv("FARE_INPUT_URL"))
	setString(&cfg.Input.Sheet, os.Getenv("FARE_SHEET"))
	setString(&cfg.Input.LineName, os.Getenv("FARE_LINE_NAME"))
	setString(&cfg.Output.DatabasePath, os.Getenv("FARE_DATABASE"))
	setString(&cfg.Output.MergeMode, os.Getenv("FARE_MERGE_MODE"))
	setString(&cfg.Metrics.TextfilePath, os.Getenv("FARE_METRICS_TEXTFILE"))
	setString(&cfg.Publish.Driver, os.Getenv("FARE_PUBLISH_DRIVER"))
	setString(&cfg.Publish.DSN, os.Getenv("FARE_PUBLISH_DSN"))
	setString(&cfg.Web.ListenAddress, os.Getenv("FARE_LISTEN_ADDRESS"))
	setString(&cfg.Web.TelemetryAddress, os.Getenv("FARE_TELEMETRY_ADDRESS"))

	if value := os.Getenv("FARE_FIRST_COLUMN_LABELS"); value != "" {
		labels, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("FARE_FIRST_COLUMN_LABELS: %w", err)
		}
		cfg.Input.FirstColumnIsLabel = labels
	}
	return nil
}
