package config

// InputConfig describes the spreadsheet to import.
type InputConfig struct {
	Path               string `toml:"path" yaml:"path" json:"path" validate:"required"`
	URL                string `toml:"url" yaml:"url" json:"url" validate:"omitempty,url"`
	Sheet              string `toml:"sheet" yaml:"sheet" json:"sheet"`
	LineName           string `toml:"line_name" yaml:"line_name" json:"line_name" validate:"required"`
	FirstColumnIsLabel bool   `toml:"first_column_labels" yaml:"first_column_labels" json:"first_column_labels"`
}

// OutputConfig describes the JSON database the line is merged into.
type OutputConfig struct {
	DatabasePath string `toml:"database" yaml:"database" json:"database" validate:"required"`
	MergeMode    string `toml:"merge_mode" yaml:"merge_mode" json:"merge_mode" validate:"oneof=append replace"`
}

type MetricsConfig struct {
	TextfilePath string `toml:"textfile" yaml:"textfile" json:"textfile"`
}

// PublishConfig points at the SQL database the JSON database is copied to.
type PublishConfig struct {
	Driver string `toml:"driver" yaml:"driver" json:"driver" validate:"omitempty,oneof=sqlite pgx"`
	DSN    string `toml:"dsn" yaml:"dsn" json:"dsn" validate:"required_with=Driver"`
}

type WebConfig struct {
	ListenAddress    string `toml:"listen_address" yaml:"listen_address" json:"listen_address" validate:"required"`
	TelemetryAddress string `toml:"telemetry_address" yaml:"telemetry_address" json:"telemetry_address"`
}

// Config is the root configuration shared by all fare tools. Fares maps a
// fare code to its price written as a decimal string, e.g. E3 = "4.00".
type Config struct {
	Input   InputConfig       `toml:"input" yaml:"input" json:"input"`
	Output  OutputConfig      `toml:"output" yaml:"output" json:"output"`
	Fares   map[string]string `toml:"fares" yaml:"fares" json:"fares" validate:"required,min=1,dive,keys,required,endkeys,required"`
	Metrics MetricsConfig     `toml:"metrics" yaml:"metrics" json:"metrics"`
	Publish PublishConfig     `toml:"publish" yaml:"publish" json:"publish"`
	Web     WebConfig         `toml:"web" yaml:"web" json:"web"`
}
