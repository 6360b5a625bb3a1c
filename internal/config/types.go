// Package config handles configuration loading and defaults.
package config

// ConfigSource represents where a configuration value came from.
type ConfigSource string

const (
	SourceDefault  ConfigSource = "default"
	SourceUserFile ConfigSource = "user file"
	SourceProjFile ConfigSource = "project file"
	SourceEnv      ConfigSource = "environment"
	SourceFlag     ConfigSource = "flag"
)

// ConfigWithSources holds configuration along with source information for each field.
type ConfigWithSources struct {
	Config  *Config
	Sources map[string]ConfigSource
	// Files lists the config files that were read, lowest priority first.
	Files []string
}

// Default values.
const (
	DefaultDataFile       = "tasks.dat"
	DefaultValidateSchema = true
	DefaultLogLevel       = "warn"
	DefaultLogFormat      = "text"
)

// AppName names the user config directory and the config file stem.
const AppName = "taskmaster"

// Config holds the full configuration for taskmaster.
type Config struct {
	// Persistence
	DataFile       string `toml:"data_file"`
	DataFormat     string `toml:"data_format"`
	SchemaFile     string `toml:"schema_file"`
	ValidateSchema bool   `toml:"validate_schema"`

	// Logging configuration
	LogLevel      string `toml:"log_level"`
	LogFormat     string `toml:"log_format"`
	LogTimestamps bool   `toml:"log_timestamps"`
	LogCaller     bool   `toml:"log_caller"`

	// Project root (computed)
	ProjectRoot string `toml:"-"`
}

// configFields returns the list of configurable field names for source tracking.
func configFields() []string {
	return []string{
		"data_file",
		"data_format",
		"schema_file",
		"validate_schema",
		"log_level",
		"log_format",
		"log_timestamps",
		"log_caller",
	}
}

// setDefaults applies default values to the config.
func setDefaults(cfg *Config) {
	cfg.DataFile = DefaultDataFile
	cfg.DataFormat = ""
	cfg.SchemaFile = ""
	cfg.ValidateSchema = DefaultValidateSchema
	cfg.LogLevel = DefaultLogLevel
	cfg.LogFormat = DefaultLogFormat
	cfg.LogTimestamps = false
	cfg.LogCaller = false
}
