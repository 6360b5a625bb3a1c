package config

import (
	"os"
	"strings"
)

// envPrefix prefixes every environment override.
const envPrefix = "TASKMASTER_"

// loadFromEnv overrides config from TASKMASTER_* environment variables.
// If sources is non-nil, it tracks the source of each value.
func loadFromEnv(cfg *Config, sources map[string]ConfigSource) {
	set := func(field string) {
		if sources != nil {
			sources[field] = SourceEnv
		}
	}
	str := func(field string, target *string) {
		if v := os.Getenv(envPrefix + strings.ToUpper(field)); v != "" {
			*target = v
			set(field)
		}
	}
	boolean := func(field string, target *bool) {
		if v := os.Getenv(envPrefix + strings.ToUpper(field)); v != "" {
			*target = boolFromString(v)
			set(field)
		}
	}

	str("data_file", &cfg.DataFile)
	str("data_format", &cfg.DataFormat)
	str("schema_file", &cfg.SchemaFile)
	boolean("validate_schema", &cfg.ValidateSchema)

	// Logging configuration
	str("log_level", &cfg.LogLevel)
	str("log_format", &cfg.LogFormat)
	boolean("log_timestamps", &cfg.LogTimestamps)
	boolean("log_caller", &cfg.LogCaller)
}

func boolFromString(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	return s == "1" || s == "true" || s == "yes" || s == "on"
}
