package config

// ExampleConfig returns an example configuration showing all available options.
func ExampleConfig() string {
	return `# taskmaster configuration file
# Values can be overridden by TASKMASTER_* environment variables or CLI flags

# Task file (relative to the working directory, supports ~ expansion)
data_file = "tasks.dat"

# Task file format: json, yaml or toml (empty infers from the extension,
# anything unrecognised is json)
data_format = ""

# Validate the task file against a JSON Schema on load
validate_schema = true

# Custom JSON Schema (empty uses the built-in schema)
# schema_file = "tasks.schema.json"

# Diagnostic logging (stderr)
log_level = "warn"      # debug, info, warn, error
log_format = "text"     # text, json, logfmt
log_timestamps = false
log_caller = false
`
}
