// Package config tests configuration loading.
package config

import (
	"flag"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// isolate points HOME and the XDG config dir at empty temp dirs and moves
// into a fresh working directory, so no real config file is picked up.
func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, ".config"))
	for _, field := range configFields() {
		t.Setenv(envPrefix+strings.ToUpper(field), "")
	}
	wd := t.TempDir()
	chdir(t, wd)
	return home
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestDefaults(t *testing.T) {
	cfg := &Config{}
	setDefaults(cfg)

	if cfg.DataFile != DefaultDataFile {
		t.Errorf("DataFile: got %q, want %q", cfg.DataFile, DefaultDataFile)
	}
	if cfg.DataFormat != "" {
		t.Errorf("DataFormat: got %q, want empty", cfg.DataFormat)
	}
	if !cfg.ValidateSchema {
		t.Error("ValidateSchema: got false, want true")
	}
	if cfg.LogLevel != DefaultLogLevel || cfg.LogFormat != DefaultLogFormat {
		t.Errorf("logging defaults: got %q/%q", cfg.LogLevel, cfg.LogFormat)
	}
}

func TestLoadDefaultsResolveDataFile(t *testing.T) {
	isolate(t)
	cws, err := LoadWithSources(flag.NewFlagSet("test", flag.ContinueOnError), nil)
	if err != nil {
		t.Fatalf("LoadWithSources: %v", err)
	}
	wd, _ := os.Getwd()
	want := filepath.Join(wd, DefaultDataFile)
	if cws.Config.DataFile != want {
		t.Errorf("DataFile: got %q, want %q", cws.Config.DataFile, want)
	}
	if cws.Sources["data_file"] != SourceDefault {
		t.Errorf("data_file source: got %q", cws.Sources["data_file"])
	}
	if cws.GetConfigFile() != "" {
		t.Errorf("GetConfigFile: got %q, want empty", cws.GetConfigFile())
	}
}

func TestLoadFromEnv(t *testing.T) {
	isolate(t)
	t.Setenv("TASKMASTER_DATA_FILE", "custom.yaml")
	t.Setenv("TASKMASTER_VALIDATE_SCHEMA", "no")
	t.Setenv("TASKMASTER_LOG_LEVEL", "debug")
	t.Setenv("TASKMASTER_LOG_TIMESTAMPS", "on")

	cfg := &Config{}
	setDefaults(cfg)
	sources := map[string]ConfigSource{}
	loadFromEnv(cfg, sources)

	if cfg.DataFile != "custom.yaml" {
		t.Errorf("DataFile: got %q, want custom.yaml", cfg.DataFile)
	}
	if cfg.ValidateSchema {
		t.Error("ValidateSchema: got true, want false")
	}
	if cfg.LogLevel != "debug" || !cfg.LogTimestamps {
		t.Errorf("logging: got %q timestamps=%v", cfg.LogLevel, cfg.LogTimestamps)
	}
	if sources["data_file"] != SourceEnv || sources["log_format"] != "" {
		t.Errorf("sources: %v", sources)
	}
}

func TestLoadConfigFile(t *testing.T) {
	tmpDir := t.TempDir()
	configFile := filepath.Join(tmpDir, "taskmaster.toml")
	writeFile(t, configFile, `data_file = "custom.toml"
data_format = "toml"
validate_schema = false
`)

	cfg := &Config{}
	setDefaults(cfg)
	sources := map[string]ConfigSource{}
	if err := loadConfigFile(cfg, configFile, sources, SourceProjFile); err != nil {
		t.Fatalf("loadConfigFile: %v", err)
	}

	if cfg.DataFile != "custom.toml" || cfg.DataFormat != "toml" || cfg.ValidateSchema {
		t.Errorf("decoded config: %+v", cfg)
	}
	if cfg.LogLevel != DefaultLogLevel {
		t.Errorf("LogLevel overwritten: %q", cfg.LogLevel)
	}
	if sources["data_file"] != SourceProjFile || sources["validate_schema"] != SourceProjFile {
		t.Errorf("sources: %v", sources)
	}
	if _, ok := sources["log_level"]; ok {
		t.Errorf("log_level should not be tracked: %v", sources)
	}
}

func TestLoadConfigFileUnknownKey(t *testing.T) {
	configFile := filepath.Join(t.TempDir(), "taskmaster.toml")
	writeFile(t, configFile, "data_fiel = \"typo.dat\"\n")

	cfg := &Config{}
	if err := loadConfigFile(cfg, configFile, nil, SourceProjFile); err == nil {
		t.Error("expected unknown key error")
	}
}

func TestLoadPriority(t *testing.T) {
	home := isolate(t)
	writeFile(t, filepath.Join(home, ".taskmaster", "taskmaster.toml"), `data_file = "user.dat"
log_level = "info"
log_format = "logfmt"
`)
	writeFile(t, "taskmaster.toml", `data_file = "project.dat"
log_level = "error"
`)
	t.Setenv("TASKMASTER_LOG_LEVEL", "debug")

	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	cws, err := LoadWithSources(fs, []string{"-data", "/tmp/flag.yaml", "run"})
	if err != nil {
		t.Fatalf("LoadWithSources: %v", err)
	}
	cfg := cws.Config

	if cfg.DataFile != "/tmp/flag.yaml" {
		t.Errorf("DataFile: got %q, want /tmp/flag.yaml", cfg.DataFile)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel: got %q, want debug", cfg.LogLevel)
	}
	if cfg.LogFormat != "logfmt" {
		t.Errorf("LogFormat: got %q, want logfmt", cfg.LogFormat)
	}

	wantSources := map[string]ConfigSource{
		"data_file":  SourceFlag,
		"log_level":  SourceEnv,
		"log_format": SourceUserFile,
		"log_caller": SourceDefault,
	}
	for field, want := range wantSources {
		if got := cws.Sources[field]; got != want {
			t.Errorf("source %s: got %q, want %q", field, got, want)
		}
	}
	if len(cws.Files) != 2 || cws.GetConfigFile() != "taskmaster.toml" {
		t.Errorf("Files: %v", cws.Files)
	}
	if args := fs.Args(); len(args) != 1 || args[0] != "run" {
		t.Errorf("remaining args: %v", args)
	}
}

func TestLoadXDGUserConfig(t *testing.T) {
	home := isolate(t)
	writeFile(t, filepath.Join(home, ".config", "taskmaster", "taskmaster.toml"), "data_format = \"yaml\"\n")

	cws, err := LoadWithSources(flag.NewFlagSet("test", flag.ContinueOnError), nil)
	if err != nil {
		t.Fatalf("LoadWithSources: %v", err)
	}
	if cws.Config.DataFormat != "yaml" {
		t.Errorf("DataFormat: got %q, want yaml", cws.Config.DataFormat)
	}
	if cws.Sources["data_format"] != SourceUserFile {
		t.Errorf("data_format source: got %q, want %q", cws.Sources["data_format"], SourceUserFile)
	}
}

func TestFinalizeRejectsBadFormat(t *testing.T) {
	cfg := &Config{}
	setDefaults(cfg)
	cfg.DataFormat = "xml"
	if err := finalizeConfig(cfg); err == nil {
		t.Error("expected error for xml format")
	}

	cfg.DataFormat = ""
	cfg.DataFile = "  "
	if err := finalizeConfig(cfg); err == nil {
		t.Error("expected error for empty data file")
	}
}

func TestFinalizeResolvesPaths(t *testing.T) {
	home := isolate(t)
	cfg := &Config{}
	setDefaults(cfg)
	cfg.DataFile = "~/tasks/tasks.dat"
	cfg.SchemaFile = "schema.json"
	cfg.ProjectRoot = "/work"

	if err := finalizeConfig(cfg); err != nil {
		t.Fatal(err)
	}
	if want := filepath.Join(home, "tasks", "tasks.dat"); cfg.DataFile != want {
		t.Errorf("DataFile: got %q, want %q", cfg.DataFile, want)
	}
	if want := filepath.Join("/work", "schema.json"); cfg.SchemaFile != want {
		t.Errorf("SchemaFile: got %q, want %q", cfg.SchemaFile, want)
	}
}

func TestExpandPath(t *testing.T) {
	home := isolate(t)
	t.Setenv("TM_TEST_DIR", "/data")

	tests := map[string]string{
		"":                   "",
		"~":                  home,
		"~/x.dat":            filepath.Join(home, "x.dat"),
		"$TM_TEST_DIR/t.dat": "/data/t.dat",
		"plain.dat":          "plain.dat",
		"~other/x":           "~other/x",
	}
	for in, want := range tests {
		if got := expandPath(in); got != want {
			t.Errorf("expandPath(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestExampleConfigDecodes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "taskmaster.toml")
	writeFile(t, path, ExampleConfig())

	cfg := &Config{}
	if err := loadConfigFile(cfg, path, nil, SourceUserFile); err != nil {
		t.Fatalf("example config does not decode: %v", err)
	}
	if cfg.DataFile != DefaultDataFile || !cfg.ValidateSchema {
		t.Errorf("example config: %+v", cfg)
	}
}
