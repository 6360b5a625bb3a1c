// Package cmd implements the CLI command structure for taskmaster.
package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/nibzard/taskmaster-go/internal/config"
	"github.com/nibzard/taskmaster-go/internal/console"
	"github.com/nibzard/taskmaster-go/internal/logging"
	"github.com/nibzard/taskmaster-go/internal/task"
	"github.com/nibzard/taskmaster-go/internal/taskfile"
	"github.com/nibzard/taskmaster-go/internal/ui"
)

// Version is set via ldflags at build time.
var Version = "dev"

// Standard streams, replaced in tests.
var (
	stdin  io.Reader = os.Stdin
	stdout io.Writer = os.Stdout
	stderr io.Writer = os.Stderr
)

// Run executes the taskmaster CLI.
func Run(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet(config.AppName, flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		printUsage(fs, stderr)
	}
	help := fs.Bool("help", false, "Show help")
	fs.BoolVar(help, "h", false, "Show help")
	showVersion := fs.Bool("version", false, "Show version")
	fs.BoolVar(showVersion, "v", false, "Show version")

	cws, err := config.LoadWithSources(fs, args)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if *help {
		printUsage(fs, stdout)
		return nil
	}
	if *showVersion {
		return versionCommand(stdout)
	}

	// No args, or a leading flag, selects the interactive session.
	subcommand := "run"
	remainingArgs := fs.Args()
	if len(remainingArgs) > 0 && !strings.HasPrefix(remainingArgs[0], "-") {
		subcommand = remainingArgs[0]
		remainingArgs = remainingArgs[1:]
	}
	if len(remainingArgs) > 0 {
		return fmt.Errorf("unexpected arguments: %v", remainingArgs)
	}

	cfg := cws.Config
	switch subcommand {
	case "run":
		return runCommand(ctx, cfg, stdin, stdout)
	case "view":
		return viewCommand(ctx, cfg)
	case "doctor":
		return doctorCommand(cws, stdout)
	case "version":
		return versionCommand(stdout)
	case "help":
		printUsage(fs, stdout)
		return nil
	default:
		fmt.Fprintf(stderr, "Unknown command: %s\n", subcommand)
		printUsage(fs, stderr)
		return fmt.Errorf("unknown command: %s", subcommand)
	}
}

// newRepository builds the task file repository described by cfg.
func newRepository(cfg *config.Config) (*taskfile.Repository, error) {
	format, err := taskfile.ParseFormat(cfg.DataFormat)
	if err != nil {
		return nil, err
	}
	return taskfile.NewRepository(cfg.DataFile, taskfile.Options{
		Format:     format,
		Validate:   cfg.ValidateSchema,
		SchemaPath: cfg.SchemaFile,
	}), nil
}

// runCommand runs the interactive menu session against the configured
// task file.
func runCommand(ctx context.Context, cfg *config.Config, in io.Reader, out io.Writer) error {
	repo, err := newRepository(cfg)
	if err != nil {
		return err
	}
	logger := logging.NewFromConfig(stderr, cfg.LogLevel, cfg.LogFormat, cfg.LogTimestamps, cfg.LogCaller)
	logger.Debug("starting session", "data", repo.Path, "format", repo.Format(), "validate", cfg.ValidateSchema)

	c := console.New(task.NewStore(), repo, in, out, console.WithLogger(logger))
	return c.Run(ctx)
}

// viewCommand opens the read-only task viewer.
func viewCommand(ctx context.Context, cfg *config.Config) error {
	repo, err := newRepository(cfg)
	if err != nil {
		return err
	}
	if !ui.IsTTY(stdout) {
		return fmt.Errorf("view requires a TTY")
	}
	return ui.RunViewer(ctx, repo, ui.WithTitle("TaskMaster: "+repo.Path))
}

// doctorCommand reports the resolved configuration and checks the task file.
func doctorCommand(cws *config.ConfigWithSources, w io.Writer) error {
	cfg := cws.Config

	fmt.Fprintln(w, "TaskMaster Doctor")
	fmt.Fprintln(w, "=================")
	fmt.Fprintln(w)

	allOK := true

	fmt.Fprintln(w, "Config files:")
	if len(cws.Files) == 0 {
		fmt.Fprintln(w, "  (none, using defaults)")
	}
	for _, f := range cws.Files {
		fmt.Fprintf(w, "  %s\n", f)
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Settings:")
	values := map[string]string{
		"data_file":       cfg.DataFile,
		"data_format":     cfg.DataFormat,
		"schema_file":     cfg.SchemaFile,
		"validate_schema": fmt.Sprint(cfg.ValidateSchema),
		"log_level":       cfg.LogLevel,
		"log_format":      cfg.LogFormat,
		"log_timestamps":  fmt.Sprint(cfg.LogTimestamps),
		"log_caller":      fmt.Sprint(cfg.LogCaller),
	}
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		v := values[k]
		if v == "" {
			v = "(unset)"
		}
		fmt.Fprintf(w, "  %-16s %-40s [%s]\n", k, v, cws.Sources[k])
	}
	if !logging.ValidLevel(cfg.LogLevel) {
		fmt.Fprintf(w, "  ⚠️  Unknown log level %q, using %s\n", cfg.LogLevel, config.DefaultLogLevel)
	}
	if !logging.ValidFormat(cfg.LogFormat) {
		fmt.Fprintf(w, "  ⚠️  Unknown log format %q, using %s\n", cfg.LogFormat, config.DefaultLogFormat)
	}
	fmt.Fprintln(w)

	repo, err := newRepository(cfg)
	if err != nil {
		fmt.Fprintf(w, "  ❌ %v\n", err)
		return fmt.Errorf("doctor checks failed")
	}

	fmt.Fprintf(w, "Task file: %s (%s)\n", repo.Path, repo.Format())
	info, err := os.Stat(repo.Path)
	switch {
	case os.IsNotExist(err):
		fmt.Fprintln(w, "  ⚠️  Not found (created on first exit)")
	case err != nil:
		fmt.Fprintf(w, "  ❌ Error: %v\n", err)
		allOK = false
	case info.IsDir():
		fmt.Fprintln(w, "  ❌ Error: path is a directory")
		allOK = false
	default:
		tasks, _, loadErr := repo.Load()
		var verrs taskfile.ValidationErrors
		switch {
		case errors.As(loadErr, &verrs):
			fmt.Fprintln(w, "  ❌ Validation failed:")
			for _, e := range verrs {
				fmt.Fprintf(w, "     - %v\n", e)
			}
			allOK = false
		case loadErr != nil:
			fmt.Fprintf(w, "  ❌ Load error: %v\n", loadErr)
			allOK = false
		default:
			done := 0
			for _, t := range tasks {
				if t.Completed {
					done++
				}
			}
			fmt.Fprintln(w, "  ✅ OK")
			fmt.Fprintf(w, "  Tasks: %d (%d completed)\n", len(tasks), done)
		}
	}
	fmt.Fprintln(w)

	if allOK {
		fmt.Fprintln(w, "✅ All checks passed!")
		return nil
	}
	fmt.Fprintln(w, "⚠️  Some checks failed. TaskMaster may not be able to load your tasks.")
	return fmt.Errorf("doctor checks failed")
}

func versionCommand(w io.Writer) error {
	fmt.Fprintf(w, "taskmaster version %s\n", Version)
	return nil
}

// printUsage prints the usage message.
func printUsage(fs *flag.FlagSet, w io.Writer) {
	fmt.Fprintln(w, "TaskMaster - a smart task planner for the terminal")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  taskmaster [options] [command]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  run      Start the interactive menu (default command)")
	fmt.Fprintln(w, "  view     Browse the task file in a terminal UI")
	fmt.Fprintln(w, "  doctor   Show the resolved config and check the task file")
	fmt.Fprintln(w, "  version  Show version information")
	fmt.Fprintln(w, "  help     Show this help message")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Options:")
	fs.SetOutput(w)
	fs.PrintDefaults()
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Every option can also be set in taskmaster.toml or through a")
	fmt.Fprintln(w, "TASKMASTER_<NAME> environment variable. Example config:")
	fmt.Fprintln(w)
	fmt.Fprint(w, config.ExampleConfig())
}
