// Package taskfile reads and writes the persisted task collection.
package taskfile

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/gofrs/flock"
	"gopkg.in/yaml.v3"

	"github.com/nibzard/taskmaster-go/internal/task"
)

// SchemaVersion is the document version written by Save.
const SchemaVersion = 1

// lockSuffix names the sidecar lock file next to the data file.
const lockSuffix = ".lock"

// ErrLocked is returned when another process holds the data file lock.
var ErrLocked = errors.New("task file is locked by another process")

// Format is an on-disk encoding of a Document.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// ParseFormat parses a format name. An empty name yields "".
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "":
		return "", nil
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "toml":
		return FormatTOML, nil
	default:
		return "", fmt.Errorf("unsupported format %q (want json, yaml or toml)", name)
	}
}

// FormatFromPath infers the format from the file extension.
// Unknown extensions, including the default .dat, use JSON.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	case ".toml":
		return FormatTOML
	default:
		return FormatJSON
	}
}

// Document is the whole persisted collection.
type Document struct {
	SchemaVersion int         `json:"schema_version" yaml:"schema_version" toml:"schema_version"`
	Tasks         []task.Task `json:"tasks" yaml:"tasks" toml:"tasks"`
}

// NewDocument wraps tasks in a current-version document.
func NewDocument(tasks []task.Task) *Document {
	if tasks == nil {
		tasks = []task.Task{}
	}
	return &Document{SchemaVersion: SchemaVersion, Tasks: tasks}
}

// Options controls how a task file is read and written.
type Options struct {
	// Format overrides extension-based detection when set.
	Format Format
	// Validate runs JSON Schema validation on load.
	Validate bool
	// SchemaPath replaces the built-in schema when set.
	SchemaPath string
}

func (o Options) format(path string) Format {
	if o.Format != "" {
		return o.Format
	}
	return FormatFromPath(path)
}

// Load reads the task file at path. A missing file yields an empty
// document and no error.
func Load(path string, opts Options) (*Document, error) {
	unlock, err := lock(path)
	if err != nil {
		return nil, err
	}
	defer unlock()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return NewDocument(nil), nil
		}
		return nil, fmt.Errorf("read task file: %w", err)
	}

	return Decode(data, opts.format(path), opts)
}

// Decode parses data in the given format and validates it when
// opts.Validate is set.
func Decode(data []byte, format Format, opts Options) (*Document, error) {
	// The raw content is checked before decoding so that missing fields
	// are reported instead of read as zero values.
	if opts.Validate {
		if verr := validateEncoded(data, format, opts.SchemaPath); verr != nil {
			return nil, verr
		}
	}

	var doc Document
	var err error
	switch format {
	case FormatJSON, "":
		err = json.Unmarshal(data, &doc)
	case FormatYAML:
		err = yaml.Unmarshal(data, &doc)
	case FormatTOML:
		_, err = toml.Decode(string(data), &doc)
	default:
		return nil, fmt.Errorf("unsupported format %q", format)
	}
	if err != nil {
		return nil, fmt.Errorf("parse task file: %w", err)
	}

	if doc.Tasks == nil {
		doc.Tasks = []task.Task{}
	}
	return &doc, nil
}

// Encode renders doc in the given format.
func Encode(doc *Document, format Format) ([]byte, error) {
	switch format {
	case FormatJSON, "":
		data, err := json.MarshalIndent(doc, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("marshal task file: %w", err)
		}
		return append(data, '\n'), nil
	case FormatYAML:
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return nil, fmt.Errorf("marshal task file: %w", err)
		}
		if err := enc.Close(); err != nil {
			return nil, fmt.Errorf("marshal task file: %w", err)
		}
		return buf.Bytes(), nil
	case FormatTOML:
		var buf bytes.Buffer
		if err := toml.NewEncoder(&buf).Encode(doc); err != nil {
			return nil, fmt.Errorf("marshal task file: %w", err)
		}
		return buf.Bytes(), nil
	default:
		return nil, fmt.Errorf("unsupported format %q", format)
	}
}

// Save writes doc to path, replacing any previous contents.
func Save(path string, doc *Document, opts Options) error {
	if doc.SchemaVersion == 0 {
		doc.SchemaVersion = SchemaVersion
	}
	data, err := Encode(doc, opts.format(path))
	if err != nil {
		return err
	}

	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create task file dir: %w", err)
		}
	}

	unlock, err := lock(path)
	if err != nil {
		return err
	}
	defer unlock()

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write task file: %w", err)
	}
	return nil
}

// lock takes the sidecar lock for path without blocking.
func lock(path string) (func(), error) {
	lockPath := path + lockSuffix
	if dir := filepath.Dir(lockPath); dir != "." && dir != "" {
		if _, err := os.Stat(dir); errors.Is(err, fs.ErrNotExist) {
			// Nothing to guard yet; Load treats the data file as missing.
			return func() {}, nil
		}
	}

	fl := flock.New(lockPath)
	locked, err := fl.TryLock()
	if err != nil {
		return nil, fmt.Errorf("lock task file: %w", err)
	}
	if !locked {
		return nil, fmt.Errorf("%w: %s", ErrLocked, lockPath)
	}
	return func() { _ = fl.Unlock() }, nil
}
