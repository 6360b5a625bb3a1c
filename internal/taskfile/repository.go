package taskfile

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/nibzard/taskmaster-go/internal/task"
)

// Repository loads and saves a task collection at a fixed path.
type Repository struct {
	Path    string
	Options Options
}

// NewRepository returns a repository for path.
func NewRepository(path string, opts Options) *Repository {
	return &Repository{Path: path, Options: opts}
}

// Load returns the stored tasks. found is false when the file does not
// exist, which is not an error.
func (r *Repository) Load() (tasks []task.Task, found bool, err error) {
	if _, err := os.Stat(r.Path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("stat task file: %w", err)
	}
	doc, err := Load(r.Path, r.Options)
	if err != nil {
		return nil, true, err
	}
	return doc.Tasks, true, nil
}

// Save replaces the stored collection with tasks.
func (r *Repository) Save(tasks []task.Task) error {
	return Save(r.Path, NewDocument(tasks), r.Options)
}

// Format returns the encoding used for the repository's file.
func (r *Repository) Format() Format {
	return r.Options.format(r.Path)
}
