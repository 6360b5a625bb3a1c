package task

import (
	"errors"
	"fmt"
	"io"
	"sort"
)

// EmptyListMessage is written by List when the store holds no tasks.
const EmptyListMessage = "The task list is empty."

var (
	// ErrIndexOutOfRange is returned for a task number outside [1, Len].
	ErrIndexOutOfRange = errors.New("task number out of range")
	// ErrInvalidSortMode is returned by Sort for an unknown mode.
	ErrInvalidSortMode = errors.New("invalid sort mode")
)

// SortMode selects the ordering applied by Store.Sort.
type SortMode int

const (
	// SortByPriority orders tasks by priority, highest first.
	SortByPriority SortMode = 1
	// SortByDeadline orders tasks by deadline, earliest first.
	SortByDeadline SortMode = 2
)

func (m SortMode) String() string {
	switch m {
	case SortByPriority:
		return "priority"
	case SortByDeadline:
		return "deadline"
	default:
		return fmt.Sprintf("SortMode(%d)", int(m))
	}
}

// Fields holds the editable fields of a task.
type Fields struct {
	Name        string
	Description string
	Priority    int
	Deadline    Date
}

// Store is the ordered collection of tasks for one session.
// Task numbers at the API surface are 1-based.
type Store struct {
	tasks []Task
}

// NewStore returns a store holding a copy of tasks.
func NewStore(tasks ...Task) *Store {
	s := &Store{}
	s.Replace(tasks)
	return s
}

// Len returns the number of tasks.
func (s *Store) Len() int {
	return len(s.tasks)
}

// Tasks returns a copy of the tasks in their current order.
func (s *Store) Tasks() []Task {
	out := make([]Task, len(s.tasks))
	copy(out, s.tasks)
	return out
}

// Replace swaps the whole collection for a copy of tasks.
func (s *Store) Replace(tasks []Task) {
	s.tasks = make([]Task, len(tasks))
	copy(s.tasks, tasks)
}

// Add appends a new incomplete task and returns it.
func (s *Store) Add(name, description string, priority int, deadline Date) Task {
	t := New(name, description, priority, deadline)
	s.tasks = append(s.tasks, t)
	return t
}

// Get returns the task numbered n.
func (s *Store) Get(n int) (Task, error) {
	i, err := s.index(n)
	if err != nil {
		return Task{}, err
	}
	return s.tasks[i], nil
}

// Valid reports whether n names a task.
func (s *Store) Valid(n int) bool {
	_, err := s.index(n)
	return err == nil
}

// Edit replaces the editable fields of task n. Its position and
// completion flag are kept.
func (s *Store) Edit(n int, f Fields) error {
	i, err := s.index(n)
	if err != nil {
		return err
	}
	t := &s.tasks[i]
	t.Name = f.Name
	t.Description = f.Description
	t.Priority = f.Priority
	t.Deadline = f.Deadline
	return nil
}

// Delete removes task n.
func (s *Store) Delete(n int) error {
	i, err := s.index(n)
	if err != nil {
		return err
	}
	s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
	return nil
}

// MarkComplete flags task n as completed. Marking a completed task again
// changes nothing.
func (s *Store) MarkComplete(n int) error {
	i, err := s.index(n)
	if err != nil {
		return err
	}
	s.tasks[i].Completed = true
	return nil
}

// Sort reorders the collection in place. Ties keep their relative order.
func (s *Store) Sort(mode SortMode) error {
	var less func(a, b Task) bool
	switch mode {
	case SortByPriority:
		less = func(a, b Task) bool { return a.Priority > b.Priority }
	case SortByDeadline:
		less = func(a, b Task) bool { return a.Deadline.Before(b.Deadline) }
	default:
		return fmt.Errorf("%w: %d", ErrInvalidSortMode, int(mode))
	}
	sort.SliceStable(s.tasks, func(i, j int) bool {
		return less(s.tasks[i], s.tasks[j])
	})
	return nil
}

// List writes a numbered line per task, or EmptyListMessage when there
// are none.
func (s *Store) List(w io.Writer) error {
	if len(s.tasks) == 0 {
		_, err := fmt.Fprintln(w, EmptyListMessage)
		return err
	}
	for i, t := range s.tasks {
		if _, err := fmt.Fprintf(w, "%d. %s\n", i+1, t); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) index(n int) (int, error) {
	if n < 1 || n > len(s.tasks) {
		return 0, fmt.Errorf("%w: %d (have %d)", ErrIndexOutOfRange, n, len(s.tasks))
	}
	return n - 1, nil
}
