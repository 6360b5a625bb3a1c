// Package console runs the interactive task menu.
package console

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/nibzard/taskmaster-go/internal/logging"
	"github.com/nibzard/taskmaster-go/internal/task"
)

// Storage persists the whole collection.
type Storage interface {
	// Load returns the stored tasks; found is false when nothing is stored yet.
	Load() (tasks []task.Task, found bool, err error)
	Save(tasks []task.Task) error
}

// State is the controller lifecycle state.
type State int

const (
	StateIdle State = iota
	StateRunning
	StateTerminating
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateTerminating:
		return "terminating"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Menu selections.
const (
	choiceAdd      = 1
	choiceList     = 2
	choiceEdit     = 3
	choiceDelete   = 4
	choiceComplete = 5
	choiceSort     = 6
	choiceExit     = 7
)

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the diagnostic logger.
func WithLogger(logger *log.Logger) Option {
	return func(c *Controller) {
		c.logger = logger
	}
}

// Controller owns the task store for one interactive session.
type Controller struct {
	store   *task.Store
	storage Storage
	in      *lineReader
	out     io.Writer
	logger  *log.Logger
	state   State
}

// New creates a controller reading answers from in and writing prompts
// and listings to out.
func New(store *task.Store, storage Storage, in io.Reader, out io.Writer, opts ...Option) *Controller {
	c := &Controller{
		store:   store,
		storage: storage,
		in:      newLineReader(in),
		out:     out,
		logger:  logging.Discard(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// State returns the current lifecycle state.
func (c *Controller) State() State {
	return c.state
}

// Run loads the stored tasks, serves menu selections until the user
// exits, then saves. Closed input or a cancelled ctx also end the
// session, and the collection is still saved. Load and save failures are
// reported to the user and do not make Run fail.
func (c *Controller) Run(ctx context.Context) error {
	c.Load()
	c.state = StateRunning

	for c.state == StateRunning {
		c.printMenu()
		choice, err := c.promptInt(ctx, "Choose an action: ")
		if err != nil {
			c.endOfInput(err)
			break
		}
		if err := c.dispatch(ctx, choice); err != nil {
			c.endOfInput(err)
			break
		}
	}

	c.state = StateTerminating
	c.Save()
	return nil
}

func (c *Controller) endOfInput(err error) {
	switch {
	case errors.Is(err, io.EOF):
		c.logger.Debug("input closed")
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		c.logger.Info("session interrupted", "err", err)
	default:
		c.logger.Warn("reading input failed", "err", err)
	}
}

func (c *Controller) dispatch(ctx context.Context, choice int) error {
	c.logger.Debug("menu selection", "choice", choice)
	switch choice {
	case choiceAdd:
		return c.add(ctx)
	case choiceList:
		c.list()
	case choiceEdit:
		return c.edit(ctx)
	case choiceDelete:
		return c.delete(ctx)
	case choiceComplete:
		return c.markComplete(ctx)
	case choiceSort:
		return c.sort(ctx)
	case choiceExit:
		c.state = StateTerminating
	default:
		c.println("Invalid choice. Try again.")
	}
	return nil
}

func (c *Controller) printMenu() {
	c.println("")
	c.println("--- TaskMaster: smart task planner ---")
	c.println("1. Add task")
	c.println("2. View tasks")
	c.println("3. Edit task")
	c.println("4. Delete task")
	c.println("5. Mark task as completed")
	c.println("6. Sort tasks")
	c.println("7. Exit")
}

func (c *Controller) add(ctx context.Context) error {
	f, err := c.promptFields(ctx, "Enter task name: ", "Enter task description: ",
		"Enter priority (1-5): ", "Enter deadline (dd-mm-yyyy): ")
	if err != nil {
		return err
	}
	c.store.Add(f.Name, f.Description, f.Priority, f.Deadline)
	c.logger.Info("task added", "name", f.Name, "count", c.store.Len())
	c.println("Task added successfully!")
	return nil
}

func (c *Controller) list() {
	if err := c.store.List(c.out); err != nil {
		c.logger.Warn("writing task list failed", "err", err)
	}
}

// selectTask lists the tasks and asks for a number. ok is false when the
// list is empty or the number is out of range; the user has been told.
func (c *Controller) selectTask(ctx context.Context, prompt string) (n int, ok bool, err error) {
	c.list()
	if c.store.Len() == 0 {
		return 0, false, nil
	}
	n, err = c.promptInt(ctx, prompt)
	if err != nil {
		return 0, false, err
	}
	if !c.store.Valid(n) {
		c.logger.Debug("task number rejected", "number", n, "count", c.store.Len())
		c.println("Invalid task number.")
		return n, false, nil
	}
	return n, true, nil
}

func (c *Controller) edit(ctx context.Context) error {
	n, ok, err := c.selectTask(ctx, "Enter the number of the task to edit: ")
	if err != nil || !ok {
		return err
	}
	f, err := c.promptFields(ctx, "New task name: ", "New task description: ",
		"New priority (1-5): ", "New deadline (dd-mm-yyyy): ")
	if err != nil {
		return err
	}
	if err := c.store.Edit(n, f); err != nil {
		c.println("Invalid task number.")
		return nil
	}
	c.logger.Info("task edited", "number", n)
	c.println("Task updated successfully!")
	return nil
}

func (c *Controller) delete(ctx context.Context) error {
	n, ok, err := c.selectTask(ctx, "Enter the number of the task to delete: ")
	if err != nil || !ok {
		return err
	}
	if err := c.store.Delete(n); err != nil {
		c.println("Invalid task number.")
		return nil
	}
	c.logger.Info("task deleted", "number", n, "count", c.store.Len())
	c.println("Task deleted successfully!")
	return nil
}

func (c *Controller) markComplete(ctx context.Context) error {
	n, ok, err := c.selectTask(ctx, "Enter the number of the task to mark as completed: ")
	if err != nil || !ok {
		return err
	}
	if err := c.store.MarkComplete(n); err != nil {
		c.println("Invalid task number.")
		return nil
	}
	c.logger.Info("task completed", "number", n)
	c.println("Task marked as completed!")
	return nil
}

func (c *Controller) sort(ctx context.Context) error {
	c.println("Choose a sort order:")
	c.println("1. By priority")
	c.println("2. By deadline")
	choice, err := c.promptInt(ctx, "Your choice: ")
	if err != nil {
		return err
	}

	mode := task.SortMode(choice)
	if err := c.store.Sort(mode); err != nil {
		c.logger.Debug("sort rejected", "choice", choice)
		c.println("Invalid choice.")
		return nil
	}
	c.logger.Info("tasks sorted", "by", mode)
	c.println("Tasks sorted.")
	c.list()
	return nil
}

// Load replaces the collection with the stored one. On failure the
// collection is left as it was.
func (c *Controller) Load() {
	if c.storage == nil {
		return
	}
	tasks, found, err := c.storage.Load()
	if err != nil {
		c.logger.Warn("loading tasks failed", "err", err)
		c.printf("Error loading tasks: %v\n", err)
		return
	}
	if !found {
		c.logger.Debug("no stored tasks")
		return
	}
	c.store.Replace(tasks)
	c.logger.Info("tasks loaded", "count", len(tasks))
	c.println("Tasks loaded from file.")
}

// Save writes the whole collection. Failures are reported, not returned.
func (c *Controller) Save() {
	if c.storage == nil {
		return
	}
	if err := c.storage.Save(c.store.Tasks()); err != nil {
		c.logger.Warn("saving tasks failed", "err", err)
		c.printf("Error saving tasks: %v\n", err)
		return
	}
	c.logger.Info("tasks saved", "count", c.store.Len())
	c.println("Tasks saved to file.")
}

func (c *Controller) println(s string) {
	fmt.Fprintln(c.out, s)
}

func (c *Controller) printf(format string, args ...any) {
	fmt.Fprintf(c.out, format, args...)
}
