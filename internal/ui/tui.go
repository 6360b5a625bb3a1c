// Package ui provides optional terminal interfaces.
package ui

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-runewidth"

	"github.com/nibzard/taskmaster-go/internal/task"
)

// Source supplies the tasks shown by the viewer.
type Source interface {
	Load() (tasks []task.Task, found bool, err error)
}

// ViewerOption configures the viewer.
type ViewerOption func(*viewerModel)

// WithRefreshInterval sets how often the viewer rereads its source.
// Zero disables periodic refresh.
func WithRefreshInterval(d time.Duration) ViewerOption {
	return func(m *viewerModel) {
		m.tickInterval = d
	}
}

// WithTitle sets the heading shown above the task list.
func WithTitle(title string) ViewerOption {
	return func(m *viewerModel) {
		m.title = title
	}
}

// RunViewer starts the read-only task viewer on the terminal. It never
// writes to src.
func RunViewer(ctx context.Context, src Source, opts ...ViewerOption) error {
	model := newViewerModel(src, opts...)
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := program.Run()
	return err
}

// order selects how the viewer arranges tasks. Sorting happens on a copy.
type order int

const (
	orderInsertion order = iota
	orderPriority
	orderDeadline
)

func (o order) String() string {
	switch o {
	case orderPriority:
		return "priority"
	case orderDeadline:
		return "deadline"
	default:
		return "insertion"
	}
}

type viewerModel struct {
	src           Source
	title         string
	tasks         []task.Task
	found         bool
	loadErr       error
	loaded        bool
	order         order
	hideCompleted bool
	showHelp      bool
	tickInterval  time.Duration
}

type tickMsg time.Time

func newViewerModel(src Source, opts ...ViewerOption) *viewerModel {
	m := &viewerModel{
		src:          src,
		title:        "TaskMaster",
		tickInterval: 2 * time.Second,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *viewerModel) Init() tea.Cmd {
	m.refresh()
	return tickCmd(m.tickInterval)
}

func (m *viewerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "r", "f5":
			m.refresh()
		case "p":
			m.order = orderPriority
		case "d":
			m.order = orderDeadline
		case "o":
			m.order = orderInsertion
		case "c":
			m.hideCompleted = !m.hideCompleted
		case "h", "?":
			m.showHelp = !m.showHelp
		}
	case tickMsg:
		m.refresh()
		return m, tickCmd(m.tickInterval)
	}
	return m, nil
}

func (m *viewerModel) View() string {
	var b strings.Builder
	writeTitle(&b, m.title)

	if m.showHelp {
		writeHelp(&b)
		writeFooter(&b, m.tickInterval)
		return b.String()
	}

	if m.loadErr != nil {
		b.WriteString("Error loading tasks:\n")
		b.WriteString("  " + m.loadErr.Error() + "\n\n")
		writeFooter(&b, m.tickInterval)
		return b.String()
	}
	if !m.loaded {
		b.WriteString("Loading...\n\n")
		writeFooter(&b, m.tickInterval)
		return b.String()
	}

	writeOverview(&b, m.tasks, m.order, m.hideCompleted)
	writeTasks(&b, m.visible(), m.found)
	writeFooter(&b, m.tickInterval)
	return b.String()
}

func tickCmd(d time.Duration) tea.Cmd {
	if d <= 0 {
		return nil
	}
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m *viewerModel) refresh() {
	tasks, found, err := m.src.Load()
	if err != nil {
		m.loadErr = err
		m.tasks = nil
		return
	}
	m.loadErr = nil
	m.loaded = true
	m.found = found
	m.tasks = tasks
}

// visible returns the tasks to display, numbered by their stored position.
func (m *viewerModel) visible() []numberedTask {
	store := task.NewStore(m.tasks...)
	switch m.order {
	case orderPriority:
		_ = store.Sort(task.SortByPriority)
	case orderDeadline:
		_ = store.Sort(task.SortByDeadline)
	}

	position := make(map[task.Task][]int, len(m.tasks))
	for i, t := range m.tasks {
		position[t] = append(position[t], i+1)
	}

	var out []numberedTask
	for _, t := range store.Tasks() {
		// Duplicates keep their relative order under a stable sort.
		n := position[t][0]
		position[t] = position[t][1:]
		if m.hideCompleted && t.Completed {
			continue
		}
		out = append(out, numberedTask{n: n, task: t})
	}
	return out
}

type numberedTask struct {
	n    int
	task task.Task
}

func writeTitle(b *strings.Builder, title string) {
	b.WriteString(title + "\n")
	b.WriteString(strings.Repeat("=", runewidth.StringWidth(title)) + "\n\n")
}

func writeOverview(b *strings.Builder, tasks []task.Task, o order, hideCompleted bool) {
	done := 0
	for _, t := range tasks {
		if t.Completed {
			done++
		}
	}
	b.WriteString(fmt.Sprintf("  Total: %d  Open: %d  Completed: %d\n", len(tasks), len(tasks)-done, done))
	b.WriteString(fmt.Sprintf("  Order: %s", o))
	if hideCompleted {
		b.WriteString("  (completed hidden)")
	}
	b.WriteString("\n\n")
}

func writeTasks(b *strings.Builder, tasks []numberedTask, found bool) {
	if !found {
		b.WriteString("  No task file yet.\n\n")
		return
	}
	if len(tasks) == 0 {
		b.WriteString("  " + task.EmptyListMessage + "\n\n")
		return
	}
	for _, nt := range tasks {
		b.WriteString(formatTask(nt))
		b.WriteString("\n")
	}
	b.WriteString("\n")
}

// descriptionWidth is the widest description line, in terminal cells.
const descriptionWidth = 60

func formatTask(nt numberedTask) string {
	mark := " "
	if nt.task.Completed {
		mark = "x"
	}
	line := fmt.Sprintf("  [%s] %d. %s (P%d, due %s)", mark, nt.n, nt.task.Name, nt.task.Priority, nt.task.Deadline)
	if nt.task.Description == "" {
		return line
	}
	desc := runewidth.Truncate(strings.ReplaceAll(nt.task.Description, "\n", " "), descriptionWidth, "...")
	return line + "\n      " + desc
}

func writeHelp(b *strings.Builder) {
	b.WriteString("Keyboard Shortcuts\n\n")
	b.WriteString("  q, ctrl+c    Quit\n")
	b.WriteString("  r, F5        Reload the task file\n")
	b.WriteString("  p            Order by priority\n")
	b.WriteString("  d            Order by deadline\n")
	b.WriteString("  o            Stored order\n")
	b.WriteString("  c            Hide or show completed tasks\n")
	b.WriteString("  h, ?         Toggle this help screen\n\n")
}

func writeFooter(b *strings.Builder, interval time.Duration) {
	if interval <= 0 {
		b.WriteString("Press h for help | q to quit\n")
		return
	}
	b.WriteString(fmt.Sprintf("Press h for help | q to quit | Refreshing every %s\n", interval))
}

// IsTTY returns true if w is a terminal.
func IsTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}
