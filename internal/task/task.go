// Package task holds the task record and the ordered collection that owns it.
package task

import (
	"errors"
	"fmt"
	"time"
)

// ErrNoDeadline is returned when encoding a task whose deadline was never set.
var ErrNoDeadline = errors.New("deadline is not set")

// DateLayout is the day-month-year form used for input and display.
const DateLayout = "02-01-2006"

// storageLayout is the form written to the persistence file.
const storageLayout = "2006-01-02"

// Date is a calendar date without a time-of-day component.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// NewDate returns the date for the given year, month and day.
func NewDate(year int, month time.Month, day int) Date {
	return Date{Year: year, Month: month, Day: day}
}

// ParseDate parses s in dd-mm-yyyy form. Impossible dates such as
// 31-02-2025 are rejected, not clamped to the last day of the month.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("parse date %q: want dd-mm-yyyy", s)
	}
	return dateOf(t), nil
}

func dateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

func (d Date) time() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

// IsZero reports whether d is the zero Date.
func (d Date) IsZero() bool {
	return d == Date{}
}

// Compare returns -1, 0 or +1 depending on whether d is before, equal to
// or after other.
func (d Date) Compare(other Date) int {
	switch {
	case d.Year != other.Year:
		return cmpInt(d.Year, other.Year)
	case d.Month != other.Month:
		return cmpInt(int(d.Month), int(other.Month))
	default:
		return cmpInt(d.Day, other.Day)
	}
}

// Before reports whether d falls strictly before other.
func (d Date) Before(other Date) bool {
	return d.Compare(other) < 0
}

// String renders the date as dd-mm-yyyy.
func (d Date) String() string {
	return d.time().Format(DateLayout)
}

// MarshalText encodes the date as yyyy-mm-dd. The zero Date has no
// stored form and returns ErrNoDeadline.
func (d Date) MarshalText() ([]byte, error) {
	if d.IsZero() {
		return nil, ErrNoDeadline
	}
	return []byte(d.time().Format(storageLayout)), nil
}

// UnmarshalText decodes a yyyy-mm-dd date.
func (d *Date) UnmarshalText(text []byte) error {
	t, err := time.Parse(storageLayout, string(text))
	if err != nil {
		return fmt.Errorf("invalid deadline %q: %w", text, err)
	}
	*d = dateOf(t)
	return nil
}

func cmpInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// Task is a single unit of tracked work.
type Task struct {
	Name        string `json:"name" yaml:"name" toml:"name"`
	Description string `json:"description" yaml:"description" toml:"description"`
	Priority    int    `json:"priority" yaml:"priority" toml:"priority"`
	Deadline    Date   `json:"deadline" yaml:"deadline" toml:"deadline"`
	Completed   bool   `json:"completed" yaml:"completed" toml:"completed"`
}

// New returns an incomplete task with the given fields.
func New(name, description string, priority int, deadline Date) Task {
	return Task{
		Name:        name,
		Description: description,
		Priority:    priority,
		Deadline:    deadline,
	}
}

// String renders the task on one line.
func (t Task) String() string {
	return fmt.Sprintf("%s | priority %d | deadline %s | completed: %s",
		t.Name, t.Priority, t.Deadline, yesNo(t.Completed))
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}
