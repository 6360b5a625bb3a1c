package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/nibzard/taskmaster-go/internal/task"
)

// maxLineSize caps a single answer. Long descriptions must not end the
// session.
const maxLineSize = 16 << 20

type lineResult struct {
	text string
	err  error
}

// lineReader reads one line at a time and gives up early when the
// context is cancelled. At most one scan is in flight.
type lineReader struct {
	scanner *bufio.Scanner
	pending chan lineResult
}

func newLineReader(r io.Reader) *lineReader {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	return &lineReader{scanner: scanner}
}

func (r *lineReader) readLine(ctx context.Context) (string, error) {
	if r.pending == nil {
		ch := make(chan lineResult, 1)
		go func() {
			if r.scanner.Scan() {
				ch <- lineResult{text: r.scanner.Text()}
				return
			}
			err := r.scanner.Err()
			if err == nil {
				err = io.EOF
			}
			ch <- lineResult{err: err}
		}()
		r.pending = ch
	}

	select {
	case res := <-r.pending:
		r.pending = nil
		return res.text, res.err
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// ParseInt parses a whole number, ignoring surrounding space.
func ParseInt(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("not a whole number: %q", s)
	}
	return n, nil
}

// ParseDate parses a dd-mm-yyyy date, ignoring surrounding space.
func ParseDate(s string) (task.Date, error) {
	return task.ParseDate(strings.TrimSpace(s))
}

func (c *Controller) promptString(ctx context.Context, prompt string) (string, error) {
	fmt.Fprint(c.out, prompt)
	line, err := c.in.readLine(ctx)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// promptParsed asks until parse accepts the answer. Only input errors end
// the loop.
func promptParsed[T any](ctx context.Context, c *Controller, prompt, retry string, parse func(string) (T, error)) (T, error) {
	for {
		var zero T
		line, err := c.promptString(ctx, prompt)
		if err != nil {
			return zero, err
		}
		v, perr := parse(line)
		if perr == nil {
			return v, nil
		}
		c.logger.Debug("input rejected", "input", line, "err", perr)
		c.println(retry)
	}
}

func (c *Controller) promptInt(ctx context.Context, prompt string) (int, error) {
	return promptParsed(ctx, c, prompt, "Please enter a whole number.", ParseInt)
}

func (c *Controller) promptDate(ctx context.Context, prompt string) (task.Date, error) {
	return promptParsed(ctx, c, prompt, "Please enter a date in dd-mm-yyyy format.", ParseDate)
}

// promptFields asks for the four editable task fields in order.
func (c *Controller) promptFields(ctx context.Context, namePrompt, descPrompt, priorityPrompt, deadlinePrompt string) (task.Fields, error) {
	var f task.Fields
	var err error
	if f.Name, err = c.promptString(ctx, namePrompt); err != nil {
		return f, err
	}
	if f.Description, err = c.promptString(ctx, descPrompt); err != nil {
		return f, err
	}
	if f.Priority, err = c.promptInt(ctx, priorityPrompt); err != nil {
		return f, err
	}
	if f.Deadline, err = c.promptDate(ctx, deadlinePrompt); err != nil {
		return f, err
	}
	return f, nil
}
