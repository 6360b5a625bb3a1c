package task

import (
	"encoding/json"
	"errors"
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Date
		wantErr bool
	}{
		{"valid", "15-04-2025", NewDate(2025, time.April, 15), false},
		{"leap day", "29-02-2024", NewDate(2024, time.February, 29), false},
		{"first of year", "01-01-2025", NewDate(2025, time.January, 1), false},
		{"impossible day", "31-02-2025", Date{}, true},
		{"single digit day", "1-01-2025", Date{}, true},
		{"iso order", "2025-04-15", Date{}, true},
		{"slashes", "15/04/2025", Date{}, true},
		{"empty", "", Date{}, true},
		{"month 13", "01-13-2025", Date{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDate(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseDate(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseDate(%q) = %+v, want %+v", tt.input, got, tt.want)
			}
		})
	}
}

func TestDateString(t *testing.T) {
	d := NewDate(2025, time.January, 5)
	if got := d.String(); got != "05-01-2025" {
		t.Errorf("String() = %q, want 05-01-2025", got)
	}
}

func TestDateCompare(t *testing.T) {
	a := NewDate(2025, time.January, 1)
	b := NewDate(2025, time.April, 15)
	c := NewDate(2026, time.January, 1)

	if a.Compare(b) != -1 || b.Compare(a) != 1 || a.Compare(a) != 0 {
		t.Errorf("Compare ordering wrong for %v and %v", a, b)
	}
	if !b.Before(c) {
		t.Errorf("%v should be before %v", b, c)
	}
	if c.Before(a) {
		t.Errorf("%v should not be before %v", c, a)
	}
	if !(Date{}).IsZero() || a.IsZero() {
		t.Error("IsZero wrong")
	}
}

func TestDateTextEncoding(t *testing.T) {
	d := NewDate(2025, time.April, 15)
	data, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if string(data) != `"2025-04-15"` {
		t.Errorf("Marshal = %s, want \"2025-04-15\"", data)
	}

	var back Date
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if back != d {
		t.Errorf("round trip = %+v, want %+v", back, d)
	}

	if err := back.UnmarshalText([]byte("15-04-2025")); err == nil {
		t.Error("expected error for display-form date in storage text")
	}
}

func TestZeroDateNotEncoded(t *testing.T) {
	if _, err := (Date{}).MarshalText(); !errors.Is(err, ErrNoDeadline) {
		t.Errorf("MarshalText error = %v, want ErrNoDeadline", err)
	}
	if _, err := json.Marshal(Task{Name: "undated"}); !errors.Is(err, ErrNoDeadline) {
		t.Errorf("json.Marshal error = %v, want ErrNoDeadline", err)
	}
}

func TestNewTaskIsIncomplete(t *testing.T) {
	tk := New("Report", "Finish Q1 report", 3, NewDate(2025, time.April, 15))
	if tk.Completed {
		t.Error("new task should not be completed")
	}
	if tk.Name != "Report" || tk.Description != "Finish Q1 report" || tk.Priority != 3 {
		t.Errorf("unexpected fields: %+v", tk)
	}
}

func TestTaskString(t *testing.T) {
	tk := New("Report", "Finish Q1 report", 3, NewDate(2025, time.April, 15))
	want := "Report | priority 3 | deadline 15-04-2025 | completed: No"
	if got := tk.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}

	tk.Completed = true
	want = "Report | priority 3 | deadline 15-04-2025 | completed: Yes"
	if got := tk.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}
