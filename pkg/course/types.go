package course

import (
	"fmt"
	"strings"
	"time"
)

// Checkpoint is a named sub-task of a course. It has no identity beyond its
// position in the parent's list.
type Checkpoint struct {
	Name      string `json:"name" yaml:"name"`
	Completed bool   `json:"completed" yaml:"completed"`
}

// Course is the top-level tracked unit.
type Course struct {
	ID            int64
	Name          string
	Description   string
	DueDate       Date // zero value means no due date
	Checkpoints   []Checkpoint
	Progress      int
	IsCompleted   bool
	CompletedDate *time.Time
}

// HasDueDate reports whether the course carries a due date.
func (c Course) HasDueDate() bool {
	return !c.DueDate.IsZero()
}

// CompletedCount returns the number of checked checkpoints.
func (c Course) CompletedCount() int {
	n := 0
	for _, cp := range c.Checkpoints {
		if cp.Completed {
			n++
		}
	}
	return n
}

// Clone returns a deep copy of c.
func (c Course) Clone() Course {
	out := c
	out.Checkpoints = make([]Checkpoint, len(c.Checkpoints))
	copy(out.Checkpoints, c.Checkpoints)
	if c.CompletedDate != nil {
		t := *c.CompletedDate
		out.CompletedDate = &t
	}
	return out
}

// CloneAll deep-copies a slice of courses. The result is never nil.
func CloneAll(courses []Course) []Course {
	out := make([]Course, len(courses))
	for i, c := range courses {
		out[i] = c.Clone()
	}
	return out
}

// CheckpointDraft is a checkpoint as supplied by a caller. A nil Completed
// means "not supplied" and defaults to false.
type CheckpointDraft struct {
	Name      string
	Completed *bool
}

// Draft carries the user-editable fields for add and edit.
type Draft struct {
	Name        string
	Description string
	DueDate     Date
	Checkpoints []CheckpointDraft

	// IsCompleted is only honoured by edit; nil preserves the current state.
	IsCompleted *bool
}

// Valid reports whether the draft may be applied. Only the name is required,
// and a name of only whitespace counts as missing.
func (d Draft) Valid() bool {
	return strings.TrimSpace(d.Name) != ""
}

// NormalizedCheckpoints converts the draft's checkpoints to {name, completed}
// pairs, defaulting a missing completed flag to false.
func (d Draft) NormalizedCheckpoints() []Checkpoint {
	out := make([]Checkpoint, 0, len(d.Checkpoints))
	for _, cp := range d.Checkpoints {
		out = append(out, Checkpoint{
			Name:      cp.Name,
			Completed: cp.Completed != nil && *cp.Completed,
		})
	}
	return out
}

// DraftFrom builds a draft that reproduces c's editable fields.
func DraftFrom(c Course) Draft {
	d := Draft{
		Name:        c.Name,
		Description: c.Description,
		DueDate:     c.DueDate,
	}
	for _, cp := range c.Checkpoints {
		done := cp.Completed
		d.Checkpoints = append(d.Checkpoints, CheckpointDraft{Name: cp.Name, Completed: &done})
	}
	return d
}

// Date is a calendar day without time-of-day or zone.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

const (
	isoDateLayout     = "2006-01-02"
	displayDateLayout = "02/01/2006"
)

// DateOf returns the calendar day of t in t's own location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// ParseDate parses a YYYY-MM-DD date. A full RFC 3339 timestamp is also
// accepted and its date part used. The empty string yields the zero Date.
func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Date{}, nil
	}
	if t, err := time.Parse(isoDateLayout, s); err == nil {
		return DateOf(t), nil
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return DateOf(t), nil
	}
	return Date{}, fmt.Errorf("invalid date %q (want YYYY-MM-DD)", s)
}

// IsZero reports whether d is the "no date" value.
func (d Date) IsZero() bool {
	return d == Date{}
}

// Before reports whether d is an earlier calendar day than o.
func (d Date) Before(o Date) bool {
	if d.Year != o.Year {
		return d.Year < o.Year
	}
	if d.Month != o.Month {
		return d.Month < o.Month
	}
	return d.Day < o.Day
}

// AddDays returns the date n days after d.
func (d Date) AddDays(n int) Date {
	return DateOf(d.time().AddDate(0, 0, n))
}

// String renders d as YYYY-MM-DD, or "" for the zero Date.
func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.time().Format(isoDateLayout)
}

// Display renders d as DD/MM/YYYY, or "" for the zero Date.
func (d Date) Display() string {
	if d.IsZero() {
		return ""
	}
	return d.time().Format(displayDateLayout)
}

func (d Date) time() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

// FormatTimestamp renders a completion timestamp as DD/MM/YYYY in loc.
func FormatTimestamp(t *time.Time, loc *time.Location) string {
	if t == nil {
		return ""
	}
	return t.In(loc).Format(displayDateLayout)
}
