package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/muesli/reflow/indent"
	"github.com/muesli/reflow/wordwrap"

	"github.com/stefanpenner/learnlog/pkg/course"
	"github.com/stefanpenner/learnlog/pkg/store"
)

const wrapWidth = 72

func outputJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// resolveCourse finds a course by numeric id or, failing that, by exact
// case-insensitive name.
func resolveCourse(s *store.CourseStore, ref string) (course.Course, error) {
	if id, err := strconv.ParseInt(ref, 10, 64); err == nil {
		if c, ok := s.Get(id); ok {
			return c, nil
		}
	}

	var matches []course.Course
	for _, c := range s.Courses() {
		if strings.EqualFold(strings.TrimSpace(c.Name), strings.TrimSpace(ref)) {
			matches = append(matches, c)
		}
	}
	switch len(matches) {
	case 0:
		return course.Course{}, fmt.Errorf("course not found: %s", ref)
	case 1:
		return matches[0], nil
	default:
		return course.Course{}, fmt.Errorf("%q matches %d courses; use the id", ref, len(matches))
	}
}

func statusIcon(c course.Course) string {
	if c.IsCompleted {
		return "✓"
	}
	return "○"
}

func dueLabel(s *store.CourseStore, c course.Course) string {
	if !c.HasDueDate() {
		return ""
	}
	label := "due " + c.DueDate.Display()
	switch s.DueStatus(c) {
	case course.DueToday:
		label += " (today)"
	case course.DueOverdue:
		label += " (overdue)"
	}
	return label
}

func printCourseLine(w io.Writer, s *store.CourseStore, c course.Course) {
	line := fmt.Sprintf("%s %s  %d%%", statusIcon(c), c.Name, c.Progress)
	if due := dueLabel(s, c); due != "" {
		line += "  " + due
	}
	if c.IsCompleted && c.CompletedDate != nil {
		line += "  completed " + course.FormatTimestamp(c.CompletedDate, s.Now().Location())
	}
	fmt.Fprintf(w, "%s  [%d]\n", line, c.ID)
}

func printCourse(w io.Writer, s *store.CourseStore, c course.Course) {
	fmt.Fprintf(w, "%s %s\n", statusIcon(c), c.Name)
	fmt.Fprintf(w, "ID: %d\n", c.ID)
	fmt.Fprintf(w, "Progress: %d%% (%d/%d checkpoints)\n", c.Progress, c.CompletedCount(), len(c.Checkpoints))
	if due := dueLabel(s, c); due != "" {
		fmt.Fprintf(w, "Due: %s\n", strings.TrimPrefix(due, "due "))
	}
	if c.IsCompleted {
		fmt.Fprintf(w, "Completed: %s\n", course.FormatTimestamp(c.CompletedDate, s.Now().Location()))
	}
	if desc := strings.TrimSpace(c.Description); desc != "" {
		fmt.Fprintln(w)
		fmt.Fprintln(w, indent.String(wordwrap.String(desc, wrapWidth), 2))
	}
	if len(c.Checkpoints) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Checkpoints:")
		for i, cp := range c.Checkpoints {
			box := "[ ]"
			if cp.Completed {
				box = "[x]"
			}
			fmt.Fprintf(w, "  %d. %s %s\n", i+1, box, cp.Name)
		}
	}
}

// courseStats is the JSON shape of `learnlog stats`.
type courseStats struct {
	Overall   int `json:"overall"`
	Active    int `json:"active"`
	Completed int `json:"completed"`
	DueToday  int `json:"dueToday"`
	Overdue   int `json:"overdue"`
}

func collectStats(s *store.CourseStore) courseStats {
	var st courseStats
	st.Overall = s.OverallProgress()
	for _, c := range s.Courses() {
		if c.IsCompleted {
			st.Completed++
			continue
		}
		st.Active++
		switch s.DueStatus(c) {
		case course.DueToday:
			st.DueToday++
		case course.DueOverdue:
			st.Overdue++
		}
	}
	return st
}
