package tui

import (
	"errors"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/stefanpenner/learnlog/pkg/course"
)

// ErrFormAborted is returned when the user cancels the course form.
var ErrFormAborted = errors.New("cancelled")

// RunCourseForm prompts for a course's fields, starting from initial.
// Checkpoints are entered one per line; a leading "[x]" marks one done.
func RunCourseForm(title string, initial course.Draft) (course.Draft, error) {
	name := initial.Name
	description := initial.Description
	due := initial.DueDate.String()
	checkpoints := CheckpointsText(initial.Checkpoints)

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title(title).
				Description("Course name").
				Value(&name).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return errors.New("a course needs a name")
					}
					return nil
				}),
			huh.NewText().
				Title("Description").
				Value(&description),
			huh.NewInput().
				Title("Due date").
				Placeholder("YYYY-MM-DD (blank for none)").
				Value(&due).
				Validate(func(s string) error {
					_, err := course.ParseDate(s)
					return err
				}),
			huh.NewText().
				Title("Checkpoints").
				Description("One per line. Prefix with [x] to mark done.").
				Value(&checkpoints),
		),
	).WithTheme(huh.ThemeCharm())

	if err := form.Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return course.Draft{}, ErrFormAborted
		}
		return course.Draft{}, err
	}

	dueDate, err := course.ParseDate(due)
	if err != nil {
		return course.Draft{}, err
	}
	return course.Draft{
		Name:        strings.TrimSpace(name),
		Description: strings.TrimSpace(description),
		DueDate:     dueDate,
		Checkpoints: ParseCheckpointsText(checkpoints),
		IsCompleted: initial.IsCompleted,
	}, nil
}

// CheckpointsText renders checkpoints for the form's text area.
func CheckpointsText(cps []course.CheckpointDraft) string {
	lines := make([]string, 0, len(cps))
	for _, cp := range cps {
		if cp.Completed != nil && *cp.Completed {
			lines = append(lines, "[x] "+cp.Name)
		} else {
			lines = append(lines, cp.Name)
		}
	}
	return strings.Join(lines, "\n")
}

// ParseCheckpointsText reads one checkpoint per non-blank line. List
// markers and "[ ]"/"[x]" boxes are accepted.
func ParseCheckpointsText(text string) []course.CheckpointDraft {
	var out []course.CheckpointDraft
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		line = strings.TrimPrefix(line, "- ")
		line = strings.TrimPrefix(line, "* ")
		line = strings.TrimSpace(line)

		done := false
		switch {
		case strings.HasPrefix(line, "[x]"), strings.HasPrefix(line, "[X]"):
			done = true
			line = line[3:]
		case strings.HasPrefix(line, "[ ]"):
			line = line[3:]
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		out = append(out, course.CheckpointDraft{Name: line, Completed: &done})
	}
	return out
}
