package main

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"golang.org/x/term"

	"github.com/stefanpenner/learnlog/pkg/course"
)

var errNotInteractive = errors.New("nothing to change: pass --name, --desc, --due or --checkpoint, or run in a terminal to use $EDITOR")

func isInteractive() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// editInEditor opens c as a markdown document in the configured editor and
// parses the saved result.
func editInEditor(c course.Course) (course.Draft, error) {
	if !isInteractive() {
		return course.Draft{}, errNotInteractive
	}

	doc, err := course.RenderDocument(c)
	if err != nil {
		return course.Draft{}, err
	}
	f, err := os.CreateTemp("", "learnlog-*.md")
	if err != nil {
		return course.Draft{}, err
	}
	path := f.Name()
	defer os.Remove(path)
	if _, err := f.WriteString(doc); err != nil {
		f.Close()
		return course.Draft{}, err
	}
	if err := f.Close(); err != nil {
		return course.Draft{}, err
	}

	if err := runEditor(current.cfg.Editor, path); err != nil {
		return course.Draft{}, err
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return course.Draft{}, err
	}
	d, err := course.ParseDocument(string(raw))
	if err != nil {
		return course.Draft{}, fmt.Errorf("parsing edited course: %w", err)
	}
	return d, nil
}

func runEditor(editor, path string) error {
	args := strings.Fields(editor)
	if len(args) == 0 {
		args = []string{"vi"}
	}
	cmd := exec.Command(args[0], append(args[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return fmt.Errorf("editor exited with status %d", exitErr.ExitCode())
		}
		return fmt.Errorf("failed to run editor: %w", err)
	}
	return nil
}
