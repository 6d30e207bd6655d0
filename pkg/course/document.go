package course

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	frontmatterDelimiter = "---"
	checkpointsHeading   = "## Checkpoints"
)

// documentMeta is the YAML frontmatter of a course document.
type documentMeta struct {
	Name      string `yaml:"name"`
	Due       string `yaml:"due,omitempty"`
	Completed bool   `yaml:"completed,omitempty"`
}

// RenderDocument renders a course as markdown with YAML frontmatter, the
// description as the body, and checkpoints as a task list.
func RenderDocument(c Course) (string, error) {
	yamlBytes, err := yaml.Marshal(documentMeta{
		Name:      c.Name,
		Due:       c.DueDate.String(),
		Completed: c.IsCompleted,
	})
	if err != nil {
		return "", fmt.Errorf("serializing frontmatter YAML: %w", err)
	}

	var b strings.Builder
	b.WriteString(frontmatterDelimiter)
	b.WriteString("\n")
	b.WriteString(strings.TrimRight(string(yamlBytes), "\n"))
	b.WriteString("\n")
	b.WriteString(frontmatterDelimiter)
	b.WriteString("\n")

	if desc := strings.TrimSpace(c.Description); desc != "" {
		b.WriteString("\n")
		b.WriteString(desc)
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(checkpointsHeading)
	b.WriteString("\n\n")
	for _, cp := range c.Checkpoints {
		box := "[ ]"
		if cp.Completed {
			box = "[x]"
		}
		b.WriteString("- " + box + " " + cp.Name + "\n")
	}

	return b.String(), nil
}

// ParseDocument parses a course document back into a draft. Checkpoints take
// their completed flag from the task-list box. A document without
// "completed: true" describes an open course, so IsCompleted is always set.
func ParseDocument(content string) (Draft, error) {
	content = strings.TrimSpace(content)
	if !strings.HasPrefix(content, frontmatterDelimiter) {
		return Draft{}, fmt.Errorf("missing frontmatter")
	}

	rest := content[len(frontmatterDelimiter):]
	idx := strings.Index(rest, "\n"+frontmatterDelimiter)
	if idx == -1 {
		return Draft{}, fmt.Errorf("unclosed frontmatter delimiter")
	}

	yamlContent := rest[:idx]
	body := rest[idx+len("\n"+frontmatterDelimiter):]

	var meta documentMeta
	if err := yaml.Unmarshal([]byte(yamlContent), &meta); err != nil {
		return Draft{}, fmt.Errorf("parsing frontmatter YAML: %w", err)
	}

	due, err := ParseDate(meta.Due)
	if err != nil {
		return Draft{}, err
	}

	description, list := body, ""
	if i := strings.Index(body, checkpointsHeading); i >= 0 {
		description, list = body[:i], body[i+len(checkpointsHeading):]
	}

	completed := meta.Completed
	return Draft{
		Name:        strings.TrimSpace(meta.Name),
		Description: strings.TrimSpace(description),
		DueDate:     due,
		Checkpoints: parseTaskList(list),
		IsCompleted: &completed,
	}, nil
}

// parseTaskList reads "- [ ] name" / "- [x] name" lines. Plain list items
// count as unchecked; anything else is ignored.
func parseTaskList(list string) []CheckpointDraft {
	var out []CheckpointDraft
	for _, line := range strings.Split(list, "\n") {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, "- ") && !strings.HasPrefix(line, "* ") {
			continue
		}
		item := strings.TrimSpace(line[2:])

		done := false
		switch {
		case strings.HasPrefix(item, "[ ]"):
			item = item[3:]
		case strings.HasPrefix(item, "[x]"), strings.HasPrefix(item, "[X]"):
			item = item[3:]
			done = true
		}
		out = append(out, CheckpointDraft{Name: strings.TrimSpace(item), Completed: &done})
	}
	return out
}
