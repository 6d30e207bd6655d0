package tui

import (
	"strings"

	"github.com/stefanpenner/learnlog/pkg/course"
)

// Section identifies which part of the course list a row belongs to.
type Section int

const (
	SectionActive Section = iota
	SectionCompleted
)

func (s Section) String() string {
	if s == SectionCompleted {
		return "RECENTLY COMPLETED"
	}
	return "ACTIVE"
}

// ListItem is one row of the course list: a section header or a course.
type ListItem struct {
	ID              int64 // course id, 0 for headers
	Name            string
	Course          course.Course
	Section         Section
	IsSectionHeader bool
}

// BuildItems lays out active courses followed by recently completed ones,
// each under a section header. Empty sections are omitted.
func BuildItems(active, recent []course.Course) []ListItem {
	var result []ListItem
	appendSection := func(section Section, courses []course.Course) {
		if len(courses) == 0 {
			return
		}
		result = append(result, ListItem{
			Name:            section.String(),
			Section:         section,
			IsSectionHeader: true,
		})
		for _, c := range courses {
			result = append(result, ListItem{
				ID:      c.ID,
				Name:    c.Name,
				Course:  c,
				Section: section,
			})
		}
	}
	appendSection(SectionActive, active)
	appendSection(SectionCompleted, recent)
	return result
}

// FilterItems keeps courses whose name contains query (case-insensitive),
// along with the headers of sections that still have rows.
func FilterItems(items []ListItem, query string) []ListItem {
	if query == "" {
		return items
	}
	q := strings.ToLower(query)

	var result []ListItem
	var header *ListItem
	for _, item := range items {
		if item.IsSectionHeader {
			h := item
			header = &h
			continue
		}
		if !strings.Contains(strings.ToLower(item.Name), q) {
			continue
		}
		if header != nil {
			result = append(result, *header)
			header = nil
		}
		result = append(result, item)
	}
	return result
}

// IndexOf returns the row holding course id, or -1.
func IndexOf(items []ListItem, id int64) int {
	for i, item := range items {
		if !item.IsSectionHeader && item.ID == id {
			return i
		}
	}
	return -1
}

// firstSelectable returns the first non-header row at or after from, or -1.
func firstSelectable(items []ListItem, from int) int {
	for i := from; i < len(items); i++ {
		if i >= 0 && !items[i].IsSectionHeader {
			return i
		}
	}
	return -1
}
