package tui

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stefanpenner/learnlog/pkg/course"
	"github.com/stefanpenner/learnlog/pkg/store"
)

func setupTestModel(t *testing.T, opts Options) (Model, *store.CourseStore, *store.MemoryKV) {
	t.Helper()
	kv := store.NewMemoryKV()
	now := time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC)
	s := store.NewCourseStore(kv, store.WithClock(func() time.Time { return now }))
	require.NoError(t, s.Load())
	return NewModel(s, opts), s, kv
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

var space = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}

func press(t *testing.T, m Model, msgs ...tea.Msg) Model {
	t.Helper()
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		m = next.(Model)
	}
	return m
}

func addCourse(t *testing.T, s *store.CourseStore, name string, checkpoints ...string) course.Course {
	t.Helper()
	d := course.Draft{Name: name}
	for _, cp := range checkpoints {
		d.Checkpoints = append(d.Checkpoints, course.CheckpointDraft{Name: cp})
	}
	c, ok, err := s.Add(d)
	require.NoError(t, err)
	require.True(t, ok)
	return c
}

func TestModelCheckpointFlow(t *testing.T) {
	m, s, _ := setupTestModel(t, Options{})
	c := addCourse(t, s, "Algebra", "Ch1", "Ch2")
	m = press(t, m, FileChangedMsg{})

	sel, ok := m.selected()
	require.True(t, ok)
	assert.Equal(t, c.ID, sel.ID)

	// first space focuses the checkpoints, second toggles
	m = press(t, m, space)
	assert.Equal(t, paneDetail, m.focusedPane)
	m = press(t, m, space)
	got, _ := s.Get(c.ID)
	assert.Equal(t, 50, got.Progress)

	// not eligible yet
	m = press(t, m, runes("D"))
	got, _ = s.Get(c.ID)
	assert.False(t, got.IsCompleted)
	assert.Contains(t, m.statusMsg, "Finish all checkpoints first (1/2)")

	m = press(t, m, runes("j"), space)
	got, _ = s.Get(c.ID)
	assert.Equal(t, 100, got.Progress)

	m = press(t, m, runes("D"))
	got, _ = s.Get(c.ID)
	assert.True(t, got.IsCompleted)
	assert.Equal(t, 0, s.OverallProgress())

	require.Len(t, m.items, 2)
	assert.Equal(t, SectionCompleted, m.items[0].Section)
	sel, _ = m.selected()
	assert.Equal(t, c.ID, sel.ID)
}

func TestModelQuickAdd(t *testing.T) {
	m, s, _ := setupTestModel(t, Options{})

	m = press(t, m, runes("a"))
	require.True(t, m.isInputMode)
	m = press(t, m, runes("Biology"), tea.KeyMsg{Type: tea.KeyEnter})
	assert.False(t, m.isInputMode)

	courses := s.Courses()
	require.Len(t, courses, 1)
	assert.Equal(t, "Biology", courses[0].Name)
	sel, ok := m.selected()
	require.True(t, ok)
	assert.Equal(t, courses[0].ID, sel.ID)

	// an empty name is refused
	m = press(t, m, runes("a"), tea.KeyMsg{Type: tea.KeyEnter})
	assert.Len(t, s.Courses(), 1)
	assert.Contains(t, m.statusMsg, "needs a name")
}

func TestModelDeleteConfirm(t *testing.T) {
	m, s, _ := setupTestModel(t, Options{})
	addCourse(t, s, "Algebra")
	m = press(t, m, FileChangedMsg{})

	m = press(t, m, runes("d"))
	require.True(t, m.showDeleteConfirm)
	m = press(t, m, runes("n"))
	assert.Len(t, s.Courses(), 1)

	m = press(t, m, runes("d"), runes("y"))
	assert.Empty(t, s.Courses())
	assert.Empty(t, m.items)
}

func TestModelNavigationSkipsHeaders(t *testing.T) {
	m, s, _ := setupTestModel(t, Options{})
	a := addCourse(t, s, "Algebra")
	b := addCourse(t, s, "Biology")
	_, _, err := s.MarkDone(b.ID)
	require.NoError(t, err)
	m = press(t, m, FileChangedMsg{})

	// ACTIVE, Algebra, RECENTLY COMPLETED, Biology
	require.Len(t, m.items, 4)
	assert.Equal(t, 1, m.cursor)

	m = press(t, m, runes("j"))
	sel, _ := m.selected()
	assert.Equal(t, b.ID, sel.ID)

	m = press(t, m, runes("j"))
	assert.Equal(t, 3, m.cursor)

	m = press(t, m, runes("k"))
	sel, _ = m.selected()
	assert.Equal(t, a.ID, sel.ID)
}

func TestModelSearch(t *testing.T) {
	m, s, _ := setupTestModel(t, Options{})
	addCourse(t, s, "Algebra")
	b := addCourse(t, s, "Biology")
	m = press(t, m, FileChangedMsg{})

	m = press(t, m, runes("/"), runes("b"), runes("i"), tea.KeyMsg{Type: tea.KeyEnter})
	assert.False(t, m.isSearching)
	require.Len(t, m.items, 2)
	sel, _ := m.selected()
	assert.Equal(t, b.ID, sel.ID)

	m = press(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Len(t, m.items, 3)
}

func TestModelReloadsOnFileChange(t *testing.T) {
	m, _, kv := setupTestModel(t, Options{})

	other := store.NewCourseStore(kv)
	require.NoError(t, other.Load())
	_, _, err := other.Add(course.Draft{Name: "From elsewhere"})
	require.NoError(t, err)

	m = press(t, m, FileChangedMsg{})
	require.Len(t, m.items, 2)
	assert.Equal(t, "From elsewhere", m.items[1].Name)
}

func TestModelEditorResult(t *testing.T) {
	m, s, _ := setupTestModel(t, Options{})
	c := addCourse(t, s, "Algebra", "Ch1")
	m = press(t, m, FileChangedMsg{})

	path := filepath.Join(t.TempDir(), "course.md")
	require.NoError(t, os.WriteFile(path, []byte(`---
name: Linear Algebra
due: 2026-10-17
---

Matrices.

## Checkpoints

- [x] Ch1
- [ ] Ch2
`), 0644))

	m = press(t, m, EditorFinishedMsg{ID: c.ID, Path: path})
	got, _ := s.Get(c.ID)
	assert.Equal(t, "Linear Algebra", got.Name)
	assert.Equal(t, "Matrices.", got.Description)
	assert.Equal(t, 50, got.Progress)
	assert.Equal(t, course.DueOverdue, s.DueStatus(got))
	assert.Contains(t, m.statusMsg, "Saved")
	assert.NoFileExists(t, path)
}

func TestModelBlankEditorFallsBackToVim(t *testing.T) {
	t.Setenv("TMPDIR", t.TempDir())
	for _, editor := range []string{"", " ", "\t "} {
		m, s, _ := setupTestModel(t, Options{Editor: editor})
		assert.Equal(t, "vim", m.opts.Editor)

		c := addCourse(t, s, "Algebra")
		m.opts.Editor = editor
		var cmd tea.Cmd
		assert.NotPanics(t, func() { cmd = m.openEditor(c) })
		assert.NotNil(t, cmd)
	}
}

func TestModelEditorResultRejectsBadDocument(t *testing.T) {
	m, s, _ := setupTestModel(t, Options{})
	c := addCourse(t, s, "Algebra")
	m = press(t, m, FileChangedMsg{})

	path := filepath.Join(t.TempDir(), "course.md")
	require.NoError(t, os.WriteFile(path, []byte("---\nname: \"\"\n---\n"), 0644))

	m = press(t, m, EditorFinishedMsg{ID: c.ID, Path: path})
	got, _ := s.Get(c.ID)
	assert.Equal(t, "Algebra", got.Name)
	assert.Contains(t, m.statusMsg, "needs a name")
}

func TestModelSync(t *testing.T) {
	m, _, _ := setupTestModel(t, Options{})
	next, cmd := m.Update(runes("s"))
	assert.Nil(t, cmd)
	assert.Contains(t, next.(Model).statusMsg, "not configured")

	called := false
	m, _, _ = setupTestModel(t, Options{Sync: func(ctx context.Context) error {
		called = true
		return errors.New("offline")
	}})
	next, cmd = m.Update(runes("s"))
	require.NotNil(t, cmd)
	msg := cmd()
	assert.True(t, called)

	m = press(t, next.(Model), msg)
	assert.Contains(t, m.statusMsg, "Sync failed: offline")
}

func TestModelView(t *testing.T) {
	m, s, _ := setupTestModel(t, Options{DataDir: "/data/learnlog"})
	c := addCourse(t, s, "Algebra", "Ch1", "Ch2")
	_, _, err := s.ToggleCheckpoint(c.ID, 0)
	require.NoError(t, err)
	m = press(t, m, tea.WindowSizeMsg{Width: 120, Height: 30})

	out := m.View()
	assert.Contains(t, out, "LearnLog")
	assert.Contains(t, out, "ACTIVE")
	assert.Contains(t, out, "Algebra")
	assert.Contains(t, out, "50% overall")
	assert.Contains(t, out, "[x] Ch1")

	m = press(t, m, runes("c"))
	assert.Contains(t, m.View(), "Progress Across Courses")
	m = press(t, m, tea.KeyMsg{Type: tea.KeyEsc}, runes("?"))
	assert.Contains(t, m.View(), "Keyboard Shortcuts")
}
