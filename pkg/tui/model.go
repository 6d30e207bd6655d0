package tui

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"

	"github.com/stefanpenner/learnlog/pkg/course"
	"github.com/stefanpenner/learnlog/pkg/store"
)

// FileChangedMsg is sent when the file watcher detects changes.
type FileChangedMsg struct{}

// SyncDoneMsg is sent when git sync completes.
type SyncDoneMsg struct {
	Err error
}

// EditorFinishedMsg is sent when $EDITOR returns.
type EditorFinishedMsg struct {
	ID   int64
	Path string
	Err  error
}

const (
	paneList = iota
	paneDetail
)

const syncTimeout = 2 * time.Minute

// Options configures the dashboard.
type Options struct {
	DataDir     string
	Editor      string
	RecentLimit int

	// Sync runs a git sync of the data directory. Nil disables the key.
	Sync func(ctx context.Context) error
}

// Model is the Bubble Tea model for the course dashboard.
type Model struct {
	store       *store.CourseStore
	opts        Options
	keys        KeyMap
	width       int
	height      int
	items       []ListItem
	cursor      int
	cpCursor    int
	focusedPane int

	// Modal state
	showHelpModal     bool
	showChart         bool
	showDeleteConfirm bool
	deleteTarget      course.Course

	// Input mode (quick add)
	isInputMode bool
	textInput   textinput.Model

	// Search state
	isSearching bool
	searchQuery string

	// Status message
	statusMsg     string
	statusTimeout time.Time

	overallBar progress.Model

	// Cached glamour renderer (expensive to create)
	glamourRenderer *glamour.TermRenderer
	glamourWidth    int
}

// NewModel creates a new TUI model over a loaded store.
func NewModel(s *store.CourseStore, opts Options) Model {
	ti := textinput.New()
	ti.Placeholder = "course name"
	ti.CharLimit = 120

	if strings.TrimSpace(opts.Editor) == "" {
		opts.Editor = "vim"
	}
	if opts.RecentLimit <= 0 {
		opts.RecentLimit = course.DefaultRecentLimit
	}

	m := Model{
		store:      s,
		opts:       opts,
		keys:       DefaultKeyMap(),
		textInput:  ti,
		overallBar: progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage()),
	}
	m.rebuild()
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.WindowSize()
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.getGlamourRenderer(detailWidth(msg.Width) - 2)
		m.overallBar.Width = barWidth(msg.Width)
		m.rebuild()
		return m, tea.ClearScreen

	case FileChangedMsg:
		m.reload()
		return m, nil

	case SyncDoneMsg:
		if msg.Err != nil {
			m.setStatus("Sync failed: " + msg.Err.Error())
		} else {
			m.setStatus("Synced successfully")
			m.reload()
		}
		return m, nil

	case EditorFinishedMsg:
		m.applyEditorResult(msg)
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)
	}

	if m.isInputMode {
		var cmd tea.Cmd
		m.textInput, cmd = m.textInput.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.isInputMode {
		switch msg.Type {
		case tea.KeyEsc:
			m.isInputMode = false
			return m, nil
		case tea.KeyEnter:
			m.addCourse(m.textInput.Value())
			m.isInputMode = false
			return m, nil
		default:
			var cmd tea.Cmd
			m.textInput, cmd = m.textInput.Update(msg)
			return m, cmd
		}
	}

	if m.isSearching {
		return m.handleSearchInput(msg)
	}

	if m.showHelpModal {
		switch msg.String() {
		case "esc", "enter", "?", "q":
			m.showHelpModal = false
		}
		return m, nil
	}

	if m.showChart {
		switch msg.String() {
		case "esc", "enter", "c", "q":
			m.showChart = false
		}
		return m, nil
	}

	if m.showDeleteConfirm {
		switch msg.String() {
		case "y", "Y":
			m.deleteCourse(m.deleteTarget)
			m.showDeleteConfirm = false
		case "n", "N", "esc":
			m.showDeleteConfirm = false
		}
		return m, nil
	}

	// If search filter is active (not typing), Esc clears it
	if m.searchQuery != "" && msg.Type == tea.KeyEsc {
		m.searchQuery = ""
		m.rebuild()
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Up):
		if m.focusedPane == paneDetail {
			if m.cpCursor > 0 {
				m.cpCursor--
			}
		} else {
			m.moveCursor(-1)
		}

	case key.Matches(msg, m.keys.Down):
		if m.focusedPane == paneDetail {
			if c, ok := m.selected(); ok && m.cpCursor < len(c.Checkpoints)-1 {
				m.cpCursor++
			}
		} else {
			m.moveCursor(1)
		}

	case key.Matches(msg, m.keys.Tab):
		if m.focusedPane == paneDetail {
			m.focusedPane = paneList
		} else if _, ok := m.selected(); ok {
			m.focusedPane = paneDetail
		}

	case key.Matches(msg, m.keys.Space):
		c, ok := m.selected()
		if !ok {
			break
		}
		if len(c.Checkpoints) == 0 {
			m.setStatus("No checkpoints. Press E to add some")
			break
		}
		if m.focusedPane == paneList {
			m.focusedPane = paneDetail
			break
		}
		m.toggleCheckpoint(c, m.cpCursor)

	case key.Matches(msg, m.keys.Add):
		m.isInputMode = true
		m.textInput.Reset()
		m.textInput.Focus()
		return m, textinput.Blink

	case key.Matches(msg, m.keys.Edit):
		if c, ok := m.selected(); ok {
			cmd := m.openEditor(c)
			return m, cmd
		}

	case key.Matches(msg, m.keys.MarkDone):
		if c, ok := m.selected(); ok {
			m.markDone(c)
		}

	case key.Matches(msg, m.keys.Delete):
		if c, ok := m.selected(); ok {
			m.deleteTarget = c
			m.showDeleteConfirm = true
		}

	case key.Matches(msg, m.keys.Chart):
		m.showChart = true

	case key.Matches(msg, m.keys.Reload):
		m.reload()
		m.setStatus("Reloaded")

	case key.Matches(msg, m.keys.Sync):
		cmd := m.doSync()
		return m, cmd

	case key.Matches(msg, m.keys.Search):
		m.isSearching = true
		m.searchQuery = ""
		m.focusedPane = paneList

	case key.Matches(msg, m.keys.Help):
		m.showHelpModal = !m.showHelpModal
	}

	return m, nil
}

// handleSearchInput handles key messages while typing in the search bar.
func (m Model) handleSearchInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.isSearching = false
		m.searchQuery = ""
		m.rebuild()
		return m, nil

	case tea.KeyEnter, tea.KeyDown, tea.KeyTab:
		// keep the filter, leave the search bar
		m.isSearching = false
		return m, nil

	case tea.KeyBackspace:
		if len(m.searchQuery) > 0 {
			_, size := utf8.DecodeLastRuneInString(m.searchQuery)
			m.searchQuery = m.searchQuery[:len(m.searchQuery)-size]
		}
		m.rebuild()
		return m, nil

	default:
		if msg.Type == tea.KeyRunes {
			m.searchQuery += string(msg.Runes)
			m.rebuild()
		}
		return m, nil
	}
}

func (m *Model) addCourse(name string) {
	c, ok, err := m.store.Add(course.Draft{Name: strings.TrimSpace(name)})
	switch {
	case err != nil:
		m.setStatus("Error: " + err.Error())
	case !ok:
		m.setStatus("A course needs a name")
	default:
		m.searchQuery = ""
		m.rebuild()
		m.selectCourse(c.ID)
		m.setStatus("Added: " + c.Name + " (E to add checkpoints)")
	}
}

func (m *Model) toggleCheckpoint(c course.Course, idx int) {
	updated, ok, err := m.store.ToggleCheckpoint(c.ID, idx)
	switch {
	case err != nil:
		m.setStatus("Error: " + err.Error())
	case !ok:
		m.setStatus("No such checkpoint")
	default:
		m.rebuild()
		if course.CanMarkDone(updated) && !updated.IsCompleted {
			m.setStatus("All checkpoints done. Press D to mark the course done")
		}
	}
}

// markDone only completes courses whose checkpoints are all checked.
func (m *Model) markDone(c course.Course) {
	if c.IsCompleted {
		m.setStatus(c.Name + " is already completed")
		return
	}
	if !course.CanMarkDone(c) {
		m.setStatus(fmt.Sprintf("Finish all checkpoints first (%d/%d)", c.CompletedCount(), len(c.Checkpoints)))
		return
	}
	done, ok, err := m.store.MarkDone(c.ID)
	switch {
	case err != nil:
		m.setStatus("Error: " + err.Error())
	case !ok:
		m.setStatus("Course no longer exists")
	default:
		m.rebuild()
		m.selectCourse(done.ID)
		m.setStatus("Completed: " + done.Name)
	}
}

func (m *Model) deleteCourse(c course.Course) {
	ok, err := m.store.Delete(c.ID)
	switch {
	case err != nil:
		m.setStatus("Delete failed: " + err.Error())
	case !ok:
		m.setStatus("Course no longer exists")
	default:
		m.setStatus("Deleted: " + c.Name)
		m.rebuild()
	}
}

// selected returns the course under the list cursor.
func (m Model) selected() (course.Course, bool) {
	if m.cursor < 0 || m.cursor >= len(m.items) {
		return course.Course{}, false
	}
	item := m.items[m.cursor]
	if item.IsSectionHeader {
		return course.Course{}, false
	}
	return item.Course, true
}

// moveCursor steps over section headers.
func (m *Model) moveCursor(delta int) {
	for i := m.cursor + delta; i >= 0 && i < len(m.items); i += delta {
		if !m.items[i].IsSectionHeader {
			m.cursor = i
			m.cpCursor = 0
			return
		}
	}
}

func (m *Model) selectCourse(id int64) {
	if i := IndexOf(m.items, id); i >= 0 {
		m.cursor = i
	}
}

// reload re-reads the persisted snapshot, then rebuilds the list.
func (m *Model) reload() {
	if err := m.store.Load(); err != nil {
		m.setStatus("Load error: " + err.Error())
		return
	}
	m.rebuild()
}

// rebuild recomputes the visible rows from the store, keeping the selection
// on the same course when it is still listed.
func (m *Model) rebuild() {
	var selectedID int64
	if c, ok := m.selected(); ok {
		selectedID = c.ID
	}

	items := BuildItems(m.store.Active(), m.store.RecentlyCompleted(m.opts.RecentLimit))
	m.items = FilterItems(items, m.searchQuery)

	if i := IndexOf(m.items, selectedID); selectedID != 0 && i >= 0 {
		m.cursor = i
	}
	if m.cursor >= len(m.items) {
		m.cursor = len(m.items) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	if m.cursor < len(m.items) && m.items[m.cursor].IsSectionHeader {
		if i := firstSelectable(m.items, m.cursor); i >= 0 {
			m.cursor = i
		} else if i := firstSelectable(m.items, 0); i >= 0 {
			m.cursor = i
		}
	}

	c, ok := m.selected()
	if !ok {
		m.focusedPane = paneList
		m.cpCursor = 0
		return
	}
	if m.cpCursor >= len(c.Checkpoints) {
		m.cpCursor = len(c.Checkpoints) - 1
	}
	if m.cpCursor < 0 {
		m.cpCursor = 0
	}
}

// getGlamourRenderer returns a cached glamour renderer, creating one if needed
// or if the width changed.
func (m *Model) getGlamourRenderer(width int) *glamour.TermRenderer {
	if width < 20 {
		width = 20
	}
	if m.glamourRenderer != nil && m.glamourWidth == width {
		return m.glamourRenderer
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStylePath("dark"),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil
	}
	m.glamourRenderer = r
	m.glamourWidth = width
	return r
}

func (m *Model) setStatus(msg string) {
	m.statusMsg = msg
	m.statusTimeout = time.Now().Add(3 * time.Second)
}

// openEditor writes the course as a markdown document to a temp file and
// hands it to $EDITOR. The result is applied in applyEditorResult.
func (m *Model) openEditor(c course.Course) tea.Cmd {
	doc, err := course.RenderDocument(c)
	if err != nil {
		m.setStatus("Error: " + err.Error())
		return nil
	}

	f, err := os.CreateTemp("", "learnlog-*.md")
	if err != nil {
		m.setStatus("Error: " + err.Error())
		return nil
	}
	path := f.Name()
	if _, err := f.WriteString(doc); err != nil {
		f.Close()
		os.Remove(path)
		m.setStatus("Error: " + err.Error())
		return nil
	}
	f.Close()

	args := strings.Fields(m.opts.Editor)
	if len(args) == 0 {
		args = []string{"vim"}
	}
	cmd := exec.Command(args[0], append(args[1:], path)...)
	return tea.ExecProcess(cmd, func(err error) tea.Msg {
		return EditorFinishedMsg{ID: c.ID, Path: path, Err: err}
	})
}

func (m *Model) applyEditorResult(msg EditorFinishedMsg) {
	defer os.Remove(msg.Path)

	if msg.Err != nil {
		m.setStatus("Editor failed: " + msg.Err.Error())
		return
	}
	data, err := os.ReadFile(msg.Path)
	if err != nil {
		m.setStatus("Error: " + err.Error())
		return
	}
	d, err := course.ParseDocument(string(data))
	if err != nil {
		m.setStatus("Not saved: " + err.Error())
		return
	}

	c, ok, err := m.store.Edit(msg.ID, d)
	switch {
	case err != nil:
		m.setStatus("Error: " + err.Error())
	case !ok && !d.Valid():
		m.setStatus("Not saved: a course needs a name")
	case !ok:
		m.setStatus("Not saved: course no longer exists")
	default:
		m.rebuild()
		m.selectCourse(c.ID)
		m.setStatus("Saved: " + c.Name)
	}
}

func (m *Model) doSync() tea.Cmd {
	if m.opts.Sync == nil {
		m.setStatus("Sync is not configured. Run 'learnlog init' first")
		return nil
	}
	syncFn := m.opts.Sync
	m.setStatus("Syncing...")
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), syncTimeout)
		defer cancel()
		return SyncDoneMsg{Err: syncFn(ctx)}
	}
}
