package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"

	"github.com/stefanpenner/learnlog/pkg/course"
)

const minWidth = 40
const minHeight = 10

func listWidth(total int) int {
	w := total / 3
	if w < 24 {
		w = 24
	}
	return w
}

func detailWidth(total int) int {
	w := total - listWidth(total) - 1 // 1 char for divider
	if w < 20 {
		w = 20
	}
	return w
}

func barWidth(total int) int {
	w := total / 4
	if w < 10 {
		w = 10
	}
	return w
}

// View implements tea.Model.
func (m Model) View() string {
	w := m.width
	h := m.height
	if w < minWidth {
		w = minWidth
	}
	if h < minHeight {
		h = minHeight
	}

	if m.showHelpModal {
		return placeOverlay(m.renderHelpModal(), w, h)
	}
	if m.showChart {
		return placeOverlay(m.renderChartModal(w), w, h)
	}
	if m.showDeleteConfirm {
		return placeOverlay(m.renderDeleteModal(), w, h)
	}

	var b strings.Builder

	b.WriteString(m.renderHeader(w))
	b.WriteString("\n")
	b.WriteString(strings.Repeat("─", w))
	b.WriteString("\n")

	headerLines := 2
	footerLines := 2

	searchActive := m.isSearching || m.searchQuery != ""
	if searchActive {
		headerLines++
		b.WriteString(m.renderSearchBar(w))
		b.WriteString("\n")
	}

	contentHeight := h - headerLines - footerLines

	leftWidth := listWidth(w)
	rightWidth := detailWidth(w)
	leftPanel := m.renderListPanel(leftWidth, contentHeight)
	rightPanel := m.renderDetailPanel(rightWidth, contentHeight)

	sepColor := ColorGrayDim
	if m.focusedPane == paneDetail {
		sepColor = ColorPurple
	}
	sep := lipgloss.NewStyle().Foreground(sepColor).Render("│")
	for i := 0; i < contentHeight; i++ {
		b.WriteString(getLine(leftPanel, i, leftWidth))
		b.WriteString(sep)
		b.WriteString(getLine(rightPanel, i, rightWidth))
		b.WriteString("\n")
	}

	b.WriteString(strings.Repeat("─", w))
	b.WriteString("\n")
	b.WriteString(m.renderFooter(w))

	return b.String()
}

func (m Model) renderHeader(width int) string {
	title := HeaderStyle.Render("LearnLog")

	overall := m.store.OverallProgress()
	bar := " " + m.overallBar.ViewAs(float64(overall)/100) + " " +
		HeaderCountStyle.Render(fmt.Sprintf("%d%% overall", overall))

	courses := m.store.Courses()
	done := len(courses) - len(course.Active(courses))
	stats := HeaderCountStyle.Render(fmt.Sprintf("%d/%d courses complete", done, len(courses)))

	status := ""
	if m.statusMsg != "" && time.Now().Before(m.statusTimeout) {
		status = "  " + lipgloss.NewStyle().Foreground(ColorCyan).Render(m.statusMsg) + "  "
	}

	gap := width - lipgloss.Width(title) - lipgloss.Width(bar) - lipgloss.Width(stats) - lipgloss.Width(status)
	if gap < 1 {
		gap = 1
	}

	return title + bar + strings.Repeat(" ", gap) + status + stats
}

func (m Model) renderSearchBar(width int) string {
	prefix := SearchBarStyle.Render(" / ")
	query := SearchBarStyle.Render(m.searchQuery)
	cursor := ""
	if m.isSearching {
		cursor = SearchBarStyle.Render("█")
	}

	countStr := ""
	if m.searchQuery != "" {
		n := 0
		for _, item := range m.items {
			if !item.IsSectionHeader {
				n++
			}
		}
		countStr = SearchCountStyle.Render(fmt.Sprintf(" %d matches", n))
	}

	left := prefix + query + cursor
	padWidth := width - lipgloss.Width(left) - lipgloss.Width(countStr)
	if padWidth < 1 {
		padWidth = 1
	}

	return left + strings.Repeat(" ", padWidth) + countStr
}

func (m Model) renderListPanel(width, height int) string {
	var lines []string

	// Reserve last line for the data directory
	listHeight := height - 1
	if listHeight < 1 {
		listHeight = 1
	}

	if len(m.items) == 0 {
		if m.searchQuery != "" {
			lines = append(lines, FooterStyle.Render("No matching courses."))
		} else {
			lines = append(lines, FooterStyle.Render("No courses yet. Press 'a' to add one."))
		}
	}

	// Scrolling window
	startIdx := 0
	endIdx := len(m.items)
	if len(m.items) > listHeight {
		startIdx = m.cursor - listHeight/2
		if startIdx < 0 {
			startIdx = 0
		}
		endIdx = startIdx + listHeight
		if endIdx > len(m.items) {
			endIdx = len(m.items)
			startIdx = endIdx - listHeight
		}
	}

	for i := startIdx; i < endIdx; i++ {
		item := m.items[i]
		if item.IsSectionHeader {
			lines = append(lines, renderSectionHeader(item, width))
			continue
		}
		lines = append(lines, m.renderListItem(item, i == m.cursor, width))
	}

	if m.isInputMode {
		prompt := InputPromptStyle.Render("+ ")
		lines = append(lines, prompt+m.textInput.View())
	}

	for len(lines) < listHeight {
		lines = append(lines, "")
	}
	if len(lines) > listHeight {
		lines = lines[len(lines)-listHeight:]
	}

	if m.opts.DataDir != "" {
		path := truncate.StringWithTail(m.opts.DataDir, uint(width), "…")
		lines = append(lines, lipgloss.NewStyle().Foreground(ColorGrayDim).Render(fileHyperlink(path)))
	}

	return strings.Join(lines, "\n")
}

func renderSectionHeader(item ListItem, width int) string {
	style := ActiveSectionStyle
	if item.Section == SectionCompleted {
		style = CompletedSectionStyle
	}

	label := style.Render("── " + item.Name + " ")
	if remaining := width - lipgloss.Width(label); remaining > 0 {
		label += lipgloss.NewStyle().Foreground(ColorGrayDim).Render(strings.Repeat("─", remaining))
	}
	return label
}

// statusIcon reflects completion: done, partially done, or untouched.
func statusIcon(c course.Course) string {
	switch {
	case c.IsCompleted:
		return CompleteStyle.Render(IconComplete)
	case c.Progress > 0:
		return InProgressStyle.Render(IconInProgress)
	default:
		return IncompleteStyle.Render(IconIncomplete)
	}
}

func (m Model) renderListItem(item ListItem, isSelected bool, width int) string {
	c := item.Course

	var right string
	if c.IsCompleted {
		right = CompleteStyle.Render(course.FormatTimestamp(c.CompletedDate, time.Local))
	} else {
		if c.HasDueDate() {
			right = DueStyle(m.store.DueStatus(c)).Render(c.DueDate.Display()) + " "
		}
		right += PercentStyle.Render(fmt.Sprintf("%3d%%", c.Progress))
	}

	prefix := " " + statusIcon(c) + " "
	nameWidth := width - lipgloss.Width(prefix) - lipgloss.Width(right) - 1
	if nameWidth < 4 {
		nameWidth = 4
	}
	name := truncate.StringWithTail(item.Name, uint(nameWidth), "…")
	if m.searchQuery != "" {
		if isSelected {
			name = highlightMatch(name, m.searchQuery, SearchCharSelectedStyle, SelectedStyle)
		} else {
			name = highlightMatch(name, m.searchQuery, SearchCharStyle, SearchRowStyle)
		}
	}

	line := prefix + name
	if pad := width - lipgloss.Width(line) - lipgloss.Width(right); pad > 0 {
		line += strings.Repeat(" ", pad)
	}
	line += right

	if isSelected {
		line = SelectedStyle.Render(line)
	}
	return line
}

func (m Model) renderDetailPanel(width, height int) string {
	c, ok := m.selected()
	if !ok {
		return FooterStyle.Render(" Select a course to see its checkpoints")
	}

	md := m.detailMarkdown(c)
	rendered := md
	if m.glamourRenderer != nil {
		if out, err := m.glamourRenderer.Render(md); err == nil {
			rendered = out
		}
	}
	rendered = strings.TrimRight(rendered, "\n ")

	lines := strings.Split(rendered, "\n")
	lines = append(lines, "")
	for _, l := range CheckpointLines(c, m.cpCursor, m.focusedPane == paneDetail) {
		lines = append(lines, DetailPanelStyle.Render(l))
	}
	if hint := doneHint(c); hint != "" {
		lines = append(lines, "", DetailPanelStyle.Render(FooterStyle.Render(hint)))
	}

	// Keep the checkpoint cursor in view
	if len(lines) > height {
		cursorLine := len(lines) - len(c.Checkpoints) + m.cpCursor
		start := 0
		if cursorLine >= height {
			start = cursorLine - height + 1
		}
		lines = lines[start:]
		if len(lines) > height {
			lines = lines[:height]
		}
	}
	return strings.Join(lines, "\n")
}

// detailMarkdown builds the header shown above the checkpoint list.
func (m Model) detailMarkdown(c course.Course) string {
	var md strings.Builder

	md.WriteString("# " + c.Name + "\n\n")

	var meta []string
	if c.HasDueDate() {
		due := "**Due:** " + c.DueDate.Display()
		switch m.store.DueStatus(c) {
		case course.DueOverdue:
			due += " (overdue)"
		case course.DueToday:
			due += " (today)"
		}
		meta = append(meta, due)
	}
	meta = append(meta, fmt.Sprintf("**Progress:** %d%%", c.Progress))
	if c.IsCompleted {
		meta = append(meta, "**Completed:** "+course.FormatTimestamp(c.CompletedDate, time.Local))
	}
	md.WriteString(strings.Join(meta, " | ") + "\n\n")

	if c.Description != "" {
		md.WriteString(c.Description + "\n\n")
	}

	md.WriteString(fmt.Sprintf("## Checkpoints (%d/%d)\n", c.CompletedCount(), len(c.Checkpoints)))
	return md.String()
}

// CheckpointLines renders a course's checkpoints as a checklist, marking the
// cursor row when the detail pane has focus.
func CheckpointLines(c course.Course, cursor int, focused bool) []string {
	if len(c.Checkpoints) == 0 {
		return []string{FooterStyle.Render("No checkpoints.")}
	}
	lines := make([]string, 0, len(c.Checkpoints))
	for i, cp := range c.Checkpoints {
		marker := "  "
		if focused && i == cursor {
			marker = CheckpointCursorStyle.Render(IconCursor) + " "
		}
		box, style := IconUnchecked, IncompleteStyle
		if cp.Completed {
			box, style = IconChecked, CompleteStyle
		}
		lines = append(lines, marker+style.Render(box+" "+cp.Name))
	}
	return lines
}

func doneHint(c course.Course) string {
	switch {
	case c.IsCompleted:
		return ""
	case course.CanMarkDone(c):
		return "Ready: press D to mark done"
	default:
		return fmt.Sprintf("%d checkpoint(s) left before this can be marked done", len(c.Checkpoints)-c.CompletedCount())
	}
}

func (m Model) renderFooter(width int) string {
	help := m.keys.ShortHelp()
	switch {
	case m.isInputMode:
		help = "enter add  esc cancel"
	case m.isSearching:
		help = "type to search  enter/↓ keep filter  esc clear"
	case m.searchQuery != "":
		help = "esc clear filter  ↑↓ nav"
	case m.focusedPane == paneDetail:
		help = "↑↓ checkpoint  space toggle  tab courses  D done  E edit  ? help"
	}
	return FooterStyle.Render(truncate.String(help, uint(width)))
}

func (m Model) renderHelpModal() string {
	var b strings.Builder

	b.WriteString(ModalTitleStyle.Render("Keyboard Shortcuts"))
	b.WriteString("\n\n")

	keyStyle := lipgloss.NewStyle().Foreground(ColorBlue).Width(16)
	descStyle := lipgloss.NewStyle().Foreground(ColorWhite)

	for _, binding := range m.keys.FullHelp() {
		b.WriteString(keyStyle.Render(binding[0]))
		b.WriteString(descStyle.Render(binding[1]))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(FooterStyle.Render("Press Esc or ? to close"))

	return ModalStyle.Render(b.String())
}

// renderChartModal draws one bar per active course, cycling colours.
func (m Model) renderChartModal(width int) string {
	var b strings.Builder
	b.WriteString(ModalTitleStyle.Render("Progress Across Courses"))
	b.WriteString("\n\n")

	active := m.store.Active()
	if len(active) == 0 {
		b.WriteString(FooterStyle.Render("No active courses."))
	}

	inner := width*2/3 - 6
	if inner < 20 {
		inner = 20
	}
	for i, c := range active {
		color := ChartColor(i)
		p := course.Progress(c)
		pct := lipgloss.NewStyle().Bold(true).Foreground(color).Render(fmt.Sprintf("%d%%", p))
		name := truncate.StringWithTail(c.Name, uint(inner-lipgloss.Width(pct)-1), "…")
		pad := inner - lipgloss.Width(name) - lipgloss.Width(pct)
		if pad < 1 {
			pad = 1
		}
		bar := progress.New(
			progress.WithSolidFill(string(color)),
			progress.WithoutPercentage(),
			progress.WithWidth(inner),
		)
		b.WriteString(name + strings.Repeat(" ", pad) + pct + "\n")
		b.WriteString(bar.ViewAs(float64(p)/100) + "\n\n")
	}

	b.WriteString(FooterStyle.Render("Press Esc or c to close"))
	return ModalStyle.Render(b.String())
}

func (m Model) renderDeleteModal() string {
	var b strings.Builder

	b.WriteString(ModalTitleStyle.Render("Delete Course"))
	b.WriteString("\n\n")
	b.WriteString(fmt.Sprintf("Delete '%s' and its %d checkpoint(s)?\n\n", m.deleteTarget.Name, len(m.deleteTarget.Checkpoints)))
	b.WriteString(lipgloss.NewStyle().Foreground(ColorGreen).Render("[y]") + " Yes  ")
	b.WriteString(lipgloss.NewStyle().Foreground(ColorRed).Render("[n]") + " No")

	return ModalStyle.Render(b.String())
}

// highlightMatch splits name into before/match/after and styles the match portion
// with charStyle, and the rest with rowStyle. The match is case-insensitive.
func highlightMatch(name, query string, charStyle, rowStyle lipgloss.Style) string {
	lower := strings.ToLower(name)
	idx := strings.Index(lower, strings.ToLower(query))
	if idx < 0 || idx+len(query) > len(name) {
		return rowStyle.Render(name)
	}
	before := name[:idx]
	match := name[idx : idx+len(query)]
	after := name[idx+len(query):]

	var result string
	if before != "" {
		result += rowStyle.Render(before)
	}
	result += charStyle.Render(match)
	if after != "" {
		result += rowStyle.Render(after)
	}
	return result
}

// fileHyperlink wraps a file path in an OSC 8 terminal hyperlink so it's clickable.
func fileHyperlink(path string) string {
	url := "file://" + path
	return fmt.Sprintf("\x1b]8;;%s\x1b\\%s\x1b]8;;\x1b\\", url, path)
}

func getLine(block string, idx int, width int) string {
	lines := strings.Split(block, "\n")
	if idx < len(lines) {
		line := lines[idx]
		lineWidth := lipgloss.Width(line)
		if lineWidth < width {
			return line + strings.Repeat(" ", width-lineWidth)
		}
		return line
	}
	return strings.Repeat(" ", width)
}

func placeOverlay(modal string, width, height int) string {
	modalLines := strings.Split(modal, "\n")

	topPadding := (height - len(modalLines)) / 2
	if topPadding < 0 {
		topPadding = 0
	}

	leftPadding := (width - lipgloss.Width(modalLines[0])) / 2
	if leftPadding < 0 {
		leftPadding = 0
	}

	var result strings.Builder
	for i := 0; i < topPadding; i++ {
		result.WriteString("\n")
	}

	for _, line := range modalLines {
		result.WriteString(strings.Repeat(" ", leftPadding))
		result.WriteString(line)
		result.WriteString("\n")
	}

	return result.String()
}
