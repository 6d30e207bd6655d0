package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/stefanpenner/learnlog/pkg/course"
)

// Color palette
var (
	ColorPurple      = lipgloss.Color("#7D56F4")
	ColorGreen       = lipgloss.Color("#25A065")
	ColorBlue        = lipgloss.Color("#4285F4")
	ColorIndigo      = lipgloss.Color("#6366F1")
	ColorPink        = lipgloss.Color("#EC4899")
	ColorRed         = lipgloss.Color("#E05252")
	ColorYellow      = lipgloss.Color("#E5C07B")
	ColorGray        = lipgloss.Color("#626262")
	ColorGrayDim     = lipgloss.Color("#404040")
	ColorWhite       = lipgloss.Color("#FFFFFF")
	ColorOffWhite    = lipgloss.Color("#D0D0D0")
	ColorSelectionBg = lipgloss.Color("#2D3B4D")
	ColorCyan        = lipgloss.Color("#56B6C2")
)

// ChartColors cycles across the bars of the progress chart.
var ChartColors = []lipgloss.Color{ColorBlue, ColorIndigo, ColorGreen, ColorYellow, ColorPink}

// ChartColor returns the bar colour for the i-th course in the chart.
func ChartColor(i int) lipgloss.Color {
	return ChartColors[i%len(ChartColors)]
}

// Header styles
var (
	HeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPurple)

	HeaderCountStyle = lipgloss.NewStyle().
				Foreground(ColorGray)

	FooterStyle = lipgloss.NewStyle().
			Foreground(ColorGray)
)

// List item styles
var (
	SelectedStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorWhite).
			Background(ColorSelectionBg)

	CompleteStyle = lipgloss.NewStyle().
			Foreground(ColorGreen)

	InProgressStyle = lipgloss.NewStyle().
			Foreground(ColorYellow)

	IncompleteStyle = lipgloss.NewStyle().
			Foreground(ColorOffWhite)

	PercentStyle = lipgloss.NewStyle().
			Foreground(ColorGray)
)

// Section header styles
var (
	ActiveSectionStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(ColorPurple)

	CompletedSectionStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(ColorGreen)
)

// Due status styles
var (
	OverdueStyle = lipgloss.NewStyle().
			Foreground(ColorRed)

	DueTodayStyle = lipgloss.NewStyle().
			Foreground(ColorYellow)

	UpcomingStyle = lipgloss.NewStyle().
			Foreground(ColorGreen)
)

// DueStyle picks the colour for a due status.
func DueStyle(s course.DueStatus) lipgloss.Style {
	switch s {
	case course.DueOverdue:
		return OverdueStyle
	case course.DueToday:
		return DueTodayStyle
	case course.DueUpcoming:
		return UpcomingStyle
	default:
		return IncompleteStyle
	}
}

// Detail pane styles
var (
	CheckpointCursorStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(ColorCyan)

	DetailPanelStyle = lipgloss.NewStyle().
				Padding(0, 1)
)

// Modal styles
var (
	ModalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorPurple).
			Padding(1, 2)

	ModalTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPurple)
)

// Input styles
var (
	InputPromptStyle = lipgloss.NewStyle().
				Foreground(ColorPurple).
				Bold(true)
)

// Search styles
var (
	ColorSearchRowBg  = lipgloss.Color("#1E1A2E")
	ColorSearchCharBg = lipgloss.Color("#2E2545")

	SearchBarStyle = lipgloss.NewStyle().
			Foreground(ColorWhite)

	SearchRowStyle = lipgloss.NewStyle().
			Background(ColorSearchRowBg)

	SearchCharStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPurple).
			Background(ColorSearchCharBg)

	SearchCharSelectedStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(ColorPurple).
				Background(ColorSelectionBg)

	SearchCountStyle = lipgloss.NewStyle().
				Foreground(ColorGray)
)

// Status icons
const (
	IconComplete   = "✓"
	IconInProgress = "◐"
	IconIncomplete = "○"
	IconChecked    = "[x]"
	IconUnchecked  = "[ ]"
	IconCursor     = "›"
)
