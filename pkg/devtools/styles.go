package devtools

import "github.com/charmbracelet/lipgloss"

// Colors used throughout the inspector.
var (
	colorPrimary = lipgloss.Color("#7C3AED")
	colorAccent  = lipgloss.Color("#F59E0B")
	colorMuted   = lipgloss.Color("#6B7280")
	colorBorder  = lipgloss.Color("#374151")
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(colorPrimary).
			Bold(true)

	headerStyle = lipgloss.NewStyle().
			Foreground(colorMuted)

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorBorder).
			Padding(0, 1)

	panelTitleStyle = lipgloss.NewStyle().
			Foreground(colorPrimary).
			Bold(true).
			MarginBottom(1)

	selectedRowStyle = lipgloss.NewStyle().
				Foreground(colorAccent).
				Bold(true)

	rowStyle = lipgloss.NewStyle()

	mutedStyle = lipgloss.NewStyle().Foreground(colorMuted)

	footerStyle = lipgloss.NewStyle().Foreground(colorMuted)

	footerKeyStyle = lipgloss.NewStyle().Foreground(colorAccent).Bold(true)
)

// panelOverhead is Panel's border + padding footprint, used when sizing a
// child viewport to fill the remaining space exactly.
const (
	panelVerticalOverhead   = 2 // 2 border lines, no top/bottom padding
	panelHorizontalOverhead = 4 // 2 border cols + 2 padding cols
)
