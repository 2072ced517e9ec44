package inspector

import "github.com/charmbracelet/lipgloss"

// All colours live here.
var (
	colorBgSurface = lipgloss.Color("#1c2128")

	colorText      = lipgloss.Color("#e6edf3")
	colorTextDim   = lipgloss.Color("#8b949e")
	colorTextMuted = lipgloss.Color("#484f58")

	colorBlue   = lipgloss.Color("#58a6ff")
	colorGreen  = lipgloss.Color("#3fb950")
	colorRed    = lipgloss.Color("#f85149")
	colorYellow = lipgloss.Color("#d29922")
	colorCyan   = lipgloss.Color("#1ff3fe")

	colorHighlight = lipgloss.Color("#1f6feb")
)

// Header bar
var (
	headerBarStyle = lipgloss.NewStyle().
			Background(colorBgSurface).
			Foreground(colorText).
			Padding(0, 1)

	headerBrandStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(colorBlue)

	headerSepStyle = lipgloss.NewStyle().
			Foreground(colorTextMuted)

	headerMetaStyle = lipgloss.NewStyle().
			Foreground(colorTextDim)

	headerActiveStyle = lipgloss.NewStyle().
				Foreground(colorGreen)
)

// Atom list
var (
	atomItemStyle = lipgloss.NewStyle().
			Foreground(colorText).
			Padding(0, 1)

	atomCursorStyle = lipgloss.NewStyle().
			Background(colorHighlight).
			Foreground(colorText).
			Bold(true).
			Padding(0, 1)

	atomSelectedDot = lipgloss.NewStyle().
			Foreground(colorCyan)

	atomDimStyle = lipgloss.NewStyle().
			Foreground(colorTextDim)

	emptyStateStyle = lipgloss.NewStyle().
			Foreground(colorTextMuted).
			Padding(2, 4)
)

// Footer / status bar
var (
	statusStyle = lipgloss.NewStyle().
			Foreground(colorText).
			Background(colorBgSurface).
			Padding(0, 1)

	statusErrStyle = lipgloss.NewStyle().
			Foreground(colorRed).
			Background(colorBgSurface).
			Padding(0, 1)

	statusWarnStyle = lipgloss.NewStyle().
			Foreground(colorYellow)

	hintKeyStyle = lipgloss.NewStyle().
			Foreground(colorText).
			Bold(true)

	hintDescStyle = lipgloss.NewStyle().
			Foreground(colorTextMuted)
)
