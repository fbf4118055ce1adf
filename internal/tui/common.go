package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/blackwell-systems/opacctl/internal/catalog"
)

// Color palette matching the fatih/color usage of the plain CLI output
var (
	// ColorGreen for lendable copies and success indicators
	ColorGreen = lipgloss.AdaptiveColor{Light: "#00AF00", Dark: "#00D700"}

	// ColorCyan for subjects and metadata
	ColorCyan = lipgloss.AdaptiveColor{Light: "#00AFAF", Dark: "#00D7D7"}

	// ColorWhite for primary text
	ColorWhite = lipgloss.AdaptiveColor{Light: "#262626", Dark: "#FFFFFF"}

	// ColorGray for secondary text and help
	ColorGray = lipgloss.AdaptiveColor{Light: "#767676", Dark: "#808080"}

	// ColorYellow for warnings and highlights
	ColorYellow = lipgloss.AdaptiveColor{Light: "#D7AF00", Dark: "#FFD700"}

	// ColorRed for errors and checked-out copies
	ColorRed = lipgloss.AdaptiveColor{Light: "#D70000", Dark: "#FF5F5F"}

	ColorOrange = lipgloss.AdaptiveColor{Light: "#D75F00", Dark: "#FF8700"}
)

// Reusable styles
var (
	// StyleNormal is the base style for regular text
	StyleNormal = lipgloss.NewStyle().Foreground(ColorWhite)

	// StyleHighlight is for selected items
	StyleHighlight = lipgloss.NewStyle().
			Foreground(ColorYellow).
			Bold(true)

	// StyleOK marks lendable copies and completed actions
	StyleOK = lipgloss.NewStyle().Foreground(ColorGreen)

	// StyleError is for error lines
	StyleError = lipgloss.NewStyle().Foreground(ColorRed)

	// StyleTag is for subjects
	StyleTag = lipgloss.NewStyle().Foreground(ColorCyan)

	// StyleHelp is for help text and hints
	StyleHelp = lipgloss.NewStyle().Foreground(ColorGray)

	// StyleHeader is for section headers
	StyleHeader = lipgloss.NewStyle().
			Foreground(ColorWhite).
			Bold(true)

	// StyleBorder is for borders and separators
	StyleBorder = lipgloss.NewStyle().
			Foreground(ColorGray).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(ColorGray)

	// StyleTitle is the app banner
	StyleTitle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("86")).
			Padding(0, 1)
)

// StatusStyle colors a circulation status.
func StatusStyle(s catalog.Status) lipgloss.Style {
	switch s {
	case catalog.StatusAvailable, catalog.StatusOnShelf:
		return StyleOK
	case catalog.StatusOnHold:
		return lipgloss.NewStyle().Foreground(ColorYellow)
	default:
		return StyleError
	}
}

// AvailabilityBadge is the one-word summary shown beside a title.
func AvailabilityBadge(b catalog.Book) string {
	if b.Available() {
		return StyleOK.Render("● 可借")
	}
	if len(b.Availability) == 0 {
		return StyleHelp.Render("○ 無館藏")
	}
	return StyleError.Render("○ 借出")
}

// Frame wraps a view in the standard outer padding and rounded border.
func Frame(content string) string {
	outer := lipgloss.NewStyle().Padding(1, 2)
	inner := lipgloss.NewStyle().Padding(0, 2, 0, 1)
	return outer.Render(StyleBorder.Render(inner.Render(content)))
}

// FrameSize is the horizontal and vertical space Frame adds around content.
func FrameSize() (int, int) {
	h, v := StyleBorder.GetFrameSize()
	return h + 2*2 + 3, v + 1*2
}
