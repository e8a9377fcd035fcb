package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/capplan/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

// Gruvbox-inspired color palette.
var (
	ColorGreen  = lipgloss.Color("#8ec07c")
	ColorYellow = lipgloss.Color("#fabd2f")
	ColorRed    = lipgloss.Color("#fb4934")
	ColorBlue   = lipgloss.Color("#83a598")
	ColorPurple = lipgloss.Color("#d3869b")
	ColorDim    = lipgloss.Color("#928374")
	ColorFg     = lipgloss.Color("#ebdbb2")
	ColorHeader = lipgloss.Color("#fe8019")
)

// Predefined lipgloss styles.
var (
	StyleGreen  = lipgloss.NewStyle().Foreground(ColorGreen)
	StyleYellow = lipgloss.NewStyle().Foreground(ColorYellow)
	StyleRed    = lipgloss.NewStyle().Foreground(ColorRed)
	StyleBlue   = lipgloss.NewStyle().Foreground(ColorBlue)
	StylePurple = lipgloss.NewStyle().Foreground(ColorPurple)
	StyleDim    = lipgloss.NewStyle().Foreground(ColorDim)
	StyleFg     = lipgloss.NewStyle().Foreground(ColorFg)
	StyleHeader = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
	StyleBold   = lipgloss.NewStyle().Foreground(ColorFg).Bold(true)
)

// LoadStatusIndicator returns a colored team load pill such as "● OVERLOADED".
func LoadStatusIndicator(s domain.LoadStatus) string {
	label := "● " + strings.ToUpper(string(s))
	switch s {
	case domain.LoadOverloaded:
		return StyleRed.Render(label)
	case domain.LoadNearLimit:
		return StyleYellow.Render(label)
	case domain.LoadOK:
		return StyleGreen.Render(label)
	default:
		return StyleDim.Render("● UNKNOWN")
	}
}

// ClassLabel renders ATL in green and BTL in red.
func ClassLabel(c domain.Classification) string {
	switch c {
	case domain.ClassATL:
		return StyleGreen.Render("ATL")
	case domain.ClassBTL:
		return StyleRed.Render("BTL")
	default:
		return StyleDim.Render("-")
	}
}

func StatusStyle(s domain.InitiativeStatus) lipgloss.Style {
	switch s {
	case domain.StatusCommitted:
		return StyleBlue
	case domain.StatusInProgress:
		return StylePurple
	case domain.StatusCompleted:
		return StyleDim
	default:
		return StyleFg
	}
}

// Header renders a section header with the orange header style and an underline.
func Header(text string) string {
	upper := strings.ToUpper(text)
	line := strings.Repeat("─", len(upper))
	return fmt.Sprintf("%s\n%s", StyleHeader.Render(upper), StyleDim.Render(line))
}

// Dim renders text in the muted/dim color.
func Dim(text string) string {
	return StyleDim.Render(text)
}

// Bold renders text in bold with the foreground color.
func Bold(text string) string {
	return StyleBold.Render(text)
}
