package cli

import (
	"fmt"

	"github.com/alexanderramin/capplan/internal/cli/formatter"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// capplanHuhTheme returns a huh theme matching the formatter palette.
func capplanHuhTheme() *huh.Theme {
	t := huh.ThemeBase()

	t.Focused.Title = lipgloss.NewStyle().Foreground(formatter.ColorHeader).Bold(true)
	t.Focused.Description = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Focused.FocusedButton = lipgloss.NewStyle().Foreground(formatter.ColorFg).Background(formatter.ColorHeader).Padding(0, 1)
	t.Focused.BlurredButton = lipgloss.NewStyle().Foreground(formatter.ColorDim).Padding(0, 1)

	t.Blurred.Title = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	return t
}

// commitConfirmForm asks before commit rewrites workflow statuses.
func commitConfirmForm(year, changes int, confirmed *bool) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("Commit plan %d?", year)).
				Description(fmt.Sprintf("%d initiatives will change status.", changes)).
				Affirmative("Commit").
				Negative("Cancel").
				Value(confirmed),
		),
	).WithTheme(capplanHuhTheme()).WithShowHelp(false)
}
