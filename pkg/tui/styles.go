package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/jakechorley/rostergrid/pkg/utils/colors"
)

const (
	dateWidth   = 24
	cellWidth   = 12
	footerWidth = 4
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#ffffff")).
			Background(lipgloss.Color("#5f5f87"))

	groupStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#5f5f87"))

	dateStyle = lipgloss.NewStyle().
			Width(dateWidth).
			MaxWidth(dateWidth)

	weekendStyle = dateStyle.
			Foreground(lipgloss.Color("#808080"))

	todayStyle = dateStyle.
			Bold(true).
			Underline(true)

	footerStyle = lipgloss.NewStyle().
			Width(footerWidth).
			MaxWidth(footerWidth).
			Align(lipgloss.Right)

	staleStyle = footerStyle.
			Faint(true)

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#d7af00"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#808080"))
)

// cellStyle turns a resolved cell's CSS colors into a terminal style.
// Unfilled cells ("inherit") keep the terminal's own colors, text included.
func cellStyle(background, text string, bold bool) lipgloss.Style {
	style := lipgloss.NewStyle().
		Width(cellWidth).
		MaxWidth(cellWidth).
		Bold(bold)
	bg, ok := colors.Hex(background)
	if !ok {
		return style
	}
	style = style.Background(lipgloss.Color(bg))
	if fg, ok := colors.Hex(text); ok {
		style = style.Foreground(lipgloss.Color(fg))
	}
	return style
}
