package tui

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jakechorley/rostergrid/pkg/core/grid"
	"github.com/jakechorley/rostergrid/pkg/core/model"
)

// frame is the visible slice of a rendered grid
type frame struct {
	grid       *grid.RenderedGrid
	background func(c grid.RenderedCell) string
	cursor     string // cell ID drawn reversed, empty for none
	rowStart   int
	rowEnd     int
	colStart   int
	colEnd     int
}

func fullFrame(rendered *grid.RenderedGrid) frame {
	return frame{
		grid:       rendered,
		background: func(c grid.RenderedCell) string { return c.Cell.Background },
		rowEnd:     len(rendered.Rows),
		colEnd:     len(rendered.Columns),
	}
}

// RenderStatic draws the whole grid with its render-time colors
func RenderStatic(rendered *grid.RenderedGrid) string {
	return fullFrame(rendered).render()
}

func (f frame) render() string {
	var lines []string
	lines = append(lines, f.groupLine(), f.headerLine())
	for i := f.rowStart; i < f.rowEnd; i++ {
		lines = append(lines, f.rowLine(f.grid.Rows[i]))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

// groupLine labels each year cohort above its first visible column
func (f frame) groupLine() string {
	titles := make([]string, len(f.grid.Columns))
	col := 0
	for _, group := range f.grid.Groups {
		for i := range group.People {
			if i == 0 || col == f.colStart {
				titles[col] = group.Title
			}
			col++
		}
	}

	parts := []string{dateStyle.Render("")}
	for i := f.colStart; i < f.colEnd; i++ {
		parts = append(parts, groupStyle.Width(cellWidth).MaxWidth(cellWidth).Render(titles[i]))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (f frame) headerLine() string {
	parts := []string{headerStyle.Width(dateWidth).MaxWidth(dateWidth).Render("Date")}
	for i := f.colStart; i < f.colEnd; i++ {
		parts = append(parts, headerStyle.Width(cellWidth).MaxWidth(cellWidth).Render(f.grid.Columns[i].Username))
	}
	for _, h := range []string{"Lv", "Ap", "Pd"} {
		parts = append(parts, headerStyle.Width(footerWidth).MaxWidth(footerWidth).Align(lipgloss.Right).Render(h))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (f frame) rowLine(row grid.RenderedRow) string {
	label := grid.StripMarkup(row.DateLabel)
	if row.Holiday != "" {
		label += " " + row.Holiday
	}
	style := dateStyle
	switch {
	case row.Today:
		style = todayStyle
	case row.Weekend:
		style = weekendStyle
	}

	parts := []string{style.Render(label)}
	for i := f.colStart; i < f.colEnd; i++ {
		c := row.Cells[i]
		cs := cellStyle(f.background(c), c.Cell.TextColor, c.Cell.FontWeight == grid.FontBold)
		if c.ID == f.cursor {
			cs = cs.Reverse(true)
		}
		parts = append(parts, cs.Render(c.Cell.Label))
	}

	summary := f.grid.Footer[model.FormatDate(row.Date)]
	fs := footerStyle
	if f.grid.FooterStale {
		fs = staleStyle
	}
	for _, n := range []int{summary.Total, summary.Approved, summary.Pending} {
		parts = append(parts, fs.Render(count(n)))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func count(n int) string {
	if n == 0 {
		return ""
	}
	return strconv.Itoa(n)
}

func helpLine(k keyMap) string {
	var parts []string
	for _, b := range k.ShortHelp() {
		h := b.Help()
		parts = append(parts, h.Key+" "+h.Desc)
	}
	return helpStyle.Render(strings.Join(parts, " • "))
}
