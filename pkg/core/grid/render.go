package grid

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/jakechorley/rostergrid/pkg/core/highlight"
	"github.com/jakechorley/rostergrid/pkg/core/model"
)

const dateLabelLayout = "02/01/06 Mon"

// ColumnGroup is one year cohort of person columns
type ColumnGroup struct {
	Title  string
	People []model.Person
}

// RenderedCell is a resolved cell placed in the grid. OriginalBackground is
// captured when the grid is rendered and never changes afterwards.
type RenderedCell struct {
	ID                 string
	Date               time.Time
	PersonID           int64
	Ref                model.CellRef
	Cell               Cell
	OriginalBackground string
}

// RenderedRow is one date of the rendered grid
type RenderedRow struct {
	Date      time.Time
	DateLabel string
	Holiday   string
	Weekend   bool
	Today     bool
	Cells     []RenderedCell // aligned with RenderedGrid.Columns
}

// RenderedGrid is the display projection of one snapshot
type RenderedGrid struct {
	SnapshotID  string
	Groups      []ColumnGroup
	Columns     []model.Person
	Rows        []RenderedRow
	Footer      map[string]LeaveSummary // keyed by date, only rendered dates
	FooterStale bool                    // set once the grid is edited after rendering

	statuses *StatusIndex
}

// CellID identifies a grid cell by date and person
func CellID(date time.Time, personID int64) string {
	return fmt.Sprintf("%s/%d", model.FormatDate(date), personID)
}

// SortPeople orders columns by year descending, then username ascending
func SortPeople(people []model.Person) []model.Person {
	sorted := make([]model.Person, len(people))
	copy(sorted, people)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Year != sorted[j].Year {
			return sorted[i].Year > sorted[j].Year
		}
		return strings.Compare(sorted[i].Username, sorted[j].Username) < 0
	})
	return sorted
}

// GroupPeople splits sorted people into one column group per year
func GroupPeople(sorted []model.Person) []ColumnGroup {
	var groups []ColumnGroup
	for _, person := range sorted {
		if len(groups) == 0 || groups[len(groups)-1].People[0].Year != person.Year {
			groups = append(groups, ColumnGroup{Title: fmt.Sprintf("Year %d", person.Year)})
		}
		last := &groups[len(groups)-1]
		last.People = append(last.People, person)
	}
	return groups
}

// Render resolves every cell of the snapshot and fills the leave footer
func Render(table *model.Table, now time.Time) *RenderedGrid {
	columns := SortPeople(table.People)
	statuses := NewStatusIndex(table.Statuses)
	today := model.Day(now)

	rendered := &RenderedGrid{
		SnapshotID: table.ID.String(),
		Groups:     GroupPeople(columns),
		Columns:    columns,
		Rows:       make([]RenderedRow, 0, len(table.Rows)),
		statuses:   statuses,
	}

	for _, row := range table.Rows {
		date := model.Day(row.Date)
		out := RenderedRow{
			Date:      date,
			DateLabel: DateLabel(date, row.Holiday),
			Holiday:   row.Holiday,
			Weekend:   date.Weekday() == time.Saturday || date.Weekday() == time.Sunday,
			Today:     date.Equal(today),
			Cells:     make([]RenderedCell, 0, len(columns)),
		}
		for _, person := range columns {
			ref := row.Cells[person.ID]
			cell := resolve(ref, statuses.Match(date, person.ID), table)
			out.Cells = append(out.Cells, RenderedCell{
				ID:                 CellID(date, person.ID),
				Date:               date,
				PersonID:           person.ID,
				Ref:                ref,
				Cell:               cell,
				OriginalBackground: cell.Background,
			})
		}
		rendered.Rows = append(rendered.Rows, out)
	}

	rendered.Footer = Footer(rendered, SummarizeLeaves(table))
	return rendered
}

// DateLabel formats the date column, marking holidays
func DateLabel(date time.Time, holiday string) string {
	label := date.Format(dateLabelLayout)
	if holiday != "" {
		label += " <small>🎉</small>"
	}
	return label
}

// Footer keeps only the summaries for dates that have a row in the rendered grid.
// Dates outside the grid are dropped without error.
func Footer(rendered *RenderedGrid, summaries map[string]LeaveSummary) map[string]LeaveSummary {
	footer := make(map[string]LeaveSummary, len(rendered.Rows))
	for _, row := range rendered.Rows {
		key := model.FormatDate(row.Date)
		if summary, ok := summaries[key]; ok {
			footer[key] = summary
		}
	}
	return footer
}

// Cell returns the rendered cell with the given ID
func (g *RenderedGrid) Cell(id string) (*RenderedCell, bool) {
	for i := range g.Rows {
		for j := range g.Rows[i].Cells {
			if g.Rows[i].Cells[j].ID == id {
				return &g.Rows[i].Cells[j], true
			}
		}
	}
	return nil, false
}

// RemoveEntity clears every cell that references the removed record, keeping the
// status overlays that still apply to it, and marks the footer stale. Counts are not corrected; the next snapshot fetch replaces them.
// It returns the number of cells cleared.
func (g *RenderedGrid) RemoveEntity(ref model.CellRef) int {
	if ref.IsEmpty() {
		return 0
	}
	removed := 0
	for i := range g.Rows {
		for j := range g.Rows[i].Cells {
			c := &g.Rows[i].Cells[j]
			if c.Ref != ref {
				continue
			}
			c.Ref = model.CellRef{}
			c.Cell = g.resolveEmpty(c.Date, c.PersonID)
			c.OriginalBackground = c.Cell.Background
			removed++
		}
	}
	if removed > 0 {
		g.FooterStale = true
	}
	return removed
}

func (g *RenderedGrid) resolveEmpty(date time.Time, personID int64) Cell {
	var matched []model.StatusRecord
	if g.statuses != nil {
		matched = g.statuses.Match(date, personID)
	}
	return resolve(model.CellRef{}, matched, nil)
}

// HighlightItems exposes the rendered cells to a highlight coordinator
func (g *RenderedGrid) HighlightItems() []highlight.Item {
	var items []highlight.Item
	for _, row := range g.Rows {
		for _, c := range row.Cells {
			items = append(items, highlight.Item{
				ID:         c.ID,
				Label:      c.Cell.Label,
				Entity:     c.Cell.Entity.String(),
				Category:   highlight.Foreground,
				Background: c.OriginalBackground,
			})
		}
	}
	return items
}
