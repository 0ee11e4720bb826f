package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/jakechorley/rostergrid/pkg/core/grid"
	"github.com/jakechorley/rostergrid/pkg/core/model"
	"github.com/jakechorley/rostergrid/pkg/utils/colors"
)

const (
	DefaultSheet      = "Roster"
	headerFill        = "#D9D9D9"
	dateColumnWidth   = 22
	personColumnWidth = 14
)

type styleKey struct {
	background string
	text       string
	bold       bool
}

// workbook caches one excelize style per distinct cell look
type workbook struct {
	f      *excelize.File
	sheet  string
	styles map[styleKey]int
}

func (w *workbook) style(key styleKey) (int, error) {
	if id, ok := w.styles[key]; ok {
		return id, nil
	}
	style := &excelize.Style{
		Font: &excelize.Font{Bold: key.bold},
		Border: []excelize.Border{
			{Type: "left", Color: "BFBFBF", Style: 1},
			{Type: "right", Color: "BFBFBF", Style: 1},
			{Type: "top", Color: "BFBFBF", Style: 1},
			{Type: "bottom", Color: "BFBFBF", Style: 1},
		},
	}
	if hex, ok := colors.Hex(key.background); ok {
		style.Fill = excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{hex}}
	}
	if hex, ok := colors.Hex(key.text); ok {
		style.Font.Color = hex
	}
	id, err := w.f.NewStyle(style)
	if err != nil {
		return 0, fmt.Errorf("failed to create cell style: %w", err)
	}
	w.styles[key] = id
	return id, nil
}

func (w *workbook) set(col, row int, value string, key styleKey) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return err
	}
	if err := w.f.SetCellValue(w.sheet, cell, value); err != nil {
		return fmt.Errorf("failed to set cell %s: %w", cell, err)
	}
	id, err := w.style(key)
	if err != nil {
		return err
	}
	return w.f.SetCellStyle(w.sheet, cell, cell, id)
}

// BuildWorkbook lays the rendered grid out on a single sheet: year groups on
// row 1, usernames on row 2, one row per date below, and the leave footer in
// the three columns after the people. The caller closes the returned file.
func BuildWorkbook(rendered *grid.RenderedGrid, sheet string) (*excelize.File, error) {
	if sheet == "" {
		sheet = DefaultSheet
	}
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}

	w := &workbook{f: f, sheet: sheet, styles: make(map[styleKey]int)}
	if err := w.fill(rendered); err != nil {
		f.Close()
		return nil, err
	}
	return f, nil
}

func (w *workbook) fill(rendered *grid.RenderedGrid) error {
	header := styleKey{background: headerFill, bold: true}

	// Column groups, merged across each cohort.
	col := 2
	for _, group := range rendered.Groups {
		if err := w.set(col, 1, group.Title, header); err != nil {
			return err
		}
		last := col + len(group.People) - 1
		if last > col {
			from, _ := excelize.CoordinatesToCellName(col, 1)
			to, _ := excelize.CoordinatesToCellName(last, 1)
			if err := w.f.MergeCell(w.sheet, from, to); err != nil {
				return fmt.Errorf("failed to merge group header: %w", err)
			}
		}
		col = last + 1
	}

	footerCol := len(rendered.Columns) + 2
	headers := []string{"Date"}
	for _, person := range rendered.Columns {
		headers = append(headers, person.Username)
	}
	headers = append(headers, "Leave", "Approved", "Pending")
	for i, h := range headers {
		if err := w.set(i+1, 2, h, header); err != nil {
			return err
		}
	}

	for i, row := range rendered.Rows {
		r := i + 3
		dateStyle := styleKey{}
		if row.Weekend {
			dateStyle.background = headerFill
		}
		label := grid.StripMarkup(row.DateLabel)
		if row.Holiday != "" {
			label += " " + row.Holiday
		}
		if err := w.set(1, r, label, dateStyle); err != nil {
			return err
		}

		for j, c := range row.Cells {
			key := styleKey{
				background: c.Cell.Background,
				text:       c.Cell.TextColor,
				bold:       c.Cell.FontWeight == grid.FontBold,
			}
			if err := w.set(j+2, r, c.Cell.Label, key); err != nil {
				return err
			}
		}

		if summary, ok := rendered.Footer[model.FormatDate(row.Date)]; ok {
			counts := []int{summary.Total, summary.Approved, summary.Pending}
			for k, n := range counts {
				cell, err := excelize.CoordinatesToCellName(footerCol+k, r)
				if err != nil {
					return err
				}
				if err := w.f.SetCellValue(w.sheet, cell, n); err != nil {
					return fmt.Errorf("failed to set footer cell %s: %w", cell, err)
				}
			}
		}
	}

	if err := w.f.SetColWidth(w.sheet, "A", "A", dateColumnWidth); err != nil {
		return fmt.Errorf("failed to size date column: %w", err)
	}
	if len(rendered.Columns) > 0 {
		last, _ := excelize.ColumnNumberToName(len(rendered.Columns) + 1)
		if err := w.f.SetColWidth(w.sheet, "B", last, personColumnWidth); err != nil {
			return fmt.Errorf("failed to size person columns: %w", err)
		}
	}

	return w.f.SetPanes(w.sheet, &excelize.Panes{
		Freeze:      true,
		XSplit:      1,
		YSplit:      2,
		TopLeftCell: "B3",
		ActivePane:  "bottomRight",
	})
}

// WriteGrid writes the rendered grid as an xlsx workbook
func WriteGrid(out io.Writer, rendered *grid.RenderedGrid, sheet string) error {
	f, err := BuildWorkbook(rendered, sheet)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := f.WriteTo(out); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}
