package sheetsclient

import (
	"fmt"

	"google.golang.org/api/sheets/v4"

	"github.com/jakechorley/rostergrid/pkg/utils/colors"
)

// PublishedCell is one spreadsheet cell with its styling. Colors are CSS strings;
// values that do not parse (e.g. "inherit") leave the cell unfilled.
type PublishedCell struct {
	Value      string
	Background string
	TextColor  string
	Bold       bool
}

// PublishedTable is a rendered grid ready to be written to a tab
type PublishedTable struct {
	Title string // tab title
	Rows  [][]PublishedCell
}

// PublishTable writes the table to the tab named after its title, creating the
// tab if needed. An existing tab is cleared first so no stale cells survive.
func (c *Client) PublishTable(spreadsheetID string, table *PublishedTable) error {
	sheetID, err := c.resetTab(spreadsheetID, table.Title)
	if err != nil {
		return err
	}

	req := &sheets.Request{
		UpdateCells: &sheets.UpdateCellsRequest{
			Start:  &sheets.GridCoordinate{SheetId: sheetID},
			Rows:   toRowData(table.Rows),
			Fields: "userEnteredValue,userEnteredFormat.backgroundColor,userEnteredFormat.textFormat",
		},
	}
	freeze := &sheets.Request{
		UpdateSheetProperties: &sheets.UpdateSheetPropertiesRequest{
			Properties: &sheets.SheetProperties{
				SheetId:        sheetID,
				GridProperties: &sheets.GridProperties{FrozenRowCount: 2, FrozenColumnCount: 1},
			},
			Fields: "gridProperties.frozenRowCount,gridProperties.frozenColumnCount",
		},
	}

	if _, err := c.batch(spreadsheetID, req, freeze); err != nil {
		return fmt.Errorf("failed to write table: %w", err)
	}
	return nil
}

func toRowData(rows [][]PublishedCell) []*sheets.RowData {
	data := make([]*sheets.RowData, 0, len(rows))
	for _, row := range rows {
		cells := make([]*sheets.CellData, 0, len(row))
		for _, cell := range row {
			cells = append(cells, toCellData(cell))
		}
		data = append(data, &sheets.RowData{Values: cells})
	}
	return data
}

func toCellData(cell PublishedCell) *sheets.CellData {
	value := cell.Value
	format := &sheets.CellFormat{
		TextFormat: &sheets.TextFormat{Bold: cell.Bold},
	}
	if bg, ok := colors.Opaque(cell.Background); ok {
		format.BackgroundColor = &sheets.Color{Red: bg.R, Green: bg.G, Blue: bg.B}
	}
	if fg, ok := colors.Opaque(cell.TextColor); ok {
		format.TextFormat.ForegroundColor = &sheets.Color{Red: fg.R, Green: fg.G, Blue: fg.B}
	}
	return &sheets.CellData{
		UserEnteredValue:  &sheets.ExtendedValue{StringValue: &value},
		UserEnteredFormat: format,
	}
}
