package services

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/jakechorley/rostergrid/pkg/clients/sheetsclient"
	"github.com/jakechorley/rostergrid/pkg/core/grid"
	"github.com/jakechorley/rostergrid/pkg/core/holidays"
	"github.com/jakechorley/rostergrid/pkg/core/model"
	"github.com/jakechorley/rostergrid/pkg/db"
)

// TablePublisher writes a styled table to a spreadsheet
type TablePublisher interface {
	PublishTable(spreadsheetID string, table *sheetsclient.PublishedTable) error
}

const headerBackground = "#d9d9d9"

// BuildPublishedTable lays the rendered grid out as spreadsheet rows: a column
// group row, a header row, one row per date, and the leave footer as three
// trailing columns
func BuildPublishedTable(rendered *grid.RenderedGrid, title string) *sheetsclient.PublishedTable {
	header := func(v string) sheetsclient.PublishedCell {
		return sheetsclient.PublishedCell{Value: v, Background: headerBackground, Bold: true}
	}

	groupRow := []sheetsclient.PublishedCell{header("")}
	for _, group := range rendered.Groups {
		groupRow = append(groupRow, header(group.Title))
		for i := 1; i < len(group.People); i++ {
			groupRow = append(groupRow, header(""))
		}
	}
	groupRow = append(groupRow, header(""), header(""), header(""))

	headerRow := []sheetsclient.PublishedCell{header("Date")}
	for _, person := range rendered.Columns {
		headerRow = append(headerRow, header(person.Username))
	}
	headerRow = append(headerRow, header("Leave"), header("Approved"), header("Pending"))

	rows := [][]sheetsclient.PublishedCell{groupRow, headerRow}
	for _, row := range rendered.Rows {
		dateCell := sheetsclient.PublishedCell{Value: grid.StripMarkup(row.DateLabel)}
		if row.Holiday != "" {
			dateCell.Value += " " + row.Holiday
		}
		if row.Weekend {
			dateCell.Background = headerBackground
		}

		out := []sheetsclient.PublishedCell{dateCell}
		for _, c := range row.Cells {
			out = append(out, sheetsclient.PublishedCell{
				Value:      c.Cell.Label,
				Background: c.Cell.Background,
				TextColor:  c.Cell.TextColor,
				Bold:       c.Cell.FontWeight == grid.FontBold,
			})
		}

		summary := rendered.Footer[model.FormatDate(row.Date)]
		out = append(out,
			sheetsclient.PublishedCell{Value: countValue(summary.Total)},
			sheetsclient.PublishedCell{Value: countValue(summary.Approved)},
			sheetsclient.PublishedCell{Value: countValue(summary.Pending)},
		)
		rows = append(rows, out)
	}

	return &sheetsclient.PublishedTable{Title: title, Rows: rows}
}

func countValue(n int) string {
	if n == 0 {
		return ""
	}
	return strconv.Itoa(n)
}

// PublishTable renders the window and writes it to a tab of the spreadsheet
func PublishTable(
	ctx context.Context,
	store db.RosterReader,
	publisher TablePublisher,
	holidayCal *holidays.Calendar,
	logger *zap.Logger,
	spreadsheetID string,
	window model.Window,
	now time.Time,
) (*sheetsclient.PublishedTable, error) {
	if spreadsheetID == "" {
		return nil, fmt.Errorf("no spreadsheet configured for publishing")
	}

	result, err := ViewTable(ctx, store, holidayCal, logger, window, now)
	if err != nil {
		return nil, err
	}

	title := fmt.Sprintf("Roster %s to %s", model.FormatDate(window.Start), model.FormatDate(window.End))
	published := BuildPublishedTable(result.Grid, title)

	logger.Debug("Publishing table", zap.String("tab", title), zap.Int("rows", len(published.Rows)))
	if err := publisher.PublishTable(spreadsheetID, published); err != nil {
		return nil, fmt.Errorf("failed to publish table: %w", err)
	}

	logger.Info("Published table", zap.String("spreadsheet_id", spreadsheetID), zap.String("tab", title))
	return published, nil
}
