package services

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/jakechorley/rostergrid/pkg/core/grid"
	"github.com/jakechorley/rostergrid/pkg/core/holidays"
	"github.com/jakechorley/rostergrid/pkg/core/model"
	"github.com/jakechorley/rostergrid/pkg/db"
)

// ViewTableResult holds a snapshot and its rendered projection
type ViewTableResult struct {
	Table *model.Table
	Grid  *grid.RenderedGrid
}

// ViewTable fetches a snapshot for the window and renders it
func ViewTable(
	ctx context.Context,
	store db.RosterReader,
	holidayCal *holidays.Calendar,
	logger *zap.Logger,
	window model.Window,
	now time.Time,
) (*ViewTableResult, error) {
	table, err := FetchTable(ctx, store, holidayCal, logger, window, now)
	if err != nil {
		return nil, err
	}

	rendered := RenderTable(table, logger, now)
	return &ViewTableResult{Table: table, Grid: rendered}, nil
}

// RenderTable renders a snapshot, logging any references the snapshot could not resolve
func RenderTable(table *model.Table, logger *zap.Logger, now time.Time) *grid.RenderedGrid {
	rendered := grid.Render(table, now)

	dangling := 0
	for _, row := range rendered.Rows {
		for _, c := range row.Cells {
			if c.Cell.Dangling {
				dangling++
				logger.Debug("Cell references a missing record",
					zap.String("cell", c.ID),
					zap.String("ref", c.Ref.String()))
			}
		}
	}
	if dangling > 0 {
		logger.Warn("Rendered grid with dangling references", zap.Int("count", dangling))
	}

	logger.Debug("Rendered table",
		zap.String("snapshot_id", rendered.SnapshotID),
		zap.Int("columns", len(rendered.Columns)),
		zap.Int("footer_dates", len(rendered.Footer)))
	return rendered
}
