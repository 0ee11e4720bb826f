package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/jakechorley/rostergrid/pkg/core/holidays"
	"github.com/jakechorley/rostergrid/pkg/core/model"
	"github.com/jakechorley/rostergrid/pkg/db"
)

// rosterRecords is the raw result of the four snapshot queries
type rosterRecords struct {
	registrars []db.Registrar
	shifts     []db.Shift
	leaves     []db.Leave
	statuses   []db.Status
}

func fetchRecords(ctx context.Context, store db.RosterReader, window model.Window) (*rosterRecords, error) {
	var rec rosterRecords
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		registrars, err := store.GetRegistrars(gctx)
		if err != nil {
			return fmt.Errorf("failed to fetch registrars: %w", err)
		}
		rec.registrars = registrars
		return nil
	})
	g.Go(func() error {
		shifts, err := store.GetShifts(gctx, window)
		if err != nil {
			return fmt.Errorf("failed to fetch shifts: %w", err)
		}
		rec.shifts = shifts
		return nil
	})
	g.Go(func() error {
		leaves, err := store.GetLeaves(gctx, window)
		if err != nil {
			return fmt.Errorf("failed to fetch leaves: %w", err)
		}
		rec.leaves = leaves
		return nil
	})
	g.Go(func() error {
		statuses, err := store.GetStatuses(gctx, window)
		if err != nil {
			return fmt.Errorf("failed to fetch statuses: %w", err)
		}
		rec.statuses = statuses
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &rec, nil
}

// FetchTable builds one immutable table snapshot for the window. Grid, lookup
// maps and statuses all come from the same fetch.
func FetchTable(
	ctx context.Context,
	store db.RosterReader,
	holidayCal *holidays.Calendar,
	logger *zap.Logger,
	window model.Window,
	now time.Time,
) (*model.Table, error) {
	logger.Debug("Fetching table snapshot",
		zap.String("start", model.FormatDate(window.Start)),
		zap.String("end", model.FormatDate(window.End)))

	rec, err := fetchRecords(ctx, store, window)
	if err != nil {
		return nil, err
	}

	table := &model.Table{
		ID:     uuid.New(),
		Window: window,
		Shifts: make(map[int64]model.ShiftRecord, len(rec.shifts)),
		Leaves: make(map[int64]model.LeaveRecord, len(rec.leaves)),
	}

	for _, r := range rec.registrars {
		if !activeIn(r, window) {
			continue
		}
		person, err := toPerson(r, now)
		if err != nil {
			return nil, err
		}
		table.People = append(table.People, person)
	}

	for _, s := range rec.statuses {
		status, err := toStatus(s)
		if err != nil {
			return nil, err
		}
		table.Statuses = append(table.Statuses, status)
	}

	rows := make(map[string]*model.Row)
	var holidayNames map[string]string
	if holidayCal != nil {
		holidayNames = holidays.ByDate(holidayCal.Between(window))
	}
	for _, date := range window.Dates() {
		key := model.FormatDate(date)
		table.Rows = append(table.Rows, model.Row{
			Date:    date,
			Holiday: holidayNames[key],
			Cells:   make(map[int64]model.CellRef),
		})
	}
	for i := range table.Rows {
		rows[model.FormatDate(table.Rows[i].Date)] = &table.Rows[i]
	}

	for _, s := range rec.shifts {
		shift, err := toShift(s)
		if err != nil {
			return nil, err
		}
		table.Shifts[shift.ID] = shift
		row, ok := rows[model.FormatDate(shift.Date)]
		if !ok {
			continue
		}
		if existing, taken := row.Cells[shift.PersonID]; taken {
			logger.Warn("Two shifts on one cell, keeping the first",
				zap.String("date", model.FormatDate(shift.Date)),
				zap.Int64("person_id", shift.PersonID),
				zap.String("kept", existing.String()),
				zap.Int64("dropped_shift_id", shift.ID))
			continue
		}
		row.Cells[shift.PersonID] = model.ShiftRef(shift.ID)
	}

	for _, l := range rec.leaves {
		leave, err := toLeave(l)
		if err != nil {
			return nil, err
		}
		table.Leaves[leave.ID] = leave
		row, ok := rows[model.FormatDate(leave.Date)]
		if !ok {
			continue
		}
		if existing, taken := row.Cells[leave.PersonID]; taken {
			logger.Warn("Leave overlaps an assigned cell, keeping the existing reference",
				zap.String("date", model.FormatDate(leave.Date)),
				zap.Int64("person_id", leave.PersonID),
				zap.String("kept", existing.String()),
				zap.Int64("dropped_leave_id", leave.ID))
			continue
		}
		row.Cells[leave.PersonID] = model.LeaveRef(leave.ID)
	}

	logger.Info("Fetched table snapshot",
		zap.String("snapshot_id", table.ID.String()),
		zap.Int("people", len(table.People)),
		zap.Int("shifts", len(table.Shifts)),
		zap.Int("leaves", len(table.Leaves)),
		zap.Int("statuses", len(table.Statuses)),
		zap.Int("rows", len(table.Rows)))

	return table, nil
}
