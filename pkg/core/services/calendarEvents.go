package services

import (
	"context"
	"fmt"
	"time"

	ics "github.com/arran4/golang-ical"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/jakechorley/rostergrid/pkg/core/calendar"
	"github.com/jakechorley/rostergrid/pkg/core/holidays"
	"github.com/jakechorley/rostergrid/pkg/core/model"
	"github.com/jakechorley/rostergrid/pkg/db"
)

func fetchPeople(ctx context.Context, store db.RosterReader, now time.Time) (map[int64]model.Person, error) {
	registrars, err := store.GetRegistrars(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch registrars: %w", err)
	}
	people := make(map[int64]model.Person, len(registrars))
	for _, r := range registrars {
		p, err := toPerson(r, now)
		if err != nil {
			return nil, err
		}
		people[p.ID] = p
	}
	return people, nil
}

// CalendarEvents fetches the shift, leave and holiday feeds concurrently and
// merges them into one ordered event stream
func CalendarEvents(
	ctx context.Context,
	store db.RosterReader,
	holidayCal *holidays.Calendar,
	logger *zap.Logger,
	window model.Window,
	now time.Time,
) ([]calendar.Event, error) {
	logger.Debug("Fetching calendar feeds",
		zap.String("start", model.FormatDate(window.Start)),
		zap.String("end", model.FormatDate(window.End)))

	people, err := fetchPeople(ctx, store, now)
	if err != nil {
		return nil, err
	}

	var shiftFeed, leaveFeed, holidayFeed []calendar.Event
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		rows, err := store.GetShifts(gctx, window)
		if err != nil {
			return fmt.Errorf("failed to fetch shifts: %w", err)
		}
		shifts := make([]model.ShiftRecord, 0, len(rows))
		for _, row := range rows {
			s, err := toShift(row)
			if err != nil {
				return err
			}
			shifts = append(shifts, s)
		}
		shiftFeed = calendar.ShiftEvents(shifts, people)
		return nil
	})
	g.Go(func() error {
		rows, err := store.GetLeaves(gctx, window)
		if err != nil {
			return fmt.Errorf("failed to fetch leaves: %w", err)
		}
		leaves := make([]model.LeaveRecord, 0, len(rows))
		for _, row := range rows {
			l, err := toLeave(row)
			if err != nil {
				return err
			}
			leaves = append(leaves, l)
		}
		leaveFeed = calendar.LeaveEvents(leaves, people)
		return nil
	})
	g.Go(func() error {
		if holidayCal == nil {
			return nil
		}
		holidayFeed = calendar.HolidayEvents(holidayCal.Between(window))
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	events := calendar.Merge(shiftFeed, leaveFeed, holidayFeed)
	logger.Info("Fetched calendar events",
		zap.Int("shifts", len(shiftFeed)),
		zap.Int("leaves", len(leaveFeed)),
		zap.Int("holidays", len(holidayFeed)))
	return events, nil
}

// ICalFeed builds an iCalendar feed of the shifts and leaves in the window
func ICalFeed(
	ctx context.Context,
	store db.RosterReader,
	logger *zap.Logger,
	window model.Window,
	now time.Time,
) (*ics.Calendar, error) {
	people, err := fetchPeople(ctx, store, now)
	if err != nil {
		return nil, err
	}

	shiftRows, err := store.GetShifts(ctx, window)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch shifts: %w", err)
	}
	leaveRows, err := store.GetLeaves(ctx, window)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch leaves: %w", err)
	}

	shifts := make([]model.ShiftRecord, 0, len(shiftRows))
	for _, row := range shiftRows {
		s, err := toShift(row)
		if err != nil {
			return nil, err
		}
		shifts = append(shifts, s)
	}
	leaves := make([]model.LeaveRecord, 0, len(leaveRows))
	for _, row := range leaveRows {
		l, err := toLeave(row)
		if err != nil {
			return nil, err
		}
		leaves = append(leaves, l)
	}

	logger.Debug("Building ical feed", zap.Int("shifts", len(shifts)), zap.Int("leaves", len(leaves)))
	return calendar.ICalFeed(shifts, leaves, people, now), nil
}
