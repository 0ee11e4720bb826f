package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jakechorley/rostergrid/pkg/core/calendar"
)

func TestCalendarEvents(t *testing.T) {
	events, err := CalendarEvents(context.Background(), fixtureStore(), newYearCalendar(t), zap.NewNop(), fixtureWindow, fixtureNow)
	require.NoError(t, err)

	var ids []string
	for _, e := range events {
		ids = append(ids, e.ID)
	}

	// cancelled leave 4 is dropped; the mock store ignores the window so shift 3 (February) sorts last
	assert.Equal(t, []string{
		"holiday_2024-01-01",
		"leave_1", // Annual: alice (TBC)
		"shift_1", // Long day: alice
		"shift_2", // Night: alice
		"leave_2", // Annual (AM): bob
		"leave_3", // Education: alice (TBC)
		"shift_4",
		"shift_3",
	}, ids)

	assert.Equal(t, calendar.CategoryHoliday, events[0].Category)
	assert.Equal(t, "Annual (AM): bob", events[4].Title)
	assert.Equal(t, calendar.ColorLeaveApproved, events[4].BackgroundColor)
}

func TestCalendarEvents_StoreError(t *testing.T) {
	boom := errors.New("closed")
	store := fixtureStore()
	store.getLeavesErr = boom

	_, err := CalendarEvents(context.Background(), store, nil, zap.NewNop(), fixtureWindow, fixtureNow)

	assert.ErrorIs(t, err, boom)
}

func TestICalFeedService(t *testing.T) {
	cal, err := ICalFeed(context.Background(), fixtureStore(), zap.NewNop(), fixtureWindow, fixtureNow)
	require.NoError(t, err)

	// four shifts plus three non-cancelled leaves
	assert.Len(t, cal.Events(), 7)
}
