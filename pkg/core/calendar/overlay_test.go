package calendar

import (
	"bytes"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jakechorley/rostergrid/pkg/core/grid"
	"github.com/jakechorley/rostergrid/pkg/core/highlight"
	"github.com/jakechorley/rostergrid/pkg/core/holidays"
	"github.com/jakechorley/rostergrid/pkg/core/model"
)

var people = map[int64]model.Person{
	1: {ID: 1, Username: "alice", Year: 2},
	2: {ID: 2, Username: "bob", Year: 1},
}

func TestMerge_ShiftBeforeHolidaySameDay(t *testing.T) {
	day := model.MustDate("2024-12-25")
	shifts := ShiftEvents([]model.ShiftRecord{{ID: 1, PersonID: 1, Date: day, Type: "Long day"}}, people)
	hols := HolidayEvents([]holidays.Holiday{{Date: day, Name: "Christmas Day"}})

	merged := Merge(hols, shifts)

	require.Len(t, merged, 2)
	assert.Equal(t, CategoryShift, merged[0].Category)
	assert.Equal(t, CategoryHoliday, merged[1].Category)
}

func TestMerge_Ordering(t *testing.T) {
	d1 := model.MustDate("2024-01-01")
	d2 := model.MustDate("2024-01-02")

	shifts := ShiftEvents([]model.ShiftRecord{
		{ID: 1, PersonID: 2, Date: d1, Type: "Night"},
		{ID: 2, PersonID: 1, Date: d1, Type: "Long day"},
		{ID: 3, PersonID: 1, Date: d2, Type: "Night"},
	}, people)
	leaves := LeaveEvents([]model.LeaveRecord{
		{ID: 1, PersonID: 2, Date: d2, Type: "Annual", Portion: model.PortionAll, Approved: true},
	}, people)
	hols := HolidayEvents([]holidays.Holiday{{Date: d1, Name: "New Year's Day"}})

	merged := Merge(shifts, leaves, hols)

	var ids []string
	for _, e := range merged {
		ids = append(ids, e.ID)
	}
	assert.Equal(t, []string{"shift_2", "shift_1", "holiday_2024-01-01", "leave_1", "shift_3"}, ids)
}

func TestShiftEvents_Colors(t *testing.T) {
	day := model.MustDate("2024-01-01")
	events := ShiftEvents([]model.ShiftRecord{
		{ID: 1, PersonID: 1, Date: day, Type: "Long day"},
		{ID: 2, PersonID: 1, Date: day, Type: "Night"},
		{ID: 3, PersonID: 1, Date: day, Type: "Ward", ExtraDuty: true},
		{ID: 4, PersonID: 99, Date: day, Type: "Ward"},
	}, people)

	require.Len(t, events, 3)
	assert.Equal(t, grid.ColorShiftLong, events[0].BackgroundColor)
	assert.Equal(t, "Long day: alice", events[0].Title)
	assert.Equal(t, grid.ColorShiftNight, events[1].BackgroundColor)
	assert.Equal(t, grid.TextNight, events[1].TextColor)
	assert.Equal(t, ColorShiftEvent, events[2].BackgroundColor)
	assert.Equal(t, "Ward: alice (extra)", events[2].Title)
	for _, e := range events {
		assert.True(t, e.AllDay)
		assert.Equal(t, CategoryShift, e.Category)
	}
}

func TestLeaveEvents(t *testing.T) {
	day := model.MustDate("2024-01-01")
	events := LeaveEvents([]model.LeaveRecord{
		{ID: 1, PersonID: 1, Date: day, Type: "Annual", Portion: model.PortionAll, Approved: true},
		{ID: 2, PersonID: 2, Date: day, Type: "STUDY", Portion: model.PortionPM, Pending: true},
		{ID: 3, PersonID: 2, Date: day, Type: "Annual", Portion: model.PortionAll, Cancelled: true},
	}, people)

	require.Len(t, events, 2)
	assert.Equal(t, "Annual: alice", events[0].Title)
	assert.Equal(t, ColorLeaveApproved, events[0].BackgroundColor)
	assert.Equal(t, grid.TextDefault, events[0].TextColor)

	assert.Equal(t, "Study (PM): bob (TBC)", events[1].Title)
	assert.Equal(t, ColorLeavePending, events[1].BackgroundColor)
	assert.Equal(t, grid.TextNight, events[1].TextColor)
}

func TestLeaveTitle_NonASCIIType(t *testing.T) {
	tests := []struct {
		leaveType string
		want      string
	}{
		{"ÉTUDE", "Étude: bob (TBC)"},
		{"ñ", "Ñ: bob (TBC)"},
		{"über", "Über: bob (TBC)"},
		{"", ": bob (TBC)"},
	}

	for _, tt := range tests {
		t.Run(tt.leaveType, func(t *testing.T) {
			got := LeaveTitle(model.LeaveRecord{Type: tt.leaveType, Portion: model.PortionAll}, "bob")
			assert.True(t, utf8.ValidString(got), got)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestHighlightItems_ExcludesHolidays(t *testing.T) {
	day := model.MustDate("2024-12-25")
	events := Merge(
		ShiftEvents([]model.ShiftRecord{
			{ID: 1, PersonID: 1, Date: day, Type: "Long day"},
			{ID: 2, PersonID: 1, Date: day.AddDate(0, 0, 1), Type: "Long day"},
		}, people),
		HolidayEvents([]holidays.Holiday{{Date: day, Name: "Long day"}}),
	)

	coord := highlight.NewCoordinator()
	coord.Mount(HighlightItems(events))

	painted, err := coord.Enter("shift_1")
	require.NoError(t, err)
	assert.Equal(t, []string{"shift_1", "shift_2"}, painted)

	painted, err = coord.Enter("holiday_2024-12-25")
	require.NoError(t, err)
	assert.Empty(t, painted)
}

func TestICalFeed(t *testing.T) {
	day := model.MustDate("2024-01-01")
	cal := ICalFeed(
		[]model.ShiftRecord{{ID: 7, PersonID: 1, Date: day, Type: "Night", ExtraDuty: true}},
		[]model.LeaveRecord{
			{ID: 8, PersonID: 2, Date: day, Type: "Annual", Portion: model.PortionAM},
			{ID: 9, PersonID: 2, Date: day, Type: "Annual", Cancelled: true},
		},
		people,
		time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC),
	)

	var buf bytes.Buffer
	require.NoError(t, WriteICal(&buf, cal))
	out := buf.String()

	assert.True(t, strings.HasPrefix(out, "BEGIN:VCALENDAR"))
	assert.Contains(t, out, "UID:shift_7")
	assert.Contains(t, out, "SUMMARY:Night: alice (extra)")
	assert.Contains(t, out, "UID:leave_8")
	assert.Contains(t, out, "SUMMARY:bob: Annual (AM)")
	assert.NotContains(t, out, "leave_9")
	assert.Len(t, cal.Events(), 2)
}
