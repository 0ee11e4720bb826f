package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jakechorley/rostergrid/pkg/core/grid"
	"github.com/jakechorley/rostergrid/pkg/core/holidays"
	"github.com/jakechorley/rostergrid/pkg/core/model"
)

func newYearCalendar(t *testing.T) *holidays.Calendar {
	t.Helper()
	cal, err := holidays.NewCalendar([]holidays.Rule{
		{Name: "New Year's Day", RRule: "FREQ=YEARLY;BYMONTH=1;BYMONTHDAY=1"},
	})
	require.NoError(t, err)
	return cal
}

func TestFetchTable(t *testing.T) {
	table, err := FetchTable(context.Background(), fixtureStore(), newYearCalendar(t), zap.NewNop(), fixtureWindow, fixtureNow)
	require.NoError(t, err)

	require.Len(t, table.People, 2)
	assert.Equal(t, model.Person{ID: 1, Username: "alice", Year: 2}, table.People[0])
	assert.Equal(t, model.Person{ID: 2, Username: "bob", Year: 1}, table.People[1])

	require.Len(t, table.Rows, 7)
	assert.Equal(t, "New Year's Day", table.Rows[0].Holiday)
	assert.Empty(t, table.Rows[1].Holiday)

	assert.Equal(t, model.ShiftRef(1), table.Rows[1].Cells[1], "first shift wins and shift wins over leave")
	assert.Equal(t, model.LeaveRef(3), table.Rows[2].Cells[1])
	assert.Equal(t, model.LeaveRef(2), table.Rows[2].Cells[2])
	assert.Equal(t, model.LeaveRef(4), table.Rows[3].Cells[1])
	assert.Equal(t, model.ShiftRef(4), table.Rows[4].Cells[2])
	assert.Empty(t, table.Rows[6].Cells)

	assert.Len(t, table.Shifts, 4)
	assert.Equal(t, "Long day", table.Shifts[1].Type)
	assert.True(t, table.Shifts[4].ExtraDuty)

	assert.True(t, table.Leaves[2].Approved)
	assert.False(t, table.Leaves[2].Pending)
	assert.Equal(t, model.PortionAM, table.Leaves[2].Portion)
	assert.True(t, table.Leaves[3].Pending)
	assert.Equal(t, "Education", table.Leaves[3].Type)
	assert.False(t, table.Leaves[4].Pending)

	require.Len(t, table.Statuses, 1)
	assert.Equal(t, "Reliever", table.Statuses[0].Type)
}

func TestFetchTable_WithoutHolidays(t *testing.T) {
	table, err := FetchTable(context.Background(), fixtureStore(), nil, zap.NewNop(), fixtureWindow, fixtureNow)
	require.NoError(t, err)

	for _, row := range table.Rows {
		assert.Empty(t, row.Holiday)
	}
}

func TestFetchTable_StoreErrors(t *testing.T) {
	boom := errors.New("connection reset")

	tests := []struct {
		name    string
		mutate  func(*mockRosterStore)
		wantErr string
	}{
		{"registrars", func(m *mockRosterStore) { m.getRegistrarsErr = boom }, "failed to fetch registrars"},
		{"shifts", func(m *mockRosterStore) { m.getShiftsErr = boom }, "failed to fetch shifts"},
		{"leaves", func(m *mockRosterStore) { m.getLeavesErr = boom }, "failed to fetch leaves"},
		{"statuses", func(m *mockRosterStore) { m.getStatusesErr = boom }, "failed to fetch statuses"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := fixtureStore()
			tt.mutate(store)

			table, err := FetchTable(context.Background(), store, nil, zap.NewNop(), fixtureWindow, fixtureNow)

			assert.Nil(t, table)
			require.Error(t, err)
			assert.ErrorIs(t, err, boom)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestFetchTable_InvalidRecord(t *testing.T) {
	store := fixtureStore()
	store.leaves[0].Portion = "EVENING"

	_, err := FetchTable(context.Background(), store, nil, zap.NewNop(), fixtureWindow, fixtureNow)

	assert.ErrorIs(t, err, model.ErrInvalidPortion)
}

func TestViewTable_Footer(t *testing.T) {
	result, err := ViewTable(context.Background(), fixtureStore(), nil, zap.NewNop(), fixtureWindow, fixtureNow)
	require.NoError(t, err)

	assert.Equal(t, map[string]grid.LeaveSummary{
		"2024-01-03": {Total: 2, Approved: 1, Pending: 1},
		"2024-01-04": {},
	}, result.Grid.Footer)
	assert.Equal(t, result.Table.ID.String(), result.Grid.SnapshotID)
}
