package services

import (
	"context"
	"sync"

	"github.com/jakechorley/rostergrid/pkg/core/model"
	"github.com/jakechorley/rostergrid/pkg/db"
)

// mockRosterStore implements db.RosterStore. Reads ignore the window so tests
// can check what happens to records outside it.
type mockRosterStore struct {
	mu sync.Mutex

	registrars []db.Registrar
	shifts     []db.Shift
	leaves     []db.Leave
	statuses   []db.Status

	getRegistrarsErr error
	getShiftsErr     error
	getLeavesErr     error
	getStatusesErr   error
	deleteErr        error

	deletedShifts []int64
	deletedLeaves []int64
	nextID        int64
}

func (m *mockRosterStore) GetRegistrars(ctx context.Context) ([]db.Registrar, error) {
	if m.getRegistrarsErr != nil {
		return nil, m.getRegistrarsErr
	}
	return m.registrars, nil
}

func (m *mockRosterStore) GetShifts(ctx context.Context, window model.Window) ([]db.Shift, error) {
	if m.getShiftsErr != nil {
		return nil, m.getShiftsErr
	}
	return m.shifts, nil
}

func (m *mockRosterStore) GetLeaves(ctx context.Context, window model.Window) ([]db.Leave, error) {
	if m.getLeavesErr != nil {
		return nil, m.getLeavesErr
	}
	return m.leaves, nil
}

func (m *mockRosterStore) GetStatuses(ctx context.Context, window model.Window) ([]db.Status, error) {
	if m.getStatusesErr != nil {
		return nil, m.getStatusesErr
	}
	return m.statuses, nil
}

func (m *mockRosterStore) id() int64 {
	m.nextID++
	return m.nextID
}

func (m *mockRosterStore) InsertRegistrar(ctx context.Context, registrar *db.Registrar) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	registrar.ID = m.id()
	m.registrars = append(m.registrars, *registrar)
	return nil
}

func (m *mockRosterStore) InsertShift(ctx context.Context, shift *db.Shift) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	shift.ID = m.id()
	m.shifts = append(m.shifts, *shift)
	return nil
}

func (m *mockRosterStore) InsertLeave(ctx context.Context, leave *db.Leave) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	leave.ID = m.id()
	m.leaves = append(m.leaves, *leave)
	return nil
}

func (m *mockRosterStore) InsertStatus(ctx context.Context, status *db.Status) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	status.ID = m.id()
	m.statuses = append(m.statuses, *status)
	return nil
}

func (m *mockRosterStore) DeleteShift(ctx context.Context, id int64) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	m.deletedShifts = append(m.deletedShifts, id)
	return nil
}

func (m *mockRosterStore) DeleteLeave(ctx context.Context, id int64) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	m.deletedLeaves = append(m.deletedLeaves, id)
	return nil
}

func boolPtr(b bool) *bool { return &b }

// fixtureStore is one week in January 2024 with two active registrars and one
// who finished before the window
func fixtureStore() *mockRosterStore {
	return &mockRosterStore{
		registrars: []db.Registrar{
			{ID: 1, Username: "alice", Start: "2022-08-01"},
			{ID: 2, Username: "bob", Start: "2023-08-01"},
			{ID: 3, Username: "olga", Start: "2018-08-01", Finish: "2023-08-01"},
		},
		shifts: []db.Shift{
			{ID: 1, RegistrarID: 1, Date: "2024-01-02", Type: "LONG"},
			{ID: 2, RegistrarID: 1, Date: "2024-01-02", Type: "NIGHT"},
			{ID: 3, RegistrarID: 2, Date: "2024-02-01", Type: "LONG"},
			{ID: 4, RegistrarID: 2, Date: "2024-01-05", Type: "NIGHT", ExtraDuty: true},
		},
		leaves: []db.Leave{
			{ID: 1, RegistrarID: 1, Date: "2024-01-02", Type: "ANNUAL", Portion: "ALL"},
			{ID: 2, RegistrarID: 2, Date: "2024-01-03", Type: "ANNUAL", Portion: "AM", RegApproved: boolPtr(true), DotApproved: boolPtr(true)},
			{ID: 3, RegistrarID: 1, Date: "2024-01-03", Type: "EDU", Portion: "ALL"},
			{ID: 4, RegistrarID: 1, Date: "2024-01-04", Type: "ANNUAL", Portion: "ALL", Cancelled: true},
		},
		statuses: []db.Status{
			{ID: 1, RegistrarID: 2, Start: "2024-01-01", End: "2024-01-07", Type: "RELIEVER", Weekdays: []int{0}},
		},
	}
}

var (
	fixtureWindow = model.Window{Start: model.MustDate("2024-01-01"), End: model.MustDate("2024-01-07")}
	fixtureNow    = model.MustDate("2024-01-03")
)
