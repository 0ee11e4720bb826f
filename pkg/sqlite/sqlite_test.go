package sqlite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jakechorley/rostergrid/pkg/core/model"
	"github.com/jakechorley/rostergrid/pkg/db"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()
	ctx := context.Background()

	d, err := NewDB(ctx, ":memory:")
	require.NoError(t, err)
	t.Cleanup(d.Close)

	applied, err := d.RunMigrations(ctx)
	require.NoError(t, err)
	require.Equal(t, []string{"001_roster.sql"}, applied)
	return d
}

func TestRunMigrations_Idempotent(t *testing.T) {
	d := newTestDB(t)

	applied, err := d.RunMigrations(context.Background())
	require.NoError(t, err)
	assert.Empty(t, applied)
}

func TestRosterRoundTrip(t *testing.T) {
	ctx := context.Background()
	d := newTestDB(t)

	alice := db.Registrar{Username: "alice", Start: "2022-08-03"}
	bob := db.Registrar{Username: "bob", Senior: true, Start: "2020-08-05", Finish: "2025-08-01"}
	require.NoError(t, d.InsertRegistrar(ctx, &alice))
	require.NoError(t, d.InsertRegistrar(ctx, &bob))
	assert.NotZero(t, alice.ID)

	inside := db.Shift{RegistrarID: alice.ID, Date: "2024-01-02", Type: "LONG", ExtraDuty: true}
	outside := db.Shift{RegistrarID: alice.ID, Date: "2024-02-02", Type: "NIGHT"}
	require.NoError(t, d.InsertShift(ctx, &inside))
	require.NoError(t, d.InsertShift(ctx, &outside))

	yes, no := true, false
	approved := db.Leave{RegistrarID: bob.ID, Date: "2024-01-03", Type: "ANNUAL", RegApproved: &yes, DotApproved: &yes}
	undecided := db.Leave{RegistrarID: alice.ID, Date: "2024-01-04", Type: "EDU", Portion: "PM", DotApproved: &no}
	require.NoError(t, d.InsertLeave(ctx, &approved))
	require.NoError(t, d.InsertLeave(ctx, &undecided))

	overlapping := db.Status{RegistrarID: alice.ID, Start: "2023-12-01", End: "2024-01-01", Type: "RELIEVER", Weekdays: []int{0, 4}}
	later := db.Status{RegistrarID: alice.ID, Start: "2024-03-01", End: "2024-03-31", Type: "NA"}
	require.NoError(t, d.InsertStatus(ctx, &overlapping))
	require.NoError(t, d.InsertStatus(ctx, &later))

	window := model.Window{Start: model.MustDate("2024-01-01"), End: model.MustDate("2024-01-31")}

	registrars, err := d.GetRegistrars(ctx)
	require.NoError(t, err)
	assert.Equal(t, []db.Registrar{alice, bob}, registrars)

	shifts, err := d.GetShifts(ctx, window)
	require.NoError(t, err)
	assert.Equal(t, []db.Shift{inside}, shifts)

	leaves, err := d.GetLeaves(ctx, window)
	require.NoError(t, err)
	require.Len(t, leaves, 2)
	assert.Equal(t, "ALL", leaves[0].Portion)
	require.NotNil(t, leaves[0].RegApproved)
	assert.True(t, *leaves[0].RegApproved)
	assert.Nil(t, leaves[1].RegApproved)
	require.NotNil(t, leaves[1].DotApproved)
	assert.False(t, *leaves[1].DotApproved)
	assert.Equal(t, "PM", leaves[1].Portion)

	statuses, err := d.GetStatuses(ctx, window)
	require.NoError(t, err)
	require.Len(t, statuses, 1)
	assert.Equal(t, []int{0, 4}, statuses[0].Weekdays)
	assert.Equal(t, "RELIEVER", statuses[0].Type)
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	d := newTestDB(t)

	r := db.Registrar{Username: "alice", Start: "2022-08-03"}
	require.NoError(t, d.InsertRegistrar(ctx, &r))
	s := db.Shift{RegistrarID: r.ID, Date: "2024-01-02", Type: "LONG"}
	require.NoError(t, d.InsertShift(ctx, &s))
	l := db.Leave{RegistrarID: r.ID, Date: "2024-01-03", Type: "ANNUAL"}
	require.NoError(t, d.InsertLeave(ctx, &l))

	require.NoError(t, d.DeleteShift(ctx, s.ID))
	require.NoError(t, d.DeleteLeave(ctx, l.ID))

	assert.ErrorIs(t, d.DeleteShift(ctx, s.ID), db.ErrNotFound)
	assert.ErrorIs(t, d.DeleteLeave(ctx, l.ID), db.ErrNotFound)

	window := model.Window{Start: model.MustDate("2024-01-01"), End: model.MustDate("2024-01-31")}
	shifts, err := d.GetShifts(ctx, window)
	require.NoError(t, err)
	assert.Empty(t, shifts)
}

func TestWeekdayEncoding(t *testing.T) {
	assert.Equal(t, "", encodeWeekdays(nil))
	assert.Equal(t, "0,2,6", encodeWeekdays([]int{0, 2, 6}))

	decoded, err := decodeWeekdays("0, 2,6")
	require.NoError(t, err)
	assert.Equal(t, []int{0, 2, 6}, decoded)

	_, err = decodeWeekdays("mon")
	assert.Error(t, err)
}
