package postgres

import (
	"context"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jakechorley/rostergrid/pkg/core/model"
	"github.com/jakechorley/rostergrid/pkg/db"
)

// Runs against a real database when ROSTERGRID_TEST_DATABASE_URL is set
func newTestDB(t *testing.T) *DB {
	t.Helper()
	url := os.Getenv("ROSTERGRID_TEST_DATABASE_URL")
	if url == "" {
		t.Skip("ROSTERGRID_TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	d, err := NewDB(ctx, url)
	require.NoError(t, err)
	t.Cleanup(d.Close)

	_, err = d.RunMigrations(ctx)
	require.NoError(t, err)
	return d
}

func TestRosterRoundTrip(t *testing.T) {
	ctx := context.Background()
	d := newTestDB(t)

	r := db.Registrar{Username: "test-" + uuid.NewString(), Start: "2022-08-03"}
	require.NoError(t, d.InsertRegistrar(ctx, &r))

	s := db.Shift{RegistrarID: r.ID, Date: "2031-01-02", Type: "LONG", ExtraDuty: true}
	require.NoError(t, d.InsertShift(ctx, &s))

	yes := true
	l := db.Leave{RegistrarID: r.ID, Date: "2031-01-03", Type: "ANNUAL", Portion: "AM", RegApproved: &yes}
	require.NoError(t, d.InsertLeave(ctx, &l))

	st := db.Status{RegistrarID: r.ID, Start: "2030-12-01", End: "2031-01-01", Type: "RELIEVER", Weekdays: []int{1, 3}}
	require.NoError(t, d.InsertStatus(ctx, &st))

	t.Cleanup(func() {
		_, _ = d.pool.Exec(context.Background(), `DELETE FROM registrar WHERE id = $1`, r.ID)
	})

	window := model.Window{Start: model.MustDate("2031-01-01"), End: model.MustDate("2031-01-31")}

	shifts, err := d.GetShifts(ctx, window)
	require.NoError(t, err)
	assert.Contains(t, shifts, s)

	leaves, err := d.GetLeaves(ctx, window)
	require.NoError(t, err)
	var found *db.Leave
	for i := range leaves {
		if leaves[i].ID == l.ID {
			found = &leaves[i]
		}
	}
	require.NotNil(t, found)
	assert.Equal(t, "AM", found.Portion)
	assert.Nil(t, found.DotApproved)

	statuses, err := d.GetStatuses(ctx, window)
	require.NoError(t, err)
	var weekdays []int
	for _, status := range statuses {
		if status.ID == st.ID {
			weekdays = status.Weekdays
		}
	}
	assert.Equal(t, []int{1, 3}, weekdays)

	require.NoError(t, d.DeleteShift(ctx, s.ID))
	assert.ErrorIs(t, d.DeleteShift(ctx, s.ID), db.ErrNotFound)
	require.NoError(t, d.DeleteLeave(ctx, l.ID))
	assert.ErrorIs(t, d.DeleteLeave(ctx, l.ID), db.ErrNotFound)
}
