package tui

import (
	"context"
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jakechorley/rostergrid/pkg/core/grid"
	"github.com/jakechorley/rostergrid/pkg/core/highlight"
	"github.com/jakechorley/rostergrid/pkg/core/model"
	"github.com/jakechorley/rostergrid/pkg/core/services"
)

var (
	friday   = model.MustDate("2024-03-01")
	saturday = model.MustDate("2024-03-02")
)

// fakeDeleter implements services.EntityDeleter
type fakeDeleter struct {
	shifts []int64
	leaves []int64
	err    error
}

func (d *fakeDeleter) DeleteShift(ctx context.Context, id int64) error {
	if d.err != nil {
		return d.err
	}
	d.shifts = append(d.shifts, id)
	return nil
}

func (d *fakeDeleter) DeleteLeave(ctx context.Context, id int64) error {
	if d.err != nil {
		return d.err
	}
	d.leaves = append(d.leaves, id)
	return nil
}

func tuiTable() *model.Table {
	return &model.Table{
		ID: uuid.New(),
		People: []model.Person{
			{ID: 1, Username: "alice", Year: 1},
			{ID: 2, Username: "bob", Year: 1},
		},
		Shifts: map[int64]model.ShiftRecord{
			1: {ID: 1, PersonID: 1, Date: friday, Type: "Long day"},
			2: {ID: 2, PersonID: 2, Date: friday, Type: "Long day"},
		},
		Leaves: map[int64]model.LeaveRecord{
			1: {ID: 1, PersonID: 1, Date: saturday, Type: "Annual", Portion: model.PortionAll, Pending: true},
		},
		Rows: []model.Row{
			{Date: friday, Cells: map[int64]model.CellRef{1: model.ShiftRef(1), 2: model.ShiftRef(2)}},
			{Date: saturday, Cells: map[int64]model.CellRef{1: model.LeaveRef(1)}},
		},
	}
}

func newLoadedModel(t *testing.T, deleter services.EntityDeleter) Model {
	t.Helper()
	holder := services.NewSnapshotHolder(func(ctx context.Context, window model.Window) (*model.Table, error) {
		return tuiTable(), nil
	}, zap.NewNop())

	m := NewModel(context.Background(), Config{
		Holder:  holder,
		Deleter: deleter,
		Window:  model.Window{Start: friday, End: saturday},
		Now:     func() time.Time { return friday },
	})
	return send(t, m, m.Init()())
}

func send(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	updated, _ := m.Update(msg)
	next, ok := updated.(Model)
	require.True(t, ok)
	return next
}

func keyPress(s string) tea.KeyMsg {
	switch s {
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestModel_LoadHighlightsCursorLabel(t *testing.T) {
	m := newLoadedModel(t, nil)

	require.NotNil(t, m.rendered)
	assert.Contains(t, m.status, "Loaded 2024-03-01 to 2024-03-02")

	assert.True(t, m.Highlighted(grid.CellID(friday, 1)))
	assert.True(t, m.Highlighted(grid.CellID(friday, 2)))
	assert.False(t, m.Highlighted(grid.CellID(saturday, 1)))

	bg := m.painter.background(m.rendered.Rows[0].Cells[1])
	assert.Equal(t, highlight.DefaultColor, bg)
}

func TestModel_MovingRestoresBackgrounds(t *testing.T) {
	m := newLoadedModel(t, nil)

	m = send(t, m, keyPress("down"))

	assert.False(t, m.Highlighted(grid.CellID(friday, 1)))
	assert.False(t, m.Highlighted(grid.CellID(friday, 2)))
	assert.True(t, m.Highlighted(grid.CellID(saturday, 1)))

	for _, c := range m.rendered.Rows[0].Cells {
		assert.Equal(t, c.OriginalBackground, m.painter.background(c), c.ID)
	}

	// blank cells highlight nothing
	m = send(t, m, keyPress("right"))
	for _, row := range m.rendered.Rows {
		for _, c := range row.Cells {
			assert.False(t, m.Highlighted(c.ID), c.ID)
		}
	}
}

func TestModel_CursorStaysInsideGrid(t *testing.T) {
	m := newLoadedModel(t, nil)

	for i := 0; i < 5; i++ {
		m = send(t, m, keyPress("down"))
		m = send(t, m, keyPress("right"))
	}

	assert.Equal(t, 1, m.row)
	assert.Equal(t, 1, m.col)
}

func TestModel_RemoveEntity(t *testing.T) {
	deleter := &fakeDeleter{}
	m := newLoadedModel(t, deleter)
	m = send(t, m, keyPress("down"))

	_, cmd := m.Update(keyPress("d"))
	require.NotNil(t, cmd)
	msg := cmd()
	assert.Equal(t, EntityRemovedMsg{Ref: model.LeaveRef(1)}, msg)
	assert.Equal(t, []int64{1}, deleter.leaves)

	m = send(t, m, msg)

	c, ok := m.rendered.Cell(grid.CellID(saturday, 1))
	require.True(t, ok)
	assert.True(t, c.Ref.IsEmpty())
	assert.True(t, m.rendered.FooterStale)
	assert.False(t, m.Highlighted(c.ID))
	assert.Contains(t, m.status, "leave counts are stale")
}

func TestModel_RemoveFailure(t *testing.T) {
	m := newLoadedModel(t, &fakeDeleter{err: errors.New("locked")})

	_, cmd := m.Update(keyPress("d"))
	require.NotNil(t, cmd)
	m = send(t, m, cmd())

	assert.Contains(t, m.status, "Could not remove shift:1")
	c, _ := m.rendered.Cell(grid.CellID(friday, 1))
	assert.Equal(t, model.ShiftRef(1), c.Ref)
}

func TestModel_RemoveWithoutDeleter(t *testing.T) {
	m := newLoadedModel(t, nil)

	m = send(t, m, keyPress("d"))

	assert.Equal(t, "Deleting is not available", m.status)
}

func TestModel_FailedRefreshKeepsGrid(t *testing.T) {
	m := newLoadedModel(t, nil)
	before := m.rendered

	m = send(t, m, snapshotMsg{err: errors.New("timeout")})

	assert.Same(t, before, m.rendered)
	assert.Contains(t, m.status, "Refresh failed")
}

func TestModel_StaleSnapshotIgnored(t *testing.T) {
	m := newLoadedModel(t, nil)
	before := m.rendered

	m = send(t, m, snapshotMsg{result: services.RefreshResult{Table: tuiTable(), Stale: true}})

	assert.Same(t, before, m.rendered)
}

func TestModel_View(t *testing.T) {
	m := newLoadedModel(t, nil)
	m = send(t, m, tea.WindowSizeMsg{Width: 120, Height: 30})

	view := m.View()

	assert.Contains(t, view, "alice")
	assert.Contains(t, view, "bob")
	assert.Contains(t, view, "Long day")
	assert.Contains(t, view, "quit")
}

func TestRenderStatic(t *testing.T) {
	rendered := grid.Render(tuiTable(), friday)

	out := RenderStatic(rendered)

	assert.Contains(t, out, "Year 1")
	assert.Contains(t, out, "01/03/24 Fri")
	assert.Contains(t, out, "Annual")
}
