package tui

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/jakechorley/rostergrid/pkg/core/grid"
	"github.com/jakechorley/rostergrid/pkg/core/highlight"
	"github.com/jakechorley/rostergrid/pkg/core/model"
	"github.com/jakechorley/rostergrid/pkg/core/services"
)

const (
	defaultVisibleRows = 20
	defaultVisibleCols = 6
	chromeLines        = 5 // group + header + blank + status + help
)

// Messages
type (
	snapshotMsg struct {
		result services.RefreshResult
		err    error
	}

	// EntityRemovedMsg reports that the record behind a cell was deleted
	EntityRemovedMsg struct {
		Ref model.CellRef
	}

	removeFailedMsg struct {
		ref model.CellRef
		err error
	}
)

// cellPainter records the backgrounds the highlight coordinator paints
type cellPainter struct {
	mu      sync.Mutex
	painted map[string]string
}

func newCellPainter() *cellPainter {
	return &cellPainter{painted: make(map[string]string)}
}

func (p *cellPainter) Paint(id, background string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.painted[id] = background
}

func (p *cellPainter) background(c grid.RenderedCell) string {
	p.mu.Lock()
	defer p.mu.Unlock()
	if bg, ok := p.painted[c.ID]; ok {
		return bg
	}
	return c.Cell.Background
}

func (p *cellPainter) reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.painted = make(map[string]string)
}

// Config holds what the interactive grid needs from the application
type Config struct {
	Holder  *services.SnapshotHolder
	Deleter services.EntityDeleter
	Window  model.Window
	Logger  *zap.Logger
	Now     func() time.Time

	HighlightColor string
	HighlightKey   highlight.KeyFunc
}

// Model is the interactive roster grid. Moving the cursor onto a cell acts as
// pointer enter and moving off it as pointer leave.
type Model struct {
	ctx     context.Context
	cfg     Config
	keys    keyMap
	coord   *highlight.Coordinator
	painter *cellPainter

	rendered  *grid.RenderedGrid
	row, col  int
	rowOffset int
	colOffset int
	width     int
	height    int
	status    string
}

func NewModel(ctx context.Context, cfg Config) Model {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	painter := newCellPainter()
	coord := highlight.NewCoordinator(
		highlight.WithColor(cfg.HighlightColor),
		highlight.WithKey(cfg.HighlightKey),
		highlight.WithPainter(painter),
	)
	return Model{
		ctx:     ctx,
		cfg:     cfg,
		keys:    defaultKeyMap(),
		coord:   coord,
		painter: painter,
		status:  "Loading roster...",
	}
}

func (m Model) Init() tea.Cmd {
	return m.refresh()
}

func (m Model) refresh() tea.Cmd {
	holder, window, ctx := m.cfg.Holder, m.cfg.Window, m.ctx
	return func() tea.Msg {
		result, err := holder.Refresh(ctx, window)
		return snapshotMsg{result: result, err: err}
	}
}

func (m Model) remove(ref model.CellRef) tea.Cmd {
	deleter, logger, ctx := m.cfg.Deleter, m.cfg.Logger, m.ctx
	return func() tea.Msg {
		if err := services.RemoveEntity(ctx, deleter, logger, ref); err != nil {
			return removeFailedMsg{ref: ref, err: err}
		}
		return EntityRemovedMsg{Ref: ref}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.scrollToCursor()
		return m, nil

	case snapshotMsg:
		switch {
		case msg.err != nil:
			m.status = fmt.Sprintf("Refresh failed, showing previous snapshot: %v", msg.err)
			if m.rendered == nil && msg.result.Table != nil {
				m.install(msg.result.Table)
			}
		case msg.result.Stale:
			m.status = "Dropped an out-of-date snapshot"
		case msg.result.Installed:
			m.install(msg.result.Table)
			m.status = fmt.Sprintf("Loaded %s to %s",
				model.FormatDate(m.cfg.Window.Start), model.FormatDate(m.cfg.Window.End))
		}
		return m, nil

	case EntityRemovedMsg:
		if m.rendered == nil {
			return m, nil
		}
		n := m.rendered.RemoveEntity(msg.Ref)
		m.remount()
		m.status = fmt.Sprintf("Removed %s from %d cell(s); leave counts are stale until refresh", msg.Ref, n)
		return m, nil

	case removeFailedMsg:
		m.status = fmt.Sprintf("Could not remove %s: %v", msg.ref, msg.err)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Refresh):
		m.status = "Refreshing..."
		return m, m.refresh()
	case key.Matches(msg, m.keys.Up):
		m.moveTo(m.row-1, m.col)
	case key.Matches(msg, m.keys.Down):
		m.moveTo(m.row+1, m.col)
	case key.Matches(msg, m.keys.Left):
		m.moveTo(m.row, m.col-1)
	case key.Matches(msg, m.keys.Right):
		m.moveTo(m.row, m.col+1)
	case key.Matches(msg, m.keys.Today):
		if m.rendered != nil {
			for i, row := range m.rendered.Rows {
				if row.Today {
					m.moveTo(i, m.col)
					break
				}
			}
		}
	case key.Matches(msg, m.keys.Remove):
		c := m.cursorCell()
		if c == nil || c.Ref.IsEmpty() {
			m.status = "Nothing to delete here"
			return m, nil
		}
		if m.cfg.Deleter == nil {
			m.status = "Deleting is not available"
			return m, nil
		}
		return m, m.remove(c.Ref)
	}
	return m, nil
}

// install renders a fresh snapshot and remounts highlighting, keeping the cursor
// on the same date and person where possible
func (m *Model) install(table *model.Table) {
	var keepDate time.Time
	var keepPerson int64
	if c := m.cursorCell(); c != nil {
		keepDate, keepPerson = c.Date, c.PersonID
	}

	m.rendered = services.RenderTable(table, m.cfg.Logger, m.cfg.Now())

	m.row, m.col = 0, 0
	for i, row := range m.rendered.Rows {
		if row.Date.Equal(keepDate) || (keepDate.IsZero() && row.Today) {
			m.row = i
			break
		}
	}
	for i, person := range m.rendered.Columns {
		if person.ID == keepPerson {
			m.col = i
			break
		}
	}
	m.remount()
}

func (m *Model) remount() {
	m.painter.reset()
	m.coord.Mount(m.rendered.HighlightItems())
	m.clampCursor()
	m.scrollToCursor()
	m.enter()
}

func (m *Model) cursorCell() *grid.RenderedCell {
	if m.rendered == nil || m.row >= len(m.rendered.Rows) {
		return nil
	}
	cells := m.rendered.Rows[m.row].Cells
	if m.col >= len(cells) {
		return nil
	}
	return &cells[m.col]
}

func (m *Model) moveTo(row, col int) {
	if m.rendered == nil {
		return
	}
	if c := m.cursorCell(); c != nil {
		if err := m.coord.Leave(c.ID); err != nil {
			m.cfg.Logger.Debug("Highlight leave failed", zap.String("cell", c.ID), zap.Error(err))
		}
	}
	m.row, m.col = row, col
	m.clampCursor()
	m.scrollToCursor()
	m.enter()
}

func (m *Model) enter() {
	c := m.cursorCell()
	if c == nil {
		return
	}
	if _, err := m.coord.Enter(c.ID); err != nil {
		m.cfg.Logger.Debug("Highlight enter failed", zap.String("cell", c.ID), zap.Error(err))
	}
}

func (m *Model) clampCursor() {
	if m.rendered == nil {
		return
	}
	m.row = clamp(m.row, 0, len(m.rendered.Rows)-1)
	m.col = clamp(m.col, 0, len(m.rendered.Columns)-1)
}

func (m *Model) visibleRows() int {
	if m.height == 0 {
		return defaultVisibleRows
	}
	return max(1, m.height-chromeLines)
}

func (m *Model) visibleCols() int {
	if m.width == 0 {
		return defaultVisibleCols
	}
	return max(1, (m.width-dateWidth-3*footerWidth)/cellWidth)
}

func (m *Model) scrollToCursor() {
	rows, cols := m.visibleRows(), m.visibleCols()
	if m.row < m.rowOffset {
		m.rowOffset = m.row
	} else if m.row >= m.rowOffset+rows {
		m.rowOffset = m.row - rows + 1
	}
	if m.col < m.colOffset {
		m.colOffset = m.col
	} else if m.col >= m.colOffset+cols {
		m.colOffset = m.col - cols + 1
	}
}

func (m Model) View() string {
	if m.rendered == nil {
		return lipgloss.JoinVertical(lipgloss.Left, statusStyle.Render(m.status), helpLine(m.keys))
	}

	f := frame{
		grid:       m.rendered,
		background: m.painter.background,
		rowStart:   m.rowOffset,
		rowEnd:     min(len(m.rendered.Rows), m.rowOffset+m.visibleRows()),
		colStart:   m.colOffset,
		colEnd:     min(len(m.rendered.Columns), m.colOffset+m.visibleCols()),
	}
	if c := m.cursorCell(); c != nil {
		f.cursor = c.ID
	}

	status := m.status
	if c := m.cursorCell(); c != nil && c.Cell.Label != "" {
		status = fmt.Sprintf("%s  [%s]", status, c.Cell.Label)
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		f.render(),
		"",
		statusStyle.Render(status),
		helpLine(m.keys),
	)
}

// Highlighted reports whether a cell is currently painted with the highlight color
func (m Model) Highlighted(id string) bool {
	return m.coord.Highlighted(id)
}

func clamp(v, lo, hi int) int {
	if hi < lo {
		return lo
	}
	return max(lo, min(v, hi))
}
