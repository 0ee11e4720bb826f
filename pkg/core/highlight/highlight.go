package highlight

import (
	"errors"
	"fmt"
	"sync"
)

// DefaultColor is applied to every cell sharing the hovered cell's key
const DefaultColor = "#ffd54f"

var ErrUnknownCell = errors.New("cell is not mounted")

// Category separates cells that take part in highlighting from background-only ones
type Category int

const (
	Foreground Category = iota
	Background
)

// Item is a rendered cell as seen by the coordinator
type Item struct {
	ID         string
	Label      string // displayed label
	Entity     string // stable identifier of the rendered record, empty when none
	Category   Category
	Background string // background at render time
}

// KeyFunc selects what two cells must share to be highlighted together
type KeyFunc func(Item) string

// KeyByLabel highlights cells showing the same text
func KeyByLabel(it Item) string { return it.Label }

// KeyByEntity highlights cells rendering the same record, so unrelated records
// that happen to render the same text stay apart
func KeyByEntity(it Item) string { return it.Entity }

// Painter receives background changes for whatever surface shows the cells.
// Paint is called with the coordinator's lock held and must not call back into it.
type Painter interface {
	Paint(id string, background string)
}

type mounted struct {
	item     Item
	original string // captured once at Mount
	current  string
}

// Coordinator tracks transient hover highlighting over the mounted cells.
// Restoration always writes the background captured at Mount, never a value
// derived from the current color.
type Coordinator struct {
	mu      sync.Mutex
	color   string
	keyFn   KeyFunc
	painter Painter

	cells  map[string]*mounted
	order  []string
	active map[string]struct{} // IDs currently painted with the highlight color
}

// Option configures a Coordinator
type Option func(*Coordinator)

func WithColor(color string) Option {
	return func(c *Coordinator) {
		if color != "" {
			c.color = color
		}
	}
}

func WithKey(fn KeyFunc) Option {
	return func(c *Coordinator) {
		if fn != nil {
			c.keyFn = fn
		}
	}
}

func WithPainter(p Painter) Option {
	return func(c *Coordinator) { c.painter = p }
}

func NewCoordinator(opts ...Option) *Coordinator {
	c := &Coordinator{
		color:  DefaultColor,
		keyFn:  KeyByLabel,
		cells:  make(map[string]*mounted),
		active: make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Mount replaces the set of cells under coordination and captures their backgrounds.
// Any highlight from a previous mount is dropped without repainting; the old cells
// are gone.
func (c *Coordinator) Mount(items []Item) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.cells = make(map[string]*mounted, len(items))
	c.order = c.order[:0]
	c.active = make(map[string]struct{})
	for _, it := range items {
		if _, dup := c.cells[it.ID]; !dup {
			c.order = append(c.order, it.ID)
		}
		c.cells[it.ID] = &mounted{item: it, original: it.Background, current: it.Background}
	}
}

// Enter highlights every foreground cell sharing the key of the cell with the given ID.
// It first restores whatever an earlier Enter painted, so a missed Leave cannot
// leave cells stuck. It returns the IDs painted.
func (c *Coordinator) Enter(id string) ([]string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	target, ok := c.cells[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownCell, id)
	}
	c.restoreLocked()

	if target.item.Category != Foreground {
		return nil, nil
	}
	key := c.keyFn(target.item)
	if key == "" {
		return nil, nil
	}

	var painted []string
	for _, cid := range c.order {
		m := c.cells[cid]
		if m.item.Category != Foreground || c.keyFn(m.item) != key {
			continue
		}
		c.paintLocked(m, c.color)
		c.active[cid] = struct{}{}
		painted = append(painted, cid)
	}
	return painted, nil
}

// Leave restores every highlighted cell to its captured background. The ID is only
// checked for membership; hover state is shared, so leaving any cell clears it.
func (c *Coordinator) Leave(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.cells[id]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownCell, id)
	}
	c.restoreLocked()
	return nil
}

// Reset restores all highlighted cells
func (c *Coordinator) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.restoreLocked()
}

func (c *Coordinator) restoreLocked() {
	for _, cid := range c.order {
		if _, ok := c.active[cid]; !ok {
			continue
		}
		m := c.cells[cid]
		c.paintLocked(m, m.original)
	}
	c.active = make(map[string]struct{})
}

func (c *Coordinator) paintLocked(m *mounted, background string) {
	m.current = background
	if c.painter != nil {
		c.painter.Paint(m.item.ID, background)
	}
}

// Background returns the current background of a mounted cell
func (c *Coordinator) Background(id string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	m, ok := c.cells[id]
	if !ok {
		return "", false
	}
	return m.current, true
}

// Highlighted reports whether the cell is currently painted with the highlight color
func (c *Coordinator) Highlighted(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.active[id]
	return ok
}

// Color returns the highlight color in use
func (c *Coordinator) Color() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.color
}
