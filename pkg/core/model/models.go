package model

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DateLayout is the wire and storage format for calendar dates
const DateLayout = "2006-01-02"

var (
	ErrInvalidCellRef = errors.New("invalid cell reference")
	ErrInvalidPortion = errors.New("invalid leave portion")
	ErrInvalidWindow  = errors.New("invalid date window")
)

// Portion is the part of a day a leave covers
type Portion string

const (
	PortionAll Portion = "ALL"
	PortionAM  Portion = "AM"
	PortionPM  Portion = "PM"
)

func (p Portion) IsValid() bool {
	return p == PortionAll || p == PortionAM || p == PortionPM
}

// ParsePortion converts a stored portion value, treating an empty value as a full day
func ParsePortion(s string) (Portion, error) {
	if s == "" {
		return PortionAll, nil
	}
	p := Portion(strings.ToUpper(s))
	if !p.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidPortion, s)
	}
	return p, nil
}

// Person is a registrar with a column in the grid
type Person struct {
	ID       int64
	Username string
	Year     int // grouping key for column groups
}

// ShiftRecord is a single assigned shift
type ShiftRecord struct {
	ID        int64
	PersonID  int64
	Date      time.Time
	Type      string // display label, e.g. "Long day"
	ExtraDuty bool
}

// LeaveRecord is a single leave day. Approved and Pending are independent flags.
type LeaveRecord struct {
	ID        int64
	PersonID  int64
	Date      time.Time
	Type      string
	Portion   Portion
	Approved  bool
	Pending   bool
	Cancelled bool
}

// StatusRecord is a recurring availability constraint over an inclusive date range
type StatusRecord struct {
	ID       int64
	PersonID int64
	Type     string
	Start    time.Time
	End      time.Time
	Weekdays []int // Monday=0; empty means every day in range
}

// CellKind tags what a grid cell points at
type CellKind string

const (
	CellEmpty CellKind = ""
	CellShift CellKind = "shift"
	CellLeave CellKind = "leave"
)

// CellRef is either empty or a tagged reference into the snapshot's lookup maps
type CellRef struct {
	Kind CellKind
	ID   int64
}

func ShiftRef(id int64) CellRef { return CellRef{Kind: CellShift, ID: id} }
func LeaveRef(id int64) CellRef { return CellRef{Kind: CellLeave, ID: id} }

func (r CellRef) IsEmpty() bool {
	return r.Kind == CellEmpty
}

// String returns the wire form, e.g. "shift:12", or "" for an empty reference
func (r CellRef) String() string {
	if r.IsEmpty() {
		return ""
	}
	return fmt.Sprintf("%s:%d", r.Kind, r.ID)
}

// ParseCellRef parses the wire form produced by String
func ParseCellRef(s string) (CellRef, error) {
	if s == "" {
		return CellRef{}, nil
	}
	kind, rawID, ok := strings.Cut(s, ":")
	if !ok {
		return CellRef{}, fmt.Errorf("%w: %q", ErrInvalidCellRef, s)
	}
	id, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil {
		return CellRef{}, fmt.Errorf("%w: %q", ErrInvalidCellRef, s)
	}
	switch CellKind(kind) {
	case CellShift, CellLeave:
		return CellRef{Kind: CellKind(kind), ID: id}, nil
	default:
		return CellRef{}, fmt.Errorf("%w: unknown kind %q", ErrInvalidCellRef, kind)
	}
}

// Window is the visible date range of a fetch, inclusive on both ends
type Window struct {
	Start time.Time
	End   time.Time
}

// NewWindow validates and normalises a window
func NewWindow(start, end time.Time) (Window, error) {
	w := Window{Start: Day(start), End: Day(end)}
	if w.End.Before(w.Start) {
		return Window{}, fmt.Errorf("%w: end %s before start %s", ErrInvalidWindow, FormatDate(w.End), FormatDate(w.Start))
	}
	return w, nil
}

// DefaultWindow is the range shown when no explicit window is requested
func DefaultWindow(now time.Time, daysBefore, monthsAfter int) Window {
	today := Day(now)
	return Window{
		Start: today.AddDate(0, 0, -daysBefore),
		End:   today.AddDate(0, monthsAfter, 0),
	}
}

// Dates lists every day in the window
func (w Window) Dates() []time.Time {
	var dates []time.Time
	for d := w.Start; !d.After(w.End); d = d.AddDate(0, 0, 1) {
		dates = append(dates, d)
	}
	return dates
}

func (w Window) Contains(date time.Time) bool {
	d := Day(date)
	return !d.Before(w.Start) && !d.After(w.End)
}

// Row is one date of the grid
type Row struct {
	Date    time.Time
	Holiday string             // holiday name, empty on ordinary days
	Cells   map[int64]CellRef // keyed by person ID
}

// Table is one immutable snapshot: grid, lookup maps and statuses produced by a single fetch
type Table struct {
	ID       uuid.UUID
	Window   Window
	People   []Person
	Shifts   map[int64]ShiftRecord
	Leaves   map[int64]LeaveRecord
	Statuses []StatusRecord
	Rows     []Row
}

// Day truncates t to midnight UTC of its calendar date
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Weekday returns the Monday=0 weekday of t
func Weekday(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}

func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}

func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// MustDate parses a date literal and panics on error; intended for tests and constants
func MustDate(s string) time.Time {
	t, err := ParseDate(s)
	if err != nil {
		panic(err)
	}
	return t
}
