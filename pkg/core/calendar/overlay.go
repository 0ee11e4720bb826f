package calendar

import (
	"fmt"
	"sort"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/jakechorley/rostergrid/pkg/core/grid"
	"github.com/jakechorley/rostergrid/pkg/core/highlight"
	"github.com/jakechorley/rostergrid/pkg/core/holidays"
	"github.com/jakechorley/rostergrid/pkg/core/model"
)

// Category tags which feed an event came from
type Category string

const (
	CategoryShift   Category = "shift"
	CategoryLeave   Category = "leave"
	CategoryHoliday Category = "holiday"
)

// Ordering keys; higher sorts first within a day
const (
	orderHoliday = 0
	orderShift   = 1
	orderLeave   = 2
)

const DisplayBackground = "background"

// Event colors that differ from the grid palette
const (
	ColorShiftEvent    = "PaleTurquoise"
	ColorLeaveApproved = "DarkSeaGreen"
	ColorLeavePending  = "grey"
)

// Event is one entry of the merged calendar stream. Colors are fixed when the
// event is built; nothing changes them afterwards except transient highlighting.
type Event struct {
	ID              string    `json:"id"`
	Start           time.Time `json:"start"`
	Title           string    `json:"title"`
	AllDay          bool      `json:"allDay"`
	Category        Category  `json:"category"`
	Order           int       `json:"order"`
	Display         string    `json:"display,omitempty"` // DisplayBackground for holidays
	BackgroundColor string    `json:"backgroundColor,omitempty"`
	TextColor       string    `json:"textColor,omitempty"`
}

// ShiftEvents converts shifts to calendar events. Shifts without a known person are skipped.
func ShiftEvents(shifts []model.ShiftRecord, people map[int64]model.Person) []Event {
	events := make([]Event, 0, len(shifts))
	for _, shift := range shifts {
		person, ok := people[shift.PersonID]
		if !ok {
			continue
		}
		bg, text := grid.ShiftColors(shift.Type)
		if bg == grid.ColorShiftDefault {
			bg = ColorShiftEvent
		}
		title := fmt.Sprintf("%s: %s", shift.Type, person.Username)
		if shift.ExtraDuty {
			title += " (extra)"
		}
		events = append(events, Event{
			ID:              fmt.Sprintf("shift_%d", shift.ID),
			Start:           model.Day(shift.Date),
			Title:           title,
			AllDay:          true,
			Category:        CategoryShift,
			Order:           orderShift,
			BackgroundColor: bg,
			TextColor:       text,
		})
	}
	return events
}

// LeaveEvents converts leaves to calendar events, dropping cancelled ones
func LeaveEvents(leaves []model.LeaveRecord, people map[int64]model.Person) []Event {
	events := make([]Event, 0, len(leaves))
	for _, leave := range leaves {
		if leave.Cancelled {
			continue
		}
		person, ok := people[leave.PersonID]
		if !ok {
			continue
		}
		events = append(events, Event{
			ID:              fmt.Sprintf("leave_%d", leave.ID),
			Start:           model.Day(leave.Date),
			Title:           LeaveTitle(leave, person.Username),
			AllDay:          true,
			Category:        CategoryLeave,
			Order:           orderLeave,
			BackgroundColor: leaveBackground(leave),
			TextColor:       leaveText(leave),
		})
	}
	return events
}

// LeaveTitle renders e.g. "Annual (AM): bob (TBC)"
func LeaveTitle(leave model.LeaveRecord, username string) string {
	var b strings.Builder
	b.WriteString(capitalize(leave.Type))
	if leave.Portion != model.PortionAll && leave.Portion != "" {
		fmt.Fprintf(&b, " (%s)", leave.Portion)
	}
	fmt.Fprintf(&b, ": %s", username)
	if !leave.Approved {
		b.WriteString(" (TBC)")
	}
	return b.String()
}

func leaveBackground(leave model.LeaveRecord) string {
	if leave.Approved {
		return ColorLeaveApproved
	}
	return ColorLeavePending
}

func leaveText(leave model.LeaveRecord) string {
	if leave.Approved {
		return grid.TextDefault
	}
	return grid.TextNight
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	lower := strings.ToLower(s)
	first, size := utf8.DecodeRuneInString(lower)
	return string(unicode.ToUpper(first)) + lower[size:]
}

// HolidayEvents converts holidays to background events
func HolidayEvents(hols []holidays.Holiday) []Event {
	events := make([]Event, 0, len(hols))
	for _, h := range hols {
		events = append(events, Event{
			ID:       "holiday_" + model.FormatDate(h.Date),
			Start:    model.Day(h.Date),
			Title:    h.Name,
			AllDay:   true,
			Category: CategoryHoliday,
			Order:    orderHoliday,
			Display:  DisplayBackground,
		})
	}
	return events
}

// Merge combines feeds into one stream ordered by date, then descending order key,
// then ascending title. Holidays therefore come after shifts and leaves of the same day.
func Merge(feeds ...[]Event) []Event {
	var merged []Event
	for _, feed := range feeds {
		merged = append(merged, feed...)
	}
	sort.SliceStable(merged, func(i, j int) bool {
		a, b := merged[i], merged[j]
		if !a.Start.Equal(b.Start) {
			return a.Start.Before(b.Start)
		}
		if a.Order != b.Order {
			return a.Order > b.Order
		}
		return a.Title < b.Title
	})
	return merged
}

// HighlightItems exposes events to a highlight coordinator. Holidays are background
// items and never take part in highlighting.
func HighlightItems(events []Event) []highlight.Item {
	items := make([]highlight.Item, 0, len(events))
	for _, e := range events {
		category := highlight.Foreground
		if e.Display == DisplayBackground || e.Category == CategoryHoliday {
			category = highlight.Background
		}
		items = append(items, highlight.Item{
			ID:         e.ID,
			Label:      e.Title,
			Entity:     e.ID,
			Category:   category,
			Background: e.BackgroundColor,
		})
	}
	return items
}
