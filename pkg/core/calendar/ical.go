package calendar

import (
	"fmt"
	"io"
	"time"

	ics "github.com/arran4/golang-ical"

	"github.com/jakechorley/rostergrid/pkg/core/model"
)

const productID = "-//rostergrid//rostergrid//EN"

// ICalFeed builds an iCalendar document of shifts and non-cancelled leaves.
// Event UIDs match the calendar event IDs (shift_<id>, leave_<id>).
func ICalFeed(shifts []model.ShiftRecord, leaves []model.LeaveRecord, people map[int64]model.Person, stamp time.Time) *ics.Calendar {
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId(productID)

	for _, shift := range shifts {
		person, ok := people[shift.PersonID]
		if !ok {
			continue
		}
		summary := fmt.Sprintf("%s: %s", shift.Type, person.Username)
		description := summary
		if shift.ExtraDuty {
			summary += " (extra)"
			description += " (extra duty)"
		}
		addAllDayEvent(cal, fmt.Sprintf("shift_%d", shift.ID), shift.Date, summary, description, stamp)
	}

	for _, leave := range leaves {
		if leave.Cancelled {
			continue
		}
		person, ok := people[leave.PersonID]
		if !ok {
			continue
		}
		summary := fmt.Sprintf("%s: %s", person.Username, leave.Type)
		if leave.Portion != model.PortionAll && leave.Portion != "" {
			summary += fmt.Sprintf(" (%s)", leave.Portion)
		}
		addAllDayEvent(cal, fmt.Sprintf("leave_%d", leave.ID), leave.Date, summary, summary, stamp)
	}

	return cal
}

func addAllDayEvent(cal *ics.Calendar, uid string, date time.Time, summary, description string, stamp time.Time) {
	event := cal.AddEvent(uid)
	event.SetDtStampTime(stamp)
	event.SetAllDayStartAt(model.Day(date))
	event.SetSummary(summary)
	event.SetDescription(description)
}

// WriteICal serializes the feed to w
func WriteICal(w io.Writer, cal *ics.Calendar) error {
	if _, err := io.WriteString(w, cal.Serialize()); err != nil {
		return fmt.Errorf("failed to write ical feed: %w", err)
	}
	return nil
}
