package services

import (
	"fmt"
	"time"

	"github.com/jakechorley/rostergrid/pkg/core/model"
	"github.com/jakechorley/rostergrid/pkg/db"
)

// toPerson maps a registrar to a grid column. Year counts completed years of
// training plus one, as of now.
func toPerson(r db.Registrar, now time.Time) (model.Person, error) {
	p := model.Person{ID: r.ID, Username: r.Username}
	if r.Start == "" {
		return p, nil
	}
	start, err := model.ParseDate(r.Start)
	if err != nil {
		return model.Person{}, fmt.Errorf("invalid start date for registrar %d: %w", r.ID, err)
	}
	days := int(model.Day(now).Sub(start).Hours() / 24)
	p.Year = days/365 + 1
	return p, nil
}

// activeIn reports whether the registrar was still training at some point in the window
func activeIn(r db.Registrar, window model.Window) bool {
	if r.Finish == "" {
		return true
	}
	finish, err := model.ParseDate(r.Finish)
	if err != nil {
		return true
	}
	return !finish.Before(window.Start)
}

func toShift(s db.Shift) (model.ShiftRecord, error) {
	date, err := model.ParseDate(s.Date)
	if err != nil {
		return model.ShiftRecord{}, fmt.Errorf("invalid date for shift %d: %w", s.ID, err)
	}
	return model.ShiftRecord{
		ID:        s.ID,
		PersonID:  s.RegistrarID,
		Date:      date,
		Type:      model.ShiftLabel(s.Type),
		ExtraDuty: s.ExtraDuty,
	}, nil
}

// toLeave derives the approval flags: a leave is approved once both approvals
// are given, and pending while neither approval has been refused and it is not
// cancelled or approved.
func toLeave(l db.Leave) (model.LeaveRecord, error) {
	date, err := model.ParseDate(l.Date)
	if err != nil {
		return model.LeaveRecord{}, fmt.Errorf("invalid date for leave %d: %w", l.ID, err)
	}
	portion, err := model.ParsePortion(l.Portion)
	if err != nil {
		return model.LeaveRecord{}, fmt.Errorf("leave %d: %w", l.ID, err)
	}

	approved := isTrue(l.RegApproved) && isTrue(l.DotApproved)
	declined := isFalse(l.RegApproved) || isFalse(l.DotApproved)

	return model.LeaveRecord{
		ID:        l.ID,
		PersonID:  l.RegistrarID,
		Date:      date,
		Type:      model.LeaveLabel(l.Type),
		Portion:   portion,
		Approved:  approved,
		Pending:   !l.Cancelled && !approved && !declined,
		Cancelled: l.Cancelled,
	}, nil
}

func toStatus(s db.Status) (model.StatusRecord, error) {
	start, err := model.ParseDate(s.Start)
	if err != nil {
		return model.StatusRecord{}, fmt.Errorf("invalid start date for status %d: %w", s.ID, err)
	}
	end, err := model.ParseDate(s.End)
	if err != nil {
		return model.StatusRecord{}, fmt.Errorf("invalid end date for status %d: %w", s.ID, err)
	}
	for _, wd := range s.Weekdays {
		if wd < 0 || wd > 6 {
			return model.StatusRecord{}, fmt.Errorf("invalid weekday %d for status %d", wd, s.ID)
		}
	}
	return model.StatusRecord{
		ID:       s.ID,
		PersonID: s.RegistrarID,
		Type:     model.StatusLabel(s.Type),
		Start:    start,
		End:      end,
		Weekdays: append([]int(nil), s.Weekdays...),
	}, nil
}

func isTrue(b *bool) bool  { return b != nil && *b }
func isFalse(b *bool) bool { return b != nil && !*b }
