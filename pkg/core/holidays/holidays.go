package holidays

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/teambition/rrule-go"

	"github.com/jakechorley/rostergrid/pkg/core/model"
)

// Rule defines a holiday either as a recurrence rule or as a single date
type Rule struct {
	Name  string
	RRule string // e.g. "FREQ=YEARLY;BYMONTH=12;BYMONTHDAY=25"
	Date  string // one-off date, format 2006-01-02
}

// Holiday is a single expanded holiday
type Holiday struct {
	Date time.Time
	Name string
}

// Calendar expands holiday rules over arbitrary windows
type Calendar struct {
	rules []compiledRule
}

type compiledRule struct {
	name   string
	rule   *rrule.RRule
	date   time.Time
	anchor bool // rule string carries its own DTSTART
}

// NewCalendar parses every rule up front so expansion cannot fail later
func NewCalendar(rules []Rule) (*Calendar, error) {
	cal := &Calendar{}
	for i, r := range rules {
		c := compiledRule{name: r.Name}
		switch {
		case r.RRule != "":
			parsed, err := rrule.StrToRRule(r.RRule)
			if err != nil {
				return nil, fmt.Errorf("invalid rrule for holiday %d (%s): %w", i, r.Name, err)
			}
			c.rule = parsed
			c.anchor = strings.Contains(strings.ToUpper(r.RRule), "DTSTART")
		case r.Date != "":
			d, err := model.ParseDate(r.Date)
			if err != nil {
				return nil, fmt.Errorf("invalid date for holiday %d (%s): %w", i, r.Name, err)
			}
			c.date = d
		default:
			return nil, fmt.Errorf("holiday %d (%s) needs an rrule or a date", i, r.Name)
		}
		cal.rules = append(cal.rules, c)
	}
	return cal, nil
}

// Between returns the holidays falling within the window, ordered by date then name
func (c *Calendar) Between(w model.Window) []Holiday {
	var result []Holiday
	for _, r := range c.rules {
		if r.rule == nil {
			if w.Contains(r.date) {
				result = append(result, Holiday{Date: model.Day(r.date), Name: r.name})
			}
			continue
		}
		rule := r.rule
		if !r.anchor {
			opts := r.rule.OrigOptions
			opts.Dtstart = w.Start
			anchored, err := rrule.NewRRule(opts)
			if err != nil {
				continue
			}
			rule = anchored
		}
		end := w.End.AddDate(0, 0, 1).Add(-time.Nanosecond)
		for _, occ := range rule.Between(w.Start, end, true) {
			result = append(result, Holiday{Date: model.Day(occ), Name: r.name})
		}
	}
	sort.SliceStable(result, func(i, j int) bool {
		if !result[i].Date.Equal(result[j].Date) {
			return result[i].Date.Before(result[j].Date)
		}
		return result[i].Name < result[j].Name
	})
	return result
}

// ByDate indexes holidays by formatted date. Multiple holidays on one day are joined.
func ByDate(hols []Holiday) map[string]string {
	index := make(map[string]string, len(hols))
	for _, h := range hols {
		key := model.FormatDate(h.Date)
		if existing, ok := index[key]; ok {
			index[key] = existing + ", " + h.Name
			continue
		}
		index[key] = h.Name
	}
	return index
}
