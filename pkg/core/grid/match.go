package grid

import (
	"slices"
	"time"

	"github.com/jakechorley/rostergrid/pkg/core/model"
)

// MatchStatuses returns every status that applies to personID on date, in input order.
// A status applies when it belongs to the person, date falls within [Start, End]
// and either Weekdays is empty or contains the Monday=0 weekday of date.
func MatchStatuses(date time.Time, personID int64, statuses []model.StatusRecord) []model.StatusRecord {
	day := model.Day(date)
	weekday := model.Weekday(day)

	var matched []model.StatusRecord
	for _, status := range statuses {
		if status.PersonID != personID {
			continue
		}
		if statusApplies(status, day, weekday) {
			matched = append(matched, status)
		}
	}
	return matched
}

func statusApplies(status model.StatusRecord, day time.Time, weekday int) bool {
	if day.Before(model.Day(status.Start)) || day.After(model.Day(status.End)) {
		return false
	}
	return len(status.Weekdays) == 0 || slices.Contains(status.Weekdays, weekday)
}

// StatusIndex groups statuses by person so a full grid render does not rescan
// every status for every cell. Match returns the same result as MatchStatuses.
type StatusIndex struct {
	byPerson map[int64][]model.StatusRecord
}

func NewStatusIndex(statuses []model.StatusRecord) *StatusIndex {
	idx := &StatusIndex{byPerson: make(map[int64][]model.StatusRecord)}
	for _, status := range statuses {
		idx.byPerson[status.PersonID] = append(idx.byPerson[status.PersonID], status)
	}
	return idx
}

func (idx *StatusIndex) Match(date time.Time, personID int64) []model.StatusRecord {
	return MatchStatuses(date, personID, idx.byPerson[personID])
}
