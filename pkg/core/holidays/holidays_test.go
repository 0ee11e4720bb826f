package holidays

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jakechorley/rostergrid/pkg/core/model"
)

func TestCalendar_Between(t *testing.T) {
	cal, err := NewCalendar([]Rule{
		{Name: "Christmas Day", RRule: "FREQ=YEARLY;BYMONTH=12;BYMONTHDAY=25"},
		{Name: "Boxing Day", RRule: "FREQ=YEARLY;BYMONTH=12;BYMONTHDAY=26"},
		{Name: "New Year's Day", RRule: "FREQ=YEARLY;BYMONTH=1;BYMONTHDAY=1"},
		{Name: "Coronation", Date: "2023-05-08"},
	})
	require.NoError(t, err)

	window := model.Window{Start: model.MustDate("2023-12-20"), End: model.MustDate("2024-01-01")}
	hols := cal.Between(window)

	require.Len(t, hols, 3)
	assert.Equal(t, Holiday{Date: model.MustDate("2023-12-25"), Name: "Christmas Day"}, hols[0])
	assert.Equal(t, Holiday{Date: model.MustDate("2023-12-26"), Name: "Boxing Day"}, hols[1])
	assert.Equal(t, Holiday{Date: model.MustDate("2024-01-01"), Name: "New Year's Day"}, hols[2])
}

func TestCalendar_MultiYearWindow(t *testing.T) {
	cal, err := NewCalendar([]Rule{{Name: "Christmas Day", RRule: "FREQ=YEARLY;BYMONTH=12;BYMONTHDAY=25"}})
	require.NoError(t, err)

	hols := cal.Between(model.Window{Start: model.MustDate("2022-01-01"), End: model.MustDate("2024-12-31")})

	require.Len(t, hols, 3)
	assert.Equal(t, 2022, hols[0].Date.Year())
	assert.Equal(t, 2024, hols[2].Date.Year())
}

func TestCalendar_WeekdayRule(t *testing.T) {
	// first Monday in May
	cal, err := NewCalendar([]Rule{{Name: "Early May bank holiday", RRule: "FREQ=YEARLY;BYMONTH=5;BYDAY=+1MO"}})
	require.NoError(t, err)

	hols := cal.Between(model.Window{Start: model.MustDate("2024-04-01"), End: model.MustDate("2024-05-31")})

	require.Len(t, hols, 1)
	assert.Equal(t, model.MustDate("2024-05-06"), hols[0].Date)
}

func TestCalendar_OneOffDate(t *testing.T) {
	cal, err := NewCalendar([]Rule{{Name: "Coronation", Date: "2023-05-08"}})
	require.NoError(t, err)

	assert.Len(t, cal.Between(model.Window{Start: model.MustDate("2023-05-08"), End: model.MustDate("2023-05-08")}), 1)
	assert.Empty(t, cal.Between(model.Window{Start: model.MustDate("2023-05-09"), End: model.MustDate("2023-06-01")}))
}

func TestNewCalendar_Errors(t *testing.T) {
	tests := []struct {
		name string
		rule Rule
	}{
		{"bad rrule", Rule{Name: "x", RRule: "FREQ=SOMETIMES"}},
		{"bad date", Rule{Name: "x", Date: "25/12/2024"}},
		{"neither", Rule{Name: "x"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewCalendar([]Rule{tt.rule})
			assert.Error(t, err)
		})
	}
}

func TestByDate(t *testing.T) {
	index := ByDate([]Holiday{
		{Date: model.MustDate("2024-12-25"), Name: "Christmas Day"},
		{Date: model.MustDate("2024-12-25"), Name: "Staff party"},
		{Date: model.MustDate("2024-12-26"), Name: "Boxing Day"},
	})

	assert.Equal(t, map[string]string{
		"2024-12-25": "Christmas Day, Staff party",
		"2024-12-26": "Boxing Day",
	}, index)
}
