package grid

import (
	"strings"
	"time"

	"github.com/jakechorley/rostergrid/pkg/core/model"
)

// Cell colors. Values are CSS color strings so they can be handed to any renderer.
const (
	ColorNeutral      = "inherit"
	ColorShiftDefault = "rgba(249, 7, 2, 0.5)"
	ColorShiftLong    = "#FFB6C1"
	ColorShiftNight   = "#000000"
	ColorExtraDuty    = "#e8e17a"
	ColorLeave        = "rgba(144, 238, 144, 0.53)"
	ColorNotAvailable = "#808080b0"

	TextDefault = "black"
	TextNight   = "white"
)

type FontWeight string

const (
	FontNormal FontWeight = "normal"
	FontBold   FontWeight = "bold"
)

// Shift and status labels with special rendering
const (
	ShiftLongDay  = "Long day"
	ShiftSleepDay = "Sleep day"
	ShiftRDO      = "RDO"

	StatusReliever      = "Reliever"
	StatusBuddyRequired = "Buddy required"
	StatusNotAvailable  = "Not available"
	StatusPreOncall     = "Pre-oncall"
)

const (
	iconExtraDuty = "💵"
	iconSleep     = "💤"
	iconRDO       = "🏡"
	iconReliever  = "🛟"
	iconBuddy     = "🤝"
	iconPreOncall = "👶"
	markerUnknown = "*"
)

// Cell is the resolved display decision for one (date, person) grid cell
type Cell struct {
	Content    string // markup
	Label      string // Content with markup removed
	Background string
	TextColor  string
	FontWeight FontWeight
	Entity     model.CellRef // the record actually rendered; empty for blank and dangling cells
	Dangling   bool          // the reference named a record missing from the snapshot
	Statuses   []string      // labels of matched statuses, in match order
}

func blankCell() Cell {
	return Cell{
		Background: ColorNeutral,
		TextColor:  TextDefault,
		FontWeight: FontNormal,
	}
}

// ResolveCell turns one cell reference into display content and styling.
// It is a pure function of its arguments and never fails: references to records
// missing from the snapshot resolve to a blank cell.
func ResolveCell(ref model.CellRef, date time.Time, personID int64, table *model.Table) Cell {
	return resolve(ref, MatchStatuses(date, personID, table.Statuses), table)
}

func resolve(ref model.CellRef, matched []model.StatusRecord, table *model.Table) Cell {
	cell := blankCell()

	switch ref.Kind {
	case model.CellShift:
		shift, ok := table.Shifts[ref.ID]
		if !ok {
			cell.Dangling = true
			break
		}
		applyShift(&cell, shift)
		cell.Entity = ref
	case model.CellLeave:
		leave, ok := table.Leaves[ref.ID]
		if !ok {
			cell.Dangling = true
			break
		}
		applyLeave(&cell, leave)
		cell.Entity = ref
	}

	for _, status := range matched {
		applyStatus(&cell, status.Type)
		cell.Statuses = append(cell.Statuses, status.Type)
	}

	cell.Label = StripMarkup(cell.Content)
	return cell
}

func applyShift(cell *Cell, shift model.ShiftRecord) {
	cell.Content = shift.Type
	cell.FontWeight = FontBold
	cell.Background, cell.TextColor = ShiftColors(shift.Type)

	if shift.ExtraDuty {
		cell.Background = ColorExtraDuty
		cell.TextColor = TextDefault
		cell.Content += " " + iconExtraDuty
	}

	// Rest days replace everything above, including the extra duty marker.
	switch shift.Type {
	case ShiftSleepDay:
		cell.Background = ColorNeutral
		cell.Content = iconSleep
	case ShiftRDO:
		cell.Background = ColorNeutral
		cell.Content = iconRDO
	}
}

func applyLeave(cell *Cell, leave model.LeaveRecord) {
	cell.Background = ColorLeave
	cell.Content = leave.Type
	if leave.Portion != model.PortionAll && leave.Portion != "" {
		cell.Content += " <u>" + string(leave.Portion) + "</u>"
	}
}

func applyStatus(cell *Cell, statusType string) {
	switch statusType {
	case StatusReliever:
		if cell.Content == "" {
			cell.Content += small(iconReliever)
		}
	case StatusBuddyRequired:
		if cell.Content == ShiftLongDay {
			cell.Content += small(iconBuddy)
		}
	case StatusNotAvailable:
		cell.Background = ColorNotAvailable
		cell.Content += small("N/A")
	case StatusPreOncall:
		if cell.Content == "" {
			cell.Content += small(iconPreOncall)
		}
	default:
		cell.Content += markerUnknown
	}
}

func small(s string) string {
	return " <small>" + s + "</small>"
}

// ShiftColors picks background and text color from the shift type prefix
func ShiftColors(shiftType string) (background, text string) {
	upper := strings.ToUpper(shiftType)
	switch {
	case strings.HasPrefix(upper, "LONG"):
		return ColorShiftLong, TextDefault
	case strings.HasPrefix(upper, "NIGHT"):
		return ColorShiftNight, TextNight
	default:
		return ColorShiftDefault, TextDefault
	}
}

// StripMarkup removes tags from cell content and trims surrounding space
func StripMarkup(content string) string {
	var b strings.Builder
	inTag := false
	for _, r := range content {
		switch {
		case r == '<':
			inTag = true
		case r == '>' && inTag:
			inTag = false
		case !inTag:
			b.WriteRune(r)
		}
	}
	return strings.TrimSpace(b.String())
}
