package grid

import (
	"time"

	"github.com/jakechorley/rostergrid/pkg/core/model"
)

// LeaveSummary holds the per-date leave counts shown in the grid footer.
// Approved and Pending are counted independently and need not sum to Total.
type LeaveSummary struct {
	Total    int
	Approved int
	Pending  int
}

// AggregateLeaves counts the distinct, non-cancelled leaves referenced on one date.
// The same leave may be referenced from several columns; it is counted once.
func AggregateLeaves(date time.Time, leaves []model.LeaveRecord) LeaveSummary {
	var summary LeaveSummary
	seen := make(map[int64]struct{}, len(leaves))
	for _, leave := range leaves {
		if _, dup := seen[leave.ID]; dup {
			continue
		}
		seen[leave.ID] = struct{}{}

		if leave.Cancelled {
			continue
		}
		summary.Total++
		if leave.Approved {
			summary.Approved++
		}
		if leave.Pending {
			summary.Pending++
		}
	}
	return summary
}

// GroupLeavesByDate collects every leave reference in the grid, keyed by row date.
// References to leaves missing from the snapshot are skipped.
func GroupLeavesByDate(table *model.Table) map[time.Time][]model.LeaveRecord {
	groups := make(map[time.Time][]model.LeaveRecord)
	for _, row := range table.Rows {
		key := model.Day(row.Date)
		for _, ref := range row.Cells {
			if ref.Kind != model.CellLeave {
				continue
			}
			leave, ok := table.Leaves[ref.ID]
			if !ok {
				continue
			}
			groups[key] = append(groups[key], leave)
		}
	}
	return groups
}

// SummarizeLeaves computes the footer counts for every date in one grouped pass
func SummarizeLeaves(table *model.Table) map[string]LeaveSummary {
	groups := GroupLeavesByDate(table)
	summaries := make(map[string]LeaveSummary, len(groups))
	for date, leaves := range groups {
		summaries[model.FormatDate(date)] = AggregateLeaves(date, leaves)
	}
	return summaries
}
