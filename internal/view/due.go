package view

import (
	"time"

	"github.com/twiced-technology-gmbh/tasklens/internal/date"
)

// Due labels, in chronological order.
const (
	DueOverdue  = "Overdue"
	DueToday    = "Today"
	DueTomorrow = "Tomorrow"
	DueThisWeek = "This Week"
	DueNextWeek = "Next Week"
	DueLater    = "Later"
	DueNone     = "No Due Date"
)

var dueLabels = []string{DueOverdue, DueToday, DueTomorrow, DueThisWeek, DueNextWeek, DueLater, DueNone}

// DueLabel buckets a due date relative to now for compact displays. Unlike
// the dueDate grouping dimension it splits out a "Next Week" bucket (8 to
// 14 days ahead).
func DueLabel(due *date.Timestamp, now time.Time) string {
	if due == nil {
		return DueNone
	}
	now = nowOr(now)
	today := date.StartOfDay(now)
	days := daysBetween(today, date.Day(*due, now.Location()))
	switch {
	case days < 0:
		return DueOverdue
	case days == 0:
		return DueToday
	case days == 1:
		return DueTomorrow
	case days <= 7: //nolint:mnd // one week
		return DueThisWeek
	case days <= 14: //nolint:mnd // two weeks
		return DueNextWeek
	default:
		return DueLater
	}
}

// daysBetween counts calendar days from one midnight to another. Rounding
// absorbs the hour gained or lost across a DST change.
func daysBetween(from, to time.Time) int {
	return int(to.Sub(from).Round(24*time.Hour) / (24 * time.Hour))
}
