package config

import (
	"slices"
	"strings"
)

// StatusGroup is a semantic category of raw status marks.
type StatusGroup string

// Known status groups.
const (
	StatusNotStarted StatusGroup = "notStarted"
	StatusInProgress StatusGroup = "inProgress"
	StatusPlanned    StatusGroup = "planned"
	StatusCompleted  StatusGroup = "completed"
	StatusAbandoned  StatusGroup = "abandoned"
)

// statusMatchOrder is the order in which groups claim a mark when a mark is
// (invalidly) listed in more than one group.
var statusMatchOrder = []StatusGroup{
	StatusInProgress,
	StatusNotStarted,
	StatusCompleted,
	StatusAbandoned,
	StatusPlanned,
}

// Valid reports whether g is one of the known status groups.
func (g StatusGroup) Valid() bool {
	return slices.Contains(statusMatchOrder, g)
}

// Label returns the display name of the status group.
func (g StatusGroup) Label() string {
	switch g {
	case StatusNotStarted:
		return "Todo"
	case StatusInProgress:
		return "In Progress"
	case StatusPlanned:
		return "Planned"
	case StatusCompleted:
		return "Completed"
	case StatusAbandoned:
		return "Cancelled"
	default:
		return "Other"
	}
}

// StatusGroups returns every known status group.
func StatusGroups() []StatusGroup {
	return slices.Clone(statusMatchOrder)
}

func splitMarks(marks string) []string {
	return strings.Split(marks, "|")
}

func (c *Config) taskStatuses() map[StatusGroup]string {
	if c == nil || len(c.TaskStatuses) == 0 {
		return DefaultTaskStatuses()
	}
	return c.TaskStatuses
}

// StatusGroupOf resolves a raw status mark to its status group. Marks not
// listed in any group fall back to count_other_statuses_as.
func (c *Config) StatusGroupOf(mark string) StatusGroup {
	statuses := c.taskStatuses()
	for _, g := range statusMatchOrder {
		if slices.Contains(splitMarks(statuses[g]), mark) {
			return g
		}
	}
	if c != nil && c.CountOtherStatusesAs.Valid() {
		return c.CountOtherStatusesAs
	}
	return StatusNotStarted
}

// IsCompletedMark reports whether mark belongs to the completed group.
func (c *Config) IsCompletedMark(mark string) bool {
	return c.StatusGroupOf(mark) == StatusCompleted
}

// IsAbandonedMark reports whether mark belongs to the abandoned group.
func (c *Config) IsAbandonedMark(mark string) bool {
	return c.StatusGroupOf(mark) == StatusAbandoned
}

// OrderedStatusGroups returns the configured status order, or the default.
func (c *Config) OrderedStatusGroups() []StatusGroup {
	if c == nil || len(c.StatusOrder) == 0 {
		return DefaultStatusOrder
	}
	return c.StatusOrder
}

// StatusOrdinal returns the position of a status group in the sort order.
// Groups missing from the order sort after all listed ones.
func (c *Config) StatusOrdinal(g StatusGroup) int {
	order := c.OrderedStatusGroups()
	if i := slices.Index(order, g); i >= 0 {
		return i
	}
	return len(order)
}
