package view

import (
	"time"

	"github.com/twiced-technology-gmbh/tasklens/internal/config"
	"github.com/twiced-technology-gmbh/tasklens/internal/date"
	"github.com/twiced-technology-gmbh/tasklens/internal/task"
)

// StatusSummary holds metrics for a single status group.
type StatusSummary struct {
	Group   config.StatusGroup `json:"group"`
	Label   string             `json:"label"`
	Count   int                `json:"count"`
	Overdue int                `json:"overdue"`
}

// PriorityCount holds a count for a priority level.
type PriorityCount struct {
	Priority int `json:"priority"`
	Count    int `json:"count"`
}

// DueCount holds a count for a due label.
type DueCount struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// Overview is the aggregate snapshot overview shown by the board command.
type Overview struct {
	TotalTasks int             `json:"totalTasks"`
	Overdue    int             `json:"overdue"`
	Statuses   []StatusSummary `json:"statuses"`
	Priorities []PriorityCount `json:"priorities"`
	Due        []DueCount      `json:"due"`
}

// Summarize computes an overview of tasks. Status groups follow the
// configured status order; a task is overdue when its due day is before
// today and it is neither completed nor abandoned.
func Summarize(tasks []*task.Task, cfg *config.Config, now time.Time) Overview {
	now = nowOr(now)
	today := date.StartOfDay(now)

	order := cfg.OrderedStatusGroups()
	statusMap := make(map[config.StatusGroup]*StatusSummary, len(order))
	statuses := make([]*StatusSummary, 0, len(order))
	for _, g := range order {
		ss := &StatusSummary{Group: g, Label: g.Label()}
		statusMap[g] = ss
		statuses = append(statuses, ss)
	}

	prioCounts := make([]int, task.MaxPriority+1)
	dueCounts := make(map[string]int, len(dueLabels))
	var overdue int

	for _, t := range tasks {
		g := cfg.StatusGroupOf(t.Mark())
		ss, ok := statusMap[g]
		if !ok {
			ss = &StatusSummary{Group: g, Label: g.Label()}
			statusMap[g] = ss
			statuses = append(statuses, ss)
		}
		ss.Count++

		open := g != config.StatusCompleted && g != config.StatusAbandoned && !t.Completed
		if open && t.Metadata.DueDate != nil && date.Day(*t.Metadata.DueDate, now.Location()).Before(today) {
			ss.Overdue++
			overdue++
		}

		p := min(max(t.Metadata.Priority, task.MinPriority), task.MaxPriority)
		prioCounts[p]++
		dueCounts[DueLabel(t.Metadata.DueDate, now)]++
	}

	out := Overview{
		TotalTasks: len(tasks),
		Overdue:    overdue,
		Statuses:   make([]StatusSummary, 0, len(statuses)),
		Priorities: make([]PriorityCount, 0, len(prioCounts)),
		Due:        make([]DueCount, 0, len(dueLabels)),
	}
	for _, ss := range statuses {
		out.Statuses = append(out.Statuses, *ss)
	}
	for p := task.MaxPriority; p >= task.MinPriority; p-- {
		out.Priorities = append(out.Priorities, PriorityCount{Priority: p, Count: prioCounts[p]})
	}
	for _, l := range dueLabels {
		out.Due = append(out.Due, DueCount{Label: l, Count: dueCounts[l]})
	}
	return out
}
