package view

import (
	"time"

	"github.com/twiced-technology-gmbh/tasklens/internal/date"
	"github.com/twiced-technology-gmbh/tasklens/internal/task"
)

// testNow is a Monday morning; all relative dates hang off it.
var testNow = time.Date(2025, time.March, 10, 9, 30, 0, 0, time.Local)

// dueIn returns local midnight days after testNow's day.
func dueIn(days int) *date.Timestamp {
	return &date.Timestamp{Time: date.AddDays(testNow, days)}
}

func ids(tasks []*task.Task) []string {
	out := make([]string, len(tasks))
	for i, t := range tasks {
		out[i] = t.ID
	}
	return out
}

func keys(groups []Group) []string {
	out := make([]string, len(groups))
	for i, g := range groups {
		out[i] = g.Key
	}
	return out
}

func titles(groups []Group) []string {
	out := make([]string, len(groups))
	for i, g := range groups {
		out[i] = g.Title
	}
	return out
}

func counts(groups []Group) []int {
	out := make([]int, len(groups))
	for i, g := range groups {
		out[i] = len(g.Tasks)
	}
	return out
}
