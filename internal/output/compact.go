package output

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/twiced-technology-gmbh/tasklens/internal/config"
	"github.com/twiced-technology-gmbh/tasklens/internal/date"
	"github.com/twiced-technology-gmbh/tasklens/internal/task"
	"github.com/twiced-technology-gmbh/tasklens/internal/view"
)

// GroupsCompact renders a view result with one line per group header and
// one line per task.
func GroupsCompact(w io.Writer, res view.Result, cfg *config.Config) {
	if res.Total == 0 {
		fmt.Fprintln(os.Stderr, "No tasks found.")
		return
	}
	var render func(groups []view.Group, indent string)
	render = func(groups []view.Group, indent string) {
		for _, g := range groups {
			fmt.Fprintf(w, "%s== %s (%d)\n", indent, g.Title, len(g.Tasks))
			if len(g.Children) > 0 {
				render(g.Children, indent+"  ")
				continue
			}
			for _, t := range g.Tasks {
				fmt.Fprintln(w, indent+formatTaskLine(t, cfg))
			}
		}
	}
	render(res.Groups, "")
}

// TaskDetailCompact renders a single task in compact format.
func TaskDetailCompact(w io.Writer, t *task.Task, cfg *config.Config) {
	fmt.Fprintln(w, formatTaskLine(t, cfg))

	var dates []string
	for _, d := range []struct {
		label string
		ts    *date.Timestamp
	}{
		{"start", t.Metadata.StartDate},
		{"scheduled", t.Metadata.ScheduledDate},
		{"completed", t.Metadata.CompletedDate},
	} {
		if d.ts != nil {
			dates = append(dates, d.label+":"+d.ts.String())
		}
	}
	if t.Metadata.Context != "" {
		dates = append(dates, "context:"+t.Metadata.Context)
	}
	if len(dates) > 0 {
		fmt.Fprintln(w, "  "+strings.Join(dates, " "))
	}
	fmt.Fprintln(w, "  "+Location(t))
}

// OverviewCompact renders a snapshot summary in compact format.
func OverviewCompact(w io.Writer, title string, s view.Overview) {
	fmt.Fprintf(w, "%s (%d tasks, %d overdue)\n", title, s.TotalTasks, s.Overdue)

	for _, ss := range s.Statuses {
		line := "  " + ss.Label + ": " + strconv.Itoa(ss.Count)
		if ss.Overdue > 0 {
			line += " (" + strconv.Itoa(ss.Overdue) + " overdue)"
		}
		fmt.Fprintln(w, line)
	}

	parts := make([]string, 0, len(s.Priorities))
	for _, pc := range s.Priorities {
		parts = append(parts, PriorityLabel(pc.Priority)+"="+strconv.Itoa(pc.Count))
	}
	fmt.Fprintln(w, "Priority: "+strings.Join(parts, " "))

	parts = parts[:0]
	for _, dc := range s.Due {
		if dc.Count > 0 {
			parts = append(parts, dc.Label+"="+strconv.Itoa(dc.Count))
		}
	}
	if len(parts) > 0 {
		fmt.Fprintln(w, "Due: "+strings.Join(parts, ", "))
	}
}

// ViewsCompact renders the configured views, one per line.
func ViewsCompact(w io.Writer, views []ViewSummary) {
	for _, v := range views {
		line := v.ID + " " + strconv.Quote(v.Name) + " group:" + v.GroupBy
		if v.Nested {
			line += " nested"
		}
		if v.Sort != "" {
			line += " sort:" + v.Sort
		}
		if v.Default {
			line += " (default)"
		}
		fmt.Fprintln(w, line)
	}
}

// formatTaskLine builds the one-line representation of a task.
func formatTaskLine(t *task.Task, cfg *config.Config) string {
	line := ShortID(t.ID) + " [" + t.Mark() + "] " + t.Content
	if t.Metadata.Priority > 0 {
		line += " " + PriorityLabel(t.Metadata.Priority)
	}
	if t.Metadata.Project != "" {
		line += " +" + t.Metadata.Project
	}
	if len(t.Metadata.Tags) > 0 {
		tags := make([]string, len(t.Metadata.Tags))
		for i, tag := range t.Metadata.Tags {
			tags[i] = "#" + view.NormalizeTag(tag)
		}
		line += " " + strings.Join(tags, " ")
	}
	if t.Metadata.DueDate != nil {
		line += " due:" + t.Metadata.DueDate.String()
	}
	if cfg.IsAbandonedMark(t.Mark()) {
		line += " (cancelled)"
	}
	return line
}
