package output

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/twiced-technology-gmbh/tasklens/internal/config"
	"github.com/twiced-technology-gmbh/tasklens/internal/date"
	"github.com/twiced-technology-gmbh/tasklens/internal/task"
	"github.com/twiced-technology-gmbh/tasklens/internal/view"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("244"))
	groupStyle  = lipgloss.NewStyle().Bold(true)
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	tagStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("110"))

	// Status group colors aligned with the TUI palette.
	statusStyles = map[config.StatusGroup]lipgloss.Style{
		config.StatusNotStarted: lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		config.StatusInProgress: lipgloss.NewStyle().Foreground(lipgloss.Color("33")),
		config.StatusPlanned:    lipgloss.NewStyle().Foreground(lipgloss.Color("62")),
		config.StatusCompleted:  lipgloss.NewStyle().Foreground(lipgloss.Color("34")),
		config.StatusAbandoned:  lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
	}

	// Priority colors, highest first.
	priorityStyles = map[int]lipgloss.Style{
		5: lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
		4: lipgloss.NewStyle().Foreground(lipgloss.Color("202")),
		3: lipgloss.NewStyle().Foreground(lipgloss.Color("208")),
		2: lipgloss.NewStyle().Foreground(lipgloss.Color("226")),
		1: lipgloss.NewStyle().Foreground(lipgloss.Color("242")),
	}

	dueStyles = map[string]lipgloss.Style{
		view.DueOverdue: lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
		view.DueToday:   lipgloss.NewStyle().Foreground(lipgloss.Color("208")),
	}
)

const (
	shortIDLen    = 8
	maxContentW   = 50
	maxTagsW      = 30
	maxLocationW  = 40
	statusColumnW = 16
)

// GroupsTable renders the groups of a view result, one table per group.
func GroupsTable(w io.Writer, res view.Result, cfg *config.Config, now time.Time) {
	if res.Total == 0 {
		fmt.Fprintln(os.Stderr, "No tasks found.")
		return
	}

	widths := columnWidths(res.Groups, cfg)
	header := fmt.Sprintf("%-*s %-*s %-*s %-*s %-*s %-*s %-*s %s",
		widths.id, "ID", widths.status, "STATUS", widths.prio, "PRI",
		widths.content, "CONTENT", widths.due, "DUE", widths.project, "PROJECT",
		widths.tags, "TAGS", "LOCATION")

	first := true
	var render func(groups []view.Group, indent string)
	render = func(groups []view.Group, indent string) {
		for _, g := range groups {
			if !first {
				fmt.Fprintln(w)
			}
			first = false
			title := fmt.Sprintf("%s%s (%d)", indent, g.Title, len(g.Tasks))
			fmt.Fprintln(w, groupStyle.Render(title))
			if len(g.Children) > 0 {
				render(g.Children, indent+"  ")
				continue
			}
			fmt.Fprintln(w, headerStyle.Render(strings.TrimRight(header, " ")))
			for _, t := range g.Tasks {
				fmt.Fprintln(w, strings.TrimRight(taskRow(t, cfg, now, widths), " "))
			}
		}
	}
	render(res.Groups, "")
}

type widths struct {
	id, status, prio, content, due, project, tags int
}

func columnWidths(groups []view.Group, cfg *config.Config) widths {
	const pad = 2
	ws := widths{id: shortIDLen + pad, status: 8, prio: 5, content: 9, due: 12, project: 9, tags: 6}
	var walk func([]view.Group)
	walk = func(gs []view.Group) {
		for _, g := range gs {
			for _, t := range g.Tasks {
				ws.status = max(ws.status, len(statusLabel(t, cfg))+pad)
				ws.content = max(ws.content, min(len(t.Content)+pad, maxContentW))
				ws.project = max(ws.project, len(t.Metadata.Project)+pad)
				ws.tags = max(ws.tags, min(len(strings.Join(t.Metadata.Tags, ","))+pad, maxTagsW))
			}
			walk(g.Children)
		}
	}
	walk(groups)
	return ws
}

func taskRow(t *task.Task, cfg *config.Config, now time.Time, ws widths) string {
	content := truncate(t.Content, ws.content-2)
	tags := strings.Join(t.Metadata.Tags, ",")
	if tags == "" {
		tags = dimStyle.Render("--")
	} else {
		tags = tagStyle.Render(truncate(tags, maxTagsW-2))
	}
	return fmt.Sprintf("%-*s %s %s %s %s %s %s %s",
		ws.id, ShortID(t.ID),
		padRight(styledStatus(t, cfg), ws.status),
		padRight(styledPriority(t.Metadata.Priority), ws.prio),
		padRight(content, ws.content),
		padRight(styledDue(t.Metadata.DueDate, now), ws.due),
		padRight(stringOrDash(t.Metadata.Project), ws.project),
		padRight(tags, ws.tags),
		dimStyle.Render(truncate(Location(t), maxLocationW)))
}

// TaskDetail renders a single task with full detail. The task content is
// rendered as markdown.
func TaskDetail(w io.Writer, t *task.Task, cfg *config.Config, now time.Time) {
	titleLine := "Task " + ShortID(t.ID)
	fmt.Fprintln(w, lipgloss.NewStyle().Bold(true).Render(titleLine))
	fmt.Fprintln(w, strings.Repeat("─", len(titleLine)))

	printField(w, "ID", t.ID)
	printField(w, "Status", styledStatus(t, cfg)+dimStyle.Render(" ["+t.Mark()+"]"))
	printField(w, "Priority", styledPriority(t.Metadata.Priority))
	printField(w, "Due", styledDue(t.Metadata.DueDate, now))
	printField(w, "Start", dateOrDash(t.Metadata.StartDate))
	printField(w, "Scheduled", dateOrDash(t.Metadata.ScheduledDate))
	if t.Metadata.CompletedDate != nil {
		printField(w, "Completed", t.Metadata.CompletedDate.String())
	}
	printField(w, "Project", stringOrDash(t.Metadata.Project))
	printField(w, "Context", stringOrDash(t.Metadata.Context))
	if len(t.Metadata.Tags) > 0 {
		printField(w, "Tags", tagStyle.Render(strings.Join(t.Metadata.Tags, ", ")))
	} else {
		printField(w, "Tags", dimStyle.Render("--"))
	}
	printField(w, "Location", Location(t))

	if strings.TrimSpace(t.Content) != "" {
		fmt.Fprintln(w)
		fmt.Fprint(w, RenderMarkdown(t.Content))
	}
}

// RenderMarkdown renders markdown for the terminal, falling back to the
// raw text when rendering fails.
func RenderMarkdown(md string) string {
	style := "dark"
	if !colorEnabled {
		style = "notty"
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(80), //nolint:mnd // terminal width
	)
	if err != nil {
		return md + "\n"
	}
	out, err := r.Render(md)
	if err != nil {
		return md + "\n"
	}
	return out
}

// OverviewTable renders a snapshot summary as a formatted dashboard.
func OverviewTable(w io.Writer, title string, s view.Overview) {
	fmt.Fprintln(w, lipgloss.NewStyle().Bold(true).Render(title))
	fmt.Fprintf(w, "Total: %d tasks, %d overdue\n\n", s.TotalTasks, s.Overdue)

	fmt.Fprintln(w, headerStyle.Render(fmt.Sprintf("%-16s %6s %8s", "STATUS", "COUNT", "OVERDUE")))
	for _, ss := range s.Statuses {
		st, ok := statusStyles[ss.Group]
		label := ss.Label
		if ok {
			label = st.Render(label)
		}
		fmt.Fprintf(w, "%s %6d %8d\n", padRight(label, statusColumnW), ss.Count, ss.Overdue)
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, headerStyle.Render(fmt.Sprintf("%-16s %6s", "PRIORITY", "COUNT")))
	for _, pc := range s.Priorities {
		fmt.Fprintf(w, "%s %6d\n", padRight(styledPriority(pc.Priority), statusColumnW), pc.Count)
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, headerStyle.Render(fmt.Sprintf("%-16s %6s", "DUE", "COUNT")))
	for _, dc := range s.Due {
		label := dc.Label
		if st, ok := dueStyles[label]; ok {
			label = st.Render(label)
		}
		fmt.Fprintf(w, "%s %6d\n", padRight(label, statusColumnW), dc.Count)
	}
}

// ViewSummary describes one configured view with its effective settings.
type ViewSummary struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	GroupBy string `json:"groupBy"`
	Nested  bool   `json:"nestedFiles"`
	Sort    string `json:"sort"`
	Hide    bool   `json:"hideCompletedAndAbandonedTasks"`
	Default bool   `json:"default"`
}

// ViewsTable renders the configured views.
func ViewsTable(w io.Writer, views []ViewSummary) {
	if len(views) == 0 {
		fmt.Fprintln(os.Stderr, "No views configured.")
		return
	}
	idW, nameW, groupW := 4, 6, 10
	for _, v := range views {
		idW = max(idW, len(v.ID)+3)
		nameW = max(nameW, len(v.Name)+2)
		groupW = max(groupW, len(v.GroupBy)+2)
	}
	header := fmt.Sprintf("%-*s %-*s %-*s %s", idW, "ID", nameW, "NAME", groupW, "GROUP BY", "SORT")
	fmt.Fprintln(w, headerStyle.Render(header))
	for _, v := range views {
		id := v.ID
		if v.Default {
			id += "*"
		}
		group := v.GroupBy
		if v.Nested {
			group += "/nested"
		}
		fmt.Fprintf(w, "%-*s %-*s %-*s %s\n", idW, id, nameW, v.Name, groupW, group, dimStyle.Render(v.Sort))
	}
}

// Messagef prints a simple formatted message line.
func Messagef(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, format+"\n", args...)
}

func printField(w io.Writer, label, value string) {
	fmt.Fprintf(w, "  %-12s %s\n", label+":", value)
}

// ShortID abbreviates a task id for display.
func ShortID(id string) string {
	if len(id) > shortIDLen {
		return id[:shortIDLen]
	}
	return id
}

// Location renders a task's file position as path:line.
func Location(t *task.Task) string {
	if t.Line > 0 {
		return t.FilePath + ":" + strconv.Itoa(t.Line)
	}
	return t.FilePath
}

func statusLabel(t *task.Task, cfg *config.Config) string {
	return cfg.StatusGroupOf(t.Mark()).Label()
}

func styledStatus(t *task.Task, cfg *config.Config) string {
	g := cfg.StatusGroupOf(t.Mark())
	if st, ok := statusStyles[g]; ok {
		return st.Render(g.Label())
	}
	return g.Label()
}

// PriorityLabel renders a priority as P1..P5, or "--" for none.
func PriorityLabel(p int) string {
	if p <= 0 {
		return "--"
	}
	return "P" + strconv.Itoa(p)
}

func styledPriority(p int) string {
	label := PriorityLabel(p)
	if st, ok := priorityStyles[p]; ok {
		return st.Render(label)
	}
	return dimStyle.Render(label)
}

func styledDue(due *date.Timestamp, now time.Time) string {
	if due == nil {
		return dimStyle.Render("--")
	}
	s := due.String()
	if st, ok := dueStyles[view.DueLabel(due, now)]; ok {
		return st.Render(s)
	}
	return s
}

func dateOrDash(ts *date.Timestamp) string {
	if ts == nil {
		return dimStyle.Render("--")
	}
	return ts.String()
}

// padRight pads s with spaces to the given visible width, accounting for ANSI
// escape codes that are invisible but consume bytes.
func padRight(s string, width int) string {
	visible := lipgloss.Width(s)
	if visible >= width {
		return s
	}
	return s + strings.Repeat(" ", width-visible)
}

func truncate(s string, width int) string {
	r := []rune(s)
	if width <= 3 || len(r) <= width { //nolint:mnd // room for the ellipsis
		return s
	}
	return string(r[:width-3]) + "..."
}

func stringOrDash(s string) string {
	if s == "" {
		return dimStyle.Render("--")
	}
	return s
}
