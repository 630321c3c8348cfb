package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/twiced-technology-gmbh/tasklens/internal/config"
	"github.com/twiced-technology-gmbh/tasklens/internal/date"
	"github.com/twiced-technology-gmbh/tasklens/internal/task"
	"github.com/twiced-technology-gmbh/tasklens/internal/view"
)

func init() {
	DisableColor()
}

var testNow = time.Date(2025, time.March, 10, 9, 30, 0, 0, time.Local)

func sampleTasks() []*task.Task {
	return []*task.Task{
		{
			ID:       "0123456789abcdef",
			Status:   " ",
			Content:  "Write report",
			FilePath: "work/notes.md",
			Line:     4,
			Metadata: task.Metadata{
				Priority: 3,
				Project:  "acme",
				Tags:     []string{"#work", "urgent"},
				DueDate:  date.Ptr(date.On(2025, time.March, 12)),
			},
		},
		{ID: "short", Status: "-", Content: "Old idea", FilePath: "inbox.md"},
	}
}

func TestDetect(t *testing.T) {
	t.Setenv(EnvFormat, "")
	assert.Equal(t, FormatJSON, Detect(true, true, true))
	assert.Equal(t, FormatCompact, Detect(false, true, true))
	assert.Equal(t, FormatTable, Detect(false, true, false))
	assert.Equal(t, FormatTable, Detect(false, false, false))

	t.Setenv(EnvFormat, "oneline")
	assert.Equal(t, FormatCompact, Detect(false, false, false))
	t.Setenv(EnvFormat, "json")
	assert.Equal(t, FormatJSON, Detect(false, false, false))
	assert.Equal(t, FormatTable, Detect(false, true, false))
}

func TestFormatTaskLine(t *testing.T) {
	cfg := config.NewDefault()
	tasks := sampleTasks()
	assert.Equal(t,
		"01234567 [ ] Write report P3 +acme #work #urgent due:2025-03-12",
		formatTaskLine(tasks[0], cfg))
	assert.Equal(t, "short [-] Old idea (cancelled)", formatTaskLine(tasks[1], cfg))
}

func TestGroupsCompact(t *testing.T) {
	cfg := config.NewDefault()
	tasks := []*task.Task{
		{ID: "a", Status: " ", Content: "one", FilePath: "proj/a.md"},
		{ID: "b", Status: " ", Content: "two", FilePath: "x.md"},
	}
	res := view.Run(tasks, cfg, view.Query{ViewID: "files", Now: testNow})

	var buf bytes.Buffer
	GroupsCompact(&buf, res, cfg)
	want := strings.Join([]string{
		"== Root Files (1)",
		"  == x (1)",
		"  b [ ] two",
		"== proj (1)",
		"  == a (1)",
		"  a [ ] one",
		"",
	}, "\n")
	assert.Equal(t, want, buf.String())
}

func TestTaskDetailCompact(t *testing.T) {
	tk := sampleTasks()[0]
	tk.Metadata.Context = "office"
	tk.Metadata.StartDate = date.Ptr(date.On(2025, time.March, 1))

	var buf bytes.Buffer
	TaskDetailCompact(&buf, tk, config.NewDefault())
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "  start:2025-03-01 context:office", lines[1])
	assert.Equal(t, "  work/notes.md:4", lines[2])
}

func TestOverviewCompact(t *testing.T) {
	cfg := config.NewDefault()
	ov := view.Summarize(sampleTasks(), cfg, testNow)

	var buf bytes.Buffer
	OverviewCompact(&buf, "All tasks", ov)
	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "All tasks (2 tasks, 0 overdue)\n"))
	assert.Contains(t, out, "  Todo: 1\n")
	assert.Contains(t, out, "  Cancelled: 1\n")
	assert.Contains(t, out, "Priority: P5=0 P4=0 P3=1 P2=0 P1=0 --=1\n")
	assert.Contains(t, out, "Due: This Week=1, No Due Date=1\n")
}

func TestViewsCompact(t *testing.T) {
	var buf bytes.Buffer
	ViewsCompact(&buf, []ViewSummary{
		{ID: "files", Name: "Files", GroupBy: "filePath", Nested: true, Sort: "lineNumber:asc"},
		{ID: "inbox", Name: "Inbox", GroupBy: "none", Default: true},
	})
	assert.Equal(t,
		"files \"Files\" group:filePath nested sort:lineNumber:asc\n"+
			"inbox \"Inbox\" group:none (default)\n",
		buf.String())
}

func TestGroupsTable(t *testing.T) {
	cfg := config.NewDefault()
	res := view.Run(sampleTasks(), cfg, view.Query{ViewID: "projects", Now: testNow})

	var buf bytes.Buffer
	GroupsTable(&buf, res, cfg, testNow)
	out := buf.String()
	assert.Contains(t, out, "acme (1)")
	assert.Contains(t, out, "CONTENT")
	assert.Contains(t, out, "01234567")
	assert.Contains(t, out, "work/notes.md:4")
	assert.NotContains(t, out, "Old idea", "cancelled tasks are hidden by the view")
}

func TestTaskDetail(t *testing.T) {
	var buf bytes.Buffer
	TaskDetail(&buf, sampleTasks()[0], config.NewDefault(), testNow)
	out := buf.String()
	assert.Contains(t, out, "0123456789abcdef")
	assert.Contains(t, out, "Write report")
	assert.Contains(t, out, "2025-03-12")
}

func TestJSONError(t *testing.T) {
	var buf bytes.Buffer
	JSONError(&buf, "VIEW_NOT_FOUND", "view \"x\" not found", map[string]any{"view": "x"})

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "VIEW_NOT_FOUND", resp.Code)
	assert.Equal(t, "x", resp.Details["view"])
}

func TestHelpers(t *testing.T) {
	assert.Equal(t, "abc", ShortID("abc"))
	assert.Equal(t, "--", PriorityLabel(0))
	assert.Equal(t, "P5", PriorityLabel(5))
	assert.Equal(t, "inbox.md", Location(&task.Task{FilePath: "inbox.md"}))
}
