package view

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/twiced-technology-gmbh/tasklens/internal/config"
	"github.com/twiced-technology-gmbh/tasklens/internal/task"
)

func filterIDs(t *testing.T, tasks []*task.Task, vc config.ViewConfig, opts FilterOptions) []string {
	t.Helper()
	if opts.Now.IsZero() {
		opts.Now = testNow
	}
	return ids(FilterWith(tasks, vc, config.NewDefault(), opts))
}

func TestFilterHidesCompletedAndAbandoned(t *testing.T) {
	tasks := []*task.Task{
		{ID: "open", Status: " ", Content: "open"},
		{ID: "done", Status: "x", Completed: true, Content: "done"},
		{ID: "flag", Completed: true, Content: "completed flag without mark"},
		{ID: "dropped", Status: "-", Content: "abandoned"},
		{ID: "doing", Status: "/", Content: "in progress"},
	}

	got := filterIDs(t, tasks, config.ViewConfig{HideCompletedAndAbandonedTasks: true}, FilterOptions{})
	assert.Equal(t, []string{"open", "doing"}, got)

	got = filterIDs(t, tasks, config.ViewConfig{}, FilterOptions{})
	assert.Len(t, got, len(tasks))
}

func TestFilterBlanks(t *testing.T) {
	tasks := []*task.Task{
		{ID: "a", Content: "write report"},
		{ID: "b", Content: "   "},
		{ID: "c", Content: ""},
	}
	assert.Equal(t, []string{"a"}, filterIDs(t, tasks, config.ViewConfig{FilterBlanks: true}, FilterOptions{}))
	assert.Len(t, filterIDs(t, tasks, config.ViewConfig{}, FilterOptions{}), 3)
}

func TestFilterRules(t *testing.T) {
	tasks := []*task.Task{
		{ID: "w", Content: "Email Bob", FilePath: "work/inbox.md",
			Metadata: task.Metadata{Tags: []string{"#Work"}, Project: "Acme", Priority: 3}},
		{ID: "h", Content: "Buy milk", FilePath: "home/list.md",
			Metadata: task.Metadata{Tags: []string{"home", "errand"}, Context: "shop", Priority: 1}},
		{ID: "n", Content: "Read book", FilePath: "notes.md"},
	}

	tests := []struct {
		name  string
		rules config.FilterRules
		want  []string
	}{
		{"no rules", config.FilterRules{}, []string{"w", "h", "n"}},
		{"include tag ignores hash and case", config.FilterRules{IncludeTags: []string{"work"}}, []string{"w"}},
		{"exclude tag", config.FilterRules{ExcludeTags: []string{"#errand"}}, []string{"w", "n"}},
		{"include project", config.FilterRules{IncludeProjects: []string{"acme"}}, []string{"w"}},
		{"exclude project keeps untagged", config.FilterRules{ExcludeProjects: []string{"Acme"}}, []string{"h", "n"}},
		{"include context", config.FilterRules{IncludeContexts: []string{"SHOP"}}, []string{"h"}},
		{"include path", config.FilterRules{IncludePaths: []string{"Work/"}}, []string{"w"}},
		{"exclude path", config.FilterRules{ExcludePaths: []string{"home"}}, []string{"w", "n"}},
		{"query", config.FilterRules{Query: "milk"}, []string{"h"}},
		{"min priority", config.FilterRules{MinPriority: 2}, []string{"w"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := filterIDs(t, tasks, config.ViewConfig{FilterRules: tt.rules}, FilterOptions{})
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("filter mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestFilterDueRules(t *testing.T) {
	tasks := []*task.Task{
		{ID: "late", Metadata: task.Metadata{DueDate: dueIn(-2)}},
		{ID: "today", Metadata: task.Metadata{DueDate: dueIn(0)}},
		{ID: "soon", Metadata: task.Metadata{DueDate: dueIn(3)}},
		{ID: "far", Metadata: task.Metadata{DueDate: dueIn(30)}},
		{ID: "none"},
	}

	got := filterIDs(t, tasks, config.ViewConfig{FilterRules: config.FilterRules{Overdue: true}}, FilterOptions{})
	assert.Equal(t, []string{"late"}, got)

	got = filterIDs(t, tasks, config.ViewConfig{FilterRules: config.FilterRules{DueWithinDays: 7}}, FilterOptions{})
	assert.Equal(t, []string{"today", "soon"}, got)
}

func TestFilterTextQuery(t *testing.T) {
	tasks := []*task.Task{
		{ID: "a", Content: "Call the Dentist"},
		{ID: "b", Content: "Pay rent"},
	}
	got := filterIDs(t, tasks, config.ViewConfig{}, FilterOptions{TextQuery: "dentist"})
	assert.Equal(t, []string{"a"}, got)

	got = filterIDs(t, tasks, config.ViewConfig{}, FilterOptions{TextQuery: "  "})
	assert.Equal(t, []string{"a", "b"}, got)
}

func TestFilterUnknownViewUsesDefault(t *testing.T) {
	cfg := config.NewDefault()
	tasks := []*task.Task{
		{ID: "open", Status: " "},
		{ID: "done", Status: "x", Completed: true},
	}
	got := Filter(tasks, "no-such-view", cfg, FilterOptions{Now: testNow})
	assert.Equal(t, []string{"open"}, ids(got))

	got = Filter(tasks, "inbox", nil, FilterOptions{Now: testNow})
	assert.Equal(t, []string{"open"}, ids(got))
}

func TestFilterEmptyInput(t *testing.T) {
	got := Filter(nil, "inbox", config.NewDefault(), FilterOptions{})
	require.NotNil(t, got)
	assert.Empty(t, got)
}

func TestFilterDoesNotModifyInput(t *testing.T) {
	tasks := []*task.Task{
		{ID: "b", Status: "x", Completed: true},
		{ID: "a", Status: " "},
	}
	before := append([]*task.Task{}, tasks...)
	_ = Filter(tasks, "inbox", config.NewDefault(), FilterOptions{Now: testNow})
	assert.Equal(t, before, tasks)
}

func TestFilterThenSortScenario(t *testing.T) {
	tasks := []*task.Task{
		{ID: "a", Status: " ", Metadata: task.Metadata{DueDate: dueIn(3)}},
		{ID: "b", Status: "x", Completed: true, Metadata: task.Metadata{DueDate: dueIn(1)}},
		{ID: "c", Status: " ", Metadata: task.Metadata{DueDate: dueIn(2)}},
	}
	cfg := config.NewDefault()
	vc := config.ViewConfig{ID: "v", HideCompletedAndAbandonedTasks: true}

	filtered := FilterWith(tasks, vc, cfg, FilterOptions{Now: testNow})
	assert.Equal(t, []string{"a", "c"}, ids(filtered))

	sorted := Sort(filtered, []config.SortCriterion{{Field: config.FieldDueDate, Order: config.OrderAsc}}, cfg)
	assert.Equal(t, []string{"c", "a"}, ids(sorted))
}

func TestFilterIdempotent(t *testing.T) {
	cfg := config.NewDefault()
	tasks := []*task.Task{
		{ID: "1", Status: " ", Content: "x", Metadata: task.Metadata{Tags: []string{"a"}}},
		{ID: "2", Status: "x", Completed: true, Content: "y"},
		{ID: "3", Status: "-", Content: "z"},
		{ID: "4", Status: "?", Content: ""},
	}
	once := Filter(tasks, "inbox", cfg, FilterOptions{Now: testNow})
	twice := Filter(once, "inbox", cfg, FilterOptions{Now: testNow})
	assert.Equal(t, ids(once), ids(twice))
}
