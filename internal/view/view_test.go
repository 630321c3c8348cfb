package view

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/twiced-technology-gmbh/tasklens/internal/config"
	"github.com/twiced-technology-gmbh/tasklens/internal/task"
)

func TestRunUsesViewGrouping(t *testing.T) {
	cfg := config.NewDefault()
	tasks := []*task.Task{
		{ID: "a", Status: " ", Content: "a", Metadata: task.Metadata{Project: "home"}},
		{ID: "b", Status: " ", Content: "b"},
		{ID: "c", Status: "x", Completed: true, Content: "c", Metadata: task.Metadata{Project: "home"}},
	}
	res := Run(tasks, cfg, Query{ViewID: "projects", Now: testNow})

	assert.Equal(t, DimProject, res.GroupBy)
	assert.Equal(t, "projects", res.View.ID)
	assert.Equal(t, 2, res.Total)
	assert.Equal(t, []string{"home", "No Project"}, titles(res.Groups))
}

func TestRunGroupByOverride(t *testing.T) {
	cfg := config.NewDefault()
	tasks := []*task.Task{
		{ID: "a", Status: " ", Content: "a", Metadata: task.Metadata{Priority: 3}},
		{ID: "b", Status: " ", Content: "b"},
	}
	res := Run(tasks, cfg, Query{ViewID: "projects", GroupBy: DimPriority, Now: testNow})
	assert.Equal(t, DimPriority, res.GroupBy)
	assert.Equal(t, []string{"priority-high", "priority-none"}, keys(res.Groups))
}

func TestRunSortsEachGroup(t *testing.T) {
	cfg := config.NewDefault()
	tasks := []*task.Task{
		{ID: "w-late", Status: " ", Metadata: task.Metadata{Tags: []string{"work"}, DueDate: dueIn(4)}},
		{ID: "w-soon", Status: " ", Metadata: task.Metadata{Tags: []string{"work"}, DueDate: dueIn(1)}},
		{ID: "h", Status: " ", Metadata: task.Metadata{Tags: []string{"home"}}},
	}
	res := Run(tasks, cfg, Query{
		ViewID: "tags",
		Sort:   by(config.FieldDueDate, config.OrderAsc),
		Now:    testNow,
	})
	require.Len(t, res.Groups, 2)
	assert.Equal(t, []string{"h"}, ids(res.Groups[0].Tasks))
	assert.Equal(t, []string{"w-soon", "w-late"}, ids(res.Groups[1].Tasks))
}

func TestRunNestedFilesSortsChildren(t *testing.T) {
	cfg := config.NewDefault()
	tasks := []*task.Task{
		{ID: "b2", FilePath: "proj/b.md", Line: 20},
		{ID: "a9", FilePath: "proj/a.md", Line: 9},
		{ID: "a1", FilePath: "proj/a.md", Line: 1},
		{ID: "x", FilePath: "x.md", Line: 3},
	}
	res := Run(tasks, cfg, Query{ViewID: "files", Now: testNow})

	assert.Equal(t, DimFilePath, res.GroupBy)
	require.Len(t, res.Groups, 2)
	proj := res.Groups[1]
	require.Len(t, proj.Children, 2)
	assert.Equal(t, []string{"a1", "a9"}, ids(proj.Children[0].Tasks))
	assert.Equal(t, []string{"a1", "a9", "b2"}, ids(proj.Tasks))
}

func TestRunNestedOverride(t *testing.T) {
	cfg := config.NewDefault()
	tasks := []*task.Task{{ID: "a", FilePath: "proj/a.md"}}
	flat := false
	res := Run(tasks, cfg, Query{ViewID: "files", Nested: &flat, Now: testNow})
	require.Len(t, res.Groups, 1)
	assert.Empty(t, res.Groups[0].Children)
	assert.Equal(t, "file-proj/a.md", res.Groups[0].Key)
}

func TestRunDefaultSortWhenViewHasNone(t *testing.T) {
	cfg := config.NewDefault()
	tasks := []*task.Task{
		{ID: "low", Status: " ", Content: "b", Metadata: task.Metadata{Priority: 1}},
		{ID: "high", Status: " ", Content: "a", Metadata: task.Metadata{Priority: 3}},
		{ID: "doing", Status: ">", Content: "c"},
	}
	res := Run(tasks, cfg, Query{ViewID: "tags", Now: testNow})
	require.Len(t, res.Groups, 1)
	assert.Equal(t, []string{"doing", "high", "low"}, ids(res.Groups[0].Tasks))
}

func TestRunLimitAppliesPerGroup(t *testing.T) {
	cfg := config.NewDefault()
	var tasks []*task.Task
	for _, id := range []string{"a1", "a2", "a3", "b1", "b2"} {
		tasks = append(tasks, &task.Task{
			ID:       id,
			Status:   " ",
			Content:  id,
			Metadata: task.Metadata{Project: id[:1]},
		})
	}
	res := Run(tasks, cfg, Query{ViewID: "projects", Limit: 2, Sort: by(config.FieldContent, config.OrderAsc), Now: testNow})
	assert.Equal(t, 5, res.Total)
	assert.Equal(t, []int{2, 2}, counts(res.Groups))
}

func TestRunTextQuery(t *testing.T) {
	cfg := config.NewDefault()
	tasks := []*task.Task{
		{ID: "a", Status: " ", Content: "Water plants"},
		{ID: "b", Status: " ", Content: "Pay invoice"},
	}
	res := Run(tasks, cfg, Query{ViewID: "inbox", TextQuery: "PLANT", Now: testNow})
	assert.Equal(t, 1, res.Total)
	assert.Equal(t, []string{"a"}, ids(Tasks(tasks, cfg, Query{ViewID: "inbox", TextQuery: "plant", Now: testNow})))
}

func TestRunUnknownViewAndEmptyInput(t *testing.T) {
	res := Run(nil, config.NewDefault(), Query{ViewID: "missing", Now: testNow})
	assert.Equal(t, "missing", res.View.ID)
	assert.Equal(t, DimNone, res.GroupBy)
	assert.Empty(t, res.Groups)
	assert.Empty(t, Tasks(nil, nil, Query{}))
}
