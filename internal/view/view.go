package view

import (
	"time"

	"github.com/twiced-technology-gmbh/tasklens/internal/config"
	"github.com/twiced-technology-gmbh/tasklens/internal/task"
)

// Query selects and shapes one rendering of a view.
type Query struct {
	ViewID    string
	GroupBy   Dimension              // empty means the view's configured dimension
	Nested    *bool                  // nil means the view's nested_files setting
	Sort      []config.SortCriterion // nil means the view's criteria
	TextQuery string
	Limit     int // maximum tasks per group; 0 means unlimited
	Now       time.Time
}

// Result is the output of Run.
type Result struct {
	View    config.ViewConfig `json:"view"`
	GroupBy Dimension         `json:"groupBy"`
	Total   int               `json:"total"`
	Groups  []Group           `json:"groups"`
}

// Run filters, groups and sorts tasks for a view. Every group is sorted
// independently; for nested file groups the children are sorted and the
// folder task list is rebuilt from them.
func Run(tasks []*task.Task, cfg *config.Config, q Query) Result {
	vc := cfg.ViewOrDefault(q.ViewID)

	dim := q.GroupBy
	if dim == "" {
		dim, _ = ParseDimension(vc.GroupBy)
	}
	nested := vc.NestedFiles
	if q.Nested != nil {
		nested = *q.Nested
	}
	criteria := q.Sort
	if criteria == nil {
		criteria = vc.SortCriteria
	}
	if len(criteria) == 0 {
		criteria = config.DefaultSortCriteria
	}

	now := nowOr(q.Now)
	visible := FilterWith(tasks, vc, cfg, FilterOptions{TextQuery: q.TextQuery, Now: now})
	groups := GroupTasks(visible, dim, GroupOptions{Now: now, NestedFiles: nested})
	for i := range groups {
		sortGroup(&groups[i], criteria, cfg, q.Limit)
	}

	return Result{View: vc, GroupBy: dim, Total: len(visible), Groups: groups}
}

func sortGroup(g *Group, criteria []config.SortCriterion, cfg *config.Config, limit int) {
	if len(g.Children) == 0 {
		g.Tasks = truncate(Sort(g.Tasks, criteria, cfg), limit)
		return
	}
	for i := range g.Children {
		sortGroup(&g.Children[i], criteria, cfg, limit)
	}
	g.Tasks = flatten(g.Children)
}

func truncate(tasks []*task.Task, limit int) []*task.Task {
	if limit > 0 && len(tasks) > limit {
		return tasks[:limit]
	}
	return tasks
}

// Tasks returns the filtered and sorted tasks of a view without grouping.
func Tasks(tasks []*task.Task, cfg *config.Config, q Query) []*task.Task {
	q.GroupBy = DimNone
	res := Run(tasks, cfg, q)
	if len(res.Groups) == 0 {
		return []*task.Task{}
	}
	return res.Groups[0].Tasks
}
