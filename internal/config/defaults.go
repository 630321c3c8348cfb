// Package config handles tasklens configuration.
package config

const (
	// DefaultDir is the default config directory name.
	DefaultDir = ".tasklens"
	// DefaultSnapshotFile is the default task snapshot file, relative to the config directory.
	DefaultSnapshotFile = "tasks.yml"
	// DefaultViewID is the view used when none is named.
	DefaultViewID = "inbox"

	// ConfigFileName is the name of the config file within the config directory.
	ConfigFileName = "config.yml"

	// CurrentVersion is the current config schema version.
	CurrentVersion = 3
)

// DefaultStatusOrder ranks status groups for status sorts: active work
// first, finished work last.
var DefaultStatusOrder = []StatusGroup{
	StatusInProgress,
	StatusNotStarted,
	StatusPlanned,
	StatusCompleted,
	StatusAbandoned,
}

// DefaultSortCriteria is applied by views that configure no sort criteria.
var DefaultSortCriteria = []SortCriterion{
	{Field: FieldStatus, Order: OrderAsc},
	{Field: FieldPriority, Order: OrderDesc},
	{Field: FieldDueDate, Order: OrderAsc},
	{Field: FieldContent, Order: OrderAsc},
}

// DefaultTaskStatuses returns the default mark mapping.
func DefaultTaskStatuses() map[StatusGroup]string {
	return map[StatusGroup]string{
		StatusCompleted:  "x|X",
		StatusInProgress: ">|/",
		StatusAbandoned:  "-",
		StatusPlanned:    "?",
		StatusNotStarted: " ",
	}
}

// DefaultViewConfig is the fallback for views without explicit
// configuration: everything except completed and abandoned tasks.
func DefaultViewConfig(id string) ViewConfig {
	return ViewConfig{
		ID:                             id,
		Name:                           id,
		HideCompletedAndAbandonedTasks: true,
	}
}

// DefaultViews returns the views created by init.
func DefaultViews() []ViewConfig {
	return []ViewConfig{
		{
			ID:                             "inbox",
			Name:                           "Inbox",
			HideCompletedAndAbandonedTasks: true,
			FilterBlanks:                   true,
			SortCriteria:                   append([]SortCriterion{}, DefaultSortCriteria...),
		},
		{
			ID:                             "forecast",
			Name:                           "Forecast",
			HideCompletedAndAbandonedTasks: true,
			SortCriteria: []SortCriterion{
				{Field: FieldDueDate, Order: OrderAsc},
				{Field: FieldPriority, Order: OrderDesc},
			},
			GroupBy: "dueDate",
		},
		{
			ID:                             "projects",
			Name:                           "Projects",
			HideCompletedAndAbandonedTasks: true,
			SortCriteria: []SortCriterion{
				{Field: FieldPriority, Order: OrderDesc},
				{Field: FieldDueDate, Order: OrderAsc},
			},
			GroupBy: "project",
		},
		{
			ID:                             "tags",
			Name:                           "Tags",
			HideCompletedAndAbandonedTasks: true,
			GroupBy:                        "tags",
		},
		{
			ID:                             "flagged",
			Name:                           "Flagged",
			HideCompletedAndAbandonedTasks: true,
			FilterRules:                    FilterRules{MinPriority: 3}, //nolint:mnd // high priority and above
			SortCriteria: []SortCriterion{
				{Field: FieldPriority, Order: OrderDesc},
				{Field: FieldDueDate, Order: OrderAsc},
			},
		},
		{
			ID:   "files",
			Name: "Files",
			SortCriteria: []SortCriterion{
				{Field: FieldLineNumber, Order: OrderAsc},
			},
			GroupBy:     "filePath",
			NestedFiles: true,
		},
		{
			ID:   "kanban",
			Name: "Kanban",
			SortCriteria: []SortCriterion{
				{Field: FieldPriority, Order: OrderDesc},
			},
			GroupBy: "status",
		},
	}
}
