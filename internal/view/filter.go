// Package view filters, groups and sorts task snapshots for display.
// Every function in this package is a pure function of its arguments.
package view

import (
	"strings"
	"time"

	"github.com/twiced-technology-gmbh/tasklens/internal/config"
	"github.com/twiced-technology-gmbh/tasklens/internal/date"
	"github.com/twiced-technology-gmbh/tasklens/internal/task"
)

// FilterOptions are ad hoc constraints layered on top of a view's rules.
type FilterOptions struct {
	TextQuery string    // case-insensitive substring of the task content
	Now       time.Time // reference time for date rules; zero means time.Now()
}

// Filter returns the tasks visible in the given view, in input order.
// Unknown views and a nil config fall back to the default view
// configuration. The input slice and its tasks are not modified.
func Filter(tasks []*task.Task, viewID string, cfg *config.Config, opts FilterOptions) []*task.Task {
	vc := cfg.ViewOrDefault(viewID)
	return FilterWith(tasks, vc, cfg, opts)
}

// FilterWith is Filter with an already resolved view configuration.
func FilterWith(tasks []*task.Task, vc config.ViewConfig, cfg *config.Config, opts FilterOptions) []*task.Task {
	today := date.StartOfDay(nowOr(opts.Now))
	result := make([]*task.Task, 0, len(tasks))
	for _, t := range tasks {
		if matchesView(t, vc, cfg, today) && matchesText(t.Content, opts.TextQuery) {
			result = append(result, t)
		}
	}
	return result
}

func matchesView(t *task.Task, vc config.ViewConfig, cfg *config.Config, today time.Time) bool {
	if vc.HideCompletedAndAbandonedTasks && (t.Completed || cfg.IsAbandonedMark(t.Mark())) {
		return false
	}
	if vc.FilterBlanks && strings.TrimSpace(t.Content) == "" {
		return false
	}
	return matchesRules(t, vc.FilterRules, today)
}

func matchesRules(t *task.Task, r config.FilterRules, today time.Time) bool {
	if !matchesIncludeExclude(normalizeTags(t.Metadata.Tags), normalizeTags(r.IncludeTags), normalizeTags(r.ExcludeTags)) {
		return false
	}
	if !matchesIncludeExclude(single(t.Metadata.Project), lowerAll(r.IncludeProjects), lowerAll(r.ExcludeProjects)) {
		return false
	}
	if !matchesIncludeExclude(single(t.Metadata.Context), lowerAll(r.IncludeContexts), lowerAll(r.ExcludeContexts)) {
		return false
	}
	if !matchesPath(t.FilePath, r.IncludePaths, r.ExcludePaths) {
		return false
	}
	if !matchesText(t.Content, r.Query) {
		return false
	}
	if r.MinPriority > 0 && t.Metadata.Priority < r.MinPriority {
		return false
	}
	return matchesDueRules(t, r, today)
}

// matchesIncludeExclude requires at least one value in include (when set)
// and none in exclude. All arguments are already lower-cased.
func matchesIncludeExclude(values, include, exclude []string) bool {
	if len(include) > 0 && !anyIn(values, include) {
		return false
	}
	return !anyIn(values, exclude)
}

func matchesPath(path string, include, exclude []string) bool {
	p := strings.ToLower(path)
	contains := func(fragments []string) bool {
		for _, f := range fragments {
			if f != "" && strings.Contains(p, strings.ToLower(f)) {
				return true
			}
		}
		return false
	}
	if len(include) > 0 && !contains(include) {
		return false
	}
	return !contains(exclude)
}

// matchesText performs a case-insensitive substring match. An empty query
// matches everything.
func matchesText(content, query string) bool {
	query = strings.TrimSpace(query)
	if query == "" {
		return true
	}
	return strings.Contains(strings.ToLower(content), strings.ToLower(query))
}

func matchesDueRules(t *task.Task, r config.FilterRules, today time.Time) bool {
	if !r.Overdue && r.DueWithinDays <= 0 {
		return true
	}
	due := t.Metadata.DueDate
	if due == nil {
		return false
	}
	day := date.Day(*due, today.Location())
	if r.Overdue && !day.Before(today) {
		return false
	}
	if r.DueWithinDays > 0 && (day.Before(today) || day.After(date.AddDays(today, r.DueWithinDays))) {
		return false
	}
	return true
}

// NormalizeTag strips a leading '#'. Tags compare case-insensitively
// through normalizeTags.
func NormalizeTag(tag string) string {
	return strings.TrimPrefix(strings.TrimSpace(tag), "#")
}

func normalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		if n := NormalizeTag(tag); n != "" {
			out = append(out, strings.ToLower(n))
		}
	}
	return out
}

func single(s string) []string {
	if s == "" {
		return nil
	}
	return []string{strings.ToLower(s)}
}

func lowerAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, strings.ToLower(s))
		}
	}
	return out
}

func anyIn(values, set []string) bool {
	for _, v := range values {
		for _, s := range set {
			if v == s {
				return true
			}
		}
	}
	return false
}

func nowOr(t time.Time) time.Time {
	if t.IsZero() {
		return time.Now()
	}
	return t
}
