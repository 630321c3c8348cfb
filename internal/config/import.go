package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/tailscale/hujson"
)

// pluginData is the subset of the note plugin's data.json that tasklens
// understands. Unknown keys are ignored.
type pluginData struct {
	TaskStatuses         map[string]string `json:"taskStatuses"`
	CountOtherStatusesAs string            `json:"countOtherStatusesAs"`
	ViewConfiguration    []pluginView      `json:"viewConfiguration"`
}

type pluginView struct {
	ID                             string          `json:"id"`
	Name                           string          `json:"name"`
	HideCompletedAndAbandonedTasks bool            `json:"hideCompletedAndAbandonedTasks"`
	FilterBlanks                   bool            `json:"filterBlanks"`
	FilterRules                    pluginRules     `json:"filterRules"`
	SortCriteria                   []SortCriterion `json:"sortCriteria"`
}

type pluginRules struct {
	TextContains string   `json:"textContains"`
	TagsInclude  []string `json:"tagsInclude"`
	TagsExclude  []string `json:"tagsExclude"`
	Project      string   `json:"project"`
	Context      string   `json:"context"`
	PathIncludes string   `json:"pathIncludes"`
	PathExcludes string   `json:"pathExcludes"`
}

// ImportSummary reports what an import changed.
type ImportSummary struct {
	Views        int      `json:"views"`
	StatusGroups int      `json:"status_groups"`
	Skipped      []string `json:"skipped,omitempty"`
}

// ImportPluginFile reads a plugin data.json file and merges it into c.
func (c *Config) ImportPluginFile(path string) (ImportSummary, error) {
	data, err := os.ReadFile(path) //nolint:gosec // user-supplied import path
	if err != nil {
		return ImportSummary{}, fmt.Errorf("reading plugin settings: %w", err)
	}
	return c.ImportPluginData(data)
}

// ImportPluginData merges plugin settings into c. The input may contain
// comments and trailing commas. Views with the same id are replaced, new
// views are appended, and status mappings replace the current ones.
func (c *Config) ImportPluginData(data []byte) (ImportSummary, error) {
	std, err := hujson.Standardize(data)
	if err != nil {
		return ImportSummary{}, fmt.Errorf("%w: parsing plugin settings: %w", ErrInvalid, err)
	}

	var pd pluginData
	if err := json.Unmarshal(std, &pd); err != nil {
		return ImportSummary{}, fmt.Errorf("%w: decoding plugin settings: %w", ErrInvalid, err)
	}

	var summary ImportSummary

	if len(pd.TaskStatuses) > 0 {
		statuses := make(map[StatusGroup]string, len(pd.TaskStatuses))
		for name, marks := range pd.TaskStatuses {
			g := StatusGroup(name)
			if !g.Valid() {
				summary.Skipped = append(summary.Skipped, "taskStatuses."+name)
				continue
			}
			statuses[g] = marks
		}
		c.TaskStatuses = statuses
		summary.StatusGroups = len(statuses)
	}

	if g := StatusGroup(pd.CountOtherStatusesAs); g.Valid() {
		c.CountOtherStatusesAs = g
	} else if pd.CountOtherStatusesAs != "" {
		summary.Skipped = append(summary.Skipped, "countOtherStatusesAs")
	}

	for _, pv := range pd.ViewConfiguration {
		if pv.ID == "" {
			summary.Skipped = append(summary.Skipped, "viewConfiguration entry without id")
			continue
		}
		c.upsertView(pv.toViewConfig(&summary))
		summary.Views++
	}

	return summary, nil
}

func (pv pluginView) toViewConfig(summary *ImportSummary) ViewConfig {
	v := ViewConfig{
		ID:                             pv.ID,
		Name:                           pv.Name,
		HideCompletedAndAbandonedTasks: pv.HideCompletedAndAbandonedTasks,
		FilterBlanks:                   pv.FilterBlanks,
		FilterRules: FilterRules{
			IncludeTags:  pv.FilterRules.TagsInclude,
			ExcludeTags:  pv.FilterRules.TagsExclude,
			IncludePaths: splitList(pv.FilterRules.PathIncludes),
			ExcludePaths: splitList(pv.FilterRules.PathExcludes),
			Query:        pv.FilterRules.TextContains,
		},
	}
	if pv.FilterRules.Project != "" {
		v.FilterRules.IncludeProjects = []string{pv.FilterRules.Project}
	}
	if pv.FilterRules.Context != "" {
		v.FilterRules.IncludeContexts = []string{pv.FilterRules.Context}
	}
	for _, sc := range pv.SortCriteria {
		if !sc.Field.Known() {
			summary.Skipped = append(summary.Skipped, pv.ID+".sortCriteria."+string(sc.Field))
			continue
		}
		v.SortCriteria = append(v.SortCriteria, sc)
	}
	if existing, ok := defaultViewByID(pv.ID); ok {
		v.GroupBy = existing.GroupBy
		v.NestedFiles = existing.NestedFiles
	}
	return v
}

func (c *Config) upsertView(v ViewConfig) {
	for i := range c.Views {
		if c.Views[i].ID == v.ID {
			// Plugin settings carry no grouping; keep ours.
			v.GroupBy = c.Views[i].GroupBy
			v.NestedFiles = c.Views[i].NestedFiles
			c.Views[i] = v
			return
		}
	}
	c.Views = append(c.Views, v)
}

func defaultViewByID(id string) (ViewConfig, bool) {
	for _, v := range DefaultViews() {
		if v.ID == id {
			return v, true
		}
	}
	return ViewConfig{}, false
}

// splitList splits a comma-separated list, dropping blanks.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
