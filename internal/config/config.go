package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/natefinch/atomic"
	"go.yaml.in/yaml/v3"

	"github.com/twiced-technology-gmbh/tasklens/internal/clierr"
)

const dirMode = 0o750

// Sentinel errors.
var (
	ErrNotFound = errors.New("no tasklens config found (run 'tasklens init' to create one)")
	ErrInvalid  = errors.New("invalid config")
)

// Config holds the settings shared by every view: where the task snapshot
// lives, how raw status marks map to status groups, and the per-view
// filter and sort configuration.
type Config struct {
	Version              int                    `yaml:"version"`
	SnapshotFile         string                 `yaml:"snapshot_file"`
	DefaultView          string                 `yaml:"default_view,omitempty"`
	TaskStatuses         map[StatusGroup]string `yaml:"task_statuses"`
	CountOtherStatusesAs StatusGroup            `yaml:"count_other_statuses_as"`
	StatusOrder          []StatusGroup          `yaml:"status_order"`
	Views                []ViewConfig           `yaml:"views"`

	// dir is the absolute path to the config directory (not serialized).
	dir string `yaml:"-"`
}

// ViewConfig is one named view: its visibility rules, sort order and
// default grouping.
type ViewConfig struct {
	ID                             string          `yaml:"id" json:"id"`
	Name                           string          `yaml:"name,omitempty" json:"name,omitempty"`
	HideCompletedAndAbandonedTasks bool            `yaml:"hide_completed_and_abandoned_tasks" json:"hideCompletedAndAbandonedTasks"`
	FilterBlanks                   bool            `yaml:"filter_blanks,omitempty" json:"filterBlanks,omitempty"`
	FilterRules                    FilterRules     `yaml:"filter_rules,omitempty" json:"filterRules"`
	SortCriteria                   []SortCriterion `yaml:"sort_criteria,omitempty" json:"sortCriteria,omitempty"`
	GroupBy                        string          `yaml:"group_by,omitempty" json:"groupBy,omitempty"`
	NestedFiles                    bool            `yaml:"nested_files,omitempty" json:"nestedFiles,omitempty"`
}

// FilterRules are include/exclude constraints applied by a view.
// Empty lists and zero values mean "no constraint".
type FilterRules struct {
	IncludeTags     []string `yaml:"include_tags,omitempty" json:"includeTags,omitempty"`
	ExcludeTags     []string `yaml:"exclude_tags,omitempty" json:"excludeTags,omitempty"`
	IncludeProjects []string `yaml:"include_projects,omitempty" json:"includeProjects,omitempty"`
	ExcludeProjects []string `yaml:"exclude_projects,omitempty" json:"excludeProjects,omitempty"`
	IncludeContexts []string `yaml:"include_contexts,omitempty" json:"includeContexts,omitempty"`
	ExcludeContexts []string `yaml:"exclude_contexts,omitempty" json:"excludeContexts,omitempty"`
	IncludePaths    []string `yaml:"include_paths,omitempty" json:"includePaths,omitempty"`
	ExcludePaths    []string `yaml:"exclude_paths,omitempty" json:"excludePaths,omitempty"`
	Query           string   `yaml:"query,omitempty" json:"query,omitempty"`
	MinPriority     int      `yaml:"min_priority,omitempty" json:"minPriority,omitempty"`
	Overdue         bool     `yaml:"overdue,omitempty" json:"overdue,omitempty"`
	DueWithinDays   int      `yaml:"due_within_days,omitempty" json:"dueWithinDays,omitempty"`
}

// IsZero reports whether no rule is configured. Used by yaml omitempty.
func (r FilterRules) IsZero() bool {
	return len(r.IncludeTags) == 0 && len(r.ExcludeTags) == 0 &&
		len(r.IncludeProjects) == 0 && len(r.ExcludeProjects) == 0 &&
		len(r.IncludeContexts) == 0 && len(r.ExcludeContexts) == 0 &&
		len(r.IncludePaths) == 0 && len(r.ExcludePaths) == 0 &&
		r.Query == "" && r.MinPriority == 0 && !r.Overdue && r.DueWithinDays == 0
}

// Dir returns the absolute path to the config directory.
func (c *Config) Dir() string {
	return c.dir
}

// SetDir sets the config directory path.
func (c *Config) SetDir(dir string) {
	c.dir = dir
}

// ConfigPath returns the absolute path to the config file.
func (c *Config) ConfigPath() string {
	return filepath.Join(c.dir, ConfigFileName)
}

// SnapshotPath returns the absolute path to the task snapshot file.
// Relative snapshot paths are resolved against the config directory.
func (c *Config) SnapshotPath() string {
	if filepath.IsAbs(c.SnapshotFile) {
		return c.SnapshotFile
	}
	return filepath.Join(c.dir, c.SnapshotFile)
}

// NewDefault creates a Config with default values.
func NewDefault() *Config {
	return &Config{
		Version:              CurrentVersion,
		SnapshotFile:         DefaultSnapshotFile,
		DefaultView:          DefaultViewID,
		TaskStatuses:         DefaultTaskStatuses(),
		CountOtherStatusesAs: StatusNotStarted,
		StatusOrder:          append([]StatusGroup{}, DefaultStatusOrder...),
		Views:                DefaultViews(),
	}
}

// ViewByID returns the configured view with the given id.
func (c *Config) ViewByID(id string) (*ViewConfig, bool) {
	if c == nil {
		return nil, false
	}
	for i := range c.Views {
		if c.Views[i].ID == id {
			return &c.Views[i], true
		}
	}
	return nil, false
}

// ViewOrDefault returns a copy of the view with the given id, or the
// default view configuration when the config is nil or has no such view.
func (c *Config) ViewOrDefault(id string) ViewConfig {
	if v, ok := c.ViewByID(id); ok {
		return *v
	}
	return DefaultViewConfig(id)
}

// ViewIDs returns the configured view ids in order.
func (c *Config) ViewIDs() []string {
	ids := make([]string, len(c.Views))
	for i, v := range c.Views {
		ids[i] = v.ID
	}
	return ids
}

// Validate checks the config for errors.
func (c *Config) Validate() error {
	if c.Version != CurrentVersion {
		return fmt.Errorf("%w: unsupported version %d (expected %d)", ErrInvalid, c.Version, CurrentVersion)
	}
	if c.SnapshotFile == "" {
		return fmt.Errorf("%w: snapshot_file is required", ErrInvalid)
	}
	if err := c.validateStatuses(); err != nil {
		return err
	}
	return c.validateViews()
}

func (c *Config) validateStatuses() error {
	owner := make(map[string]StatusGroup)
	for group, marks := range c.TaskStatuses {
		if !group.Valid() {
			return fmt.Errorf("%w: task_statuses references unknown status group %q", ErrInvalid, group)
		}
		for _, mark := range splitMarks(marks) {
			if prev, ok := owner[mark]; ok && prev != group {
				return fmt.Errorf("%w: status mark %q is mapped to both %q and %q", ErrInvalid, mark, prev, group)
			}
			owner[mark] = group
		}
	}
	if c.CountOtherStatusesAs != "" && !c.CountOtherStatusesAs.Valid() {
		return fmt.Errorf("%w: count_other_statuses_as %q is not a status group", ErrInvalid, c.CountOtherStatusesAs)
	}
	seen := make(map[StatusGroup]bool, len(c.StatusOrder))
	for _, g := range c.StatusOrder {
		if !g.Valid() {
			return fmt.Errorf("%w: status_order references unknown status group %q", ErrInvalid, g)
		}
		if seen[g] {
			return fmt.Errorf("%w: status_order contains %q twice", ErrInvalid, g)
		}
		seen[g] = true
	}
	return nil
}

func (c *Config) validateViews() error {
	seen := make(map[string]bool, len(c.Views))
	for i, v := range c.Views {
		if v.ID == "" {
			return fmt.Errorf("%w: views[%d].id is required", ErrInvalid, i)
		}
		if seen[v.ID] {
			return fmt.Errorf("%w: duplicate view id %q", ErrInvalid, v.ID)
		}
		seen[v.ID] = true
		for j, sc := range v.SortCriteria {
			if sc.Order != "" && sc.Order != OrderAsc && sc.Order != OrderDesc {
				return fmt.Errorf("%w: views[%d].sort_criteria[%d].order must be asc or desc", ErrInvalid, i, j)
			}
		}
		if v.FilterRules.DueWithinDays < 0 {
			return fmt.Errorf("%w: views[%d].filter_rules.due_within_days must be >= 0", ErrInvalid, i)
		}
	}
	if c.DefaultView != "" && !seen[c.DefaultView] {
		return fmt.Errorf("%w: default_view %q is not a configured view", ErrInvalid, c.DefaultView)
	}
	return nil
}

// Init creates a new config directory with default settings.
func Init(dir string) (*Config, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}

	cfg := NewDefault()
	cfg.SetDir(absDir)

	if err := os.MkdirAll(absDir, dirMode); err != nil {
		return nil, fmt.Errorf("creating config directory: %w", err)
	}

	if err := cfg.Save(); err != nil {
		return nil, fmt.Errorf("writing config: %w", err)
	}

	return cfg, nil
}

// Save writes the config to its config file atomically.
func (c *Config) Save() error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := atomic.WriteFile(c.ConfigPath(), bytes.NewReader(data)); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Load reads, migrates and validates the config in the given directory.
func Load(dir string) (*Config, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}

	path := filepath.Join(absDir, ConfigFileName)
	data, err := os.ReadFile(path) //nolint:gosec // config path from trusted source
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	cfg.dir = absDir

	oldVersion := cfg.Version
	if err := migrate(&cfg); err != nil {
		return nil, err
	}

	// Persist migrated config so future loads skip re-migration.
	if cfg.Version != oldVersion {
		if err := cfg.Save(); err != nil {
			return nil, fmt.Errorf("saving migrated config: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// FindDir walks upward from startDir looking for a config directory
// containing config.yml. Returns the absolute path to that directory.
func FindDir(startDir string) (string, error) {
	absStart, err := filepath.Abs(startDir)
	if err != nil {
		return "", fmt.Errorf("resolving path: %w", err)
	}

	dir := absStart
	for {
		candidate := filepath.Join(dir, DefaultDir, ConfigFileName)
		if _, err := os.Stat(candidate); err == nil {
			return filepath.Join(dir, DefaultDir), nil
		}

		// Also check if we're inside the config directory itself.
		candidate = filepath.Join(dir, ConfigFileName)
		if _, err := os.Stat(candidate); err == nil {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", clierr.New(clierr.ConfigNotFound,
				"no tasklens config found (run 'tasklens init' to create one)")
		}
		dir = parent
	}
}
