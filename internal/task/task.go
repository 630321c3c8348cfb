// Package task defines task records and loads them from snapshot files.
package task

import (
	"github.com/twiced-technology-gmbh/tasklens/internal/config"
	"github.com/twiced-technology-gmbh/tasklens/internal/date"
)

// Task is one markdown checkbox item as exported by the task indexer.
// Tasks are read-only snapshots: nothing in tasklens modifies them after load.
type Task struct {
	ID        string   `yaml:"id" json:"id"`
	Status    string   `yaml:"status" json:"status"`
	Completed bool     `yaml:"completed" json:"completed"`
	Content   string   `yaml:"content" json:"content"`
	FilePath  string   `yaml:"filePath" json:"filePath"`
	Line      int      `yaml:"line,omitempty" json:"line,omitempty"`
	Metadata  Metadata `yaml:"metadata" json:"metadata"`
}

// Metadata holds the structured fields parsed from a task line.
type Metadata struct {
	DueDate       *date.Timestamp `yaml:"dueDate,omitempty" json:"dueDate,omitempty"`
	StartDate     *date.Timestamp `yaml:"startDate,omitempty" json:"startDate,omitempty"`
	ScheduledDate *date.Timestamp `yaml:"scheduledDate,omitempty" json:"scheduledDate,omitempty"`
	CompletedDate *date.Timestamp `yaml:"completedDate,omitempty" json:"completedDate,omitempty"`
	Project       string          `yaml:"project,omitempty" json:"project,omitempty"`
	Context       string          `yaml:"context,omitempty" json:"context,omitempty"`
	Tags          []string        `yaml:"tags,omitempty" json:"tags,omitempty"`
	Priority      int             `yaml:"priority,omitempty" json:"priority,omitempty"`
}

// Priority bounds of the task model.
const (
	MinPriority = 0
	MaxPriority = 5
)

// Mark returns the raw status mark, deriving one from Completed when the
// indexer left Status empty.
func (t *Task) Mark() string {
	if t.Status != "" {
		return t.Status
	}
	if t.Completed {
		return "x"
	}
	return " "
}

// reconcile makes Completed agree with the status mark and clamps priority
// into the model's range. Called once per record at load time.
func reconcile(t *Task, cfg *config.Config) {
	if t.Status != "" && cfg.IsCompletedMark(t.Status) {
		t.Completed = true
	}
	t.Metadata.Priority = min(max(t.Metadata.Priority, MinPriority), MaxPriority)
}
