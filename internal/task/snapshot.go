package task

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/natefinch/atomic"
	"go.yaml.in/yaml/v3"

	"github.com/twiced-technology-gmbh/tasklens/internal/clierr"
	"github.com/twiced-technology-gmbh/tasklens/internal/config"
)

// idNamespace seeds name-based ids for records the indexer exported
// without one, so the same record gets the same id on every load.
var idNamespace = uuid.MustParse("8f0c2e4a-6b1d-5c3e-9a7f-0d4b2e6c8a10")

// ReadWarning describes a snapshot record that was skipped during loading.
type ReadWarning struct {
	Index int // position of the record in the snapshot
	Err   error
}

// ReadSnapshot loads a task snapshot (a YAML or JSON sequence of task
// records). Malformed records and duplicate ids are skipped and reported as
// warnings; a missing or unparseable file is an error.
func ReadSnapshot(path string, cfg *config.Config) ([]*Task, []ReadWarning, error) {
	data, err := os.ReadFile(path) //nolint:gosec // snapshot path from config
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil, clierr.Newf(clierr.SnapshotNotFound, "task snapshot not found: %s", path).
				WithDetails(map[string]any{"path": path})
		}
		return nil, nil, fmt.Errorf("reading snapshot: %w", err)
	}
	return ParseSnapshot(data, cfg)
}

// ParseSnapshot decodes snapshot bytes. See ReadSnapshot.
func ParseSnapshot(data []byte, cfg *config.Config) ([]*Task, []ReadWarning, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, nil, fmt.Errorf("parsing snapshot: %w", err)
	}
	if root.Kind == 0 {
		return []*Task{}, nil, nil // empty file
	}

	seq := &root
	if seq.Kind == yaml.DocumentNode && len(seq.Content) > 0 {
		seq = seq.Content[0]
	}
	if seq.Kind != yaml.SequenceNode {
		return nil, nil, errors.New("parsing snapshot: expected a list of task records")
	}

	tasks := make([]*Task, 0, len(seq.Content))
	var warnings []ReadWarning
	seen := make(map[string]int, len(seq.Content))

	for i, node := range seq.Content {
		var t Task
		if err := node.Decode(&t); err != nil {
			warnings = append(warnings, ReadWarning{Index: i, Err: err})
			continue
		}
		if t.ID == "" {
			t.ID = derivedID(&t)
		}
		if first, dup := seen[t.ID]; dup {
			warnings = append(warnings, ReadWarning{
				Index: i,
				Err:   fmt.Errorf("duplicate id %q (first seen at record %d)", t.ID, first),
			})
			continue
		}
		seen[t.ID] = i
		reconcile(&t, cfg)
		tasks = append(tasks, &t)
	}

	return tasks, warnings, nil
}

func derivedID(t *Task) string {
	name := t.FilePath + "\x00" + strconv.Itoa(t.Line) + "\x00" + t.Content
	return uuid.NewSHA1(idNamespace, []byte(name)).String()
}

// WriteSnapshot serializes tasks to path as YAML, replacing the file atomically.
func WriteSnapshot(path string, tasks []*Task) error {
	data, err := yaml.Marshal(tasks)
	if err != nil {
		return fmt.Errorf("marshaling snapshot: %w", err)
	}
	if err := atomic.WriteFile(path, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("writing snapshot: %w", err)
	}
	return nil
}

// FindByID returns the task with the given id, or the only task whose id
// starts with it.
func FindByID(tasks []*Task, id string) (*Task, error) {
	for _, t := range tasks {
		if t.ID == id {
			return t, nil
		}
	}
	var match *Task
	for _, t := range tasks {
		if id == "" || !strings.HasPrefix(t.ID, id) {
			continue
		}
		if match != nil {
			return nil, clierr.Newf(clierr.InvalidInput, "task id %q is ambiguous", id).
				WithDetails(map[string]any{"id": id})
		}
		match = t
	}
	if match != nil {
		return match, nil
	}
	return nil, clierr.Newf(clierr.TaskNotFound, "task not found: %s", id).
		WithDetails(map[string]any{"id": id})
}
