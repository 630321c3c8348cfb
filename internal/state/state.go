// Package state persists per-view display preferences (the group-by
// dimension and which groups are expanded) next to the config file.
package state

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/natefinch/atomic"
	"go.yaml.in/yaml/v3"

	"github.com/twiced-technology-gmbh/tasklens/internal/filelock"
	"github.com/twiced-technology-gmbh/tasklens/internal/view"
)

const (
	stateFileName = "state.yml"
	lockFileName  = "state.lock"
)

// State is the decoded content of state.yml.
type State struct {
	Views map[string]*ViewState `yaml:"views,omitempty"`
}

// ViewState holds the preferences of one view.
type ViewState struct {
	GroupBy  string          `yaml:"group_by,omitempty"`
	Expanded map[string]bool `yaml:"expanded,omitempty"`
}

// GroupBy returns the stored dimension of a view. ok is false when nothing
// is stored. A stored value that is not a known dimension reads as none.
func (st *State) GroupBy(viewID string) (dim view.Dimension, ok bool) {
	vs := st.view(viewID)
	if vs == nil || vs.GroupBy == "" {
		return "", false
	}
	dim, _ = view.ParseDimension(vs.GroupBy)
	return dim, true
}

// Expanded reports whether a group is expanded, or def when unknown.
func (st *State) Expanded(viewID, key string, def bool) bool {
	vs := st.view(viewID)
	if vs == nil {
		return def
	}
	if v, ok := vs.Expanded[key]; ok {
		return v
	}
	return def
}

// ApplyExpanded overrides IsExpanded on groups (and their children) with
// the stored flags of a view.
func (st *State) ApplyExpanded(viewID string, groups []view.Group) {
	for i := range groups {
		g := &groups[i]
		g.IsExpanded = st.Expanded(viewID, g.Key, g.IsExpanded)
		st.ApplyExpanded(viewID, g.Children)
	}
}

func (st *State) view(viewID string) *ViewState {
	if st == nil || st.Views == nil {
		return nil
	}
	return st.Views[viewID]
}

func (st *State) mutableView(viewID string) *ViewState {
	if st.Views == nil {
		st.Views = make(map[string]*ViewState)
	}
	vs := st.Views[viewID]
	if vs == nil {
		vs = &ViewState{}
		st.Views[viewID] = vs
	}
	return vs
}

// Store reads and writes state.yml inside a config directory.
type Store struct {
	dir string
	now func() time.Time
}

// NewStore returns a store rooted at the config directory dir.
func NewStore(dir string) *Store {
	return &Store{dir: dir, now: time.Now}
}

// Path returns the location of state.yml.
func (s *Store) Path() string {
	return filepath.Join(s.dir, stateFileName)
}

// Read loads the current state. A missing file is an empty state.
func (s *Store) Read() (*State, error) {
	data, err := os.ReadFile(s.Path())
	if err != nil {
		if os.IsNotExist(err) {
			return &State{}, nil
		}
		return nil, fmt.Errorf("reading state: %w", err)
	}
	var st State
	if err := yaml.Unmarshal(data, &st); err != nil {
		return nil, fmt.Errorf("parsing state: %w", err)
	}
	return &st, nil
}

// SetGroupBy stores the group-by dimension of a view.
func (s *Store) SetGroupBy(ctx context.Context, viewID string, dim view.Dimension) error {
	return s.update(ctx, LogEntry{Action: ActionGroupBy, View: viewID, Detail: string(dim)}, func(st *State) {
		st.mutableView(viewID).GroupBy = string(dim)
	})
}

// SetExpanded stores the expanded flag of one group in a view.
func (s *Store) SetExpanded(ctx context.Context, viewID, key string, expanded bool) error {
	action := ActionCollapse
	if expanded {
		action = ActionExpand
	}
	return s.update(ctx, LogEntry{Action: action, View: viewID, Detail: key}, func(st *State) {
		vs := st.mutableView(viewID)
		if vs.Expanded == nil {
			vs.Expanded = make(map[string]bool)
		}
		vs.Expanded[key] = expanded
	})
}

// ClearView forgets everything stored for a view.
func (s *Store) ClearView(ctx context.Context, viewID string) error {
	return s.update(ctx, LogEntry{Action: ActionClearView, View: viewID}, func(st *State) {
		delete(st.Views, viewID)
	})
}

// update applies fn to the stored state under the state lock, writes the
// result atomically and records entry in the activity log.
func (s *Store) update(ctx context.Context, entry LogEntry, fn func(*State)) error {
	unlock, err := filelock.Lock(ctx, filepath.Join(s.dir, lockFileName))
	if err != nil {
		return err
	}
	defer unlock() //nolint:errcheck // lock released on close regardless

	st, err := s.Read()
	if err != nil {
		return err
	}
	fn(st)

	data, err := yaml.Marshal(st)
	if err != nil {
		return fmt.Errorf("marshaling state: %w", err)
	}
	if err := atomic.WriteFile(s.Path(), bytes.NewReader(data)); err != nil {
		return fmt.Errorf("writing state: %w", err)
	}

	// Logging never fails a state change.
	entry.Timestamp = s.now()
	_ = AppendLog(s.dir, entry)
	return nil
}
