package state

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/twiced-technology-gmbh/tasklens/internal/view"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s := NewStore(t.TempDir())
	s.now = func() time.Time { return time.Date(2025, time.March, 10, 9, 30, 0, 0, time.UTC) }
	return s
}

func TestReadMissingIsEmpty(t *testing.T) {
	st, err := newTestStore(t).Read()
	require.NoError(t, err)
	_, ok := st.GroupBy("inbox")
	assert.False(t, ok)
}

func TestSetGroupByPersists(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	require.NoError(t, s.SetGroupBy(ctx, "inbox", view.DimTags))
	require.NoError(t, s.SetGroupBy(ctx, "forecast", view.DimDueDate))

	st, err := NewStore(s.dir).Read()
	require.NoError(t, err)
	dim, ok := st.GroupBy("inbox")
	assert.True(t, ok)
	assert.Equal(t, view.DimTags, dim)
	dim, _ = st.GroupBy("forecast")
	assert.Equal(t, view.DimDueDate, dim)
}

func TestGroupByUnknownValueReadsAsNone(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, os.WriteFile(s.Path(), []byte("views:\n  inbox:\n    group_by: colour\n"), 0o600))

	st, err := s.Read()
	require.NoError(t, err)
	dim, ok := st.GroupBy("inbox")
	assert.True(t, ok)
	assert.Equal(t, view.DimNone, dim)
}

func TestSetExpandedAndApply(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	require.NoError(t, s.SetExpanded(ctx, "files", "folder-proj", true))
	require.NoError(t, s.SetExpanded(ctx, "files", "file-x.md", false))

	st, err := s.Read()
	require.NoError(t, err)
	assert.True(t, st.Expanded("files", "folder-proj", false))
	assert.False(t, st.Expanded("files", "file-x.md", true))
	assert.True(t, st.Expanded("files", "unknown", true))
	assert.False(t, st.Expanded("other", "folder-proj", false))

	groups := []view.Group{
		{Key: "folder-proj", Children: []view.Group{{Key: "file-proj/a.md"}}},
		{Key: "folder-root", IsExpanded: true, Children: []view.Group{{Key: "file-x.md", IsExpanded: true}}},
	}
	st.ApplyExpanded("files", groups)
	assert.True(t, groups[0].IsExpanded)
	assert.False(t, groups[0].Children[0].IsExpanded)
	assert.True(t, groups[1].IsExpanded)
	assert.False(t, groups[1].Children[0].IsExpanded)
}

func TestClearView(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	require.NoError(t, s.SetGroupBy(ctx, "inbox", view.DimProject))
	require.NoError(t, s.SetExpanded(ctx, "inbox", "project-home", false))
	require.NoError(t, s.ClearView(ctx, "inbox"))

	st, err := s.Read()
	require.NoError(t, err)
	_, ok := st.GroupBy("inbox")
	assert.False(t, ok)
	assert.True(t, st.Expanded("inbox", "project-home", true))
}

func TestNilStateIsEmpty(t *testing.T) {
	var st *State
	_, ok := st.GroupBy("inbox")
	assert.False(t, ok)
	assert.True(t, st.Expanded("inbox", "all", true))
	st.ApplyExpanded("inbox", []view.Group{{Key: "all"}})
}

func TestUpdatesAreLogged(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	require.NoError(t, s.SetGroupBy(ctx, "inbox", view.DimStatus))
	require.NoError(t, s.SetExpanded(ctx, "inbox", "status-DONE", false))
	require.NoError(t, s.ClearView(ctx, "inbox"))

	entries, err := ReadLog(s.dir)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.True(t, entries[0].Timestamp.Equal(s.now()))
	assert.Equal(t, ActionGroupBy, entries[0].Action)
	assert.Equal(t, "inbox", entries[0].View)
	assert.Equal(t, "status", entries[0].Detail)
	assert.Equal(t, ActionCollapse, entries[1].Action)
	assert.Equal(t, "status-DONE", entries[1].Detail)
	assert.Equal(t, ActionClearView, entries[2].Action)
}

func TestReadLogMissing(t *testing.T) {
	entries, err := ReadLog(t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestUpdateHonoursContext(t *testing.T) {
	s := newTestStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// An uncontended lock is still acquired with a done context.
	require.NoError(t, s.SetGroupBy(ctx, "inbox", view.DimNone))
}
