package task

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/twiced-technology-gmbh/tasklens/internal/clierr"
	"github.com/twiced-technology-gmbh/tasklens/internal/config"
	"github.com/twiced-technology-gmbh/tasklens/internal/date"
)

const snapshotYAML = `
- id: t1
  status: " "
  content: Write report
  filePath: work/notes.md
  line: 4
  metadata:
    dueDate: 2025-03-12
    tags: ["#work"]
    priority: 9
- id: t2
  status: x
  content: Ship release
  filePath: work/notes.md
- status: ">"
  content: No id here
  filePath: inbox.md
  line: 2
- id: t1
  content: duplicate
- id: t5
  line: forty
`

func TestParseSnapshot(t *testing.T) {
	tasks, warnings, err := ParseSnapshot([]byte(snapshotYAML), config.NewDefault())
	require.NoError(t, err)
	require.Len(t, tasks, 3)

	assert.Equal(t, "t1", tasks[0].ID)
	assert.Equal(t, MaxPriority, tasks[0].Metadata.Priority)
	require.NotNil(t, tasks[0].Metadata.DueDate)
	assert.Equal(t, date.On(2025, time.March, 12).Millis(), tasks[0].Metadata.DueDate.Millis())

	assert.True(t, tasks[1].Completed, "completed mark sets Completed")

	assert.NotEmpty(t, tasks[2].ID)
	again, _, err := ParseSnapshot([]byte(snapshotYAML), config.NewDefault())
	require.NoError(t, err)
	assert.Equal(t, tasks[2].ID, again[2].ID, "derived ids are stable")

	require.Len(t, warnings, 2)
	assert.Equal(t, 3, warnings[0].Index)
	assert.Contains(t, warnings[0].Err.Error(), "duplicate id")
	assert.Equal(t, 4, warnings[1].Index)
}

func TestParseSnapshotJSON(t *testing.T) {
	data := `[{"id": "j1", "status": "-", "content": "Cancelled", "metadata": {"dueDate": 1741561200000, "priority": -2}}]`
	tasks, warnings, err := ParseSnapshot([]byte(data), nil)
	require.NoError(t, err)
	assert.Empty(t, warnings)
	require.Len(t, tasks, 1)
	assert.Equal(t, MinPriority, tasks[0].Metadata.Priority)
	assert.Equal(t, int64(1741561200000), tasks[0].Metadata.DueDate.Millis())
	assert.False(t, tasks[0].Completed)
}

func TestParseSnapshotEmptyAndInvalid(t *testing.T) {
	tasks, _, err := ParseSnapshot(nil, nil)
	require.NoError(t, err)
	assert.Empty(t, tasks)

	_, _, err = ParseSnapshot([]byte("id: not-a-list\n"), nil)
	assert.Error(t, err)
}

func TestReadSnapshotMissing(t *testing.T) {
	_, _, err := ReadSnapshot(filepath.Join(t.TempDir(), "tasks.yml"), nil)
	var cliErr *clierr.Error
	require.True(t, errors.As(err, &cliErr))
	assert.Equal(t, clierr.SnapshotNotFound, cliErr.Code)
}

func TestWriteThenReadSnapshot(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.yml")
	in := []*Task{{
		ID:       "w1",
		Status:   "/",
		Content:  "Review PR",
		FilePath: "dev.md",
		Line:     7,
		Metadata: Metadata{DueDate: date.Ptr(date.On(2025, time.March, 10)), Project: "core"},
	}}
	require.NoError(t, WriteSnapshot(path, in))

	out, warnings, err := ReadSnapshot(path, config.NewDefault())
	require.NoError(t, err)
	assert.Empty(t, warnings)
	require.Len(t, out, 1)
	assert.Equal(t, "Review PR", out[0].Content)
	assert.Equal(t, "core", out[0].Metadata.Project)
	assert.Equal(t, in[0].Metadata.DueDate.Millis(), out[0].Metadata.DueDate.Millis())
}

func TestFindByID(t *testing.T) {
	tasks := []*Task{{ID: "abc123"}, {ID: "abd456"}, {ID: "ab"}}

	got, err := FindByID(tasks, "abc")
	require.NoError(t, err)
	assert.Equal(t, "abc123", got.ID)

	got, err = FindByID(tasks, "ab")
	require.NoError(t, err)
	assert.Equal(t, "ab", got.ID, "exact match wins over prefixes")

	var cliErr *clierr.Error
	_, err = FindByID([]*Task{{ID: "abc1"}, {ID: "abc2"}}, "abc")
	require.True(t, errors.As(err, &cliErr))
	assert.Equal(t, clierr.InvalidInput, cliErr.Code)

	_, err = FindByID(tasks, "zzz")
	require.True(t, errors.As(err, &cliErr))
	assert.Equal(t, clierr.TaskNotFound, cliErr.Code)

	_, err = FindByID(tasks, "")
	require.True(t, errors.As(err, &cliErr))
	assert.Equal(t, clierr.TaskNotFound, cliErr.Code)
}

func TestMark(t *testing.T) {
	assert.Equal(t, "x", (&Task{Completed: true}).Mark())
	assert.Equal(t, " ", (&Task{}).Mark())
	assert.Equal(t, "?", (&Task{Status: "?", Completed: true}).Mark())
}
