package filelock

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLockExcludesSecondHolder(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.lock")

	unlock, err := Lock(context.Background(), path)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err = Lock(ctx, path)
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))

	require.NoError(t, unlock())

	unlock, err = Lock(context.Background(), path)
	require.NoError(t, err)
	require.NoError(t, unlock())
}

func TestLockWaitsForRelease(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.lock")
	unlock, err := Lock(context.Background(), path)
	require.NoError(t, err)

	go func() {
		time.Sleep(30 * time.Millisecond)
		_ = unlock()
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	second, err := Lock(ctx, path)
	require.NoError(t, err)
	require.NoError(t, second())
}

func TestLockBadPath(t *testing.T) {
	_, err := Lock(context.Background(), filepath.Join(t.TempDir(), "missing", "state.lock"))
	assert.Error(t, err)
}
