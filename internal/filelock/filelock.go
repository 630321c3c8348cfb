// Package filelock serializes writers of the tasklens state files across
// processes with an advisory lock on a sidecar file.
package filelock

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"
)

const (
	lockFileMode = 0o600
	pollInterval = 10 * time.Millisecond
)

// errWouldBlock is returned by tryLock when another holder owns the lock.
var errWouldBlock = errors.New("lock held by another process")

// Unlock releases a lock obtained from Lock.
type Unlock func() error

// Lock acquires an exclusive advisory lock on path, creating the file when
// missing. It polls until the lock is free or ctx is done.
func Lock(ctx context.Context, path string) (Unlock, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, lockFileMode) //nolint:gosec // lock path derived from config dir
	if err != nil {
		return nil, fmt.Errorf("opening lock file: %w", err)
	}

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		err := tryLock(f)
		if err == nil {
			break
		}
		if !errors.Is(err, errWouldBlock) {
			_ = f.Close()
			return nil, fmt.Errorf("locking %s: %w", path, err)
		}
		select {
		case <-ctx.Done():
			_ = f.Close()
			return nil, fmt.Errorf("locking %s: %w", path, ctx.Err())
		case <-ticker.C:
		}
	}

	return func() error {
		unlockErr := unlockFile(f)
		closeErr := f.Close()
		if unlockErr != nil {
			return unlockErr
		}
		return closeErr
	}, nil
}
