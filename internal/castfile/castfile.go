// Package castfile guards mutating operations on a .cast recording
// (optimize, analyze) with an advisory file lock and a .cast.bak backup,
// so a concurrent reader (list's preview prefetch, the player) never
// observes a half-rewritten file. WriteAtomic writes through a temp file
// followed by rename; the lock is gofrs/flock's TryLock/Unlock.
package castfile

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/gofrs/flock"
)

// ErrLocked is returned when another process already holds the lock on
// this recording.
var ErrLocked = errors.New("castfile: recording is locked by another process")

// lockWaitTimeout is how long TryLock retries before giving up and
// returning ErrLocked.
const lockWaitTimeout = 2 * time.Second

// backupSuffix is appended to a recording's path to form its backup.
const backupSuffix = ".bak"

// Guard holds the advisory lock for one recording path across a mutating
// operation. Callers must call Close to release it.
type Guard struct {
	path string
	lock *flock.Flock
}

// Lock acquires the advisory lock for path, retrying briefly before
// returning ErrLocked. The lock file lives alongside the recording as
// "<path>.lock" so it never collides with the recording or its backup.
func Lock(path string) (*Guard, error) {
	l := flock.New(path + ".lock")

	deadline := time.Now().Add(lockWaitTimeout)
	for {
		ok, err := l.TryLock()
		if err != nil {
			return nil, fmt.Errorf("castfile: lock %s: %w", path, err)
		}
		if ok {
			return &Guard{path: path, lock: l}, nil
		}
		if time.Now().After(deadline) {
			return nil, ErrLocked
		}
		time.Sleep(20 * time.Millisecond)
	}
}

// Close releases the advisory lock.
func (g *Guard) Close() error {
	return g.lock.Unlock()
}

// Backup copies the recording at path to path+".bak", overwriting any
// prior backup. Callers take the lock before calling this so the copy is
// consistent.
func Backup(path string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("castfile: read %s for backup: %w", path, err)
	}
	if err := os.WriteFile(path+backupSuffix, content, 0o644); err != nil {
		return fmt.Errorf("castfile: write backup for %s: %w", path, err)
	}
	return nil
}

// Restore overwrites path with its .bak backup, used to recover from a
// failed mutating operation.
func Restore(path string) error {
	backup := path + backupSuffix
	content, err := os.ReadFile(backup)
	if err != nil {
		return fmt.Errorf("castfile: read backup %s: %w", backup, err)
	}
	if err := os.WriteFile(path, content, 0o644); err != nil {
		return fmt.Errorf("castfile: restore %s: %w", path, err)
	}
	return nil
}

// WriteAtomic writes content to path via a temp file in the same
// directory followed by rename, so a crash mid-write never leaves a
// truncated recording.
func WriteAtomic(path string, content []byte) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, content, 0o644); err != nil {
		return fmt.Errorf("castfile: write temp for %s: %w", path, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("castfile: rename temp into %s: %w", path, err)
	}
	return nil
}

// WithLock acquires the lock for path, takes a backup, runs fn, and
// restores the backup if fn fails — the shared guard behind optimize and
// analyze's mutating operations.
func WithLock(path string, fn func() error) error {
	g, err := Lock(path)
	if err != nil {
		return err
	}
	defer g.Close()

	if err := Backup(path); err != nil {
		return err
	}

	if err := fn(); err != nil {
		if restoreErr := Restore(path); restoreErr != nil {
			return fmt.Errorf("%w (restore also failed: %v)", err, restoreErr)
		}
		return err
	}
	return nil
}
