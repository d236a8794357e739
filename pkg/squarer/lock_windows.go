//go:build windows

package squarer

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dixieflatline76/Squarify/config"
	"golang.org/x/sys/windows"
)

// Lock guards a batch root against concurrent runs.
type Lock struct {
	file *os.File
}

// AcquireLock takes an exclusive lock file in dir. It fails with ErrLocked
// if another process already holds it.
func AcquireLock(dir string) (*Lock, error) {
	path := filepath.Join(dir, config.LockFileName)
	file, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open lock file: %w", err)
	}

	ol := new(windows.Overlapped)
	flags := uint32(windows.LOCKFILE_EXCLUSIVE_LOCK | windows.LOCKFILE_FAIL_IMMEDIATELY)
	if err := windows.LockFileEx(windows.Handle(file.Fd()), flags, 0, 1, 0, ol); err != nil {
		file.Close()
		if errors.Is(err, windows.ERROR_LOCK_VIOLATION) {
			return nil, fmt.Errorf("%w: %s", ErrLocked, dir)
		}
		return nil, fmt.Errorf("failed to acquire lock: %w", err)
	}

	return &Lock{file: file}, nil
}

// Release unlocks the lock file. The file stays on disk so every run locks
// the same file.
func (l *Lock) Release() {
	if l == nil || l.file == nil {
		return
	}
	windows.UnlockFileEx(windows.Handle(l.file.Fd()), 0, 1, 0, new(windows.Overlapped))
	l.file.Close()
	l.file = nil
}
