// Package instance keeps a second keynotes from capturing the same keyboard.
package instance

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/gofrs/flock"
)

const lockFileName = "keynotes.lock"

// ErrRunning is returned when another process holds the lock.
var ErrRunning = errors.New("another keynotes instance is already running")

type Lock struct {
	path string
	lock *flock.Flock
}

// Acquire takes the lock file in dir without blocking.
func Acquire(dir string) (*Lock, error) {
	path := filepath.Join(dir, lockFileName)
	fl := flock.New(path)
	ok, err := fl.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("%w (lock %s)", ErrRunning, path)
	}
	return &Lock{path: path, lock: fl}, nil
}

func (l *Lock) Path() string { return l.path }

func (l *Lock) Release() error {
	return l.lock.Unlock()
}
