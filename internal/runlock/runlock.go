// Package runlock keeps two batch runs from writing into the same output
// directory at once.
package runlock

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/gofrs/flock"

	"ytharvest/internal/services"
)

// FileName is the lock file created inside the output directory.
const FileName = ".ytharvest.lock"

// ErrLocked is returned when another process holds the lock.
var ErrLocked = errors.New("another ytharvest run is using this output directory")

// Lock is an exclusive advisory lock on an output directory.
type Lock struct {
	path  string
	flock *flock.Flock
}

// Acquire takes the lock for dir without blocking.
func Acquire(dir string) (*Lock, error) {
	path := filepath.Join(dir, FileName)
	fl := flock.New(path)
	ok, err := fl.TryLock()
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "runlock", "acquire", "lock output directory", err)
	}
	if !ok {
		return nil, fmt.Errorf("%w (%s)", ErrLocked, path)
	}
	return &Lock{path: path, flock: fl}, nil
}

// Path returns the lock file path.
func (l *Lock) Path() string {
	if l == nil {
		return ""
	}
	return l.path
}

// Release unlocks. The lock file is left in place.
func (l *Lock) Release() error {
	if l == nil || l.flock == nil {
		return nil
	}
	if err := l.flock.Unlock(); err != nil {
		return fmt.Errorf("release lock: %w", err)
	}
	return nil
}
