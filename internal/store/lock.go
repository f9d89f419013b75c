package store

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

// ErrLocked is returned when another process holds the table lock.
type ErrLocked struct {
	Path string
}

func (e ErrLocked) Error() string {
	return fmt.Sprintf("%s is locked by another run", e.Path)
}

// Lock takes an exclusive, non-blocking lock on path.lock for the life of a campaign.
func Lock(path string) (unlock func() error, err error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("mkdir for %s: %w", path, err)
	}
	fl := flock.New(path + ".lock")
	ok, err := fl.TryLock()
	if err != nil {
		return nil, fmt.Errorf("lock %s: %w", fl.Path(), err)
	}
	if !ok {
		return nil, ErrLocked{Path: path}
	}
	return fl.Unlock, nil
}
