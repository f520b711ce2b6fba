package pipeline

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/gofrs/flock"
)

const lockName = ".reelcut.lock"

// ErrOutputLocked means another batch is writing to the same directory.
var ErrOutputLocked = errors.New("output directory is in use by another reelcut run")

// lockOutputDir takes an exclusive advisory lock on dir.
func lockOutputDir(dir string) (func(), error) {
	path := filepath.Join(dir, lockName)
	lock := flock.New(path)
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire lock %s: %w", path, err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrOutputLocked, dir)
	}
	return func() { _ = lock.Unlock() }, nil
}
