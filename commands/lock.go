package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/sys/unix"
)

// lock acquires the workdir sync lock, preventing overlapping cron invocations
// from racing each other. The returned function releases the lock.
func lock(workdir string) (func(), error) {
	if err := os.MkdirAll(workdir, 0770); err != nil {
		return nil, err
	}

	path := filepath.Join(workdir, fmt.Sprintf("%s.lock", APP))

	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0600)
	if err != nil {
		return nil, err
	}

	if err := unix.Flock(int(f.Fd()), unix.LOCK_EX|unix.LOCK_NB); err != nil {
		f.Close()
		return nil, fmt.Errorf("another sync is already in progress (lock file %s)", path)
	}

	f.Truncate(0)
	fmt.Fprintf(f, "%d\n", os.Getpid())
	f.Sync()

	release := func() {
		unix.Flock(int(f.Fd()), unix.LOCK_UN)
		f.Close()
		os.Remove(path)
	}

	return release, nil
}
