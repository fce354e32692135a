//go:build linux || darwin || freebsd

package main

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// acquireSingleInstanceLock takes an exclusive, non-blocking flock on path,
// refusing to start a second syncd against the same switch. The fd is kept
// open (leaked deliberately) for the life of the process; the lock releases
// when the process exits.
func acquireSingleInstanceLock(path string) error {
	fd, err := unix.Open(path, unix.O_CREAT|unix.O_RDWR, 0o644)
	if err != nil {
		return fmt.Errorf("syncd: open lock file %s: %w", path, err)
	}
	if err := unix.Flock(fd, unix.LOCK_EX|unix.LOCK_NB); err != nil {
		_ = unix.Close(fd)
		if err == unix.EWOULDBLOCK {
			return fmt.Errorf("syncd: another instance already holds %s", path)
		}
		return fmt.Errorf("syncd: flock %s: %w", path, err)
	}
	return nil
}
