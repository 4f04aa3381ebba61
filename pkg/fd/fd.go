// Package fd validates host file descriptors handed in by callers.
//
// Descriptors are owned by the caller. Nothing in this package opens, closes
// or duplicates them; it only checks that an integer could name an entry in
// the process's descriptor table.
package fd

import (
	"golang.org/x/sys/unix"
)

// Limit returns the size of the process's descriptor table. This is the
// RLIMIT_NOFILE soft limit, which is also what sysconf(_SC_OPEN_MAX) reports.
func Limit() (uint64, error) {
	var rlim unix.Rlimit
	if err := unix.Getrlimit(unix.RLIMIT_NOFILE, &rlim); err != nil {
		return 0, err
	}
	return uint64(rlim.Cur), nil
}

// Validate returns unix.EBADF unless 0 <= fd < limit.
func Validate(fd int, limit uint64) error {
	if fd < 0 || uint64(fd) >= limit {
		return unix.EBADF
	}
	return nil
}

// Check validates fd against the current descriptor table size.
func Check(fd int) error {
	limit, err := Limit()
	if err != nil {
		return err
	}
	return Validate(fd, limit)
}
