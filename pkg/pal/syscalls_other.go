//go:build !linux

package pal

import "golang.org/x/sys/unix"

// Fadvise is unreachable through Host here: the Platform for this build
// reports no posix_fadvise(2).
func (unixSyscalls) Fadvise(fd int, offset, length int64, advice int) error {
	return unix.ENOTSUP
}
