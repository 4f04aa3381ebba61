//go:build linux

package pal

import "golang.org/x/sys/unix"

func (unixSyscalls) Fadvise(fd int, offset, length int64, advice int) error {
	return unix.Fadvise(fd, offset, length, advice)
}
