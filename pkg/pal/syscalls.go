package pal

import (
	hostfd "github.com/walteh/palio/pkg/fd"
	"golang.org/x/sys/unix"
)

// unixSyscalls issues the real host syscalls.
type unixSyscalls struct{}

func (unixSyscalls) Open(path string, flags int, mode uint32) (int, error) {
	return unix.Open(path, flags, mode)
}

func (unixSyscalls) Flock(fd int, how int) error {
	return unix.Flock(fd, how)
}

func (unixSyscalls) FDLimit() (uint64, error) {
	return hostfd.Limit()
}
