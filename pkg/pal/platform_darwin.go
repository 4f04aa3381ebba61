//go:build darwin

package pal

import "golang.org/x/sys/unix"

// hostPlatform adds the disk-cache bypass flag to the common set. Darwin has
// no posix_fadvise(2), so Advise reports ENOTSUP.
func hostPlatform() *Platform {
	return &Platform{
		Name:   "darwin",
		Access: commonAccess(),
		Flags:  commonFlags(),
		Extension: &Extension{
			Name:   "nonblock",
			Flag:   ONonblock,
			Native: unix.O_NONBLOCK,
		},
		Locks: commonLocks(),
	}
}
