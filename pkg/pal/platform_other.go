//go:build dragonfly || freebsd || netbsd || openbsd

package pal

import "runtime"

// hostPlatform has no extension flag and no posix_fadvise(2).
func hostPlatform() *Platform {
	return &Platform{
		Name:   runtime.GOOS,
		Access: commonAccess(),
		Flags:  commonFlags(),
		Locks:  commonLocks(),
	}
}
