//go:build linux

package pal

import "golang.org/x/sys/unix"

// hostPlatform adds O_DIRECT and posix_fadvise(2) to the common set.
func hostPlatform() *Platform {
	return &Platform{
		Name:   "linux",
		Access: commonAccess(),
		Flags:  commonFlags(),
		Extension: &Extension{
			Name:   "direct",
			Flag:   ODirect,
			Native: unix.O_DIRECT,
		},
		Locks: commonLocks(),
		Advice: [numAdvice]int{
			AdviceNormal:     unix.FADV_NORMAL,
			AdviceRandom:     unix.FADV_RANDOM,
			AdviceSequential: unix.FADV_SEQUENTIAL,
			AdviceWillNeed:   unix.FADV_WILLNEED,
			AdviceDontNeed:   unix.FADV_DONTNEED,
			AdviceNoReuse:    unix.FADV_NOREUSE,
		},
		HasAdvise: true,
	}
}
