// Package pal is a platform-abstraction layer for file I/O. It takes the
// portable open flag, lock and advice encodings used by the managed runtime
// and translates them into host constants, then issues open(2), flock(2)
// and posix_fadvise(2).
//
// The mapping for each host is held in a Platform, selected at build time
// (see HostPlatform). Linux adds ODirect and Darwin adds ONonblock; other
// BSDs get the common set only.
//
// Errors come in three tiers:
//
//   - A malformed access mode is a programming error and panics.
//   - Unknown flags, bad descriptors and syscall failures return the errno
//     (unix.EINVAL, unix.EBADF, ...).
//   - Advise on a host without posix_fadvise(2) returns unix.ENOTSUP,
//     which callers may ignore (IsNotSupported).
//
// EINTR is never returned; interrupted syscalls are reissued.
package pal
