package pal

import (
	"github.com/sirupsen/logrus"

	hostfd "github.com/walteh/palio/pkg/fd"
	"github.com/walteh/palio/pkg/rawfile"
	"golang.org/x/sys/unix"
)

// Syscalls is the set of host primitives a Host delegates to. Flags and
// values passed in are already native.
type Syscalls interface {
	// Open is open(2).
	Open(path string, flags int, mode uint32) (int, error)

	// Flock is flock(2).
	Flock(fd int, how int) error

	// Fadvise is posix_fadvise(2). It is only called when the Platform
	// reports HasAdvise.
	Fadvise(fd int, offset, length int64, advice int) error

	// FDLimit returns the size of the descriptor table.
	FDLimit() (uint64, error)
}

// Host issues portable file operations against one Platform. A Host holds
// no mutable state and is safe for concurrent use.
type Host struct {
	platform *Platform
	sys      Syscalls
	log      logrus.FieldLogger
}

// Option configures a Host.
type Option func(*Host)

// WithSyscalls replaces the host syscalls, typically with a fake in tests.
func WithSyscalls(sys Syscalls) Option {
	return func(h *Host) {
		h.sys = sys
	}
}

// WithLogger sets the logger used for retry and rejection messages.
func WithLogger(log logrus.FieldLogger) Option {
	return func(h *Host) {
		h.log = log
	}
}

// NewHost returns a Host for p. Without options it uses the real host
// syscalls and the standard logrus logger.
func NewHost(p *Platform, opts ...Option) *Host {
	h := &Host{
		platform: p,
		sys:      unixSyscalls{},
		log:      logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// HostPlatform returns the Platform this binary was built for.
func HostPlatform() *Platform {
	return hostPlatform()
}

var defaultHost = NewHost(hostPlatform())

// Default returns the Host for the build platform with the real syscalls.
func Default() *Host {
	return defaultHost
}

// Platform returns the platform h translates for.
func (h *Host) Platform() *Platform {
	return h.platform
}

// Open opens path with the portable flags and creation mode and returns the
// new descriptor. On failure it returns -1 and the errno. Flags the platform
// does not recognize fail with unix.EINVAL before any syscall is made.
//
// EINTR is retried until open(2) completes.
func (h *Host) Open(path string, flags OpenFlags, mode uint32) (int, error) {
	native, err := h.platform.ConvertOpenFlags(flags)
	if err != nil {
		h.log.Debugf("open %q: flags %v not supported on %s (supported %#x)", path, flags, h.platform.Name, uint32(h.platform.SupportedFlags()))
		return -1, err
	}
	fd, err := rawfile.RetryEINTRValue(func() (int, error) {
		return h.sys.Open(path, native, mode)
	}, h.onRetry("open", -1))
	if err != nil {
		return -1, err
	}
	return fd, nil
}

// Advise hints the expected access pattern for the byte range of fd to the
// kernel. Hosts without posix_fadvise(2) return unix.ENOTSUP for every
// input; see IsNotSupported.
func (h *Host) Advise(fd int, offset, length int64, advice Advice) error {
	if !h.platform.HasAdvise {
		return unix.ENOTSUP
	}
	if err := h.checkFD(fd); err != nil {
		return err
	}
	native, err := h.platform.TranslateAdvice(advice)
	if err != nil {
		return err
	}
	return rawfile.RetryEINTR(func() error {
		return h.sys.Fadvise(fd, offset, length, native)
	}, h.onRetry("fadvise", fd))
}

// Lock applies or removes an advisory flock(2) lock on fd. Without
// LockNonBlocking it blocks until the lock is granted.
func (h *Host) Lock(fd int, op LockOperation) error {
	if err := h.checkFD(fd); err != nil {
		return err
	}
	native, err := h.platform.TranslateLockOperation(op)
	if err != nil {
		return err
	}
	return rawfile.RetryEINTR(func() error {
		return h.sys.Flock(fd, native)
	}, h.onRetry("flock", fd))
}

// checkFD returns unix.EBADF unless fd lies within the descriptor table.
func (h *Host) checkFD(fd int) error {
	limit, err := h.sys.FDLimit()
	if err != nil {
		return err
	}
	return hostfd.Validate(fd, limit)
}

func (h *Host) onRetry(op string, fd int) func(int) {
	return func(attempt int) {
		h.log.Debugf("%s(fd=%d): interrupted, retrying (attempt %d)", op, fd, attempt)
	}
}

// Open calls Default().Open.
func Open(path string, flags OpenFlags, mode uint32) (int, error) {
	return defaultHost.Open(path, flags, mode)
}

// Advise calls Default().Advise.
func Advise(fd int, offset, length int64, advice Advice) error {
	return defaultHost.Advise(fd, offset, length, advice)
}

// Lock calls Default().Lock.
func Lock(fd int, op LockOperation) error {
	return defaultHost.Lock(fd, op)
}
