package pal

import (
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"golang.org/x/sys/unix"
)

// fakeSyscalls records calls and returns EINTR for the first interrupts
// calls of each syscall.
type fakeSyscalls struct {
	interrupts int
	err        error
	fd         int
	limit      uint64

	openCalls    int
	flockCalls   int
	fadviseCalls int
	limitCalls   int

	lastPath   string
	lastFlags  int
	lastMode   uint32
	lastFD     int
	lastHow    int
	lastAdvice int
	lastOffset int64
	lastLength int64
}

func newFake() *fakeSyscalls {
	return &fakeSyscalls{fd: 42, limit: 1024}
}

func (f *fakeSyscalls) result(calls int) error {
	if calls <= f.interrupts {
		return unix.EINTR
	}
	return f.err
}

func (f *fakeSyscalls) Open(path string, flags int, mode uint32) (int, error) {
	f.openCalls++
	f.lastPath, f.lastFlags, f.lastMode = path, flags, mode
	if err := f.result(f.openCalls); err != nil {
		return -1, err
	}
	return f.fd, nil
}

func (f *fakeSyscalls) Flock(fd int, how int) error {
	f.flockCalls++
	f.lastFD, f.lastHow = fd, how
	return f.result(f.flockCalls)
}

func (f *fakeSyscalls) Fadvise(fd int, offset, length int64, advice int) error {
	f.fadviseCalls++
	f.lastFD, f.lastOffset, f.lastLength, f.lastAdvice = fd, offset, length, advice
	return f.result(f.fadviseCalls)
}

func (f *fakeSyscalls) FDLimit() (uint64, error) {
	f.limitCalls++
	return f.limit, nil
}

func TestHostOpen(t *testing.T) {
	sys := newFake()
	sys.interrupts = 3
	h := NewHost(testPlatform(), WithSyscalls(sys))

	fd, err := h.Open("/tmp/file", ORdwr|OCreat|OTrunc, 0o644)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if fd != 42 {
		t.Errorf("Open() = %d, want 42", fd)
	}
	if sys.openCalls != 4 {
		t.Errorf("got %d open calls, want 4", sys.openCalls)
	}
	if sys.lastFlags != 0x242 {
		t.Errorf("open flags = %#x, want 0x242", sys.lastFlags)
	}
	if sys.lastPath != "/tmp/file" || sys.lastMode != 0o644 {
		t.Errorf("open(%q, %o), want open(%q, %o)", sys.lastPath, sys.lastMode, "/tmp/file", 0o644)
	}
}

func TestHostOpenUnknownFlags(t *testing.T) {
	for _, flags := range []OpenFlags{ORdwr | 0x200, ORdonly | 0x1000, ORdwr | ODirect | 0x8000, 0xFFFFFFF0} {
		sys := newFake()
		h := NewHost(testPlatform(), WithSyscalls(sys))
		fd, err := h.Open("/tmp/file", flags, 0)
		if err != unix.EINVAL {
			t.Errorf("Open(%#x) error = %v, want EINVAL", uint32(flags), err)
		}
		if fd != -1 {
			t.Errorf("Open(%#x) = %d, want -1", uint32(flags), fd)
		}
		if sys.openCalls != 0 {
			t.Errorf("Open(%#x) issued %d syscalls, want 0", uint32(flags), sys.openCalls)
		}
	}
}

func TestHostOpenFailure(t *testing.T) {
	sys := newFake()
	sys.interrupts = 1
	sys.err = unix.ENOENT
	h := NewHost(testPlatform(), WithSyscalls(sys))

	fd, err := h.Open("/missing", ORdonly, 0)
	if err != unix.ENOENT {
		t.Errorf("Open error = %v, want ENOENT", err)
	}
	if fd != -1 {
		t.Errorf("Open() = %d, want -1", fd)
	}
	if sys.openCalls != 2 {
		t.Errorf("got %d open calls, want 2", sys.openCalls)
	}
}

func TestHostLock(t *testing.T) {
	sys := newFake()
	sys.interrupts = 2
	h := NewHost(testPlatform(), WithSyscalls(sys))

	if err := h.Lock(5, LockExclusive|LockNonBlocking); err != nil {
		t.Fatalf("Lock failed: %v", err)
	}
	if sys.flockCalls != 3 {
		t.Errorf("got %d flock calls, want 3", sys.flockCalls)
	}
	if sys.lastFD != 5 || sys.lastHow != 0x6 {
		t.Errorf("flock(%d, %#x), want flock(5, 0x6)", sys.lastFD, sys.lastHow)
	}
}

func TestHostLockErrors(t *testing.T) {
	for _, tc := range []struct {
		name string
		fd   int
		op   LockOperation
		want error
	}{
		{name: "fd at limit", fd: 1024, op: LockShared, want: unix.EBADF},
		{name: "fd past limit", fd: 1 << 20, op: LockShared, want: unix.EBADF},
		{name: "negative fd", fd: -1, op: LockUnlock, want: unix.EBADF},
		{name: "unknown op", fd: 3, op: 0x10, want: unix.EINVAL},
	} {
		t.Run(tc.name, func(t *testing.T) {
			sys := newFake()
			h := NewHost(testPlatform(), WithSyscalls(sys))
			if err := h.Lock(tc.fd, tc.op); err != tc.want {
				t.Errorf("Lock(%d, %v) = %v, want %v", tc.fd, tc.op, err, tc.want)
			}
			if sys.flockCalls != 0 {
				t.Errorf("Lock issued %d syscalls, want 0", sys.flockCalls)
			}
		})
	}
}

func TestHostLockSyscallError(t *testing.T) {
	sys := newFake()
	sys.err = unix.EWOULDBLOCK
	h := NewHost(testPlatform(), WithSyscalls(sys))
	if err := h.Lock(3, LockExclusive|LockNonBlocking); err != unix.EWOULDBLOCK {
		t.Errorf("Lock error = %v, want EWOULDBLOCK", err)
	}
}

func TestHostAdvise(t *testing.T) {
	sys := newFake()
	sys.interrupts = 1
	h := NewHost(testPlatform(), WithSyscalls(sys))

	if err := h.Advise(7, 4096, 8192, AdviceDontNeed); err != nil {
		t.Fatalf("Advise failed: %v", err)
	}
	if sys.fadviseCalls != 2 {
		t.Errorf("got %d fadvise calls, want 2", sys.fadviseCalls)
	}
	if sys.lastFD != 7 || sys.lastOffset != 4096 || sys.lastLength != 8192 || sys.lastAdvice != 14 {
		t.Errorf("fadvise(%d, %d, %d, %d), want fadvise(7, 4096, 8192, 14)",
			sys.lastFD, sys.lastOffset, sys.lastLength, sys.lastAdvice)
	}
}

func TestHostAdviseErrors(t *testing.T) {
	for _, tc := range []struct {
		name   string
		fd     int
		advice Advice
		want   error
	}{
		{name: "fd at limit", fd: 1024, advice: AdviceNormal, want: unix.EBADF},
		{name: "negative fd", fd: -3, advice: AdviceNormal, want: unix.EBADF},
		{name: "unknown advice", fd: 3, advice: 6, want: unix.EINVAL},
	} {
		t.Run(tc.name, func(t *testing.T) {
			sys := newFake()
			h := NewHost(testPlatform(), WithSyscalls(sys))
			if err := h.Advise(tc.fd, 0, 0, tc.advice); err != tc.want {
				t.Errorf("Advise(%d, %v) = %v, want %v", tc.fd, tc.advice, err, tc.want)
			}
			if sys.fadviseCalls != 0 {
				t.Errorf("Advise issued %d syscalls, want 0", sys.fadviseCalls)
			}
		})
	}
}

func TestHostAdviseNotSupported(t *testing.T) {
	p := testPlatform()
	p.HasAdvise = false
	sys := newFake()
	h := NewHost(p, WithSyscalls(sys))

	for _, fd := range []int{-1, 0, 3, 1024, 1 << 30} {
		for _, advice := range []Advice{AdviceNormal, AdviceWillNeed, AdviceNoReuse, -1, 99} {
			err := h.Advise(fd, 0, 1<<20, advice)
			if err != unix.ENOTSUP {
				t.Errorf("Advise(%d, %v) = %v, want ENOTSUP", fd, advice, err)
			}
			if !IsNotSupported(err) {
				t.Errorf("IsNotSupported(%v) = false", err)
			}
		}
	}
	if sys.fadviseCalls != 0 || sys.limitCalls != 0 {
		t.Errorf("got %d fadvise and %d limit calls, want none", sys.fadviseCalls, sys.limitCalls)
	}
}

func TestHostLogsRetries(t *testing.T) {
	logger, hook := logtest.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	sys := newFake()
	sys.interrupts = 2
	h := NewHost(testPlatform(), WithSyscalls(sys), WithLogger(logger))

	if err := h.Lock(3, LockShared); err != nil {
		t.Fatalf("Lock failed: %v", err)
	}
	entries := hook.AllEntries()
	if len(entries) != 2 {
		t.Fatalf("got %d log entries, want 2", len(entries))
	}
	for _, e := range entries {
		if e.Level != logrus.DebugLevel || !strings.Contains(e.Message, "interrupted") {
			t.Errorf("unexpected log entry %v: %q", e.Level, e.Message)
		}
	}

	hook.Reset()
	if _, err := h.Open("/tmp/file", ORdwr|0x400, 0); err != unix.EINVAL {
		t.Fatalf("Open error = %v, want EINVAL", err)
	}
	if e := hook.LastEntry(); e == nil || !strings.Contains(e.Message, "not supported on test") {
		t.Errorf("missing rejection log entry, got %v", e)
	}
}
