package pal

import (
	"errors"
	"fmt"
	"testing"

	"golang.org/x/sys/unix"
)

func TestOpenFlagsString(t *testing.T) {
	for _, tc := range []struct {
		flags OpenFlags
		want  string
	}{
		{ORdonly, "rdonly"},
		{ORdwr | OCreat | OTrunc, "rdwr|creat|trunc"},
		{OWronly | OCloexec | OExcl | OSync, "wronly|cloexec|excl|sync"},
		{ORdonly | ODirect, "rdonly|direct"},
		{ORdwr | ONonblock, "rdwr|nonblock"},
		{ORdwr | 0x1000, "rdwr|0x1000"},
		{3, "AccessMode(0x3)"},
	} {
		if got := tc.flags.String(); got != tc.want {
			t.Errorf("OpenFlags(%#x).String() = %q, want %q", uint32(tc.flags), got, tc.want)
		}
	}
}

func TestParseOpenFlags(t *testing.T) {
	for _, tc := range []struct {
		in   string
		want OpenFlags
	}{
		{"", ORdonly},
		{"rdwr|creat|trunc", 0x00A2},
		{" RDWR | Creat ", ORdwr | OCreat},
		{"wronly|direct", OWronly | ODirect},
		{"0x2|creat", ORdwr | OCreat},
		{"34", ORdwr | OCreat},
	} {
		got, err := ParseOpenFlags(tc.in)
		if err != nil {
			t.Errorf("ParseOpenFlags(%q) failed: %v", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("ParseOpenFlags(%q) = %#x, want %#x", tc.in, uint32(got), uint32(tc.want))
		}
	}
	if _, err := ParseOpenFlags("rdwr|bogus"); err == nil {
		t.Errorf("ParseOpenFlags(rdwr|bogus) succeeded")
	}
}

func TestOpenFlagsRoundTrip(t *testing.T) {
	for _, f := range []OpenFlags{ORdonly, OWronly | OCreat | OExcl, ORdwr | OCloexec | OTrunc | OSync | ODirect} {
		got, err := ParseOpenFlags(f.String())
		if err != nil || got != f {
			t.Errorf("ParseOpenFlags(%q) = %#x, %v, want %#x", f.String(), uint32(got), err, uint32(f))
		}
	}
}

func TestLockOperationParse(t *testing.T) {
	for _, tc := range []struct {
		in   string
		want LockOperation
		str  string
	}{
		{"sh", LockShared, "sh"},
		{"ex|nb", LockExclusive | LockNonBlocking, "ex|nb"},
		{"6", 6, "ex|nb"},
		{"un", LockUnlock, "un"},
	} {
		got, err := ParseLockOperation(tc.in)
		if err != nil {
			t.Errorf("ParseLockOperation(%q) failed: %v", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("ParseLockOperation(%q) = %d, want %d", tc.in, got, tc.want)
		}
		if got.String() != tc.str {
			t.Errorf("LockOperation(%d).String() = %q, want %q", got, got.String(), tc.str)
		}
	}
	for _, in := range []string{"", "wait", "|"} {
		if _, err := ParseLockOperation(in); err == nil {
			t.Errorf("ParseLockOperation(%q) succeeded", in)
		}
	}
}

func TestAdviceParse(t *testing.T) {
	for i, name := range []string{"normal", "random", "sequential", "willneed", "dontneed", "noreuse"} {
		a, err := ParseAdvice(name)
		if err != nil || a != Advice(i) {
			t.Errorf("ParseAdvice(%q) = %d, %v, want %d", name, a, err, i)
		}
		if a.String() != name {
			t.Errorf("Advice(%d).String() = %q, want %q", i, a.String(), name)
		}
		n, err := ParseAdvice(fmt.Sprint(i))
		if err != nil || n != a {
			t.Errorf("ParseAdvice(%d) = %d, %v", i, n, err)
		}
	}
	for _, in := range []string{"6", "-1", "always"} {
		if _, err := ParseAdvice(in); err == nil {
			t.Errorf("ParseAdvice(%q) succeeded", in)
		}
	}
}

func TestIsNotSupported(t *testing.T) {
	if !IsNotSupported(unix.ENOTSUP) {
		t.Errorf("IsNotSupported(ENOTSUP) = false")
	}
	if !IsNotSupported(fmt.Errorf("advise: %w", unix.ENOTSUP)) {
		t.Errorf("IsNotSupported(wrapped ENOTSUP) = false")
	}
	for _, err := range []error{nil, unix.EINVAL, errors.New("not supported")} {
		if IsNotSupported(err) {
			t.Errorf("IsNotSupported(%v) = true", err)
		}
	}
}
