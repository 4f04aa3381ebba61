package pal

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/sys/unix"
)

// OpenFlags is the portable open(2) flag encoding shared with the runtime.
// The bit layout is fixed across every platform.
//
// Bits 0-3 hold the access mode, which is exactly one of ORdonly, OWronly or
// ORdwr. Bits 4-8 are independently combinable. A platform may define one
// further flag of its own in the high bits, see Extension.
type OpenFlags uint32

// Access modes (mutually exclusive).
const (
	ORdonly OpenFlags = 0x0000
	OWronly OpenFlags = 0x0001
	ORdwr   OpenFlags = 0x0002

	// OAccessModeMask selects the access mode. Values 3-15 are reserved.
	OAccessModeMask OpenFlags = 0x000F
)

// Combinable flags.
const (
	OCloexec OpenFlags = 0x0010
	OCreat   OpenFlags = 0x0020
	OExcl    OpenFlags = 0x0040
	OTrunc   OpenFlags = 0x0080
	OSync    OpenFlags = 0x0100
)

// Platform-specific flags. Each is only recognized by the platform that
// defines it; elsewhere it is rejected as unknown.
const (
	// ODirect asks Linux to bypass the page cache (O_DIRECT).
	ODirect OpenFlags = 0x2000

	// ONonblock asks Darwin to push writes straight to disk. It is passed
	// to the host as O_NONBLOCK.
	ONonblock OpenFlags = 0x3000
)

// AccessMode returns the access-mode sub-field of f.
func (f OpenFlags) AccessMode() AccessMode {
	return AccessMode(f & OAccessModeMask)
}

// has reports whether every bit of flag is set in f.
func (f OpenFlags) has(flag OpenFlags) bool {
	return f&flag == flag
}

// AccessMode is the decoded access-mode sub-field of OpenFlags.
type AccessMode uint32

// Valid reports whether m is one of the three recognized access modes.
func (m AccessMode) Valid() bool {
	switch OpenFlags(m) {
	case ORdonly, OWronly, ORdwr:
		return true
	}
	return false
}

// String implements fmt.Stringer.
func (m AccessMode) String() string {
	switch OpenFlags(m) {
	case ORdonly:
		return "rdonly"
	case OWronly:
		return "wronly"
	case ORdwr:
		return "rdwr"
	}
	return fmt.Sprintf("AccessMode(%#x)", uint32(m))
}

// openFlagNames lists the named flags in bit order. The platform flags come
// last; ONonblock overlaps ODirect, so it is listed before it.
var openFlagNames = []struct {
	flag OpenFlags
	name string
}{
	{OCloexec, "cloexec"},
	{OCreat, "creat"},
	{OExcl, "excl"},
	{OTrunc, "trunc"},
	{OSync, "sync"},
	{ONonblock, "nonblock"},
	{ODirect, "direct"},
}

// String renders f as "|"-separated flag names, e.g. "rdwr|creat|trunc".
// Bits without a name are rendered as a trailing hex value.
func (f OpenFlags) String() string {
	parts := []string{f.AccessMode().String()}
	rest := f &^ OAccessModeMask
	for _, n := range openFlagNames {
		if rest.has(n.flag) {
			parts = append(parts, n.name)
			rest &^= n.flag
		}
	}
	if rest != 0 {
		parts = append(parts, fmt.Sprintf("%#x", uint32(rest)))
	}
	return strings.Join(parts, "|")
}

// ParseOpenFlags parses the form produced by OpenFlags.String. Numeric parts
// are accepted as well, so "0x2|creat" and "34" are both valid. An empty
// access mode defaults to rdonly.
func ParseOpenFlags(s string) (OpenFlags, error) {
	var f OpenFlags
	for _, part := range strings.Split(s, "|") {
		part = strings.ToLower(strings.TrimSpace(part))
		switch part {
		case "":
			continue
		case "rdonly":
			f |= ORdonly
			continue
		case "wronly":
			f |= OWronly
			continue
		case "rdwr":
			f |= ORdwr
			continue
		}
		if n, ok := lookupOpenFlag(part); ok {
			f |= n
			continue
		}
		v, err := strconv.ParseUint(part, 0, 32)
		if err != nil {
			return 0, fmt.Errorf("unknown open flag %q", part)
		}
		f |= OpenFlags(v)
	}
	return f, nil
}

func lookupOpenFlag(name string) (OpenFlags, bool) {
	for _, n := range openFlagNames {
		if n.name == name {
			return n.flag, true
		}
	}
	return 0, false
}

// LockOperation is the portable flock(2) operation. The values are bits and
// may be combined, e.g. LockExclusive|LockNonBlocking.
type LockOperation int32

// Lock operations.
const (
	LockShared      LockOperation = 1
	LockExclusive   LockOperation = 2
	LockNonBlocking LockOperation = 4
	LockUnlock      LockOperation = 8

	lockKnown = LockShared | LockExclusive | LockNonBlocking | LockUnlock
)

var lockNames = []struct {
	op   LockOperation
	name string
}{
	{LockShared, "sh"},
	{LockExclusive, "ex"},
	{LockNonBlocking, "nb"},
	{LockUnlock, "un"},
}

// String implements fmt.Stringer.
func (op LockOperation) String() string {
	var parts []string
	rest := op
	for _, n := range lockNames {
		if rest&n.op != 0 {
			parts = append(parts, n.name)
			rest &^= n.op
		}
	}
	if rest != 0 || len(parts) == 0 {
		parts = append(parts, fmt.Sprintf("%#x", int32(rest)))
	}
	return strings.Join(parts, "|")
}

// ParseLockOperation parses the form produced by LockOperation.String.
func ParseLockOperation(s string) (LockOperation, error) {
	var op LockOperation
	for _, part := range strings.Split(s, "|") {
		part = strings.ToLower(strings.TrimSpace(part))
		if part == "" {
			continue
		}
		found := false
		for _, n := range lockNames {
			if n.name == part {
				op |= n.op
				found = true
				break
			}
		}
		if found {
			continue
		}
		v, err := strconv.ParseInt(part, 0, 32)
		if err != nil {
			return 0, fmt.Errorf("unknown lock operation %q", part)
		}
		op |= LockOperation(v)
	}
	if op == 0 {
		return 0, fmt.Errorf("empty lock operation %q", s)
	}
	return op, nil
}

// Advice is the portable posix_fadvise(2) advice.
type Advice int32

// Advice kinds.
const (
	AdviceNormal Advice = iota
	AdviceRandom
	AdviceSequential
	AdviceWillNeed
	AdviceDontNeed
	AdviceNoReuse

	numAdvice = iota
)

var adviceNames = [numAdvice]string{
	AdviceNormal:     "normal",
	AdviceRandom:     "random",
	AdviceSequential: "sequential",
	AdviceWillNeed:   "willneed",
	AdviceDontNeed:   "dontneed",
	AdviceNoReuse:    "noreuse",
}

// Valid reports whether a is a recognized advice kind.
func (a Advice) Valid() bool {
	return a >= 0 && a < numAdvice
}

// String implements fmt.Stringer.
func (a Advice) String() string {
	if a.Valid() {
		return adviceNames[a]
	}
	return fmt.Sprintf("Advice(%d)", int32(a))
}

// ParseAdvice parses an advice name or its numeric value.
func ParseAdvice(s string) (Advice, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, name := range adviceNames {
		if name == s {
			return Advice(i), nil
		}
	}
	v, err := strconv.ParseInt(s, 0, 32)
	if err != nil || !Advice(v).Valid() {
		return 0, fmt.Errorf("unknown advice %q", s)
	}
	return Advice(v), nil
}

// IsNotSupported reports whether err is the soft failure returned by Advise
// on hosts without posix_fadvise. Advice is only a hint, so callers normally
// ignore it.
func IsNotSupported(err error) bool {
	return errors.Is(err, unix.ENOTSUP)
}
