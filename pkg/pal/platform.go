package pal

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// FlagMapping pairs a portable bit with the host bit it translates to.
type FlagMapping struct {
	Portable OpenFlags
	Native   int
}

// LockMapping pairs a portable lock bit with the host flock(2) bit.
type LockMapping struct {
	Portable LockOperation
	Native   int
}

// Extension is the single open flag a platform adds on top of the common
// set.
type Extension struct {
	// Name is used in logs and by palctl.
	Name string

	// Flag is the portable bit. Any overlap with Flag selects the extension.
	Flag OpenFlags

	// Native is ORed into the translated flags when Flag is present.
	Native int
}

// Platform describes how portable constants map onto one host. A Platform
// is a plain value; it holds no descriptors and is never mutated after
// construction, so it may be shared freely.
type Platform struct {
	// Name identifies the platform, e.g. "linux".
	Name string

	// Access maps each access mode to the host's O_RDONLY, O_WRONLY and
	// O_RDWR.
	Access map[AccessMode]int

	// Flags maps the combinable bits. It must cover OCloexec, OCreat,
	// OExcl, OTrunc and OSync.
	Flags []FlagMapping

	// Extension is the platform-specific open flag, or nil.
	Extension *Extension

	// Locks maps each lock bit to the host's LOCK_* value.
	Locks []LockMapping

	// Advice maps each advice kind to the host's POSIX_FADV_* value. It is
	// only consulted when HasAdvise is set.
	Advice [numAdvice]int

	// HasAdvise is set when the host has posix_fadvise(2).
	HasAdvise bool
}

// KnownFlags returns the mask of every common flag the translator
// recognizes, including the whole access-mode field. The platform's
// extension is not included.
func (p *Platform) KnownFlags() OpenFlags {
	known := OAccessModeMask
	for _, m := range p.Flags {
		known |= m.Portable
	}
	return known
}

// SupportedFlags returns KnownFlags plus the extension bit, if any.
func (p *Platform) SupportedFlags() OpenFlags {
	supported := p.KnownFlags()
	if p.Extension != nil {
		supported |= p.Extension.Flag
	}
	return supported
}

// TranslateOpenFlags converts the access mode and combinable bits of f into
// host open(2) flags. Bits outside KnownFlags are ignored; callers validate
// them first (see ConvertOpenFlags).
//
// Precondition: f.AccessMode().Valid(). Violating it panics.
func (p *Platform) TranslateOpenFlags(f OpenFlags) int {
	mode := f.AccessMode()
	native, ok := p.Access[mode]
	if !mode.Valid() || !ok {
		panic(fmt.Sprintf("pal: unknown open access mode %v in flags %#x", mode, uint32(f)))
	}
	for _, m := range p.Flags {
		if f&m.Portable != 0 {
			native |= m.Native
		}
	}
	return native
}

// ConvertOpenFlags validates f against SupportedFlags and translates it,
// including the platform extension. Unknown bits yield unix.EINVAL.
func (p *Platform) ConvertOpenFlags(f OpenFlags) (int, error) {
	if f&^p.SupportedFlags() != 0 {
		return -1, unix.EINVAL
	}
	native := p.TranslateOpenFlags(f)
	if ext := p.Extension; ext != nil && f&ext.Flag != 0 {
		native |= ext.Native
	}
	return native, nil
}

// TranslateLockOperation converts op into a flock(2) operation. Unknown bits
// yield unix.EINVAL.
func (p *Platform) TranslateLockOperation(op LockOperation) (int, error) {
	if op&^lockKnown != 0 {
		return 0, unix.EINVAL
	}
	var native int
	for _, m := range p.Locks {
		if op&m.Portable != 0 {
			native |= m.Native
		}
	}
	return native, nil
}

// TranslateAdvice converts a into a posix_fadvise(2) advice value.
// Unrecognized advice yields unix.EINVAL.
func (p *Platform) TranslateAdvice(a Advice) (int, error) {
	if !a.Valid() {
		return 0, unix.EINVAL
	}
	return p.Advice[a], nil
}

// commonFlags returns the combinable-flag table shared by every unix host.
func commonFlags() []FlagMapping {
	return []FlagMapping{
		{OCloexec, unix.O_CLOEXEC},
		{OCreat, unix.O_CREAT},
		{OExcl, unix.O_EXCL},
		{OTrunc, unix.O_TRUNC},
		{OSync, unix.O_SYNC},
	}
}

func commonAccess() map[AccessMode]int {
	return map[AccessMode]int{
		AccessMode(ORdonly): unix.O_RDONLY,
		AccessMode(OWronly): unix.O_WRONLY,
		AccessMode(ORdwr):   unix.O_RDWR,
	}
}

func commonLocks() []LockMapping {
	return []LockMapping{
		{LockShared, unix.LOCK_SH},
		{LockExclusive, unix.LOCK_EX},
		{LockNonBlocking, unix.LOCK_NB},
		{LockUnlock, unix.LOCK_UN},
	}
}
