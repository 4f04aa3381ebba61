package cmd

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/subcommands"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sys/unix"

	"github.com/walteh/palio/pkg/pal"
)

// Advise implements subcommands.Command for the "advise" command.
type Advise struct {
	offset int64
	length int64
}

// Name implements subcommands.Command.Name.
func (*Advise) Name() string {
	return "advise"
}

// Synopsis implements subcommands.Command.Synopsis.
func (*Advise) Synopsis() string {
	return "give the kernel an access-pattern hint for a file"
}

// Usage implements subcommands.Command.Usage.
func (*Advise) Usage() string {
	return `advise [-offset <n>] [-length <n>] <path> <advice> - open path read-only and advise.

Advice is one of normal, random, sequential, willneed, dontneed, noreuse.
`
}

// SetFlags implements subcommands.Command.SetFlags.
func (a *Advise) SetFlags(fs *flag.FlagSet) {
	fs.Int64Var(&a.offset, "offset", 0, "start of the advised range")
	fs.Int64Var(&a.length, "length", 0, "length of the advised range, 0 means to end of file")
}

// Execute implements subcommands.Command.Execute.
func (a *Advise) Execute(_ context.Context, fs *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	if fs.NArg() != 2 {
		return usagef(fs, "expected a path and an advice")
	}
	path := fs.Arg(0)
	advice, err := pal.ParseAdvice(fs.Arg(1))
	if err != nil {
		return usagef(fs, "%v", err)
	}

	fd, err := pal.Open(path, pal.ORdonly|pal.OCloexec, 0)
	if err != nil {
		return failuref("open %q: %v", path, err)
	}
	defer unix.Close(fd)

	switch err := pal.Advise(fd, a.offset, a.length, advice); {
	case pal.IsNotSupported(err):
		log.Warningf("advise %q: %v not supported on %s, ignoring", path, advice, pal.HostPlatform().Name)
		fmt.Fprintf(output, "%s: %v unsupported\n", path, advice)
	case err != nil:
		return failuref("advise %q (%v): %v", path, advice, err)
	default:
		fmt.Fprintf(output, "%s: %v [%d, +%d)\n", path, advice, a.offset, a.length)
	}
	return subcommands.ExitSuccess
}
