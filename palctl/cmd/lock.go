package cmd

import (
	"context"
	"flag"
	"fmt"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/subcommands"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sys/unix"

	"github.com/walteh/palio/pkg/pal"
)

// Lock implements subcommands.Command for the "lock" command.
type Lock struct {
	hold  time.Duration
	check bool
}

// Name implements subcommands.Command.Name.
func (*Lock) Name() string {
	return "lock"
}

// Synopsis implements subcommands.Command.Synopsis.
func (*Lock) Synopsis() string {
	return "take an advisory flock(2) lock on a file"
}

// Usage implements subcommands.Command.Usage.
func (*Lock) Usage() string {
	return `lock [-hold <duration>] <path> <op> - lock path, hold it, then unlock.
lock -check <path> - report whether anyone holds a lock on path.

Op is "|"-separated: sh, ex, nb, un. E.g. "ex|nb".
`
}

// SetFlags implements subcommands.Command.SetFlags.
func (l *Lock) SetFlags(fs *flag.FlagSet) {
	fs.DurationVar(&l.hold, "hold", -1, "how long to hold the lock (default from config)")
	fs.BoolVar(&l.check, "check", false, "only probe whether the file is locked")
}

// Execute implements subcommands.Command.Execute.
func (l *Lock) Execute(ctx context.Context, fs *flag.FlagSet, args ...any) subcommands.ExitStatus {
	conf := configFrom(args)
	if l.check {
		if fs.NArg() != 1 {
			return usagef(fs, "expected a path")
		}
		return l.probe(fs.Arg(0))
	}
	if fs.NArg() != 2 {
		return usagef(fs, "expected a path and a lock operation")
	}
	path := fs.Arg(0)
	op, err := pal.ParseLockOperation(fs.Arg(1))
	if err != nil {
		return usagef(fs, "%v", err)
	}
	hold := l.hold
	if hold < 0 {
		hold = conf.Hold
	}

	fd, err := pal.Open(path, pal.ORdonly|pal.OCloexec, 0)
	if err != nil {
		return failuref("open %q: %v", path, err)
	}
	defer unix.Close(fd)

	if err := pal.Lock(fd, op); err != nil {
		return failuref("lock %q (%v): %v", path, op, err)
	}
	fmt.Fprintf(output, "%s: %v\n", path, op)
	if op&pal.LockUnlock != 0 {
		return subcommands.ExitSuccess
	}

	if hold > 0 {
		log.Infof("holding %v lock on %q for %v", op, path, hold)
		select {
		case <-time.After(hold):
		case <-ctx.Done():
			log.Infof("interrupted, releasing %q early", path)
		}
	}
	if err := pal.Lock(fd, pal.LockUnlock); err != nil {
		return failuref("unlock %q: %v", path, err)
	}
	return subcommands.ExitSuccess
}

// probe tries to take and release a lock on path from a separate open file
// description.
func (l *Lock) probe(path string) subcommands.ExitStatus {
	probe := flock.New(path)
	locked, err := probe.TryLock()
	if err != nil {
		return failuref("probe %q: %v", path, err)
	}
	if !locked {
		fmt.Fprintf(output, "%s: held\n", path)
		return subcommands.ExitSuccess
	}
	if err := probe.Unlock(); err != nil {
		return failuref("probe %q: %v", path, err)
	}
	fmt.Fprintf(output, "%s: free\n", path)
	return subcommands.ExitSuccess
}
