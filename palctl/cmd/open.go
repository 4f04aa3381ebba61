package cmd

import (
	"context"
	"flag"
	"fmt"
	"strconv"

	"github.com/google/subcommands"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sys/unix"

	"github.com/walteh/palio/pkg/pal"
)

// Open implements subcommands.Command for the "open" command.
type Open struct {
	mode string
}

// Name implements subcommands.Command.Name.
func (*Open) Name() string {
	return "open"
}

// Synopsis implements subcommands.Command.Synopsis.
func (*Open) Synopsis() string {
	return "open a file with portable flags and report the descriptor"
}

// Usage implements subcommands.Command.Usage.
func (*Open) Usage() string {
	return `open [-mode <octal>] <path> [<open flags>] - open path, print the descriptor, then close it.
`
}

// SetFlags implements subcommands.Command.SetFlags.
func (o *Open) SetFlags(fs *flag.FlagSet) {
	fs.StringVar(&o.mode, "mode", "", "creation mode in octal (default from config)")
}

// Execute implements subcommands.Command.Execute.
func (o *Open) Execute(_ context.Context, fs *flag.FlagSet, args ...any) subcommands.ExitStatus {
	conf := configFrom(args)
	if fs.NArg() < 1 || fs.NArg() > 2 {
		return usagef(fs, "expected a path and optional flags")
	}
	path := fs.Arg(0)

	spec := conf.DefaultFlags
	if fs.NArg() == 2 {
		spec = fs.Arg(1)
	}
	flags, err := pal.ParseOpenFlags(spec)
	if err != nil {
		return failuref("%v", err)
	}
	if !flags.AccessMode().Valid() {
		return failuref("%s: invalid access mode %v", spec, flags.AccessMode())
	}

	mode := conf.Mode
	if o.mode != "" {
		m, err := strconv.ParseUint(o.mode, 8, 32)
		if err != nil {
			return usagef(fs, "invalid -mode %q: %v", o.mode, err)
		}
		mode = uint32(m)
	}

	fd, err := pal.Open(path, flags, mode)
	if err != nil {
		return failuref("open %q (%v): %v", path, flags, err)
	}
	defer unix.Close(fd)
	log.Debugf("opened %q with %v as fd %d", path, flags, fd)
	fmt.Fprintf(output, "%s: fd=%d flags=%v\n", path, fd, flags)
	return subcommands.ExitSuccess
}
