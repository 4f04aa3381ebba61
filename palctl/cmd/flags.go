package cmd

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/subcommands"

	"github.com/walteh/palio/pkg/pal"
)

// Flags implements subcommands.Command for the "flags" command.
type Flags struct {
	lock   string
	advice string
}

// Name implements subcommands.Command.Name.
func (*Flags) Name() string {
	return "flags"
}

// Synopsis implements subcommands.Command.Synopsis.
func (*Flags) Synopsis() string {
	return "translate portable flags to this host's native values"
}

// Usage implements subcommands.Command.Usage.
func (*Flags) Usage() string {
	return `flags [-lock <op>] [-advice <advice>] [<open flags>...] - print native translations.

Open flags are "|"-separated names or numbers, e.g. "rdwr|creat|trunc" or "0xa2".
`
}

// SetFlags implements subcommands.Command.SetFlags.
func (f *Flags) SetFlags(fs *flag.FlagSet) {
	fs.StringVar(&f.lock, "lock", "", "also translate this lock operation, e.g. ex|nb")
	fs.StringVar(&f.advice, "advice", "", "also translate this advice, e.g. sequential")
}

// Execute implements subcommands.Command.Execute.
func (f *Flags) Execute(_ context.Context, fs *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	if fs.NArg() == 0 && f.lock == "" && f.advice == "" {
		return usagef(fs, "nothing to translate")
	}
	p := pal.HostPlatform()
	status := subcommands.ExitSuccess

	for _, arg := range fs.Args() {
		flags, err := pal.ParseOpenFlags(arg)
		if err != nil {
			status = failuref("%v", err)
			continue
		}
		if !flags.AccessMode().Valid() {
			status = failuref("%s: invalid access mode %v", arg, flags.AccessMode())
			continue
		}
		native, err := p.ConvertOpenFlags(flags)
		if err != nil {
			status = failuref("%s: %v on %s (supported %#x)", flags, err, p.Name, uint32(p.SupportedFlags()))
			continue
		}
		fmt.Fprintf(output, "open %v: portable=%#x native=%#x\n", flags, uint32(flags), native)
	}

	if f.lock != "" {
		op, err := pal.ParseLockOperation(f.lock)
		if err != nil {
			return failuref("%v", err)
		}
		native, err := p.TranslateLockOperation(op)
		if err != nil {
			return failuref("lock %v: %v", op, err)
		}
		fmt.Fprintf(output, "lock %v: portable=%d native=%#x\n", op, int32(op), native)
	}

	if f.advice != "" {
		a, err := pal.ParseAdvice(f.advice)
		if err != nil {
			return failuref("%v", err)
		}
		if !p.HasAdvise {
			fmt.Fprintf(output, "advice %v: not supported on %s\n", a, p.Name)
		} else {
			native, err := p.TranslateAdvice(a)
			if err != nil {
				return failuref("advice %v: %v", a, err)
			}
			fmt.Fprintf(output, "advice %v: portable=%d native=%d\n", a, int32(a), native)
		}
	}
	return status
}
