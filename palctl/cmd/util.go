// Package cmd holds palctl's subcommands.
package cmd

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/google/subcommands"
	log "github.com/sirupsen/logrus"

	"github.com/walteh/palio/palctl/config"
)

// output is where subcommands print their results.
var output io.Writer = os.Stdout

// failuref logs the error and returns subcommands.ExitFailure.
func failuref(format string, args ...any) subcommands.ExitStatus {
	log.Errorf(format, args...)
	return subcommands.ExitFailure
}

// usagef prints a usage error along with the command's flags.
func usagef(f *flag.FlagSet, format string, args ...any) subcommands.ExitStatus {
	fmt.Fprintf(f.Output(), format+"\n", args...)
	f.Usage()
	return subcommands.ExitUsageError
}

// configFrom extracts the *config.Config passed to subcommands.Execute.
func configFrom(args []any) *config.Config {
	if len(args) > 0 {
		if c, ok := args[0].(*config.Config); ok {
			return c
		}
	}
	return config.Default()
}
