// Binary palctl exercises the portable file-I/O layer from the command line.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"

	"github.com/google/subcommands"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sys/unix"

	"github.com/walteh/palio/palctl/cmd"
	"github.com/walteh/palio/palctl/config"
)

var configPath = flag.String("config", os.Getenv("PALCTL_CONFIG"), "path to a TOML config file")

func main() {
	subcommands.Register(subcommands.HelpCommand(), "")
	subcommands.Register(subcommands.FlagsCommand(), "")
	subcommands.Register(subcommands.CommandsCommand(), "")

	subcommands.Register(new(cmd.Flags), "")
	subcommands.Register(new(cmd.Open), "")
	subcommands.Register(new(cmd.Advise), "")
	subcommands.Register(new(cmd.Lock), "")

	flag.Parse()

	conf, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("%v", err)
	}
	conf.ApplyLogging()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, unix.SIGTERM)
	status := subcommands.Execute(ctx, conf)
	stop()
	os.Exit(int(status))
}
