// Command fp tracks the performance of mutual fund positions.
package main

import (
	"context"
	"flag"
	"os"

	"github.com/etnz/fundperf/cmd"
	"github.com/google/subcommands"
)

func main() {
	cmd.Completion().Complete("fp")

	commander := subcommands.NewCommander(flag.CommandLine, "fp")
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	commander.Register(commander.CommandsCommand(), "")
	cmd.Register(commander)

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}
