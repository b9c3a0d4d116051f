// Command fin keeps personal books: accounts, expenses, ride settlements
// and liabilities.
package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/chamara/finledger/cmd"
	"github.com/google/subcommands"
	"github.com/posener/complete/v2"
)

func main() {
	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))

	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	commander.Register(commander.CommandsCommand(), "")
	cmd.Register(commander)

	// Shell completion of subcommand names, when installed.
	sub := make(map[string]*complete.Command)
	commander.VisitCommands(func(_ *subcommands.CommandGroup, c subcommands.Command) {
		sub[c.Name()] = &complete.Command{}
	})
	(&complete.Command{Sub: sub}).Complete("fin")

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}
