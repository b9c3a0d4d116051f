package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/chamara/finledger"
	"github.com/google/subcommands"
)

type sweepCmd struct {
	date string
}

func (*sweepCmd) Name() string     { return "sweep" }
func (*sweepCmd) Synopsis() string { return "apply deferred transactions that have come due" }
func (*sweepCmd) Usage() string {
	return `fin sweep [-d <date>]

  Applies every deferred expense and future payment whose date has been
  reached, charging them against their accounts. Records dated after the
  given date stay deferred.
`
}

func (c *sweepCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", "", "Sweep everything due on or before this date (defaults to today).")
}

func (c *sweepCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	asOf := finledger.Today()
	if c.date != "" {
		var err error
		asOf, err = finledger.ParseDate(c.date)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return subcommands.ExitUsageError
		}
	}
	recorder, b, err := newRecorder()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	n, err := recorder.SweepDue(asOf)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	if status := SaveBooks(b); status != subcommands.ExitSuccess {
		return status
	}
	fmt.Printf("Applied %d due transaction(s)\n", n)
	return subcommands.ExitSuccess
}
