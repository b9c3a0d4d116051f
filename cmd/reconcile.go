package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/chamara/finledger/renderer"
	"github.com/google/subcommands"
)

type reconcileCmd struct{}

func (*reconcileCmd) Name() string     { return "reconcile" }
func (*reconcileCmd) Synopsis() string { return "check cached balances against recorded history" }
func (*reconcileCmd) Usage() string {
	return `fin reconcile

  Re-derives every account balance from its starting balance and recorded
  history, and reports any account whose cached balance disagrees. Caches
  are never repaired automatically.
`
}

func (*reconcileCmd) SetFlags(f *flag.FlagSet) {}

func (c *reconcileCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	b, err := LoadBooks()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	drifts := b.Recompute()
	printMarkdown(renderer.DriftMarkdown(drifts))
	if len(drifts) > 0 {
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
