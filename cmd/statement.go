package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/chamara/finledger"
	"github.com/chamara/finledger/renderer"
	"github.com/google/subcommands"
)

type statementCmd struct {
	account string
}

func (*statementCmd) Name() string     { return "statement" }
func (*statementCmd) Synopsis() string { return "show the transaction history of an account" }
func (*statementCmd) Usage() string {
	return `fin statement -a <account>

  Reconstructs the full transaction history of an account, newest first,
  with a running balance on every row. Wallet and cash-on-hand accounts
  derive their rows from ride settlements.
`
}

func (c *statementCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.account, "a", "", "Name of the account.")
}

func (c *statementCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	b, err := LoadBooks()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	account, err := resolveAccount(b, c.account)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitUsageError
	}
	s, err := finledger.BuildStatement(b, account.ID)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	printMarkdown(renderer.RenderStatement(renderer.NewStatement(s)))
	return subcommands.ExitSuccess
}
