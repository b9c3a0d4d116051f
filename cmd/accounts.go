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

type accountsCmd struct{}

func (*accountsCmd) Name() string     { return "accounts" }
func (*accountsCmd) Synopsis() string { return "list accounts with their balances" }
func (*accountsCmd) Usage() string {
	return `fin accounts

  Lists every active account with its current balance, followed by the
  headline totals (assets, liabilities, net worth).
`
}

func (*accountsCmd) SetFlags(f *flag.FlagSet) {}

func (c *accountsCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	b, err := LoadBooks()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	printMarkdown(renderer.AccountsMarkdown(b))
	return subcommands.ExitSuccess
}

type accountAddCmd struct {
	name     string
	typ      string
	start    string
	role     string
	provider string
	order    int
}

func (*accountAddCmd) Name() string     { return "account-add" }
func (*accountAddCmd) Synopsis() string { return "register a new account" }
func (*accountAddCmd) Usage() string {
	return `fin account-add -name <name> [-type <type>] [-start <amount>] [-role <role>] [-provider <provider>]

  Registers a new account. Types: daily-use, savings, liability, emergency,
  wallet, cash. Roles: cash-on-hand, wallet.
`
}

func (c *accountAddCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.name, "name", "", "Display name of the account.")
	f.StringVar(&c.typ, "type", "daily-use", "Account type.")
	f.StringVar(&c.start, "start", "0", "Starting balance.")
	f.StringVar(&c.role, "role", "", "Settlement role of the account (cash-on-hand, wallet).")
	f.StringVar(&c.provider, "provider", "", "Ride provider, for wallet-role accounts.")
	f.IntVar(&c.order, "order", 0, "Sort order in listings.")
}

func (c *accountAddCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	typ, err := finledger.ParseAccountType(c.typ)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitUsageError
	}
	start, err := parseAmount(c.start)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitUsageError
	}
	b, err := LoadBooks()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	account, err := b.Registry.Add(finledger.Account{
		Name:            c.name,
		Type:            typ,
		Role:            finledger.Role(c.role),
		Provider:        c.provider,
		StartingBalance: start,
		SortOrder:       c.order,
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	if status := SaveBooks(b); status != subcommands.ExitSuccess {
		return status
	}
	fmt.Printf("Added account %q (%s)\n", account.Name, account.ID)
	return subcommands.ExitSuccess
}

type accountEditCmd struct {
	account string
	name    string
	typ     string
	start   string
}

func (*accountEditCmd) Name() string     { return "account-edit" }
func (*accountEditCmd) Synopsis() string { return "rename or adjust an account" }
func (*accountEditCmd) Usage() string {
	return `fin account-edit -a <account> [-name <new name>] [-type <type>] [-start <amount>]

  Renames an account, changes its type, or adjusts its opening balance.
  Adjusting the opening balance shifts the current balance by the same
  amount, so recorded history stays intact.
`
}

func (c *accountEditCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.account, "a", "", "Name of the account to edit.")
	f.StringVar(&c.name, "name", "", "New display name.")
	f.StringVar(&c.typ, "type", "", "New account type.")
	f.StringVar(&c.start, "start", "", "New opening balance.")
}

func (c *accountEditCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
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

	if c.name != "" || c.typ != "" {
		name := c.name
		if name == "" {
			name = account.Name
		}
		typ := account.Type
		if c.typ != "" {
			typ, err = finledger.ParseAccountType(c.typ)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				return subcommands.ExitUsageError
			}
		}
		if err := b.Registry.Rename(account.ID, name, typ); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return subcommands.ExitFailure
		}
	}
	if c.start != "" {
		start, err := parseAmount(c.start)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return subcommands.ExitUsageError
		}
		if err := b.Registry.AdjustOpeningBalance(account.ID, start); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return subcommands.ExitFailure
		}
	}
	return SaveBooks(b)
}

type accountRmCmd struct {
	account string
}

func (*accountRmCmd) Name() string     { return "account-rm" }
func (*accountRmCmd) Synopsis() string { return "deactivate an account" }
func (*accountRmCmd) Usage() string {
	return `fin account-rm -a <account>

  Deactivates an account. Its history stays in the books but it no longer
  appears in listings. System accounts cannot be deactivated.
`
}

func (c *accountRmCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.account, "a", "", "Name of the account to deactivate.")
}

func (c *accountRmCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
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
	if err := b.Registry.Deactivate(account.ID); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	return SaveBooks(b)
}
