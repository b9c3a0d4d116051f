package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/chamara/finledger"
	"github.com/google/subcommands"
)

type expenseCmd struct {
	id       string
	date     string
	category string
	account  string
	amount   string
	note     string
}

func (*expenseCmd) Name() string     { return "expense" }
func (*expenseCmd) Synopsis() string { return "record or edit an expense" }
func (*expenseCmd) Usage() string {
	return `fin expense -a <account> -m <amount> [-c <category>] [-d <date>] [-note <note>] [-id <id>]

  Records an expense paid from the given account. With -id, edits the
  existing expense instead. A future-dated expense is held as deferred and
  does not touch the balance until swept.
`
}

func (c *expenseCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.id, "id", "", "Id of an existing expense to edit.")
	f.StringVar(&c.date, "d", "", "Date of the expense (defaults to today).")
	f.StringVar(&c.category, "c", "", "Spending category.")
	f.StringVar(&c.account, "a", "", "Account the expense is paid from.")
	f.StringVar(&c.amount, "m", "", "Amount spent.")
	f.StringVar(&c.note, "note", "", "Free-form note.")
}

func (c *expenseCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	day := finledger.Today()
	if c.date != "" {
		var err error
		day, err = finledger.ParseDate(c.date)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return subcommands.ExitUsageError
		}
	}
	amount, err := parseAmount(c.amount)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitUsageError
	}
	recorder, b, err := newRecorder()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	account, err := resolveAccount(b, c.account)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitUsageError
	}

	e := finledger.NewExpense(day, c.category, account.ID, amount, c.note)
	if c.id != "" {
		e.TxID = finledger.TxID(c.id)
		e, err = recorder.EditExpense(e)
	} else {
		e, err = recorder.AddExpense(e)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	if status := SaveBooks(b); status != subcommands.ExitSuccess {
		return status
	}
	if e.Deferred {
		fmt.Printf("Recorded deferred expense %s (due %s)\n", e.TxID, e.Date)
	} else {
		fmt.Printf("Recorded expense %s\n", e.TxID)
	}
	return subcommands.ExitSuccess
}

type expenseRmCmd struct {
	id string
}

func (*expenseRmCmd) Name() string     { return "expense-rm" }
func (*expenseRmCmd) Synopsis() string { return "delete an expense" }
func (*expenseRmCmd) Usage() string {
	return `fin expense-rm -id <id>

  Deletes an expense and credits its amount back to the account, unless
  the expense was still deferred.
`
}

func (c *expenseRmCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.id, "id", "", "Id of the expense to delete.")
}

func (c *expenseRmCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	recorder, b, err := newRecorder()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	if err := recorder.DeleteExpense(finledger.TxID(c.id)); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	return SaveBooks(b)
}
