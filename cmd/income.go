package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/chamara/finledger"
	"github.com/google/subcommands"
)

type incomeCmd struct {
	id       string
	date     string
	category string
	client   string
	account  string
	amount   string
	note     string
}

func (*incomeCmd) Name() string     { return "income" }
func (*incomeCmd) Synopsis() string { return "record or edit a side income" }
func (*incomeCmd) Usage() string {
	return `fin income -a <account> -m <amount> [-c <category>] [-client <client>] [-d <date>] [-note <note>] [-id <id>]

  Records a side income credited to the given account. With -id, edits the
  existing record instead.
`
}

func (c *incomeCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.id, "id", "", "Id of an existing income record to edit.")
	f.StringVar(&c.date, "d", "", "Date of the income (defaults to today).")
	f.StringVar(&c.category, "c", "", "Income category.")
	f.StringVar(&c.client, "client", "", "Client or payer.")
	f.StringVar(&c.account, "a", "", "Account the income is credited to.")
	f.StringVar(&c.amount, "m", "", "Amount received.")
	f.StringVar(&c.note, "note", "", "Free-form note.")
}

func (c *incomeCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
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

	si := finledger.NewSideIncome(day, c.category, c.client, account.ID, amount, c.note)
	if c.id != "" {
		si.TxID = finledger.TxID(c.id)
		si, err = recorder.EditSideIncome(si)
	} else {
		si, err = recorder.AddSideIncome(si)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	if status := SaveBooks(b); status != subcommands.ExitSuccess {
		return status
	}
	fmt.Printf("Recorded income %s\n", si.TxID)
	return subcommands.ExitSuccess
}

type incomeRmCmd struct {
	id string
}

func (*incomeRmCmd) Name() string     { return "income-rm" }
func (*incomeRmCmd) Synopsis() string { return "delete a side income" }
func (*incomeRmCmd) Usage() string {
	return `fin income-rm -id <id>

  Deletes a side income record and debits its amount back off the account.
`
}

func (c *incomeRmCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.id, "id", "", "Id of the income record to delete.")
}

func (c *incomeRmCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	recorder, b, err := newRecorder()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	if err := recorder.DeleteSideIncome(finledger.TxID(c.id)); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	return SaveBooks(b)
}
