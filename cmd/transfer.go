package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/chamara/finledger"
	"github.com/google/subcommands"
)

type transferCmd struct {
	date   string
	from   string
	to     string
	amount string
	fee    string
	note   string
}

func (*transferCmd) Name() string     { return "transfer" }
func (*transferCmd) Synopsis() string { return "move money between two accounts" }
func (*transferCmd) Usage() string {
	return `fin transfer -from <account> -to <account> -m <amount> [-fee <amount>] [-d <date>] [-note <note>]

  Moves money between two accounts. The source is debited the amount plus
  the fee; the destination is credited the amount. The source must hold
  the full outflow.
`
}

func (c *transferCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", "", "Date of the transfer (defaults to today).")
	f.StringVar(&c.from, "from", "", "Account the money leaves.")
	f.StringVar(&c.to, "to", "", "Account the money arrives on.")
	f.StringVar(&c.amount, "m", "", "Amount transferred.")
	f.StringVar(&c.fee, "fee", "0", "Transfer fee, charged to the source on top of the amount.")
	f.StringVar(&c.note, "note", "", "Free-form note.")
}

func (c *transferCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
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
	fee, err := parseAmount(c.fee)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitUsageError
	}
	recorder, b, err := newRecorder()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	from, err := resolveAccount(b, c.from)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitUsageError
	}
	to, err := resolveAccount(b, c.to)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitUsageError
	}

	t, err := recorder.AddTransfer(finledger.NewTransfer(day, from.ID, to.ID, amount, fee, c.note))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	if status := SaveBooks(b); status != subcommands.ExitSuccess {
		return status
	}
	fmt.Printf("Recorded transfer %s\n", t.TxID)
	return subcommands.ExitSuccess
}

type transferRmCmd struct {
	id string
}

func (*transferRmCmd) Name() string     { return "transfer-rm" }
func (*transferRmCmd) Synopsis() string { return "delete a transfer" }
func (*transferRmCmd) Usage() string {
	return `fin transfer-rm -id <id>

  Deletes a transfer and reverses both of its legs, fee included.
`
}

func (c *transferRmCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.id, "id", "", "Id of the transfer to delete.")
}

func (c *transferRmCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	recorder, b, err := newRecorder()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	if err := recorder.DeleteTransfer(finledger.TxID(c.id)); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	return SaveBooks(b)
}
