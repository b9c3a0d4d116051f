package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/chamara/finledger"
	"github.com/google/subcommands"
)

type payCmd struct {
	id        string
	date      string
	liability string
	account   string
	amount    string
	note      string
}

func (*payCmd) Name() string     { return "pay" }
func (*payCmd) Synopsis() string { return "record or edit a liability payment" }
func (*payCmd) Usage() string {
	return `fin pay -l <liability> -a <account> -m <amount> [-d <date>] [-note <note>] [-id <id>]

  Records a payment against a liability, debited from the given account.
  The account must hold the amount unless the payment is future-dated.
  With -id, edits the existing payment instead.
`
}

func (c *payCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.id, "id", "", "Id of an existing payment to edit.")
	f.StringVar(&c.date, "d", "", "Date of the payment (defaults to today).")
	f.StringVar(&c.liability, "l", "", "Name of the liability being paid.")
	f.StringVar(&c.account, "a", "", "Account the payment is debited from.")
	f.StringVar(&c.amount, "m", "", "Amount paid.")
	f.StringVar(&c.note, "note", "", "Free-form note.")
}

func (c *payCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
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
	liability, ok := b.LiabilityByName(c.liability)
	if !ok {
		fmt.Fprintf(os.Stderr, "no liability named %q\n", c.liability)
		return subcommands.ExitUsageError
	}
	account, err := resolveAccount(b, c.account)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitUsageError
	}

	p := finledger.NewLiabilityPayment(day, liability.ID, account.ID, amount, c.note)
	if c.id != "" {
		p.TxID = finledger.TxID(c.id)
		p, err = recorder.EditPayment(p)
	} else {
		p, err = recorder.AddPayment(p)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	if status := SaveBooks(b); status != subcommands.ExitSuccess {
		return status
	}
	if p.Future {
		fmt.Printf("Recorded future payment %s (due %s)\n", p.TxID, p.Date)
	} else {
		fmt.Printf("Recorded payment %s against %q\n", p.TxID, liability.Name)
	}
	return subcommands.ExitSuccess
}

type payRmCmd struct {
	id string
}

func (*payRmCmd) Name() string     { return "pay-rm" }
func (*payRmCmd) Synopsis() string { return "delete a liability payment" }
func (*payRmCmd) Usage() string {
	return `fin pay-rm -id <id>

  Deletes a payment and credits its amount back to the account, unless the
  payment was still future-dated. A settled liability whose balance comes
  back is reactivated.
`
}

func (c *payRmCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.id, "id", "", "Id of the payment to delete.")
}

func (c *payRmCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	recorder, b, err := newRecorder()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	if err := recorder.DeletePayment(finledger.TxID(c.id)); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	return SaveBooks(b)
}
