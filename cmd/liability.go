package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/chamara/finledger"
	"github.com/chamara/finledger/renderer"
	"github.com/google/subcommands"
	"github.com/shopspring/decimal"
)

type liabilityAddCmd struct {
	name      string
	category  string
	method    string
	principal string
	rate      string
	payment   string
	arrears   string
	payDay    int
	start     string
	end       string
	priority  int
}

func (*liabilityAddCmd) Name() string     { return "liability-add" }
func (*liabilityAddCmd) Synopsis() string { return "register a new liability" }
func (*liabilityAddCmd) Usage() string {
	return `fin liability-add -name <name> -principal <amount> -start <date> [-category <category>] [-method <method>] [-rate <percent>] [-payment <amount>] [-arrears <amount>] [-payday <day>] [-end <date>] [-priority <n>]

  Registers a liability. Categories: pawning, finance, loan, device,
  other. Interest methods: none, flat, reducing-balance, interest-only.
`
}

func (c *liabilityAddCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.name, "name", "", "Display name of the liability.")
	f.StringVar(&c.category, "category", "other", "Liability category.")
	f.StringVar(&c.method, "method", "none", "Interest method.")
	f.StringVar(&c.principal, "principal", "", "Principal amount borrowed.")
	f.StringVar(&c.rate, "rate", "0", "Monthly interest rate, in percent.")
	f.StringVar(&c.payment, "payment", "0", "Monthly installment.")
	f.StringVar(&c.arrears, "arrears", "0", "Amount already overdue when the record is opened.")
	f.IntVar(&c.payDay, "payday", 0, "Day of month an installment falls due (defaults to the start date's day).")
	f.StringVar(&c.start, "start", "", "Date the liability was taken.")
	f.StringVar(&c.end, "end", "", "Optional end date of the term.")
	f.IntVar(&c.priority, "priority", 0, "Repayment priority in listings.")
}

func (c *liabilityAddCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	category, err := finledger.ParseLiabilityCategory(c.category)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitUsageError
	}
	method, err := finledger.ParseInterestMethod(c.method)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitUsageError
	}
	principal, err := parseAmount(c.principal)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitUsageError
	}
	rate, err := decimal.NewFromString(c.rate)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid rate %q: %v\n", c.rate, err)
		return subcommands.ExitUsageError
	}
	payment, err := parseAmount(c.payment)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitUsageError
	}
	arrears, err := parseAmount(c.arrears)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitUsageError
	}
	start, err := finledger.ParseDate(c.start)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid start date: %v\n", err)
		return subcommands.ExitUsageError
	}
	var end finledger.Date
	if c.end != "" {
		end, err = finledger.ParseDate(c.end)
		if err != nil {
			fmt.Fprintf(os.Stderr, "invalid end date: %v\n", err)
			return subcommands.ExitUsageError
		}
	}

	b, err := LoadBooks()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	l := finledger.NewLiability(c.name, category, method, principal, rate, payment, start)
	l.ArrearsSeed = arrears
	l.PaymentDay = c.payDay
	l.End = end
	l.Priority = c.priority
	registered, err := b.AddLiability(l)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	if status := SaveBooks(b); status != subcommands.ExitSuccess {
		return status
	}
	fmt.Printf("Added liability %q (%s)\n", registered.Name, registered.ID)
	return subcommands.ExitSuccess
}

type liabilitiesCmd struct {
	date string
}

func (*liabilitiesCmd) Name() string     { return "liabilities" }
func (*liabilitiesCmd) Synopsis() string { return "report the standing of every liability" }
func (*liabilitiesCmd) Usage() string {
	return `fin liabilities [-d <date>]

  Reports the standing of every liability as of the given date: remaining
  balance, monthly installment, amount paid so far, arrears and late fees.
`
}

func (c *liabilitiesCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", "", "Date on which to compute the standing (defaults to today).")
}

func (c *liabilitiesCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	asOf := finledger.Today()
	if c.date != "" {
		var err error
		asOf, err = finledger.ParseDate(c.date)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return subcommands.ExitUsageError
		}
	}
	b, err := LoadBooks()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	printMarkdown(renderer.RenderLiabilities(renderer.NewLiabilityBoard(b, asOf)))
	return subcommands.ExitSuccess
}
