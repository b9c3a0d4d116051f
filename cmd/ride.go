package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/chamara/finledger"
	"github.com/google/subcommands"
	"github.com/shopspring/decimal"
)

type rideCmd struct {
	date        string
	provider    string
	cash        string
	wallet      string
	earning     string
	distance    string
	fuel        string
	fuelAccount string
}

func (*rideCmd) Name() string     { return "ride" }
func (*rideCmd) Synopsis() string { return "record or update the day's ride settlement" }
func (*rideCmd) Usage() string {
	return `fin ride -provider <name> -cash <amount> -wallet <amount> -earning <amount> [-d <date>] [-km <distance>] [-fuel <amount> -fuel-a <account>]

  Records the daily ride settlement for a provider. Re-running for the same
  date replaces the day's record and applies only the difference. The fuel
  flags attach a linked fuel expense that follows the settlement.
`
}

func (c *rideCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", "", "Date of the settlement (defaults to today).")
	f.StringVar(&c.provider, "provider", "", "Ride provider (e.g. PickMe, Uber).")
	f.StringVar(&c.cash, "cash", "0", "Cash collected during the day.")
	f.StringVar(&c.wallet, "wallet", "0", "Wallet balance reported by the provider app.")
	f.StringVar(&c.earning, "earning", "0", "Total earning reported by the provider app.")
	f.StringVar(&c.distance, "km", "0", "Distance driven, in kilometers.")
	f.StringVar(&c.fuel, "fuel", "", "Fuel spent during the day, recorded as a linked expense.")
	f.StringVar(&c.fuelAccount, "fuel-a", "", "Account the fuel expense is paid from.")
}

func (c *rideCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	day := finledger.Today()
	if c.date != "" {
		var err error
		day, err = finledger.ParseDate(c.date)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return subcommands.ExitUsageError
		}
	}
	cash, err := parseAmount(c.cash)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitUsageError
	}
	wallet, err := parseAmount(c.wallet)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitUsageError
	}
	earning, err := parseAmount(c.earning)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitUsageError
	}
	distance, err := decimal.NewFromString(c.distance)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid distance %q: %v\n", c.distance, err)
		return subcommands.ExitUsageError
	}

	recorder, b, err := newRecorder()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	var fuelAmount finledger.Money
	var fuelAccount finledger.AccountID
	if c.fuel != "" {
		fuelAmount, err = parseAmount(c.fuel)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return subcommands.ExitUsageError
		}
		account, err := resolveAccount(b, c.fuelAccount)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return subcommands.ExitUsageError
		}
		fuelAccount = account.ID
	}

	s := finledger.NewRideSettlement(day, c.provider, cash, wallet, earning)
	s.Distance = distance
	s, err = recorder.SaveRide(s, fuelAmount, fuelAccount)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	if status := SaveBooks(b); status != subcommands.ExitSuccess {
		return status
	}
	fmt.Printf("Recorded ride settlement for %s (%s)\n", s.Date, s.Provider)
	return subcommands.ExitSuccess
}

type rideRmCmd struct {
	date string
}

func (*rideRmCmd) Name() string     { return "ride-rm" }
func (*rideRmCmd) Synopsis() string { return "delete a day's ride settlement" }
func (*rideRmCmd) Usage() string {
	return `fin ride-rm [-d <date>]

  Deletes the ride settlement recorded for the given date, reversing its
  cash and wallet effects and refunding any linked fuel expense.
`
}

func (c *rideRmCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", "", "Date of the settlement to delete (defaults to today).")
}

func (c *rideRmCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	day := finledger.Today()
	if c.date != "" {
		var err error
		day, err = finledger.ParseDate(c.date)
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
	if err := recorder.DeleteRide(day); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	return SaveBooks(b)
}
