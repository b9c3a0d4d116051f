package finledger

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
)

// settlementNoise suppresses statement rows whose absolute amount is at or
// below this threshold; ride settlements store float-entered values and a
// sub-cent difference is noise, not a movement.
var settlementNoise = decimal.NewFromFloat(0.01)

// StatementRow is one annotated line of an account statement.
type StatementRow struct {
	Date        Date
	Description string
	Kind        TxKind
	Amount      Money // signed against the account
	Running     Money // balance immediately after this row
	Source      TxID  // originating transaction
	Deferred    bool  // recorded but not yet charged
}

// Statement is the reconstructed, running-balance-annotated history of one
// account, rows in descending date order for presentation.
type Statement struct {
	Account Account
	Rows    []StatementRow
}

// FinalBalance returns the running balance of the chronologically last row,
// or the starting balance when the statement is empty. It equals the
// account's cached balance provided no deferred row's date has silently
// passed unapplied.
func (s Statement) FinalBalance() Money {
	if len(s.Rows) == 0 {
		return s.Account.StartingBalance
	}
	// Rows are newest-first but same-day rows keep chronological order, so
	// the last row of the leading date group carries the final balance.
	last := 0
	for last+1 < len(s.Rows) && s.Rows[last+1].Date == s.Rows[0].Date {
		last++
	}
	return s.Rows[last].Running
}

// BuildStatement reconstructs the statement of one account: every
// transaction charging or crediting it, plus synthetic rows derived from
// ride settlements when the account carries the cash-on-hand or wallet
// role.
func BuildStatement(b *Books, id AccountID) (Statement, error) {
	account, err := b.Registry.Get(id)
	if err != nil {
		return Statement{}, err
	}

	rows := collectRows(b, account, true, true)

	// Chronological prefix sum seeded at the starting balance. Same-day
	// rows keep fetch order; sub-day ordering across merged sources is not
	// meaningful and no total order is guaranteed.
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Date.Before(rows[j].Date) })
	running := account.StartingBalance
	for i := range rows {
		running = running.Add(rows[i].Amount)
		rows[i].Running = running
	}

	// Newest first for presentation; stamped running balances carry over.
	sort.SliceStable(rows, func(i, j int) bool { return rows[j].Date.Before(rows[i].Date) })

	return Statement{Account: account, Rows: rows}, nil
}

// collectRows gathers the signed statement rows of one account.
// When includeDeferred is false, rows whose source is still deferred are
// left out, which makes the collection usable for balance re-derivation.
// suppressNoise drops sub-noise wallet rows; re-derivation keeps them so
// the sum stays exact.
func collectRows(b *Books, account Account, includeDeferred, suppressNoise bool) []StatementRow {
	var rows []StatementRow
	add := func(r StatementRow) {
		if r.Deferred && !includeDeferred {
			return
		}
		rows = append(rows, r)
	}

	for tx := range b.Ledger.All() {
		switch t := tx.(type) {
		case Expense:
			if t.Account != account.ID {
				continue
			}
			desc := t.Category
			if t.Note != "" {
				desc += " - " + t.Note
			}
			add(StatementRow{Date: t.Date, Description: desc, Kind: KindExpense, Amount: t.Amount.Neg(), Source: t.TxID, Deferred: t.Deferred})
		case LiabilityPayment:
			if t.Account != account.ID {
				continue
			}
			desc := "Liability Payment"
			if l, err := b.Liability(t.Liability); err == nil {
				desc = "Payment - " + l.Name
			}
			add(StatementRow{Date: t.Date, Description: desc, Kind: KindLiabilityPayment, Amount: t.Amount.Neg(), Source: t.TxID, Deferred: t.Future})
		case Transfer:
			if t.To == account.ID {
				add(StatementRow{Date: t.Date, Description: "Transfer In", Kind: KindTransfer, Amount: t.Amount, Source: t.TxID})
			}
			if t.From == account.ID {
				desc := fmt.Sprintf("Transfer Out (fee: %s)", t.Fee)
				add(StatementRow{Date: t.Date, Description: desc, Kind: KindTransfer, Amount: t.Outflow().Neg(), Source: t.TxID})
			}
		case SideIncome:
			if t.Account != account.ID {
				continue
			}
			add(StatementRow{Date: t.Date, Description: "Income - " + t.Category, Kind: KindSideIncome, Amount: t.Amount, Source: t.TxID})
		}
	}

	switch account.Role {
	case RoleCashOnHand:
		rows = append(rows, cashRows(b, suppressNoise)...)
	case RoleWallet:
		rows = append(rows, walletRows(b, account, suppressNoise)...)
	}
	return rows
}

// cashRows derives one row per ride settlement whose cash value is
// non-zero.
func cashRows(b *Books, suppressNoise bool) []StatementRow {
	var rows []StatementRow
	for tx := range b.Ledger.All() {
		s, ok := tx.(RideSettlement)
		if !ok {
			continue
		}
		if !suppressNoise || s.Cash.Decimal().Abs().GreaterThan(settlementNoise) {
			rows = append(rows, StatementRow{Date: s.Date, Description: "Daily Earning", Kind: KindRideSettlement, Amount: s.Cash, Source: s.TxID})
		}
	}
	return rows
}

// walletRows derives the day-to-day change of a provider wallet from its
// settlement history: the row amount is the difference from the previous
// recorded wallet value, seeded at the account's starting balance.
// With suppressNoise, sub-noise rows are dropped for presentation but the
// previous value still advances.
func walletRows(b *Books, account Account, suppressNoise bool) []StatementRow {
	settlements := b.Ledger.RidesByProvider(account.Provider)
	sort.SliceStable(settlements, func(i, j int) bool { return settlements[i].Date.Before(settlements[j].Date) })

	var rows []StatementRow
	prev := account.StartingBalance
	for _, s := range settlements {
		change := s.Wallet.Sub(prev)
		if !suppressNoise || change.Decimal().Abs().GreaterThan(settlementNoise) {
			rows = append(rows, StatementRow{Date: s.Date, Description: s.Provider + " Settlement", Kind: KindRideSettlement, Amount: change, Source: s.TxID})
		}
		prev = s.Wallet
	}
	return rows
}
