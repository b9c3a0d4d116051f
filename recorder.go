package finledger

import (
	"fmt"
	"sort"

	"github.com/rs/zerolog"
)

// DeltaSet accumulates the net signed delta per account for one logical
// action. Two effects touching the same account in one save net out here
// before any balance is read or written, instead of each seeing a stale
// balance.
type DeltaSet map[AccountID]Money

// Add accumulates a signed amount against an account. Empty ids and zero
// amounts are dropped.
func (ds DeltaSet) Add(id AccountID, amount Money) {
	if id == "" || amount.IsZero() {
		return
	}
	ds[id] = ds[id].Add(amount)
}

// apply commits the whole set against the registry. There is no rollback:
// a failure partway leaves the registry inconsistent with the ledger, which
// apply reports as a PartialApplicationFault. Retrying is unsafe (it would
// double-apply the committed part); the caller must reconcile manually.
func (ds DeltaSet) apply(reg *Registry) error {
	ids := make([]AccountID, 0, len(ds))
	for id := range ds {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	applied := make(DeltaSet, len(ds))
	for _, id := range ids {
		if ds[id].IsZero() {
			continue
		}
		if err := reg.ApplyDelta(id, ds[id]); err != nil {
			return &PartialApplicationFault{Applied: applied, Account: id, Err: err}
		}
		applied[id] = ds[id]
	}
	return nil
}

// Recorder computes and applies the signed balance deltas for every
// transaction lifecycle event. All validation happens before the first
// mutation; once deltas start committing there is no rollback (see
// DeltaSet.apply).
type Recorder struct {
	books *Books
	log   zerolog.Logger
}

// NewRecorder creates a recorder over the given books.
func NewRecorder(b *Books, log zerolog.Logger) *Recorder {
	return &Recorder{books: b, log: log}
}

func (r *Recorder) requireAccount(id AccountID) error {
	_, err := r.books.Registry.Get(id)
	return err
}

// AddExpense records an expense. A future-dated expense is stored deferred:
// no balance effect until edited or swept.
func (r *Recorder) AddExpense(e Expense) (Expense, error) {
	if err := e.Validate(); err != nil {
		return Expense{}, err
	}
	if err := r.requireAccount(e.Account); err != nil {
		return Expense{}, err
	}
	if e.TxID == "" {
		e.TxID = NewTxID()
	}
	e.Deferred = e.Date.After(Today())

	ds := DeltaSet{}
	if !e.Deferred {
		ds.Add(e.Account, e.Amount.Neg())
	}
	r.books.Ledger.Append(e)
	r.log.Debug().Str("kind", string(KindExpense)).Str("id", string(e.TxID)).Bool("deferred", e.Deferred).Msg("expense recorded")
	return e, ds.apply(r.books.Registry)
}

// EditExpense replaces an expense. The old amount is reversed against the
// old account only if it had been applied (not deferred at its last
// evaluation); the new amount is applied against the new account only if
// the new date is not in the future. Moving an expense between accounts or
// across the future boundary therefore never double-counts.
func (r *Recorder) EditExpense(e Expense) (Expense, error) {
	old, err := r.books.Ledger.Get(e.TxID)
	if err != nil {
		return Expense{}, err
	}
	oldExp, ok := old.(Expense)
	if !ok {
		return Expense{}, fmt.Errorf("transaction %s is a %s, not an expense", e.TxID, old.Kind())
	}
	if err := e.Validate(); err != nil {
		return Expense{}, err
	}
	if err := r.requireAccount(e.Account); err != nil {
		return Expense{}, err
	}
	e.Deferred = e.Date.After(Today())

	ds := DeltaSet{}
	if !oldExp.Deferred {
		ds.Add(oldExp.Account, oldExp.Amount)
	}
	if !e.Deferred {
		ds.Add(e.Account, e.Amount.Neg())
	}
	if err := r.books.Ledger.Replace(e); err != nil {
		return Expense{}, err
	}
	return e, ds.apply(r.books.Registry)
}

// DeleteExpense removes an expense, crediting the amount back only if it
// had been applied.
func (r *Recorder) DeleteExpense(id TxID) error {
	old, err := r.books.Ledger.Get(id)
	if err != nil {
		return err
	}
	e, ok := old.(Expense)
	if !ok {
		return fmt.Errorf("transaction %s is a %s, not an expense", id, old.Kind())
	}
	ds := DeltaSet{}
	if !e.Deferred {
		ds.Add(e.Account, e.Amount)
	}
	if err := r.books.Ledger.Delete(id); err != nil {
		return err
	}
	return ds.apply(r.books.Registry)
}

// AddPayment records a liability payment. The future flag is fixed here,
// at creation time, and later edits and deletes consult the flag rather
// than re-checking the date. A non-future payment requires the paying
// account to hold the amount.
func (r *Recorder) AddPayment(p LiabilityPayment) (LiabilityPayment, error) {
	if err := p.Validate(); err != nil {
		return LiabilityPayment{}, err
	}
	if _, err := r.books.Liability(p.Liability); err != nil {
		return LiabilityPayment{}, err
	}
	account, err := r.books.Registry.Get(p.Account)
	if err != nil {
		return LiabilityPayment{}, err
	}
	if p.TxID == "" {
		p.TxID = NewTxID()
	}
	p.Future = p.Date.After(Today())
	if !p.Future && account.CurrentBalance.LessThan(p.Amount) {
		return LiabilityPayment{}, fmt.Errorf("account %q holds %s, payment needs %s: %w",
			account.Name, account.CurrentBalance, p.Amount, ErrInsufficientBalance)
	}

	ds := DeltaSet{}
	if !p.Future {
		ds.Add(p.Account, p.Amount.Neg())
	}
	r.books.Ledger.Append(p)
	r.log.Debug().Str("kind", string(KindLiabilityPayment)).Str("id", string(p.TxID)).Bool("future", p.Future).Msg("payment recorded")
	return p, ds.apply(r.books.Registry)
}

// EditPayment replaces a payment, with the same reverse-then-apply delta
// rules as EditExpense, using the recorded future flag for the old side.
func (r *Recorder) EditPayment(p LiabilityPayment) (LiabilityPayment, error) {
	old, err := r.books.Ledger.Get(p.TxID)
	if err != nil {
		return LiabilityPayment{}, err
	}
	oldPay, ok := old.(LiabilityPayment)
	if !ok {
		return LiabilityPayment{}, fmt.Errorf("transaction %s is a %s, not a payment", p.TxID, old.Kind())
	}
	if err := p.Validate(); err != nil {
		return LiabilityPayment{}, err
	}
	account, err := r.books.Registry.Get(p.Account)
	if err != nil {
		return LiabilityPayment{}, err
	}
	p.Future = p.Date.After(Today())

	// Same funds check as AddPayment, counting the old payment's credit-back
	// when it had been applied against the same account.
	available := account.CurrentBalance
	if !oldPay.Future && oldPay.Account == p.Account {
		available = available.Add(oldPay.Amount)
	}
	if !p.Future && available.LessThan(p.Amount) {
		return LiabilityPayment{}, fmt.Errorf("account %q holds %s, payment needs %s: %w",
			account.Name, available, p.Amount, ErrInsufficientBalance)
	}

	ds := DeltaSet{}
	if !oldPay.Future {
		ds.Add(oldPay.Account, oldPay.Amount)
	}
	if !p.Future {
		ds.Add(p.Account, p.Amount.Neg())
	}
	if err := r.books.Ledger.Replace(p); err != nil {
		return LiabilityPayment{}, err
	}
	return p, ds.apply(r.books.Registry)
}

// DeletePayment removes a payment, crediting the amount back if it had
// been applied. If the payment's liability was deactivated and losing this
// payment pushes its remaining balance back above zero, the liability is
// reactivated: a settled debt that turns out not settled reappears.
func (r *Recorder) DeletePayment(id TxID) error {
	old, err := r.books.Ledger.Get(id)
	if err != nil {
		return err
	}
	p, ok := old.(LiabilityPayment)
	if !ok {
		return fmt.Errorf("transaction %s is a %s, not a payment", id, old.Kind())
	}
	ds := DeltaSet{}
	if !p.Future {
		ds.Add(p.Account, p.Amount)
	}
	if err := r.books.Ledger.Delete(id); err != nil {
		return err
	}
	if err := ds.apply(r.books.Registry); err != nil {
		return err
	}

	liability, err := r.books.Liability(p.Liability)
	if err == nil && !liability.Active {
		status := ComputeStatus(liability, r.books.Ledger.PaymentsFor(liability.ID), Today())
		if status.Remaining.IsPositive() {
			r.books.reactivateLiability(liability.ID)
			r.log.Info().Str("liability", liability.Name).Msg("liability reactivated after payment deletion")
		}
	}
	return nil
}

// AddTransfer moves money between two accounts: the source is debited
// amount+fee, the destination credited amount; the fee is credited
// nowhere. The source must hold amount+fee or nothing happens.
func (r *Recorder) AddTransfer(t Transfer) (Transfer, error) {
	if err := t.Validate(); err != nil {
		return Transfer{}, err
	}
	source, err := r.books.Registry.Get(t.From)
	if err != nil {
		return Transfer{}, err
	}
	if err := r.requireAccount(t.To); err != nil {
		return Transfer{}, err
	}
	if source.CurrentBalance.LessThan(t.Outflow()) {
		return Transfer{}, fmt.Errorf("account %q holds %s, transfer needs %s: %w",
			source.Name, source.CurrentBalance, t.Outflow(), ErrInsufficientBalance)
	}
	if t.TxID == "" {
		t.TxID = NewTxID()
	}

	ds := DeltaSet{}
	ds.Add(t.From, t.Outflow().Neg())
	ds.Add(t.To, t.Amount)
	r.books.Ledger.Append(t)
	r.log.Debug().Str("kind", string(KindTransfer)).Str("id", string(t.TxID)).Msg("transfer recorded")
	return t, ds.apply(r.books.Registry)
}

// DeleteTransfer removes a transfer and reverses both legs: the source is
// credited amount+fee, the destination debited amount. Transfers have no
// edit operation; delete-and-recreate is the correction path.
func (r *Recorder) DeleteTransfer(id TxID) error {
	old, err := r.books.Ledger.Get(id)
	if err != nil {
		return err
	}
	t, ok := old.(Transfer)
	if !ok {
		return fmt.Errorf("transaction %s is a %s, not a transfer", id, old.Kind())
	}
	ds := DeltaSet{}
	ds.Add(t.From, t.Outflow())
	ds.Add(t.To, t.Amount.Neg())
	if err := r.books.Ledger.Delete(id); err != nil {
		return err
	}
	return ds.apply(r.books.Registry)
}

// SaveRide upserts the daily ride settlement. One save can touch three
// accounts and one linked record:
//
//   - the cash-on-hand role account moves by new cash minus old cash;
//   - the provider wallet moves by new wallet minus old wallet when the
//     provider is unchanged, otherwise the old provider's wallet reverses
//     the entire old value and the new provider's wallet receives the
//     entire new value;
//   - the linked fuel expense is created, updated or deleted per the
//     expense rules.
//
// Every per-account effect is accumulated into one DeltaSet and committed
// as one batch, so two effects on the same account net out.
func (r *Recorder) SaveRide(s RideSettlement, fuelAmount Money, fuelAccount AccountID) (RideSettlement, error) {
	if err := s.Validate(); err != nil {
		return RideSettlement{}, err
	}
	if fuelAmount.IsPositive() && fuelAccount == "" {
		return RideSettlement{}, &ValidationError{Problems: []string{"no account selected for the fuel expense"}}
	}
	if fuelAccount != "" {
		if err := r.requireAccount(fuelAccount); err != nil {
			return RideSettlement{}, err
		}
	}

	old, exists := r.books.Ledger.RideOn(s.Date)

	ds := DeltaSet{}

	// Cash leg.
	if cash, ok := r.books.Registry.ByRole(RoleCashOnHand, ""); ok {
		oldCash := Money{}
		if exists {
			oldCash = old.Cash
		}
		ds.Add(cash.ID, s.Cash.Sub(oldCash))
	}

	// Wallet leg.
	if !exists || old.Provider == s.Provider {
		if wallet, ok := r.books.Registry.ByRole(RoleWallet, s.Provider); ok {
			oldWallet := Money{}
			if exists {
				oldWallet = old.Wallet
			}
			ds.Add(wallet.ID, s.Wallet.Sub(oldWallet))
		}
	} else {
		// Provider changed: reverse the whole old value, apply the whole
		// new one. Not a delta.
		if wallet, ok := r.books.Registry.ByRole(RoleWallet, old.Provider); ok {
			ds.Add(wallet.ID, old.Wallet.Neg())
		}
		if wallet, ok := r.books.Registry.ByRole(RoleWallet, s.Provider); ok {
			ds.Add(wallet.ID, s.Wallet)
		}
	}

	// Fuel leg: sync the linked expense record.
	var linked *Expense
	if exists && old.FuelExpense != "" {
		if tx, err := r.books.Ledger.Get(old.FuelExpense); err == nil {
			if fe, ok := tx.(Expense); ok {
				linked = &fe
			}
		}
	}
	switch {
	case fuelAmount.IsPositive() && linked != nil:
		updated := *linked
		updated.Date = s.Date
		updated.Amount = fuelAmount
		updated.Account = fuelAccount
		if linked.Account == fuelAccount {
			ds.Add(fuelAccount, linked.Amount.Sub(fuelAmount))
		} else {
			ds.Add(linked.Account, linked.Amount)
			ds.Add(fuelAccount, fuelAmount.Neg())
		}
		if err := r.books.Ledger.Replace(updated); err != nil {
			return RideSettlement{}, err
		}
		s.FuelExpense = updated.TxID
	case fuelAmount.IsPositive():
		fe := NewExpense(s.Date, "fuel", fuelAccount, fuelAmount, "")
		r.books.Ledger.Append(fe)
		ds.Add(fuelAccount, fuelAmount.Neg())
		s.FuelExpense = fe.TxID
	case linked != nil:
		ds.Add(linked.Account, linked.Amount)
		if err := r.books.Ledger.Delete(linked.TxID); err != nil {
			return RideSettlement{}, err
		}
		s.FuelExpense = ""
	}

	if exists {
		s.TxID = old.TxID
		if err := r.books.Ledger.Replace(s); err != nil {
			return RideSettlement{}, err
		}
	} else {
		if s.TxID == "" {
			s.TxID = NewTxID()
		}
		r.books.Ledger.Append(s)
	}
	r.log.Debug().Str("kind", string(KindRideSettlement)).Str("date", s.Date.String()).Int("accounts", len(ds)).Msg("ride settlement saved")
	return s, ds.apply(r.books.Registry)
}

// DeleteRide removes the settlement for a date, reversing the cash and
// wallet values and refunding the linked fuel expense.
func (r *Recorder) DeleteRide(day Date) error {
	old, exists := r.books.Ledger.RideOn(day)
	if !exists {
		return fmt.Errorf("ride settlement on %s: %w", day, ErrNotFound)
	}

	ds := DeltaSet{}
	if cash, ok := r.books.Registry.ByRole(RoleCashOnHand, ""); ok {
		ds.Add(cash.ID, old.Cash.Neg())
	}
	if wallet, ok := r.books.Registry.ByRole(RoleWallet, old.Provider); ok {
		ds.Add(wallet.ID, old.Wallet.Neg())
	}
	if old.FuelExpense != "" {
		if tx, err := r.books.Ledger.Get(old.FuelExpense); err == nil {
			if fe, ok := tx.(Expense); ok {
				ds.Add(fe.Account, fe.Amount)
				if err := r.books.Ledger.Delete(fe.TxID); err != nil {
					return err
				}
			}
		}
	}
	if err := r.books.Ledger.Delete(old.TxID); err != nil {
		return err
	}
	return ds.apply(r.books.Registry)
}

// AddSideIncome credits the chosen account by the amount.
func (r *Recorder) AddSideIncome(si SideIncome) (SideIncome, error) {
	if err := si.Validate(); err != nil {
		return SideIncome{}, err
	}
	if err := r.requireAccount(si.Account); err != nil {
		return SideIncome{}, err
	}
	if si.TxID == "" {
		si.TxID = NewTxID()
	}
	ds := DeltaSet{}
	ds.Add(si.Account, si.Amount)
	r.books.Ledger.Append(si)
	return si, ds.apply(r.books.Registry)
}

// EditSideIncome applies the delta new−old when the account is unchanged,
// otherwise reverses the old amount on the old account and credits the new
// amount on the new one.
func (r *Recorder) EditSideIncome(si SideIncome) (SideIncome, error) {
	old, err := r.books.Ledger.Get(si.TxID)
	if err != nil {
		return SideIncome{}, err
	}
	oldSi, ok := old.(SideIncome)
	if !ok {
		return SideIncome{}, fmt.Errorf("transaction %s is a %s, not a side income", si.TxID, old.Kind())
	}
	if err := si.Validate(); err != nil {
		return SideIncome{}, err
	}
	if err := r.requireAccount(si.Account); err != nil {
		return SideIncome{}, err
	}
	ds := DeltaSet{}
	if oldSi.Account == si.Account {
		ds.Add(si.Account, si.Amount.Sub(oldSi.Amount))
	} else {
		ds.Add(oldSi.Account, oldSi.Amount.Neg())
		ds.Add(si.Account, si.Amount)
	}
	if err := r.books.Ledger.Replace(si); err != nil {
		return SideIncome{}, err
	}
	return si, ds.apply(r.books.Registry)
}

// DeleteSideIncome debits the recorded amount back from the recorded
// account.
func (r *Recorder) DeleteSideIncome(id TxID) error {
	old, err := r.books.Ledger.Get(id)
	if err != nil {
		return err
	}
	si, ok := old.(SideIncome)
	if !ok {
		return fmt.Errorf("transaction %s is a %s, not a side income", id, old.Kind())
	}
	ds := DeltaSet{}
	ds.Add(si.Account, si.Amount.Neg())
	if err := r.books.Ledger.Delete(id); err != nil {
		return err
	}
	return ds.apply(r.books.Registry)
}

// SweepDue applies deferred expenses and future-flagged payments whose
// date has arrived. Deferral is evaluated only at create/edit time, so a
// record whose date silently passes stays unapplied until this sweep runs.
// The sweep is always explicit; nothing schedules it. It returns the number
// of records applied.
func (r *Recorder) SweepDue(asOf Date) (int, error) {
	ds := DeltaSet{}
	var due []Transaction
	for tx := range r.books.Ledger.All() {
		switch t := tx.(type) {
		case Expense:
			if t.Deferred && !t.Date.After(asOf) {
				t.Deferred = false
				due = append(due, t)
				ds.Add(t.Account, t.Amount.Neg())
			}
		case LiabilityPayment:
			if t.Future && !t.Date.After(asOf) {
				t.Future = false
				due = append(due, t)
				ds.Add(t.Account, t.Amount.Neg())
			}
		}
	}
	for _, tx := range due {
		if err := r.books.Ledger.Replace(tx); err != nil {
			return 0, err
		}
	}
	if len(due) > 0 {
		r.log.Info().Int("applied", len(due)).Str("asOf", asOf.String()).Msg("deferred transactions swept")
	}
	return len(due), ds.apply(r.books.Registry)
}
