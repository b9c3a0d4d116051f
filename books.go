package finledger

import (
	"fmt"
	"sort"
)

// Books aggregates the account registry, the transaction ledger and the
// liability records: everything the Recorder mutates and the reporting
// side reads.
//
// A single logical writer per books directory is assumed. Two processes
// sharing one directory race on the cached balances; the loser's update is
// silently overwritten. Recompute is the detection path for that drift.
type Books struct {
	Registry    *Registry
	Ledger      *Ledger
	liabilities map[LiabilityID]*Liability
}

// NewBooks creates an empty set of books.
func NewBooks() *Books {
	return &Books{
		Registry:    NewRegistry(),
		Ledger:      NewLedger(),
		liabilities: make(map[LiabilityID]*Liability),
	}
}

// AddLiability registers a new liability after validating its terms.
func (b *Books) AddLiability(l Liability) (*Liability, error) {
	if err := l.Validate(); err != nil {
		return nil, err
	}
	if l.ID == "" {
		l.ID = NewLiabilityID()
	}
	if _, exists := b.liabilities[l.ID]; exists {
		return nil, fmt.Errorf("liability %s already registered", l.ID)
	}
	l.Active = true
	b.liabilities[l.ID] = &l
	return &l, nil
}

// restoreLiability puts an already-materialized record back, as-is. Used
// by the books loader.
func (b *Books) restoreLiability(l Liability) {
	b.liabilities[l.ID] = &l
}

// Liability returns a copy of the liability with the given id.
func (b *Books) Liability(id LiabilityID) (Liability, error) {
	l, ok := b.liabilities[id]
	if !ok {
		return Liability{}, fmt.Errorf("liability %s: %w", id, ErrNotFound)
	}
	return *l, nil
}

// LiabilityByName returns the liability with the given display name.
func (b *Books) LiabilityByName(name string) (Liability, bool) {
	for _, l := range b.liabilities {
		if l.Name == name {
			return *l, true
		}
	}
	return Liability{}, false
}

// Liabilities returns every liability, stable by priority then name.
func (b *Books) Liabilities() []Liability {
	out := make([]Liability, 0, len(b.liabilities))
	for _, l := range b.liabilities {
		out = append(out, *l)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Priority != out[j].Priority {
			return out[i].Priority < out[j].Priority
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// DeactivateLiability flags a liability deleted. Its payment history stays
// on the ledger.
func (b *Books) DeactivateLiability(id LiabilityID) error {
	l, ok := b.liabilities[id]
	if !ok {
		return fmt.Errorf("liability %s: %w", id, ErrNotFound)
	}
	l.Active = false
	return nil
}

// reactivateLiability is the self-healing path: deleting a payment can push
// a settled liability's remaining balance back above zero.
func (b *Books) reactivateLiability(id LiabilityID) {
	if l, ok := b.liabilities[id]; ok {
		l.Active = true
	}
}

// ActiveLiabilities returns the flagged-active liabilities that still carry
// a remaining balance as of the given date.
func (b *Books) ActiveLiabilities(asOf Date) []Liability {
	var out []Liability
	for _, l := range b.Liabilities() {
		if !l.Active {
			continue
		}
		if ComputeStatus(l, b.Ledger.PaymentsFor(l.ID), asOf).Remaining.IsPositive() {
			out = append(out, l)
		}
	}
	return out
}

// CompletedLiabilities returns liabilities whose remaining balance has
// reached zero, regardless of the active flag.
func (b *Books) CompletedLiabilities(asOf Date) []Liability {
	var out []Liability
	for _, l := range b.Liabilities() {
		if !l.Active {
			continue
		}
		if !ComputeStatus(l, b.Ledger.PaymentsFor(l.ID), asOf).Remaining.IsPositive() {
			out = append(out, l)
		}
	}
	return out
}

// EffectiveBalance resolves the balance an account is reported at.
//
// Wallet-role accounts are snapshot-based: each ride settlement records the
// wallet's end-of-day value, so the truthful balance is the latest
// settlement's wallet value, not the incrementally accumulated cache. All
// other accounts report their cached balance.
func (b *Books) EffectiveBalance(a Account) Money {
	if a.Role != RoleWallet {
		return a.CurrentBalance
	}
	settlements := b.Ledger.RidesByProvider(a.Provider)
	if len(settlements) == 0 {
		return a.CurrentBalance
	}
	latest := settlements[0]
	for _, s := range settlements[1:] {
		if !s.Date.Before(latest.Date) {
			latest = s
		}
	}
	return latest.Wallet
}

// Summary is the headline position across all accounts.
type Summary struct {
	TotalAssets Money // sum of non-liability account balances
	Liabilities Money // absolute sum of liability account balances
	NetWorth    Money
}

// Summarize computes the headline position from cached balances.
func (b *Books) Summarize() Summary {
	var s Summary
	for _, a := range b.Registry.Accounts() {
		bal := b.EffectiveBalance(a)
		if a.Type == LiabilityAccount {
			s.Liabilities = s.Liabilities.Add(bal.Abs())
		} else {
			s.TotalAssets = s.TotalAssets.Add(bal)
		}
	}
	s.NetWorth = s.TotalAssets.Sub(s.Liabilities)
	return s
}

// Drift is a mismatch between an account's cached balance and the balance
// derived from its source rows.
type Drift struct {
	Account AccountID
	Name    string
	Cached  Money
	Derived Money
}

// Delta returns cached minus derived.
func (d Drift) Delta() Money { return d.Cached.Sub(d.Derived) }

// Recompute derives each account's true balance from its starting balance
// and every applied (non-deferred) transaction referencing it, and returns
// the accounts whose cache disagrees. This is the manual reconciliation
// path for partial-application faults and cross-process lost updates; it
// never repairs anything by itself.
func (b *Books) Recompute() []Drift {
	var drifts []Drift
	for _, a := range b.Registry.AllAccounts() {
		rows := collectRows(b, a, false, false)
		derived := a.StartingBalance
		for _, r := range rows {
			derived = derived.Add(r.Amount)
		}
		cached := b.EffectiveBalance(a)
		if !derived.EqualValue(cached) {
			drifts = append(drifts, Drift{Account: a.ID, Name: a.Name, Cached: cached, Derived: derived})
		}
	}
	return drifts
}
