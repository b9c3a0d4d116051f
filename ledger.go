package finledger

import (
	"fmt"
	"iter"
	"sort"
)

// Ledger holds every transaction on record.
//
// Transactions are kept in chronological order. Rows sharing a date keep
// their insertion order: the sort is stable, but same-day ordering carries
// no meaning and consumers must not rely on it.
type Ledger struct {
	transactions []Transaction
	byID         map[TxID]int
}

// NewLedger creates an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{byID: make(map[TxID]int)}
}

// Len returns the number of transactions on record.
func (l *Ledger) Len() int { return len(l.transactions) }

// Append adds transactions to the ledger, keeping it sorted.
func (l *Ledger) Append(txs ...Transaction) {
	l.transactions = append(l.transactions, txs...)
	l.stableSort()
}

// Get returns the transaction with the given id.
func (l *Ledger) Get(id TxID) (Transaction, error) {
	i, ok := l.byID[id]
	if !ok {
		return nil, fmt.Errorf("transaction %s: %w", id, ErrNotFound)
	}
	return l.transactions[i], nil
}

// Replace swaps the stored transaction with the same id for tx.
func (l *Ledger) Replace(tx Transaction) error {
	i, ok := l.byID[tx.ID()]
	if !ok {
		return fmt.Errorf("transaction %s: %w", tx.ID(), ErrNotFound)
	}
	l.transactions[i] = tx
	l.stableSort()
	return nil
}

// Delete removes the transaction with the given id.
func (l *Ledger) Delete(id TxID) error {
	i, ok := l.byID[id]
	if !ok {
		return fmt.Errorf("transaction %s: %w", id, ErrNotFound)
	}
	l.transactions = append(l.transactions[:i], l.transactions[i+1:]...)
	l.reindex()
	return nil
}

// All iterates over every transaction in chronological order.
func (l *Ledger) All() iter.Seq[Transaction] {
	return func(yield func(Transaction) bool) {
		for _, tx := range l.transactions {
			if !yield(tx) {
				return
			}
		}
	}
}

// Transactions iterates over transactions matching the predicate, in
// chronological order.
func (l *Ledger) Transactions(keep func(Transaction) bool) iter.Seq[Transaction] {
	return func(yield func(Transaction) bool) {
		for _, tx := range l.transactions {
			if keep == nil || keep(tx) {
				if !yield(tx) {
					return
				}
			}
		}
	}
}

// PaymentsFor returns all payments against one liability in chronological
// order.
func (l *Ledger) PaymentsFor(id LiabilityID) []LiabilityPayment {
	var out []LiabilityPayment
	for _, tx := range l.transactions {
		if p, ok := tx.(LiabilityPayment); ok && p.Liability == id {
			out = append(out, p)
		}
	}
	return out
}

// RideOn returns the ride settlement recorded for a given date, if any.
// One settlement exists per date at most.
func (l *Ledger) RideOn(day Date) (RideSettlement, bool) {
	for _, tx := range l.transactions {
		if s, ok := tx.(RideSettlement); ok && s.Date == day {
			return s, true
		}
	}
	return RideSettlement{}, false
}

// RidesByProvider returns the ride settlements for one provider in
// chronological order.
func (l *Ledger) RidesByProvider(provider string) []RideSettlement {
	var out []RideSettlement
	for _, tx := range l.transactions {
		if s, ok := tx.(RideSettlement); ok && s.Provider == provider {
			out = append(out, s)
		}
	}
	return out
}

// stableSort orders transactions chronologically, same-day rows keeping
// their previous relative order.
func (l *Ledger) stableSort() {
	sort.SliceStable(l.transactions, func(i, j int) bool {
		return l.transactions[i].When().Before(l.transactions[j].When())
	})
	l.reindex()
}

func (l *Ledger) reindex() {
	if l.byID == nil {
		l.byID = make(map[TxID]int, len(l.transactions))
	}
	clear(l.byID)
	for i, tx := range l.transactions {
		l.byID[tx.ID()] = i
	}
}
