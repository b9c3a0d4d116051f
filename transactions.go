package finledger

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TxID identifies a transaction record.
type TxID string

// NewTxID returns a fresh unique transaction identifier.
func NewTxID() TxID { return TxID(uuid.NewString()) }

// TxKind is a typed string discriminating the transaction variants.
type TxKind string

const (
	KindExpense          TxKind = "expense"
	KindLiabilityPayment TxKind = "payment"
	KindTransfer         TxKind = "transfer"
	KindRideSettlement   TxKind = "ride"
	KindSideIncome       TxKind = "side-income"
)

// Transaction is the common interface for every record in the ledger.
type Transaction interface {
	Kind() TxKind // Kind returns the discriminator ("expense", "transfer", ...).
	When() Date   // When returns the date on which the transaction occurred.
	ID() TxID
}

type baseTx struct {
	TxID TxID   `json:"id"`
	Date Date   `json:"date"`
	Note string `json:"note,omitempty"`
}

func (t baseTx) ID() TxID   { return t.TxID }
func (t baseTx) When() Date { return t.Date }

func newBaseTx(day Date, note string) baseTx {
	if day.IsZero() {
		day = Today()
	}
	return baseTx{TxID: NewTxID(), Date: day, Note: note}
}

// Expense is money spent from one account on a given category.
//
// Deferred records whether the expense was future-dated at its last
// create/edit evaluation. A deferred expense is stored but has not been
// charged against the account; it stays unapplied until edited or swept
// (Recorder.SweepDue), never automatically.
type Expense struct {
	baseTx
	Category string
	Account  AccountID
	Amount   Money
	Deferred bool
}

// NewExpense creates an Expense dated day, paid from the given account.
func NewExpense(day Date, category string, account AccountID, amount Money, note string) Expense {
	return Expense{baseTx: newBaseTx(day, note), Category: category, Account: account, Amount: amount}
}

func (t Expense) Kind() TxKind { return KindExpense }

func (t Expense) Validate() error {
	var v validation
	v.requiref(t.Category != "", "expense category is missing")
	v.requiref(t.Account != "", "no paying account selected")
	v.requiref(t.Amount.IsPositive(), "expense amount must be positive")
	return v.err()
}

// LiabilityPayment is an installment paid from one account against a
// liability. Future mirrors Expense.Deferred: it is fixed at creation time
// and consulted (not the date) on later edits and deletes.
type LiabilityPayment struct {
	baseTx
	Liability LiabilityID
	Account   AccountID
	Amount    Money
	Future    bool
}

// NewLiabilityPayment creates a payment against the given liability.
func NewLiabilityPayment(day Date, liability LiabilityID, account AccountID, amount Money, note string) LiabilityPayment {
	return LiabilityPayment{baseTx: newBaseTx(day, note), Liability: liability, Account: account, Amount: amount}
}

func (t LiabilityPayment) Kind() TxKind { return KindLiabilityPayment }

func (t LiabilityPayment) Validate() error {
	var v validation
	v.requiref(t.Liability != "", "payment liability is missing")
	v.requiref(t.Account != "", "no paying account selected")
	v.requiref(t.Amount.IsPositive(), "payment amount must be positive")
	return v.err()
}

// Transfer moves an amount between two accounts. The fee is charged to the
// source on top of the amount and credited nowhere: a pure loss.
type Transfer struct {
	baseTx
	From   AccountID
	To     AccountID
	Amount Money
	Fee    Money
}

// NewTransfer creates a transfer of amount between two accounts with an
// optional fee.
func NewTransfer(day Date, from, to AccountID, amount, fee Money, note string) Transfer {
	return Transfer{baseTx: newBaseTx(day, note), From: from, To: to, Amount: amount, Fee: fee}
}

func (t Transfer) Kind() TxKind { return KindTransfer }

func (t Transfer) Validate() error {
	var v validation
	v.requiref(t.From != "", "transfer source account is missing")
	v.requiref(t.To != "", "transfer destination account is missing")
	v.requiref(t.From == "" || t.To == "" || t.From != t.To, "transfer source and destination are the same account")
	v.requiref(t.Amount.IsPositive(), "transfer amount must be positive")
	v.requiref(!t.Fee.IsNegative(), "transfer fee cannot be negative")
	return v.err()
}

// Outflow is the full charge against the source account: amount plus fee.
func (t Transfer) Outflow() Money { return t.Amount.Add(t.Fee) }

// RideSettlement is the daily record of ride-hailing work: the cash
// collected, the provider wallet's end-of-day balance, and an optional
// linked fuel expense. One settlement exists per date.
//
// Distance and Earning are carried opaquely for reporting; fuel-tank
// simulation is out of scope here.
type RideSettlement struct {
	baseTx
	Provider    string
	Cash        Money
	Wallet      Money
	Earning     Money
	Distance    decimal.Decimal
	FuelExpense TxID // id of the linked fuel Expense, if any
}

// NewRideSettlement creates the daily ride record for a provider.
func NewRideSettlement(day Date, provider string, cash, wallet, earning Money) RideSettlement {
	return RideSettlement{baseTx: newBaseTx(day, ""), Provider: provider, Cash: cash, Wallet: wallet, Earning: earning}
}

func (t RideSettlement) Kind() TxKind { return KindRideSettlement }

func (t RideSettlement) Validate() error {
	var v validation
	v.requiref(t.Provider != "", "ride provider is missing")
	v.requiref(!t.Cash.IsNegative(), "cash on hand cannot be negative")
	v.requiref(!t.Wallet.IsNegative(), "wallet balance cannot be negative")
	return v.err()
}

// SideIncome is money earned outside ride work, credited to one account.
type SideIncome struct {
	baseTx
	Category string
	Client   string
	Account  AccountID
	Amount   Money
}

// NewSideIncome creates a side income record credited to the given account.
func NewSideIncome(day Date, category, client string, account AccountID, amount Money, note string) SideIncome {
	return SideIncome{baseTx: newBaseTx(day, note), Category: category, Client: client, Account: account, Amount: amount}
}

func (t SideIncome) Kind() TxKind { return KindSideIncome }

func (t SideIncome) Validate() error {
	var v validation
	v.requiref(t.Category != "", "income category is missing")
	v.requiref(t.Account != "", "no receiving account selected")
	v.requiref(t.Amount.IsPositive(), "income amount must be positive")
	return v.err()
}
