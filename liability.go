package finledger

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LiabilityID identifies a liability record.
type LiabilityID string

// NewLiabilityID returns a fresh unique liability identifier.
func NewLiabilityID() LiabilityID { return LiabilityID(uuid.NewString()) }

// LiabilityCategory classifies a debt obligation.
type LiabilityCategory int

const (
	Pawning LiabilityCategory = iota // jewellery pawned against a loan
	BikeFinance
	Loan
	DeviceCredit
	OtherLiability
)

func (c LiabilityCategory) String() string {
	switch c {
	case Pawning:
		return "pawning"
	case BikeFinance:
		return "finance"
	case Loan:
		return "loan"
	case DeviceCredit:
		return "device"
	case OtherLiability:
		return "other"
	default:
		return "unknown"
	}
}

// ParseLiabilityCategory parses a string into a LiabilityCategory.
func ParseLiabilityCategory(s string) (LiabilityCategory, error) {
	switch s {
	case "pawning":
		return Pawning, nil
	case "finance":
		return BikeFinance, nil
	case "loan":
		return Loan, nil
	case "device":
		return DeviceCredit, nil
	case "other":
		return OtherLiability, nil
	default:
		return 0, fmt.Errorf("unknown liability category: %q", s)
	}
}

// InterestMethod is the amortization rule configured on a liability.
type InterestMethod int

const (
	MethodNone InterestMethod = iota
	MethodFlat
	MethodReducingBalance
	MethodInterestOnly
)

func (m InterestMethod) String() string {
	switch m {
	case MethodNone:
		return "none"
	case MethodFlat:
		return "flat"
	case MethodReducingBalance:
		return "reducing"
	case MethodInterestOnly:
		return "interest-only"
	default:
		return "unknown"
	}
}

// ParseInterestMethod parses a string into an InterestMethod.
func ParseInterestMethod(s string) (InterestMethod, error) {
	switch s {
	case "none":
		return MethodNone, nil
	case "flat":
		return MethodFlat, nil
	case "reducing":
		return MethodReducingBalance, nil
	case "interest-only":
		return MethodInterestOnly, nil
	default:
		return 0, fmt.Errorf("unknown interest method: %q", s)
	}
}

// Liability is a debt obligation. It owns its payment history: payments
// reference it by id and no other record does.
type Liability struct {
	ID             LiabilityID
	Name           string
	Category       LiabilityCategory
	Method         InterestMethod
	Principal      Money
	MonthlyRate    decimal.Decimal // percent per month (but see ReducingBalance)
	MonthlyPayment Money
	ArrearsSeed    Money // amount already overdue when the record was opened
	PaymentDay     int   // day of month an installment falls due; 0 means the start date's day
	Start          Date
	End            Date // optional; zero means open-ended
	Priority       int
	Active         bool
}

// NewLiability creates a liability with its terms. The caller fills optional
// fields on the returned value before registering it.
func NewLiability(name string, category LiabilityCategory, method InterestMethod, principal Money, monthlyRate decimal.Decimal, monthlyPayment Money, start Date) Liability {
	return Liability{
		ID:             NewLiabilityID(),
		Name:           name,
		Category:       category,
		Method:         method,
		Principal:      principal,
		MonthlyRate:    monthlyRate,
		MonthlyPayment: monthlyPayment,
		Start:          start,
		Active:         true,
	}
}

func (l Liability) Validate() error {
	var v validation
	v.requiref(l.Name != "", "liability name is missing")
	v.requiref(l.Principal.IsPositive(), "liability principal must be positive")
	v.requiref(!l.MonthlyRate.IsNegative(), "interest rate cannot be negative")
	v.requiref(!l.Start.IsZero(), "liability start date is missing")
	v.requiref(l.End.IsZero() || !l.End.Before(l.Start), "end date precedes start date")
	v.requiref(l.PaymentDay >= 0 && l.PaymentDay <= 31, "payment day must be a day of month")
	return v.err()
}

// paymentDay resolves the configured payment day-of-month, defaulting to
// the start date's day.
func (l Liability) paymentDay() int {
	if l.PaymentDay > 0 {
		return l.PaymentDay
	}
	return l.Start.Day()
}
