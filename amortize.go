package finledger

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// Amortization constants.
var (
	dHundred      = decimal.NewFromInt(100)
	dDaysPerMonth = decimal.NewFromFloat(30.44) // mean Gregorian month length
	dPenaltyRate  = decimal.NewFromInt(5).Div(dHundred)
)

// penaltyGraceDays is how long the oldest unpaid installment may run
// overdue before a bike-finance late fee applies.
const penaltyGraceDays = 25

// defaultTermMonths is the schedule length assumed when a liability has no
// end date.
const defaultTermMonths = 12

// Status is the computed financial position of a liability at a point in
// time. It is derived state only; nothing is stored.
type Status struct {
	Remaining        Money // principal + interest + penalty still owed
	Arrears          Money // due by now but unpaid
	Advance          Money // paid beyond what was due by now
	Penalty          Money // late-fee surcharge (bike finance only)
	TotalPaid        Money
	TotalLiability   Money // principal + total interest + arrears seed
	CurrentPrincipal Money
	DisplayMonthly   Money   // the figure shown as "per month"
	ProgressPct      float64 // 0..100
	MonthsTotal      int
	MonthsPassed     int
	DaysUntilPayment int
}

// Completed reports whether the liability is paid off.
func (s Status) Completed() bool { return !s.Remaining.IsPositive() }

// Schedule computes a liability's Status from its terms and payment
// history. Implementations are pure: they read, never write.
type Schedule interface {
	Status(l Liability, payments []LiabilityPayment, asOf Date) Status
}

// ComputeStatus computes the liability's position as of the given date,
// dispatching on the interest method. Pawning liabilities always use the
// interest-accrual schedule regardless of their configured method: pawn
// interest accrues on the outstanding principal by contract.
func ComputeStatus(l Liability, payments []LiabilityPayment, asOf Date) Status {
	return scheduleFor(l).Status(l, payments, asOf)
}

func scheduleFor(l Liability) Schedule {
	if l.Category == Pawning || l.Method == MethodInterestOnly {
		return InterestAccrual{}
	}
	switch l.Method {
	case MethodFlat:
		return Flat{}
	case MethodReducingBalance:
		return ReducingBalance{}
	default:
		return None{}
	}
}

// settledPayments returns the non-future payments in ascending date order
// and their sum. Payments flagged future at creation never count until
// re-evaluated.
func settledPayments(payments []LiabilityPayment) ([]LiabilityPayment, Money) {
	valid := make([]LiabilityPayment, 0, len(payments))
	total := Money{}
	for _, p := range payments {
		if p.Future {
			continue
		}
		valid = append(valid, p)
		total = total.Add(p.Amount)
	}
	sort.SliceStable(valid, func(i, j int) bool { return valid[i].Date.Before(valid[j].Date) })
	return valid, total
}

// None is the schedule for interest-free liabilities.
type None struct{}

func (None) Status(l Liability, payments []LiabilityPayment, asOf Date) Status {
	return installmentStatus(l, payments, asOf, func(int) Money { return Money{cur: l.Principal.cur} })
}

// Flat is the schedule for flat-rate interest: the monthly percentage is
// charged on the full principal for every month of the term.
type Flat struct{}

func (Flat) Status(l Liability, payments []LiabilityPayment, asOf Date) Status {
	return installmentStatus(l, payments, asOf, func(months int) Money {
		// principal × rate% × months
		return l.Principal.Mul(l.MonthlyRate.Div(dHundred)).Mul(decimal.NewFromInt(int64(months)))
	})
}

// ReducingBalance is the EMI-style schedule.
//
// Note the rate unit: this schedule divides the configured rate by 12,
// treating it as annual, while Flat multiplies the same field by month
// count, treating it as monthly. The inconsistency is preserved as found;
// normalizing it would silently change existing liabilities' figures.
type ReducingBalance struct{}

func (ReducingBalance) Status(l Liability, payments []LiabilityPayment, asOf Date) Status {
	return installmentStatus(l, payments, asOf, func(months int) Money {
		r := l.MonthlyRate.Div(dHundred).Div(decimal.NewFromInt(12))
		if r.IsZero() {
			return Money{cur: l.Principal.cur}
		}
		n := decimal.NewFromInt(int64(months))
		factor := decimal.NewFromInt(1).Add(r).Pow(n)
		// EMI total = P·r·(1+r)^n / ((1+r)^n − 1) × n
		total := l.Principal.Mul(r).Mul(factor).Div(factor.Sub(decimal.NewFromInt(1))).Mul(n)
		return total.Sub(l.Principal)
	})
}

// installmentStatus covers the schedule-based methods (none, flat,
// reducing balance): a fixed term of monthly installments with arrears and
// advance measured against what was expected by now.
func installmentStatus(l Liability, payments []LiabilityPayment, asOf Date, totalInterest func(months int) Money) Status {
	_, totalPaid := settledPayments(payments)

	monthsTotal := defaultTermMonths
	if !l.Start.IsZero() && !l.End.IsZero() {
		monthsTotal = max(1, l.Start.WholeMonthsUntil(l.End))
	}

	interest := totalInterest(monthsTotal)
	totalLiability := l.Principal.Add(interest).Add(l.ArrearsSeed)

	payDay := l.paymentDay()
	monthsPassed := l.Start.WholeMonthsUntil(asOf)
	if asOf.Day() < payDay {
		// the current period's installment is not due yet
		monthsPassed--
	}
	monthsPassed = max(0, min(monthsPassed, monthsTotal))

	expectedByNow := l.ArrearsSeed.Add(l.MonthlyPayment.Mul(decimal.NewFromInt(int64(monthsPassed))))
	arrears := maxMoneyZero(expectedByNow.Sub(totalPaid))
	advance := maxMoneyZero(totalPaid.Sub(expectedByNow))

	penalty := Money{cur: l.Principal.cur}
	if l.Category == BikeFinance && arrears.IsPositive() {
		paidInstallments := maxMoneyZero(totalPaid.Sub(l.ArrearsSeed))
		installment := l.MonthlyPayment.Decimal()
		if installment.IsZero() {
			installment = decimal.NewFromInt(1)
		}
		idx := int(paidInstallments.Decimal().Div(installment).Floor().IntPart())
		oldestDue := NewDate(l.Start.Year(), l.Start.Month()+time.Month(idx), payDay)
		if oldestDue.DaysUntil(asOf) > penaltyGraceDays {
			penalty = arrears.Add(l.MonthlyPayment).Mul(dPenaltyRate)
		}
	}

	remaining := maxMoneyZero(totalLiability.Add(penalty).Sub(totalPaid))

	progress := 0.0
	if denom := totalLiability.Add(penalty); denom.IsPositive() {
		progress = clampPct(totalPaid.Decimal().Div(denom.Decimal()).Mul(dHundred).InexactFloat64())
	}

	// Days until the next installment falls due.
	next := NewDate(asOf.Year(), asOf.Month(), payDay)
	if next.Before(asOf) {
		next = next.AddMonth(1)
	}

	return Status{
		Remaining:        remaining,
		Arrears:          arrears,
		Advance:          advance,
		Penalty:          penalty,
		TotalPaid:        totalPaid,
		TotalLiability:   totalLiability,
		CurrentPrincipal: l.Principal,
		DisplayMonthly:   l.MonthlyPayment,
		ProgressPct:      progress,
		MonthsTotal:      monthsTotal,
		MonthsPassed:     monthsPassed,
		DaysUntilPayment: asOf.DaysUntil(next),
	}
}

// InterestAccrual simulates a pawning or interest-only liability forward in
// time: interest accrues on the outstanding principal between payments, and
// each payment settles unpaid interest before it reduces principal.
type InterestAccrual struct{}

func (InterestAccrual) Status(l Liability, payments []LiabilityPayment, asOf Date) Status {
	valid, totalPaid := settledPayments(payments)

	ratePerMonth := l.MonthlyRate.Div(dHundred)
	principal := l.Principal.Decimal()
	currentPrincipal := principal
	accruedInterest := l.ArrearsSeed.Decimal()
	interestPaid := decimal.Zero

	cursor := l.Start
	if cursor.IsZero() {
		cursor = asOf
	}

	accrue := func(until Date) {
		months := decimal.NewFromInt(int64(cursor.DaysUntil(until))).Div(dDaysPerMonth)
		accruedInterest = accruedInterest.Add(currentPrincipal.Mul(ratePerMonth).Mul(months))
		cursor = until
	}

	for _, p := range valid {
		accrue(p.Date)
		unpaid := accruedInterest.Sub(interestPaid)
		if unpaid.IsNegative() {
			unpaid = decimal.Zero
		}
		toInterest := decimal.Min(p.Amount.Decimal(), unpaid)
		interestPaid = interestPaid.Add(toInterest)
		if toPrincipal := p.Amount.Decimal().Sub(toInterest); toPrincipal.IsPositive() {
			currentPrincipal = currentPrincipal.Sub(toPrincipal)
		}
	}
	accrue(asOf)

	ccy := l.Principal.cur
	unpaidInterest := accruedInterest.Sub(interestPaid)
	if unpaidInterest.IsNegative() {
		unpaidInterest = decimal.Zero
	}
	principalLeft := currentPrincipal
	if principalLeft.IsNegative() {
		principalLeft = decimal.Zero
	}

	progress := 0.0
	if principal.IsPositive() {
		progress = clampPct(principal.Sub(principalLeft).Div(principal).Mul(dHundred).InexactFloat64())
	}

	return Status{
		Remaining:        M(principalLeft.Add(unpaidInterest), ccy),
		Arrears:          M(unpaidInterest, ccy),
		Advance:          maxMoneyZero(M(principal.Sub(currentPrincipal), ccy)),
		Penalty:          Money{cur: ccy},
		TotalPaid:        totalPaid,
		TotalLiability:   l.Principal.Add(l.ArrearsSeed),
		CurrentPrincipal: M(principalLeft, ccy),
		DisplayMonthly:   maxMoneyZero(M(currentPrincipal.Mul(ratePerMonth), ccy)),
		ProgressPct:      progress,
	}
}

func clampPct(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
