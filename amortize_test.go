package finledger

import (
	"testing"
	"time"
)

func payment(day Date, l LiabilityID, amount Money) LiabilityPayment {
	return NewLiabilityPayment(day, l, "", amount, "")
}

func TestFlatSchedule(t *testing.T) {
	l := NewLiability("Bike Lease", Loan, MethodFlat, LKR(12000), dec(2), LKR(1100), NewDate(2025, time.January, 1))
	l.End = NewDate(2026, time.January, 1)

	// Past the end of the term with nothing paid: everything is in arrears.
	s := ComputeStatus(l, nil, NewDate(2026, time.January, 15))

	if s.MonthsTotal != 12 {
		t.Errorf("MonthsTotal = %d, want 12", s.MonthsTotal)
	}
	if s.MonthsPassed != 12 {
		t.Errorf("MonthsPassed = %d, want 12", s.MonthsPassed)
	}
	// interest = 12000 × 2% × 12
	approx(t, "TotalLiability", s.TotalLiability, 14880, 0)
	approx(t, "Arrears", s.Arrears, 13200, 0)
	approx(t, "Remaining", s.Remaining, 14880, 0)
	if s.Completed() {
		t.Error("unpaid liability reported completed")
	}
}

func TestFlatSchedulePartiallyPaid(t *testing.T) {
	l := NewLiability("Bike Lease", Loan, MethodFlat, LKR(12000), dec(2), LKR(1100), NewDate(2025, time.January, 1))
	l.End = NewDate(2026, time.January, 1)

	payments := []LiabilityPayment{
		payment(NewDate(2025, time.January, 5), l.ID, LKR(1100)),
		payment(NewDate(2025, time.February, 3), l.ID, LKR(1100)),
		payment(NewDate(2025, time.March, 2), l.ID, LKR(1500)),
	}
	s := ComputeStatus(l, payments, NewDate(2025, time.March, 10))

	// Two installments due by March 10th, 3700 paid.
	if s.MonthsPassed != 2 {
		t.Errorf("MonthsPassed = %d, want 2", s.MonthsPassed)
	}
	approx(t, "TotalPaid", s.TotalPaid, 3700, 0)
	approx(t, "Arrears", s.Arrears, 0, 0)
	approx(t, "Advance", s.Advance, 1500, 0)
	approx(t, "Remaining", s.Remaining, 11180, 0)
}

func TestNoneScheduleIsExact(t *testing.T) {
	l := NewLiability("Phone Credit", DeviceCredit, MethodNone, LKR(1200), dec(0), LKR(100), NewDate(2025, time.January, 1))
	l.End = NewDate(2026, time.January, 1)

	var payments []LiabilityPayment
	for i := 0; i < 6; i++ {
		payments = append(payments, payment(NewDate(2025, time.Month(i+1), 1), l.ID, LKR(100)))
	}
	s := ComputeStatus(l, payments, NewDate(2025, time.July, 1))

	approx(t, "TotalLiability", s.TotalLiability, 1200, 0)
	approx(t, "Arrears", s.Arrears, 0, 0)
	approx(t, "Remaining", s.Remaining, 600, 0)
	if s.ProgressPct != 50 {
		t.Errorf("ProgressPct = %v, want 50", s.ProgressPct)
	}
}

func TestFuturePaymentsDoNotCount(t *testing.T) {
	l := NewLiability("Phone Credit", DeviceCredit, MethodNone, LKR(1200), dec(0), LKR(100), NewDate(2025, time.January, 1))
	l.End = NewDate(2026, time.January, 1)

	future := payment(NewDate(2025, time.August, 1), l.ID, LKR(100))
	future.Future = true
	s := ComputeStatus(l, []LiabilityPayment{future}, NewDate(2025, time.February, 1))

	approx(t, "TotalPaid", s.TotalPaid, 0, 0)
	approx(t, "Arrears", s.Arrears, 100, 0)
}

func TestReducingBalanceSchedule(t *testing.T) {
	// 120000 over 12 months at 12 (treated as annual here, so 1% per
	// period): EMI ≈ 10661.85, total interest ≈ 7942.
	l := NewLiability("Personal Loan", Loan, MethodReducingBalance, LKR(120000), dec(12), LKR(10662), NewDate(2025, time.January, 1))
	l.End = NewDate(2026, time.January, 1)

	s := ComputeStatus(l, nil, NewDate(2025, time.February, 1))

	approx(t, "TotalLiability", s.TotalLiability, 127942, 1)
	if s.MonthsPassed != 1 {
		t.Errorf("MonthsPassed = %d, want 1", s.MonthsPassed)
	}
	approx(t, "Arrears", s.Arrears, 10662, 0)
}

func TestBikeFinancePenalty(t *testing.T) {
	l := NewLiability("Bike Finance", BikeFinance, MethodNone, LKR(100000), dec(0), LKR(5000), NewDate(2025, time.January, 10))

	// Two installments due, none paid, the oldest 69 days overdue: a 5%
	// late fee applies on arrears plus one installment.
	s := ComputeStatus(l, nil, NewDate(2025, time.March, 20))

	if s.MonthsPassed != 2 {
		t.Fatalf("MonthsPassed = %d, want 2", s.MonthsPassed)
	}
	approx(t, "Arrears", s.Arrears, 10000, 0)
	approx(t, "Penalty", s.Penalty, 750, 0)
	approx(t, "Remaining", s.Remaining, 100750, 0)
}

func TestBikeFinancePenaltyWithinGrace(t *testing.T) {
	l := NewLiability("Bike Finance", BikeFinance, MethodNone, LKR(100000), dec(0), LKR(5000), NewDate(2025, time.January, 10))
	l.ArrearsSeed = LKR(5000)

	// Arrears carried in from the start, but only 10 days overdue: inside
	// the grace window, no late fee yet.
	s := ComputeStatus(l, nil, NewDate(2025, time.January, 20))

	approx(t, "Arrears", s.Arrears, 5000, 0)
	approx(t, "Penalty", s.Penalty, 0, 0)
}

func TestNoPenaltyOutsideBikeFinance(t *testing.T) {
	l := NewLiability("Personal Loan", Loan, MethodNone, LKR(100000), dec(0), LKR(5000), NewDate(2025, time.January, 10))

	s := ComputeStatus(l, nil, NewDate(2025, time.March, 20))

	approx(t, "Arrears", s.Arrears, 10000, 0)
	approx(t, "Penalty", s.Penalty, 0, 0)
}

func TestInterestAccrualSettlesInterestFirst(t *testing.T) {
	// 50000 pawned at 2% per month accrues about 1000 per month. A 3000
	// payment 61 days in covers the accrued interest first, the rest
	// reduces principal.
	l := NewLiability("Gold Ring", Pawning, MethodInterestOnly, LKR(50000), dec(2), NO(0), NewDate(2025, time.January, 1))

	p := payment(NewDate(2025, time.March, 3), l.ID, LKR(3000))
	s := ComputeStatus(l, []LiabilityPayment{p}, NewDate(2025, time.March, 3))

	// accrued = 50000 × 2% × 61/30.44 ≈ 2003.94
	approx(t, "Arrears (unpaid interest)", s.Arrears, 0, 0.01)
	approx(t, "CurrentPrincipal", s.CurrentPrincipal, 49003.94, 0.01)
	approx(t, "Remaining", s.Remaining, 49003.94, 0.01)
	// monthly interest now tracks the reduced principal
	approx(t, "DisplayMonthly", s.DisplayMonthly, 980.08, 0.01)
}

func TestInterestAccrualInterestOnlyPayment(t *testing.T) {
	l := NewLiability("Gold Chain", Pawning, MethodInterestOnly, LKR(50000), dec(2), NO(0), NewDate(2025, time.January, 1))

	// A payment smaller than the accrued interest leaves principal
	// untouched.
	p := payment(NewDate(2025, time.March, 3), l.ID, LKR(1000))
	s := ComputeStatus(l, []LiabilityPayment{p}, NewDate(2025, time.March, 3))

	approx(t, "CurrentPrincipal", s.CurrentPrincipal, 50000, 0)
	approx(t, "Arrears", s.Arrears, 1003.94, 0.01)
	approx(t, "Remaining", s.Remaining, 51003.94, 0.01)
}

func TestPawningAlwaysAccrues(t *testing.T) {
	// Even configured flat, a pawning liability accrues on outstanding
	// principal: DisplayMonthly is principal × rate, not an installment.
	l := NewLiability("Gold Bangle", Pawning, MethodFlat, LKR(50000), dec(2), LKR(9999), NewDate(2025, time.January, 1))

	s := ComputeStatus(l, nil, NewDate(2025, time.January, 1))

	approx(t, "DisplayMonthly", s.DisplayMonthly, 1000, 0)
	approx(t, "Remaining", s.Remaining, 50000, 0)
}
