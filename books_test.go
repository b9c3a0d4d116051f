package finledger

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestSummarize(t *testing.T) {
	b, daily, _, _ := testBooks(t)
	if _, err := b.Registry.Add(Account{Name: "Bike Loan", Type: LiabilityAccount, StartingBalance: LKR(-150000)}); err != nil {
		t.Fatal(err)
	}

	s := b.Summarize()
	approx(t, "TotalAssets", s.TotalAssets, 1000, 0)
	approx(t, "Liabilities", s.Liabilities, 150000, 0)
	approx(t, "NetWorth", s.NetWorth, -149000, 0)
	_ = daily
}

func TestEffectiveBalanceTracksWalletSnapshot(t *testing.T) {
	b, _, _, wallet := testBooks(t)
	r := NewRecorder(b, zerolog.Nop())

	// Two settlements on different days: the recorder accumulated both
	// full wallet values into the cache, but the account's real position
	// is the latest snapshot.
	if _, err := r.SaveRide(NewRideSettlement(Today().Add(-2), "PickMe", NO(0), LKR(800), NO(0)), NO(0), ""); err != nil {
		t.Fatal(err)
	}
	if _, err := r.SaveRide(NewRideSettlement(Today().Add(-1), "PickMe", NO(0), LKR(650), NO(0)), NO(0), ""); err != nil {
		t.Fatal(err)
	}

	got, err := b.Registry.Get(wallet.ID)
	if err != nil {
		t.Fatal(err)
	}
	approx(t, "EffectiveBalance", b.EffectiveBalance(got), 650, 0)

	s := b.Summarize()
	approx(t, "TotalAssets", s.TotalAssets, 1650, 0)
}

func TestRecomputeDetectsDrift(t *testing.T) {
	b, daily, _, _ := testBooks(t)
	r := NewRecorder(b, zerolog.Nop())

	if _, err := r.AddExpense(NewExpense(Today(), "groceries", daily.ID, LKR(200), "")); err != nil {
		t.Fatal(err)
	}
	if drifts := b.Recompute(); len(drifts) != 0 {
		t.Fatalf("clean books report drift: %+v", drifts)
	}

	// Corrupt the cache behind the recorder's back, the way a lost update
	// from a second writer would.
	if err := b.Registry.ApplyDelta(daily.ID, LKR(-37)); err != nil {
		t.Fatal(err)
	}
	drifts := b.Recompute()
	if len(drifts) != 1 {
		t.Fatalf("drifts = %+v, want exactly one", drifts)
	}
	if drifts[0].Account != daily.ID {
		t.Errorf("drift on %s, want %s", drifts[0].Account, daily.ID)
	}
	approx(t, "Delta", drifts[0].Delta(), -37, 0)
	approx(t, "Derived", drifts[0].Derived, 800, 0)

	// Recompute never repairs.
	approx(t, "cached untouched", balance(t, b, daily.ID), 763, 0)
}

func TestActiveAndCompletedLiabilities(t *testing.T) {
	b, daily, _, _ := testBooks(t)
	daily.CurrentBalance = LKR(20000)
	b.Registry.restore(*daily)
	r := NewRecorder(b, zerolog.Nop())

	open, err := b.AddLiability(NewLiability("Bike Finance", BikeFinance, MethodNone, LKR(150000), dec(0), LKR(5000), NewDate(2025, time.January, 10)))
	if err != nil {
		t.Fatal(err)
	}
	settled, err := b.AddLiability(NewLiability("Phone Credit", DeviceCredit, MethodNone, LKR(12000), dec(0), LKR(1000), NewDate(2024, time.June, 1)))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := r.AddPayment(NewLiabilityPayment(Today(), settled.ID, daily.ID, LKR(12000), "")); err != nil {
		t.Fatal(err)
	}

	active := b.ActiveLiabilities(Today())
	if len(active) != 1 || active[0].ID != open.ID {
		t.Errorf("active = %+v, want only the bike finance", active)
	}
	completed := b.CompletedLiabilities(Today())
	if len(completed) != 1 || completed[0].ID != settled.ID {
		t.Errorf("completed = %+v, want only the phone credit", completed)
	}
}

func TestDeferredExpenseExcludedFromRecompute(t *testing.T) {
	b, daily, _, _ := testBooks(t)
	r := NewRecorder(b, zerolog.Nop())

	if _, err := r.AddExpense(NewExpense(Today().Add(5), "insurance", daily.ID, LKR(400), "")); err != nil {
		t.Fatal(err)
	}
	// The deferred record was never charged, so derivation must skip it
	// too: no false drift.
	if drifts := b.Recompute(); len(drifts) != 0 {
		t.Errorf("deferred expense caused drift: %+v", drifts)
	}
}

func TestRecomputeToleratesWalletNoise(t *testing.T) {
	b, _, _, wallet := testBooks(t)
	r := NewRecorder(b, zerolog.Nop())

	if _, err := r.SaveRide(NewRideSettlement(Today().Add(-2), "PickMe", NO(0), LKR(500), NO(0)), NO(0), ""); err != nil {
		t.Fatal(err)
	}
	// The next day's wallet moved by a sub-noise amount. The statement
	// suppresses the row but re-derivation must still count it.
	if _, err := r.SaveRide(NewRideSettlement(Today().Add(-1), "PickMe", NO(0), LKR(500.005), NO(0)), NO(0), ""); err != nil {
		t.Fatal(err)
	}

	s, err := BuildStatement(b, wallet.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(s.Rows) != 1 {
		t.Fatalf("statement has %d rows, want the noise row suppressed", len(s.Rows))
	}

	if drifts := b.Recompute(); len(drifts) != 0 {
		t.Fatalf("suppressed wallet noise reported as drift: %+v", drifts)
	}
}
