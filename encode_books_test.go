package finledger

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestSaveLoadBooks(t *testing.T) {
	dir := t.TempDir()

	b, daily, _, wallet := testBooks(t)
	r := NewRecorder(b, zerolog.Nop())

	l, err := b.AddLiability(NewLiability("Bike Finance", BikeFinance, MethodFlat, LKR(150000), dec(2), LKR(5000), NewDate(2025, time.January, 10)))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := r.AddExpense(NewExpense(Today(), "groceries", daily.ID, LKR(200), "")); err != nil {
		t.Fatal(err)
	}
	if _, err := r.AddPayment(NewLiabilityPayment(Today(), l.ID, daily.ID, LKR(500), "")); err != nil {
		t.Fatal(err)
	}

	if err := SaveBooks(dir, b); err != nil {
		t.Fatal(err)
	}
	loaded, err := LoadBooks(dir)
	if err != nil {
		t.Fatal(err)
	}

	// Cached balances survive the round trip untouched.
	approx(t, "daily balance", balance(t, loaded, daily.ID), 300, 0)

	got, err := loaded.Registry.Get(wallet.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Role != RoleWallet || got.Provider != "PickMe" || !got.System {
		t.Errorf("wallet account round trip mismatch: %+v", got)
	}

	gl, err := loaded.Liability(l.ID)
	if err != nil {
		t.Fatal(err)
	}
	if gl.Name != "Bike Finance" || gl.Category != BikeFinance || gl.Method != MethodFlat || !gl.Active {
		t.Errorf("liability round trip mismatch: %+v", gl)
	}
	if !gl.MonthlyRate.Equal(dec(2)) {
		t.Errorf("monthly rate = %s, want 2", gl.MonthlyRate)
	}
	if gl.Start != NewDate(2025, time.January, 10) {
		t.Errorf("start date = %s", gl.Start)
	}
	// The term is open-ended: the zero end date must survive the round
	// trip instead of marshaling as a bogus date.
	if !gl.End.IsZero() {
		t.Errorf("end date = %s, want zero", gl.End)
	}

	if loaded.Ledger.Len() != 2 {
		t.Errorf("ledger holds %d transactions, want 2", loaded.Ledger.Len())
	}
	if drifts := loaded.Recompute(); len(drifts) != 0 {
		t.Errorf("loaded books report drift: %+v", drifts)
	}
}

func TestSaveLoadBooksBoundedTerm(t *testing.T) {
	dir := t.TempDir()

	b, _, _, _ := testBooks(t)
	l := NewLiability("Phone Plan", DeviceCredit, MethodNone, LKR(90000), dec(0), LKR(7500), NewDate(2025, time.March, 1))
	l.End = NewDate(2026, time.March, 1)
	added, err := b.AddLiability(l)
	if err != nil {
		t.Fatal(err)
	}

	if err := SaveBooks(dir, b); err != nil {
		t.Fatal(err)
	}
	loaded, err := LoadBooks(dir)
	if err != nil {
		t.Fatal(err)
	}
	gl, err := loaded.Liability(added.ID)
	if err != nil {
		t.Fatal(err)
	}
	if gl.End != NewDate(2026, time.March, 1) {
		t.Errorf("end date = %s, want 2026-03-01", gl.End)
	}
}

func TestLoadBooksMissingDirectory(t *testing.T) {
	b, err := LoadBooks(t.TempDir() + "/nope")
	if err != nil {
		t.Fatal(err)
	}
	if len(b.Registry.AllAccounts()) != 0 || b.Ledger.Len() != 0 {
		t.Error("missing directory did not load as empty books")
	}
}
