package finledger

import (
	"errors"
	"testing"
)

func TestRegistryAdd(t *testing.T) {
	reg := NewRegistry()
	a, err := reg.Add(Account{Name: "People's Bank", Type: DailyUse, StartingBalance: LKR(5000)})
	if err != nil {
		t.Fatal(err)
	}
	if a.ID == "" {
		t.Error("no id assigned")
	}
	if !a.Active {
		t.Error("fresh account not active")
	}
	if !a.CurrentBalance.EqualValue(a.StartingBalance) {
		t.Errorf("current %s != starting %s", a.CurrentBalance, a.StartingBalance)
	}

	if _, err := reg.Add(Account{Type: DailyUse}); err == nil {
		t.Error("nameless account accepted")
	}
}

func TestApplyDelta(t *testing.T) {
	reg := NewRegistry()
	a, err := reg.Add(Account{Name: "People's Bank", Type: DailyUse, StartingBalance: LKR(1000)})
	if err != nil {
		t.Fatal(err)
	}
	if err := reg.ApplyDelta(a.ID, LKR(-300)); err != nil {
		t.Fatal(err)
	}
	if err := reg.ApplyDelta(a.ID, LKR(50)); err != nil {
		t.Fatal(err)
	}
	got, err := reg.Get(a.ID)
	if err != nil {
		t.Fatal(err)
	}
	approx(t, "balance", got.CurrentBalance, 750, 0)

	if err := reg.ApplyDelta("missing", LKR(1)); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestAdjustOpeningBalance(t *testing.T) {
	reg := NewRegistry()
	a, err := reg.Add(Account{Name: "People's Bank", Type: DailyUse, StartingBalance: LKR(1000)})
	if err != nil {
		t.Fatal(err)
	}
	if err := reg.ApplyDelta(a.ID, LKR(-400)); err != nil {
		t.Fatal(err)
	}

	// Correcting the opening balance shifts the cached balance by the same
	// difference: history stays intact.
	if err := reg.AdjustOpeningBalance(a.ID, LKR(1500)); err != nil {
		t.Fatal(err)
	}
	got, err := reg.Get(a.ID)
	if err != nil {
		t.Fatal(err)
	}
	approx(t, "starting", got.StartingBalance, 1500, 0)
	approx(t, "current", got.CurrentBalance, 1100, 0)
}

func TestSystemAccountProtection(t *testing.T) {
	reg := NewRegistry()
	a, err := reg.Add(Account{Name: "Cash In Hand", Type: CashAccount, Role: RoleCashOnHand, System: true})
	if err != nil {
		t.Fatal(err)
	}

	if err := reg.Deactivate(a.ID); !errors.Is(err, ErrProtectedAccount) {
		t.Errorf("Deactivate err = %v, want ErrProtectedAccount", err)
	}
	if err := reg.Rename(a.ID, "Wallet", WalletAccount); !errors.Is(err, ErrProtectedAccount) {
		t.Errorf("type change err = %v, want ErrProtectedAccount", err)
	}
	// Renaming without changing the type is allowed even on system
	// accounts.
	if err := reg.Rename(a.ID, "Petty Cash", CashAccount); err != nil {
		t.Errorf("rename err = %v", err)
	}
	got, err := reg.Get(a.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Name != "Petty Cash" {
		t.Errorf("name = %q", got.Name)
	}
}

func TestAccountsOrdering(t *testing.T) {
	reg := NewRegistry()
	if _, err := reg.Add(Account{Name: "Zeta", Type: Savings, SortOrder: 2}); err != nil {
		t.Fatal(err)
	}
	if _, err := reg.Add(Account{Name: "Alpha", Type: Savings, SortOrder: 2}); err != nil {
		t.Fatal(err)
	}
	first, err := reg.Add(Account{Name: "Main", Type: DailyUse, SortOrder: 1})
	if err != nil {
		t.Fatal(err)
	}
	inactive, err := reg.Add(Account{Name: "Old", Type: Savings, SortOrder: 9})
	if err != nil {
		t.Fatal(err)
	}
	inactive.Active = false
	reg.restore(*inactive)

	got := reg.Accounts()
	if len(got) != 3 {
		t.Fatalf("Accounts() returned %d accounts, want 3 active", len(got))
	}
	if got[0].ID != first.ID || got[1].Name != "Alpha" || got[2].Name != "Zeta" {
		t.Errorf("order = %q, %q, %q", got[0].Name, got[1].Name, got[2].Name)
	}
}

func TestByRole(t *testing.T) {
	reg := NewRegistry()
	if _, err := reg.Add(Account{Name: "PickMe Wallet", Type: WalletAccount, Role: RoleWallet, Provider: "PickMe", System: true}); err != nil {
		t.Fatal(err)
	}
	if _, err := reg.Add(Account{Name: "Uber Wallet", Type: WalletAccount, Role: RoleWallet, Provider: "Uber", System: true}); err != nil {
		t.Fatal(err)
	}

	got, ok := reg.ByRole(RoleWallet, "Uber")
	if !ok || got.Name != "Uber Wallet" {
		t.Errorf("ByRole(wallet, Uber) = %q, %v", got.Name, ok)
	}
	if _, ok := reg.ByRole(RoleWallet, "Bolt"); ok {
		t.Error("ByRole matched a provider with no wallet")
	}
	if _, ok := reg.ByRole(RoleCashOnHand, ""); ok {
		t.Error("ByRole matched a missing role")
	}
}
