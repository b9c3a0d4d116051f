package finledger

import (
	"math"
	"testing"

	"github.com/shopspring/decimal"
)

// NO is a helper for tests to create money from const with no currency set.
func NO(v float64) Money { return M(v, "") }

// dec is a helper for tests to create a decimal rate from const.
func dec(v float64) decimal.Decimal { return decimal.NewFromFloat(v) }

// approx fails unless the money value is within tol of want.
func approx(t *testing.T, name string, got Money, want, tol float64) {
	t.Helper()
	if diff := math.Abs(got.InexactFloat64() - want); diff > tol {
		t.Errorf("%s = %v, want %v (±%v)", name, got.InexactFloat64(), want, tol)
	}
}

// testBooks builds books with the account shapes most scenarios need: a
// spending account, a cash-on-hand account and one provider wallet.
func testBooks(t *testing.T) (*Books, *Account, *Account, *Account) {
	t.Helper()
	b := NewBooks()
	daily, err := b.Registry.Add(Account{Name: "People's Bank", Type: DailyUse, StartingBalance: LKR(1000)})
	if err != nil {
		t.Fatal(err)
	}
	cash, err := b.Registry.Add(Account{Name: "Cash In Hand", Type: CashAccount, Role: RoleCashOnHand, System: true})
	if err != nil {
		t.Fatal(err)
	}
	wallet, err := b.Registry.Add(Account{Name: "PickMe Wallet", Type: WalletAccount, Role: RoleWallet, Provider: "PickMe", System: true})
	if err != nil {
		t.Fatal(err)
	}
	return b, daily, cash, wallet
}

func balance(t *testing.T, b *Books, id AccountID) Money {
	t.Helper()
	a, err := b.Registry.Get(id)
	if err != nil {
		t.Fatal(err)
	}
	return a.CurrentBalance
}
