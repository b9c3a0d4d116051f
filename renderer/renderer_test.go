package renderer

import (
	"strings"
	"testing"
	"time"

	"github.com/chamara/finledger"
	"github.com/rs/zerolog"
)

func testBooks(t *testing.T) (*finledger.Books, finledger.AccountID) {
	t.Helper()
	b := finledger.NewBooks()
	daily, err := b.Registry.Add(finledger.Account{Name: "People's Bank", Type: finledger.DailyUse, StartingBalance: finledger.LKR(1000)})
	if err != nil {
		t.Fatal(err)
	}
	return b, daily.ID
}

func TestRenderStatement(t *testing.T) {
	b, daily := testBooks(t)
	r := finledger.NewRecorder(b, zerolog.Nop())
	if _, err := r.AddExpense(finledger.NewExpense(finledger.Today(), "groceries", daily, finledger.LKR(200), "keells")); err != nil {
		t.Fatal(err)
	}

	s, err := finledger.BuildStatement(b, daily)
	if err != nil {
		t.Fatal(err)
	}
	got := RenderStatement(NewStatement(s))

	for _, want := range []string{
		"# Statement: People's Bank (daily-use)",
		"groceries - keells",
		"| Date | Description | Amount | Balance |",
		"**Final Balance: ",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("statement missing %q:\n%s", want, got)
		}
	}
	if strings.Contains(got, "error") {
		t.Errorf("template error leaked into output:\n%s", got)
	}
}

func TestRenderStatementEmpty(t *testing.T) {
	b, daily := testBooks(t)
	s, err := finledger.BuildStatement(b, daily)
	if err != nil {
		t.Fatal(err)
	}
	got := RenderStatement(NewStatement(s))
	if !strings.Contains(got, "_No transactions recorded._") {
		t.Errorf("empty statement not handled:\n%s", got)
	}
}

func TestRenderLiabilities(t *testing.T) {
	b, _ := testBooks(t)
	l := finledger.NewLiability("Bike Finance", finledger.BikeFinance, finledger.MethodFlat,
		finledger.LKR(150000), finledger.LKR(2).Decimal(), finledger.LKR(5000), finledger.NewDate(2025, time.January, 10))
	if _, err := b.AddLiability(l); err != nil {
		t.Fatal(err)
	}

	got := RenderLiabilities(NewLiabilityBoard(b, finledger.NewDate(2025, time.March, 20)))

	for _, want := range []string{
		"## Outstanding",
		"### Bike Finance (finance, flat)",
		"late fee",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("liability board missing %q:\n%s", want, got)
		}
	}
}

func TestAccountsMarkdown(t *testing.T) {
	b, _ := testBooks(t)
	got := AccountsMarkdown(b)
	for _, want := range []string{"| Account | Type | Balance |", "People's Bank", "Net Worth"} {
		if !strings.Contains(got, want) {
			t.Errorf("accounts report missing %q:\n%s", want, got)
		}
	}
}

func TestDriftMarkdown(t *testing.T) {
	if got := DriftMarkdown(nil); !strings.Contains(got, "No drift") {
		t.Errorf("clean report = %q", got)
	}
	drifts := []finledger.Drift{{Name: "People's Bank", Cached: finledger.LKR(900), Derived: finledger.LKR(800)}}
	got := DriftMarkdown(drifts)
	if !strings.Contains(got, "People's Bank") || !strings.Contains(got, "never auto-repaired") {
		t.Errorf("drift report:\n%s", got)
	}
}
