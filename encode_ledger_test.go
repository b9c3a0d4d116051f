package finledger

import (
	"bytes"
	"reflect"
	"strings"
	"testing"
	"time"
)

func TestDecodeLedger(t *testing.T) {
	// A multi-line string representing a JSONL stream with all record kinds.
	jsonlStream := `
{"kind":"expense","id":"e1","date":"2025-08-01","category":"groceries","account":"a1","amount":450.50}
{"kind":"payment","id":"p1","date":"2025-08-02","liability":"l1","account":"a1","amount":5000}
{"kind":"transfer","id":"t1","date":"2025-08-03","from":"a1","to":"a2","amount":1000,"fee":20}
{"kind":"ride","id":"r1","date":"2025-08-04","provider":"PickMe","cash":2500,"wallet":800,"earning":4200}
{"kind":"side-income","id":"s1","date":"2025-08-05","category":"freelance","account":"a2","amount":15000,"currency":"USD"}
`
	ledger, err := DecodeLedger(strings.NewReader(jsonlStream))
	if err != nil {
		t.Fatalf("DecodeLedger() returned an unexpected error: %v", err)
	}
	if ledger.Len() != 5 {
		t.Fatalf("DecodeLedger() decoded %d transactions, want 5", ledger.Len())
	}

	expectedTypes := []reflect.Type{
		reflect.TypeOf(Expense{}),
		reflect.TypeOf(LiabilityPayment{}),
		reflect.TypeOf(Transfer{}),
		reflect.TypeOf(RideSettlement{}),
		reflect.TypeOf(SideIncome{}),
	}
	i := 0
	for tx := range ledger.All() {
		if reflect.TypeOf(tx) != expectedTypes[i] {
			t.Errorf("transaction %d has type %T, want %v", i, tx, expectedTypes[i])
		}
		i++
	}

	tx, err := ledger.Get("t1")
	if err != nil {
		t.Fatal(err)
	}
	tr := tx.(Transfer)
	approx(t, "transfer outflow", tr.Outflow(), 1020, 0)

	tx, err = ledger.Get("s1")
	if err != nil {
		t.Fatal(err)
	}
	if c := tx.(SideIncome).Amount.Currency(); c != "USD" {
		t.Errorf("side income currency = %q, want USD", c)
	}
}

func TestDecodeLedgerUnknownKind(t *testing.T) {
	_, err := DecodeLedger(strings.NewReader(`{"kind":"dividend","date":"2025-08-01"}`))
	if err == nil {
		t.Fatal("DecodeLedger accepted an unknown kind")
	}
}

func TestEncodeDecodeLedgerRoundTrip(t *testing.T) {
	day := NewDate(2025, time.August, 10)
	e := NewExpense(day, "fuel", "a1", LKR(3200), "octane 92")
	e.Deferred = true
	p := NewLiabilityPayment(day.Add(1), "l1", "a1", LKR(5000), "")
	tr := NewTransfer(day.Add(2), "a1", "a2", LKR(1000), LKR(20), "")
	s := NewRideSettlement(day.Add(3), "PickMe", LKR(2500), LKR(800), LKR(4200))
	s.Distance = dec(112.5)
	s.FuelExpense = e.TxID
	si := NewSideIncome(day.Add(4), "freelance", "ACME", "a2", LKR(15000), "")

	ledger := NewLedger()
	ledger.Append(e, p, tr, s, si)

	var buf bytes.Buffer
	if err := EncodeLedger(&buf, ledger); err != nil {
		t.Fatal(err)
	}

	decoded, err := DecodeLedger(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if decoded.Len() != 5 {
		t.Fatalf("decoded %d transactions, want 5", decoded.Len())
	}

	got, err := decoded.Get(e.TxID)
	if err != nil {
		t.Fatal(err)
	}
	ge := got.(Expense)
	if !ge.Deferred || ge.Category != "fuel" || ge.Note != "octane 92" || !ge.Amount.EqualValue(LKR(3200)) {
		t.Errorf("expense round trip mismatch: %+v", ge)
	}

	got, err = decoded.Get(s.TxID)
	if err != nil {
		t.Fatal(err)
	}
	gs := got.(RideSettlement)
	if gs.Provider != "PickMe" || gs.FuelExpense != e.TxID || !gs.Distance.Equal(s.Distance) {
		t.Errorf("ride round trip mismatch: %+v", gs)
	}
	approx(t, "ride wallet", gs.Wallet, 800, 0)

	got, err = decoded.Get(tr.TxID)
	if err != nil {
		t.Fatal(err)
	}
	approx(t, "transfer fee", got.(Transfer).Fee, 20, 0)
}

func TestEncodeTransactionKindFirst(t *testing.T) {
	var buf bytes.Buffer
	if err := EncodeTransaction(&buf, NewExpense(NewDate(2025, time.August, 1), "groceries", "a1", LKR(450), "")); err != nil {
		t.Fatal(err)
	}
	line := buf.String()
	if !strings.HasPrefix(line, `{"kind":"expense",`) {
		t.Errorf("encoded line does not start with the kind discriminator: %s", line)
	}
	if strings.Contains(line, `"deferred"`) {
		t.Errorf("zero deferred flag should be omitted: %s", line)
	}
}
