package finledger

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"

	"github.com/shopspring/decimal"
)

func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// The ledger is persisted as JSONL, one transaction per line, with a "kind"
// discriminator first so a reader can tell the lines apart at a glance.
// Monetary values are stored as a plain amount plus an optional currency
// field; a missing currency means the default one.

// amountCmd is a specialized struct to read a ledger amount in two fields.
type amountCmd struct {
	Amount   decimal.Decimal `json:"amount"`
	Currency string          `json:"currency"`
}

func (a amountCmd) Money() Money {
	return M(a.Amount, a.Currency)
}

// MarshalJSON implements the json.Marshaler interface for Expense.
func (t Expense) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("kind", t.Kind())
	w.EmbedFrom(t.baseTx)
	w.Append("category", t.Category)
	w.Append("account", t.Account)
	w.EmbedFrom(t.Amount)
	w.Optional("deferred", t.Deferred)
	return w.MarshalJSON()
}

// MarshalJSON implements the json.Marshaler interface for LiabilityPayment.
func (t LiabilityPayment) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("kind", t.Kind())
	w.EmbedFrom(t.baseTx)
	w.Append("liability", t.Liability)
	w.Append("account", t.Account)
	w.EmbedFrom(t.Amount)
	w.Optional("future", t.Future)
	return w.MarshalJSON()
}

// MarshalJSON implements the json.Marshaler interface for Transfer.
func (t Transfer) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("kind", t.Kind())
	w.EmbedFrom(t.baseTx)
	w.Append("from", t.From)
	w.Append("to", t.To)
	w.EmbedFrom(t.Amount)
	if !t.Fee.IsZero() {
		w.Append("fee", t.Fee.Decimal())
	}
	return w.MarshalJSON()
}

// MarshalJSON implements the json.Marshaler interface for RideSettlement.
// The three monetary values share one optional currency field.
func (t RideSettlement) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("kind", t.Kind())
	w.EmbedFrom(t.baseTx)
	w.Append("provider", t.Provider)
	if c := t.Cash.Currency(); c != "" && c != DefaultCurrency {
		w.Append("currency", c)
	}
	w.Append("cash", t.Cash.Decimal())
	w.Append("wallet", t.Wallet.Decimal())
	w.Append("earning", t.Earning.Decimal())
	if !t.Distance.IsZero() {
		w.Append("distance", t.Distance)
	}
	w.Optional("fuelExpense", t.FuelExpense)
	return w.MarshalJSON()
}

// MarshalJSON implements the json.Marshaler interface for SideIncome.
func (t SideIncome) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("kind", t.Kind())
	w.EmbedFrom(t.baseTx)
	w.Append("category", t.Category)
	w.Optional("client", t.Client)
	w.Append("account", t.Account)
	w.EmbedFrom(t.Amount)
	return w.MarshalJSON()
}

// DecodeLedger decodes transactions from a stream of JSONL data from an
// io.Reader, decodes each line into the appropriate transaction struct, and
// returns a sorted Ledger.
func DecodeLedger(r io.Reader) (*Ledger, error) {
	ledger := NewLedger()
	scanner := bufio.NewScanner(r)

	for scanner.Scan() {
		lineBytes := scanner.Bytes()
		if len(lineBytes) == 0 {
			continue // Skip empty lines
		}

		var identifier struct {
			Kind TxKind `json:"kind"`
		}
		if err := json.Unmarshal(lineBytes, &identifier); err != nil {
			return nil, fmt.Errorf("could not identify kind in line %q: %w", string(lineBytes), err)
		}

		var decodedTx Transaction

		switch identifier.Kind {
		case KindExpense:
			var temp struct {
				baseTx
				amountCmd
				Category string    `json:"category"`
				Account  AccountID `json:"account"`
				Deferred bool      `json:"deferred"`
			}
			if err := json.Unmarshal(lineBytes, &temp); err != nil {
				return nil, err
			}
			decodedTx = Expense{
				baseTx:   temp.baseTx,
				Category: temp.Category,
				Account:  temp.Account,
				Amount:   temp.Money(),
				Deferred: temp.Deferred,
			}
		case KindLiabilityPayment:
			var temp struct {
				baseTx
				amountCmd
				Liability LiabilityID `json:"liability"`
				Account   AccountID   `json:"account"`
				Future    bool        `json:"future"`
			}
			if err := json.Unmarshal(lineBytes, &temp); err != nil {
				return nil, err
			}
			decodedTx = LiabilityPayment{
				baseTx:    temp.baseTx,
				Liability: temp.Liability,
				Account:   temp.Account,
				Amount:    temp.Money(),
				Future:    temp.Future,
			}
		case KindTransfer:
			var temp struct {
				baseTx
				amountCmd
				From AccountID       `json:"from"`
				To   AccountID       `json:"to"`
				Fee  decimal.Decimal `json:"fee"`
			}
			if err := json.Unmarshal(lineBytes, &temp); err != nil {
				return nil, err
			}
			decodedTx = Transfer{
				baseTx: temp.baseTx,
				From:   temp.From,
				To:     temp.To,
				Amount: temp.Money(),
				Fee:    M(temp.Fee, temp.Currency),
			}
		case KindRideSettlement:
			var temp struct {
				baseTx
				Provider    string          `json:"provider"`
				Currency    string          `json:"currency"`
				Cash        decimal.Decimal `json:"cash"`
				Wallet      decimal.Decimal `json:"wallet"`
				Earning     decimal.Decimal `json:"earning"`
				Distance    decimal.Decimal `json:"distance"`
				FuelExpense TxID            `json:"fuelExpense"`
			}
			if err := json.Unmarshal(lineBytes, &temp); err != nil {
				return nil, err
			}
			decodedTx = RideSettlement{
				baseTx:      temp.baseTx,
				Provider:    temp.Provider,
				Cash:        M(temp.Cash, temp.Currency),
				Wallet:      M(temp.Wallet, temp.Currency),
				Earning:     M(temp.Earning, temp.Currency),
				Distance:    temp.Distance,
				FuelExpense: temp.FuelExpense,
			}
		case KindSideIncome:
			var temp struct {
				baseTx
				amountCmd
				Category string    `json:"category"`
				Client   string    `json:"client"`
				Account  AccountID `json:"account"`
			}
			if err := json.Unmarshal(lineBytes, &temp); err != nil {
				return nil, err
			}
			decodedTx = SideIncome{
				baseTx:   temp.baseTx,
				Category: temp.Category,
				Client:   temp.Client,
				Account:  temp.Account,
				Amount:   temp.Money(),
			}
		default:
			return nil, fmt.Errorf("unknown transaction kind: %q", identifier.Kind)
		}

		ledger.Append(decodedTx)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading from input: %w", err)
	}

	// Perform a stable sort on the ledger based on the transaction date.
	ledger.stableSort()

	return ledger, nil
}

// EncodeTransaction marshals a single transaction to JSON and writes it to
// the writer, followed by a newline, in JSONL format.
func EncodeTransaction(w io.Writer, tx Transaction) error {
	data, err := json.Marshal(tx)
	if err != nil {
		return fmt.Errorf("failed to marshal transaction: %w", err)
	}
	if _, err := w.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("failed to write transaction: %w", err)
	}
	return nil
}

// EncodeLedger reorders transactions by date and persists them to an
// io.Writer in JSONL format. The sort is stable, so transactions on the
// same day keep their relative order.
func EncodeLedger(w io.Writer, ledger *Ledger) error {
	ledger.stableSort()
	for _, tx := range ledger.transactions {
		if err := EncodeTransaction(w, tx); err != nil {
			return err
		}
	}
	return nil
}
