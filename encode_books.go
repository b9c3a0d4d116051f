package finledger

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/shopspring/decimal"
)

// A books directory holds three JSONL files, one record per line, so the
// whole thing stays human-readable and diffs cleanly under git.
const (
	accountsFilename     = "accounts.jsonl"
	liabilitiesFilename  = "liabilities.jsonl"
	transactionsFilename = "transactions.jsonl"
)

// jaccount is the object read from the accounts file using the json parser.
type jaccount struct {
	ID        AccountID       `json:"id"`
	Name      string          `json:"name"`
	Type      AccountType     `json:"type"`
	Role      Role            `json:"role,omitempty"`
	Provider  string          `json:"provider,omitempty"`
	Currency  string          `json:"currency,omitempty"`
	Starting  decimal.Decimal `json:"starting"`
	Balance   decimal.Decimal `json:"balance"`
	System    bool            `json:"system,omitempty"`
	Active    bool            `json:"active"`
	SortOrder int             `json:"sortOrder,omitempty"`
}

// jliability is the object read from the liabilities file.
type jliability struct {
	ID             LiabilityID     `json:"id"`
	Name           string          `json:"name"`
	Category       string          `json:"category"`
	Method         string          `json:"method"`
	Currency       string          `json:"currency,omitempty"`
	Principal      decimal.Decimal `json:"principal"`
	MonthlyRate    decimal.Decimal `json:"monthlyRate"`
	MonthlyPayment decimal.Decimal `json:"monthlyPayment"`
	ArrearsSeed    decimal.Decimal `json:"arrearsSeed,omitempty"`
	PaymentDay     int             `json:"paymentDay,omitempty"`
	Start          Date            `json:"start"`
	End            Date            `json:"end,omitzero"`
	Priority       int             `json:"priority,omitempty"`
	Active         bool            `json:"active"`
}

func encodeAccounts(w io.Writer, reg *Registry) error {
	for _, a := range reg.AllAccounts() {
		ja := jaccount{
			ID:        a.ID,
			Name:      a.Name,
			Type:      a.Type,
			Role:      a.Role,
			Provider:  a.Provider,
			Starting:  a.StartingBalance.Decimal(),
			Balance:   a.CurrentBalance.Decimal(),
			System:    a.System,
			Active:    a.Active,
			SortOrder: a.SortOrder,
		}
		if c := a.StartingBalance.Currency(); c != "" && c != DefaultCurrency {
			ja.Currency = c
		}
		data, err := json.Marshal(ja)
		if err != nil {
			return fmt.Errorf("failed to marshal account %q: %w", a.Name, err)
		}
		if _, err := w.Write(append(data, '\n')); err != nil {
			return err
		}
	}
	return nil
}

func decodeAccounts(filename string, r io.Reader, reg *Registry) error {
	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		raw := scanner.Bytes()
		if len(raw) == 0 {
			continue
		}
		var ja jaccount
		if err := json.Unmarshal(raw, &ja); err != nil {
			return fmt.Errorf("format error in %s:%d: %w", filename, line, err)
		}
		reg.restore(Account{
			ID:              ja.ID,
			Name:            ja.Name,
			Type:            ja.Type,
			Role:            ja.Role,
			Provider:        ja.Provider,
			StartingBalance: M(ja.Starting, ja.Currency),
			CurrentBalance:  M(ja.Balance, ja.Currency),
			System:          ja.System,
			Active:          ja.Active,
			SortOrder:       ja.SortOrder,
		})
	}
	return scanner.Err()
}

func encodeLiabilities(w io.Writer, b *Books) error {
	for _, l := range b.Liabilities() {
		jl := jliability{
			ID:             l.ID,
			Name:           l.Name,
			Category:       l.Category.String(),
			Method:         l.Method.String(),
			Principal:      l.Principal.Decimal(),
			MonthlyRate:    l.MonthlyRate,
			MonthlyPayment: l.MonthlyPayment.Decimal(),
			ArrearsSeed:    l.ArrearsSeed.Decimal(),
			PaymentDay:     l.PaymentDay,
			Start:          l.Start,
			End:            l.End,
			Priority:       l.Priority,
			Active:         l.Active,
		}
		if c := l.Principal.Currency(); c != "" && c != DefaultCurrency {
			jl.Currency = c
		}
		data, err := json.Marshal(jl)
		if err != nil {
			return fmt.Errorf("failed to marshal liability %q: %w", l.Name, err)
		}
		if _, err := w.Write(append(data, '\n')); err != nil {
			return err
		}
	}
	return nil
}

func decodeLiabilities(filename string, r io.Reader, b *Books) error {
	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		raw := scanner.Bytes()
		if len(raw) == 0 {
			continue
		}
		var jl jliability
		if err := json.Unmarshal(raw, &jl); err != nil {
			return fmt.Errorf("format error in %s:%d: %w", filename, line, err)
		}
		category, err := ParseLiabilityCategory(jl.Category)
		if err != nil {
			return fmt.Errorf("format error in %s:%d: %w", filename, line, err)
		}
		method, err := ParseInterestMethod(jl.Method)
		if err != nil {
			return fmt.Errorf("format error in %s:%d: %w", filename, line, err)
		}
		b.restoreLiability(Liability{
			ID:             jl.ID,
			Name:           jl.Name,
			Category:       category,
			Method:         method,
			Principal:      M(jl.Principal, jl.Currency),
			MonthlyRate:    jl.MonthlyRate,
			MonthlyPayment: M(jl.MonthlyPayment, jl.Currency),
			ArrearsSeed:    M(jl.ArrearsSeed, jl.Currency),
			PaymentDay:     jl.PaymentDay,
			Start:          jl.Start,
			End:            jl.End,
			Priority:       jl.Priority,
			Active:         jl.Active,
		})
	}
	return scanner.Err()
}

// SaveBooks persists the whole books to a directory, one JSONL file each
// for accounts, liabilities and transactions. The directory is created if
// missing. Files are rewritten whole; the records are small enough that
// canonical-order rewrites beat appends for diffability.
func SaveBooks(dir string, b *Books) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("could not create books directory %q: %w", dir, err)
	}

	write := func(name string, fn func(io.Writer) error) error {
		path := filepath.Join(dir, name)
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("error opening %q for writing: %w", path, err)
		}
		if err := fn(f); err != nil {
			f.Close()
			return err
		}
		return f.Close()
	}

	if err := write(accountsFilename, func(w io.Writer) error { return encodeAccounts(w, b.Registry) }); err != nil {
		return err
	}
	if err := write(liabilitiesFilename, func(w io.Writer) error { return encodeLiabilities(w, b) }); err != nil {
		return err
	}
	return write(transactionsFilename, func(w io.Writer) error { return EncodeLedger(w, b.Ledger) })
}

// LoadBooks reads a books directory back. A missing directory or missing
// files yield empty books, so the first run needs no init step.
func LoadBooks(dir string) (*Books, error) {
	b := NewBooks()

	load := func(name string, fn func(string, io.Reader) error) error {
		path := filepath.Join(dir, name)
		f, err := os.Open(path)
		if os.IsNotExist(err) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("could not open %q: %w", path, err)
		}
		defer f.Close()
		return fn(path, f)
	}

	if err := load(accountsFilename, func(p string, r io.Reader) error { return decodeAccounts(p, r, b.Registry) }); err != nil {
		return nil, err
	}
	if err := load(liabilitiesFilename, func(p string, r io.Reader) error { return decodeLiabilities(p, r, b) }); err != nil {
		return nil, err
	}
	if err := load(transactionsFilename, func(p string, r io.Reader) error {
		ledger, err := DecodeLedger(r)
		if err != nil {
			return fmt.Errorf("could not decode %q: %w", p, err)
		}
		b.Ledger = ledger
		return nil
	}); err != nil {
		return nil, err
	}
	return b, nil
}
