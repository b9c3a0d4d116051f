package finledger

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// AccountID identifies an account record.
type AccountID string

// NewAccountID returns a fresh unique account identifier.
func NewAccountID() AccountID { return AccountID(uuid.NewString()) }

// AccountType classifies an account.
type AccountType int

const (
	DailyUse AccountType = iota
	Savings
	LiabilityAccount
	Emergency
	WalletAccount
	CashAccount
)

func (t AccountType) String() string {
	switch t {
	case DailyUse:
		return "daily-use"
	case Savings:
		return "savings"
	case LiabilityAccount:
		return "liability"
	case Emergency:
		return "emergency"
	case WalletAccount:
		return "wallet"
	case CashAccount:
		return "cash"
	default:
		return "unknown"
	}
}

// ParseAccountType parses a string into an AccountType.
func ParseAccountType(s string) (AccountType, error) {
	switch s {
	case "daily-use":
		return DailyUse, nil
	case "savings":
		return Savings, nil
	case "liability":
		return LiabilityAccount, nil
	case "emergency":
		return Emergency, nil
	case "wallet":
		return WalletAccount, nil
	case "cash":
		return CashAccount, nil
	default:
		return 0, fmt.Errorf("unknown account type: %q", s)
	}
}

func (t AccountType) MarshalJSON() ([]byte, error) {
	return []byte(`"` + t.String() + `"`), nil
}

func (t *AccountType) UnmarshalJSON(b []byte) error {
	s := string(b)
	if len(s) >= 2 && s[0] == '"' {
		s = s[1 : len(s)-1]
	}
	parsed, err := ParseAccountType(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// Role tags the business function of a system account. Settlement effects
// resolve their target accounts through roles, not display names, so a
// renamed account keeps receiving its deltas.
type Role string

const (
	// RoleNone marks an ordinary account with no settlement role.
	RoleNone Role = ""
	// RoleCashOnHand receives the cash leg of ride settlements.
	RoleCashOnHand Role = "cash-on-hand"
	// RoleWallet receives the wallet leg of ride settlements for the
	// provider named on the account.
	RoleWallet Role = "wallet"
)

// Account is a named financial holding with a cached balance.
//
// CurrentBalance is derived state: starting balance plus the signed amounts
// of every non-deferred transaction referencing the account, maintained
// incrementally by the Recorder rather than re-derived on read. The cache
// can drift after a partial batch failure; Books.Recompute detects that.
type Account struct {
	ID              AccountID   `json:"id"`
	Name            string      `json:"name"`
	Type            AccountType `json:"type"`
	Role            Role        `json:"role,omitempty"`
	Provider        string      `json:"provider,omitempty"` // set when Role == RoleWallet
	StartingBalance Money       `json:"-"`
	CurrentBalance  Money       `json:"-"`
	System          bool        `json:"system,omitempty"`
	Active          bool        `json:"active"`
	SortOrder       int         `json:"sortOrder"`
}

// Registry holds the account records and serializes balance mutation.
//
// Serialization is per-process only: there is no version field on Account,
// so two processes sharing one books directory can still lose an update to
// each other. This is a documented hazard, not a solved one.
type Registry struct {
	mu       sync.Mutex
	accounts map[AccountID]*Account
}

// NewRegistry creates an empty account registry.
func NewRegistry() *Registry {
	return &Registry{accounts: make(map[AccountID]*Account)}
}

// Add registers a new account. A fresh account's current balance equals its
// starting balance.
func (r *Registry) Add(a Account) (*Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if a.Name == "" {
		return nil, &ValidationError{Problems: []string{"account name is missing"}}
	}
	if a.ID == "" {
		a.ID = NewAccountID()
	}
	if _, exists := r.accounts[a.ID]; exists {
		return nil, fmt.Errorf("account %s already registered", a.ID)
	}
	a.CurrentBalance = a.StartingBalance
	a.Active = true
	if a.SortOrder == 0 {
		a.SortOrder = len(r.accounts) + 1
	}
	r.accounts[a.ID] = &a
	return &a, nil
}

// restore puts an already-materialized account record back into the
// registry without resetting its cached balance. Used by the books loader.
func (r *Registry) restore(a Account) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.accounts[a.ID] = &a
}

// Get returns a copy of the account, or an error if unknown.
func (r *Registry) Get(id AccountID) (Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.accounts[id]
	if !ok {
		return Account{}, fmt.Errorf("account %s: %w", id, ErrNotFound)
	}
	return *a, nil
}

// ByRole resolves the single account carrying the given role. For
// RoleWallet, provider selects among wallet accounts.
func (r *Registry) ByRole(role Role, provider string) (Account, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.accounts {
		if a.Role != role {
			continue
		}
		if role == RoleWallet && a.Provider != provider {
			continue
		}
		return *a, true
	}
	return Account{}, false
}

// ByName resolves an active account by its display name, case-insensitively.
func (r *Registry) ByName(name string) (Account, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.accounts {
		if a.Active && strings.EqualFold(a.Name, name) {
			return *a, true
		}
	}
	return Account{}, false
}

// Accounts returns active accounts ordered by sort order then name.
func (r *Registry) Accounts() []Account {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Account, 0, len(r.accounts))
	for _, a := range r.accounts {
		if a.Active {
			out = append(out, *a)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].SortOrder != out[j].SortOrder {
			return out[i].SortOrder < out[j].SortOrder
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// AllAccounts returns every account including deactivated ones, which stay
// referenced by historical transactions.
func (r *Registry) AllAccounts() []Account {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Account, 0, len(r.accounts))
	for _, a := range r.accounts {
		out = append(out, *a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SortOrder < out[j].SortOrder })
	return out
}

// ApplyDelta adds a signed amount to the account's cached balance.
func (r *Registry) ApplyDelta(id AccountID, delta Money) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.accounts[id]
	if !ok {
		return fmt.Errorf("account %s: %w", id, ErrNotFound)
	}
	a.CurrentBalance = a.CurrentBalance.Add(delta)
	return nil
}

// AdjustOpeningBalance shifts both starting and current balance by
// new-old, keeping every historical transaction delta valid without
// re-derivation.
func (r *Registry) AdjustOpeningBalance(id AccountID, newStarting Money) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.accounts[id]
	if !ok {
		return fmt.Errorf("account %s: %w", id, ErrNotFound)
	}
	delta := newStarting.Sub(a.StartingBalance)
	a.StartingBalance = newStarting
	a.CurrentBalance = a.CurrentBalance.Add(delta)
	return nil
}

// Rename updates an account's display name and type. System accounts accept
// a new name but reject a type change.
func (r *Registry) Rename(id AccountID, name string, typ AccountType) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.accounts[id]
	if !ok {
		return fmt.Errorf("account %s: %w", id, ErrNotFound)
	}
	if a.System && typ != a.Type {
		return fmt.Errorf("cannot retype system account %q: %w", a.Name, ErrProtectedAccount)
	}
	if name != "" {
		a.Name = name
	}
	a.Type = typ
	return nil
}

// Deactivate soft-deletes an account. Balances are untouched and the record
// is never physically removed. System accounts reject deactivation.
func (r *Registry) Deactivate(id AccountID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.accounts[id]
	if !ok {
		return fmt.Errorf("account %s: %w", id, ErrNotFound)
	}
	if a.System {
		return fmt.Errorf("cannot delete system account %q: %w", a.Name, ErrProtectedAccount)
	}
	a.Active = false
	return nil
}
