package renderer

import (
	"github.com/chamara/finledger"
)

// Statement represents the statement data handed to the template.
// Monetary values keep their exact types so the template can use their own
// formatting (String, SignedString).
type Statement struct {
	// Account is the display name of the account.
	Account string `json:"account"`
	// Type is the account classification label.
	Type string `json:"type"`
	// StartingBalance is the opening balance the running column is seeded from.
	StartingBalance finledger.Money `json:"startingBalance"`
	// FinalBalance is the running balance after the newest row.
	FinalBalance finledger.Money `json:"finalBalance"`
	// Rows are the statement lines, newest first.
	Rows []StatementRow `json:"rows"`
}

// StatementRow is one line of the rendered statement.
type StatementRow struct {
	Date        finledger.Date  `json:"date"`
	Description string          `json:"description"`
	Amount      finledger.Money `json:"amount"`
	Running     finledger.Money `json:"running"`
	Deferred    bool            `json:"deferred,omitempty"`
}

// NewStatement builds the statement view from the computed statement.
func NewStatement(s finledger.Statement) *Statement {
	v := &Statement{
		Account:         s.Account.Name,
		Type:            s.Account.Type.String(),
		StartingBalance: s.Account.StartingBalance,
		FinalBalance:    s.FinalBalance(),
		Rows:            make([]StatementRow, 0, len(s.Rows)),
	}
	for _, r := range s.Rows {
		v.Rows = append(v.Rows, StatementRow{
			Date:        r.Date,
			Description: r.Description,
			Amount:      r.Amount,
			Running:     r.Running,
			Deferred:    r.Deferred,
		})
	}
	return v
}
