package renderer

import (
	"github.com/chamara/finledger"
)

// LiabilityBoard represents all liabilities with their computed position,
// split into the still-running and the settled ones.
type LiabilityBoard struct {
	Date      finledger.Date  `json:"date"`
	Active    []LiabilityView `json:"active"`
	Completed []LiabilityView `json:"completed"`
}

// LiabilityView is one liability with its status figures ready to print.
type LiabilityView struct {
	Name          string          `json:"name"`
	Category      string          `json:"category"`
	Method        string          `json:"method"`
	Remaining     finledger.Money `json:"remaining"`
	Arrears       finledger.Money `json:"arrears"`
	Advance       finledger.Money `json:"advance"`
	Penalty       finledger.Money `json:"penalty"`
	TotalPaid     finledger.Money `json:"totalPaid"`
	Monthly       finledger.Money `json:"monthly"`
	ProgressPct   float64         `json:"progressPct"`
	InArrears     bool            `json:"inArrears,omitempty"`
	DaysToPayment int             `json:"daysToPayment"`
	MonthsPassed  int             `json:"monthsPassed"`
	MonthsTotal   int             `json:"monthsTotal"`
}

// NewLiabilityBoard computes every liability's position as of the given
// date and builds the board view.
func NewLiabilityBoard(b *finledger.Books, asOf finledger.Date) *LiabilityBoard {
	board := &LiabilityBoard{Date: asOf}
	for _, l := range b.Liabilities() {
		s := finledger.ComputeStatus(l, b.Ledger.PaymentsFor(l.ID), asOf)
		v := LiabilityView{
			Name:          l.Name,
			Category:      l.Category.String(),
			Method:        l.Method.String(),
			Remaining:     s.Remaining,
			Arrears:       s.Arrears,
			Advance:       s.Advance,
			Penalty:       s.Penalty,
			TotalPaid:     s.TotalPaid,
			Monthly:       s.DisplayMonthly,
			ProgressPct:   s.ProgressPct,
			InArrears:     s.Arrears.IsPositive(),
			DaysToPayment: s.DaysUntilPayment,
			MonthsPassed:  s.MonthsPassed,
			MonthsTotal:   s.MonthsTotal,
		}
		if s.Completed() || !l.Active {
			board.Completed = append(board.Completed, v)
		} else {
			board.Active = append(board.Active, v)
		}
	}
	return board
}
