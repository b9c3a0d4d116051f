package renderer

import (
	"fmt"
	"strings"

	"github.com/chamara/finledger"
)

// AccountsMarkdown generates a markdown table of every active account and
// the headline totals.
func AccountsMarkdown(b *finledger.Books) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "# Accounts on %s\n\n", finledger.Today())
	fmt.Fprintf(&sb, "| Account | Type | Balance |\n")
	fmt.Fprintf(&sb, "|---|---|---:|\n")
	for _, a := range b.Registry.Accounts() {
		name := a.Name
		if a.System {
			name += " *"
		}
		fmt.Fprintf(&sb, "| %s | %s | %s |\n", name, a.Type, b.EffectiveBalance(a))
	}

	s := b.Summarize()
	fmt.Fprintf(&sb, "\n## Summary\n\n")
	fmt.Fprintf(&sb, "- Total Assets: %s\n", s.TotalAssets)
	fmt.Fprintf(&sb, "- Liabilities: %s\n", s.Liabilities)
	fmt.Fprintf(&sb, "- Net Worth: %s\n", s.NetWorth)

	return sb.String()
}

// DriftMarkdown generates the reconciliation report: one line per account
// whose cached balance disagrees with its derived balance.
func DriftMarkdown(drifts []finledger.Drift) string {
	if len(drifts) == 0 {
		return "No drift detected: cached balances match their transaction history.\n"
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "# Balance Drift\n\n")
	fmt.Fprintf(&sb, "| Account | Cached | Derived | Delta |\n")
	fmt.Fprintf(&sb, "|---|---:|---:|---:|\n")
	for _, d := range drifts {
		fmt.Fprintf(&sb, "| %s | %s | %s | %s |\n", d.Name, d.Cached, d.Derived, d.Delta().SignedString())
	}
	sb.WriteString("\nCached balances are never auto-repaired; review the history before adjusting.\n")
	return sb.String()
}
