// Package finledger implements the core of a single-entry personal finance
// tracker: named accounts carrying a cached balance, a ledger of
// heterogeneous transactions whose lifecycle events apply signed deltas to
// those balances, chronological account statements with running balances,
// and liability amortization under several interest models.
//
// The package is a library boundary. It defines no wire protocol; a thin
// CLI in cmd/ drives it against a local books directory.
package finledger
