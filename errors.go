package finledger

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for user-correctable rejections. Both are reported before
// any balance is mutated.
var (
	// ErrInsufficientBalance is returned when a transfer's source account
	// does not hold amount+fee.
	ErrInsufficientBalance = errors.New("insufficient balance")

	// ErrProtectedAccount is returned on attempts to delete or retype a
	// system account.
	ErrProtectedAccount = errors.New("account is protected")

	// ErrNotFound is returned when a referenced record does not exist.
	ErrNotFound = errors.New("not found")
)

// ValidationError collects missing or invalid fields of a transaction.
// It is reported before mutation and changes nothing.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return "invalid transaction: " + strings.Join(e.Problems, "; ")
}

// validation accumulates field problems so Validate methods can report all
// failures at once.
type validation struct {
	problems []string
}

func (v *validation) requiref(ok bool, format string, args ...any) {
	if !ok {
		v.problems = append(v.problems, fmt.Sprintf(format, args...))
	}
}

func (v *validation) err() error {
	if len(v.problems) == 0 {
		return nil
	}
	return &ValidationError{Problems: v.problems}
}

// PartialApplicationFault reports a batch of balance deltas that committed
// only partially. It is not locally recoverable: retrying could double-apply
// the deltas already committed, so the caller must reconcile manually
// (see Books.Recompute).
type PartialApplicationFault struct {
	Applied DeltaSet // deltas that did commit
	Account AccountID
	Err     error
}

func (f *PartialApplicationFault) Error() string {
	return fmt.Sprintf("partial balance application: %d delta(s) committed before account %s failed: %v",
		len(f.Applied), f.Account, f.Err)
}

func (f *PartialApplicationFault) Unwrap() error { return f.Err }
