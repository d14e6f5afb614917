// Package walleterror defines the error kinds surfaced by wallet operations.
// Callers distinguish them with errors.As.
package walleterror

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// ValidationError reports an input that fails a precondition: non-positive
// amounts, empty categories, malformed registration fields, self-transfers
// or unknown transfer recipients.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("validation failed: %s", e.Reason)
	}
	return fmt.Sprintf("validation failed for %s: %s", e.Field, e.Reason)
}

// NewValidationError is a shorthand used by validators.
func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

// AuthorizationError reports bad credentials, a taken username or a wrong
// current password.
type AuthorizationError struct {
	Username string
	Reason   string
}

func (e *AuthorizationError) Error() string {
	if e.Username == "" {
		return fmt.Sprintf("authorization failed: %s", e.Reason)
	}
	return fmt.Sprintf("authorization failed for user '%s': %s", e.Username, e.Reason)
}

// CategoryNotFoundError reports an operation on a category that has no
// budget or is not known to the ledger.
type CategoryNotFoundError struct {
	Category string
	Reason   string
}

func (e *CategoryNotFoundError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("category not found: '%s'", e.Category)
	}
	return fmt.Sprintf("category not found: '%s' (%s)", e.Category, e.Reason)
}

// InsufficientFundsError reports a transfer larger than the sender balance.
type InsufficientFundsError struct {
	Owner     string
	Balance   decimal.Decimal
	Requested decimal.Decimal
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("insufficient funds for '%s': balance %s, requested %s",
		e.Owner, e.Balance.StringFixed(2), e.Requested.StringFixed(2))
}

// LockTimeoutError reports that a ledger could not be locked before the
// caller's context expired.
type LockTimeoutError struct {
	Owner string
	Err   error
}

func (e *LockTimeoutError) Error() string {
	return fmt.Sprintf("timed out waiting for ledger '%s': %v", e.Owner, e.Err)
}

func (e *LockTimeoutError) Unwrap() error {
	return e.Err
}
