// Package budget holds the pure evaluation rules for a models.Budget.
// Nothing here mutates a ledger; functions that "change" a budget return
// the updated value.
package budget

import (
	"fjacquet/finance-manager/internal/models"

	"github.com/shopspring/decimal"
)

// Status summarises a budget's position against its limit.
type Status string

const (
	StatusOK       Status = "OK"
	StatusWarning  Status = "WARNING"
	StatusExceeded Status = "EXCEEDED"
)

var hundred = decimal.NewFromInt(100)

// Remaining is limit minus spending; negative once the budget is exceeded.
func Remaining(b models.Budget) decimal.Decimal {
	return b.Limit.Sub(b.CurrentSpending)
}

// IsExceeded reports spending strictly above the limit.
func IsExceeded(b models.Budget) bool {
	return b.CurrentSpending.GreaterThan(b.Limit)
}

// IsWarning reports spending at or above limit*threshold that has not yet
// exceeded the limit.
func IsWarning(b models.Budget) bool {
	return b.CurrentSpending.GreaterThanOrEqual(b.Limit.Mul(threshold(b))) && !IsExceeded(b)
}

// Overage is how far spending is above the limit, zero otherwise.
func Overage(b models.Budget) decimal.Decimal {
	if !IsExceeded(b) {
		return decimal.Zero
	}
	return Remaining(b).Abs()
}

// PercentUsed is spending as a percentage of the limit. A zero limit
// yields zero.
func PercentUsed(b models.Budget) decimal.Decimal {
	if b.Limit.IsZero() {
		return decimal.Zero
	}
	return b.CurrentSpending.Div(b.Limit).Mul(hundred)
}

// Evaluate returns the budget's status; at most one of warning/exceeded
// applies.
func Evaluate(b models.Budget) Status {
	switch {
	case IsExceeded(b):
		return StatusExceeded
	case IsWarning(b):
		return StatusWarning
	default:
		return StatusOK
	}
}

// AddSpending returns b with amount added to its spending.
func AddSpending(b models.Budget, amount decimal.Decimal) models.Budget {
	b.CurrentSpending = b.CurrentSpending.Add(amount)
	return b
}

// SubtractSpending returns b with amount removed from its spending,
// floored at zero.
func SubtractSpending(b models.Budget, amount decimal.Decimal) models.Budget {
	b.CurrentSpending = decimal.Max(b.CurrentSpending.Sub(amount), decimal.Zero)
	return b
}

// Reset returns b with spending cleared.
func Reset(b models.Budget) models.Budget {
	b.CurrentSpending = decimal.Zero
	return b
}

func threshold(b models.Budget) decimal.Decimal {
	if b.WarningThreshold.IsPositive() {
		return b.WarningThreshold
	}
	return models.DefaultWarningThreshold
}
