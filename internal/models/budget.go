package models

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Budget is a spending cap for one category. CurrentSpending is a counter
// fed by expense transactions; it is not recomputed from the log.
type Budget struct {
	Category         string          `json:"category" yaml:"category"`
	Limit            decimal.Decimal `json:"limit" yaml:"limit"`
	CurrentSpending  decimal.Decimal `json:"current_spending" yaml:"current_spending"`
	WarningThreshold decimal.Decimal `json:"warning_threshold" yaml:"warning_threshold"`
}

// NewBudget returns a budget with zero spending. A non-positive threshold
// falls back to DefaultWarningThreshold.
func NewBudget(category string, limit, warningThreshold decimal.Decimal) Budget {
	if !warningThreshold.IsPositive() {
		warningThreshold = DefaultWarningThreshold
	}
	return Budget{
		Category:         category,
		Limit:            RoundAmount(limit),
		CurrentSpending:  decimal.Zero,
		WarningThreshold: warningThreshold,
	}
}

func (b Budget) String() string {
	return fmt.Sprintf("budget '%s': limit=%s, spent=%s, remaining=%s",
		b.Category, FormatAmount(b.Limit), FormatAmount(b.CurrentSpending),
		FormatAmount(b.Limit.Sub(b.CurrentSpending)))
}
