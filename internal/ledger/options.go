package ledger

import (
	"fjacquet/finance-manager/internal/logging"

	"github.com/shopspring/decimal"
)

// Option configures a Ledger at construction time.
type Option func(*Ledger)

// WithLogger sets the logger used for ledger events.
func WithLogger(logger logging.Logger) Option {
	return func(l *Ledger) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// WithWarningThreshold sets the warning ratio given to new budgets.
func WithWarningThreshold(threshold decimal.Decimal) Option {
	return func(l *Ledger) {
		if threshold.IsPositive() {
			l.warningThreshold = threshold
		}
	}
}

// WithResetOnSet controls SetBudget. When true (the default) a re-set
// budget starts from zero spending; when false its spending is seeded from
// the expenses already logged in the category.
func WithResetOnSet(reset bool) Option {
	return func(l *Ledger) {
		l.resetOnSet = reset
	}
}

// WithRecomputeOnRemove controls RemoveTransaction. When false (the
// default) removing an expense leaves its budget's spending untouched;
// when true the removed amount is subtracted from the budget.
func WithRecomputeOnRemove(recompute bool) Option {
	return func(l *Ledger) {
		l.recomputeOnRemove = recompute
	}
}

// WithCategories replaces the default category set registered by New.
func WithCategories(categories []string) Option {
	return func(l *Ledger) {
		l.initialCategories = append([]string(nil), categories...)
		l.customCategories = true
	}
}
