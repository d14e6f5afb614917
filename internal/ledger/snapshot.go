package ledger

import (
	"fjacquet/finance-manager/internal/models"

	"github.com/shopspring/decimal"
)

// Snapshot is a consistent, detached copy of a ledger. Readers such as the
// statistics aggregator and the alert evaluator work on snapshots so they
// hold the ledger lock only for the copy.
type Snapshot struct {
	Owner        string               `json:"owner" yaml:"owner"`
	Transactions []models.Transaction `json:"transactions" yaml:"transactions"`
	Budgets      []models.Budget      `json:"budgets" yaml:"budgets"`
	Categories   []string             `json:"categories" yaml:"categories"`
}

// Snapshot copies the ledger state under the lock.
func (l *Ledger) Snapshot() Snapshot {
	l.lock()
	defer l.unlock()
	return Snapshot{
		Owner:        l.owner,
		Transactions: append([]models.Transaction(nil), l.transactions...),
		Budgets:      l.sortedBudgetsLocked(),
		Categories:   l.sortedCategoriesLocked(),
	}
}

// FromSnapshot rebuilds a ledger from persisted state. Budgets keep their
// recorded spending, and categories are taken as-is without defaults.
func FromSnapshot(s Snapshot, opts ...Option) *Ledger {
	l := newLedger(s.Owner, opts...)
	l.transactions = append([]models.Transaction(nil), s.Transactions...)
	for _, c := range s.Categories {
		l.categories[c] = struct{}{}
	}
	for _, tx := range s.Transactions {
		l.categories[tx.Category] = struct{}{}
	}
	for _, b := range s.Budgets {
		if !b.WarningThreshold.IsPositive() {
			b.WarningThreshold = l.warningThreshold
		}
		l.budgets[b.Category] = b
		l.categories[b.Category] = struct{}{}
	}
	return l
}

// Balance is income minus expenses over the snapshot's log.
func (s Snapshot) Balance() decimal.Decimal {
	income, expenses := Totals(s.Transactions)
	return income.Sub(expenses)
}

// TotalIncome sums the snapshot's income entries.
func (s Snapshot) TotalIncome() decimal.Decimal {
	income, _ := Totals(s.Transactions)
	return income
}

// TotalExpenses sums the snapshot's expense entries.
func (s Snapshot) TotalExpenses() decimal.Decimal {
	_, expenses := Totals(s.Transactions)
	return expenses
}

// Budget looks a budget up by category.
func (s Snapshot) Budget(category string) (models.Budget, bool) {
	for _, b := range s.Budgets {
		if b.Category == category {
			return b, true
		}
	}
	return models.Budget{}, false
}

// HasCategory reports whether category was known when the snapshot was taken.
func (s Snapshot) HasCategory(category string) bool {
	for _, c := range s.Categories {
		if c == category {
			return true
		}
	}
	return false
}
