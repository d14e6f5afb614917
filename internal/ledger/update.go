package ledger

import (
	"context"

	"fjacquet/finance-manager/internal/models"
	"fjacquet/finance-manager/internal/walleterror"

	"github.com/shopspring/decimal"
)

// Tx is the write surface of a ledger whose lock is held by Update or
// UpdatePair. It must not be retained after the callback returns.
type Tx struct {
	l *Ledger
}

// Owner returns the owning username.
func (t *Tx) Owner() string {
	return t.l.owner
}

// Balance returns the current balance, including entries added through t.
func (t *Tx) Balance() decimal.Decimal {
	return t.l.balanceLocked()
}

// AddTransaction behaves like Ledger.AddTransaction.
func (t *Tx) AddTransaction(tx models.Transaction) {
	t.l.addTransactionLocked(tx)
}

// ImportBudget behaves like Ledger.ImportBudget.
func (t *Tx) ImportBudget(category string, limit, spent decimal.Decimal) error {
	if err := validateImportedBudget(category, limit, spent); err != nil {
		return err
	}
	t.l.importBudgetLocked(category, limit, spent)
	return nil
}

// checkpoint captures what a Tx callback may change so it can be undone.
type checkpoint struct {
	txCount    int
	budgets    map[string]models.Budget
	categories map[string]struct{}
}

func (l *Ledger) checkpointLocked() checkpoint {
	cp := checkpoint{
		txCount:    len(l.transactions),
		budgets:    make(map[string]models.Budget, len(l.budgets)),
		categories: make(map[string]struct{}, len(l.categories)),
	}
	for k, v := range l.budgets {
		cp.budgets[k] = v
	}
	for k := range l.categories {
		cp.categories[k] = struct{}{}
	}
	return cp
}

func (l *Ledger) rollbackLocked(cp checkpoint) {
	l.transactions = l.transactions[:cp.txCount:cp.txCount]
	l.budgets = cp.budgets
	l.categories = cp.categories
}

// Update runs fn with the ledger locked. Lock acquisition is bounded by
// ctx. If fn returns an error every change it made is rolled back.
func (l *Ledger) Update(ctx context.Context, fn func(tx *Tx) error) error {
	if err := l.lockContext(ctx); err != nil {
		return err
	}
	defer l.unlock()

	cp := l.checkpointLocked()
	if err := fn(&Tx{l: l}); err != nil {
		l.rollbackLocked(cp)
		return err
	}
	return nil
}

// UpdatePair locks two distinct ledgers in owner order and runs fn with
// both held, so no reader can observe one side changed without the other.
// If fn returns an error both ledgers are rolled back.
func UpdatePair(ctx context.Context, a, b *Ledger, fn func(ta, tb *Tx) error) error {
	if a == nil || b == nil {
		return walleterror.NewValidationError("ledger", "both ledgers are required")
	}
	if a == b || a.owner == b.owner {
		return walleterror.NewValidationError("ledger", "ledgers must belong to different owners")
	}

	first, second := a, b
	if second.owner < first.owner {
		first, second = second, first
	}

	if err := first.lockContext(ctx); err != nil {
		return err
	}
	defer first.unlock()
	if err := second.lockContext(ctx); err != nil {
		return err
	}
	defer second.unlock()

	cpA, cpB := a.checkpointLocked(), b.checkpointLocked()
	if err := fn(&Tx{l: a}, &Tx{l: b}); err != nil {
		a.rollbackLocked(cpA)
		b.rollbackLocked(cpB)
		return err
	}
	return nil
}
