// Package ledger implements the per-user wallet: an insertion-ordered
// transaction log, a budget per category and the set of known categories.
//
// Every method takes the ledger's lock for the duration of the call, so a
// Ledger may be shared between goroutines. Queries return copies; the only
// way to change a ledger is through its named methods.
package ledger

import (
	"context"
	"fmt"
	"sort"

	"fjacquet/finance-manager/internal/budget"
	"fjacquet/finance-manager/internal/logging"
	"fjacquet/finance-manager/internal/models"
	"fjacquet/finance-manager/internal/walleterror"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/semaphore"
)

// Ledger is one user's wallet.
type Ledger struct {
	owner string
	sem   *semaphore.Weighted

	transactions []models.Transaction
	budgets      map[string]models.Budget
	categories   map[string]struct{}

	warningThreshold  decimal.Decimal
	resetOnSet        bool
	recomputeOnRemove bool
	initialCategories []string
	customCategories  bool

	logger logging.Logger
}

// New creates an empty ledger for owner with the default category set.
func New(owner string, opts ...Option) *Ledger {
	l := newLedger(owner, opts...)

	categories := models.DefaultCategories
	if l.customCategories {
		categories = l.initialCategories
	}
	for _, c := range categories {
		l.categories[c] = struct{}{}
	}
	return l
}

func newLedger(owner string, opts ...Option) *Ledger {
	l := &Ledger{
		owner:            owner,
		sem:              semaphore.NewWeighted(1),
		budgets:          make(map[string]models.Budget),
		categories:       make(map[string]struct{}),
		warningThreshold: models.DefaultWarningThreshold,
		resetOnSet:       true,
		logger:           logging.NewDiscardLogger(),
	}
	for _, opt := range opts {
		opt(l)
	}
	l.logger = l.logger.WithField(logging.FieldOwner, owner)
	return l
}

// lock blocks until the ledger is free. Acquire with a background context
// cannot fail.
func (l *Ledger) lock() {
	_ = l.sem.Acquire(context.Background(), 1)
}

func (l *Ledger) unlock() {
	l.sem.Release(1)
}

// lockContext acquires the ledger or gives up when ctx is done.
func (l *Ledger) lockContext(ctx context.Context) error {
	if err := l.sem.Acquire(ctx, 1); err != nil {
		return &walleterror.LockTimeoutError{Owner: l.owner, Err: err}
	}
	return nil
}

// Owner returns the owning username.
func (l *Ledger) Owner() string {
	return l.owner
}

// AddTransaction appends tx, registers its category and, for an expense,
// adds its amount to the category's budget. Callers validate tx first.
func (l *Ledger) AddTransaction(tx models.Transaction) {
	l.lock()
	defer l.unlock()
	l.addTransactionLocked(tx)
}

func (l *Ledger) addTransactionLocked(tx models.Transaction) {
	l.transactions = append(l.transactions, tx)
	l.categories[tx.Category] = struct{}{}

	if tx.IsExpense() {
		if b, ok := l.budgets[tx.Category]; ok {
			l.budgets[tx.Category] = budget.AddSpending(b, tx.Amount)
		}
	}

	l.logger.Debug("Transaction added",
		logging.Field{Key: logging.FieldTransactionID, Value: tx.ID},
		logging.Field{Key: logging.FieldCategory, Value: tx.Category},
		logging.Field{Key: logging.FieldAmount, Value: models.FormatAmount(tx.Amount)})
}

// RemoveTransaction deletes the transaction with the given id and reports
// whether one was found. Budget spending is only adjusted when the ledger
// was built WithRecomputeOnRemove(true).
func (l *Ledger) RemoveTransaction(id string) bool {
	l.lock()
	defer l.unlock()

	for i, tx := range l.transactions {
		if tx.ID != id {
			continue
		}
		l.transactions = append(l.transactions[:i:i], l.transactions[i+1:]...)

		if l.recomputeOnRemove && tx.IsExpense() {
			if b, ok := l.budgets[tx.Category]; ok {
				l.budgets[tx.Category] = budget.SubtractSpending(b, tx.Amount)
			}
		}

		l.logger.Debug("Transaction removed",
			logging.Field{Key: logging.FieldTransactionID, Value: id})
		return true
	}
	return false
}

// AddCategory registers a category. Adding a known category is a no-op.
func (l *Ledger) AddCategory(name string) {
	l.lock()
	defer l.unlock()
	l.categories[name] = struct{}{}
}

// RemoveCategory forgets a category and its budget. It refuses, returning
// false, while any transaction references the category.
func (l *Ledger) RemoveCategory(name string) bool {
	l.lock()
	defer l.unlock()

	for _, tx := range l.transactions {
		if tx.Category == name {
			l.logger.Debug("Category kept, still referenced",
				logging.Field{Key: logging.FieldCategory, Value: name})
			return false
		}
	}
	if _, ok := l.categories[name]; !ok {
		return false
	}
	delete(l.categories, name)
	delete(l.budgets, name)
	return true
}

// HasCategory reports whether name is a known category.
func (l *Ledger) HasCategory(name string) bool {
	l.lock()
	defer l.unlock()
	_, ok := l.categories[name]
	return ok
}

// Categories returns the known categories in lexical order.
func (l *Ledger) Categories() []string {
	l.lock()
	defer l.unlock()
	return l.sortedCategoriesLocked()
}

func (l *Ledger) sortedCategoriesLocked() []string {
	out := make([]string, 0, len(l.categories))
	for c := range l.categories {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

// SetBudget installs a new budget for category, replacing any previous one
// and its accumulated spending. The category is registered if unknown.
func (l *Ledger) SetBudget(category string, limit decimal.Decimal) error {
	if !limit.IsPositive() {
		return walleterror.NewValidationError("limit", "budget limit must be positive")
	}

	l.lock()
	defer l.unlock()

	b := models.NewBudget(category, limit, l.warningThreshold)
	if !l.resetOnSet {
		b = budget.AddSpending(b, l.expensesInCategoryLocked(category))
	}
	l.budgets[category] = b
	l.categories[category] = struct{}{}

	l.logger.Info("Budget set",
		logging.Field{Key: logging.FieldCategory, Value: category},
		logging.Field{Key: logging.FieldLimit, Value: models.FormatAmount(b.Limit)})
	return nil
}

// EditBudget changes the limit of an existing budget; spending is kept.
func (l *Ledger) EditBudget(category string, newLimit decimal.Decimal) error {
	if !newLimit.IsPositive() {
		return walleterror.NewValidationError("limit", "budget limit must be positive")
	}

	l.lock()
	defer l.unlock()

	b, ok := l.budgets[category]
	if !ok {
		return &walleterror.CategoryNotFoundError{Category: category, Reason: "no budget set"}
	}
	b.Limit = models.RoundAmount(newLimit)
	l.budgets[category] = b

	l.logger.Info("Budget edited",
		logging.Field{Key: logging.FieldCategory, Value: category},
		logging.Field{Key: logging.FieldLimit, Value: models.FormatAmount(b.Limit)})
	return nil
}

// RemoveBudget drops the budget for category; the category stays known.
func (l *Ledger) RemoveBudget(category string) bool {
	l.lock()
	defer l.unlock()

	if _, ok := l.budgets[category]; !ok {
		return false
	}
	delete(l.budgets, category)
	return true
}

// ResetBudget clears the spending counter of an existing budget.
func (l *Ledger) ResetBudget(category string) error {
	l.lock()
	defer l.unlock()

	b, ok := l.budgets[category]
	if !ok {
		return &walleterror.CategoryNotFoundError{Category: category, Reason: "no budget set"}
	}
	l.budgets[category] = budget.Reset(b)
	return nil
}

// ImportBudget installs a budget with a spending figure taken verbatim from
// an external source. No reconciliation against the log happens.
func (l *Ledger) ImportBudget(category string, limit, spent decimal.Decimal) error {
	if err := validateImportedBudget(category, limit, spent); err != nil {
		return err
	}

	l.lock()
	defer l.unlock()
	l.importBudgetLocked(category, limit, spent)
	return nil
}

func validateImportedBudget(category string, limit, spent decimal.Decimal) error {
	if category == "" {
		return walleterror.NewValidationError("category", "cannot be empty")
	}
	if !limit.IsPositive() {
		return walleterror.NewValidationError("limit", "budget limit must be positive")
	}
	if spent.IsNegative() {
		return walleterror.NewValidationError("spent", "cannot be negative")
	}
	return nil
}

func (l *Ledger) importBudgetLocked(category string, limit, spent decimal.Decimal) {
	b := models.NewBudget(category, limit, l.warningThreshold)
	b.CurrentSpending = models.RoundAmount(spent)
	l.budgets[category] = b
	l.categories[category] = struct{}{}
}

// Budget returns the budget for category, if any.
func (l *Ledger) Budget(category string) (models.Budget, bool) {
	l.lock()
	defer l.unlock()
	b, ok := l.budgets[category]
	return b, ok
}

// Budgets returns all budgets ordered by category.
func (l *Ledger) Budgets() []models.Budget {
	l.lock()
	defer l.unlock()
	return l.sortedBudgetsLocked()
}

func (l *Ledger) sortedBudgetsLocked() []models.Budget {
	out := make([]models.Budget, 0, len(l.budgets))
	for _, b := range l.budgets {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Category < out[j].Category })
	return out
}

// Balance is total income minus total expenses, recomputed from the log.
func (l *Ledger) Balance() decimal.Decimal {
	l.lock()
	defer l.unlock()
	return l.balanceLocked()
}

func (l *Ledger) balanceLocked() decimal.Decimal {
	income, expenses := Totals(l.transactions)
	return income.Sub(expenses)
}

// TotalIncome sums all income transactions.
func (l *Ledger) TotalIncome() decimal.Decimal {
	l.lock()
	defer l.unlock()
	income, _ := Totals(l.transactions)
	return income
}

// TotalExpenses sums all expense transactions.
func (l *Ledger) TotalExpenses() decimal.Decimal {
	l.lock()
	defer l.unlock()
	_, expenses := Totals(l.transactions)
	return expenses
}

func (l *Ledger) expensesInCategoryLocked(category string) decimal.Decimal {
	total := decimal.Zero
	for _, tx := range l.transactions {
		if tx.IsExpense() && tx.Category == category {
			total = total.Add(tx.Amount)
		}
	}
	return total
}

// Transactions returns a copy of the log in insertion order.
func (l *Ledger) Transactions() []models.Transaction {
	l.lock()
	defer l.unlock()
	return append([]models.Transaction(nil), l.transactions...)
}

// Transaction looks a transaction up by id.
func (l *Ledger) Transaction(id string) (models.Transaction, bool) {
	l.lock()
	defer l.unlock()
	for _, tx := range l.transactions {
		if tx.ID == id {
			return tx, true
		}
	}
	return models.Transaction{}, false
}

// TransactionsByCategory returns the category's transactions in insertion
// order.
func (l *Ledger) TransactionsByCategory(category string) []models.Transaction {
	return Filter(l.Transactions(), func(tx models.Transaction) bool {
		return tx.Category == category
	})
}

// IncomeTransactions returns the income entries in insertion order.
func (l *Ledger) IncomeTransactions() []models.Transaction {
	return Filter(l.Transactions(), models.Transaction.IsIncome)
}

// ExpenseTransactions returns the expense entries in insertion order.
func (l *Ledger) ExpenseTransactions() []models.Transaction {
	return Filter(l.Transactions(), models.Transaction.IsExpense)
}

// Len returns the number of logged transactions.
func (l *Ledger) Len() int {
	l.lock()
	defer l.unlock()
	return len(l.transactions)
}

func (l *Ledger) String() string {
	s := l.Snapshot()
	return fmt.Sprintf("wallet of %s: balance=%s, transactions=%d",
		s.Owner, models.FormatAmount(s.Balance()), len(s.Transactions))
}

// Totals sums income and expense amounts of txs.
func Totals(txs []models.Transaction) (income, expenses decimal.Decimal) {
	income, expenses = decimal.Zero, decimal.Zero
	for _, tx := range txs {
		switch tx.Type {
		case models.TransactionTypeIncome:
			income = income.Add(tx.Amount)
		case models.TransactionTypeExpense:
			expenses = expenses.Add(tx.Amount)
		}
	}
	return income, expenses
}

// Filter returns the transactions matching keep, preserving order.
func Filter(txs []models.Transaction, keep func(models.Transaction) bool) []models.Transaction {
	var out []models.Transaction
	for _, tx := range txs {
		if keep(tx) {
			out = append(out, tx)
		}
	}
	return out
}
