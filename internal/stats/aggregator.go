// Package stats computes period statistics, per-category figures and the
// full financial report from ledger snapshots.
package stats

import (
	"sort"
	"time"

	"fjacquet/finance-manager/internal/budget"
	"fjacquet/finance-manager/internal/ledger"
	"fjacquet/finance-manager/internal/logging"
	"fjacquet/finance-manager/internal/models"
	"fjacquet/finance-manager/internal/walleterror"

	"github.com/shopspring/decimal"
)

var (
	hundred           = decimal.NewFromInt(100)
	excellentFloor    = decimal.NewFromInt(20)
	goodFloor         = decimal.NewFromInt(10)
	savingsRatePlaces = int32(2)
)

// Source is anything that can hand out a consistent ledger snapshot.
type Source interface {
	Snapshot() ledger.Snapshot
}

// Aggregator builds statistics. It keeps no state between calls.
type Aggregator struct {
	logger logging.Logger
	now    func() time.Time
}

// NewAggregator creates an Aggregator.
func NewAggregator(logger logging.Logger) *Aggregator {
	if logger == nil {
		logger = logging.NewDiscardLogger()
	}
	return &Aggregator{logger: logger, now: time.Now}
}

// SetClock overrides the clock used for FullReport.GeneratedAt.
func (a *Aggregator) SetClock(now func() time.Time) {
	if now != nil {
		a.now = now
	}
}

// GetStatistics summarises the transactions whose calendar day lies within
// period.
func (a *Aggregator) GetStatistics(src Source, period Period) (StatisticsResult, error) {
	if err := period.Validate(); err != nil {
		return StatisticsResult{}, err
	}
	snap := src.Snapshot()
	result := summarize(inPeriod(snap.Transactions, period), period)
	result.Owner = snap.Owner

	a.logger.Debug("Statistics computed",
		logging.Field{Key: logging.FieldOwner, Value: snap.Owner},
		logging.Field{Key: logging.FieldPeriod, Value: period.String()},
		logging.Field{Key: logging.FieldCount, Value: result.TransactionCount})
	return result, nil
}

// GetCombinedStatistics merges the period statistics of several ledgers.
// A ledger whose owner was already seen is counted once.
func (a *Aggregator) GetCombinedStatistics(sources []Source, period Period) (CombinedStatistics, error) {
	if err := period.Validate(); err != nil {
		return CombinedStatistics{}, err
	}

	var (
		owners []string
		txs    []models.Transaction
	)
	seen := make(map[string]struct{}, len(sources))
	for _, src := range sources {
		snap := src.Snapshot()
		if _, dup := seen[snap.Owner]; dup {
			continue
		}
		seen[snap.Owner] = struct{}{}
		owners = append(owners, snap.Owner)
		txs = append(txs, inPeriod(snap.Transactions, period)...)
	}

	return CombinedStatistics{
		Owners:     owners,
		Statistics: summarize(txs, period),
	}, nil
}

// TransactionsInPeriod returns the period's transactions, newest first.
func (a *Aggregator) TransactionsInPeriod(src Source, period Period) ([]models.Transaction, error) {
	if err := period.Validate(); err != nil {
		return nil, err
	}
	txs := inPeriod(src.Snapshot().Transactions, period)
	sort.SliceStable(txs, func(i, j int) bool { return txs[i].Date.After(txs[j].Date) })
	return txs, nil
}

// GetCategoryStatistics returns all-time figures for each requested
// category. Any category unknown to the ledger fails the whole call.
func (a *Aggregator) GetCategoryStatistics(src Source, categories []string) ([]CategoryStatsResult, error) {
	snap := src.Snapshot()
	for _, c := range categories {
		if !snap.HasCategory(c) {
			return nil, &walleterror.CategoryNotFoundError{Category: c, Reason: "unknown category"}
		}
	}

	results := make([]CategoryStatsResult, 0, len(categories))
	for _, c := range categories {
		income, expenses := ledger.Totals(ledger.Filter(snap.Transactions, func(tx models.Transaction) bool {
			return tx.Category == c
		}))
		r := CategoryStatsResult{
			Category: c,
			Income:   income,
			Expenses: expenses,
			Balance:  income.Sub(expenses),
		}
		if b, ok := snap.Budget(c); ok {
			r.Budget = &BudgetSummary{
				Limit:     b.Limit,
				Spent:     b.CurrentSpending,
				Remaining: budget.Remaining(b),
				Exceeded:  budget.IsExceeded(b),
			}
		}
		results = append(results, r)
	}
	return results, nil
}

// GenerateFullReport combines all-time totals with the period subset, one
// entry per budget and the analysis block.
func (a *Aggregator) GenerateFullReport(src Source, period Period) (FullReport, error) {
	if err := period.Validate(); err != nil {
		return FullReport{}, err
	}
	snap := src.Snapshot()
	periodTxs := inPeriod(snap.Transactions, period)

	periodStats := summarize(periodTxs, period)
	periodStats.Owner = snap.Owner

	report := FullReport{
		Owner:         snap.Owner,
		Period:        period,
		GeneratedAt:   a.now(),
		TotalIncome:   snap.TotalIncome(),
		TotalExpenses: snap.TotalExpenses(),
		Balance:       snap.Balance(),
		PeriodStats:   periodStats,
		Budgets:       make([]BudgetReport, 0, len(snap.Budgets)),
	}

	for _, b := range snap.Budgets {
		report.Budgets = append(report.Budgets, BudgetReport{
			Category:    b.Category,
			Limit:       b.Limit,
			Spent:       b.CurrentSpending,
			Remaining:   budget.Remaining(b),
			Exceeded:    budget.IsExceeded(b),
			Warning:     budget.IsWarning(b),
			PeriodSpent: periodStats.ExpensesByCategory[b.Category],
		})
	}

	report.Analysis = analyze(periodTxs, report.TotalIncome, report.TotalExpenses)

	a.logger.Info("Full report generated",
		logging.Field{Key: logging.FieldOwner, Value: snap.Owner},
		logging.Field{Key: logging.FieldPeriod, Value: period.String()},
		logging.Field{Key: logging.FieldCount, Value: len(periodTxs)})
	return report, nil
}

// SavingsRate is (income - expenses) / income * 100, or zero without
// income.
func SavingsRate(income, expenses decimal.Decimal) decimal.Decimal {
	return exactSavingsRate(income, expenses).Round(savingsRatePlaces)
}

func exactSavingsRate(income, expenses decimal.Decimal) decimal.Decimal {
	if !income.IsPositive() {
		return decimal.Zero
	}
	return income.Sub(expenses).Div(income).Mul(hundred)
}

// FinancialHealth labels a savings rate. Thresholds are strict.
func FinancialHealth(savingsRate decimal.Decimal) string {
	switch {
	case savingsRate.GreaterThan(excellentFloor):
		return HealthExcellent
	case savingsRate.GreaterThan(goodFloor):
		return HealthGood
	case savingsRate.IsPositive():
		return HealthSatisfactory
	default:
		return HealthNeedsAttention
	}
}

// TopExpenseCategories ranks expense categories by total, descending.
// Equal totals keep the order in which the categories first appear.
func TopExpenseCategories(txs []models.Transaction, limit int) []CategoryAmount {
	totals := make(map[string]decimal.Decimal)
	var order []string
	for _, tx := range txs {
		if !tx.IsExpense() {
			continue
		}
		if _, seen := totals[tx.Category]; !seen {
			order = append(order, tx.Category)
		}
		totals[tx.Category] = totals[tx.Category].Add(tx.Amount)
	}

	ranked := make([]CategoryAmount, 0, len(order))
	for _, c := range order {
		ranked = append(ranked, CategoryAmount{Category: c, Amount: totals[c]})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Amount.GreaterThan(ranked[j].Amount)
	})
	if limit >= 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

func analyze(periodTxs []models.Transaction, income, expenses decimal.Decimal) Analysis {
	periodExpenses := ledger.Filter(periodTxs, models.Transaction.IsExpense)

	average := decimal.Zero
	if len(periodExpenses) > 0 {
		average = models.SumAmounts(periodExpenses).
			Div(decimal.NewFromInt(int64(len(periodExpenses)))).
			Round(models.AmountPlaces)
	}

	// health is judged on the unrounded rate
	rate := exactSavingsRate(income, expenses)
	return Analysis{
		AverageExpensePerTransaction: average,
		TopExpenseCategories:         TopExpenseCategories(periodTxs, TopCategoryLimit),
		SavingsRate:                  rate.Round(savingsRatePlaces),
		FinancialHealth:              FinancialHealth(rate),
	}
}

func inPeriod(txs []models.Transaction, period Period) []models.Transaction {
	return ledger.Filter(txs, func(tx models.Transaction) bool {
		return period.Contains(tx.Date)
	})
}

func summarize(txs []models.Transaction, period Period) StatisticsResult {
	result := StatisticsResult{
		Period:             period,
		TotalIncome:        decimal.Zero,
		TotalExpenses:      decimal.Zero,
		IncomeByCategory:   make(map[string]decimal.Decimal),
		ExpensesByCategory: make(map[string]decimal.Decimal),
		TransactionCount:   len(txs),
	}
	for _, tx := range txs {
		switch tx.Type {
		case models.TransactionTypeIncome:
			result.TotalIncome = result.TotalIncome.Add(tx.Amount)
			result.IncomeByCategory[tx.Category] = result.IncomeByCategory[tx.Category].Add(tx.Amount)
		case models.TransactionTypeExpense:
			result.TotalExpenses = result.TotalExpenses.Add(tx.Amount)
			result.ExpensesByCategory[tx.Category] = result.ExpensesByCategory[tx.Category].Add(tx.Amount)
		}
	}
	result.Balance = result.TotalIncome.Sub(result.TotalExpenses)
	return result
}
