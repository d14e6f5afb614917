package stats

import (
	"time"

	"github.com/shopspring/decimal"
)

// Financial health labels derived from the savings rate.
const (
	HealthExcellent      = "Excellent"
	HealthGood           = "Good"
	HealthSatisfactory   = "Satisfactory"
	HealthNeedsAttention = "Needs attention"
)

// TopCategoryLimit caps the number of categories in the analysis ranking.
const TopCategoryLimit = 5

// StatisticsResult summarises the transactions of one period.
type StatisticsResult struct {
	Owner              string                     `json:"owner,omitempty" yaml:"owner,omitempty"`
	Period             Period                     `json:"period" yaml:"period"`
	TotalIncome        decimal.Decimal            `json:"total_income" yaml:"total_income"`
	TotalExpenses      decimal.Decimal            `json:"total_expenses" yaml:"total_expenses"`
	Balance            decimal.Decimal            `json:"balance" yaml:"balance"`
	IncomeByCategory   map[string]decimal.Decimal `json:"income_by_category" yaml:"income_by_category"`
	ExpensesByCategory map[string]decimal.Decimal `json:"expenses_by_category" yaml:"expenses_by_category"`
	TransactionCount   int                        `json:"transaction_count" yaml:"transaction_count"`
}

// CombinedStatistics merges the statistics of several owners.
type CombinedStatistics struct {
	Owners     []string         `json:"owners" yaml:"owners"`
	Statistics StatisticsResult `json:"statistics" yaml:"statistics"`
}

// BudgetSummary is the budget block of a category statistic.
type BudgetSummary struct {
	Limit     decimal.Decimal `json:"limit" yaml:"limit"`
	Spent     decimal.Decimal `json:"spent" yaml:"spent"`
	Remaining decimal.Decimal `json:"remaining" yaml:"remaining"`
	Exceeded  bool            `json:"exceeded" yaml:"exceeded"`
}

// CategoryStatsResult holds all-time figures for one category.
type CategoryStatsResult struct {
	Category string          `json:"category" yaml:"category"`
	Income   decimal.Decimal `json:"income" yaml:"income"`
	Expenses decimal.Decimal `json:"expenses" yaml:"expenses"`
	Balance  decimal.Decimal `json:"balance" yaml:"balance"`
	Budget   *BudgetSummary  `json:"budget,omitempty" yaml:"budget,omitempty"`
}

// BudgetReport is one budget line of a FullReport.
type BudgetReport struct {
	Category    string          `json:"category" yaml:"category"`
	Limit       decimal.Decimal `json:"limit" yaml:"limit"`
	Spent       decimal.Decimal `json:"spent" yaml:"spent"`
	Remaining   decimal.Decimal `json:"remaining" yaml:"remaining"`
	Exceeded    bool            `json:"exceeded" yaml:"exceeded"`
	Warning     bool            `json:"warning" yaml:"warning"`
	PeriodSpent decimal.Decimal `json:"period_spent" yaml:"period_spent"`
}

// CategoryAmount pairs a category with a summed amount.
type CategoryAmount struct {
	Category string          `json:"category" yaml:"category"`
	Amount   decimal.Decimal `json:"amount" yaml:"amount"`
}

// Analysis is the derived block of a FullReport.
type Analysis struct {
	// AverageExpensePerTransaction is the mean amount of the period's
	// expense transactions, not a per-day figure.
	AverageExpensePerTransaction decimal.Decimal  `json:"average_expense_per_transaction" yaml:"average_expense_per_transaction"`
	TopExpenseCategories         []CategoryAmount `json:"top_expense_categories" yaml:"top_expense_categories"`
	SavingsRate                  decimal.Decimal  `json:"savings_rate" yaml:"savings_rate"`
	FinancialHealth              string           `json:"financial_health" yaml:"financial_health"`
}

// FullReport combines all-time totals, period statistics, budgets and the
// analysis block.
type FullReport struct {
	Owner         string           `json:"owner" yaml:"owner"`
	Period        Period           `json:"period" yaml:"period"`
	GeneratedAt   time.Time        `json:"generated_at" yaml:"generated_at"`
	TotalIncome   decimal.Decimal  `json:"total_income" yaml:"total_income"`
	TotalExpenses decimal.Decimal  `json:"total_expenses" yaml:"total_expenses"`
	Balance       decimal.Decimal  `json:"balance" yaml:"balance"`
	PeriodStats   StatisticsResult `json:"period_stats" yaml:"period_stats"`
	Budgets       []BudgetReport   `json:"budgets" yaml:"budgets"`
	Analysis      Analysis         `json:"analysis" yaml:"analysis"`
}
