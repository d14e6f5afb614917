// Package alert derives budget and balance alerts from a ledger snapshot.
// Alerts are recomputed on every call and never stored.
package alert

import (
	"fmt"

	"fjacquet/finance-manager/internal/budget"
	"fjacquet/finance-manager/internal/ledger"
	"fjacquet/finance-manager/internal/models"

	"github.com/shopspring/decimal"
)

// Type identifies the condition an alert reports.
type Type string

const (
	TypeBudgetExceeded  Type = "BUDGET_EXCEEDED"
	TypeBudgetWarning   Type = "BUDGET_WARNING"
	TypeNegativeBalance Type = "NEGATIVE_BALANCE"
	TypeLowBalance      Type = "LOW_BALANCE"
	TypeOverspending    Type = "OVERSPENDING"
)

// Title is the human-readable heading of an alert type.
func (t Type) Title() string {
	switch t {
	case TypeBudgetExceeded:
		return "Budget exceeded"
	case TypeBudgetWarning:
		return "Budget almost exhausted"
	case TypeNegativeBalance:
		return "Negative balance"
	case TypeLowBalance:
		return "Low balance"
	case TypeOverspending:
		return "Overspending"
	default:
		return string(t)
	}
}

// Alert is a single diagnostic. Category is empty for balance alerts.
type Alert struct {
	Type     Type            `json:"type" yaml:"type"`
	Category string          `json:"category,omitempty" yaml:"category,omitempty"`
	Amount   decimal.Decimal `json:"amount" yaml:"amount"`
	Message  string          `json:"message" yaml:"message"`
}

func (a Alert) String() string {
	return a.Message
}

// Source is anything that can hand out a consistent ledger snapshot.
type Source interface {
	Snapshot() ledger.Snapshot
}

// Evaluator checks ledgers for alert conditions.
type Evaluator struct {
	// LowBalanceThreshold triggers a low-balance alert for a non-negative
	// balance strictly below it.
	LowBalanceThreshold decimal.Decimal
}

// NewEvaluator creates an Evaluator. A negative threshold falls back to
// models.DefaultLowBalanceThreshold.
func NewEvaluator(lowBalanceThreshold decimal.Decimal) *Evaluator {
	if lowBalanceThreshold.IsNegative() {
		lowBalanceThreshold = models.DefaultLowBalanceThreshold
	}
	return &Evaluator{LowBalanceThreshold: lowBalanceThreshold}
}

// CheckBudgetAlerts emits at most one alert per budget, in category order.
func (e *Evaluator) CheckBudgetAlerts(src Source) []Alert {
	return budgetAlerts(src.Snapshot())
}

// CheckBalanceAlerts reports a negative or low balance, and independently
// expenses above income.
func (e *Evaluator) CheckBalanceAlerts(src Source) []Alert {
	return e.balanceAlerts(src.Snapshot())
}

// Evaluate runs both checks against one snapshot, budget alerts first.
func (e *Evaluator) Evaluate(src Source) []Alert {
	snap := src.Snapshot()
	return append(budgetAlerts(snap), e.balanceAlerts(snap)...)
}

func budgetAlerts(snap ledger.Snapshot) []Alert {
	alerts := []Alert{}
	for _, b := range snap.Budgets {
		switch budget.Evaluate(b) {
		case budget.StatusExceeded:
			overage := budget.Overage(b)
			alerts = append(alerts, Alert{
				Type:     TypeBudgetExceeded,
				Category: b.Category,
				Amount:   overage,
				Message: fmt.Sprintf("%s: category '%s'. Limit: %s, spent: %s, overage: %s",
					TypeBudgetExceeded.Title(), b.Category,
					models.FormatAmount(b.Limit), models.FormatAmount(b.CurrentSpending), models.FormatAmount(overage)),
			})
		case budget.StatusWarning:
			remaining := budget.Remaining(b)
			alerts = append(alerts, Alert{
				Type:     TypeBudgetWarning,
				Category: b.Category,
				Amount:   remaining,
				Message: fmt.Sprintf("%s: category '%s'. Limit: %s, spent: %s (%s%%), remaining: %s",
					TypeBudgetWarning.Title(), b.Category,
					models.FormatAmount(b.Limit), models.FormatAmount(b.CurrentSpending),
					budget.PercentUsed(b).StringFixed(1), models.FormatAmount(remaining)),
			})
		}
	}
	return alerts
}

func (e *Evaluator) balanceAlerts(snap ledger.Snapshot) []Alert {
	alerts := []Alert{}
	income, expenses := ledger.Totals(snap.Transactions)
	balance := income.Sub(expenses)

	switch {
	case balance.IsNegative():
		alerts = append(alerts, Alert{
			Type:    TypeNegativeBalance,
			Amount:  balance,
			Message: fmt.Sprintf("%s: current balance: %s", TypeNegativeBalance.Title(), models.FormatAmount(balance)),
		})
	case balance.LessThan(e.LowBalanceThreshold):
		alerts = append(alerts, Alert{
			Type:    TypeLowBalance,
			Amount:  balance,
			Message: fmt.Sprintf("%s: current balance: %s", TypeLowBalance.Title(), models.FormatAmount(balance)),
		})
	}

	if expenses.GreaterThan(income) {
		alerts = append(alerts, Alert{
			Type:    TypeOverspending,
			Amount:  expenses.Sub(income),
			Message: "Warning: expenses exceed income!",
		})
	}
	return alerts
}
