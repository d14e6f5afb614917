package alert

import (
	"testing"
	"time"

	"fjacquet/finance-manager/internal/ledger"
	"fjacquet/finance-manager/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func add(l *ledger.Ledger, typ models.TransactionType, category, amount string) {
	l.AddTransaction(models.Transaction{
		ID:       category + amount + string(typ),
		Amount:   dec(amount),
		Type:     typ,
		Category: category,
		Date:     time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC),
	})
}

func types(alerts []Alert) []Type {
	out := make([]Type, 0, len(alerts))
	for _, a := range alerts {
		out = append(out, a.Type)
	}
	return out
}

func TestCheckBudgetAlerts(t *testing.T) {
	l := ledger.New("alice")
	require.NoError(t, l.SetBudget("Food", dec("1000")))
	require.NoError(t, l.SetBudget("Taxi", dec("100")))
	require.NoError(t, l.SetBudget("Health", dec("500")))

	add(l, models.TransactionTypeExpense, "Food", "850")
	add(l, models.TransactionTypeExpense, "Taxi", "120")
	add(l, models.TransactionTypeExpense, "Health", "10")

	alerts := NewEvaluator(models.DefaultLowBalanceThreshold).CheckBudgetAlerts(l)
	require.Len(t, alerts, 2)

	assert.Equal(t, TypeBudgetWarning, alerts[0].Type)
	assert.Equal(t, "Food", alerts[0].Category)
	assert.Contains(t, alerts[0].Message, "85.0%")
	assert.Contains(t, alerts[0].Message, "remaining: 150.00")

	assert.Equal(t, TypeBudgetExceeded, alerts[1].Type)
	assert.Equal(t, "Taxi", alerts[1].Category)
	assert.True(t, dec("20").Equal(alerts[1].Amount))
	assert.Contains(t, alerts[1].Message, "overage: 20.00")
}

func TestCheckBalanceAlerts(t *testing.T) {
	tests := []struct {
		name   string
		income string
		spent  string
		want   []Type
	}{
		{name: "healthy", income: "1000", spent: "100", want: []Type{}},
		{name: "low balance", income: "150", spent: "100", want: []Type{TypeLowBalance}},
		{name: "zero balance is low", income: "100", spent: "100", want: []Type{TypeLowBalance}},
		{name: "negative with overspending", income: "100", spent: "150", want: []Type{TypeNegativeBalance, TypeOverspending}},
		{name: "empty ledger", income: "0", spent: "0", want: []Type{TypeLowBalance}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := ledger.New("alice")
			if dec(tt.income).IsPositive() {
				add(l, models.TransactionTypeIncome, "Salary", tt.income)
			}
			if dec(tt.spent).IsPositive() {
				add(l, models.TransactionTypeExpense, "Food", tt.spent)
			}

			alerts := NewEvaluator(models.DefaultLowBalanceThreshold).CheckBalanceAlerts(l)
			assert.Equal(t, tt.want, types(alerts))
		})
	}
}

func TestCheckBalanceAlerts_CustomThreshold(t *testing.T) {
	l := ledger.New("alice")
	add(l, models.TransactionTypeIncome, "Salary", "150")

	assert.Empty(t, NewEvaluator(dec("50")).CheckBalanceAlerts(l))
	assert.Len(t, NewEvaluator(dec("500")).CheckBalanceAlerts(l), 1)
	assert.True(t, models.DefaultLowBalanceThreshold.Equal(NewEvaluator(dec("-1")).LowBalanceThreshold))
}

func TestEvaluate_FreshSlicePerCall(t *testing.T) {
	l := ledger.New("alice")
	require.NoError(t, l.SetBudget("Food", dec("100")))
	add(l, models.TransactionTypeExpense, "Food", "150")

	e := NewEvaluator(models.DefaultLowBalanceThreshold)
	first := e.Evaluate(l)
	assert.Equal(t, []Type{TypeBudgetExceeded, TypeNegativeBalance, TypeOverspending}, types(first))

	first[0].Message = "mutated"
	second := e.Evaluate(l)
	assert.Len(t, second, 3)
	assert.NotEqual(t, "mutated", second[0].Message)

	require.NoError(t, l.ResetBudget("Food"))
	assert.Equal(t, []Type{TypeNegativeBalance, TypeOverspending}, types(e.Evaluate(l)))
}
