package models

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestTransaction_Direction(t *testing.T) {
	income := Transaction{Type: TransactionTypeIncome, Amount: decimal.NewFromInt(100)}
	expense := Transaction{Type: TransactionTypeExpense, Amount: decimal.NewFromInt(40)}

	assert.True(t, income.IsIncome())
	assert.False(t, income.IsExpense())
	assert.True(t, expense.IsExpense())

	assert.True(t, income.SignedAmount().Equal(decimal.NewFromInt(100)))
	assert.True(t, expense.SignedAmount().Equal(decimal.NewFromInt(-40)))
}

func TestTransaction_Day(t *testing.T) {
	tx := Transaction{Date: time.Date(2024, 3, 15, 23, 59, 0, 0, time.UTC)}
	assert.Equal(t, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), tx.Day())
	assert.Equal(t, "15.03.2024 23:59", tx.FormattedDate())
}

func TestNewBudget(t *testing.T) {
	b := NewBudget("Food", decimal.RequireFromString("1000.004"), decimal.Zero)

	assert.Equal(t, "Food", b.Category)
	assert.Equal(t, "1000.00", FormatAmount(b.Limit))
	assert.True(t, b.CurrentSpending.IsZero())
	assert.True(t, b.WarningThreshold.Equal(DefaultWarningThreshold))
	assert.Contains(t, b.String(), "limit=1000.00")
}
