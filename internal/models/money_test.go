package models

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		expected    string
		expectError bool
	}{
		{name: "dot decimal", input: "100.50", expected: "100.50"},
		{name: "comma decimal", input: "100,50", expected: "100.50"},
		{name: "thousand separators", input: "1'250.5", expected: "1250.50"},
		{name: "rounds to cents", input: "10.005", expected: "10.01"},
		{name: "surrounding spaces", input: "  42 ", expected: "42.00"},
		{name: "empty", input: "", expectError: true},
		{name: "garbage", input: "abc", expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			amount, err := ParseAmount(tt.input)
			if tt.expectError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, FormatAmount(amount))
		})
	}
}

func TestAmountFromFloat(t *testing.T) {
	assert.Equal(t, "0.30", FormatAmount(AmountFromFloat(0.1+0.2)))
	assert.True(t, AmountFromFloat(19.999).Equal(decimal.NewFromInt(20)))
}

func TestSumAmounts(t *testing.T) {
	txs := []Transaction{
		{Amount: decimal.RequireFromString("10.10")},
		{Amount: decimal.RequireFromString("20.20")},
	}
	assert.Equal(t, "30.30", FormatAmount(SumAmounts(txs)))
	assert.True(t, SumAmounts(nil).IsZero())
}

func TestTransactionType(t *testing.T) {
	assert.Equal(t, "Income", TransactionTypeIncome.Label())
	assert.Equal(t, "Expense", TransactionTypeExpense.Label())

	parsed, ok := ParseTransactionType("Income")
	assert.True(t, ok)
	assert.Equal(t, TransactionTypeIncome, parsed)

	parsed, ok = ParseTransactionType("EXPENSE")
	assert.True(t, ok)
	assert.Equal(t, TransactionTypeExpense, parsed)

	_, ok = ParseTransactionType("Refund")
	assert.False(t, ok)
}
