package models

import (
	"fmt"
	"strings"
	"time"

	"fjacquet/finance-manager/internal/walleterror"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionBuilder provides a fluent API for constructing transactions.
// The first error short-circuits the remaining calls and is returned by
// Build.
type TransactionBuilder struct {
	tx  Transaction
	err error
	now func() time.Time
}

// NewTransactionBuilder creates a builder for an expense with no amount.
func NewTransactionBuilder() *TransactionBuilder {
	return &TransactionBuilder{
		tx: Transaction{
			Type:   TransactionTypeExpense,
			Amount: decimal.Zero,
		},
		now: time.Now,
	}
}

// WithClock overrides the clock used to stamp transactions without a date.
func (b *TransactionBuilder) WithClock(now func() time.Time) *TransactionBuilder {
	if now != nil {
		b.now = now
	}
	return b
}

// WithID sets the transaction id. Build generates one when unset.
func (b *TransactionBuilder) WithID(id string) *TransactionBuilder {
	if b.err != nil {
		return b
	}
	b.tx.ID = id
	return b
}

// WithAmount sets the amount, rounded to two places.
func (b *TransactionBuilder) WithAmount(amount decimal.Decimal) *TransactionBuilder {
	if b.err != nil {
		return b
	}
	b.tx.Amount = RoundAmount(amount)
	return b
}

// WithAmountFromFloat sets the amount from a float64 value.
func (b *TransactionBuilder) WithAmountFromFloat(amount float64) *TransactionBuilder {
	if b.err != nil {
		return b
	}
	b.tx.Amount = AmountFromFloat(amount)
	return b
}

// WithAmountFromString parses and sets the amount.
func (b *TransactionBuilder) WithAmountFromString(amountStr string) *TransactionBuilder {
	if b.err != nil {
		return b
	}
	amount, err := ParseAmount(amountStr)
	if err != nil {
		b.err = walleterror.NewValidationError("amount", err.Error())
		return b
	}
	b.tx.Amount = amount
	return b
}

// WithType sets the transaction direction.
func (b *TransactionBuilder) WithType(t TransactionType) *TransactionBuilder {
	if b.err != nil {
		return b
	}
	if t != TransactionTypeIncome && t != TransactionTypeExpense {
		b.err = walleterror.NewValidationError("type", fmt.Sprintf("unknown transaction type '%s'", t))
		return b
	}
	b.tx.Type = t
	return b
}

// AsIncome marks the transaction as income.
func (b *TransactionBuilder) AsIncome() *TransactionBuilder {
	return b.WithType(TransactionTypeIncome)
}

// AsExpense marks the transaction as an expense.
func (b *TransactionBuilder) AsExpense() *TransactionBuilder {
	return b.WithType(TransactionTypeExpense)
}

// WithCategory sets the category, trimmed of surrounding whitespace.
func (b *TransactionBuilder) WithCategory(category string) *TransactionBuilder {
	if b.err != nil {
		return b
	}
	b.tx.Category = strings.TrimSpace(category)
	return b
}

// WithDescription sets the free-text description.
func (b *TransactionBuilder) WithDescription(description string) *TransactionBuilder {
	if b.err != nil {
		return b
	}
	b.tx.Description = description
	return b
}

// WithDate sets the transaction timestamp.
func (b *TransactionBuilder) WithDate(date time.Time) *TransactionBuilder {
	if b.err != nil {
		return b
	}
	if date.IsZero() {
		b.err = walleterror.NewValidationError("date", "cannot be zero")
		return b
	}
	b.tx.Date = date
	return b
}

// WithDateFromString parses a "02.01.2006 15:04" timestamp.
func (b *TransactionBuilder) WithDateFromString(dateStr string) *TransactionBuilder {
	if b.err != nil {
		return b
	}
	date, err := time.ParseInLocation(DateTimeLayout, strings.TrimSpace(dateStr), time.Local)
	if err != nil {
		b.err = walleterror.NewValidationError("date", fmt.Sprintf("invalid date '%s'", dateStr))
		return b
	}
	b.tx.Date = date
	return b
}

// Build validates the transaction and returns it. Amount must be positive
// and category non-empty.
func (b *TransactionBuilder) Build() (Transaction, error) {
	if b.err != nil {
		return Transaction{}, fmt.Errorf("builder error: %w", b.err)
	}
	if err := ValidateTransactionInput(b.tx.Amount, b.tx.Category); err != nil {
		return Transaction{}, err
	}

	if b.tx.ID == "" {
		b.tx.ID = uuid.New().String()
	}
	if b.tx.Date.IsZero() {
		b.tx.Date = b.now()
	}
	return b.tx, nil
}

// ValidateTransactionInput checks the preconditions every caller of
// Ledger.AddTransaction must enforce.
func ValidateTransactionInput(amount decimal.Decimal, category string) error {
	if !amount.IsPositive() {
		return walleterror.NewValidationError("amount", "must be positive")
	}
	if strings.TrimSpace(category) == "" {
		return walleterror.NewValidationError("category", "cannot be empty")
	}
	return nil
}
