package models

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is a single income or expense event. Values are never edited
// once appended to a ledger; ledgers hand out copies.
type Transaction struct {
	ID          string          `json:"id" yaml:"id"`
	Amount      decimal.Decimal `json:"amount" yaml:"amount"`
	Type        TransactionType `json:"type" yaml:"type"`
	Category    string          `json:"category" yaml:"category"`
	Date        time.Time       `json:"date" yaml:"date"`
	Description string          `json:"description,omitempty" yaml:"description,omitempty"`
}

// IsIncome reports whether the transaction adds money.
func (t Transaction) IsIncome() bool {
	return t.Type == TransactionTypeIncome
}

// IsExpense reports whether the transaction removes money.
func (t Transaction) IsExpense() bool {
	return t.Type == TransactionTypeExpense
}

// SignedAmount returns the amount as it affects the balance.
func (t Transaction) SignedAmount() decimal.Decimal {
	if t.IsExpense() {
		return t.Amount.Neg()
	}
	return t.Amount
}

// Day returns the calendar day of the transaction at midnight UTC.
func (t Transaction) Day() time.Time {
	y, m, d := t.Date.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// FormattedDate renders the date the way the CSV collaborator expects.
func (t Transaction) FormattedDate() string {
	return t.Date.Format(DateTimeLayout)
}

func (t Transaction) String() string {
	return fmt.Sprintf("%s %s %s [%s] %s",
		t.FormattedDate(), t.Type.Label(), FormatAmount(t.Amount), t.Category, t.Description)
}
