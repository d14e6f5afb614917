package models

import "github.com/shopspring/decimal"

// TransactionType is the direction of a money movement.
type TransactionType string

const (
	TransactionTypeIncome  TransactionType = "INCOME"
	TransactionTypeExpense TransactionType = "EXPENSE"
)

// Label returns the human-readable label used in CSV files and reports.
func (t TransactionType) Label() string {
	switch t {
	case TransactionTypeIncome:
		return "Income"
	case TransactionTypeExpense:
		return "Expense"
	default:
		return string(t)
	}
}

// ParseTransactionType accepts both the label and the constant form.
func ParseTransactionType(s string) (TransactionType, bool) {
	switch s {
	case "Income", "income", string(TransactionTypeIncome):
		return TransactionTypeIncome, true
	case "Expense", "expense", string(TransactionTypeExpense):
		return TransactionTypeExpense, true
	default:
		return "", false
	}
}

// CategoryTransfer is the category used for both legs of a transfer.
const CategoryTransfer = "Transfer"

// DefaultCategories are registered on every new ledger.
var DefaultCategories = []string{
	// income
	"Salary",
	"Bonus",
	"Investments",
	"Gift",
	// expenses
	"Food",
	"Entertainment",
	"Utilities",
	"Transport",
	"Taxi",
	"Clothing",
	"Health",
	"Education",
}

// DefaultWarningThreshold is the budget ratio at which a warning is raised.
var DefaultWarningThreshold = decimal.NewFromFloat(0.8)

// DefaultLowBalanceThreshold is the balance under which a low-balance
// alert is raised.
var DefaultLowBalanceThreshold = decimal.NewFromInt(100)

// Date layouts used by the CSV collaborator and the CLI.
const (
	DateTimeLayout = "02.01.2006 15:04"
	DateLayout     = "02.01.2006"
	ISODateLayout  = "2006-01-02"
)

// File permissions
const (
	PermissionDataFile   = 0600
	PermissionDirectory  = 0750
	PermissionReportFile = 0644
)
