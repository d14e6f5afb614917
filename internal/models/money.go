package models

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// AmountPlaces is the number of decimal places kept for every amount.
const AmountPlaces = 2

// RoundAmount rounds an amount to AmountPlaces.
func RoundAmount(amount decimal.Decimal) decimal.Decimal {
	return amount.Round(AmountPlaces)
}

// AmountFromFloat converts a float amount to a rounded decimal.
// Note: only used at the edges (flags, tests); arithmetic stays in decimal.
func AmountFromFloat(amount float64) decimal.Decimal {
	return RoundAmount(decimal.NewFromFloat(amount))
}

// ParseAmount parses a user- or file-supplied amount. Commas are accepted
// as decimal separators and spaces or apostrophes as thousand separators.
func ParseAmount(amountStr string) (decimal.Decimal, error) {
	amount := strings.TrimSpace(amountStr)
	amount = strings.ReplaceAll(amount, " ", "")
	amount = strings.ReplaceAll(amount, "'", "")
	amount = strings.ReplaceAll(amount, ",", ".")

	if amount == "" {
		return decimal.Zero, fmt.Errorf("amount is empty")
	}

	dec, err := decimal.NewFromString(amount)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount string '%s': %w", amountStr, err)
	}
	return RoundAmount(dec), nil
}

// FormatAmount renders an amount with two fixed decimal places.
func FormatAmount(amount decimal.Decimal) string {
	return amount.StringFixed(AmountPlaces)
}

// SumAmounts adds the amounts of the given transactions.
func SumAmounts(transactions []Transaction) decimal.Decimal {
	total := decimal.Zero
	for _, tx := range transactions {
		total = total.Add(tx.Amount)
	}
	return total
}
