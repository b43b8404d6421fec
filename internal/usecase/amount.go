package usecase

import (
	"strings"

	"github.com/shopspring/decimal"

	"rent-reconciliation/internal/domain"
)

var amountCleaner = strings.NewReplacer(
	"+", "",
	" ", "",
	"\u00a0", "",
	"\u202f", "",
	",", ".",
)

// ParseAmount converts a bank formatted amount such as "+2 800,00" to a decimal.
// The sign is kept, so "-500,00" yields -500.
func ParseAmount(s string) (decimal.Decimal, error) {
	cleaned := strings.TrimSpace(amountCleaner.Replace(s))
	if cleaned == "" {
		return decimal.Zero, &domain.ParseError{Input: s}
	}
	amount, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, &domain.ParseError{Input: s, Err: err}
	}
	return amount, nil
}
