package entity

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	errs "github.com/pmotterani/flexipay/internal/domain/error"
)

// MoneyDecimalPlaces is the precision of every monetary value in the ledger.
// It matches the NUMERIC(10,2) columns in storage.
const MoneyDecimalPlaces = 2

// maxMoney is the first value that no longer fits a NUMERIC(10,2) column.
var maxMoney = decimal.New(1, 8)

// ParseAmount validates and parses a monetary amount supplied by a caller.
// The amount must be non-negative, use a dot as decimal separator and carry
// at most two decimal places. Values that would overflow the storage column
// are rejected.
func ParseAmount(raw string) (decimal.Decimal, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return decimal.Zero, fmt.Errorf("%w: empty value", errs.ErrInvalidAmount)
	}

	value, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %s", errs.ErrInvalidAmount, raw)
	}

	if value.IsNegative() {
		return decimal.Zero, errs.ErrNegativeAmount
	}

	if value.Exponent() < -MoneyDecimalPlaces {
		return decimal.Zero, fmt.Errorf("%w: maximum %d decimal places allowed", errs.ErrInvalidAmount, MoneyDecimalPlaces)
	}

	if value.GreaterThanOrEqual(maxMoney) {
		return decimal.Zero, errs.ErrAmountOverflow
	}

	return value, nil
}

// RoundMoney rounds a computed value to the ledger precision using
// round-half-up. It is applied once, at the final result of a computation.
func RoundMoney(value decimal.Decimal) decimal.Decimal {
	return value.Round(MoneyDecimalPlaces)
}

// FormatAmount renders a monetary value with exactly two decimal places,
// the format used in every user-facing message.
func FormatAmount(value decimal.Decimal) string {
	return value.StringFixed(MoneyDecimalPlaces)
}
