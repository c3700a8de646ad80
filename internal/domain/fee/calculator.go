// Package fee derives deposit and withdrawal fees from configured rates.
// The calculator is pure: no I/O, no state beyond the rates it was built
// with, and rounding applied exactly once at the final computed fee.
package fee

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/pmotterani/flexipay/internal/domain/entity"
)

// Rates holds the configured fee components as decimal strings, the form
// they arrive in from configuration.
type Rates struct {
	DepositRate     string
	WithdrawalRate  string
	WithdrawalFixed string
}

// Calculator computes operation fees.
type Calculator struct {
	depositRate     decimal.Decimal
	withdrawalRate  decimal.Decimal
	withdrawalFixed decimal.Decimal
}

// NewCalculator parses the configured rates. Rates must be non-negative;
// the percentage components are fractions (0.11 means 11%).
func NewCalculator(rates Rates) (*Calculator, error) {
	depositRate, err := parseRate("deposit rate", rates.DepositRate)
	if err != nil {
		return nil, err
	}
	withdrawalRate, err := parseRate("withdrawal rate", rates.WithdrawalRate)
	if err != nil {
		return nil, err
	}
	withdrawalFixed, err := parseRate("withdrawal fixed fee", rates.WithdrawalFixed)
	if err != nil {
		return nil, err
	}

	return &Calculator{
		depositRate:     depositRate,
		withdrawalRate:  withdrawalRate,
		withdrawalFixed: withdrawalFixed,
	}, nil
}

// DepositFee returns round(amount × deposit rate).
func (c *Calculator) DepositFee(amount decimal.Decimal) decimal.Decimal {
	return entity.RoundMoney(amount.Mul(c.depositRate))
}

// WithdrawalFee returns round(amount × withdrawal rate + fixed addend).
func (c *Calculator) WithdrawalFee(amount decimal.Decimal) decimal.Decimal {
	return entity.RoundMoney(amount.Mul(c.withdrawalRate).Add(c.withdrawalFixed))
}

func parseRate(name, raw string) (decimal.Decimal, error) {
	value, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid %s %q: %w", name, raw, err)
	}
	if value.IsNegative() {
		return decimal.Zero, fmt.Errorf("%s cannot be negative: %s", name, raw)
	}
	return value, nil
}
