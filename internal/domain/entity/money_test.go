package entity

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errs "github.com/pmotterani/flexipay/internal/domain/error"
)

func TestParseAmount(t *testing.T) {
	t.Run("should parse valid amounts", func(t *testing.T) {
		cases := []struct {
			input    string
			expected string
		}{
			{"100.00", "100.00"},
			{"0.01", "0.01"},
			{"7.50", "7.50"},
			{"1000", "1000.00"},
			{"0", "0.00"},
			{"  25.99  ", "25.99"},
			{"99999999.99", "99999999.99"},
		}

		for _, tc := range cases {
			value, err := ParseAmount(tc.input)
			require.NoError(t, err, "input %q", tc.input)
			assert.Equal(t, tc.expected, FormatAmount(value), "input %q", tc.input)
		}
	})

	t.Run("should reject empty input", func(t *testing.T) {
		_, err := ParseAmount("")
		assert.ErrorIs(t, err, errs.ErrInvalidAmount)

		_, err = ParseAmount("   ")
		assert.ErrorIs(t, err, errs.ErrInvalidAmount)
	})

	t.Run("should reject malformed input", func(t *testing.T) {
		for _, input := range []string{"abc", "10,50", "1.2.3", "R$ 10"} {
			_, err := ParseAmount(input)
			assert.ErrorIs(t, err, errs.ErrInvalidAmount, "input %q", input)
		}
	})

	t.Run("should reject negative amounts", func(t *testing.T) {
		_, err := ParseAmount("-10.00")
		assert.ErrorIs(t, err, errs.ErrNegativeAmount)
	})

	t.Run("should reject more than two decimal places", func(t *testing.T) {
		for _, input := range []string{"10.001", "0.999", "1.2345"} {
			_, err := ParseAmount(input)
			assert.ErrorIs(t, err, errs.ErrInvalidAmount, "input %q", input)
		}
	})

	t.Run("should reject amounts beyond the storage precision", func(t *testing.T) {
		for _, input := range []string{"100000000", "100000000.00", "999999999.99"} {
			_, err := ParseAmount(input)
			assert.ErrorIs(t, err, errs.ErrAmountOverflow, "input %q", input)
		}
	})
}

func TestRoundMoney(t *testing.T) {
	cases := []struct {
		input    string
		expected string
	}{
		{"2.344", "2.34"},
		{"2.345", "2.35"}, // half rounds up
		{"2.346", "2.35"},
		{"4.745", "4.75"},
		{"11.00", "11.00"},
		{"0.005", "0.01"},
	}

	for _, tc := range cases {
		rounded := RoundMoney(decimal.RequireFromString(tc.input))
		assert.Equal(t, tc.expected, FormatAmount(rounded), "input %s", tc.input)
	}
}

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "0.00", FormatAmount(decimal.Zero))
	assert.Equal(t, "100.00", FormatAmount(decimal.RequireFromString("100")))
	assert.Equal(t, "45.25", FormatAmount(decimal.RequireFromString("45.25")))
	assert.Equal(t, "7.50", FormatAmount(decimal.RequireFromString("7.5")))
}
