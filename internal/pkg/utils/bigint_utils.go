package utils

import (
	"fmt"
	"math/big"

	"github.com/shopspring/decimal"
)

// ToDecimal scales a base-unit amount down by 10^decimals without any precision loss.
func ToDecimal(amount *big.Int, decimals int32) decimal.Decimal {
	if amount == nil {
		return decimal.Zero
	}
	return decimal.NewFromBigInt(amount, -decimals)
}

// FormatBigInt converts a base-unit amount to a plain decimal string with trailing zeros trimmed.
// Example: amount=1234500000000000000, decimals=18 => "1.2345"
func FormatBigInt(amount *big.Int, decimals int32) string {
	return ToDecimal(amount, decimals).String()
}

// ParseUnits converts a human decimal string into base units.
// It refuses values with more fractional digits than the token supports.
func ParseUnits(value string, decimals int32) (*big.Int, error) {
	d, err := decimal.NewFromString(value)
	if err != nil {
		return nil, fmt.Errorf("invalid amount %q: %w", value, err)
	}
	if !d.Equal(d.Truncate(decimals)) {
		return nil, fmt.Errorf("amount %q has more than %d decimal places", value, decimals)
	}
	return d.Shift(decimals).BigInt(), nil
}

// MustParseUnits is ParseUnits for compile-time constants.
func MustParseUnits(value string, decimals int32) *big.Int {
	v, err := ParseUnits(value, decimals)
	if err != nil {
		panic(err)
	}
	return v
}

// CalculatePercentageAmount returns balance*percentage/100 with exactly `decimals`
// fractional digits, truncated.
func CalculatePercentageAmount(balance string, percentage decimal.Decimal, decimals int32) (string, error) {
	b, err := decimal.NewFromString(balance)
	if err != nil {
		return "", fmt.Errorf("invalid balance %q: %w", balance, err)
	}
	return b.Mul(percentage).Shift(-2).Truncate(decimals).StringFixed(decimals), nil
}
