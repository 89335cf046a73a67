// Package validation checks user supplied amounts and parameters before they reach a contract.
package validation

import (
	"regexp"
	"strings"

	"wrmb_dapp/internal/pkg/apperr"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
)

var txHashPattern = regexp.MustCompile(`^0x[0-9a-fA-F]{64}$`)

// Limits used across the product forms.
var (
	MinDepositAmount = decimal.RequireFromString("0.001")
	MaxDepositAmount = decimal.NewFromInt(1_000_000)
	MinBondAmount    = decimal.NewFromInt(100)
	MaxBondAmount    = decimal.NewFromInt(100_000)
)

const (
	MinGasLimit = 21_000
	MaxGasLimit = 10_000_000
)

// ValidateAmount parses amount and checks it against the bounds and the token precision.
// A zero min or max disables that bound.
func ValidateAmount(amount string, min, max decimal.Decimal, decimals int32) (decimal.Decimal, error) {
	amount = strings.TrimSpace(amount)
	if amount == "" {
		return decimal.Zero, apperr.InvalidInput("Amount is required")
	}
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return decimal.Zero, apperr.InvalidInput("Please enter a valid number")
	}
	if d.Sign() <= 0 {
		return decimal.Zero, apperr.InvalidInput("Amount must be greater than 0")
	}
	if !min.IsZero() && d.LessThan(min) {
		return decimal.Zero, apperr.InvalidInput("Minimum amount is %s", min.String())
	}
	if !max.IsZero() && d.GreaterThan(max) {
		return decimal.Zero, apperr.InvalidInput("Maximum amount is %s", max.String())
	}
	if !d.Equal(d.Truncate(decimals)) {
		return decimal.Zero, apperr.InvalidInput("Maximum %d decimal places allowed", decimals)
	}
	return d, nil
}

// ValidateBalance checks that amount does not exceed the available balance.
func ValidateBalance(amount, balance decimal.Decimal) error {
	if amount.GreaterThan(balance) {
		return apperr.New(apperr.KindInsufficientBalance, "Insufficient balance")
	}
	return nil
}

// ValidatePercentage accepts values in [0, 100].
func ValidatePercentage(p decimal.Decimal) error {
	if p.Sign() < 0 || p.GreaterThan(decimal.NewFromInt(100)) {
		return apperr.InvalidInput("Percentage must be between 0 and 100")
	}
	return nil
}

// ValidateSlippage accepts 0.1%..50%. warn is set above 10%.
func ValidateSlippage(p decimal.Decimal) (warn bool, err error) {
	if p.LessThan(decimal.RequireFromString("0.1")) {
		return false, apperr.InvalidInput("Slippage must be at least 0.1%%")
	}
	if p.GreaterThan(decimal.NewFromInt(50)) {
		return false, apperr.InvalidInput("Slippage cannot exceed 50%%")
	}
	return p.GreaterThan(decimal.NewFromInt(10)), nil
}

// ValidateDeadline accepts 1..1440 minutes.
func ValidateDeadline(minutes int) error {
	if minutes < 1 || minutes > 1440 {
		return apperr.InvalidInput("Deadline must be between 1 and 1440 minutes")
	}
	return nil
}

// ValidateGasLimit accepts 21000..10,000,000.
func ValidateGasLimit(limit uint64) error {
	if limit < MinGasLimit || limit > MaxGasLimit {
		return apperr.InvalidInput("Gas limit must be between %d and %d", MinGasLimit, MaxGasLimit)
	}
	return nil
}

// ValidateGasPrice accepts 0.1..1000 gwei.
func ValidateGasPrice(gwei decimal.Decimal) error {
	if gwei.LessThan(decimal.RequireFromString("0.1")) || gwei.GreaterThan(decimal.NewFromInt(1000)) {
		return apperr.InvalidInput("Gas price must be between 0.1 and 1000 Gwei")
	}
	return nil
}

// IsValidAddress reports whether s is a 20-byte hex address that is not the zero address.
func IsValidAddress(s string) bool {
	return common.IsHexAddress(s) && common.HexToAddress(s) != (common.Address{})
}

// IsValidTxHash reports whether s is a 32-byte 0x-prefixed hash.
func IsValidTxHash(s string) bool {
	return txHashPattern.MatchString(s)
}
