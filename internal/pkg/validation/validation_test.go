package validation

import (
	"testing"

	"wrmb_dapp/internal/pkg/apperr"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateAmount(t *testing.T) {
	d, err := ValidateAmount(" 12.5 ", MinDepositAmount, MaxDepositAmount, 18)
	require.NoError(t, err)
	assert.Equal(t, "12.5", d.String())

	bad := []struct {
		amount   string
		decimals int32
	}{
		{"", 18},
		{"abc", 18},
		{"0", 18},
		{"-1", 18},
		{"0.0001", 18},
		{"1000001", 18},
		{"1.1234567", 6},
	}
	for _, b := range bad {
		_, err := ValidateAmount(b.amount, MinDepositAmount, MaxDepositAmount, b.decimals)
		require.Error(t, err, b.amount)
		assert.Equal(t, apperr.KindInvalidInput, apperr.KindOf(err), b.amount)
	}

	_, err = ValidateAmount("5000000", decimal.Zero, decimal.Zero, 6)
	assert.NoError(t, err)
}

func TestValidateSlippage(t *testing.T) {
	warn, err := ValidateSlippage(decimal.RequireFromString("0.5"))
	require.NoError(t, err)
	assert.False(t, warn)

	warn, err = ValidateSlippage(decimal.NewFromInt(15))
	require.NoError(t, err)
	assert.True(t, warn)

	_, err = ValidateSlippage(decimal.RequireFromString("0.05"))
	assert.Error(t, err)
	_, err = ValidateSlippage(decimal.NewFromInt(51))
	assert.Error(t, err)
}

func TestMiscValidators(t *testing.T) {
	assert.NoError(t, ValidateDeadline(20))
	assert.Error(t, ValidateDeadline(0))
	assert.Error(t, ValidateDeadline(1441))

	assert.NoError(t, ValidateGasLimit(21_000))
	assert.Error(t, ValidateGasLimit(20_999))

	assert.NoError(t, ValidateGasPrice(decimal.NewFromInt(30)))
	assert.Error(t, ValidateGasPrice(decimal.NewFromInt(1001)))

	assert.NoError(t, ValidatePercentage(decimal.NewFromInt(100)))
	assert.Error(t, ValidatePercentage(decimal.NewFromInt(101)))

	assert.Error(t, ValidateBalance(decimal.NewFromInt(2), decimal.NewFromInt(1)))
	assert.Equal(t, apperr.KindInsufficientBalance, apperr.KindOf(ValidateBalance(decimal.NewFromInt(2), decimal.NewFromInt(1))))

	assert.True(t, IsValidAddress("0xdAC17F958D2ee523a2206206994597C13D831ec7"))
	assert.False(t, IsValidAddress("0x0000000000000000000000000000000000000000"))
	assert.False(t, IsValidAddress("0x123"))

	assert.True(t, IsValidTxHash("0x"+"ab"+"0123456789abcdef0123456789abcdef0123456789abcdef0123456789abcd"))
	assert.False(t, IsValidTxHash("0x1234"))
}
