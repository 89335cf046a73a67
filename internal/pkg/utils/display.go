package utils

import (
	"fmt"
	"math/big"

	"github.com/shopspring/decimal"
)

// FormatPercentage renders a value that is already a percentage, e.g. 8.5 -> "8.50%".
func FormatPercentage(percent decimal.Decimal, decimals int32) string {
	return percent.Truncate(decimals).StringFixed(decimals) + "%"
}

// FormatAddress shortens an address to its first `start` and last `end` characters.
func FormatAddress(address string, start, end int) string {
	if len(address) < start+end {
		return address
	}
	return address[:start] + "..." + address[len(address)-end:]
}

// FormatTxHash shortens a transaction hash keeping `length` visible characters.
func FormatTxHash(hash string, length int) string {
	if len(hash) <= length {
		return hash
	}
	half := length / 2
	return hash[:half] + "..." + hash[len(hash)-half:]
}

// FormatGasPrice renders a wei gas price in gwei.
func FormatGasPrice(wei *big.Int) string {
	if wei == nil || wei.Sign() == 0 {
		return "0 Gwei"
	}
	return FormatNumber(ToDecimal(wei, 9), 2, "en-US", 0) + " Gwei"
}

// FormatDuration renders seconds with the two most significant units.
func FormatDuration(seconds uint64) string {
	switch {
	case seconds < 60:
		return fmt.Sprintf("%ds", seconds)
	case seconds < 3600:
		return joinUnits(seconds/60, "m", seconds%60, "s")
	case seconds < 86400:
		return joinUnits(seconds/3600, "h", (seconds%3600)/60, "m")
	default:
		return joinUnits(seconds/86400, "d", (seconds%86400)/3600, "h")
	}
}

func joinUnits(major uint64, majorUnit string, minor uint64, minorUnit string) string {
	if minor == 0 {
		return fmt.Sprintf("%d%s", major, majorUnit)
	}
	return fmt.Sprintf("%d%s %d%s", major, majorUnit, minor, minorUnit)
}
