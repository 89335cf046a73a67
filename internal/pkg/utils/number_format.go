package utils

import (
	"math/big"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
)

type separators struct {
	group   string
	decimal string
}

var (
	localeTags = []language.Tag{
		language.AmericanEnglish,
		language.SimplifiedChinese,
		language.German,
		language.French,
	}
	localeSeparators = []separators{
		{group: ",", decimal: "."},
		{group: ",", decimal: "."},
		{group: ".", decimal: ","},
		{group: "\u202f", decimal: ","},
	}
	localeMatcher = language.NewMatcher(localeTags)
)

type abbreviationTier struct {
	exp    int32
	suffix string
}

// Highest tier first.
var abbreviationTiers = []abbreviationTier{
	{exp: 12, suffix: "T"},
	{exp: 9, suffix: "B"},
	{exp: 6, suffix: "M"},
	{exp: 3, suffix: "K"},
}

func separatorsFor(locale string) separators {
	tag, err := language.Parse(locale)
	if err != nil {
		return localeSeparators[0]
	}
	_, idx, conf := localeMatcher.Match(tag)
	if conf == language.No {
		return localeSeparators[0]
	}
	return localeSeparators[idx]
}

// FormatNumber renders a human-scaled value for display.
//
// The value is truncated toward zero at `decimals` places and never rounded. A positive
// value that truncates to zero is shown as "<0.01" (for decimals=2). abbreviationThreshold is a power of
// ten: a K/M/B/T tier is used only when its exponent is at least the threshold and the
// magnitude reaches it. Zero disables abbreviation. Abbreviated mantissas drop trailing zeros.
func FormatNumber(value decimal.Decimal, decimals int32, locale string, abbreviationThreshold int) string {
	if decimals < 0 {
		decimals = 0
	}
	sep := separatorsFor(locale)

	if abbreviationThreshold > 0 {
		abs := value.Abs()
		for _, tier := range abbreviationTiers {
			if int(tier.exp) < abbreviationThreshold {
				break
			}
			if abs.GreaterThanOrEqual(decimal.New(1, tier.exp)) {
				mantissa := value.Shift(-tier.exp).Truncate(decimals)
				return renderDecimal(mantissa, decimals, sep, true) + tier.suffix
			}
		}
	}

	truncated := value.Truncate(decimals)
	if truncated.IsZero() && value.Sign() > 0 {
		return "<" + renderDecimal(decimal.New(1, -decimals), decimals, sep, false)
	}
	return renderDecimal(truncated, decimals, sep, false)
}

// FormatTokenAmount converts base units to a display string using exact decimal arithmetic.
func FormatTokenAmount(baseUnits *big.Int, tokenDecimals, displayDecimals int32) string {
	return FormatNumber(ToDecimal(baseUnits, tokenDecimals), displayDecimals, "en-US", 0)
}

// FormatLargeNumber abbreviates from thousands upward with two decimals.
func FormatLargeNumber(value decimal.Decimal) string {
	return FormatNumber(value, 2, "en-US", 3)
}

func renderDecimal(d decimal.Decimal, decimals int32, sep separators, trimZeros bool) string {
	text := d.StringFixed(decimals)
	negative := strings.HasPrefix(text, "-")
	text = strings.TrimPrefix(text, "-")

	intPart, fracPart, _ := strings.Cut(text, ".")
	if trimZeros {
		fracPart = strings.TrimRight(fracPart, "0")
	}

	var b strings.Builder
	if negative && (strings.Trim(intPart, "0") != "" || strings.Trim(fracPart, "0") != "") {
		b.WriteByte('-')
	}
	b.WriteString(groupDigits(intPart, sep.group))
	if fracPart != "" {
		b.WriteString(sep.decimal)
		b.WriteString(fracPart)
	}
	return b.String()
}

func groupDigits(digits, group string) string {
	if len(digits) <= 3 {
		return digits
	}
	var b strings.Builder
	head := len(digits) % 3
	if head > 0 {
		b.WriteString(digits[:head])
	}
	for i := head; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteString(group)
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}
