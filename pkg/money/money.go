// Package money holds the arithmetic shared by every calculator. All amounts
// are expressed in man-yen (10,000 yen) and all rates are percentages.
package money

import (
	gomoney "github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

var (
	ten     = decimal.NewFromInt(10)
	half    = decimal.NewFromFloat(0.5)
	hundred = decimal.NewFromInt(100)

	// YenPerManYen converts between the ledger unit and yen.
	YenPerManYen = decimal.NewFromInt(10000)
)

// Round1 rounds to one decimal place, ties toward positive infinity.
func Round1(d decimal.Decimal) decimal.Decimal {
	return d.Mul(ten).Add(half).Floor().Div(ten)
}

// Rate converts a percentage into a fraction (5 -> 0.05).
func Rate(percent decimal.Decimal) decimal.Decimal {
	return percent.Div(hundred)
}

// Percent returns amount × percent / 100.
func Percent(amount, percent decimal.Decimal) decimal.Decimal {
	return amount.Mul(percent).Div(hundred)
}

// Growth returns (1 + percent/100)^years. Negative years yield 1.
func Growth(percent decimal.Decimal, years int) decimal.Decimal {
	factor := decimal.NewFromInt(1)
	step := decimal.NewFromInt(1).Add(Rate(percent))
	for i := 0; i < years; i++ {
		factor = factor.Mul(step)
	}
	return factor
}

// Clamp bounds d to [lo, hi].
func Clamp(d, lo, hi decimal.Decimal) decimal.Decimal {
	return decimal.Min(decimal.Max(d, lo), hi)
}

// NonNegative floors d at zero.
func NonNegative(d decimal.Decimal) decimal.Decimal {
	return decimal.Max(d, decimal.Zero)
}

// ToYen converts man-yen to yen.
func ToYen(manYen decimal.Decimal) decimal.Decimal {
	return manYen.Mul(YenPerManYen)
}

// FromYen converts yen to man-yen.
func FromYen(yen decimal.Decimal) decimal.Decimal {
	return yen.Div(YenPerManYen)
}

// Display renders a man-yen amount as whole yen, e.g. "¥6,504,350".
func Display(manYen decimal.Decimal) string {
	yen := ToYen(manYen).Round(0).IntPart()
	return gomoney.New(yen, gomoney.JPY).Display()
}

// String renders a man-yen amount with one decimal place.
func String(manYen decimal.Decimal) string {
	return manYen.StringFixed(1)
}
