package output

import (
	"strconv"

	"github.com/rpgo/lifeplan-simulator/pkg/money"
	"github.com/shopspring/decimal"
)

// FormatManYen formats a man-yen figure with one decimal, e.g. "650.4".
func FormatManYen(amount decimal.Decimal) string { return money.String(amount) }

// FormatYen formats a man-yen figure as whole yen, e.g. "¥6,504,350".
func FormatYen(amount decimal.Decimal) string { return money.Display(amount) }

// FormatPercentage formats a percent value with 1 decimal.
func FormatPercentage(amount decimal.Decimal) string { return amount.StringFixed(1) + "%" }

func intToString(v int) string { return strconv.Itoa(v) }
