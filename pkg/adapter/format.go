package adapter

import (
	"fmt"
	"math"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
)

// FormatUSD renders amount the way en-US currency formatting does: dollar
// sign, comma thousands separators, two decimals, rounding half away from
// zero. Negative amounts read "-$1,234.50", and so do negative zero and
// negatives that round to zero ("-$0.00").
func FormatUSD(amount float64) string {
	if math.IsNaN(amount) {
		return "$NaN"
	}
	if math.IsInf(amount, 1) {
		return "$∞"
	}
	if math.IsInf(amount, -1) {
		return "-$∞"
	}

	sign := ""
	if math.Signbit(amount) {
		sign = "-"
	}
	d := decimal.NewFromFloat(math.Abs(amount)).Round(2)

	whole := d.Truncate(0)
	cents := d.Sub(whole).Shift(2).IntPart()

	return sign + "$" + humanize.BigComma(whole.BigInt()) + fmt.Sprintf(".%02d", cents)
}
