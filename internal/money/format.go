// Package money formats amounts for display: British pounds, whole pounds,
// thousands separators.
package money

import (
	"fmt"
	"math"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// gbp is the GBP formatter from go-money with the pence dropped.
var gbp = func() *money.Formatter {
	f := money.GetCurrency(money.GBP).Formatter()
	return money.NewFormatter(0, f.Decimal, f.Thousand, f.Grapheme, f.Template)
}()

// Pounds rounds to the nearest whole pound (half away from zero).
// Non-finite values are 0.
func Pounds(v float64) int64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return decimal.NewFromFloat(v).Round(0).IntPart()
}

// Format renders v like "£750,000" or "-£5,000".
func Format(v float64) string {
	return gbp.Format(Pounds(v))
}

// Percent renders a display percentage with one decimal, e.g. "87.2%".
func Percent(p float64) string {
	if math.IsNaN(p) || math.IsInf(p, 0) {
		p = 0
	}
	return fmt.Sprintf("%.1f%%", p)
}
