package money

import "github.com/shopspring/decimal"

// Round2 rounds a currency value to 2 decimal places (half away from
// zero), going through decimal to avoid float drift at the cent level.
func Round2(v float64) float64 {
	f, _ := decimal.NewFromFloat(v).Round(2).Float64()
	return f
}

// Cents returns the value in whole cents, rounded.
func Cents(v float64) int64 {
	return decimal.NewFromFloat(v).Round(2).Shift(2).IntPart()
}
