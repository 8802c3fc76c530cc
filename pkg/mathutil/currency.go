// Package mathutil provides common mathematical utility functions.
package mathutil

import (
	"math"

	"github.com/iwvelando/savings-forecast/pkg/constants"
)

// Round rounds a value to two decimals, i.e. to represent real currency.
func Round(val float64) float64 {
	return math.Round(val*constants.DecimalPrecision) / constants.DecimalPrecision
}

// WithinTolerance checks if two values are within a specified tolerance
func WithinTolerance(val1, val2, tolerance float64) bool {
	return math.Abs(val1-val2) <= tolerance
}

// RelativeTolerance scales the currency tolerance to the magnitude of a value
// so large balances are compared at the precision a float64 can hold.
func RelativeTolerance(val float64) float64 {
	return math.Max(constants.CurrencyTolerance, math.Abs(val)*1e-12)
}

// Finite reports whether val is neither NaN nor infinite.
func Finite(val float64) bool {
	return !math.IsNaN(val) && !math.IsInf(val, 0)
}
