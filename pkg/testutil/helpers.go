// Package testutil provides common utility functions for testing.
package testutil

import (
	"github.com/iwvelando/savings-forecast/pkg/annuity"
)

// FindPeriod finds the checkpoint for a given period in a series.
// Returns a pointer to the valuation if found, nil otherwise.
func FindPeriod(series annuity.Series, period int) *annuity.Valuation {
	for i := range series {
		if series[i].Period == period {
			return &series[i]
		}
	}
	return nil
}

// CheckpointsConsistent reports the first period whose principal and
// interest do not add up to its future value within tolerance, or 0.
func CheckpointsConsistent(series annuity.Series, tolerance float64) int {
	for _, v := range series {
		diff := v.Principal + v.Interest - v.FutureValue
		if diff > tolerance || diff < -tolerance {
			return v.Period
		}
	}
	return 0
}
