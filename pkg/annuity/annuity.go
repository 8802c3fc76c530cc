// Package annuity computes the future value of a fixed monthly deposit plan.
//
// All functions are pure and safe for concurrent use. Rates are per-period
// decimals (0.01 for 1% per month) unless a name says otherwise.
package annuity

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/iwvelando/savings-forecast/pkg/constants"
)

var (
	// ErrRateOutOfDomain is returned for rates at or below -100% or non-finite rates.
	ErrRateOutOfDomain = errors.New("period rate must be finite and greater than -1")
	// ErrNoPeriods is returned when fewer than one period is requested.
	ErrNoPeriods = errors.New("period count must be at least 1")
	// ErrNegativeDeposit is returned for negative or non-finite deposits.
	ErrNegativeDeposit = errors.New("deposit amount must be a non-negative number")
)

// Timing tells when each deposit is posted within its period.
type Timing int

const (
	// Ordinary posts deposits at the end of each period.
	Ordinary Timing = iota
	// Due posts deposits at the start of each period.
	Due
)

func (t Timing) String() string {
	if t == Due {
		return "due"
	}
	return "ordinary"
}

// ParseTiming accepts "ordinary"/"end" and "due"/"start".
func ParseTiming(value string) (Timing, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "ordinary", "end":
		return Ordinary, nil
	case "due", "start":
		return Due, nil
	}
	return Ordinary, fmt.Errorf("unknown deposit timing %q", value)
}

// MarshalText implements encoding.TextMarshaler.
func (t Timing) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *Timing) UnmarshalText(text []byte) error {
	parsed, err := ParseTiming(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// StepUnit selects the checkpoint spacing of a progression.
type StepUnit int

const (
	// PerMonth emits one checkpoint per month.
	PerMonth StepUnit = iota
	// PerYear emits one checkpoint per completed year.
	PerYear
)

func (s StepUnit) String() string {
	if s == PerYear {
		return "year"
	}
	return "month"
}

// ParseStepUnit accepts "month"/"monthly" and "year"/"yearly".
func ParseStepUnit(value string) (StepUnit, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "month", "monthly":
		return PerMonth, nil
	case "year", "yearly", "annual":
		return PerYear, nil
	}
	return PerMonth, fmt.Errorf("unknown progression step %q", value)
}

// RatePeriod is the periodicity a user quotes the return rate in.
type RatePeriod int

const (
	// Annual rates are nominal and divided evenly across 12 months.
	Annual RatePeriod = iota
	// Monthly rates are used as-is.
	Monthly
)

func (p RatePeriod) String() string {
	if p == Monthly {
		return "monthly"
	}
	return "annual"
}

// ParseRatePeriod accepts "annual"/"year" and "monthly"/"month".
func ParseRatePeriod(value string) (RatePeriod, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "annual", "year", "yearly":
		return Annual, nil
	case "monthly", "month":
		return Monthly, nil
	}
	return Annual, fmt.Errorf("unknown rate period %q", value)
}

// MonthlyRateFromAnnualPercent converts a nominal annual percentage to a
// monthly decimal rate by linear division, not geometric de-annualization.
func MonthlyRateFromAnnualPercent(annualPercent float64) float64 {
	return annualPercent / constants.PercentageMultiplier / constants.MonthsPerYear
}

// MonthlyRateFromPercent converts a monthly percentage to a decimal rate.
func MonthlyRateFromPercent(monthlyPercent float64) float64 {
	return monthlyPercent / constants.PercentageMultiplier
}

// MonthlyRate converts a quoted percentage into a monthly decimal rate.
func MonthlyRate(percent float64, period RatePeriod) float64 {
	if period == Monthly {
		return MonthlyRateFromPercent(percent)
	}
	return MonthlyRateFromAnnualPercent(percent)
}

// OrdinaryFV returns the future value of n end-of-period deposits of p at
// rate r. A zero rate returns exactly p*n. Rates at or below -1 and
// non-finite rates return NaN.
func OrdinaryFV(p, r float64, n int) float64 {
	if !rateInDomain(r) {
		return math.NaN()
	}
	if r == 0 {
		return p * float64(n)
	}
	return p * (math.Pow(1+r, float64(n)) - 1) / r
}

// FV returns the future value for the given deposit timing. Due deposits
// earn one extra period of interest each.
func FV(p, r float64, n int, timing Timing) float64 {
	base := OrdinaryFV(p, r, n)
	if timing == Due {
		return base * (1 + r)
	}
	return base
}

func rateInDomain(r float64) bool {
	return r > -1 && !math.IsInf(r, 0) && !math.IsNaN(r)
}
