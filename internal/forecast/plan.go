package forecast

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/iwvelando/savings-forecast/pkg/annuity"
	"github.com/iwvelando/savings-forecast/pkg/constants"
)

// Duration units accepted in a Plan.
const (
	DurationYears  = "years"
	DurationMonths = "months"
)

var (
	// ErrDepositOutOfRange is returned for negative or non-finite deposits.
	ErrDepositOutOfRange = errors.New("deposit out of range")
	// ErrDurationOutOfRange is returned when the duration falls outside its unit's bounds.
	ErrDurationOutOfRange = errors.New("duration out of range")
	// ErrRateOutOfRange is returned when the return rate is outside 0-50%.
	ErrRateOutOfRange = errors.New("rate out of range")
)

// Plan is a savings plan as a user enters it.
type Plan struct {
	Deposit      float64 `yaml:"deposit" json:"deposit"`
	Duration     int     `yaml:"duration" json:"duration"`
	DurationUnit string  `yaml:"durationUnit" json:"durationUnit"` // years, months
	RatePercent  float64 `yaml:"ratePercent" json:"ratePercent"`
	RatePeriod   string  `yaml:"ratePeriod" json:"ratePeriod"` // annual, monthly
	Timing       string  `yaml:"timing" json:"timing"`         // ordinary, due
}

// DefaultPlan returns 400.000 per month for 8 years at 5% per year,
// deposited at the end of each month.
func DefaultPlan() Plan {
	return Plan{
		Deposit:      constants.DefaultDeposit,
		Duration:     constants.DefaultDurationYears,
		DurationUnit: DurationYears,
		RatePercent:  constants.DefaultRatePercent,
		RatePeriod:   annuity.Annual.String(),
		Timing:       annuity.Ordinary.String(),
	}
}

func (p Plan) durationUnit() (string, error) {
	switch strings.ToLower(strings.TrimSpace(p.DurationUnit)) {
	case "", "year", "years":
		return DurationYears, nil
	case "month", "months":
		return DurationMonths, nil
	}
	return "", fmt.Errorf("unknown duration unit %q", p.DurationUnit)
}

// Validate enforces the input bounds the engine relies on.
func (p Plan) Validate() error {
	if p.Deposit < 0 || math.IsNaN(p.Deposit) || math.IsInf(p.Deposit, 0) {
		return fmt.Errorf("%w: deposit must be at least 0, got %v", ErrDepositOutOfRange, p.Deposit)
	}

	unit, err := p.durationUnit()
	if err != nil {
		return err
	}
	switch unit {
	case DurationYears:
		if p.Duration < constants.MinDurationYears || p.Duration > constants.MaxDurationYears {
			return fmt.Errorf("%w: years must be between %d and %d, got %d",
				ErrDurationOutOfRange, constants.MinDurationYears, constants.MaxDurationYears, p.Duration)
		}
	case DurationMonths:
		if p.Duration < constants.MinDurationMonths || p.Duration > constants.MaxDurationMonths {
			return fmt.Errorf("%w: months must be between %d and %d, got %d",
				ErrDurationOutOfRange, constants.MinDurationMonths, constants.MaxDurationMonths, p.Duration)
		}
	}

	if math.IsNaN(p.RatePercent) || p.RatePercent < constants.MinRatePercent || p.RatePercent > constants.MaxRatePercent {
		return fmt.Errorf("%w: rate must be between %.0f%% and %.0f%%, got %v",
			ErrRateOutOfRange, constants.MinRatePercent, constants.MaxRatePercent, p.RatePercent)
	}

	if _, err := annuity.ParseRatePeriod(p.RatePeriod); err != nil {
		return err
	}
	if _, err := annuity.ParseTiming(p.Timing); err != nil {
		return err
	}
	return nil
}

// Months returns the plan length in months.
func (p Plan) Months() int {
	if unit, _ := p.durationUnit(); unit == DurationMonths {
		return p.Duration
	}
	return p.Duration * constants.MonthsPerYear
}

// Years returns the number of completed years in the plan.
func (p Plan) Years() int {
	return p.Months() / constants.MonthsPerYear
}

// Parameters validates the plan and converts it to engine parameters.
func (p Plan) Parameters() (annuity.Parameters, error) {
	if err := p.Validate(); err != nil {
		return annuity.Parameters{}, err
	}
	period, _ := annuity.ParseRatePeriod(p.RatePeriod)
	timing, _ := annuity.ParseTiming(p.Timing)
	return annuity.Parameters{
		Deposit:    p.Deposit,
		PeriodRate: annuity.MonthlyRate(p.RatePercent, period),
		Periods:    p.Months(),
		Timing:     timing,
	}, nil
}
