package annuity

import (
	"math"

	"github.com/iwvelando/savings-forecast/pkg/constants"
)

// Parameters describes one savings plan in engine terms.
type Parameters struct {
	Deposit    float64 `json:"deposit"`
	PeriodRate float64 `json:"periodRate"`
	Periods    int     `json:"periods"`
	Timing     Timing  `json:"timing"`
}

// Validate reports the first violated invariant, if any.
func (p Parameters) Validate() error {
	if p.Periods < 1 {
		return ErrNoPeriods
	}
	if p.Deposit < 0 || math.IsNaN(p.Deposit) || math.IsInf(p.Deposit, 0) {
		return ErrNegativeDeposit
	}
	if !rateInDomain(p.PeriodRate) {
		return ErrRateOutOfDomain
	}
	return nil
}

// FutureValue is FV over the full period count.
func (p Parameters) FutureValue() float64 {
	return FV(p.Deposit, p.PeriodRate, p.Periods, p.Timing)
}

// Value returns the valuation after n periods.
func (p Parameters) Value(n int) Valuation {
	return valuationAt(p.Deposit, p.PeriodRate, n, p.Timing)
}

// Progression returns the series for the full period count.
func (p Parameters) Progression(step StepUnit) Series {
	return BuildProgression(p.Deposit, p.PeriodRate, p.Periods, p.Timing, step)
}

// Valuation is the state of a plan at one checkpoint.
type Valuation struct {
	Period      int     `json:"period"`
	FutureValue float64 `json:"futureValue"`
	Principal   float64 `json:"principal"`
	Interest    float64 `json:"interest"`
}

// Series holds valuations in ascending period order.
type Series []Valuation

// Last returns the final checkpoint, or false when the series is empty.
func (s Series) Last() (Valuation, bool) {
	if len(s) == 0 {
		return Valuation{}, false
	}
	return s[len(s)-1], true
}

// FutureValues returns just the FV column, for charting.
func (s Series) FutureValues() []float64 {
	values := make([]float64, len(s))
	for i, v := range s {
		values[i] = v.FutureValue
	}
	return values
}

// BuildProgression evaluates the plan at every checkpoint up to totalPeriods.
// Each entry is computed from the closed form with its cumulative period
// count, so no rounding error carries from one entry to the next. PerYear
// only emits completed years and returns an empty series below 12 periods.
func BuildProgression(p, r float64, totalPeriods int, timing Timing, step StepUnit) Series {
	if totalPeriods < 1 {
		return Series{}
	}

	stride := 1
	if step == PerYear {
		stride = constants.MonthsPerYear
	}

	series := make(Series, 0, totalPeriods/stride)
	for n := stride; n <= totalPeriods; n += stride {
		series = append(series, valuationAt(p, r, n, timing))
	}
	return series
}

func valuationAt(p, r float64, n int, timing Timing) Valuation {
	fv := FV(p, r, n, timing)
	principal := p * float64(n)
	return Valuation{
		Period:      n,
		FutureValue: fv,
		Principal:   principal,
		Interest:    fv - principal,
	}
}
