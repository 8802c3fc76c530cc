// Package forecast turns a user-entered savings plan into the summary and
// progression tables shown to the user.
package forecast

import (
	"context"
	"fmt"

	"github.com/iwvelando/savings-forecast/internal/cache"
	"github.com/iwvelando/savings-forecast/pkg/annuity"
	"github.com/iwvelando/savings-forecast/pkg/constants"
	"github.com/iwvelando/savings-forecast/pkg/mathutil"
	"go.uber.org/zap"
)

// Forecast holds all information related to a specific plan.
type Forecast struct {
	Plan        Plan               `json:"plan"`
	Parameters  annuity.Parameters `json:"parameters"`
	MonthlyRate float64            `json:"monthlyRate"`
	Summary     annuity.Valuation  `json:"summary"`
	Yearly      annuity.Series     `json:"yearly"`
	Monthly     annuity.Series     `json:"monthly"`
}

// Forecaster computes forecasts, optionally reusing cached progressions.
type Forecaster struct {
	logger *zap.Logger
	cache  cache.Cache
}

// NewForecaster creates a Forecaster. A nil cache disables caching.
func NewForecaster(logger *zap.Logger, c cache.Cache) *Forecaster {
	if logger == nil {
		logger = zap.NewNop()
	}
	if c == nil {
		c = cache.Nop{}
	}
	return &Forecaster{logger: logger, cache: c}
}

// GetForecast computes a forecast without caching.
func GetForecast(logger *zap.Logger, plan Plan) (*Forecast, error) {
	return NewForecaster(logger, nil).Forecast(context.Background(), plan)
}

// Forecast validates the plan and computes the full-duration summary plus
// yearly and monthly progressions. The yearly table is empty for plans
// shorter than a year.
func (f *Forecaster) Forecast(ctx context.Context, plan Plan) (*Forecast, error) {
	params, err := plan.Parameters()
	if err != nil {
		return nil, fmt.Errorf("invalid plan: %w", err)
	}

	monthly := f.progression(ctx, params, annuity.PerMonth)
	yearly := f.progression(ctx, params, annuity.PerYear)

	summary := params.Value(params.Periods)
	if last, ok := monthly.Last(); ok && !mathutil.WithinTolerance(last.FutureValue, summary.FutureValue, mathutil.RelativeTolerance(summary.FutureValue)) {
		return nil, fmt.Errorf("progression ends at %v but plan value is %v", last.FutureValue, summary.FutureValue)
	}

	f.logger.Debug("forecast computed",
		zap.String("op", "forecast.Forecast"),
		zap.Int("months", params.Periods),
		zap.Float64("monthlyRate", params.PeriodRate),
		zap.Stringer("timing", params.Timing),
		zap.Float64("futureValue", summary.FutureValue),
	)

	return &Forecast{
		Plan:        plan,
		Parameters:  params,
		MonthlyRate: params.PeriodRate,
		Summary:     summary,
		Yearly:      yearly,
		Monthly:     monthly,
	}, nil
}

func (f *Forecaster) progression(ctx context.Context, params annuity.Parameters, step annuity.StepUnit) annuity.Series {
	key := cache.Key(params, step)
	if series, ok := f.cache.Get(ctx, key); ok && len(series) == expectedLength(params.Periods, step) {
		f.logger.Debug("progression cache hit",
			zap.String("op", "forecast.progression"),
			zap.String("key", key),
		)
		return series
	}

	series := params.Progression(step)
	if err := f.cache.Set(ctx, key, series); err != nil {
		f.logger.Warn("failed to cache progression",
			zap.String("op", "forecast.progression"),
			zap.String("key", key),
			zap.Error(err),
		)
	}
	return series
}

func expectedLength(periods int, step annuity.StepUnit) int {
	if step == annuity.PerYear {
		return periods / constants.MonthsPerYear
	}
	return periods
}
