package forecast

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/iwvelando/savings-forecast/internal/cache"
	"github.com/iwvelando/savings-forecast/pkg/annuity"
	"go.uber.org/zap"
)

func TestGetForecastDefaultPlan(t *testing.T) {
	logger, _ := zap.NewDevelopment()

	result, err := GetForecast(logger, DefaultPlan())
	if err != nil {
		t.Fatalf("GetForecast() error = %v", err)
	}

	if result.Parameters.Periods != 96 {
		t.Errorf("expected 96 months, got %d", result.Parameters.Periods)
	}
	if math.Abs(result.MonthlyRate-0.05/12) > 1e-15 {
		t.Errorf("expected monthly rate %v, got %v", 0.05/12, result.MonthlyRate)
	}
	if len(result.Monthly) != 96 {
		t.Errorf("expected 96 monthly rows, got %d", len(result.Monthly))
	}
	if len(result.Yearly) != 8 {
		t.Errorf("expected 8 yearly rows, got %d", len(result.Yearly))
	}

	want := annuity.FV(400000, 0.05/12, 96, annuity.Ordinary)
	if result.Summary.FutureValue != want {
		t.Errorf("summary FV = %v, expected %v", result.Summary.FutureValue, want)
	}
	if result.Summary.Principal != 38_400_000 {
		t.Errorf("summary principal = %v, expected 38400000", result.Summary.Principal)
	}
	if math.Abs(result.Summary.Principal+result.Summary.Interest-result.Summary.FutureValue) > 1e-6 {
		t.Errorf("principal + interest does not equal FV: %+v", result.Summary)
	}
}

func TestGetForecastMonthlyRateAndDue(t *testing.T) {
	plan := Plan{
		Deposit:      100000,
		Duration:     24,
		DurationUnit: "months",
		RatePercent:  1,
		RatePeriod:   "monthly",
		Timing:       "due",
	}

	result, err := GetForecast(nil, plan)
	if err != nil {
		t.Fatalf("GetForecast() error = %v", err)
	}

	if result.MonthlyRate != 0.01 {
		t.Errorf("expected monthly rate 0.01, got %v", result.MonthlyRate)
	}
	if len(result.Yearly) != 2 {
		t.Errorf("expected 2 yearly rows, got %d", len(result.Yearly))
	}
	first := result.Monthly[0]
	if math.Abs(first.FutureValue-101000) > 1e-9 {
		t.Errorf("first due month FV = %v, expected 101000", first.FutureValue)
	}
}

func TestGetForecastShortPlanHasNoYearlyTable(t *testing.T) {
	plan := Plan{Deposit: 50000, Duration: 11, DurationUnit: "months", RatePercent: 6}

	result, err := GetForecast(zap.NewNop(), plan)
	if err != nil {
		t.Fatalf("GetForecast() error = %v", err)
	}
	if len(result.Yearly) != 0 {
		t.Errorf("expected empty yearly table, got %d rows", len(result.Yearly))
	}
	if len(result.Monthly) != 11 {
		t.Errorf("expected 11 monthly rows, got %d", len(result.Monthly))
	}
}

func TestGetForecastZeroRate(t *testing.T) {
	plan := Plan{Deposit: 1000, Duration: 3, DurationUnit: "years", RatePercent: 0}

	result, err := GetForecast(zap.NewNop(), plan)
	if err != nil {
		t.Fatalf("GetForecast() error = %v", err)
	}
	if result.Summary.FutureValue != 36000 || result.Summary.Interest != 0 {
		t.Errorf("expected FV 36000 with no interest, got %+v", result.Summary)
	}
}

func TestGetForecastRejectsInvalidPlan(t *testing.T) {
	_, err := GetForecast(zap.NewNop(), Plan{Deposit: -5, Duration: 1, RatePercent: 5})
	if !errors.Is(err, ErrDepositOutOfRange) {
		t.Fatalf("expected ErrDepositOutOfRange, got %v", err)
	}
}

func TestForecasterUsesCache(t *testing.T) {
	mem := cache.NewMemory(0, 0)
	f := NewForecaster(zap.NewNop(), mem)
	ctx := context.Background()

	first, err := f.Forecast(ctx, DefaultPlan())
	if err != nil {
		t.Fatalf("Forecast() error = %v", err)
	}
	if mem.Len() != 2 {
		t.Fatalf("expected monthly and yearly progressions cached, got %d entries", mem.Len())
	}

	second, err := f.Forecast(ctx, DefaultPlan())
	if err != nil {
		t.Fatalf("Forecast() error = %v", err)
	}
	if len(second.Monthly) != len(first.Monthly) {
		t.Fatalf("cached monthly length %d differs from %d", len(second.Monthly), len(first.Monthly))
	}
	for i := range first.Monthly {
		if first.Monthly[i] != second.Monthly[i] {
			t.Fatalf("cached row %d differs: %+v vs %+v", i, first.Monthly[i], second.Monthly[i])
		}
	}
}

func TestForecasterIgnoresMalformedCacheEntry(t *testing.T) {
	mem := cache.NewMemory(0, 0)
	plan := DefaultPlan()
	params, err := plan.Parameters()
	if err != nil {
		t.Fatalf("Parameters() error = %v", err)
	}
	ctx := context.Background()
	_ = mem.Set(ctx, cache.Key(params, annuity.PerMonth), annuity.Series{{Period: 1}})

	result, err := NewForecaster(zap.NewNop(), mem).Forecast(ctx, plan)
	if err != nil {
		t.Fatalf("Forecast() error = %v", err)
	}
	if len(result.Monthly) != 96 {
		t.Errorf("expected recomputed 96 rows, got %d", len(result.Monthly))
	}
}
