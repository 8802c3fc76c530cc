package integration

import (
	"context"
	"testing"

	"github.com/iwvelando/savings-forecast/internal/cache"
	"github.com/iwvelando/savings-forecast/internal/forecast"
	"github.com/iwvelando/savings-forecast/pkg/annuity"
	"go.uber.org/zap"
)

func BenchmarkBuildProgressionMaxMonths(b *testing.B) {
	r := annuity.MonthlyRateFromAnnualPercent(5)
	for i := 0; i < b.N; i++ {
		_ = annuity.BuildProgression(400000, r, 600, annuity.Due, annuity.PerMonth)
	}
}

func BenchmarkForecastUncached(b *testing.B) {
	plan := forecast.Plan{Deposit: 400000, Duration: 50, RatePercent: 5}
	f := forecast.NewForecaster(zap.NewNop(), nil)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := f.Forecast(context.Background(), plan); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkForecastMemoryCache(b *testing.B) {
	plan := forecast.Plan{Deposit: 400000, Duration: 50, RatePercent: 5}
	f := forecast.NewForecaster(zap.NewNop(), cache.NewMemory(0, 0))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := f.Forecast(context.Background(), plan); err != nil {
			b.Fatal(err)
		}
	}
}
