// Package finance simulates a savings account month by month.
//
// The ledger posts every deposit and every month of growth explicitly, so it
// reproduces what a bank statement would show. It accumulates rounding error
// across months and is not used to produce forecast figures; those come from
// the closed form in package annuity. It serves as an independent check of
// those figures.
package finance

import (
	"fmt"

	"github.com/iwvelando/savings-forecast/pkg/annuity"
	"go.uber.org/zap"
)

// LedgerEntry captures the postings for a single month.
type LedgerEntry struct {
	Month             int
	Deposit           float64
	Growth            float64
	Balance           float64
	CumulativeDeposit float64
}

// LedgerProcessor runs month-by-month simulations.
type LedgerProcessor struct {
	logger *zap.Logger
}

// NewLedgerProcessor creates a processor for ledger simulations.
func NewLedgerProcessor(logger *zap.Logger) *LedgerProcessor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LedgerProcessor{logger: logger}
}

// Simulate posts params.Periods months. Due deposits are credited before the
// month's growth, ordinary deposits after it.
func (lp *LedgerProcessor) Simulate(params annuity.Parameters) ([]LedgerEntry, error) {
	if err := params.Validate(); err != nil {
		return nil, fmt.Errorf("cannot simulate ledger: %w", err)
	}

	entries := make([]LedgerEntry, 0, params.Periods)
	balance := 0.0
	deposited := 0.0
	for month := 1; month <= params.Periods; month++ {
		if params.Timing == annuity.Due {
			balance += params.Deposit
		}

		growth := balance * params.PeriodRate
		balance += growth

		if params.Timing == annuity.Ordinary {
			balance += params.Deposit
		}
		deposited += params.Deposit

		entries = append(entries, LedgerEntry{
			Month:             month,
			Deposit:           params.Deposit,
			Growth:            growth,
			Balance:           balance,
			CumulativeDeposit: deposited,
		})
	}

	lp.logger.Debug("ledger simulated",
		zap.String("op", "finance.Simulate"),
		zap.Int("months", params.Periods),
		zap.Float64("balance", balance),
	)
	return entries, nil
}

// TotalGrowth sums the growth column.
func TotalGrowth(entries []LedgerEntry) float64 {
	total := 0.0
	for _, e := range entries {
		total += e.Growth
	}
	return total
}
