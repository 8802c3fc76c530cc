// Package cache stores computed progressions keyed by their input tuple.
// Progressions are deterministic, so a cache never changes results; it only
// skips recomputation for repeated requests.
package cache

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/iwvelando/savings-forecast/pkg/annuity"
	"github.com/iwvelando/savings-forecast/pkg/constants"
)

// Cache holds progressions by key.
type Cache interface {
	Get(ctx context.Context, key string) (annuity.Series, bool)
	Set(ctx context.Context, key string, series annuity.Series) error
}

// Key builds the canonical key for a progression. Floats are encoded with
// the shortest exact representation so distinct inputs never collide.
func Key(params annuity.Parameters, step annuity.StepUnit) string {
	return fmt.Sprintf("%s%s|%s|%d|%s|%s",
		constants.CacheKeyPrefix,
		strconv.FormatFloat(params.Deposit, 'g', -1, 64),
		strconv.FormatFloat(params.PeriodRate, 'g', -1, 64),
		params.Periods,
		params.Timing,
		step,
	)
}

// Nop never stores anything.
type Nop struct{}

// Get always misses.
func (Nop) Get(context.Context, string) (annuity.Series, bool) { return nil, false }

// Set discards the series.
func (Nop) Set(context.Context, string, annuity.Series) error { return nil }

// Memory is a bounded in-process cache safe for concurrent use. The least
// recently used progression is evicted once capacity is reached, and entries
// expire after the configured TTL.
type Memory struct {
	lru *expirable.LRU[string, annuity.Series]
}

// NewMemory creates an empty in-process cache holding at most capacity
// progressions. A non-positive capacity uses the default; a non-positive ttl
// keeps entries until they are evicted.
func NewMemory(capacity int, ttl time.Duration) *Memory {
	if capacity <= 0 {
		capacity = constants.DefaultMemoryCacheEntries
	}
	return &Memory{lru: expirable.NewLRU[string, annuity.Series](capacity, nil, ttl)}
}

// Get returns a copy of the stored series.
func (m *Memory) Get(_ context.Context, key string) (annuity.Series, bool) {
	series, ok := m.lru.Get(key)
	if !ok {
		return nil, false
	}
	return append(annuity.Series(nil), series...), true
}

// Set stores a copy of series.
func (m *Memory) Set(_ context.Context, key string, series annuity.Series) error {
	m.lru.Add(key, append(annuity.Series(nil), series...))
	return nil
}

// Len returns the number of stored progressions.
func (m *Memory) Len() int {
	return m.lru.Len()
}
