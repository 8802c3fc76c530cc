// Package constants provides shared constants for the savings-forecast application.
package constants

// Financial constants
const (
	// MonthsPerYear is the number of months in a year
	MonthsPerYear = 12

	// DecimalPrecision is the precision for currency rounding (2 decimal places)
	DecimalPrecision = 100

	// PercentageMultiplier is used for percentage conversions
	PercentageMultiplier = 100.0

	// CurrencyTolerance is the tolerance for currency comparisons (1 cent)
	CurrencyTolerance = 0.01
)

// Input domain enforced before calling the engine.
const (
	// MinDurationMonths is the shortest accepted plan
	MinDurationMonths = 1

	// MaxDurationMonths is the longest accepted plan when entered in months
	MaxDurationMonths = 600

	// MinDurationYears is the shortest accepted plan when entered in years
	MinDurationYears = 1

	// MaxDurationYears is the longest accepted plan when entered in years
	MaxDurationYears = 50

	// MinRatePercent is the lowest accepted return rate
	MinRatePercent = 0.0

	// MaxRatePercent is the highest accepted return rate
	MaxRatePercent = 50.0
)

// Plan defaults used when the configuration leaves a field empty.
const (
	// DefaultDeposit is the default monthly deposit
	DefaultDeposit = 400000.0

	// DefaultDurationYears is the default plan length
	DefaultDurationYears = 8

	// DefaultRatePercent is the default nominal annual return
	DefaultRatePercent = 5.0
)

// Output format constants
const (
	// OutputFormatPretty is the human-readable output format
	OutputFormatPretty = "pretty"

	// OutputFormatCSV is the CSV output format
	OutputFormatCSV = "csv"

	// OutputFormatJSON is the JSON output format
	OutputFormatJSON = "json"
)

// Table selections for pretty output
const (
	// TablesSummary prints only the totals
	TablesSummary = "summary"

	// TablesYearly prints totals and the per-year table
	TablesYearly = "yearly"

	// TablesMonthly prints totals and the per-month table
	TablesMonthly = "monthly"

	// TablesAll prints every table
	TablesAll = "all"
)

// Display defaults
const (
	// DefaultLocale is the BCP 47 tag used for digit grouping
	DefaultLocale = "id"

	// DefaultCurrencySymbol is prefixed to formatted amounts
	DefaultCurrencySymbol = "Rp"
)

// Configuration file constants
const (
	// DefaultConfigFile is the default configuration file name
	DefaultConfigFile = "config.yaml"

	// DefaultServerConfigFile is the default server configuration file name
	DefaultServerConfigFile = "server-config.yaml"
)

// Server configuration defaults
const (
	// DefaultServerAddress is the default HTTP listen address
	DefaultServerAddress = ":8080"

	// DefaultMaxBodySizeBytes is the default maximum request body size (64 KB)
	DefaultMaxBodySizeBytes int64 = 64 * 1024
)

// Cache defaults
const (
	// DefaultCacheTTLSeconds is how long a cached progression lives in Redis
	DefaultCacheTTLSeconds = 3600

	// DefaultMemoryCacheEntries bounds the in-process progression cache
	DefaultMemoryCacheEntries = 512

	// CacheKeyPrefix namespaces progression keys in a shared Redis
	CacheKeyPrefix = "savings-forecast:progression:"
)
