// Package config defines the data structures related to configuration and
// includes functions for loading the config.
package config

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/iwvelando/savings-forecast/internal/forecast"
	"github.com/iwvelando/savings-forecast/pkg/annuity"
	"github.com/iwvelando/savings-forecast/pkg/constants"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes environment overrides, e.g. SAVINGS_FORECAST_PLAN_DEPOSIT.
const EnvPrefix = "SAVINGS_FORECAST"

// Configuration holds all configuration for savings-forecast.
type Configuration struct {
	Plan    forecast.Plan `yaml:"plan"`
	Logging LoggingConfig `yaml:"logging,omitempty"`
	Output  OutputConfig  `yaml:"output,omitempty"`
	Cache   CacheConfig   `yaml:"cache,omitempty"`
}

// LoggingConfig holds logging configuration options
type LoggingConfig struct {
	Level      string `yaml:"level,omitempty"`      // debug, info, warn, error
	Format     string `yaml:"format,omitempty"`     // json, console
	OutputFile string `yaml:"outputFile,omitempty"` // optional file output
}

// OutputConfig holds output format configuration options
type OutputConfig struct {
	Format         string `yaml:"format,omitempty"`         // pretty, csv, json
	Locale         string `yaml:"locale,omitempty"`         // BCP 47 tag for digit grouping
	CurrencySymbol string `yaml:"currencySymbol,omitempty"` // prefix for amounts
	Tables         string `yaml:"tables,omitempty"`         // summary, yearly, monthly, all
}

// CacheConfig enables the shared progression cache. An empty address
// disables it.
type CacheConfig struct {
	Address string        `yaml:"address,omitempty"`
	TTL     time.Duration `yaml:"ttl,omitempty"`
}

// Enabled reports whether a cache address is configured.
func (c CacheConfig) Enabled() bool {
	return strings.TrimSpace(c.Address) != ""
}

// Default returns the configuration used when no file is given.
func Default() *Configuration {
	return &Configuration{
		Plan: forecast.DefaultPlan(),
		Output: OutputConfig{
			Format:         constants.OutputFormatPretty,
			Locale:         constants.DefaultLocale,
			CurrencySymbol: constants.DefaultCurrencySymbol,
			Tables:         constants.TablesAll,
		},
		Cache: CacheConfig{TTL: constants.DefaultCacheTTLSeconds * time.Second},
	}
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	defaults := Default()
	v.SetDefault("plan.deposit", defaults.Plan.Deposit)
	v.SetDefault("plan.duration", defaults.Plan.Duration)
	v.SetDefault("plan.durationUnit", defaults.Plan.DurationUnit)
	v.SetDefault("plan.ratePercent", defaults.Plan.RatePercent)
	v.SetDefault("plan.ratePeriod", defaults.Plan.RatePeriod)
	v.SetDefault("plan.timing", defaults.Plan.Timing)
	v.SetDefault("logging.level", "")
	v.SetDefault("logging.format", "")
	v.SetDefault("logging.outputFile", "")
	v.SetDefault("output.format", defaults.Output.Format)
	v.SetDefault("output.locale", defaults.Output.Locale)
	v.SetDefault("output.currencySymbol", defaults.Output.CurrencySymbol)
	v.SetDefault("output.tables", defaults.Output.Tables)
	v.SetDefault("cache.address", "")
	v.SetDefault("cache.ttl", defaults.Cache.TTL)
	return v
}

// LoadConfiguration takes a file path as input and loads the YAML-formatted
// configuration there.
func LoadConfiguration(configPath string) (*Configuration, error) {
	v := newViper()
	v.SetConfigFile(configPath)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file, %s", err)
	}
	return decode(v)
}

// LoadConfigurationFromReader loads YAML configuration from r.
func LoadConfigurationFromReader(r io.Reader) (*Configuration, error) {
	v := newViper()
	if err := v.ReadConfig(r); err != nil {
		return nil, fmt.Errorf("error reading config data, %s", err)
	}
	return decode(v)
}

// LoadDefaults returns defaults with environment overrides applied.
func LoadDefaults() (*Configuration, error) {
	return decode(newViper())
}

func decode(v *viper.Viper) (*Configuration, error) {
	var configuration Configuration
	if err := v.Unmarshal(&configuration); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %s", err)
	}
	return &configuration, nil
}

// ValidateConfiguration checks the plan and returns warnings about settings
// that are accepted but probably not what the user wants. An invalid plan is
// an error.
func (c *Configuration) ValidateConfiguration() ([]string, error) {
	if err := c.Plan.Validate(); err != nil {
		return nil, fmt.Errorf("invalid plan: %w", err)
	}

	var warnings []string
	if c.Plan.Years() < 1 {
		warnings = append(warnings, fmt.Sprintf("plan covers %d months, the yearly table will be empty", c.Plan.Months()))
	}
	if rp, _ := annuity.ParseRatePeriod(c.Plan.RatePeriod); rp == annuity.Annual && c.Plan.RatePercent > 0 {
		warnings = append(warnings, "annual rate is divided by 12 without compounding; the effective annual return is higher than quoted")
	}
	switch c.Output.Tables {
	case "", constants.TablesSummary, constants.TablesYearly, constants.TablesMonthly, constants.TablesAll:
	default:
		warnings = append(warnings, fmt.Sprintf("unknown output.tables %q, printing all tables", c.Output.Tables))
	}
	if c.Cache.Enabled() && c.Cache.TTL <= 0 {
		warnings = append(warnings, "cache.ttl is not positive, cached progressions never expire")
	}
	return warnings, nil
}
