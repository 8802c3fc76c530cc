package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/iwvelando/savings-forecast/pkg/constants"
)

func TestLoadConfiguration(t *testing.T) {
	tests := []struct {
		name       string
		configPath string
		wantError  bool
	}{
		{
			name:       "Non-existent config file",
			configPath: "nonexistent.yaml",
			wantError:  true,
		},
		{
			name:       "Example config file",
			configPath: filepath.Join("..", "..", "config.yaml.example"),
			wantError:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config, err := LoadConfiguration(tt.configPath)
			if tt.wantError {
				if err == nil {
					t.Errorf("LoadConfiguration() expected error but got none")
				}
				return
			}
			if err != nil {
				t.Errorf("LoadConfiguration() error = %v", err)
				return
			}
			if config == nil {
				t.Errorf("LoadConfiguration() returned nil config")
			}
		})
	}
}

func TestLoadConfigurationFromReader(t *testing.T) {
	yaml := `plan:
  deposit: 250000
  duration: 30
  durationUnit: months
  ratePercent: 1.5
  ratePeriod: monthly
  timing: due
logging:
  level: debug
  format: console
output:
  format: csv
  locale: en-US
  currencySymbol: $
  tables: yearly
cache:
  address: localhost:6379
  ttl: 30m
`
	conf, err := LoadConfigurationFromReader(strings.NewReader(yaml))
	if err != nil {
		t.Fatalf("LoadConfigurationFromReader() error = %v", err)
	}

	if conf.Plan.Deposit != 250000 {
		t.Errorf("expected deposit 250000, got %v", conf.Plan.Deposit)
	}
	if conf.Plan.Duration != 30 || conf.Plan.DurationUnit != "months" {
		t.Errorf("expected 30 months, got %d %s", conf.Plan.Duration, conf.Plan.DurationUnit)
	}
	if conf.Plan.RatePercent != 1.5 || conf.Plan.RatePeriod != "monthly" {
		t.Errorf("expected 1.5 monthly, got %v %s", conf.Plan.RatePercent, conf.Plan.RatePeriod)
	}
	if conf.Plan.Timing != "due" {
		t.Errorf("expected due timing, got %s", conf.Plan.Timing)
	}
	if conf.Logging.Level != "debug" || conf.Logging.Format != "console" {
		t.Errorf("unexpected logging config %+v", conf.Logging)
	}
	if conf.Output.Format != "csv" || conf.Output.Locale != "en-US" || conf.Output.CurrencySymbol != "$" || conf.Output.Tables != "yearly" {
		t.Errorf("unexpected output config %+v", conf.Output)
	}
	if !conf.Cache.Enabled() || conf.Cache.TTL != 30*time.Minute {
		t.Errorf("unexpected cache config %+v", conf.Cache)
	}
}

func TestLoadConfigurationAppliesDefaults(t *testing.T) {
	conf, err := LoadConfigurationFromReader(strings.NewReader("plan:\n  deposit: 1000\n"))
	if err != nil {
		t.Fatalf("LoadConfigurationFromReader() error = %v", err)
	}

	if conf.Plan.Deposit != 1000 {
		t.Errorf("expected deposit 1000, got %v", conf.Plan.Deposit)
	}
	if conf.Plan.Duration != constants.DefaultDurationYears {
		t.Errorf("expected default duration, got %d", conf.Plan.Duration)
	}
	if conf.Plan.RatePercent != constants.DefaultRatePercent {
		t.Errorf("expected default rate, got %v", conf.Plan.RatePercent)
	}
	if conf.Output.Format != constants.OutputFormatPretty {
		t.Errorf("expected pretty output, got %s", conf.Output.Format)
	}
	if conf.Output.Locale != constants.DefaultLocale {
		t.Errorf("expected default locale, got %s", conf.Output.Locale)
	}
	if conf.Cache.Enabled() {
		t.Errorf("expected cache disabled by default")
	}
	if conf.Cache.TTL != constants.DefaultCacheTTLSeconds*time.Second {
		t.Errorf("expected default ttl, got %v", conf.Cache.TTL)
	}
}

func TestLoadConfigurationEnvOverride(t *testing.T) {
	t.Setenv("SAVINGS_FORECAST_PLAN_DEPOSIT", "777")

	conf, err := LoadDefaults()
	if err != nil {
		t.Fatalf("LoadDefaults() error = %v", err)
	}
	if conf.Plan.Deposit != 777 {
		t.Errorf("expected env override deposit 777, got %v", conf.Plan.Deposit)
	}
}

func TestLoadConfigurationInvalidYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(path, []byte("plan: [unclosed"), 0600); err != nil {
		t.Fatalf("failed to write temp config: %v", err)
	}

	if _, err := LoadConfiguration(path); err == nil {
		t.Fatal("expected error for invalid YAML but got nil")
	}
}

func TestValidateConfiguration(t *testing.T) {
	conf := Default()
	warnings, err := conf.ValidateConfiguration()
	if err != nil {
		t.Fatalf("ValidateConfiguration() error = %v", err)
	}
	if len(warnings) != 1 {
		t.Errorf("expected only the nominal-rate warning, got %v", warnings)
	}

	conf.Plan.Duration = 6
	conf.Plan.DurationUnit = "months"
	conf.Plan.RatePeriod = "monthly"
	conf.Output.Tables = "sideways"
	conf.Cache = CacheConfig{Address: "localhost:6379"}
	warnings, err = conf.ValidateConfiguration()
	if err != nil {
		t.Fatalf("ValidateConfiguration() error = %v", err)
	}
	if len(warnings) != 3 {
		t.Errorf("expected 3 warnings, got %d: %v", len(warnings), warnings)
	}

	conf.Plan.RatePercent = 75
	if _, err := conf.ValidateConfiguration(); err == nil {
		t.Error("expected error for out-of-range rate")
	}
}
