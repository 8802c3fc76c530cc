package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/iwvelando/savings-forecast/internal/cache"
	"github.com/iwvelando/savings-forecast/internal/config"
	"github.com/iwvelando/savings-forecast/internal/forecast"
	"github.com/iwvelando/savings-forecast/internal/server"
	"github.com/iwvelando/savings-forecast/pkg/constants"
	"github.com/iwvelando/savings-forecast/pkg/format"
	"github.com/iwvelando/savings-forecast/pkg/output"
	"github.com/iwvelando/savings-forecast/pkg/validation"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type rootFlags struct {
	configPath   string
	logLevel     string
	outputFormat string
}

type forecastFlags struct {
	deposit      float64
	duration     int
	durationUnit string
	ratePercent  float64
	ratePeriod   string
	timing       string
	tables       string
	locale       string
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}

	root := &cobra.Command{
		Use:           "savings-forecast",
		Short:         "Future value of a monthly savings plan",
		Long:          "Compute the future value of fixed monthly deposits with end-of-month or start-of-month timing, with yearly and monthly progression tables.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&flags.configPath, "config", "c", "", "path to configuration file (defaults and environment when empty)")
	root.PersistentFlags().StringVar(&flags.logLevel, "log-level", "", "log level override (debug, info, warn, error)")
	root.PersistentFlags().StringVarP(&flags.outputFormat, "output-format", "o", "", "type of output override: pretty, csv, json")

	forecastCmd := newForecastCmd(flags)
	root.AddCommand(forecastCmd, newServeCmd(flags))
	root.RunE = forecastCmd.RunE
	root.Flags().AddFlagSet(forecastCmd.Flags())
	return root
}

func loadConfiguration(flags *rootFlags) (*config.Configuration, error) {
	if flags.configPath == "" {
		return config.LoadDefaults()
	}
	conf, err := config.LoadConfiguration(flags.configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration at %s: %w", flags.configPath, err)
	}
	return conf, nil
}

func newForecastCmd(root *rootFlags) *cobra.Command {
	flags := &forecastFlags{}

	cmd := &cobra.Command{
		Use:   "forecast",
		Short: "Compute a savings forecast and print it",
		RunE: func(cmd *cobra.Command, args []string) error {
			conf, err := loadConfiguration(root)
			if err != nil {
				return err
			}
			applyForecastFlags(cmd, flags, conf)

			logger, err := initializeLogger(conf.Logging, root.logLevel)
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			defer func() {
				_ = logger.Sync()
			}()

			outputFormat := conf.Output.Format
			if root.outputFormat != "" {
				outputFormat = root.outputFormat
			}
			if outputFormat == "" {
				outputFormat = constants.OutputFormatPretty
			}
			if err := validation.ValidateOutputFormat(outputFormat); err != nil {
				return err
			}

			warnings, err := conf.ValidateConfiguration()
			if err != nil {
				return err
			}
			for _, warning := range warnings {
				logger.Warn("Configuration warning: "+warning,
					zap.String("op", "main"),
				)
			}

			formatter, err := format.NewFormatter(conf.Output.Locale, conf.Output.CurrencySymbol)
			if err != nil {
				return err
			}

			c, closeCache := openCache(cmd.Context(), logger, conf.Cache)
			defer closeCache()

			result, err := forecast.NewForecaster(logger, c).Forecast(cmd.Context(), conf.Plan)
			if err != nil {
				logger.Error("failed to compute forecast",
					zap.String("op", "main"),
					zap.Error(err),
				)
				return err
			}

			return writeResult(cmd.OutOrStdout(), outputFormat, result, formatter, conf.Output.Tables)
		},
	}

	f := cmd.Flags()
	f.Float64Var(&flags.deposit, "deposit", 0, "monthly deposit amount")
	f.IntVar(&flags.duration, "duration", 0, "plan length in duration units")
	f.StringVar(&flags.durationUnit, "duration-unit", "", "years (1-50) or months (1-600)")
	f.Float64Var(&flags.ratePercent, "rate", 0, "return rate in percent (0-50)")
	f.StringVar(&flags.ratePeriod, "rate-period", "", "annual or monthly")
	f.StringVar(&flags.timing, "timing", "", "ordinary (end of month) or due (start of month)")
	f.StringVar(&flags.tables, "tables", "", "summary, yearly, monthly or all")
	f.StringVar(&flags.locale, "locale", "", "locale for digit grouping, e.g. id or en-US")
	return cmd
}

// applyForecastFlags overrides configuration with flags the user set.
func applyForecastFlags(cmd *cobra.Command, flags *forecastFlags, conf *config.Configuration) {
	changed := cmd.Flags().Changed
	if changed("deposit") {
		conf.Plan.Deposit = flags.deposit
	}
	if changed("duration") {
		conf.Plan.Duration = flags.duration
	}
	if changed("duration-unit") {
		conf.Plan.DurationUnit = flags.durationUnit
	}
	if changed("rate") {
		conf.Plan.RatePercent = flags.ratePercent
	}
	if changed("rate-period") {
		conf.Plan.RatePeriod = flags.ratePeriod
	}
	if changed("timing") {
		conf.Plan.Timing = flags.timing
	}
	if changed("tables") {
		conf.Output.Tables = flags.tables
	}
	if changed("locale") {
		conf.Output.Locale = flags.locale
	}
}

func writeResult(w io.Writer, outputFormat string, result *forecast.Forecast, formatter *format.Formatter, tables string) error {
	switch outputFormat {
	case constants.OutputFormatCSV:
		return output.CsvFormat(w, result)
	case constants.OutputFormatJSON:
		return output.JSONFormat(w, result)
	default:
		return output.PrettyFormat(w, result, formatter, tables)
	}
}

// openCache returns a Redis cache when configured and reachable, otherwise
// no cache. The returned func releases it.
func openCache(ctx context.Context, logger *zap.Logger, conf config.CacheConfig) (cache.Cache, func()) {
	if !conf.Enabled() {
		return nil, func() {}
	}
	if ctx == nil {
		ctx = context.Background()
	}

	r := cache.NewRedis(logger, conf.Address, conf.TTL)
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := r.Ping(pingCtx); err != nil {
		logger.Warn("progression cache unavailable, continuing without it",
			zap.String("op", "main.openCache"),
			zap.String("address", conf.Address),
			zap.Error(err),
		)
		_ = r.Close()
		return nil, func() {}
	}
	return r, func() { _ = r.Close() }
}

func newServeCmd(root *rootFlags) *cobra.Command {
	var (
		serverConfigPath string
		address          string
		maxBodySize      string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the forecast JSON API over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			serverConf, err := server.LoadConfig(serverConfigPath)
			if err != nil {
				return err
			}
			if err := applyServeFlags(serverConf, address, maxBodySize); err != nil {
				return err
			}

			logger, err := initializeLogger(serverConf.Logging, root.logLevel)
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			defer func() {
				_ = logger.Sync()
			}()

			formatter, err := format.NewFormatter(serverConf.Locale, constants.DefaultCurrencySymbol)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			c, closeCache := openCache(ctx, logger, serverConf.Cache)
			defer closeCache()
			if c == nil {
				c = cache.NewMemory(constants.DefaultMemoryCacheEntries, serverConf.Cache.TTL)
			}

			srv := &http.Server{
				Addr: serverConf.Address,
				Handler: server.NewHandler(logger, server.Options{
					MaxBodySize: serverConf.BodySizeBytes(),
					Version:     version,
					Cache:       c,
					Formatter:   formatter,
				}),
				ReadHeaderTimeout: 10 * time.Second,
			}

			errCh := make(chan error, 1)
			go func() {
				logger.Info("listening",
					zap.String("op", "main.serve"),
					zap.String("address", serverConf.Address),
				)
				errCh <- srv.ListenAndServe()
			}()

			select {
			case err := <-errCh:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return err
			case <-ctx.Done():
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			logger.Info("shutting down", zap.String("op", "main.serve"))
			return srv.Shutdown(shutdownCtx)
		},
	}

	cmd.Flags().StringVar(&serverConfigPath, "server-config", constants.DefaultServerConfigFile, "path to server configuration file")
	cmd.Flags().StringVar(&address, "address", "", "listen address override")
	cmd.Flags().StringVar(&maxBodySize, "max-body-size", "", "request body limit override, e.g. 64K or 1MB")
	return cmd
}

// applyServeFlags overrides server configuration with serve flags the user set.
func applyServeFlags(conf *server.Config, address, maxBodySize string) error {
	if address != "" {
		conf.Address = address
	}
	if maxBodySize != "" {
		size, err := server.ParseSize(maxBodySize)
		if err != nil {
			return fmt.Errorf("invalid --max-body-size: %w", err)
		}
		if size <= 0 {
			return fmt.Errorf("invalid --max-body-size: must be positive, got %q", maxBodySize)
		}
		conf.SetBodySizeBytes(size)
	}
	return nil
}
