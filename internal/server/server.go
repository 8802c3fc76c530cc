package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/iwvelando/savings-forecast/internal/cache"
	"github.com/iwvelando/savings-forecast/internal/forecast"
	"github.com/iwvelando/savings-forecast/pkg/annuity"
	"github.com/iwvelando/savings-forecast/pkg/constants"
	"github.com/iwvelando/savings-forecast/pkg/format"
	"github.com/iwvelando/savings-forecast/pkg/mathutil"
	"github.com/iwvelando/savings-forecast/pkg/output"
	"go.uber.org/zap"
)

// Options configures the HTTP handler.
type Options struct {
	MaxBodySize int64
	Version     string
	Cache       cache.Cache
	Formatter   *format.Formatter
}

type handler struct {
	logger      *zap.Logger
	forecaster  *forecast.Forecaster
	formatter   *format.Formatter
	maxBodySize int64
	version     string
}

// NewHandler constructs the HTTP handler that serves the forecast API.
func NewHandler(logger *zap.Logger, opts Options) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}

	maxBodySize := opts.MaxBodySize
	if maxBodySize <= 0 {
		maxBodySize = constants.DefaultMaxBodySizeBytes
	}

	trimmedVersion := strings.TrimSpace(opts.Version)
	if trimmedVersion == "" {
		trimmedVersion = "dev"
	}

	formatter := opts.Formatter
	if formatter == nil {
		formatter = format.Default()
	}

	h := &handler{
		logger:      logger,
		forecaster:  forecast.NewForecaster(logger, opts.Cache),
		formatter:   formatter,
		maxBodySize: maxBodySize,
		version:     trimmedVersion,
	}

	mux := http.NewServeMux()

	// Full plan forecast with summary and tables
	mux.HandleFunc("/api/forecast", h.handleForecast)

	// Point valuation in engine terms
	mux.HandleFunc("/api/fv", h.handleFutureValue)

	// Progression series in engine terms
	mux.HandleFunc("/api/progression", h.handleProgression)

	mux.HandleFunc("/api/version", h.handleVersion)

	return mux
}

type forecastResponse struct {
	Parameters  annuity.Parameters `json:"parameters"`
	MonthlyRate float64            `json:"monthlyRate"`
	Summary     valuationView      `json:"summary"`
	Yearly      []valuationView    `json:"yearly"`
	Monthly     []valuationView    `json:"monthly"`
	CSV         string             `json:"csv"`
	Warnings    []string           `json:"warnings,omitempty"`
	Duration    string             `json:"duration"`
}

type valuationView struct {
	Period            int            `json:"period"`
	CumulativeDeposit float64        `json:"cumulativeDeposit"`
	FutureValue       float64        `json:"futureValue"`
	Interest          float64        `json:"interest"`
	Formatted         formattedValue `json:"formatted"`
}

type formattedValue struct {
	CumulativeDeposit string `json:"cumulativeDeposit"`
	FutureValue       string `json:"futureValue"`
	Interest          string `json:"interest"`
}

type futureValueResponse struct {
	Parameters annuity.Parameters `json:"parameters"`
	Valuation  valuationView      `json:"valuation"`
}

type progressionResponse struct {
	Parameters annuity.Parameters `json:"parameters"`
	Step       string             `json:"step"`
	Series     []valuationView    `json:"series"`
}

func (h *handler) handleForecast(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleForecast"
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	start := time.Now()
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBodySize)

	plan := forecast.DefaultPlan()
	if err := json.NewDecoder(r.Body).Decode(&plan); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			h.respondErrorWithOp(w, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("request exceeds limit of %d bytes", h.maxBodySize), op)
			return
		}
		h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("failed to decode plan: %v", err), op)
		return
	}

	result, err := h.forecaster.Forecast(r.Context(), plan)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
		return
	}

	var warnings []string
	if plan.Years() < 1 {
		warnings = append(warnings, "plan is shorter than a year, no yearly table")
	}

	elapsed := time.Since(start)
	response := forecastResponse{
		Parameters:  result.Parameters,
		MonthlyRate: result.MonthlyRate,
		Summary:     h.view(result.Summary),
		Yearly:      h.views(result.Yearly),
		Monthly:     h.views(result.Monthly),
		CSV:         output.CsvString(result),
		Warnings:    warnings,
		Duration:    elapsed.String(),
	}

	h.logger.Info("forecast computed",
		zap.String("op", op),
		zap.Int("months", result.Parameters.Periods),
		zap.Int("yearlyRows", len(response.Yearly)),
		zap.Duration("duration", elapsed),
	)

	h.writeJSON(w, http.StatusOK, response)
}

func (h *handler) handleFutureValue(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleFutureValue"
	if r.Method != http.MethodGet {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	params, err := parseParameters(r)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
		return
	}

	valuation := params.Value(params.Periods)
	if !mathutil.Finite(valuation.FutureValue) {
		h.respondErrorWithOp(w, http.StatusBadRequest, errNotRepresentable.Error(), op)
		return
	}

	h.writeJSON(w, http.StatusOK, futureValueResponse{
		Parameters: params,
		Valuation:  h.view(valuation),
	})
}

func (h *handler) handleProgression(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleProgression"
	if r.Method != http.MethodGet {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	params, err := parseParameters(r)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
		return
	}
	step, err := annuity.ParseStepUnit(r.URL.Query().Get("step"))
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
		return
	}

	series := params.Progression(step)
	if last, ok := series.Last(); ok && !mathutil.Finite(last.FutureValue) {
		h.respondErrorWithOp(w, http.StatusBadRequest, errNotRepresentable.Error(), op)
		return
	}

	h.writeJSON(w, http.StatusOK, progressionResponse{
		Parameters: params,
		Step:       step.String(),
		Series:     h.views(series),
	})
}

func (h *handler) handleVersion(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{
		"version": h.version,
	})
}

var errNotRepresentable = errors.New("future value is too large to represent")

// parseParameters reads deposit, rate (per-period decimal), periods and
// timing from the query string. The rate must lie within the same 0-50%
// bounds a plan accepts.
func parseParameters(r *http.Request) (annuity.Parameters, error) {
	q := r.URL.Query()

	deposit, err := parseFloatParam(q.Get("deposit"), "deposit")
	if err != nil {
		return annuity.Parameters{}, err
	}
	rate, err := parseFloatParam(q.Get("rate"), "rate")
	if err != nil {
		return annuity.Parameters{}, err
	}
	if rate < periodRateFromPercent(constants.MinRatePercent) || rate > periodRateFromPercent(constants.MaxRatePercent) {
		return annuity.Parameters{}, fmt.Errorf("rate must be between %v and %v, got %v",
			periodRateFromPercent(constants.MinRatePercent), periodRateFromPercent(constants.MaxRatePercent), rate)
	}
	periods, err := strconv.Atoi(strings.TrimSpace(q.Get("periods")))
	if err != nil {
		return annuity.Parameters{}, fmt.Errorf("invalid periods %q", q.Get("periods"))
	}
	if periods > constants.MaxDurationMonths {
		return annuity.Parameters{}, fmt.Errorf("periods must not exceed %d, got %d", constants.MaxDurationMonths, periods)
	}
	timing, err := annuity.ParseTiming(q.Get("timing"))
	if err != nil {
		return annuity.Parameters{}, err
	}

	params := annuity.Parameters{Deposit: deposit, PeriodRate: rate, Periods: periods, Timing: timing}
	if err := params.Validate(); err != nil {
		return annuity.Parameters{}, err
	}
	return params, nil
}

func parseFloatParam(value, name string) (float64, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil || !mathutil.Finite(f) {
		return 0, fmt.Errorf("invalid %s %q", name, value)
	}
	return f, nil
}

func periodRateFromPercent(percent float64) float64 {
	return percent / constants.PercentageMultiplier
}

func (h *handler) view(v annuity.Valuation) valuationView {
	return valuationView{
		Period:            v.Period,
		CumulativeDeposit: v.Principal,
		FutureValue:       v.FutureValue,
		Interest:          v.Interest,
		Formatted: formattedValue{
			CumulativeDeposit: h.formatter.Format(v.Principal),
			FutureValue:       h.formatter.Format(v.FutureValue),
			Interest:          h.formatter.Format(v.Interest),
		},
	}
}

func (h *handler) views(series annuity.Series) []valuationView {
	views := make([]valuationView, 0, len(series))
	for _, v := range series {
		views = append(views, h.view(v))
	}
	return views
}

func (h *handler) respondErrorWithOp(w http.ResponseWriter, status int, msg string, op string) {
	h.logger.Error("request failed",
		zap.String("op", op),
		zap.Int("status", status),
		zap.String("error", msg),
	)

	h.writeJSON(w, status, map[string]string{"error": msg})
}

// writeJSON encodes payload before writing the status line so an encoding
// failure becomes a 500 instead of an empty 200.
func (h *handler) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(payload); err != nil {
		h.logger.Error("failed to encode JSON response", zap.Error(err))
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"failed to encode response"}` + "\n"))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(buf.Bytes()); err != nil {
		h.logger.Error("failed to write JSON response", zap.Error(err))
	}
}
