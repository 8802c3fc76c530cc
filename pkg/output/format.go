// Package output provides utilities for formatting and displaying forecast results.
package output

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/iwvelando/savings-forecast/internal/forecast"
	"github.com/iwvelando/savings-forecast/pkg/annuity"
	"github.com/iwvelando/savings-forecast/pkg/constants"
	"github.com/iwvelando/savings-forecast/pkg/format"
	"github.com/iwvelando/savings-forecast/pkg/mathutil"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	amountStyle = cellStyle.Align(lipgloss.Right)
)

// PrettyFormat writes a summary and the selected progression tables.
func PrettyFormat(w io.Writer, result *forecast.Forecast, f *format.Formatter, tables string) error {
	if f == nil {
		f = format.Default()
	}

	plan := result.Plan
	_, err := fmt.Fprintf(w, "--- Savings plan: %s per month for %d months at %s%% %s (%s) ---\n",
		f.Currency(plan.Deposit), result.Parameters.Periods,
		strconv.FormatFloat(plan.RatePercent, 'f', -1, 64), ratePeriodLabel(plan), result.Parameters.Timing)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Total Deposits : %s\nFuture Value   : %s\nTotal Interest : %s\n",
		f.Currency(result.Summary.Principal),
		f.Currency(result.Summary.FutureValue),
		f.Currency(result.Summary.Interest)); err != nil {
		return err
	}

	showYearly := tables == "" || tables == constants.TablesAll || tables == constants.TablesYearly
	showMonthly := tables == "" || tables == constants.TablesAll || tables == constants.TablesMonthly
	if tables != constants.TablesSummary && !showYearly && !showMonthly {
		showYearly, showMonthly = true, true
	}

	if showYearly && len(result.Yearly) > 0 {
		if _, err := fmt.Fprintf(w, "\nPer Year\n%s\n", renderTable("Year", result.Yearly, constants.MonthsPerYear, f)); err != nil {
			return err
		}
	}
	if showMonthly && len(result.Monthly) > 0 {
		if _, err := fmt.Fprintf(w, "\nPer Month\n%s\n", renderTable("Month", result.Monthly, 1, f)); err != nil {
			return err
		}
	}
	return nil
}

func ratePeriodLabel(plan forecast.Plan) string {
	if period, _ := annuity.ParseRatePeriod(plan.RatePeriod); period == annuity.Monthly {
		return "per month"
	}
	return "per year"
}

func renderTable(unit string, series annuity.Series, stride int, f *format.Formatter) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(unit, "Cumulative Deposit", "Future Value", "Interest").
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case col == 0:
				return cellStyle
			default:
				return amountStyle
			}
		})

	for _, v := range series {
		t.Row(
			strconv.Itoa(v.Period/stride),
			f.Format(v.Principal),
			f.Format(v.FutureValue),
			f.Format(v.Interest),
		)
	}
	return t.Render()
}

// CsvFormat writes every yearly and monthly checkpoint as CSV with raw
// amounts rounded to cents.
func CsvFormat(w io.Writer, result *forecast.Forecast) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"step", "period", "cumulative_deposit", "future_value", "interest"}); err != nil {
		return err
	}
	write := func(step annuity.StepUnit, series annuity.Series) error {
		for _, v := range series {
			record := []string{
				step.String(),
				strconv.Itoa(v.Period),
				strconv.FormatFloat(mathutil.Round(v.Principal), 'f', 2, 64),
				strconv.FormatFloat(mathutil.Round(v.FutureValue), 'f', 2, 64),
				strconv.FormatFloat(mathutil.Round(v.Interest), 'f', 2, 64),
			}
			if err := cw.Write(record); err != nil {
				return err
			}
		}
		return nil
	}
	if err := write(annuity.PerYear, result.Yearly); err != nil {
		return err
	}
	if err := write(annuity.PerMonth, result.Monthly); err != nil {
		return err
	}
	cw.Flush()
	return cw.Error()
}

// CsvString returns the CSV representation as a string.
func CsvString(result *forecast.Forecast) string {
	var buf bytes.Buffer
	if err := CsvFormat(&buf, result); err != nil {
		return ""
	}
	return buf.String()
}

// JSONFormat writes the forecast as indented JSON.
func JSONFormat(w io.Writer, result *forecast.Forecast) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}
