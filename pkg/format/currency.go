// Package format renders amounts as whole-unit, thousands-grouped currency
// strings for display.
package format

import (
	"fmt"
	"math"

	"github.com/iwvelando/savings-forecast/pkg/constants"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Formatter groups digits with the separator of its locale.
type Formatter struct {
	printer *message.Printer
	symbol  string
	tag     language.Tag
}

// NewFormatter builds a Formatter for a BCP 47 locale tag such as "id" or
// "en-US". An empty locale uses the default.
func NewFormatter(locale, symbol string) (*Formatter, error) {
	if locale == "" {
		locale = constants.DefaultLocale
	}
	tag, err := language.Parse(locale)
	if err != nil {
		return nil, fmt.Errorf("invalid locale %q: %w", locale, err)
	}
	return &Formatter{printer: message.NewPrinter(tag), symbol: symbol, tag: tag}, nil
}

// Default formats rupiah with dot grouping ("Rp1.234.567").
func Default() *Formatter {
	tag := language.Indonesian
	return &Formatter{
		printer: message.NewPrinter(tag),
		symbol:  constants.DefaultCurrencySymbol,
		tag:     tag,
	}
}

// Locale returns the formatter's language tag.
func (f *Formatter) Locale() string {
	return f.tag.String()
}

// Currency returns amount rounded to whole units with the symbol prefixed
// (e.g. "Rp1.234.567" or "-Rp1.234").
func (f *Formatter) Currency(amount float64) string {
	return f.render(amount, f.symbol)
}

// Number is Currency without the symbol.
func (f *Formatter) Number(amount float64) string {
	return f.render(amount, "")
}

// Format renders any value. Numeric input goes through Currency; anything
// else comes back as its plain string form.
func (f *Formatter) Format(raw any) string {
	switch v := Classify(raw).(type) {
	case Numeric:
		return f.Currency(float64(v))
	case Unparseable:
		return v.String()
	}
	return fmt.Sprint(raw)
}

func (f *Formatter) render(amount float64, symbol string) string {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return fmt.Sprint(amount)
	}
	whole := RoundWhole(amount)
	if whole == 0 {
		// Avoid "-0" for small negatives.
		whole = 0
	}
	sign := ""
	if whole < 0 {
		sign = "-"
	}
	return sign + symbol + f.printer.Sprintf("%.0f", math.Abs(whole))
}

// RoundWhole rounds to the nearest integer, halves to even.
func RoundWhole(amount float64) float64 {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return amount
	}
	return decimal.NewFromFloat(amount).RoundBank(0).InexactFloat64()
}

// Currency formats with the default rupiah formatter.
func Currency(amount float64) string {
	return Default().Currency(amount)
}

// Format formats any value with the default rupiah formatter.
func Format(raw any) string {
	return Default().Format(raw)
}
