package format

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Value is either Numeric or Unparseable.
type Value interface {
	isValue()
}

// Numeric is a finite number ready for currency formatting.
type Numeric float64

// Unparseable carries an input that is not a finite number. It is rendered
// back verbatim.
type Unparseable struct {
	Raw any
}

func (Numeric) isValue()     {}
func (Unparseable) isValue() {}

// String returns the raw input's default string form.
func (u Unparseable) String() string {
	return fmt.Sprint(u.Raw)
}

// Classify routes an arbitrary table cell to Numeric or Unparseable.
// Numeric strings are accepted with surrounding whitespace. NaN, infinities
// and booleans are Unparseable.
func Classify(raw any) Value {
	switch v := raw.(type) {
	case Numeric:
		return finite(float64(v), raw)
	case float64:
		return finite(v, raw)
	case float32:
		return finite(float64(v), raw)
	case int:
		return Numeric(v)
	case int8:
		return Numeric(v)
	case int16:
		return Numeric(v)
	case int32:
		return Numeric(v)
	case int64:
		return Numeric(v)
	case uint:
		return Numeric(v)
	case uint8:
		return Numeric(v)
	case uint16:
		return Numeric(v)
	case uint32:
		return Numeric(v)
	case uint64:
		return Numeric(v)
	case decimal.Decimal:
		return Numeric(v.InexactFloat64())
	case json.Number:
		return parseString(v.String(), raw)
	case string:
		return parseString(v, raw)
	}
	return Unparseable{Raw: raw}
}

func parseString(s string, raw any) Value {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return Unparseable{Raw: raw}
	}
	return finite(f, raw)
}

func finite(f float64, raw any) Value {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return Unparseable{Raw: raw}
	}
	return Numeric(f)
}
