// Package normalize holds pure helpers for coercing provider values:
// numbers, unit scales, dates and quarter keys.
package normalize

import (
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/wonny/growthscore/internal/contracts"
)

// ToNum coerces an arbitrary decoded JSON value into a Num
func ToNum(v interface{}) contracts.Num {
	switch x := v.(type) {
	case nil:
		return contracts.None()
	case contracts.Num:
		return x
	case float64:
		return contracts.Some(x)
	case float32:
		return contracts.Some(float64(x))
	case int:
		return contracts.Some(float64(x))
	case int64:
		return contracts.Some(float64(x))
	case json.Number:
		f, err := x.Float64()
		if err != nil {
			return contracts.None()
		}
		return contracts.Some(f)
	case string:
		return contracts.ParseNum(x)
	default:
		return contracts.None()
	}
}

// unitScales maps lower-cased unit labels to their multiplier
var unitScales = map[string]float64{
	"usd":                 1,
	"usd/shares":          1,
	"shares":              1,
	"pure":                1,
	"thousands":           1e3,
	"thousand usd":        1e3,
	"thousands usd":       1e3,
	"usd thousands":       1e3,
	"thousands of shares": 1e3,
	"millions":            1e6,
	"million usd":         1e6,
	"millions usd":        1e6,
	"usd millions":        1e6,
	"millions of shares":  1e6,
	"billions":            1e9,
	"billion usd":         1e9,
	"usd billions":        1e9,
}

// UnitScale returns the multiplier that converts a value in unit to the
// canonical unit (currency or shares). Unknown units are rejected.
func UnitScale(unit string) (float64, bool) {
	scale, ok := unitScales[strings.ToLower(strings.TrimSpace(unit))]
	return scale, ok
}

// Scale converts a raw value to the canonical unit
func Scale(value float64, unit string) (contracts.Num, error) {
	scale, ok := UnitScale(unit)
	if !ok {
		return contracts.None(), fmt.Errorf("unsupported unit %q", unit)
	}
	return contracts.Some(value * scale), nil
}

var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
}

// ParseDate parses the date formats the providers use
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

// CalendarLabel returns "{year}Q{q}" for the calendar quarter containing t
func CalendarLabel(t time.Time) string {
	return contracts.CalendarLabel(t)
}

// QuarterKey formats a fiscal quarter key
func QuarterKey(year, quarter int) string {
	return fmt.Sprintf("%dQ%d", year, quarter)
}

var quarterKeyPattern = regexp.MustCompile(`^(\d{4})Q([1-4])$`)

// ParseQuarterKey splits "2024Q3" into (2024, 3)
func ParseQuarterKey(key string) (year, quarter int, ok bool) {
	m := quarterKeyPattern.FindStringSubmatch(key)
	if m == nil {
		return 0, 0, false
	}
	year, _ = strconv.Atoi(m[1])
	quarter, _ = strconv.Atoi(m[2])
	return year, quarter, true
}

// PrevQuarter returns the quarter before (year, quarter)
func PrevQuarter(year, quarter int) (int, int) {
	if quarter == 1 {
		return year - 1, 4
	}
	return year, quarter - 1
}

// QuarterEnd returns the last day of a calendar quarter
func QuarterEnd(year, quarter int) time.Time {
	return time.Date(year, time.Month(quarter*3)+1, 0, 0, 0, 0, 0, time.UTC)
}

// DaysBetween returns the whole number of days from a to b
func DaysBetween(a, b time.Time) int {
	return int(math.Round(b.Sub(a).Hours() / 24))
}

// First returns the first known value, in priority order
func First(candidates ...contracts.Num) contracts.Num {
	for _, c := range candidates {
		if c.Valid() {
			return c
		}
	}
	return contracts.None()
}

// Abs returns the magnitude of a known value
func Abs(n contracts.Num) contracts.Num {
	v, ok := n.Get()
	if !ok {
		return n
	}
	return contracts.Some(math.Abs(v))
}

// FiscalQuarter parses period labels such as "Q3" or "FY" (= 4)
func FiscalQuarter(period string) int {
	switch strings.ToUpper(strings.TrimSpace(period)) {
	case "Q1":
		return 1
	case "Q2":
		return 2
	case "Q3":
		return 3
	case "Q4", "FY":
		return 4
	}
	return 0
}
