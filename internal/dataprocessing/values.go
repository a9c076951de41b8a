package dataprocessing

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

// DateLayout is the canonical day format used in every report
const DateLayout = "2006-01-02"

// Layouts accepted by ParseDate, tried in order. Go's parser accepts
// fractional seconds after the seconds field even when the layout omits them.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	time.RFC3339,
	"2006-01-02T15:04:05Z0700",
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	"01/02/2006",
	"01/02/2006 15:04:05",
	"01/02/2006 15:04",
	"1/2/2006",
	"1/2/2006 15:04",
	"02-01-2006",
	"2-Jan-2006",
	"02-Jan-2006",
	"2-Jan-06",
	"Jan 2, 2006",
	"January 2, 2006",
	"2 Jan 2006",
	"2006/01/02",
}

// Excel serial numbers outside this window are treated as plain numbers.
// 20000 is 1954-10-03 and 80000 is 2119-01-10.
const (
	minExcelSerial = 20000
	maxExcelSerial = 80000
)

// ParseDate coerces a cell into a time. The second result is false when the
// cell is blank or in no recognised format.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	if serial, err := strconv.ParseFloat(s, 64); err == nil && serial >= minExcelSerial && serial <= maxExcelSerial {
		if t, err := excelize.ExcelDateToTime(serial, false); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// FormatDate renders t as YYYY-MM-DD, or "" when ok is false
func FormatDate(t time.Time, ok bool) string {
	if !ok {
		return ""
	}
	return t.Format(DateLayout)
}

// Day truncates t to midnight UTC of its calendar day
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// DaysBetween returns the whole calendar days from a to b
func DaysBetween(a, b time.Time) int {
	return int(math.Round(Day(b).Sub(Day(a)).Hours() / 24))
}

// ElapsedDays returns the whole days elapsed from a to b, rounding toward
// negative infinity like a timedelta day count
func ElapsedDays(a, b time.Time) int {
	return int(math.Floor(b.Sub(a).Hours() / 24))
}

// ParseAmount coerces a cell into a number. Thousands separators and
// surrounding blanks are ignored.
func ParseAmount(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	s = strings.ReplaceAll(s, ",", "")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// AmountOrZero is ParseAmount with a zero fill
func AmountOrZero(s string) float64 {
	v, _ := ParseAmount(s)
	return v
}

// NormalizeID trims an identifier and drops one trailing ".0" left behind
// when a numeric id was stored as a float.
func NormalizeID(s string) string {
	return strings.TrimSuffix(strings.TrimSpace(s), ".0")
}

// FormatNumber renders a float without trailing zeros
func FormatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// FormatFloatRepr renders a float the way a float column prints its values:
// integral values keep one decimal place.
func FormatFloatRepr(v float64) string {
	if v == math.Trunc(v) && math.Abs(v) < 1e16 {
		return strconv.FormatFloat(v, 'f', 1, 64)
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// FormatInt renders a count
func FormatInt(n int) string {
	return strconv.Itoa(n)
}
