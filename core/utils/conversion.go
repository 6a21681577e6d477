package utils

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// DateLayout is the MM/DD/YYYY layout used for every persisted and displayed date.
const DateLayout = "01/02/2006"

// dateLayouts are tried in order by ParseDate. The second and third entries
// accept files written by older builds that used the default culture format.
var dateLayouts = []string{
	DateLayout,
	"1/2/2006 3:04:05 PM",
	"1/2/2006",
}

// FormatDate renders a date as MM/DD/YYYY.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// ParseDate parses a date in MM/DD/YYYY (or a legacy layout) in the local time zone.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q, expected MM/DD/YYYY", s)
}

// FormatAmount renders an amount with two decimals for display.
func FormatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// FormatAmountRaw renders the shortest decimal representation of an amount,
// which is what the record files store.
func FormatAmountRaw(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// ParseAmount parses a non-negative, finite amount.
func ParseAmount(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q", s)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0, fmt.Errorf("amount must be a non-negative number, got %q", s)
	}
	return v, nil
}

// ParseBool converts a persisted flag. It accepts bool literals in any case
// ("True", "false") as well as "1" and "0".
func ParseBool(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "1":
		return true, nil
	case "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf("invalid flag %q", s)
	}
}

// FormatBool renders a flag the way the record files store it.
func FormatBool(b bool) string {
	if b {
		return "True"
	}
	return "False"
}

// ParseCount parses a non-negative integer such as a floor count.
func ParseCount(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("invalid number %q", s)
	}
	if n < 0 {
		return 0, fmt.Errorf("number must not be negative, got %d", n)
	}
	return n, nil
}

// AddMonths adds n calendar months to t. When the day of month does not exist
// in the target month it is clamped to the month's last day (Jan 31 + 1 month
// is Feb 28 or 29), unlike time.AddDate which rolls over into the next month.
func AddMonths(t time.Time, n int) time.Time {
	y, m, d := t.Date()
	first := time.Date(y, m+time.Month(n), 1, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
	last := daysIn(first.Year(), first.Month())
	if d > last {
		d = last
	}
	return first.AddDate(0, 0, d-1)
}

func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
