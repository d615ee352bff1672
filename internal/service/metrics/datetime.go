package metrics

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// CalendarDate is a timezone-free calendar day.
type CalendarDate struct {
	Year  int
	Month time.Month
	Day   int
}

// spreadsheetEpoch is day zero of spreadsheet serial dates. Serial 1 is
// 1899-12-31 because of the historical 1900 leap-year bug.
var spreadsheetEpoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)

const maxSpreadsheetSerial = 2958465 // 9999-12-31

var (
	serialPattern     = regexp.MustCompile(`^\d+(\.\d+)?$`)
	isoDatePattern    = regexp.MustCompile(`(?:^|\D)(\d{4})[-/](\d{1,2})[-/](\d{1,2})(?:\D|$)`)
	dmyDatePattern    = regexp.MustCompile(`(?:^|\D)(\d{1,2})[-/](\d{1,2})[-/](\d{4})(?:\D|$)`)
	dayMonthName      = regexp.MustCompile(`(?i)(?:^|[^0-9A-Za-z])(\d{1,2})[-/ ]([A-Za-z]{3,9})\.?[-/ ,]+(\d{4}|\d{2})(?:\D|$)`)
	monthNameDay      = regexp.MustCompile(`(?i)(?:^|[^A-Za-z])([A-Za-z]{3,9})\.?[-/ ](\d{1,2})(?:st|nd|rd|th)?,?[-/ ](\d{4})(?:\D|$)`)
	isoMonthPattern   = regexp.MustCompile(`^(\d{4})[-/](\d{1,2})$`)
	myMonthPattern    = regexp.MustCompile(`^(\d{1,2})[-/](\d{4})$`)
	namedMonthPattern = regexp.MustCompile(`(?i)^([A-Za-z]{3,9})\.?[-/ ,]+(\d{4})$`)
	clockSplit        = regexp.MustCompile(`[:.]`)
)

var monthNames = []string{
	"january", "february", "march", "april", "may", "june",
	"july", "august", "september", "october", "november", "december",
}

// fallbackDateLayouts are tried when none of the structured patterns match.
var fallbackDateLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"02.01.2006",
	"2006.01.02",
	"20060102",
	"Mon, 02 Jan 2006",
	"Monday, January 2, 2006",
	"Jan 2 2006",
	"2 January 2006",
}

func (d CalendarDate) Time() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

func (d CalendarDate) IsZero() bool {
	return d.Year == 0 && d.Month == 0 && d.Day == 0
}

// AddDays returns the date n calendar days away.
func (d CalendarDate) AddDays(n int) CalendarDate {
	return dateOf(d.Time().AddDate(0, 0, n))
}

func (d CalendarDate) Before(o CalendarDate) bool {
	if d.Year != o.Year {
		return d.Year < o.Year
	}
	if d.Month != o.Month {
		return d.Month < o.Month
	}
	return d.Day < o.Day
}

// MonthKey returns the canonical YYYY-MM key.
func (d CalendarDate) MonthKey() string {
	return fmt.Sprintf("%04d-%02d", d.Year, int(d.Month))
}

// WeekOfMonth returns the week-in-month bucket of the date.
func (d CalendarDate) WeekOfMonth() int {
	return WeekOfMonth(d.Day)
}

func (d CalendarDate) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

func dateOf(t time.Time) CalendarDate {
	return CalendarDate{Year: t.Year(), Month: t.Month(), Day: t.Day()}
}

// WeekOfMonth buckets a day of month into weeks: days 1-7 are week 1, 8-14
// week 2, and so on up to week 5.
func WeekOfMonth(day int) int {
	if day < 1 {
		return 0
	}
	return (day-1)/7 + 1
}

// ParseDate normalises an attendance date cell. It tries, in order, a
// spreadsheet serial number, YYYY-MM-DD, DD-MM-YYYY, textual month names and
// a list of generic layouts. ok is false when nothing matches.
func ParseDate(raw string) (CalendarDate, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return CalendarDate{}, false
	}

	if d, ok := parseSerialDate(s); ok {
		return d, true
	}

	if m := isoDatePattern.FindStringSubmatch(s); m != nil {
		if d, ok := makeDate(atoi(m[1]), atoi(m[2]), atoi(m[3])); ok {
			return d, true
		}
	}

	if m := dmyDatePattern.FindStringSubmatch(s); m != nil {
		if d, ok := makeDate(atoi(m[3]), atoi(m[2]), atoi(m[1])); ok {
			return d, true
		}
	}

	if m := dayMonthName.FindStringSubmatch(s); m != nil {
		if month, ok := lookupMonth(m[2]); ok {
			if d, ok := makeDate(expandYear(m[3]), int(month), atoi(m[1])); ok {
				return d, true
			}
		}
	}

	if m := monthNameDay.FindStringSubmatch(s); m != nil {
		if month, ok := lookupMonth(m[1]); ok {
			if d, ok := makeDate(atoi(m[3]), int(month), atoi(m[2])); ok {
				return d, true
			}
		}
	}

	for _, layout := range fallbackDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return dateOf(t), true
		}
	}

	return CalendarDate{}, false
}

// MonthKey normalises a date-like value to YYYY-MM. Besides full dates it
// accepts month-only forms such as "2025-03", "03/2025" and "March 2025".
// Canonical keys are returned unchanged.
func MonthKey(raw string) (string, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return "", false
	}

	if m := isoMonthPattern.FindStringSubmatch(s); m != nil {
		return monthKeyOf(atoi(m[1]), atoi(m[2]))
	}
	if m := myMonthPattern.FindStringSubmatch(s); m != nil {
		return monthKeyOf(atoi(m[2]), atoi(m[1]))
	}
	if m := namedMonthPattern.FindStringSubmatch(s); m != nil {
		if month, ok := lookupMonth(m[1]); ok {
			return monthKeyOf(atoi(m[2]), int(month))
		}
	}

	if d, ok := ParseDate(s); ok {
		return d.MonthKey(), true
	}
	return "", false
}

func monthKeyOf(year, month int) (string, bool) {
	if year < 1 || month < 1 || month > 12 {
		return "", false
	}
	return fmt.Sprintf("%04d-%02d", year, month), true
}

func parseSerialDate(s string) (CalendarDate, bool) {
	if !serialPattern.MatchString(s) {
		return CalendarDate{}, false
	}
	// A bare 4-digit value is more likely a year than a serial.
	if !strings.Contains(s, ".") && len(s) <= 4 {
		return CalendarDate{}, false
	}
	serial, err := strconv.ParseFloat(s, 64)
	if err != nil || serial < 1 || serial > maxSpreadsheetSerial {
		return CalendarDate{}, false
	}
	return dateOf(spreadsheetEpoch.AddDate(0, 0, int(serial))), true
}

func makeDate(year, month, day int) (CalendarDate, bool) {
	if year < 1 || month < 1 || month > 12 || day < 1 {
		return CalendarDate{}, false
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	// Reject values time.Date would roll over, such as 31 April.
	if t.Day() != day || int(t.Month()) != month {
		return CalendarDate{}, false
	}
	return dateOf(t), true
}

func lookupMonth(name string) (time.Month, bool) {
	n := strings.ToLower(strings.TrimSuffix(strings.TrimSpace(name), "."))
	if len(n) < 3 {
		return 0, false
	}
	for i, full := range monthNames {
		if strings.HasPrefix(full, n) {
			return time.Month(i + 1), true
		}
	}
	return 0, false
}

func expandYear(s string) int {
	y := atoi(s)
	if len(s) == 2 {
		return 2000 + y
	}
	return y
}

func atoi(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return -1
	}
	return n
}

// datetimeLayouts carry both a date and a clock time.
var datetimeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"02-01-2006 15:04:05",
	"02-01-2006 15:04",
	"02/01/2006 15:04:05",
	"02/01/2006 15:04",
	"2006-01-02 3:04:05 PM",
	"2006-01-02 3:04 PM",
	"02-Jan-2006 15:04",
	"02-Jan-2006 3:04 PM",
}

// clockLayouts carry only a clock time.
var clockLayouts = []string{
	"15:04:05",
	"15:04",
	"3:04:05 PM",
	"3:04 PM",
	"3:04:05PM",
	"3:04PM",
	"3PM",
	"3 PM",
}

// ParseHours converts a time cell into fractional hours of the day. It tries
// datetime layouts first, then clock layouts, then a plain H:M[:S] split.
// Spreadsheet day fractions such as 0.375 are read as 09:00, but a value that
// is also a valid H.M time, such as 0.30, is read as a clock time. Unparseable
// values return 0, which callers treat as "no time recorded".
func ParseHours(raw string) float64 {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0
	}

	for _, layout := range datetimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return clockHours(t)
		}
	}

	upper := strings.ToUpper(s)
	for _, layout := range clockLayouts {
		if t, err := time.Parse(layout, upper); err == nil {
			return clockHours(t)
		}
	}

	if isDayFraction(s) {
		f, _ := strconv.ParseFloat(s, 64)
		return roundTo(f*24, 6)
	}

	parts := clockSplit.Split(s, -1)
	if len(parts) < 2 || len(parts) > 3 {
		return 0
	}
	var fields [3]int
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil || n < 0 {
			return 0
		}
		fields[i] = n
	}
	h := float64(fields[0]) + float64(fields[1])/60 + float64(fields[2])/3600
	if h > 24 {
		return 0
	}
	return h
}

// isDayFraction reports whether s is a spreadsheet day fraction rather than a
// dotted H.M clock time: "0.375" and "0.75" are fractions, "0.30" is 00:30.
func isDayFraction(s string) bool {
	frac, ok := strings.CutPrefix(s, "0.")
	if !ok || frac == "" {
		return false
	}
	minutes, err := strconv.Atoi(frac)
	if err != nil || minutes == 0 {
		return false
	}
	return len(frac) >= 3 || minutes >= 60
}

func clockHours(t time.Time) float64 {
	return float64(t.Hour()) + float64(t.Minute())/60 + float64(t.Second())/3600
}

func roundTo(v float64, places int) float64 {
	p := math.Pow10(places)
	return math.Round(v*p) / p
}
