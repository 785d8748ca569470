package ledger

import (
	"math"
	"strconv"
	"strings"
	"time"
)

var isoLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02 15:04:05",
}

// ParseDate parses a row date. ISO layouts are tried first; slash/dot dates
// fall back to a positional heuristic: a first component above 12, or a third
// component above 31, implies day-first (DD/MM/YYYY), otherwise the date is
// read month-first. The heuristic is ambiguous for dates like 03/04/2024 and
// is kept as-is pending product confirmation of the source locale.
// A false second return means the row is excluded from all date-dependent
// aggregation but still contributes to pure totals.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}

	for _, layout := range isoLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return midnight(t), true
		}
	}

	parts := strings.FieldsFunc(s, func(r rune) bool {
		return r == '/' || r == '-' || r == '.'
	})
	if len(parts) != 3 {
		return time.Time{}, false
	}
	a, errA := strconv.Atoi(parts[0])
	b, errB := strconv.Atoi(parts[1])
	c, errC := strconv.Atoi(parts[2])
	if errA != nil || errB != nil || errC != nil {
		return time.Time{}, false
	}

	day, month, year := b, a, c
	if a > 12 || c > 31 {
		day, month = a, b
	}
	if year < 100 {
		year += 2000
	}
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return time.Time{}, false
	}

	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	// Reject rollovers such as 31/02.
	if t.Day() != day || t.Month() != time.Month(month) {
		return time.Time{}, false
	}
	return t, true
}

// DaysOverdue is the whole number of days target lies before today, both
// truncated to midnight. Zero or negative means not yet due.
func DaysOverdue(today, target time.Time) int {
	diff := midnight(today).Sub(midnight(target))
	return int(math.Ceil(diff.Hours() / 24))
}

// MonthKey is the YYYY-MM bucket a date falls into.
func MonthKey(t time.Time) string {
	return t.Format("2006-01")
}

// MonthLabel is the short human label used in closure narratives, e.g. Jan24.
func MonthLabel(t time.Time) string {
	return t.Format("Jan06")
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
