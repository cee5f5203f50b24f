package lifecycle

import (
	"fmt"
	"math"
	"time"
)

// ParseMonth("MMYYYY") -> first day of the month, UTC.
func ParseMonth(mmyyyy string) (time.Time, error) {
	if len(mmyyyy) != 6 {
		return time.Time{}, fmt.Errorf("expected format MMYYYY (e.g. 122018)")
	}
	for _, c := range mmyyyy {
		if c < '0' || c > '9' {
			return time.Time{}, fmt.Errorf("expected format MMYYYY (e.g. 122018)")
		}
	}
	month := int(mmyyyy[0]-'0')*10 + int(mmyyyy[1]-'0')
	year := int(mmyyyy[2]-'0')*1000 + int(mmyyyy[3]-'0')*100 + int(mmyyyy[4]-'0')*10 + int(mmyyyy[5]-'0')
	if month < 1 || month > 12 {
		return time.Time{}, fmt.Errorf("invalid month %d", month)
	}
	return time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC), nil
}

// MonthsBetweenInclusive expands [start, end] into the ordered list of
// reference months, both bounds truncated to their month.
func MonthsBetweenInclusive(start, end time.Time) []time.Time {
	cur := time.Date(start.Year(), start.Month(), 1, 0, 0, 0, 0, time.UTC)
	last := time.Date(end.Year(), end.Month(), 1, 0, 0, 0, 0, time.UTC)
	var out []time.Time
	for !cur.After(last) {
		out = append(out, cur)
		cur = cur.AddDate(0, 1, 0)
	}
	return out
}

func FormatMonth(t time.Time) string {
	return fmt.Sprintf("%02d/%04d", int(t.Month()), t.Year())
}

// monthsBetween returns the signed month distance a-b: whole calendar
// months plus a day-difference fraction over a 31-day month, with the
// fraction dropped when both dates fall on the same day of month or
// both on a month's last day.
func monthsBetween(a, b time.Time) float64 {
	months := float64((a.Year()-b.Year())*12 + int(a.Month()) - int(b.Month()))
	if a.Day() == b.Day() || (isLastDayOfMonth(a) && isLastDayOfMonth(b)) {
		return months
	}
	return months + float64(a.Day()-b.Day())/31.0
}

func isLastDayOfMonth(t time.Time) bool {
	return t.AddDate(0, 0, 1).Month() != t.Month()
}

// CustomerAging is the account tenure in whole months at the
// reference month: rounded absolute month distance, never negative.
func CustomerAging(createdAt, referenceMonth time.Time) int {
	return int(math.Round(math.Abs(monthsBetween(createdAt.UTC(), referenceMonth.UTC()))))
}
