/*
period.go - Revenue bucketing rules

PURPOSE:
  Maps sale dates to period labels for revenue aggregation.

BUCKETING:
  daily   -> calendar date, YYYY-MM-DD
  weekly  -> ISO-8601 week, YYYY-Www (Monday-start; the week containing the
             year's first Thursday is week 1)
  monthly -> YYYY-MM
  annual  -> YYYY

ORDERING:
  Report rows are ordered chronologically. For daily/monthly/annual labels
  lexicographic order IS chronological; ISO-week labels must be ordered by
  (ISO year, week number) instead, because a sale dated in late December can
  belong to week 1 of the next ISO year (and vice versa in early January).
  bucketKey encodes that ordering for every period kind.
*/
package sales

import (
	"fmt"
	"time"
)

// Period selects a revenue bucketing granularity.
type Period string

const (
	PeriodDaily   Period = "daily"
	PeriodWeekly  Period = "weekly"
	PeriodMonthly Period = "monthly"
	PeriodAnnual  Period = "annual"
)

// ParsePeriod validates a period string. Unknown values yield
// ErrInvalidPeriod.
func ParsePeriod(s string) (Period, error) {
	switch p := Period(s); p {
	case PeriodDaily, PeriodWeekly, PeriodMonthly, PeriodAnnual:
		return p, nil
	default:
		return "", fmt.Errorf("%w: got %q", ErrInvalidPeriod, s)
	}
}

// Label returns the bucket label for a sale date.
func (p Period) Label(t time.Time) string {
	switch p {
	case PeriodDaily:
		return t.Format("2006-01-02")
	case PeriodWeekly:
		year, week := t.ISOWeek()
		return fmt.Sprintf("%04d-W%02d", year, week)
	case PeriodMonthly:
		return t.Format("2006-01")
	case PeriodAnnual:
		return t.Format("2006")
	}
	return ""
}

// bucketKey returns an integer that orders buckets chronologically. For
// weekly buckets the key uses the ISO year, which can differ from the
// calendar year of the date.
func (p Period) bucketKey(t time.Time) int {
	switch p {
	case PeriodDaily:
		return t.Year()*10000 + int(t.Month())*100 + t.Day()
	case PeriodWeekly:
		year, week := t.ISOWeek()
		return year*100 + week
	case PeriodMonthly:
		return t.Year()*100 + int(t.Month())
	case PeriodAnnual:
		return t.Year()
	}
	return 0
}
