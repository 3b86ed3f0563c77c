package analytics

import "time"

// Period identifies a reporting window for sales queries.
type Period string

const (
	PeriodToday Period = "today"
	PeriodWeek  Period = "week"
	PeriodMonth Period = "month"
)

// ParsePeriod normalizes a period string, defaulting to today.
func ParsePeriod(s string) Period {
	switch Period(s) {
	case PeriodWeek:
		return PeriodWeek
	case PeriodMonth:
		return PeriodMonth
	default:
		return PeriodToday
	}
}

// Start returns the beginning of the reporting window relative to now.
func (p Period) Start(now time.Time) time.Time {
	switch p {
	case PeriodWeek:
		return now.AddDate(0, 0, -7)
	case PeriodMonth:
		return now.AddDate(0, -1, 0)
	default:
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	}
}

// Label returns the Spanish label used in owner-facing summaries.
func (p Period) Label() string {
	switch p {
	case PeriodWeek:
		return "esta semana"
	case PeriodMonth:
		return "este mes"
	default:
		return "hoy"
	}
}
