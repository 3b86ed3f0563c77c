package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParsePeriod(t *testing.T) {
	assert.Equal(t, PeriodToday, ParsePeriod("today"))
	assert.Equal(t, PeriodWeek, ParsePeriod("week"))
	assert.Equal(t, PeriodMonth, ParsePeriod("month"))
	assert.Equal(t, PeriodToday, ParsePeriod(""))
	assert.Equal(t, PeriodToday, ParsePeriod("quarter"))
}

func TestPeriodStart(t *testing.T) {
	now := time.Date(2025, 6, 15, 14, 30, 0, 0, time.UTC)

	today := PeriodToday.Start(now)
	assert.Equal(t, time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC), today)

	week := PeriodWeek.Start(now)
	assert.Equal(t, time.Date(2025, 6, 8, 14, 30, 0, 0, time.UTC), week)

	month := PeriodMonth.Start(now)
	assert.Equal(t, time.Date(2025, 5, 15, 14, 30, 0, 0, time.UTC), month)
}

func TestPeriodLabel(t *testing.T) {
	assert.Equal(t, "hoy", PeriodToday.Label())
	assert.Equal(t, "esta semana", PeriodWeek.Label())
	assert.Equal(t, "este mes", PeriodMonth.Label())
}
