package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDateOf_UsesLocation(t *testing.T) {
	loc, err := time.LoadLocation("Asia/Kolkata")
	require.NoError(t, err)

	utcLate := time.Date(2024, 1, 1, 20, 0, 0, 0, time.UTC)
	assert.Equal(t, CalendarDate("2024-01-01"), DateOf(utcLate))
	assert.Equal(t, CalendarDate("2024-01-02"), DateOf(utcLate.In(loc)))
}

func TestCalendarDate_AddDays(t *testing.T) {
	tests := []struct {
		from CalendarDate
		n    int
		want CalendarDate
	}{
		{"2024-01-01", -1, "2023-12-31"},
		{"2024-02-28", 1, "2024-02-29"},
		{"2023-02-28", 1, "2023-03-01"},
		{"2024-03-10", -1, "2024-03-09"},
		{"2024-11-03", 1, "2024-11-04"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.from.AddDays(tt.n), "%s %+d", tt.from, tt.n)
	}
}

func TestCalendarDate_AddDays_Invalid(t *testing.T) {
	assert.Equal(t, CalendarDate("garbage"), CalendarDate("garbage").AddDays(1))
	assert.False(t, CalendarDate("garbage").Valid())
	assert.True(t, CalendarDate("2024-06-30").Valid())
}

func TestCalendarDate_Time(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	got, err := CalendarDate("2024-03-10").Time(loc)
	require.NoError(t, err)
	assert.Equal(t, loc, got.Location())
	assert.Equal(t, 10, got.Day())
}

func mustDate(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}
