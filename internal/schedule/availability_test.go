package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var hcm = time.FixedZone("ICT", 7*60*60)

func at(y int, m time.Month, d, hh, mm int) time.Time {
	return time.Date(y, m, d, hh, mm, 0, 0, hcm)
}

func TestAvailable_FutureWeekdayKeepsWholeGrid(t *testing.T) {
	// Thu 15 Oct 2026, viewed the day before.
	date := at(2026, 10, 15, 0, 0)
	now := at(2026, 10, 14, 16, 0)

	got := Available(DefaultGrid, date, now)
	assert.Equal(t, DefaultGrid, got)
	assert.Len(t, got, 15)
}

func TestAvailable_SaturdayDropsAfternoon(t *testing.T) {
	// Sat 17 Oct 2026.
	date := at(2026, 10, 17, 0, 0)
	require.Equal(t, time.Saturday, date.Weekday())
	now := at(2026, 10, 14, 8, 0)

	got := Available(DefaultGrid, date, now)
	require.Len(t, got, 8)
	for _, s := range got {
		assert.Less(t, s.Start.Hour, 12, "saturday slot %s starts in the afternoon", s)
	}
	assert.Equal(t, "11:00 - 11:30", got[len(got)-1].String())
}

func TestAvailable_TodayKeepsOnlyStrictlyLaterStarts(t *testing.T) {
	date := at(2026, 10, 15, 0, 0)
	tests := []struct {
		name  string
		now   time.Time
		first string
		count int
	}{
		{"before opening", at(2026, 10, 15, 6, 59), "07:30 - 08:00", 15},
		{"exactly on a start", at(2026, 10, 15, 9, 0), "09:30 - 10:00", 11},
		{"one minute before a start", at(2026, 10, 15, 8, 59), "09:00 - 09:30", 12},
		{"lunch break", at(2026, 10, 15, 12, 15), "13:30 - 14:00", 7},
		{"same hour later minute", at(2026, 10, 15, 13, 29), "13:30 - 14:00", 7},
		{"last slot just started", at(2026, 10, 15, 16, 30), "", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Available(DefaultGrid, date, tt.now)
			require.Len(t, got, tt.count)
			if tt.count > 0 {
				assert.Equal(t, tt.first, got[0].String())
			}
			current := Clock{tt.now.Hour(), tt.now.Minute()}
			for _, s := range got {
				assert.True(t, s.Start.After(current), "slot %s not after %s", s, current)
			}
		})
	}
}

func TestAvailable_SaturdayTodayAppliesBothRules(t *testing.T) {
	date := at(2026, 10, 17, 0, 0)
	now := at(2026, 10, 17, 10, 10)

	got := Available(DefaultGrid, date, now)
	require.Len(t, got, 2)
	assert.Equal(t, "10:30 - 11:00", got[0].String())
	assert.Equal(t, "11:00 - 11:30", got[1].String())
}

func TestAvailable_DoesNotMutateGrid(t *testing.T) {
	grid := append([]Slot(nil), DefaultGrid...)
	_ = Available(grid, at(2026, 10, 17, 0, 0), at(2026, 10, 17, 9, 0))
	assert.Equal(t, DefaultGrid, grid)
}

func TestAvailable_PropertySaturdayAndToday(t *testing.T) {
	start := at(2026, 10, 1, 0, 0)
	for day := 0; day < 31; day++ {
		date := start.AddDate(0, 0, day)
		for minute := 0; minute < 24*60; minute += 7 {
			now := date.Add(time.Duration(minute) * time.Minute)
			got := Available(DefaultGrid, date, now)
			current := Clock{now.Hour(), now.Minute()}
			for _, s := range got {
				if date.Weekday() == time.Saturday {
					assert.Less(t, s.Start.Hour, 12)
				}
				assert.True(t, s.Start.After(current))
			}
		}
	}
}

func TestCompute_ExhaustedState(t *testing.T) {
	date := at(2026, 10, 15, 0, 0)
	av := Compute(DefaultGrid, date, at(2026, 10, 15, 17, 5))
	assert.True(t, av.Exhausted)
	assert.True(t, av.IsToday)
	assert.Empty(t, av.Slots)

	av = Compute(DefaultGrid, date, at(2026, 10, 14, 17, 5))
	assert.False(t, av.Exhausted)
	assert.False(t, av.IsToday)
}

func TestBookableDates_SkipsSundays(t *testing.T) {
	// Thu 15 Oct 2026 afternoon.
	now := at(2026, 10, 15, 15, 20)
	dates := BookableDates(now, 14)

	require.Len(t, dates, 14)
	assert.True(t, SameDay(dates[0], now), "window starts today")
	for _, d := range dates {
		assert.NotEqual(t, time.Sunday, d.Weekday())
		assert.Equal(t, 0, d.Hour())
	}
	// 14 business days from a Thursday span two Sundays.
	assert.True(t, SameDay(dates[13], at(2026, 10, 30, 0, 0)))
}

func TestBookableDates_StartingOnSunday(t *testing.T) {
	now := at(2026, 10, 18, 9, 0)
	require.Equal(t, time.Sunday, now.Weekday())
	dates := BookableDates(now, 3)
	assert.True(t, SameDay(dates[0], at(2026, 10, 19, 0, 0)))
}

func TestIsBookableDate(t *testing.T) {
	now := at(2026, 10, 15, 8, 0)
	assert.True(t, IsBookableDate(at(2026, 10, 15, 0, 0), now, 14))
	assert.False(t, IsBookableDate(at(2026, 10, 18, 0, 0), now, 14), "sunday")
	assert.False(t, IsBookableDate(at(2026, 10, 14, 0, 0), now, 14), "yesterday")
	assert.False(t, IsBookableDate(at(2026, 11, 30, 0, 0), now, 14), "beyond window")
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2026-12-05", hcm)
	require.NoError(t, err)
	assert.Equal(t, 5, d.Day())
	assert.Equal(t, hcm, d.Location())

	_, err = ParseDate("05/12/2026", hcm)
	assert.ErrorIs(t, err, ErrInvalidDate)
}

func TestLocationFallsBackToUTC(t *testing.T) {
	assert.Equal(t, time.UTC, Location(""))
	assert.Equal(t, time.UTC, Location("Mars/Olympus_Mons"))
}
