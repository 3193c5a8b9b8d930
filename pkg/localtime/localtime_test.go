package localtime

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustLoad(t *testing.T, name string) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation(name)
	require.NoError(t, err)
	return loc
}

func TestLocalToUTCRoundTrip(t *testing.T) {
	la := mustLoad(t, "America/Los_Angeles")

	// 2025-03-09 is the US spring-forward date; 2025-03-10 is the first full PDT day.
	for _, date := range []string{"2025-03-08", "2025-03-09", "2025-03-10", "2025-11-02", "2025-07-01"} {
		instant, err := LocalToUTC(date, "14:30", la)
		require.NoError(t, err)
		assert.Equal(t, "14:30", UTCToLocalTime(instant, la), date)
		assert.Equal(t, date, UTCToLocalDate(instant, la), date)
	}
}

func TestLocalToUTCUsesZoneOffsets(t *testing.T) {
	la := mustLoad(t, "America/Los_Angeles")

	winter, err := LocalToUTC("2025-01-20", "09:00", la)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 1, 20, 17, 0, 0, 0, time.UTC), winter)

	summer, err := LocalToUTC("2025-03-10", "09:00", la)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 3, 10, 16, 0, 0, 0, time.UTC), summer)
}

func TestLocalToUTCRejectsMalformedInput(t *testing.T) {
	_, err := LocalToUTC("2025-13-01", "09:00", time.UTC)
	assert.Error(t, err)
	_, err = LocalToUTC("2025-01-01", "9:00", time.UTC)
	assert.Error(t, err)
	_, err = LocalToUTC("2025-01-01", "24:00", time.UTC)
	assert.Error(t, err)
}

func TestLocalToUTCRejectsSpringForwardGap(t *testing.T) {
	la := mustLoad(t, "America/Los_Angeles")

	for _, clock := range []string{"02:00", "02:15", "02:59"} {
		_, err := LocalToUTC("2025-03-09", clock, la)
		require.Error(t, err, clock)
		assert.Contains(t, err.Error(), "does not exist on 2025-03-09")
	}

	before, err := LocalToUTC("2025-03-09", "01:59", la)
	require.NoError(t, err)
	after, err := LocalToUTC("2025-03-09", "03:00", la)
	require.NoError(t, err)
	assert.Equal(t, time.Minute, after.Sub(before))

	// Same wall clock on an ordinary day is fine.
	_, err = LocalToUTC("2025-03-10", "02:15", la)
	assert.NoError(t, err)
}

func TestLocalToUTCFallBackUsesFirstOccurrence(t *testing.T) {
	la := mustLoad(t, "America/Los_Angeles")

	instant, err := LocalToUTC("2025-11-02", "01:30", la)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 11, 2, 8, 30, 0, 0, time.UTC), instant)
}

func TestLocalDayWindow(t *testing.T) {
	la := mustLoad(t, "America/Los_Angeles")

	window, err := LocalDayWindow("2025-01-20", la)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 1, 20, 8, 0, 0, 0, time.UTC), window.Start)
	assert.Equal(t, time.Date(2025, 1, 21, 7, 59, 59, 999000000, time.UTC), window.End)

	// Spring-forward day is 23 hours long.
	dst, err := LocalDayWindow("2025-03-09", la)
	require.NoError(t, err)
	assert.Equal(t, 23*time.Hour-time.Millisecond, dst.End.Sub(dst.Start))
}

func TestCrossesMidnight(t *testing.T) {
	assert.True(t, CrossesMidnight("22:00", "02:00"))
	assert.True(t, CrossesMidnight("09:00", "09:00"))
	assert.False(t, CrossesMidnight("09:00", "17:00"))
	assert.False(t, CrossesMidnight("00:00", "23:59"))
}

func TestValidClock(t *testing.T) {
	for _, ok := range []string{"00:00", "09:30", "23:59"} {
		assert.True(t, ValidClock(ok), ok)
	}
	for _, bad := range []string{"24:00", "9:30", "12:60", "12-30", "", "12:3"} {
		assert.False(t, ValidClock(bad), bad)
	}
}

func TestDurationMinutes(t *testing.T) {
	d, err := DurationMinutes("09:00", "17:00")
	require.NoError(t, err)
	assert.Equal(t, 480, d)

	_, err = DurationMinutes("17:00", "09:00")
	assert.Error(t, err)
}

func TestExpandDates(t *testing.T) {
	dates, err := ExpandDates("2025-01-20", "2025-01-22")
	require.NoError(t, err)
	assert.Equal(t, []string{"2025-01-20", "2025-01-21", "2025-01-22"}, dates)

	single, err := ExpandDates("2025-03-09", "2025-03-09")
	require.NoError(t, err)
	assert.Equal(t, []string{"2025-03-09"}, single)

	_, err = ExpandDates("2025-01-22", "2025-01-20")
	assert.Error(t, err)
}

func TestDaysBetweenAndAddDays(t *testing.T) {
	n, err := DaysBetween("2025-01-01", "2025-01-31")
	require.NoError(t, err)
	assert.Equal(t, 30, n)

	n, err = DaysBetween("2025-01-05", "2025-01-01")
	require.NoError(t, err)
	assert.Equal(t, -4, n)

	next, err := AddDays("2025-02-28", 1)
	require.NoError(t, err)
	assert.Equal(t, "2025-03-01", next)
}

func TestLoadLocationFallback(t *testing.T) {
	la := mustLoad(t, "America/Los_Angeles")

	loc, err := LoadLocation("", la)
	require.NoError(t, err)
	assert.Equal(t, la, loc)

	loc, err = LoadLocation("Europe/Berlin", la)
	require.NoError(t, err)
	assert.Equal(t, "Europe/Berlin", loc.String())

	_, err = LoadLocation("Nowhere/Land", la)
	assert.Error(t, err)
}
