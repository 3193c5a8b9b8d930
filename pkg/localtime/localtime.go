// Package localtime converts between a user's local calendar (date + "HH:mm")
// and absolute UTC instants.
package localtime

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/teambition/rrule-go"
)

const (
	// DateLayout is the canonical local calendar date format.
	DateLayout = "2006-01-02"
	// ClockLayout is the canonical local wall-clock format.
	ClockLayout = "15:04"
)

var clockPattern = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)

// ValidClock reports whether raw is a strict 24-hour "HH:mm" value.
func ValidClock(raw string) bool {
	return clockPattern.MatchString(raw)
}

// MinuteOfDay returns the minutes elapsed since local midnight for an "HH:mm" value.
func MinuteOfDay(clock string) (int, error) {
	if !ValidClock(clock) {
		return 0, fmt.Errorf("invalid time %q, expected HH:mm", clock)
	}
	h := int(clock[0]-'0')*10 + int(clock[1]-'0')
	m := int(clock[3]-'0')*10 + int(clock[4]-'0')
	return h*60 + m, nil
}

// CrossesMidnight reports whether a from/to pair fails to move strictly forward
// within one day. Equal values count as crossing (zero duration).
func CrossesMidnight(from, to string) bool {
	return to <= from
}

// ParseDate parses a "YYYY-MM-DD" calendar date as a civil date pinned to UTC midnight.
func ParseDate(date string) (time.Time, error) {
	d, err := time.Parse(DateLayout, strings.TrimSpace(date))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", date)
	}
	return d, nil
}

// AddDays shifts a calendar date by n days.
func AddDays(date string, n int) (string, error) {
	d, err := ParseDate(date)
	if err != nil {
		return "", err
	}
	return d.AddDate(0, 0, n).Format(DateLayout), nil
}

// DaysBetween returns the number of calendar days from start to end (negative when end is earlier).
func DaysBetween(start, end string) (int, error) {
	s, err := ParseDate(start)
	if err != nil {
		return 0, err
	}
	e, err := ParseDate(end)
	if err != nil {
		return 0, err
	}
	return int(e.Sub(s).Hours() / 24), nil
}

// ExpandDates lists every calendar date from start to until inclusive.
func ExpandDates(start, until string) ([]string, error) {
	s, err := ParseDate(start)
	if err != nil {
		return nil, err
	}
	u, err := ParseDate(until)
	if err != nil {
		return nil, err
	}
	if u.Before(s) {
		return nil, fmt.Errorf("range end %s is before start %s", until, start)
	}
	rule, err := rrule.NewRRule(rrule.ROption{
		Freq:    rrule.DAILY,
		Dtstart: s,
		Until:   u,
	})
	if err != nil {
		return nil, fmt.Errorf("build daily rule: %w", err)
	}
	occurrences := rule.All()
	dates := make([]string, 0, len(occurrences))
	for _, occ := range occurrences {
		dates = append(dates, occ.UTC().Format(DateLayout))
	}
	return dates, nil
}

// LoadLocation resolves an IANA zone name, falling back when name is blank.
func LoadLocation(name string, fallback *time.Location) (*time.Location, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		if fallback == nil {
			return time.UTC, nil
		}
		return fallback, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("unknown timezone %q", name)
	}
	return loc, nil
}

// LocalToUTC composes a local date and "HH:mm" time into a UTC instant. Wall
// times skipped by a DST transition do not exist and are rejected. Repeated
// wall times resolve to the first occurrence.
func LocalToUTC(date, clock string, loc *time.Location) (time.Time, error) {
	d, err := ParseDate(date)
	if err != nil {
		return time.Time{}, err
	}
	minutes, err := MinuteOfDay(clock)
	if err != nil {
		return time.Time{}, err
	}
	if loc == nil {
		loc = time.UTC
	}
	local := time.Date(d.Year(), d.Month(), d.Day(), minutes/60, minutes%60, 0, 0, loc)
	if local.Format(ClockLayout) != clock {
		return time.Time{}, fmt.Errorf("time %s does not exist on %s in %s", clock, date, loc)
	}
	return local.UTC(), nil
}

// UTCToLocalTime projects an instant onto the zone's wall clock as "HH:mm".
func UTCToLocalTime(instant time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	return instant.In(loc).Format(ClockLayout)
}

// UTCToLocalDate projects an instant onto the zone's calendar as "YYYY-MM-DD".
func UTCToLocalDate(instant time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	return instant.In(loc).Format(DateLayout)
}

// Window is a closed UTC instant range.
type Window struct {
	Start time.Time
	End   time.Time
}

// LocalDayWindow returns the UTC instants of local 00:00:00.000 and 23:59:59.999 on date.
func LocalDayWindow(date string, loc *time.Location) (Window, error) {
	d, err := ParseDate(date)
	if err != nil {
		return Window{}, err
	}
	if loc == nil {
		loc = time.UTC
	}
	start := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, loc)
	end := time.Date(d.Year(), d.Month(), d.Day(), 23, 59, 59, int(999*time.Millisecond), loc)
	return Window{Start: start.UTC(), End: end.UTC()}, nil
}

// DurationMinutes returns to - from in minutes for a same-day "HH:mm" pair.
func DurationMinutes(from, to string) (int, error) {
	start, err := MinuteOfDay(from)
	if err != nil {
		return 0, err
	}
	end, err := MinuteOfDay(to)
	if err != nil {
		return 0, err
	}
	if end <= start {
		return 0, fmt.Errorf("time range %s-%s does not move forward within one day", from, to)
	}
	return end - start, nil
}
