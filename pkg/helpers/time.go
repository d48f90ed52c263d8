package helpers

import (
	"errors"
	"strings"
	"time"
)

// DisplayLayout is the wall-clock format used in API payloads.
const DisplayLayout = "2006-01-02 15:04:05"

var ErrInvalidISO8601 = errors.New("invalid ISO-8601 date")

var offsetLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02T15:04:05-0700", // basic offset, e.g. 2024-05-01T09:00:00+0200
	"2006-01-02T15:04Z07:00",
}

var localLayouts = []string{
	"2006-01-02T15:04:05",
	DisplayLayout,
	"2006-01-02T15:04",
}

// ParseISO8601 accepts RFC 3339 timestamps (T or space separated, seconds optional)
// and offset-less local times, including DisplayLayout. Offset-less values are read in loc.
func ParseISO8601(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, ErrInvalidISO8601
	}
	if loc == nil {
		loc = time.Local
	}
	for _, layout := range offsetLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	for _, layout := range localLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, ErrInvalidISO8601
}

// DayBounds returns 00:00:00 and 23:59:59 of the calendar day containing t in loc.
func DayBounds(t time.Time, loc *time.Location) (time.Time, time.Time) {
	if loc == nil {
		loc = time.Local
	}
	t = t.In(loc)
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
	end := start.AddDate(0, 0, 1).Add(-time.Second)
	return start, end
}

func FormatDisplay(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}
	return t.In(loc).Format(DisplayLayout)
}

func FormatDisplayPtr(t *time.Time, loc *time.Location) *string {
	if t == nil {
		return nil
	}
	s := FormatDisplay(*t, loc)
	return &s
}
