package absence

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// DateLayout is the canonical calendar date format.
const DateLayout = "2006-01-02"

// ErrMalformedDate is returned when a value cannot be read as a calendar date.
var ErrMalformedDate = errors.New("malformed date")

// TruncateDate trims the raw value and keeps the leading YYYY-MM-DD part so
// timestamp suffixes do not affect comparisons.
func TruncateDate(raw string) string {
	s := strings.TrimSpace(raw)
	if len(s) > len(DateLayout) {
		s = s[:len(DateLayout)]
	}
	return strings.TrimSpace(s)
}

// ParseDate reads the truncated value as a calendar date in UTC.
func ParseDate(raw string) (time.Time, error) {
	s := TruncateDate(raw)
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrMalformedDate, raw)
	}
	return t, nil
}

// DateRange is an inclusive calendar date range.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// NewDateRange parses both bounds. A start after the end is valid and simply
// matches nothing.
func NewDateRange(start, end string) (DateRange, error) {
	s, err := ParseDate(start)
	if err != nil {
		return DateRange{}, err
	}
	e, err := ParseDate(end)
	if err != nil {
		return DateRange{}, err
	}
	return DateRange{Start: s, End: e}, nil
}

// Empty reports whether the range cannot contain any date.
func (r DateRange) Empty() bool {
	return r.Start.After(r.End)
}

// Contains reports whether t falls on or between the bounds.
func (r DateRange) Contains(t time.Time) bool {
	if r.Empty() {
		return false
	}
	return !t.Before(r.Start) && !t.After(r.End)
}

// String renders the range as "start..end".
func (r DateRange) String() string {
	return r.Start.Format(DateLayout) + ".." + r.End.Format(DateLayout)
}

// Today returns the calendar date of now in the given location.
func Today(now time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}
	return now.In(loc).Format(DateLayout)
}

// LastDays returns the range ending today and starting days earlier.
func LastDays(now time.Time, loc *time.Location, days int) DateRange {
	end, _ := time.Parse(DateLayout, Today(now, loc))
	return DateRange{Start: end.AddDate(0, 0, -days), End: end}
}
