package domain

import (
	"strconv"
	"strings"
	"time"
)

// DisplayDateLayout is the layout confirmations store their arrival and departure dates in.
const DisplayDateLayout = "02/01/2006"

// ParseDate converts a stored date string into a UTC calendar date.
// Confirmations store DD/MM/YYYY while transactions and expenses use ISO dates,
// so both are accepted; DD/MM/YYYY is tried first. The boolean is false when the
// value is empty, has the wrong number of segments, or names an impossible day.
func ParseDate(raw string) (time.Time, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, false
	}
	if strings.Contains(s, "/") {
		return parseDMY(s)
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, true
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return DateOnly(t), true
	}
	return time.Time{}, false
}

func parseDMY(s string) (time.Time, bool) {
	parts := strings.Split(s, "/")
	if len(parts) != 3 {
		return time.Time{}, false
	}
	day, errD := strconv.Atoi(parts[0])
	month, errM := strconv.Atoi(parts[1])
	year, errY := strconv.Atoi(parts[2])
	if errD != nil || errM != nil || errY != nil || len(parts[2]) != 4 {
		return time.Time{}, false
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	// time.Date normalises overflow (31/02 -> 03/03); reject those.
	if t.Day() != day || int(t.Month()) != month || t.Year() != year {
		return time.Time{}, false
	}
	return t, true
}

// FormatDisplayDate renders a date the way confirmations store it.
func FormatDisplayDate(t time.Time) string {
	return t.Format(DisplayDateLayout)
}

// DateOnly truncates a timestamp to its UTC calendar date.
func DateOnly(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// DateRange is an inclusive calendar-date filter. A nil bound is open.
type DateRange struct {
	From *time.Time `json:"from,omitempty"`
	To   *time.Time `json:"to,omitempty"`
}

// Active reports whether at least one bound is set.
func (r DateRange) Active() bool {
	return r.From != nil || r.To != nil
}

// Contains reports whether the date lies in the range. An unparseable date
// (ok == false) is excluded whenever the range is active and included otherwise.
func (r DateRange) Contains(t time.Time, ok bool) bool {
	if !r.Active() {
		return true
	}
	if !ok {
		return false
	}
	d := DateOnly(t)
	if r.From != nil && d.Before(DateOnly(*r.From)) {
		return false
	}
	if r.To != nil && d.After(DateOnly(*r.To)) {
		return false
	}
	return true
}

// ContainsRaw parses the stored string and applies Contains.
func (r DateRange) ContainsRaw(raw string) bool {
	t, ok := ParseDate(raw)
	return r.Contains(t, ok)
}
