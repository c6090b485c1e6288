package trips

import (
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// ErrNoWindow is returned when no replacement window can be determined.
var ErrNoWindow = errors.New("trips: no replacement window")

// Window is the half-open interval [Start, End) of pickup times a run
// replaces.
type Window struct {
	Start time.Time
	End   time.Time
}

// NewWindow validates and returns [start, end).
func NewWindow(start, end time.Time) (Window, error) {
	if start.IsZero() || end.IsZero() {
		return Window{}, fmt.Errorf("%w: start and end are required", ErrNoWindow)
	}
	if !start.Before(end) {
		return Window{}, fmt.Errorf("%w: start %s is not before end %s",
			ErrNoWindow, start.Format(time.RFC3339), end.Format(time.RFC3339))
	}
	return Window{Start: start.UTC(), End: end.UTC()}, nil
}

// MonthWindow returns the calendar month containing year/month, in UTC.
func MonthWindow(year int, month time.Month) Window {
	start := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	return Window{Start: start, End: start.AddDate(0, 1, 0)}
}

// Contains reports whether t is in [Start, End).
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && t.Before(w.End)
}

// IsZero reports whether the window is unset.
func (w Window) IsZero() bool { return w.Start.IsZero() && w.End.IsZero() }

func (w Window) String() string {
	return "[" + w.Start.Format(time.RFC3339) + ", " + w.End.Format(time.RFC3339) + ")"
}

// periodRe matches the "_YYYY-MM" period the TLC publishes in file names,
// e.g. green_tripdata_2025-11.parquet.
var periodRe = regexp.MustCompile(`_(\d{4})-(\d{2})(?:\.|$)`)

// WindowFromFilename derives the month window from a file name's declared
// period.
func WindowFromFilename(name string) (Window, error) {
	base := filepath.Base(name)
	m := periodRe.FindStringSubmatch(base)
	if m == nil {
		return Window{}, fmt.Errorf("%w: %q has no _YYYY-MM period", ErrNoWindow, base)
	}
	year, _ := strconv.Atoi(m[1])
	month, _ := strconv.Atoi(m[2])
	if month < 1 || month > 12 {
		return Window{}, fmt.Errorf("%w: %q has invalid month %02d", ErrNoWindow, base, month)
	}
	return MonthWindow(year, time.Month(month)), nil
}

// ParseBound parses a window bound as RFC3339, "2006-01-02T15:04:05" or
// "2006-01-02" (UTC).
func ParseBound(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("trips: cannot parse window bound %q", s)
}

// ResolveWindow picks the run's window: the fixed bounds when both are set,
// otherwise the period declared in sourceName. Setting only one bound is an
// error.
func ResolveWindow(start, end, sourceName string) (Window, error) {
	start, end = strings.TrimSpace(start), strings.TrimSpace(end)
	switch {
	case start != "" && end != "":
		s, err := ParseBound(start)
		if err != nil {
			return Window{}, err
		}
		e, err := ParseBound(end)
		if err != nil {
			return Window{}, err
		}
		return NewWindow(s, e)
	case start != "" || end != "":
		return Window{}, fmt.Errorf("%w: window start and end must be set together", ErrNoWindow)
	default:
		return WindowFromFilename(sourceName)
	}
}
