package domain

import (
	"fmt"
	"strings"
	"time"
)

// WindowKind names one of the three fixed reporting windows
type WindowKind string

const (
	WindowDay   WindowKind = "day"
	WindowWeek  WindowKind = "week"
	WindowMonth WindowKind = "month"
)

// WindowKinds returns all kinds in report order
func WindowKinds() []WindowKind {
	return []WindowKind{WindowDay, WindowWeek, WindowMonth}
}

// NewWindowKind parses a user-supplied period string
func NewWindowKind(s string) (WindowKind, error) {
	kind := WindowKind(strings.ToLower(strings.TrimSpace(s)))
	if !kind.IsValid() {
		return "", fmt.Errorf("invalid period %q, must be one of day, week, month", s)
	}
	return kind, nil
}

func (k WindowKind) IsValid() bool {
	switch k {
	case WindowDay, WindowWeek, WindowMonth:
		return true
	}
	return false
}

func (k WindowKind) String() string {
	return string(k)
}

// Label returns the human-facing column label for the kind
func (k WindowKind) Label() string {
	switch k {
	case WindowDay:
		return "Last Day"
	case WindowWeek:
		return "Last Week"
	case WindowMonth:
		return "Last Month"
	}
	return string(k)
}

// TimeWindow is a closed interval of wall-clock time. End is inclusive at
// second granularity, so a full day runs 00:00:00 through 23:59:59.
type TimeWindow struct {
	Start time.Time
	End   time.Time
}

// Seconds returns the window length in whole seconds
func (w TimeWindow) Seconds() int64 {
	return int64(w.End.Sub(w.Start) / time.Second)
}

// IsValid reports whether the window has positive length
func (w TimeWindow) IsValid() bool {
	return w.End.After(w.Start)
}

// Contains reports whether t falls within the window, bounds inclusive
func (w TimeWindow) Contains(t time.Time) bool {
	return !t.Before(w.Start) && !t.After(w.End)
}

func (w TimeWindow) String() string {
	return fmt.Sprintf("%s - %s", w.Start.Format("2006-01-02 15:04:05"), w.End.Format("2006-01-02 15:04:05"))
}

// ReportWindows holds the three evaluation windows derived from one
// reference instant
type ReportWindows struct {
	Day   TimeWindow
	Week  TimeWindow
	Month TimeWindow
}

// Get returns the window for the given kind, or a zero window for an
// unknown kind
func (r ReportWindows) Get(kind WindowKind) TimeWindow {
	switch kind {
	case WindowDay:
		return r.Day
	case WindowWeek:
		return r.Week
	case WindowMonth:
		return r.Month
	}
	return TimeWindow{}
}

// ComputeWindows derives the reporting windows from a reference instant in
// the given location. All three windows end at 23:59:59 of the day before
// the reference day; the month window is the previous full calendar month.
func ComputeWindows(ref time.Time, loc *time.Location) ReportWindows {
	local := ref.In(loc)
	midnight := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
	yesterdayEnd := midnight.Add(-time.Second)

	firstOfThisMonth := time.Date(local.Year(), local.Month(), 1, 0, 0, 0, 0, loc)
	lastMonthEnd := firstOfThisMonth.Add(-time.Second)
	lastMonthStart := time.Date(lastMonthEnd.Year(), lastMonthEnd.Month(), 1, 0, 0, 0, 0, loc)

	return ReportWindows{
		Day:   TimeWindow{Start: midnight.AddDate(0, 0, -1), End: yesterdayEnd},
		Week:  TimeWindow{Start: midnight.AddDate(0, 0, -7), End: yesterdayEnd},
		Month: TimeWindow{Start: lastMonthStart, End: lastMonthEnd},
	}
}
