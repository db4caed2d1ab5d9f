package domain

import (
	"testing"
	"time"
)

func TestNewWindowKind(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected WindowKind
		wantErr  bool
	}{
		{"day", "day", WindowDay, false},
		{"week", "week", WindowWeek, false},
		{"month", "month", WindowMonth, false},
		{"uppercase", "DAY", WindowDay, false},
		{"whitespace", " week ", WindowWeek, false},
		{"invalid", "year", "", true},
		{"empty", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kind, err := NewWindowKind(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error for %q", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if kind != tt.expected {
				t.Errorf("NewWindowKind(%q) = %q, want %q", tt.input, kind, tt.expected)
			}
		})
	}
}

func TestTimeWindow_Seconds(t *testing.T) {
	start := time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC)
	w := TimeWindow{Start: start, End: start.Add(24*time.Hour - time.Second)}

	if got := w.Seconds(); got != 86399 {
		t.Errorf("expected 86399 seconds, got %d", got)
	}
}

func TestTimeWindow_IsValid(t *testing.T) {
	now := time.Now()

	if !(TimeWindow{Start: now, End: now.Add(time.Hour)}).IsValid() {
		t.Error("expected window with End after Start to be valid")
	}
	if (TimeWindow{Start: now, End: now}).IsValid() {
		t.Error("expected zero-length window to be invalid")
	}
	if (TimeWindow{Start: now, End: now.Add(-time.Hour)}).IsValid() {
		t.Error("expected inverted window to be invalid")
	}
}

func TestComputeWindows_RollingWindows(t *testing.T) {
	// Reference: 2024-05-15 10:30:00 UTC
	ref := time.Date(2024, 5, 15, 10, 30, 0, 0, time.UTC)
	windows := ComputeWindows(ref, time.UTC)

	wantDayStart := time.Date(2024, 5, 14, 0, 0, 0, 0, time.UTC)
	wantEnd := time.Date(2024, 5, 14, 23, 59, 59, 0, time.UTC)

	if !windows.Day.Start.Equal(wantDayStart) {
		t.Errorf("day start = %v, want %v", windows.Day.Start, wantDayStart)
	}
	if !windows.Day.End.Equal(wantEnd) {
		t.Errorf("day end = %v, want %v", windows.Day.End, wantEnd)
	}

	wantWeekStart := time.Date(2024, 5, 8, 0, 0, 0, 0, time.UTC)
	if !windows.Week.Start.Equal(wantWeekStart) {
		t.Errorf("week start = %v, want %v", windows.Week.Start, wantWeekStart)
	}
	if !windows.Week.End.Equal(wantEnd) {
		t.Errorf("week end = %v, want %v", windows.Week.End, wantEnd)
	}

	// Both rolling windows exclude the partial current day
	if !windows.Day.End.Before(ref) {
		t.Error("expected day window to end before the reference instant")
	}
}

func TestComputeWindows_PreviousMonth(t *testing.T) {
	tests := []struct {
		name      string
		ref       time.Time
		wantStart time.Time
		wantEnd   time.Time
	}{
		{
			"mid month",
			time.Date(2024, 5, 15, 10, 0, 0, 0, time.UTC),
			time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC),
			time.Date(2024, 4, 30, 23, 59, 59, 0, time.UTC),
		},
		{
			"january rolls back to december",
			time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC),
			time.Date(2023, 12, 1, 0, 0, 0, 0, time.UTC),
			time.Date(2023, 12, 31, 23, 59, 59, 0, time.UTC),
		},
		{
			"march catches leap february",
			time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC),
			time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
			time.Date(2024, 2, 29, 23, 59, 59, 0, time.UTC),
		},
		{
			"first of month",
			time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
			time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
			time.Date(2024, 5, 31, 23, 59, 59, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			windows := ComputeWindows(tt.ref, time.UTC)
			if !windows.Month.Start.Equal(tt.wantStart) {
				t.Errorf("month start = %v, want %v", windows.Month.Start, tt.wantStart)
			}
			if !windows.Month.End.Equal(tt.wantEnd) {
				t.Errorf("month end = %v, want %v", windows.Month.End, tt.wantEnd)
			}
		})
	}
}

func TestComputeWindows_Deterministic(t *testing.T) {
	ref := time.Date(2024, 5, 15, 10, 30, 0, 0, time.UTC)

	first := ComputeWindows(ref, time.UTC)
	second := ComputeWindows(ref, time.UTC)

	if first != second {
		t.Errorf("expected identical windows for identical inputs: %+v vs %+v", first, second)
	}
}

func TestComputeWindows_TimezoneMatters(t *testing.T) {
	// 01:00 UTC on May 15 is still May 14 in New York; midnights differ
	ref := time.Date(2024, 5, 15, 1, 0, 0, 0, time.UTC)
	ny, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}

	utcWindows := ComputeWindows(ref, time.UTC)
	nyWindows := ComputeWindows(ref, ny)

	if utcWindows.Day.Start.Equal(nyWindows.Day.Start) {
		t.Error("expected different day window starts across timezones")
	}
}

func TestReportWindows_Get(t *testing.T) {
	ref := time.Date(2024, 5, 15, 0, 0, 0, 0, time.UTC)
	windows := ComputeWindows(ref, time.UTC)

	if got := windows.Get(WindowDay); got != windows.Day {
		t.Errorf("Get(day) = %v, want %v", got, windows.Day)
	}
	if got := windows.Get(WindowWeek); got != windows.Week {
		t.Errorf("Get(week) = %v, want %v", got, windows.Week)
	}
	if got := windows.Get(WindowMonth); got != windows.Month {
		t.Errorf("Get(month) = %v, want %v", got, windows.Month)
	}
	if got := windows.Get("bogus"); got != (TimeWindow{}) {
		t.Errorf("Get(bogus) = %v, want zero window", got)
	}
}
