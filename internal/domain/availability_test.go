package domain

import (
	"testing"
	"time"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name      string
		pct       float64
		target    float64
		warnBand  float64
		expected  ComplianceStatus
	}{
		{"exactly at target", 99.9, 99.9, 5.0, StatusCompliant},
		{"above target", 100.0, 99.9, 5.0, StatusCompliant},
		{"inside warn band", 96.0, 99.9, 5.0, StatusWarning},
		{"at warn band floor", 94.9, 99.9, 5.0, StatusWarning},
		{"below warn band", 90.0, 99.9, 5.0, StatusBreach},
		{"just below target", 99.89, 99.9, 5.0, StatusWarning},
		{"zero warn band below target", 99.89, 99.9, 0, StatusBreach},
		{"zero availability", 0, 99.9, 5.0, StatusBreach},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.pct, tt.target, tt.warnBand); got != tt.expected {
				t.Errorf("Classify(%v, %v, %v) = %q, want %q",
					tt.pct, tt.target, tt.warnBand, got, tt.expected)
			}
		})
	}
}

func TestNewComplianceStatus(t *testing.T) {
	if status, ok := NewComplianceStatus("compliant"); !ok || status != StatusCompliant {
		t.Errorf("expected COMPLIANT, got %q ok=%v", status, ok)
	}
	if status, ok := NewComplianceStatus(" Warning "); !ok || status != StatusWarning {
		t.Errorf("expected WARNING, got %q ok=%v", status, ok)
	}
	if _, ok := NewComplianceStatus("ok"); ok {
		t.Error("expected invalid status to be rejected")
	}
}

func TestEvaluateHost(t *testing.T) {
	day := testWindow(0, 86400)

	tests := []struct {
		name         string
		window       TimeWindow
		downtime     int64
		expectedPct  float64
	}{
		{"no downtime", day, 0, 100.0},
		{"half downtime", day, 43200, 50.0},
		{"full downtime", day, 86400, 0.0},
		{"unresolved from t0+1000", day, 85400, 1.16},
		{"rounded to 2 decimals", day, 1, 100.0}, // 99.99884 -> 100.0
		{"small downtime", day, 864, 99.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := EvaluateHost("h1", tt.window, tt.downtime)
			if result.AvailabilityPct != tt.expectedPct {
				t.Errorf("expected %v%%, got %v%%", tt.expectedPct, result.AvailabilityPct)
			}
			if result.DowntimeSeconds != tt.downtime {
				t.Errorf("expected downtime %d carried through, got %d", tt.downtime, result.DowntimeSeconds)
			}
			if result.TotalSeconds != tt.window.Seconds() {
				t.Errorf("expected total %d, got %d", tt.window.Seconds(), result.TotalSeconds)
			}
		})
	}
}

func TestEvaluateHost_ZeroLengthWindow(t *testing.T) {
	w := TimeWindow{Start: time.Unix(1000, 0), End: time.Unix(1000, 0)}

	result := EvaluateHost("h1", w, 0)
	if result.AvailabilityPct != 100.0 {
		t.Errorf("expected 100%% for zero-length window, got %v", result.AvailabilityPct)
	}
}

func TestEvaluateHost_OverlapClampsAtZero(t *testing.T) {
	// Overlapping source incidents can push computed downtime above the
	// window length; availability clamps at 0 rather than going negative
	w := testWindow(0, 1000)

	result := EvaluateHost("h1", w, 1500)
	if result.AvailabilityPct != 0.0 {
		t.Errorf("expected 0%% when downtime exceeds window, got %v", result.AvailabilityPct)
	}
}

func TestEvaluateHost_MonotonicInDowntime(t *testing.T) {
	w := testWindow(0, 86400)

	prev := 101.0
	for _, downtime := range []int64{0, 1000, 10000, 43200, 86400} {
		pct := EvaluateHost("h1", w, downtime).AvailabilityPct
		if pct > prev {
			t.Errorf("availability increased from %v to %v as downtime grew to %d", prev, pct, downtime)
		}
		prev = pct
	}
}
