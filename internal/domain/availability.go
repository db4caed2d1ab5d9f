package domain

import (
	"math"
	"strings"
)

// ComplianceStatus is a value object classifying availability against an SLA
// target. It is the single source of truth for the threshold ladder; host and
// group code paths must both classify through Classify.
type ComplianceStatus string

const (
	StatusCompliant ComplianceStatus = "COMPLIANT"
	StatusWarning   ComplianceStatus = "WARNING"
	StatusBreach    ComplianceStatus = "BREACH"
)

// String returns string representation
func (s ComplianceStatus) String() string {
	return string(s)
}

// IsValid checks if status is one of allowed values
func (s ComplianceStatus) IsValid() bool {
	switch s {
	case StatusCompliant, StatusWarning, StatusBreach:
		return true
	}
	return false
}

// NewComplianceStatus creates a ComplianceStatus from string with validation
func NewComplianceStatus(s string) (ComplianceStatus, bool) {
	normalized := ComplianceStatus(strings.ToUpper(strings.TrimSpace(s)))
	if !normalized.IsValid() {
		return "", false
	}
	return normalized, true
}

// Classify applies the two-threshold ladder:
//
//	availabilityPct >= slaTarget            -> COMPLIANT
//	availabilityPct >= slaTarget - warnBand -> WARNING
//	otherwise                               -> BREACH
//
// warnBand is a band width subtracted from the target, not an absolute floor.
func Classify(availabilityPct, slaTarget, warnBand float64) ComplianceStatus {
	switch {
	case availabilityPct >= slaTarget:
		return StatusCompliant
	case availabilityPct >= slaTarget-warnBand:
		return StatusWarning
	default:
		return StatusBreach
	}
}

// HostAvailability holds the measured availability of one host over one
// window, carrying the raw seconds so aggregation can weight by time
type HostAvailability struct {
	HostID          string
	Window          TimeWindow
	DowntimeSeconds int64
	TotalSeconds    int64
	AvailabilityPct float64
}

// EvaluateHost converts downtime seconds and window length into an
// availability percentage rounded to 2 decimal places. A zero-length window
// yields 100.0 rather than a division by zero, and downtime exceeding the
// window length (overlapping source incidents) clamps the percentage at 0.
func EvaluateHost(hostID string, w TimeWindow, downtimeSeconds int64) HostAvailability {
	totalSeconds := w.Seconds()

	pct := 100.0
	if totalSeconds > 0 {
		pct = float64(totalSeconds-downtimeSeconds) / float64(totalSeconds) * 100
	}
	if pct < 0 {
		pct = 0
	}

	return HostAvailability{
		HostID:          hostID,
		Window:          w,
		DowntimeSeconds: downtimeSeconds,
		TotalSeconds:    totalSeconds,
		AvailabilityPct: roundPct(pct),
	}
}

// roundPct rounds to 2 decimal places, the reporting precision
func roundPct(pct float64) float64 {
	return math.Round(pct*100) / 100
}
