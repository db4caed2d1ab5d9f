package domain

import (
	"time"
)

// Host identifies a monitored host. DisplayName is the human-facing name,
// TechnicalName the monitoring system's identifier; exclusion lists match
// against either.
type Host struct {
	ID            string
	TechnicalName string
	DisplayName   string
}

// HostGroup is a named collection of hosts in the monitoring system
type HostGroup struct {
	ID   string
	Name string
}

// HostReport carries one host's evaluated availability for all three windows
// plus the device SLA for the report's selected period
type HostReport struct {
	Host    Host
	Windows map[WindowKind]HostAvailability

	// DeviceSLA is the availability for the selected period; the host's
	// compliance status is classified from it alone, one status per host
	DeviceSLA float64
	Status    ComplianceStatus
}

// NewHostReport builds a HostReport, deriving the device SLA and status from
// the selected period's availability
func NewHostReport(host Host, windows map[WindowKind]HostAvailability, selected WindowKind, slaTarget, warnBand float64) HostReport {
	deviceSLA := 100.0
	if avail, ok := windows[selected]; ok {
		deviceSLA = avail.AvailabilityPct
	}
	return HostReport{
		Host:      host,
		Windows:   windows,
		DeviceSLA: deviceSLA,
		Status:    Classify(deviceSLA, slaTarget, warnBand),
	}
}

// GroupSummary is the terminal aggregate artifact for one host group
type GroupSummary struct {
	GroupName string
	SLATarget float64
	WarnBand  float64

	// Overall holds the time-weighted group SLA per window; OverallSLA is the
	// value for the selected period and drives Status
	Overall    map[WindowKind]float64
	OverallSLA float64
	Status     ComplianceStatus

	Total     int
	Compliant int
	Warning   int
	Breach    int

	// SkippedHosts lists hosts dropped because their data could not be
	// fetched; they contribute to no counts but must stay visible so a
	// missing host is never mistaken for a compliant one
	SkippedHosts []string
}

// AggregateGroup folds evaluated host reports into a GroupSummary.
//
// The per-window overall SLA is time-weighted, not averaged: it is the
// fraction of total host-seconds available,
// (sum total - sum downtime) / sum total * 100 across all included hosts.
// Averaging percentages would let a host measured over a short window skew
// the group metric disproportionately to its actual downtime contribution.
//
// A group with no eligible hosts yields 100.0 overall for every window and
// zero counts; that is a defined outcome, not an error.
func AggregateGroup(groupName string, hosts []HostReport, skipped []string, selected WindowKind, slaTarget, warnBand float64) GroupSummary {
	summary := GroupSummary{
		GroupName:    groupName,
		SLATarget:    slaTarget,
		WarnBand:     warnBand,
		Overall:      make(map[WindowKind]float64, len(WindowKinds())),
		SkippedHosts: skipped,
	}

	for _, kind := range WindowKinds() {
		var totalSeconds, downtimeSeconds int64
		for _, host := range hosts {
			if avail, ok := host.Windows[kind]; ok {
				totalSeconds += avail.TotalSeconds
				downtimeSeconds += avail.DowntimeSeconds
			}
		}

		overall := 100.0
		if totalSeconds > 0 {
			overall = float64(totalSeconds-downtimeSeconds) / float64(totalSeconds) * 100
		}
		if overall < 0 {
			overall = 0
		}
		summary.Overall[kind] = roundPct(overall)
	}

	for _, host := range hosts {
		summary.Total++
		switch host.Status {
		case StatusCompliant:
			summary.Compliant++
		case StatusWarning:
			summary.Warning++
		case StatusBreach:
			summary.Breach++
		}
	}

	summary.OverallSLA = summary.Overall[selected]
	summary.Status = Classify(summary.OverallSLA, slaTarget, warnBand)
	return summary
}

// GroupReport pairs a group's summary with its ordered per-host detail
type GroupReport struct {
	Summary GroupSummary
	Hosts   []HostReport
}

// RunReport is the run-level collection handed to report sinks
type RunReport struct {
	RunID       string
	GeneratedAt time.Time
	Period      WindowKind
	Windows     ReportWindows
	Groups      []GroupReport
	TotalHosts  int

	// Warnings carries non-fatal run-level problems (missing groups, skipped
	// hosts) so they surface in output instead of being absorbed silently
	Warnings []string
}
