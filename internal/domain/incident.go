package domain

import (
	"strings"
	"time"
)

// IncidentRecord is a problem event fetched from the monitoring system. It
// marks the start of a monitored condition; the matching recovery event (if
// any) is referenced by RecoveryID and resolved separately.
type IncidentRecord struct {
	ID         string
	HostID     string
	StartTime  time.Time
	RecoveryID string // empty means the incident is still open as of fetch time
	Category   string
}

// HasRecovery returns true if the incident references a recovery event
func (r IncidentRecord) HasRecovery() bool {
	return r.RecoveryID != ""
}

// MatchesCategory reports whether the incident's category contains the
// configured unavailability signature, case-insensitively
func (r IncidentRecord) MatchesCategory(signature string) bool {
	return strings.Contains(strings.ToLower(r.Category), strings.ToLower(signature))
}

// DowntimeWithin reconstructs the total downtime seconds attributable to
// matching incidents inside the window.
//
// Incidents whose category does not contain signature are ignored entirely.
// For each qualifying incident the end instant is the recovery time from
// recoveries; an incident with no recovery id, or whose recovery id is absent
// from the map, is treated as still open through window.End. Intervals are
// clamped to the window boundaries before measuring.
//
// Overlapping incident intervals are summed independently, not merged into a
// union; the upstream system treats incidents of one category as
// non-overlapping, and this mirrors how it counts them. Callers must clamp
// the derived availability at 0% in case upstream data violates that
// assumption.
//
// The second return value counts incidents whose recovery id was missing
// from the map, a data inconsistency worth logging but not an error.
func DowntimeWithin(w TimeWindow, incidents []IncidentRecord, recoveries map[string]time.Time, signature string) (int64, int) {
	var downtime int64
	missing := 0

	for _, incident := range incidents {
		if !incident.MatchesCategory(signature) {
			continue
		}

		end := w.End
		if incident.HasRecovery() {
			if recoveryTime, ok := recoveries[incident.RecoveryID]; ok {
				end = recoveryTime
			} else {
				missing++
			}
		}

		effectiveStart := incident.StartTime
		if w.Start.After(effectiveStart) {
			effectiveStart = w.Start
		}
		effectiveEnd := end
		if w.End.Before(effectiveEnd) {
			effectiveEnd = w.End
		}

		if effectiveEnd.After(effectiveStart) {
			downtime += int64(effectiveEnd.Sub(effectiveStart) / time.Second)
		}
	}

	return downtime, missing
}

// CollectRecoveryIDs gathers the distinct recovery event ids referenced by
// the given incidents, preserving first-seen order, so recovery times can be
// resolved with a single batched fetch instead of one request per incident
func CollectRecoveryIDs(incidents []IncidentRecord) []string {
	seen := make(map[string]bool)
	var ids []string
	for _, incident := range incidents {
		if !incident.HasRecovery() || seen[incident.RecoveryID] {
			continue
		}
		seen[incident.RecoveryID] = true
		ids = append(ids, incident.RecoveryID)
	}
	return ids
}
