package domain

import (
	"context"
	"errors"
	"time"
)

// ErrNoGroups indicates that none of the configured host groups exist in the
// monitoring system; a run with zero groups is fatal
var ErrNoGroups = errors.New("no matching host groups found")

// ErrWindowInvalid indicates a reporting window with non-positive length
var ErrWindowInvalid = errors.New("invalid time window")

// IncidentSource supplies raw incident and recovery data from the monitoring
// system. Implementations own their transport, retry and timeout policy; the
// core treats any unrecoverable failure as an opaque error.
type IncidentSource interface {
	// FetchIncidents retrieves incident records for a host starting within
	// [from, till], ascending by start time
	FetchIncidents(ctx context.Context, hostID string, from, till time.Time) ([]IncidentRecord, error)

	// FetchIncidentsBefore retrieves incident records for a host starting
	// before till, descending by start time, bounded to limit. It exists to
	// catch incidents already in progress when a window opens; the bound is a
	// deliberate precision/cost tradeoff and an incident open longer than the
	// lookback horizon will be undercounted.
	FetchIncidentsBefore(ctx context.Context, hostID string, till time.Time, limit int) ([]IncidentRecord, error)

	// FetchRecoveryTimes resolves recovery event ids to their instants in a
	// single batched lookup
	FetchRecoveryTimes(ctx context.Context, ids []string) (map[string]time.Time, error)

	// FetchHostsInGroup retrieves the enabled hosts of a group
	FetchHostsInGroup(ctx context.Context, groupID string) ([]Host, error)

	// FetchGroups retrieves host groups, optionally filtered by name
	FetchGroups(ctx context.Context, names []string) ([]HostGroup, error)
}

// ReportSink consumes a finished run report for rendering or persistence
type ReportSink interface {
	Write(ctx context.Context, report *RunReport) error
}
