package application

import (
	"context"
	"time"

	"zabbix-sla/internal/domain"
)

// MockIncidentSource is a mock implementation of domain.IncidentSource
type MockIncidentSource struct {
	Groups     []domain.HostGroup
	HostsByGID map[string][]domain.Host
	Incidents  map[string][]domain.IncidentRecord // keyed by host id
	Recoveries map[string]time.Time

	FetchIncidentsFunc       func(ctx context.Context, hostID string, from, till time.Time) ([]domain.IncidentRecord, error)
	FetchIncidentsBeforeFunc func(ctx context.Context, hostID string, till time.Time, limit int) ([]domain.IncidentRecord, error)
	FetchRecoveryTimesFunc   func(ctx context.Context, ids []string) (map[string]time.Time, error)
	FetchHostsInGroupFunc    func(ctx context.Context, groupID string) ([]domain.Host, error)
	FetchGroupsFunc          func(ctx context.Context, names []string) ([]domain.HostGroup, error)
}

func NewMockIncidentSource() *MockIncidentSource {
	return &MockIncidentSource{
		HostsByGID: make(map[string][]domain.Host),
		Incidents:  make(map[string][]domain.IncidentRecord),
		Recoveries: make(map[string]time.Time),
	}
}

func (m *MockIncidentSource) FetchIncidents(ctx context.Context, hostID string, from, till time.Time) ([]domain.IncidentRecord, error) {
	if m.FetchIncidentsFunc != nil {
		return m.FetchIncidentsFunc(ctx, hostID, from, till)
	}
	var result []domain.IncidentRecord
	for _, incident := range m.Incidents[hostID] {
		if !incident.StartTime.Before(from) && !incident.StartTime.After(till) {
			result = append(result, incident)
		}
	}
	return result, nil
}

func (m *MockIncidentSource) FetchIncidentsBefore(ctx context.Context, hostID string, till time.Time, limit int) ([]domain.IncidentRecord, error) {
	if m.FetchIncidentsBeforeFunc != nil {
		return m.FetchIncidentsBeforeFunc(ctx, hostID, till, limit)
	}
	var result []domain.IncidentRecord
	for _, incident := range m.Incidents[hostID] {
		if incident.StartTime.After(till) {
			continue
		}
		result = append(result, incident)
		if len(result) == limit {
			break
		}
	}
	return result, nil
}

func (m *MockIncidentSource) FetchRecoveryTimes(ctx context.Context, ids []string) (map[string]time.Time, error) {
	if m.FetchRecoveryTimesFunc != nil {
		return m.FetchRecoveryTimesFunc(ctx, ids)
	}
	result := make(map[string]time.Time)
	for _, id := range ids {
		if t, ok := m.Recoveries[id]; ok {
			result[id] = t
		}
	}
	return result, nil
}

func (m *MockIncidentSource) FetchHostsInGroup(ctx context.Context, groupID string) ([]domain.Host, error) {
	if m.FetchHostsInGroupFunc != nil {
		return m.FetchHostsInGroupFunc(ctx, groupID)
	}
	return m.HostsByGID[groupID], nil
}

func (m *MockIncidentSource) FetchGroups(ctx context.Context, names []string) ([]domain.HostGroup, error) {
	if m.FetchGroupsFunc != nil {
		return m.FetchGroupsFunc(ctx, names)
	}
	return m.Groups, nil
}
