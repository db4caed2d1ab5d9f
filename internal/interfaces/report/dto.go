package report

import (
	"time"

	"zabbix-sla/internal/domain"
)

// Serialization shapes live here so domain structs stay tag-free

type RunReportDTO struct {
	RunID       string           `json:"run_id"`
	GeneratedAt time.Time        `json:"generated_at"`
	Period      string           `json:"period"`
	Windows     WindowsDTO       `json:"windows"`
	Groups      []GroupReportDTO `json:"groups"`
	TotalHosts  int              `json:"total_hosts"`
	Warnings    []string         `json:"warnings,omitempty"`
}

type WindowsDTO struct {
	Day   WindowDTO `json:"day"`
	Week  WindowDTO `json:"week"`
	Month WindowDTO `json:"month"`
}

type WindowDTO struct {
	From    time.Time `json:"from"`
	To      time.Time `json:"to"`
	Seconds int64     `json:"seconds"`
}

type GroupReportDTO struct {
	Summary GroupSummaryDTO `json:"summary"`
	Hosts   []HostReportDTO `json:"hosts"`
}

type GroupSummaryDTO struct {
	GroupName    string             `json:"group_name"`
	SLATarget    float64            `json:"sla_target"`
	WarnBand     float64            `json:"warn_band"`
	Overall      map[string]float64 `json:"overall"`
	OverallSLA   float64            `json:"overall_sla"`
	Status       string             `json:"status"`
	Total        int                `json:"total_hosts"`
	Compliant    int                `json:"compliant"`
	Warning      int                `json:"warning"`
	Breach       int                `json:"breach"`
	SkippedHosts []string           `json:"skipped_hosts,omitempty"`
}

type HostReportDTO struct {
	HostID        string                     `json:"host_id"`
	Name          string                     `json:"name"`
	TechnicalName string                     `json:"technical_name"`
	Windows       map[string]AvailabilityDTO `json:"windows"`
	DeviceSLA     float64                    `json:"device_sla"`
	Status        string                     `json:"status"`
}

type AvailabilityDTO struct {
	AvailabilityPct float64 `json:"availability_pct"`
	DowntimeSeconds int64   `json:"downtime_seconds"`
	TotalSeconds    int64   `json:"total_seconds"`
}

func toRunReportDTO(r *domain.RunReport, groups []domain.GroupReport) RunReportDTO {
	dto := RunReportDTO{
		RunID:       r.RunID,
		GeneratedAt: r.GeneratedAt,
		Period:      r.Period.String(),
		Windows: WindowsDTO{
			Day:   toWindowDTO(r.Windows.Day),
			Week:  toWindowDTO(r.Windows.Week),
			Month: toWindowDTO(r.Windows.Month),
		},
		Groups:     make([]GroupReportDTO, 0, len(groups)),
		TotalHosts: r.TotalHosts,
		Warnings:   r.Warnings,
	}
	for _, group := range groups {
		dto.Groups = append(dto.Groups, toGroupReportDTO(group))
	}
	return dto
}

func toWindowDTO(w domain.TimeWindow) WindowDTO {
	return WindowDTO{From: w.Start, To: w.End, Seconds: w.Seconds()}
}

func toGroupReportDTO(g domain.GroupReport) GroupReportDTO {
	dto := GroupReportDTO{
		Summary: toGroupSummaryDTO(g.Summary),
		Hosts:   make([]HostReportDTO, 0, len(g.Hosts)),
	}
	for _, host := range g.Hosts {
		dto.Hosts = append(dto.Hosts, toHostReportDTO(host))
	}
	return dto
}

func toGroupSummaryDTO(s domain.GroupSummary) GroupSummaryDTO {
	overall := make(map[string]float64, len(s.Overall))
	for kind, pct := range s.Overall {
		overall[kind.String()] = pct
	}
	return GroupSummaryDTO{
		GroupName:    s.GroupName,
		SLATarget:    s.SLATarget,
		WarnBand:     s.WarnBand,
		Overall:      overall,
		OverallSLA:   s.OverallSLA,
		Status:       s.Status.String(),
		Total:        s.Total,
		Compliant:    s.Compliant,
		Warning:      s.Warning,
		Breach:       s.Breach,
		SkippedHosts: s.SkippedHosts,
	}
}

func toHostReportDTO(h domain.HostReport) HostReportDTO {
	windows := make(map[string]AvailabilityDTO, len(h.Windows))
	for kind, avail := range h.Windows {
		windows[kind.String()] = AvailabilityDTO{
			AvailabilityPct: avail.AvailabilityPct,
			DowntimeSeconds: avail.DowntimeSeconds,
			TotalSeconds:    avail.TotalSeconds,
		}
	}
	return HostReportDTO{
		HostID:        h.Host.ID,
		Name:          h.Host.DisplayName,
		TechnicalName: h.Host.TechnicalName,
		Windows:       windows,
		DeviceSLA:     h.DeviceSLA,
		Status:        h.Status.String(),
	}
}
