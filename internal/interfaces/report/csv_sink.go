package report

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"zabbix-sla/internal/domain"
)

// CSVSink writes per-host detail and a group summary as CSV. Combined mode
// puts every group's detail section in one file; separate mode writes one
// detail file per group. The summary file is written once either way.
type CSVSink struct {
	opts Options
}

var _ domain.ReportSink = (*CSVSink)(nil)

func NewCSVSink(opts Options) *CSVSink {
	return &CSVSink{opts: opts}
}

func (s *CSVSink) Write(ctx context.Context, report *domain.RunReport) error {
	if s.opts.Mode == ModeSeparate {
		for _, group := range report.Groups {
			if err := ctx.Err(); err != nil {
				return err
			}
			path := s.opts.target(group.Summary.GroupName, report.Period, report.GeneratedAt, "csv")
			if err := s.writeDetail(path, []domain.GroupReport{group}); err != nil {
				return err
			}
		}
	} else {
		path := s.opts.target("", report.Period, report.GeneratedAt, "csv")
		if err := s.writeDetail(path, report.Groups); err != nil {
			return err
		}
	}

	summaryPath := s.opts.filename("summary", report.Period, report.GeneratedAt, "csv")
	return s.writeSummary(summaryPath, report)
}

func (s *CSVSink) writeDetail(path string, groups []domain.GroupReport) error {
	if err := ensureDir(path); err != nil {
		return err
	}
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create report %s: %w", path, err)
	}
	defer file.Close()

	w := csv.NewWriter(file)
	for i, group := range groups {
		if i > 0 {
			// blank separator between group sections
			if err := w.Write([]string{}); err != nil {
				return err
			}
		}
		if err := s.writeGroupSection(w, group); err != nil {
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("write report %s: %w", path, err)
	}

	logrus.WithFields(logrus.Fields{
		"path":   path,
		"groups": len(groups),
	}).Info("CSV report written")
	return nil
}

func (s *CSVSink) writeGroupSection(w *csv.Writer, group domain.GroupReport) error {
	summary := group.Summary
	rows := [][]string{
		{"Group", summary.GroupName},
		{"SLA Target (%)", formatPct(summary.SLATarget)},
		{"Host", "Technical Name", "Last Day (%)", "Last Week (%)", "Last Month (%)", "Device SLA (%)", "Status"},
	}

	for _, host := range group.Hosts {
		rows = append(rows, []string{
			host.Host.DisplayName,
			host.Host.TechnicalName,
			formatWindowPct(host, domain.WindowDay),
			formatWindowPct(host, domain.WindowWeek),
			formatWindowPct(host, domain.WindowMonth),
			formatPct(host.DeviceSLA),
			host.Status.String(),
		})
	}

	rows = append(rows, []string{
		"Overall",
		"",
		formatPct(summary.Overall[domain.WindowDay]),
		formatPct(summary.Overall[domain.WindowWeek]),
		formatPct(summary.Overall[domain.WindowMonth]),
		formatPct(summary.OverallSLA),
		summary.Status.String(),
	})
	if len(summary.SkippedHosts) > 0 {
		rows = append(rows, []string{"Skipped", strings.Join(summary.SkippedHosts, "; ")})
	}

	return w.WriteAll(rows)
}

func (s *CSVSink) writeSummary(path string, report *domain.RunReport) error {
	if err := ensureDir(path); err != nil {
		return err
	}
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create summary %s: %w", path, err)
	}
	defer file.Close()

	w := csv.NewWriter(file)
	rows := [][]string{
		{"Group", "SLA Target (%)", "Overall SLA (%)", "Status", "Hosts", "Compliant", "Warning", "Breach", "Skipped"},
	}
	for _, group := range report.Groups {
		summary := group.Summary
		rows = append(rows, []string{
			summary.GroupName,
			formatPct(summary.SLATarget),
			formatPct(summary.OverallSLA),
			summary.Status.String(),
			strconv.Itoa(summary.Total),
			strconv.Itoa(summary.Compliant),
			strconv.Itoa(summary.Warning),
			strconv.Itoa(summary.Breach),
			strconv.Itoa(len(summary.SkippedHosts)),
		})
	}
	if err := w.WriteAll(rows); err != nil {
		return fmt.Errorf("write summary %s: %w", path, err)
	}

	logrus.WithField("path", path).Info("CSV summary written")
	return nil
}

func formatWindowPct(host domain.HostReport, kind domain.WindowKind) string {
	if avail, ok := host.Windows[kind]; ok {
		return formatPct(avail.AvailabilityPct)
	}
	return ""
}

func formatPct(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
