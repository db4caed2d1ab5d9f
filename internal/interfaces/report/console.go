package report

import (
	"context"

	"github.com/sirupsen/logrus"

	"zabbix-sla/internal/domain"
)

// ConsoleSink logs a one-line summary per group at the end of a run. It is
// stacked on top of a file sink so operators get the verdict without opening
// the artifact.
type ConsoleSink struct{}

var _ domain.ReportSink = (*ConsoleSink)(nil)

func NewConsoleSink() *ConsoleSink {
	return &ConsoleSink{}
}

func (s *ConsoleSink) Write(ctx context.Context, report *domain.RunReport) error {
	for _, group := range report.Groups {
		summary := group.Summary
		logrus.WithFields(logrus.Fields{
			"group":     summary.GroupName,
			"sla":       summary.OverallSLA,
			"target":    summary.SLATarget,
			"status":    summary.Status.String(),
			"hosts":     summary.Total,
			"compliant": summary.Compliant,
			"warning":   summary.Warning,
			"breach":    summary.Breach,
			"skipped":   len(summary.SkippedHosts),
		}).Info("Group SLA summary")
	}
	for _, warning := range report.Warnings {
		logrus.Warn(warning)
	}
	return nil
}

// MultiSink fans a report out to several sinks in order, stopping at the
// first failure
type MultiSink []domain.ReportSink

func (m MultiSink) Write(ctx context.Context, report *domain.RunReport) error {
	for _, sink := range m {
		if err := sink.Write(ctx, report); err != nil {
			return err
		}
	}
	return nil
}
