package report

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"

	"zabbix-sla/internal/domain"
)

// JSONSink writes run reports as indented JSON files. In combined mode it
// produces one file covering every group; in separate mode one file per
// group, each carrying the run metadata alongside that group alone.
type JSONSink struct {
	opts Options
}

var _ domain.ReportSink = (*JSONSink)(nil)

func NewJSONSink(opts Options) *JSONSink {
	return &JSONSink{opts: opts}
}

func (s *JSONSink) Write(ctx context.Context, report *domain.RunReport) error {
	if s.opts.Mode == ModeSeparate {
		for _, group := range report.Groups {
			if err := ctx.Err(); err != nil {
				return err
			}
			path := s.opts.target(group.Summary.GroupName, report.Period, report.GeneratedAt, "json")
			if err := s.writeFile(path, toRunReportDTO(report, []domain.GroupReport{group})); err != nil {
				return err
			}
		}
		return nil
	}

	path := s.opts.target("", report.Period, report.GeneratedAt, "json")
	return s.writeFile(path, toRunReportDTO(report, report.Groups))
}

func (s *JSONSink) writeFile(path string, dto RunReportDTO) error {
	if err := ensureDir(path); err != nil {
		return err
	}

	data, err := json.MarshalIndent(dto, "", "  ")
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write report %s: %w", path, err)
	}

	logrus.WithFields(logrus.Fields{
		"path":   path,
		"groups": len(dto.Groups),
	}).Info("JSON report written")
	return nil
}
